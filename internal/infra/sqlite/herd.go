package sqlite

import (
	"database/sql"
	"errors"

	"github.com/cerditos-farm/cerditos/internal/domain"
)

// ─── Animal Operations ──────────────────────────────────────────────────────

// UpsertAnimal inserts an animal or replaces the record with the same ear tag.
// Returns the row id.
func (db *DB) UpsertAnimal(a domain.Animal) (int64, error) {
	var id int64
	err := db.db.QueryRow(`
		INSERT INTO animals (ear_tag, category, sex, breed, birth_date, status, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(ear_tag) DO UPDATE SET
			category   = excluded.category,
			sex        = excluded.sex,
			breed      = excluded.breed,
			birth_date = excluded.birth_date,
			status     = excluded.status,
			notes      = excluded.notes
		RETURNING id
	`, a.EarTag, string(a.Category), string(a.Sex), a.Breed, dateArg(a.BirthDate), string(a.Status), a.Notes).Scan(&id)
	return id, err
}

// GetAnimal retrieves an animal by id.
func (db *DB) GetAnimal(id int64) (*domain.Animal, error) {
	row := db.db.QueryRow(`
		SELECT id, ear_tag, category, sex, breed, birth_date, status, notes
		FROM animals WHERE id = ?
	`, id)
	a, err := scanAnimal(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// ListAnimals returns every animal, newest first.
func (db *DB) ListAnimals() ([]domain.Animal, error) {
	rows, err := db.db.Query(`
		SELECT id, ear_tag, category, sex, breed, birth_date, status, notes
		FROM animals ORDER BY id DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Animal
	for rows.Next() {
		a, err := scanAnimal(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, a)
	}
	return result, rows.Err()
}

// ActiveInventory counts active animals per category.
// A missing status counts as active.
func (db *DB) ActiveInventory() (domain.InventoryCounts, error) {
	rows, err := db.db.Query(`
		SELECT category, COUNT(*) FROM animals
		WHERE IFNULL(NULLIF(status, ''), 'Activo') = 'Activo'
		GROUP BY category
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(domain.InventoryCounts)
	for rows.Next() {
		var cat string
		var n int
		if err := rows.Scan(&cat, &n); err != nil {
			return nil, err
		}
		counts[domain.Category(cat)] = n
	}
	return counts, rows.Err()
}

// ActiveSowCount returns the number of active breeding females.
func (db *DB) ActiveSowCount() (int, error) {
	var n int
	err := db.db.QueryRow(`
		SELECT COUNT(*) FROM animals
		WHERE category = ? AND IFNULL(NULLIF(status, ''), 'Activo') = 'Activo'
	`, string(domain.CategorySow)).Scan(&n)
	return n, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanAnimal(s scanner) (domain.Animal, error) {
	var a domain.Animal
	var cat, sex, status string
	var birth sql.NullString
	if err := s.Scan(&a.ID, &a.EarTag, &cat, &sex, &a.Breed, &birth, &status, &a.Notes); err != nil {
		return domain.Animal{}, err
	}
	a.Category = domain.Category(cat)
	a.Sex = domain.Sex(sex)
	a.Status = domain.AnimalStatus(status)
	var err error
	if a.BirthDate, err = scanDate(birth); err != nil {
		return domain.Animal{}, err
	}
	return a, nil
}

// ─── Mating Operations ──────────────────────────────────────────────────────

// InsertMating records a mating. ExpectedFarrowing must already be set.
func (db *DB) InsertMating(m domain.Mating) (int64, error) {
	var boar any
	if m.BoarID != nil {
		boar = *m.BoarID
	}
	res, err := db.db.Exec(`
		INSERT INTO matings (sow_id, boar_id, mated_on, method, expected_farrowing, notes)
		VALUES (?, ?, ?, ?, ?, ?)
	`, m.SowID, boar, m.MatedOn.String(), string(m.Method), m.ExpectedFarrowing.String(), m.Notes)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// GetMating retrieves a mating by id, with the sow's ear tag.
func (db *DB) GetMating(id int64) (*domain.Mating, error) {
	row := db.db.QueryRow(`
		SELECT m.id, m.sow_id, a.ear_tag, m.boar_id, m.mated_on, m.method, m.expected_farrowing, m.notes
		FROM matings m JOIN animals a ON a.id = m.sow_id
		WHERE m.id = ?
	`, id)
	m, err := scanMating(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// ListMatings returns every mating with its sow's ear tag, newest first.
func (db *DB) ListMatings() ([]domain.Mating, error) {
	rows, err := db.db.Query(`
		SELECT m.id, m.sow_id, a.ear_tag, m.boar_id, m.mated_on, m.method, m.expected_farrowing, m.notes
		FROM matings m JOIN animals a ON a.id = m.sow_id
		ORDER BY m.id DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Mating
	for rows.Next() {
		m, err := scanMating(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, m)
	}
	return result, rows.Err()
}

// UpcomingFarrowings lists matings whose expected farrowing falls in
// [from, to], earliest first.
func (db *DB) UpcomingFarrowings(from, to domain.Date) ([]domain.UpcomingFarrowing, error) {
	rows, err := db.db.Query(`
		SELECT a.ear_tag, m.expected_farrowing
		FROM matings m JOIN animals a ON a.id = m.sow_id
		WHERE m.expected_farrowing BETWEEN ? AND ?
		ORDER BY m.expected_farrowing, m.id
	`, from.String(), to.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.UpcomingFarrowing
	for rows.Next() {
		var u domain.UpcomingFarrowing
		var expected sql.NullString
		if err := rows.Scan(&u.SowTag, &expected); err != nil {
			return nil, err
		}
		if u.ExpectedFarrowing, err = scanDate(expected); err != nil {
			return nil, err
		}
		result = append(result, u)
	}
	return result, rows.Err()
}

func scanMating(s scanner) (domain.Mating, error) {
	var m domain.Mating
	var boar sql.NullInt64
	var matedOn, expected sql.NullString
	var method string
	if err := s.Scan(&m.ID, &m.SowID, &m.SowTag, &boar, &matedOn, &method, &expected, &m.Notes); err != nil {
		return domain.Mating{}, err
	}
	if boar.Valid {
		id := boar.Int64
		m.BoarID = &id
	}
	m.Method = domain.MatingMethod(method)
	var err error
	if m.MatedOn, err = scanDate(matedOn); err != nil {
		return domain.Mating{}, err
	}
	if m.ExpectedFarrowing, err = scanDate(expected); err != nil {
		return domain.Mating{}, err
	}
	return m, nil
}

// ─── Farrowing Operations ───────────────────────────────────────────────────

// InsertFarrowing records a litter and its weaning outcome.
func (db *DB) InsertFarrowing(f domain.Farrowing) (int64, error) {
	res, err := db.db.Exec(`
		INSERT INTO farrowings (mating_id, farrowed_on, born_alive, stillborn, weaned, weaned_on, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, f.MatingID, f.FarrowedOn.String(), f.BornAlive, f.Stillborn, f.Weaned, dateArg(f.WeanedOn), f.Notes)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// ListFarrowings returns every farrowing with its sow's ear tag, newest first.
func (db *DB) ListFarrowings() ([]domain.Farrowing, error) {
	rows, err := db.db.Query(`
		SELECT f.id, f.mating_id, a.ear_tag, f.farrowed_on, f.born_alive, f.stillborn, f.weaned, f.weaned_on, f.notes
		FROM farrowings f
		JOIN matings m ON m.id = f.mating_id
		JOIN animals a ON a.id = m.sow_id
		ORDER BY f.id DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Farrowing
	for rows.Next() {
		var f domain.Farrowing
		var farrowed, weanedOn sql.NullString
		if err := rows.Scan(&f.ID, &f.MatingID, &f.SowTag, &farrowed, &f.BornAlive, &f.Stillborn, &f.Weaned, &weanedOn, &f.Notes); err != nil {
			return nil, err
		}
		if f.FarrowedOn, err = scanDate(farrowed); err != nil {
			return nil, err
		}
		if f.WeanedOn, err = scanDate(weanedOn); err != nil {
			return nil, err
		}
		result = append(result, f)
	}
	return result, rows.Err()
}

// WeanedBetween sums weaned piglets from farrowings dated in [from, to].
func (db *DB) WeanedBetween(from, to domain.Date) (int, error) {
	var n int
	err := db.db.QueryRow(`
		SELECT COALESCE(SUM(weaned), 0) FROM farrowings
		WHERE farrowed_on BETWEEN ? AND ?
	`, from.String(), to.String()).Scan(&n)
	return n, err
}
