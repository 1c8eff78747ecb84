// Package sqlite is the farm record store, backed by a single SQLite file
// through the pure-Go modernc.org/sqlite driver.
package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"

	"github.com/cerditos-farm/cerditos/internal/domain"
)

// FileName is the database file created inside the storage directory.
const FileName = "cerditos.db"

// DB wraps the SQL handle. Its methods implement domain.HerdStore and
// domain.LedgerStore.
type DB struct {
	db   *sql.DB
	path string
}

var (
	_ domain.HerdStore   = (*DB)(nil)
	_ domain.LedgerStore = (*DB)(nil)
)

// Open creates dir if needed, opens dir/cerditos.db and applies the schema.
func Open(dir string) (*DB, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	path := filepath.Join(dir, FileName)
	dsn := "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)"

	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	// SQLite allows one writer; a single connection avoids SQLITE_BUSY on writes.
	sqlDB.SetMaxOpenConns(1)

	db := &DB{db: sqlDB, path: path}
	if err := db.migrate(); err != nil {
		sqlDB.Close()
		return nil, err
	}
	return db, nil
}

// Close releases the database handle.
func (db *DB) Close() error { return db.db.Close() }

// Path returns the database file path.
func (db *DB) Path() string { return db.path }

// Ping checks the connection (health endpoint).
func (db *DB) Ping() error { return db.db.Ping() }

func (db *DB) migrate() error {
	for _, stmt := range Migrations() {
		if _, err := db.db.Exec(stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

// ─── Schema ─────────────────────────────────────────────────────────────────

// Migrations returns the schema statements, one per element.
// Dates are TEXT YYYY-MM-DD; money is TEXT holding a decimal string.
func Migrations() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS animals (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			ear_tag    TEXT NOT NULL UNIQUE,
			category   TEXT NOT NULL,
			sex        TEXT NOT NULL,
			breed      TEXT NOT NULL DEFAULT '',
			birth_date TEXT,
			status     TEXT NOT NULL DEFAULT 'Activo',
			notes      TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE INDEX IF NOT EXISTS idx_animals_category ON animals(category, status)`,

		`CREATE TABLE IF NOT EXISTS matings (
			id                 INTEGER PRIMARY KEY AUTOINCREMENT,
			sow_id             INTEGER NOT NULL REFERENCES animals(id),
			boar_id            INTEGER REFERENCES animals(id),
			mated_on           TEXT NOT NULL,
			method             TEXT NOT NULL,
			expected_farrowing TEXT NOT NULL,
			notes              TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE INDEX IF NOT EXISTS idx_matings_expected ON matings(expected_farrowing)`,

		`CREATE TABLE IF NOT EXISTS farrowings (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			mating_id   INTEGER NOT NULL REFERENCES matings(id),
			farrowed_on TEXT NOT NULL,
			born_alive  INTEGER NOT NULL DEFAULT 0,
			stillborn   INTEGER NOT NULL DEFAULT 0,
			weaned      INTEGER NOT NULL DEFAULT 0,
			weaned_on   TEXT,
			notes       TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE INDEX IF NOT EXISTS idx_farrowings_date ON farrowings(farrowed_on)`,

		`CREATE TABLE IF NOT EXISTS sales (
			id              INTEGER PRIMARY KEY AUTOINCREMENT,
			date            TEXT NOT NULL,
			kind            TEXT NOT NULL,
			quantity        INTEGER NOT NULL,
			total_weight_kg TEXT NOT NULL DEFAULT '0',
			total_price     TEXT NOT NULL DEFAULT '0',
			buyer           TEXT NOT NULL DEFAULT '',
			notes           TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE INDEX IF NOT EXISTS idx_sales_date ON sales(date)`,

		`CREATE TABLE IF NOT EXISTS expenses (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			date        TEXT NOT NULL,
			category    TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			amount      TEXT NOT NULL DEFAULT '0'
		)`,
		`CREATE INDEX IF NOT EXISTS idx_expenses_date ON expenses(date)`,

		`CREATE TABLE IF NOT EXISTS feed_records (
			id    INTEGER PRIMARY KEY AUTOINCREMENT,
			date  TEXT NOT NULL,
			stage TEXT NOT NULL,
			kg    TEXT NOT NULL DEFAULT '0',
			cost  TEXT NOT NULL DEFAULT '0',
			notes TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE INDEX IF NOT EXISTS idx_feed_date ON feed_records(date)`,
	}
}

// ─── Column Helpers ─────────────────────────────────────────────────────────

func dateArg(d domain.Date) any {
	if d.IsZero() {
		return nil
	}
	return d.String()
}

func scanDate(ns sql.NullString) (domain.Date, error) {
	if !ns.Valid || ns.String == "" {
		return domain.Date{}, nil
	}
	t, err := time.Parse(time.DateOnly, ns.String)
	if err != nil {
		return domain.Date{}, fmt.Errorf("stored date %q: %w", ns.String, err)
	}
	return domain.Date{Time: t}, nil
}

func moneyArg(v decimal.Decimal) string {
	return v.String()
}

func scanMoney(column, s string) (decimal.Decimal, error) {
	v, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("stored %s %q: %w", column, s, err)
	}
	if err := domain.CheckAmountRange("stored "+column, v); err != nil {
		return decimal.Zero, err
	}
	return v, nil
}
