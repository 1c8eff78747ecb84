package sqlite

import (
	"database/sql"
	"fmt"

	"github.com/cerditos-farm/cerditos/internal/domain"
)

// ─── Sale Operations ────────────────────────────────────────────────────────

const saleColumns = `id, date, kind, quantity, total_weight_kg, total_price, buyer, notes`

// InsertSale records a sale.
func (db *DB) InsertSale(s domain.Sale) (int64, error) {
	res, err := db.db.Exec(`
		INSERT INTO sales (date, kind, quantity, total_weight_kg, total_price, buyer, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, s.Date.String(), string(s.Kind), s.Quantity, moneyArg(s.TotalWeightKg), moneyArg(s.TotalPrice), s.Buyer, s.Notes)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// ListSales returns every sale, most recent date first.
func (db *DB) ListSales() ([]domain.Sale, error) {
	return db.querySales(`SELECT ` + saleColumns + ` FROM sales ORDER BY date DESC, id DESC`)
}

// SalesBetween returns sales dated in [from, to], oldest first.
func (db *DB) SalesBetween(from, to domain.Date) ([]domain.Sale, error) {
	return db.querySales(`SELECT `+saleColumns+` FROM sales WHERE date BETWEEN ? AND ? ORDER BY date, id`,
		from.String(), to.String())
}

func (db *DB) querySales(query string, args ...any) ([]domain.Sale, error) {
	rows, err := db.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Sale
	for rows.Next() {
		var s domain.Sale
		var date sql.NullString
		var kind, weight, price string
		if err := rows.Scan(&s.ID, &date, &kind, &s.Quantity, &weight, &price, &s.Buyer, &s.Notes); err != nil {
			return nil, err
		}
		s.Kind = domain.SaleKind(kind)
		if s.Date, err = scanDate(date); err != nil {
			return nil, fmt.Errorf("sale %d: %w", s.ID, err)
		}
		if s.TotalWeightKg, err = scanMoney("total_weight_kg", weight); err != nil {
			return nil, fmt.Errorf("sale %d: %w", s.ID, err)
		}
		if s.TotalPrice, err = scanMoney("total_price", price); err != nil {
			return nil, fmt.Errorf("sale %d: %w", s.ID, err)
		}
		result = append(result, s)
	}
	return result, rows.Err()
}

// ─── Expense Operations ─────────────────────────────────────────────────────

const expenseColumns = `id, date, category, description, amount`

// InsertExpense records an expense.
func (db *DB) InsertExpense(e domain.Expense) (int64, error) {
	res, err := db.db.Exec(`
		INSERT INTO expenses (date, category, description, amount)
		VALUES (?, ?, ?, ?)
	`, e.Date.String(), string(e.Category), e.Description, moneyArg(e.Amount))
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// ListExpenses returns every expense, most recent date first.
func (db *DB) ListExpenses() ([]domain.Expense, error) {
	return db.queryExpenses(`SELECT ` + expenseColumns + ` FROM expenses ORDER BY date DESC, id DESC`)
}

// ExpensesBetween returns expenses dated in [from, to], oldest first.
func (db *DB) ExpensesBetween(from, to domain.Date) ([]domain.Expense, error) {
	return db.queryExpenses(`SELECT `+expenseColumns+` FROM expenses WHERE date BETWEEN ? AND ? ORDER BY date, id`,
		from.String(), to.String())
}

func (db *DB) queryExpenses(query string, args ...any) ([]domain.Expense, error) {
	rows, err := db.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Expense
	for rows.Next() {
		var e domain.Expense
		var date sql.NullString
		var category, amount string
		if err := rows.Scan(&e.ID, &date, &category, &e.Description, &amount); err != nil {
			return nil, err
		}
		e.Category = domain.ExpenseCategory(category)
		if e.Date, err = scanDate(date); err != nil {
			return nil, fmt.Errorf("expense %d: %w", e.ID, err)
		}
		if e.Amount, err = scanMoney("amount", amount); err != nil {
			return nil, fmt.Errorf("expense %d: %w", e.ID, err)
		}
		result = append(result, e)
	}
	return result, rows.Err()
}

// ─── Feed Operations ────────────────────────────────────────────────────────

// InsertFeedRecord records feed consumption.
func (db *DB) InsertFeedRecord(f domain.FeedRecord) (int64, error) {
	res, err := db.db.Exec(`
		INSERT INTO feed_records (date, stage, kg, cost, notes)
		VALUES (?, ?, ?, ?, ?)
	`, f.Date.String(), string(f.Stage), moneyArg(f.Kg), moneyArg(f.Cost), f.Notes)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// ListFeedRecords returns every feed record, most recent date first.
func (db *DB) ListFeedRecords() ([]domain.FeedRecord, error) {
	rows, err := db.db.Query(`
		SELECT id, date, stage, kg, cost, notes
		FROM feed_records ORDER BY date DESC, id DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.FeedRecord
	for rows.Next() {
		var f domain.FeedRecord
		var date sql.NullString
		var stage, kg, cost string
		if err := rows.Scan(&f.ID, &date, &stage, &kg, &cost, &f.Notes); err != nil {
			return nil, err
		}
		f.Stage = domain.FeedStage(stage)
		if f.Date, err = scanDate(date); err != nil {
			return nil, fmt.Errorf("feed record %d: %w", f.ID, err)
		}
		if f.Kg, err = scanMoney("kg", kg); err != nil {
			return nil, fmt.Errorf("feed record %d: %w", f.ID, err)
		}
		if f.Cost, err = scanMoney("cost", cost); err != nil {
			return nil, fmt.Errorf("feed record %d: %w", f.ID, err)
		}
		result = append(result, f)
	}
	return result, rows.Err()
}
