package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ─── Ledger Types ───────────────────────────────────────────────────────────
// Sales and expenses are immutable once recorded. They feed the period
// summary and the finance report.

// Amounts are bounded so that decimal arithmetic stays cheap: at most
// MaxAmountDigits integer digits and MaxAmountScale decimal places.
const (
	MaxAmountDigits = 15
	MaxAmountScale  = 8
)

// CheckAmountRange rejects amounts that are too large or too precise.
// It only inspects the exponent and coefficient, never rescales.
func CheckAmountRange(name string, v decimal.Decimal) error {
	exp := int(v.Exponent())
	if exp < -MaxAmountScale {
		return fmt.Errorf("%w: %s has more than %d decimal places", ErrInvalidRecord, name, MaxAmountScale)
	}
	if exp > MaxAmountDigits || (v.Sign() != 0 && v.NumDigits()+exp > MaxAmountDigits) {
		return fmt.Errorf("%w: %s exceeds %d integer digits", ErrInvalidRecord, name, MaxAmountDigits)
	}
	return nil
}

// ValidateAmount requires a non-negative amount within CheckAmountRange.
func ValidateAmount(name string, v decimal.Decimal) error {
	if v.IsNegative() {
		return fmt.Errorf("%w: %s must be non-negative", ErrInvalidRecord, name)
	}
	return CheckAmountRange(name, v)
}

// SaleKind describes what was sold.
type SaleKind string

const (
	SalePiglet  SaleKind = "Lechon"
	SaleGrower  SaleKind = "Engorde"
	SaleBreeder SaleKind = "Reproductor"
	SaleMeat    SaleKind = "Carne"
)

// Sale is a single sales transaction.
type Sale struct {
	ID            int64           `json:"id"`
	Date          Date            `json:"date"`
	Kind          SaleKind        `json:"kind"`
	Quantity      int             `json:"quantity"`
	TotalWeightKg decimal.Decimal `json:"total_weight_kg"`
	TotalPrice    decimal.Decimal `json:"total_price"`
	Buyer         string          `json:"buyer,omitempty"`
	Notes         string          `json:"notes,omitempty"`
}

// Validate checks the sale.
func (s *Sale) Validate() error {
	if s.Date.IsZero() {
		return fmt.Errorf("%w: sale date is required", ErrInvalidRecord)
	}
	switch s.Kind {
	case SalePiglet, SaleGrower, SaleBreeder, SaleMeat:
	default:
		return fmt.Errorf("%w: unknown sale kind %q", ErrInvalidRecord, s.Kind)
	}
	if s.Quantity < 1 {
		return fmt.Errorf("%w: quantity must be at least 1", ErrInvalidRecord)
	}
	if err := ValidateAmount("total weight", s.TotalWeightKg); err != nil {
		return err
	}
	if err := ValidateAmount("total price", s.TotalPrice); err != nil {
		return err
	}
	s.Buyer = strings.TrimSpace(s.Buyer)
	return nil
}

// ExpenseCategory groups expenses.
type ExpenseCategory string

const (
	ExpenseFeed           ExpenseCategory = "Alimento"
	ExpenseVeterinary     ExpenseCategory = "Veterinaria"
	ExpenseLabor          ExpenseCategory = "Mano de obra"
	ExpenseInfrastructure ExpenseCategory = "Infraestructura"
	ExpenseOther          ExpenseCategory = "Otros"
)

// Expense is a single cost entry.
type Expense struct {
	ID          int64           `json:"id"`
	Date        Date            `json:"date"`
	Category    ExpenseCategory `json:"category"`
	Description string          `json:"description,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
}

// Validate checks the expense.
func (e *Expense) Validate() error {
	if e.Date.IsZero() {
		return fmt.Errorf("%w: expense date is required", ErrInvalidRecord)
	}
	switch e.Category {
	case ExpenseFeed, ExpenseVeterinary, ExpenseLabor, ExpenseInfrastructure, ExpenseOther:
	default:
		return fmt.Errorf("%w: unknown expense category %q", ErrInvalidRecord, e.Category)
	}
	if err := ValidateAmount("amount", e.Amount); err != nil {
		return err
	}
	return nil
}

// FeedStage is the production stage a ration was fed to.
type FeedStage string

const (
	FeedBreeders  FeedStage = "Reproductoras"
	FeedGestation FeedStage = "Gestación"
	FeedLactation FeedStage = "Lactancia"
	FeedGrowers   FeedStage = "Engorde"
	FeedPiglets   FeedStage = "Lechones"
)

// FeedRecord is a feed consumption entry.
type FeedRecord struct {
	ID    int64           `json:"id"`
	Date  Date            `json:"date"`
	Stage FeedStage       `json:"stage"`
	Kg    decimal.Decimal `json:"kg"`
	Cost  decimal.Decimal `json:"cost"`
	Notes string          `json:"notes,omitempty"`
}

// Validate checks the feed record.
func (f *FeedRecord) Validate() error {
	if f.Date.IsZero() {
		return fmt.Errorf("%w: feed date is required", ErrInvalidRecord)
	}
	switch f.Stage {
	case FeedBreeders, FeedGestation, FeedLactation, FeedGrowers, FeedPiglets:
	default:
		return fmt.Errorf("%w: unknown feed stage %q", ErrInvalidRecord, f.Stage)
	}
	if err := ValidateAmount("kg", f.Kg); err != nil {
		return err
	}
	if err := ValidateAmount("cost", f.Cost); err != nil {
		return err
	}
	return nil
}

// CashEntry is a dated amount, the only shape the finance calculators consume.
type CashEntry struct {
	Date   Date
	Amount decimal.Decimal
}

// SaleEntries projects sales onto (date, total price) tuples.
func SaleEntries(sales []Sale) []CashEntry {
	out := make([]CashEntry, 0, len(sales))
	for _, s := range sales {
		out = append(out, CashEntry{Date: s.Date, Amount: s.TotalPrice})
	}
	return out
}

// ExpenseEntries projects expenses onto (date, amount) tuples.
func ExpenseEntries(expenses []Expense) []CashEntry {
	out := make([]CashEntry, 0, len(expenses))
	for _, e := range expenses {
		out = append(out, CashEntry{Date: e.Date, Amount: e.Amount})
	}
	return out
}

// SumEntries totals the amounts of entries.
func SumEntries(entries []CashEntry) decimal.Decimal {
	total := decimal.Zero
	for _, e := range entries {
		total = total.Add(e.Amount)
	}
	return total
}
