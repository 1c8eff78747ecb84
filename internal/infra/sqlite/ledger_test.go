package sqlite

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cerditos-farm/cerditos/internal/domain"
)

func TestSales_BetweenIsInclusiveAndExact(t *testing.T) {
	db := newTestDB(t)

	for _, s := range []domain.Sale{
		{Date: domain.NewDate(2024, time.January, 1), Kind: domain.SalePiglet, Quantity: 10, TotalPrice: decimal.RequireFromString("1500000.10")},
		{Date: domain.NewDate(2024, time.January, 31), Kind: domain.SaleGrower, Quantity: 2, TotalWeightKg: decimal.NewFromInt(210), TotalPrice: decimal.RequireFromString("0.20")},
		{Date: domain.NewDate(2024, time.February, 1), Kind: domain.SaleMeat, Quantity: 1, TotalPrice: decimal.NewFromInt(99)},
	} {
		if _, err := db.InsertSale(s); err != nil {
			t.Fatalf("InsertSale() error: %v", err)
		}
	}

	got, err := db.SalesBetween(domain.NewDate(2024, time.January, 1), domain.NewDate(2024, time.January, 31))
	if err != nil {
		t.Fatalf("SalesBetween() error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("SalesBetween() returned %d, want 2", len(got))
	}
	total := domain.SumEntries(domain.SaleEntries(got))
	if !total.Equal(decimal.RequireFromString("1500000.30")) {
		t.Errorf("total = %s, want 1500000.30", total)
	}
	if got[1].TotalWeightKg.IntPart() != 210 {
		t.Errorf("TotalWeightKg = %s, want 210", got[1].TotalWeightKg)
	}

	all, err := db.ListSales()
	if err != nil {
		t.Fatalf("ListSales() error: %v", err)
	}
	if len(all) != 3 || all[0].Date.String() != "2024-02-01" {
		t.Errorf("ListSales() should be newest first, got %d rows starting %s", len(all), all[0].Date)
	}
}

func TestExpenses_Between(t *testing.T) {
	db := newTestDB(t)

	for _, e := range []domain.Expense{
		{Date: domain.NewDate(2023, time.December, 31), Category: domain.ExpenseFeed, Amount: decimal.NewFromInt(100)},
		{Date: domain.NewDate(2024, time.March, 15), Category: domain.ExpenseVeterinary, Description: "vacunas", Amount: decimal.NewFromInt(250)},
	} {
		if _, err := db.InsertExpense(e); err != nil {
			t.Fatalf("InsertExpense() error: %v", err)
		}
	}

	got, err := db.ExpensesBetween(domain.NewDate(2024, time.January, 1), domain.NewDate(2024, time.December, 31))
	if err != nil {
		t.Fatalf("ExpensesBetween() error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("ExpensesBetween() returned %d, want 1", len(got))
	}
	if got[0].Description != "vacunas" || !got[0].Amount.Equal(decimal.NewFromInt(250)) {
		t.Errorf("expense = %+v", got[0])
	}

	all, err := db.ListExpenses()
	if err != nil {
		t.Fatalf("ListExpenses() error: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("ListExpenses() returned %d, want 2", len(all))
	}
}

func TestFeedRecords(t *testing.T) {
	db := newTestDB(t)

	f := domain.FeedRecord{
		Date:  domain.NewDate(2024, time.May, 5),
		Stage: domain.FeedLactation,
		Kg:    decimal.RequireFromString("120.5"),
		Cost:  decimal.NewFromInt(180000),
	}
	if _, err := db.InsertFeedRecord(f); err != nil {
		t.Fatalf("InsertFeedRecord() error: %v", err)
	}

	got, err := db.ListFeedRecords()
	if err != nil {
		t.Fatalf("ListFeedRecords() error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("ListFeedRecords() returned %d, want 1", len(got))
	}
	if got[0].Stage != domain.FeedLactation || !got[0].Kg.Equal(f.Kg) {
		t.Errorf("feed record = %+v", got[0])
	}
}

func TestSales_CorruptRowIsAnError(t *testing.T) {
	tests := []struct {
		name       string
		date       string
		totalPrice string
	}{
		{"unparseable price", "2024-01-10", "abc"},
		{"oversized price", "2024-01-10", "1e300000000"},
		{"unparseable date", "2024-02-30", "100"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := newTestDB(t)
			if _, err := db.db.Exec(`INSERT INTO sales (date, kind, quantity, total_price) VALUES (?, 'Carne', 1, ?)`,
				tt.date, tt.totalPrice); err != nil {
				t.Fatalf("raw insert error: %v", err)
			}

			if _, err := db.SalesBetween(domain.NewDate(2024, time.January, 1), domain.NewDate(2024, time.December, 31)); err == nil {
				t.Error("SalesBetween() should fail on a corrupt row")
			}
			if _, err := db.ListSales(); err == nil {
				t.Error("ListSales() should fail on a corrupt row")
			}
		})
	}
}

func TestExpensesAndFeed_CorruptMoneyIsAnError(t *testing.T) {
	db := newTestDB(t)
	if _, err := db.db.Exec(`INSERT INTO expenses (date, category, amount) VALUES ('2024-01-10', 'Otros', 'diez')`); err != nil {
		t.Fatalf("raw insert error: %v", err)
	}
	if _, err := db.db.Exec(`INSERT INTO feed_records (date, stage, kg, cost) VALUES ('2024-01-10', 'Engorde', '1.5', 'x')`); err != nil {
		t.Fatalf("raw insert error: %v", err)
	}

	if _, err := db.ExpensesBetween(domain.NewDate(2024, time.January, 1), domain.NewDate(2024, time.January, 31)); err == nil {
		t.Error("ExpensesBetween() should fail on a corrupt amount")
	}
	if _, err := db.ListFeedRecords(); err == nil {
		t.Error("ListFeedRecords() should fail on a corrupt cost")
	}
}
