package domain

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

// ─── Farrowing Projection ───────────────────────────────────────────────────

func TestExpectedFarrowing(t *testing.T) {
	tests := []struct {
		name    string
		matedOn Date
		want    string
	}{
		{"leap year", NewDate(2024, time.January, 1), "2024-04-24"},
		{"non-leap year", NewDate(2023, time.January, 1), "2023-04-25"},
		{"crosses year end", NewDate(2024, time.November, 1), "2025-02-23"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExpectedFarrowing(tt.matedOn).String()
			if got != tt.want {
				t.Errorf("ExpectedFarrowing(%s) = %s, want %s", tt.matedOn, got, tt.want)
			}
		})
	}
}

func TestMating_Validate_ComputesExpectedFarrowing(t *testing.T) {
	m := Mating{SowID: 1, MatedOn: NewDate(2024, time.January, 1)}
	if err := m.Validate(); err != nil {
		t.Fatalf("Validate() error: %v", err)
	}
	if m.Method != MatingNatural {
		t.Errorf("Method = %q, want %q", m.Method, MatingNatural)
	}
	if got := m.ExpectedFarrowing.String(); got != "2024-04-24" {
		t.Errorf("ExpectedFarrowing = %s, want 2024-04-24", got)
	}
}

func TestMating_Validate_RejectsUnknownMethod(t *testing.T) {
	m := Mating{SowID: 1, MatedOn: NewDate(2024, time.January, 1), Method: "Telepathy"}
	if err := m.Validate(); !errors.Is(err, ErrInvalidRecord) {
		t.Errorf("Validate() error = %v, want ErrInvalidRecord", err)
	}
}

// ─── Date ───────────────────────────────────────────────────────────────────

func TestParseDate_RejectsNonCalendarDates(t *testing.T) {
	for _, s := range []string{"2024-02-30", "2023-02-29", "2024-13-01", "01/02/2024", ""} {
		if _, err := ParseDate(s); !errors.Is(err, ErrInvalidDate) {
			t.Errorf("ParseDate(%q) error = %v, want ErrInvalidDate", s, err)
		}
	}
	if _, err := ParseDate("2024-02-29"); err != nil {
		t.Errorf("ParseDate(2024-02-29) error: %v", err)
	}
}

func TestDate_JSONRoundTrip(t *testing.T) {
	in := struct {
		D Date `json:"d"`
	}{D: NewDate(2024, time.March, 5)}

	b, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}
	if string(b) != `{"d":"2024-03-05"}` {
		t.Errorf("Marshal() = %s", b)
	}

	var out struct {
		D Date `json:"d"`
	}
	if err := json.Unmarshal(b, &out); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}
	if !out.D.Equal(in.D.Time) {
		t.Errorf("round trip = %s, want %s", out.D, in.D)
	}
}

// ─── YearMonth ──────────────────────────────────────────────────────────────

func TestYearMonth_Next_WrapsDecember(t *testing.T) {
	got := YearMonth{Year: 2023, Month: time.December}.Next()
	want := YearMonth{Year: 2024, Month: time.January}
	if got != want {
		t.Errorf("Next() = %v, want %v", got, want)
	}
}

func TestMonthsBetween(t *testing.T) {
	first := YearMonth{Year: 2023, Month: time.November}
	last := YearMonth{Year: 2024, Month: time.February}

	got := MonthsBetween(first, last)
	want := []string{"2023-11", "2023-12", "2024-01", "2024-02"}
	if len(got) != len(want) {
		t.Fatalf("MonthsBetween() returned %d months, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].String() != want[i] {
			t.Errorf("month[%d] = %s, want %s", i, got[i], want[i])
		}
	}

	if got := MonthsBetween(last, first); got != nil {
		t.Errorf("MonthsBetween(reversed) = %v, want nil", got)
	}
}

// ─── Record Validation ──────────────────────────────────────────────────────

func TestAnimal_Validate(t *testing.T) {
	a := Animal{EarTag: "  M-01 ", Category: CategorySow, Sex: SexFemale}
	if err := a.Validate(); err != nil {
		t.Fatalf("Validate() error: %v", err)
	}
	if a.EarTag != "M-01" {
		t.Errorf("EarTag = %q, want trimmed", a.EarTag)
	}
	if a.Status != StatusActive || !a.IsActive() {
		t.Errorf("Status = %q, want default %q", a.Status, StatusActive)
	}

	bad := Animal{EarTag: "X", Category: "Vaca", Sex: SexFemale}
	if err := bad.Validate(); !errors.Is(err, ErrInvalidRecord) {
		t.Errorf("Validate(unknown category) error = %v, want ErrInvalidRecord", err)
	}
}

func TestSale_Validate(t *testing.T) {
	s := Sale{
		Date:       NewDate(2024, time.May, 1),
		Kind:       SalePiglet,
		Quantity:   0,
		TotalPrice: decimal.NewFromInt(1000),
	}
	if err := s.Validate(); !errors.Is(err, ErrInvalidRecord) {
		t.Errorf("Validate(quantity=0) error = %v, want ErrInvalidRecord", err)
	}
	s.Quantity = 3
	if err := s.Validate(); err != nil {
		t.Errorf("Validate() error: %v", err)
	}
	s.TotalPrice = decimal.NewFromInt(-1)
	if err := s.Validate(); !errors.Is(err, ErrInvalidRecord) {
		t.Errorf("Validate(negative price) error = %v, want ErrInvalidRecord", err)
	}
}

func TestValidateAmount_Bounds(t *testing.T) {
	tests := []struct {
		in string
		ok bool
	}{
		{"0", true},
		{"1500000.50", true},
		{"999999999999999", true},
		{"0.00000001", true},
		{"1e14", true},
		{"-1", false},
		{"1000000000000000", false},
		{"1e15", false},
		{"1e300000000", false},
		{"0e300000000", false},
		{"0.000000001", false},
		{"1e-300000000", false},
	}
	for _, tt := range tests {
		err := ValidateAmount("amount", decimal.RequireFromString(tt.in))
		if tt.ok && err != nil {
			t.Errorf("ValidateAmount(%s) error: %v", tt.in, err)
		}
		if !tt.ok && !errors.Is(err, ErrInvalidRecord) {
			t.Errorf("ValidateAmount(%s) error = %v, want ErrInvalidRecord", tt.in, err)
		}
	}
}

func TestSale_Validate_OversizedPriceRejected(t *testing.T) {
	s := Sale{
		Date:       NewDate(2024, time.May, 1),
		Kind:       SaleMeat,
		Quantity:   1,
		TotalPrice: decimal.RequireFromString("1e300000000"),
	}
	if err := s.Validate(); !errors.Is(err, ErrInvalidRecord) {
		t.Errorf("Validate(1e300000000) error = %v, want ErrInvalidRecord", err)
	}
}

func TestExpense_Validate_UnknownCategory(t *testing.T) {
	e := Expense{Date: NewDate(2024, time.May, 1), Category: "Lujo", Amount: decimal.NewFromInt(5)}
	if err := e.Validate(); !errors.Is(err, ErrInvalidRecord) {
		t.Errorf("Validate() error = %v, want ErrInvalidRecord", err)
	}
}

func TestFarrowing_Validate_NegativeCounts(t *testing.T) {
	f := Farrowing{MatingID: 1, FarrowedOn: NewDate(2024, time.May, 1), Weaned: -1}
	if err := f.Validate(); !errors.Is(err, ErrInvalidRecord) {
		t.Errorf("Validate() error = %v, want ErrInvalidRecord", err)
	}
}

func TestInventoryCounts_Total(t *testing.T) {
	c := InventoryCounts{CategorySow: 20, CategoryBoar: 2, CategoryPiglet: 150}
	if got := c.Total(); got != 172 {
		t.Errorf("Total() = %d, want 172", got)
	}
}

func TestSumEntries(t *testing.T) {
	entries := SaleEntries([]Sale{
		{TotalPrice: decimal.RequireFromString("10.10")},
		{TotalPrice: decimal.RequireFromString("0.20")},
	})
	if got := SumEntries(entries); !got.Equal(decimal.RequireFromString("10.30")) {
		t.Errorf("SumEntries() = %s, want 10.30", got)
	}
}
