// Package domain contains pure farm record types with ZERO infrastructure imports.
// Storage, transport and presentation layers depend on it; it depends on nothing
// but the standard library and the decimal money type.
package domain

import (
	"fmt"
	"strings"
	"time"
)

// ─── Animal Types ───────────────────────────────────────────────────────────

// Category classifies an animal by its role on the farm.
type Category string

const (
	CategorySow    Category = "Marrana"
	CategoryBoar   Category = "Semental"
	CategoryPiglet Category = "Lechon"
	CategoryGrower Category = "Engorde"
)

// Categories lists every valid animal category in display order.
var Categories = []Category{CategorySow, CategoryBoar, CategoryPiglet, CategoryGrower}

// Sex of an animal.
type Sex string

const (
	SexFemale Sex = "Hembra"
	SexMale   Sex = "Macho"
)

// AnimalStatus tracks whether an animal is still part of the herd.
type AnimalStatus string

const (
	StatusActive  AnimalStatus = "Activo"
	StatusSold    AnimalStatus = "Vendido"
	StatusDead    AnimalStatus = "Fallecido"
	StatusRetired AnimalStatus = "Retirado"
)

// Animal is a single inventory record, unique by ear tag.
type Animal struct {
	ID        int64        `json:"id"`
	EarTag    string       `json:"ear_tag"`
	Category  Category     `json:"category"`
	Sex       Sex          `json:"sex"`
	Breed     string       `json:"breed,omitempty"`
	BirthDate Date         `json:"birth_date"`
	Status    AnimalStatus `json:"status"`
	Notes     string       `json:"notes,omitempty"`
}

// IsActive reports whether the animal counts toward the live herd.
// An empty status is treated as active.
func (a Animal) IsActive() bool {
	return a.Status == "" || a.Status == StatusActive
}

// Validate checks the animal's enumerated fields.
func (a *Animal) Validate() error {
	a.EarTag = strings.TrimSpace(a.EarTag)
	if a.EarTag == "" {
		return fmt.Errorf("%w: ear tag is required", ErrInvalidRecord)
	}
	switch a.Category {
	case CategorySow, CategoryBoar, CategoryPiglet, CategoryGrower:
	default:
		return fmt.Errorf("%w: unknown category %q", ErrInvalidRecord, a.Category)
	}
	switch a.Sex {
	case SexFemale, SexMale:
	default:
		return fmt.Errorf("%w: unknown sex %q", ErrInvalidRecord, a.Sex)
	}
	if a.Status == "" {
		a.Status = StatusActive
	}
	switch a.Status {
	case StatusActive, StatusSold, StatusDead, StatusRetired:
	default:
		return fmt.Errorf("%w: unknown status %q", ErrInvalidRecord, a.Status)
	}
	return nil
}

// InventoryCounts is the active herd broken down by category.
type InventoryCounts map[Category]int

// Total returns the number of active animals across all categories.
func (c InventoryCounts) Total() int {
	n := 0
	for _, v := range c {
		n += v
	}
	return n
}

// ─── Reproduction Types ─────────────────────────────────────────────────────

// MatingMethod is natural service or artificial insemination.
type MatingMethod string

const (
	MatingNatural MatingMethod = "Natural"
	MatingAI      MatingMethod = "IA"
)

// Mating records a service of a sow, optionally by a known boar.
type Mating struct {
	ID                int64        `json:"id"`
	SowID             int64        `json:"sow_id"`
	SowTag            string       `json:"sow_tag,omitempty"`
	BoarID            *int64       `json:"boar_id,omitempty"`
	MatedOn           Date         `json:"mated_on"`
	Method            MatingMethod `json:"method"`
	ExpectedFarrowing Date         `json:"expected_farrowing"`
	Notes             string       `json:"notes,omitempty"`
}

// Validate checks the mating and fills in the projected farrowing date.
func (m *Mating) Validate() error {
	if m.SowID <= 0 {
		return fmt.Errorf("%w: sow is required", ErrInvalidRecord)
	}
	if m.MatedOn.IsZero() {
		return fmt.Errorf("%w: mating date is required", ErrInvalidRecord)
	}
	if m.Method == "" {
		m.Method = MatingNatural
	}
	if m.Method != MatingNatural && m.Method != MatingAI {
		return fmt.Errorf("%w: unknown mating method %q", ErrInvalidRecord, m.Method)
	}
	m.ExpectedFarrowing = ExpectedFarrowing(m.MatedOn)
	return nil
}

// Farrowing records a litter and its weaning outcome.
type Farrowing struct {
	ID         int64  `json:"id"`
	MatingID   int64  `json:"mating_id"`
	SowTag     string `json:"sow_tag,omitempty"`
	FarrowedOn Date   `json:"farrowed_on"`
	BornAlive  int    `json:"born_alive"`
	Stillborn  int    `json:"stillborn"`
	Weaned     int    `json:"weaned"`
	WeanedOn   Date   `json:"weaned_on"`
	Notes      string `json:"notes,omitempty"`
}

// Validate checks litter counts.
func (f *Farrowing) Validate() error {
	if f.MatingID <= 0 {
		return fmt.Errorf("%w: mating is required", ErrInvalidRecord)
	}
	if f.FarrowedOn.IsZero() {
		return fmt.Errorf("%w: farrowing date is required", ErrInvalidRecord)
	}
	if f.BornAlive < 0 || f.Stillborn < 0 || f.Weaned < 0 {
		return fmt.Errorf("%w: litter counts must be non-negative", ErrInvalidRecord)
	}
	return nil
}

// UpcomingFarrowing is a mating whose projected farrowing falls inside a window.
type UpcomingFarrowing struct {
	SowTag            string `json:"sow_tag"`
	ExpectedFarrowing Date   `json:"expected_farrowing"`
}

// ─── Date ───────────────────────────────────────────────────────────────────

// Date is a calendar day without a time-of-day or zone component.
// It serializes as YYYY-MM-DD.
type Date struct {
	time.Time
}

// NewDate returns the date for the given calendar day.
func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar day.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

// ParseDate parses a YYYY-MM-DD string, rejecting non-calendar dates.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(time.DateOnly, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return Date{t}, nil
}

// String formats the date as YYYY-MM-DD.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(time.DateOnly)
}

// AddDays returns the date n days later.
func (d Date) AddDays(n int) Date {
	return Date{d.AddDate(0, 0, n)}
}

// DaysUntil returns the whole number of days from d to other.
func (d Date) DaysUntil(other Date) int {
	return int(other.Sub(d.Time).Hours() / 24)
}

// MarshalJSON encodes the date as a YYYY-MM-DD string.
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON decodes a YYYY-MM-DD string.
func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
