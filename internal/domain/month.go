package domain

import (
	"fmt"
	"time"
)

// ─── Month Keys ─────────────────────────────────────────────────────────────
// Monthly aggregation is keyed by (year, month), never by date-string prefixes.

// YearMonth identifies a calendar month.
type YearMonth struct {
	Year  int        `json:"year"`
	Month time.Month `json:"month"`
}

// MonthOf returns the calendar month containing t.
func MonthOf(t time.Time) YearMonth {
	return YearMonth{Year: t.Year(), Month: t.Month()}
}

// Next returns the following calendar month.
func (m YearMonth) Next() YearMonth {
	if m.Month == time.December {
		return YearMonth{Year: m.Year + 1, Month: time.January}
	}
	return YearMonth{Year: m.Year, Month: m.Month + 1}
}

// Before reports whether m is strictly earlier than other.
func (m YearMonth) Before(other YearMonth) bool {
	if m.Year != other.Year {
		return m.Year < other.Year
	}
	return m.Month < other.Month
}

// Index returns a monotonically increasing month ordinal, useful for spans.
func (m YearMonth) Index() int {
	return m.Year*12 + int(m.Month) - 1
}

// String formats the month as YYYY-MM.
func (m YearMonth) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

// MonthsBetween returns every month from first to last inclusive.
// It returns nil when last is before first.
func MonthsBetween(first, last YearMonth) []YearMonth {
	if last.Before(first) {
		return nil
	}
	out := make([]YearMonth, 0, last.Index()-first.Index()+1)
	for m := first; !last.Before(m); m = m.Next() {
		out = append(out, m)
	}
	return out
}
