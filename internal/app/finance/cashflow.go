// Package finance builds the monthly cash-flow series and derives the
// internal rate of return and payback period from it.
//
// Every calculation here is a pure function of its inputs. Records are
// fetched by the caller (see Service) before any of these run.
package finance

import (
	"github.com/shopspring/decimal"

	"github.com/cerditos-farm/cerditos/internal/domain"
)

// InvestmentLabel labels the synthetic initial-investment period.
const InvestmentLabel = "t0"

// CashFlowInput is everything the builder needs for one report run.
type CashFlowInput struct {
	Start      domain.Date
	End        domain.Date
	Investment decimal.Decimal
	Sales      []domain.CashEntry
	Expenses   []domain.CashEntry
}

// MonthlyFlow is one calendar month of the series.
type MonthlyFlow struct {
	Month    domain.YearMonth
	Sales    decimal.Decimal
	Expenses decimal.Decimal
}

// Net returns sales minus expenses for the month.
func (m MonthlyFlow) Net() decimal.Decimal {
	return m.Sales.Sub(m.Expenses)
}

// CashFlow is the investment period followed by a contiguous run of months.
type CashFlow struct {
	Investment decimal.Decimal
	Months     []MonthlyFlow
}

// Len returns 1 + the number of months.
func (c CashFlow) Len() int { return 1 + len(c.Months) }

// Amounts returns the series: -investment, then each month's net flow.
func (c CashFlow) Amounts() []decimal.Decimal {
	out := make([]decimal.Decimal, 0, c.Len())
	out = append(out, c.Investment.Neg())
	for _, m := range c.Months {
		out = append(out, m.Net())
	}
	return out
}

// Floats returns Amounts as float64 for the root-finder.
func (c CashFlow) Floats() []float64 {
	amounts := c.Amounts()
	out := make([]float64, len(amounts))
	for i, a := range amounts {
		out[i] = a.InexactFloat64()
	}
	return out
}

// Labels returns t0 followed by YYYY-MM for each month.
func (c CashFlow) Labels() []string {
	out := make([]string, 0, c.Len())
	out = append(out, InvestmentLabel)
	for _, m := range c.Months {
		out = append(out, m.Month.String())
	}
	return out
}

// BuildCashFlow aggregates sales and expenses into calendar months spanning
// the earliest to the latest of {start, end, every transaction date}.
// Months without transactions are present with zero totals.
//
// Returns domain.ErrInvalidDateRange when end is before start and
// domain.ErrInsufficientData when there is neither an investment nor a
// single transaction.
func BuildCashFlow(in CashFlowInput) (CashFlow, error) {
	if in.End.Before(in.Start.Time) {
		return CashFlow{}, domain.ErrInvalidDateRange
	}
	if in.Investment.IsZero() && len(in.Sales) == 0 && len(in.Expenses) == 0 {
		return CashFlow{}, domain.ErrInsufficientData
	}

	first, last := domain.MonthOf(in.Start.Time), domain.MonthOf(in.End.Time)
	widen := func(entries []domain.CashEntry) {
		for _, e := range entries {
			m := domain.MonthOf(e.Date.Time)
			if m.Before(first) {
				first = m
			}
			if last.Before(m) {
				last = m
			}
		}
	}
	widen(in.Sales)
	widen(in.Expenses)

	months := domain.MonthsBetween(first, last)
	flows := make([]MonthlyFlow, len(months))
	for i, m := range months {
		flows[i] = MonthlyFlow{Month: m, Sales: decimal.Zero, Expenses: decimal.Zero}
	}

	base := first.Index()
	for _, s := range in.Sales {
		i := domain.MonthOf(s.Date.Time).Index() - base
		flows[i].Sales = flows[i].Sales.Add(s.Amount)
	}
	for _, e := range in.Expenses {
		i := domain.MonthOf(e.Date.Time).Index() - base
		flows[i].Expenses = flows[i].Expenses.Add(e.Amount)
	}

	return CashFlow{Investment: in.Investment, Months: flows}, nil
}

// Cumulative returns the running total of amounts.
func Cumulative(amounts []decimal.Decimal) []decimal.Decimal {
	out := make([]decimal.Decimal, len(amounts))
	sum := decimal.Zero
	for i, a := range amounts {
		sum = sum.Add(a)
		out[i] = sum
	}
	return out
}
