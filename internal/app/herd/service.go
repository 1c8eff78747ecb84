package herd

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/cerditos-farm/cerditos/internal/domain"
	"github.com/cerditos-farm/cerditos/internal/infra/observability"
)

// ─── Windows ────────────────────────────────────────────────────────────────

const (
	// DashboardLedgerDays is how far back dashboard income/expenses reach.
	// The window has no upper bound: entries dated after today count too.
	DashboardLedgerDays = 90
	// UpcomingFarrowingDays is how far ahead the dashboard lists due sows.
	UpcomingFarrowingDays = 30
)

// openEnd closes the dashboard ledger query; stored dates are YYYY-MM-DD.
var openEnd = domain.NewDate(9999, time.December, 31)

// ─── Snapshots ──────────────────────────────────────────────────────────────

// Dashboard is the landing-page snapshot.
type Dashboard struct {
	Inventory          InventorySummary           `json:"inventory"`
	LedgerSince        domain.Date                `json:"ledger_since"`
	Income             decimal.Decimal            `json:"income"`
	Expenses           decimal.Decimal            `json:"expenses"`
	Profit             decimal.Decimal            `json:"profit"`
	UpcomingFarrowings []domain.UpcomingFarrowing `json:"upcoming_farrowings"`
}

// InventorySummary groups the active herd the way the dashboard shows it.
type InventorySummary struct {
	Total          int `json:"total"`
	Sows           int `json:"sows"`
	Boars          int `json:"boars"`
	PigletsGrowers int `json:"piglets_growers"`
}

// PSYFigure is a PSY estimate together with its inputs.
type PSYFigure struct {
	Value      float64 `json:"value"`
	Defined    bool    `json:"defined"`
	Weaned     int     `json:"weaned"`
	ActiveSows int     `json:"active_sows"`
	WindowDays int     `json:"window_days"`
}

// PeriodSummary is the report for an inclusive date range.
type PeriodSummary struct {
	Start    domain.Date      `json:"start"`
	End      domain.Date      `json:"end"`
	Income   decimal.Decimal  `json:"income"`
	Expenses decimal.Decimal  `json:"expenses"`
	Profit   decimal.Decimal  `json:"profit"`
	PSY      PSYFigure        `json:"psy"`
	Sales    []domain.Sale    `json:"sales"`
	Outflows []domain.Expense `json:"expense_items"`
}

// ─── Service ────────────────────────────────────────────────────────────────

// Service computes dashboard and period snapshots.
type Service struct {
	herd   domain.HerdStore
	ledger domain.LedgerStore
	log    *zap.Logger
	now    func() time.Time
}

// NewService creates a herd reporting service.
func NewService(herd domain.HerdStore, ledger domain.LedgerStore, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{herd: herd, ledger: ledger, log: log, now: time.Now}
}

// SetClock overrides the time source (tests).
func (s *Service) SetClock(now func() time.Time) { s.now = now }

// Dashboard returns the current inventory, ledger totals for entries dated
// from 90 days ago onward and the sows due to farrow in the next 30 days.
func (s *Service) Dashboard() (Dashboard, error) {
	start := time.Now()
	defer observability.Since(observability.ReportDuration.WithLabelValues("dashboard"), start)

	today := domain.DateOf(s.now())

	counts, err := s.herd.ActiveInventory()
	if err != nil {
		return Dashboard{}, fmt.Errorf("load inventory: %w", err)
	}

	since := today.AddDays(-DashboardLedgerDays)
	income, expenses, err := s.ledgerTotals(since, openEnd)
	if err != nil {
		return Dashboard{}, err
	}

	upcoming, err := s.herd.UpcomingFarrowings(today, today.AddDays(UpcomingFarrowingDays))
	if err != nil {
		return Dashboard{}, fmt.Errorf("load upcoming farrowings: %w", err)
	}
	if upcoming == nil {
		upcoming = []domain.UpcomingFarrowing{}
	}

	return Dashboard{
		Inventory: InventorySummary{
			Total:          counts.Total(),
			Sows:           counts[domain.CategorySow],
			Boars:          counts[domain.CategoryBoar],
			PigletsGrowers: counts[domain.CategoryPiglet] + counts[domain.CategoryGrower],
		},
		LedgerSince:        since,
		Income:             income,
		Expenses:           expenses,
		Profit:             income.Sub(expenses),
		UpcomingFarrowings: upcoming,
	}, nil
}

// Period summarizes [start, end]: ledger totals, PSY and the detail rows.
func (s *Service) Period(startDate, endDate domain.Date) (PeriodSummary, error) {
	start := time.Now()
	defer observability.Since(observability.ReportDuration.WithLabelValues("period"), start)

	if endDate.Before(startDate.Time) {
		return PeriodSummary{}, domain.ErrInvalidDateRange
	}

	sales, err := s.ledger.SalesBetween(startDate, endDate)
	if err != nil {
		return PeriodSummary{}, fmt.Errorf("load sales: %w", err)
	}
	expenses, err := s.ledger.ExpensesBetween(startDate, endDate)
	if err != nil {
		return PeriodSummary{}, fmt.Errorf("load expenses: %w", err)
	}

	sows, err := s.herd.ActiveSowCount()
	if err != nil {
		return PeriodSummary{}, fmt.Errorf("count sows: %w", err)
	}
	weaned, err := s.herd.WeanedBetween(startDate, endDate)
	if err != nil {
		return PeriodSummary{}, fmt.Errorf("count weaned: %w", err)
	}

	window := startDate.DaysUntil(endDate)
	if window < 1 {
		window = 1
	}
	psy, ok := PSY(weaned, sows, window)

	income := domain.SumEntries(domain.SaleEntries(sales))
	outflow := domain.SumEntries(domain.ExpenseEntries(expenses))

	if sales == nil {
		sales = []domain.Sale{}
	}
	if expenses == nil {
		expenses = []domain.Expense{}
	}

	s.log.Debug("period summary generated",
		zap.String("start", startDate.String()),
		zap.String("end", endDate.String()),
		zap.Int("sales", len(sales)),
		zap.Int("expenses", len(expenses)),
		zap.Bool("psy_defined", ok),
	)

	return PeriodSummary{
		Start:    startDate,
		End:      endDate,
		Income:   income,
		Expenses: outflow,
		Profit:   income.Sub(outflow),
		PSY: PSYFigure{
			Value:      psy,
			Defined:    ok,
			Weaned:     weaned,
			ActiveSows: sows,
			WindowDays: window,
		},
		Sales:    sales,
		Outflows: expenses,
	}, nil
}

func (s *Service) ledgerTotals(from, to domain.Date) (income, expenses decimal.Decimal, err error) {
	sales, err := s.ledger.SalesBetween(from, to)
	if err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("load sales: %w", err)
	}
	outflows, err := s.ledger.ExpensesBetween(from, to)
	if err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("load expenses: %w", err)
	}
	return domain.SumEntries(domain.SaleEntries(sales)), domain.SumEntries(domain.ExpenseEntries(outflows)), nil
}
