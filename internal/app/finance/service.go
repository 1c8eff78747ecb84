package finance

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/cerditos-farm/cerditos/internal/domain"
	"github.com/cerditos-farm/cerditos/internal/infra/observability"
)

// LedgerReader is the slice of the ledger store the report needs.
type LedgerReader interface {
	SalesBetween(from, to domain.Date) ([]domain.Sale, error)
	ExpensesBetween(from, to domain.Date) ([]domain.Expense, error)
}

// Request is one user-triggered report run.
type Request struct {
	Start      domain.Date
	End        domain.Date
	Investment decimal.Decimal
}

// Service fetches ledger records and computes finance reports.
type Service struct {
	ledger LedgerReader
	cfg    IRRConfig
	log    *zap.Logger
}

// NewService creates a finance report service.
func NewService(ledger LedgerReader, cfg IRRConfig, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{ledger: ledger, cfg: cfg.withDefaults(), log: log}
}

// Generate builds the report for req. The only errors returned are storage
// failures; report conditions are carried in Report.Status.
func (s *Service) Generate(req Request) (Report, error) {
	start := time.Now()
	defer observability.Since(observability.ReportDuration.WithLabelValues("finance"), start)

	if req.End.Before(req.Start.Time) {
		rep := Compute(CashFlowInput{Start: req.Start, End: req.End, Investment: req.Investment}, s.cfg)
		s.record(rep)
		return rep, nil
	}

	sales, err := s.ledger.SalesBetween(req.Start, req.End)
	if err != nil {
		return Report{}, fmt.Errorf("load sales: %w", err)
	}
	expenses, err := s.ledger.ExpensesBetween(req.Start, req.End)
	if err != nil {
		return Report{}, fmt.Errorf("load expenses: %w", err)
	}

	rep := Compute(CashFlowInput{
		Start:      req.Start,
		End:        req.End,
		Investment: req.Investment,
		Sales:      domain.SaleEntries(sales),
		Expenses:   domain.ExpenseEntries(expenses),
	}, s.cfg)
	s.record(rep)
	return rep, nil
}

func (s *Service) record(rep Report) {
	observability.FinanceReports.WithLabelValues(string(rep.Status)).Inc()
	if rep.IRRMethod != "" {
		observability.IRRIterations.WithLabelValues(rep.IRRMethod).Observe(float64(rep.IRRIterations))
	}
	s.log.Debug("finance report generated",
		zap.String("start", rep.Start.String()),
		zap.String("end", rep.End.String()),
		zap.String("status", string(rep.Status)),
		zap.Int("periods", len(rep.MonthlyCashFlow)),
		zap.String("irr_reason", rep.IRRReason),
	)
}
