// Package records validates and persists farm records: animals, the
// mating/farrowing cycle, sales, expenses and feed consumption.
package records

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/cerditos-farm/cerditos/internal/domain"
	"github.com/cerditos-farm/cerditos/internal/infra/observability"
)

// Service is the write path for every record form.
type Service struct {
	herd   domain.HerdStore
	ledger domain.LedgerStore
	log    *zap.Logger
}

// NewService creates a records service.
func NewService(herd domain.HerdStore, ledger domain.LedgerStore, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{herd: herd, ledger: ledger, log: log}
}

// ─── Herd ───────────────────────────────────────────────────────────────────

// RegisterAnimal validates a and inserts it, replacing any animal with the
// same ear tag.
func (s *Service) RegisterAnimal(a domain.Animal) (domain.Animal, error) {
	if err := a.Validate(); err != nil {
		return domain.Animal{}, err
	}
	id, err := s.herd.UpsertAnimal(a)
	if err != nil {
		return domain.Animal{}, fmt.Errorf("save animal: %w", err)
	}
	a.ID = id
	s.created("animal", zap.Int64("id", id), zap.String("ear_tag", a.EarTag), zap.String("category", string(a.Category)))
	return a, nil
}

// Animals lists the herd.
func (s *Service) Animals() ([]domain.Animal, error) {
	return s.herd.ListAnimals()
}

// RegisterMating records a service. The sow must be an active Marrana;
// the boar, when given, must be an active Semental.
func (s *Service) RegisterMating(m domain.Mating) (domain.Mating, error) {
	if err := m.Validate(); err != nil {
		return domain.Mating{}, err
	}

	sow, err := s.herd.GetAnimal(m.SowID)
	if err != nil {
		return domain.Mating{}, fmt.Errorf("sow %d: %w", m.SowID, err)
	}
	if sow.Category != domain.CategorySow {
		return domain.Mating{}, fmt.Errorf("%w: animal %s is not a sow", domain.ErrInvalidRecord, sow.EarTag)
	}
	if !sow.IsActive() {
		return domain.Mating{}, fmt.Errorf("%w: sow %s is %s", domain.ErrInvalidRecord, sow.EarTag, sow.Status)
	}
	if m.BoarID != nil {
		boar, err := s.herd.GetAnimal(*m.BoarID)
		if err != nil {
			return domain.Mating{}, fmt.Errorf("boar %d: %w", *m.BoarID, err)
		}
		if boar.Category != domain.CategoryBoar {
			return domain.Mating{}, fmt.Errorf("%w: animal %s is not a boar", domain.ErrInvalidRecord, boar.EarTag)
		}
		if !boar.IsActive() {
			return domain.Mating{}, fmt.Errorf("%w: boar %s is %s", domain.ErrInvalidRecord, boar.EarTag, boar.Status)
		}
	}

	id, err := s.herd.InsertMating(m)
	if err != nil {
		return domain.Mating{}, fmt.Errorf("save mating: %w", err)
	}
	m.ID = id
	m.SowTag = sow.EarTag
	s.created("mating", zap.Int64("id", id), zap.String("sow", sow.EarTag),
		zap.String("expected_farrowing", m.ExpectedFarrowing.String()))
	return m, nil
}

// Matings lists recorded services.
func (s *Service) Matings() ([]domain.Mating, error) {
	return s.herd.ListMatings()
}

// RegisterFarrowing records a litter against an existing mating.
func (s *Service) RegisterFarrowing(f domain.Farrowing) (domain.Farrowing, error) {
	if err := f.Validate(); err != nil {
		return domain.Farrowing{}, err
	}
	m, err := s.herd.GetMating(f.MatingID)
	if err != nil {
		return domain.Farrowing{}, fmt.Errorf("mating %d: %w", f.MatingID, err)
	}

	id, err := s.herd.InsertFarrowing(f)
	if err != nil {
		return domain.Farrowing{}, fmt.Errorf("save farrowing: %w", err)
	}
	f.ID = id
	f.SowTag = m.SowTag
	s.created("farrowing", zap.Int64("id", id), zap.String("sow", m.SowTag), zap.Int("weaned", f.Weaned))
	return f, nil
}

// Farrowings lists recorded litters.
func (s *Service) Farrowings() ([]domain.Farrowing, error) {
	return s.herd.ListFarrowings()
}

// ─── Ledger ─────────────────────────────────────────────────────────────────

// RegisterSale records a sale.
func (s *Service) RegisterSale(sale domain.Sale) (domain.Sale, error) {
	if err := sale.Validate(); err != nil {
		return domain.Sale{}, err
	}
	id, err := s.ledger.InsertSale(sale)
	if err != nil {
		return domain.Sale{}, fmt.Errorf("save sale: %w", err)
	}
	sale.ID = id
	s.created("sale", zap.Int64("id", id), zap.String("total_price", sale.TotalPrice.String()))
	return sale, nil
}

// Sales lists every sale.
func (s *Service) Sales() ([]domain.Sale, error) {
	return s.ledger.ListSales()
}

// RegisterExpense records an expense.
func (s *Service) RegisterExpense(e domain.Expense) (domain.Expense, error) {
	if err := e.Validate(); err != nil {
		return domain.Expense{}, err
	}
	id, err := s.ledger.InsertExpense(e)
	if err != nil {
		return domain.Expense{}, fmt.Errorf("save expense: %w", err)
	}
	e.ID = id
	s.created("expense", zap.Int64("id", id), zap.String("amount", e.Amount.String()))
	return e, nil
}

// Expenses lists every expense.
func (s *Service) Expenses() ([]domain.Expense, error) {
	return s.ledger.ListExpenses()
}

// RegisterFeed records feed consumption.
func (s *Service) RegisterFeed(f domain.FeedRecord) (domain.FeedRecord, error) {
	if err := f.Validate(); err != nil {
		return domain.FeedRecord{}, err
	}
	id, err := s.ledger.InsertFeedRecord(f)
	if err != nil {
		return domain.FeedRecord{}, fmt.Errorf("save feed record: %w", err)
	}
	f.ID = id
	s.created("feed", zap.Int64("id", id), zap.String("stage", string(f.Stage)))
	return f, nil
}

// FeedRecords lists feed consumption.
func (s *Service) FeedRecords() ([]domain.FeedRecord, error) {
	return s.ledger.ListFeedRecords()
}

func (s *Service) created(kind string, fields ...zap.Field) {
	observability.RecordsCreated.WithLabelValues(kind).Inc()
	s.log.Info(kind+" recorded", fields...)
}
