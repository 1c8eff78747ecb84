package domain

// ─── Store Interfaces ───────────────────────────────────────────────────────
// These interfaces define boundaries between layers.
// The sqlite package implements them; application services depend on them.

// HerdStore persists animals and the reproduction cycle.
type HerdStore interface {
	UpsertAnimal(a Animal) (int64, error)
	GetAnimal(id int64) (*Animal, error)
	ListAnimals() ([]Animal, error)
	ActiveInventory() (InventoryCounts, error)
	ActiveSowCount() (int, error)

	InsertMating(m Mating) (int64, error)
	GetMating(id int64) (*Mating, error)
	ListMatings() ([]Mating, error)
	UpcomingFarrowings(from, to Date) ([]UpcomingFarrowing, error)

	InsertFarrowing(f Farrowing) (int64, error)
	ListFarrowings() ([]Farrowing, error)
	WeanedBetween(from, to Date) (int, error) // by farrowing date
}

// LedgerStore persists sales, expenses and feed consumption.
// Range queries are inclusive on both ends.
type LedgerStore interface {
	InsertSale(s Sale) (int64, error)
	ListSales() ([]Sale, error)
	SalesBetween(from, to Date) ([]Sale, error)

	InsertExpense(e Expense) (int64, error)
	ListExpenses() ([]Expense, error)
	ExpensesBetween(from, to Date) ([]Expense, error)

	InsertFeedRecord(f FeedRecord) (int64, error)
	ListFeedRecords() ([]FeedRecord, error)
}
