package api

import (
	"net/http"

	"github.com/cerditos-farm/cerditos/internal/domain"
)

// ─── Record API ─────────────────────────────────────────────────────────────
//
// GET  /api/animals     — herd, newest first
// POST /api/animals     — upsert by ear tag
// GET  /api/matings     — services with sow ear tag
// POST /api/matings     — register service (expected farrowing computed)
// GET  /api/farrowings  — litters with sow ear tag
// POST /api/farrowings  — register litter + weaning
// GET  /api/sales, /api/expenses, /api/feed — ledger, date descending
// POST /api/sales, /api/expenses, /api/feed — record entry

// listOrEmpty keeps empty listings as [] rather than null.
func listOrEmpty[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}

func (s *Server) handleListAnimals(w http.ResponseWriter, r *http.Request) {
	items, err := s.records.Animals()
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, listOrEmpty(items))
}

func (s *Server) handleCreateAnimal(w http.ResponseWriter, r *http.Request) {
	var a domain.Animal
	if err := decodeJSON(r, &a); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	saved, err := s.records.RegisterAnimal(a)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, saved)
}

func (s *Server) handleListMatings(w http.ResponseWriter, r *http.Request) {
	items, err := s.records.Matings()
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, listOrEmpty(items))
}

func (s *Server) handleCreateMating(w http.ResponseWriter, r *http.Request) {
	var m domain.Mating
	if err := decodeJSON(r, &m); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	saved, err := s.records.RegisterMating(m)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, saved)
}

// handleExpectedFarrowing projects a farrowing date without saving anything.
// GET /api/matings/expected-farrowing?mated_on=YYYY-MM-DD
func (s *Server) handleExpectedFarrowing(w http.ResponseWriter, r *http.Request) {
	matedOn, err := queryDate(r, "mated_on")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"mated_on":           matedOn,
		"gestation_days":     domain.GestationDays,
		"expected_farrowing": domain.ExpectedFarrowing(matedOn),
	})
}

func (s *Server) handleListFarrowings(w http.ResponseWriter, r *http.Request) {
	items, err := s.records.Farrowings()
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, listOrEmpty(items))
}

func (s *Server) handleCreateFarrowing(w http.ResponseWriter, r *http.Request) {
	var f domain.Farrowing
	if err := decodeJSON(r, &f); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	saved, err := s.records.RegisterFarrowing(f)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, saved)
}

func (s *Server) handleListSales(w http.ResponseWriter, r *http.Request) {
	items, err := s.records.Sales()
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, listOrEmpty(items))
}

func (s *Server) handleCreateSale(w http.ResponseWriter, r *http.Request) {
	var sale domain.Sale
	if err := decodeJSON(r, &sale); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	saved, err := s.records.RegisterSale(sale)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, saved)
}

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	items, err := s.records.Expenses()
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, listOrEmpty(items))
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	var e domain.Expense
	if err := decodeJSON(r, &e); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	saved, err := s.records.RegisterExpense(e)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, saved)
}

func (s *Server) handleListFeed(w http.ResponseWriter, r *http.Request) {
	items, err := s.records.FeedRecords()
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, listOrEmpty(items))
}

func (s *Server) handleCreateFeed(w http.ResponseWriter, r *http.Request) {
	var f domain.FeedRecord
	if err := decodeJSON(r, &f); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	saved, err := s.records.RegisterFeed(f)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, saved)
}
