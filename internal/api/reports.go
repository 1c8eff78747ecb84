package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cerditos-farm/cerditos/internal/app/finance"
	"github.com/cerditos-farm/cerditos/internal/domain"
)

// ─── Report API ─────────────────────────────────────────────────────────────
//
// GET /api/dashboard                                   — landing snapshot
// GET /api/reports/period?start=&end=                  — income, expenses, PSY
// GET /api/finance/report?start=&end=&investment=      — cash flow, IRR, payback
// GET /api/finance/cashflow.png?start=&end=&investment= — chart of the same

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	d, err := s.herd.Dashboard()
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (s *Server) handlePeriodReport(w http.ResponseWriter, r *http.Request) {
	start, end, err := queryRange(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	p, err := s.herd.Period(start, end)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// handleFinanceReport always answers 200 once the query parses: report
// conditions, including a reversed range, are carried in the status field.
func (s *Server) handleFinanceReport(w http.ResponseWriter, r *http.Request) {
	req, err := financeRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	rep, err := s.finance.Generate(req)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

func (s *Server) handleCashFlowChart(w http.ResponseWriter, r *http.Request) {
	req, err := financeRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	rep, err := s.finance.Generate(req)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	img, err := finance.RenderChart(rep)
	if errors.Is(err, finance.ErrNothingToPlot) {
		writeError(w, http.StatusUnprocessableEntity, fmt.Sprintf("%s (status %s)", err, rep.Status))
		return
	}
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	w.Write(img)
}

// ─── Query Parsing ──────────────────────────────────────────────────────────

func queryDate(r *http.Request, name string) (domain.Date, error) {
	v := strings.TrimSpace(r.URL.Query().Get(name))
	if v == "" {
		return domain.Date{}, fmt.Errorf("missing %s (YYYY-MM-DD)", name)
	}
	d, err := domain.ParseDate(v)
	if err != nil {
		return domain.Date{}, fmt.Errorf("%s: %w", name, err)
	}
	return d, nil
}

func queryRange(r *http.Request) (start, end domain.Date, err error) {
	if start, err = queryDate(r, "start"); err != nil {
		return
	}
	end, err = queryDate(r, "end")
	return
}

func financeRequest(r *http.Request) (finance.Request, error) {
	start, end, err := queryRange(r)
	if err != nil {
		return finance.Request{}, err
	}

	investment := decimal.Zero
	if v := strings.TrimSpace(r.URL.Query().Get("investment")); v != "" {
		investment, err = decimal.NewFromString(v)
		if err != nil {
			return finance.Request{}, fmt.Errorf("investment %q is not a number", v)
		}
		if err := domain.ValidateAmount("investment", investment); err != nil {
			return finance.Request{}, err
		}
	}
	return finance.Request{Start: start, End: end, Investment: investment}, nil
}
