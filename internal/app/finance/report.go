package finance

import (
	"errors"

	"github.com/shopspring/decimal"

	"github.com/cerditos-farm/cerditos/internal/domain"
)

// ─── Report ─────────────────────────────────────────────────────────────────

// Status is the overall outcome of a report run. None of these are failures:
// they are conditions the presentation layer reports to the user.
type Status string

const (
	StatusOK                Status = "ok"
	StatusInsufficientData  Status = "insufficient_data"
	StatusInvalidDateRange  Status = "invalid_date_range"
	StatusIRRUndefined      Status = "irr_undefined"
	StatusPaybackNotReached Status = "payback_not_reached"
)

// IRR failure reasons, exposed alongside the merged irr_undefined status.
const (
	IRRReasonNoSignChange = "no_sign_change"
	IRRReasonNotConverged = "not_converged"
)

// Period is one row of the displayed cash-flow table.
type Period struct {
	Label      string          `json:"month_label"`
	Amount     decimal.Decimal `json:"amount"`
	Sales      decimal.Decimal `json:"sales"`
	Expenses   decimal.Decimal `json:"expenses"`
	Cumulative decimal.Decimal `json:"cumulative"`
}

// Report is the structured result handed to the presentation layer.
type Report struct {
	Start           domain.Date     `json:"start"`
	End             domain.Date     `json:"end"`
	Investment      decimal.Decimal `json:"investment"`
	MonthlyCashFlow []Period        `json:"monthly_cashflow"`
	IRRMonthly      *float64        `json:"irr_monthly"`
	IRRAnnualized   *float64        `json:"irr_annualized"`
	IRRReason       string          `json:"irr_reason,omitempty"`
	IRRMethod       string          `json:"irr_method,omitempty"`
	IRRIterations   int             `json:"irr_iterations,omitempty"`
	PaybackMonths   *int            `json:"payback_months"`
	Status          Status          `json:"status"`
	Warnings        []Status        `json:"warnings,omitempty"`
}

// Compute runs the builder, the IRR solver and the payback detector over in.
// It never returns an error: every condition becomes a status.
func Compute(in CashFlowInput, cfg IRRConfig) Report {
	rep := Report{Start: in.Start, End: in.End, Investment: in.Investment}

	flow, err := BuildCashFlow(in)
	switch {
	case errors.Is(err, domain.ErrInsufficientData):
		rep.setStatus(StatusInsufficientData)
		return rep
	case errors.Is(err, domain.ErrInvalidDateRange):
		rep.setStatus(StatusInvalidDateRange)
		return rep
	}

	amounts := flow.Amounts()
	cum := Cumulative(amounts)
	rep.MonthlyCashFlow = make([]Period, 0, flow.Len())
	rep.MonthlyCashFlow = append(rep.MonthlyCashFlow, Period{
		Label:      InvestmentLabel,
		Amount:     amounts[0],
		Sales:      decimal.Zero,
		Expenses:   decimal.Zero,
		Cumulative: cum[0],
	})
	for i, m := range flow.Months {
		rep.MonthlyCashFlow = append(rep.MonthlyCashFlow, Period{
			Label:      m.Month.String(),
			Amount:     amounts[i+1],
			Sales:      m.Sales,
			Expenses:   m.Expenses,
			Cumulative: cum[i+1],
		})
	}

	res, err := IRR(flow.Floats(), cfg)
	switch {
	case err == nil:
		monthly, annual := res.Monthly, res.Annualized()
		rep.IRRMonthly, rep.IRRAnnualized = &monthly, &annual
		rep.IRRMethod, rep.IRRIterations = res.Method, res.Iterations
	case errors.Is(err, domain.ErrIRRNoSignChange):
		rep.IRRReason = IRRReasonNoSignChange
		rep.setStatus(StatusIRRUndefined)
	default:
		rep.IRRReason = IRRReasonNotConverged
		rep.setStatus(StatusIRRUndefined)
	}

	if idx, ok := Payback(amounts); ok {
		rep.PaybackMonths = &idx
	} else {
		rep.setStatus(StatusPaybackNotReached)
	}

	if rep.Status == "" {
		rep.Status = StatusOK
	}
	return rep
}

// setStatus records a condition; the first one recorded becomes the status.
func (r *Report) setStatus(s Status) {
	if r.Status == "" {
		r.Status = s
	}
	r.Warnings = append(r.Warnings, s)
}

// Labels returns the period labels in order.
func (r Report) Labels() []string {
	out := make([]string, len(r.MonthlyCashFlow))
	for i, p := range r.MonthlyCashFlow {
		out[i] = p.Label
	}
	return out
}
