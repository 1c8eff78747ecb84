package domain

import "errors"

// ─── Sentinel Errors ────────────────────────────────────────────────────────
// Domain errors are pure: no infrastructure dependency.

var (
	// Record errors
	ErrInvalidRecord = errors.New("invalid record")
	ErrInvalidDate   = errors.New("invalid calendar date")
	ErrNotFound      = errors.New("record not found")

	// Report conditions. These are surfaced as statuses on reports,
	// never as request failures.
	ErrInsufficientData = errors.New("insufficient data: no investment and no transactions")
	ErrInvalidDateRange = errors.New("invalid date range: end before start")

	// IRR solver outcomes. Both map to the irr_undefined report status.
	ErrIRRNoSignChange = errors.New("irr undefined: cash flow has no sign change")
	ErrIRRNotConverged = errors.New("irr undefined: solver did not converge")

	// Session errors
	ErrUnauthorized   = errors.New("unauthorized")
	ErrSessionExpired = errors.New("session expired")
	ErrWrongPassword  = errors.New("wrong password")
)
