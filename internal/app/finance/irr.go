package finance

import (
	"math"

	"github.com/cerditos-farm/cerditos/internal/domain"
)

// ─── Internal Rate of Return ────────────────────────────────────────────────
// NPV(r) = Σ cash_i / (1+r)^i. The solver runs Newton–Raphson from Guess and,
// if that fails, bisection over a bracket where NPV changes sign. Each method
// is bounded by MaxIterations. Flows are divided by max|cash_i| first, which
// keeps the root and makes Tolerance independent of the currency's scale; a
// root is accepted only when |NPV| of the scaled flows is below Tolerance.

// IRRConfig bounds the root-finder.
type IRRConfig struct {
	Guess         float64 // Newton seed (default 0.1)
	Tolerance     float64 // |NPV| threshold on scaled flows (default 1e-6)
	MaxIterations int     // per method (default 100)
}

// DefaultIRRConfig returns the documented solver bounds.
func DefaultIRRConfig() IRRConfig {
	return IRRConfig{
		Guess:         0.1,
		Tolerance:     1e-6,
		MaxIterations: 100,
	}
}

func (c IRRConfig) withDefaults() IRRConfig {
	d := DefaultIRRConfig()
	if c.Tolerance <= 0 {
		c.Tolerance = d.Tolerance
	}
	if c.MaxIterations <= 0 {
		c.MaxIterations = d.MaxIterations
	}
	if c.Guess <= -1 || math.IsNaN(c.Guess) || math.IsInf(c.Guess, 0) {
		c.Guess = d.Guess
	}
	return c
}

// IRRResult is a solved monthly rate.
type IRRResult struct {
	Monthly    float64
	Iterations int
	Method     string // "newton" or "bisection"
}

// Annualized compounds the monthly rate over twelve periods.
func (r IRRResult) Annualized() float64 {
	return Annualize(r.Monthly)
}

// Annualize converts a monthly rate to (1+r)^12 - 1.
func Annualize(monthly float64) float64 {
	return math.Pow(1+monthly, 12) - 1
}

// NPV discounts flows at rate r, with flows[0] undiscounted.
func NPV(flows []float64, r float64) float64 {
	npv, _ := npvAndDerivative(flows, r)
	return npv
}

func npvAndDerivative(flows []float64, r float64) (npv, dnpv float64) {
	base := 1 + r
	for i, c := range flows {
		if i == 0 {
			npv += c
			continue
		}
		disc := math.Pow(base, float64(i))
		npv += c / disc
		dnpv -= float64(i) * c / (disc * base)
	}
	return npv, dnpv
}

// HasSignChange reports whether flows contain both a strictly positive and a
// strictly negative value.
func HasSignChange(flows []float64) bool {
	var pos, neg bool
	for _, c := range flows {
		switch {
		case c > 0:
			pos = true
		case c < 0:
			neg = true
		}
		if pos && neg {
			return true
		}
	}
	return false
}

// IRR solves for the monthly rate at which NPV is zero.
//
// It returns domain.ErrIRRNoSignChange when no root can exist and
// domain.ErrIRRNotConverged when neither method reached the tolerance
// within its iteration cap.
func IRR(flows []float64, cfg IRRConfig) (IRRResult, error) {
	cfg = cfg.withDefaults()
	if !HasSignChange(flows) {
		return IRRResult{}, domain.ErrIRRNoSignChange
	}
	flows = normalize(flows)

	if r, n, ok := newton(flows, cfg); ok {
		return IRRResult{Monthly: r, Iterations: n, Method: "newton"}, nil
	}
	if r, n, ok := bisect(flows, cfg); ok {
		return IRRResult{Monthly: r, Iterations: n, Method: "bisection"}, nil
	}
	return IRRResult{}, domain.ErrIRRNotConverged
}

// normalize returns flows divided by their largest magnitude.
func normalize(flows []float64) []float64 {
	var peak float64
	for _, c := range flows {
		peak = math.Max(peak, math.Abs(c))
	}
	out := make([]float64, len(flows))
	for i, c := range flows {
		out[i] = c / peak
	}
	return out
}

func newton(flows []float64, cfg IRRConfig) (float64, int, bool) {
	r := cfg.Guess
	for i := 1; i <= cfg.MaxIterations; i++ {
		npv, d := npvAndDerivative(flows, r)
		if !finite(npv) || !finite(d) {
			return 0, i, false
		}
		if math.Abs(npv) < cfg.Tolerance {
			return r, i, true
		}
		if d == 0 {
			return 0, i, false
		}
		next := r - npv/d
		if next <= -1 {
			// Step halfway toward -1 instead; (1+r)^i is undefined past it.
			next = (r - 1) / 2
		}
		r = next
	}
	return 0, cfg.MaxIterations, false
}

const (
	bisectLow     = -0.99
	bisectHighCap = 1e6
)

func bisect(flows []float64, cfg IRRConfig) (float64, int, bool) {
	lo, hi := bisectLow, 1.0
	fLo := NPV(flows, lo)
	fHi := NPV(flows, hi)
	for fLo*fHi > 0 && hi < bisectHighCap {
		hi *= 2
		fHi = NPV(flows, hi)
	}
	if !finite(fLo) || !finite(fHi) || fLo*fHi > 0 {
		return 0, 0, false
	}

	for i := 1; i <= cfg.MaxIterations; i++ {
		mid := lo + (hi-lo)/2
		fMid := NPV(flows, mid)
		if !finite(fMid) {
			return 0, i, false
		}
		if math.Abs(fMid) < cfg.Tolerance {
			return mid, i, true
		}
		if fLo*fMid < 0 {
			hi = mid
		} else {
			lo, fLo = mid, fMid
		}
	}
	return 0, cfg.MaxIterations, false
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
