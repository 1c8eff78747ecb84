package finance

import "github.com/shopspring/decimal"

// Payback returns the first index, scanning chronologically, at which the
// cumulative sum of amounts is non-negative. Index 0 is the investment
// period. ok is false when the cumulative sum never reaches zero.
func Payback(amounts []decimal.Decimal) (index int, ok bool) {
	sum := decimal.Zero
	for i, a := range amounts {
		sum = sum.Add(a)
		if !sum.IsNegative() {
			return i, true
		}
	}
	return 0, false
}
