// Package herd derives productivity indicators and dashboard snapshots from
// the herd and ledger stores.
package herd

// DaysPerYear is the year length used to annualize PSY.
const DaysPerYear = 365

// PSY estimates pigs weaned per sow per year:
// (weaned / activeSows) × (365 / windowDays).
//
// windowDays is clamped to at least 1. With no active sows the figure is
// undefined and PSY returns (0, false).
func PSY(weaned, activeSows, windowDays int) (float64, bool) {
	if activeSows <= 0 {
		return 0, false
	}
	if windowDays < 1 {
		windowDays = 1
	}
	return (float64(weaned) / float64(activeSows)) * (float64(DaysPerYear) / float64(windowDays)), true
}
