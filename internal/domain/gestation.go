package domain

// GestationDays is the fixed swine gestation length used for farrowing projection.
const GestationDays = 114

// ExpectedFarrowing projects the farrowing date for a sow mated on matedOn.
func ExpectedFarrowing(matedOn Date) Date {
	return matedOn.AddDays(GestationDays)
}
