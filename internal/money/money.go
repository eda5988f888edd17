// Package money holds the rounding helpers shared by the billing
// calculators. Amounts are whole ouguiya (MRU) carried as float64; every
// monetary input is rounded before arithmetic so missing or fractional
// upstream data cannot introduce drift.
package money

import "math"

// Round rounds to the nearest whole unit, halves away from zero.
func Round(v float64) float64 {
	return math.Round(v)
}

// ClampNonNegative floors a value at zero. Debts never go negative; an
// overpaid order simply owes nothing.
func ClampNonNegative(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}
