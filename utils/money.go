package utils

import "math"

// Round2 rounds to 2 decimal places. All monetary math rounds at the
// line level so per-line figures always sum to the reported totals.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
