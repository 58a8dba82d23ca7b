package report

import "math"

// Percentile returns the nearest-rank percentile of an ascending slice:
// index ceil(p/100*n)-1, clamped into range. An empty slice yields 0.
//
// For [10 20 30 40 50], P50 is 30 and P90 is 50.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}

	idx := int(math.Ceil(p*float64(n)/100)) - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= n {
		idx = n - 1
	}
	return sorted[idx]
}
