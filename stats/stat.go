// Package stats provides order-statistic helpers shared by the error
// metrics.
package stats

import (
	"math"
	"sort"
)

// Quantile returns the q-th quantile of x with linear interpolation between
// the two adjacent order statistics. q is clamped to [0, 1]. The input is
// not mutated. Returns NaN if x is empty.
func Quantile(x []float64, q float64) float64 {
	if len(x) == 0 {
		return math.NaN()
	}
	q = math.Max(0.0, math.Min(1.0, q))

	xCopy := make([]float64, len(x))
	copy(xCopy, x)
	sort.Float64s(xCopy)

	pos := q * float64(len(xCopy)-1)
	lower := int(math.Floor(pos))
	upper := int(math.Ceil(pos))
	if lower == upper {
		return xCopy[lower]
	}
	frac := pos - float64(lower)
	return xCopy[lower]*(1.0-frac) + xCopy[upper]*frac
}

// Median returns the median of x. For an even number of samples this is the
// mean of the two middle order statistics. The input is not mutated.
// Returns NaN if x is empty.
func Median(x []float64) float64 {
	return Quantile(x, 0.5)
}
