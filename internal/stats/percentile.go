// Package stats holds the reductions applied to raw experiment samples,
// plus a histogram-backed running view for progress output.
package stats

import "sort"

// Mean returns the arithmetic mean, 0 for an empty input.
func Mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// Max returns the largest value, 0 for an empty input.
func Max(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	m := xs[0]
	for _, x := range xs[1:] {
		if x > m {
			m = x
		}
	}
	return m
}

// PercentileIndex returns the element at index floor(p*n) of the ascending
// sort. Not an interpolated quantile: at small n the picked element can sit
// below the mean when a single outlier dominates the tail.
func PercentileIndex(xs []float64, p float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sorted := append([]float64(nil), xs...)
	sort.Float64s(sorted)
	idx := int(float64(len(sorted)) * p)
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

// PercentileInterpolated returns the i-th of n-1 exclusive-method quantile
// cut points (i=19, n=20 is the 95th percentile). Inputs with fewer than
// two samples degrade to the lone sample or 0 rather than erroring.
func PercentileInterpolated(xs []float64, i, n int) float64 {
	ld := len(xs)
	if ld == 0 {
		return 0
	}
	if ld == 1 {
		return xs[0]
	}
	sorted := append([]float64(nil), xs...)
	sort.Float64s(sorted)

	m := ld + 1
	j := i * m / n
	delta := i*m - j*n
	if j < 1 {
		j = 1
	} else if j > ld-1 {
		j = ld - 1
	}
	return (sorted[j-1]*float64(n-delta) + sorted[j]*float64(delta)) / float64(n)
}
