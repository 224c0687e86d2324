// Package stats provides the numeric helpers shared by the breakout and
// anomaly detectors. None of the functions mutate their input.
package stats

import (
	"math"
	"sort"
)

// madScale rescales the median absolute deviation so it estimates the
// standard deviation for normally distributed values. Same constant as R's
// mad().
const madScale = 1.4826

// Mean returns the arithmetic mean of vals, using Kahan summation for
// numerical stability. Returns 0 for an empty slice.
func Mean(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}

	var sum, c float64
	for _, v := range vals {
		y := v - c
		t := sum + y
		c = (t - sum) - y
		sum = t
	}
	return sum / float64(len(vals))
}

// Percentile returns the p-th percentile of vals for p in [0, 1], using
// linear interpolation between the closest ranks of a sorted copy. Returns 0
// for an empty slice.
func Percentile(vals []float64, p float64) float64 {
	count := len(vals)
	if count == 0 {
		return 0
	}

	sorted := make([]float64, count)
	copy(sorted, vals)
	sort.Float64s(sorted)

	pos := p * float64(count-1)
	lower := int(math.Floor(pos))
	upper := int(math.Ceil(pos))
	if lower == upper || upper >= count {
		return sorted[lower]
	}

	frac := pos - float64(lower)
	return sorted[lower]*(1-frac) + sorted[upper]*frac
}

// Median returns the 50th percentile of vals.
func Median(vals []float64) float64 {
	return Percentile(vals, 0.5)
}

// MedianAbsDev returns the median absolute deviation of vals around their
// median, scaled by the usual normal-consistency constant.
func MedianAbsDev(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}

	median := Median(vals)
	devs := make([]float64, len(vals))
	for i, v := range vals {
		devs[i] = math.Abs(v - median)
	}
	return Median(devs) * madScale
}
