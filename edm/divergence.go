package edm

import (
	"math"

	"github.com/pkg/errors"

	"github.com/evergreen-ci/breakout/stats"
)

// segment is a half-open index range of the series under search.
type segment struct {
	start int
	end   int
}

func (s segment) length() int { return s.end - s.start }

// sweepResult describes the strongest candidate split of one segment along
// with the reference quantities the acceptance rules compare against.
type sweepResult struct {
	index      int     // absolute index of the strongest candidate, NoSplit if none
	q          float64 // scaled divergence statistic at that candidate
	gap        float64 // divergence gap 2B - Wp - Ws at that candidate
	dispersion float64 // mean pairwise absolute difference across the segment
}

// estimator computes energy divergence statistics for segments of a single
// series. The divergence gap at a candidate split compares the mean absolute
// difference between the two sides (B) against the mean absolute differences
// within each side (Wp, Ws); the statistic scales the gap by the effective
// sample size of the split so values are comparable across split positions.
type estimator struct {
	series  []float64
	minSize int
	degree  int
}

// evaluate sweeps every candidate split of seg, where a candidate must leave
// at least minSize observations on each side, and returns the strongest one.
// Segments shorter than 2*minSize have no candidates. Constant segments have
// zero dispersion and a zero divergence gap everywhere, which no acceptance
// rule clears.
func (e *estimator) evaluate(seg segment) (sweepResult, error) {
	res := sweepResult{index: NoSplit}
	if seg.length() < 2*e.minSize {
		return res, nil
	}

	values := e.series[seg.start:seg.end]
	if e.degree > 0 {
		return e.sweepDetrended(seg, values)
	}

	length := len(values)
	diffs, total := pairwiseDiffs(values)
	res.dispersion = total / (float64(length*(length-1)) / 2.0)

	// Distance sums for the initial prefix of minSize observations:
	// between the sides, within the prefix, and within the suffix.
	prefix := e.minSize
	var term1, term2, term3 float64
	for i := 0; i < prefix; i++ {
		for j := prefix; j < length; j++ {
			term1 += diffs[i*length+j]
		}
	}
	for i := 0; i < prefix; i++ {
		for j := i + 1; j < prefix; j++ {
			term2 += diffs[i*length+j]
		}
	}
	for i := prefix; i < length; i++ {
		for j := i + 1; j < length; j++ {
			term3 += diffs[i*length+j]
		}
	}

	q, gap := qstat(term1, term2, term3, prefix, length-prefix)
	res.index = seg.start + prefix
	res.q = q
	res.gap = gap

	for t := prefix + 1; t <= length-e.minSize; t++ {
		moved := t - 1

		var rowDelta float64
		for j := 0; j < moved; j++ {
			rowDelta += diffs[moved*length+j]
		}
		var columnDelta float64
		for j := moved + 1; j < length; j++ {
			columnDelta += diffs[moved*length+j]
		}

		// The moved observation's between-side distances become
		// within-prefix distances, and its within-suffix distances
		// become between-side distances.
		term1 = term1 - rowDelta + columnDelta
		term2 = term2 + rowDelta
		term3 = term3 - columnDelta

		q, gap = qstat(term1, term2, term3, t, length-t)
		if q > res.q {
			res.index = seg.start + t
			res.q = q
			res.gap = gap
		}
	}

	return res, nil
}

// sweepDetrended recomputes the divergence at every candidate split after
// removing a fitted polynomial trend from each side separately. The fitted
// trends depend on the split position, so the incremental term updates do not
// apply and each candidate costs a full recomputation.
func (e *estimator) sweepDetrended(seg segment, values []float64) (sweepResult, error) {
	res := sweepResult{index: NoSplit}
	length := len(values)

	total := 0.0
	for i := 0; i < length; i++ {
		for j := i + 1; j < length; j++ {
			total += math.Abs(values[i] - values[j])
		}
	}
	res.dispersion = total / (float64(length*(length-1)) / 2.0)

	for t := e.minSize; t <= length-e.minSize; t++ {
		left, err := stats.PolyResiduals(values[:t], e.degree)
		if err != nil {
			return res, errors.WithStack(err)
		}
		right, err := stats.PolyResiduals(values[t:], e.degree)
		if err != nil {
			return res, errors.WithStack(err)
		}

		var term1, term2, term3 float64
		for i, l := range left {
			for _, r := range right {
				term1 += math.Abs(l - r)
			}
			for _, other := range left[i+1:] {
				term2 += math.Abs(l - other)
			}
		}
		for i, r := range right {
			for _, other := range right[i+1:] {
				term3 += math.Abs(r - other)
			}
		}

		q, gap := qstat(term1, term2, term3, t, length-t)
		if res.index == NoSplit || q > res.q {
			res.index = seg.start + t
			res.q = q
			res.gap = gap
		}
	}

	return res, nil
}

// pairwiseDiffs returns the symmetric matrix of absolute differences between
// every pair of values, along with the sum over distinct pairs.
func pairwiseDiffs(values []float64) ([]float64, float64) {
	length := len(values)
	diffs := make([]float64, length*length)
	total := 0.0
	for row := 0; row < length; row++ {
		for column := row + 1; column < length; column++ {
			delta := math.Abs(values[row] - values[column])
			diffs[row*length+column] = delta
			diffs[column*length+row] = delta
			total += delta
		}
	}
	return diffs, total
}

// qstat computes the scaled divergence statistic and the raw divergence gap
// for a split into a prefix of n and a suffix of m observations. A side with
// a single observation contributes zero within-side dispersion.
func qstat(term1, term2, term3 float64, prefix, suffix int) (q, gap float64) {
	n := float64(prefix)
	m := float64(suffix)

	between := 2.0 * term1 / (m * n)
	var withinPrefix, withinSuffix float64
	if prefix > 1 {
		withinPrefix = 2.0 * term2 / (n * (n - 1))
	}
	if suffix > 1 {
		withinSuffix = 2.0 * term3 / (m * (m - 1))
	}

	gap = between - withinPrefix - withinSuffix
	q = (m * n / (m + n)) * gap
	return q, gap
}
