package edm

import (
	"sort"

	"github.com/pkg/errors"
)

// Multi locates every breakout in series using the recursive energy
// divergence search. A segment's best candidate split is accepted when its
// divergence gap exceeds beta times the segment's own energy dispersion, so
// larger beta values demand stronger distributional shifts and never produce
// more change points. degree selects the polynomial detrending order applied
// to each side of a candidate split before the divergence is computed (0
// compares raw values). The returned split indices are strictly increasing
// and each is at least minSize observations from its neighbors and from both
// ends of the series.
func Multi(series []float64, minSize int, beta float64, degree int) ([]int, error) {
	if err := validateSeries(series, minSize); err != nil {
		return nil, errors.WithStack(err)
	}
	if err := validateLevel("beta", beta); err != nil {
		return nil, errors.WithStack(err)
	}
	if err := validateDegree(degree); err != nil {
		return nil, errors.WithStack(err)
	}

	est := &estimator{series: series, minSize: minSize, degree: degree}
	return partition(est, func(seg segment, res sweepResult) bool {
		return res.gap > beta*res.dispersion
	})
}

// acceptance decides whether a segment's strongest candidate is kept as a
// change point.
type acceptance func(seg segment, res sweepResult) bool

// partition drives the recursive search with an explicit work list of
// pending segments, so pathological accept patterns cannot grow the call
// stack. A rejected segment ends its branch; an accepted split replaces its
// segment with the two sub-segments on either side.
func partition(est *estimator, accept acceptance) ([]int, error) {
	pending := []segment{{start: 0, end: len(est.series)}}
	var splits []int

	for len(pending) > 0 {
		seg := pending[len(pending)-1]
		pending = pending[:len(pending)-1]

		res, err := est.evaluate(seg)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		if res.index == NoSplit || !accept(seg, res) {
			continue
		}

		splits = append(splits, res.index)
		pending = append(pending,
			segment{start: seg.start, end: res.index},
			segment{start: res.index, end: seg.end})
	}

	sort.Ints(splits)
	return splits, nil
}
