package edm

import "github.com/pkg/errors"

// Single scans the series once and returns the location with the strongest
// plain divergence statistic. The numerically best candidate is always
// returned; Significant reports whether its divergence gap cleared alpha
// times the series dispersion.
func Single(series []float64, minSize int, alpha float64) (BestSplit, error) {
	none := BestSplit{Location: NoSplit}
	if err := validateSeries(series, minSize); err != nil {
		return none, errors.WithStack(err)
	}
	if err := validateLevel("alpha", alpha); err != nil {
		return none, errors.WithStack(err)
	}

	est := &estimator{series: series, minSize: minSize}
	res, err := est.evaluate(segment{start: 0, end: len(series)})
	if err != nil {
		return none, errors.WithStack(err)
	}
	if res.index == NoSplit {
		return none, nil
	}

	return BestSplit{
		Location:    res.index,
		Statistic:   res.q,
		Significant: res.gap > alpha*res.dispersion,
	}, nil
}
