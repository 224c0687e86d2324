package edm

import (
	"math"

	"github.com/pkg/errors"

	"github.com/evergreen-ci/breakout/stats"
)

// Tail scans the series once for the split that best separates excursions
// beyond the quant quantile. Each value is reduced to its exceedance past
// the quantile boundary (above it for quant >= 0.5, below it otherwise) and
// the divergence statistic is computed on the exceedances, which makes the
// scan sensitive to abrupt tail excursions rather than mean-level shifts.
// The numerically strongest candidate is always returned; Significant
// reports whether its divergence gap cleared alpha times the exceedance
// dispersion.
func Tail(series []float64, minSize int, alpha, quant float64) (BestSplit, error) {
	none := BestSplit{Location: NoSplit}
	if err := validateSeries(series, minSize); err != nil {
		return none, errors.WithStack(err)
	}
	if err := validateLevel("alpha", alpha); err != nil {
		return none, errors.WithStack(err)
	}
	if err := validateQuantile(quant); err != nil {
		return none, errors.WithStack(err)
	}

	boundary := stats.Percentile(series, quant)
	exceedances := make([]float64, len(series))
	for i, v := range series {
		if quant >= 0.5 {
			exceedances[i] = math.Max(0, v-boundary)
		} else {
			exceedances[i] = math.Max(0, boundary-v)
		}
	}

	est := &estimator{series: exceedances, minSize: minSize}
	res, err := est.evaluate(segment{start: 0, end: len(exceedances)})
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
