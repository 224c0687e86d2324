package anomaly

import (
	"github.com/mongodb/grip"
	"github.com/mongodb/grip/message"
	"github.com/pkg/errors"

	"github.com/evergreen-ci/breakout/edm"
	"github.com/evergreen-ci/breakout/stats"
)

func trendFor(window []float64, opts *BreakoutOptions) ([]float64, error) {
	if opts == nil {
		return flatTrend(window), nil
	}
	return breakoutTrend(window, *opts)
}

// flatTrend holds every observation at the window median.
func flatTrend(window []float64) []float64 {
	median := stats.Median(window)
	trend := make([]float64, len(window))
	for i := range trend {
		trend[i] = median
	}
	return trend
}

// breakoutTrend splits the window at detected breakouts and holds each
// stretch at its own median, so a level shift inside the window does not
// drag the residuals of the stretches around it.
func breakoutTrend(window []float64, opts BreakoutOptions) ([]float64, error) {
	splits, err := edm.Multi(window, opts.MinSize, opts.Beta, opts.Degree)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	grip.Debug(message.Fields{
		"op":     "anomaly detection",
		"trend":  "breakout",
		"splits": splits,
	})

	trend := make([]float64, 0, len(window))
	prev := 0
	for _, loc := range append(splits, len(window)) {
		median := stats.Median(window[prev:loc])
		for i := prev; i < loc; i++ {
			trend = append(trend, median)
		}
		prev = loc
	}
	return trend, nil
}
