package edm

import "github.com/pkg/errors"

// Percent locates breakouts with the same recursive search as Multi, but
// accepts a segment's best candidate when its divergence statistic reaches
// percent of the largest divergence the segment could show against its own
// baseline variability. The rule is scale-relative: it assumes no null
// distribution for the statistic, only the segment's own dispersion.
func Percent(series []float64, minSize int, percent float64, degree int) ([]int, error) {
	if err := validateSeries(series, minSize); err != nil {
		return nil, errors.WithStack(err)
	}
	if err := validateLevel("percent", percent); err != nil {
		return nil, errors.WithStack(err)
	}
	if err := validateDegree(degree); err != nil {
		return nil, errors.WithStack(err)
	}

	est := &estimator{series: series, minSize: minSize, degree: degree}
	return partition(est, func(seg segment, res sweepResult) bool {
		// A balanced split whose between-side distances all equal the
		// segment dispersion, with no within-side dispersion, scores
		// (n/4) * 2 * dispersion. That is the reference maximum.
		reference := float64(seg.length()) / 4.0 * 2.0 * res.dispersion
		return res.q > percent*reference
	})
}
