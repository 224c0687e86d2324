// Package anomaly flags individual outlier observations in an ordered
// numeric series. Observations are reduced to residuals against a trend,
// either a flat median or piecewise medians between detected breakouts, and
// a robust ESD test picks out the residuals too extreme to be noise.
package anomaly

import (
	"math"
	"sort"

	"github.com/mongodb/grip"
	"github.com/mongodb/grip/message"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"

	"github.com/evergreen-ci/breakout/edm"
	"github.com/evergreen-ci/breakout/stats"
)

// Direction selects which side of the trend anomalies are reported on.
type Direction string

const (
	DirectionBoth     Direction = "both"
	DirectionPositive Direction = "pos"
	DirectionNegative Direction = "neg"
)

func (d Direction) Validate() error {
	switch d {
	case DirectionBoth, DirectionPositive, DirectionNegative:
		return nil
	default:
		return invalidArgumentf("invalid direction '%s'", string(d))
	}
}

// Threshold filters reported anomalies against a summary of the per-period
// maxima of the series.
type Threshold string

const (
	ThresholdNone   Threshold = ""
	ThresholdMedMax Threshold = "med_max"
	ThresholdP95    Threshold = "p95"
	ThresholdP99    Threshold = "p99"
)

func (t Threshold) Validate() error {
	switch t {
	case ThresholdNone, ThresholdMedMax, ThresholdP95, ThresholdP99:
		return nil
	default:
		return invalidArgumentf("invalid threshold '%s'", string(t))
	}
}

// BreakoutOptions configures the multi-point breakout search used to build a
// piecewise median trend.
type BreakoutOptions struct {
	MinSize int     `json:"min_size" yaml:"min_size"`
	Beta    float64 `json:"beta" yaml:"beta"`
	Degree  int     `json:"degree" yaml:"degree"`
}

// Options control a single detection run. The zero value of MaxAnoms, Alpha,
// and Direction select the usual defaults.
type Options struct {
	// Period is the number of observations in one reporting period.
	Period int `json:"period" yaml:"period"`
	// MaxAnoms caps the number of reported anomalies as a fraction of the
	// series length, in (0, 0.49].
	MaxAnoms float64 `json:"max_anoms" yaml:"max_anoms"`
	// Alpha is the significance level of the ESD test.
	Alpha     float64   `json:"alpha" yaml:"alpha"`
	Direction Direction `json:"direction" yaml:"direction"`
	// LongtermWindow splits long series into windows of this many
	// observations that are analyzed independently; 0 analyzes the whole
	// series at once.
	LongtermWindow int `json:"longterm_window" yaml:"longterm_window"`
	// OnlyLast restricts reporting to anomalies within the final OnlyLast
	// observations; 0 reports everything.
	OnlyLast  int       `json:"only_last" yaml:"only_last"`
	Threshold Threshold `json:"threshold" yaml:"threshold"`
	// Breakout, when set, builds the trend from piecewise medians between
	// detected breakouts instead of one flat median per window.
	Breakout *BreakoutOptions `json:"breakout,omitempty" yaml:"breakout,omitempty"`
}

// Validate fills defaults and rejects out-of-range options.
func (opts *Options) Validate() error {
	if opts.MaxAnoms == 0 {
		opts.MaxAnoms = 0.10
	}
	if opts.Alpha == 0 {
		opts.Alpha = 0.05
	}
	if opts.Direction == "" {
		opts.Direction = DirectionBoth
	}

	if opts.Period < 1 {
		return invalidArgumentf("period %d must be at least 1", opts.Period)
	}
	if opts.MaxAnoms <= 0 || opts.MaxAnoms > 0.49 {
		return invalidArgumentf("max anoms %f must be in (0, 0.49]", opts.MaxAnoms)
	}
	if opts.Alpha <= 0 || opts.Alpha > 1 {
		return invalidArgumentf("alpha %f must be in (0, 1]", opts.Alpha)
	}
	if err := opts.Direction.Validate(); err != nil {
		return errors.WithStack(err)
	}
	if err := opts.Threshold.Validate(); err != nil {
		return errors.WithStack(err)
	}
	if opts.LongtermWindow < 0 {
		return invalidArgumentf("longterm window %d must not be negative", opts.LongtermWindow)
	}
	if opts.OnlyLast < 0 {
		return invalidArgumentf("only last %d must not be negative", opts.OnlyLast)
	}

	return nil
}

// Anomaly is a single flagged observation together with the trend value the
// detector expected there.
type Anomaly struct {
	Index    int     `json:"index"`
	Value    float64 `json:"value"`
	Expected float64 `json:"expected"`
}

func invalidArgumentf(format string, args ...interface{}) error {
	return errors.Wrapf(edm.ErrInvalidArgument, format, args...)
}

// Detect returns the anomalous observations of series in index order. The
// series is never mutated, and identical inputs always produce identical
// results.
func Detect(series []float64, opts Options) ([]Anomaly, error) {
	if err := opts.Validate(); err != nil {
		return nil, errors.WithStack(err)
	}
	for i, v := range series {
		if math.IsNaN(v) {
			return nil, invalidArgumentf("series contains NaN at index %d", i)
		}
	}

	window := opts.LongtermWindow
	if window <= 0 || window > len(series) {
		window = len(series)
	}
	if window < 2*opts.Period {
		return nil, invalidArgumentf("detection window of %d observations needs at least two periods of %d", window, opts.Period)
	}

	found := map[int]Anomaly{}
	for start := 0; start < len(series); start += window {
		end := start + window
		if end > len(series) {
			end = len(series)
		}
		// A short final window is re-anchored so every window carries a
		// full window's worth of observations.
		if end-start < window {
			start = end - window
		}
		grip.Debug(message.Fields{
			"op":           "anomaly detection",
			"window_start": start,
			"window_end":   end,
		})

		anomalies, err := detectWindow(series[start:end], start, opts)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		for _, a := range anomalies {
			found[a.Index] = a
		}
	}

	out := make([]Anomaly, 0, len(found))
	for _, a := range found {
		if opts.OnlyLast > 0 && a.Index < len(series)-opts.OnlyLast {
			continue
		}
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	return out, nil
}

func detectWindow(window []float64, offset int, opts Options) ([]Anomaly, error) {
	trend, err := trendFor(window, opts.Breakout)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	residuals := make([]float64, len(window))
	for i := range window {
		residuals[i] = window[i] - trend[i]
	}

	maxOutliers := int(float64(len(window)) * opts.MaxAnoms)
	if maxOutliers < 1 {
		maxOutliers = 1
	}
	indexes := esd(residuals, maxOutliers, opts.Alpha, opts.Direction)

	var threshold float64
	if opts.Threshold != ThresholdNone {
		threshold = thresholdValue(window, opts.Period, opts.Threshold)
		grip.Debug(message.Fields{
			"op":        "anomaly detection",
			"threshold": string(opts.Threshold),
			"value":     threshold,
		})
	}

	out := make([]Anomaly, 0, len(indexes))
	for _, idx := range indexes {
		if opts.Threshold != ThresholdNone && window[idx] < threshold {
			continue
		}
		out = append(out, Anomaly{
			Index:    offset + idx,
			Value:    window[idx],
			Expected: trend[idx],
		})
	}
	return out, nil
}

// thresholdValue summarizes the maxima of each period-sized chunk of the
// window.
func thresholdValue(window []float64, period int, threshold Threshold) float64 {
	var maxes []float64
	for i := 0; i < len(window); i += period {
		end := i + period
		if end > len(window) {
			end = len(window)
		}
		maxes = append(maxes, floats.Max(window[i:end]))
	}

	switch threshold {
	case ThresholdMedMax:
		return stats.Median(maxes)
	case ThresholdP95:
		return stats.Percentile(maxes, 0.95)
	case ThresholdP99:
		return stats.Percentile(maxes, 0.99)
	default:
		return 0
	}
}
