package edm

import "github.com/pkg/errors"

// ChangeDetector types locate breakouts in an ordered series.
type ChangeDetector interface {
	DetectChanges([]float64) ([]ChangePoint, error)
}

// ChangePoint represents a single detected breakout.
type ChangePoint struct {
	Index int           `json:"index"`
	Info  AlgorithmInfo `json:"info"`
}

// AlgorithmInfo records which algorithm and parameters produced a change
// point.
type AlgorithmInfo struct {
	Name    string            `json:"name"`
	Version int               `json:"version"`
	Options []AlgorithmOption `json:"options"`
}

type AlgorithmOption struct {
	Name  string      `json:"name"`
	Value interface{} `json:"value"`
}

// NewMultiDetector returns a detector running the recursive multi-point
// search with a beta significance level.
func NewMultiDetector(minSize int, beta float64, degree int) ChangeDetector {
	return &multiDetector{
		minSize: minSize,
		beta:    beta,
		degree:  degree,
		info: AlgorithmInfo{
			Name:    "edm_multi",
			Version: 1,
			Options: []AlgorithmOption{
				{Name: "min_size", Value: minSize},
				{Name: "beta", Value: beta},
				{Name: "degree", Value: degree},
			},
		},
	}
}

type multiDetector struct {
	minSize int
	beta    float64
	degree  int
	info    AlgorithmInfo
}

func (d *multiDetector) DetectChanges(series []float64) ([]ChangePoint, error) {
	indexes, err := Multi(series, d.minSize, d.beta, d.degree)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return taggedChangePoints(indexes, d.info), nil
}

// NewPercentDetector returns a detector running the recursive search with a
// relative-strength acceptance threshold.
func NewPercentDetector(minSize int, percent float64, degree int) ChangeDetector {
	return &percentDetector{
		minSize: minSize,
		percent: percent,
		degree:  degree,
		info: AlgorithmInfo{
			Name:    "edm_percent",
			Version: 1,
			Options: []AlgorithmOption{
				{Name: "min_size", Value: minSize},
				{Name: "percent", Value: percent},
				{Name: "degree", Value: degree},
			},
		},
	}
}

type percentDetector struct {
	minSize int
	percent float64
	degree  int
	info    AlgorithmInfo
}

func (d *percentDetector) DetectChanges(series []float64) ([]ChangePoint, error) {
	indexes, err := Percent(series, d.minSize, d.percent, d.degree)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return taggedChangePoints(indexes, d.info), nil
}

// NewTailDetector returns a detector wrapping the tail scanner. It reports at
// most one change point, and only when the tail statistic is significant.
func NewTailDetector(minSize int, alpha, quant float64) ChangeDetector {
	return &tailDetector{
		minSize: minSize,
		alpha:   alpha,
		quant:   quant,
		info: AlgorithmInfo{
			Name:    "edm_tail",
			Version: 1,
			Options: []AlgorithmOption{
				{Name: "min_size", Value: minSize},
				{Name: "alpha", Value: alpha},
				{Name: "quant", Value: quant},
			},
		},
	}
}

type tailDetector struct {
	minSize int
	alpha   float64
	quant   float64
	info    AlgorithmInfo
}

func (d *tailDetector) DetectChanges(series []float64) ([]ChangePoint, error) {
	best, err := Tail(series, d.minSize, d.alpha, d.quant)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if best.Location == NoSplit || !best.Significant {
		return []ChangePoint{}, nil
	}
	return []ChangePoint{{Index: best.Location, Info: d.info}}, nil
}

// NewSingleDetector returns a detector wrapping the single-point search. It
// reports at most one change point, and only when the statistic is
// significant.
func NewSingleDetector(minSize int, alpha float64) ChangeDetector {
	return &singleDetector{
		minSize: minSize,
		alpha:   alpha,
		info: AlgorithmInfo{
			Name:    "edm_single",
			Version: 1,
			Options: []AlgorithmOption{
				{Name: "min_size", Value: minSize},
				{Name: "alpha", Value: alpha},
			},
		},
	}
}

type singleDetector struct {
	minSize int
	alpha   float64
	info    AlgorithmInfo
}

func (d *singleDetector) DetectChanges(series []float64) ([]ChangePoint, error) {
	best, err := Single(series, d.minSize, d.alpha)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if best.Location == NoSplit || !best.Significant {
		return []ChangePoint{}, nil
	}
	return []ChangePoint{{Index: best.Location, Info: d.info}}, nil
}

func taggedChangePoints(indexes []int, info AlgorithmInfo) []ChangePoint {
	out := make([]ChangePoint, 0, len(indexes))
	for _, idx := range indexes {
		out = append(out, ChangePoint{Index: idx, Info: info})
	}
	return out
}
