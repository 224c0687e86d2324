package edm

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const defaultSeed = 12345678

// noisySteps builds a deterministic series with level shifts at the given
// boundaries plus a small amount of seeded noise.
func noisySteps(lengths []int, levels []float64, noise float64) []float64 {
	rng := rand.New(rand.NewSource(defaultSeed))
	var series []float64
	for i, n := range lengths {
		for j := 0; j < n; j++ {
			series = append(series, levels[i]+noise*rng.Float64())
		}
	}
	return series
}

func constantSeries(n int, value float64) []float64 {
	series := make([]float64, n)
	for i := range series {
		series[i] = value
	}
	return series
}

func stepSeries(first, second int, low, high float64) []float64 {
	series := make([]float64, 0, first+second)
	for i := 0; i < first; i++ {
		series = append(series, low)
	}
	for i := 0; i < second; i++ {
		series = append(series, high)
	}
	return series
}

// bruteForceBest recomputes the strongest candidate split without the
// incremental term updates.
func bruteForceBest(series []float64, minSize int) (int, float64) {
	bestIndex := NoSplit
	bestQ := math.Inf(-1)
	for t := minSize; t <= len(series)-minSize; t++ {
		var term1, term2, term3 float64
		for i := 0; i < t; i++ {
			for j := t; j < len(series); j++ {
				term1 += math.Abs(series[i] - series[j])
			}
		}
		for i := 0; i < t; i++ {
			for j := i + 1; j < t; j++ {
				term2 += math.Abs(series[i] - series[j])
			}
		}
		for i := t; i < len(series); i++ {
			for j := i + 1; j < len(series); j++ {
				term3 += math.Abs(series[i] - series[j])
			}
		}
		q, _ := qstat(term1, term2, term3, t, len(series)-t)
		if q > bestQ {
			bestIndex = t
			bestQ = q
		}
	}
	return bestIndex, bestQ
}

func TestSweepMatchesBruteForce(t *testing.T) {
	for _, test := range []struct {
		name    string
		series  []float64
		minSize int
	}{
		{
			name:    "Step",
			series:  stepSeries(20, 20, 1.0, 10.0),
			minSize: 5,
		},
		{
			name:    "NoisyShifts",
			series:  noisySteps([]int{30, 30, 30}, []float64{1, 6, 2}, 0.5),
			minSize: 4,
		},
		{
			name:    "TinySides",
			series:  noisySteps([]int{6, 6}, []float64{0, 3}, 0.2),
			minSize: 1,
		},
	} {
		t.Run(test.name, func(t *testing.T) {
			est := &estimator{series: test.series, minSize: test.minSize}
			res, err := est.evaluate(segment{start: 0, end: len(test.series)})
			require.NoError(t, err)

			expectedIndex, expectedQ := bruteForceBest(test.series, test.minSize)
			assert.Equal(t, expectedIndex, res.index)
			assert.InDelta(t, expectedQ, res.q, 1e-6)
		})
	}
}

func TestSweepSubSegmentOffsets(t *testing.T) {
	series := noisySteps([]int{25, 25, 25}, []float64{0, 5, 0}, 0.3)
	est := &estimator{series: series, minSize: 5}

	res, err := est.evaluate(segment{start: 20, end: 60})
	require.NoError(t, err)

	sub := series[20:60]
	expectedIndex, expectedQ := bruteForceBest(sub, 5)
	assert.Equal(t, 20+expectedIndex, res.index)
	assert.InDelta(t, expectedQ, res.q, 1e-6)
}

func TestSweepTerminalSegments(t *testing.T) {
	est := &estimator{series: noisySteps([]int{20}, []float64{1}, 1.0), minSize: 5}

	for _, seg := range []segment{{0, 9}, {3, 10}, {10, 10}} {
		res, err := est.evaluate(seg)
		require.NoError(t, err)
		assert.Equal(t, NoSplit, res.index)
	}
}

func TestSweepDegenerateSegments(t *testing.T) {
	t.Run("ConstantValues", func(t *testing.T) {
		est := &estimator{series: constantSeries(40, 5.0), minSize: 5}
		res, err := est.evaluate(segment{start: 0, end: 40})
		require.NoError(t, err)

		assert.NotEqual(t, NoSplit, res.index)
		assert.Zero(t, res.gap)
		assert.Zero(t, res.dispersion)
		assert.False(t, math.IsNaN(res.q))
	})
	t.Run("SingleObservationSides", func(t *testing.T) {
		est := &estimator{series: []float64{1, 9}, minSize: 1}
		res, err := est.evaluate(segment{start: 0, end: 2})
		require.NoError(t, err)

		assert.Equal(t, 1, res.index)
		assert.False(t, math.IsNaN(res.q))
		assert.InDelta(t, 16.0, res.gap, 1e-9)
	})
}

func TestSweepDetrendedRemovesRamp(t *testing.T) {
	ramp := make([]float64, 60)
	for i := range ramp {
		ramp[i] = 0.5 * float64(i)
	}

	raw := &estimator{series: ramp, minSize: 5}
	rawRes, err := raw.evaluate(segment{start: 0, end: len(ramp)})
	require.NoError(t, err)
	assert.True(t, rawRes.gap > 0)

	detrended := &estimator{series: ramp, minSize: 5, degree: 1}
	res, err := detrended.evaluate(segment{start: 0, end: len(ramp)})
	require.NoError(t, err)
	assert.InDelta(t, 0.0, res.gap, 1e-9)
}
