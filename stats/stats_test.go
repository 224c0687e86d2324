package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMean(t *testing.T) {
	assert.Zero(t, Mean(nil))
	assert.InDelta(t, 2.0, Mean([]float64{1, 2, 3}), 1e-12)
	assert.InDelta(t, -1.5, Mean([]float64{-1, -2}), 1e-12)
}

func TestPercentile(t *testing.T) {
	vals := []float64{5, 1, 3, 2, 4}

	for _, test := range []struct {
		name     string
		p        float64
		expected float64
	}{
		{name: "Minimum", p: 0, expected: 1},
		{name: "Median", p: 0.5, expected: 3},
		{name: "Maximum", p: 1, expected: 5},
		{name: "Interpolated", p: 0.875, expected: 4.5},
	} {
		t.Run(test.name, func(t *testing.T) {
			assert.InDelta(t, test.expected, Percentile(vals, test.p), 1e-12)
		})
	}

	t.Run("InputNotMutated", func(t *testing.T) {
		Percentile(vals, 0.5)
		assert.Equal(t, []float64{5, 1, 3, 2, 4}, vals)
	})
	t.Run("Empty", func(t *testing.T) {
		assert.Zero(t, Percentile(nil, 0.5))
	})
}

func TestMedian(t *testing.T) {
	assert.InDelta(t, 2.5, Median([]float64{1, 2, 3, 4}), 1e-12)
	assert.InDelta(t, 7.0, Median([]float64{7}), 1e-12)
}

func TestMedianAbsDev(t *testing.T) {
	assert.Zero(t, MedianAbsDev(nil))
	assert.Zero(t, MedianAbsDev([]float64{4, 4, 4}))
	// Deviations around the median 3 are {2, 1, 0, 1, 2}; their median 1
	// is rescaled by the normal-consistency constant.
	assert.InDelta(t, 1.4826, MedianAbsDev([]float64{1, 2, 3, 4, 5}), 1e-9)
}

func TestPolyFit(t *testing.T) {
	t.Run("Line", func(t *testing.T) {
		vals := []float64{1, 3, 5, 7, 9}
		coefs, err := PolyFit(vals, 1)
		require.NoError(t, err)
		require.Len(t, coefs, 2)
		assert.InDelta(t, 1.0, coefs[0], 1e-9)
		assert.InDelta(t, 2.0, coefs[1], 1e-9)
	})
	t.Run("Quadratic", func(t *testing.T) {
		vals := make([]float64, 10)
		for i := range vals {
			vals[i] = 2 + 0.5*float64(i)*float64(i)
		}
		coefs, err := PolyFit(vals, 2)
		require.NoError(t, err)
		assert.InDelta(t, 2.0, coefs[0], 1e-9)
		assert.InDelta(t, 0.0, coefs[1], 1e-9)
		assert.InDelta(t, 0.5, coefs[2], 1e-9)
	})
	t.Run("NegativeOrder", func(t *testing.T) {
		_, err := PolyFit([]float64{1, 2}, -1)
		assert.Error(t, err)
	})
	t.Run("TooFewObservations", func(t *testing.T) {
		_, err := PolyFit([]float64{1}, 1)
		assert.Error(t, err)
	})
}

func TestPolyResiduals(t *testing.T) {
	t.Run("RemovesLinearTrend", func(t *testing.T) {
		vals := []float64{2, 4, 6, 8, 11}
		residuals, err := PolyResiduals(vals, 1)
		require.NoError(t, err)
		require.Len(t, residuals, len(vals))

		sum := 0.0
		for _, r := range residuals {
			sum += r
		}
		assert.InDelta(t, 0.0, sum, 1e-9)
	})
	t.Run("ExactFitYieldsZeros", func(t *testing.T) {
		residuals, err := PolyResiduals([]float64{3, 9}, 1)
		require.NoError(t, err)
		assert.Equal(t, []float64{0, 0}, residuals)
	})
	t.Run("EmptyInput", func(t *testing.T) {
		residuals, err := PolyResiduals(nil, 2)
		require.NoError(t, err)
		assert.Empty(t, residuals)
	})
}
