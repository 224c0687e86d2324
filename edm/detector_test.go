package edm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectors(t *testing.T) {
	step := stepSeries(50, 50, 1.0, 10.0)
	flat := constantSeries(50, 5.0)

	for _, test := range []struct {
		name          string
		detector      ChangeDetector
		series        []float64
		expectedIndex []int
		algorithm     string
	}{
		{
			name:          "MultiFindsStep",
			detector:      NewMultiDetector(5, 0.05, 0),
			series:        step,
			expectedIndex: []int{50},
			algorithm:     "edm_multi",
		},
		{
			name:          "MultiQuietSeries",
			detector:      NewMultiDetector(5, 0.05, 0),
			series:        flat,
			expectedIndex: []int{},
			algorithm:     "edm_multi",
		},
		{
			name:          "PercentFindsStep",
			detector:      NewPercentDetector(5, 0.5, 0),
			series:        step,
			expectedIndex: []int{50},
			algorithm:     "edm_percent",
		},
		{
			name:          "SingleFindsStep",
			detector:      NewSingleDetector(5, 0.05),
			series:        step,
			expectedIndex: []int{50},
			algorithm:     "edm_single",
		},
		{
			name:          "SingleQuietSeries",
			detector:      NewSingleDetector(5, 0.05),
			series:        flat,
			expectedIndex: []int{},
			algorithm:     "edm_single",
		},
		{
			name:          "TailFindsSpike",
			detector:      NewTailDetector(5, 0.05, 0.95),
			series:        spikedSeries(100, 50, 5, 0.0, 10.0),
			expectedIndex: []int{50},
			algorithm:     "edm_tail",
		},
		{
			name:          "TailQuietSeries",
			detector:      NewTailDetector(5, 0.05, 0.95),
			series:        flat,
			expectedIndex: []int{},
			algorithm:     "edm_tail",
		},
	} {
		t.Run(test.name, func(t *testing.T) {
			changePoints, err := test.detector.DetectChanges(test.series)
			require.NoError(t, err)

			indexes := make([]int, 0, len(changePoints))
			for _, cp := range changePoints {
				assert.Equal(t, test.algorithm, cp.Info.Name)
				assert.NotEmpty(t, cp.Info.Options)
				indexes = append(indexes, cp.Index)
			}
			assert.Equal(t, test.expectedIndex, indexes)
		})
	}
}

func TestDetectorValidationErrors(t *testing.T) {
	series := stepSeries(10, 10, 1.0, 2.0)

	for _, detector := range []ChangeDetector{
		NewMultiDetector(0, 0.05, 0),
		NewPercentDetector(0, 0.5, 0),
		NewTailDetector(0, 0.05, 0.95),
		NewSingleDetector(0, 0.05),
	} {
		changePoints, err := detector.DetectChanges(series)
		assert.Error(t, err)
		assert.True(t, IsInvalidArgument(err))
		assert.Empty(t, changePoints)
	}
}
