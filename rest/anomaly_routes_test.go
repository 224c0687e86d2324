package rest

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evergreen-ci/breakout/anomaly"
)

func TestAnomalyDetectHandler(t *testing.T) {
	ctx := context.Background()
	handler := makeAnomalyDetect().Factory()

	series := make([]float64, 100)
	for i := range series {
		series[i] = 10.0 + 0.25*float64(i%4)
	}
	series[40] = 30.0

	t.Run("FindsSpike", func(t *testing.T) {
		req := jsonRequest(t, AnomalyDetectRequest{
			Series:  series,
			Options: anomaly.Options{Period: 10},
		})
		require.NoError(t, handler.Parse(ctx, req))

		resp := handler.Run(ctx)
		require.NotNil(t, resp)
		assert.Equal(t, http.StatusOK, resp.Status())

		out, ok := resp.Data().(*AnomalyDetectResponse)
		require.True(t, ok)
		require.Len(t, out.Anomalies, 1)
		assert.Equal(t, 40, out.Anomalies[0].Index)
	})
	t.Run("QuietSeriesIsEmptyNotNull", func(t *testing.T) {
		quiet := make([]float64, 60)
		for i := range quiet {
			quiet[i] = 10.0 + 0.25*float64(i%4)
		}
		req := jsonRequest(t, AnomalyDetectRequest{
			Series:  quiet,
			Options: anomaly.Options{Period: 10},
		})
		require.NoError(t, handler.Parse(ctx, req))

		resp := handler.Run(ctx)
		require.NotNil(t, resp)
		assert.Equal(t, http.StatusOK, resp.Status())

		out, ok := resp.Data().(*AnomalyDetectResponse)
		require.True(t, ok)
		assert.NotNil(t, out.Anomalies)
		assert.Empty(t, out.Anomalies)
	})
	t.Run("InvalidOptions", func(t *testing.T) {
		req := jsonRequest(t, AnomalyDetectRequest{Series: series})
		require.NoError(t, handler.Parse(ctx, req))

		resp := handler.Run(ctx)
		require.NotNil(t, resp)
		assert.Equal(t, http.StatusBadRequest, resp.Status())
	})
}
