package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

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

func jsonRequest(t *testing.T, payload interface{}) *http.Request {
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	return httptest.NewRequest(http.MethodPost, "https://example.com/test", bytes.NewReader(body))
}

func TestBreakoutMultiHandler(t *testing.T) {
	ctx := context.Background()
	handler := makeBreakoutMulti().Factory()

	t.Run("FindsStep", func(t *testing.T) {
		req := jsonRequest(t, BreakoutSeriesRequest{
			Series:  stepSeries(50, 50, 1.0, 10.0),
			MinSize: 5,
			Level:   0.05,
		})
		require.NoError(t, handler.Parse(ctx, req))

		resp := handler.Run(ctx)
		require.NotNil(t, resp)
		assert.Equal(t, http.StatusOK, resp.Status())
		assert.Equal(t, &BreakoutIndicesResponse{Indices: []int{50}}, resp.Data())
	})
	t.Run("InvalidParameters", func(t *testing.T) {
		req := jsonRequest(t, BreakoutSeriesRequest{
			Series:  stepSeries(50, 50, 1.0, 10.0),
			MinSize: 0,
			Level:   0.05,
		})
		require.NoError(t, handler.Parse(ctx, req))

		resp := handler.Run(ctx)
		require.NotNil(t, resp)
		assert.Equal(t, http.StatusBadRequest, resp.Status())
	})
	t.Run("MalformedBody", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "https://example.com/test", bytes.NewReader([]byte("{")))
		assert.Error(t, handler.Parse(ctx, req))
	})
}

func TestBreakoutPercentHandler(t *testing.T) {
	ctx := context.Background()
	handler := makeBreakoutPercent().Factory()

	req := jsonRequest(t, BreakoutSeriesRequest{
		Series:  stepSeries(50, 50, 1.0, 10.0),
		MinSize: 5,
		Level:   0.5,
	})
	require.NoError(t, handler.Parse(ctx, req))

	resp := handler.Run(ctx)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusOK, resp.Status())
	assert.Equal(t, &BreakoutIndicesResponse{Indices: []int{50}}, resp.Data())
}

func TestBreakoutTailHandler(t *testing.T) {
	ctx := context.Background()
	handler := makeBreakoutTail().Factory()

	series := make([]float64, 100)
	for i := 50; i < 55; i++ {
		series[i] = 10.0
	}

	t.Run("FindsSpike", func(t *testing.T) {
		req := jsonRequest(t, BreakoutTailRequest{
			Series:   series,
			MinSize:  5,
			Alpha:    0.05,
			Quantile: 0.95,
		})
		require.NoError(t, handler.Parse(ctx, req))

		resp := handler.Run(ctx)
		require.NotNil(t, resp)
		assert.Equal(t, http.StatusOK, resp.Status())

		out, ok := resp.Data().(*BreakoutSplitResponse)
		require.True(t, ok)
		assert.Equal(t, 50, out.Location)
		assert.True(t, out.Significant)
	})
	t.Run("InvalidQuantile", func(t *testing.T) {
		req := jsonRequest(t, BreakoutTailRequest{
			Series:  series,
			MinSize: 5,
			Alpha:   0.05,
		})
		require.NoError(t, handler.Parse(ctx, req))

		resp := handler.Run(ctx)
		require.NotNil(t, resp)
		assert.Equal(t, http.StatusBadRequest, resp.Status())
	})
}

func TestBreakoutSingleHandler(t *testing.T) {
	ctx := context.Background()
	handler := makeBreakoutSingle().Factory()

	req := jsonRequest(t, BreakoutTailRequest{
		Series:  stepSeries(50, 50, 1.0, 10.0),
		MinSize: 5,
		Alpha:   0.05,
	})
	require.NoError(t, handler.Parse(ctx, req))

	resp := handler.Run(ctx)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusOK, resp.Status())

	out, ok := resp.Data().(*BreakoutSplitResponse)
	require.True(t, ok)
	assert.Equal(t, 50, out.Location)
	assert.True(t, out.Significant)
	assert.InDelta(t, 450.0, out.Statistic, 1e-9)
}
