package rest

import (
	"context"
	"net/http"

	"github.com/evergreen-ci/breakout/edm"
	"github.com/evergreen-ci/gimlet"
	"github.com/mongodb/grip"
	"github.com/mongodb/grip/message"
	"github.com/pkg/errors"
)

// BreakoutSeriesRequest is the body of the multi and percent endpoints.
type BreakoutSeriesRequest struct {
	Series  []float64 `json:"series"`
	MinSize int       `json:"min_size"`
	Level   float64   `json:"level"`
	Degree  int       `json:"degree"`
}

// BreakoutTailRequest is the body of the tail and single endpoints. Quantile
// is ignored by the single endpoint.
type BreakoutTailRequest struct {
	Series   []float64 `json:"series"`
	MinSize  int       `json:"min_size"`
	Alpha    float64   `json:"alpha"`
	Quantile float64   `json:"quantile"`
}

// BreakoutIndicesResponse holds the ordered split locations of a multi or
// percent search.
type BreakoutIndicesResponse struct {
	Indices []int `json:"indices"`
}

// BreakoutSplitResponse holds the outcome of a tail or single search.
type BreakoutSplitResponse struct {
	Location    int     `json:"location"`
	Statistic   float64 `json:"statistic"`
	Significant bool    `json:"significant"`
}

func makeBreakoutResponder(err error, route string) gimlet.Responder {
	grip.Error(message.WrapError(err, message.Fields{
		"method": "POST",
		"route":  route,
	}))
	if edm.IsInvalidArgument(err) {
		return gimlet.MakeJSONErrorResponder(gimlet.ErrorResponse{
			Message:    err.Error(),
			StatusCode: http.StatusBadRequest,
		})
	}
	return gimlet.MakeJSONInternalErrorResponder(err)
}

///////////////////////////////////////////////////////////////////////////////
//
// POST /breakout/multi

type breakoutMultiHandler struct {
	req BreakoutSeriesRequest
}

func makeBreakoutMulti() gimlet.RouteHandler { return &breakoutMultiHandler{} }

// Factory returns a pointer to a new breakoutMultiHandler.
func (h *breakoutMultiHandler) Factory() gimlet.RouteHandler { return &breakoutMultiHandler{} }

// Parse reads the series and search parameters from the request body.
func (h *breakoutMultiHandler) Parse(_ context.Context, r *http.Request) error {
	if err := gimlet.GetJSON(r.Body, &h.req); err != nil {
		return gimlet.ErrorResponse{
			Message:    errors.Wrap(err, "problem parsing request body").Error(),
			StatusCode: http.StatusBadRequest,
		}
	}
	return nil
}

// Run performs the multi search and returns the split locations.
func (h *breakoutMultiHandler) Run(ctx context.Context) gimlet.Responder {
	splits, err := edm.Multi(h.req.Series, h.req.MinSize, h.req.Level, h.req.Degree)
	if err != nil {
		return makeBreakoutResponder(errors.Wrap(err, "problem running multi search"), "/breakout/multi")
	}
	if splits == nil {
		splits = []int{}
	}
	return gimlet.NewJSONResponse(&BreakoutIndicesResponse{Indices: splits})
}

///////////////////////////////////////////////////////////////////////////////
//
// POST /breakout/percent

type breakoutPercentHandler struct {
	req BreakoutSeriesRequest
}

func makeBreakoutPercent() gimlet.RouteHandler { return &breakoutPercentHandler{} }

// Factory returns a pointer to a new breakoutPercentHandler.
func (h *breakoutPercentHandler) Factory() gimlet.RouteHandler { return &breakoutPercentHandler{} }

// Parse reads the series and search parameters from the request body.
func (h *breakoutPercentHandler) Parse(_ context.Context, r *http.Request) error {
	if err := gimlet.GetJSON(r.Body, &h.req); err != nil {
		return gimlet.ErrorResponse{
			Message:    errors.Wrap(err, "problem parsing request body").Error(),
			StatusCode: http.StatusBadRequest,
		}
	}
	return nil
}

// Run performs the percent search and returns the split locations.
func (h *breakoutPercentHandler) Run(ctx context.Context) gimlet.Responder {
	splits, err := edm.Percent(h.req.Series, h.req.MinSize, h.req.Level, h.req.Degree)
	if err != nil {
		return makeBreakoutResponder(errors.Wrap(err, "problem running percent search"), "/breakout/percent")
	}
	if splits == nil {
		splits = []int{}
	}
	return gimlet.NewJSONResponse(&BreakoutIndicesResponse{Indices: splits})
}

///////////////////////////////////////////////////////////////////////////////
//
// POST /breakout/tail

type breakoutTailHandler struct {
	req BreakoutTailRequest
}

func makeBreakoutTail() gimlet.RouteHandler { return &breakoutTailHandler{} }

// Factory returns a pointer to a new breakoutTailHandler.
func (h *breakoutTailHandler) Factory() gimlet.RouteHandler { return &breakoutTailHandler{} }

// Parse reads the series and search parameters from the request body.
func (h *breakoutTailHandler) Parse(_ context.Context, r *http.Request) error {
	if err := gimlet.GetJSON(r.Body, &h.req); err != nil {
		return gimlet.ErrorResponse{
			Message:    errors.Wrap(err, "problem parsing request body").Error(),
			StatusCode: http.StatusBadRequest,
		}
	}
	return nil
}

// Run performs the tail search and returns the best split.
func (h *breakoutTailHandler) Run(ctx context.Context) gimlet.Responder {
	best, err := edm.Tail(h.req.Series, h.req.MinSize, h.req.Alpha, h.req.Quantile)
	if err != nil {
		return makeBreakoutResponder(errors.Wrap(err, "problem running tail search"), "/breakout/tail")
	}
	return gimlet.NewJSONResponse(&BreakoutSplitResponse{
		Location:    best.Location,
		Statistic:   best.Statistic,
		Significant: best.Significant,
	})
}

///////////////////////////////////////////////////////////////////////////////
//
// POST /breakout/single

type breakoutSingleHandler struct {
	req BreakoutTailRequest
}

func makeBreakoutSingle() gimlet.RouteHandler { return &breakoutSingleHandler{} }

// Factory returns a pointer to a new breakoutSingleHandler.
func (h *breakoutSingleHandler) Factory() gimlet.RouteHandler { return &breakoutSingleHandler{} }

// Parse reads the series and search parameters from the request body.
func (h *breakoutSingleHandler) Parse(_ context.Context, r *http.Request) error {
	if err := gimlet.GetJSON(r.Body, &h.req); err != nil {
		return gimlet.ErrorResponse{
			Message:    errors.Wrap(err, "problem parsing request body").Error(),
			StatusCode: http.StatusBadRequest,
		}
	}
	return nil
}

// Run performs the single search and returns the best split.
func (h *breakoutSingleHandler) Run(ctx context.Context) gimlet.Responder {
	best, err := edm.Single(h.req.Series, h.req.MinSize, h.req.Alpha)
	if err != nil {
		return makeBreakoutResponder(errors.Wrap(err, "problem running single search"), "/breakout/single")
	}
	return gimlet.NewJSONResponse(&BreakoutSplitResponse{
		Location:    best.Location,
		Statistic:   best.Statistic,
		Significant: best.Significant,
	})
}
