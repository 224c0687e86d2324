package rest

import (
	"context"
	"net/http"

	"github.com/evergreen-ci/breakout/anomaly"
	"github.com/evergreen-ci/gimlet"
	"github.com/pkg/errors"
)

// AnomalyDetectRequest is the body of the anomaly detection endpoint.
type AnomalyDetectRequest struct {
	Series  []float64       `json:"series"`
	Options anomaly.Options `json:"options"`
}

// AnomalyDetectResponse holds the detected anomalies in index order.
type AnomalyDetectResponse struct {
	Anomalies []anomaly.Anomaly `json:"anomalies"`
}

///////////////////////////////////////////////////////////////////////////////
//
// POST /anomaly/detect

type anomalyDetectHandler struct {
	req AnomalyDetectRequest
}

func makeAnomalyDetect() gimlet.RouteHandler { return &anomalyDetectHandler{} }

// Factory returns a pointer to a new anomalyDetectHandler.
func (h *anomalyDetectHandler) Factory() gimlet.RouteHandler { return &anomalyDetectHandler{} }

// Parse reads the series and detection options from the request body.
func (h *anomalyDetectHandler) Parse(_ context.Context, r *http.Request) error {
	if err := gimlet.GetJSON(r.Body, &h.req); err != nil {
		return gimlet.ErrorResponse{
			Message:    errors.Wrap(err, "problem parsing request body").Error(),
			StatusCode: http.StatusBadRequest,
		}
	}
	return nil
}

// Run performs the anomaly detection and returns the anomalies.
func (h *anomalyDetectHandler) Run(ctx context.Context) gimlet.Responder {
	anomalies, err := anomaly.Detect(h.req.Series, h.req.Options)
	if err != nil {
		return makeBreakoutResponder(errors.Wrap(err, "problem detecting anomalies"), "/anomaly/detect")
	}
	if anomalies == nil {
		anomalies = []anomaly.Anomaly{}
	}
	return gimlet.NewJSONResponse(&AnomalyDetectResponse{Anomalies: anomalies})
}
