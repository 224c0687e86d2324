package rest

import (
	"net/http"

	"github.com/evergreen-ci/breakout"
	"github.com/evergreen-ci/gimlet"
)

////////////////////////////////////////////////////////////////////////
//
// GET /status

type StatusResponse struct {
	Revision string `json:"revision"`
	Status   string `json:"status"`
}

// statusHandler processes the GET request for the service liveness check.
func (s *Service) statusHandler(w http.ResponseWriter, r *http.Request) {
	gimlet.WriteJSON(w, &StatusResponse{
		Revision: breakout.BuildRevision,
		Status:   "ok",
	})
}
