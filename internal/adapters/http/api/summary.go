// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"

	"github.com/pepmove/fleetboard/internal/domain/analytics"
)

// SummaryDependencies defines the interface for summary operations.
type SummaryDependencies interface {
	SummaryStats(ctx context.Context) (analytics.Summary, error)
}

// SummaryHandler handles summary requests.
type SummaryHandler struct {
	deps SummaryDependencies
}

// NewSummaryHandler creates a new summary handler.
func NewSummaryHandler(deps SummaryDependencies) *SummaryHandler {
	return &SummaryHandler{deps: deps}
}

// summaryResponse mirrors the OpenAPI schema for GET /api/summary.
type summaryResponse struct {
	analytics.Summary
	Warning string `json:"warning,omitempty"`
}

// HandleGetSummary handles GET /api/summary requests.
func (h *SummaryHandler) HandleGetSummary(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_summary"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	summary, err := h.deps.SummaryStats(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}

	resp := summaryResponse{Summary: summary}
	if summary.TotalDrivers == 0 {
		resp.Warning = "no driver data available"
	}
	writeJSON(w, http.StatusOK, resp)
}
