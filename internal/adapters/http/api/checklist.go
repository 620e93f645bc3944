// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"

	"github.com/pepmove/fleetboard/internal/domain/analytics"
)

// ChecklistDependencies defines the interface for checklist operations.
type ChecklistDependencies interface {
	Checklist(ctx context.Context) ([]analytics.ChecklistItem, error)
}

// ChecklistHandler handles checklist requests.
type ChecklistHandler struct {
	deps ChecklistDependencies
}

// NewChecklistHandler creates a new checklist handler.
func NewChecklistHandler(deps ChecklistDependencies) *ChecklistHandler {
	return &ChecklistHandler{deps: deps}
}

type checklistResponse struct {
	Items []analytics.ChecklistItem `json:"items"`
}

// HandleGetChecklist handles GET /api/checklist requests.
func (h *ChecklistHandler) HandleGetChecklist(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_checklist"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	items, err := h.deps.Checklist(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	if items == nil {
		items = []analytics.ChecklistItem{}
	}
	writeJSON(w, http.StatusOK, checklistResponse{Items: items})
}
