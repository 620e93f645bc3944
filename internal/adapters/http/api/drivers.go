// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
	"strings"

	table "github.com/pepmove/fleetboard/internal/domain/table"
)

// DriversDependencies defines the interface for per-driver view operations.
type DriversDependencies interface {
	JobsPerDriver(ctx context.Context) (table.Table, error)
	MilesPerDriver(ctx context.Context) (table.Table, error)
	CombinedAnalysis(ctx context.Context) (table.Table, error)
}

// DriversHandler handles per-driver view requests.
type DriversHandler struct {
	deps DriversDependencies
}

// NewDriversHandler creates a new drivers handler.
func NewDriversHandler(deps DriversDependencies) *DriversHandler {
	return &DriversHandler{deps: deps}
}

// HandleGetDriverView handles GET /api/drivers/{jobs|miles|combined}
// requests.
func (h *DriversHandler) HandleGetDriverView(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_driver_view"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	view := strings.TrimPrefix(r.URL.Path, "/api/drivers/")
	if view == "" || strings.Contains(view, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}

	var (
		t   table.Table
		err error
	)
	switch view {
	case "jobs":
		t, err = h.deps.JobsPerDriver(r.Context())
	case "miles":
		t, err = h.deps.MilesPerDriver(r.Context())
	case "combined":
		t, err = h.deps.CombinedAnalysis(r.Context())
	default:
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}

	writeJSON(w, http.StatusOK, newTableResponse(t, ""))
}
