// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
	"strconv"

	table "github.com/pepmove/fleetboard/internal/domain/table"
)

// TableDependencies defines the interface for table preview operations.
type TableDependencies interface {
	SourceTable(ctx context.Context, name string) (table.Table, error)
}

// TableHandler handles table preview requests.
type TableHandler struct {
	deps           TableDependencies
	maxPreviewRows int
}

// NewTableHandler creates a new table handler.
func NewTableHandler(deps TableDependencies, maxPreviewRows int) *TableHandler {
	if maxPreviewRows < 1 {
		maxPreviewRows = 100
	}
	return &TableHandler{deps: deps, maxPreviewRows: maxPreviewRows}
}

// HandleGetTable handles GET /api/table?source=raw|fleet|telematics|merged
// requests. An optional limit parameter trims the preview further; the
// configured cap always applies.
func (h *TableHandler) HandleGetTable(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_table"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	source := r.URL.Query().Get("source")
	if source == "" {
		source = "raw"
	}
	switch source {
	case "raw", "fleet", "telematics", "merged", "events":
	default:
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}

	limit := h.maxPreviewRows
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		n, err := strconv.Atoi(limitStr)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
			return
		}
		if n < limit {
			limit = n
		}
	}

	t, err := h.deps.SourceTable(r.Context(), source)
	if err != nil {
		if isNotFound(err) {
			writeError(w, http.StatusNotFound, "not_found", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}

	warning := ""
	if t.NumRows() > limit {
		warning = "preview truncated to " + strconv.Itoa(limit) + " rows"
	}
	writeJSON(w, http.StatusOK, newTableResponse(t.Head(limit), warning))
}
