// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	filemaker "github.com/pepmove/fleetboard/internal/adapters/filemaker"
	service "github.com/pepmove/fleetboard/internal/app"
)

// JobsDependencies defines the interface for job lookup operations.
type JobsDependencies interface {
	JobLookup(ctx context.Context, jobID string) (filemaker.Job, error)
}

// JobsHandler handles job lookup requests.
type JobsHandler struct {
	deps JobsDependencies
}

// NewJobsHandler creates a new jobs handler.
func NewJobsHandler(deps JobsDependencies) *JobsHandler {
	return &JobsHandler{deps: deps}
}

// HandleGetJob handles GET /api/jobs/{job_id} requests. The optional
// format=table parameter renders the job as a one-row table for the
// tabular views.
func (h *JobsHandler) HandleGetJob(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_job"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	jobID := strings.TrimPrefix(r.URL.Path, "/api/jobs/")
	if jobID == "" || strings.Contains(jobID, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}

	format := r.URL.Query().Get("format")
	switch format {
	case "", "record", "table":
	default:
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}

	job, err := h.deps.JobLookup(r.Context(), jobID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNoUpstream):
			writeError(w, http.StatusNotImplemented, "no_upstream", err)
		case isNotFound(err):
			writeError(w, http.StatusNotFound, "not_found", err)
		default:
			writeError(w, http.StatusBadGateway, "upstream_error", Wrap(op, err))
		}
		return
	}

	if format == "table" {
		writeJSON(w, http.StatusOK, newTableResponse(filemaker.JobTable(job), ""))
		return
	}
	writeJSON(w, http.StatusOK, job)
}
