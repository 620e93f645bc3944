// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	filemaker "github.com/pepmove/fleetboard/internal/adapters/filemaker"
	"github.com/pepmove/fleetboard/internal/domain/analytics"
	table "github.com/pepmove/fleetboard/internal/domain/table"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Table snapshots.
	SourceTable(ctx context.Context, name string) (table.Table, error)

	// Derived per-driver views.
	JobsPerDriver(ctx context.Context) (table.Table, error)
	MilesPerDriver(ctx context.Context) (table.Table, error)
	CombinedAnalysis(ctx context.Context) (table.Table, error)
	SummaryStats(ctx context.Context) (analytics.Summary, error)
	Checklist(ctx context.Context) ([]analytics.ChecklistItem, error)

	// Upstream job lookup.
	JobLookup(ctx context.Context, jobID string) (filemaker.Job, error)

	// Refresh reloads the sources and drops memoized results.
	Refresh(ctx context.Context) error
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler    *HealthHandler
	statsHandler     *StatsHandler
	tableHandler     *TableHandler
	driversHandler   *DriversHandler
	summaryHandler   *SummaryHandler
	checklistHandler *ChecklistHandler
	jobsHandler      *JobsHandler
	refreshHandler   *RefreshHandler
	dashboardHandler *dashboardHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, maxPreviewRows int) *Server {
	return &Server{
		healthHandler:    NewHealthHandler(),
		statsHandler:     NewStatsHandler(statsProvider),
		tableHandler:     NewTableHandler(deps, maxPreviewRows),
		driversHandler:   NewDriversHandler(deps),
		summaryHandler:   NewSummaryHandler(deps),
		checklistHandler: NewChecklistHandler(deps),
		jobsHandler:      NewJobsHandler(deps),
		refreshHandler:   NewRefreshHandler(deps),
		dashboardHandler: newdashboardHandler(),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	// Specific paths first (most specific to least specific)
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/dashboard", s.dashboardHandler.HandleDashboard)
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/api/table", MetricsMiddleware(s.tableHandler.HandleGetTable, "table"))
	mux.HandleFunc("/api/drivers/", MetricsMiddleware(s.driversHandler.HandleGetDriverView, "drivers"))
	mux.HandleFunc("/api/summary", MetricsMiddleware(s.summaryHandler.HandleGetSummary, "summary"))
	mux.HandleFunc("/api/checklist", MetricsMiddleware(s.checklistHandler.HandleGetChecklist, "checklist"))
	mux.HandleFunc("/api/jobs/", MetricsMiddleware(s.jobsHandler.HandleGetJob, "jobs"))
	mux.HandleFunc("/api/refresh", MetricsMiddleware(s.refreshHandler.HandlePostRefresh, "refresh"))
}

// tableResponse wraps a table payload. Warning carries the empty or
// partial-result banner the dashboard renders instead of an error page.
type tableResponse struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
	Warning string     `json:"warning,omitempty"`
}

func newTableResponse(t table.Table, warning string) tableResponse {
	resp := tableResponse{Columns: t.Columns, Rows: t.Rows, Warning: warning}
	if resp.Columns == nil {
		resp.Columns = []string{}
	}
	if resp.Rows == nil {
		resp.Rows = [][]string{}
	}
	if resp.Warning == "" && len(resp.Rows) == 0 {
		resp.Warning = "no rows available for this view"
	}
	return resp
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// isNotFound allows the API to translate upstream not-found errors to 404.
// This stays generic to avoid tight coupling with specific packages.
func isNotFound(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, filemaker.ErrNoRecords) {
		return true
	}
	if strings.Contains(strings.ToLower(err.Error()), "not found") {
		return true
	}
	return false
}
