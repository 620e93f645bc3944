package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	filemaker "github.com/pepmove/fleetboard/internal/adapters/filemaker"
	"github.com/pepmove/fleetboard/internal/adapters/http/api"
	service "github.com/pepmove/fleetboard/internal/app"
	"github.com/pepmove/fleetboard/internal/domain/analytics"
	table "github.com/pepmove/fleetboard/internal/domain/table"
	. "github.com/smartystreets/goconvey/convey"
)

// Mock implementations for testing
type mockDeps struct {
	sources   map[string]table.Table
	jobs      table.Table
	miles     table.Table
	combined  table.Table
	summary   analytics.Summary
	checklist []analytics.ChecklistItem
	job       filemaker.Job
	jobErr    error
	refreshed int
	viewErr   error
}

func (m *mockDeps) SourceTable(ctx context.Context, name string) (table.Table, error) {
	t, ok := m.sources[name]
	if !ok {
		return table.Table{}, errors.New("snapshot not found")
	}
	return t, nil
}

func (m *mockDeps) JobsPerDriver(ctx context.Context) (table.Table, error) {
	return m.jobs, m.viewErr
}

func (m *mockDeps) MilesPerDriver(ctx context.Context) (table.Table, error) {
	return m.miles, m.viewErr
}

func (m *mockDeps) CombinedAnalysis(ctx context.Context) (table.Table, error) {
	return m.combined, m.viewErr
}

func (m *mockDeps) SummaryStats(ctx context.Context) (analytics.Summary, error) {
	return m.summary, m.viewErr
}

func (m *mockDeps) Checklist(ctx context.Context) ([]analytics.ChecklistItem, error) {
	return m.checklist, m.viewErr
}

func (m *mockDeps) JobLookup(ctx context.Context, jobID string) (filemaker.Job, error) {
	return m.job, m.jobErr
}

func (m *mockDeps) Refresh(ctx context.Context) error {
	m.refreshed++
	return nil
}

type mockStats struct{}

func (m *mockStats) GetStats() map[string]interface{} {
	return map[string]interface{}{"started": true}
}

func newTestDeps() *mockDeps {
	raw := table.New("driver", "job_id", "miles", "date")
	raw.AppendRow("Alice Johnson", "AL001", "100", "2024-01-02")

	merged := table.New("id", "driver_name", "miles_driven")
	merged.AppendRow("d1", "Alice Johnson", "100")

	jobs := table.New("driver", "job_count")
	jobs.AppendRow("Alice Johnson", "1")

	miles := table.New("driver", "total_miles")
	miles.AppendRow("Alice Johnson", "100")

	combined := table.New("driver", "job_count", "total_miles", "avg_miles_per_job")
	combined.AppendRow("Alice Johnson", "1", "100", "100")

	return &mockDeps{
		sources: map[string]table.Table{
			"raw":        raw,
			"events":     raw,
			"fleet":      merged,
			"telematics": merged,
			"merged":     merged,
		},
		jobs:     jobs,
		miles:    miles,
		combined: combined,
		summary: analytics.Summary{
			TotalDrivers:   1,
			TotalJobs:      1,
			TotalMiles:     100,
			AvgMilesPerJob: 100,
		},
		checklist: []analytics.ChecklistItem{{Row: 0, Completed: true}},
		job:       filemaker.Job{JobID: "J-100", Status: "scheduled"},
	}
}

func newTestMux(deps *mockDeps) *http.ServeMux {
	mux := http.NewServeMux()
	srv := api.NewServer(deps, &mockStats{}, 100)
	srv.Register(context.Background(), mux)
	return mux
}

func doRequest(mux *http.ServeMux, method, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, http.NoBody)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func TestTableEndpoint(t *testing.T) {
	Convey("Given a registered API server", t, func() {
		deps := newTestDeps()
		mux := newTestMux(deps)

		Convey("When requesting the merged table", func() {
			w := doRequest(mux, http.MethodGet, "/api/table?source=merged")

			Convey("Then the table payload comes back", func() {
				So(w.Code, ShouldEqual, http.StatusOK)

				var resp struct {
					Columns []string   `json:"columns"`
					Rows    [][]string `json:"rows"`
					Warning string     `json:"warning"`
				}
				So(json.Unmarshal(w.Body.Bytes(), &resp), ShouldBeNil)
				So(resp.Columns, ShouldResemble, []string{"id", "driver_name", "miles_driven"})
				So(len(resp.Rows), ShouldEqual, 1)
				So(resp.Warning, ShouldBeEmpty)
			})
		})

		Convey("When omitting the source", func() {
			w := doRequest(mux, http.MethodGet, "/api/table")

			Convey("Then the raw table is served", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldContainSubstring, "job_id")
			})
		})

		Convey("When requesting an unknown source", func() {
			w := doRequest(mux, http.MethodGet, "/api/table?source=bogus")
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When passing a malformed limit", func() {
			w := doRequest(mux, http.MethodGet, "/api/table?source=merged&limit=zero")
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When the limit truncates the preview", func() {
			big := table.New("id")
			for i := 0; i < 5; i++ {
				big.AppendRow("row")
			}
			deps.sources["merged"] = big

			w := doRequest(mux, http.MethodGet, "/api/table?source=merged&limit=2")

			Convey("Then a truncation warning is attached", func() {
				So(w.Code, ShouldEqual, http.StatusOK)

				var resp struct {
					Rows    [][]string `json:"rows"`
					Warning string     `json:"warning"`
				}
				So(json.Unmarshal(w.Body.Bytes(), &resp), ShouldBeNil)
				So(len(resp.Rows), ShouldEqual, 2)
				So(resp.Warning, ShouldContainSubstring, "truncated")
			})
		})

		Convey("When the source table is empty", func() {
			deps.sources["merged"] = table.New("id")

			w := doRequest(mux, http.MethodGet, "/api/table?source=merged")

			Convey("Then 200 with an empty-result warning, not an error", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldContainSubstring, "no rows available")
			})
		})

		Convey("When using the wrong method", func() {
			w := doRequest(mux, http.MethodPost, "/api/table")
			So(w.Code, ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestDriversEndpoints(t *testing.T) {
	Convey("Given a registered API server", t, func() {
		deps := newTestDeps()
		mux := newTestMux(deps)

		Convey("When requesting each driver view", func() {
			for path, column := range map[string]string{
				"/api/drivers/jobs":     "job_count",
				"/api/drivers/miles":    "total_miles",
				"/api/drivers/combined": "avg_miles_per_job",
			} {
				w := doRequest(mux, http.MethodGet, path)
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldContainSubstring, column)
			}
		})

		Convey("When requesting an unknown view", func() {
			w := doRequest(mux, http.MethodGet, "/api/drivers/ranks")
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When the computation fails", func() {
			deps.viewErr = errors.New("merge key missing")
			w := doRequest(mux, http.MethodGet, "/api/drivers/combined")
			So(w.Code, ShouldEqual, http.StatusInternalServerError)
			So(w.Body.String(), ShouldContainSubstring, "merge key missing")
		})
	})
}

func TestSummaryEndpoint(t *testing.T) {
	Convey("Given a registered API server", t, func() {
		deps := newTestDeps()
		mux := newTestMux(deps)

		Convey("When requesting the summary", func() {
			w := doRequest(mux, http.MethodGet, "/api/summary")

			Convey("Then the scalar snapshot comes back", func() {
				So(w.Code, ShouldEqual, http.StatusOK)

				var resp struct {
					TotalDrivers   int     `json:"total_drivers"`
					AvgMilesPerJob float64 `json:"avg_miles_per_job"`
					Warning        string  `json:"warning"`
				}
				So(json.Unmarshal(w.Body.Bytes(), &resp), ShouldBeNil)
				So(resp.TotalDrivers, ShouldEqual, 1)
				So(resp.AvgMilesPerJob, ShouldEqual, 100)
				So(resp.Warning, ShouldBeEmpty)
			})
		})

		Convey("When there is no driver data", func() {
			deps.summary = analytics.Summary{}
			w := doRequest(mux, http.MethodGet, "/api/summary")

			Convey("Then 200 with a warning banner", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldContainSubstring, "no driver data")
			})
		})
	})
}

func TestChecklistEndpoint(t *testing.T) {
	Convey("Given a registered API server", t, func() {
		deps := newTestDeps()
		mux := newTestMux(deps)

		Convey("When requesting the checklist", func() {
			w := doRequest(mux, http.MethodGet, "/api/checklist")

			So(w.Code, ShouldEqual, http.StatusOK)

			var resp struct {
				Items []analytics.ChecklistItem `json:"items"`
			}
			So(json.Unmarshal(w.Body.Bytes(), &resp), ShouldBeNil)
			So(len(resp.Items), ShouldEqual, 1)
			So(resp.Items[0].Completed, ShouldBeTrue)
		})
	})
}

func TestJobsEndpoint(t *testing.T) {
	Convey("Given a registered API server", t, func() {
		deps := newTestDeps()
		mux := newTestMux(deps)

		Convey("When looking up a job", func() {
			w := doRequest(mux, http.MethodGet, "/api/jobs/J-100")

			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, "J-100")
		})

		Convey("When the job id is missing", func() {
			w := doRequest(mux, http.MethodGet, "/api/jobs/")
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When requesting the tabular rendering", func() {
			w := doRequest(mux, http.MethodGet, "/api/jobs/J-100?format=table")

			So(w.Code, ShouldEqual, http.StatusOK)

			var resp struct {
				Columns []string   `json:"columns"`
				Rows    [][]string `json:"rows"`
			}
			So(json.Unmarshal(w.Body.Bytes(), &resp), ShouldBeNil)
			So(resp.Columns, ShouldContain, "job_id")
			So(len(resp.Rows), ShouldEqual, 1)
			So(resp.Rows[0][0], ShouldEqual, "J-100")
		})

		Convey("When requesting an unknown format", func() {
			w := doRequest(mux, http.MethodGet, "/api/jobs/J-100?format=xml")
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When no upstream is configured", func() {
			deps.jobErr = service.ErrNoUpstream
			w := doRequest(mux, http.MethodGet, "/api/jobs/J-100")
			So(w.Code, ShouldEqual, http.StatusNotImplemented)
		})

		Convey("When the job does not exist upstream", func() {
			deps.jobErr = filemaker.ErrNoRecords
			w := doRequest(mux, http.MethodGet, "/api/jobs/J-404")
			So(w.Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("When the upstream fails", func() {
			deps.jobErr = filemaker.ErrRequestFailed
			w := doRequest(mux, http.MethodGet, "/api/jobs/J-100")
			So(w.Code, ShouldEqual, http.StatusBadGateway)
		})
	})
}

func TestRefreshEndpoint(t *testing.T) {
	Convey("Given a registered API server", t, func() {
		deps := newTestDeps()
		mux := newTestMux(deps)

		Convey("When posting a refresh", func() {
			w := doRequest(mux, http.MethodPost, "/api/refresh")

			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, "refreshed")
			So(deps.refreshed, ShouldEqual, 1)
		})

		Convey("When using GET", func() {
			w := doRequest(mux, http.MethodGet, "/api/refresh")
			So(w.Code, ShouldEqual, http.StatusNotFound)
			So(deps.refreshed, ShouldEqual, 0)
		})
	})
}

func TestStatsEndpoint(t *testing.T) {
	Convey("Given a registered API server", t, func() {
		mux := newTestMux(newTestDeps())

		Convey("When requesting stats", func() {
			w := doRequest(mux, http.MethodGet, "/stats")

			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, "started")
		})
	})
}

func TestHealthEndpoint(t *testing.T) {
	Convey("Given a registered API server", t, func() {
		mux := newTestMux(newTestDeps())

		Convey("When scraping metrics", func() {
			w := doRequest(mux, http.MethodGet, "/healthz")

			So(w.Code, ShouldEqual, http.StatusOK)
		})
	})
}

func TestDashboardEndpoint(t *testing.T) {
	Convey("Given a registered API server", t, func() {
		mux := newTestMux(newTestDeps())

		Convey("When requesting the dashboard page", func() {
			w := doRequest(mux, http.MethodGet, "/dashboard")

			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, "Fleet Analytics Dashboard")
		})
	})
}
