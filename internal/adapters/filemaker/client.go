// Package filemaker implements the FileMaker Data API client used to
// pull job records into the dashboard. The Data API is session based:
// a basic-auth session request yields a bearer token that authorizes
// the layout operations that follow.
package filemaker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	table "github.com/pepmove/fleetboard/internal/domain/table"
	"github.com/pepmove/fleetboard/pkg/logger"
	"github.com/pepmove/fleetboard/pkg/metrics"
)

const (
	serviceName = "filemaker"
	jobsLayout  = "jobs_api"
)

// Client talks to one FileMaker database over the Data API.
type Client struct {
	serverURL  string
	apiVersion string
	database   string
	username   string
	password   string
	httpClient *http.Client
	log        logger.Logger

	mu    sync.Mutex
	token string
}

// NewClient creates a FileMaker Data API client with configuration
// options.
func NewClient(opts ...Option) *Client {
	c := &Client{
		apiVersion: "v1",
		httpClient: &http.Client{Timeout: 30 * time.Second},
		log:        logger.Named("filemaker"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Record is one Data API record: its opaque id plus the layout's
// field map.
type Record struct {
	RecordID  string                     `json:"recordId"`
	FieldData map[string]json.RawMessage `json:"fieldData"`
}

// Job is the flattened jobs_api layout record served to the dashboard.
type Job struct {
	JobID          string `json:"job_id"`
	Date           string `json:"date"`
	Status         string `json:"status"`
	Type           string `json:"type"`
	ClientCode     string `json:"client_code"`
	TruckID        string `json:"truck_id"`
	PeopleRequired string `json:"people_required"`
	MilesOneway    string `json:"miles_oneway"`
	LocationLoad   string `json:"location_load"`
	LocationReturn string `json:"location_return"`
	Address        string `json:"address"`
	City           string `json:"city_id"`
	State          string `json:"state_id"`
	NotesCallAhead string `json:"notes_call_ahead"`
	NotesDriver    string `json:"notes_driver"`
}

type sessionResponse struct {
	Response struct {
		Token string `json:"token"`
	} `json:"response"`
}

type findResponse struct {
	Response struct {
		Data []Record `json:"data"`
	} `json:"response"`
}

type createResponse struct {
	Response struct {
		RecordID string `json:"recordId"`
	} `json:"response"`
}

// Authenticate opens a Data API session and caches the bearer token.
// Layout operations call this lazily; it is exported for connectivity
// probes.
func (c *Client) Authenticate(ctx context.Context) error {
	url := fmt.Sprintf("%s/fmi/data/%s/databases/%s/sessions",
		c.serverURL, c.apiVersion, c.database)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader([]byte("{}")))
	if err != nil {
		return Wrap(ErrAuthFailed, err)
	}
	req.SetBasicAuth(c.username, c.password)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-Id", uuid.NewString())

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	metrics.RecordClientRequestDuration(serviceName, "authenticate", float64(time.Since(start).Milliseconds()))
	if err != nil {
		metrics.RecordClientRequest(serviceName, "authenticate", "error")
		return Wrap(ErrAuthFailed, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		metrics.RecordClientRequest(serviceName, "authenticate", fmt.Sprintf("%d", resp.StatusCode))
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("%w: status %d: %s", ErrAuthFailed, resp.StatusCode, body)
	}

	var session sessionResponse
	if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
		metrics.RecordClientRequest(serviceName, "authenticate", "decode_error")
		return Wrap(ErrAuthFailed, err)
	}

	c.mu.Lock()
	c.token = session.Response.Token
	c.mu.Unlock()

	metrics.RecordClientRequest(serviceName, "authenticate", "200")
	c.log.Debug(ctx, "filemaker session opened", logger.String("database", c.database))
	return nil
}

func (c *Client) bearer(ctx context.Context) (string, error) {
	c.mu.Lock()
	token := c.token
	c.mu.Unlock()
	if token != "" {
		return token, nil
	}
	if err := c.Authenticate(ctx); err != nil {
		return "", err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token, nil
}

// FindRecord searches a layout and returns the first match.
// Returns ErrNoRecords when the query matches nothing.
func (c *Client) FindRecord(ctx context.Context, layout string, query map[string]string) (Record, error) {
	token, err := c.bearer(ctx)
	if err != nil {
		return Record{}, err
	}

	url := fmt.Sprintf("%s/fmi/data/%s/databases/%s/layouts/%s/_find",
		c.serverURL, c.apiVersion, c.database, layout)

	payload, err := json.Marshal(map[string]any{"query": []map[string]string{query}})
	if err != nil {
		return Record{}, Wrap(ErrRequestFailed, err)
	}

	var out findResponse
	if err := c.postJSON(ctx, "find_record", url, token, payload, &out); err != nil {
		return Record{}, err
	}
	if len(out.Response.Data) == 0 {
		return Record{}, fmt.Errorf("%w: layout %s", ErrNoRecords, layout)
	}
	return out.Response.Data[0], nil
}

// CreateRecord inserts a record into a layout and returns its id.
func (c *Client) CreateRecord(ctx context.Context, layout string, fieldData map[string]any) (string, error) {
	token, err := c.bearer(ctx)
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s/fmi/data/%s/databases/%s/layouts/%s/records",
		c.serverURL, c.apiVersion, c.database, layout)

	payload, err := json.Marshal(map[string]any{"fieldData": fieldData})
	if err != nil {
		return "", Wrap(ErrRequestFailed, err)
	}

	var out createResponse
	if err := c.postJSON(ctx, "create_record", url, token, payload, &out); err != nil {
		return "", err
	}
	return out.Response.RecordID, nil
}

// JobData finds a job on the jobs_api layout and flattens its field
// data into a Job.
func (c *Client) JobData(ctx context.Context, jobID string) (Job, error) {
	rec, err := c.FindRecord(ctx, jobsLayout, map[string]string{"_kp_job_id": jobID})
	if err != nil {
		return Job{}, err
	}

	field := func(name string) string {
		raw, ok := rec.FieldData[name]
		if !ok {
			return ""
		}
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			return s
		}
		// Numeric fields come back unquoted.
		var n json.Number
		if err := json.Unmarshal(raw, &n); err == nil {
			return n.String()
		}
		return ""
	}

	return Job{
		JobID:          field("_kp_job_id"),
		Date:           field("job_date"),
		Status:         field("job_status"),
		Type:           field("job_type"),
		ClientCode:     field("_kf_client_code_id"),
		TruckID:        field("_kf_trucks_id"),
		PeopleRequired: field("people_required"),
		MilesOneway:    field("oneway_miles"),
		LocationLoad:   field("location_load"),
		LocationReturn: field("location_return"),
		Address:        field("address_C1"),
		City:           field("_kf_city_id"),
		State:          field("_kf_state_id"),
		NotesCallAhead: field("notes_call_ahead"),
		NotesDriver:    field("notes_driver"),
	}, nil
}

// JobTable renders a job as a one-row Table for the tabular views.
func JobTable(j Job) table.Table {
	t := table.New(
		"job_id", "date", "status", "type", "truck_id",
		"people_required", "miles_oneway", "location_load", "location_return",
	)
	t.AppendRow(
		j.JobID, j.Date, j.Status, j.Type, j.TruckID,
		j.PeopleRequired, j.MilesOneway, j.LocationLoad, j.LocationReturn,
	)
	return t
}

func (c *Client) postJSON(ctx context.Context, operation, url, token string, payload []byte, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return Wrap(ErrRequestFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("X-Request-Id", uuid.NewString())

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	metrics.RecordClientRequestDuration(serviceName, operation, float64(time.Since(start).Milliseconds()))
	if err != nil {
		metrics.RecordClientRequest(serviceName, operation, "error")
		return Wrap(ErrRequestFailed, err)
	}
	defer func() { _ = resp.Body.Close() }()

	metrics.RecordClientRequest(serviceName, operation, fmt.Sprintf("%d", resp.StatusCode))
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("%w: %s: status %d: %s", ErrRequestFailed, operation, resp.StatusCode, body)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return Wrap(ErrRequestFailed, err)
	}
	return nil
}
