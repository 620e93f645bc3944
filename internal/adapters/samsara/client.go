// Package samsara implements the Samsara fleet API client feeding the
// telematics side of the dashboard.
package samsara

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"
	table "github.com/pepmove/fleetboard/internal/domain/table"
	"github.com/pepmove/fleetboard/pkg/logger"
	"github.com/pepmove/fleetboard/pkg/metrics"
)

const serviceName = "samsara"

// metersPerMile converts odometer readings to miles.
const metersPerMile = 1609.34

// Client is a bearer-token REST client for the Samsara fleet API.
type Client struct {
	baseURL    string
	apiToken   string
	groupID    string
	httpClient *http.Client
	log        logger.Logger
	now        func() time.Time
}

// NewClient creates a Samsara API client with configuration options.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL:    "https://api.samsara.com",
		httpClient: &http.Client{Timeout: 30 * time.Second},
		log:        logger.Named("samsara"),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Vehicle is one fleet vehicle as reported by /fleet/vehicles.
type Vehicle struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	VIN            string  `json:"vin"`
	OdometerMeters float64 `json:"odometerMeters"`
	EngineHours    float64 `json:"engineHours"`
	FuelPercent    float64 `json:"fuelPercent"`
	LocationData   *struct {
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
		Time      string  `json:"time"`
	} `json:"locationData"`
}

// Driver is one fleet driver as reported by /fleet/drivers.
type Driver struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// VehicleStats is the raw stats payload for one vehicle over a window.
type VehicleStats struct {
	VehicleID string          `json:"vehicle_id"`
	Raw       json.RawMessage `json:"raw"`
}

// Vehicles lists the fleet's vehicles, filtered by the configured
// group when one is set.
func (c *Client) Vehicles(ctx context.Context) ([]Vehicle, error) {
	params := url.Values{}
	if c.groupID != "" {
		params.Set("groupId", c.groupID)
	}

	var payload struct {
		Data     []Vehicle `json:"data"`
		Vehicles []Vehicle `json:"vehicles"`
	}
	if err := c.getJSON(ctx, "vehicles", "/fleet/vehicles", params, &payload); err != nil {
		return nil, err
	}
	// Older deployments answer with "vehicles" instead of "data".
	if len(payload.Data) > 0 {
		return payload.Data, nil
	}
	return payload.Vehicles, nil
}

// Drivers lists the fleet's drivers.
func (c *Client) Drivers(ctx context.Context) ([]Driver, error) {
	params := url.Values{}
	if c.groupID != "" {
		params.Set("groupId", c.groupID)
	}

	var payload struct {
		Drivers []Driver `json:"drivers"`
	}
	if err := c.getJSON(ctx, "drivers", "/fleet/drivers", params, &payload); err != nil {
		return nil, err
	}
	return payload.Drivers, nil
}

// Stats fetches raw vehicle statistics for one vehicle over a window.
func (c *Client) Stats(ctx context.Context, vehicleID string, start, end time.Time) (VehicleStats, error) {
	params := url.Values{}
	params.Set("id", vehicleID)
	params.Set("startTime", start.UTC().Format("2006-01-02T15:04:05Z"))
	params.Set("endTime", end.UTC().Format("2006-01-02T15:04:05Z"))

	var raw json.RawMessage
	if err := c.getJSON(ctx, "vehicle_stats", "/fleet/vehicles/stats/history", params, &raw); err != nil {
		return VehicleStats{}, err
	}
	return VehicleStats{VehicleID: vehicleID, Raw: raw}, nil
}

// RecentVehicleStats flattens the fleet's vehicles into the telematics
// table: one row per vehicle with the odometer converted to miles and
// location fields when present. hours bounds the stats window.
func (c *Client) RecentVehicleStats(ctx context.Context, hours int) (table.Table, error) {
	if hours <= 0 {
		hours = 24
	}

	vehicles, err := c.Vehicles(ctx)
	if err != nil {
		return table.Table{}, err
	}

	end := c.now().UTC()
	start := end.Add(-time.Duration(hours) * time.Hour)

	t := table.New(
		"vehicle_id", "name", "vin",
		"odometer_miles", "engine_hours", "fuel_level_percent",
		"latitude", "longitude", "location_time",
	)
	for _, v := range vehicles {
		if v.ID == "" {
			continue
		}
		// A vehicle whose stats window cannot be fetched is dropped
		// rather than reported with stale numbers.
		if _, err := c.Stats(ctx, v.ID, start, end); err != nil {
			c.log.Warn(ctx, "vehicle stats unavailable, skipping vehicle",
				logger.String("vehicle_id", v.ID),
				logger.Error(err),
			)
			continue
		}

		lat, lon, locTime := "", "", ""
		if v.LocationData != nil {
			lat = formatFloat(v.LocationData.Latitude)
			lon = formatFloat(v.LocationData.Longitude)
			locTime = v.LocationData.Time
		}
		t.AppendRow(
			v.ID, v.Name, v.VIN,
			formatFloat(v.OdometerMeters/metersPerMile),
			formatFloat(v.EngineHours),
			formatFloat(v.FuelPercent),
			lat, lon, locTime,
		)
	}
	return t, nil
}

func (c *Client) getJSON(ctx context.Context, operation, path string, params url.Values, out any) error {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return Wrap(ErrRequestFailed, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiToken)
	req.Header.Set("Content-Type", "application/json")
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
	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: %s: status %d", ErrUnauthorized, operation, resp.StatusCode)
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("%w: %s: status %d: %s", ErrRequestFailed, operation, resp.StatusCode, body)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return Wrap(ErrRequestFailed, err)
	}
	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
