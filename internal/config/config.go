// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New(...) initializer to build a Config with defaults.
// - Configuration is resolved once at process start; collaborators receive
//   an immutable copy rather than reading the environment ad hoc.
// - External errors must be wrapped via this package's error helpers.
package config

// FileMaker holds FileMaker Data API connection settings. Consumed only by
// the FileMaker client adapter.
type FileMaker struct {
	// ServerURL is the base URL of the FileMaker server, e.g. "https://fm.example.com".
	ServerURL string `koanf:"server_url"`

	// APIVersion selects the Data API version, e.g. "v1".
	APIVersion string `koanf:"api_version"`

	// Database names the hosted database to authenticate against.
	Database string `koanf:"database"`

	Username string `koanf:"username"`
	Password string `koanf:"password"`
}

// Samsara holds Samsara fleet API connection settings. Consumed only by the
// Samsara client adapter.
type Samsara struct {
	// BaseURL is the API root, e.g. "https://api.samsara.com".
	BaseURL string `koanf:"base_url"`

	// APIToken is the bearer token for all requests.
	APIToken string `koanf:"api_token"`

	// GroupID optionally scopes vehicle and driver listings.
	GroupID string `koanf:"group_id"`
}

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8501".
	Addr string `koanf:"addr"`

	// FleetCSV is the path of the fleet/driver export.
	FleetCSV string `koanf:"fleet_csv"`

	// TelematicsCSV is the path of the telematics export.
	TelematicsCSV string `koanf:"telematics_csv"`

	// EventsCSV is the path of the per-job event export feeding the
	// driver analytics.
	EventsCSV string `koanf:"events_csv"`

	// JoinKey names the column used when merging the two sources.
	JoinKey string `koanf:"join_key"`

	// JoinKind selects the merge semantics: inner, left, right, outer.
	JoinKind string `koanf:"join_kind"`

	// MaxPreviewRows caps GET /api/table responses.
	MaxPreviewRows int `koanf:"max_preview_rows"`

	// CacheSize bounds the derived-view memoization cache.
	CacheSize int `koanf:"cache_size"`

	// FileMaker and Samsara are credential blocks for the API adapters.
	// Empty server/base URLs disable the respective integration.
	FileMaker FileMaker `koanf:"filemaker"`
	Samsara   Samsara   `koanf:"samsara"`
}

// New creates a Config populated with defaults. The default listen address
// matches the port the dashboard historically ran on.
func New() *Config {
	return &Config{
		LogLevel:       "info",
		Addr:           ":8501",
		FleetCSV:       "data/fleet.csv",
		TelematicsCSV:  "data/telematics.csv",
		EventsCSV:      "data/events.csv",
		JoinKey:        "id",
		JoinKind:       "inner",
		MaxPreviewRows: 100,
		CacheSize:      64,
		FileMaker: FileMaker{
			APIVersion: "v1",
		},
		Samsara: Samsara{
			BaseURL: "https://api.samsara.com",
		},
	}
}
