// Package service provides the core business service that implements
// the dependencies required by the HTTP API: loading the fleet and
// telematics sources, merging them, and serving the memoized analytics
// views.
package service

import (
	"context"
	"sync"
	"time"

	filemaker "github.com/pepmove/fleetboard/internal/adapters/filemaker"
	repository "github.com/pepmove/fleetboard/internal/adapters/repository"
	samsara "github.com/pepmove/fleetboard/internal/adapters/samsara"
	"github.com/pepmove/fleetboard/internal/domain/analytics"
	"github.com/pepmove/fleetboard/internal/domain/memo"
	"github.com/pepmove/fleetboard/internal/domain/sample"
	table "github.com/pepmove/fleetboard/internal/domain/table"
	"github.com/pepmove/fleetboard/pkg/logger"
	"github.com/pepmove/fleetboard/pkg/metrics"
)

// Service implements the API dependencies for the fleet dashboard.
type Service struct {
	mu sync.RWMutex

	// Core components
	store repository.Store
	cache memo.Cache

	// Optional upstream clients
	filemaker *filemaker.Client
	samsara   *samsara.Client

	// Configuration
	fleetPath      string
	telematicsPath string
	eventsPath     string
	joinKey        string
	joinKind       table.JoinKind
	cacheSize      int

	// State
	started bool

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithFleetPath sets the fleet roster CSV path.
func WithFleetPath(path string) Option {
	return func(s *Service) {
		if path != "" {
			s.fleetPath = path
		}
	}
}

// WithTelematicsPath sets the telematics CSV path.
func WithTelematicsPath(path string) Option {
	return func(s *Service) {
		if path != "" {
			s.telematicsPath = path
		}
	}
}

// WithEventsPath sets the per-job event CSV path.
func WithEventsPath(path string) Option {
	return func(s *Service) {
		if path != "" {
			s.eventsPath = path
		}
	}
}

// WithJoinKey sets the merge key column.
func WithJoinKey(key string) Option {
	return func(s *Service) {
		if key != "" {
			s.joinKey = key
		}
	}
}

// WithJoinKind sets how the two sources are merged.
func WithJoinKind(kind table.JoinKind) Option {
	return func(s *Service) {
		s.joinKind = kind
	}
}

// WithCacheSize bounds the analytics result cache.
func WithCacheSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.cacheSize = size
		}
	}
}

// WithFileMaker attaches a FileMaker client for job lookups.
func WithFileMaker(c *filemaker.Client) Option {
	return func(s *Service) {
		s.filemaker = c
	}
}

// WithSamsara attaches a Samsara client as the telematics source.
func WithSamsara(c *samsara.Client) Option {
	return func(s *Service) {
		s.samsara = c
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(log logger.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.logger = log
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		fleetPath:      "data/fleet.csv",
		telematicsPath: "data/telematics.csv",
		eventsPath:     "data/events.csv",
		joinKey:        "id",
		joinKind:       table.JoinInner,
		cacheSize:      64,
		logger:         nil, // Will be replaced when service starts
	}

	// Apply all options
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start initializes the store and cache and loads the initial datasets.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting dashboard service...")

	s.store = repository.NewMemoryStore()
	s.cache = memo.NewInMemoryCache(memo.WithMaxSize(s.cacheSize))

	if err := s.reload(ctx); err != nil {
		return err
	}

	s.started = true
	s.logger.Info(ctx, "dashboard service started",
		logger.String("fleetPath", s.fleetPath),
		logger.String("telematicsPath", s.telematicsPath),
		logger.String("joinKey", s.joinKey),
		logger.String("joinKind", string(s.joinKind)),
	)

	return nil
}

// Stop releases the cached state.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.logger.Info(context.Background(), "stopping dashboard service...")
	s.cache.Purge(context.Background())
	s.started = false
	s.logger.Info(context.Background(), "dashboard service stopped")
}

// reload pulls the sources, rebuilds the snapshots, and refreshes the
// dataset gauges. Must be called with s.mu held.
func (s *Service) reload(ctx context.Context) error {
	fleet := table.LoadCSV(ctx, s.fleetPath)
	if fleet.IsEmpty() {
		s.logger.Warn(ctx, "fleet source empty, using sample data",
			logger.String("path", s.fleetPath),
		)
		fleet = sample.Fleet()
	}

	telematics, live := s.loadTelematics(ctx)

	merged, err := table.Merge(fleet, telematics, s.joinKey, s.joinKind)
	if err != nil {
		return err
	}

	// The raw per-job event table backing the driver analytics.
	// A CSV export wins; a live telematics feed is converted into
	// synthetic driver events; sample data is the final fallback.
	events := table.LoadCSV(ctx, s.eventsPath)
	if events.IsEmpty() && live {
		events = analytics.DriverEvents(telematics, time.Now())
	}
	if events.IsEmpty() {
		s.logger.Warn(ctx, "event source empty, using sample data",
			logger.String("path", s.eventsPath),
		)
		events = sample.Events()
	}

	s.store.Put(ctx, repository.SnapshotFleet, fleet)
	s.store.Put(ctx, repository.SnapshotTelematics, telematics)
	s.store.Put(ctx, repository.SnapshotMerged, merged)
	s.store.Put(ctx, repository.SnapshotEvents, events)

	s.updateGauges(events)
	return nil
}

// loadTelematics prefers the Samsara feed when a client is attached and
// falls back to the CSV source, then to sample data. The second return
// reports whether the table came from the live feed.
func (s *Service) loadTelematics(ctx context.Context) (table.Table, bool) {
	if s.samsara != nil {
		t, err := s.samsara.RecentVehicleStats(ctx, 24)
		switch {
		case err != nil:
			s.logger.Warn(ctx, "samsara feed unavailable, falling back to csv",
				logger.Error(err),
			)
		case t.IsEmpty():
			s.logger.Warn(ctx, "samsara feed returned no vehicles, falling back to csv")
		case !t.HasColumn(s.joinKey):
			// The feed cannot participate in the merge without the key.
			s.logger.Warn(ctx, "samsara feed lacks join key, falling back to csv",
				logger.String("joinKey", s.joinKey),
			)
		default:
			return t, true
		}
	}

	t := table.LoadCSV(ctx, s.telematicsPath)
	if t.IsEmpty() {
		s.logger.Warn(ctx, "telematics source empty, using sample data",
			logger.String("path", s.telematicsPath),
		)
		t = sample.Telematics()
	}
	return t, false
}

func (s *Service) updateGauges(events table.Table) {
	combined, err := analytics.CombinedAnalysis(events)
	if err != nil {
		return
	}
	summary := analytics.SummaryStats(combined)
	metrics.UpdateTotalDrivers(summary.TotalDrivers)
	metrics.UpdateTotalJobs(summary.TotalJobs)
	metrics.UpdateTotalMiles(summary.TotalMiles)
}

// RawTable returns the raw per-job event table.
func (s *Service) RawTable(ctx context.Context) (table.Table, error) {
	return s.store.Get(ctx, repository.SnapshotEvents)
}

// SourceTable returns a named snapshot: fleet, telematics, merged, or
// events (aliased as raw).
func (s *Service) SourceTable(ctx context.Context, name string) (table.Table, error) {
	if name == "raw" {
		name = repository.SnapshotEvents
	}
	return s.store.Get(ctx, name)
}

// MergedTable returns the joined fleet and telematics snapshot.
func (s *Service) MergedTable(ctx context.Context) (table.Table, error) {
	return s.store.Get(ctx, repository.SnapshotMerged)
}

// JobsPerDriver returns the per-driver job counts, memoized on the raw
// table's content.
func (s *Service) JobsPerDriver(ctx context.Context) (table.Table, error) {
	return s.cachedView(ctx, "jobs_per_driver", analytics.JobsPerDriver)
}

// MilesPerDriver returns the per-driver mileage sums, memoized on the
// raw table's content.
func (s *Service) MilesPerDriver(ctx context.Context) (table.Table, error) {
	return s.cachedView(ctx, "miles_per_driver", analytics.MilesPerDriver)
}

// CombinedAnalysis returns the per-driver combined view, memoized on
// the raw table's content.
func (s *Service) CombinedAnalysis(ctx context.Context) (table.Table, error) {
	raw, err := s.RawTable(ctx)
	if err != nil {
		return table.Table{}, err
	}

	key := memo.Key("combined_analysis", memo.TableKey(raw))
	v, err := s.cache.GetOrCompute(ctx, key, func() (any, error) {
		out, err := analytics.CombinedAnalysis(raw)
		if err != nil {
			return nil, err
		}
		return out, nil
	})
	if err != nil {
		return table.Table{}, err
	}
	return v.(table.Table), nil
}

// SummaryStats reduces the combined view to the scalar summary.
func (s *Service) SummaryStats(ctx context.Context) (analytics.Summary, error) {
	combined, err := s.CombinedAnalysis(ctx)
	if err != nil {
		return analytics.Summary{}, err
	}
	return analytics.SummaryStats(combined), nil
}

// Checklist derives the per-row checklist flags over the merged view.
func (s *Service) Checklist(ctx context.Context) ([]analytics.ChecklistItem, error) {
	merged, err := s.MergedTable(ctx)
	if err != nil {
		return nil, err
	}
	return analytics.ChecklistConditions(merged), nil
}

// JobLookup fetches one job from FileMaker.
// Returns ErrNoUpstream when no client is configured.
func (s *Service) JobLookup(ctx context.Context, jobID string) (filemaker.Job, error) {
	if s.filemaker == nil {
		return filemaker.Job{}, ErrNoUpstream
	}
	return s.filemaker.JobData(ctx, jobID)
}

// Refresh drops every memoized result and reloads the sources.
func (s *Service) Refresh(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return ErrNotStarted
	}

	s.cache.Purge(ctx)
	if err := s.reload(ctx); err != nil {
		return err
	}
	s.logger.Info(ctx, "datasets refreshed")
	return nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":   s.started,
		"joinKey":   s.joinKey,
		"joinKind":  string(s.joinKind),
		"cacheSize": s.cacheSize,
	}

	if s.started {
		stats["snapshots"] = s.store.Names(ctx)
		stats["cachedResults"] = s.cache.Size()

		for _, name := range s.store.Names(ctx) {
			if t, err := s.store.Get(ctx, name); err == nil {
				stats[name+"Rows"] = t.NumRows()
			}
		}
	}

	return stats
}

func (s *Service) cachedView(ctx context.Context, view string, compute func(table.Table) table.Table) (table.Table, error) {
	raw, err := s.RawTable(ctx)
	if err != nil {
		return table.Table{}, err
	}

	key := memo.Key(view, memo.TableKey(raw))
	v, err := s.cache.GetOrCompute(ctx, key, func() (any, error) {
		return compute(raw), nil
	})
	if err != nil {
		return table.Table{}, err
	}
	return v.(table.Table), nil
}
