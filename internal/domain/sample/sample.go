// Package sample generates the deterministic demo dataset used when no
// real fleet or telematics source is configured.
package sample

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	table "github.com/pepmove/fleetboard/internal/domain/table"
)

// DefaultSeed keeps generated data reproducible across runs.
const DefaultSeed = 42

// Default drivers for the demo fleet.
var defaultDrivers = []string{
	"Alice Johnson",
	"Bob Smith",
	"Carol Davis",
	"David Wilson",
	"Eva Brown",
	"Frank Miller",
}

type generator struct {
	seed    int64
	drivers []string
	minJobs int
	maxJobs int
}

// Option applies a configuration option to the generator.
type Option func(*generator)

// WithSeed overrides the deterministic seed.
func WithSeed(seed int64) Option {
	return func(g *generator) {
		g.seed = seed
	}
}

// WithDrivers replaces the default driver roster.
func WithDrivers(drivers ...string) Option {
	return func(g *generator) {
		g.drivers = drivers
	}
}

// WithJobRange bounds the jobs generated per driver, inclusive.
func WithJobRange(min, max int) Option {
	return func(g *generator) {
		g.minJobs = min
		g.maxJobs = max
	}
}

func newGenerator(opts ...Option) *generator {
	g := &generator{
		seed:    DefaultSeed,
		drivers: defaultDrivers,
		minJobs: 5,
		maxJobs: 15,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Events produces the raw per-job event table: one row per job with
// driver, job_id, miles, and date. Job ids take the driver's first two
// initials plus a zero-padded sequence, e.g. AL001 for Alice Johnson.
func Events(opts ...Option) table.Table {
	g := newGenerator(opts...)
	rng := rand.New(rand.NewSource(g.seed))
	start := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

	t := table.New("driver", "job_id", "miles", "date")
	for _, driver := range g.drivers {
		jobs := g.minJobs + rng.Intn(g.maxJobs-g.minJobs+1)
		for j := 0; j < jobs; j++ {
			miles := 50 + rng.Intn(450)
			day := start.AddDate(0, 0, rng.Intn(30))
			t.AppendRow(
				driver,
				jobID(driver, j+1),
				fmt.Sprintf("%d", miles),
				day.Format("2006-01-02"),
			)
		}
	}
	return t
}

// Fleet produces the fleet roster table keyed by a driver id, suitable
// as the left side of the demo merge.
func Fleet(opts ...Option) table.Table {
	g := newGenerator(opts...)

	t := table.New("id", "driver_name", "status")
	for i, driver := range g.drivers {
		status := "active"
		if i%3 == 2 {
			status = "inactive"
		}
		t.AppendRow(fmt.Sprintf("d%d", i+1), driver, status)
	}
	return t
}

// Telematics produces the telematics table keyed by the same driver id,
// suitable as the right side of the demo merge. The last roster entry
// is withheld and an unknown unit added so every join kind has visible
// unmatched rows.
func Telematics(opts ...Option) table.Table {
	g := newGenerator(opts...)
	rng := rand.New(rand.NewSource(g.seed + 1))

	t := table.New("id", "miles_driven", "status")
	for i := range g.drivers {
		if i == len(g.drivers)-1 {
			continue
		}
		t.AppendRow(fmt.Sprintf("d%d", i+1), fmt.Sprintf("%d", 50+rng.Intn(450)), "ok")
	}
	t.AppendRow(fmt.Sprintf("d%d", len(g.drivers)+1), fmt.Sprintf("%d", 50+rng.Intn(450)), "fault")
	return t
}

// jobID builds ids like AL001 from the driver's first name.
func jobID(driver string, seq int) string {
	first := strings.Fields(driver)
	prefix := "XX"
	if len(first) > 0 && len(first[0]) >= 2 {
		prefix = strings.ToUpper(first[0][:2])
	}
	return fmt.Sprintf("%s%03d", prefix, seq)
}
