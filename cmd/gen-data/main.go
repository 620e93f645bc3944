// Command gen-data writes the deterministic demo CSVs the dashboard
// falls back to when no real sources are configured.
package main

import (
	"flag"
	"os"
	"path/filepath"

	"github.com/pepmove/fleetboard/internal/domain/sample"
	table "github.com/pepmove/fleetboard/internal/domain/table"
)

const (
	defaultDir     = "data"
	defaultSeed    = sample.DefaultSeed
	defaultMinJobs = 5
	defaultMaxJobs = 15
)

func main() {
	var (
		dir     = flag.String("dir", defaultDir, "Output directory for generated CSV files")
		seed    = flag.Int64("seed", defaultSeed, "Seed for the deterministic generator")
		minJobs = flag.Int("min-jobs", defaultMinJobs, "Minimum jobs generated per driver")
		maxJobs = flag.Int("max-jobs", defaultMaxJobs, "Maximum jobs generated per driver")
	)
	flag.Parse()

	if *minJobs < 1 || *maxJobs < *minJobs {
		os.Stderr.WriteString("invalid job range: min-jobs must be >= 1 and <= max-jobs\n")
		os.Exit(1)
	}

	opts := []sample.Option{
		sample.WithSeed(*seed),
		sample.WithJobRange(*minJobs, *maxJobs),
	}

	files := map[string]table.Table{
		"fleet.csv":      sample.Fleet(opts...),
		"telematics.csv": sample.Telematics(opts...),
		"events.csv":     sample.Events(opts...),
	}

	if err := os.MkdirAll(*dir, 0o755); err != nil {
		os.Stderr.WriteString("failed to create output directory: " + err.Error() + "\n")
		os.Exit(1)
	}

	for name, t := range files {
		if err := writeTable(filepath.Join(*dir, name), t); err != nil {
			os.Stderr.WriteString("failed to write " + name + ": " + err.Error() + "\n")
			os.Exit(1)
		}
		os.Stdout.WriteString("wrote " + filepath.Join(*dir, name) + "\n")
	}
}

func writeTable(path string, t table.Table) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	return table.WriteCSV(f, t)
}
