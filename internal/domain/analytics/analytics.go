// Package analytics computes the derived per-driver views over a raw
// event table: job counts, mileage sums, the combined view with its
// average-miles-per-job metric, and the scalar summary record. Every
// function is a stateless, deterministic transform of its input.
package analytics

import (
	"strconv"
	"time"

	table "github.com/pepmove/fleetboard/internal/domain/table"
	"github.com/pepmove/fleetboard/pkg/metrics"
)

// Canonical raw event columns.
const (
	ColDriver = "driver"
	ColJobID  = "job_id"
	ColMiles  = "miles"
	ColDate   = "date"
)

// Derived view columns.
const (
	ColJobCount       = "job_count"
	ColTotalMiles     = "total_miles"
	ColAvgMilesPerJob = "avg_miles_per_job"
)

// Summary is the scalar snapshot derived from the combined view.
// AvgMilesPerJob is the mean of the per-driver averages, which differs
// from TotalMiles/TotalJobs whenever job counts are unequal.
type Summary struct {
	TotalDrivers   int     `json:"total_drivers"`
	TotalJobs      int     `json:"total_jobs"`
	TotalMiles     float64 `json:"total_miles"`
	AvgMilesPerJob float64 `json:"avg_miles_per_job"`
}

// driverOrder walks the raw table's driver column and returns the
// distinct drivers in first-appearance order alongside their row
// indices. Rows with a blank driver are dropped.
func driverOrder(raw table.Table) ([]string, map[string][]int) {
	order := make([]string, 0)
	rows := make(map[string][]int)
	for i := 0; i < raw.NumRows(); i++ {
		driver, ok := raw.Cell(i, ColDriver)
		if !ok || driver == "" {
			continue
		}
		if _, seen := rows[driver]; !seen {
			order = append(order, driver)
		}
		rows[driver] = append(rows[driver], i)
	}
	return order, rows
}

// JobsPerDriver groups raw rows by driver and counts them. Drivers not
// present in the raw table are absent from the result, not zero-valued.
func JobsPerDriver(raw table.Table) table.Table {
	defer observe("jobs_per_driver", time.Now())

	order, rows := driverOrder(raw)
	out := table.New(ColDriver, ColJobCount)
	for _, driver := range order {
		out.AppendRow(driver, strconv.Itoa(len(rows[driver])))
	}
	return out
}

// MilesPerDriver groups raw rows by driver and sums the miles column.
// Absent or unparseable miles values are excluded from the sum rather
// than treated as zero, so a corrupt cell cannot shift a total.
func MilesPerDriver(raw table.Table) table.Table {
	defer observe("miles_per_driver", time.Now())

	order, rows := driverOrder(raw)
	out := table.New(ColDriver, ColTotalMiles)
	for _, driver := range order {
		var total float64
		for _, i := range rows[driver] {
			if v, ok := raw.Float(i, ColMiles); ok {
				total += v
			}
		}
		out.AppendRow(driver, formatFloat(total))
	}
	return out
}

// CombinedAnalysis equi-joins the job-count and mileage views on the
// driver column and derives avg_miles_per_job. A zero job count yields
// an average of zero, never a division error.
func CombinedAnalysis(raw table.Table) (table.Table, error) {
	defer observe("combined_analysis", time.Now())

	jobs := JobsPerDriver(raw)
	miles := MilesPerDriver(raw)

	merged, err := table.Merge(jobs, miles, ColDriver, table.JoinInner)
	if err != nil {
		return table.Table{}, err
	}

	out := table.New(ColDriver, ColJobCount, ColTotalMiles, ColAvgMilesPerJob)
	for i := 0; i < merged.NumRows(); i++ {
		driver, _ := merged.Cell(i, ColDriver)
		countRaw, _ := merged.Cell(i, ColJobCount)
		totalRaw, _ := merged.Cell(i, ColTotalMiles)

		count, _ := strconv.Atoi(countRaw)
		total, _ := strconv.ParseFloat(totalRaw, 64)

		avg := 0.0
		if count > 0 {
			avg = total / float64(count)
		}
		out.AppendRow(driver, countRaw, totalRaw, formatFloat(avg))
	}
	return out, nil
}

// SummaryStats reduces the combined view to its scalar snapshot.
func SummaryStats(combined table.Table) Summary {
	defer observe("summary_stats", time.Now())

	var s Summary
	s.TotalDrivers = combined.NumRows()

	var avgSum float64
	for i := 0; i < combined.NumRows(); i++ {
		if countRaw, ok := combined.Cell(i, ColJobCount); ok {
			if count, err := strconv.Atoi(countRaw); err == nil {
				s.TotalJobs += count
			}
		}
		if total, ok := combined.Float(i, ColTotalMiles); ok {
			s.TotalMiles += total
		}
		if avg, ok := combined.Float(i, ColAvgMilesPerJob); ok {
			avgSum += avg
		}
	}
	if s.TotalDrivers > 0 {
		s.AvgMilesPerJob = avgSum / float64(s.TotalDrivers)
	}
	return s
}

func observe(view string, start time.Time) {
	metrics.RecordAggregationLatency(view, float64(time.Since(start).Milliseconds()))
}

// formatFloat renders a float without exponent notation and without
// trailing zero noise, so "50" stays "50" through a round trip.
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
