package service_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	service "github.com/pepmove/fleetboard/internal/app"
	table "github.com/pepmove/fleetboard/internal/domain/table"
	. "github.com/smartystreets/goconvey/convey"
)

func writeCSV(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	return path
}

func TestServiceIntegration_CSVSources(t *testing.T) {
	Convey("Given real fleet and telematics CSV files", t, func() {
		ctx := context.Background()
		dir := t.TempDir()

		fleetPath := writeCSV(t, dir, "fleet.csv",
			"id,driver_name,status\nd1,Alice Johnson,active\nd2,Bob Smith,active\nd3,Carol Davis,inactive\n")
		telePath := writeCSV(t, dir, "telematics.csv",
			"id,miles_driven,status\nd1,120.5,ok\nd2,80,ok\nd4,55,fault\n")

		Convey("When starting with an inner join", func() {
			svc := service.New(
				service.WithFleetPath(fleetPath),
				service.WithTelematicsPath(telePath),
				service.WithJoinKey("id"),
				service.WithJoinKind(table.JoinInner),
			)
			So(svc.Start(ctx), ShouldBeNil)
			defer svc.Stop()

			Convey("Then the merged snapshot keeps only matched ids", func() {
				merged, err := svc.MergedTable(ctx)
				So(err, ShouldBeNil)
				So(merged.NumRows(), ShouldEqual, 2)

				Convey("And collision suffixes are applied", func() {
					So(merged.HasColumn("status_x"), ShouldBeTrue)
					So(merged.HasColumn("status_y"), ShouldBeTrue)
				})
			})

			Convey("Then the source snapshots mirror the files", func() {
				fleet, err := svc.SourceTable(ctx, "fleet")
				So(err, ShouldBeNil)
				So(fleet.NumRows(), ShouldEqual, 3)

				tele, err := svc.SourceTable(ctx, "telematics")
				So(err, ShouldBeNil)
				So(tele.NumRows(), ShouldEqual, 3)
			})
		})

		Convey("When starting with an outer join", func() {
			svc := service.New(
				service.WithFleetPath(fleetPath),
				service.WithTelematicsPath(telePath),
				service.WithJoinKind(table.JoinOuter),
			)
			So(svc.Start(ctx), ShouldBeNil)
			defer svc.Stop()

			Convey("Then unmatched ids from both sides survive", func() {
				merged, err := svc.MergedTable(ctx)
				So(err, ShouldBeNil)
				So(merged.NumRows(), ShouldEqual, 4)
			})
		})

		Convey("When the join key is missing from a source", func() {
			badPath := writeCSV(t, dir, "bad.csv", "vin,miles_driven\nV1,10\n")
			svc := service.New(
				service.WithFleetPath(fleetPath),
				service.WithTelematicsPath(badPath),
			)

			Convey("Then startup surfaces the structural failure", func() {
				err := svc.Start(ctx)
				So(err, ShouldWrap, table.ErrMissingJoinColumn)
			})
		})

		Convey("When an events CSV export is present", func() {
			eventsPath := writeCSV(t, dir, "events.csv",
				"driver,job_id,miles,date\nDana West,DA001,75,2024-02-01\nDana West,DA002,25,2024-02-02\n")
			svc := service.New(
				service.WithFleetPath(fleetPath),
				service.WithTelematicsPath(telePath),
				service.WithEventsPath(eventsPath),
			)
			So(svc.Start(ctx), ShouldBeNil)
			defer svc.Stop()

			Convey("Then the export feeds the analytics instead of sample data", func() {
				raw, err := svc.RawTable(ctx)
				So(err, ShouldBeNil)
				So(raw.NumRows(), ShouldEqual, 2)

				summary, err := svc.SummaryStats(ctx)
				So(err, ShouldBeNil)
				So(summary.TotalDrivers, ShouldEqual, 1)
				So(summary.TotalMiles, ShouldEqual, 100)
			})
		})

		Convey("When a file changes between refreshes", func() {
			svc := service.New(
				service.WithFleetPath(fleetPath),
				service.WithTelematicsPath(telePath),
			)
			So(svc.Start(ctx), ShouldBeNil)
			defer svc.Stop()

			writeCSV(t, dir, "fleet.csv",
				"id,driver_name,status\nd1,Alice Johnson,active\n")
			So(svc.Refresh(ctx), ShouldBeNil)

			Convey("Then the snapshots reflect the new content", func() {
				fleet, err := svc.SourceTable(ctx, "fleet")
				So(err, ShouldBeNil)
				So(fleet.NumRows(), ShouldEqual, 1)

				merged, err := svc.MergedTable(ctx)
				So(err, ShouldBeNil)
				So(merged.NumRows(), ShouldEqual, 1)
			})
		})
	})
}
