package table_test

import (
	"testing"

	table "github.com/pepmove/fleetboard/internal/domain/table"
	. "github.com/smartystreets/goconvey/convey"
)

func fleetFixture() table.Table {
	t := table.New("id", "driver_name", "status")
	t.AppendRow("d1", "Alice Johnson", "active")
	t.AppendRow("d2", "Bob Smith", "active")
	t.AppendRow("d3", "Carol Davis", "inactive")
	return t
}

func telematicsFixture() table.Table {
	t := table.New("id", "miles_driven", "status")
	t.AppendRow("d1", "120.5", "ok")
	t.AppendRow("d2", "80", "ok")
	t.AppendRow("d4", "55", "fault")
	return t
}

func TestParseJoinKind(t *testing.T) {
	Convey("Given the recognized join kinds", t, func() {
		for _, name := range []string{"inner", "left", "right", "outer"} {
			k, err := table.ParseJoinKind(name)
			So(err, ShouldBeNil)
			So(string(k), ShouldEqual, name)
		}

		Convey("Then an unknown kind is rejected", func() {
			_, err := table.ParseJoinKind("cross")
			So(err, ShouldNotBeNil)
			So(err, ShouldWrap, table.ErrUnknownJoinKind)
		})
	})
}

func TestMerge_Inner(t *testing.T) {
	Convey("Given fleet and telematics tables sharing ids", t, func() {
		left := fleetFixture()
		right := telematicsFixture()

		Convey("When inner-joining on id", func() {
			out, err := table.Merge(left, right, "id", table.JoinInner)
			So(err, ShouldBeNil)

			Convey("Then only matched ids survive, in left order", func() {
				So(out.NumRows(), ShouldEqual, 2)
				id0, _ := out.Cell(0, "id")
				id1, _ := out.Cell(1, "id")
				So(id0, ShouldEqual, "d1")
				So(id1, ShouldEqual, "d2")
			})

			Convey("And colliding columns get origin suffixes", func() {
				So(out.Columns, ShouldResemble, []string{
					"id", "driver_name", "status_x", "miles_driven", "status_y",
				})
				sx, _ := out.Cell(0, "status_x")
				sy, _ := out.Cell(0, "status_y")
				So(sx, ShouldEqual, "active")
				So(sy, ShouldEqual, "ok")
			})

			Convey("And the result never exceeds the smaller input", func() {
				So(out.NumRows(), ShouldBeLessThanOrEqualTo, left.NumRows())
				So(out.NumRows(), ShouldBeLessThanOrEqualTo, right.NumRows())
			})
		})
	})
}

func TestMerge_Left(t *testing.T) {
	Convey("Given fleet and telematics tables", t, func() {
		out, err := table.Merge(fleetFixture(), telematicsFixture(), "id", table.JoinLeft)
		So(err, ShouldBeNil)

		Convey("Then every left row is retained", func() {
			So(out.NumRows(), ShouldEqual, 3)

			Convey("And the unmatched left row carries empty right cells", func() {
				id, _ := out.Cell(2, "id")
				miles, _ := out.Cell(2, "miles_driven")
				name, _ := out.Cell(2, "driver_name")
				So(id, ShouldEqual, "d3")
				So(name, ShouldEqual, "Carol Davis")
				So(miles, ShouldEqual, "")
			})
		})
	})
}

func TestMerge_Right(t *testing.T) {
	Convey("Given fleet and telematics tables", t, func() {
		out, err := table.Merge(fleetFixture(), telematicsFixture(), "id", table.JoinRight)
		So(err, ShouldBeNil)

		Convey("Then every right row is retained", func() {
			So(out.NumRows(), ShouldEqual, 3)

			Convey("And the unmatched right row carries empty left cells", func() {
				id, _ := out.Cell(2, "id")
				name, _ := out.Cell(2, "driver_name")
				miles, _ := out.Cell(2, "miles_driven")
				So(id, ShouldEqual, "d4")
				So(name, ShouldEqual, "")
				So(miles, ShouldEqual, "55")
			})
		})
	})
}

func TestMerge_Outer(t *testing.T) {
	Convey("Given fleet and telematics tables", t, func() {
		left := fleetFixture()
		right := telematicsFixture()

		out, err := table.Merge(left, right, "id", table.JoinOuter)
		So(err, ShouldBeNil)

		Convey("Then all ids from both sides appear exactly once", func() {
			So(out.NumRows(), ShouldEqual, 4)
			So(out.NumRows(), ShouldBeGreaterThanOrEqualTo, left.NumRows())
			So(out.NumRows(), ShouldBeGreaterThanOrEqualTo, right.NumRows())

			ids := make([]string, 0, out.NumRows())
			for i := 0; i < out.NumRows(); i++ {
				id, _ := out.Cell(i, "id")
				ids = append(ids, id)
			}
			So(ids, ShouldResemble, []string{"d1", "d2", "d3", "d4"})
		})
	})
}

func TestMerge_Multiplicity(t *testing.T) {
	Convey("Given duplicate keys on both sides", t, func() {
		left := table.New("id", "job")
		left.AppendRow("d1", "AL001")
		left.AppendRow("d1", "AL002")

		right := table.New("id", "miles")
		right.AppendRow("d1", "10")
		right.AppendRow("d1", "20")
		right.AppendRow("d1", "30")

		Convey("When inner-joining", func() {
			out, err := table.Merge(left, right, "id", table.JoinInner)
			So(err, ShouldBeNil)

			Convey("Then each matching pair produces a row", func() {
				So(out.NumRows(), ShouldEqual, 6)
			})
		})
	})
}

func TestMerge_Errors(t *testing.T) {
	Convey("Given a table without the join column", t, func() {
		left := table.New("driver", "job")
		right := telematicsFixture()

		Convey("Then merging on id fails with a sentinel", func() {
			_, err := table.Merge(left, right, "id", table.JoinInner)
			So(err, ShouldNotBeNil)
			So(err, ShouldWrap, table.ErrMissingJoinColumn)
		})

		Convey("And an unknown join kind fails before any work", func() {
			_, err := table.Merge(fleetFixture(), right, "id", table.JoinKind("cross"))
			So(err, ShouldWrap, table.ErrUnknownJoinKind)
		})
	})
}

func TestMerge_NoCollisions(t *testing.T) {
	Convey("Given tables with disjoint non-key columns", t, func() {
		left := table.New("id", "driver_name")
		left.AppendRow("d1", "Alice Johnson")
		right := table.New("id", "miles_driven")
		right.AppendRow("d1", "42")

		Convey("When merging", func() {
			out, err := table.Merge(left, right, "id", table.JoinInner)
			So(err, ShouldBeNil)

			Convey("Then no suffixes are introduced", func() {
				So(out.Columns, ShouldResemble, []string{"id", "driver_name", "miles_driven"})
			})
		})
	})
}
