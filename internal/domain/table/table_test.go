package table_test

import (
	"testing"

	table "github.com/pepmove/fleetboard/internal/domain/table"
	. "github.com/smartystreets/goconvey/convey"
)

func TestTable_Basics(t *testing.T) {
	Convey("Given a table with a fleet-like schema", t, func() {
		tbl := table.New("id", "driver_name", "miles_driven")
		tbl.AppendRow("d1", "Alice Johnson", "120.5")
		tbl.AppendRow("d2", "Bob Smith", "80")

		Convey("Then it should report its shape", func() {
			So(tbl.IsEmpty(), ShouldBeFalse)
			So(tbl.NumRows(), ShouldEqual, 2)
			So(tbl.Columns, ShouldResemble, []string{"id", "driver_name", "miles_driven"})
		})

		Convey("When looking up columns", func() {
			So(tbl.ColumnIndex("driver_name"), ShouldEqual, 1)
			So(tbl.ColumnIndex("missing"), ShouldEqual, -1)
			So(tbl.HasColumn("miles_driven"), ShouldBeTrue)
			So(tbl.HasColumn("vin"), ShouldBeFalse)
		})

		Convey("When reading cells", func() {
			v, ok := tbl.Cell(0, "driver_name")
			So(ok, ShouldBeTrue)
			So(v, ShouldEqual, "Alice Johnson")

			_, ok = tbl.Cell(5, "driver_name")
			So(ok, ShouldBeFalse)

			_, ok = tbl.Cell(0, "missing")
			So(ok, ShouldBeFalse)
		})

		Convey("When reading numeric cells", func() {
			f, ok := tbl.Float(0, "miles_driven")
			So(ok, ShouldBeTrue)
			So(f, ShouldEqual, 120.5)

			Convey("And an unparseable value is distinguishable from zero", func() {
				tbl.AppendRow("d3", "Carol Davis", "not-a-number")
				_, ok := tbl.Float(2, "miles_driven")
				So(ok, ShouldBeFalse)
			})
		})
	})
}

func TestTable_AppendRow(t *testing.T) {
	Convey("Given a three-column table", t, func() {
		tbl := table.New("a", "b", "c")

		Convey("When appending a short row", func() {
			tbl.AppendRow("1")

			Convey("Then it should be padded to schema width", func() {
				So(tbl.Rows[0], ShouldResemble, []string{"1", "", ""})
			})
		})

		Convey("When appending an oversized row", func() {
			tbl.AppendRow("1", "2", "3", "4")

			Convey("Then it should be truncated to schema width", func() {
				So(tbl.Rows[0], ShouldResemble, []string{"1", "2", "3"})
			})
		})
	})
}

func TestTable_Head(t *testing.T) {
	Convey("Given a table with several rows", t, func() {
		tbl := table.New("id")
		for _, id := range []string{"a", "b", "c", "d"} {
			tbl.AppendRow(id)
		}

		Convey("When taking a head smaller than the table", func() {
			h := tbl.Head(2)
			So(h.NumRows(), ShouldEqual, 2)
			So(h.Columns, ShouldResemble, tbl.Columns)

			Convey("Then mutating the head should not touch the original", func() {
				h.Rows[0][0] = "mutated"
				So(tbl.Rows[0][0], ShouldEqual, "a")
			})
		})

		Convey("When taking a head larger than the table", func() {
			So(tbl.Head(100).NumRows(), ShouldEqual, 4)
		})

		Convey("When taking a non-positive head", func() {
			So(tbl.Head(0).NumRows(), ShouldEqual, 0)
			So(tbl.Head(-1).NumRows(), ShouldEqual, 0)
		})
	})
}
