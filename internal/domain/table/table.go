// Package table provides the in-memory tabular model shared by the
// ingestion and analytics layers: an ordered sequence of string rows
// under a single header schema, loaded from CSV and combined with
// relational merge semantics.
package table

import (
	"strconv"
	"strings"
)

// Table is an ordered sequence of rows sharing one column schema.
// Tables are treated as immutable once produced; derived views are
// always computed fresh rather than mutating in place.
type Table struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// New returns an empty table with the given schema.
func New(columns ...string) Table {
	return Table{Columns: columns, Rows: nil}
}

// IsEmpty reports whether the table has no rows.
func (t Table) IsEmpty() bool {
	return len(t.Rows) == 0
}

// NumRows returns the number of data rows.
func (t Table) NumRows() int {
	return len(t.Rows)
}

// ColumnIndex returns the position of the named column, or -1.
func (t Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// HasColumn reports whether the named column exists.
func (t Table) HasColumn(name string) bool {
	return t.ColumnIndex(name) != -1
}

// Cell returns the value at (row, column). The second return is false
// when the column is absent or the row is ragged short of it.
func (t Table) Cell(row int, column string) (string, bool) {
	idx := t.ColumnIndex(column)
	if idx == -1 || row < 0 || row >= len(t.Rows) || idx >= len(t.Rows[row]) {
		return "", false
	}
	return t.Rows[row][idx], true
}

// Float parses the cell at (row, column) as a float64. The second return
// is false for absent, empty, or unparseable values so callers can
// distinguish "no value" from zero.
func (t Table) Float(row int, column string) (float64, bool) {
	raw, ok := t.Cell(row, column)
	if !ok {
		return 0, false
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// AppendRow adds a row, padding or truncating it to the schema width.
// Used by builders before a table is published; published tables are
// not mutated.
func (t *Table) AppendRow(cells ...string) {
	row := cells
	w := len(t.Columns)
	switch {
	case len(row) < w:
		padded := make([]string, w)
		copy(padded, row)
		row = padded
	case len(row) > w:
		row = row[:w]
	}
	t.Rows = append(t.Rows, row)
}

// Head returns a copy of the table truncated to at most n rows.
func (t Table) Head(n int) Table {
	if n < 0 {
		n = 0
	}
	if n > len(t.Rows) {
		n = len(t.Rows)
	}
	out := Table{Columns: t.Columns, Rows: make([][]string, n)}
	for i, row := range t.Rows[:n] {
		out.Rows[i] = append([]string(nil), row...)
	}
	return out
}
