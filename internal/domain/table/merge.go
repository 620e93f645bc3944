package table

import (
	"fmt"

	"github.com/pepmove/fleetboard/pkg/metrics"
)

// JoinKind selects which unmatched rows a merge retains.
type JoinKind string

const (
	JoinInner JoinKind = "inner"
	JoinLeft  JoinKind = "left"
	JoinRight JoinKind = "right"
	JoinOuter JoinKind = "outer"
)

// ParseJoinKind validates a join kind name.
func ParseJoinKind(s string) (JoinKind, error) {
	switch JoinKind(s) {
	case JoinInner, JoinLeft, JoinRight, JoinOuter:
		return JoinKind(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownJoinKind, s)
	}
}

// Column collision suffixes. Left-origin columns take "_x", right-origin
// "_y"; the join key is never suffixed. This rule is part of the merge
// contract and must not drift.
const (
	leftSuffix  = "_x"
	rightSuffix = "_y"
)

// Merge joins two tables on the named key column with standard
// relational multiplicity: every matching (left, right) row pair
// produces one output row; left/right/outer additionally retain
// unmatched rows from the named side(s) with empty-string null markers
// on the other side.
//
// Output ordering is deterministic: matched and left-retained rows in
// left-row order, then (right/outer) unmatched right rows in right-row
// order. A key column missing from either side is a hard failure,
// distinct from the empty-table sentinel, since merging on the wrong
// key would silently corrupt downstream aggregates.
func Merge(left, right Table, on string, how JoinKind) (Table, error) {
	if _, err := ParseJoinKind(string(how)); err != nil {
		metrics.RecordMergeError()
		return Table{}, err
	}
	li := left.ColumnIndex(on)
	if li == -1 {
		metrics.RecordMergeError()
		return Table{}, fmt.Errorf("%w: %q not in left table", ErrMissingJoinColumn, on)
	}
	ri := right.ColumnIndex(on)
	if ri == -1 {
		metrics.RecordMergeError()
		return Table{}, fmt.Errorf("%w: %q not in right table", ErrMissingJoinColumn, on)
	}

	rightCols := make(map[string]bool, len(right.Columns))
	for _, c := range right.Columns {
		rightCols[c] = true
	}
	leftCols := make(map[string]bool, len(left.Columns))
	for _, c := range left.Columns {
		leftCols[c] = true
	}

	// Schema: key first, then left non-key columns, then right non-key
	// columns, suffixing only names present on both sides.
	columns := []string{on}
	for _, c := range left.Columns {
		if c == on {
			continue
		}
		if rightCols[c] {
			c += leftSuffix
		}
		columns = append(columns, c)
	}
	for _, c := range right.Columns {
		if c == on {
			continue
		}
		if leftCols[c] {
			c += rightSuffix
		}
		columns = append(columns, c)
	}

	out := New(columns...)
	leftWidth := len(left.Columns) - 1
	rightWidth := len(right.Columns) - 1

	// Index right rows by key, preserving their order per key group.
	rightByKey := make(map[string][]int, len(right.Rows))
	for i, row := range right.Rows {
		if ri >= len(row) {
			continue
		}
		key := row[ri]
		rightByKey[key] = append(rightByKey[key], i)
	}
	rightMatched := make([]bool, len(right.Rows))

	keepLeft := how == JoinLeft || how == JoinOuter
	keepRight := how == JoinRight || how == JoinOuter

	emit := func(key string, leftRow, rightRow []string) {
		row := make([]string, 0, 1+leftWidth+rightWidth)
		row = append(row, key)
		row = append(row, dropIndex(leftRow, li, leftWidth)...)
		row = append(row, dropIndex(rightRow, ri, rightWidth)...)
		out.Rows = append(out.Rows, row)
	}

	for _, lrow := range left.Rows {
		if li >= len(lrow) {
			continue
		}
		key := lrow[li]
		matches := rightByKey[key]
		if len(matches) == 0 {
			if keepLeft {
				emit(key, lrow, nil)
			}
			continue
		}
		for _, rIdx := range matches {
			rightMatched[rIdx] = true
			emit(key, lrow, right.Rows[rIdx])
		}
	}

	if keepRight {
		for i, rrow := range right.Rows {
			if rightMatched[i] || ri >= len(rrow) {
				continue
			}
			emit(rrow[ri], nil, rrow)
		}
	}

	metrics.RecordMerge()
	return out, nil
}

// dropIndex returns row without the element at idx, padded with empty
// strings to width. A nil row yields width null markers.
func dropIndex(row []string, idx, width int) []string {
	out := make([]string, 0, width)
	for i, v := range row {
		if i == idx {
			continue
		}
		out = append(out, v)
	}
	for len(out) < width {
		out = append(out, "")
	}
	return out[:width]
}
