package memo

import (
	"fmt"
	"hash/fnv"

	table "github.com/pepmove/fleetboard/internal/domain/table"
)

// Key builds a cache key from an operation name and its governing
// parameters. Two calls with identical parts always produce the same
// key; any differing part produces a different one.
func Key(op string, parts ...string) string {
	h := fnv.New64a()
	_, _ = h.Write([]byte(op))
	for _, p := range parts {
		_, _ = h.Write([]byte{0})
		_, _ = h.Write([]byte(p))
	}
	return fmt.Sprintf("%s:%016x", op, h.Sum64())
}

// TableKey hashes a table's full content, schema included, so a single
// changed cell invalidates every result derived from it.
func TableKey(t table.Table) string {
	h := fnv.New64a()
	for _, c := range t.Columns {
		_, _ = h.Write([]byte(c))
		_, _ = h.Write([]byte{0})
	}
	_, _ = h.Write([]byte{1})
	for _, row := range t.Rows {
		for _, cell := range row {
			_, _ = h.Write([]byte(cell))
			_, _ = h.Write([]byte{0})
		}
		_, _ = h.Write([]byte{1})
	}
	return fmt.Sprintf("%016x", h.Sum64())
}
