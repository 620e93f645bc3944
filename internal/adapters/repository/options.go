// Package repository defines the dataset snapshot store and errors.
package repository

import (
	table "github.com/pepmove/fleetboard/internal/domain/table"
)

// Option applies a configuration option to the MemoryStore.
type Option func(*MemoryStore)

// WithTables seeds the store with initial snapshots.
func WithTables(tables map[string]table.Table) Option {
	return func(s *MemoryStore) {
		for name, t := range tables {
			s.tables[name] = t
		}
	}
}
