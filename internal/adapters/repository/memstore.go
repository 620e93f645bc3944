// Package repository defines the dataset snapshot store and errors.
package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"

	table "github.com/pepmove/fleetboard/internal/domain/table"
	"github.com/pepmove/fleetboard/pkg/metrics"
)

// MemoryStore is the in-memory Store implementation. Snapshots are
// whole-table replacements, never in-place mutations, so readers only
// observe complete datasets.
type MemoryStore struct {
	mu     sync.RWMutex
	tables map[string]table.Table
}

// NewMemoryStore creates an in-memory snapshot store with
// configuration options.
func NewMemoryStore(opts ...Option) *MemoryStore {
	s := &MemoryStore{
		tables: make(map[string]table.Table),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Put replaces the snapshot under name and refreshes its row gauge.
func (s *MemoryStore) Put(ctx context.Context, name string, t table.Table) {
	s.mu.Lock()
	s.tables[name] = t
	s.mu.Unlock()

	metrics.UpdateDatasetRows(name, t.NumRows())
}

// Get returns the snapshot under name.
func (s *MemoryStore) Get(ctx context.Context, name string) (table.Table, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.tables[name]
	if !ok {
		return table.Table{}, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return t, nil
}

// Names returns the stored snapshot names, sorted.
func (s *MemoryStore) Names(ctx context.Context) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.tables))
	for name := range s.tables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Count returns the number of stored snapshots.
func (s *MemoryStore) Count(ctx context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tables)
}
