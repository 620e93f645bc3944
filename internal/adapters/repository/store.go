// Package repository defines the dataset snapshot store and errors.
package repository

import (
	"context"

	table "github.com/pepmove/fleetboard/internal/domain/table"
)

// Store holds the named table snapshots the dashboard serves from:
// the loaded sources, the merged view, and the raw event table.
type Store interface {
	// Put replaces the snapshot under name.
	Put(ctx context.Context, name string, t table.Table)

	// Get returns the snapshot under name.
	// Returns ErrNotFound if no snapshot exists.
	Get(ctx context.Context, name string) (table.Table, error)

	// Names returns the stored snapshot names, sorted.
	Names(ctx context.Context) []string

	// Count returns the number of stored snapshots.
	Count(ctx context.Context) int
}

// Well-known snapshot names.
const (
	SnapshotFleet      = "fleet"
	SnapshotTelematics = "telematics"
	SnapshotMerged     = "merged"
	SnapshotEvents     = "events"
)
