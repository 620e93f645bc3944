package table

import "errors"

var (
	// ErrMissingJoinColumn indicates the requested join key is absent
	// from one of the input tables.
	ErrMissingJoinColumn = errors.New("join column not present")

	// ErrUnknownJoinKind indicates an unrecognized join kind name.
	ErrUnknownJoinKind = errors.New("unknown join kind")
)
