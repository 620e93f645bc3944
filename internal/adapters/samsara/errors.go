package samsara

import (
	"errors"
	"fmt"
)

// Sentinel kinds for Samsara client errors.
var (
	ErrRequestFailed = errors.New("samsara request failed")
	ErrUnauthorized  = errors.New("samsara authorization rejected")
)

// Wrap attaches a cause to a sentinel kind.
func Wrap(kind, cause error) error {
	return fmt.Errorf("%w: %w", kind, cause)
}
