package filemaker

import (
	"errors"
	"fmt"
)

// Sentinel kinds for FileMaker client errors.
var (
	ErrAuthFailed    = errors.New("filemaker authentication failed")
	ErrRequestFailed = errors.New("filemaker request failed")
	ErrNoRecords     = errors.New("no records matched")
)

// Wrap attaches a cause to a sentinel kind.
func Wrap(kind, cause error) error {
	return fmt.Errorf("%w: %w", kind, cause)
}
