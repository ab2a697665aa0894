package grid

import (
	"fmt"

	"github.com/rohmanhakim/astar-state/pkg/failure"
)

type GridErrorCause string

const (
	ErrCauseInvalidDimensions GridErrorCause = "invalid grid dimensions"
	ErrCauseOutOfBounds       GridErrorCause = "location out of bounds"
)

type GridError struct {
	Message string
	Cause   GridErrorCause
}

func (e *GridError) Error() string {
	return fmt.Sprintf("grid error: %s: %s", e.Cause, e.Message)
}

// Grid errors are caller mistakes; retrying never helps.
func (e *GridError) Severity() failure.Severity {
	return failure.SeverityFatal
}
