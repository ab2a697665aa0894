package searchstate

import (
	"errors"
	"fmt"

	"github.com/rohmanhakim/astar-state/internal/location"
	"github.com/rohmanhakim/astar-state/internal/metadata"
	"github.com/rohmanhakim/astar-state/pkg/failure"
)

var ErrNilMap = errors.New("map cannot be nil")

type StateErrorCause string

const (
	ErrCauseNotOpen StateErrorCause = "location is not open"
)

// StateError reports a caller breaking the open/closed contract.
// Both sets are left untouched when one is returned.
type StateError struct {
	Location location.Location
	Cause    StateErrorCause
}

func (e *StateError) Error() string {
	return fmt.Sprintf("search state error: %s: %s", e.Cause, e.Location)
}

func (e *StateError) Severity() failure.Severity {
	return failure.SeverityFatal
}

// mapStateErrorToMetadataCause maps state-local error semantics
// to the canonical metadata.ErrorCause table.
//
// This mapping is observational only and MUST NOT be used
// to derive control-flow decisions.
func mapStateErrorToMetadataCause(err *StateError) metadata.ErrorCause {
	switch err.Cause {
	case ErrCauseNotOpen:
		return metadata.CauseInvariantViolation
	default:
		return metadata.CauseUnknown
	}
}
