package trace

import (
	"fmt"

	"github.com/rohmanhakim/astar-state/internal/metadata"
	"github.com/rohmanhakim/astar-state/pkg/failure"
)

type TraceErrorCause string

const (
	ErrCauseSyntax             TraceErrorCause = "syntax error"
	ErrCauseUnknownOp          TraceErrorCause = "unknown operation"
	ErrCauseOutOfBounds        TraceErrorCause = "location out of bounds"
	ErrCauseUnknownPredecessor TraceErrorCause = "predecessor is not closed"
	ErrCauseNotClosed          TraceErrorCause = "location is not closed"
	ErrCauseImpassable         TraceErrorCause = "location is impassable"
	ErrCauseStepBudgetExceeded TraceErrorCause = "step budget exceeded"
	ErrCauseStateViolation     TraceErrorCause = "search state rejected operation"
	ErrCauseReadFailure        TraceErrorCause = "failed to read trace"
)

// TraceError ties a failure to the 1-based trace line that caused it.
// Line is 0 when the failure is not tied to a single line.
type TraceError struct {
	Line    int
	Op      string
	Message string
	Cause   TraceErrorCause
	Err     error
}

func (e *TraceError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("trace error: line %d: %s: %s", e.Line, e.Cause, e.Message)
	}
	return fmt.Sprintf("trace error: %s: %s", e.Cause, e.Message)
}

func (e *TraceError) Unwrap() error {
	return e.Err
}

// A replay that ran out of budget can be rerun with a larger one;
// every other trace error needs the trace itself fixed.
func (e *TraceError) Severity() failure.Severity {
	if e.Cause == ErrCauseStepBudgetExceeded {
		return failure.SeverityRecoverable
	}
	return failure.SeverityFatal
}

// mapTraceErrorToMetadataCause maps trace-local error semantics
// to the canonical metadata.ErrorCause table.
//
// This mapping is observational only and MUST NOT be used
// to derive control-flow decisions.
func mapTraceErrorToMetadataCause(err *TraceError) metadata.ErrorCause {
	switch err.Cause {
	case ErrCauseSyntax, ErrCauseUnknownOp:
		return metadata.CauseTraceInvalid
	case ErrCauseOutOfBounds:
		return metadata.CauseOutOfBounds
	case ErrCauseUnknownPredecessor, ErrCauseNotClosed, ErrCauseImpassable, ErrCauseStateViolation:
		return metadata.CauseInvariantViolation
	case ErrCauseStepBudgetExceeded:
		return metadata.CauseBudgetExhausted
	default:
		return metadata.CauseUnknown
	}
}
