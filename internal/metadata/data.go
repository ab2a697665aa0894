package metadata

import (
	"time"
)

// TransitionKind names what happened to a single location in the
// open/closed bookkeeping.
type TransitionKind string

const (
	// absent -> open
	TransitionOpened TransitionKind = "opened"

	// open -> open with a strictly cheaper previous cost
	TransitionImproved TransitionKind = "improved"

	// offer left the open set untouched
	TransitionRejected TransitionKind = "rejected"

	// open -> closed
	TransitionClosed TransitionKind = "closed"
)

/*
replayStats
  - Represents a terminal, derived summary of a completed trace replay
  - Contains only aggregate counts and durations
  - Is computed by the replayer after the last operation
  - Is recorded exactly once
  - Must not influence replay decisions
*/
type replayStats struct {
	totalOps    int
	totalErrors int
	openCount   int
	closedCount int
	durationMs  int64
}

/*
	ErrorCause is a closed, canonical classification used exclusively for
	observability (logging, metrics, reporting).

	Rules:
	 - ErrorCause MUST NOT influence control flow.
	 - ErrorCause values MUST have stable, package-agnostic semantics.
	 - Packages MAY map their local errors to ErrorCause,
	   but MUST NOT invent new meanings.

If a failure does not clearly match a defined cause, CauseUnknown MUST be used.
*/
type ErrorCause int

/*
Canonical ErrorCause Table

# CauseUnknown

  - The failure does not map cleanly to any known category.

# CauseInvalidArgument

  - A constructor or operation received an argument it cannot accept.
  - Examples: nil map, non-positive grid dimensions.

# CauseOutOfBounds

  - A location lies outside the map it was checked against.

# CauseTraceInvalid

  - A search trace could not be parsed.
  - Examples: unknown operation, malformed number, wrong field count.

# CauseBudgetExhausted

  - A configured step budget was reached before the work finished.

# CauseInvariantViolation

  - A caller broke the open/closed contract.
  - Examples: closing a location that is not open, predecessor not closed.

# CauseStorageFailure

  - A state snapshot could not be persisted.
  - Examples: disk full, permission denied.
*/
const (
	CauseUnknown ErrorCause = iota
	CauseInvalidArgument
	CauseOutOfBounds
	CauseTraceInvalid
	CauseBudgetExhausted
	CauseInvariantViolation
	CauseStorageFailure
)

func (c ErrorCause) String() string {
	switch c {
	case CauseInvalidArgument:
		return "invalid_argument"
	case CauseOutOfBounds:
		return "out_of_bounds"
	case CauseTraceInvalid:
		return "trace_invalid"
	case CauseBudgetExhausted:
		return "budget_exhausted"
	case CauseInvariantViolation:
		return "invariant_violation"
	case CauseStorageFailure:
		return "storage_failure"
	default:
		return "unknown"
	}
}

type ErrorRecord struct {
	packageName string
	action      string
	cause       ErrorCause
	errorString string
	observedAt  time.Time
	attrs       []Attribute
}

type Attribute struct {
	Key   AttributeKey
	Value string
}

func NewAttr(key AttributeKey, val string) Attribute {
	return Attribute{
		Key:   key,
		Value: val,
	}
}

type AttributeKey string

const (
	AttrLocation     AttributeKey = "location"
	AttrPreviousCost AttributeKey = "previous_cost"
	AttrTotalCost    AttributeKey = "total_cost"
	AttrReplacedCost AttributeKey = "replaced_cost"
	AttrOpenCount    AttributeKey = "open_count"
	AttrClosedCount  AttributeKey = "closed_count"
	AttrOp           AttributeKey = "op"
	AttrLine         AttributeKey = "line"
	AttrField        AttributeKey = "field"
	AttrWritePath    AttributeKey = "write_path"
	AttrAttempts     AttributeKey = "attempts"
)
