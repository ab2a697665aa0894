package trace

import (
	"time"

	"github.com/rohmanhakim/astar-state/internal/location"
	"github.com/rohmanhakim/astar-state/pkg/hashutil"
)

type OpKind string

const (
	OpOpen   OpKind = "open"
	OpClose  OpKind = "close"
	OpMin    OpKind = "min"
	OpClosed OpKind = "closed"
	OpCount  OpKind = "count"
	OpPath   OpKind = "path"
	OpBlock  OpKind = "block"
)

// Op is one parsed trace line.
type Op struct {
	kind           OpKind
	line           int
	location       location.Location
	previousCost   float64
	totalCost      float64
	predecessor    location.Location
	hasPredecessor bool
}

func NewOp(kind OpKind, line int, loc location.Location) Op {
	return Op{
		kind:     kind,
		line:     line,
		location: loc,
	}
}

// NewOpenOp builds an open op. predecessor may be nil for a root waypoint.
func NewOpenOp(
	line int,
	loc location.Location,
	previousCost float64,
	totalCost float64,
	predecessor *location.Location,
) Op {
	op := Op{
		kind:         OpOpen,
		line:         line,
		location:     loc,
		previousCost: previousCost,
		totalCost:    totalCost,
	}
	if predecessor != nil {
		op.predecessor = *predecessor
		op.hasPredecessor = true
	}
	return op
}

func (o Op) Kind() OpKind {
	return o.kind
}

func (o Op) Line() int {
	return o.line
}

func (o Op) Location() location.Location {
	return o.location
}

func (o Op) PreviousCost() float64 {
	return o.previousCost
}

func (o Op) TotalCost() float64 {
	return o.totalCost
}

func (o Op) Predecessor() (location.Location, bool) {
	return o.predecessor, o.hasPredecessor
}

// Result is the outcome of applying one Op.
type Result struct {
	op     Op
	output string
	err    error
}

func (r Result) Op() Op {
	return r.op
}

// Output is the one-line rendering of a successful op; empty on error.
func (r Result) Output() string {
	return r.output
}

func (r Result) Err() error {
	return r.err
}

// ReplayParam controls a replay.
type ReplayParam struct {
	// Maximum number of ops applied; 0 means unlimited.
	MaxSteps int
	// Keep applying ops after a failed one.
	ContinueOnError bool
	// Algorithm for the final state digest.
	HashAlgo hashutil.HashAlgo
	// Identifier stamped on the report.
	RunID string
}

func NewReplayParam(
	maxSteps int,
	continueOnError bool,
	hashAlgo hashutil.HashAlgo,
	runID string,
) ReplayParam {
	return ReplayParam{
		MaxSteps:        maxSteps,
		ContinueOnError: continueOnError,
		HashAlgo:        hashAlgo,
		RunID:           runID,
	}
}

// Report summarises a replay. Counts are derived from the results and the
// final search state, never accumulated through metadata.
type Report struct {
	RunID       string
	Results     []Result
	Steps       int
	Skipped     int
	Modified    int
	Rejected    int
	Closes      int
	Errors      int
	OpenCount   int
	ClosedCount int
	HashAlgo    hashutil.HashAlgo
	Digest      string
	Duration    time.Duration
}
