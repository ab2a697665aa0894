package trace

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rohmanhakim/astar-state/internal/grid"
	"github.com/rohmanhakim/astar-state/internal/location"
	"github.com/rohmanhakim/astar-state/internal/metadata"
	"github.com/rohmanhakim/astar-state/internal/searchstate"
	"github.com/rohmanhakim/astar-state/internal/waypoint"
	"github.com/rohmanhakim/astar-state/pkg/hashutil"
)

/*
Replayer Responsibilities
- Apply recorded trace operations, in order, to one SearchState
- Check every location against the grid before touching the state
- Keep blocked cells out of the open set
- Enforce the step budget
- Produce one Result per applied op and a final Report
- Knows nothing about:
  - neighbour expansion
  - step or heuristic costs

Replaying is sequential: one op at a time, on the caller's goroutine.
*/
type Replayer struct {
	grid         *grid.Map2D
	state        *searchstate.SearchState
	param        ReplayParam
	metadataSink metadata.MetadataSink
}

// NewReplayer builds a fresh SearchState over m. sink receives the state's
// transitions as well as replay errors; nil means discard.
func NewReplayer(
	m *grid.Map2D,
	param ReplayParam,
	sink metadata.MetadataSink,
) (*Replayer, error) {
	if sink == nil {
		sink = &metadata.NoopSink{}
	}
	if param.HashAlgo == "" {
		param.HashAlgo = hashutil.HashAlgoBLAKE3
	}
	if param.MaxSteps < 0 {
		return nil, fmt.Errorf("max steps cannot be negative: %d", param.MaxSteps)
	}
	state, err := searchstate.New(m, searchstate.WithMetadataSink(sink))
	if err != nil {
		return nil, err
	}
	return &Replayer{
		grid:         m,
		state:        state,
		param:        param,
		metadataSink: sink,
	}, nil
}

func (r *Replayer) State() *searchstate.SearchState {
	return r.state
}

// Replay applies ops and returns the report together with the first error
// encountered. With ContinueOnError the remaining ops are still applied;
// without it the replay stops at the failing op. Running out of step
// budget or a cancelled ctx always stops the replay.
func (r *Replayer) Replay(ctx context.Context, ops []Op) (Report, error) {
	startedAt := time.Now()
	report := Report{
		RunID:    r.param.RunID,
		HashAlgo: r.param.HashAlgo,
	}

	pending := newFIFOQueue[Op]()
	for _, op := range ops {
		pending.enqueue(op)
	}

	var firstErr error
	for pending.size() > 0 {
		if err := ctx.Err(); err != nil {
			report.Skipped = pending.size()
			if firstErr == nil {
				firstErr = err
			}
			break
		}
		if r.param.MaxSteps > 0 && report.Steps >= r.param.MaxSteps {
			next, _ := pending.dequeue()
			budgetErr := &TraceError{
				Line:    next.Line(),
				Op:      string(next.Kind()),
				Message: fmt.Sprintf("applied %d of %d ops", report.Steps, len(ops)),
				Cause:   ErrCauseStepBudgetExceeded,
			}
			r.recordError(budgetErr)
			report.Errors++
			report.Skipped = pending.size() + 1
			if firstErr == nil {
				firstErr = budgetErr
			}
			break
		}

		op, _ := pending.dequeue()
		report.Steps++
		result := r.apply(op, &report)
		report.Results = append(report.Results, result)

		if result.Err() != nil {
			report.Errors++
			if firstErr == nil {
				firstErr = result.Err()
			}
			if !r.param.ContinueOnError {
				report.Skipped = pending.size()
				break
			}
		}
	}

	report.OpenCount = r.state.NumOpenWaypoints()
	report.ClosedCount = r.state.NumClosedWaypoints()
	digest, err := StateDigest(r.state.Snapshot(), r.param.HashAlgo)
	if err != nil {
		return report, err
	}
	report.Digest = digest
	report.Duration = time.Since(startedAt)

	if finalizer, ok := r.metadataSink.(metadata.ReplayFinalizer); ok {
		finalizer.RecordFinalReplayStats(
			report.Steps,
			report.Errors,
			report.OpenCount,
			report.ClosedCount,
			report.Duration,
		)
	}
	return report, firstErr
}

func (r *Replayer) apply(op Op, report *Report) Result {
	output, err := r.applyOp(op, report)
	if err != nil {
		// the state has already recorded the close it rejected
		var traceErr *TraceError
		if errors.As(err, &traceErr) && traceErr.Cause != ErrCauseStateViolation {
			r.recordError(traceErr)
		}
		return Result{op: op, err: err}
	}
	return Result{op: op, output: output}
}

func (r *Replayer) applyOp(op Op, report *Report) (string, error) {
	switch op.Kind() {
	case OpOpen:
		if err := r.checkBounds(op, op.Location()); err != nil {
			return "", err
		}
		if !r.grid.Passable(op.Location()) {
			return "", &TraceError{
				Line:    op.Line(),
				Op:      string(op.Kind()),
				Message: op.Location().String(),
				Cause:   ErrCauseImpassable,
			}
		}
		var previous *waypoint.Waypoint
		if predLoc, ok := op.Predecessor(); ok {
			if err := r.checkBounds(op, predLoc); err != nil {
				return "", err
			}
			pred, err := r.closedWaypoint(op, predLoc, ErrCauseUnknownPredecessor)
			if err != nil {
				return "", err
			}
			previous = pred
		}
		w := waypoint.New(op.Location(), previous, op.PreviousCost(), op.TotalCost())
		modified := r.state.AddOpenWaypoint(w)
		if modified {
			report.Modified++
		} else {
			report.Rejected++
		}
		return fmt.Sprintf("open %s modified=%t", op.Location(), modified), nil

	case OpClose:
		if err := r.checkBounds(op, op.Location()); err != nil {
			return "", err
		}
		if err := r.state.CloseWaypoint(op.Location()); err != nil {
			return "", &TraceError{
				Line:    op.Line(),
				Op:      string(op.Kind()),
				Message: err.Error(),
				Cause:   ErrCauseStateViolation,
				Err:     err,
			}
		}
		report.Closes++
		return fmt.Sprintf("close %s ok", op.Location()), nil

	case OpMin:
		best, ok := r.state.MinOpenWaypoint()
		if !ok {
			return "min none", nil
		}
		return fmt.Sprintf("min %s prev=%s total=%s",
			best.Location(), formatCost(best.PreviousCost()), formatCost(best.TotalCost())), nil

	case OpClosed:
		return fmt.Sprintf("closed %s %t", op.Location(), r.state.IsLocationClosed(op.Location())), nil

	case OpCount:
		return fmt.Sprintf("count %d", r.state.NumOpenWaypoints()), nil

	case OpPath:
		w, err := r.closedWaypoint(op, op.Location(), ErrCauseNotClosed)
		if err != nil {
			return "", err
		}
		parts := []string{"path"}
		for _, loc := range w.Path() {
			parts = append(parts, loc.String())
		}
		return strings.Join(parts, " "), nil

	case OpBlock:
		if err := r.checkBounds(op, op.Location()); err != nil {
			return "", err
		}
		was, err := r.grid.CellValue(op.Location())
		if err != nil {
			return "", err
		}
		if err := r.grid.SetCellValue(op.Location(), grid.Impassable); err != nil {
			return "", err
		}
		return fmt.Sprintf("block %s was=%d", op.Location(), was), nil

	default:
		return "", &TraceError{
			Line:    op.Line(),
			Op:      string(op.Kind()),
			Message: fmt.Sprintf("%q", op.Kind()),
			Cause:   ErrCauseUnknownOp,
		}
	}
}

func (r *Replayer) checkBounds(op Op, loc location.Location) error {
	if r.grid.Contains(loc) {
		return nil
	}
	return &TraceError{
		Line:    op.Line(),
		Op:      string(op.Kind()),
		Message: fmt.Sprintf("%s outside %dx%d grid", loc, r.grid.Width(), r.grid.Height()),
		Cause:   ErrCauseOutOfBounds,
	}
}

// closedWaypoint looks up a closed waypoint written by this replayer.
func (r *Replayer) closedWaypoint(op Op, loc location.Location, cause TraceErrorCause) (*waypoint.Waypoint, error) {
	stored, ok := r.state.ClosedWaypoint(loc)
	if !ok {
		return nil, &TraceError{
			Line:    op.Line(),
			Op:      string(op.Kind()),
			Message: loc.String(),
			Cause:   cause,
		}
	}
	w, ok := stored.(*waypoint.Waypoint)
	if !ok {
		return nil, fmt.Errorf("unexpected waypoint type %T at %s", stored, loc)
	}
	return w, nil
}

func (r *Replayer) recordError(err *TraceError) {
	r.metadataSink.RecordError(
		time.Now(),
		"trace",
		"Replayer.Replay",
		mapTraceErrorToMetadataCause(err),
		err.Error(),
		[]metadata.Attribute{
			metadata.NewAttr(metadata.AttrLine, strconv.Itoa(err.Line)),
			metadata.NewAttr(metadata.AttrOp, err.Op),
		},
	)
}

// StateDigest hashes a snapshot into a stable fingerprint: equal open and
// closed contents always produce the same digest.
func StateDigest(snap searchstate.Snapshot, algo hashutil.HashAlgo) (string, error) {
	return hashutil.HashLines(SnapshotLines(snap), algo)
}

// SnapshotLines renders a snapshot one entry per line, open entries first,
// as "<set> X Y PREV TOTAL".
func SnapshotLines(snap searchstate.Snapshot) []string {
	lines := make([]string, 0, len(snap.Open)+len(snap.Closed))
	for _, e := range snap.Open {
		lines = append(lines, digestLine("open", e))
	}
	for _, e := range snap.Closed {
		lines = append(lines, digestLine("closed", e))
	}
	return lines
}

func digestLine(set string, e searchstate.Entry) string {
	return fmt.Sprintf("%s %d %d %s %s",
		set, e.Location.X(), e.Location.Y(), formatCost(e.PreviousCost), formatCost(e.TotalCost))
}

func formatCost(c float64) string {
	return strconv.FormatFloat(c, 'g', -1, 64)
}
