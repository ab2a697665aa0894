package metadata

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

/*
Metadata Collected
- Open/closed transitions per location
- Rejected offers
- Contract violations
- Replay summaries

Allowed:
- Primitive values
- Timestamps
- Locations (as "(x,y)" strings, not objects with behavior)
- Costs
- Identifiers (run ID)

Metadata is write-only.
No component may read metadata to influence search decisions.
*/

/*
Recorder writes structured search events to a slog.Logger.
It must not:
- affect control flow
- retain events
Ordering guarantees:
- Events are written synchronously in the order they are received.
*/
type Recorder struct {
	runID  string
	logger *slog.Logger
}

// NewRecorder creates a recorder tagged with a fresh random run ID.
func NewRecorder(logger *slog.Logger) *Recorder {
	return NewRecorderWithRunID(uuid.NewString(), logger)
}

func NewRecorderWithRunID(runID string, logger *slog.Logger) *Recorder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Recorder{
		runID:  runID,
		logger: logger.With(slog.String("run_id", runID)),
	}
}

func (r *Recorder) RunID() string {
	return r.runID
}

func (r *Recorder) RecordError(
	observedAt time.Time,
	packageName string,
	action string,
	cause ErrorCause,
	errorString string,
	attrs []Attribute,
) {
	record := ErrorRecord{
		packageName: packageName,
		action:      action,
		cause:       cause,
		errorString: errorString,
		observedAt:  observedAt,
		attrs:       attrs,
	}
	r.logger.LogAttrs(context.Background(), slog.LevelError, "operation failed", errorRecordAttrs(record)...)
}

func (r *Recorder) RecordTransition(kind TransitionKind, attrs []Attribute) {
	level := slog.LevelDebug
	if kind == TransitionRejected {
		// rejected offers are the noisiest event in a search
		level = slog.LevelDebug - 4
	}
	logAttrs := make([]slog.Attr, 0, len(attrs)+1)
	logAttrs = append(logAttrs, slog.String("kind", string(kind)))
	logAttrs = append(logAttrs, toSlogAttrs(attrs)...)
	r.logger.LogAttrs(context.Background(), level, "waypoint transition", logAttrs...)
}

/*
RecordFinalReplayStats records a terminal, derived summary of a replay.

Contract:
  - MUST be called exactly once per replay.
  - MUST be called only after the last operation was applied.
  - The provided stats MUST be derived from replay state,
    not accumulated incrementally via the recorder.
*/
func (r *Recorder) RecordFinalReplayStats(
	totalOps int,
	totalErrors int,
	openCount int,
	closedCount int,
	duration time.Duration,
) {
	stats := replayStats{
		totalOps:    totalOps,
		totalErrors: totalErrors,
		openCount:   openCount,
		closedCount: closedCount,
		durationMs:  duration.Milliseconds(),
	}
	r.logger.LogAttrs(context.Background(), slog.LevelInfo, "replay finished",
		slog.Int("total_ops", stats.totalOps),
		slog.Int("total_errors", stats.totalErrors),
		slog.Int(string(AttrOpenCount), stats.openCount),
		slog.Int(string(AttrClosedCount), stats.closedCount),
		slog.Int64("duration_ms", stats.durationMs),
	)
}

func errorRecordAttrs(record ErrorRecord) []slog.Attr {
	logAttrs := []slog.Attr{
		slog.String("package", record.packageName),
		slog.String("action", record.action),
		slog.String("cause", record.cause.String()),
		slog.String("error", record.errorString),
		slog.Time("observed_at", record.observedAt),
	}
	return append(logAttrs, toSlogAttrs(record.attrs)...)
}

func toSlogAttrs(attrs []Attribute) []slog.Attr {
	out := make([]slog.Attr, 0, len(attrs))
	for _, a := range attrs {
		out = append(out, slog.String(string(a.Key), a.Value))
	}
	return out
}

type MetadataSink interface {
	RecordError(
		observedAt time.Time,
		packageName string,
		action string,
		cause ErrorCause,
		details string,
		attrs []Attribute,
	)

	RecordTransition(kind TransitionKind, attrs []Attribute)
}

type ReplayFinalizer interface {
	RecordFinalReplayStats(
		totalOps int,
		totalErrors int,
		openCount int,
		closedCount int,
		duration time.Duration,
	)
}

// NoopSink, struct that implements metadata.MetadataSink but does nothing
// SearchState (or Test) can decide whether to inject Recorder or NoopSink
// Purpose is to make metadata orthogonal

type NoopSink struct{}

func (n *NoopSink) RecordError(
	observedAt time.Time,
	packageName string,
	action string,
	cause ErrorCause,
	errorString string,
	attrs []Attribute,
) {
}

func (n *NoopSink) RecordTransition(kind TransitionKind, attrs []Attribute) {}

func (n *NoopSink) RecordFinalReplayStats(
	totalOps int,
	totalErrors int,
	openCount int,
	closedCount int,
	duration time.Duration,
) {
}
