package metadata_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rohmanhakim/astar-state/internal/metadata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newJSONRecorder(t *testing.T, level slog.Level) (*metadata.Recorder, *bytes.Buffer) {
	t.Helper()
	buf := &bytes.Buffer{}
	logger := slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: level}))
	return metadata.NewRecorderWithRunID("run-1", logger), buf
}

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	dec := json.NewDecoder(buf)
	for {
		var line map[string]any
		err := dec.Decode(&line)
		if errors.Is(err, io.EOF) {
			return out
		}
		require.NoError(t, err)
		out = append(out, line)
	}
}

func TestNewRecorder_GeneratesRunID(t *testing.T) {
	a := metadata.NewRecorder(slog.New(slog.NewTextHandler(io.Discard, nil)))
	b := metadata.NewRecorder(nil)

	_, err := uuid.Parse(a.RunID())
	require.NoError(t, err)
	_, err = uuid.Parse(b.RunID())
	require.NoError(t, err)
	assert.NotEqual(t, a.RunID(), b.RunID())
}

func TestRecorder_RecordError(t *testing.T) {
	r, buf := newJSONRecorder(t, slog.LevelInfo)

	observedAt := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	r.RecordError(
		observedAt,
		"searchstate",
		"SearchState.CloseWaypoint",
		metadata.CauseInvariantViolation,
		"location (1,2) is not open",
		[]metadata.Attribute{metadata.NewAttr(metadata.AttrLocation, "(1,2)")},
	)

	lines := decodeLines(t, buf)
	require.Len(t, lines, 1)
	line := lines[0]
	assert.Equal(t, "ERROR", line["level"])
	assert.Equal(t, "operation failed", line["msg"])
	assert.Equal(t, "run-1", line["run_id"])
	assert.Equal(t, "searchstate", line["package"])
	assert.Equal(t, "SearchState.CloseWaypoint", line["action"])
	assert.Equal(t, "invariant_violation", line["cause"])
	assert.Equal(t, "location (1,2) is not open", line["error"])
	assert.Equal(t, "(1,2)", line["location"])
	assert.Equal(t, "2026-01-02T03:04:05Z", line["observed_at"])
}

func TestRecorder_RecordTransition_Levels(t *testing.T) {
	t.Run("debug level hides rejected offers", func(t *testing.T) {
		r, buf := newJSONRecorder(t, slog.LevelDebug)
		r.RecordTransition(metadata.TransitionOpened, []metadata.Attribute{
			metadata.NewAttr(metadata.AttrLocation, "(0,0)"),
		})
		r.RecordTransition(metadata.TransitionRejected, nil)

		lines := decodeLines(t, buf)
		require.Len(t, lines, 1)
		assert.Equal(t, "opened", lines[0]["kind"])
		assert.Equal(t, "(0,0)", lines[0]["location"])
	})

	t.Run("info level hides all transitions", func(t *testing.T) {
		r, buf := newJSONRecorder(t, slog.LevelInfo)
		r.RecordTransition(metadata.TransitionClosed, nil)
		assert.Empty(t, decodeLines(t, buf))
	})

	t.Run("trace level shows rejected offers", func(t *testing.T) {
		r, buf := newJSONRecorder(t, slog.LevelDebug-4)
		r.RecordTransition(metadata.TransitionRejected, nil)
		lines := decodeLines(t, buf)
		require.Len(t, lines, 1)
		assert.Equal(t, "rejected", lines[0]["kind"])
	})
}

func TestRecorder_RecordFinalReplayStats(t *testing.T) {
	r, buf := newJSONRecorder(t, slog.LevelInfo)
	r.RecordFinalReplayStats(10, 1, 3, 4, 1500*time.Millisecond)

	lines := decodeLines(t, buf)
	require.Len(t, lines, 1)
	line := lines[0]
	assert.Equal(t, "replay finished", line["msg"])
	assert.EqualValues(t, 10, line["total_ops"])
	assert.EqualValues(t, 1, line["total_errors"])
	assert.EqualValues(t, 3, line["open_count"])
	assert.EqualValues(t, 4, line["closed_count"])
	assert.EqualValues(t, 1500, line["duration_ms"])
}

func TestErrorCause_String(t *testing.T) {
	tests := []struct {
		cause    metadata.ErrorCause
		expected string
	}{
		{metadata.CauseUnknown, "unknown"},
		{metadata.CauseInvalidArgument, "invalid_argument"},
		{metadata.CauseOutOfBounds, "out_of_bounds"},
		{metadata.CauseTraceInvalid, "trace_invalid"},
		{metadata.CauseBudgetExhausted, "budget_exhausted"},
		{metadata.CauseInvariantViolation, "invariant_violation"},
		{metadata.CauseStorageFailure, "storage_failure"},
		{metadata.ErrorCause(99), "unknown"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, tt.cause.String())
	}
}

func TestNoopSink(t *testing.T) {
	var sink metadata.MetadataSink = &metadata.NoopSink{}
	assert.NotPanics(t, func() {
		sink.RecordError(time.Now(), "pkg", "action", metadata.CauseUnknown, "err", nil)
		sink.RecordTransition(metadata.TransitionOpened, nil)
	})
}
