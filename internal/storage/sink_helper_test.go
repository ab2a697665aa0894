package storage_test

import (
	"time"

	"github.com/rohmanhakim/astar-state/internal/metadata"
	"github.com/rohmanhakim/astar-state/pkg/retry"
	"github.com/rohmanhakim/astar-state/pkg/timeutil"
)

// metadataSinkMock is a mock for metadata.MetadataSink
type metadataSinkMock struct {
	recordErrorCalls       int
	recordErrorPackageName string
	recordErrorAction      string
	recordErrorCause       metadata.ErrorCause
	recordErrorAttrs       []metadata.Attribute
	recordTransitionCalls  int
}

func (m *metadataSinkMock) RecordError(
	observedAt time.Time,
	packageName string,
	action string,
	cause metadata.ErrorCause,
	details string,
	attrs []metadata.Attribute,
) {
	m.recordErrorCalls++
	m.recordErrorPackageName = packageName
	m.recordErrorAction = action
	m.recordErrorCause = cause
	m.recordErrorAttrs = attrs
}

func (m *metadataSinkMock) RecordTransition(kind metadata.TransitionKind, attrs []metadata.Attribute) {
	m.recordTransitionCalls++
}

func testRetryParam() retry.RetryParam {
	return retry.NewRetryParam(0, 1, 2, timeutil.NewBackoffParam(time.Millisecond, 2.0, 10*time.Millisecond))
}

func sampleLines() []string {
	return []string{
		"open 0 0 0 5",
		"open 2 0 3 4",
		"closed 1 0 2 3",
	}
}
