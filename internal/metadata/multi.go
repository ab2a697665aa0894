package metadata

import "time"

// MultiSink fans every event out to each of its sinks, in order.
type MultiSink struct {
	sinks []MetadataSink
}

func NewMultiSink(sinks ...MetadataSink) *MultiSink {
	return &MultiSink{sinks: sinks}
}

func (m *MultiSink) RecordError(
	observedAt time.Time,
	packageName string,
	action string,
	cause ErrorCause,
	errorString string,
	attrs []Attribute,
) {
	for _, s := range m.sinks {
		s.RecordError(observedAt, packageName, action, cause, errorString, attrs)
	}
}

func (m *MultiSink) RecordTransition(kind TransitionKind, attrs []Attribute) {
	for _, s := range m.sinks {
		s.RecordTransition(kind, attrs)
	}
}

// RecordFinalReplayStats forwards only to sinks that are also finalizers.
func (m *MultiSink) RecordFinalReplayStats(
	totalOps int,
	totalErrors int,
	openCount int,
	closedCount int,
	duration time.Duration,
) {
	for _, s := range m.sinks {
		if f, ok := s.(ReplayFinalizer); ok {
			f.RecordFinalReplayStats(totalOps, totalErrors, openCount, closedCount, duration)
		}
	}
}
