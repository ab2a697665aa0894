package metadata

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "astar_state"

// PrometheusSink counts transitions and errors, and tracks the open and
// closed set sizes as gauges derived from the transition stream.
type PrometheusSink struct {
	transitions     *prometheus.CounterVec
	errors          *prometheus.CounterVec
	openWaypoints   prometheus.Gauge
	closedWaypoints prometheus.Gauge
	replayDuration  prometheus.Gauge
}

// NewPrometheusSink creates the collectors and registers them on reg.
func NewPrometheusSink(reg prometheus.Registerer) (*PrometheusSink, error) {
	s := &PrometheusSink{
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "transitions_total",
			Help:      "Waypoint transitions by kind.",
		}, []string{"kind"}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "errors_total",
			Help:      "Recorded errors by canonical cause.",
		}, []string{"cause"}),
		openWaypoints: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "open_waypoints",
			Help:      "Current number of open waypoints.",
		}),
		closedWaypoints: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "closed_waypoints",
			Help:      "Current number of closed waypoints.",
		}),
		replayDuration: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "replay_duration_seconds",
			Help:      "Wall time of the last completed replay.",
		}),
	}

	for _, c := range []prometheus.Collector{
		s.transitions,
		s.errors,
		s.openWaypoints,
		s.closedWaypoints,
		s.replayDuration,
	} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *PrometheusSink) RecordError(
	observedAt time.Time,
	packageName string,
	action string,
	cause ErrorCause,
	errorString string,
	attrs []Attribute,
) {
	s.errors.WithLabelValues(cause.String()).Inc()
}

func (s *PrometheusSink) RecordTransition(kind TransitionKind, attrs []Attribute) {
	s.transitions.WithLabelValues(string(kind)).Inc()
	switch kind {
	case TransitionOpened:
		s.openWaypoints.Inc()
	case TransitionClosed:
		s.openWaypoints.Dec()
		s.closedWaypoints.Inc()
	}
}

func (s *PrometheusSink) RecordFinalReplayStats(
	totalOps int,
	totalErrors int,
	openCount int,
	closedCount int,
	duration time.Duration,
) {
	s.replayDuration.Set(duration.Seconds())
}
