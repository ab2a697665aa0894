package searchstate_test

import (
	"testing"
	"time"

	"github.com/rohmanhakim/astar-state/internal/grid"
	"github.com/rohmanhakim/astar-state/internal/location"
	"github.com/rohmanhakim/astar-state/internal/metadata"
	"github.com/rohmanhakim/astar-state/internal/searchstate"
	"github.com/rohmanhakim/astar-state/internal/waypoint"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// metadataSinkMock is a testify mock for metadata.MetadataSink
type metadataSinkMock struct {
	mock.Mock
}

func (m *metadataSinkMock) RecordError(
	observedAt time.Time,
	packageName string,
	action string,
	cause metadata.ErrorCause,
	details string,
	attrs []metadata.Attribute,
) {
	m.Called(observedAt, packageName, action, cause, details, attrs)
}

func (m *metadataSinkMock) RecordTransition(kind metadata.TransitionKind, attrs []metadata.Attribute) {
	m.Called(kind, attrs)
}

func newTestMap(t *testing.T) *grid.Map2D {
	t.Helper()
	m, err := grid.New(16, 16)
	require.NoError(t, err)
	return m
}

func newTestState(t *testing.T, options ...searchstate.Option) *searchstate.SearchState {
	t.Helper()
	s, err := searchstate.New(newTestMap(t), options...)
	require.NoError(t, err)
	return s
}

func wp(x, y int, previousCost, totalCost float64) *waypoint.Waypoint {
	return waypoint.New(location.New(x, y), nil, previousCost, totalCost)
}
