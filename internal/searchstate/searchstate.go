package searchstate

import (
	"fmt"
	"reflect"
	"strconv"
	"time"

	"github.com/rohmanhakim/astar-state/internal/location"
	"github.com/rohmanhakim/astar-state/internal/metadata"
)

/*
SearchState Responsibilities
- Hold the open (frontier) and closed (visited) waypoints of one A* search
- Keep at most one waypoint per location, in at most one of the two sets
- Keep, per open location, only the cheapest previous cost offered so far
- Pick the open waypoint with the smallest total cost
- Knows nothing about:
  - neighbour expansion
  - step or heuristic costs
  - when the search terminates

It is a data structure + policy module, not a search driver.
A SearchState is not safe for concurrent use.
*/
type SearchState struct {
	searchMap    Map
	open         waypointIndex
	closed       waypointIndex
	metadataSink metadata.MetadataSink
}

// Option modifies a SearchState at construction.
type Option func(*SearchState)

// WithMetadataSink sets where transitions and contract violations are
// reported. The default sink discards everything.
func WithMetadataSink(sink metadata.MetadataSink) Option {
	return func(s *SearchState) {
		if sink != nil {
			s.metadataSink = sink
		}
	}
}

// New creates an empty search state over m. It fails with ErrNilMap when m
// is nil, including a typed nil pointer.
func New(m Map, options ...Option) (*SearchState, error) {
	if isNil(m) {
		return nil, ErrNilMap
	}
	s := &SearchState{
		searchMap:    m,
		open:         newWaypointIndex(),
		closed:       newWaypointIndex(),
		metadataSink: &metadata.NoopSink{},
	}
	for _, o := range options {
		o(s)
	}
	return s, nil
}

func (s *SearchState) Map() Map {
	return s.searchMap
}

func (s *SearchState) NumOpenWaypoints() int {
	return s.open.size()
}

func (s *SearchState) NumClosedWaypoints() int {
	return s.closed.size()
}

// MinOpenWaypoint scans every open waypoint and returns the one with the
// smallest total cost, or false when the open set is empty. Among exact
// ties any one of them may be returned.
func (s *SearchState) MinOpenWaypoint() (Waypoint, bool) {
	var best Waypoint
	for _, w := range s.open {
		if best == nil || w.TotalCost() < best.TotalCost() {
			best = w
		}
	}
	return best, best != nil
}

// AddOpenWaypoint offers w to the open set and reports whether the set
// changed. w is stored when its location is not open yet, or replaces the
// open waypoint there when w's previous cost is strictly smaller.
// Equal cost is not an improvement. Offers at a closed location are
// rejected so that no location is ever both open and closed.
func (s *SearchState) AddOpenWaypoint(w Waypoint) bool {
	loc := w.Location()
	if s.closed.contains(loc) {
		s.metadataSink.RecordTransition(metadata.TransitionRejected, waypointAttrs(w))
		return false
	}
	current, exists := s.open.get(loc)
	if !exists {
		s.open.put(w)
		s.metadataSink.RecordTransition(metadata.TransitionOpened, waypointAttrs(w))
		return true
	}
	if w.PreviousCost() < current.PreviousCost() {
		s.open.put(w)
		attrs := append(waypointAttrs(w), metadata.NewAttr(metadata.AttrReplacedCost, formatCost(current.PreviousCost())))
		s.metadataSink.RecordTransition(metadata.TransitionImproved, attrs)
		return true
	}
	s.metadataSink.RecordTransition(metadata.TransitionRejected, waypointAttrs(w))
	return false
}

// CloseWaypoint moves the waypoint at loc from the open set to the closed
// set. Closing a location that is not open returns a *StateError and
// leaves both sets untouched.
func (s *SearchState) CloseWaypoint(loc location.Location) error {
	w, exists := s.open.take(loc)
	if !exists {
		err := &StateError{
			Location: loc,
			Cause:    ErrCauseNotOpen,
		}
		s.metadataSink.RecordError(
			time.Now(),
			"searchstate",
			"SearchState.CloseWaypoint",
			mapStateErrorToMetadataCause(err),
			err.Error(),
			[]metadata.Attribute{
				metadata.NewAttr(metadata.AttrLocation, loc.String()),
				metadata.NewAttr(metadata.AttrField, fmt.Sprintf("closed=%t", s.closed.contains(loc))),
			},
		)
		return err
	}
	s.closed.put(w)
	s.metadataSink.RecordTransition(metadata.TransitionClosed, waypointAttrs(w))
	return nil
}

func (s *SearchState) IsLocationClosed(loc location.Location) bool {
	return s.closed.contains(loc)
}

// OpenWaypoint returns the open waypoint at loc, if any.
func (s *SearchState) OpenWaypoint(loc location.Location) (Waypoint, bool) {
	return s.open.get(loc)
}

// ClosedWaypoint returns the closed waypoint at loc, if any.
func (s *SearchState) ClosedWaypoint(loc location.Location) (Waypoint, bool) {
	return s.closed.get(loc)
}

func (s *SearchState) Snapshot() Snapshot {
	return Snapshot{
		Open:   s.open.entries(),
		Closed: s.closed.entries(),
	}
}

func waypointAttrs(w Waypoint) []metadata.Attribute {
	return []metadata.Attribute{
		metadata.NewAttr(metadata.AttrLocation, w.Location().String()),
		metadata.NewAttr(metadata.AttrPreviousCost, formatCost(w.PreviousCost())),
		metadata.NewAttr(metadata.AttrTotalCost, formatCost(w.TotalCost())),
	}
}

func formatCost(c float64) string {
	return strconv.FormatFloat(c, 'g', -1, 64)
}

func isNil(m Map) bool {
	if m == nil {
		return true
	}
	v := reflect.ValueOf(m)
	switch v.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Func, reflect.Interface, reflect.Chan:
		return v.IsNil()
	}
	return false
}
