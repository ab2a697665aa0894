package searchstate

import (
	"sort"

	"github.com/rohmanhakim/astar-state/internal/location"
)

// waypointIndex holds at most one waypoint per location.
type waypointIndex map[location.Location]Waypoint

func newWaypointIndex() waypointIndex {
	return make(waypointIndex)
}

func (i waypointIndex) put(w Waypoint) {
	i[w.Location()] = w
}

// get reports whether a waypoint is stored at loc.
func (i waypointIndex) get(loc location.Location) (Waypoint, bool) {
	w, exists := i[loc]
	return w, exists
}

func (i waypointIndex) contains(loc location.Location) bool {
	_, exists := i[loc]
	return exists
}

// take removes and returns the waypoint at loc.
func (i waypointIndex) take(loc location.Location) (Waypoint, bool) {
	w, exists := i[loc]
	if exists {
		delete(i, loc)
	}
	return w, exists
}

func (i waypointIndex) size() int {
	return len(i)
}

func (i waypointIndex) entries() []Entry {
	out := make([]Entry, 0, len(i))
	for loc, w := range i {
		out = append(out, Entry{
			Location:     loc,
			PreviousCost: w.PreviousCost(),
			TotalCost:    w.TotalCost(),
		})
	}
	sort.Slice(out, func(a, b int) bool {
		return location.Less(out[a].Location, out[b].Location)
	})
	return out
}
