package waypoint

import "github.com/rohmanhakim/astar-state/internal/location"

// Waypoint is a candidate path node. Costs are supplied by whoever builds
// the waypoint; nothing here computes step or heuristic costs.
//
//   - previousCost: accumulated cost from the start to this waypoint
//   - totalCost: previousCost plus the heuristic estimate to the goal
type Waypoint struct {
	location     location.Location
	previous     *Waypoint
	previousCost float64
	totalCost    float64
}

// New creates a waypoint at loc. previous may be nil for the start node.
func New(
	loc location.Location,
	previous *Waypoint,
	previousCost float64,
	totalCost float64,
) *Waypoint {
	return &Waypoint{
		location:     loc,
		previous:     previous,
		previousCost: previousCost,
		totalCost:    totalCost,
	}
}

func (w *Waypoint) Location() location.Location {
	return w.location
}

func (w *Waypoint) Previous() *Waypoint {
	return w.previous
}

func (w *Waypoint) PreviousCost() float64 {
	return w.previousCost
}

func (w *Waypoint) TotalCost() float64 {
	return w.totalCost
}

// Path returns the locations from the root waypoint up to and including w.
func (w *Waypoint) Path() []location.Location {
	var path []location.Location
	for current := w; current != nil; current = current.previous {
		path = append(path, current.location)
	}
	// reverse path
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}
