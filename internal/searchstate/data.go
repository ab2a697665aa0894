package searchstate

import "github.com/rohmanhakim/astar-state/internal/location"

// Waypoint is what the search state needs to know about a candidate
// path node. Costs are computed by the caller, never here.
type Waypoint interface {
	Location() location.Location
	// accumulated cost from the start
	PreviousCost() float64
	// previous cost plus heuristic estimate to the goal
	TotalCost() float64
}

// Map is the map being searched. It is held and handed back, nothing more.
type Map interface {
	Width() int
	Height() int
}

// Entry is a copied, read-only view of one waypoint held by a SearchState.
type Entry struct {
	Location     location.Location
	PreviousCost float64
	TotalCost    float64
}

// Snapshot is a copy of both sets at one point in time, each sorted by
// location (row-major). Mutating it never affects the SearchState.
type Snapshot struct {
	Open   []Entry
	Closed []Entry
}
