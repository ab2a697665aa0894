package location

import "fmt"

// Location is a cell coordinate on a 2D map. It is a comparable value
// type, so it can be used directly as a map key; the zero value is (0,0).
// Coordinates are not validated: bounds belong to the map.
type Location struct {
	x int
	y int
}

func New(x, y int) Location {
	return Location{x: x, y: y}
}

func (l Location) X() int {
	return l.x
}

func (l Location) Y() int {
	return l.y
}

func (l Location) Equal(other Location) bool {
	return l.x == other.x && l.y == other.y
}

// Hash combines both coordinates with the usual 31 multiplier.
// Equal locations always hash equally.
func (l Location) Hash() int {
	h := 1
	h = 31*h + l.x
	h = 31*h + l.y
	return h
}

func (l Location) String() string {
	return fmt.Sprintf("(%d,%d)", l.x, l.y)
}

// Less orders locations row-major (y, then x). Used to make listings stable.
func Less(a, b Location) bool {
	if a.y != b.y {
		return a.y < b.y
	}
	return a.x < b.x
}
