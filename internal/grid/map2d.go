package grid

import (
	"fmt"

	"github.com/rohmanhakim/astar-state/internal/location"
)

// Impassable is the conventional cell value for a blocked cell.
// Any negative value is treated as impassable.
const Impassable = -1

/*
Map2D is a rectangular grid of integer cell values.

It knows nothing about:
  - search state
  - start and goal locations
  - step or heuristic costs
  - loading map data from files
*/
type Map2D struct {
	width  int
	height int
	cells  []int
}

// New creates a width x height grid with every cell set to 0.
func New(width, height int) (*Map2D, error) {
	if width <= 0 || height <= 0 {
		return nil, &GridError{
			Message: fmt.Sprintf("width=%d height=%d", width, height),
			Cause:   ErrCauseInvalidDimensions,
		}
	}
	return &Map2D{
		width:  width,
		height: height,
		cells:  make([]int, width*height),
	}, nil
}

func (m *Map2D) Width() int {
	return m.width
}

func (m *Map2D) Height() int {
	return m.height
}

func (m *Map2D) Contains(loc location.Location) bool {
	return loc.X() >= 0 && loc.X() < m.width && loc.Y() >= 0 && loc.Y() < m.height
}

func (m *Map2D) CellValue(loc location.Location) (int, error) {
	if err := m.checkBounds(loc); err != nil {
		return 0, err
	}
	return m.cells[m.index(loc)], nil
}

func (m *Map2D) SetCellValue(loc location.Location, value int) error {
	if err := m.checkBounds(loc); err != nil {
		return err
	}
	m.cells[m.index(loc)] = value
	return nil
}

// Passable reports whether loc is inside the grid and not blocked.
func (m *Map2D) Passable(loc location.Location) bool {
	if !m.Contains(loc) {
		return false
	}
	return m.cells[m.index(loc)] >= 0
}

func (m *Map2D) index(loc location.Location) int {
	return loc.Y()*m.width + loc.X()
}

func (m *Map2D) checkBounds(loc location.Location) error {
	if m.Contains(loc) {
		return nil
	}
	return &GridError{
		Message: fmt.Sprintf("%s outside %dx%d", loc, m.width, m.height),
		Cause:   ErrCauseOutOfBounds,
	}
}
