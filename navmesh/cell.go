package navmesh

import "fmt"

// Cell is a discrete grid coordinate. Y grows upward.
type Cell struct {
	X int
	Y int
}

var (
	Up    = Cell{X: 0, Y: 1}
	Down  = Cell{X: 0, Y: -1}
	Left  = Cell{X: -1, Y: 0}
	Right = Cell{X: 1, Y: 0}
)

func (c Cell) Add(o Cell) Cell {
	return Cell{X: c.X + o.X, Y: c.Y + o.Y}
}

func (c Cell) Sub(o Cell) Cell {
	return Cell{X: c.X - o.X, Y: c.Y - o.Y}
}

func (c Cell) Below() Cell {
	return c.Add(Down)
}

func (c Cell) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// Region is an inclusive rectangle of cells.
type Region struct {
	Start Cell
	End   Cell
}

// NewRegion returns a region with Start <= End on both axes.
func NewRegion(a, b Cell) Region {
	if a.X > b.X {
		a.X, b.X = b.X, a.X
	}
	if a.Y > b.Y {
		a.Y, b.Y = b.Y, a.Y
	}
	return Region{Start: a, End: b}
}

func (r Region) Width() int {
	return r.End.X - r.Start.X + 1
}

func (r Region) Height() int {
	return r.End.Y - r.Start.Y + 1
}

// Cells returns the number of cells covered.
func (r Region) Cells() int {
	if r.Width() <= 0 || r.Height() <= 0 {
		return 0
	}
	return r.Width() * r.Height()
}

func (r Region) Contains(c Cell) bool {
	return c.X >= r.Start.X && c.X <= r.End.X && c.Y >= r.Start.Y && c.Y <= r.End.Y
}
