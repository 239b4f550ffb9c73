package pathing

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/npcnav/navmesh"
)

// NavGrid is the part of the grid index the planner and executor read.
// *navmesh.Grid implements it.
type NavGrid interface {
	InBounds(c navmesh.Cell) bool
	IsPassable(c navmesh.Cell) bool
	CellToWorld(c navmesh.Cell) cp.Vector
	WorldToCell(p cp.Vector) navmesh.Cell
	CellSize() float64
}

// Model turns an action taken from a node into the cell it would end in.
type Model struct {
	cfg  Config
	grid NavGrid
}

func NewModel(cfg Config, grid NavGrid) *Model {
	return &Model{cfg: cfg, grid: grid}
}

// CandidateEnd returns the cell reached by taking a from last, given the
// counters of the chain ending at last. ok is false when the action has no
// candidate, including when a chain limit would be exceeded.
func (m *Model) CandidateEnd(last *Node, a Action, chain Chain) (navmesh.Cell, bool) {
	if m == nil || last == nil {
		return navmesh.Cell{}, false
	}
	from := last.End

	switch a {
	case MoveLeft:
		return m.walk(from, -1)
	case MoveRight:
		return m.walk(from, 1)
	case FloatLeft, FloatRight:
		if chain.Floats >= m.cfg.MaxFloat {
			return navmesh.Cell{}, false
		}
		return from.Add(navmesh.Cell{X: lateral(a)}), true
	case DashLeft, DashRight:
		return m.dash(from, lateral(a), chain)
	case Jump, JumpContinue:
		if chain.Jumps >= m.cfg.MaxJump {
			return navmesh.Cell{}, false
		}
		return from.Add(navmesh.Up), true
	case Drop, DropLeft, DropRight:
		if chain.Drops >= m.cfg.MaxDrop {
			return navmesh.Cell{}, false
		}
		return from.Add(navmesh.Cell{X: lateral(a), Y: -1}), true
	case Land:
		below := from.Below()
		if !m.isLanding(below) {
			return navmesh.Cell{}, false
		}
		return below, true
	}
	return navmesh.Cell{}, false
}

// walk probes the neighbouring column from MaxClimb above to MaxClimb below
// and returns the highest cell the agent could stand in.
func (m *Model) walk(from navmesh.Cell, dir int) (navmesh.Cell, bool) {
	x := from.X + dir
	for y := from.Y + m.cfg.MaxClimb; y >= from.Y-m.cfg.MaxClimb; y-- {
		c := navmesh.Cell{X: x, Y: y}
		if m.isLanding(c) {
			return c, true
		}
	}
	return navmesh.Cell{}, false
}

func (m *Model) dash(from navmesh.Cell, dir int, chain Chain) (navmesh.Cell, bool) {
	if !m.cfg.DashEnabled || m.cfg.DashDistance <= 0 || chain.Dashes >= m.cfg.MaxDashes {
		return navmesh.Cell{}, false
	}
	c := from
	for i := 0; i < m.cfg.DashDistance; i++ {
		c = c.Add(navmesh.Cell{X: dir})
		if i < m.cfg.DashDistance-1 && !m.grid.IsPassable(c) {
			return navmesh.Cell{}, false
		}
	}
	return c, true
}

func (m *Model) isLanding(c navmesh.Cell) bool {
	return m.grid.IsPassable(c) && !m.grid.IsPassable(c.Below())
}

func lateral(a Action) int {
	switch a {
	case MoveLeft, FloatLeft, DashLeft, DropLeft:
		return -1
	case MoveRight, FloatRight, DashRight, DropRight:
		return 1
	}
	return 0
}
