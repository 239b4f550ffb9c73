package pathing

import (
	"testing"
	"time"

	"github.com/milk9111/npcnav/common"
	"github.com/milk9111/npcnav/navmesh"
)

const frame = 20 * time.Millisecond

func node(a Action, sx, sy, ex, ey int) *Node {
	return &Node{Start: navmesh.Cell{X: sx, Y: sy}, End: navmesh.Cell{X: ex, Y: ey}, Action: a}
}

// runSegment ticks until the current segment finishes.
func runSegment(t *testing.T, e *Executor, limit int) {
	t.Helper()
	for i := 0; e.Busy(); i++ {
		if i > limit {
			t.Fatalf("segment did not finish in %d ticks", limit)
		}
		e.Tick(frame)
	}
}

func TestExecutorMergesMoves(t *testing.T) {
	grid := newTestGrid(5, 5)
	cfg := DefaultConfig()
	s, path := newTestSearch(grid, cfg)
	s.Reset(at(0, 0), navmesh.Cell{X: 4, Y: 0})
	s.Tick(common.StepBudget(100))

	e := NewExecutor(cfg, grid, path, grid.CellToWorld(navmesh.Cell{}))
	e.Tick(frame)
	seg := e.Segment()
	if seg == nil || seg.Kind != SegmentMove || len(seg.Nodes) != 4 {
		t.Fatalf("expected one move segment of 4 nodes, got %+v", seg)
	}
	if path.Len() != 0 {
		t.Fatalf("segment nodes must be popped at construction")
	}

	prevX := e.Position().X
	for i := 0; e.Busy(); i++ {
		if i > 100 {
			t.Fatalf("move did not finish")
		}
		pos := e.Tick(frame)
		if pos.X < prevX {
			t.Fatalf("move went backwards: %v < %v", pos.X, prevX)
		}
		if pos.Y != 0.5 {
			t.Fatalf("flat move changed height: %v", pos.Y)
		}
		prevX = pos.X
	}
	if want := grid.CellToWorld(navmesh.Cell{X: 4, Y: 0}); e.Position() != want {
		t.Fatalf("expected %v, got %v", want, e.Position())
	}
	if e.LastNode() != seg.Last() || e.Completed() != 1 {
		t.Fatalf("executor did not record the finished segment")
	}
}

func TestExecutorAirborneWaitsForLand(t *testing.T) {
	grid := newTestGrid(5, 5)
	cfg := DefaultConfig()
	path := NewPath()
	e := NewExecutor(cfg, grid, path, grid.CellToWorld(navmesh.Cell{X: 1, Y: 0}))

	path.Append(node(Jump, 1, 0, 1, 1))
	path.Append(node(JumpContinue, 1, 1, 1, 2))
	path.Append(node(FloatRight, 1, 2, 2, 2))
	e.Tick(frame)
	if e.Busy() || path.Len() != 3 {
		t.Fatalf("airborne chain started before its LAND was planned")
	}

	path.Append(node(Land, 2, 2, 2, 1))
	path.Append(node(Land, 2, 1, 2, 0))
	e.Tick(frame)
	seg := e.Segment()
	if seg == nil || seg.Kind != SegmentAirborne || len(seg.Nodes) != 4 {
		t.Fatalf("expected airborne segment of 4 nodes, got %+v", seg)
	}
	if path.Len() != 1 {
		t.Fatalf("only the first LAND closes the chain, %d left", path.Len())
	}
	if seg.Control.Y < grid.CellToWorld(navmesh.Cell{X: 1, Y: 2}).Y {
		t.Fatalf("apex %v below the highest cell of the chain", seg.Control.Y)
	}
	if seg.Duration < cfg.MinAirTime {
		t.Fatalf("air time %v below minimum", seg.Duration)
	}

	peak := e.Position().Y
	for i := 0; e.Busy(); i++ {
		if i > 200 {
			t.Fatalf("arc did not finish")
		}
		if p := e.Tick(frame); p.Y > peak {
			peak = p.Y
		}
	}
	if peak <= grid.CellToWorld(navmesh.Cell{X: 2, Y: 1}).Y {
		t.Fatalf("arc never rose above its end: peak %v", peak)
	}
	if want := grid.CellToWorld(navmesh.Cell{X: 2, Y: 1}); e.Position() != want {
		t.Fatalf("expected %v, got %v", want, e.Position())
	}

	// The remaining LAND runs as a default segment.
	e.Tick(frame)
	if seg := e.Segment(); seg != nil && seg.Kind != SegmentDefault {
		t.Fatalf("expected default segment, got %v", seg.Kind)
	}
	runSegment(t, e, 100)
	if want := grid.CellToWorld(navmesh.Cell{X: 2, Y: 0}); e.Position() != want {
		t.Fatalf("expected %v, got %v", want, e.Position())
	}
}

func TestExecutorRunsOpenChainWhenPlanComplete(t *testing.T) {
	grid := newTestGrid(5, 5)
	path := NewPath()
	e := NewExecutor(DefaultConfig(), grid, path, grid.CellToWorld(navmesh.Cell{X: 1, Y: 0}))
	path.Append(node(Jump, 1, 0, 1, 1))

	e.Tick(frame)
	if e.Busy() {
		t.Fatalf("open chain started while planning")
	}
	e.SetPlanComplete(true)
	e.Tick(frame)
	if !e.Busy() || e.Segment().Kind != SegmentAirborne {
		t.Fatalf("open chain should run once planning is complete")
	}
	runSegment(t, e, 100)
	if want := grid.CellToWorld(navmesh.Cell{X: 1, Y: 1}); e.Position() != want {
		t.Fatalf("expected %v, got %v", want, e.Position())
	}
}

func TestExecutorDescendingArcApex(t *testing.T) {
	grid := newTestGrid(5, 8)
	cfg := DefaultConfig()
	path := NewPath()
	e := NewExecutor(cfg, grid, path, grid.CellToWorld(navmesh.Cell{X: 1, Y: 4}))
	path.Append(node(DropRight, 1, 4, 2, 3))
	path.Append(node(Drop, 2, 3, 2, 2))
	path.Append(node(Land, 2, 2, 2, 1))

	e.Tick(frame)
	seg := e.Segment()
	if seg == nil {
		t.Fatalf("expected a segment")
	}
	minApex := seg.To.Y + cfg.MinApex*grid.CellSize()
	if seg.Control.Y < minApex || seg.Control.Y < seg.From.Y {
		t.Fatalf("apex %v too low (from %v, min %v)", seg.Control.Y, seg.From.Y, minApex)
	}
}

func TestExecutorAbort(t *testing.T) {
	grid := newTestGrid(5, 5)
	path := NewPath()
	e := NewExecutor(DefaultConfig(), grid, path, grid.CellToWorld(navmesh.Cell{}))
	path.Append(node(MoveRight, 0, 0, 1, 0))
	path.Append(node(MoveRight, 1, 0, 2, 0))
	e.Tick(frame)
	if !e.Busy() {
		t.Fatalf("expected a segment in flight")
	}

	dest := grid.CellToWorld(navmesh.Cell{X: 4, Y: 4})
	e.Abort(dest)
	if e.Busy() || e.LastNode() != nil || e.Position() != dest {
		t.Fatalf("abort did not reset the executor")
	}
	if e.Tick(frame) != dest {
		t.Fatalf("idle executor moved")
	}
}
