package navmesh

import (
	"errors"
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/npcnav/common"
)

// boxWorld is an OverlapQuerier over a set of static boxes.
type boxWorld struct {
	boxes   []cp.BB
	queries int
}

func (w *boxWorld) Overlaps(center, half cp.Vector, mask uint) bool {
	w.queries++
	q := cp.BB{L: center.X - half.X, B: center.Y - half.Y, R: center.X + half.X, T: center.Y + half.Y}
	for _, b := range w.boxes {
		if q.L < b.R && b.L < q.R && q.B < b.T && b.B < q.T {
			return true
		}
	}
	return false
}

func newTestGrid(t *testing.T, w, h int, q OverlapQuerier) *Grid {
	t.Helper()
	g, err := NewGrid(Config{
		Min:      cp.Vector{X: 0, Y: 0},
		Max:      cp.Vector{X: float64(w), Y: float64(h)},
		CellSize: 1,
	}, q)
	if err != nil {
		t.Fatalf("NewGrid: %v", err)
	}
	return g
}

func TestGridRoundTrip(t *testing.T) {
	cases := []struct {
		name     string
		min      cp.Vector
		max      cp.Vector
		cellSize float64
	}{
		{"unit", cp.Vector{}, cp.Vector{X: 5, Y: 5}, 1},
		{"half_cells_offset", cp.Vector{X: -3, Y: 2}, cp.Vector{X: 4, Y: 6.5}, 0.5},
		{"large_cells", cp.Vector{X: 100, Y: -50}, cp.Vector{X: 420, Y: 142}, 32},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			g, err := NewGrid(Config{Min: c.min, Max: c.max, CellSize: c.cellSize}, nil)
			if err != nil {
				t.Fatalf("NewGrid: %v", err)
			}
			for y := 0; y < g.Height(); y++ {
				for x := 0; x < g.Width(); x++ {
					cell := Cell{X: x, Y: y}
					world := g.CellToWorld(cell)
					if got := g.WorldToCell(world); got != cell {
						t.Fatalf("round trip %v -> %v -> %v", cell, world, got)
					}
					if again := g.CellToWorld(g.WorldToCell(world)); again != world {
						t.Fatalf("aligned point %v not idempotent: %v", world, again)
					}
				}
			}
		})
	}
}

func TestGridPassabilityFailClosed(t *testing.T) {
	g := newTestGrid(t, 4, 3, &boxWorld{})
	g.Build()

	outside := []Cell{{-1, 0}, {0, -1}, {4, 0}, {0, 3}, {100, 100}, {-5, -5}}
	for _, c := range outside {
		if g.IsPassable(c) {
			t.Fatalf("out-of-range cell %v reported passable", c)
		}
	}
	for y := 0; y < 3; y++ {
		for x := 0; x < 4; x++ {
			if !g.IsPassable(Cell{x, y}) {
				t.Fatalf("empty world cell (%d,%d) should be passable", x, y)
			}
		}
	}

	var nilGrid *Grid
	if nilGrid.IsPassable(Cell{}) {
		t.Fatalf("nil grid must be blocked")
	}
}

func TestGridUnbuiltIsBlocked(t *testing.T) {
	g := newTestGrid(t, 3, 3, &boxWorld{})
	if g.IsPassable(Cell{1, 1}) {
		t.Fatalf("unsampled cell should be blocked")
	}
}

func TestGridDegenerateBounds(t *testing.T) {
	cases := []struct {
		name string
		cfg  Config
	}{
		{"zero_width", Config{Max: cp.Vector{X: 0, Y: 5}, CellSize: 1}},
		{"zero_height", Config{Max: cp.Vector{X: 5, Y: 0}, CellSize: 1}},
		{"zero_cell", Config{Max: cp.Vector{X: 5, Y: 5}, CellSize: 0}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			g, err := NewGrid(c.cfg, &boxWorld{})
			if !errors.Is(err, ErrDegenerateBounds) {
				t.Fatalf("expected ErrDegenerateBounds, got %v", err)
			}
			if g == nil {
				t.Fatalf("expected inert grid")
			}
			g.Build()
			if g.IsPassable(Cell{}) {
				t.Fatalf("inert grid must be blocked")
			}
			if err := g.RegisterDynamicRegion(NewRegion(Cell{}, Cell{1, 1})); !errors.Is(err, ErrRegionOutOfRange) {
				t.Fatalf("expected ErrRegionOutOfRange, got %v", err)
			}
		})
	}
}

func TestGridBuildSamplesBlockers(t *testing.T) {
	// A floor along y=0 and a pillar at x=2.
	world := &boxWorld{boxes: []cp.BB{
		{L: 0, B: 0, R: 5, T: 1},
		{L: 2, B: 1, R: 3, T: 3},
	}}
	g := newTestGrid(t, 5, 4, world)
	g.Build()

	cases := []struct {
		cell     Cell
		passable bool
	}{
		{Cell{0, 0}, false},
		{Cell{4, 0}, false},
		{Cell{2, 1}, false},
		{Cell{2, 2}, false},
		{Cell{2, 3}, true},
		{Cell{1, 1}, true},
		{Cell{3, 1}, true},
	}
	for _, c := range cases {
		if got := g.IsPassable(c.cell); got != c.passable {
			t.Fatalf("cell %v: expected passable=%v, got %v", c.cell, c.passable, got)
		}
	}
	if !g.IsLanding(Cell{1, 1}) || g.IsLanding(Cell{1, 2}) {
		t.Fatalf("landing detection wrong")
	}
}

func TestGridIncrementalBuild(t *testing.T) {
	world := &boxWorld{boxes: []cp.BB{{L: 0, B: 0, R: 4, T: 1}}}
	g := newTestGrid(t, 4, 4, world)
	g.StartBuild()

	frames := 0
	for !g.BuildStep(common.StepBudget(3)) {
		frames++
		if frames > 10 {
			t.Fatalf("incremental build did not finish")
		}
	}
	// 16 cells at 3 per frame: 5 unfinished frames, done on the 6th.
	if frames != 5 {
		t.Fatalf("expected 5 partial frames, got %d", frames)
	}
	if !g.Built() || g.Building() {
		t.Fatalf("grid should be built")
	}
	if g.IsPassable(Cell{1, 0}) || !g.IsPassable(Cell{1, 1}) {
		t.Fatalf("incremental build sampled wrong occupancy")
	}
	if world.queries != 16 {
		t.Fatalf("expected 16 queries, got %d", world.queries)
	}
}

func TestGridDynamicRegionRefresh(t *testing.T) {
	world := &boxWorld{}
	g := newTestGrid(t, 6, 6, world)
	g.Build()

	region := NewRegion(Cell{4, 3}, Cell{2, 2})
	if err := g.RegisterDynamicRegion(region); err != nil {
		t.Fatalf("RegisterDynamicRegion: %v", err)
	}
	if got := g.DynamicRegions()[0]; got.Start != (Cell{2, 2}) || got.End != (Cell{4, 3}) {
		t.Fatalf("region not normalized: %+v", got)
	}

	// A bridge raises into the region; registration alone must not resample.
	world.boxes = append(world.boxes, cp.BB{L: 2, B: 2, R: 5, T: 3})
	if !g.IsPassable(Cell{3, 2}) {
		t.Fatalf("registration should not trigger a rebuild")
	}

	before := world.queries
	if g.RefreshStep(common.StepBudget(4)) {
		t.Fatalf("6-cell region should not finish with 4 steps")
	}
	// Cells are refreshed row by row: (2,2),(3,2),(4,2) then (2,3).
	if g.IsPassable(Cell{2, 2}) || g.IsPassable(Cell{4, 2}) {
		t.Fatalf("refreshed cells should now be blocked")
	}
	if !g.RefreshStep(common.StepBudget(10)) {
		t.Fatalf("expected the pass to complete")
	}
	if world.queries-before != 6 {
		t.Fatalf("expected 6 region samples, got %d", world.queries-before)
	}
	if !g.IsPassable(Cell{0, 0}) || !g.IsPassable(Cell{5, 5}) {
		t.Fatalf("cells outside the region must be untouched")
	}
}

func TestGridRegisterClampsRegion(t *testing.T) {
	g := newTestGrid(t, 4, 4, &boxWorld{})
	if err := g.RegisterDynamicRegion(NewRegion(Cell{-3, 2}, Cell{10, 9})); err != nil {
		t.Fatalf("RegisterDynamicRegion: %v", err)
	}
	r := g.DynamicRegions()[0]
	if r.Start != (Cell{0, 2}) || r.End != (Cell{3, 3}) {
		t.Fatalf("region not clamped: %+v", r)
	}
	if err := g.RegisterDynamicRegion(NewRegion(Cell{8, 8}, Cell{9, 9})); !errors.Is(err, ErrRegionOutOfRange) {
		t.Fatalf("expected ErrRegionOutOfRange, got %v", err)
	}
}

func TestGridSnapAndRegionFromWorld(t *testing.T) {
	g, err := NewGrid(Config{Max: cp.Vector{X: 10, Y: 10}, CellSize: 0.5}, nil)
	if err != nil {
		t.Fatalf("NewGrid: %v", err)
	}
	if got := g.SnapToGrid(1.3); got != 1.5 {
		t.Fatalf("SnapToGrid(1.3) = %v", got)
	}
	r := g.RegionFromWorld(cp.Vector{X: 2.25, Y: 1.25}, cp.Vector{X: 0.25, Y: 0.25})
	if r.Start != (Cell{0, 0}) || r.End != (Cell{4, 2}) {
		t.Fatalf("unexpected region %+v", r)
	}
}
