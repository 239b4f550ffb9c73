package navmesh

import (
	"errors"
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/npcnav/common"
)

var (
	ErrDegenerateBounds = errors.New("navmesh: degenerate bounds")
	ErrRegionOutOfRange = errors.New("navmesh: region outside grid")
)

// Grid is the occupancy index over a bounded world region. Cells are sampled
// with an overlap query, either all at once or a few at a time per frame.
type Grid struct {
	cfg    Config
	query  OverlapQuerier
	width  int
	height int
	cells  []bool

	building bool
	built    bool
	cursor   int

	regions       []Region
	refreshRegion int
	refreshCursor int
}

// NewGrid allocates the grid for cfg. Degenerate bounds return
// ErrDegenerateBounds together with an empty grid whose queries all report
// blocked, so callers can keep running with it.
func NewGrid(cfg Config, q OverlapQuerier) (*Grid, error) {
	cfg = cfg.withDefaults()
	g := &Grid{cfg: cfg, query: q}
	if cfg.CellSize <= 0 {
		logger.Error("invalid cell size", "cell_size", cfg.CellSize)
		return g, ErrDegenerateBounds
	}

	w := int(math.Round(math.Abs(cfg.Max.X-cfg.Min.X) / cfg.CellSize))
	h := int(math.Round(math.Abs(cfg.Max.Y-cfg.Min.Y) / cfg.CellSize))
	if w <= 0 || h <= 0 {
		logger.Error("degenerate nav mesh bounds", "min", cfg.Min, "max", cfg.Max, "cell_size", cfg.CellSize)
		return g, ErrDegenerateBounds
	}
	if cfg.Min.X > cfg.Max.X {
		g.cfg.Min.X = cfg.Max.X
	}
	if cfg.Min.Y > cfg.Max.Y {
		g.cfg.Min.Y = cfg.Max.Y
	}

	g.width = w
	g.height = h
	g.cells = make([]bool, w*h)
	return g, nil
}

func (g *Grid) Width() int {
	if g == nil {
		return 0
	}
	return g.width
}

func (g *Grid) Height() int {
	if g == nil {
		return 0
	}
	return g.height
}

func (g *Grid) CellSize() float64 {
	if g == nil {
		return 0
	}
	return g.cfg.CellSize
}

// Bounds returns the world-space rectangle covered by the grid.
func (g *Grid) Bounds() cp.BB {
	if g == nil {
		return cp.BB{}
	}
	min := g.cfg.Min
	return cp.BB{
		L: min.X,
		B: min.Y,
		R: min.X + float64(g.width)*g.cfg.CellSize,
		T: min.Y + float64(g.height)*g.cfg.CellSize,
	}
}

// Built reports whether every cell has been sampled at least once.
func (g *Grid) Built() bool {
	return g != nil && g.built
}

func (g *Grid) InBounds(c Cell) bool {
	if g == nil {
		return false
	}
	return c.X >= 0 && c.Y >= 0 && c.X < g.width && c.Y < g.height
}

// IsPassable reports whether c is free. Out-of-range cells and unsampled
// cells are blocked.
func (g *Grid) IsPassable(c Cell) bool {
	if !g.InBounds(c) || len(g.cells) == 0 {
		return false
	}
	return g.cells[c.Y*g.width+c.X]
}

// IsLanding reports whether c is passable and the cell below it is not.
func (g *Grid) IsLanding(c Cell) bool {
	return g.IsPassable(c) && !g.IsPassable(c.Below())
}

func (g *Grid) CellToWorld(c Cell) cp.Vector {
	half := g.cfg.CellSize / 2
	return cp.Vector{
		X: g.cfg.Min.X + float64(c.X)*g.cfg.CellSize + half,
		Y: g.cfg.Min.Y + float64(c.Y)*g.cfg.CellSize + half,
	}
}

func (g *Grid) WorldToCell(p cp.Vector) Cell {
	half := g.cfg.CellSize / 2
	return Cell{
		X: int(math.Round((p.X - g.cfg.Min.X - half) / g.cfg.CellSize)),
		Y: int(math.Round((p.Y - g.cfg.Min.Y - half) / g.cfg.CellSize)),
	}
}

// SnapToGrid rounds v to the nearest multiple of the cell size.
func (g *Grid) SnapToGrid(v float64) float64 {
	if g == nil || g.cfg.CellSize <= 0 {
		return v
	}
	return math.Round(v/g.cfg.CellSize) * g.cfg.CellSize
}

// RegionFromWorld converts a world rectangle into the region of cells whose
// centers it spans.
func (g *Grid) RegionFromWorld(min, max cp.Vector) Region {
	return NewRegion(g.WorldToCell(min), g.WorldToCell(max))
}

// Build samples every cell synchronously.
func (g *Grid) Build() {
	if g == nil || len(g.cells) == 0 {
		return
	}
	for i := range g.cells {
		g.sample(Cell{X: i % g.width, Y: i / g.width})
	}
	g.building = false
	g.built = true
	g.cursor = 0
	logger.Debug("nav mesh built", "width", g.width, "height", g.height)
}

// StartBuild restarts the incremental build from the first cell.
func (g *Grid) StartBuild() {
	if g == nil || len(g.cells) == 0 {
		return
	}
	g.building = true
	g.cursor = 0
}

// Building reports whether an incremental build is in progress.
func (g *Grid) Building() bool {
	return g != nil && g.building
}

// BuildStep samples cells until the budget runs out and reports whether the
// build finished.
func (g *Grid) BuildStep(b *common.Budget) bool {
	if g == nil || len(g.cells) == 0 {
		return true
	}
	if !g.building {
		return g.built
	}
	for g.cursor < len(g.cells) {
		if !b.Spend() {
			return false
		}
		g.sample(Cell{X: g.cursor % g.width, Y: g.cursor / g.width})
		g.cursor++
	}
	g.building = false
	g.built = true
	g.cursor = 0
	logger.Debug("nav mesh built incrementally", "width", g.width, "height", g.height)
	return true
}

// RegisterDynamicRegion adds r to the set of regions re-sampled by
// RefreshStep. The region is clamped to the grid.
func (g *Grid) RegisterDynamicRegion(r Region) error {
	if g == nil || len(g.cells) == 0 {
		return ErrRegionOutOfRange
	}
	r = NewRegion(r.Start, r.End)
	if r.End.X < 0 || r.End.Y < 0 || r.Start.X >= g.width || r.Start.Y >= g.height {
		return ErrRegionOutOfRange
	}
	r.Start.X = max(r.Start.X, 0)
	r.Start.Y = max(r.Start.Y, 0)
	r.End.X = min(r.End.X, g.width-1)
	r.End.Y = min(r.End.Y, g.height-1)
	g.regions = append(g.regions, r)
	return nil
}

// DynamicRegions returns the registered regions.
func (g *Grid) DynamicRegions() []Region {
	if g == nil {
		return nil
	}
	return g.regions
}

// RefreshStep re-samples dynamic regions until the budget runs out, resuming
// where the previous call stopped. It reports whether a full pass over every
// region completed during this call. Readers may observe a partially
// refreshed region in between calls.
func (g *Grid) RefreshStep(b *common.Budget) bool {
	if g == nil || len(g.regions) == 0 || len(g.cells) == 0 {
		return false
	}
	for {
		if g.refreshRegion >= len(g.regions) {
			g.refreshRegion = 0
			g.refreshCursor = 0
			return true
		}
		r := g.regions[g.refreshRegion]
		n := r.Cells()
		if g.refreshCursor >= n {
			g.refreshRegion++
			g.refreshCursor = 0
			continue
		}
		if !b.Spend() {
			return false
		}
		w := r.Width()
		g.sample(Cell{X: r.Start.X + g.refreshCursor%w, Y: r.Start.Y + g.refreshCursor/w})
		g.refreshCursor++
	}
}

func (g *Grid) sample(c Cell) {
	passable := true
	if g.query != nil {
		half := g.cfg.CellSize / 2 * g.cfg.SampleScale
		passable = !g.query.Overlaps(g.CellToWorld(c), cp.Vector{X: half, Y: half}, g.cfg.LayerMask)
	}
	g.cells[c.Y*g.width+c.X] = passable
}
