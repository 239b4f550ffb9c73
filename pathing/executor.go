package pathing

import (
	"math"
	"time"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/npcnav/common"
)

// SegmentKind selects how a segment is interpolated.
type SegmentKind int

const (
	SegmentMove SegmentKind = iota
	SegmentAirborne
	SegmentDefault
)

func (k SegmentKind) String() string {
	switch k {
	case SegmentMove:
		return "move"
	case SegmentAirborne:
		return "airborne"
	}
	return "default"
}

// Segment is a run of path nodes executed as one motion.
type Segment struct {
	Kind    SegmentKind
	Nodes   []*Node
	From    cp.Vector
	To      cp.Vector
	Control cp.Vector

	Duration time.Duration
	elapsed  time.Duration
}

// Last returns the final node of the segment.
func (s *Segment) Last() *Node {
	if s == nil || len(s.Nodes) == 0 {
		return nil
	}
	return s.Nodes[len(s.Nodes)-1]
}

// Executor consumes the head of a path and moves the agent along it.
type Executor struct {
	cfg  Config
	grid NavGrid
	path PathReader

	pos      cp.Vector
	segment  *Segment
	last     *Node
	planDone bool

	consumed  int
	completed int
}

func NewExecutor(cfg Config, grid NavGrid, path PathReader, pos cp.Vector) *Executor {
	return &Executor{cfg: cfg, grid: grid, path: path, pos: pos}
}

func (e *Executor) Position() cp.Vector {
	return e.pos
}

// Place moves the agent without touching the current segment.
func (e *Executor) Place(p cp.Vector) {
	e.pos = p
}

func (e *Executor) Segment() *Segment {
	return e.segment
}

// Busy reports whether a segment is in flight.
func (e *Executor) Busy() bool {
	return e.segment != nil
}

// LastNode returns the final node of the most recently started segment, which
// is where the agent is or is heading.
func (e *Executor) LastNode() *Node {
	return e.last
}

// SetPlanComplete tells the executor that no more nodes will be appended, so
// an airborne chain without a closing LAND may run as it is.
func (e *Executor) SetPlanComplete(done bool) {
	e.planDone = done
}

// Completed returns the number of segments finished so far.
func (e *Executor) Completed() int {
	return e.completed
}

// Abort drops the current segment and places the agent at p.
func (e *Executor) Abort(p cp.Vector) {
	e.segment = nil
	e.last = nil
	e.pos = p
}

// Tick starts a segment when idle and advances the current one by dt. It
// returns the new agent position.
func (e *Executor) Tick(dt time.Duration) cp.Vector {
	if e.segment == nil {
		e.segment = e.nextSegment()
		if e.segment == nil {
			return e.pos
		}
		e.last = e.segment.Last()
		logger.Debug("segment started",
			"kind", e.segment.Kind,
			"nodes", len(e.segment.Nodes),
			"to", e.segment.To,
		)
	}

	if e.advance(dt) {
		e.pos = e.segment.To
		e.segment = nil
		e.completed++
	}
	return e.pos
}

func (e *Executor) nextSegment() *Segment {
	head := e.path.Head()
	if head == nil {
		return nil
	}

	var n int
	var kind SegmentKind
	switch {
	case head.Action.IsMove():
		kind = SegmentMove
		for n < e.path.Len() && e.path.At(n).Action.IsMove() {
			n++
		}
		if next := e.path.At(n); next != nil && next.Action == Land {
			n++
		}
	case head.Action.IsAirborne():
		kind = SegmentAirborne
		n = e.airborneLen()
		if n == 0 {
			return nil
		}
	default:
		kind = SegmentDefault
		for n < e.path.Len() && e.path.At(n).Action == head.Action {
			n++
		}
	}

	seg := &Segment{Kind: kind, Nodes: make([]*Node, 0, n), From: e.pos}
	for i := 0; i < n; i++ {
		seg.Nodes = append(seg.Nodes, e.path.PopHead())
		e.consumed++
	}
	seg.To = e.grid.CellToWorld(seg.Last().End)

	switch kind {
	case SegmentAirborne:
		e.shapeArc(seg)
	case SegmentDefault:
		seg.Duration = travelTime(seg.From.Distance(seg.To), e.cfg.Speed)
	}
	return seg
}

// airborneLen returns the number of head nodes forming a complete airborne
// chain, or 0 while its closing LAND has not been planned yet.
func (e *Executor) airborneLen() int {
	for i := 0; i < e.path.Len(); i++ {
		a := e.path.At(i).Action
		if a == Land {
			return i + 1
		}
		if !a.IsAirborne() {
			return i
		}
	}
	if e.planDone {
		return e.path.Len()
	}
	return 0
}

// shapeArc picks the control point and duration of an airborne segment. The
// apex follows the highest cell of the chain, or sits a little above the end
// point when the chain only descends.
func (e *Executor) shapeArc(seg *Segment) {
	apex := math.Max(seg.From.Y, seg.To.Y)
	for _, n := range seg.Nodes {
		apex = math.Max(apex, e.grid.CellToWorld(n.End).Y)
	}
	apex = math.Max(apex, seg.To.Y+e.cfg.MinApex*e.grid.CellSize())

	seg.Control = cp.Vector{X: (seg.From.X + seg.To.X) / 2, Y: apex}
	dist := seg.From.Distance(seg.Control) + seg.Control.Distance(seg.To)
	seg.Duration = max(e.cfg.MinAirTime, travelTime(dist, e.cfg.Speed))
}

// advance moves along the current segment and reports whether it finished.
func (e *Executor) advance(dt time.Duration) bool {
	seg := e.segment
	switch seg.Kind {
	case SegmentMove:
		remaining := seg.To.X - e.pos.X
		if math.Abs(remaining) <= e.cfg.Threshold {
			return true
		}
		step := e.cfg.Speed * dt.Seconds()
		x := e.pos.X + float64(common.Sign(remaining))*math.Min(step, math.Abs(remaining))
		frac := 1.0
		if span := seg.To.X - seg.From.X; span != 0 {
			frac = common.Clamp((x-seg.From.X)/span, 0, 1)
		}
		e.pos = cp.Vector{X: x, Y: common.Lerp(seg.From.Y, seg.To.Y, frac)}
		return math.Abs(seg.To.X-x) <= e.cfg.Threshold
	case SegmentAirborne:
		seg.elapsed += dt
		t := progress(seg.elapsed, seg.Duration)
		e.pos = common.QuadBezier(seg.From, seg.Control, seg.To, t)
		return t >= 1
	default:
		seg.elapsed += dt
		t := progress(seg.elapsed, seg.Duration)
		e.pos = cp.Vector{
			X: common.Lerp(seg.From.X, seg.To.X, t),
			Y: common.Lerp(seg.From.Y, seg.To.Y, t),
		}
		return t >= 1
	}
}

func progress(elapsed, total time.Duration) float64 {
	if total <= 0 {
		return 1
	}
	return common.Clamp(elapsed.Seconds()/total.Seconds(), 0, 1)
}

func travelTime(dist, speed float64) time.Duration {
	if speed <= 0 || dist <= 0 {
		return 0
	}
	return time.Duration(dist / speed * float64(time.Second))
}
