package pathing

import (
	"math"
	"sort"

	"github.com/milk9111/npcnav/common"
	"github.com/milk9111/npcnav/navmesh"
)

// Status is the outcome of a search tick.
type Status int

const (
	InProgress Status = iota
	Done
)

func (s Status) String() string {
	if s == Done {
		return "done"
	}
	return "in_progress"
}

// StepResult describes what a single search step did.
type StepResult int

const (
	// StepIdle: the frontier is within reach of the target, nothing to do.
	StepIdle StepResult = iota
	// StepAppended: one node was appended to the tail.
	StepAppended
	// StepBacktracked: the tail was a dead end and was removed.
	StepBacktracked
	// StepExhausted: the path is empty and the origin has no candidate left.
	// Its candidates are cleared so the next step retries from scratch.
	StepExhausted
)

// Search is the any-time path producer. It extends the path by one node per
// step, greedily following the best remaining candidate of the tail node and
// backtracking on dead ends. All of its state lives on the path nodes, so a
// tick can stop after any step and the next tick resumes exactly there.
type Search struct {
	model *Model
	grid  NavGrid
	path  PathWriter
	cfg   Config

	origin     *Node
	target     navmesh.Cell
	active     bool
	generation int

	appended    int
	backtracked int
	exhausted   int
}

func NewSearch(model *Model, grid NavGrid, path PathWriter, cfg Config) *Search {
	return &Search{model: model, grid: grid, path: path, cfg: cfg}
}

// Reset abandons any previous search and starts a new one from origin
// towards target. The caller clears the path.
func (s *Search) Reset(origin *Node, target navmesh.Cell) {
	s.generation++
	if origin != nil {
		origin.resetCandidates()
	}
	s.origin = origin
	s.target = target
	s.active = origin != nil
}

// Stop abandons the current search.
func (s *Search) Stop() {
	s.generation++
	s.origin = nil
	s.active = false
}

// SetOrigin moves the node the search grows from when the path is empty.
// The agent points it at the last node the executor consumed.
func (s *Search) SetOrigin(n *Node) {
	if n == nil || n == s.origin {
		return
	}
	s.origin = n
}

// Generation identifies the current search task. It changes on every Reset
// and Stop.
func (s *Search) Generation() int {
	return s.generation
}

func (s *Search) Origin() *Node {
	return s.origin
}

func (s *Search) Target() navmesh.Cell {
	return s.target
}

func (s *Search) Active() bool {
	return s.active
}

// Idle reports whether a step would do nothing.
func (s *Search) Idle() bool {
	if !s.active {
		return true
	}
	f := s.frontier()
	return f == nil || s.arrived(f.End)
}

// Tick runs steps until the budget is spent or the search goes idle.
func (s *Search) Tick(b *common.Budget) Status {
	for b.Spend() {
		if s.Step() == StepIdle {
			return Done
		}
	}
	if s.Idle() {
		return Done
	}
	return InProgress
}

// Step performs exactly one unit of search work.
func (s *Search) Step() StepResult {
	if !s.active {
		return StepIdle
	}
	node := s.frontier()
	if node == nil || s.arrived(node.End) {
		return StepIdle
	}

	if !node.expanded {
		s.expand(node)
	}

	for node.cursor < len(node.candidates) {
		next := node.candidates[node.cursor]
		node.cursor++
		if !s.grid.IsPassable(next.End) || s.onPath(next.End) {
			continue
		}
		s.path.Append(next)
		s.appended++
		return StepAppended
	}

	if s.path.Len() > 0 {
		s.path.PopTail()
		s.backtracked++
		return StepBacktracked
	}

	node.resetCandidates()
	s.exhausted++
	return StepExhausted
}

func (s *Search) frontier() *Node {
	if tail := s.path.Tail(); tail != nil {
		return tail
	}
	return s.origin
}

func (s *Search) arrived(c navmesh.Cell) bool {
	d := s.grid.CellToWorld(c).Distance(s.grid.CellToWorld(s.target))
	return d <= s.cfg.EndDistance
}

func (s *Search) onPath(c navmesh.Cell) bool {
	if s.origin != nil && s.origin.End == c {
		return true
	}
	return s.path.Contains(c)
}

// expand computes and sorts the candidates of node once.
func (s *Search) expand(node *Node) {
	node.candidates = node.candidates[:0]
	node.cursor = 0
	node.expanded = true

	for _, a := range FollowUps(node.Action) {
		end, ok := s.model.CandidateEnd(node, a, node.Chain)
		if !ok || !s.grid.InBounds(end) {
			continue
		}
		node.candidates = append(node.candidates, &Node{
			Start:  node.End,
			End:    end,
			Action: a,
			Chain:  node.Chain.Next(a),
		})
	}

	from := node.End
	sort.SliceStable(node.candidates, func(i, j int) bool {
		ci, cj := node.candidates[i], node.candidates[j]
		di, dj := cellDistance(ci.End, s.target), cellDistance(cj.End, s.target)
		if di != dj {
			return di < dj
		}
		return s.sideRank(from, ci.End) < s.sideRank(from, cj.End)
	})
}

// sideRank prefers candidates that move towards the target's side.
func (s *Search) sideRank(from, c navmesh.Cell) int {
	if common.Sign(float64(c.X-from.X)) == common.Sign(float64(s.target.X-from.X)) {
		return 0
	}
	return 1
}

func cellDistance(a, b navmesh.Cell) float64 {
	dx := float64(a.X - b.X)
	dy := float64(a.Y - b.Y)
	return math.Sqrt(dx*dx + dy*dy)
}
