package pathing

import (
	"errors"
	"time"

	"github.com/charmbracelet/log"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/npcnav/common"
	"github.com/milk9111/npcnav/navmesh"
)

var (
	ErrNoBody = errors.New("pathing: agent has no body")
	ErrNoGrid = errors.New("pathing: agent has no nav grid")
)

// Body is the transform the agent drives.
type Body interface {
	Position() cp.Vector
	SetPosition(p cp.Vector)
}

type Mode int

const (
	ModeIdle Mode = iota
	ModePlanning
	ModeExecuting
)

func (m Mode) String() string {
	switch m {
	case ModePlanning:
		return "planning"
	case ModeExecuting:
		return "executing"
	}
	return "idle"
}

// State is the controller's view of the agent between frames.
type State struct {
	Mode       Mode
	Now        time.Duration
	Chasing    bool
	HasPlan    bool
	LastTarget cp.Vector
	PlannedAt  time.Duration
	ChaseStart time.Duration
	LastAction Action
	Teleports  int
	Replans    int
}

// Agent owns one agent's path, search and executor and drives them once per
// frame.
type Agent struct {
	cfg    Config
	grid   NavGrid
	body   Body
	log    *log.Logger
	path   *Path
	search *Search
	exec   *Executor
	state  State
}

// NewAgent validates its inputs and returns an agent standing at the body's
// position. A nil logger uses the package logger.
func NewAgent(grid NavGrid, body Body, cfg Config, l *log.Logger) (*Agent, error) {
	if grid == nil {
		return nil, ErrNoGrid
	}
	if g, ok := grid.(*navmesh.Grid); ok && g == nil {
		return nil, ErrNoGrid
	}
	if body == nil {
		return nil, ErrNoBody
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if l == nil {
		l = logger
	}

	path := NewPath()
	a := &Agent{
		cfg:    cfg,
		grid:   grid,
		body:   body,
		log:    l,
		path:   path,
		search: NewSearch(NewModel(cfg, grid), grid, path, cfg),
		exec:   NewExecutor(cfg, grid, path, body.Position()),
	}
	a.state.LastAction = Land
	return a, nil
}

func (a *Agent) State() State {
	return a.state
}

func (a *Agent) Path() *Path {
	return a.path
}

func (a *Agent) Search() *Search {
	return a.search
}

func (a *Agent) Executor() *Executor {
	return a.exec
}

func (a *Agent) Config() Config {
	return a.cfg
}

// Update advances the agent by dt towards target, spending at most b on
// search work.
func (a *Agent) Update(dt time.Duration, target cp.Vector, b *common.Budget) {
	a.state.Now += dt

	if !a.exec.Busy() {
		a.exec.Place(a.body.Position())
		if a.shouldReplan(target) {
			a.replan(target)
		}
	}

	if a.state.Chasing && a.state.Now-a.state.ChaseStart > a.cfg.TeleportTimeout {
		a.teleport(target)
		return
	}

	status := Done
	if a.state.Chasing {
		// The search backtracks to its origin once the path empties, so the
		// origin must follow whatever the executor has consumed.
		if last := a.exec.LastNode(); last != nil {
			a.search.SetOrigin(last)
		}
		status = a.search.Tick(b)
	}
	a.exec.SetPlanComplete(status == Done)

	pos := a.exec.Tick(dt)
	a.body.SetPosition(pos)
	if last := a.exec.LastNode(); last != nil && a.state.Chasing {
		a.state.LastAction = last.Action
	}

	if a.state.Chasing && status == Done && a.path.Len() == 0 && !a.exec.Busy() {
		a.state.Chasing = false
		a.state.LastAction = Arrive
		a.log.Debug("arrived", "pos", pos, "target", target, "after", a.state.Now-a.state.ChaseStart)
	}

	switch {
	case a.exec.Busy():
		a.state.Mode = ModeExecuting
	case a.state.Chasing:
		a.state.Mode = ModePlanning
	default:
		a.state.Mode = ModeIdle
	}
}

func (a *Agent) shouldReplan(target cp.Vector) bool {
	if !a.state.HasPlan {
		return true
	}
	if target.Distance(a.state.LastTarget) <= a.cfg.TargetTolerance {
		return false
	}
	return a.state.Now-a.state.PlannedAt >= a.cfg.MinPathAge
}

func (a *Agent) replan(target cp.Vector) {
	pos := a.body.Position()
	a.path.Clear()
	a.exec.Abort(pos)

	cell := a.grid.WorldToCell(pos)
	origin := &Node{Start: cell, End: cell, Action: Land}
	a.search.Reset(origin, a.grid.WorldToCell(target))

	// Every new plan restarts the chase timer, so a moving target only
	// teleports the agent when a single plan runs too long.
	a.state.ChaseStart = a.state.Now
	a.state.Chasing = true
	a.state.HasPlan = true
	a.state.LastTarget = target
	a.state.PlannedAt = a.state.Now
	a.state.Replans++
	a.log.Debug("planning", "from", cell, "to", a.search.Target(), "generation", a.search.Generation())
}

func (a *Agent) teleport(target cp.Vector) {
	a.path.Clear()
	a.search.Stop()
	a.exec.Abort(target)
	a.body.SetPosition(target)

	a.state.Chasing = false
	a.state.Mode = ModeIdle
	a.state.LastAction = Land
	a.state.Teleports++
	a.log.Warn("teleporting agent to target",
		"target", target,
		"chased", a.state.Now-a.state.ChaseStart,
		"teleports", a.state.Teleports,
	)
}
