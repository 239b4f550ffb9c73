package system

import (
	"time"

	"github.com/charmbracelet/log"
	"github.com/milk9111/npcnav/common"
	"github.com/milk9111/npcnav/ecs"
	"github.com/milk9111/npcnav/ecs/component"
	"github.com/milk9111/npcnav/navmesh"
)

// NavMeshSystem creates the level grid, builds it (all at once or sliced
// across frames) and keeps dynamic regions fresh afterwards.
type NavMeshSystem struct {
	clock common.Clock
	log   *log.Logger
}

func NewNavMeshSystem(clock common.Clock) *NavMeshSystem {
	if clock == nil {
		clock = common.SystemClock
	}
	return &NavMeshSystem{clock: clock, log: log.WithPrefix("navmesh-system")}
}

func (s *NavMeshSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	pw := w.PhysicsWorld()

	ecs.ForEach(w, component.NavMeshComponent.Kind(), func(e ecs.Entity, nm *component.NavMesh) {
		if nm == nil || nm.Failed {
			return
		}

		if nm.Grid == nil {
			var q navmesh.OverlapQuerier
			if pw != nil {
				q = pw
			}
			grid, err := navmesh.NewGrid(nm.Config, q)
			nm.Grid = grid
			if err != nil {
				nm.Failed = true
				s.log.Error("nav mesh unavailable", "entity", e, "err", err)
				w.Events().Push(ecs.Event{Type: ecs.EventNavMeshFailed, Entity: e, Data: err})
				return
			}
			if nm.Incremental {
				grid.StartBuild()
			} else {
				grid.Build()
				s.built(w, e, nm)
				return
			}
		}

		if nm.Grid.Building() {
			if nm.Grid.BuildStep(s.budget(nm.BuildSteps, nm.BuildSlice)) {
				s.built(w, e, nm)
			}
			return
		}

		if nm.Grid.RefreshStep(s.budget(nm.RefreshSteps, nm.RefreshSlice)) {
			nm.Passes++
			w.Events().Push(ecs.Event{Type: ecs.EventNavRefreshed, Entity: e, Data: nm.Passes})
		}
	})
}

func (s *NavMeshSystem) built(w *ecs.World, e ecs.Entity, nm *component.NavMesh) {
	if nm.PlatformGraph {
		if pw := w.PhysicsWorld(); pw != nil {
			nm.Graph = navmesh.NewPlatformGraph(nm.PlatformConfig, pw, pw.PlatformSpecs())
		}
	}
	s.log.Info("nav mesh ready",
		"entity", e,
		"width", nm.Grid.Width(),
		"height", nm.Grid.Height(),
		"platforms", len(nm.Graph.Platforms()),
	)
	w.Events().Push(ecs.Event{Type: ecs.EventNavMeshBuilt, Entity: e})
}

// budget prefers a fixed step count and falls back to a wall-clock slice.
func (s *NavMeshSystem) budget(steps int, slice time.Duration) *common.Budget {
	if steps > 0 {
		return common.StepBudget(steps)
	}
	return common.NewBudget(s.clock, slice)
}

// ActiveNavMesh returns the first ready nav mesh in the world.
func ActiveNavMesh(w *ecs.World) (*component.NavMesh, bool) {
	e, ok := ecs.First(w, component.NavMeshComponent.Kind())
	if !ok {
		return nil, false
	}
	nm, ok := ecs.Get(w, e, component.NavMeshComponent.Kind())
	if !ok || !nm.Ready() {
		return nil, false
	}
	return nm, true
}
