package main

import (
	"fmt"
	"time"

	"github.com/milk9111/npcnav/ecs"
	"github.com/milk9111/npcnav/ecs/component"
	"github.com/milk9111/npcnav/ecs/entity"
	"github.com/milk9111/npcnav/ecs/system"
	"github.com/milk9111/npcnav/levels"
)

// sim bundles a loaded level with the systems that drive it.
type sim struct {
	level *levels.Level
	world *ecs.World
	sched *ecs.Scheduler
	dt    time.Duration
}

func newSim(levelName string, fps int) (*sim, error) {
	lvl, err := levels.LoadLevel(levelName)
	if err != nil {
		return nil, fmt.Errorf("load level %q: %w", levelName, err)
	}
	w := ecs.NewWorld()
	if err := entity.LoadLevelToWorld(w, lvl); err != nil {
		return nil, err
	}
	if fps <= 0 {
		fps = 60
	}
	return &sim{
		level: lvl,
		world: w,
		sched: ecs.NewScheduler(
			system.NewMoverSystem(),
			system.NewNavMeshSystem(nil),
			system.NewDynamicNavSystem(),
			system.NewTargetScriptSystem(),
			system.NewPathingAgentSystem(nil),
		),
		dt: time.Second / time.Duration(fps),
	}, nil
}

func (s *sim) step() []ecs.Event {
	s.sched.Update(s.world, s.dt)
	return s.world.Events().Drain()
}

// buildNavMesh runs frames until the nav mesh is ready or has failed.
func (s *sim) buildNavMesh(limit int) (*component.NavMesh, error) {
	for i := 0; i < limit; i++ {
		for _, evt := range s.step() {
			if evt.Type == ecs.EventNavMeshFailed {
				return nil, fmt.Errorf("nav mesh failed: %v", evt.Data)
			}
		}
		if nm, ok := system.ActiveNavMesh(s.world); ok {
			return nm, nil
		}
	}
	return nil, fmt.Errorf("nav mesh not built after %d frames", limit)
}

func (s *sim) name(e ecs.Entity) string {
	if n, ok := ecs.Get(s.world, e, component.NameComponent.Kind()); ok && n.Value != "" {
		return n.Value
	}
	return "#" + e.String()
}
