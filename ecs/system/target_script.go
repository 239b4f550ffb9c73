package system

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/npcnav/ecs"
	"github.com/milk9111/npcnav/ecs/component"
	"github.com/milk9111/npcnav/prefabs"
)

// Globals visible to target scripts. Scripts assign goal_x and goal_y; both
// start out at the target position.
var targetScriptGlobals = []string{
	"agent_x", "agent_y",
	"target_x", "target_y",
	"level_width", "level_height",
	"time",
	"goal_x", "goal_y",
}

type targetScriptRuntime struct {
	path     string
	compiled *tengo.Compiled
}

// TargetScriptSystem runs each agent's target script once per frame and
// stores the resulting goal on the agent.
type TargetScriptSystem struct {
	cache   map[ecs.Entity]*targetScriptRuntime
	elapsed time.Duration
	log     *log.Logger
}

func NewTargetScriptSystem() *TargetScriptSystem {
	return &TargetScriptSystem{
		cache: map[ecs.Entity]*targetScriptRuntime{},
		log:   log.WithPrefix("target-script"),
	}
}

func (s *TargetScriptSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	s.elapsed += w.Delta()
	s.prune(w)

	var levelW, levelH float64
	if e, ok := ecs.First(w, component.LevelBoundsComponent.Kind()); ok {
		if b, ok := ecs.Get(w, e, component.LevelBoundsComponent.Kind()); ok {
			levelW, levelH = b.Width(), b.Height()
		}
	}

	ecs.ForEach3(w, component.TargetScriptComponent.Kind(), component.PathingAgentComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, ts *component.TargetScript, pa *component.PathingAgent, t *component.Transform) {
		if ts.Failed {
			pa.HasGoal = false
			return
		}
		target, ok := taggedTarget(w, e)
		if !ok {
			return
		}

		goal, err := s.run(e, ts.Path, map[string]float64{
			"agent_x":      t.X,
			"agent_y":      t.Y,
			"target_x":     target.X,
			"target_y":     target.Y,
			"level_width":  levelW,
			"level_height": levelH,
			"time":         s.elapsed.Seconds(),
			"goal_x":       target.X,
			"goal_y":       target.Y,
		})
		if err != nil {
			ts.Failed = true
			pa.HasGoal = false
			delete(s.cache, e)
			s.log.Error("target script failed", "entity", entityName(w, e), "script", ts.Path, "err", err)
			w.Events().Push(ecs.Event{Type: ecs.EventTargetScriptFail, Entity: e, Data: err})
			return
		}
		pa.Goal = goal
		pa.HasGoal = true
	})
}

func (s *TargetScriptSystem) run(e ecs.Entity, path string, globals map[string]float64) (cp.Vector, error) {
	rt, err := s.runtime(e, path)
	if err != nil {
		return cp.Vector{}, err
	}
	for name, v := range globals {
		if err := rt.compiled.Set(name, v); err != nil {
			return cp.Vector{}, err
		}
	}
	if err := rt.compiled.Run(); err != nil {
		return cp.Vector{}, err
	}

	x := rt.compiled.Get("goal_x")
	y := rt.compiled.Get("goal_y")
	if !isNumber(x) || !isNumber(y) {
		return cp.Vector{}, fmt.Errorf("goal is not a number: goal_x=%v goal_y=%v", x.Value(), y.Value())
	}
	return cp.Vector{X: x.Float(), Y: y.Float()}, nil
}

func (s *TargetScriptSystem) runtime(e ecs.Entity, path string) (*targetScriptRuntime, error) {
	if rt, ok := s.cache[e]; ok && rt.path == path {
		return rt, nil
	}

	src, err := prefabs.LoadScript(path)
	if err != nil {
		return nil, err
	}
	script := tengo.NewScript(src)
	for _, name := range targetScriptGlobals {
		if err := script.Add(name, 0.0); err != nil {
			return nil, err
		}
	}
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := script.Compile()
	if err != nil {
		return nil, err
	}
	rt := &targetScriptRuntime{path: path, compiled: compiled}
	s.cache[e] = rt
	return rt, nil
}

// prune drops compiled scripts of entities that died or lost their script.
func (s *TargetScriptSystem) prune(w *ecs.World) {
	for e := range s.cache {
		if !ecs.Has(w, e, component.TargetScriptComponent.Kind()) {
			delete(s.cache, e)
		}
	}
}

func isNumber(v *tengo.Variable) bool {
	if v == nil {
		return false
	}
	switch v.ValueType() {
	case "int", "float":
		return true
	}
	return false
}
