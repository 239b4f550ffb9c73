package system

import (
	"github.com/charmbracelet/log"
	"github.com/milk9111/npcnav/common"
	"github.com/milk9111/npcnav/ecs"
	"github.com/milk9111/npcnav/ecs/component"
	"github.com/milk9111/npcnav/pathing"
)

// PathingAgentSystem drives every pathing agent towards its target once the
// nav mesh is ready. Agents that cannot be created are disabled and left
// alone.
type PathingAgentSystem struct {
	clock common.Clock
	log   *log.Logger
}

func NewPathingAgentSystem(clock common.Clock) *PathingAgentSystem {
	if clock == nil {
		clock = common.SystemClock
	}
	return &PathingAgentSystem{clock: clock, log: log.WithPrefix("pathing-agent")}
}

func (s *PathingAgentSystem) Update(w *ecs.World) {
	nm, ok := ActiveNavMesh(w)
	if !ok {
		return
	}
	dt := w.Delta()

	ecs.ForEach2(w, component.PathingAgentComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, pa *component.PathingAgent, t *component.Transform) {
		if pa.Disabled {
			return
		}
		name := entityName(w, e)

		if pa.Agent == nil {
			agent, err := pathing.NewAgent(nm.Grid, t, pa.Config, s.log.With("agent", name))
			if err != nil {
				pa.Disabled = true
				pa.Err = err
				s.log.Error("pathing agent disabled", "agent", name, "err", err)
				w.Events().Push(ecs.Event{Type: ecs.EventAgentDisabled, Entity: e, Data: err})
				return
			}
			pa.Agent = agent
		}

		target, ok := resolveTarget(w, e)
		if !ok {
			return
		}

		before := pa.Agent.State()
		pa.Agent.Update(dt, target, s.budget(pa))
		after := pa.Agent.State()

		switch {
		case after.Teleports > before.Teleports:
			pa.Teleports++
			w.Events().Push(ecs.Event{Type: ecs.EventAgentTeleported, Entity: e, Data: target})
		case before.Chasing && !after.Chasing && after.LastAction == pathing.Arrive:
			pa.Arrivals++
			w.Events().Push(ecs.Event{Type: ecs.EventAgentArrived, Entity: e, Data: target})
		}
	})
}

func (s *PathingAgentSystem) budget(pa *component.PathingAgent) *common.Budget {
	if pa.StepsPerFrame > 0 {
		return common.StepBudget(pa.StepsPerFrame)
	}
	return common.NewBudget(s.clock, pa.Config.SearchSlice)
}
