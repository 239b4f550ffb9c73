package component

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/npcnav/pathing"
)

// PathingAgent drives an entity's transform towards its target. The agent
// is created on the first update once the nav mesh is ready.
type PathingAgent struct {
	Config pathing.Config
	// StepsPerFrame replaces the wall-clock search slice with a fixed step
	// budget when positive.
	StepsPerFrame int

	Agent    *pathing.Agent
	Disabled bool
	Err      error

	// Goal overrides the followed target when HasGoal is set; scripts write
	// it.
	Goal    cp.Vector
	HasGoal bool

	Arrivals  int
	Teleports int
}

var PathingAgentComponent = NewComponent[PathingAgent]()

// TargetScript picks an agent's goal with a tengo script run every frame.
type TargetScript struct {
	Path   string
	Failed bool
}

var TargetScriptComponent = NewComponent[TargetScript]()
