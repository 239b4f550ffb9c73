package main

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/milk9111/npcnav/ecs"
	"github.com/milk9111/npcnav/ecs/component"
)

var (
	flagFrames int
	flagSteps  int
	flagUntil  bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Simulate the level and print agent events",
	RunE:  runRun,
}

func init() {
	runCmd.Flags().IntVar(&flagFrames, "frames", 600, "Number of frames to simulate")
	runCmd.Flags().IntVar(&flagSteps, "steps", 0, "Fixed search steps per frame (0 = use the wall-clock slice)")
	runCmd.Flags().BoolVar(&flagUntil, "until-arrived", false, "Stop once every agent has arrived or teleported")
}

func runRun(cmd *cobra.Command, args []string) error {
	s, err := newSim(flagLevel, flagFPS)
	if err != nil {
		return err
	}
	if flagSteps > 0 {
		ecs.ForEach(s.world, component.PathingAgentComponent.Kind(), func(_ ecs.Entity, pa *component.PathingAgent) {
			pa.StepsPerFrame = flagSteps
		})
	}

	frames := 0
	for ; frames < flagFrames; frames++ {
		for _, evt := range s.step() {
			printEvent(s, frames, evt)
		}
		if flagUntil && allSettled(s.world) {
			frames++
			break
		}
	}

	log.Info("simulation finished", "level", s.level.Name, "frames", frames, "elapsed", s.dt*time.Duration(frames))
	printAgents(s)
	return nil
}

func printEvent(s *sim, frame int, evt ecs.Event) {
	switch evt.Type {
	case ecs.EventNavRefreshed:
		log.Debug("nav refreshed", "frame", frame, "pass", evt.Data)
	case ecs.EventAgentDisabled, ecs.EventTargetScriptFail, ecs.EventNavMeshFailed:
		log.Error(string(evt.Type), "frame", frame, "entity", s.name(evt.Entity), "err", evt.Data)
	default:
		log.Info(string(evt.Type), "frame", frame, "entity", s.name(evt.Entity), "data", evt.Data)
	}
}

func allSettled(w *ecs.World) bool {
	settled, found := true, false
	ecs.ForEach(w, component.PathingAgentComponent.Kind(), func(_ ecs.Entity, pa *component.PathingAgent) {
		found = true
		if !pa.Disabled && pa.Arrivals+pa.Teleports == 0 {
			settled = false
		}
	})
	return found && settled
}

func printAgents(s *sim) {
	fmt.Printf("  %-10s  %-16s  %-10s  %-8s  %-9s  %s\n", "Agent", "Position", "Mode", "Arrived", "Teleports", "Replans")
	fmt.Printf("  %-10s  %-16s  %-10s  %-8s  %-9s  %s\n", "-----", "--------", "----", "-------", "---------", "-------")
	ecs.ForEach2(s.world, component.PathingAgentComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, pa *component.PathingAgent, t *component.Transform) {
		mode, replans := "disabled", 0
		if pa.Agent != nil {
			st := pa.Agent.State()
			mode, replans = st.Mode.String(), st.Replans
		} else if !pa.Disabled {
			mode = "waiting"
		}
		pos := fmt.Sprintf("(%.2f, %.2f)", t.X, t.Y)
		fmt.Printf("  %-10s  %-16s  %-10s  %-8d  %-9d  %d\n", s.name(e), pos, mode, pa.Arrivals, pa.Teleports, replans)
	})
}
