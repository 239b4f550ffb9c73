package main

import (
	"errors"
	"fmt"

	"github.com/jakecoffman/cp"
	"github.com/spf13/cobra"

	"github.com/milk9111/npcnav/common"
	"github.com/milk9111/npcnav/ecs"
	"github.com/milk9111/npcnav/ecs/component"
)

var flagRoutes bool

var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Print the platform graph of a level",
	RunE:  runGraph,
}

func init() {
	graphCmd.Flags().BoolVar(&flagRoutes, "routes", false, "Also print each agent's platform route to its target")
}

func runGraph(cmd *cobra.Command, args []string) error {
	s, err := newSim(flagLevel, flagFPS)
	if err != nil {
		return err
	}
	nm, err := s.buildNavMesh(10000)
	if err != nil {
		return err
	}
	if nm.Graph == nil {
		return errors.New("platform graph disabled in nav_mesh prefab")
	}

	for _, p := range nm.Graph.Platforms() {
		fmt.Printf("platform %d  [%.1f..%.1f] top %.1f\n", p.ID, p.Bounds.L, p.Bounds.R, p.Bounds.T)
		for _, c := range p.Connections {
			fmt.Printf("  %-5s -> %d\n", c.Type, c.To.ID)
		}
	}
	if !flagRoutes {
		return nil
	}

	fmt.Println()
	ecs.ForEach2(s.world, component.PathTargetComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, pt *component.PathTarget, t *component.Transform) {
		target, ok := namedTarget(s.world, pt.Name)
		if !ok {
			fmt.Printf("%s: no target %q\n", s.name(e), pt.Name)
			return
		}
		from, okFrom := nm.Graph.PlatformAt(t.Position())
		to, okTo := nm.Graph.PlatformAt(target)
		if !okFrom || !okTo {
			fmt.Printf("%s: agent or target is not above a platform\n", s.name(e))
			return
		}
		route, err := nm.Graph.FindRoute(from, to, t.X, common.StepBudget(1000))
		if err != nil {
			fmt.Printf("%s: %v\n", s.name(e), err)
			return
		}
		fmt.Printf("%s:", s.name(e))
		for _, c := range route {
			fmt.Printf(" %s->%d", c.Type, c.To.ID)
		}
		fmt.Println()
	})
	return nil
}

func namedTarget(w *ecs.World, name string) (pos cp.Vector, ok bool) {
	ecs.ForEach2(w, component.TargetTagComponent.Kind(), component.TransformComponent.Kind(), func(_ ecs.Entity, tag *component.TargetTag, t *component.Transform) {
		if ok || (name != "" && tag.Name != name) {
			return
		}
		pos, ok = t.Position(), true
	})
	return pos, ok
}
