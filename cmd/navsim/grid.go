package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/milk9111/npcnav/ecs"
	"github.com/milk9111/npcnav/ecs/component"
	"github.com/milk9111/npcnav/ecs/system"
	"github.com/milk9111/npcnav/navmesh"
)

var gridCmd = &cobra.Command{
	Use:   "grid",
	Short: "Print the nav mesh of a level",
	Long: `Builds the level's nav mesh and prints it top row first:

  #  blocked    _  landing    .  air
  A  agent      T  target     M  mover`,
	RunE: runGrid,
}

func runGrid(cmd *cobra.Command, args []string) error {
	s, err := newSim(flagLevel, flagFPS)
	if err != nil {
		return err
	}
	nm, err := s.buildNavMesh(10000)
	if err != nil {
		return err
	}

	marks := map[navmesh.Cell]byte{}
	ecs.ForEach2(s.world, component.PathingAgentComponent.Kind(), component.TransformComponent.Kind(), func(_ ecs.Entity, _ *component.PathingAgent, t *component.Transform) {
		marks[nm.Grid.WorldToCell(t.Position())] = 'A'
	})
	ecs.ForEach2(s.world, component.TargetTagComponent.Kind(), component.TransformComponent.Kind(), func(_ ecs.Entity, _ *component.TargetTag, t *component.Transform) {
		marks[nm.Grid.WorldToCell(t.Position())] = 'T'
	})

	fmt.Printf("%s: %dx%d cells of %.2f\n", s.level.Name, nm.Grid.Width(), nm.Grid.Height(), nm.Grid.CellSize())
	var sb strings.Builder
	for y := nm.Grid.Height() - 1; y >= 0; y-- {
		for x := 0; x < nm.Grid.Width(); x++ {
			c := navmesh.Cell{X: x, Y: y}
			sb.WriteByte(cellGlyph(s, nm.Grid, c, marks))
		}
		sb.WriteByte('\n')
	}
	fmt.Print(sb.String())
	fmt.Printf("dynamic regions: %d\n", len(nm.Grid.DynamicRegions()))
	return nil
}

func cellGlyph(s *sim, g *navmesh.Grid, c navmesh.Cell, marks map[navmesh.Cell]byte) byte {
	if m, ok := marks[c]; ok {
		return m
	}
	switch {
	case system.MoverAt(s.world, g.CellToWorld(c)):
		return 'M'
	case !g.IsPassable(c):
		return '#'
	case g.IsLanding(c):
		return '_'
	}
	return '.'
}
