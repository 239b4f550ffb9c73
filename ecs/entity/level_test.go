package entity

import (
	"testing"

	"github.com/milk9111/npcnav/ecs"
	"github.com/milk9111/npcnav/ecs/component"
	"github.com/milk9111/npcnav/levels"
)

func count[T any](w *ecs.World, kind component.ComponentKind[T]) int {
	n := 0
	ecs.ForEach(w, kind, func(ecs.Entity, *T) { n++ })
	return n
}

func TestLoadDemoLevel(t *testing.T) {
	lvl, err := levels.LoadLevelFromFS("demo.json")
	if err != nil {
		t.Fatalf("load level: %v", err)
	}
	w := ecs.NewWorld()
	if err := LoadLevelToWorld(w, lvl); err != nil {
		t.Fatalf("LoadLevelToWorld: %v", err)
	}
	if w.PhysicsWorld() == nil {
		t.Fatalf("physics world not attached")
	}

	cases := []struct {
		name string
		got  int
		want int
	}{
		{"agents", count(w, component.PathingAgentComponent.Kind()), 3},
		{"targets", count(w, component.TargetTagComponent.Kind()), 1},
		{"scripts", count(w, component.TargetScriptComponent.Kind()), 2},
		{"movers", count(w, component.MoverComponent.Kind()), 1},
		{"dynamic_nav", count(w, component.DynamicNavElementComponent.Kind()), 2},
		{"nav_mesh", count(w, component.NavMeshComponent.Kind()), 1},
		{"level_bounds", count(w, component.LevelBoundsComponent.Kind()), 1},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if c.got != c.want {
				t.Fatalf("expected %d, got %d", c.want, c.got)
			}
		})
	}

	ecs.ForEach(w, component.MoverComponent.Kind(), func(_ ecs.Entity, m *component.Mover) {
		if m.Body == nil {
			t.Fatalf("solid mover needs a body")
		}
		// A 2x1 mover placed at top-first tile (2,6) in a 12-row level.
		if m.From.X != 3 || m.From.Y != 5.5 || m.To.X != 7 {
			t.Fatalf("unexpected mover endpoints %v -> %v", m.From, m.To)
		}
	})
}

func TestLoadLevelAppliesConfigOverrides(t *testing.T) {
	lvl := &levels.Level{
		Name:     "override",
		Width:    4,
		Height:   2,
		TileSize: 1,
		Layers:   [][]int{{0, 0, 0, 0, 1, 1, 1, 1}},
		Entities: []levels.Entity{
			{Type: "pathing_agent", Props: map[string]interface{}{
				"name":   "jumper",
				"config": map[string]interface{}{"max_jump": 6.0, "speed": 2.0},
			}},
			{Type: "unknown_thing"},
		},
	}
	w := ecs.NewWorld()
	if err := LoadLevelToWorld(w, lvl); err != nil {
		t.Fatalf("LoadLevelToWorld: %v", err)
	}

	ecs.ForEach(w, component.PathingAgentComponent.Kind(), func(_ ecs.Entity, pa *component.PathingAgent) {
		if pa.Config.MaxJump != 6 || pa.Config.Speed != 2 {
			t.Fatalf("overrides not applied: %+v", pa.Config)
		}
		if pa.Config.MaxDrop != 4 {
			t.Fatalf("prefab value lost: max_drop=%d", pa.Config.MaxDrop)
		}
	})
	// Unknown entity types are skipped rather than created.
	if n := count(w, component.TransformComponent.Kind()); n != 1 {
		t.Fatalf("expected 1 transform, got %d", n)
	}
}

func TestLoadLevelRejectsInvalidAgentConfig(t *testing.T) {
	lvl := &levels.Level{
		Name: "bad", Width: 2, Height: 1, TileSize: 1,
		Layers: [][]int{{0, 0}},
		Entities: []levels.Entity{
			{Type: "pathing_agent", Props: map[string]interface{}{"config": map[string]interface{}{"speed": -1.0}}},
		},
	}
	if err := LoadLevelToWorld(ecs.NewWorld(), lvl); err == nil {
		t.Fatalf("expected an invalid config error")
	}
}
