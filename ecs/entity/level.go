package entity

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/npcnav/ecs"
	"github.com/milk9111/npcnav/ecs/component"
	"github.com/milk9111/npcnav/levels"
	"github.com/milk9111/npcnav/prefabs"
)

var logger = log.WithPrefix("entity")

// edgeInset pulls an outer box edge back inside the last cell it covers.
const edgeInset = 1e-6

func SetLogger(l *log.Logger) {
	if l == nil {
		return
	}
	logger = l
}

// buildContext carries what every level entity builder needs.
type buildContext struct {
	level *levels.Level
	pw    *ecs.PhysicsWorld
	agent prefabs.PathingAgentSpec
}

type entityBuildFn func(w *ecs.World, e ecs.Entity, ent levels.Entity, ctx *buildContext) error

var entityRegistry = map[string]entityBuildFn{
	"pathing_agent": addPathingAgent,
	"target":        addTarget,
	"mover":         addMover,
	"dynamic_nav":   addDynamicNav,
}

// LoadLevelToWorld attaches a physics world for lvl to w and creates the
// level bounds, the nav mesh and one entity per level entity.
func LoadLevelToWorld(w *ecs.World, lvl *levels.Level) error {
	if w == nil || lvl == nil {
		return fmt.Errorf("entity: nil world or level")
	}

	pw := ecs.NewPhysicsWorld(lvl)
	w.SetPhysicsWorld(pw)

	b := lvl.Bounds()
	if err := ecs.Add(w, ecs.CreateEntity(w), component.LevelBoundsComponent.Kind(), &component.LevelBounds{BB: b}); err != nil {
		return err
	}

	if _, err := NewNavMesh(w, b); err != nil {
		return err
	}

	agentSpec, err := prefabs.LoadPathingAgentSpec()
	if err != nil {
		return err
	}
	ctx := &buildContext{level: lvl, pw: pw, agent: agentSpec}

	for i, ent := range lvl.Entities {
		build, ok := entityRegistry[strings.ToLower(ent.Type)]
		if !ok {
			logger.Warn("unknown level entity", "level", lvl.Name, "index", i, "type", ent.Type)
			continue
		}
		e := ecs.CreateEntity(w)
		if name := ent.PropString("name", ""); name != "" {
			if err := ecs.Add(w, e, component.NameComponent.Kind(), &component.Name{Value: name}); err != nil {
				return err
			}
		}
		if err := ecs.Add(w, e, component.TransformComponent.Kind(), transformAt(lvl.Position(ent))); err != nil {
			return err
		}
		if err := build(w, e, ent, ctx); err != nil {
			return fmt.Errorf("entity: %s #%d: %w", ent.Type, i, err)
		}
	}

	logger.Info("level loaded", "level", lvl.Name, "entities", len(lvl.Entities), "static_shapes", len(pw.StaticShapes()))
	return nil
}

// NewNavMesh creates the nav mesh entity for a level spanning bounds, using
// the nav_mesh and platform_graph prefabs.
func NewNavMesh(w *ecs.World, bounds cp.BB) (ecs.Entity, error) {
	spec, err := prefabs.LoadNavMeshSpec()
	if err != nil {
		return 0, err
	}
	graphSpec, err := prefabs.LoadPlatformGraphSpec()
	if err != nil {
		return 0, err
	}

	e := ecs.CreateEntity(w)
	err = ecs.Add(w, e, component.NavMeshComponent.Kind(), &component.NavMesh{
		Config:         spec.GridConfig(bounds),
		Incremental:    spec.Incremental,
		BuildSlice:     spec.BuildSlice(),
		BuildSteps:     spec.BuildSteps,
		RefreshSlice:   spec.RefreshSlice(),
		RefreshSteps:   spec.RefreshSteps,
		PlatformGraph:  spec.PlatformGraph,
		PlatformConfig: graphSpec.Config(),
	})
	if err != nil {
		return 0, err
	}
	return e, nil
}

func addPathingAgent(w *ecs.World, e ecs.Entity, ent levels.Entity, ctx *buildContext) error {
	spec, err := prefabs.DecodeOverrides(ctx.agent, ent.Props["config"])
	if err != nil {
		return err
	}
	cfg, err := spec.Config()
	if err != nil {
		return err
	}

	if err := ecs.Add(w, e, component.PathingAgentComponent.Kind(), &component.PathingAgent{
		Config:        cfg,
		StepsPerFrame: spec.StepsPerFrame,
	}); err != nil {
		return err
	}
	if err := ecs.Add(w, e, component.PathTargetComponent.Kind(), &component.PathTarget{
		Name: ent.PropString("target", ""),
	}); err != nil {
		return err
	}

	script := ent.PropString("script", spec.Script)
	if script == "" {
		return nil
	}
	return ecs.Add(w, e, component.TargetScriptComponent.Kind(), &component.TargetScript{Path: script})
}

func addTarget(w *ecs.World, e ecs.Entity, ent levels.Entity, _ *buildContext) error {
	return ecs.Add(w, e, component.TargetTagComponent.Kind(), &component.TargetTag{
		Name: ent.PropString("name", ""),
	})
}

// addMover builds a solid moving box covering w by h tiles from the entity
// tile to (to_x, to_y). The whole sweep is registered as a dynamic region.
func addMover(w *ecs.World, e ecs.Entity, ent levels.Entity, ctx *buildContext) error {
	lvl := ctx.level
	tw := ent.PropFloat("w", 1)
	th := ent.PropFloat("h", 1)
	size := cp.Vector{X: tw * lvl.TileSize, Y: th * lvl.TileSize}

	from := lvl.TilePoint(float64(ent.X)+(tw-1)/2, float64(ent.Y)+(th-1)/2)
	to := lvl.TilePoint(ent.PropFloat("to_x", float64(ent.X))+(tw-1)/2, ent.PropFloat("to_y", float64(ent.Y))+(th-1)/2)

	t, _ := ecs.Get(w, e, component.TransformComponent.Kind())
	t.SetPosition(from)

	m := &component.Mover{
		From:    from,
		To:      to,
		Speed:   ent.PropFloat("speed", 1),
		Wait:    time.Duration(ent.PropFloat("wait", 0) * float64(time.Second)),
		Size:    size,
		Forward: true,
	}
	if ent.PropBool("solid", true) {
		m.Body = ctx.pw.AddKinematicBox(from, size, ecs.LayerGround)
	}
	if err := ecs.Add(w, e, component.MoverComponent.Kind(), m); err != nil {
		return err
	}

	// Max is the outer edge of the sweep, which belongs to the next cell over.
	half := size.Mult(0.5)
	return ecs.Add(w, e, component.DynamicNavElementComponent.Kind(), &component.DynamicNavElement{
		Min: cp.Vector{X: min(from.X, to.X) - half.X, Y: min(from.Y, to.Y) - half.Y},
		Max: cp.Vector{X: max(from.X, to.X) + half.X - edgeInset, Y: max(from.Y, to.Y) + half.Y - edgeInset},
	})
}

// addDynamicNav marks w by h tiles starting at the entity tile (top-left) for
// continuous re-sampling.
func addDynamicNav(w *ecs.World, e ecs.Entity, ent levels.Entity, ctx *buildContext) error {
	lvl := ctx.level
	tw := ent.PropFloat("w", 1)
	th := ent.PropFloat("h", 1)
	a := lvl.TilePoint(float64(ent.X), float64(ent.Y))
	b := lvl.TilePoint(float64(ent.X)+tw-1, float64(ent.Y)+th-1)
	return ecs.Add(w, e, component.DynamicNavElementComponent.Kind(), &component.DynamicNavElement{
		Min: cp.Vector{X: min(a.X, b.X), Y: min(a.Y, b.Y)},
		Max: cp.Vector{X: max(a.X, b.X), Y: max(a.Y, b.Y)},
	})
}

func transformAt(p cp.Vector) *component.Transform {
	return &component.Transform{X: p.X, Y: p.Y}
}
