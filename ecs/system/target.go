package system

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/npcnav/ecs"
	"github.com/milk9111/npcnav/ecs/component"
)

// resolveTarget returns the position an agent entity should follow: its
// script goal if set, otherwise the tagged target named by its PathTarget,
// otherwise the first tagged target.
func resolveTarget(w *ecs.World, e ecs.Entity) (cp.Vector, bool) {
	if pa, ok := ecs.Get(w, e, component.PathingAgentComponent.Kind()); ok && pa.HasGoal {
		return pa.Goal, true
	}
	return taggedTarget(w, e)
}

func taggedTarget(w *ecs.World, e ecs.Entity) (cp.Vector, bool) {
	want := ""
	if pt, ok := ecs.Get(w, e, component.PathTargetComponent.Kind()); ok {
		want = pt.Name
	}

	var (
		pos   cp.Vector
		found bool
	)
	ecs.ForEach2(w, component.TargetTagComponent.Kind(), component.TransformComponent.Kind(), func(te ecs.Entity, tag *component.TargetTag, t *component.Transform) {
		if found || te == e {
			return
		}
		if want != "" && tag.Name != want {
			return
		}
		pos, found = t.Position(), true
	})
	return pos, found
}

func entityName(w *ecs.World, e ecs.Entity) string {
	if n, ok := ecs.Get(w, e, component.NameComponent.Kind()); ok && n.Value != "" {
		return n.Value
	}
	return e.String()
}
