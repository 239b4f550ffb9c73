package system

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/npcnav/ecs"
	"github.com/milk9111/npcnav/ecs/component"
)

// MoverSystem moves platforms back and forth between their endpoints,
// pausing for Wait at each end. Movers with a body push it to the physics
// world so nav mesh refreshes see the new position.
type MoverSystem struct{}

func NewMoverSystem() *MoverSystem {
	return &MoverSystem{}
}

func (s *MoverSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	dt := w.Delta()
	pw := w.PhysicsWorld()

	ecs.ForEach2(w, component.MoverComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, m *component.Mover, t *component.Transform) {
		if m == nil || t == nil || m.Speed <= 0 {
			return
		}

		if m.Waited < m.Wait {
			m.Waited += dt
			return
		}

		dest := m.To
		if !m.Forward {
			dest = m.From
		}
		pos := t.Position()
		step := m.Speed * dt.Seconds()
		delta := dest.Sub(pos)
		if dist := delta.Length(); dist <= step {
			pos = dest
			m.Forward = !m.Forward
			m.Waited = 0
			m.Trips++
		} else {
			pos = pos.Add(delta.Mult(step / dist))
		}

		t.SetPosition(pos)
		if m.Body != nil {
			pw.MoveBody(m.Body, pos)
		}
	})
}

// MoverAt reports whether any mover's box covers p. Used by tools that
// render the level.
func MoverAt(w *ecs.World, p cp.Vector) bool {
	hit := false
	ecs.ForEach2(w, component.MoverComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, m *component.Mover, t *component.Transform) {
		half := m.Size.Mult(0.5)
		c := t.Position()
		if p.X >= c.X-half.X && p.X <= c.X+half.X && p.Y >= c.Y-half.Y && p.Y <= c.Y+half.Y {
			hit = true
		}
	})
	return hit
}
