package system

import (
	"github.com/charmbracelet/log"
	"github.com/milk9111/npcnav/ecs"
	"github.com/milk9111/npcnav/ecs/component"
)

// DynamicNavSystem registers dynamic nav elements with the nav mesh once the
// grid exists. Each element is registered at most once.
type DynamicNavSystem struct {
	log *log.Logger
}

func NewDynamicNavSystem() *DynamicNavSystem {
	return &DynamicNavSystem{log: log.WithPrefix("dynamic-nav")}
}

func (s *DynamicNavSystem) Update(w *ecs.World) {
	nm, ok := ActiveNavMesh(w)
	if !ok {
		return
	}

	ecs.ForEach(w, component.DynamicNavElementComponent.Kind(), func(e ecs.Entity, d *component.DynamicNavElement) {
		if d == nil || d.Registered {
			return
		}
		d.Registered = true
		d.Region = nm.Grid.RegionFromWorld(d.Min, d.Max)
		if err := nm.Grid.RegisterDynamicRegion(d.Region); err != nil {
			s.log.Warn("dynamic region ignored", "entity", e, "min", d.Min, "max", d.Max, "err", err)
			return
		}
		s.log.Debug("dynamic region registered", "entity", e, "cells", d.Region.Cells())
	})
}
