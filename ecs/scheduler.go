package ecs

import "time"

type System interface {
	Update(w *World)
}

// Scheduler runs systems in registration order, once per frame.
type Scheduler struct {
	systems []System
}

func NewScheduler(systems ...System) *Scheduler {
	s := &Scheduler{}
	for _, system := range systems {
		s.Add(system)
	}
	return s
}

func (s *Scheduler) Add(system System) {
	if system == nil {
		return
	}
	s.systems = append(s.systems, system)
}

// Update advances w by one frame of length dt.
func (s *Scheduler) Update(w *World, dt time.Duration) {
	if w == nil {
		return
	}
	w.dt = dt
	for _, system := range s.systems {
		system.Update(w)
	}
	w.frame++
}

func (s *Scheduler) Systems() []System {
	systems := make([]System, 0, len(s.systems))
	return append(systems, s.systems...)
}
