package ecs

import (
	"errors"
	"testing"
	"time"

	"github.com/milk9111/npcnav/ecs/component"
)

func intPtr(i int) *int {
	return &i
}

func TestEntityLifecycle(t *testing.T) {
	cases := []struct {
		name         string
		create       int
		destroyIndex int // -1 = none
	}{
		{"single", 1, 0},
		{"three_destroy_middle", 3, 1},
		{"none_destroyed", 2, -1},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := NewWorld()
			ents := make([]Entity, 0, c.create)
			for i := 0; i < c.create; i++ {
				ents = append(ents, CreateEntity(w))
			}
			if len(Entities(w)) != c.create {
				t.Fatalf("expected %d entities, got %d", c.create, len(Entities(w)))
			}
			if c.destroyIndex < 0 {
				return
			}
			dead := ents[c.destroyIndex]
			if !DestroyEntity(w, dead) {
				t.Fatalf("DestroyEntity should return true for alive entity")
			}
			if IsAlive(w, dead) || DestroyEntity(w, dead) {
				t.Fatalf("entity should be dead after destruction")
			}

			// The id is reused with a new generation; the old handle stays dead.
			fresh := CreateEntity(w)
			if fresh.id() != dead.id() || fresh == dead {
				t.Fatalf("expected id %d reused with a new generation, got %v", dead.id(), fresh)
			}
			if IsAlive(w, dead) || !IsAlive(w, fresh) {
				t.Fatalf("stale handle must not alias the new entity")
			}
		})
	}
}

func TestComponents(t *testing.T) {
	w := NewWorld()
	h := component.NewComponent[int]()
	e := CreateEntity(w)

	cases := []struct {
		name string
		run  func(t *testing.T)
	}{
		{"add_get", func(t *testing.T) {
			if err := Add(w, e, h.Kind(), intPtr(10)); err != nil {
				t.Fatalf("add: %v", err)
			}
			v, ok := Get(w, e, h.Kind())
			if !ok || *v != 10 {
				t.Fatalf("expected 10, got %v ok=%v", v, ok)
			}
		}},
		{"pointer_is_shared", func(t *testing.T) {
			v, _ := Get(w, e, h.Kind())
			*v = 11
			if got, _ := Get(w, e, h.Kind()); *got != 11 {
				t.Fatalf("expected in-place update, got %d", *got)
			}
		}},
		{"nil_value", func(t *testing.T) {
			if err := Add[int](w, e, h.Kind(), nil); !errors.Is(err, component.ErrNilComponent) {
				t.Fatalf("expected ErrNilComponent, got %v", err)
			}
		}},
		{"invalid_kind", func(t *testing.T) {
			if err := Add(w, e, component.ComponentKind[int]{}, intPtr(1)); !errors.Is(err, component.ErrInvalidComponentKind) {
				t.Fatalf("expected ErrInvalidComponentKind, got %v", err)
			}
		}},
		{"remove", func(t *testing.T) {
			if !Remove(w, e, h.Kind()) || Has(w, e, h.Kind()) || Remove(w, e, h.Kind()) {
				t.Fatalf("remove should succeed exactly once")
			}
		}},
		{"dead_entity", func(t *testing.T) {
			dead := CreateEntity(w)
			DestroyEntity(w, dead)
			if err := Add(w, dead, h.Kind(), intPtr(1)); !errors.Is(err, component.ErrEntityNotAlive) {
				t.Fatalf("expected ErrEntityNotAlive, got %v", err)
			}
		}},
	}
	for _, c := range cases {
		t.Run(c.name, c.run)
	}
}

func TestComponentKindNames(t *testing.T) {
	if got := component.TransformComponent.Kind().String(); got != "component.Transform" {
		t.Fatalf("unexpected kind name %q", got)
	}
	if got := (component.ComponentKind[int]{}).String(); got != "invalid" {
		t.Fatalf("zero kind should be invalid, got %q", got)
	}
}

func TestDestroyClearsComponents(t *testing.T) {
	w := NewWorld()
	h := component.NewComponent[int]()
	e := CreateEntity(w)
	if err := Add(w, e, h.Kind(), intPtr(1)); err != nil {
		t.Fatal(err)
	}
	DestroyEntity(w, e)

	fresh := CreateEntity(w)
	if Has(w, fresh, h.Kind()) {
		t.Fatalf("reused id inherited a component")
	}
}

func TestFirst(t *testing.T) {
	w := NewWorld()
	h := component.NewComponent[int]()
	if _, ok := First(w, h.Kind()); ok {
		t.Fatalf("expected no entity in an empty world")
	}

	CreateEntity(w) // no component
	e2 := CreateEntity(w)
	e3 := CreateEntity(w)
	for _, e := range []Entity{e3, e2} {
		if err := Add(w, e, h.Kind(), intPtr(int(e.id()))); err != nil {
			t.Fatal(err)
		}
	}

	got, ok := First(w, h.Kind())
	if !ok || got != e2 {
		t.Fatalf("expected e2 (lowest id), got %v ok=%v", got, ok)
	}
}

func TestForEachQueries(t *testing.T) {
	w := NewWorld()
	ka := component.NewComponentKind[int]()
	kb := component.NewComponentKind[int]()
	kc := component.NewComponentKind[int]()
	kd := component.NewComponentKind[int]()

	e1 := CreateEntity(w)
	e2 := CreateEntity(w)
	e3 := CreateEntity(w)

	adds := []struct {
		e    Entity
		kind component.ComponentKind[int]
	}{
		{e1, ka}, {e2, ka}, {e2, kb}, {e2, kc}, {e2, kd}, {e3, kb}, {e3, kc},
	}
	for _, a := range adds {
		if err := Add(w, a.e, a.kind, intPtr(1)); err != nil {
			t.Fatal(err)
		}
	}

	cases := []struct {
		name string
		run  func(fn func(Entity))
		want []Entity
	}{
		{"one", func(fn func(Entity)) { ForEach(w, ka, func(e Entity, _ *int) { fn(e) }) }, []Entity{e1, e2}},
		{"two", func(fn func(Entity)) { ForEach2(w, kb, kc, func(e Entity, _, _ *int) { fn(e) }) }, []Entity{e2, e3}},
		{"three", func(fn func(Entity)) { ForEach3(w, ka, kb, kc, func(e Entity, _, _, _ *int) { fn(e) }) }, []Entity{e2}},
		{"four", func(fn func(Entity)) { ForEach4(w, ka, kb, kc, kd, func(e Entity, _, _, _, _ *int) { fn(e) }) }, []Entity{e2}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := map[Entity]bool{}
			c.run(func(e Entity) { got[e] = true })
			if len(got) != len(c.want) {
				t.Fatalf("expected %v, got %v", c.want, got)
			}
			for _, e := range c.want {
				if !got[e] {
					t.Fatalf("missing %v in %v", e, got)
				}
			}
		})
	}
}

func TestForEachToleratesRemoval(t *testing.T) {
	w := NewWorld()
	h := component.NewComponent[int]()
	for i := 0; i < 4; i++ {
		if err := Add(w, CreateEntity(w), h.Kind(), intPtr(i)); err != nil {
			t.Fatal(err)
		}
	}

	visited := 0
	ForEach(w, h.Kind(), func(e Entity, _ *int) {
		visited++
		DestroyEntity(w, e)
	})
	if visited != 4 || len(Entities(w)) != 0 {
		t.Fatalf("visited %d, %d entities left", visited, len(Entities(w)))
	}
}

type countingSystem struct {
	updates int
	dt      time.Duration
	frame   uint64
}

func (s *countingSystem) Update(w *World) {
	s.updates++
	s.dt = w.Delta()
	s.frame = w.Frame()
}

func TestSchedulerUpdate(t *testing.T) {
	w := NewWorld()
	a, b := &countingSystem{}, &countingSystem{}
	s := NewScheduler(a, nil, b)
	if len(s.Systems()) != 2 {
		t.Fatalf("nil systems must be skipped, got %d", len(s.Systems()))
	}

	s.Update(w, 16*time.Millisecond)
	s.Update(w, 20*time.Millisecond)
	if a.updates != 2 || b.updates != 2 {
		t.Fatalf("expected 2 updates each, got %d/%d", a.updates, b.updates)
	}
	if b.dt != 20*time.Millisecond || b.frame != 1 || w.Frame() != 2 {
		t.Fatalf("unexpected frame state dt=%v frame=%d world=%d", b.dt, b.frame, w.Frame())
	}
}

func TestEventQueueDrain(t *testing.T) {
	w := NewWorld()
	q := w.Events()
	q.Push(Event{Type: EventAgentArrived})
	q.Push(Event{Type: EventAgentTeleported})
	if q.Len() != 2 {
		t.Fatalf("expected 2 events, got %d", q.Len())
	}
	got := q.Drain()
	if len(got) != 2 || got[0].Type != EventAgentArrived || q.Len() != 0 {
		t.Fatalf("unexpected drain %v (left %d)", got, q.Len())
	}
	if q.Drain() != nil {
		t.Fatalf("empty queue should drain to nil")
	}
}
