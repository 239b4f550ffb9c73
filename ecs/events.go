package ecs

// EventType names a world event.
type EventType string

const (
	EventNavMeshBuilt     EventType = "nav_mesh_built"
	EventNavMeshFailed    EventType = "nav_mesh_failed"
	EventNavRefreshed     EventType = "nav_refreshed"
	EventAgentArrived     EventType = "agent_arrived"
	EventAgentTeleported  EventType = "agent_teleported"
	EventAgentDisabled    EventType = "agent_disabled"
	EventTargetScriptFail EventType = "target_script_failed"
)

// Event is a world event payload.
type Event struct {
	Type   EventType
	Entity Entity
	Data   any
}

// EventQueue is a simple FIFO queue.
type EventQueue struct {
	items []Event
}

// Push adds an event.
func (q *EventQueue) Push(evt Event) {
	if q == nil {
		return
	}
	q.items = append(q.items, evt)
}

// Len returns the number of queued events.
func (q *EventQueue) Len() int {
	if q == nil {
		return 0
	}
	return len(q.items)
}

// Drain returns all events and clears the queue.
func (q *EventQueue) Drain() []Event {
	if q == nil || len(q.items) == 0 {
		return nil
	}
	out := q.items
	q.items = nil
	return out
}
