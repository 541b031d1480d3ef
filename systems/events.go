package systems

import (
	"cave-rogue/components"
	"cave-rogue/ecs"
)

// Event type constants
const (
	EventLevelChanged ecs.EventType = "level_changed"
	EventEntityMove   ecs.EventType = "entity_move"
	EventMoveBlocked  ecs.EventType = "move_blocked"
	EventTickDone     ecs.EventType = "tick_done"
)

// LevelChangedEvent is emitted after a new floor has been generated and
// populated. Anything caching per-floor data must drop it.
type LevelChangedEvent struct {
	Level    int
	Seed     uint64
	Width    int
	Height   int
	Rooms    int
	Walkable int
}

// Type returns the event type
func (e LevelChangedEvent) Type() ecs.EventType {
	return EventLevelChanged
}

// EntityMoveEvent is emitted when an agent steps to a new tile
type EntityMoveEvent struct {
	EntityID ecs.EntityID
	From     components.Point
	To       components.Point
}

// Type returns the event type
func (e EntityMoveEvent) Type() ecs.EventType {
	return EventEntityMove
}

// MoveBlockedEvent is emitted when a planned step is dropped in the apply phase
type MoveBlockedEvent struct {
	EntityID ecs.EntityID
	To       components.Point
	Reason   string // "wall", "occupied" or "claimed"
}

// Type returns the event type
func (e MoveBlockedEvent) Type() ecs.EventType {
	return EventMoveBlocked
}

// TickDoneEvent summarizes one simulation tick
type TickDoneEvent struct {
	Tick    uint64
	Planned int
	Moved   int
	Blocked int
}

// Type returns the event type
func (e TickDoneEvent) Type() ecs.EventType {
	return EventTickDone
}
