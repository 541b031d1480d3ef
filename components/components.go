package components

import (
	"cave-rogue/ecs"
)

// PositionComponent stores entity position
type PositionComponent struct {
	X, Y int
}

// Point returns the position as a tile coordinate
func (p *PositionComponent) Point() Point {
	return Point{X: p.X, Y: p.Y}
}

// Set moves the component to pt
func (p *PositionComponent) Set(pt Point) {
	p.X, p.Y = pt.X, pt.Y
}

// CollisionComponent indicates entity can collide with other entities
type CollisionComponent struct {
	Blocks bool // Whether this entity blocks movement
}

// AIState is the behaviour an agent runs this tick
type AIState int

const (
	AIIdle   AIState = iota // stand still
	AIWander                // random orthogonal step
	AIPursue                // next step toward Target via the pathfinder
)

func (s AIState) String() string {
	switch s {
	case AIIdle:
		return "idle"
	case AIWander:
		return "wander"
	case AIPursue:
		return "pursue"
	default:
		return "unknown"
	}
}

// AIComponent stores AI behavior information
type AIComponent struct {
	State       AIState      // behaviour chosen on the latest tick
	Behavior    AIState      // behaviour while the target is noticed
	Fallback    AIState      // behaviour otherwise, or when no path exists
	SightRange  int          // Manhattan distance at which the target is noticed
	LeashRadius int          // max Manhattan distance from the spawn point, 0 = unbounded
	Target      ecs.EntityID // entity pursued, usually the player

	LastKnownTarget Point
	HasLastKnown    bool

	// NoPathTicks counts consecutive ticks without a path; reset on success.
	// While it is non-zero the agent only searches every few ticks.
	NoPathTicks int
}

// SpawnComponent remembers where an entity entered the floor
type SpawnComponent struct {
	Origin Point
}

// CanStepTo applies the leash constraint for an agent spawned at origin
func (a *AIComponent) CanStepTo(origin, p Point) bool {
	if a.LeashRadius <= 0 {
		return true
	}
	return origin.Manhattan(p) <= a.LeashRadius
}
