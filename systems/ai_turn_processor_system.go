package systems

import (
	"slices"

	"cave-rogue/components"
	"cave-rogue/ecs"
	"cave-rogue/spatial"
)

// Reasons a planned step is dropped
const (
	BlockedByWall     = "wall"
	BlockedByOccupant = "occupied"
	BlockedByClaim    = "claimed"
)

// ApplyResult counts the outcome of an apply phase
type ApplyResult struct {
	Moved   int
	Blocked int
}

// AITurnProcessor is the apply phase of a tick: planned steps are applied in
// ascending entity id order against the live occupancy grid
type AITurnProcessor struct{}

// NewAITurnProcessor creates a new AI turn processor
func NewAITurnProcessor() *AITurnProcessor {
	return &AITurnProcessor{}
}

// Apply moves agents according to intents. A step onto a wall, onto a tile
// holding a blocking entity, or onto a tile another agent already entered
// this tick is dropped and the agent waits.
func (p *AITurnProcessor) Apply(world *ecs.World, grid *components.TileGrid, occupancy *spatial.HashGrid, intents []MoveIntent) ApplyResult {
	ordered := slices.Clone(intents)
	slices.SortStableFunc(ordered, func(a, b MoveIntent) int {
		switch {
		case a.EntityID < b.EntityID:
			return -1
		case a.EntityID > b.EntityID:
			return 1
		default:
			return 0
		}
	})

	var result ApplyResult
	claimed := make(map[components.Point]bool, len(ordered))

	for _, intent := range ordered {
		posComp, hasPos := world.GetComponent(intent.EntityID, components.Position)
		if !hasPos {
			continue
		}
		pos := posComp.(*components.PositionComponent)
		if pos.Point() != intent.From {
			continue
		}

		reason := ""
		switch {
		case !grid.IsWalkablePoint(intent.To):
			reason = BlockedByWall
		case claimed[intent.To]:
			reason = BlockedByClaim
		case occupancy.Occupied(intent.To):
			reason = BlockedByOccupant
		}
		if reason != "" {
			result.Blocked++
			world.EmitEvent(MoveBlockedEvent{EntityID: intent.EntityID, To: intent.To, Reason: reason})
			continue
		}

		if blocks(world, intent.EntityID) {
			if !occupancy.Move(intent.EntityID, intent.From, intent.To) {
				occupancy.Insert(intent.EntityID, intent.To)
			}
		}
		pos.Set(intent.To)
		claimed[intent.To] = true
		result.Moved++

		world.EmitEvent(EntityMoveEvent{EntityID: intent.EntityID, From: intent.From, To: intent.To})
	}

	return result
}

func blocks(world *ecs.World, id ecs.EntityID) bool {
	collComp, ok := world.GetComponent(id, components.Collision)
	return ok && collComp.(*components.CollisionComponent).Blocks
}
