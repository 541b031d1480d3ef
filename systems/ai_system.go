package systems

import (
	"math/rand/v2"

	"cave-rogue/components"
	"cave-rogue/ecs"
)

// PathRetryInterval is how many ticks a pursuing agent whose last search
// failed waits before searching again
const PathRetryInterval = 4

// MoveIntent is a step an agent wants to take this tick
type MoveIntent struct {
	EntityID ecs.EntityID
	From     components.Point
	To       components.Point
	State    components.AIState
}

// AISystem is the query phase of a tick: every agent decides its next step
// against the same grid and occupancy snapshot, without moving anyone
type AISystem struct {
	pathfinder *Pathfinder
	rng        *rand.Rand
}

// NewAISystem creates an AI system planning with pathfinder. rng drives
// wandering and must be the session's seeded source for reproducible runs.
func NewAISystem(pathfinder *Pathfinder, rng *rand.Rand) *AISystem {
	return &AISystem{
		pathfinder: pathfinder,
		rng:        rng,
	}
}

// Plan returns the move intents of every AI agent in ascending entity id
// order. Agents that hold position produce no intent.
func (s *AISystem) Plan(world *ecs.World, grid *components.TileGrid, snapshot Occupancy) []MoveIntent {
	var intents []MoveIntent

	for _, entity := range world.GetEntitiesWithTag(components.TagAI) {
		aiComp, hasAI := world.GetComponent(entity.ID, components.AI)
		if !hasAI {
			continue
		}
		ai := aiComp.(*components.AIComponent)

		posComp, hasPos := world.GetComponent(entity.ID, components.Position)
		if !hasPos {
			continue
		}
		pos := posComp.(*components.PositionComponent).Point()

		origin := pos
		if spawnComp, ok := world.GetComponent(entity.ID, components.Spawn); ok {
			origin = spawnComp.(*components.SpawnComponent).Origin
		}

		if step, ok := s.planAgent(world, grid, snapshot, ai, pos, origin); ok {
			intents = append(intents, MoveIntent{
				EntityID: entity.ID,
				From:     pos,
				To:       step,
				State:    ai.State,
			})
		}
	}

	return intents
}

// planAgent updates ai's state and returns the tile it wants to enter
func (s *AISystem) planAgent(world *ecs.World, grid *components.TileGrid, snapshot Occupancy, ai *components.AIComponent, pos, origin components.Point) (components.Point, bool) {
	if ai.Behavior == components.AIPursue {
		if goal, ok := s.chooseGoal(world, grid, ai, pos); ok {
			if ai.NoPathTicks%PathRetryInterval != 0 {
				// Last search failed; wait for the next retry tick
				ai.NoPathTicks++
				ai.State = ai.Fallback
				return s.fallbackStep(grid, snapshot, ai, pos, origin)
			}
			step, found := s.pathfinder.NextStep(grid, snapshot, pos, goal)
			if found {
				ai.NoPathTicks = 0
				ai.State = components.AIPursue
				if step == pos || !ai.CanStepTo(origin, step) {
					return components.Point{}, false
				}
				return step, true
			}
			// Unreachable for now; retry after PathRetryInterval ticks
			ai.NoPathTicks++
		}
		ai.State = ai.Fallback
	} else {
		ai.State = ai.Behavior
	}

	return s.fallbackStep(grid, snapshot, ai, pos, origin)
}

// fallbackStep runs the non-pursuit behaviour in ai.State
func (s *AISystem) fallbackStep(grid *components.TileGrid, snapshot Occupancy, ai *components.AIComponent, pos, origin components.Point) (components.Point, bool) {
	if ai.State == components.AIWander {
		return s.wanderStep(grid, snapshot, ai, pos, origin)
	}
	return components.Point{}, false
}

// chooseGoal returns the target's position when visible, otherwise the last
// place it was seen until the agent gets there
func (s *AISystem) chooseGoal(world *ecs.World, grid *components.TileGrid, ai *components.AIComponent, pos components.Point) (components.Point, bool) {
	if ai.Target != 0 {
		if targetComp, ok := world.GetComponent(ai.Target, components.Position); ok {
			target := targetComp.(*components.PositionComponent).Point()
			if CanSee(grid, pos, target, ai.SightRange) {
				ai.LastKnownTarget = target
				ai.HasLastKnown = true
				return target, true
			}
		}
	}

	if ai.HasLastKnown {
		if ai.LastKnownTarget == pos {
			ai.HasLastKnown = false
			return components.Point{}, false
		}
		return ai.LastKnownTarget, true
	}
	return components.Point{}, false
}

// wanderStep picks a random free orthogonal neighbour
func (s *AISystem) wanderStep(grid *components.TileGrid, snapshot Occupancy, ai *components.AIComponent, pos, origin components.Point) (components.Point, bool) {
	var validMoves []components.Point
	for _, d := range components.Cardinals {
		next := pos.Add(d)
		if !grid.IsWalkablePoint(next) || !ai.CanStepTo(origin, next) {
			continue
		}
		if snapshot != nil && snapshot.Occupied(next) {
			continue
		}
		validMoves = append(validMoves, next)
	}

	if len(validMoves) == 0 {
		return components.Point{}, false
	}
	return validMoves[s.rng.IntN(len(validMoves))], true
}
