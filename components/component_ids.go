package components

import (
	"cave-rogue/ecs"
)

// Define component IDs for agents living on a floor
const (
	Position ecs.ComponentID = iota
	Collision
	AI
	Name
	Spawn
)

// Entity tags
const (
	TagPlayer = "player"
	TagEnemy  = "enemy"
	TagBoss   = "boss"
	TagAI     = "ai"
)
