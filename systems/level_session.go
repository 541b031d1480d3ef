package systems

import (
	"fmt"
	"math/rand/v2"

	"github.com/sirupsen/logrus"

	"cave-rogue/components"
	"cave-rogue/config"
	"cave-rogue/data"
	"cave-rogue/ecs"
	"cave-rogue/generation"
	"cave-rogue/logger"
	"cave-rogue/spatial"
	"cave-rogue/spawners"
)

// sessionStream is the second PCG word for spawn and wander randomness, so
// it never replays the floor generator's sequence
const sessionStream uint64 = 0x5851f42d4c957f2d

// TickResult summarizes one call to Tick
type TickResult struct {
	Tick    uint64
	Planned int
	Moved   int
	Blocked int
}

// LevelSession owns everything that lives for one floor: the grid, its room
// index, the occupancy grid, the agent world and the session RNG. The
// pathfinder and the event bus survive level changes; the pathfinder's cache
// is dropped on every LevelChangedEvent.
type LevelSession struct {
	cfg       config.Config
	templates *data.AgentTemplateManager
	log       logrus.FieldLogger

	events     *ecs.EventManager
	pathfinder *Pathfinder
	turns      *AITurnProcessor
	messages   *MessageLog

	// Per-level state, replaced by LoadLevel
	level     int
	seed      uint64
	grid      *components.TileGrid
	rooms     *generation.RoomIndex
	occupancy *spatial.HashGrid
	world     *ecs.World
	ai        *AISystem
	player    ecs.EntityID
	tick      uint64
}

// NewLevelSession validates cfg and creates a session with no level loaded.
// A nil templates manager uses the built-in templates; a nil log uses the
// package logger.
func NewLevelSession(cfg config.Config, templates *data.AgentTemplateManager, log logrus.FieldLogger) (*LevelSession, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if templates == nil {
		templates = data.NewDefaultTemplateManager()
	}
	if log == nil {
		log = logger.Log
	}

	pathfinder, err := NewPathfinderFromConfig(cfg.Pathfinding)
	if err != nil {
		return nil, err
	}
	pathfinder.SetLogger(log)

	s := &LevelSession{
		cfg:        cfg,
		templates:  templates,
		log:        log,
		events:     ecs.NewEventManager(),
		pathfinder: pathfinder,
		turns:      NewAITurnProcessor(),
		messages:   NewMessageLog(),
		level:      -1,
	}

	s.events.Subscribe(EventLevelChanged, func(ecs.Event) {
		s.pathfinder.Invalidate()
	})

	return s, nil
}

// LevelSeed returns the generator seed used for level
func (s *LevelSession) LevelSeed(level int) uint64 {
	return s.cfg.Generation.Seed + uint64(level)
}

// Start loads level 0
func (s *LevelSession) Start() error {
	return s.LoadLevel(0)
}

// NextLevel discards the current floor and loads the following one
func (s *LevelSession) NextLevel() error {
	return s.LoadLevel(s.level + 1)
}

// LoadLevel generates, indexes and populates a floor. On error the previous
// level stays active.
func (s *LevelSession) LoadLevel(level int) error {
	if level < 0 {
		return fmt.Errorf("load level %d: %w: level must not be negative", level, config.ErrInvalidConfiguration)
	}

	genCfg := s.cfg.Generation
	genCfg.Seed = s.LevelSeed(level)

	grid, err := generation.GenerateFloorWithLogger(genCfg, s.log)
	if err != nil {
		return fmt.Errorf("load level %d: generate floor: %w", level, err)
	}
	rooms := generation.BuildRoomIndex(grid)

	occupancy, err := spatial.NewHashGrid(s.cfg.Spatial.CellSize)
	if err != nil {
		return fmt.Errorf("load level %d: %w", level, err)
	}

	rng := rand.New(rand.NewPCG(genCfg.Seed, sessionStream))
	world := ecs.NewWorldWithEventManager(s.events)

	player, err := s.populate(world, grid, rooms, occupancy, rng)
	if err != nil {
		return fmt.Errorf("load level %d: %w", level, err)
	}

	s.level = level
	s.seed = genCfg.Seed
	s.grid = grid
	s.rooms = rooms
	s.occupancy = occupancy
	s.world = world
	s.ai = NewAISystem(s.pathfinder, rng)
	s.player = player
	s.tick = 0
	s.pathfinder.SetRoomIndex(grid, rooms)

	largest := 0
	if room, ok := rooms.LargestRoom(); ok {
		largest = room.Size
	}

	s.log.WithFields(logrus.Fields{
		"level":        level,
		"seed":         genCfg.Seed,
		"rooms":        rooms.Len(),
		"largest_room": largest,
		"agents":       len(world.GetEntitiesWithTag(components.TagAI)),
	}).Info("level loaded")
	s.messages.Addf("Floor %d (seed %d): %d caves, %d agents", level+1, genCfg.Seed, rooms.Len(), world.EntityCount())

	s.events.Emit(LevelChangedEvent{
		Level:    level,
		Seed:     genCfg.Seed,
		Width:    grid.Width,
		Height:   grid.Height,
		Rooms:    rooms.Len(),
		Walkable: grid.WalkableCount(),
	})

	return nil
}

// populate places the player in the largest room, the boss near that
// room's centre and enemies elsewhere in the player's room. A floor without
// walkable tiles gets no agents.
func (s *LevelSession) populate(world *ecs.World, grid *components.TileGrid, rooms *generation.RoomIndex, occupancy *spatial.HashGrid, rng *rand.Rand) (ecs.EntityID, error) {
	spawner := spawners.NewEntitySpawner(world, s.templates, occupancy)
	spawner.SetLogger(s.log)
	spawner.SetDefaultSightRange(config.DefaultSightRange)
	placer := spawners.NewPlacer(rng)

	playerPos, ok := placer.PlayerSpawn(rooms)
	if !ok {
		s.log.Warn("floor has no walkable tiles, level left empty")
		return 0, nil
	}
	player, err := spawner.CreatePlayer(playerPos)
	if err != nil {
		return 0, err
	}

	spawnCfg := s.cfg.Spawn
	if spawnCfg.SpawnBoss {
		if bossPos, ok := spawners.BossSpawn(rooms, occupancy); ok {
			if _, err := spawner.CreateBoss(bossPos, player.ID); err != nil {
				return 0, err
			}
		}
	}

	positions := placer.EnemySpawnPositions(grid, rooms, occupancy, playerPos,
		spawnCfg.EnemyCount, spawnCfg.MinPlayerDist, spawnCfg.Spacing, spawnCfg.MaxAttempts)
	for _, p := range positions {
		template := s.templates.ChooseEnemy(rng)
		if template == nil {
			break
		}
		if _, err := spawner.CreateEnemy(p, template.ID, player.ID); err != nil {
			return 0, err
		}
	}

	return player.ID, nil
}

// Tick advances every agent by at most one step: occupancy is snapshotted,
// all agents plan against the snapshot, then moves are applied in entity
// order
func (s *LevelSession) Tick() TickResult {
	if s.grid == nil {
		return TickResult{}
	}

	snapshot := s.occupancy.Snapshot()
	intents := s.ai.Plan(s.world, s.grid, snapshot)
	applied := s.turns.Apply(s.world, s.grid, s.occupancy, intents)
	s.tick++

	result := TickResult{
		Tick:    s.tick,
		Planned: len(intents),
		Moved:   applied.Moved,
		Blocked: applied.Blocked,
	}

	stats := s.pathfinder.Stats()
	s.log.WithFields(logrus.Fields{
		"level":      s.level,
		"tick":       s.tick,
		"moved":      result.Moved,
		"blocked":    result.Blocked,
		"searches":   stats.Searches,
		"cache_hits": stats.CacheHits,
	}).Debug("tick")

	s.events.Emit(TickDoneEvent{
		Tick:    result.Tick,
		Planned: result.Planned,
		Moved:   result.Moved,
		Blocked: result.Blocked,
	})

	return result
}

// MovePlayer steps the player one tile in direction d when the target is
// walkable and free
func (s *LevelSession) MovePlayer(d components.Point) bool {
	if s.player == 0 {
		return false
	}
	posComp, ok := s.world.GetComponent(s.player, components.Position)
	if !ok {
		return false
	}
	pos := posComp.(*components.PositionComponent)
	from := pos.Point()
	to := from.Add(d)

	if !from.IsAdjacent4(to) || !spawners.IsSpawnValid(s.grid, s.occupancy, to) {
		return false
	}
	if !s.occupancy.Move(s.player, from, to) {
		s.occupancy.Insert(s.player, to)
	}
	pos.Set(to)
	s.events.Emit(EntityMoveEvent{EntityID: s.player, From: from, To: to})
	return true
}

// RecenterPlayer moves the player to the walkable tile nearest the floor
// centre. It reports false when that tile holds another blocking agent.
func (s *LevelSession) RecenterPlayer() bool {
	if s.player == 0 {
		return false
	}
	posComp, ok := s.world.GetComponent(s.player, components.Position)
	if !ok {
		return false
	}
	to, ok := spawners.FindWalkableTile(s.grid)
	if !ok {
		return false
	}

	pos := posComp.(*components.PositionComponent)
	from := pos.Point()
	if to == from {
		return true
	}
	if s.occupancy.Occupied(to) {
		return false
	}
	if !s.occupancy.Move(s.player, from, to) {
		s.occupancy.Insert(s.player, to)
	}
	pos.Set(to)
	s.events.Emit(EntityMoveEvent{EntityID: s.player, From: from, To: to})
	return true
}

// Events returns the session event bus; subscriptions survive level changes
func (s *LevelSession) Events() *ecs.EventManager {
	return s.events
}

// Level returns the current level number, -1 before the first load
func (s *LevelSession) Level() int {
	return s.level
}

// Seed returns the generator seed of the current level
func (s *LevelSession) Seed() uint64 {
	return s.seed
}

// Grid returns the current floor. Callers must treat it as read-only; the
// room index and spawn state were built from it.
func (s *LevelSession) Grid() *components.TileGrid {
	return s.grid
}

// Rooms returns the current floor's room index
func (s *LevelSession) Rooms() *generation.RoomIndex {
	return s.rooms
}

// Occupancy returns the live occupancy grid of blocking agents
func (s *LevelSession) Occupancy() *spatial.HashGrid {
	return s.occupancy
}

// World returns the agents of the current floor
func (s *LevelSession) World() *ecs.World {
	return s.world
}

// Pathfinder returns the session pathfinder
func (s *LevelSession) Pathfinder() *Pathfinder {
	return s.pathfinder
}

// Player returns the player entity id, 0 when the floor has none
func (s *LevelSession) Player() ecs.EntityID {
	return s.player
}

// Ticks returns the number of ticks run on the current level
func (s *LevelSession) Ticks() uint64 {
	return s.tick
}

// Messages returns the session message log
func (s *LevelSession) Messages() *MessageLog {
	return s.messages
}
