package config

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidConfiguration is returned (wrapped) whenever a construction
// parameter is out of range. Level construction fails before any grid exists.
var ErrInvalidConfiguration = errors.New("invalid configuration")

// Cache policies accepted by PathfindingConfig.CachePolicy
const (
	CachePolicyClear = "clear" // drop every entry when an insert would overflow
	CachePolicyLRU   = "lru"   // evict the least recently used entry
)

// Generation defaults tuned for 80x40 cave floors
const (
	DefaultSeed            uint64 = 42
	DefaultFloorWidth             = 80
	DefaultFloorHeight            = 40
	DefaultFillProbability        = 0.45
	DefaultIterations             = 5

	DefaultCellSize      = 5
	DefaultCacheCapacity = 1000

	DefaultEnemyCount     = 8
	DefaultMinPlayerDist  = 10
	DefaultSpawnAttempts  = 200
	DefaultSpawnSpacing   = 5
	DefaultSightRange     = 12
	DefaultMaxSearchNodes = 0 // 0 = bounded by the grid size only
	MinFloorDimension     = 3
)

// GenerationConfig holds the floor generator parameters
type GenerationConfig struct {
	Seed            uint64
	Width           int
	Height          int
	FillProbability float64
	Iterations      int
	ConnectCaves    bool // carve tunnels so every cave section is reachable
}

// SpatialConfig tunes the occupancy hash grid
type SpatialConfig struct {
	CellSize int
}

// PathfindingConfig tunes the next-step pathfinder and its cache
type PathfindingConfig struct {
	CacheCapacity  int
	CachePolicy    string
	MaxSearchNodes int
}

// SpawnConfig tunes entity placement on a fresh level
type SpawnConfig struct {
	EnemyCount    int
	MinPlayerDist int
	MaxAttempts   int
	Spacing       int
	SpawnBoss     bool
}

// Config is the full set of plain values a level session is built from
type Config struct {
	Generation  GenerationConfig
	Spatial     SpatialConfig
	Pathfinding PathfindingConfig
	Spawn       SpawnConfig
}

// Default returns the stock configuration
func Default() Config {
	return Config{
		Generation: GenerationConfig{
			Seed:            DefaultSeed,
			Width:           DefaultFloorWidth,
			Height:          DefaultFloorHeight,
			FillProbability: DefaultFillProbability,
			Iterations:      DefaultIterations,
		},
		Spatial: SpatialConfig{
			CellSize: DefaultCellSize,
		},
		Pathfinding: PathfindingConfig{
			CacheCapacity:  DefaultCacheCapacity,
			CachePolicy:    CachePolicyClear,
			MaxSearchNodes: DefaultMaxSearchNodes,
		},
		Spawn: SpawnConfig{
			EnemyCount:    DefaultEnemyCount,
			MinPlayerDist: DefaultMinPlayerDist,
			MaxAttempts:   DefaultSpawnAttempts,
			Spacing:       DefaultSpawnSpacing,
			SpawnBoss:     true,
		},
	}
}

// Validate checks the generation parameters
func (c GenerationConfig) Validate() error {
	if c.Width < MinFloorDimension {
		return fmt.Errorf("%w: width %d < %d", ErrInvalidConfiguration, c.Width, MinFloorDimension)
	}
	if c.Height < MinFloorDimension {
		return fmt.Errorf("%w: height %d < %d", ErrInvalidConfiguration, c.Height, MinFloorDimension)
	}
	if math.IsNaN(c.FillProbability) || c.FillProbability < 0 || c.FillProbability > 1 {
		return fmt.Errorf("%w: fill probability %v outside [0,1]", ErrInvalidConfiguration, c.FillProbability)
	}
	if c.Iterations < 0 {
		return fmt.Errorf("%w: iterations %d < 0", ErrInvalidConfiguration, c.Iterations)
	}
	return nil
}

// Validate checks every section of the configuration
func (c Config) Validate() error {
	if err := c.Generation.Validate(); err != nil {
		return err
	}
	if c.Spatial.CellSize <= 0 {
		return fmt.Errorf("%w: cell size %d must be positive", ErrInvalidConfiguration, c.Spatial.CellSize)
	}
	if c.Pathfinding.CacheCapacity < 0 {
		return fmt.Errorf("%w: cache capacity %d < 0", ErrInvalidConfiguration, c.Pathfinding.CacheCapacity)
	}
	switch c.Pathfinding.CachePolicy {
	case "", CachePolicyClear, CachePolicyLRU:
	default:
		return fmt.Errorf("%w: unknown cache policy %q", ErrInvalidConfiguration, c.Pathfinding.CachePolicy)
	}
	if c.Pathfinding.MaxSearchNodes < 0 {
		return fmt.Errorf("%w: max search nodes %d < 0", ErrInvalidConfiguration, c.Pathfinding.MaxSearchNodes)
	}
	if c.Spawn.EnemyCount < 0 || c.Spawn.MaxAttempts < 0 || c.Spawn.MinPlayerDist < 0 || c.Spawn.Spacing < 0 {
		return fmt.Errorf("%w: spawn settings must not be negative", ErrInvalidConfiguration)
	}
	return nil
}
