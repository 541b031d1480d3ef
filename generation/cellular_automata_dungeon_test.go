package generation

import (
	"errors"
	"testing"

	"cave-rogue/components"
	"cave-rogue/config"
	"cave-rogue/logger"
)

func genConfig(seed uint64, w, h int, p float64, iters int) config.GenerationConfig {
	return config.GenerationConfig{
		Seed:            seed,
		Width:           w,
		Height:          h,
		FillProbability: p,
		Iterations:      iters,
	}
}

func mustGenerate(t *testing.T, cfg config.GenerationConfig) *components.TileGrid {
	t.Helper()
	grid, err := GenerateFloorWithLogger(cfg, logger.Discard())
	if err != nil {
		t.Fatalf("GenerateFloor(%+v): %v", cfg, err)
	}
	return grid
}

func assertBorderWalled(t *testing.T, grid *components.TileGrid) {
	t.Helper()
	for y := 0; y < grid.Height; y++ {
		for x := 0; x < grid.Width; x++ {
			if grid.IsBorder(x, y) && grid.IsWalkable(x, y) {
				t.Fatalf("border tile (%d,%d) is walkable", x, y)
			}
		}
	}
}

func TestGenerateScenarioSeed42(t *testing.T) {
	cfg := genConfig(42, 20, 20, 0.45, 5)
	grid := mustGenerate(t, cfg)

	if grid.Width != 20 || grid.Height != 20 {
		t.Fatalf("expected 20x20, got %dx%d", grid.Width, grid.Height)
	}
	assertBorderWalled(t, grid)

	room, ok := BuildRoomIndex(grid).LargestRoom()
	if !ok || room.Size == 0 {
		t.Fatal("expected a non-empty largest room")
	}

	again := mustGenerate(t, cfg)
	if !grid.Equal(again) {
		t.Errorf("seed 42 did not reproduce the same grid:\n%s\nvs\n%s", grid, again)
	}
}

func TestGenerateIsDeterministic(t *testing.T) {
	configs := []config.GenerationConfig{
		genConfig(0, 3, 3, 0.5, 1),
		genConfig(1, 40, 30, 0.45, 5),
		genConfig(7, 64, 17, 0.3, 8),
		genConfig(1<<63+5, 25, 50, 0.6, 2),
		{Seed: 99, Width: 50, Height: 30, FillProbability: 0.45, Iterations: 5, ConnectCaves: true},
	}

	for _, cfg := range configs {
		a := mustGenerate(t, cfg)
		b := mustGenerate(t, cfg)
		if !a.Equal(b) {
			t.Errorf("config %+v produced different grids", cfg)
		}
	}
}

func TestDifferentSeedsDiffer(t *testing.T) {
	a := mustGenerate(t, genConfig(1, 40, 30, 0.45, 5))
	b := mustGenerate(t, genConfig(2, 40, 30, 0.45, 5))
	if a.Equal(b) {
		t.Error("seeds 1 and 2 produced identical 40x30 floors")
	}
}

func TestBorderInvariantAcrossSeeds(t *testing.T) {
	for seed := uint64(0); seed < 25; seed++ {
		for _, p := range []float64{0, 0.2, 0.45, 0.7, 1} {
			grid := mustGenerate(t, genConfig(seed, 30, 20, p, int(seed%7)))
			assertBorderWalled(t, grid)
		}
	}
}

func TestGenerateRejectsInvalidConfiguration(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.GenerationConfig
	}{
		{"width too small", genConfig(1, 2, 10, 0.45, 5)},
		{"height too small", genConfig(1, 10, 2, 0.45, 5)},
		{"zero size", genConfig(1, 0, 0, 0.45, 5)},
		{"negative probability", genConfig(1, 10, 10, -0.1, 5)},
		{"probability above one", genConfig(1, 10, 10, 1.01, 5)},
		{"negative iterations", genConfig(1, 10, 10, 0.45, -1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			grid, err := GenerateFloorWithLogger(tt.cfg, logger.Discard())
			if !errors.Is(err, config.ErrInvalidConfiguration) {
				t.Errorf("expected ErrInvalidConfiguration, got %v", err)
			}
			if grid != nil {
				t.Error("a grid was returned alongside the error")
			}
		})
	}
}

func TestFullFillProducesSolidRock(t *testing.T) {
	grid := mustGenerate(t, genConfig(5, 15, 15, 1, 5))
	if n := grid.WalkableCount(); n != 0 {
		t.Errorf("p=1 should leave no floor, got %d walkable tiles", n)
	}
	if _, ok := BuildRoomIndex(grid).LargestRoom(); ok {
		t.Error("solid floor reported a largest room")
	}
}

func TestZeroIterationsKeepsInitialNoise(t *testing.T) {
	grid := mustGenerate(t, genConfig(5, 12, 9, 0, 0))
	if want := (12 - 2) * (9 - 2); grid.WalkableCount() != want {
		t.Errorf("p=0 without passes should open the whole interior (%d), got %d", want, grid.WalkableCount())
	}
}

func TestSmallestFloorIsAllWall(t *testing.T) {
	// A 3x3 floor has a single interior tile, and it always has 8 wall neighbours
	grid := mustGenerate(t, genConfig(3, 3, 3, 0, 1))
	if grid.WalkableCount() != 0 {
		t.Errorf("3x3 floor after one pass should be solid:\n%s", grid)
	}
}

func TestAutomataPassIsSimultaneous(t *testing.T) {
	// With in-place updates the left column's changes would leak into the
	// right column's neighbour counts within the same pass
	src := components.ParseTileGrid("" +
		"#######\n" +
		"#.....#\n" +
		"#.###.#\n" +
		"#.....#\n" +
		"#######")
	snapshot := src.Clone()

	dst := components.NewTileGrid(src.Width, src.Height)
	g := NewDungeonGenerator(1)
	g.applyAutomataPass(src, dst, bigAreaPasses)

	if !src.Equal(snapshot) {
		t.Fatal("pass mutated its source grid")
	}

	for y := 1; y < src.Height-1; y++ {
		for x := 1; x < src.Width-1; x++ {
			wantWall := countWallsAtDistance(src, x, y, 1) >= 5
			if dst.IsWall(x, y) != wantWall {
				t.Errorf("tile (%d,%d): wall=%v, want %v", x, y, dst.IsWall(x, y), wantWall)
			}
		}
	}
}

func TestCountWallsAtDistance(t *testing.T) {
	grid := components.ParseTileGrid("" +
		".....\n" +
		".....\n" +
		".....\n" +
		".....\n" +
		".....")

	if n := countWallsAtDistance(grid, 2, 2, 1); n != 0 {
		t.Errorf("open field: expected 0 near walls, got %d", n)
	}
	if n := countWallsAtDistance(grid, 2, 2, 2); n != 0 {
		t.Errorf("open field: expected 0 far walls, got %d", n)
	}

	// Corner: out of bounds counts as wall
	if n := countWallsAtDistance(grid, 0, 0, 1); n != 5 {
		t.Errorf("corner: expected 5 near walls, got %d", n)
	}
	// Only 5 of the 16 ring tiles are on the grid
	if n := countWallsAtDistance(grid, 0, 0, 2); n != 11 {
		t.Errorf("corner: expected 11 far walls, got %d", n)
	}

	grid.SetWalkable(1, 1, false)
	grid.SetWalkable(4, 4, false)
	if n := countWallsAtDistance(grid, 2, 2, 1); n != 1 {
		t.Errorf("expected 1 near wall, got %d", n)
	}
	if n := countWallsAtDistance(grid, 2, 2, 2); n != 1 {
		t.Errorf("expected 1 far wall (distance-1 walls excluded), got %d", n)
	}
}
