package generation

import (
	"cave-rogue/components"
)

// bigAreaPasses is the number of leading passes that also fill tiles with
// almost no walls two steps away, breaking up large open areas
const bigAreaPasses = 3

// GenerateCellularFloor creates a cave floor using cellular automata.
// Callers are expected to have validated the parameters.
func (g *DungeonGenerator) GenerateCellularFloor(width, height int, fillProbability float64, iterations int) *components.TileGrid {
	grid := components.NewTileGrid(width, height)

	// Seed interior tiles; the border stays wall from NewTileGrid
	for y := 1; y < height-1; y++ {
		for x := 1; x < width-1; x++ {
			isWall := g.rng.Float64() < fillProbability
			grid.SetWalkable(x, y, !isWall)
		}
	}

	next := components.NewTileGrid(width, height)
	for i := 0; i < iterations; i++ {
		g.applyAutomataPass(grid, next, i)
		grid, next = next, grid
	}

	return grid
}

// applyAutomataPass computes one generation from src into dst.
// Every interior tile reads only src, so all tiles change simultaneously.
func (g *DungeonGenerator) applyAutomataPass(src, dst *components.TileGrid, iteration int) {
	for y := 0; y < src.Height; y++ {
		for x := 0; x < src.Width; x++ {
			if src.IsBorder(x, y) {
				dst.SetWalkable(x, y, false)
				continue
			}

			near := countWallsAtDistance(src, x, y, 1)

			var isWall bool
			if iteration < bigAreaPasses {
				far := countWallsAtDistance(src, x, y, 2)
				isWall = near >= 5 || far <= 2
			} else {
				isWall = near >= 5
			}
			dst.SetWalkable(x, y, !isWall)
		}
	}
}

// countWallsAtDistance counts wall tiles at exactly Chebyshev distance d
// from (x, y). Out of bounds counts as wall.
func countWallsAtDistance(grid *components.TileGrid, x, y, d int) int {
	count := 0
	for dy := -d; dy <= d; dy++ {
		for dx := -d; dx <= d; dx++ {
			if max(abs(dx), abs(dy)) != d {
				continue
			}
			if grid.IsWall(x+dx, y+dy) {
				count++
			}
		}
	}
	return count
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
