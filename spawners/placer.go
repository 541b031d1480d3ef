package spawners

import (
	"math/rand/v2"

	"cave-rogue/components"
	"cave-rogue/generation"
)

// Occupancy answers whether a blocking entity stands on a tile
type Occupancy interface {
	Occupied(p components.Point) bool
}

// Placer chooses spawn tiles on a generated floor
type Placer struct {
	rng *rand.Rand
}

// NewPlacer creates a placer drawing from rng
func NewPlacer(rng *rand.Rand) *Placer {
	return &Placer{rng: rng}
}

// FindWalkableTile returns the walkable tile nearest the floor centre,
// scanning square rings outward, then falls back to the first walkable tile
// in row-major order.
func FindWalkableTile(grid *components.TileGrid) (components.Point, bool) {
	cx, cy := grid.Width/2, grid.Height/2

	for radius := 0; radius < max(grid.Width, grid.Height)/2; radius++ {
		for dx := -radius; dx <= radius; dx++ {
			for dy := -radius; dy <= radius; dy++ {
				if radius > 0 && abs(dx) != radius && abs(dy) != radius {
					continue
				}
				if grid.IsWalkable(cx+dx, cy+dy) {
					return components.Pt(cx+dx, cy+dy), true
				}
			}
		}
	}

	for y := 0; y < grid.Height; y++ {
		for x := 0; x < grid.Width; x++ {
			if grid.IsWalkable(x, y) {
				return components.Pt(x, y), true
			}
		}
	}
	return components.Point{}, false
}

// IsSpawnValid reports whether p is walkable and free
func IsSpawnValid(grid *components.TileGrid, occupancy Occupancy, p components.Point) bool {
	if !grid.IsWalkablePoint(p) {
		return false
	}
	return occupancy == nil || !occupancy.Occupied(p)
}

// PlayerSpawn picks a random tile of the largest room
func (pl *Placer) PlayerSpawn(rooms *generation.RoomIndex) (components.Point, bool) {
	room, ok := rooms.LargestRoom()
	if !ok {
		return components.Point{}, false
	}
	tiles := room.Tiles()
	return tiles[pl.rng.IntN(len(tiles))], true
}

// BossSpawn returns the free tile of the largest room closest to its centre
// (Manhattan distance, earliest discovered on ties)
func BossSpawn(rooms *generation.RoomIndex, occupancy Occupancy) (components.Point, bool) {
	room, ok := rooms.LargestRoom()
	if !ok {
		return components.Point{}, false
	}

	var best components.Point
	found := false
	bestDist := 0
	for _, t := range room.Tiles() {
		if occupancy != nil && occupancy.Occupied(t) {
			continue
		}
		if d := t.Manhattan(room.Center); !found || d < bestDist {
			best, bestDist, found = t, d, true
		}
	}
	return best, found
}

// EnemySpawnPositions probes up to maxAttempts random interior tiles and
// returns at most count of them that are free, in the same room as the
// player (the largest room when the player is not on a room tile), not
// orthogonally adjacent to the player, at least minPlayerDist steps from the
// player and at least spacing steps from every other pick.
func (pl *Placer) EnemySpawnPositions(
	grid *components.TileGrid,
	rooms *generation.RoomIndex,
	occupancy Occupancy,
	player components.Point,
	count, minPlayerDist, spacing, maxAttempts int,
) []components.Point {
	if count <= 0 || grid.Width < 3 || grid.Height < 3 {
		return nil
	}

	mainRoom, ok := playerRoom(rooms, player)
	if !ok {
		return nil
	}

	var picks []components.Point
	for attempt := 0; attempt < maxAttempts && len(picks) < count; attempt++ {
		p := components.Pt(1+pl.rng.IntN(grid.Width-2), 1+pl.rng.IntN(grid.Height-2))

		if p == player || p.IsAdjacent4(player) {
			continue
		}
		if !IsSpawnValid(grid, occupancy, p) {
			continue
		}
		if !mainRoom.Contains(p) {
			continue
		}
		if p.Manhattan(player) < minPlayerDist {
			continue
		}
		tooClose := false
		for _, other := range picks {
			if other == p || other.Manhattan(p) < spacing {
				tooClose = true
				break
			}
		}
		if tooClose {
			continue
		}

		picks = append(picks, p)
	}
	return picks
}

// playerRoom returns the room holding player, or the largest room when the
// player is not on a room tile
func playerRoom(rooms *generation.RoomIndex, player components.Point) (*generation.Room, bool) {
	if id, ok := rooms.RoomOf(player); ok {
		return rooms.Room(id)
	}
	return rooms.LargestRoom()
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
