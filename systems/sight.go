package systems

import (
	"cave-rogue/components"
)

// CanSee reports whether target is within sightRange steps (Manhattan) of
// origin and no wall lies on the straight line between them
func CanSee(grid *components.TileGrid, origin, target components.Point, sightRange int) bool {
	if origin.Manhattan(target) > sightRange {
		return false
	}
	for _, p := range LinePoints(origin, target) {
		if p == origin || p == target {
			continue
		}
		if grid.IsWall(p.X, p.Y) {
			return false
		}
	}
	return true
}

// LinePoints returns every tile on the Bresenham line from a to b, both
// ends included
func LinePoints(a, b components.Point) []components.Point {
	dx := abs(b.X - a.X)
	dy := abs(b.Y - a.Y)
	sx := 1
	if a.X > b.X {
		sx = -1
	}
	sy := 1
	if a.Y > b.Y {
		sy = -1
	}
	err := dx - dy

	points := make([]components.Point, 0, max(dx, dy)+1)
	x, y := a.X, a.Y
	for {
		points = append(points, components.Pt(x, y))
		if x == b.X && y == b.Y {
			break
		}

		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x += sx
		}
		if e2 < dx {
			err += dx
			y += sy
		}
	}

	return points
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
