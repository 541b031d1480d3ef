package components

import "strings"

// Point is an integer tile coordinate
type Point struct {
	X, Y int
}

// Pt is shorthand for Point{X: x, Y: y}
func Pt(x, y int) Point {
	return Point{X: x, Y: y}
}

// Add returns p offset by d
func (p Point) Add(d Point) Point {
	return Point{X: p.X + d.X, Y: p.Y + d.Y}
}

// Manhattan returns the 4-directional step distance between p and o
func (p Point) Manhattan(o Point) int {
	return abs(p.X-o.X) + abs(p.Y-o.Y)
}

// IsAdjacent4 reports whether o is exactly one orthogonal step from p
func (p Point) IsAdjacent4(o Point) bool {
	return p.Manhattan(o) == 1
}

// Cardinal directions in the fixed enumeration order used by every
// 4-connected walk in the module: north, east, south, west
var Cardinals = [4]Point{
	{X: 0, Y: -1},
	{X: 1, Y: 0},
	{X: 0, Y: 1},
	{X: -1, Y: 0},
}

// TileGrid stores the walkable/wall layout of one floor.
// cells[y*Width+x] is true when the tile is walkable. The outer ring is
// always wall once a generator has produced the grid.
//
// A grid handed to a level session is read-only. Edits bump Revision, which
// makes the pathfinder drop its cached steps.
type TileGrid struct {
	Width    int
	Height   int
	cells    []bool
	revision uint64
}

// NewTileGrid creates a grid of the given size with every tile a wall
func NewTileGrid(width, height int) *TileGrid {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &TileGrid{
		Width:  width,
		Height: height,
		cells:  make([]bool, width*height),
	}
}

// InBounds reports whether (x, y) lies on the grid
func (g *TileGrid) InBounds(x, y int) bool {
	return x >= 0 && x < g.Width && y >= 0 && y < g.Height
}

// IsBorder reports whether (x, y) is on the outer ring
func (g *TileGrid) IsBorder(x, y int) bool {
	return x == 0 || y == 0 || x == g.Width-1 || y == g.Height-1
}

// IsWalkable returns true if an entity may stand on (x, y).
// Out of range coordinates are not walkable; this never panics.
func (g *TileGrid) IsWalkable(x, y int) bool {
	if !g.InBounds(x, y) {
		return false
	}
	return g.cells[y*g.Width+x]
}

// IsWalkablePoint is IsWalkable for a Point
func (g *TileGrid) IsWalkablePoint(p Point) bool {
	return g.IsWalkable(p.X, p.Y)
}

// IsWall returns true if the tile at (x, y) is a wall.
// Out of bounds is considered a wall.
func (g *TileGrid) IsWall(x, y int) bool {
	return !g.IsWalkable(x, y)
}

// SetWalkable sets the tile at the given position; out of range is ignored
func (g *TileGrid) SetWalkable(x, y int, walkable bool) {
	if g.InBounds(x, y) {
		g.cells[y*g.Width+x] = walkable
		g.revision++
	}
}

// Revision counts the edits made through SetWalkable
func (g *TileGrid) Revision() uint64 {
	return g.revision
}

// WalkableCount returns the number of walkable tiles
func (g *TileGrid) WalkableCount() int {
	n := 0
	for _, c := range g.cells {
		if c {
			n++
		}
	}
	return n
}

// Clone returns an independent copy of the grid
func (g *TileGrid) Clone() *TileGrid {
	c := &TileGrid{Width: g.Width, Height: g.Height, cells: make([]bool, len(g.cells))}
	copy(c.cells, g.cells)
	return c
}

// Equal reports whether both grids have the same size and layout
func (g *TileGrid) Equal(o *TileGrid) bool {
	if g == nil || o == nil {
		return g == o
	}
	if g.Width != o.Width || g.Height != o.Height {
		return false
	}
	for i := range g.cells {
		if g.cells[i] != o.cells[i] {
			return false
		}
	}
	return true
}

// String renders the grid as rows of '#' (wall) and '.' (floor)
func (g *TileGrid) String() string {
	var b strings.Builder
	b.Grow((g.Width + 1) * g.Height)
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			if g.cells[y*g.Width+x] {
				b.WriteByte('.')
			} else {
				b.WriteByte('#')
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// ParseTileGrid builds a grid from rows of '#' and '.' as produced by String.
// Rows shorter than the first are padded with wall.
func ParseTileGrid(layout string) *TileGrid {
	rows := strings.Split(strings.Trim(layout, "\n"), "\n")
	width := 0
	for _, row := range rows {
		if len(row) > width {
			width = len(row)
		}
	}
	g := NewTileGrid(width, len(rows))
	for y, row := range rows {
		for x := 0; x < len(row); x++ {
			g.SetWalkable(x, y, row[x] != '#')
		}
	}
	return g
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
