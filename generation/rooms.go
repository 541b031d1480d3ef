package generation

import (
	"github.com/zyedidia/generic/mapset"

	"cave-rogue/components"
)

// Room is a maximal 4-connected set of walkable tiles
type Room struct {
	ID     int
	Size   int
	Center components.Point // integer mean of the tile coordinates; may be a wall on concave rooms

	tiles   []components.Point // BFS discovery order
	members mapset.Set[components.Point]
}

// Tiles returns the room's tiles in discovery order. The slice is shared
// and must not be modified.
func (r *Room) Tiles() []components.Point {
	return r.tiles
}

// Contains reports whether p belongs to the room
func (r *Room) Contains(p components.Point) bool {
	return r.members.Has(p)
}

// Anchor returns the room tile closest to Center (first in discovery order
// on ties). Unlike Center it is always inside the room.
func (r *Room) Anchor() components.Point {
	best := r.tiles[0]
	bestDist := best.Manhattan(r.Center)
	for _, t := range r.tiles[1:] {
		if d := t.Manhattan(r.Center); d < bestDist {
			best, bestDist = t, d
		}
	}
	return best
}

// RoomIndex labels every walkable tile of a grid with the room it belongs to
type RoomIndex struct {
	width, height int
	tileToRoom    []int // -1 for walls
	rooms         []*Room
	largest       int // -1 when there are no rooms
}

// BuildRoomIndex flood fills grid and returns the room labelling.
// Rooms are numbered in row-major order of their first tile; every walkable
// tile is visited exactly once.
func BuildRoomIndex(grid *components.TileGrid) *RoomIndex {
	ri := &RoomIndex{
		width:      grid.Width,
		height:     grid.Height,
		tileToRoom: make([]int, grid.Width*grid.Height),
		largest:    -1,
	}
	for i := range ri.tileToRoom {
		ri.tileToRoom[i] = -1
	}

	var queue []components.Point
	for y := 0; y < grid.Height; y++ {
		for x := 0; x < grid.Width; x++ {
			if !grid.IsWalkable(x, y) || ri.tileToRoom[y*grid.Width+x] != -1 {
				continue
			}

			id := len(ri.rooms)
			room := &Room{ID: id, members: mapset.New[components.Point]()}
			sumX, sumY := 0, 0

			queue = append(queue[:0], components.Pt(x, y))
			ri.tileToRoom[y*grid.Width+x] = id

			for head := 0; head < len(queue); head++ {
				cur := queue[head]
				room.tiles = append(room.tiles, cur)
				room.members.Put(cur)
				sumX += cur.X
				sumY += cur.Y

				for _, d := range components.Cardinals {
					n := cur.Add(d)
					if !grid.IsWalkable(n.X, n.Y) {
						continue
					}
					idx := n.Y*grid.Width + n.X
					if ri.tileToRoom[idx] != -1 {
						continue
					}
					ri.tileToRoom[idx] = id
					queue = append(queue, n)
				}
			}

			room.Size = len(room.tiles)
			room.Center = components.Pt(sumX/room.Size, sumY/room.Size)
			ri.rooms = append(ri.rooms, room)

			if ri.largest == -1 || room.Size > ri.rooms[ri.largest].Size {
				ri.largest = id
			}
		}
	}

	return ri
}

// RoomOf returns the id of the room containing p
func (ri *RoomIndex) RoomOf(p components.Point) (int, bool) {
	if p.X < 0 || p.X >= ri.width || p.Y < 0 || p.Y >= ri.height {
		return 0, false
	}
	id := ri.tileToRoom[p.Y*ri.width+p.X]
	if id < 0 {
		return 0, false
	}
	return id, true
}

// Room returns the room with the given id
func (ri *RoomIndex) Room(id int) (*Room, bool) {
	if id < 0 || id >= len(ri.rooms) {
		return nil, false
	}
	return ri.rooms[id], true
}

// Rooms returns every room ordered by id. The slice must not be modified.
func (ri *RoomIndex) Rooms() []*Room {
	return ri.rooms
}

// Len returns the number of rooms
func (ri *RoomIndex) Len() int {
	return len(ri.rooms)
}

// LargestRoom returns the room with the most tiles, lowest id on ties.
// It reports false only for a floor without walkable tiles.
func (ri *RoomIndex) LargestRoom() (*Room, bool) {
	if ri.largest < 0 {
		return nil, false
	}
	return ri.rooms[ri.largest], true
}

// SameRoom reports whether a and b are walkable and 4-connected
func (ri *RoomIndex) SameRoom(a, b components.Point) bool {
	ra, ok := ri.RoomOf(a)
	if !ok {
		return false
	}
	rb, ok := ri.RoomOf(b)
	return ok && ra == rb
}

// TotalTiles returns the number of labelled tiles across all rooms
func (ri *RoomIndex) TotalTiles() int {
	n := 0
	for _, r := range ri.rooms {
		n += r.Size
	}
	return n
}
