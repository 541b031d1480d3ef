package systems

import (
	"github.com/sirupsen/logrus"
	"github.com/zyedidia/generic/heap"

	"cave-rogue/components"
	"cave-rogue/config"
	"cave-rogue/generation"
	"cave-rogue/logger"
)

// Occupancy answers whether a tile currently holds a blocking entity
type Occupancy interface {
	Occupied(p components.Point) bool
}

// PathStats summarizes pathfinder activity since the last reset
type PathStats struct {
	Searches    uint64
	CacheHits   uint64
	CacheMisses uint64
	Entries     int
	Capacity    int
}

// Pathfinder answers "which adjacent tile should an agent step onto next"
// using 4-directional A* with a Manhattan heuristic and a next-step cache
type Pathfinder struct {
	cache    PathCache
	maxNodes int // 0 = width*height of the grid being searched

	grid      *components.TileGrid // grid the cache entries belong to
	revision  uint64               // grid.Revision() when the entries were made
	rooms     *generation.RoomIndex
	roomsGrid *components.TileGrid

	searches, hits, misses uint64

	log logrus.FieldLogger
}

// NewPathfinder creates a pathfinder with the given cache
func NewPathfinder(cache PathCache, maxSearchNodes int) *Pathfinder {
	if cache == nil {
		cache = NewClearOnFullCache(0)
	}
	return &Pathfinder{
		cache:    cache,
		maxNodes: max(maxSearchNodes, 0),
		log:      logger.Log,
	}
}

// NewPathfinderFromConfig builds the cache selected by cfg and a pathfinder on it
func NewPathfinderFromConfig(cfg config.PathfindingConfig) (*Pathfinder, error) {
	cache, err := NewPathCache(cfg.CachePolicy, cfg.CacheCapacity)
	if err != nil {
		return nil, err
	}
	return NewPathfinder(cache, cfg.MaxSearchNodes), nil
}

// SetLogger replaces the logger used for diagnostics
func (p *Pathfinder) SetLogger(l logrus.FieldLogger) {
	if l != nil {
		p.log = l
	}
}

// SetRoomIndex lets the pathfinder reject pairs in different rooms of grid
// without searching. The index is ignored for any other grid.
func (p *Pathfinder) SetRoomIndex(grid *components.TileGrid, rooms *generation.RoomIndex) {
	p.roomsGrid = grid
	p.rooms = rooms
}

// Invalidate drops every cached step
func (p *Pathfinder) Invalidate() {
	p.cache.Clear()
}

// Searches returns how many A* searches have run
func (p *Pathfinder) Searches() uint64 {
	return p.searches
}

// Stats returns counters and cache occupancy
func (p *Pathfinder) Stats() PathStats {
	return PathStats{
		Searches:    p.searches,
		CacheHits:   p.hits,
		CacheMisses: p.misses,
		Entries:     p.cache.Len(),
		Capacity:    p.cache.Capacity(),
	}
}

// NextStep returns the tile adjacent to from on a shortest 4-directional
// path to to, avoiding walls and tiles reported by occupancy. The goal tile
// itself is never treated as blocked. When from == to the answer is from.
// It reports false when either end is not walkable or no path exists.
func (p *Pathfinder) NextStep(grid *components.TileGrid, occupancy Occupancy, from, to components.Point) (components.Point, bool) {
	if grid == nil {
		return components.Point{}, false
	}
	if grid != p.grid || grid.Revision() != p.revision {
		p.cache.Clear()
		p.grid = grid
		p.revision = grid.Revision()
	}

	if !grid.IsWalkablePoint(from) || !grid.IsWalkablePoint(to) {
		return components.Point{}, false
	}
	if from == to {
		return from, true
	}
	if p.rooms != nil && p.roomsGrid == grid && !p.rooms.SameRoom(from, to) {
		return components.Point{}, false
	}

	if step, ok := p.cache.Get(from, to); ok {
		p.hits++
		return step, true
	}
	p.misses++

	step, ok := p.search(grid, occupancy, from, to)
	if ok {
		p.cache.Put(from, to, step)
	}
	return step, ok
}

// openNode is an entry in the A* frontier. Stale entries (a cheaper route to
// the same tile was found later) are skipped when popped.
type openNode struct {
	idx int
	g   int
	h   int
	seq uint64
}

func openLess(a, b openNode) bool {
	fa, fb := a.g+a.h, b.g+b.h
	if fa != fb {
		return fa < fb
	}
	if a.h != b.h {
		return a.h < b.h
	}
	return a.seq < b.seq
}

// search runs A* from start to goal and returns the first step
func (p *Pathfinder) search(grid *components.TileGrid, occupancy Occupancy, start, goal components.Point) (components.Point, bool) {
	p.searches++

	w := grid.Width
	n := w * grid.Height
	limit := p.maxNodes
	if limit == 0 || limit > n {
		limit = n
	}

	gScore := make([]int, n)
	parent := make([]int, n)
	closed := make([]bool, n)
	for i := range gScore {
		gScore[i] = -1
		parent[i] = -1
	}

	startIdx := start.Y*w + start.X
	goalIdx := goal.Y*w + goal.X

	open := heap.New[openNode](openLess)
	var seq uint64
	gScore[startIdx] = 0
	open.Push(openNode{idx: startIdx, g: 0, h: start.Manhattan(goal), seq: seq})

	expanded := 0
	for open.Size() > 0 {
		cur, _ := open.Pop()
		if closed[cur.idx] {
			continue
		}
		if cur.idx == goalIdx {
			return firstStep(parent, startIdx, goalIdx, w), true
		}
		closed[cur.idx] = true

		expanded++
		if expanded > limit {
			p.log.WithFields(logrus.Fields{
				"from":  start,
				"to":    goal,
				"limit": limit,
			}).Debug("path search hit node ceiling")
			return components.Point{}, false
		}

		pos := components.Pt(cur.idx%w, cur.idx/w)
		for _, d := range components.Cardinals {
			nb := pos.Add(d)
			if !grid.IsWalkablePoint(nb) {
				continue
			}
			nbIdx := nb.Y*w + nb.X
			if closed[nbIdx] {
				continue
			}
			if nbIdx != goalIdx && occupancy != nil && occupancy.Occupied(nb) {
				continue
			}

			tentative := cur.g + 1
			if gScore[nbIdx] != -1 && tentative >= gScore[nbIdx] {
				continue
			}
			gScore[nbIdx] = tentative
			parent[nbIdx] = cur.idx
			seq++
			open.Push(openNode{idx: nbIdx, g: tentative, h: nb.Manhattan(goal), seq: seq})
		}
	}

	return components.Point{}, false
}

// firstStep walks parents back from goal to the tile adjacent to start
func firstStep(parent []int, startIdx, goalIdx, width int) components.Point {
	idx := goalIdx
	for parent[idx] != startIdx {
		idx = parent[idx]
	}
	return components.Pt(idx%width, idx/width)
}
