package generation

import (
	"math"

	"github.com/sirupsen/logrus"

	"cave-rogue/components"
)

// ConnectCaves carves corridors until every cave section of grid is
// 4-connected. Each pass joins every section to its nearest not yet
// connected neighbour (Manhattan distance between centres, lowest index on
// ties) with an L-shaped tunnel between the sections' anchors.
// Anchors are interior tiles, so tunnels never touch the border.
func (g *DungeonGenerator) ConnectCaves(grid *components.TileGrid) {
	sections := BuildRoomIndex(grid).Rooms()
	if len(sections) <= 1 {
		return
	}

	anchors := make([]components.Point, len(sections))
	for i, s := range sections {
		anchors[i] = s.Anchor()
	}

	uf := newUnionFind(len(sections))
	tunnels := 0
	for uf.count > 1 {
		for i := range sections {
			nearest := g.findNearestSection(sections, i, uf)
			if nearest == i || uf.connected(i, nearest) {
				continue
			}
			carveTunnel(grid, anchors[i], anchors[nearest])
			uf.union(i, nearest)
			tunnels++
		}
	}

	g.log.WithFields(logrus.Fields{
		"sections": len(sections),
		"tunnels":  tunnels,
	}).Debug("caves connected")
}

// findNearestSection returns the closest section not connected to idx, or idx
// itself when everything is already connected
func (g *DungeonGenerator) findNearestSection(sections []*Room, idx int, uf *unionFind) int {
	closest := idx
	closestDist := math.MaxInt
	for i, s := range sections {
		if i == idx || uf.connected(i, idx) {
			continue
		}
		if d := sections[idx].Center.Manhattan(s.Center); d < closestDist {
			closest, closestDist = i, d
		}
	}
	return closest
}

// carveTunnel opens a horizontal then vertical corridor from a to b, both
// endpoints included
func carveTunnel(grid *components.TileGrid, a, b components.Point) {
	x, y := a.X, a.Y
	for x != b.X {
		grid.SetWalkable(x, y, true)
		if x < b.X {
			x++
		} else {
			x--
		}
	}
	for y != b.Y {
		grid.SetWalkable(x, y, true)
		if y < b.Y {
			y++
		} else {
			y--
		}
	}
	grid.SetWalkable(x, y, true)
}

type unionFind struct {
	parent []int
	count  int
}

func newUnionFind(n int) *unionFind {
	parent := make([]int, n)
	for i := range parent {
		parent[i] = i
	}
	return &unionFind{parent: parent, count: n}
}

func (u *unionFind) find(x int) int {
	for u.parent[x] != x {
		u.parent[x] = u.parent[u.parent[x]]
		x = u.parent[x]
	}
	return x
}

func (u *unionFind) union(a, b int) {
	ra, rb := u.find(a), u.find(b)
	if ra != rb {
		u.parent[ra] = rb
		u.count--
	}
}

func (u *unionFind) connected(a, b int) bool {
	return u.find(a) == u.find(b)
}
