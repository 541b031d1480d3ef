// Package spatial buckets entity positions into fixed-size cells so radius
// and occupancy queries only touch nearby buckets.
package spatial

import (
	"fmt"
	"slices"

	"cave-rogue/components"
	"cave-rogue/config"
	"cave-rogue/ecs"
)

// cellKey identifies one bucket
type cellKey struct {
	X, Y int
}

type entry struct {
	id  ecs.EntityID
	pos components.Point
}

// HashGrid maps entity positions to buckets of cellSize x cellSize tiles.
// An entity is stored in exactly the bucket of the position it was inserted
// with; callers keep the grid in sync through Move.
type HashGrid struct {
	cellSize int
	buckets  map[cellKey][]entry
	count    int
}

// NewHashGrid creates an empty grid. cellSize must be positive.
func NewHashGrid(cellSize int) (*HashGrid, error) {
	if cellSize <= 0 {
		return nil, fmt.Errorf("%w: cell size %d must be positive", config.ErrInvalidConfiguration, cellSize)
	}
	return &HashGrid{
		cellSize: cellSize,
		buckets:  make(map[cellKey][]entry),
	}, nil
}

// CellSize returns the bucket edge length in tiles
func (h *HashGrid) CellSize() int {
	return h.cellSize
}

// floorDiv rounds toward negative infinity so that -1 and 0 land in
// different buckets
func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func (h *HashGrid) keyFor(p components.Point) cellKey {
	return cellKey{X: floorDiv(p.X, h.cellSize), Y: floorDiv(p.Y, h.cellSize)}
}

// Insert records id at p
func (h *HashGrid) Insert(id ecs.EntityID, p components.Point) {
	k := h.keyFor(p)
	h.buckets[k] = append(h.buckets[k], entry{id: id, pos: p})
	h.count++
}

// Remove deletes the entry for id at p. It reports false, and changes
// nothing, when no such entry exists.
func (h *HashGrid) Remove(id ecs.EntityID, p components.Point) bool {
	k := h.keyFor(p)
	bucket := h.buckets[k]
	for i, e := range bucket {
		if e.id != id || e.pos != p {
			continue
		}
		bucket = slices.Delete(bucket, i, i+1)
		if len(bucket) == 0 {
			delete(h.buckets, k)
		} else {
			h.buckets[k] = bucket
		}
		h.count--
		return true
	}
	return false
}

// Move relocates id from one position to another
func (h *HashGrid) Move(id ecs.EntityID, from, to components.Point) bool {
	if !h.Remove(id, from) {
		return false
	}
	h.Insert(id, to)
	return true
}

// QueryRadius returns every entity whose squared Euclidean distance to
// center is at most radius², ordered by id. A negative radius matches nothing.
func (h *HashGrid) QueryRadius(center components.Point, radius int) []ecs.EntityID {
	if radius < 0 {
		return nil
	}

	lo := h.keyFor(components.Pt(center.X-radius, center.Y-radius))
	hi := h.keyFor(components.Pt(center.X+radius, center.Y+radius))
	r2 := radius * radius

	var result []ecs.EntityID
	collect := func(bucket []entry) {
		for _, e := range bucket {
			dx, dy := e.pos.X-center.X, e.pos.Y-center.Y
			if dx*dx+dy*dy <= r2 {
				result = append(result, e.id)
			}
		}
	}

	// Large radii cover more cells than exist; walk the buckets instead
	span := (hi.X - lo.X + 1) * (hi.Y - lo.Y + 1)
	if span > len(h.buckets) {
		for k, bucket := range h.buckets {
			if k.X >= lo.X && k.X <= hi.X && k.Y >= lo.Y && k.Y <= hi.Y {
				collect(bucket)
			}
		}
	} else {
		for cy := lo.Y; cy <= hi.Y; cy++ {
			for cx := lo.X; cx <= hi.X; cx++ {
				collect(h.buckets[cellKey{X: cx, Y: cy}])
			}
		}
	}
	slices.Sort(result)
	return result
}

// OccupantsAt returns the entities standing exactly on p, ordered by id
func (h *HashGrid) OccupantsAt(p components.Point) []ecs.EntityID {
	var result []ecs.EntityID
	for _, e := range h.buckets[h.keyFor(p)] {
		if e.pos == p {
			result = append(result, e.id)
		}
	}
	slices.Sort(result)
	return result
}

// Occupied reports whether any entity stands on p
func (h *HashGrid) Occupied(p components.Point) bool {
	for _, e := range h.buckets[h.keyFor(p)] {
		if e.pos == p {
			return true
		}
	}
	return false
}

// Len returns the number of stored entries
func (h *HashGrid) Len() int {
	return h.count
}

// Clear removes every entry
func (h *HashGrid) Clear() {
	clear(h.buckets)
	h.count = 0
}

// Snapshot returns an independent copy; later changes to either grid are not
// visible in the other.
func (h *HashGrid) Snapshot() *HashGrid {
	c := &HashGrid{
		cellSize: h.cellSize,
		buckets:  make(map[cellKey][]entry, len(h.buckets)),
		count:    h.count,
	}
	for k, bucket := range h.buckets {
		c.buckets[k] = slices.Clone(bucket)
	}
	return c
}
