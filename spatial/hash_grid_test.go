package spatial

import (
	"errors"
	"math/rand/v2"
	"slices"
	"testing"

	"cave-rogue/components"
	"cave-rogue/config"
	"cave-rogue/ecs"
)

func newGrid(t *testing.T, cellSize int) *HashGrid {
	t.Helper()
	h, err := NewHashGrid(cellSize)
	if err != nil {
		t.Fatalf("NewHashGrid(%d): %v", cellSize, err)
	}
	return h
}

func TestNewHashGridRejectsNonPositiveCellSize(t *testing.T) {
	for _, size := range []int{0, -1, -5} {
		h, err := NewHashGrid(size)
		if !errors.Is(err, config.ErrInvalidConfiguration) {
			t.Errorf("cell size %d: expected ErrInvalidConfiguration, got %v", size, err)
		}
		if h != nil {
			t.Errorf("cell size %d: grid returned with error", size)
		}
	}
}

func TestQueryRadiusScenario(t *testing.T) {
	h := newGrid(t, 5)
	h.Insert(1, components.Pt(10, 10))
	h.Insert(2, components.Pt(12, 12))

	got := h.QueryRadius(components.Pt(10, 10), 3)
	if !slices.Equal(got, []ecs.EntityID{1, 2}) {
		t.Errorf("radius 3: got %v, want [1 2]", got)
	}

	got = h.QueryRadius(components.Pt(10, 10), 1)
	if !slices.Equal(got, []ecs.EntityID{1}) {
		t.Errorf("radius 1: got %v, want [1]", got)
	}
}

func TestQueryRadiusBoundaryIsInclusive(t *testing.T) {
	h := newGrid(t, 4)
	h.Insert(7, components.Pt(3, 4))

	if got := h.QueryRadius(components.Pt(0, 0), 5); !slices.Equal(got, []ecs.EntityID{7}) {
		t.Errorf("distance exactly 5 should match radius 5, got %v", got)
	}
	if got := h.QueryRadius(components.Pt(0, 0), 4); len(got) != 0 {
		t.Errorf("distance 5 should not match radius 4, got %v", got)
	}
	if got := h.QueryRadius(components.Pt(3, 4), 0); !slices.Equal(got, []ecs.EntityID{7}) {
		t.Errorf("radius 0 should match the exact tile, got %v", got)
	}
	if got := h.QueryRadius(components.Pt(3, 4), -1); got != nil {
		t.Errorf("negative radius should match nothing, got %v", got)
	}
}

func TestFloorDivKeysNegativeCoordinates(t *testing.T) {
	tests := []struct {
		a, b, want int
	}{
		{0, 5, 0},
		{4, 5, 0},
		{5, 5, 1},
		{-1, 5, -1},
		{-5, 5, -1},
		{-6, 5, -2},
		{-10, 5, -2},
	}
	for _, tt := range tests {
		if got := floorDiv(tt.a, tt.b); got != tt.want {
			t.Errorf("floorDiv(%d, %d) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestQueryRadiusMatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewPCG(11, 22))

	for _, cellSize := range []int{1, 3, 5, 16} {
		h := newGrid(t, cellSize)
		positions := make(map[ecs.EntityID]components.Point)
		for id := ecs.EntityID(1); id <= 200; id++ {
			p := components.Pt(rng.IntN(81)-40, rng.IntN(81)-40)
			positions[id] = p
			h.Insert(id, p)
		}

		for q := 0; q < 100; q++ {
			center := components.Pt(rng.IntN(101)-50, rng.IntN(101)-50)
			radius := rng.IntN(20)

			var want []ecs.EntityID
			for id, p := range positions {
				dx, dy := p.X-center.X, p.Y-center.Y
				if dx*dx+dy*dy <= radius*radius {
					want = append(want, id)
				}
			}
			slices.Sort(want)

			got := h.QueryRadius(center, radius)
			if !slices.Equal(got, want) {
				t.Fatalf("cell %d, center %v, r %d: got %v, want %v", cellSize, center, radius, got, want)
			}
		}
	}
}

func TestQueryRadiusLargeRadiusOnSparseGrid(t *testing.T) {
	h := newGrid(t, 1)
	h.Insert(1, components.Pt(0, 0))
	h.Insert(2, components.Pt(15000, 0))
	h.Insert(3, components.Pt(20001, 0))
	h.Insert(4, components.Pt(-3, -4))

	// 40001² candidate cells, four live buckets
	got := h.QueryRadius(components.Pt(0, 0), 20000)
	if want := []ecs.EntityID{1, 2, 4}; !slices.Equal(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestRemove(t *testing.T) {
	h := newGrid(t, 5)
	h.Insert(1, components.Pt(2, 2))
	h.Insert(2, components.Pt(2, 2))

	if h.Remove(1, components.Pt(3, 3)) {
		t.Error("removing at the wrong position should be a no-op")
	}
	if h.Remove(9, components.Pt(2, 2)) {
		t.Error("removing an unknown id should be a no-op")
	}
	if h.Len() != 2 {
		t.Fatalf("no-op removes changed the size to %d", h.Len())
	}

	if !h.Remove(1, components.Pt(2, 2)) {
		t.Fatal("expected entity 1 to be removed")
	}
	if got := h.OccupantsAt(components.Pt(2, 2)); !slices.Equal(got, []ecs.EntityID{2}) {
		t.Errorf("after remove: occupants %v, want [2]", got)
	}
	if h.Remove(1, components.Pt(2, 2)) {
		t.Error("second remove of the same entry should report false")
	}

	h.Remove(2, components.Pt(2, 2))
	if h.Len() != 0 || h.Occupied(components.Pt(2, 2)) {
		t.Error("grid should be empty")
	}
}

func TestMoveAcrossBuckets(t *testing.T) {
	h := newGrid(t, 5)
	h.Insert(3, components.Pt(4, 4))

	if !h.Move(3, components.Pt(4, 4), components.Pt(5, 4)) {
		t.Fatal("move failed")
	}
	if h.Occupied(components.Pt(4, 4)) {
		t.Error("old tile still occupied")
	}
	if !h.Occupied(components.Pt(5, 4)) {
		t.Error("new tile not occupied")
	}
	if h.Move(3, components.Pt(4, 4), components.Pt(6, 4)) {
		t.Error("move from a stale position should fail")
	}
	if h.Len() != 1 {
		t.Errorf("expected 1 entry, got %d", h.Len())
	}
}

func TestOccupiedIsExactTile(t *testing.T) {
	h := newGrid(t, 5)
	h.Insert(1, components.Pt(-3, 7))

	if !h.Occupied(components.Pt(-3, 7)) {
		t.Error("expected (-3,7) occupied")
	}
	// Same bucket, different tile
	if h.Occupied(components.Pt(-4, 7)) {
		t.Error("(-4,7) should be free")
	}
}

func TestSnapshotIsIndependent(t *testing.T) {
	h := newGrid(t, 5)
	h.Insert(1, components.Pt(1, 1))
	snap := h.Snapshot()

	h.Move(1, components.Pt(1, 1), components.Pt(2, 1))
	h.Insert(2, components.Pt(8, 8))

	if !snap.Occupied(components.Pt(1, 1)) || snap.Occupied(components.Pt(2, 1)) {
		t.Error("snapshot observed a later move")
	}
	if snap.Len() != 1 {
		t.Errorf("snapshot length %d, want 1", snap.Len())
	}

	snap.Clear()
	if h.Len() != 2 {
		t.Errorf("clearing the snapshot changed the source (len %d)", h.Len())
	}
}
