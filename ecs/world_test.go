package ecs

import "testing"

type testEvent struct{ n int }

func (testEvent) Type() EventType { return "test" }

func TestCreateEntityAssignsSequentialIDs(t *testing.T) {
	w := NewWorld()
	a := w.CreateEntity()
	b := w.CreateEntity()
	if a.ID != 1 || b.ID != 2 {
		t.Errorf("expected IDs 1 and 2, got %d and %d", a.ID, b.ID)
	}

	// IDs are per world, so a second world starts over
	other := NewWorld()
	if id := other.CreateEntity().ID; id != 1 {
		t.Errorf("fresh world should start at 1, got %d", id)
	}
}

func TestTaggedEntitiesAreOrderedByID(t *testing.T) {
	w := NewWorld()
	var ids []EntityID
	for i := 0; i < 20; i++ {
		e := w.CreateEntity()
		w.TagEntity(e.ID, "ai")
		ids = append(ids, e.ID)
	}

	got := w.GetEntitiesWithTag("ai")
	if len(got) != len(ids) {
		t.Fatalf("expected %d entities, got %d", len(ids), len(got))
	}
	for i, e := range got {
		if e.ID != ids[i] {
			t.Fatalf("position %d: expected ID %d, got %d", i, ids[i], e.ID)
		}
	}
}

func TestAddComponentIgnoresUnknownEntity(t *testing.T) {
	w := NewWorld()
	w.AddComponent(99, 0, "x")
	if w.HasComponent(99, 0) {
		t.Error("component attached to an entity that does not exist")
	}
}

func TestEventManagerDispatch(t *testing.T) {
	w := NewWorld()
	total := 0
	w.GetEventManager().Subscribe("test", func(e Event) { total += e.(testEvent).n })
	w.GetEventManager().Subscribe("test", func(e Event) { total += 10 * e.(testEvent).n })

	w.EmitEvent(testEvent{n: 2})
	if total != 22 {
		t.Errorf("expected both handlers to run, total %d", total)
	}
}

func TestSharedEventManagerOutlivesWorld(t *testing.T) {
	em := NewEventManager()
	seen := 0
	em.Subscribe("test", func(Event) { seen++ })

	NewWorldWithEventManager(em).EmitEvent(testEvent{n: 1})
	NewWorldWithEventManager(em).EmitEvent(testEvent{n: 1})
	if seen != 2 {
		t.Errorf("expected the handler to see both worlds' events, saw %d", seen)
	}
}
