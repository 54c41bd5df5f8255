package formation

import "testing"

func TestDefaultCatalog_ShapesAreComplete(t *testing.T) {
	catalog := DefaultCatalog()

	shapes := catalog.Shapes()
	if len(shapes) != 8 {
		t.Fatalf("unexpected shape count: %d", len(shapes))
	}

	for _, shape := range shapes {
		slots, ok := catalog.Lookup(shape)
		if !ok {
			t.Fatalf("shape %s missing from lookup", shape)
		}
		if len(slots) != 11 {
			t.Fatalf("shape %s: expected 11 slots, got %d", shape, len(slots))
		}

		goalkeepers := 0
		for _, slot := range slots {
			if slot.Group == GroupGoalkeeper {
				goalkeepers++
			}
		}
		if goalkeepers != 1 {
			t.Fatalf("shape %s: expected exactly one goalkeeper slot, got %d", shape, goalkeepers)
		}
	}
}

func TestCatalog_LookupReturnsCopy(t *testing.T) {
	catalog := DefaultCatalog()

	slots, _ := catalog.Lookup(Shape433)
	slots[0].Position = "XX"

	again, _ := catalog.Lookup(Shape433)
	if again[0].Position != "GK" {
		t.Fatalf("catalog was mutated through lookup result: %s", again[0].Position)
	}
}

func TestNewCatalog_RejectsInvalidShapes(t *testing.T) {
	tests := []struct {
		name  string
		slots Slots
	}{
		{name: "empty", slots: Slots{}},
		{name: "duplicate id", slots: Slots{
			{ID: 1, Position: "GK", Group: GroupGoalkeeper},
			{ID: 1, Position: "CB", Group: GroupDefender},
		}},
		{name: "unknown group", slots: Slots{{ID: 1, Position: "GK", Group: "keeper"}}},
		{name: "missing label", slots: Slots{{ID: 1, Group: GroupGoalkeeper}}},
		{name: "out of pitch", slots: Slots{{ID: 1, Position: "GK", Group: GroupGoalkeeper, Top: 120}}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := NewCatalog(map[string]Slots{"x": tc.slots}); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestSlots_ByID(t *testing.T) {
	slots := Slots{
		{ID: 1, Position: "GK", Group: GroupGoalkeeper},
		{ID: 2, Position: "CB", Group: GroupDefender},
	}

	slot, ok := slots.ByID(2)
	if !ok || slot.Position != "CB" {
		t.Fatalf("unexpected lookup result: %+v ok=%v", slot, ok)
	}
	if slots.Contains(3) {
		t.Fatalf("did not expect slot 3")
	}
}
