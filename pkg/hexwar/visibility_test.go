package hexwar

import "testing"

func TestVisibleRegions_MasksBeyondBorder(t *testing.T) {
	// Chain a-b-c-d: p1 owns a. b is adjacent, c and d are not.
	a := &Region{ID: "a", OwnerID: "p1", Troops: 3}
	b := &Region{ID: "b", OwnerID: "p2", Troops: 5}
	c := &Region{ID: "c", OwnerID: "p2", Troops: 7}
	d := &Region{ID: "d", Troops: 2}
	pair(a, b)
	pair(b, c)
	pair(c, d)
	regions := []*Region{a, b, c, d}

	view := VisibleRegions(regions, "p1")

	if view[0].OwnerID != "p1" || view[0].Troops != 3 {
		t.Error("own region must be fully visible")
	}
	if view[1].OwnerID != "p2" || view[1].Troops != 5 {
		t.Error("adjacent region must be fully visible")
	}
	if view[2].OwnerID != "" || view[2].Troops != 0 {
		t.Errorf("region two steps away must be masked, got %s/%d", view[2].OwnerID, view[2].Troops)
	}
	if view[3].OwnerID != "" || view[3].Troops != 0 {
		t.Error("distant region must be masked")
	}

	// The projection must never touch authoritative state.
	if c.OwnerID != "p2" || c.Troops != 7 {
		t.Error("projection mutated the authoritative region list")
	}
}

func TestVisibleRegions_KeepsGridShape(t *testing.T) {
	a := &Region{ID: "a", OwnerID: "p1", Troops: 3}
	b := &Region{ID: "b", OwnerID: "p2", Troops: 5}
	pair(a, b)

	view := VisibleRegions([]*Region{a, b}, "p3")
	if len(view) != 2 {
		t.Fatalf("projection must keep every cell, got %d", len(view))
	}
	if len(view[0].Neighbors) != 1 {
		t.Error("projection must keep the neighbor graph")
	}
}
