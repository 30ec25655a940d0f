package bot

import (
	"testing"

	"github.com/aaronFortuno/HexaTegy/pkg/hexwar"
)

// board builds a three-in-a-row map: a <-> b <-> c.
func board(aOwner string, aTroops int, bOwner string, bTroops int, cOwner string, cTroops int) []*hexwar.Region {
	return []*hexwar.Region{
		{ID: "a", OwnerID: aOwner, Troops: aTroops, Neighbors: []string{"b"}},
		{ID: "b", OwnerID: bOwner, Troops: bTroops, Neighbors: []string{"a", "c"}},
		{ID: "c", OwnerID: cOwner, Troops: cTroops, Neighbors: []string{"b"}},
	}
}

func TestStrategyForName(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"random", "random"},
		{"idle", "idle"},
		{"greedy", "greedy"},
		{"bogus", "greedy"},
	}
	for _, tt := range tests {
		if got := StrategyForName(tt.name).Name(); got != tt.want {
			t.Errorf("StrategyForName(%q).Name() = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestIdleStrategySubmitsNothing(t *testing.T) {
	regions := board("p1", 5, "p2", 5, "", 0)
	if orders := (IdleStrategy{}).GenerateOrders(regions, "p1"); len(orders) != 0 {
		t.Errorf("idle strategy should submit nothing, got %+v", orders)
	}
}

func TestRandomStrategyOrdersAreLegal(t *testing.T) {
	SeedBotRng(1)
	defer ResetBotRng()

	regions := board("p1", 8, "p1", 6, "p2", 3)
	byID := make(map[string]*hexwar.Region)
	for _, r := range regions {
		byID[r.ID] = r
	}

	for n := 0; n < 20; n++ {
		for _, o := range (RandomStrategy{}).GenerateOrders(regions, "p1") {
			src := byID[o.FromRegionID]
			if src == nil || src.OwnerID != "p1" {
				t.Fatalf("order from non-owned region: %+v", o)
			}
			adjacent := false
			for _, n := range src.Neighbors {
				if n == o.ToRegionID {
					adjacent = true
				}
			}
			if !adjacent {
				t.Fatalf("order to non-adjacent region: %+v", o)
			}
			if o.Troops < 1 || o.Troops > src.Troops-1 {
				t.Fatalf("order strips the source bare: %+v", o)
			}
		}
	}
}

func TestRandomStrategySkipsSingleTroopRegions(t *testing.T) {
	SeedBotRng(1)
	defer ResetBotRng()

	regions := board("p1", 1, "p2", 5, "", 0)
	for n := 0; n < 20; n++ {
		if orders := (RandomStrategy{}).GenerateOrders(regions, "p1"); len(orders) != 0 {
			t.Fatalf("a region with 1 troop cannot move, got %+v", orders)
		}
	}
}

func TestGreedyAttacksWeakestTakeableNeighbor(t *testing.T) {
	regions := []*hexwar.Region{
		{ID: "a", OwnerID: "p1", Troops: 10, Neighbors: []string{"b", "c"}},
		{ID: "b", OwnerID: "p2", Troops: 3, Neighbors: []string{"a"}},
		{ID: "c", OwnerID: "p2", Troops: 1, Neighbors: []string{"a"}},
	}

	orders := (GreedyStrategy{}).GenerateOrders(regions, "p1")
	if len(orders) != 1 {
		t.Fatalf("expected 1 order, got %+v", orders)
	}
	if orders[0].ToRegionID != "c" {
		t.Errorf("expected attack on weakest neighbor c, got %s", orders[0].ToRegionID)
	}
	if orders[0].Troops != 9 {
		t.Errorf("expected full spare commitment of 9, got %d", orders[0].Troops)
	}
}

func TestGreedyHoldsAgainstStrongDefense(t *testing.T) {
	// 4 spare attackers vs 5 defenders at 0.55 advantage is a losing trade.
	regions := board("p1", 5, "p2", 5, "", 0)
	orders := (GreedyStrategy{}).GenerateOrders(regions, "p1")
	if len(orders) != 0 {
		t.Errorf("greedy should not attack into a losing fight, got %+v", orders)
	}
}

func TestGreedyTakesEmptyRegions(t *testing.T) {
	regions := board("p1", 2, "", 0, "p2", 50)
	orders := (GreedyStrategy{}).GenerateOrders(regions, "p1")
	if len(orders) != 1 || orders[0].ToRegionID != "b" {
		t.Errorf("greedy should grab the empty neighbor, got %+v", orders)
	}
}

func TestGreedyShuttlesInteriorTroopsToFront(t *testing.T) {
	SeedBotRng(1)
	defer ResetBotRng()

	// a is interior (only owned neighbors), b borders the enemy.
	regions := []*hexwar.Region{
		{ID: "a", OwnerID: "p1", Troops: 6, Neighbors: []string{"b"}},
		{ID: "b", OwnerID: "p1", Troops: 2, Neighbors: []string{"a", "c"}},
		{ID: "c", OwnerID: "p2", Troops: 40, Neighbors: []string{"b"}},
	}

	orders := (GreedyStrategy{}).GenerateOrders(regions, "p1")
	var interior *hexwar.MoveOrder
	for i := range orders {
		if orders[i].FromRegionID == "a" {
			interior = &orders[i]
		}
	}
	if interior == nil {
		t.Fatalf("interior region should reinforce the front, got %+v", orders)
	}
	if interior.ToRegionID != "b" || interior.Troops != 5 {
		t.Errorf("expected 5 troops moved a->b, got %+v", interior)
	}
}
