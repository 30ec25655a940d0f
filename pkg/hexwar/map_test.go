package hexwar

import (
	"math/rand"
	"testing"
)

func testRNG() *rand.Rand {
	return rand.New(rand.NewSource(42))
}

func TestHexDistance(t *testing.T) {
	tests := []struct {
		a, b HexCoord
		want int
	}{
		{HexCoord{0, 0}, HexCoord{0, 0}, 0},
		{HexCoord{0, 0}, HexCoord{1, 0}, 1},
		{HexCoord{0, 0}, HexCoord{1, -1}, 1},
		{HexCoord{0, 0}, HexCoord{3, 0}, 3},
		{HexCoord{0, 0}, HexCoord{2, -1}, 2},
		{HexCoord{-2, 1}, HexCoord{2, -1}, 4},
	}
	for _, tt := range tests {
		if got := Distance(tt.a, tt.b); got != tt.want {
			t.Errorf("Distance(%v, %v) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestGenerateMap_CellCount(t *testing.T) {
	// A hexagon of radius r has 3r^2+3r+1 cells.
	for _, radius := range []int{3, 5, 8} {
		cfg := DefaultConfig()
		cfg.MapSize = radius
		regions := GenerateMap([]string{"p1"}, cfg, testRNG())
		want := 3*radius*radius + 3*radius + 1
		if len(regions) != want {
			t.Errorf("radius %d: got %d regions, want %d", radius, len(regions), want)
		}
	}
}

func TestGenerateMap_RadiusClamp(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MapSize = 1
	if got := len(GenerateMap([]string{"p1"}, cfg, testRNG())); got != 37 {
		t.Errorf("radius below min should clamp to 3 (37 cells), got %d", got)
	}
	cfg.MapSize = 20
	if got := len(GenerateMap([]string{"p1"}, cfg, testRNG())); got != 217 {
		t.Errorf("radius above max should clamp to 8 (217 cells), got %d", got)
	}
}

func TestGenerateMap_NeighborsSymmetric(t *testing.T) {
	cfg := DefaultConfig()
	regions := GenerateMap([]string{"p1", "p2"}, cfg, testRNG())
	byID := make(map[string]*Region)
	for _, r := range regions {
		byID[r.ID] = r
	}

	for _, r := range regions {
		if len(r.Neighbors) > 6 {
			t.Fatalf("region %s has %d neighbors", r.ID, len(r.Neighbors))
		}
		for _, nID := range r.Neighbors {
			n := byID[nID]
			if n == nil {
				t.Fatalf("region %s lists unknown neighbor %s", r.ID, nID)
			}
			if Distance(r.Coord, n.Coord) != 1 {
				t.Errorf("regions %s and %s are neighbors but distance != 1", r.ID, n.ID)
			}
			back := false
			for _, bID := range n.Neighbors {
				if bID == r.ID {
					back = true
				}
			}
			if !back {
				t.Errorf("neighbor relation not symmetric: %s -> %s", r.ID, nID)
			}
		}
	}
}

func TestGenerateMap_RandomPlacement(t *testing.T) {
	players := []string{"p1", "p2", "p3", "p4"}
	cfg := DefaultConfig()
	regions := GenerateMap(players, cfg, testRNG())

	owned := make(map[string]int)
	for _, r := range regions {
		if r.OwnerID == "" {
			continue
		}
		owned[r.OwnerID]++
		if r.Troops != 3 {
			t.Errorf("start region %s has %d troops, want 3", r.ID, r.Troops)
		}
	}
	for _, p := range players {
		if owned[p] != 1 {
			t.Errorf("player %s owns %d regions, want 1", p, owned[p])
		}
	}
}

func TestGenerateMap_ClusteredPlacementIsPerimetral(t *testing.T) {
	players := []string{"p1", "p2", "p3"}
	cfg := DefaultConfig()
	cfg.StartPlacement = PlacementClustered
	regions := GenerateMap(players, cfg, testRNG())

	center := HexCoord{}
	maxDist := 0
	for _, r := range regions {
		if d := Distance(r.Coord, center); d > maxDist {
			maxDist = d
		}
	}
	threshold := int(float64(maxDist) * 0.6)

	for _, r := range regions {
		if r.OwnerID != "" && Distance(r.Coord, center) < threshold {
			t.Errorf("clustered start %s at distance %d, threshold %d", r.ID, Distance(r.Coord, center), threshold)
		}
	}
}

func TestGenerateMap_StartRegionExpansion(t *testing.T) {
	players := []string{"p1", "p2"}
	cfg := DefaultConfig()
	cfg.StartRegions = 3
	regions := GenerateMap(players, cfg, testRNG())

	byID := make(map[string]*Region)
	for _, r := range regions {
		byID[r.ID] = r
	}

	owned := make(map[string][]*Region)
	for _, r := range regions {
		if r.OwnerID != "" {
			owned[r.OwnerID] = append(owned[r.OwnerID], r)
			if r.Troops != 3 {
				t.Errorf("claimed region %s has %d troops, want 3", r.ID, r.Troops)
			}
		}
	}

	for _, p := range players {
		// A fresh radius-5 map has room for every expansion pass to succeed.
		if len(owned[p]) != 3 {
			t.Errorf("player %s owns %d regions, want 3", p, len(owned[p]))
		}
		// Expanded territory must be connected to the rest of the player's
		// regions: every region after the first touches another owned one.
		for _, r := range owned[p] {
			if len(owned[p]) == 1 {
				break
			}
			touches := false
			for _, nID := range r.Neighbors {
				if n := byID[nID]; n != nil && n.OwnerID == p {
					touches = true
				}
			}
			if !touches {
				t.Errorf("player %s region %s is disconnected from their territory", p, r.ID)
			}
		}
	}
}
