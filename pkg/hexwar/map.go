package hexwar

import (
	"fmt"
	"math/rand"
)

const (
	minMapRadius = 3
	maxMapRadius = 8

	// startTroops is placed on every region claimed during initial placement
	// and expansion.
	startTroops = 3

	// clusteredBand restricts clustered placement to cells whose distance
	// from the center is at least this fraction of the maximum distance.
	clusteredBand = 0.6
)

// GenerateMap builds the hex grid for the given config and assigns starting
// regions to the given players. The rng is injected so games are seedable
// and tests deterministic.
func GenerateMap(playerIDs []string, cfg GameConfig, rng *rand.Rand) []*Region {
	radius := cfg.MapSize
	if radius < minMapRadius {
		radius = minMapRadius
	}
	if radius > maxMapRadius {
		radius = maxMapRadius
	}

	cells := hexGrid(radius)

	byCoord := make(map[HexCoord]*Region, len(cells))
	regions := make([]*Region, len(cells))
	for i, c := range cells {
		r := &Region{ID: fmt.Sprintf("r%d", i), Coord: c}
		byCoord[c] = r
		regions[i] = r
	}
	for _, r := range regions {
		for _, nc := range AdjacentCoords(r.Coord) {
			if n, ok := byCoord[nc]; ok {
				r.Neighbors = append(r.Neighbors, n.ID)
			}
		}
	}

	startRegions := cfg.StartRegions
	if startRegions < 1 {
		startRegions = 1
	}

	switch cfg.StartPlacement {
	case PlacementClustered:
		placeClustered(regions, playerIDs, rng)
	default:
		placeRandom(regions, playerIDs, rng)
	}
	if startRegions > 1 {
		expandTerritories(regions, playerIDs, startRegions-1, rng)
	}

	return regions
}

// hexGrid returns every axial cell within the given radius: the center cell
// plus all concentric rings.
func hexGrid(radius int) []HexCoord {
	var cells []HexCoord
	for q := -radius; q <= radius; q++ {
		lo := max(-radius, -q-radius)
		hi := min(radius, -q+radius)
		for r := lo; r <= hi; r++ {
			cells = append(cells, HexCoord{Q: q, R: r})
		}
	}
	return cells
}

func placeRandom(regions []*Region, playerIDs []string, rng *rand.Rand) {
	shuffled := shuffleRegions(regions, rng)
	for i := 0; i < len(playerIDs) && i < len(shuffled); i++ {
		shuffled[i].OwnerID = playerIDs[i]
		shuffled[i].Troops = startTroops
	}
}

// placeClustered restricts starting candidates to the outer band of the map
// so players begin on the perimeter and fight toward the center.
func placeClustered(regions []*Region, playerIDs []string, rng *rand.Rand) {
	center := HexCoord{}
	maxDist := 0
	for _, r := range regions {
		if d := Distance(r.Coord, center); d > maxDist {
			maxDist = d
		}
	}
	threshold := int(float64(maxDist) * clusteredBand)

	var band []*Region
	for _, r := range regions {
		if Distance(r.Coord, center) >= threshold {
			band = append(band, r)
		}
	}

	starts := shuffleRegions(band, rng)
	for i := 0; i < len(playerIDs) && i < len(starts); i++ {
		starts[i].OwnerID = playerIDs[i]
		starts[i].Troops = startTroops
	}
}

// expandTerritories runs extraCount passes; in each pass players are visited
// in a freshly shuffled order and each claims one unclaimed region adjacent
// to their territory, picked uniformly at random. Overlapping candidate sets
// are resolved first-come in that pass's player order — an explicit, not
// necessarily fair, tie-break. A player with no candidate is skipped.
func expandTerritories(regions []*Region, playerIDs []string, extraCount int, rng *rand.Rand) {
	byID := make(map[string]*Region, len(regions))
	for _, r := range regions {
		byID[r.ID] = r
	}

	for pass := 0; pass < extraCount; pass++ {
		order := append([]string(nil), playerIDs...)
		rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })

		for _, playerID := range order {
			var candidates []*Region
			seen := make(map[string]bool)
			for _, r := range regions {
				if r.OwnerID != playerID {
					continue
				}
				for _, nID := range r.Neighbors {
					if seen[nID] {
						continue
					}
					seen[nID] = true
					if n := byID[nID]; n != nil && n.OwnerID == "" {
						candidates = append(candidates, n)
					}
				}
			}
			if len(candidates) == 0 {
				continue
			}
			pick := candidates[rng.Intn(len(candidates))]
			pick.OwnerID = playerID
			pick.Troops = startTroops
		}
	}
}

func shuffleRegions(regions []*Region, rng *rand.Rand) []*Region {
	out := append([]*Region(nil), regions...)
	rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}
