// Package bot generates orders for a headless player. Strategies work from
// the same region snapshot a human client sees, so under fog they plan
// against the masked view like everyone else.
package bot

import (
	"github.com/aaronFortuno/HexaTegy/pkg/hexwar"
)

// Strategy generates one round of move orders for the given player.
type Strategy interface {
	Name() string
	GenerateOrders(regions []*hexwar.Region, playerID string) []hexwar.MoveOrder
}

// StrategyForName returns the strategy for a name, defaulting to greedy.
func StrategyForName(name string) Strategy {
	switch name {
	case "random":
		return RandomStrategy{}
	case "idle":
		return IdleStrategy{}
	default:
		return GreedyStrategy{}
	}
}

// --- IdleStrategy ---

// IdleStrategy submits no orders, letting production pile up. Useful as a
// punching bag in integration tests.
type IdleStrategy struct{}

func (IdleStrategy) Name() string { return "idle" }

func (IdleStrategy) GenerateOrders([]*hexwar.Region, string) []hexwar.MoveOrder {
	return nil
}

// --- RandomStrategy ---

// RandomStrategy moves a random share of troops from each owned region to a
// random neighbor: ~30% hold, ~70% move.
type RandomStrategy struct{}

func (RandomStrategy) Name() string { return "random" }

func (RandomStrategy) GenerateOrders(regions []*hexwar.Region, playerID string) []hexwar.MoveOrder {
	var orders []hexwar.MoveOrder
	for _, r := range regions {
		if r.OwnerID != playerID || r.Troops < 2 {
			continue
		}
		if botFloat64() < 0.3 || len(r.Neighbors) == 0 {
			continue
		}
		target := r.Neighbors[botIntn(len(r.Neighbors))]
		// Send between 1 and troops-1 so the source is never stripped bare.
		troops := 1 + botIntn(r.Troops-1)
		orders = append(orders, hexwar.MoveOrder{
			FromRegionID: r.ID,
			ToRegionID:   target,
			Troops:       troops,
		})
	}
	return orders
}

// --- GreedyStrategy ---

// defenseEstimate mirrors the default defense advantage. The bot does not
// see the room config, so it plans against the standard value.
const defenseEstimate = 0.55

// GreedyStrategy attacks the weakest adjacent region it expects to take and
// shuttles interior troops toward the front.
type GreedyStrategy struct{}

func (GreedyStrategy) Name() string { return "greedy" }

func (GreedyStrategy) GenerateOrders(regions []*hexwar.Region, playerID string) []hexwar.MoveOrder {
	byID := make(map[string]*hexwar.Region, len(regions))
	for _, r := range regions {
		byID[r.ID] = r
	}

	var orders []hexwar.MoveOrder
	for _, r := range regions {
		if r.OwnerID != playerID || r.Troops < 2 {
			continue
		}
		spare := r.Troops - 1

		if target := weakestTakeable(r, byID, playerID, spare); target != "" {
			orders = append(orders, hexwar.MoveOrder{
				FromRegionID: r.ID,
				ToRegionID:   target,
				Troops:       spare,
			})
			continue
		}

		// Interior region: push troops to an owned neighbor that borders
		// the enemy, visiting candidates in random order to spread load.
		if front := frontNeighbor(r, byID, playerID); front != "" {
			orders = append(orders, hexwar.MoveOrder{
				FromRegionID: r.ID,
				ToRegionID:   front,
				Troops:       spare,
			})
		}
	}
	return orders
}

// weakestTakeable returns the id of the weakest non-owned neighbor the
// attack is expected to capture, or "".
func weakestTakeable(r *hexwar.Region, byID map[string]*hexwar.Region, playerID string, attack int) string {
	best := ""
	bestTroops := 0
	for _, id := range r.Neighbors {
		n := byID[id]
		if n == nil || n.OwnerID == playerID {
			continue
		}
		if !expectCapture(attack, n.Troops) {
			continue
		}
		if best == "" || n.Troops < bestTroops {
			best = id
			bestTroops = n.Troops
		}
	}
	return best
}

// expectCapture estimates the combat outcome with the default defense
// advantage. Empty regions fall to any attack.
func expectCapture(attack, defense int) bool {
	if defense == 0 {
		return attack > 0
	}
	return float64(attack)*(1-defenseEstimate) > float64(defense)*defenseEstimate
}

// frontNeighbor returns an owned neighbor that itself borders a non-owned
// region, or "".
func frontNeighbor(r *hexwar.Region, byID map[string]*hexwar.Region, playerID string) string {
	perm := botPerm(len(r.Neighbors))
	for _, idx := range perm {
		n := byID[r.Neighbors[idx]]
		if n == nil || n.OwnerID != playerID {
			continue
		}
		for _, nn := range n.Neighbors {
			if m := byID[nn]; m != nil && m.OwnerID != playerID {
				return n.ID
			}
		}
	}
	return ""
}
