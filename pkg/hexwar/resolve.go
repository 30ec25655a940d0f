package hexwar

import (
	"math"
	"sort"
)

// attack accumulates one round's attacking contributions against a target.
type attack struct {
	target *Region
	total  int
	shares map[string]int // playerID -> committed troops
}

// reinforcement is a reserved friendly transfer into a target region.
type reinforcement struct {
	target *Region
	troops int
}

// Resolve adjudicates one round of simultaneous orders against the given
// regions, mutating owner/troop state in place, and returns the round's
// deltas. The caller fills in RoundResult.Round and Winner.
//
// Resolution is total: invalid orders are corrected or dropped, never
// rejected back to the submitter. The sum of troops leaving a region never
// exceeds troops-1 (one garrison unit always stays), and no region ends a
// round below zero troops.
func Resolve(regions []*Region, orders []SubmittedOrder, cfg GameConfig) *RoundResult {
	byID := make(map[string]*Region, len(regions))
	for _, r := range regions {
		byID[r.ID] = r
	}

	ownersBefore := OwnedCount(regions)

	valid := validateOrders(byID, orders)
	scaled := scaleOverdrafts(byID, valid)

	// Classify and reserve. Committed troops leave the source immediately so
	// a region cannot fund two destinations beyond its garrison-protected
	// balance.
	var attacks = make(map[string]*attack)
	var reinforcements []reinforcement
	touched := make(map[string]bool)

	for _, so := range scaled {
		src := byID[so.Order.FromRegionID]
		dst := byID[so.Order.ToRegionID]
		troops := so.Order.Troops

		src.Troops -= troops
		touched[src.ID] = true
		touched[dst.ID] = true

		if dst.OwnerID == so.PlayerID {
			reinforcements = append(reinforcements, reinforcement{target: dst, troops: troops})
			continue
		}
		a := attacks[dst.ID]
		if a == nil {
			a = &attack{target: dst, shares: make(map[string]int)}
			attacks[dst.ID] = a
		}
		a.total += troops
		a.shares[so.PlayerID] += troops
	}

	attackerLists := make(map[string][]AttackerShare, len(attacks))
	for id, a := range attacks {
		resolveAttack(a, cfg)
		attackerLists[id] = sharesList(a.shares)
	}

	for _, re := range reinforcements {
		re.target.Troops += re.troops
	}

	result := &RoundResult{}
	ids := make([]string, 0, len(touched))
	for id := range touched {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		r := byID[id]
		result.RegionDeltas = append(result.RegionDeltas, RegionDelta{
			RegionID:   r.ID,
			NewOwnerID: r.OwnerID,
			NewTroops:  r.Troops,
			Attackers:  attackerLists[id],
		})
	}

	ownersAfter := OwnedCount(regions)
	for owner := range ownersBefore {
		if ownersAfter[owner] == 0 {
			result.Eliminated = append(result.Eliminated, owner)
		}
	}
	sort.Strings(result.Eliminated)

	return result
}

// validateOrders drops orders that cannot be executed: unknown regions,
// sources the submitter does not own, non-adjacent targets, and self-moves.
func validateOrders(byID map[string]*Region, orders []SubmittedOrder) []SubmittedOrder {
	var out []SubmittedOrder
	for _, so := range orders {
		src := byID[so.Order.FromRegionID]
		dst := byID[so.Order.ToRegionID]
		if src == nil || dst == nil || src == dst {
			continue
		}
		if src.OwnerID != so.PlayerID {
			continue
		}
		if so.Order.Troops <= 0 {
			continue
		}
		adjacent := false
		for _, nID := range src.Neighbors {
			if nID == dst.ID {
				adjacent = true
				break
			}
		}
		if !adjacent {
			continue
		}
		out = append(out, so)
	}
	return out
}

// scaleOverdrafts enforces the garrison invariant per source region: when
// the sum requested exceeds troops-1, every order from that region is scaled
// by available/requested and floored. Individual orders are then clamped to
// troops-1 and zero-troop remainders dropped.
func scaleOverdrafts(byID map[string]*Region, orders []SubmittedOrder) []SubmittedOrder {
	requested := make(map[string]int)
	for _, so := range orders {
		requested[so.Order.FromRegionID] += so.Order.Troops
	}

	var out []SubmittedOrder
	for _, so := range orders {
		src := byID[so.Order.FromRegionID]
		available := src.Troops - 1
		if available < 0 {
			available = 0
		}

		troops := so.Order.Troops
		if total := requested[src.ID]; total > available {
			troops = int(math.Floor(float64(troops) * float64(available) / float64(total)))
		}
		if troops > available {
			troops = available
		}
		if troops <= 0 {
			continue
		}
		so.Order.Troops = troops
		out = append(out, so)
	}
	return out
}

// resolveAttack applies the combat formula to one target region.
//
// An empty region (0 troops, freshly vacated or neutral) falls to the
// dominant attacker with the full attacking force and no losses; the
// reduction formula would otherwise leave 1-troop neutrals permanently
// unconquerable. A defended region is never left at 0 troops: the max(1,..)
// floor reserves 0 troops for the vacated/neutral case.
func resolveAttack(a *attack, cfg GameConfig) {
	target := a.target
	winner := dominantAttacker(a.shares)

	if target.Troops == 0 {
		target.OwnerID = winner
		target.Troops = a.total
		return
	}

	attackSurvivors := int(math.Round(float64(a.total) * (1 - cfg.DefenseAdvantage)))
	defSurvivors := int(math.Round(float64(target.Troops) * cfg.DefenseAdvantage))

	if attackSurvivors > defSurvivors {
		target.OwnerID = winner
		target.Troops = max(1, attackSurvivors-defSurvivors)
	} else {
		target.Troops = max(1, defSurvivors-attackSurvivors)
	}
}

// dominantAttacker returns the player with the largest aggregate
// contribution. Equal maxima break to the lowest player id, a deterministic
// rule replacing the arrival-order tie-break of earlier versions.
func dominantAttacker(shares map[string]int) string {
	best := ""
	bestTroops := -1
	for playerID, troops := range shares {
		if troops > bestTroops || (troops == bestTroops && playerID < best) {
			best = playerID
			bestTroops = troops
		}
	}
	return best
}

func sharesList(shares map[string]int) []AttackerShare {
	out := make([]AttackerShare, 0, len(shares))
	for playerID, troops := range shares {
		out = append(out, AttackerShare{PlayerID: playerID, Troops: troops})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PlayerID < out[j].PlayerID })
	return out
}
