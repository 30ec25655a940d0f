package hexwar

// streak tracks consecutive rounds of uninterrupted same-owner control.
type streak struct {
	ownerID string
	rounds  int
}

// ProductionEngine grows troops on owned regions each round. The control
// streak map is a field, not package state, so concurrent rooms never leak
// streaks into each other and a new game resets cleanly.
type ProductionEngine struct {
	streaks map[string]*streak // regionID -> control streak
}

// NewProductionEngine returns an engine with an empty streak map.
func NewProductionEngine() *ProductionEngine {
	return &ProductionEngine{streaks: make(map[string]*streak)}
}

// Apply adds one round of production to every owned region:
//
//	base + ownedNeighbors*perNeighbor [+ bonus when the control streak
//	reaches cfg.BonusAfterRounds]
//
// Regions in skip (captured in the immediately preceding resolution) still
// have their streak updated but receive no troops, so a fresh conquest
// cannot inflate on the same round it changed hands.
func (e *ProductionEngine) Apply(regions []*Region, cfg GameConfig, skip map[string]bool) {
	byID := make(map[string]*Region, len(regions))
	for _, r := range regions {
		byID[r.ID] = r
	}

	for _, region := range regions {
		if region.OwnerID == "" {
			continue
		}

		production := cfg.BaseProduction
		for _, nID := range region.Neighbors {
			if n := byID[nID]; n != nil && n.OwnerID == region.OwnerID {
				production += cfg.ProductionPerNeighbor
			}
		}

		s := e.streaks[region.ID]
		if s != nil && s.ownerID == region.OwnerID {
			s.rounds++
			if s.rounds >= cfg.BonusAfterRounds {
				production += cfg.BonusTroops
			}
		} else {
			e.streaks[region.ID] = &streak{ownerID: region.OwnerID, rounds: 1}
		}

		if skip[region.ID] {
			continue
		}
		region.Troops += production
	}
}

// Reset clears all control streaks for a new game.
func (e *ProductionEngine) Reset() {
	e.streaks = make(map[string]*streak)
}
