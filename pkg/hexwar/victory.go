package hexwar

// VictoryEvaluator decides whether the game has ended. The hill-control
// streak map is instance state for the same reason as ProductionEngine's.
type VictoryEvaluator struct {
	hillStreaks map[string]int // playerID -> consecutive evaluations holding the hill
}

// NewVictoryEvaluator returns an evaluator with no hill history.
func NewVictoryEvaluator() *VictoryEvaluator {
	return &VictoryEvaluator{hillStreaks: make(map[string]int)}
}

// Check returns the winning player's id, or empty if the game continues.
// A single remaining active player wins immediately regardless of the
// configured condition.
func (e *VictoryEvaluator) Check(regions []*Region, players []*PlayerInfo, cfg GameConfig, round int) string {
	var active []*PlayerInfo
	for _, p := range players {
		if !p.IsEliminated {
			active = append(active, p)
		}
	}
	if len(active) == 0 {
		return ""
	}
	if len(active) == 1 {
		return active[0].ID
	}

	switch cfg.VictoryCondition {
	case TotalConquest:
		counts := OwnedCount(regions)
		for _, p := range active {
			if counts[p.ID] == len(regions) {
				return p.ID
			}
		}
	case ScoreRounds:
		if cfg.MaxRounds > 0 && round >= cfg.MaxRounds {
			return leader(regions, active)
		}
	case MapPercent:
		counts := OwnedCount(regions)
		target := float64(cfg.VictoryParam) / 100
		for _, p := range active {
			if float64(counts[p.ID])/float64(len(regions)) >= target {
				return p.ID
			}
		}
	case HillControl:
		return e.checkHill(regions, active, cfg)
	}
	return ""
}

// leader returns the active player owning the most regions; ties break to
// the first match in active-player list order.
func leader(regions []*Region, active []*PlayerInfo) string {
	counts := OwnedCount(regions)
	best := ""
	bestCount := -1
	for _, p := range active {
		if counts[p.ID] > bestCount {
			best = p.ID
			bestCount = counts[p.ID]
		}
	}
	return best
}

// checkHill increments the streak of whoever holds the center cell this
// evaluation and zeroes every other active player's streak. The holder wins
// once their streak reaches cfg.VictoryParam.
func (e *VictoryEvaluator) checkHill(regions []*Region, active []*PlayerInfo, cfg GameConfig) string {
	var hill *Region
	for _, r := range regions {
		if r.Coord.Q == 0 && r.Coord.R == 0 {
			hill = r
			break
		}
	}
	if hill == nil || hill.OwnerID == "" {
		return ""
	}

	current := hill.OwnerID
	e.hillStreaks[current]++
	for _, p := range active {
		if p.ID != current {
			e.hillStreaks[p.ID] = 0
		}
	}

	if e.hillStreaks[current] >= cfg.VictoryParam {
		return current
	}
	return ""
}

// Reset clears hill-control history for a new game.
func (e *VictoryEvaluator) Reset() {
	e.hillStreaks = make(map[string]int)
}
