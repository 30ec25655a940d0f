// Package hexwar implements the HexaTegy rules engine: hex map generation,
// simultaneous movement/combat resolution, per-round production, and victory
// evaluation. It has no knowledge of rooms, sockets, or timers; the
// coordinator in internal/service drives it and owns the authoritative state.
package hexwar

// Phase represents the coordinator's lifecycle state for a room.
type Phase string

const (
	PhaseLobby     Phase = "lobby"
	PhasePlanning  Phase = "planning"
	PhaseResolving Phase = "resolving"
	PhaseEnded     Phase = "ended"
)

// VictoryCondition selects how a game is won.
type VictoryCondition string

const (
	TotalConquest VictoryCondition = "total_conquest"
	ScoreRounds   VictoryCondition = "score_rounds"
	MapPercent    VictoryCondition = "map_percent"
	HillControl   VictoryCondition = "hill_control"
)

// Placement selects how starting regions are assigned.
type Placement string

const (
	PlacementRandom    Placement = "random"
	PlacementClustered Placement = "clustered"
)

// Visibility selects how much of the map each player may see.
type Visibility string

const (
	VisibilityFull Visibility = "full"
	VisibilityFog  Visibility = "fog"
)

// Region is a single hex cell. Neighbors is fixed at map generation and
// always symmetric; only OwnerID and Troops mutate afterwards.
type Region struct {
	ID        string   `json:"id"`
	Coord     HexCoord `json:"coord"`
	OwnerID   string   `json:"ownerId"` // empty = neutral
	Troops    int      `json:"troops"`
	Neighbors []string `json:"neighbors"`
}

// PlayerInfo is a participant in a room.
type PlayerInfo struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Color        string `json:"color"`
	IsAdmin      bool   `json:"isAdmin"`
	IsReady      bool   `json:"isReady"`
	IsEliminated bool   `json:"isEliminated"`
}

// GameConfig holds the per-game tunables. The coordinator treats it as
// immutable outside the lobby phase. No bounds checking is done here beyond
// the map radius clamp in GenerateMap; the submitting UI pre-validates.
type GameConfig struct {
	RoundDuration         int              `json:"roundDuration"` // seconds
	MaxRounds             int              `json:"maxRounds"`     // 0 = unlimited
	BaseProduction        int              `json:"baseProduction"`
	ProductionPerNeighbor int              `json:"productionPerNeighbor"`
	BonusAfterRounds      int              `json:"bonusAfterRounds"`
	BonusTroops           int              `json:"bonusTroops"`
	DefenseAdvantage      float64          `json:"defenseAdvantage"` // 0.0-1.0
	VictoryCondition      VictoryCondition `json:"victoryCondition"`
	VictoryParam          int              `json:"victoryParam"`
	StartPlacement        Placement        `json:"startPlacement"`
	StartRegions          int              `json:"startRegions"`
	Visibility            Visibility       `json:"visibility"`
	MapSize               int              `json:"mapSize"`
}

// DefaultConfig returns the standard game configuration.
func DefaultConfig() GameConfig {
	return GameConfig{
		RoundDuration:         20,
		MaxRounds:             0,
		BaseProduction:        2,
		ProductionPerNeighbor: 1,
		BonusAfterRounds:      3,
		BonusTroops:           3,
		DefenseAdvantage:      0.55,
		VictoryCondition:      TotalConquest,
		VictoryParam:          100,
		StartPlacement:        PlacementRandom,
		StartRegions:          1,
		Visibility:            VisibilityFull,
		MapSize:               5,
	}
}

// MoveOrder moves troops from one region to an adjacent one.
type MoveOrder struct {
	FromRegionID string `json:"fromRegionId"`
	ToRegionID   string `json:"toRegionId"`
	Troops       int    `json:"troops"`
}

// SubmittedOrder attributes a MoveOrder to the player who issued it.
type SubmittedOrder struct {
	PlayerID string
	Order    MoveOrder
}

// AttackerShare records one player's troop contribution to an attack,
// carried in RoundResult for client-side animation.
type AttackerShare struct {
	PlayerID string `json:"playerId"`
	Troops   int    `json:"troops"`
}

// RegionDelta is the post-resolution state of a region that was the target
// of at least one order this round.
type RegionDelta struct {
	RegionID   string          `json:"regionId"`
	NewOwnerID string          `json:"newOwnerId"`
	NewTroops  int             `json:"newTroops"`
	Attackers  []AttackerShare `json:"attackers"`
}

// RoundResult is the outcome of one round of simultaneous resolution.
type RoundResult struct {
	Round        int           `json:"round"`
	RegionDeltas []RegionDelta `json:"regionDeltas"`
	Eliminated   []string      `json:"eliminated"`
	Winner       string        `json:"winner"`
}

// RegionByID returns the region with the given id, or nil.
func RegionByID(regions []*Region, id string) *Region {
	for _, r := range regions {
		if r.ID == id {
			return r
		}
	}
	return nil
}

// OwnedCount returns how many regions each player owns.
func OwnedCount(regions []*Region) map[string]int {
	counts := make(map[string]int)
	for _, r := range regions {
		if r.OwnerID != "" {
			counts[r.OwnerID]++
		}
	}
	return counts
}

// CloneRegions returns a deep copy of the region list. Mutations to the
// clone do not affect the original; used by bots evaluating speculative
// moves and by the fog projection.
func CloneRegions(regions []*Region) []*Region {
	out := make([]*Region, len(regions))
	for i, r := range regions {
		cp := *r
		cp.Neighbors = make([]string, len(r.Neighbors))
		copy(cp.Neighbors, r.Neighbors)
		out[i] = &cp
	}
	return out
}
