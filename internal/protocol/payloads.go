package protocol

import "github.com/aaronFortuno/HexaTegy/pkg/hexwar"

// GameStatePayload is the full authoritative snapshot broadcast on every
// lobby mutation and phase change. A client that misses one is caught up by
// the next; there is no delta protocol.
type GameStatePayload struct {
	Players []*hexwar.PlayerInfo `json:"players"`
	Regions []*hexwar.Region     `json:"regions"`
	Config  hexwar.GameConfig    `json:"config"`
	Round   int                  `json:"round"`
	Phase   hexwar.Phase         `json:"phase"`
}

// OrdersPayload is a player's complete order submission for the current
// round. A new submission replaces the previous one outright.
type OrdersPayload struct {
	Orders []hexwar.MoveOrder `json:"orders"`
}

// ConfigUpdatePayload carries the admin's lobby config change.
type ConfigUpdatePayload struct {
	Config hexwar.GameConfig `json:"config"`
}
