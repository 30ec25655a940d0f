// Package protocol defines the wire contract between clients, the relay,
// and the room coordinator. Every message is a JSON envelope
// {type, from?, payload} delivered over a per-room ordered channel.
package protocol

import "encoding/json"

// Message types. Direction noted per type.
const (
	// client -> relay
	RoomCreate = "room:create"
	RoomJoin   = "room:join"

	// relay -> client
	RoomCreated = "room:created"
	RoomJoined  = "room:joined"
	RelayError  = "relay:error"

	// coordinator -> room
	GameState    = "game:state"
	RoundStart   = "round:start"
	RoundResolve = "round:resolve"
	GameOver     = "game:over"
	PlayerJoined = "player:joined"
	PlayerLeft   = "player:left"

	// player -> coordinator
	PlayerReady  = "player:ready"
	PlayerOrders = "player:orders"
	PlayerCancel = "player:cancel"
	PlayerRename = "player:rename"

	// admin -> coordinator (also echoed coordinator -> room for kicks)
	ConfigUpdate = "config:update"
	GameStart    = "game:start"
	PlayerKick   = "player:kick"
)

// Envelope wraps every message on the wire. From is stamped by the relay on
// forwarded messages; clients cannot spoof it.
type Envelope struct {
	Type    string          `json:"type"`
	From    string          `json:"from,omitempty"`
	Payload json.RawMessage `json:"payload"`
}

// NewEnvelope marshals payload into an Envelope. Marshal errors are
// impossible for the payload types used here; on the theoretical failure the
// payload is left empty rather than dropping the message.
func NewEnvelope(msgType, from string, payload any) Envelope {
	raw, err := json.Marshal(payload)
	if err != nil {
		raw = []byte("{}")
	}
	return Envelope{Type: msgType, From: from, Payload: raw}
}

// --- client -> relay payloads ---

// RoomJoinPayload carries the room code and display name for room:join.
// RoomCode is ignored for room:create.
type RoomJoinPayload struct {
	RoomCode string `json:"roomCode,omitempty"`
	Name     string `json:"name,omitempty"`
}

// --- relay -> client payloads ---

// RoomCreatedPayload confirms room creation or join.
type RoomCreatedPayload struct {
	RoomCode string `json:"roomCode"`
	ClientID string `json:"clientId"`
}

// RelayErrorPayload reports a transport-level problem to one client.
type RelayErrorPayload struct {
	Message string `json:"message"`
}

// --- room membership payloads ---

// PlayerJoinedPayload announces a new member to the room.
type PlayerJoinedPayload struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

// PlayerLeftPayload announces a departure.
type PlayerLeftPayload struct {
	ID      string `json:"id"`
	IsAdmin bool   `json:"isAdmin"`
}

// KickPayload names the player being removed.
type KickPayload struct {
	ID string `json:"id"`
}

// RenamePayload carries a lobby rename.
type RenamePayload struct {
	Name string `json:"name"`
}

// --- game payloads ---

// RoundStartPayload announces a planning round and its duration in seconds.
type RoundStartPayload struct {
	Round    int `json:"round"`
	Duration int `json:"duration"`
}

// GameOverPayload announces the winner.
type GameOverPayload struct {
	WinnerID string `json:"winnerId"`
	Round    int    `json:"round"`
}

// CancelPayload is informational only: the server keeps whole-submission
// semantics and never merges, so a cancel just tells other code (and logs)
// the player withdrew a planned arrow.
type CancelPayload struct {
	FromRegionID string `json:"fromRegionId"`
	ToRegionID   string `json:"toRegionId"`
}
