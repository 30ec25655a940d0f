package service

import "github.com/aaronFortuno/HexaTegy/internal/protocol"

// Broadcaster delivers envelopes to room members. Implemented by the
// WebSocket hub; the coordinator never touches connections directly.
type Broadcaster interface {
	// BroadcastToRoom sends the envelope to every current member.
	BroadcastToRoom(roomCode string, env protocol.Envelope)
	// SendToClient sends the envelope to a single member. Used for
	// per-viewer fog-of-war snapshots and targeted errors.
	SendToClient(roomCode, clientID string, env protocol.Envelope)
	// RemoveClient detaches a member from the room (kick). The transport
	// closes or re-homes the connection; the coordinator has already
	// removed the player from the registry.
	RemoveClient(roomCode, clientID string)
}

// NoopBroadcaster is a no-op implementation for tests.
type NoopBroadcaster struct{}

func (NoopBroadcaster) BroadcastToRoom(string, protocol.Envelope)   {}
func (NoopBroadcaster) SendToClient(string, string, protocol.Envelope) {}
func (NoopBroadcaster) RemoveClient(string, string)                 {}
