package service

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/aaronFortuno/HexaTegy/internal/protocol"
)

// recordingBroadcaster captures everything the coordinator emits.
type recordingBroadcaster struct {
	mu      sync.Mutex
	room    []protocol.Envelope            // BroadcastToRoom, in order
	direct  map[string][]protocol.Envelope // SendToClient, per client
	removed []string                       // RemoveClient calls
}

func newRecordingBroadcaster() *recordingBroadcaster {
	return &recordingBroadcaster{direct: make(map[string][]protocol.Envelope)}
}

func (b *recordingBroadcaster) BroadcastToRoom(roomCode string, env protocol.Envelope) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.room = append(b.room, env)
}

func (b *recordingBroadcaster) SendToClient(roomCode, clientID string, env protocol.Envelope) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.direct[clientID] = append(b.direct[clientID], env)
}

func (b *recordingBroadcaster) RemoveClient(roomCode, clientID string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.removed = append(b.removed, clientID)
}

// lastOfType returns the most recent room broadcast of the given type.
func (b *recordingBroadcaster) lastOfType(msgType string) (protocol.Envelope, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := len(b.room) - 1; i >= 0; i-- {
		if b.room[i].Type == msgType {
			return b.room[i], true
		}
	}
	return protocol.Envelope{}, false
}

func (b *recordingBroadcaster) countOfType(msgType string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, env := range b.room {
		if env.Type == msgType {
			n++
		}
	}
	return n
}

// recordingCache captures room state mirror writes.
type recordingCache struct {
	mu      sync.Mutex
	states  map[string]json.RawMessage
	deleted []string
}

func newRecordingCache() *recordingCache {
	return &recordingCache{states: make(map[string]json.RawMessage)}
}

func (c *recordingCache) SetRoomState(ctx context.Context, roomCode string, state json.RawMessage) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.states[roomCode] = state
	return nil
}

func (c *recordingCache) GetRoomState(ctx context.Context, roomCode string) (json.RawMessage, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.states[roomCode], nil
}

func (c *recordingCache) DeleteRoom(ctx context.Context, roomCode string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.states, roomCode)
	c.deleted = append(c.deleted, roomCode)
	return nil
}

func (c *recordingCache) ListRooms(ctx context.Context) ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	codes := make([]string, 0, len(c.states))
	for code := range c.states {
		codes = append(codes, code)
	}
	return codes, nil
}
