package handler

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/aaronFortuno/HexaTegy/internal/protocol"
	"github.com/aaronFortuno/HexaTegy/internal/repository"
	"github.com/aaronFortuno/HexaTegy/internal/service"
)

// room pairs the member set with the coordinator goroutine that owns the
// room's game state.
type room struct {
	code    string
	members map[string]*WSConn // clientID -> connection
	coord   *service.Coordinator
	cancel  func()
}

// Hub is the relay: it tracks rooms and their members and routes envelopes
// between connections and coordinators. It implements service.Broadcaster.
type Hub struct {
	mu    sync.RWMutex
	rooms map[string]*room
	conns map[*WSConn]bool

	cache    repository.RoomCache
	coordOpt []service.Option
}

// NewHub creates a Hub. The cache and opts are handed to every coordinator
// it spawns.
func NewHub(cache repository.RoomCache, opts ...service.Option) *Hub {
	if cache == nil {
		cache = repository.NoopCache{}
	}
	return &Hub{
		rooms:    make(map[string]*room),
		conns:    make(map[*WSConn]bool),
		cache:    cache,
		coordOpt: opts,
	}
}

// unambiguousChars omits the easily confused O/0, I/1/l pairs so room codes
// survive being read aloud.
const unambiguousChars = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

func randomCode(length int) string {
	b := make([]byte, length)
	if _, err := rand.Read(b); err != nil {
		// crypto/rand failing means the process is in serious trouble, but a
		// room code still has to come out.
		for i := range b {
			b[i] = byte(i * 7)
		}
	}
	for i := range b {
		b[i] = unambiguousChars[b[i]%byte(len(unambiguousChars))]
	}
	return string(b)
}

// newRoomCode returns an XXX-XXX code unused by any current room.
// Called with h.mu held.
func (h *Hub) newRoomCode() string {
	for {
		code := randomCode(3) + "-" + randomCode(3)
		if _, taken := h.rooms[code]; !taken {
			return code
		}
	}
}

// CreateRoom opens a room with the given connection as admin, spawns its
// coordinator, and returns the room code.
func (h *Hub) CreateRoom(c *WSConn, adminName string) string {
	h.mu.Lock()
	defer h.mu.Unlock()

	code := h.newRoomCode()
	coord := service.NewCoordinator(code, c.id, adminName, h, h.cache, h.coordOpt...)
	ctx, cancel := context.WithCancel(context.Background())
	r := &room{
		code:    code,
		members: map[string]*WSConn{c.id: c},
		coord:   coord,
		cancel:  cancel,
	}
	h.rooms[code] = r
	c.room = code
	go coord.Run(ctx)

	log.Info().Str("roomCode", code).Str("clientId", c.id).Msg("Room created")
	return code
}

// JoinRoom adds the connection to an existing room and notifies its
// coordinator. Returns false if the room does not exist.
func (h *Hub) JoinRoom(c *WSConn, code, name string) bool {
	h.mu.Lock()
	r, ok := h.rooms[code]
	if !ok {
		h.mu.Unlock()
		return false
	}
	r.members[c.id] = c
	c.room = code
	h.mu.Unlock()

	r.coord.Enqueue(protocol.NewEnvelope(protocol.PlayerJoined, c.id, protocol.PlayerJoinedPayload{ID: c.id, Name: name}))
	log.Info().Str("roomCode", code).Str("clientId", c.id).Str("name", name).Msg("Client joined room")
	return true
}

// RoomOf returns the code of the room the connection is in, or "".
func (h *Hub) RoomOf(c *WSConn) string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return c.room
}

// Forward stamps the sender on an envelope and hands it to the room's
// coordinator. Returns false if the client is not in a room.
func (h *Hub) Forward(c *WSConn, env protocol.Envelope) bool {
	h.mu.RLock()
	r, ok := h.rooms[c.room]
	h.mu.RUnlock()
	if !ok {
		return false
	}
	env.From = c.id
	r.coord.Enqueue(env)
	return true
}

// Leave detaches the connection from its room, notifies the coordinator,
// and closes the room when the last member is gone.
func (h *Hub) Leave(c *WSConn) {
	h.mu.Lock()
	r, ok := h.rooms[c.room]
	if !ok {
		h.mu.Unlock()
		return
	}
	delete(r.members, c.id)
	c.room = ""
	empty := len(r.members) == 0
	if empty {
		delete(h.rooms, r.code)
	}
	h.mu.Unlock()

	if empty {
		r.cancel()
		r.coord.Close()
		log.Info().Str("roomCode", r.code).Msg("Room closed (empty)")
		return
	}
	r.coord.Enqueue(protocol.NewEnvelope(protocol.PlayerLeft, c.id, protocol.PlayerLeftPayload{ID: c.id}))
}

// Register tracks a new connection.
func (h *Hub) Register(c *WSConn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.conns[c] = true
}

// Unregister drops a connection, leaving its room first if needed.
func (h *Hub) Unregister(c *WSConn) {
	h.Leave(c)
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.conns[c] {
		delete(h.conns, c)
		close(c.send)
	}
}

// --- service.Broadcaster ---

// BroadcastToRoom sends the envelope to every member of the room.
func (h *Hub) BroadcastToRoom(roomCode string, env protocol.Envelope) {
	data, err := json.Marshal(env)
	if err != nil {
		log.Error().Err(err).Str("roomCode", roomCode).Msg("Failed to marshal envelope")
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	r, ok := h.rooms[roomCode]
	if !ok {
		return
	}
	for _, c := range r.members {
		c.trySend(data)
	}
}

// SendToClient sends the envelope to a single room member.
func (h *Hub) SendToClient(roomCode, clientID string, env protocol.Envelope) {
	data, err := json.Marshal(env)
	if err != nil {
		log.Error().Err(err).Str("roomCode", roomCode).Msg("Failed to marshal envelope")
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	if r, ok := h.rooms[roomCode]; ok {
		if c, ok := r.members[clientID]; ok {
			c.trySend(data)
		}
	}
}

// RemoveClient detaches a kicked member from the room without closing
// their connection; they may join another room.
func (h *Hub) RemoveClient(roomCode, clientID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if r, ok := h.rooms[roomCode]; ok {
		if c, ok := r.members[clientID]; ok {
			delete(r.members, clientID)
			c.room = ""
		}
	}
}

// --- stats ---

// ConnectionCount returns the number of active connections.
func (h *Hub) ConnectionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}

// RoomCount returns the number of open rooms.
func (h *Hub) RoomCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms)
}
