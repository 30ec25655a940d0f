package handler

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/aaronFortuno/HexaTegy/internal/protocol"
)

const (
	writeWait   = 10 * time.Second
	pongWait    = 60 * time.Second
	pingPeriod  = 54 * time.Second // Must be less than pongWait
	maxMsgSize  = 8192
	sendBufSize = 256
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // clients connect from arbitrary origins; tighten in production
	},
}

// WSConn wraps a WebSocket connection with its relay identity.
type WSConn struct {
	conn *websocket.Conn
	id   string
	room string
	send chan []byte
}

// trySend queues data for the write pump, dropping it if the buffer is full.
func (c *WSConn) trySend(data []byte) {
	select {
	case c.send <- data:
	default:
		log.Warn().Str("clientId", c.id).Msg("Dropping WebSocket message, buffer full")
	}
}

func newClientID() string {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		return "c" + hex.EncodeToString([]byte{byte(time.Now().UnixNano())})
	}
	return hex.EncodeToString(b)[:7]
}

// WSHandler upgrades HTTP requests and runs the read/write pumps.
type WSHandler struct {
	hub *Hub
}

// NewWSHandler creates a WSHandler.
func NewWSHandler(hub *Hub) *WSHandler {
	return &WSHandler{hub: hub}
}

// ServeWS handles GET /ws — upgrades to WebSocket and assigns a client id.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}

	client := &WSConn{
		conn: conn,
		id:   newClientID(),
		send: make(chan []byte, sendBufSize),
	}
	h.hub.Register(client)

	go h.writePump(client)
	go h.readPump(client)

	log.Info().Str("clientId", client.id).Int("total", h.hub.ConnectionCount()).Msg("WebSocket client connected")
}

// readPump reads envelopes from the connection and routes them.
func (h *WSHandler) readPump(c *WSConn) {
	defer func() {
		h.hub.Unregister(c)
		c.conn.Close()
		log.Info().Str("clientId", c.id).Msg("WebSocket client disconnected")
	}()

	c.conn.SetReadLimit(maxMsgSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn().Err(err).Str("clientId", c.id).Msg("WebSocket unexpected close")
			}
			break
		}

		var env protocol.Envelope
		if err := json.Unmarshal(message, &env); err != nil {
			c.sendError("malformed message")
			continue
		}

		h.route(c, env)
	}
}

// route dispatches one envelope from a client.
func (h *WSHandler) route(c *WSConn, env protocol.Envelope) {
	switch env.Type {
	case protocol.RoomCreate:
		if h.hub.RoomOf(c) != "" {
			c.sendError("already in a room")
			return
		}
		var p protocol.RoomJoinPayload
		if len(env.Payload) > 0 {
			json.Unmarshal(env.Payload, &p)
		}
		code := h.hub.CreateRoom(c, p.Name)
		c.sendEnvelope(protocol.NewEnvelope(protocol.RoomCreated, "", protocol.RoomCreatedPayload{
			RoomCode: code,
			ClientID: c.id,
		}))

	case protocol.RoomJoin:
		if h.hub.RoomOf(c) != "" {
			c.sendError("already in a room")
			return
		}
		var p protocol.RoomJoinPayload
		if err := json.Unmarshal(env.Payload, &p); err != nil || p.RoomCode == "" {
			c.sendError("missing room code")
			return
		}
		if !h.hub.JoinRoom(c, p.RoomCode, p.Name) {
			c.sendError("room not found: " + p.RoomCode)
			return
		}
		c.sendEnvelope(protocol.NewEnvelope(protocol.RoomJoined, "", protocol.RoomCreatedPayload{
			RoomCode: p.RoomCode,
			ClientID: c.id,
		}))

	default:
		if !h.hub.Forward(c, env) {
			c.sendError("not in a room")
		}
	}
}

func (c *WSConn) sendEnvelope(env protocol.Envelope) {
	data, err := json.Marshal(env)
	if err != nil {
		return
	}
	c.trySend(data)
}

func (c *WSConn) sendError(msg string) {
	c.sendEnvelope(protocol.NewEnvelope(protocol.RelayError, "", protocol.RelayErrorPayload{Message: msg}))
}

// writePump writes queued messages and keepalive pings to the connection.
func (h *WSHandler) writePump(c *WSConn) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
