package bot

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/aaronFortuno/HexaTegy/internal/protocol"
	"github.com/aaronFortuno/HexaTegy/pkg/hexwar"
)

// Client is a headless WebSocket player: it joins a room, marks ready, and
// submits strategy-generated orders every round until the game ends.
type Client struct {
	serverURL string
	roomCode  string
	name      string
	strategy  Strategy

	conn     *websocket.Conn
	writeMu  sync.Mutex
	clientID string
	regions  []*hexwar.Region
	phase    hexwar.Phase
}

// NewClient creates a bot client for the given room.
func NewClient(serverURL, roomCode, name string, strategy Strategy) *Client {
	return &Client{
		serverURL: strings.TrimRight(serverURL, "/"),
		roomCode:  roomCode,
		name:      name,
		strategy:  strategy,
	}
}

// Run connects, plays, and returns when the game ends, the room vanishes,
// or ctx is cancelled.
func (c *Client) Run(ctx context.Context) error {
	wsURL := strings.Replace(c.serverURL, "http", "ws", 1) + "/ws"
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return fmt.Errorf("ws dial %s: %w", wsURL, err)
	}
	c.conn = conn
	defer conn.Close()

	go func() {
		<-ctx.Done()
		c.writeMu.Lock()
		conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		c.writeMu.Unlock()
		conn.Close()
	}()

	if err := c.send(protocol.NewEnvelope(protocol.RoomJoin, "", protocol.RoomJoinPayload{
		RoomCode: c.roomCode,
		Name:     c.name,
	})); err != nil {
		return err
	}

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("ws read: %w", err)
		}

		var env protocol.Envelope
		if err := json.Unmarshal(msg, &env); err != nil {
			log.Warn().Err(err).Str("bot", c.name).Msg("Malformed server message")
			continue
		}

		done, err := c.handle(env)
		if err != nil {
			return err
		}
		if done {
			return nil
		}
	}
}

func (c *Client) handle(env protocol.Envelope) (bool, error) {
	switch env.Type {
	case protocol.RoomJoined:
		var p protocol.RoomCreatedPayload
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			return false, fmt.Errorf("decode room:joined: %w", err)
		}
		c.clientID = p.ClientID
		log.Info().Str("bot", c.name).Str("clientId", c.clientID).Str("roomCode", c.roomCode).Msg("Bot joined room")
		return false, c.send(protocol.NewEnvelope(protocol.PlayerReady, "", nil))

	case protocol.RelayError:
		var p protocol.RelayErrorPayload
		json.Unmarshal(env.Payload, &p)
		return false, fmt.Errorf("relay error: %s", p.Message)

	case protocol.GameState:
		var p protocol.GameStatePayload
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			return false, nil
		}
		c.regions = p.Regions
		c.phase = p.Phase
		return false, nil

	case protocol.RoundStart:
		var p protocol.RoundStartPayload
		json.Unmarshal(env.Payload, &p)
		orders := c.strategy.GenerateOrders(c.regions, c.clientID)
		log.Debug().Str("bot", c.name).Int("round", p.Round).Int("orders", len(orders)).Msg("Submitting orders")
		return false, c.send(protocol.NewEnvelope(protocol.PlayerOrders, "", protocol.OrdersPayload{Orders: orders}))

	case protocol.GameOver:
		var p protocol.GameOverPayload
		json.Unmarshal(env.Payload, &p)
		won := p.WinnerID == c.clientID
		log.Info().Str("bot", c.name).Str("winnerId", p.WinnerID).Bool("won", won).Int("round", p.Round).Msg("Game over")
		return true, nil

	case protocol.PlayerKick:
		var p protocol.KickPayload
		json.Unmarshal(env.Payload, &p)
		if p.ID == c.clientID {
			log.Info().Str("bot", c.name).Msg("Bot was kicked")
			return true, nil
		}
		return false, nil
	}
	return false, nil
}

func (c *Client) send(env protocol.Envelope) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
	return c.conn.WriteJSON(env)
}
