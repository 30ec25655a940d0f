// Package service hosts the room coordinator: the single authority that
// owns a room's game state, drives the round lifecycle, and broadcasts
// every state change. One coordinator goroutine runs per room; all inbound
// messages are serialized through its inbox, so game state needs no locks.
package service

import (
	"context"
	"encoding/json"
	"math/rand"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/aaronFortuno/HexaTegy/internal/protocol"
	"github.com/aaronFortuno/HexaTegy/internal/repository"
	"github.com/aaronFortuno/HexaTegy/pkg/hexwar"
)

const inboxSize = 256

// playerColors is the assignment palette, in join order.
var playerColors = []string{
	"#e6194b", "#3cb44b", "#ffe119", "#4363d8", "#f58231",
	"#911eb4", "#46f0f0", "#f032e6", "#bcf60c", "#fabebe",
	"#008080", "#e6beff", "#9a6324", "#fffac8", "#800000",
}

// Coordinator owns the authoritative state of one room and sequences the
// lobby -> planning -> resolving -> ended lifecycle. Everything below the
// inbox is confined to the Run goroutine.
type Coordinator struct {
	roomCode    string
	adminID     string
	broadcaster Broadcaster
	cache       repository.RoomCache
	inbox       chan protocol.Envelope

	grace time.Duration // added to every planning deadline
	pause time.Duration // gap between round result and next planning round

	phase      hexwar.Phase
	cfg        hexwar.GameConfig
	players    []*hexwar.PlayerInfo
	regions    []*hexwar.Region
	round      int
	orders     map[string][]hexwar.MoveOrder // playerID -> last submission
	conquered  map[string]bool               // regions captured last resolution
	production *hexwar.ProductionEngine
	victory    *hexwar.VictoryEvaluator
	rng        *rand.Rand

	deadlineTimer *time.Timer // planning deadline
	pauseTimer    *time.Timer // post-resolution pause
}

// Option tweaks coordinator construction.
type Option func(*Coordinator)

// WithTimings overrides the deadline grace and resolution pause.
func WithTimings(grace, pause time.Duration) Option {
	return func(c *Coordinator) {
		c.grace = grace
		c.pause = pause
	}
}

// WithRand injects a seeded rng for deterministic map generation.
func WithRand(rng *rand.Rand) Option {
	return func(c *Coordinator) { c.rng = rng }
}

// NewCoordinator creates the coordinator for a freshly created room. The
// creating client becomes the admin player.
func NewCoordinator(roomCode, adminID, adminName string, broadcaster Broadcaster, cache repository.RoomCache, opts ...Option) *Coordinator {
	if broadcaster == nil {
		broadcaster = NoopBroadcaster{}
	}
	if cache == nil {
		cache = repository.NoopCache{}
	}
	c := &Coordinator{
		roomCode:    roomCode,
		adminID:     adminID,
		broadcaster: broadcaster,
		cache:       cache,
		inbox:       make(chan protocol.Envelope, inboxSize),
		grace:       2 * time.Second,
		pause:       3 * time.Second,
		phase:       hexwar.PhaseLobby,
		cfg:         hexwar.DefaultConfig(),
		orders:      make(map[string][]hexwar.MoveOrder),
		production:  hexwar.NewProductionEngine(),
		victory:     hexwar.NewVictoryEvaluator(),
		rng:         rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(c)
	}
	if adminName == "" {
		adminName = "Admin"
	}
	c.players = []*hexwar.PlayerInfo{{
		ID:      adminID,
		Name:    adminName,
		Color:   playerColors[0],
		IsAdmin: true,
	}}
	return c
}

// Enqueue hands an inbound envelope to the coordinator. Non-blocking: a
// full inbox drops the message, which the next game:state broadcast heals.
func (c *Coordinator) Enqueue(env protocol.Envelope) {
	select {
	case c.inbox <- env:
	default:
		log.Warn().Str("roomCode", c.roomCode).Str("type", env.Type).Msg("Coordinator inbox full, dropping message")
	}
}

// Run processes inbound messages and timer expirations until ctx is
// cancelled. Teardown stops any pending timer so a dead room can never
// resolve a round against freed state.
func (c *Coordinator) Run(ctx context.Context) {
	log.Info().Str("roomCode", c.roomCode).Str("adminId", c.adminID).Msg("Coordinator started")
	defer c.stopTimers()

	for {
		var deadlineC, pauseC <-chan time.Time
		if c.deadlineTimer != nil {
			deadlineC = c.deadlineTimer.C
		}
		if c.pauseTimer != nil {
			pauseC = c.pauseTimer.C
		}

		select {
		case <-ctx.Done():
			log.Info().Str("roomCode", c.roomCode).Msg("Coordinator stopped")
			return
		case env := <-c.inbox:
			c.handle(env)
		case <-deadlineC:
			c.deadlineTimer = nil
			c.resolveRound()
		case <-pauseC:
			c.pauseTimer = nil
			c.beginPlanning()
		}
	}
}

func (c *Coordinator) stopTimers() {
	if c.deadlineTimer != nil {
		c.deadlineTimer.Stop()
		c.deadlineTimer = nil
	}
	if c.pauseTimer != nil {
		c.pauseTimer.Stop()
		c.pauseTimer = nil
	}
}

// handle dispatches one inbound envelope. Unknown types are dropped with a
// debug log; nothing a single participant sends can crash the room.
func (c *Coordinator) handle(env protocol.Envelope) {
	switch env.Type {
	case protocol.PlayerJoined:
		c.handleJoin(env)
	case protocol.PlayerLeft:
		c.handleLeave(env.From)
	case protocol.PlayerReady:
		c.handleReady(env.From)
	case protocol.PlayerRename:
		c.handleRename(env)
	case protocol.PlayerOrders:
		c.handleOrders(env)
	case protocol.PlayerCancel:
		c.handleCancel(env)
	case protocol.ConfigUpdate:
		c.handleConfigUpdate(env)
	case protocol.GameStart:
		c.handleStart(env.From)
	case protocol.PlayerKick:
		c.handleKick(env)
	default:
		log.Debug().Str("roomCode", c.roomCode).Str("type", env.Type).Msg("Ignoring unknown message type")
	}
}

func (c *Coordinator) playerByID(id string) *hexwar.PlayerInfo {
	for _, p := range c.players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func (c *Coordinator) handleJoin(env protocol.Envelope) {
	var payload protocol.PlayerJoinedPayload
	if err := json.Unmarshal(env.Payload, &payload); err != nil {
		log.Warn().Err(err).Str("roomCode", c.roomCode).Msg("Malformed join payload")
		return
	}
	id := env.From
	if id == "" || c.playerByID(id) != nil {
		return
	}

	name := payload.Name
	if name == "" {
		name = "Player"
	}
	p := &hexwar.PlayerInfo{
		ID:    id,
		Name:  name,
		Color: playerColors[len(c.players)%len(playerColors)],
	}
	// Joining an already running game makes you a spectator: you are in the
	// room but own nothing, so you count as eliminated for victory purposes.
	if c.phase != hexwar.PhaseLobby {
		p.IsEliminated = true
	}
	c.players = append(c.players, p)

	log.Info().Str("roomCode", c.roomCode).Str("clientId", id).Str("name", name).Msg("Player joined")
	c.broadcaster.BroadcastToRoom(c.roomCode, protocol.NewEnvelope(protocol.PlayerJoined, "", protocol.PlayerJoinedPayload{ID: id, Name: name}))
	c.broadcastState()
}

// handleLeave removes the player from the registry. Regions they own stay
// on the board, uncommanded, until conquered; elimination is detected only
// through region ownership.
func (c *Coordinator) handleLeave(id string) {
	p := c.playerByID(id)
	if p == nil {
		return
	}
	c.removePlayer(id)
	log.Info().Str("roomCode", c.roomCode).Str("clientId", id).Bool("isAdmin", p.IsAdmin).Msg("Player left")
	c.broadcaster.BroadcastToRoom(c.roomCode, protocol.NewEnvelope(protocol.PlayerLeft, "", protocol.PlayerLeftPayload{ID: id, IsAdmin: p.IsAdmin}))
	c.broadcastState()
}

func (c *Coordinator) removePlayer(id string) {
	for i, p := range c.players {
		if p.ID == id {
			c.players = append(c.players[:i], c.players[i+1:]...)
			break
		}
	}
	delete(c.orders, id)
}

func (c *Coordinator) handleReady(id string) {
	if c.phase != hexwar.PhaseLobby {
		return
	}
	p := c.playerByID(id)
	if p == nil {
		return
	}
	p.IsReady = true
	c.broadcastState()
}

func (c *Coordinator) handleRename(env protocol.Envelope) {
	if c.phase != hexwar.PhaseLobby {
		return
	}
	var payload protocol.RenamePayload
	if err := json.Unmarshal(env.Payload, &payload); err != nil || payload.Name == "" {
		return
	}
	p := c.playerByID(env.From)
	if p == nil {
		return
	}
	p.Name = payload.Name
	c.broadcastState()
}

func (c *Coordinator) handleConfigUpdate(env protocol.Envelope) {
	if env.From != c.adminID || c.phase != hexwar.PhaseLobby {
		return
	}
	var payload protocol.ConfigUpdatePayload
	if err := json.Unmarshal(env.Payload, &payload); err != nil {
		log.Warn().Err(err).Str("roomCode", c.roomCode).Msg("Malformed config update")
		return
	}
	c.cfg = payload.Config
	log.Info().Str("roomCode", c.roomCode).Str("victory", string(c.cfg.VictoryCondition)).Int("mapSize", c.cfg.MapSize).Msg("Config updated")
	c.broadcastState()
}

func (c *Coordinator) handleKick(env protocol.Envelope) {
	if env.From != c.adminID {
		return
	}
	var payload protocol.KickPayload
	if err := json.Unmarshal(env.Payload, &payload); err != nil || payload.ID == "" {
		return
	}
	if payload.ID == c.adminID || c.playerByID(payload.ID) == nil {
		return
	}
	c.removePlayer(payload.ID)
	log.Info().Str("roomCode", c.roomCode).Str("clientId", payload.ID).Msg("Player kicked")
	c.broadcaster.BroadcastToRoom(c.roomCode, protocol.NewEnvelope(protocol.PlayerKick, "", protocol.KickPayload{ID: payload.ID}))
	c.broadcaster.RemoveClient(c.roomCode, payload.ID)
	c.broadcastState()
}

// handleStart generates the map and enters the first planning round.
// Requires at least one non-admin player; a solo admin has nobody to fight.
func (c *Coordinator) handleStart(from string) {
	if from != c.adminID || c.phase != hexwar.PhaseLobby {
		return
	}
	nonAdmin := 0
	for _, p := range c.players {
		if !p.IsAdmin {
			nonAdmin++
		}
	}
	if nonAdmin < 1 {
		log.Info().Str("roomCode", c.roomCode).Msg("Start refused: no other players")
		return
	}

	playerIDs := make([]string, len(c.players))
	for i, p := range c.players {
		playerIDs[i] = p.ID
		p.IsEliminated = false
		p.IsReady = false
	}
	c.regions = hexwar.GenerateMap(playerIDs, c.cfg, c.rng)
	c.production.Reset()
	c.victory.Reset()
	c.round = 0
	c.conquered = nil

	log.Info().Str("roomCode", c.roomCode).Int("players", len(playerIDs)).Int("regions", len(c.regions)).Msg("Game started")
	c.beginPlanning()
}

// beginPlanning applies production (skipping regions conquered in the
// previous resolution), announces the round, and arms the deadline timer.
func (c *Coordinator) beginPlanning() {
	c.phase = hexwar.PhasePlanning
	c.round++
	c.orders = make(map[string][]hexwar.MoveOrder)

	c.production.Apply(c.regions, c.cfg, c.conquered)
	c.conquered = nil

	c.broadcastState()
	c.broadcaster.BroadcastToRoom(c.roomCode, protocol.NewEnvelope(protocol.RoundStart, "", protocol.RoundStartPayload{
		Round:    c.round,
		Duration: c.cfg.RoundDuration,
	}))

	deadline := time.Duration(c.cfg.RoundDuration)*time.Second + c.grace
	c.deadlineTimer = time.NewTimer(deadline)
	log.Info().Str("roomCode", c.roomCode).Int("round", c.round).Dur("deadline", deadline).Msg("Planning round started")
}

// handleOrders stores a player's submission for the current round, last
// write wins. If every active player has submitted, the round resolves
// early instead of waiting out the deadline.
func (c *Coordinator) handleOrders(env protocol.Envelope) {
	if c.phase != hexwar.PhasePlanning {
		return
	}
	p := c.playerByID(env.From)
	if p == nil || p.IsEliminated {
		return
	}
	var payload protocol.OrdersPayload
	if err := json.Unmarshal(env.Payload, &payload); err != nil {
		log.Warn().Err(err).Str("roomCode", c.roomCode).Str("clientId", env.From).Msg("Malformed orders payload")
		return
	}
	c.orders[env.From] = payload.Orders
	log.Debug().Str("roomCode", c.roomCode).Str("clientId", env.From).Int("orders", len(payload.Orders)).Msg("Orders received")

	if c.allActiveSubmitted() {
		log.Info().Str("roomCode", c.roomCode).Int("round", c.round).Msg("All players submitted, resolving early")
		if c.deadlineTimer != nil {
			c.deadlineTimer.Stop()
			c.deadlineTimer = nil
		}
		c.resolveRound()
	}
}

func (c *Coordinator) allActiveSubmitted() bool {
	for _, p := range c.players {
		if p.IsEliminated {
			continue
		}
		if _, ok := c.orders[p.ID]; !ok {
			return false
		}
	}
	return true
}

func (c *Coordinator) handleCancel(env protocol.Envelope) {
	var payload protocol.CancelPayload
	if err := json.Unmarshal(env.Payload, &payload); err != nil {
		return
	}
	// Informational only: submissions are whole-list replacements, so there
	// is nothing to unwind here.
	log.Debug().Str("roomCode", c.roomCode).Str("clientId", env.From).
		Str("from", payload.FromRegionID).Str("to", payload.ToRegionID).Msg("Order cancelled client-side")
}

// resolveRound flattens stored orders, runs combat, applies production
// skips for the next round, updates eliminations, and either ends the game
// or schedules the next planning round.
func (c *Coordinator) resolveRound() {
	c.phase = hexwar.PhaseResolving

	var submitted []hexwar.SubmittedOrder
	for _, p := range c.players {
		for _, o := range c.orders[p.ID] {
			submitted = append(submitted, hexwar.SubmittedOrder{PlayerID: p.ID, Order: o})
		}
	}

	ownerBefore := make(map[string]string, len(c.regions))
	for _, r := range c.regions {
		ownerBefore[r.ID] = r.OwnerID
	}

	result := hexwar.Resolve(c.regions, submitted, c.cfg)
	result.Round = c.round

	c.conquered = make(map[string]bool)
	for _, r := range c.regions {
		if r.OwnerID != "" && r.OwnerID != ownerBefore[r.ID] {
			c.conquered[r.ID] = true
		}
	}

	counts := hexwar.OwnedCount(c.regions)
	for _, p := range c.players {
		p.IsEliminated = counts[p.ID] == 0
	}

	winner := c.victory.Check(c.regions, c.players, c.cfg, c.round)
	result.Winner = winner

	log.Info().Str("roomCode", c.roomCode).Int("round", c.round).
		Int("orders", len(submitted)).Int("deltas", len(result.RegionDeltas)).
		Strs("eliminated", result.Eliminated).Str("winner", winner).
		Msg("Round resolved")

	c.broadcaster.BroadcastToRoom(c.roomCode, protocol.NewEnvelope(protocol.RoundResolve, "", result))
	c.broadcastState()

	if winner != "" {
		c.phase = hexwar.PhaseEnded
		c.broadcastState()
		c.broadcaster.BroadcastToRoom(c.roomCode, protocol.NewEnvelope(protocol.GameOver, "", protocol.GameOverPayload{
			WinnerID: winner,
			Round:    c.round,
		}))
		log.Info().Str("roomCode", c.roomCode).Str("winnerId", winner).Int("round", c.round).Msg("Game over")
		return
	}

	c.pauseTimer = time.NewTimer(c.pause)
}

// broadcastState sends the full snapshot to the room and mirrors it to the
// cache. Under fog visibility each member gets their own projection; the
// mirror always holds the unfiltered authoritative view.
func (c *Coordinator) broadcastState() {
	full := protocol.GameStatePayload{
		Players: c.players,
		Regions: c.regions,
		Config:  c.cfg,
		Round:   c.round,
		Phase:   c.phase,
	}

	if c.cfg.Visibility == hexwar.VisibilityFog && c.phase != hexwar.PhaseLobby && c.phase != hexwar.PhaseEnded {
		for _, p := range c.players {
			view := full
			view.Regions = hexwar.VisibleRegions(c.regions, p.ID)
			c.broadcaster.SendToClient(c.roomCode, p.ID, protocol.NewEnvelope(protocol.GameState, "", view))
		}
	} else {
		c.broadcaster.BroadcastToRoom(c.roomCode, protocol.NewEnvelope(protocol.GameState, "", full))
	}

	c.mirrorState(full)
}

func (c *Coordinator) mirrorState(payload protocol.GameStatePayload) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := c.cache.SetRoomState(ctx, c.roomCode, raw); err != nil {
		log.Warn().Err(err).Str("roomCode", c.roomCode).Msg("Failed to mirror room state")
	}
}

// Close deletes the room's mirrored snapshot. Called by the hub after the
// coordinator's context is cancelled.
func (c *Coordinator) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := c.cache.DeleteRoom(ctx, c.roomCode); err != nil {
		log.Warn().Err(err).Str("roomCode", c.roomCode).Msg("Failed to delete mirrored room state")
	}
}
