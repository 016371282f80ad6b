package main

import (
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	// ErrUnknownPlayer means an intent named a player that is not in the game
	ErrUnknownPlayer = errors.New("unknown player")
	// ErrGameFull means the game already holds MaxPlayers players
	ErrGameFull = errors.New("game is full")
	// ErrBadMessage means a client message could not be applied
	ErrBadMessage = errors.New("bad message")
)

// Broadcaster interface for sending messages to clients
type Broadcaster interface {
	SendJSON(msg interface{})
	SendRaw(data []byte)
	SendBinary(data []byte)
}

// Game holds the state for one arena
type Game struct {
	mu        sync.Mutex
	cfg       Config
	log       *zap.Logger
	sessionID string
	codec     SnapshotCodec

	ids       IDAllocator
	classes   ClassTable
	rng       *rand.Rand
	effects   *EffectScheduler
	clock     float64 // simulated seconds since start
	tick      uint64
	itemTimer float64

	players   map[EntityID]*Player
	order     []EntityID // join order, for deterministic iteration
	platforms []Platform

	projectiles  []*Projectile
	targeted     []*TargetedProjectile
	items        []*Item
	basicAttacks []*BasicAttack

	// entities created during a tick, merged after reaping
	pendingProjectiles []*Projectile
	pendingTargeted    []*TargetedProjectile
	pendingItems       []*Item
	pendingAttacks     []*BasicAttack

	clients map[EntityID]Broadcaster
	echoes  []PlayerInfoMsg

	running bool
	stop    chan struct{}
}

// NewGame creates a new Game
func NewGame(cfg Config, log *zap.Logger) (*Game, error) {
	codec, err := NewSnapshotCodec(cfg.Server.SnapshotCodec)
	if err != nil {
		return nil, err
	}
	g := &Game{
		cfg:       cfg,
		log:       log,
		sessionID: uuid.NewString(),
		codec:     codec,
		classes:   NewClassTable(cfg.Game.Loadouts, log),
		rng:       rand.New(rand.NewSource(cfg.Game.Seed)),
		effects:   NewEffectScheduler(),
		players:   make(map[EntityID]*Player),
		platforms: DefaultPlatforms(cfg.Arena),
		clients:   make(map[EntityID]Broadcaster),
		stop:      make(chan struct{}),
	}
	g.log = log.With(zap.String("session", g.sessionID))
	return g, nil
}

// Run starts the game loop
func (g *Game) Run() {
	g.mu.Lock()
	g.running = true
	g.mu.Unlock()

	interval := g.cfg.Game.TickInterval
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	g.log.Info("game loop started", zap.Duration("tick", interval))
	last := time.Now()
	for {
		select {
		case now := <-ticker.C:
			dt := now.Sub(last).Seconds()
			last = now
			// A stalled process should not fling everything across the map.
			if limit := 4 * interval.Seconds(); dt > limit {
				dt = limit
			}
			g.Update(dt)
		case <-g.stop:
			g.log.Info("game loop stopped", zap.Uint64("ticks", g.Tick()))
			return
		}
	}
}

// Stop terminates the game loop
func (g *Game) Stop() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.running {
		g.running = false
		close(g.stop)
	}
}

// AddPlayer creates a player from a join request
func (g *Game) AddPlayer(req JoinRequest) (*Player, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.addPlayer(req)
}

func (g *Game) addPlayer(req JoinRequest) (*Player, error) {
	if len(g.players) >= g.cfg.Game.MaxPlayers {
		return nil, ErrGameFull
	}
	class := ClassType(req.ClassType)
	def, ok := g.classes.Get(class)
	if !ok {
		g.log.Warn("unknown class, using ninja", zap.String("class", req.ClassType))
		class = ClassNinja
	}
	p := NewPlayer(g.ids.Next(), req.Name, req.Color, class, req.Team, def, g.cfg.Arena.PlayerStart)
	g.players[p.ID] = p
	g.order = append(g.order, p.ID)
	g.log.Info("player joined", zap.Int("id", int(p.ID)), zap.String("name", p.Name),
		zap.String("class", string(class)), zap.Int("team", p.Team), zap.Bool("bot", p.IsBot()))
	return p, nil
}

// AddBot spawns a server-driven player
func (g *Game) AddBot(bc BotConfig) (*Player, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if def, ok := g.classes.Get(ClassType(bc.ClassType)); !ok || !def.IsBot {
		return nil, fmt.Errorf("bot class %q: %w", bc.ClassType, errBadConfig)
	}
	return g.addPlayer(JoinRequest{Name: bc.Name, Color: "#888888", ClassType: bc.ClassType, Team: bc.Team})
}

// RemovePlayer removes a player from the game and tells everyone else
func (g *Game) RemovePlayer(id EntityID) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.players[id]; !ok {
		return
	}
	delete(g.players, id)
	delete(g.clients, id)
	for i, oid := range g.order {
		if oid == id {
			g.order = append(g.order[:i], g.order[i+1:]...)
			break
		}
	}
	g.effects.CancelEntity(id)
	g.log.Info("player left", zap.Int("id", int(id)))
	g.broadcastMsg(Envelope{T: MsgPlayerLeaving, Data: PlayerLeavingMsg{ID: id}})
}

// SetClient associates a broadcaster with a player
func (g *Game) SetClient(id EntityID, client Broadcaster) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.players[id]; !ok {
		return ErrUnknownPlayer
	}
	g.clients[id] = client
	return nil
}

// HandleMessage applies a client message to the named player. The intent
// lands in the player's queue and takes effect on the next tick.
func (g *Game) HandleMessage(id EntityID, msg ClientMessage) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	p, ok := g.players[id]
	if !ok {
		return fmt.Errorf("player %d: %w", id, ErrUnknownPlayer)
	}
	switch msg.Type {
	case MsgAction:
		return queueAction(p, msg.ActionType)
	case MsgAbility:
		if msg.Slot < 0 || msg.Slot >= SlotCount {
			return fmt.Errorf("slot %d: %w", msg.Slot, ErrBadMessage)
		}
		p.Abilities[msg.Slot].IsCharging = msg.Charging && !p.IsDead
	case MsgFocus:
		p.FocusPosition = Vector{X: msg.X, Y: msg.Y}
	default:
		return fmt.Errorf("message type %q: %w", msg.Type, ErrBadMessage)
	}
	return nil
}

func queueAction(p *Player, action string) error {
	switch action {
	case ActionJump:
		p.ActionsNextFrame.Jump = true
	case ActionMoveLeft:
		p.ActionsNextFrame.MoveLeft = true
	case ActionMoveRight:
		p.ActionsNextFrame.MoveRight = true
	case ActionBlast:
		p.ActionsNextFrame.Blast = true
	case ActionArrow:
		p.ActionsNextFrame.Arrow = true
	default:
		return fmt.Errorf("action %q: %w", action, ErrBadMessage)
	}
	return nil
}

// echoAction records a player's actions for the playerInfo broadcast
func (g *Game) echoAction(p *Player, a Actions) {
	names := make([]string, 0, 5)
	if a.Jump {
		names = append(names, ActionJump)
	}
	if a.MoveLeft {
		names = append(names, ActionMoveLeft)
	}
	if a.MoveRight {
		names = append(names, ActionMoveRight)
	}
	if a.Blast {
		names = append(names, ActionBlast)
	}
	if a.Arrow {
		names = append(names, ActionArrow)
	}
	g.echoes = append(g.echoes, PlayerInfoMsg{ID: p.ID, Actions: names})
}

// Update runs one game tick of dt seconds
func (g *Game) Update(dt float64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.update(dt)
}

func (g *Game) update(dt float64) {
	// a zero-length tick leaves the world and queued input as they are
	if dt <= 0 {
		g.broadcastState()
		return
	}
	g.tick++
	g.clock += dt

	g.effects.RunDue(g, g.clock)
	g.updateBots(dt)

	for _, id := range g.order {
		g.updatePlayer(g.players[id], dt)
	}
	for _, b := range g.basicAttacks {
		b.Update(dt)
	}
	for _, pr := range g.projectiles {
		g.updateProjectile(pr, dt)
	}
	for _, tp := range g.targeted {
		g.updateTargeted(tp, dt)
	}
	for _, it := range g.items {
		g.updateItem(it, dt)
	}
	g.spawnItems(dt)

	g.reap()
	g.mergePending()
	g.broadcastState()
}

// reap drops every entity whose life ran out
func (g *Game) reap() {
	g.basicAttacks = filter(g.basicAttacks, func(b *BasicAttack) bool { return b.Life > 0 })
	g.projectiles = filter(g.projectiles, func(pr *Projectile) bool { return pr.Life > 0 })
	g.targeted = filter(g.targeted, func(tp *TargetedProjectile) bool { return !tp.IsDead && tp.Life > 0 })
	g.items = filter(g.items, func(it *Item) bool { return it.Life > 0 })
}

// mergePending moves entities spawned this tick into the live lists so they
// are first simulated next tick
func (g *Game) mergePending() {
	g.basicAttacks = append(g.basicAttacks, g.pendingAttacks...)
	g.projectiles = append(g.projectiles, g.pendingProjectiles...)
	g.targeted = append(g.targeted, g.pendingTargeted...)
	g.items = append(g.items, g.pendingItems...)
	g.pendingAttacks = g.pendingAttacks[:0]
	g.pendingProjectiles = g.pendingProjectiles[:0]
	g.pendingTargeted = g.pendingTargeted[:0]
	g.pendingItems = g.pendingItems[:0]
}

func filter[T any](s []T, keep func(T) bool) []T {
	out := s[:0]
	for _, v := range s {
		if keep(v) {
			out = append(out, v)
		}
	}
	for i := len(out); i < len(s); i++ {
		var zero T
		s[i] = zero
	}
	return out
}

// Snapshot returns the serialized world
func (g *Game) Snapshot() AllInfo {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.snapshot()
}

func (g *Game) snapshot() AllInfo {
	info := AllInfo{
		Tick:                g.tick,
		Players:             make([]PlayerState, 0, len(g.order)),
		Platforms:           make([]PlatformState, 0, len(g.platforms)),
		Projectiles:         make([]ProjectileState, 0, len(g.projectiles)),
		TargetedProjectiles: make([]TargetedProjectileState, 0, len(g.targeted)),
		Items:               make([]ItemState, 0, len(g.items)),
		BasicAttacks:        make([]BasicAttackState, 0, len(g.basicAttacks)),
	}
	for _, id := range g.order {
		info.Players = append(info.Players, g.players[id].ToState())
	}
	for _, plat := range g.platforms {
		info.Platforms = append(info.Platforms, plat.ToState())
	}
	for _, pr := range g.projectiles {
		info.Projectiles = append(info.Projectiles, pr.ToState())
	}
	for _, tp := range g.targeted {
		info.TargetedProjectiles = append(info.TargetedProjectiles, tp.ToState())
	}
	for _, it := range g.items {
		info.Items = append(info.Items, it.ToState())
	}
	for _, b := range g.basicAttacks {
		info.BasicAttacks = append(info.BasicAttacks, b.ToState())
	}
	return info
}

// broadcastState sends this tick's action echoes and the snapshot to all
// clients. The snapshot is encoded once and shared.
func (g *Game) broadcastState() {
	for _, echo := range g.echoes {
		msg := Envelope{T: MsgPlayerInfo, Data: echo}
		for id, client := range g.clients {
			if id != echo.ID {
				client.SendJSON(msg)
			}
		}
	}
	g.echoes = g.echoes[:0]

	if len(g.clients) == 0 {
		return
	}
	data, err := g.codec.Encode(Envelope{T: MsgInfo, Data: g.snapshot()})
	if err != nil {
		g.log.Error("encode snapshot", zap.Error(err))
		return
	}
	for _, client := range g.clients {
		if g.codec.Binary() {
			client.SendBinary(data)
		} else {
			client.SendRaw(data)
		}
	}
}

// broadcastMsg sends a message to all clients in the game
func (g *Game) broadcastMsg(msg Envelope) {
	for _, client := range g.clients {
		client.SendJSON(msg)
	}
}

// PlayerCount returns the number of players
func (g *Game) PlayerCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.players)
}

// HasPlayer reports whether id is in the game
func (g *Game) HasPlayer(id EntityID) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, ok := g.players[id]
	return ok
}

// Tick returns the number of ticks simulated so far
func (g *Game) Tick() uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.tick
}

// SessionID returns the id this game logs under
func (g *Game) SessionID() string {
	return g.sessionID
}

// Join adds a player and returns everything the client needs to start
func (g *Game) Join(req JoinRequest) (*Player, AllInfo, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	p, err := g.addPlayer(req)
	if err != nil {
		return nil, AllInfo{}, err
	}
	snap := g.snapshot()
	g.broadcastMsg(Envelope{T: MsgJoin, Data: p.ToState()})
	return p, snap, nil
}
