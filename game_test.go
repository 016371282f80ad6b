package main

import (
	"encoding/json"
	"errors"
	"math/rand"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testDt = 1.0 / 60

// mockBroadcaster captures sent messages for testing
type mockBroadcaster struct {
	mu       sync.Mutex
	messages []interface{}
	raw      [][]byte
	binary   [][]byte
}

func (m *mockBroadcaster) SendJSON(msg interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, msg)
}

func (m *mockBroadcaster) SendRaw(data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.raw = append(m.raw, append([]byte(nil), data...))
}

func (m *mockBroadcaster) SendBinary(data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.binary = append(m.binary, append([]byte(nil), data...))
}

func (m *mockBroadcaster) types() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []string
	for _, msg := range m.messages {
		if env, ok := msg.(Envelope); ok {
			out = append(out, env.T)
		}
	}
	return out
}

func nopLogger() *zap.Logger { return zap.NewNop() }

// newTestGame builds a game on a flat, solid-floored arena with no platforms
// and no item spawner, so tests place entities wherever they like.
func newTestGame(t *testing.T, mutate ...func(*Config)) *Game {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Arena.SolidFloor = true
	cfg.Game.ItemSpawnInterval = 0
	for _, m := range mutate {
		m(&cfg)
	}
	g, err := NewGame(cfg, nopLogger())
	require.NoError(t, err)
	g.platforms = nil
	return g
}

// addFighter joins a player standing on the floor at x
func addFighter(t *testing.T, g *Game, class ClassType, team int, x float64) *Player {
	t.Helper()
	p, err := g.AddPlayer(JoinRequest{Name: string(class), ClassType: string(class), Team: team})
	require.NoError(t, err)
	p.Position = Vector{X: x, Y: g.cfg.Arena.Height - p.Size.Height}
	p.Standing = true
	p.FocusPosition = p.Center().Add(Vector{X: 100})
	return p
}

// setCenter moves a player so its center sits on c
func setCenter(p *Player, c Vector) {
	p.Position = Vector{X: c.X - p.Size.Width/2, Y: c.Y - p.Size.Height/2}
}

func TestGameAddRemovePlayer(t *testing.T) {
	g := newTestGame(t)
	p, err := g.AddPlayer(JoinRequest{Name: "Tester", ClassType: "wizard", Team: 1})
	require.NoError(t, err)
	assert.Equal(t, "Tester", p.Name)
	assert.Equal(t, WeaponStaff, p.WeaponEquipped)
	assert.Equal(t, 1, g.PlayerCount())
	assert.True(t, g.HasPlayer(p.ID))

	g.RemovePlayer(p.ID)
	assert.Equal(t, 0, g.PlayerCount())
	assert.Empty(t, g.order)
}

func TestGameUnknownClassFallsBackToNinja(t *testing.T) {
	g := newTestGame(t)
	p, err := g.AddPlayer(JoinRequest{Name: "X", ClassType: "bard"})
	require.NoError(t, err)
	assert.Equal(t, ClassNinja, p.ClassType)
	assert.Equal(t, WeaponDagger, p.WeaponEquipped)
}

func TestGameFull(t *testing.T) {
	g := newTestGame(t, func(c *Config) { c.Game.MaxPlayers = 2 })
	for i := 0; i < 2; i++ {
		_, err := g.AddPlayer(JoinRequest{Name: "P"})
		require.NoError(t, err)
	}
	_, err := g.AddPlayer(JoinRequest{Name: "late"})
	assert.ErrorIs(t, err, ErrGameFull)
}

func TestAddBotRequiresBotClass(t *testing.T) {
	g := newTestGame(t)
	_, err := g.AddBot(BotConfig{Name: "b", ClassType: "ninja"})
	assert.ErrorIs(t, err, errBadConfig)

	bot, err := g.AddBot(BotConfig{Name: "b", ClassType: "axeai", Team: 2})
	require.NoError(t, err)
	assert.True(t, bot.IsBot())
}

func TestHandleMessageUnknownPlayer(t *testing.T) {
	g := newTestGame(t)
	err := g.HandleMessage(42, ClientMessage{Type: MsgAction, ActionType: ActionJump})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownPlayer))
}

func TestHandleMessageQueuesIntents(t *testing.T) {
	g := newTestGame(t)
	p := addFighter(t, g, ClassNinja, 1, 100)

	require.NoError(t, g.HandleMessage(p.ID, ClientMessage{Type: MsgAction, ActionType: ActionJump}))
	require.NoError(t, g.HandleMessage(p.ID, ClientMessage{Type: MsgAction, ActionType: ActionMoveLeft}))
	require.NoError(t, g.HandleMessage(p.ID, ClientMessage{Type: MsgAbility, Slot: SlotFirstAbility, Charging: true}))
	require.NoError(t, g.HandleMessage(p.ID, ClientMessage{Type: MsgFocus, X: 10, Y: 20}))

	assert.True(t, p.ActionsNextFrame.Jump)
	assert.True(t, p.ActionsNextFrame.MoveLeft)
	assert.True(t, p.Abilities[SlotFirstAbility].IsCharging)
	assert.Equal(t, Vector{X: 10, Y: 20}, p.FocusPosition)

	assert.ErrorIs(t, g.HandleMessage(p.ID, ClientMessage{Type: MsgAction, ActionType: "dance"}), ErrBadMessage)
	assert.ErrorIs(t, g.HandleMessage(p.ID, ClientMessage{Type: MsgAbility, Slot: 9}), ErrBadMessage)
	assert.ErrorIs(t, g.HandleMessage(p.ID, ClientMessage{Type: "teleport"}), ErrBadMessage)
}

func TestActionsClearedAfterTick(t *testing.T) {
	g := newTestGame(t)
	p := addFighter(t, g, ClassNinja, 1, 100)
	p.ActionsNextFrame = Actions{Jump: true, MoveRight: true}

	g.Update(testDt)
	assert.False(t, p.ActionsNextFrame.Any())
	assert.Less(t, p.Momentum.Y, 0.0, "jump should launch upward")
	assert.Greater(t, p.Momentum.X, 0.0)
}

func TestSpawnedEntitiesStartNextTick(t *testing.T) {
	g := newTestGame(t)
	p := addFighter(t, g, ClassWizard, 1, 100)

	g.castAbility(p, AbilityFireball, 0)
	assert.Empty(t, g.projectiles)
	require.Len(t, g.pendingProjectiles, 1)
	spawned := g.pendingProjectiles[0]
	start := spawned.Position

	g.Update(testDt)
	require.Len(t, g.projectiles, 1)
	assert.Equal(t, start, g.projectiles[0].Position, "a projectile is not moved in the tick that created it")

	g.Update(testDt)
	assert.NotEqual(t, start, g.projectiles[0].Position)
}

func TestUpdateZeroDtIsIdempotent(t *testing.T) {
	g := newTestGame(t)
	a := addFighter(t, g, ClassNinja, 1, 100)
	b := addFighter(t, g, ClassWarrior, 2, 900)
	for i := 0; i < 5; i++ {
		g.Update(testDt)
	}
	a.Abilities[SlotSecondAbility].Cooldown = 2
	b.Abilities[SlotFirstAbility].Cooldown = 1.5
	a.FocusPosition = Vector{X: 400, Y: 200}
	g.castAbility(a, AbilityShurikenToss, 0)
	g.Update(testDt)
	require.Len(t, g.projectiles, 1)

	before := g.Snapshot()
	g.Update(0)
	after := g.Snapshot()

	require.Len(t, after.Players, len(before.Players))
	for i := range before.Players {
		bp, ap := before.Players[i], after.Players[i]
		assert.Equal(t, bp.Position, ap.Position)
		assert.Equal(t, bp.Momentum, ap.Momentum)
		assert.Equal(t, bp.Health, ap.Health)
		assert.Equal(t, bp.Standing, ap.Standing)
		assert.Equal(t, bp.Abilities, ap.Abilities)
	}
	require.Len(t, after.Projectiles, len(before.Projectiles))
	for i := range before.Projectiles {
		assert.Equal(t, before.Projectiles[i].Position, after.Projectiles[i].Position)
		assert.Equal(t, before.Projectiles[i].Momentum, after.Projectiles[i].Momentum)
		assert.Equal(t, before.Projectiles[i].Life, after.Projectiles[i].Life)
	}
	assert.Empty(t, g.pendingProjectiles)
}

func TestUpdateZeroDtKeepsQueuedInput(t *testing.T) {
	g := newTestGame(t)
	a, err := g.AddPlayer(JoinRequest{Name: "a", ClassType: "ninja", Team: 1})
	require.NoError(t, err)
	b, err := g.AddPlayer(JoinRequest{Name: "b", ClassType: "ninja", Team: 2})
	require.NoError(t, err)
	require.Equal(t, a.Position, b.Position, "both join on the start point")

	a.ActionsNextFrame.Jump = true
	a.Abilities[SlotFirstAbility].IsCharging = true
	startA, startB := a.Position, b.Position

	g.Update(0)

	assert.Equal(t, startA, a.Position)
	assert.Equal(t, startB, b.Position, "overlapping players are not pushed apart")
	assert.Equal(t, Vector{}, a.Momentum)
	assert.True(t, a.ActionsNextFrame.Jump)
	assert.True(t, a.Abilities[SlotFirstAbility].IsCharging)
	assert.False(t, a.IsStealthed)
	assert.Zero(t, a.Abilities[SlotFirstAbility].Cooldown)

	g.Update(testDt)
	assert.Less(t, a.Momentum.Y, 0.0, "the queued jump runs on the next real tick")
	assert.True(t, a.IsStealthed)
}

func TestHealthStaysInBounds(t *testing.T) {
	g := newTestGame(t)
	g.platforms = DefaultPlatforms(g.cfg.Arena)
	classes := []ClassType{ClassNinja, ClassWizard, ClassWarrior}
	var humans []*Player
	for i, c := range classes {
		humans = append(humans, addFighter(t, g, c, i+1, 700+float64(i)*150))
	}
	_, err := g.AddBot(BotConfig{Name: "axe", ClassType: "axeai", Team: 4})
	require.NoError(t, err)
	_, err = g.AddBot(BotConfig{Name: "bow", ClassType: "archerai", Team: 5})
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(7))
	for tick := 0; tick < 1500; tick++ {
		for _, p := range humans {
			p.ActionsNextFrame = Actions{
				Jump:      rng.Intn(10) == 0,
				MoveLeft:  rng.Intn(3) == 0,
				MoveRight: rng.Intn(3) == 0,
				Blast:     rng.Intn(4) == 0,
				Arrow:     rng.Intn(6) == 0,
			}
			for s := SlotFirstAbility; s < SlotCount; s++ {
				p.Abilities[s].IsCharging = rng.Intn(20) == 0
			}
			p.FocusPosition = Vector{X: rng.Float64() * g.cfg.Arena.Width, Y: rng.Float64() * g.cfg.Arena.Height}
		}
		g.Update(testDt)
		for _, id := range g.order {
			h := g.players[id].Health
			require.GreaterOrEqual(t, h, 0.0)
			require.LessOrEqual(t, h, MaxHealth)
		}
	}
}

func TestBroadcastSendsSnapshotAndEchoes(t *testing.T) {
	g := newTestGame(t)
	a := addFighter(t, g, ClassNinja, 1, 100)
	b := addFighter(t, g, ClassNinja, 2, 900)
	ma, mb := &mockBroadcaster{}, &mockBroadcaster{}
	require.NoError(t, g.SetClient(a.ID, ma))
	require.NoError(t, g.SetClient(b.ID, mb))

	a.ActionsNextFrame.Jump = true
	g.Update(testDt)

	require.Len(t, ma.raw, 1)
	var env struct {
		T    string  `json:"type"`
		Data AllInfo `json:"data"`
	}
	require.NoError(t, json.Unmarshal(ma.raw[0], &env))
	assert.Equal(t, MsgInfo, env.T)
	assert.Len(t, env.Data.Players, 2)

	assert.Equal(t, []string{MsgPlayerInfo}, mb.types(), "others see the jump echo")
	assert.Empty(t, ma.types(), "the actor gets no echo of its own input")
}

func TestMsgpackSnapshotGoesOutBinary(t *testing.T) {
	g := newTestGame(t, func(c *Config) { c.Server.SnapshotCodec = CodecMsgpack })
	a := addFighter(t, g, ClassWizard, 1, 100)
	m := &mockBroadcaster{}
	require.NoError(t, g.SetClient(a.ID, m))

	g.Update(testDt)
	require.Len(t, m.binary, 1)
	assert.Empty(t, m.raw)

	var env struct {
		T    string  `json:"type"`
		Data AllInfo `json:"data"`
	}
	require.NoError(t, decodeMsgpack(m.binary[0], &env))
	assert.Equal(t, MsgInfo, env.T)
	require.Len(t, env.Data.Players, 1)
	assert.Equal(t, a.ID, env.Data.Players[0].ID)
}

func TestRemovePlayerBroadcastsLeaving(t *testing.T) {
	g := newTestGame(t)
	a := addFighter(t, g, ClassNinja, 1, 100)
	b := addFighter(t, g, ClassNinja, 2, 900)
	m := &mockBroadcaster{}
	require.NoError(t, g.SetClient(a.ID, m))

	g.RemovePlayer(b.ID)
	assert.Equal(t, []string{MsgPlayerLeaving}, m.types())
	assert.ErrorIs(t, g.SetClient(b.ID, m), ErrUnknownPlayer)
}

func TestJoinAnnouncesNewPlayer(t *testing.T) {
	g := newTestGame(t)
	a := addFighter(t, g, ClassNinja, 1, 100)
	m := &mockBroadcaster{}
	require.NoError(t, g.SetClient(a.ID, m))

	p, info, err := g.Join(JoinRequest{Name: "new", ClassType: "warrior", Team: 2})
	require.NoError(t, err)
	assert.Len(t, info.Players, 2)
	assert.Equal(t, p.ID, info.Players[1].ID)
	assert.Equal(t, []string{MsgJoin}, m.types())
}
