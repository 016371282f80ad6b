package main

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPlayerKit(t *testing.T) {
	def, _ := NewClassTable(nil, nopLogger()).Get(ClassWarrior)
	p := NewPlayer(7, "W", "#f00", ClassWarrior, 1, def, Vector{X: 10, Y: 20})

	assert.Equal(t, MaxHealth, p.Health)
	assert.Equal(t, WeaponSword, p.WeaponEquipped)
	assert.Equal(t, AbilityCharge, p.Abilities[SlotSecondaryAttack].AbilityName)
	assert.Equal(t, AbilityHealingAura, p.Abilities[SlotThirdAbility].AbilityName)
	assert.Equal(t, 1.0, p.IsFrozen)
	assert.False(t, p.IsBot())
}

func TestPlatformLandingSnap(t *testing.T) {
	g := newTestGame(t, func(c *Config) { c.Arena.SolidFloor = false })
	g.platforms = []Platform{{Position: Vector{X: 0, Y: 500}, Size: Size{Width: 1000, Height: 50}}}
	p := addFighter(t, g, ClassNinja, 1, 100)
	p.Position.Y = 500 - p.Size.Height + 3
	p.Momentum.Y = 50
	p.Standing = false

	g.updatePlayer(p, testDt)

	assert.Equal(t, 500-p.Size.Height, p.Position.Y)
	assert.Equal(t, 0.0, p.Momentum.Y)
	assert.True(t, p.Standing)
	assert.True(t, p.CanJump)
}

func TestPlayerKeepsStandingOnPlatform(t *testing.T) {
	g := newTestGame(t, func(c *Config) { c.Arena.SolidFloor = false })
	g.platforms = []Platform{{Position: Vector{X: 0, Y: 500}, Size: Size{Width: 1000, Height: 50}}}
	p := addFighter(t, g, ClassNinja, 1, 100)
	p.Position.Y = 500 - p.Size.Height

	for i := 0; i < 30; i++ {
		g.Update(testDt)
	}
	assert.Equal(t, 500-p.Size.Height, p.Position.Y)
	assert.True(t, p.Standing)
}

func TestJumpGating(t *testing.T) {
	g := newTestGame(t)
	p := addFighter(t, g, ClassNinja, 1, 100)
	g.Update(testDt)
	require.True(t, p.Standing)

	p.ActionsNextFrame.Jump = true
	g.Update(testDt)
	assert.Less(t, p.Momentum.Y, 0.0)
	assert.Equal(t, 1, p.AlreadyJumped)
	rising := p.Momentum.Y

	// Still rising: a second jump press does nothing.
	p.ActionsNextFrame.Jump = true
	g.Update(testDt)
	assert.Greater(t, p.Momentum.Y, rising, "only gravity acted")

	// Once the jump peaks the lock clears and one air jump is allowed.
	for p.Momentum.Y < 0 {
		g.Update(testDt)
	}
	assert.Equal(t, 0, p.AlreadyJumped)
	require.False(t, p.Standing)
	p.ActionsNextFrame.Jump = true
	g.Update(testDt)
	assert.Less(t, p.Momentum.Y, 0.0)
	assert.False(t, p.CanJump, "air jump used up")

	for p.Momentum.Y < 0 {
		g.Update(testDt)
	}
	p.ActionsNextFrame.Jump = true
	g.Update(testDt)
	assert.GreaterOrEqual(t, p.Momentum.Y, 0.0, "no third jump before landing")
}

func TestMoveSpeedIsCapped(t *testing.T) {
	g := newTestGame(t)
	p := addFighter(t, g, ClassWizard, 1, 100)
	for i := 0; i < 120; i++ {
		p.ActionsNextFrame.MoveRight = true
		g.Update(testDt)
	}
	assert.LessOrEqual(t, p.Momentum.X, p.maxSpeed)
	assert.True(t, p.Facing)

	p.IsFrozen = 0.4
	for i := 0; i < 120; i++ {
		p.ActionsNextFrame.MoveLeft = true
		g.Update(testDt)
	}
	assert.GreaterOrEqual(t, p.Momentum.X, -p.maxSpeed*0.4-1e-9)
	assert.False(t, p.Facing)
}

func TestPlayersDoNotOverlap(t *testing.T) {
	g := newTestGame(t)
	a := addFighter(t, g, ClassNinja, 1, 100)
	b := addFighter(t, g, ClassNinja, 1, 110)
	g.Update(testDt)
	assert.False(t, RectsOverlap(a.Position, a.Size, b.Position, b.Size))
	assert.Less(t, a.Position.X, b.Position.X)
}

func TestFallingOutKillsAndRespawns(t *testing.T) {
	g := newTestGame(t, func(c *Config) {
		c.Arena.SolidFloor = false
		c.Game.RespawnDelay = 0.5
	})
	p := addFighter(t, g, ClassNinja, 1, 100)
	p.Position.Y = g.cfg.Arena.Height + g.cfg.Arena.KillMargin + 1
	p.Health = 40

	g.Update(testDt)
	require.True(t, p.IsDead)
	assert.Equal(t, 1, p.DeathCount)

	for i := 0; i < 40; i++ {
		g.Update(testDt)
	}
	assert.False(t, p.IsDead)
	assert.Equal(t, MaxHealth, p.Health)
	assert.Equal(t, WeaponDagger, p.WeaponEquipped)
}

func TestDeadPlayersIgnoreInput(t *testing.T) {
	g := newTestGame(t)
	p := addFighter(t, g, ClassNinja, 1, 100)
	g.killPlayer(p)
	p.ActionsNextFrame = Actions{Jump: true, Blast: true}
	g.Update(testDt)
	assert.Equal(t, Vector{}, p.Momentum)
	assert.Empty(t, g.basicAttacks)
}

func TestPlayerRoundTrip(t *testing.T) {
	classes := NewClassTable(nil, nopLogger())
	def, _ := classes.Get(ClassNinja)
	p := NewPlayer(3, "N", "#0f0", ClassNinja, 2, def, Vector{X: 11.5, Y: 22.25})
	p.Momentum = Vector{X: -3.5, Y: 120}
	p.Health = 42.5
	p.IsStealthed = true
	p.AlreadyJumped = 1
	p.LastHitBy = 9
	p.KillCount, p.DeathCount = 2, 3
	p.Abilities[SlotSecondAbility].Cooldown = 1.25
	p.Abilities[SlotSecondAbility].ChargeAmount = 0.1
	p.Abilities[SlotSecondAbility].IsCharging = true

	raw, err := json.Marshal(p.ToState())
	require.NoError(t, err)
	var s PlayerState
	require.NoError(t, json.Unmarshal(raw, &s))
	back := PlayerFromState(s, classes)

	assert.Equal(t, p.ToState(), back.ToState())
	assert.Equal(t, p.maxSpeed, back.maxSpeed)
	assert.False(t, back.IsBot())
}

func TestPlayerFromStateCanWalkAndThink(t *testing.T) {
	g := newTestGame(t)
	bot, err := g.AddBot(BotConfig{Name: "axe", ClassType: "axeai", Team: 2})
	require.NoError(t, err)

	back := PlayerFromState(bot.ToState(), g.classes)
	assert.True(t, back.IsBot())
	assert.Equal(t, bot.maxSpeed, back.maxSpeed)

	def, _ := g.classes.Get(ClassWarrior)
	walker := PlayerFromState(NewPlayer(9, "w", "", ClassWarrior, 1, def, Vector{X: 300, Y: 300}).ToState(), g.classes)
	walker.ActionsNextFrame.MoveRight = true
	g.applyActions(walker, testDt)
	assert.Greater(t, walker.Momentum.X, 0.0)
}
