package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// addBot joins a bot standing on the floor at x
func addBot(t *testing.T, g *Game, class ClassType, team int, x float64) *Player {
	t.Helper()
	p, err := g.AddBot(BotConfig{Name: string(class), ClassType: string(class), Team: team})
	require.NoError(t, err)
	p.Position = Vector{X: x, Y: g.cfg.Arena.Height - p.Size.Height}
	p.Standing = true
	return p
}

func TestNearestEnemySkipsFriendsAndHidden(t *testing.T) {
	g := newTestGame(t)
	bot := addBot(t, g, ClassAxeAI, 2, 500)
	addFighter(t, g, ClassNinja, 2, 550) // teammate
	hidden := addFighter(t, g, ClassNinja, 1, 600)
	hidden.IsStealthed = true
	dead := addFighter(t, g, ClassNinja, 1, 650)
	g.killPlayer(dead)
	addFighter(t, g, ClassNinja, 1, 500+BotDetectRange+100) // too far
	visible := addFighter(t, g, ClassWizard, 1, 800)

	assert.Equal(t, visible, g.nearestEnemy(bot))

	visible.IsStealthed = true
	assert.Nil(t, g.nearestEnemy(bot))
}

func TestAxeBotChasesAndSwings(t *testing.T) {
	g := newTestGame(t)
	bot := addBot(t, g, ClassAxeAI, 2, 500)
	target := addFighter(t, g, ClassNinja, 1, 800)

	g.think(bot, testDt)
	assert.Equal(t, target.ID, bot.brain.TargetID)
	assert.True(t, bot.ActionsNextFrame.MoveRight)
	assert.False(t, bot.ActionsNextFrame.Blast)
	assert.True(t, bot.Abilities[SlotSecondaryAttack].IsCharging, "throws axes from range")
	assert.Equal(t, target.Center(), bot.FocusPosition)

	target.Position.X = bot.Position.X + 50
	bot.brain.ThinkTimer = 0
	g.think(bot, testDt)
	assert.True(t, bot.ActionsNextFrame.Blast)
	assert.True(t, bot.Abilities[SlotFirstAbility].IsCharging)
}

func TestArcherBotKeepsDistance(t *testing.T) {
	g := newTestGame(t)
	bot := addBot(t, g, ClassArcherAI, 2, 500)
	target := addFighter(t, g, ClassNinja, 1, 600)

	g.think(bot, testDt)
	assert.True(t, bot.ActionsNextFrame.MoveLeft, "backs away from a close target")
	assert.False(t, bot.ActionsNextFrame.Blast)

	target.Position.X = bot.Position.X + 450
	bot.brain.ThinkTimer = 0
	g.think(bot, testDt)
	assert.True(t, bot.ActionsNextFrame.Blast)
	assert.True(t, bot.Abilities[SlotSecondaryAttack].IsCharging)
	assert.True(t, bot.Abilities[SlotFirstAbility].IsCharging)
}

func TestBotJumpsTowardHigherTarget(t *testing.T) {
	g := newTestGame(t)
	bot := addBot(t, g, ClassAxeAI, 2, 500)
	target := addFighter(t, g, ClassNinja, 1, 700)
	target.Position.Y -= 200

	g.think(bot, testDt)
	assert.True(t, bot.ActionsNextFrame.Jump)
}

func TestIdleBotWandersWithinPlatform(t *testing.T) {
	g := newTestGame(t, func(c *Config) { c.Arena.SolidFloor = false })
	g.platforms = []Platform{{Position: Vector{X: 0, Y: 500}, Size: Size{Width: 600, Height: 50}}}
	bot := addBot(t, g, ClassAxeAI, 2, 0)
	bot.Position = Vector{X: 600 - bot.Size.Width - 10, Y: 500 - bot.Size.Height}

	g.think(bot, testDt)
	assert.True(t, bot.ActionsNextFrame.MoveLeft, "turns around at the edge")
	assert.Zero(t, bot.brain.TargetID)
}

func TestBotsPauseOnZeroDt(t *testing.T) {
	g := newTestGame(t)
	bot := addBot(t, g, ClassAxeAI, 2, 500)
	addFighter(t, g, ClassNinja, 1, 800)

	g.updateBots(0)
	assert.False(t, bot.ActionsNextFrame.Any())
	assert.Zero(t, bot.brain.TargetID)

	g.updateBots(testDt)
	assert.True(t, bot.ActionsNextFrame.Any())
}

func TestBotFightsThroughTicks(t *testing.T) {
	g := newTestGame(t)
	addBot(t, g, ClassAxeAI, 2, 500)
	target := addFighter(t, g, ClassWizard, 1, 700)

	for i := 0; i < 600 && !target.IsDead && target.Health == MaxHealth; i++ {
		g.Update(testDt)
	}
	assert.Less(t, target.Health, MaxHealth, "the bot should land a hit")
}
