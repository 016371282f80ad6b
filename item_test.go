package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestItemPickupSwapsWeapon(t *testing.T) {
	g := newTestGame(t)
	p := addFighter(t, g, ClassWarrior, 1, 500)
	p.Abilities[SlotBasicAttack].Cooldown = 0.4

	it := NewItem(g.ids.Next(), ItemType(WeaponAxe), p.Center())
	g.updateItem(it, testDt)

	assert.Equal(t, WeaponAxe, p.WeaponEquipped)
	assert.Zero(t, p.Abilities[SlotBasicAttack].Cooldown)
	assert.Zero(t, it.Life)
}

func TestItemIgnoredWhenAlreadyHeld(t *testing.T) {
	g := newTestGame(t)
	p := addFighter(t, g, ClassWarrior, 1, 500)
	it := NewItem(g.ids.Next(), ItemType(WeaponSword), p.Center())
	g.updateItem(it, testDt)
	assert.Greater(t, it.Life, 0.0)
}

func TestNullItemIsNeverPickedUp(t *testing.T) {
	g := newTestGame(t)
	p := addFighter(t, g, ClassWarrior, 1, 500)
	it := NewItem(g.ids.Next(), ItemNull, p.Center())
	g.updateItem(it, testDt)
	assert.Equal(t, WeaponSword, p.WeaponEquipped)
	assert.Greater(t, it.Life, 0.0)
}

func TestDeadPlayersDoNotPickUp(t *testing.T) {
	g := newTestGame(t)
	p := addFighter(t, g, ClassWarrior, 1, 500)
	g.killPlayer(p)
	it := NewItem(g.ids.Next(), ItemType(WeaponBow), p.Center())
	g.updateItem(it, testDt)
	assert.Greater(t, it.Life, 0.0)
}

func TestItemSettlesOnPlatform(t *testing.T) {
	g := newTestGame(t)
	g.platforms = []Platform{{Position: Vector{X: 0, Y: 500}, Size: Size{Width: 1000, Height: 50}}}
	it := NewItem(g.ids.Next(), ItemType(WeaponBow), Vector{X: 300, Y: 300})

	for i := 0; i < 300; i++ {
		g.updateItem(it, testDt)
	}
	assert.Equal(t, 500-ItemHeight, it.Position.Y)
	assert.Zero(t, it.Momentum.Y)
}

func TestItemBouncesOffArenaWalls(t *testing.T) {
	g := newTestGame(t)
	w := g.cfg.Arena.Width

	right := NewItem(g.ids.Next(), ItemType(WeaponAxe), Vector{X: w - ItemWidth/2 - 1, Y: 200})
	right.Momentum.X = 600
	g.updateItem(right, testDt)
	assert.InDelta(t, -600*decay(ItemRetain, testDt)*ItemRestitution, right.Momentum.X, 1e-9)
	assert.Equal(t, w-ItemWidth, right.Position.X)

	left := NewItem(g.ids.Next(), ItemType(WeaponAxe), Vector{X: ItemWidth/2 + 1, Y: 200})
	left.Momentum.X = -600
	g.updateItem(left, testDt)
	assert.Greater(t, left.Momentum.X, 0.0)
	assert.Zero(t, left.Position.X)
}

func TestItemExpires(t *testing.T) {
	g := newTestGame(t)
	g.dropItem(ItemType(WeaponAxe), Vector{X: 300, Y: 300})
	g.Update(testDt)
	require.Len(t, g.items, 1)
	g.items[0].Life = testDt / 2
	g.Update(testDt)
	assert.Empty(t, g.items)
}

func TestItemSpawnerIsDeterministic(t *testing.T) {
	spawn := func() []ItemState {
		g := newTestGame(t, func(c *Config) {
			c.Game.ItemSpawnInterval = 0.5
			c.Game.MaxItems = 2
			c.Game.Seed = 99
		})
		g.platforms = DefaultPlatforms(g.cfg.Arena)
		for i := 0; i < 120; i++ {
			g.Update(testDt)
		}
		return g.Snapshot().Items
	}

	first, second := spawn(), spawn()
	require.Len(t, first, 2, "capped at MaxItems")
	assert.Equal(t, first, second)
	for _, it := range first {
		_, ok := ParseWeapon(string(it.ItemType))
		assert.True(t, ok)
	}
}

func TestSpawnerNeedsPositiveDt(t *testing.T) {
	g := newTestGame(t, func(c *Config) { c.Game.ItemSpawnInterval = 0.01 })
	g.platforms = DefaultPlatforms(g.cfg.Arena)
	g.spawnItems(0)
	assert.Empty(t, g.pendingItems)
	g.spawnItems(0.02)
	assert.Len(t, g.pendingItems, 1)
}
