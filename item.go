package main

import (
	"math"

	"go.uber.org/zap"
)

// ItemType is the weapon an item equips, or ItemNull
type ItemType string

const ItemNull ItemType = "nullItem"

const (
	ItemWidth        = 30.0
	ItemHeight       = 30.0
	ItemLife         = 30.0 // seconds before an unclaimed item disappears
	ItemRestitution  = 0.35
	ItemBounceSpeed  = 150.0 // slower than this the item settles instead of bouncing
	ItemRetain       = 0.2   // sideways momentum kept per second
	ItemDropMomentum = -500.0
)

// Item is a weapon lying in the arena. Touching it swaps the toucher's weapon.
type Item struct {
	ID       EntityID
	ItemType ItemType
	Position Vector
	Momentum Vector
	Size     Size
	Life     float64
}

// NewItem creates an item centered on pos
func NewItem(id EntityID, kind ItemType, pos Vector) *Item {
	return &Item{
		ID:       id,
		ItemType: kind,
		Position: Vector{X: pos.X - ItemWidth/2, Y: pos.Y - ItemHeight/2},
		Size:     Size{Width: ItemWidth, Height: ItemHeight},
		Life:     ItemLife,
	}
}

// Weapon returns the weapon the item grants
func (it *Item) Weapon() (Weapon, bool) {
	if it.ItemType == ItemNull {
		return WeaponNone, false
	}
	w, ok := ParseWeapon(string(it.ItemType))
	return w, ok && w != WeaponNone
}

// dropItem pops an item out at pos, usually where a player died
func (g *Game) dropItem(kind ItemType, pos Vector) {
	it := NewItem(g.ids.Next(), kind, pos)
	it.Momentum = Vector{Y: ItemDropMomentum}
	g.pendingItems = append(g.pendingItems, it)
}

// spawnItems drops a random weapon from above the arena every
// ItemSpawnInterval seconds, up to MaxItems.
func (g *Game) spawnItems(dt float64) {
	gc := g.cfg.Game
	if gc.ItemSpawnInterval <= 0 || dt <= 0 {
		return
	}
	g.itemTimer += dt
	if g.itemTimer < gc.ItemSpawnInterval {
		return
	}
	g.itemTimer = 0
	if len(g.items)+len(g.pendingItems) >= gc.MaxItems || len(g.platforms) == 0 {
		return
	}
	plat := g.platforms[g.rng.Intn(len(g.platforms))]
	x := plat.Position.X + ItemWidth/2 + g.rng.Float64()*math.Max(0, plat.Size.Width-ItemWidth)
	kind := ItemType(AllWeapons[g.rng.Intn(len(AllWeapons))])
	it := NewItem(g.ids.Next(), kind, Vector{X: x, Y: ItemHeight / 2})
	g.pendingItems = append(g.pendingItems, it)
	g.log.Debug("item spawned", zap.String("item", string(kind)), zap.Float64("x", x))
}

// updateItem advances one item by dt and hands it to the first living
// player touching it.
func (g *Game) updateItem(it *Item, dt float64) {
	it.Life -= dt
	if it.Life <= 0 {
		return
	}

	it.Momentum.Y = math.Min(it.Momentum.Y+Gravity*dt, MaxFallSpeed)
	it.Momentum.X *= decay(ItemRetain, dt)
	next := it.Position.Add(it.Momentum.Scale(dt))
	for _, plat := range g.platforms {
		if !plat.Overlaps(next, it.Size) {
			continue
		}
		pos, side := plat.Escape(it.Position, it.Size)
		next = pos
		switch side {
		case EscapeAbove, EscapeBelow:
			it.Momentum.Y = -it.Momentum.Y * ItemRestitution
			if math.Abs(it.Momentum.Y) < ItemBounceSpeed {
				it.Momentum.Y = 0
			}
		case EscapeLeft, EscapeRight:
			it.Momentum.X = -it.Momentum.X * ItemRestitution
		}
		break
	}
	a := g.cfg.Arena
	pos, contact := ClampToArena(next, it.Size, a.Width, a.Height, a.SolidFloor)
	if (contact.Left && it.Momentum.X < 0) || (contact.Right && it.Momentum.X > 0) {
		it.Momentum.X = -it.Momentum.X * ItemRestitution
	}
	if contact.Bottom {
		it.Momentum.Y = 0
	}
	it.Position = pos
	if it.Position.Y > a.Height+a.KillMargin {
		it.Life = 0
		return
	}

	w, ok := it.Weapon()
	if !ok {
		return
	}
	for _, id := range g.order {
		p := g.players[id]
		if p.IsDead || !RectsOverlap(it.Position, it.Size, p.Position, p.Size) {
			continue
		}
		if p.WeaponEquipped == w {
			continue
		}
		p.WeaponEquipped = w
		p.Abilities[SlotBasicAttack].Cooldown = 0
		it.Life = 0
		g.log.Debug("item picked up", zap.Int("player", int(p.ID)), zap.String("weapon", string(w)))
		return
	}
}

// ToState converts to protocol state
func (it *Item) ToState() ItemState {
	return ItemState{
		ID:       it.ID,
		ItemType: it.ItemType,
		Position: it.Position,
		Momentum: it.Momentum,
		Size:     it.Size,
		Life:     it.Life,
	}
}
