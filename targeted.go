package main

import (
	"math"

	"go.uber.org/zap"
)

// TargetedType identifies a targeted projectile's behavior
type TargetedType string

const (
	TargetedFirestrike  TargetedType = "firestrike"
	TargetedChains      TargetedType = "chains"
	TargetedHealingAura TargetedType = "healingAura"
	TargetedBlizzard    TargetedType = "blizzard"
)

// Targeted projectile tuning
const (
	FirestrikeLife       = 3.0
	FirestrikeTickRadius = 70.0
	FirestrikeTickDamage = 40.0 // per second while inside the tick radius
	FirestrikeLift       = 900.0
	FirestrikeBurstRange = 100.0
	FirestrikeBurstDmg   = 20.0
	FirestrikeBurstKnock = 700.0

	ChainsLife      = 1.5
	ChainsSpeed     = 1400.0
	ChainsRetain    = 0.87 // momentum kept per 60 Hz frame
	ChainsPull      = 180.0
	ChainsDragRange = 100.0
	ChainsEndRange  = 70.0

	HealingAuraLife   = 4.0
	HealingAuraRange  = 160.0
	HealingAuraPerSec = 12.0

	BlizzardLife     = 3.0
	BlizzardSpeed    = 320.0
	BlizzardWidth    = 180.0
	BlizzardHeight   = 100.0
	BlizzardSlow     = 0.4
	BlizzardDuration = 0.1 // seconds a slow lingers after leaving the storm
)

// TargetedProjectile is an effect aimed at a point rather than a direction.
// Position is its center.
type TargetedProjectile struct {
	ID           EntityID
	TargetedType TargetedType
	OwnerID      EntityID
	Team         int
	Position     Vector
	Momentum     Vector
	Destination  Vector
	IsDead       bool
	Life         float64
}

// NewTargetedProjectile creates a targeted projectile of kind from start
// toward dest.
func NewTargetedProjectile(id EntityID, owner *Player, kind TargetedType, start, dest Vector) (*TargetedProjectile, bool) {
	tp := &TargetedProjectile{
		ID:           id,
		TargetedType: kind,
		OwnerID:      owner.ID,
		Team:         owner.Team,
		Position:     start,
		Destination:  dest,
	}
	switch kind {
	case TargetedFirestrike:
		tp.Life = FirestrikeLife
	case TargetedChains:
		tp.Life = ChainsLife
		tp.Momentum = FromAngle(dest.Sub(start).Angle(), ChainsSpeed)
	case TargetedHealingAura:
		tp.Life = HealingAuraLife
	case TargetedBlizzard:
		tp.Life = BlizzardLife
		dir := 1.0
		if dest.X < start.X {
			dir = -1
		}
		tp.Momentum = Vector{X: dir * BlizzardSpeed}
	default:
		return nil, false
	}
	return tp, true
}

// spawnTargeted queues a targeted projectile for next tick
func (g *Game) spawnTargeted(owner *Player, kind TargetedType, start, dest Vector) {
	tp, ok := NewTargetedProjectile(g.ids.Next(), owner, kind, start, dest)
	if !ok {
		g.log.Warn("unknown targeted projectile type", zap.String("type", string(kind)))
		return
	}
	g.pendingTargeted = append(g.pendingTargeted, tp)
}

// updateTargeted advances one targeted projectile by dt
func (g *Game) updateTargeted(tp *TargetedProjectile, dt float64) {
	tp.Life -= dt
	if tp.Life <= 0 {
		tp.IsDead = true
	}
	if tp.IsDead {
		return
	}
	switch tp.TargetedType {
	case TargetedFirestrike:
		g.updateFirestrike(tp, dt)
	case TargetedChains:
		g.updateChains(tp, dt)
	case TargetedHealingAura:
		g.updateHealingAura(tp, dt)
	case TargetedBlizzard:
		g.updateBlizzard(tp, dt)
	}
}

// updateFirestrike drops the strike onto its destination, scorching and
// lifting enemies on the way, and bursts on arrival.
func (g *Game) updateFirestrike(tp *TargetedProjectile, dt float64) {
	tp.Momentum.Y += Gravity * dt
	tp.Position = tp.Position.Add(tp.Momentum.Scale(dt))

	for _, id := range g.order {
		p := g.players[id]
		if p.IsDead || !hostile(tp.OwnerID, tp.Team, p) {
			continue
		}
		if Distance(tp.Position, p.Center()) <= FirestrikeTickRadius && !p.IsShielded {
			g.damagePlayer(p, FirestrikeTickDamage*dt, tp.OwnerID)
			p.Momentum.Y -= FirestrikeLift * dt
			p.Standing = false
		}
	}

	if tp.Position.Y < tp.Destination.Y {
		return
	}
	tp.IsDead = true
	for _, id := range g.order {
		p := g.players[id]
		if p.IsDead || !hostile(tp.OwnerID, tp.Team, p) || p.IsShielded {
			continue
		}
		c := p.Center()
		if Distance(tp.Position, c) > FirestrikeBurstRange {
			continue
		}
		g.damagePlayer(p, FirestrikeBurstDmg, tp.OwnerID)
		g.applyDamageTypeStatus(p, DamageFire, tp.OwnerID)
		g.knockbackPlayer(p, c.Sub(tp.Position).Angle(), FirestrikeBurstKnock)
	}
}

// updateChains reels the chain back toward its caster, dragging any enemy it
// passes along with it.
func (g *Game) updateChains(tp *TargetedProjectile, dt float64) {
	owner, ok := g.players[tp.OwnerID]
	if !ok || owner.IsDead {
		tp.IsDead = true
		return
	}
	tp.Destination = owner.Center()
	tp.Momentum = tp.Momentum.Scale(math.Pow(ChainsRetain, dt*60))
	toOwner := tp.Destination.Sub(tp.Position).Normalized()
	tp.Momentum = tp.Momentum.Add(toOwner.Scale(ChainsPull * dt * 60))
	tp.Position = tp.Position.Add(tp.Momentum.Scale(dt))

	for _, id := range g.order {
		p := g.players[id]
		if p.IsDead || !hostile(tp.OwnerID, tp.Team, p) || p.IsShielded {
			continue
		}
		if Distance(tp.Position, p.Center()) > ChainsDragRange {
			continue
		}
		p.Momentum = p.Momentum.Add(tp.Momentum.Scale(0.5 * dt * 60))
		p.Standing = false
		p.LastHitBy = tp.OwnerID
	}

	if Distance(tp.Position, tp.Destination) <= ChainsEndRange {
		tp.IsDead = true
	}
}

// updateHealingAura heals the caster's side around the aura
func (g *Game) updateHealingAura(tp *TargetedProjectile, dt float64) {
	for _, id := range g.order {
		p := g.players[id]
		if p.IsDead || !isAlly(tp.OwnerID, tp.Team, p) {
			continue
		}
		if Distance(tp.Position, p.Center()) <= HealingAuraRange {
			g.healPlayer(p, HealingAuraPerSec*dt)
		}
	}
}

// updateBlizzard sweeps the storm sideways, slowing enemies and every
// projectile caught in its box.
func (g *Game) updateBlizzard(tp *TargetedProjectile, dt float64) {
	size := Size{Width: BlizzardWidth, Height: BlizzardHeight}
	half := Vector{X: BlizzardWidth / 2, Y: BlizzardHeight / 2}

	next := tp.Position.Add(tp.Momentum.Scale(dt))
	for _, plat := range g.platforms {
		if plat.Overlaps(next.Sub(half), size) {
			_, side := plat.Escape(tp.Position.Sub(half), size)
			if side == EscapeLeft || side == EscapeRight {
				tp.Momentum.X = -tp.Momentum.X
				next = tp.Position
			}
			break
		}
	}
	a := g.cfg.Arena
	if clamped, contact := ClampToArena(next.Sub(half), size, a.Width, a.Height, false); contact.Left || contact.Right {
		tp.Momentum.X = -tp.Momentum.X
		next = clamped.Add(half)
	}
	tp.Position = next

	topLeft := tp.Position.Sub(half)
	for _, id := range g.order {
		p := g.players[id]
		if p.IsDead || !hostile(tp.OwnerID, tp.Team, p) || p.IsShielded {
			continue
		}
		if !RectsOverlap(topLeft, size, p.Position, p.Size) {
			continue
		}
		p.IsFrozen = BlizzardSlow
		pid := p.ID
		g.effects.Schedule(pid, EffectFrozenEnd, g.clock+BlizzardDuration, func(g *Game) {
			if pl, ok := g.players[pid]; ok {
				pl.IsFrozen = 1
			}
		})
	}
	for _, pr := range g.projectiles {
		if pr.InGround || !RectsOverlap(topLeft, size, pr.Position, pr.Size) {
			continue
		}
		pr.SlowFactor = BlizzardSlow
		target := pr
		g.effects.Schedule(pr.ID, EffectProjectileSlowEnd, g.clock+BlizzardDuration, func(g *Game) {
			target.SlowFactor = 1
		})
	}
}

// ToState converts to protocol state
func (tp *TargetedProjectile) ToState() TargetedProjectileState {
	return TargetedProjectileState{
		ID:           tp.ID,
		TargetedType: tp.TargetedType,
		OwnerID:      tp.OwnerID,
		Team:         tp.Team,
		Position:     tp.Position,
		Momentum:     tp.Momentum,
		Destination:  tp.Destination,
		IsDead:       tp.IsDead,
		Life:         tp.Life,
	}
}

// TargetedFromState rebuilds a targeted projectile from its serialized form
func TargetedFromState(s TargetedProjectileState) *TargetedProjectile {
	return &TargetedProjectile{
		ID:           s.ID,
		TargetedType: s.TargetedType,
		OwnerID:      s.OwnerID,
		Team:         s.Team,
		Position:     s.Position,
		Momentum:     s.Momentum,
		Destination:  s.Destination,
		IsDead:       s.IsDead,
		Life:         s.Life,
	}
}
