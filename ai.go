package main

import "math"

const (
	BotThinkInterval = 0.2   // seconds between target re-evaluations
	BotDetectRange   = 900.0 // ignore enemies farther than this
	BotMeleeRange    = 80.0  // axe bots swing when this close
	BotShootRange    = 650.0 // archer bots fire when this close
	BotKeepAway      = 300.0 // archer bots back off when closer than this
	BotJumpHeight    = 60.0  // jump when the target is this far above
	BotEdgeMargin    = 40.0  // stay this far from a platform edge when idle
)

// BotBrain drives a server-controlled player. It only writes the same
// intents a client would send: queued actions, slot charging and focus.
type BotBrain struct {
	TargetID   EntityID
	ThinkTimer float64
	Wander     float64 // -1 left, +1 right
}

// updateBots lets every bot decide its intents for this tick
func (g *Game) updateBots(dt float64) {
	if dt <= 0 {
		return
	}
	for _, id := range g.order {
		p := g.players[id]
		if p.brain == nil || p.IsDead {
			continue
		}
		g.think(p, dt)
	}
}

// think picks a target and writes this tick's intents
func (g *Game) think(p *Player, dt float64) {
	b := p.brain
	b.ThinkTimer -= dt
	target := g.players[b.TargetID]
	if b.ThinkTimer <= 0 || target == nil || target.IsDead {
		b.ThinkTimer = BotThinkInterval
		target = g.nearestEnemy(p)
		b.TargetID = 0
		if target != nil {
			b.TargetID = target.ID
		}
	}

	for i := range p.Abilities {
		p.Abilities[i].IsCharging = false
	}

	if target == nil {
		g.wander(p)
		return
	}

	tc, pc := target.Center(), p.Center()
	p.FocusPosition = tc
	dx := tc.X - pc.X
	dist := Distance(pc, tc)

	var act Actions
	switch p.ClassType {
	case ClassArcherAI:
		switch {
		case dist < BotKeepAway:
			act.MoveLeft, act.MoveRight = dx > 0, dx < 0
		case dist > BotShootRange:
			act.MoveLeft, act.MoveRight = dx < 0, dx > 0
		default:
			act.Blast = true
			p.Abilities[SlotSecondaryAttack].IsCharging = true
			p.Abilities[SlotFirstAbility].IsCharging = true
		}
	default:
		if math.Abs(dx) > BotMeleeRange/2 {
			act.MoveLeft, act.MoveRight = dx < 0, dx > 0
		}
		if dist <= BotMeleeRange {
			act.Blast = true
		} else if dist <= BotShootRange {
			p.Abilities[SlotSecondaryAttack].IsCharging = true
		}
		if dist <= BotMeleeRange*2 {
			p.Abilities[SlotFirstAbility].IsCharging = true
		}
	}
	if pc.Y-tc.Y > BotJumpHeight || (p.Standing && !g.supportedAhead(p, dx)) {
		act.Jump = true
	}
	p.ActionsNextFrame = act
}

// wander paces back and forth along the current platform
func (g *Game) wander(p *Player) {
	b := p.brain
	if b.Wander == 0 {
		b.Wander = 1
	}
	if p.Standing && !g.supportedAhead(p, b.Wander) {
		b.Wander = -b.Wander
	}
	p.ActionsNextFrame = Actions{MoveLeft: b.Wander < 0, MoveRight: b.Wander > 0}
	p.FocusPosition = p.Center().Add(Vector{X: b.Wander * 100})
}

// supportedAhead reports whether there is ground a short step in direction
// dir from the player's feet.
func (g *Game) supportedAhead(p *Player, dir float64) bool {
	if g.cfg.Arena.SolidFloor && g.cfg.Arena.Height-(p.Position.Y+p.Size.Height) <= supportSlack {
		return true
	}
	probe := p.Position.X + p.Size.Width/2 + math.Copysign(p.Size.Width/2+BotEdgeMargin, dir)
	feet := p.Position.Y + p.Size.Height
	for _, plat := range g.platforms {
		if probe >= plat.Position.X && probe <= plat.Position.X+plat.Size.Width &&
			math.Abs(plat.Position.Y-feet) <= supportSlack {
			return true
		}
	}
	return false
}

// nearestEnemy returns the closest living, visible enemy in range
func (g *Game) nearestEnemy(p *Player) *Player {
	var best *Player
	bestDist := BotDetectRange
	for _, id := range g.order {
		other := g.players[id]
		if other.IsDead || other.IsStealthed || !isEnemy(p, other) {
			continue
		}
		if d := Distance(p.Center(), other.Center()); d < bestDist {
			bestDist = d
			best = other
		}
	}
	return best
}
