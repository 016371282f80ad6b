package main

import "go.uber.org/zap"

// Status effect tuning
const (
	IceSlowFactor   = 0.5
	IceSlowDuration = 1.5

	BurnDamage   = 2.0
	BurnTicks    = 4
	BurnInterval = 0.5

	PoisonDamage   = 1.5
	PoisonTicks    = 6
	PoisonInterval = 0.5

	BleedDamage   = 1.0
	BleedTicks    = 3
	BleedInterval = 0.5
)

// hostile reports whether an attacker (id, team) may hurt target. Team 0 is
// "no team": everyone else is fair game.
func hostile(attackerID EntityID, attackerTeam int, target *Player) bool {
	if target.ID == attackerID {
		return false
	}
	return attackerTeam == 0 || target.Team != attackerTeam
}

// isEnemy reports whether a and b are on opposing sides
func isEnemy(a, b *Player) bool {
	return hostile(a.ID, a.Team, b)
}

// isAlly reports whether target benefits from owner's support effects
func isAlly(ownerID EntityID, ownerTeam int, target *Player) bool {
	if target.ID == ownerID {
		return true
	}
	return ownerTeam != 0 && target.Team == ownerTeam
}

// damagePlayer reduces a victim's health and returns true if they died.
// Shielded and dead players take no damage.
func (g *Game) damagePlayer(victim *Player, amount float64, attacker EntityID) bool {
	if victim.IsDead || victim.IsShielded || amount <= 0 {
		return false
	}
	if attacker != 0 && attacker != victim.ID {
		victim.LastHitBy = attacker
	}
	victim.Health = Clamp(victim.Health-amount, 0, MaxHealth)
	if victim.Health <= 0 {
		g.killPlayer(victim)
		return true
	}
	return false
}

// healPlayer restores health up to the maximum
func (g *Game) healPlayer(p *Player, amount float64) {
	if p.IsDead || amount <= 0 {
		return
	}
	p.Health = Clamp(p.Health+amount, 0, MaxHealth)
}

// knockbackPlayer adds an instantaneous impulse along angle
func (g *Game) knockbackPlayer(p *Player, angle, force float64) {
	if p.IsDead || force == 0 {
		return
	}
	p.Momentum = p.Momentum.Add(FromAngle(angle, force))
	p.Standing = false
}

// applyDamageOverTime deals damage every interval for ticks ticks.
// Reapplying the same kind restarts the effect instead of stacking it.
func (g *Game) applyDamageOverTime(victim *Player, kind EffectKind, source EntityID, damage float64, ticks int, interval float64) {
	if victim.IsDead || victim.IsShielded || ticks <= 0 || interval <= 0 {
		return
	}
	id := victim.ID
	var step func(remaining int) func(g *Game)
	step = func(remaining int) func(g *Game) {
		return func(g *Game) {
			v, ok := g.players[id]
			if !ok || v.IsDead {
				return
			}
			g.damagePlayer(v, damage, source)
			if remaining > 1 && !v.IsDead {
				g.effects.Schedule(id, kind, g.clock+interval, step(remaining-1))
			}
		}
	}
	g.effects.Schedule(id, kind, g.clock+interval, step(ticks))
}

// applySlow scales a player's move speed until duration passes.
// A refresh replaces the pending reversal.
func (g *Game) applySlow(victim *Player, factor, duration float64) {
	if victim.IsDead {
		return
	}
	victim.MoveSpeedModifier = factor
	id := victim.ID
	g.effects.Schedule(id, EffectSlowEnd, g.clock+duration, func(g *Game) {
		if p, ok := g.players[id]; ok {
			p.MoveSpeedModifier = 1
		}
	})
}

// applyDamageTypeStatus applies the lingering effect of a damage type
func (g *Game) applyDamageTypeStatus(victim *Player, dt DamageType, source EntityID) {
	if victim.IsShielded {
		return
	}
	switch dt {
	case DamageIce:
		g.applySlow(victim, IceSlowFactor, IceSlowDuration)
	case DamageFire:
		g.applyDamageOverTime(victim, EffectBurn, source, BurnDamage, BurnTicks, BurnInterval)
	case DamagePoison:
		g.applyDamageOverTime(victim, EffectPoison, source, PoisonDamage, PoisonTicks, PoisonInterval)
	case DamagePhysical:
	}
}

// reveal ends a player's stealth early
func (g *Game) reveal(p *Player) {
	if !p.IsStealthed {
		return
	}
	p.IsStealthed = false
	g.effects.Cancel(p.ID, EffectStealthEnd)
}

// killPlayer moves a player into the dead state and credits the kill
func (g *Game) killPlayer(p *Player) {
	if p.IsDead {
		return
	}
	p.IsDead = true
	p.Health = 0
	p.DeathCooldown = g.cfg.Game.RespawnDelay
	p.DeathCount++
	p.Momentum = Vector{}
	p.IsStealthed = false
	p.IsShielded = false
	p.IsFrozen = 1
	p.MoveSpeedModifier = 1
	p.ActionsNextFrame = Actions{}
	g.effects.CancelEntity(p.ID)

	var killer *Player
	if p.LastHitBy != 0 && p.LastHitBy != p.ID {
		// The attacker may have disconnected; that just means no credit.
		killer = g.players[p.LastHitBy]
	}
	if killer != nil {
		killer.KillCount++
		g.log.Info("player killed",
			zap.Int("victim", int(p.ID)), zap.String("victimName", p.Name),
			zap.Int("killer", int(killer.ID)), zap.String("killerName", killer.Name))
	} else {
		g.log.Info("player died", zap.Int("victim", int(p.ID)), zap.String("victimName", p.Name))
	}

	if def, _ := g.classes.Get(p.ClassType); p.WeaponEquipped != def.Weapon && p.WeaponEquipped != WeaponNone {
		g.dropItem(ItemType(p.WeaponEquipped), p.Center())
	}
}
