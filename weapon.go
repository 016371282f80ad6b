package main

import (
	"math"

	"go.uber.org/zap"
)

// Weapon identifies what a player's basic attack does
type Weapon string

const (
	WeaponNone   Weapon = "none"
	WeaponDagger Weapon = "dagger"
	WeaponSword  Weapon = "sword"
	WeaponAxe    Weapon = "axe"
	WeaponStaff  Weapon = "staff"
	WeaponBow    Weapon = "bow"
)

// AllWeapons lists the weapons that can appear as pickups
var AllWeapons = []Weapon{WeaponDagger, WeaponSword, WeaponAxe, WeaponStaff, WeaponBow}

// SweepParams configures the sweeping melee template
type SweepParams struct {
	Weapon     Weapon
	Range      float64 // max center-to-center reach
	Spread     float64 // arc width in radians, centered on the aim angle
	MeleeRange float64 // anything this close is hit regardless of angle
	Damage     float64
	Knockback  float64
}

// WeaponDef is the static catalog entry for a weapon
type WeaponDef struct {
	Cooldown   float64
	Sweep      *SweepParams   // melee weapons
	Projectile ProjectileType // ranged weapons, when Sweep is nil
}

// Dagger bonuses
const (
	BackstabMultiplier = 1.5
	StealthMultiplier  = 2.0
)

const sweepEpsilon = 1e-9

// GetWeaponDef returns the catalog entry for a weapon. Unknown weapons get
// a no-op entry.
func GetWeaponDef(w Weapon) WeaponDef {
	switch w {
	case WeaponDagger:
		return WeaponDef{Cooldown: 0.3, Sweep: &SweepParams{
			Weapon: w, Range: 75, Spread: math.Pi / 2, MeleeRange: 25, Damage: 6, Knockback: 250,
		}}
	case WeaponSword:
		return WeaponDef{Cooldown: 0.5, Sweep: &SweepParams{
			Weapon: w, Range: 110, Spread: math.Pi * 0.6, MeleeRange: 30, Damage: 11, Knockback: 420,
		}}
	case WeaponAxe:
		return WeaponDef{Cooldown: 0.8, Sweep: &SweepParams{
			Weapon: w, Range: 120, Spread: math.Pi * 0.75, MeleeRange: 35, Damage: 15, Knockback: 560,
		}}
	case WeaponStaff:
		return WeaponDef{Cooldown: 0.55, Projectile: ProjectileStaffBolt}
	case WeaponBow:
		return WeaponDef{Cooldown: 0.65, Projectile: ProjectileArrow}
	case WeaponNone:
		return WeaponDef{Cooldown: 0.5}
	}
	return WeaponDef{Cooldown: 0.5}
}

// ParseWeapon maps a name to a known weapon
func ParseWeapon(s string) (Weapon, bool) {
	switch w := Weapon(s); w {
	case WeaponNone, WeaponDagger, WeaponSword, WeaponAxe, WeaponStaff, WeaponBow:
		return w, true
	}
	return WeaponNone, false
}

// weaponBasicAttack performs the equipped weapon's basic attack
func (g *Game) weaponBasicAttack(p *Player, aim float64) {
	def := GetWeaponDef(p.WeaponEquipped)
	switch {
	case def.Sweep != nil:
		g.sweepMelee(p, aim, *def.Sweep)
	case def.Projectile != "":
		g.spawnProjectile(p, def.Projectile, aim)
	default:
		if p.WeaponEquipped != WeaponNone {
			g.log.Warn("unknown weapon, ignoring basic attack",
				zap.String("weapon", string(p.WeaponEquipped)), zap.Int("player", int(p.ID)))
		}
	}
}

// angleInSweep checks angle against [lo, hi], trying the 2π-shifted copies
// so an arc crossing ±π still matches.
func angleInSweep(angle, lo, hi float64) bool {
	for k := -1.0; k <= 1; k++ {
		a := angle + 2*math.Pi*k
		if a >= lo-sweepEpsilon && a <= hi+sweepEpsilon {
			return true
		}
	}
	return false
}

// facingAway reports whether victim has its back to attacker
func facingAway(attacker, victim *Player) bool {
	attackerOnLeft := attacker.Center().X < victim.Center().X
	return attackerOnLeft == victim.Facing
}

// sweepMelee hits every enemy inside the arc [aim-spread/2, aim+spread/2]
// within range, plus anyone inside the point-blank melee range, and
// returns the players hit.
func (g *Game) sweepMelee(p *Player, aim float64, sp SweepParams) []*Player {
	g.spawnBasicAttack(p, aim, sp)

	center := p.Center()
	lo, hi := aim-sp.Spread/2, aim+sp.Spread/2
	var hits []*Player
	for _, id := range g.order {
		other := g.players[id]
		if !isEnemy(p, other) || other.IsDead || other.IsShielded {
			continue
		}
		oc := other.Center()
		d := Distance(center, oc)
		if d > sp.Range {
			continue
		}
		angle := oc.Sub(center).Angle()
		if !angleInSweep(angle, lo, hi) && d >= sp.MeleeRange {
			continue
		}

		dmg := sp.Damage
		if sp.Weapon == WeaponDagger {
			if p.IsStealthed {
				dmg *= StealthMultiplier
			} else if facingAway(p, other) {
				dmg *= BackstabMultiplier
			}
			g.applyDamageOverTime(other, EffectBleed, p.ID, BleedDamage, BleedTicks, BleedInterval)
		}
		g.damagePlayer(other, dmg, p.ID)
		g.knockbackPlayer(other, angle, sp.Knockback)
		hits = append(hits, other)
	}
	return hits
}
