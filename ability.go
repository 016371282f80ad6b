package main

import (
	"math"

	"go.uber.org/zap"
)

// AbilityName identifies an ability
type AbilityName string

const (
	AbilityNone         AbilityName = "none"
	AbilityBasicAttack  AbilityName = "basicAttack"
	AbilityShurikenToss AbilityName = "shurikenToss"
	AbilityStealth      AbilityName = "stealth"
	AbilityDash         AbilityName = "dash"
	AbilityChains       AbilityName = "chains"
	AbilityFireball     AbilityName = "fireball"
	AbilityIceBolt      AbilityName = "iceBolt"
	AbilityFirestrike   AbilityName = "firestrike"
	AbilityBlizzard     AbilityName = "blizzard"
	AbilityCharge       AbilityName = "charge"
	AbilityShield       AbilityName = "shield"
	AbilityAxeThrow     AbilityName = "axeThrow"
	AbilityHealingAura  AbilityName = "healingAura"
	AbilityVolley       AbilityName = "volley"
	AbilityPoisonArrow  AbilityName = "poisonArrow"
)

// SlotIndex names a position in a player's ability bar
type SlotIndex int

const (
	SlotBasicAttack SlotIndex = iota
	SlotSecondaryAttack
	SlotFirstAbility
	SlotSecondAbility
	SlotThirdAbility
	SlotCount
)

// CastReq decides when a held ability button turns into a cast
type CastReq string

const (
	CastOnClick        CastReq = "onClick"        // once per press
	CastOnClickRepeat  CastReq = "onClickRepeat"  // every time the cooldown allows while held
	CastOnCharge       CastReq = "onCharge"       // once charged, then the press is consumed
	CastOnChargeRepeat CastReq = "onChargeRepeat" // every full charge while held
	CastOnRelease      CastReq = "onRelease"      // on release, if charged enough
)

// AbilityDef is the static catalog entry for an ability
type AbilityDef struct {
	CastReq   CastReq
	Cooldown  float64 // seconds
	ChargeReq float64 // seconds of charge needed, charge-type casts only
}

// Ability tuning
const (
	StealthDuration = 3.0
	ShieldDuration  = 1.5

	DashBaseSpeed  = 700.0
	DashPerCharge  = 900.0 // extra speed per second of charge
	DashMaxCharge  = 1.0
	ChargeSpeed    = 1100.0
	ChargeRange    = 90.0
	ChargeSpread   = math.Pi / 2
	ChargeDamage   = 10.0
	ChargeKnock    = 600.0
	VolleySpread   = 0.15 // radians between arrows
	VolleyArrows   = 3
	FirestrikeDrop = 600.0 // spawn height above the target point
)

// GetAbilityDef returns the catalog entry for an ability. Unknown names get
// the no-op entry.
func GetAbilityDef(name AbilityName) AbilityDef {
	switch name {
	case AbilityBasicAttack:
		return AbilityDef{CastReq: CastOnClickRepeat}
	case AbilityShurikenToss:
		return AbilityDef{CastReq: CastOnClickRepeat, Cooldown: 0.45}
	case AbilityStealth:
		return AbilityDef{CastReq: CastOnClick, Cooldown: 8}
	case AbilityDash:
		return AbilityDef{CastReq: CastOnRelease, Cooldown: 3, ChargeReq: 0.15}
	case AbilityChains:
		return AbilityDef{CastReq: CastOnClick, Cooldown: 7}
	case AbilityFireball:
		return AbilityDef{CastReq: CastOnCharge, Cooldown: 1.5, ChargeReq: 0.5}
	case AbilityIceBolt:
		return AbilityDef{CastReq: CastOnClick, Cooldown: 2}
	case AbilityFirestrike:
		return AbilityDef{CastReq: CastOnClick, Cooldown: 6}
	case AbilityBlizzard:
		return AbilityDef{CastReq: CastOnClick, Cooldown: 10}
	case AbilityCharge:
		return AbilityDef{CastReq: CastOnRelease, Cooldown: 4, ChargeReq: 0.25}
	case AbilityShield:
		return AbilityDef{CastReq: CastOnClick, Cooldown: 6}
	case AbilityAxeThrow:
		return AbilityDef{CastReq: CastOnChargeRepeat, Cooldown: 1.2, ChargeReq: 0.3}
	case AbilityHealingAura:
		return AbilityDef{CastReq: CastOnClick, Cooldown: 12}
	case AbilityVolley:
		return AbilityDef{CastReq: CastOnClick, Cooldown: 4}
	case AbilityPoisonArrow:
		return AbilityDef{CastReq: CastOnCharge, Cooldown: 3, ChargeReq: 0.4}
	case AbilityNone:
		return AbilityDef{CastReq: CastOnClick}
	}
	return AbilityDef{CastReq: CastOnClick}
}

// ParseAbilityName maps a name to a known ability, or AbilityNone
func ParseAbilityName(s string) (AbilityName, bool) {
	switch name := AbilityName(s); name {
	case AbilityNone, AbilityBasicAttack, AbilityShurikenToss, AbilityStealth, AbilityDash,
		AbilityChains, AbilityFireball, AbilityIceBolt, AbilityFirestrike, AbilityBlizzard,
		AbilityCharge, AbilityShield, AbilityAxeThrow, AbilityHealingAura, AbilityVolley,
		AbilityPoisonArrow:
		return name, true
	}
	return AbilityNone, false
}

// AbilitySlot tracks one ability bar entry
type AbilitySlot struct {
	AbilityName  AbilityName
	Cooldown     float64 // seconds remaining, never negative
	ChargeAmount float64 // seconds held
	IsCharging   bool    // button currently held, set by client input
	WasCharging  bool    // IsCharging as of the previous tick
}

// Tick advances the slot by dt and reports whether the ability fires this
// tick, along with the charge it was released with.
func (s *AbilitySlot) Tick(dt float64, def AbilityDef) (fired bool, charge float64) {
	s.Cooldown = math.Max(0, s.Cooldown-dt)
	ready := s.Cooldown <= 0

	switch def.CastReq {
	case CastOnClick, CastOnClickRepeat:
		if s.IsCharging && ready {
			fired = true
			if def.CastReq == CastOnClick {
				s.IsCharging = false
			}
		}
		if !s.IsCharging {
			s.ChargeAmount = 0
		}

	case CastOnCharge, CastOnChargeRepeat:
		if s.IsCharging && ready {
			s.ChargeAmount += dt
			if s.ChargeAmount >= def.ChargeReq {
				fired = true
				if def.CastReq == CastOnCharge {
					s.IsCharging = false
				}
			}
		} else if !s.IsCharging {
			s.ChargeAmount = 0
		}

	case CastOnRelease:
		if s.IsCharging {
			if ready {
				s.ChargeAmount += dt
			}
		} else {
			if s.WasCharging && s.ChargeAmount >= def.ChargeReq {
				fired = true
			}
			if !fired {
				s.ChargeAmount = 0
			}
		}
	}

	s.WasCharging = s.IsCharging
	if fired {
		charge = s.ChargeAmount
		s.ChargeAmount = 0
		s.Cooldown = def.Cooldown
	}
	return fired, charge
}

// Reset clears cooldown and charge state, keeping the ability
func (s *AbilitySlot) Reset() {
	name := s.AbilityName
	*s = AbilitySlot{AbilityName: name}
}

// updateAbilities runs every slot's cast machine and dispatches the ones
// that fire
func (g *Game) updateAbilities(p *Player, dt float64) {
	for i := range p.Abilities {
		slot := &p.Abilities[i]
		if p.IsDead {
			slot.IsCharging = false
		}
		fired, charge := slot.Tick(dt, GetAbilityDef(slot.AbilityName))
		if !fired {
			continue
		}
		g.castAbility(p, slot.AbilityName, charge)
		if slot.AbilityName == AbilityBasicAttack {
			slot.Cooldown = GetWeaponDef(p.WeaponEquipped).Cooldown
		}
	}
}

// castAbility applies an ability's effect for player p
func (g *Game) castAbility(p *Player, name AbilityName, charge float64) {
	aim := p.AimAngle()
	center := p.Center()

	switch name {
	case AbilityNone:
		return
	case AbilityBasicAttack:
		g.weaponBasicAttack(p, aim)
	case AbilityShurikenToss:
		g.spawnProjectile(p, ProjectileShuriken, aim)
	case AbilityStealth:
		p.IsStealthed = true
		id := p.ID
		g.effects.Schedule(id, EffectStealthEnd, g.clock+StealthDuration, func(g *Game) {
			if pl, ok := g.players[id]; ok {
				pl.IsStealthed = false
			}
		})
		return
	case AbilityDash:
		speed := DashBaseSpeed + DashPerCharge*math.Min(charge, DashMaxCharge)
		p.Momentum = FromAngle(aim, speed)
		return
	case AbilityChains:
		g.spawnTargeted(p, TargetedChains, p.FocusPosition, center)
	case AbilityFireball:
		g.spawnProjectile(p, ProjectileFireball, aim)
	case AbilityIceBolt:
		g.spawnProjectile(p, ProjectileIceBolt, aim)
	case AbilityFirestrike:
		start := Vector{X: p.FocusPosition.X, Y: math.Max(0, p.FocusPosition.Y-FirestrikeDrop)}
		g.spawnTargeted(p, TargetedFirestrike, start, p.FocusPosition)
	case AbilityBlizzard:
		g.spawnTargeted(p, TargetedBlizzard, center, p.FocusPosition)
	case AbilityCharge:
		p.Momentum = FromAngle(aim, ChargeSpeed)
		g.sweepMelee(p, aim, SweepParams{
			Range: ChargeRange, Spread: ChargeSpread, Damage: ChargeDamage, Knockback: ChargeKnock,
		})
	case AbilityShield:
		p.IsShielded = true
		id := p.ID
		g.effects.Schedule(id, EffectShieldEnd, g.clock+ShieldDuration, func(g *Game) {
			if pl, ok := g.players[id]; ok {
				pl.IsShielded = false
			}
		})
		return
	case AbilityAxeThrow:
		g.spawnProjectile(p, ProjectileAxe, aim)
	case AbilityHealingAura:
		g.spawnTargeted(p, TargetedHealingAura, center, center)
		return
	case AbilityVolley:
		for i := 0; i < VolleyArrows; i++ {
			offset := float64(i-VolleyArrows/2) * VolleySpread
			g.spawnProjectile(p, ProjectileArrow, aim+offset)
		}
	case AbilityPoisonArrow:
		g.spawnProjectile(p, ProjectilePoisonArrow, aim)
	default:
		g.log.Warn("unknown ability, ignoring", zap.String("ability", string(name)), zap.Int("player", int(p.ID)))
		return
	}
	// Attacking gives away a stealthed player's position.
	g.reveal(p)
}
