package main

import (
	"math"

	"go.uber.org/zap"
)

// ProjectileType identifies a projectile's behavior
type ProjectileType string

const (
	ProjectileShuriken    ProjectileType = "shuriken"
	ProjectileFireball    ProjectileType = "fireball"
	ProjectileIceBolt     ProjectileType = "iceBolt"
	ProjectileAxe         ProjectileType = "axe"
	ProjectileStaffBolt   ProjectileType = "staffBolt"
	ProjectileArrow       ProjectileType = "arrow"
	ProjectilePoisonArrow ProjectileType = "poisonArrow"
)

// DamageType selects the status a hit applies
type DamageType string

const (
	DamagePhysical DamageType = "physical"
	DamageFire     DamageType = "fire"
	DamageIce      DamageType = "ice"
	DamagePoison   DamageType = "poison"
)

const (
	GroundedLinger    = 1.0   // seconds a non-fire projectile stays visible once grounded
	ArrowRestitution  = 0.4   // fraction of speed kept per bounce
	ArrowGroundSpeed  = 200.0 // below this an arrow sticks instead of bouncing
	projectileMaxFall = 2000.0
)

// ProjectileSpec is the static catalog entry for a projectile type
type ProjectileSpec struct {
	Size       Size
	Speed      float64
	Damage     float64
	DamageType DamageType
	FallSpeed  float64 // gravity multiplier
	Knockback  float64
	Range      float64 // splash radius, 0 for single target
	Life       float64
	Bounces    bool
}

var projectileSpecs = map[ProjectileType]ProjectileSpec{
	ProjectileShuriken:    {Size: Size{12, 12}, Speed: 900, Damage: 7, DamageType: DamagePhysical, Knockback: 120, Life: 1.5},
	ProjectileFireball:    {Size: Size{24, 24}, Speed: 650, Damage: 12, DamageType: DamageFire, FallSpeed: 0.25, Knockback: 350, Range: 80, Life: 2},
	ProjectileIceBolt:     {Size: Size{16, 16}, Speed: 950, Damage: 6, DamageType: DamageIce, Knockback: 150, Life: 1.5},
	ProjectileAxe:         {Size: Size{26, 26}, Speed: 780, Damage: 14, DamageType: DamagePhysical, FallSpeed: 1, Knockback: 380, Life: 3},
	ProjectileStaffBolt:   {Size: Size{14, 14}, Speed: 850, Damage: 5, DamageType: DamageFire, Knockback: 100, Life: 1.2},
	ProjectileArrow:       {Size: Size{10, 10}, Speed: 1100, Damage: 8, DamageType: DamagePhysical, FallSpeed: 0.6, Knockback: 180, Life: 3, Bounces: true},
	ProjectilePoisonArrow: {Size: Size{10, 10}, Speed: 1100, Damage: 6, DamageType: DamagePoison, FallSpeed: 0.6, Knockback: 180, Life: 3, Bounces: true},
}

// Projectile is a moving hitbox fired by a player
type Projectile struct {
	ID             EntityID
	ProjectileType ProjectileType
	DamageType     DamageType
	Damage         float64
	OwnerID        EntityID
	Team           int
	Position       Vector
	Momentum       Vector
	Size           Size
	FallSpeed      float64
	Knockback      float64
	Range          float64
	Life           float64
	InGround       bool
	SlowFactor     float64 // time scale applied by blizzards, 1 normally
	bounces        bool
}

// NewProjectile creates a projectile centered on owner, travelling along
// angle. It does not inherit the owner's momentum.
func NewProjectile(id EntityID, owner *Player, kind ProjectileType, angle float64) (*Projectile, bool) {
	spec, ok := projectileSpecs[kind]
	if !ok {
		return nil, false
	}
	c := owner.Center()
	return &Projectile{
		ID:             id,
		ProjectileType: kind,
		DamageType:     spec.DamageType,
		Damage:         spec.Damage,
		OwnerID:        owner.ID,
		Team:           owner.Team,
		Position:       Vector{X: c.X - spec.Size.Width/2, Y: c.Y - spec.Size.Height/2},
		Momentum:       FromAngle(angle, spec.Speed),
		Size:           spec.Size,
		FallSpeed:      spec.FallSpeed,
		Knockback:      spec.Knockback,
		Range:          spec.Range,
		Life:           spec.Life,
		SlowFactor:     1,
		bounces:        spec.Bounces,
	}, true
}

// spawnProjectile queues a new projectile for next tick
func (g *Game) spawnProjectile(owner *Player, kind ProjectileType, angle float64) {
	if len(g.projectiles)+len(g.pendingProjectiles) >= g.cfg.Game.MaxProjectiles {
		g.log.Debug("projectile cap reached", zap.Int("owner", int(owner.ID)))
		return
	}
	proj, ok := NewProjectile(g.ids.Next(), owner, kind, angle)
	if !ok {
		g.log.Warn("unknown projectile type", zap.String("type", string(kind)))
		return
	}
	g.pendingProjectiles = append(g.pendingProjectiles, proj)
}

// ground stops the projectile. Fire burns out at once, everything else
// lingers briefly.
func (pr *Projectile) ground() {
	pr.InGround = true
	pr.Momentum = Vector{}
	if pr.DamageType == DamageFire {
		pr.Life = 0
		return
	}
	pr.Life = math.Min(pr.Life, GroundedLinger)
}

// Center returns the middle of the projectile's box
func (pr *Projectile) Center() Vector {
	return Center(pr.Position, pr.Size)
}

// updateProjectile advances one projectile by dt
func (g *Game) updateProjectile(pr *Projectile, dt float64) {
	pr.Life -= dt
	if pr.InGround || pr.Life <= 0 {
		return
	}

	pr.Momentum.Y = math.Min(pr.Momentum.Y+Gravity*pr.FallSpeed*dt, projectileMaxFall)
	step := pr.Momentum.Scale(pr.SlowFactor * dt)

	if victim := g.projectileVictim(pr, step); victim != nil {
		pr.Position = contactPosition(pr.Position, pr.Size, step, victim.Center())
		g.projectileHit(pr, victim)
		return
	}

	for _, frac := range [...]float64{0.25, 0.5, 1} {
		next := pr.Position.Add(step.Scale(frac))
		for _, plat := range g.platforms {
			if !plat.Overlaps(next, pr.Size) {
				continue
			}
			pos, side := plat.Escape(pr.Position, pr.Size)
			if pr.bounces && pr.bounce(side) {
				return
			}
			pr.Position = pos
			pr.ground()
			return
		}
	}

	a := g.cfg.Arena
	next := pr.Position.Add(step)
	if clamped, contact := ClampToArena(next, pr.Size, a.Width, a.Height, a.SolidFloor); contact.Any() {
		pr.Position = clamped
		pr.ground()
		return
	}
	pr.Position = next
	if pr.Position.Y > a.Height+a.KillMargin {
		pr.Life = 0
	}
}

// bounce reflects an arrow off a surface. It returns false once the arrow
// is too slow to bounce and should stick instead.
func (pr *Projectile) bounce(side Escape) bool {
	m := pr.Momentum
	switch side {
	case EscapeAbove, EscapeBelow:
		m.Y = -m.Y
	case EscapeLeft, EscapeRight:
		m.X = -m.X
	}
	m = m.Scale(ArrowRestitution)
	if m.Len() < ArrowGroundSpeed {
		return false
	}
	pr.Momentum = m
	return true
}

// projectileVictim returns the first enemy the projectile touches this step
func (g *Game) projectileVictim(pr *Projectile, step Vector) *Player {
	for _, id := range g.order {
		p := g.players[id]
		if p.IsDead || !hostile(pr.OwnerID, pr.Team, p) {
			continue
		}
		if SweptHitsRect(pr.Position, pr.Size, step, p.Position, p.Size) {
			return p
		}
	}
	return nil
}

// contactPosition moves a box along step to where its center passes
// closest to target
func contactPosition(pos Vector, size Size, step, target Vector) Vector {
	l2 := step.X*step.X + step.Y*step.Y
	if l2 == 0 {
		return pos
	}
	rel := target.Sub(Center(pos, size))
	t := Clamp((rel.X*step.X+rel.Y*step.Y)/l2, 0, 1)
	return pos.Add(step.Scale(t))
}

// projectileHit resolves a direct hit. The projectile grounds in the same
// step so it can never damage twice.
func (g *Game) projectileHit(pr *Projectile, victim *Player) {
	angle := pr.Momentum.Angle()
	impact := pr.Center()
	pr.InGround = true
	pr.Momentum = Vector{}
	pr.Life = 0

	g.strike(pr, victim, angle)
	if pr.Range <= 0 {
		return
	}
	for _, id := range g.order {
		p := g.players[id]
		if p == victim || p.IsDead || !hostile(pr.OwnerID, pr.Team, p) {
			continue
		}
		if d := Distance(impact, p.Center()); d <= pr.Range {
			g.strike(pr, p, p.Center().Sub(impact).Angle())
		}
	}
}

// strike applies a projectile's payload to one player
func (g *Game) strike(pr *Projectile, p *Player, angle float64) {
	if p.IsShielded {
		return
	}
	g.applyDamageTypeStatus(p, pr.DamageType, pr.OwnerID)
	g.damagePlayer(p, pr.Damage, pr.OwnerID)
	g.knockbackPlayer(p, angle, pr.Knockback)
}

// ToState converts to protocol state
func (pr *Projectile) ToState() ProjectileState {
	return ProjectileState{
		ID:             pr.ID,
		ProjectileType: pr.ProjectileType,
		DamageType:     pr.DamageType,
		Damage:         pr.Damage,
		OwnerID:        pr.OwnerID,
		Team:           pr.Team,
		Position:       pr.Position,
		Momentum:       pr.Momentum,
		Size:           pr.Size,
		FallSpeed:      pr.FallSpeed,
		Knockback:      pr.Knockback,
		Range:          pr.Range,
		Life:           pr.Life,
		InGround:       pr.InGround,
		SlowFactor:     pr.SlowFactor,
	}
}

// ProjectileFromState rebuilds a projectile from its serialized form
func ProjectileFromState(s ProjectileState) *Projectile {
	return &Projectile{
		ID:             s.ID,
		ProjectileType: s.ProjectileType,
		DamageType:     s.DamageType,
		Damage:         s.Damage,
		OwnerID:        s.OwnerID,
		Team:           s.Team,
		Position:       s.Position,
		Momentum:       s.Momentum,
		Size:           s.Size,
		FallSpeed:      s.FallSpeed,
		Knockback:      s.Knockback,
		Range:          s.Range,
		Life:           s.Life,
		InGround:       s.InGround,
		SlowFactor:     s.SlowFactor,
		bounces:        projectileSpecs[s.ProjectileType].Bounces,
	}
}
