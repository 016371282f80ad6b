package main

import "math"

const (
	MaxHealth      = 100.0
	PlayerWidth    = 40.0
	PlayerHeight   = 80.0
	Gravity        = 2600.0 // px/s²
	MaxFallSpeed   = 1800.0
	JumpMomentum   = 1050.0
	StandingAccel  = 4200.0 // px/s² sideways while on the ground
	AirborneAccel  = 1800.0
	StandingRetain = 0.0005 // fraction of sideways momentum kept per second on the ground
	AirborneRetain = 0.35
	supportSlack   = 1.0 // px gap still counted as standing on a surface
)

// Actions is the one-tick command queue filled by client messages and bot
// brains. Repeated messages between ticks coalesce.
type Actions struct {
	Jump      bool
	MoveLeft  bool
	MoveRight bool
	Blast     bool // tap the basic attack
	Arrow     bool // tap the secondary attack
}

// Any reports whether any action is queued
func (a Actions) Any() bool {
	return a.Jump || a.MoveLeft || a.MoveRight || a.Blast || a.Arrow
}

// Player represents a fighter in the arena
type Player struct {
	ID        EntityID
	Name      string
	Color     string
	ClassType ClassType
	Team      int

	Position Vector
	Momentum Vector
	Size     Size

	Health        float64
	IsDead        bool
	DeathCooldown float64 // seconds until respawn while dead

	Standing      bool
	WasStanding   bool
	CanJump       bool
	AlreadyJumped int

	WeaponEquipped Weapon
	Abilities      [SlotCount]AbilitySlot

	IsStealthed       bool
	IsShielded        bool
	IsFrozen          float64 // movement multiplier, 1 when unaffected
	MoveSpeedModifier float64

	LastHitBy  EntityID
	KillCount  int
	DeathCount int

	Facing        bool // true = facing right
	FocusPosition Vector

	ActionsNextFrame Actions

	maxSpeed float64
	brain    *BotBrain
}

// NewPlayer creates a player at start with the class kit
func NewPlayer(id EntityID, name, color string, class ClassType, team int, def ClassDef, start Vector) *Player {
	p := &Player{
		ID:                id,
		Name:              name,
		Color:             color,
		ClassType:         class,
		Team:              team,
		Position:          start,
		Size:              Size{Width: PlayerWidth, Height: PlayerHeight},
		Health:            MaxHealth,
		CanJump:           true,
		WeaponEquipped:    def.Weapon,
		IsFrozen:          1,
		MoveSpeedModifier: 1,
		Facing:            true,
		maxSpeed:          def.MaxSpeed,
	}
	for i, name := range def.Loadout {
		p.Abilities[i] = AbilitySlot{AbilityName: name}
	}
	p.FocusPosition = p.Center().Add(Vector{X: 100})
	if def.IsBot {
		p.brain = &BotBrain{}
	}
	return p
}

// Center returns the middle of the player's box
func (p *Player) Center() Vector {
	return Center(p.Position, p.Size)
}

// AimAngle returns the angle from the player's center toward its focus
// point, or straight ahead when the focus sits on the center.
func (p *Player) AimAngle() float64 {
	d := p.FocusPosition.Sub(p.Center())
	if d.X == 0 && d.Y == 0 {
		if p.Facing {
			return 0
		}
		return math.Pi
	}
	return d.Angle()
}

// IsBot reports whether a server brain drives this player
func (p *Player) IsBot() bool {
	return p.brain != nil
}

// respawn resets a dead player at the arena start point
func (g *Game) respawn(p *Player) {
	def, _ := g.classes.Get(p.ClassType)
	p.Position = g.cfg.Arena.PlayerStart
	p.Momentum = Vector{}
	p.Health = MaxHealth
	p.IsDead = false
	p.DeathCooldown = 0
	p.Standing = false
	p.WasStanding = false
	p.CanJump = true
	p.AlreadyJumped = 0
	p.WeaponEquipped = def.Weapon
	p.IsStealthed = false
	p.IsShielded = false
	p.IsFrozen = 1
	p.MoveSpeedModifier = 1
	p.LastHitBy = 0
	for i := range p.Abilities {
		p.Abilities[i].Reset()
	}
}

// updatePlayer advances one player by dt
func (g *Game) updatePlayer(p *Player, dt float64) {
	if p.IsDead {
		p.DeathCooldown = math.Max(0, p.DeathCooldown-dt)
		if p.DeathCooldown <= 0 && dt > 0 {
			g.respawn(p)
		}
		p.ActionsNextFrame = Actions{}
		return
	}

	// 1. queued actions
	g.applyActions(p, dt)

	// 2. gravity
	if !p.Standing {
		p.Momentum.Y = math.Min(p.Momentum.Y+Gravity*dt, MaxFallSpeed)
	}

	// 3. damping
	retain := AirborneRetain
	if p.Standing {
		retain = StandingRetain
	}
	p.Momentum.X *= decay(retain, dt)

	// 4. integrate and resolve against platforms and other players
	p.Position = p.Position.Add(p.Momentum.Scale(dt))
	p.WasStanding = p.Standing
	p.Standing = false
	g.resolvePlayerPlatforms(p)
	g.separatePlayers(p)

	// 5. arena bounds
	a := g.cfg.Arena
	pos, contact := ClampToArena(p.Position, p.Size, a.Width, a.Height, a.SolidFloor)
	p.Position = pos
	if contact.Left || contact.Right {
		p.Momentum.X = 0
	}
	if contact.Top && p.Momentum.Y < 0 {
		p.Momentum.Y = 0
	}
	if contact.Bottom {
		p.Momentum.Y = 0
		p.Standing = true
	}
	if !p.Standing && p.Momentum.Y >= 0 && g.supported(p) {
		p.Standing = true
	}
	if p.Standing {
		p.CanJump = true
	}

	// 6. jump lock releases once no longer rising
	if p.Momentum.Y >= 0 && p.AlreadyJumped > 0 {
		p.AlreadyJumped--
	}

	// 7. out of bounds or out of health
	if p.Position.Y > a.Height+a.KillMargin || p.Health <= 0 {
		g.killPlayer(p)
	}

	// 8. the queue only lives for one tick
	p.ActionsNextFrame = Actions{}
}

// applyActions consumes the player's queued actions and runs the ability bar
func (g *Game) applyActions(p *Player, dt float64) {
	a := p.ActionsNextFrame

	if a.Jump && !p.IsDead && p.AlreadyJumped <= 0 && p.CanJump {
		p.Momentum.Y = -JumpMomentum
		p.AlreadyJumped = 1
		if !p.Standing {
			p.CanJump = false
		}
		p.Standing = false
	}

	accel := AirborneAccel
	if p.Standing {
		accel = StandingAccel
	}
	limit := p.maxSpeed * p.MoveSpeedModifier * p.IsFrozen
	switch {
	case a.MoveLeft && !a.MoveRight:
		p.Facing = false
		if p.Momentum.X > -limit {
			p.Momentum.X = math.Max(p.Momentum.X-accel*dt, -limit)
		}
	case a.MoveRight && !a.MoveLeft:
		p.Facing = true
		if p.Momentum.X < limit {
			p.Momentum.X = math.Min(p.Momentum.X+accel*dt, limit)
		}
	}

	if a.Blast {
		p.Abilities[SlotBasicAttack].IsCharging = true
	}
	if a.Arrow {
		p.Abilities[SlotSecondaryAttack].IsCharging = true
	}
	g.updateAbilities(p, dt)
	// Taps are a single press, not a held button.
	if a.Blast {
		p.Abilities[SlotBasicAttack].IsCharging = false
	}
	if a.Arrow {
		p.Abilities[SlotSecondaryAttack].IsCharging = false
	}

	if a.Jump || a.Blast || a.Arrow || a.MoveLeft || a.MoveRight {
		g.echoAction(p, a)
	}
}

// resolvePlayerPlatforms snaps the player out of any platform it overlaps
func (g *Game) resolvePlayerPlatforms(p *Player) {
	for _, plat := range g.platforms {
		if !plat.Overlaps(p.Position, p.Size) {
			continue
		}
		pos, side := plat.Escape(p.Position, p.Size)
		p.Position = pos
		switch side {
		case EscapeAbove:
			p.Momentum.Y = 0
			p.Standing = true
		case EscapeBelow:
			p.Momentum.Y = 0
		case EscapeLeft, EscapeRight:
			p.Momentum.X = 0
		}
	}
}

// supported reports whether the player rests on top of a platform or the
// solid arena floor without overlapping it.
func (g *Game) supported(p *Player) bool {
	bottom := p.Position.Y + p.Size.Height
	if g.cfg.Arena.SolidFloor && g.cfg.Arena.Height-bottom <= supportSlack {
		return true
	}
	for _, plat := range g.platforms {
		gap := plat.Position.Y - bottom
		if gap < 0 || gap > supportSlack {
			continue
		}
		if p.Position.X < plat.Position.X+plat.Size.Width && p.Position.X+p.Size.Width > plat.Position.X {
			return true
		}
	}
	return false
}

// separatePlayers pushes p and any living player it overlaps apart
// horizontally, half the overlap each.
func (g *Game) separatePlayers(p *Player) {
	for _, id := range g.order {
		other := g.players[id]
		if other == p || other.IsDead {
			continue
		}
		if !RectsOverlap(p.Position, p.Size, other.Position, other.Size) {
			continue
		}
		pc, oc := p.Center(), other.Center()
		overlap := (p.Size.Width+other.Size.Width)/2 - math.Abs(pc.X-oc.X)
		push := overlap / 2
		if pc.X < oc.X || (pc.X == oc.X && p.ID < other.ID) {
			push = -push
		}
		p.Position.X += push
		other.Position.X -= push
	}
}

// ToState converts to protocol state
func (p *Player) ToState() PlayerState {
	s := PlayerState{
		ID:                p.ID,
		Name:              p.Name,
		Color:             p.Color,
		ClassType:         p.ClassType,
		Team:              p.Team,
		Position:          p.Position,
		Momentum:          p.Momentum,
		Size:              p.Size,
		Health:            p.Health,
		IsDead:            p.IsDead,
		DeathCooldown:     p.DeathCooldown,
		Standing:          p.Standing,
		WasStanding:       p.WasStanding,
		CanJump:           p.CanJump,
		AlreadyJumped:     p.AlreadyJumped,
		WeaponEquipped:    p.WeaponEquipped,
		IsStealthed:       p.IsStealthed,
		IsShielded:        p.IsShielded,
		IsFrozen:          p.IsFrozen,
		MoveSpeedModifier: p.MoveSpeedModifier,
		LastHitBy:         p.LastHitBy,
		KillCount:         p.KillCount,
		DeathCount:        p.DeathCount,
		Facing:            p.Facing,
		FocusPosition:     p.FocusPosition,
		Abilities:         make([]AbilityState, len(p.Abilities)),
	}
	for i, a := range p.Abilities {
		s.Abilities[i] = AbilityState{
			AbilityName:  a.AbilityName,
			Cooldown:     a.Cooldown,
			ChargeAmount: a.ChargeAmount,
			IsCharging:   a.IsCharging,
		}
	}
	return s
}

// PlayerFromState rebuilds a player from its serialized form. The speed cap
// and bot brain come from the player's class in classes.
func PlayerFromState(s PlayerState, classes ClassTable) *Player {
	def, _ := classes.Get(s.ClassType)
	p := &Player{
		ID:                s.ID,
		Name:              s.Name,
		Color:             s.Color,
		ClassType:         s.ClassType,
		Team:              s.Team,
		Position:          s.Position,
		Momentum:          s.Momentum,
		Size:              s.Size,
		Health:            s.Health,
		IsDead:            s.IsDead,
		DeathCooldown:     s.DeathCooldown,
		Standing:          s.Standing,
		WasStanding:       s.WasStanding,
		CanJump:           s.CanJump,
		AlreadyJumped:     s.AlreadyJumped,
		WeaponEquipped:    s.WeaponEquipped,
		IsStealthed:       s.IsStealthed,
		IsShielded:        s.IsShielded,
		IsFrozen:          s.IsFrozen,
		MoveSpeedModifier: s.MoveSpeedModifier,
		LastHitBy:         s.LastHitBy,
		KillCount:         s.KillCount,
		DeathCount:        s.DeathCount,
		Facing:            s.Facing,
		FocusPosition:     s.FocusPosition,
		maxSpeed:          def.MaxSpeed,
	}
	if def.IsBot {
		p.brain = &BotBrain{}
	}
	for i := 0; i < len(s.Abilities) && i < len(p.Abilities); i++ {
		a := s.Abilities[i]
		p.Abilities[i] = AbilitySlot{
			AbilityName:  a.AbilityName,
			Cooldown:     a.Cooldown,
			ChargeAmount: a.ChargeAmount,
			IsCharging:   a.IsCharging,
		}
	}
	return p
}
