package main

// BasicAttackLife is how long a swing stays in the snapshot
const BasicAttackLife = 0.15

// BasicAttack is the visible trace of a melee swing. It has no gameplay
// effect of its own; the sweep resolves damage when it is created.
type BasicAttack struct {
	ID       EntityID
	OwnerID  EntityID
	Weapon   Weapon
	Position Vector // owner center at the time of the swing
	Angle    float64
	Spread   float64
	Range    float64
	Life     float64
}

// spawnBasicAttack records a swing for clients to draw
func (g *Game) spawnBasicAttack(p *Player, aim float64, sp SweepParams) {
	g.pendingAttacks = append(g.pendingAttacks, &BasicAttack{
		ID:       g.ids.Next(),
		OwnerID:  p.ID,
		Weapon:   sp.Weapon,
		Position: p.Center(),
		Angle:    aim,
		Spread:   sp.Spread,
		Range:    sp.Range,
		Life:     BasicAttackLife,
	})
}

// Update ticks the swing's lifetime
func (b *BasicAttack) Update(dt float64) {
	b.Life -= dt
}

// ToState converts to protocol state
func (b *BasicAttack) ToState() BasicAttackState {
	return BasicAttackState{
		ID:       b.ID,
		OwnerID:  b.OwnerID,
		Weapon:   b.Weapon,
		Position: b.Position,
		Angle:    b.Angle,
		Spread:   b.Spread,
		Range:    b.Range,
		Life:     b.Life,
	}
}
