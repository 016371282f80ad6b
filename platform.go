package main

// Platform is a static rectangle entities collide against. It never changes
// after creation.
type Platform struct {
	Position Vector
	Size     Size
}

// Overlaps checks if a box at pos overlaps the platform
func (p Platform) Overlaps(pos Vector, size Size) bool {
	return RectsOverlap(pos, size, p.Position, p.Size)
}

// Escape returns where a box currently at current should be snapped to
// leave the platform, and from which side.
func (p Platform) Escape(current Vector, size Size) (Vector, Escape) {
	return NearestEscape(current, size, p.Position, p.Size)
}

// ToState converts to protocol state
func (p Platform) ToState() PlatformState {
	return PlatformState{Position: p.Position, Size: p.Size}
}

// DefaultPlatforms returns the stage layout for an arena of the given size:
// one wide main stage and three floating ledges.
func DefaultPlatforms(a ArenaConfig) []Platform {
	w, h := a.Width, a.Height
	return []Platform{
		{Position: Vector{X: w * 0.125, Y: h * 0.75}, Size: Size{Width: w * 0.75, Height: 60}},
		{Position: Vector{X: w * 0.2, Y: h * 0.54}, Size: Size{Width: w / 6, Height: 25}},
		{Position: Vector{X: w * 0.63, Y: h * 0.54}, Size: Size{Width: w / 6, Height: 25}},
		{Position: Vector{X: w*0.5 - w/12, Y: h * 0.35}, Size: Size{Width: w / 6, Height: 25}},
	}
}
