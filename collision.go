package main

import "math"

// Escape is the side of a rectangle an overlapping entity is pushed out to
type Escape int

const (
	EscapeAbove Escape = iota
	EscapeBelow
	EscapeLeft
	EscapeRight
)

// RectsOverlap checks if two axis-aligned rectangles overlap. Touching edges
// do not count, so an entity resting on a platform is not colliding with it.
func RectsOverlap(aPos Vector, aSize Size, bPos Vector, bSize Size) bool {
	return aPos.X < bPos.X+bSize.Width &&
		aPos.X+aSize.Width > bPos.X &&
		aPos.Y < bPos.Y+bSize.Height &&
		aPos.Y+aSize.Height > bPos.Y
}

// escapePoints returns the four positions directly above, below, left and
// right of the rectangle an entity of the given size could be snapped to,
// keeping the entity's current coordinate on the other axis.
func escapePoints(current Vector, size Size, rectPos Vector, rectSize Size) [4]Vector {
	return [4]Vector{
		EscapeAbove: {current.X, rectPos.Y - size.Height},
		EscapeBelow: {current.X, rectPos.Y + rectSize.Height},
		EscapeLeft:  {rectPos.X - size.Width, current.Y},
		EscapeRight: {rectPos.X + rectSize.Width, current.Y},
	}
}

// NearestEscape picks the escape point closest to current. Ties go to the
// earlier of above, below, left, right.
func NearestEscape(current Vector, size Size, rectPos Vector, rectSize Size) (Vector, Escape) {
	points := escapePoints(current, size, rectPos, rectSize)
	best := EscapeAbove
	bestDist := math.Inf(1)
	for i, p := range points {
		d := Distance(current, p)
		if d < bestDist {
			bestDist = d
			best = Escape(i)
		}
	}
	return points[best], best
}

// SegmentIntersectsRect checks if the segment a→b touches the rectangle,
// using the slab method. A zero-length segment degrades to a point test.
func SegmentIntersectsRect(a, b Vector, rectPos Vector, rectSize Size) bool {
	tMin, tMax := 0.0, 1.0
	d := b.Sub(a)
	axes := [2]struct{ origin, delta, lo, hi float64 }{
		{a.X, d.X, rectPos.X, rectPos.X + rectSize.Width},
		{a.Y, d.Y, rectPos.Y, rectPos.Y + rectSize.Height},
	}
	for _, ax := range axes {
		if ax.delta == 0 {
			if ax.origin < ax.lo || ax.origin > ax.hi {
				return false
			}
			continue
		}
		t1 := (ax.lo - ax.origin) / ax.delta
		t2 := (ax.hi - ax.origin) / ax.delta
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tMin = math.Max(tMin, t1)
		tMax = math.Min(tMax, t2)
		if tMin > tMax {
			return false
		}
	}
	return true
}

// SweptHitsRect checks if a moving box, travelling from pos to pos+delta,
// touches the target rectangle at any point along the way.
func SweptHitsRect(pos Vector, size Size, delta Vector, targetPos Vector, targetSize Size) bool {
	// Shrink the mover to a point by growing the target by its size.
	grown := Vector{targetPos.X - size.Width/2, targetPos.Y - size.Height/2}
	grownSize := Size{targetSize.Width + size.Width, targetSize.Height + size.Height}
	start := Center(pos, size)
	return SegmentIntersectsRect(start, start.Add(delta), grown, grownSize)
}

// ArenaContact reports which arena edges a box at pos would cross.
type ArenaContact struct {
	Left, Right, Top, Bottom bool
}

// Any returns true if any edge was crossed
func (c ArenaContact) Any() bool {
	return c.Left || c.Right || c.Top || c.Bottom
}

// ClampToArena pushes a box back inside a width×height arena and reports the
// edges it touched. The bottom edge is only enforced when floor is true.
func ClampToArena(pos Vector, size Size, width, height float64, floor bool) (Vector, ArenaContact) {
	var c ArenaContact
	if pos.X < 0 {
		pos.X = 0
		c.Left = true
	} else if pos.X+size.Width > width {
		pos.X = width - size.Width
		c.Right = true
	}
	if pos.Y < 0 {
		pos.Y = 0
		c.Top = true
	} else if floor && pos.Y+size.Height > height {
		pos.Y = height - size.Height
		c.Bottom = true
	}
	return pos, c
}
