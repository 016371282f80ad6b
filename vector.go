package main

import "math"

// Vector is a 2D point or momentum
type Vector struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Size is a rectangle's dimensions
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Add returns v + o
func (v Vector) Add(o Vector) Vector {
	return Vector{v.X + o.X, v.Y + o.Y}
}

// Sub returns v - o
func (v Vector) Sub(o Vector) Vector {
	return Vector{v.X - o.X, v.Y - o.Y}
}

// Scale returns v * s
func (v Vector) Scale(s float64) Vector {
	return Vector{v.X * s, v.Y * s}
}

// Len returns the vector length
func (v Vector) Len() float64 {
	return math.Hypot(v.X, v.Y)
}

// Angle returns the direction of v in radians (screen coordinates, y down)
func (v Vector) Angle() float64 {
	return math.Atan2(v.Y, v.X)
}

// Normalized returns the unit vector of v, or zero for a zero vector
func (v Vector) Normalized() Vector {
	l := v.Len()
	if l == 0 {
		return Vector{}
	}
	return Vector{v.X / l, v.Y / l}
}

// FromAngle returns a vector of the given length pointing along angle
func FromAngle(angle, length float64) Vector {
	return Vector{math.Cos(angle) * length, math.Sin(angle) * length}
}

// Distance returns the distance between two points
func Distance(a, b Vector) float64 {
	return math.Hypot(b.X-a.X, b.Y-a.Y)
}

// Center returns the center of a rectangle whose top-left corner is pos
func Center(pos Vector, size Size) Vector {
	return Vector{pos.X + size.Width/2, pos.Y + size.Height/2}
}

// Clamp restricts v to [min, max]
func Clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// NormalizeAngle wraps angle to [-PI, PI]
func NormalizeAngle(a float64) float64 {
	for a > math.Pi {
		a -= 2 * math.Pi
	}
	for a < -math.Pi {
		a += 2 * math.Pi
	}
	return a
}

// decay returns the fraction of a quantity retained after dt seconds when
// retainPerSecond of it survives each full second. decay(r, 0) == 1.
func decay(retainPerSecond, dt float64) float64 {
	return math.Pow(retainPerSecond, dt)
}
