package vmath

import (
	"math"
)

// Vec2 is a float64 2D vector used for world-space positions and velocities
type Vec2 struct {
	X float64 `json:"x" toml:"x"`
	Y float64 `json:"y" toml:"y"`
}

func V2(x, y float64) Vec2 {
	return Vec2{X: x, Y: y}
}

func V2Add(a, b Vec2) Vec2 {
	return Vec2{a.X + b.X, a.Y + b.Y}
}

func V2Sub(a, b Vec2) Vec2 {
	return Vec2{a.X - b.X, a.Y - b.Y}
}

func V2Scale(v Vec2, s float64) Vec2 {
	return Vec2{v.X * s, v.Y * s}
}

func V2MagSq(v Vec2) float64 {
	return v.X*v.X + v.Y*v.Y
}

func V2Mag(v Vec2) float64 {
	return math.Sqrt(V2MagSq(v))
}

// V2Dist returns Euclidean distance between a and b
func V2Dist(a, b Vec2) float64 {
	return V2Mag(V2Sub(a, b))
}

// V2Normalize returns the unit vector of v and false when v has zero length
// Zero-length input yields the zero vector, callers decide how to treat it
func V2Normalize(v Vec2) (Vec2, bool) {
	mag := V2Mag(v)
	if mag == 0 {
		return Vec2{}, false
	}
	inv := 1.0 / mag
	return Vec2{v.X * inv, v.Y * inv}, true
}

// V2ClampBounds clamps each axis independently into [-bounds/2, +bounds/2]
func V2ClampBounds(v, bounds Vec2) Vec2 {
	hx, hy := bounds.X/2, bounds.Y/2
	return Vec2{Clamp(v.X, -hx, hx), Clamp(v.Y, -hy, hy)}
}

// V2InBounds reports whether v lies inside the origin-centered rectangle
func V2InBounds(v, bounds Vec2) bool {
	hx, hy := bounds.X/2, bounds.Y/2
	return v.X >= -hx && v.X <= hx && v.Y >= -hy && v.Y <= hy
}

// V2Angle returns heading of v in radians, counter-clockwise from +X
func V2Angle(v Vec2) float64 {
	return math.Atan2(v.Y, v.X)
}

// V2FromAngle returns the unit vector for a heading in radians
func V2FromAngle(rad float64) Vec2 {
	return Vec2{math.Cos(rad), math.Sin(rad)}
}
