package geom

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Rect is an axis-aligned rectangle in world units.
type Rect struct {
	Min, Max mgl64.Vec2
}

// EmptyRect returns an inverted rectangle that any Extend call will replace.
func EmptyRect() Rect {
	inf := math.Inf(1)
	return Rect{Min: mgl64.Vec2{inf, inf}, Max: mgl64.Vec2{-inf, -inf}}
}

// RectAround returns the square of half-size r centered on c.
func RectAround(c mgl64.Vec2, r float64) Rect {
	return Rect{Min: mgl64.Vec2{c[0] - r, c[1] - r}, Max: mgl64.Vec2{c[0] + r, c[1] + r}}
}

// BoundsOf returns the smallest rectangle containing every point.
func BoundsOf(points ...mgl64.Vec2) Rect {
	r := EmptyRect()
	for _, p := range points {
		r = r.Extend(p)
	}
	return r
}

// Empty reports whether the rectangle contains no points.
func (r Rect) Empty() bool {
	return r.Min[0] > r.Max[0] || r.Min[1] > r.Max[1]
}

// Extend grows the rectangle to include p.
func (r Rect) Extend(p mgl64.Vec2) Rect {
	return Rect{
		Min: mgl64.Vec2{math.Min(r.Min[0], p[0]), math.Min(r.Min[1], p[1])},
		Max: mgl64.Vec2{math.Max(r.Max[0], p[0]), math.Max(r.Max[1], p[1])},
	}
}

// Union returns the smallest rectangle containing both.
func (r Rect) Union(o Rect) Rect {
	if o.Empty() {
		return r
	}
	return r.Extend(o.Min).Extend(o.Max)
}

// Contains reports whether p lies inside or on the edge of r.
func (r Rect) Contains(p mgl64.Vec2) bool {
	return p[0] >= r.Min[0] && p[0] <= r.Max[0] && p[1] >= r.Min[1] && p[1] <= r.Max[1]
}

// Intersects reports whether two rectangles overlap (touching counts).
func (r Rect) Intersects(o Rect) bool {
	if r.Empty() || o.Empty() {
		return false
	}
	return r.Min[0] <= o.Max[0] && r.Max[0] >= o.Min[0] &&
		r.Min[1] <= o.Max[1] && r.Max[1] >= o.Min[1]
}

// Center returns the midpoint of the rectangle.
func (r Rect) Center() mgl64.Vec2 {
	return r.Min.Add(r.Max).Mul(0.5)
}

// DistanceSqr returns the squared distance from p to the closest point of r.
func (r Rect) DistanceSqr(p mgl64.Vec2) float64 {
	dx := math.Max(math.Max(r.Min[0]-p[0], 0), p[0]-r.Max[0])
	dy := math.Max(math.Max(r.Min[1]-p[1], 0), p[1]-r.Max[1])
	return dx*dx + dy*dy
}
