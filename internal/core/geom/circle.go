package geom

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// DefaultCollinearEpsilon is the squared-distance tolerance between two
// normalized edge directions below which three points are treated as collinear.
const DefaultCollinearEpsilon = 0.01

// DirectionForAngle returns the unit ray direction for a sample angle in degrees.
//
// The angle is first classified into one of four 90 degree bands (right, top,
// left, bottom) and projected onto the unit square through the tangent ratio,
// which keeps the 45/135/225/315 corners exact. The square point is then
// normalized and negated, so angle 180 points along local +X.
func DirectionForAngle(a float64) mgl64.Vec2 {
	rad := mgl64.DegToRad(a)
	sin, cos := math.Sin(rad), math.Cos(rad)

	var x, y float64
	switch {
	case a >= 315 || a <= 45: // right
		x = 1
		y = x * (sin / cos)
	case a > 45 && a < 135: // top
		y = 1
		x = y * (cos / sin)
	case a >= 135 && a <= 225: // left
		x = -1
		y = x * (sin / cos)
	default: // bottom
		y = -1
		x = y * (cos / sin)
	}

	return SafeNormalize(mgl64.Vec2{-x, -y})
}

// BuildCircleReference samples detail+1 directions evenly around the circle.
// The last entry wraps back onto the first.
func BuildCircleReference(detail int) []mgl64.Vec2 {
	if detail <= 0 {
		return nil
	}

	step := 360 / float64(detail)
	ref := make([]mgl64.Vec2, detail+1)
	for i := range ref {
		ref[i] = DirectionForAngle(float64(i) * step)
	}
	return ref
}

// IsCollinear reports whether p1 lies on the straight run from p0 to p2:
// the normalized directions p0->p1 and p1->p2 differ by at most eps
// (squared distance). Degenerate zero-length edges are never collinear.
func IsCollinear(p0, p1, p2 mgl64.Vec2, eps float64) bool {
	d0 := SafeNormalize(p1.Sub(p0))
	d1 := SafeNormalize(p2.Sub(p1))
	if d0.LenSqr() == 0 || d1.LenSqr() == 0 {
		return false
	}
	return d0.Sub(d1).LenSqr() <= eps
}
