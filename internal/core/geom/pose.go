// Package geom holds the small amount of 2D math shared by the occlusion
// subsystems and the light mesh generators.
package geom

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Pose is a world transform: translation, rotation about Z and non-uniform scale.
type Pose struct {
	Position mgl64.Vec2 `json:"position" yaml:"position" toml:"position"`
	Rotation float64    `json:"rotation" yaml:"rotation" toml:"rotation"` // Degrees, counter-clockwise
	Scale    mgl64.Vec2 `json:"scale" yaml:"scale" toml:"scale"`
}

// Identity returns a pose at the origin with unit scale.
func Identity() Pose {
	return Pose{Scale: mgl64.Vec2{1, 1}}
}

// At returns a unit-scale, unrotated pose at the given position.
func At(x, y float64) Pose {
	return Pose{Position: mgl64.Vec2{x, y}, Scale: mgl64.Vec2{1, 1}}
}

// TransformPoint maps a local point into world space.
func (p Pose) TransformPoint(v mgl64.Vec2) mgl64.Vec2 {
	scaled := mgl64.Vec2{v[0] * p.Scale[0], v[1] * p.Scale[1]}
	return RotateDeg(scaled, p.Rotation).Add(p.Position)
}

// InverseTransformPoint maps a world point into local space.
// A zero scale component collapses that axis to zero.
func (p Pose) InverseTransformPoint(v mgl64.Vec2) mgl64.Vec2 {
	local := RotateDeg(v.Sub(p.Position), -p.Rotation)
	return mgl64.Vec2{safeDiv(local[0], p.Scale[0]), safeDiv(local[1], p.Scale[1])}
}

// TransformDirection rotates a local direction into world space. Scale is ignored.
func (p Pose) TransformDirection(v mgl64.Vec2) mgl64.Vec2 {
	return RotateDeg(v, p.Rotation)
}

// Signature is a cheap scalar summary of the pose used to notice motion
// without keeping whole transforms around.
func (p Pose) Signature() float64 {
	rot := NormalizeDegrees(p.Rotation)
	return p.Position.LenSqr() + rot*rot + p.Scale.LenSqr()
}

// RotateDeg rotates v counter-clockwise by deg degrees.
func RotateDeg(v mgl64.Vec2, deg float64) mgl64.Vec2 {
	if deg == 0 {
		return v
	}
	return mgl64.Rotate2D(mgl64.DegToRad(deg)).Mul2x1(v)
}

// quatEpsilon is how close to 1 the quaternion dot product must be for two
// rotations to count as equal.
const quatEpsilon = 1e-12

// RotationDelta returns the angle in degrees between two Z rotations,
// always in [0, 180]. Rotations that differ only by float noise return 0.
func RotationDelta(a, b float64) float64 {
	z := mgl64.Vec3{0, 0, 1}
	qa := mgl64.QuatRotate(mgl64.DegToRad(a), z)
	qb := mgl64.QuatRotate(mgl64.DegToRad(b), z)
	d := math.Abs(qa.Dot(qb))
	if d > 1-quatEpsilon {
		return 0
	}
	return mgl64.RadToDeg(2 * math.Acos(d))
}

// NormalizeDegrees wraps an angle into [0, 360).
func NormalizeDegrees(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	return deg
}

// SafeNormalize returns v scaled to unit length, or the zero vector when v has no length.
func SafeNormalize(v mgl64.Vec2) mgl64.Vec2 {
	l := v.Len()
	if l == 0 {
		return mgl64.Vec2{}
	}
	return mgl64.Vec2{v[0] / l, v[1] / l}
}

func safeDiv(n, d float64) float64 {
	if d == 0 {
		return 0
	}
	return n / d
}
