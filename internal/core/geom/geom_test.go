package geom

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildCircleReference(t *testing.T) {
	for _, detail := range []int{8, 48, 288} {
		ref := BuildCircleReference(detail)
		require.Len(t, ref, detail+1)

		for i, v := range ref {
			assert.InDelta(t, 1.0, v.Len(), 1e-9, "sample %d of %d is not unit length", i, detail)
		}
		assert.Less(t, ref[0].Sub(ref[detail]).Len(), 1e-9, "last sample should wrap onto the first")
	}

	assert.Nil(t, BuildCircleReference(0))
}

func TestDirectionForAngle(t *testing.T) {
	tests := []struct {
		angle float64
		want  mgl64.Vec2
	}{
		{0, mgl64.Vec2{-1, 0}},
		{90, mgl64.Vec2{0, -1}},
		{180, mgl64.Vec2{1, 0}},
		{270, mgl64.Vec2{0, 1}},
		{45, mgl64.Vec2{-math.Sqrt2 / 2, -math.Sqrt2 / 2}},
		{225, mgl64.Vec2{math.Sqrt2 / 2, math.Sqrt2 / 2}},
	}

	for _, tt := range tests {
		got := DirectionForAngle(tt.angle)
		if got.Sub(tt.want).Len() > 1e-9 {
			t.Errorf("DirectionForAngle(%v): expected %v, got %v", tt.angle, tt.want, got)
		}
	}
}

func TestIsCollinear(t *testing.T) {
	a := mgl64.Vec2{0, 0}
	b := mgl64.Vec2{1, 0}

	assert.True(t, IsCollinear(a, b, mgl64.Vec2{2, 0}, DefaultCollinearEpsilon))
	assert.True(t, IsCollinear(a, b, mgl64.Vec2{2, 0.01}, DefaultCollinearEpsilon))
	assert.False(t, IsCollinear(a, b, mgl64.Vec2{2, 1}, DefaultCollinearEpsilon))
	assert.False(t, IsCollinear(a, a, b, DefaultCollinearEpsilon), "zero-length edge")
	assert.False(t, IsCollinear(a, b, a, DefaultCollinearEpsilon), "reversal")
}

func TestPoseRoundTrip(t *testing.T) {
	p := Pose{Position: mgl64.Vec2{3, -2}, Rotation: 30, Scale: mgl64.Vec2{2, 0.5}}
	local := mgl64.Vec2{1.5, 4}

	world := p.TransformPoint(local)
	back := p.InverseTransformPoint(world)
	assert.Less(t, back.Sub(local).Len(), 1e-9, "expected %v, got %v", local, back)

	dir := p.TransformDirection(mgl64.Vec2{1, 0})
	assert.InDelta(t, 1.0, dir.Len(), 1e-9, "direction transform must ignore scale")
	assert.InDelta(t, math.Cos(mgl64.DegToRad(30)), dir.X(), 1e-9)
}

func TestPoseSignature(t *testing.T) {
	p := At(1, 2)
	assert.InDelta(t, 1+4+2, p.Signature(), 1e-12)

	q := p
	q.Rotation = 360 + 10
	assert.InDelta(t, 1+4+100+2, q.Signature(), 1e-9, "rotation is wrapped into [0, 360)")

	moved := p
	moved.Position = mgl64.Vec2{1, 2.5}
	assert.NotEqual(t, p.Signature(), moved.Signature())
}

func TestRotationDelta(t *testing.T) {
	assert.Zero(t, RotationDelta(10, 370))
	assert.Zero(t, RotationDelta(30, 390))
	assert.InDelta(t, 90, RotationDelta(0, 90), 1e-4)
	assert.InDelta(t, 20, RotationDelta(350, 10), 1e-4)
}

func TestRect(t *testing.T) {
	r := BoundsOf(mgl64.Vec2{0, 0}, mgl64.Vec2{2, 1})
	assert.False(t, r.Empty())
	assert.True(t, r.Contains(mgl64.Vec2{1, 1}))
	assert.True(t, r.Intersects(RectAround(mgl64.Vec2{3, 0}, 1)))
	assert.False(t, r.Intersects(RectAround(mgl64.Vec2{5, 5}, 1)))
	assert.InDelta(t, 1.0, r.DistanceSqr(mgl64.Vec2{3, 1}), 1e-12)
	assert.True(t, EmptyRect().Empty())
	assert.False(t, EmptyRect().Intersects(r))
}
