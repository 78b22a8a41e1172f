package light

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chosenoffset.com/light2d/internal/core/geom"
	"chosenoffset.com/light2d/internal/core/occlusion"
	"chosenoffset.com/light2d/internal/render"
)

func radialLight(space *occlusion.Space, radius, cone float64, detail int) *Light {
	p := DefaultParameters()
	p.Radius = radius
	p.ConeAngle = cone
	p.Detail = detail
	return New(WithParameters(p), WithOccluders(space))
}

func vec(v [3]float32) mgl64.Vec2 {
	return mgl64.Vec2{float64(v[0]), float64(v[1])}
}

func TestRadialUnobstructedScenario(t *testing.T) {
	l := radialLight(occlusion.NewSpace(0), 5, 360, 8)
	l.Update(nil)

	m := l.Mesh()
	require.Len(t, m.Vertices, 10, "center plus detail+1 perimeter samples")
	assert.Equal(t, mgl64.Vec2{}, vec(m.Vertices[0]))
	for i, v := range m.Vertices[1:] {
		assert.InDelta(t, 5, vec(v).Len(), 1e-5, "perimeter vertex %d", i+1)
	}
	assert.Equal(t, 9, m.TriangleCount())
	require.NoError(t, m.Validate())
}

func TestRadialFullCircleClosingTriangle(t *testing.T) {
	l := radialLight(occlusion.NewSpace(0), 2, 360, 16)
	l.Update(nil)

	m := l.Mesh()
	n := len(m.Vertices)
	require.Equal(t, 18, n)
	last := m.Indices[len(m.Indices)-3:]
	assert.Equal(t, []uint16{0, 1, uint16(n - 1)}, last)
	assert.InDelta(t, 0, vec(m.Vertices[1]).Sub(vec(m.Vertices[n-1])).Len(), 1e-5,
		"first and last perimeter samples coincide")
}

func TestRadialZeroCone(t *testing.T) {
	l := radialLight(occlusion.NewSpace(0), 5, 0, 8)
	l.Update(nil)
	assert.Empty(t, l.Mesh().Vertices)
	assert.Empty(t, l.Mesh().Indices)
}

func TestRadialPartialCone(t *testing.T) {
	l := radialLight(occlusion.NewSpace(0), 4, 180, 8)
	l.Update(nil)

	m := l.Mesh()
	// Opening ray, the samples at 135/180/225 degrees, closing ray.
	require.Len(t, m.Vertices, 6)
	assert.Equal(t, 4, m.TriangleCount(), "no closing triangle for a partial cone")

	open, closing := vec(m.Vertices[1]), vec(m.Vertices[5])
	assert.InDelta(t, 0, open.X(), 1e-6)
	assert.InDelta(t, -4, open.Y(), 1e-6)
	assert.InDelta(t, 0, closing.X(), 1e-6)
	assert.InDelta(t, 4, closing.Y(), 1e-6)
	for _, v := range m.Vertices {
		assert.GreaterOrEqual(t, float64(v[0]), -1e-6, "cone faces +X")
	}
}

func TestRadialConeStartRotatesSamples(t *testing.T) {
	l := radialLight(occlusion.NewSpace(0), 4, 90, 8)
	l.SetConeStart(90)
	l.Update(nil)

	for _, v := range l.Mesh().Vertices {
		assert.GreaterOrEqual(t, float64(v[1]), -1e-6, "cone rotated to face +Y")
	}
}

func TestRadialObstructed(t *testing.T) {
	space := occlusion.NewSpace(0)
	space.Add(occlusion.Obstacle{Kind: occlusion.KindSolid, Pose: geom.At(3, 0), Shape: occlusion.BoxShape(0.5, 0.5)})

	l := radialLight(space, 5, 360, 8)
	l.Update(nil)

	m := l.Mesh()
	// One obstructed sample adds a cut vertex on each side of its hit point.
	require.Len(t, m.Vertices, 12)
	require.NoError(t, m.Validate())

	var hit bool
	for _, v := range m.Vertices {
		if vec(v).Sub(mgl64.Vec2{2.5, 0}).Len() < 1e-5 {
			hit = true
		}
	}
	assert.True(t, hit, "vertex at the near face of the box")

	// The cut vertices sit on the neighbouring free rays at the hit distance.
	var cuts int
	for _, v := range m.Vertices[1:] {
		if math.Abs(vec(v).Len()-2.5) < 1e-5 {
			cuts++
		}
	}
	assert.Equal(t, 3, cuts)
}

func TestScaledRadialReachesScaledRadius(t *testing.T) {
	space := occlusion.NewSpace(0)
	space.Add(occlusion.Obstacle{Kind: occlusion.KindSolid, Pose: geom.At(5, 0), Shape: occlusion.BoxShape(0.5, 0.5)})

	l := radialLight(space, 3, 360, 8)
	l.SetPose(geom.Pose{Scale: mgl64.Vec2{2, 2}})
	l.Update(nil)

	m := l.Mesh()
	require.NoError(t, m.Validate())

	var hit bool
	for _, v := range m.Vertices[1:] {
		if vec(v).Sub(mgl64.Vec2{2.25, 0}).Len() < 1e-5 {
			hit = true
			continue
		}
		assert.LessOrEqual(t, vec(v).Len(), 3+1e-5)
	}
	assert.True(t, hit, "box inside the scaled light blocks it, in local units")
}

func TestRadialPrunesCollinearHitRun(t *testing.T) {
	space := occlusion.NewSpace(0)
	space.Add(occlusion.Obstacle{
		Kind:  occlusion.KindFlat,
		Pose:  geom.Identity(),
		Shape: occlusion.PolygonShape(mgl64.Vec2{3, -10}, mgl64.Vec2{3, 10}),
	})

	l := radialLight(space, 5, 360, 48)
	l.Update(nil)

	var onWall int
	for _, v := range l.Mesh().Vertices {
		if math.Abs(float64(v[0])-3) < 1e-4 {
			onWall++
		}
	}
	assert.Equal(t, 2, onWall, "only the run endpoints survive pruning")
	require.NoError(t, l.Mesh().Validate())
}

func directionalLight(space *occlusion.Space, size, rng float64) *Light {
	p := DefaultParameters()
	p.Shape = ShapeDirectional
	p.BeamSize = size
	p.BeamRange = rng
	p.Detail = 16
	return New(WithParameters(p), WithOccluders(space))
}

func TestDirectionalUnobstructed(t *testing.T) {
	l := directionalLight(occlusion.NewSpace(0), 6, 4)
	l.Update(nil)

	m := l.Mesh()
	require.Len(t, m.Vertices, 4)
	assert.Equal(t, 2, m.TriangleCount())
	assert.Equal(t, mgl64.Vec2{-3, -2}, m.Bounds.Min)
	assert.Equal(t, mgl64.Vec2{3, 2}, m.Bounds.Max)

	for i, uv := range m.UVs {
		assert.InDelta(t, 0.5, math.Abs(float64(uv[0])-0.5), 1e-6, "uv %d on the edge", i)
		assert.InDelta(t, 0.5, math.Abs(float64(uv[1])-0.5), 1e-6, "uv %d on the edge", i)
	}
}

func TestDirectionalPivotEnd(t *testing.T) {
	l := directionalLight(occlusion.NewSpace(0), 2, 10)
	l.SetPivot(PivotEnd, mgl64.Vec2{})
	l.Update(nil)

	b := l.Mesh().Bounds
	assert.Equal(t, mgl64.Vec2{-1, -10}, b.Min)
	assert.Equal(t, mgl64.Vec2{1, 0}, b.Max)
}

func TestDirectionalObstructed(t *testing.T) {
	space := occlusion.NewSpace(0)
	space.Add(occlusion.Obstacle{Kind: occlusion.KindFlat, Pose: geom.At(0, 0), Shape: occlusion.BoxShape(1, 1)})

	l := directionalLight(space, 8, 10)
	l.Update(nil)

	m := l.Mesh()
	require.NoError(t, m.Validate())
	assert.Zero(t, len(m.Vertices)%2, "vertices come in top/bottom pairs")
	assert.Greater(t, len(m.Vertices), 4)

	var onBox int
	for _, v := range m.Vertices {
		if math.Abs(float64(v[1])-1) < 1e-5 {
			onBox++
		}
	}
	assert.Equal(t, 2, onBox, "box top is one collinear run reduced to its ends")
	assert.InDelta(t, -5, m.Bounds.Min.Y(), 1e-6)
	assert.InDelta(t, 5, m.Bounds.Max.Y(), 1e-6)
}

func TestShadowPairing(t *testing.T) {
	space := occlusion.NewSpace(0)
	space.Add(occlusion.Obstacle{Kind: occlusion.KindSolid, Pose: geom.At(2, 0), Shape: occlusion.BoxShape(0.5, 1.5)})

	p := DefaultParameters()
	p.Shape = ShapeShadow
	p.Radius = 5
	p.Detail = 48
	l := New(WithParameters(p), WithOccluders(space))
	l.Update(nil)

	ref := l.CircleReference()
	hit := make([]bool, len(ref))
	for i, d := range ref {
		_, hit[i] = space.Raycast(occlusion.KindSolid, occlusion.Ray{Dir: d, MaxDistance: 5}, occlusion.AllLayers)
	}
	want := 0
	for i := 0; i+1 < len(ref); i++ {
		if hit[i] && hit[i+1] {
			want++
		}
	}
	require.Greater(t, want, 0)

	m := l.Mesh()
	assert.Len(t, m.Vertices, 4*want)
	assert.Len(t, m.Indices, 6*want)
	require.NoError(t, m.Validate())

	for q := 0; q < want; q++ {
		base := uint16(4 * q)
		assert.Equal(t, []uint16{base + 2, base + 1, base, base + 2, base + 3, base + 1}, m.Indices[6*q:6*q+6])
		// Perimeter vertices of each quad sit on the light radius.
		assert.InDelta(t, 5, vec(m.Vertices[4*q+1]).Len(), 1e-5)
		assert.InDelta(t, 5, vec(m.Vertices[4*q+3]).Len(), 1e-5)
	}
}

func TestShadowUnobstructedIsEmpty(t *testing.T) {
	p := DefaultParameters()
	p.Shape = ShapeShadow
	l := New(WithParameters(p), WithOccluders(occlusion.NewSpace(0)))
	l.Update(nil)
	assert.Empty(t, l.Mesh().Vertices)
}

func TestRadialUVsFollowConeStart(t *testing.T) {
	l := radialLight(occlusion.NewSpace(0), 2, 360, 8)
	l.SetConeStart(90)
	l.Update(nil)

	m := l.Mesh()
	assert.Equal(t, float32(0.5), m.UVs[0][0])
	assert.Equal(t, float32(0.5), m.UVs[0][1])
	for i, uv := range m.UVs[1:] {
		d := mgl64.Vec2{float64(uv[0]) - 0.5, float64(uv[1]) - 0.5}
		assert.InDelta(t, 0.5, d.Len(), 1e-5, "uv %d on the texture rim", i+1)
	}
	// The first sample points along local -X before rotation; the UVs undo
	// the 90 degree cone start.
	assert.InDelta(t, 0, m.UVs[1][0], 1e-5)
	assert.InDelta(t, 0.5, m.UVs[1][1], 1e-5)
}

func TestMeshPublishedToSink(t *testing.T) {
	buf := render.NewMeshBuffer()
	mat := &render.Material{Name: "m"}
	p := DefaultParameters()
	p.Detail = 8
	l := New(WithParameters(p), WithSink(buf), WithMaterial(mat))
	l.Update(nil)

	require.NotNil(t, buf.Mesh())
	assert.Equal(t, "LightMesh_"+l.ID().String(), buf.Mesh().Name)
	assert.Same(t, mat, buf.Material())
	require.NoError(t, buf.Mesh().Validate())
}
