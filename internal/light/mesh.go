package light

import (
	"image/color"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"

	"chosenoffset.com/light2d/internal/core/geom"
	"chosenoffset.com/light2d/internal/render"
)

// MeshSink displays a light's mesh. *render.MeshBuffer implements it.
type MeshSink interface {
	Publish(m *render.Mesh)
	SetMaterial(m *render.Material)
	SetVisible(visible bool)
	Release()
}

type nopSink struct{}

func (nopSink) Publish(*render.Mesh)         {}
func (nopSink) SetMaterial(*render.Material) {}
func (nopSink) SetVisible(bool)              {}
func (nopSink) Release()                     {}

// meshNormal is the single facing shared by every vertex of a flat light mesh.
var meshNormal = mgl32.Vec3{0, 0, -1}

// regenerateShape rebuilds vertices, triangles and UVs with the generator for
// the current shape.
func (l *Light) regenerateShape() {
	switch l.params.Shape {
	case ShapeDirectional:
		l.buildDirectional()
	case ShapeShadow:
		l.buildShadow()
	default:
		l.buildRadial()
	}

	l.mesh.Vertices = l.mesh.Vertices[:0]
	for _, v := range l.verts {
		l.mesh.Vertices = append(l.mesh.Vertices, mgl32.Vec3{float32(v[0]), float32(v[1]), 0})
	}
	l.mesh.RecalculateBounds()
	l.regenerateUVs()
}

func (l *Light) regenerateUVs() {
	l.mesh.UVs = l.mesh.UVs[:0]
	for _, v := range l.verts {
		uv := l.uvFor(v)
		l.mesh.UVs = append(l.mesh.UVs, mgl32.Vec2{float32(uv[0]), float32(uv[1])})
	}
}

func (l *Light) regenerateNormals() {
	l.mesh.Normals = l.mesh.Normals[:0]
	for range l.verts {
		l.mesh.Normals = append(l.mesh.Normals, meshNormal)
	}
}

func (l *Light) regenerateColors() {
	c := color.NRGBA(l.params.Color)
	l.mesh.Colors = l.mesh.Colors[:0]
	for range l.verts {
		l.mesh.Colors = append(l.mesh.Colors, c)
	}
}

// uvFor maps a local vertex to texture space.
func (l *Light) uvFor(v mgl64.Vec2) mgl64.Vec2 {
	p := l.params
	tx, ty := nonZero(p.UVTiling[0]), nonZero(p.UVTiling[1])

	switch p.Shape {
	case ShapeDirectional:
		piv := p.PivotOffset()
		return mgl64.Vec2{
			(v[0]-piv[0])/(p.BeamSize*tx) + 0.5 + p.UVOffset[0],
			(v[1]-piv[1])/(p.BeamRange*ty) + 0.5 + p.UVOffset[1],
		}
	case ShapeRadial:
		v = geom.RotateDeg(v, -p.ConeStart)
	}
	return mgl64.Vec2{
		0.5 + p.UVOffset[0] + 0.5*v[0]/(p.Radius*tx),
		0.5 + p.UVOffset[1] + 0.5*v[1]/(p.Radius*ty),
	}
}

func nonZero(v float64) float64 {
	if v == 0 {
		return MinExtent
	}
	return v
}

// ensureParity rebuilds normals and colors when their length no longer
// matches the vertex count.
func (l *Light) ensureParity() {
	n := len(l.mesh.Vertices)
	if len(l.mesh.UVs) != n {
		l.regenerateUVs()
	}
	if len(l.mesh.Normals) != n {
		l.regenerateNormals()
	}
	if len(l.mesh.Colors) != n {
		l.regenerateColors()
	}
}
