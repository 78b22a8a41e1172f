package render

import (
	"github.com/go-gl/mathgl/mgl64"

	"chosenoffset.com/light2d/internal/core/geom"
)

// Camera maps world coordinates onto the screen.
type Camera struct {
	Origin mgl64.Vec2 // World point drawn at the top-left pixel
	Zoom   float64    // Pixels per world unit
}

// WorldToScreen converts a world point into screen pixels.
func (c Camera) WorldToScreen(p mgl64.Vec2) (float32, float32) {
	zoom := c.Zoom
	if zoom == 0 {
		zoom = 1
	}
	s := p.Sub(c.Origin).Mul(zoom)
	return float32(s[0]), float32(s[1])
}

// ScreenToWorld converts screen pixels back into a world point.
func (c Camera) ScreenToWorld(x, y int) mgl64.Vec2 {
	zoom := c.Zoom
	if zoom == 0 {
		zoom = 1
	}
	return mgl64.Vec2{float64(x) / zoom, float64(y) / zoom}.Add(c.Origin)
}

// MeshBuffer holds the last mesh published by a light and draws it.
type MeshBuffer struct {
	mesh     *Mesh
	material *Material
	visible  bool
	released bool

	vertices []Vertex
}

// NewMeshBuffer returns an empty, visible buffer.
func NewMeshBuffer() *MeshBuffer {
	return &MeshBuffer{visible: true}
}

// Publish replaces the held mesh with a copy of m.
func (b *MeshBuffer) Publish(m *Mesh) {
	if b.released || m == nil {
		return
	}
	b.mesh = m.Clone()
}

// SetMaterial sets what the mesh is drawn with.
func (b *MeshBuffer) SetMaterial(m *Material) {
	if b.released {
		return
	}
	b.material = m
}

// SetVisible shows or hides the mesh.
func (b *MeshBuffer) SetVisible(v bool) {
	b.visible = v
}

// Release drops the mesh. Later publishes are ignored.
func (b *MeshBuffer) Release() {
	b.mesh = nil
	b.material = nil
	b.vertices = nil
	b.released = true
}

// Mesh returns the last published mesh, or nil.
func (b *MeshBuffer) Mesh() *Mesh {
	return b.mesh
}

func (b *MeshBuffer) Material() *Material {
	return b.material
}

func (b *MeshBuffer) Visible() bool {
	return b.visible
}

func (b *MeshBuffer) Released() bool {
	return b.released
}

// Draw renders the mesh onto dst. The mesh is placed in the world by pose and
// projected with cam. Nothing is drawn without a textured material.
func (b *MeshBuffer) Draw(dst Image, pose geom.Pose, cam Camera) {
	if !b.visible || b.mesh == nil || b.material == nil || b.material.Texture == nil {
		return
	}
	m := b.mesh
	if len(m.Indices) == 0 {
		return
	}

	tw, th := b.material.Texture.Size()
	b.vertices = b.vertices[:0]
	for i, v := range m.Vertices {
		world := pose.TransformPoint(mgl64.Vec2{float64(v[0]), float64(v[1])})
		x, y := cam.WorldToScreen(world)
		c := m.Colors[i]
		uv := m.UVs[i]
		b.vertices = append(b.vertices, Vertex{
			DstX:   x,
			DstY:   y,
			SrcX:   uv[0] * float32(tw),
			SrcY:   (1 - uv[1]) * float32(th),
			ColorR: float32(c.R) / 255,
			ColorG: float32(c.G) / 255,
			ColorB: float32(c.B) / 255,
			ColorA: float32(c.A) / 255,
		})
	}

	dst.DrawTriangles(b.vertices, m.Indices, b.material.Texture, &DrawTrianglesOptions{
		Blend:     b.material.Blend,
		AntiAlias: true,
	})
}
