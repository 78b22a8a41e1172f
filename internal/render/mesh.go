package render

import (
	"fmt"
	"image/color"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"

	"chosenoffset.com/light2d/internal/core/geom"
)

// Mesh is a triangulated shape in the owner's local space.
type Mesh struct {
	Name     string
	Vertices []mgl32.Vec3
	Indices  []uint16
	Normals  []mgl32.Vec3
	Colors   []color.NRGBA
	UVs      []mgl32.Vec2
	Bounds   geom.Rect
}

// Clear drops all geometry but keeps the backing arrays.
func (m *Mesh) Clear() {
	m.Vertices = m.Vertices[:0]
	m.Indices = m.Indices[:0]
	m.Normals = m.Normals[:0]
	m.Colors = m.Colors[:0]
	m.UVs = m.UVs[:0]
	m.Bounds = geom.Rect{}
}

// TriangleCount returns the number of indexed triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// RecalculateBounds sets Bounds to the XY extent of the vertices.
func (m *Mesh) RecalculateBounds() {
	if len(m.Vertices) == 0 {
		m.Bounds = geom.Rect{}
		return
	}
	b := geom.EmptyRect()
	for _, v := range m.Vertices {
		b = b.Extend(mgl64.Vec2{float64(v[0]), float64(v[1])})
	}
	m.Bounds = b
}

// Validate checks attribute array parity and index ranges.
func (m *Mesh) Validate() error {
	n := len(m.Vertices)
	if len(m.Normals) != n || len(m.Colors) != n || len(m.UVs) != n {
		return fmt.Errorf("mesh %s: attribute length mismatch (vertices=%d normals=%d colors=%d uvs=%d)",
			m.Name, n, len(m.Normals), len(m.Colors), len(m.UVs))
	}
	if len(m.Indices)%3 != 0 {
		return fmt.Errorf("mesh %s: index count %d is not a multiple of 3", m.Name, len(m.Indices))
	}
	for i, idx := range m.Indices {
		if int(idx) >= n {
			return fmt.Errorf("mesh %s: index %d at %d out of range", m.Name, idx, i)
		}
	}
	return nil
}

// Clone returns a deep copy.
func (m *Mesh) Clone() *Mesh {
	return &Mesh{
		Name:     m.Name,
		Vertices: append([]mgl32.Vec3(nil), m.Vertices...),
		Indices:  append([]uint16(nil), m.Indices...),
		Normals:  append([]mgl32.Vec3(nil), m.Normals...),
		Colors:   append([]color.NRGBA(nil), m.Colors...),
		UVs:      append([]mgl32.Vec2(nil), m.UVs...),
		Bounds:   m.Bounds,
	}
}
