package light

import "github.com/go-gl/mathgl/mgl64"

// buildShadow emits one quad for every pair of neighbouring directions whose
// rays are both obstructed. Each quad runs from the two hit points out to the
// perimeter and shares no vertices with its neighbours.
func (l *Light) buildShadow() {
	l.verts = l.verts[:0]
	l.mesh.Indices = l.mesh.Indices[:0]

	n := len(l.circleRef)
	if n < 2 {
		return
	}

	r := l.params.Radius
	hits := make([]mgl64.Vec2, n)
	hit := make([]bool, n)
	for i, dir := range l.circleRef {
		h, ok := l.castLocal(mgl64.Vec2{}, dir.Mul(r))
		if ok {
			hits[i] = l.pose.InverseTransformPoint(h.Point)
			hit[i] = true
		}
	}

	for i := 0; i < n-1; i++ {
		if !hit[i] || !hit[i+1] {
			continue
		}
		base := uint16(len(l.verts))
		l.verts = append(l.verts,
			hits[i],
			l.circleRef[i].Mul(r),
			hits[i+1],
			l.circleRef[i+1].Mul(r),
		)
		l.mesh.Indices = append(l.mesh.Indices,
			base+2, base+1, base,
			base+2, base+3, base+1,
		)
	}
}
