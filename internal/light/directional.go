package light

import (
	"github.com/go-gl/mathgl/mgl64"
)

// beamDown is the local direction directional rays travel in.
var beamDown = mgl64.Vec2{0, -1}

// buildDirectional fills verts with top/bottom vertex pairs walked across the
// beam from left to right and joins neighbouring pairs into quads.
func (l *Light) buildDirectional() {
	l.verts = l.verts[:0]
	l.mesh.Indices = l.mesh.Indices[:0]

	p := l.params
	piv := p.PivotOffset()
	hw, hr := p.BeamSize/2, p.BeamRange/2

	if l.CandidateCount() == 0 {
		l.verts = append(l.verts,
			piv.Add(mgl64.Vec2{-hw, -hr}),
			piv.Add(mgl64.Vec2{hw, -hr}),
			piv.Add(mgl64.Vec2{-hw, hr}),
			piv.Add(mgl64.Vec2{hw, hr}),
		)
		l.stripIndices()
		return
	}

	rays := p.Detail
	if rays < 2 {
		rays = 2
	}
	spacing := p.BeamSize / float64(rays-1)
	top := func(i int) mgl64.Vec2 { return piv.Add(mgl64.Vec2{-hw + spacing*float64(i), hr}) }
	bottom := func(i int) mgl64.Vec2 { return piv.Add(mgl64.Vec2{-hw + spacing*float64(i), -hr}) }

	wasHit := false
	runStart := 0
	for i := 0; i < rays; i++ {
		start := top(i)
		h, hit := l.castLocal(start, start.Add(beamDown.Mul(p.BeamRange)))
		if hit {
			if !wasHit {
				if i != 0 {
					l.verts = append(l.verts, start, bottom(i))
				}
				runStart = len(l.verts)
			}
			l.verts = append(l.verts, start, l.pose.InverseTransformPoint(h.Point))
			if i != rays-1 {
				l.pruneRun(runStart, 2)
			}
			wasHit = true
			continue
		}

		if wasHit {
			l.verts = append(l.verts, top(i-1), bottom(i-1))
		}
		if i == 0 || i == rays-1 {
			l.verts = append(l.verts, start, bottom(i))
		}
		wasHit = false
	}

	l.stripIndices()
}

// stripIndices joins consecutive vertex pairs into two triangles each.
func (l *Light) stripIndices() {
	n := len(l.verts)
	for v := 2; v < n-1; v += 2 {
		l.mesh.Indices = append(l.mesh.Indices,
			uint16(v), uint16(v-1), uint16(v-2),
			uint16(v+1), uint16(v-1), uint16(v),
		)
	}
}
