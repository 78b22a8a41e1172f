package light

import (
	"github.com/go-gl/mathgl/mgl64"

	"chosenoffset.com/light2d/internal/core/geom"
)

// radialSweep is the walk state of one radial regeneration.
type radialSweep struct {
	started  bool
	wasHit   bool
	hitDist  float64    // distance of the last obstructed sample
	prevDir  mgl64.Vec2 // local direction of the previous sample
	runStart int        // first vertex of the current obstructed run
}

// buildRadial fills verts with the light origin followed by one vertex per
// sampled direction, and triangulates them as a fan.
func (l *Light) buildRadial() {
	l.verts = l.verts[:0]
	l.mesh.Indices = l.mesh.Indices[:0]

	p := l.params
	if p.ConeAngle == 0 || len(l.circleRef) < 2 {
		return
	}
	l.verts = append(l.verts, mgl64.Vec2{})

	var sw radialSweep
	if p.ConeAngle >= 360 {
		for _, dir := range l.circleRef {
			l.radialSample(&sw, dir)
		}
	} else {
		lo, hi := p.ConeRange()
		step := 360 / float64(len(l.circleRef)-1)

		l.radialSample(&sw, geom.DirectionForAngle(lo))
		for i, dir := range l.circleRef {
			if a := float64(i) * step; a > lo && a < hi {
				l.radialSample(&sw, dir)
			}
		}
		l.radialSample(&sw, geom.DirectionForAngle(hi))
	}

	l.fanIndices(p.ConeAngle >= 360)
}

func (l *Light) radialSample(sw *radialSweep, ref mgl64.Vec2) {
	r := l.params.Radius
	dir := geom.RotateDeg(ref, l.params.ConeStart)

	h, hit := l.castLocal(mgl64.Vec2{}, dir.Mul(r))
	if hit {
		pt := l.pose.InverseTransformPoint(h.Point)
		dist := pt.Len()
		if !sw.wasHit {
			if sw.started {
				// Cut back along the previous free ray so the shadow edge points at the origin.
				l.verts = append(l.verts, sw.prevDir.Mul(dist))
			}
			sw.runStart = len(l.verts)
		}
		l.verts = append(l.verts, pt)
		l.pruneRun(sw.runStart, 1)
		sw.wasHit = true
		sw.hitDist = dist
	} else {
		if sw.wasHit {
			l.verts = append(l.verts, dir.Mul(sw.hitDist))
		}
		l.verts = append(l.verts, dir.Mul(r))
		sw.wasHit = false
	}
	sw.prevDir = dir
	sw.started = true
}

// pruneRun drops the middle of the last three entries of a run when they are
// collinear. stride is 1 for single vertices and 2 for directional vertex
// pairs, whose second element is tested.
func (l *Light) pruneRun(runStart, stride int) {
	n := len(l.verts)
	if (n-runStart)/stride < 3 {
		return
	}
	p0 := l.verts[n-1-2*stride]
	p1 := l.verts[n-1-stride]
	p2 := l.verts[n-1]
	if !geom.IsCollinear(p0, p1, p2, geom.DefaultCollinearEpsilon) {
		return
	}
	mid := n - 2*stride
	l.verts = append(l.verts[:mid], l.verts[mid+stride:]...)
}

// fanIndices triangulates verts as a fan around vertex 0. A full circle gets
// a closing triangle from the last vertex back to the first.
func (l *Light) fanIndices(closed bool) {
	n := len(l.verts)
	for v := 1; v < n-1; v++ {
		l.mesh.Indices = append(l.mesh.Indices, 0, uint16(v+1), uint16(v))
	}
	if closed && n > 2 {
		l.mesh.Indices = append(l.mesh.Indices, 0, 1, uint16(n-1))
	}
}
