package light

import (
	"github.com/go-gl/mathgl/mgl64"

	"chosenoffset.com/light2d/internal/core/geom"
	"chosenoffset.com/light2d/internal/core/occlusion"
)

// Occluders is the obstacle source a light casts against. Both calls are
// parameterized by kind; *occlusion.Space implements it.
type Occluders interface {
	Query(kind occlusion.Kind, region occlusion.Region, mask occlusion.LayerMask) []occlusion.Candidate
	Raycast(kind occlusion.Kind, ray occlusion.Ray, mask occlusion.LayerMask) (occlusion.Hit, bool)
}

// Region returns the world area the light can reach.
func (l *Light) Region() occlusion.Region {
	if l.params.Shape == ShapeDirectional {
		return occlusion.RectRegion(l.Bounds())
	}
	return occlusion.CircleRegion(l.pose.Position, l.params.Radius*maxAbsScale(l.pose))
}

// Bounds returns the world bounding rectangle of everything the light can reach.
func (l *Light) Bounds() geom.Rect {
	if l.params.Shape != ShapeDirectional {
		return geom.RectAround(l.pose.Position, l.params.Radius*maxAbsScale(l.pose))
	}
	piv := l.params.PivotOffset()
	hw, hr := l.params.BeamSize/2, l.params.BeamRange/2
	return geom.BoundsOf(
		l.pose.TransformPoint(piv.Add(mgl64.Vec2{-hw, -hr})),
		l.pose.TransformPoint(piv.Add(mgl64.Vec2{hw, -hr})),
		l.pose.TransformPoint(piv.Add(mgl64.Vec2{-hw, hr})),
		l.pose.TransformPoint(piv.Add(mgl64.Vec2{hw, hr})),
	)
}

// CandidateCount returns how many obstacles the last query found.
func (l *Light) CandidateCount() int {
	n := 0
	for _, c := range l.candidates {
		n += len(c)
	}
	return n
}

// queryOccluders refreshes the candidate lists of both kinds and marks the
// shape dirty when their number or any of their poses changed.
func (l *Light) queryOccluders() {
	region := l.Region()
	for _, k := range occlusion.Kinds {
		if l.occluders == nil {
			l.candidates[k] = nil
			continue
		}
		l.candidates[k] = l.occluders.Query(k, region, l.params.Mask)
	}

	total := l.CandidateCount()
	if total != len(l.signatures) {
		l.signatures = make([]float64, total)
		l.flags |= FlagShape
	}

	i := 0
	for _, list := range l.candidates {
		for _, c := range list {
			if s := c.Pose.Signature(); s != l.signatures[i] {
				l.signatures[i] = s
				l.flags |= FlagShape
			}
			i++
		}
	}
}

// detectMotion marks the shape dirty when the light moved, turned or was
// rescaled since the previous update.
func (l *Light) detectMotion() {
	if l.posed {
		moved := l.pose.Position.Sub(l.lastPose.Position).LenSqr() != 0
		turned := geom.RotationDelta(l.pose.Rotation, l.lastPose.Rotation) != 0
		scaled := l.pose.Scale != l.lastPose.Scale
		if moved || turned || scaled {
			l.flags |= FlagShape
		}
	}
	l.lastPose = l.pose
	l.posed = true
}

func maxAbsScale(p geom.Pose) float64 {
	s := max(abs64(p.Scale[0]), abs64(p.Scale[1]))
	if s == 0 {
		return 1
	}
	return s
}

func abs64(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
