package light

import (
	"github.com/go-gl/mathgl/mgl64"

	"chosenoffset.com/light2d/internal/core/occlusion"
)

// cast resolves one world-space ray against every obstacle kind that has
// candidates this frame. Kinds are evaluated in occlusion.Kinds order and a
// later kind replaces the current best unless it is strictly farther, so on
// an exact tie the last kind wins.
//
// Every obstacle struck is recorded for ray-sourced events, including the
// ones that lose to a nearer hit of another kind.
func (l *Light) cast(origin, dir mgl64.Vec2, maxDistance float64) (occlusion.Hit, bool) {
	if l.occluders == nil {
		return occlusion.Hit{}, false
	}

	ray := occlusion.Ray{Origin: origin, Dir: dir, MaxDistance: maxDistance}
	var best occlusion.Hit
	found := false
	for _, k := range occlusion.Kinds {
		if len(l.candidates[k]) == 0 {
			continue
		}
		h, ok := l.occluders.Raycast(k, ray, l.params.Mask)
		if !ok {
			continue
		}
		if l.trackingRays() && l.params.EventMask.Includes(h.Layer) {
			l.presence.see(h.ID, h.Kind)
		}
		if found && best.Distance < h.Distance {
			continue
		}
		best = h
		found = true
	}
	return best, found
}

// castLocal casts from one light-local point toward another. The ray is
// traced between their world positions so its reach follows the pose's
// scale and hit points map back onto the local segment.
func (l *Light) castLocal(from, to mgl64.Vec2) (occlusion.Hit, bool) {
	origin := l.pose.TransformPoint(from)
	delta := l.pose.TransformPoint(to).Sub(origin)
	length := delta.Len()
	if length == 0 {
		return occlusion.Hit{}, false
	}
	return l.cast(origin, delta.Mul(1/length), length)
}

func (l *Light) trackingRays() bool {
	return l.params.Events && l.params.EventSource == EventsFromRays
}
