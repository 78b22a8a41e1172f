package occlusion

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// intersect returns the distance along ray to the first point where it
// enters the obstacle. A ray that starts inside the obstacle does not hit it,
// whatever its shape.
func (o *Obstacle) intersect(ray Ray) (float64, bool) {
	if len(o.Shape.Edges) == 0 {
		return rayCircleIntersection(ray, o.Pose.Position, o.Shape.Radius*o.maxScale())
	}
	if o.Shape.contains(o.Pose.InverseTransformPoint(ray.Origin)) {
		return 0, false
	}

	closest := math.Inf(1)
	found := false
	for _, e := range o.Shape.Edges {
		a := o.Pose.TransformPoint(e.A)
		b := o.Pose.TransformPoint(e.B)
		if t, ok := raySegmentIntersection(ray.Origin, ray.Dir, a, b); ok && t < closest {
			closest = t
			found = true
		}
	}
	if !found || closest > ray.MaxDistance {
		return 0, false
	}
	return closest, true
}

// raySegmentIntersection checks if a ray intersects the segment a-b.
// Returns the distance along dir when it does.
func raySegmentIntersection(origin, dir, a, b mgl64.Vec2) (float64, bool) {
	// Ray: P = origin + t * dir for t >= 0
	// Segment: Q = a + u * (b - a) for 0 <= u <= 1
	segDX := b[0] - a[0]
	segDY := b[1] - a[1]

	denominator := dir[0]*segDY - dir[1]*segDX
	if math.Abs(denominator) < 1e-10 {
		// Ray and segment are parallel
		return 0, false
	}

	diffX := a[0] - origin[0]
	diffY := a[1] - origin[1]

	u := (diffX*dir[1] - diffY*dir[0]) / denominator
	t := (diffX*segDY - diffY*segDX) / denominator

	if u >= 0 && u <= 1 && t >= 0 {
		return t, true
	}
	return 0, false
}

// rayCircleIntersection returns the distance to where the ray enters the
// circle. A ray starting inside the circle does not hit it.
func rayCircleIntersection(ray Ray, center mgl64.Vec2, r float64) (float64, bool) {
	if r <= 0 {
		return 0, false
	}

	oc := ray.Origin.Sub(center)
	c := oc.LenSqr() - r*r
	if c < 0 {
		return 0, false
	}

	b := oc.Dot(ray.Dir)
	disc := b*b - c
	if disc < 0 || b > 0 {
		return 0, false
	}

	t := -b - math.Sqrt(disc)
	if t < 0 || t > ray.MaxDistance {
		return 0, false
	}
	return t, true
}

// contains reports whether a local point lies inside the outlines formed by
// the edges, using the even-odd rule. The edges must form closed outlines.
func (s Shape) contains(p mgl64.Vec2) bool {
	inside := false
	for _, e := range s.Edges {
		a, b := e.A, e.B
		if (a[1] > p[1]) == (b[1] > p[1]) {
			continue
		}
		x := a[0] + (p[1]-a[1])*(b[0]-a[0])/(b[1]-a[1])
		if p[0] < x {
			inside = !inside
		}
	}
	return inside
}
