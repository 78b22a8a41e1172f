// Package occlusion stores the obstacles that block light rays. Obstacles live
// in one of two independent subsystems (flat 2D-style colliders and solid
// 3D-style colliders); a Space merges both behind one query and ray-cast API.
package occlusion

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"

	"chosenoffset.com/light2d/internal/core/geom"
)

// Kind identifies which obstacle subsystem an obstacle belongs to.
type Kind uint8

const (
	KindFlat  Kind = iota // 2D-style colliders
	KindSolid             // 3D-style colliders
)

// Kinds is the fixed evaluation order of the subsystems. When two kinds
// report hits at exactly the same distance the later kind wins.
var Kinds = [...]Kind{KindFlat, KindSolid}

func (k Kind) String() string {
	switch k {
	case KindFlat:
		return "flat"
	case KindSolid:
		return "solid"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// ParseKind converts "flat"/"solid" (as written by String) back into a Kind.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "flat", "2d":
		return KindFlat, nil
	case "solid", "3d":
		return KindSolid, nil
	}
	return 0, fmt.Errorf("unknown obstacle kind %q", s)
}

// LayerMask selects which obstacle layers participate in a query. Bit n set
// means layer n is included.
type LayerMask uint32

// AllLayers includes every layer.
const AllLayers LayerMask = ^LayerMask(0)

// Includes reports whether layer is selected by the mask.
func (m LayerMask) Includes(layer int) bool {
	if layer < 0 || layer > 31 {
		return false
	}
	return m&(1<<uint(layer)) != 0
}

// Segment is one straight edge of a flat obstacle, in the obstacle's local space.
type Segment struct {
	A, B mgl64.Vec2
}

// Shape is the local-space outline of an obstacle: a circle when Edges is
// empty, otherwise the listed edges.
type Shape struct {
	Radius float64   `json:"radius,omitempty" yaml:"radius,omitempty" toml:"radius,omitempty"`
	Edges  []Segment `json:"-" yaml:"-" toml:"-"`
}

// CircleShape returns a circle of the given radius.
func CircleShape(r float64) Shape {
	return Shape{Radius: r}
}

// PolygonShape returns the closed polygon through points.
func PolygonShape(points ...mgl64.Vec2) Shape {
	switch len(points) {
	case 0, 1:
		return Shape{}
	case 2:
		return Shape{Edges: []Segment{{A: points[0], B: points[1]}}}
	}

	edges := make([]Segment, len(points))
	for i := range points {
		edges[i] = Segment{A: points[i], B: points[(i+1)%len(points)]}
	}
	return Shape{Edges: edges}
}

// BoxShape returns an axis-aligned box with the given half extents.
func BoxShape(halfW, halfH float64) Shape {
	return PolygonShape(
		mgl64.Vec2{-halfW, -halfH},
		mgl64.Vec2{halfW, -halfH},
		mgl64.Vec2{halfW, halfH},
		mgl64.Vec2{-halfW, halfH},
	)
}

// Obstacle is a single light blocker. Rays that start inside an obstacle
// pass through it, for circles and edge outlines alike.
type Obstacle struct {
	ID    uuid.UUID
	Name  string
	Kind  Kind
	Layer int
	Pose  geom.Pose
	Shape Shape
}

// Bounds returns the world-space bounding rectangle of the obstacle.
func (o *Obstacle) Bounds() geom.Rect {
	if len(o.Shape.Edges) == 0 {
		r := o.Shape.Radius * o.maxScale()
		return geom.RectAround(o.Pose.Position, r)
	}

	b := geom.EmptyRect()
	for _, e := range o.Shape.Edges {
		b = b.Extend(o.Pose.TransformPoint(e.A)).Extend(o.Pose.TransformPoint(e.B))
	}
	return b
}

func (o *Obstacle) maxScale() float64 {
	sx, sy := o.Pose.Scale[0], o.Pose.Scale[1]
	if sx < 0 {
		sx = -sx
	}
	if sy < 0 {
		sy = -sy
	}
	return max(sx, sy)
}

// Candidate is the uniform summary of an obstacle returned by region queries.
type Candidate struct {
	ID    uuid.UUID
	Kind  Kind
	Layer int
	Pose  geom.Pose
}

// Hit describes where a ray struck an obstacle.
type Hit struct {
	Point    mgl64.Vec2
	Distance float64
	ID       uuid.UUID
	Kind     Kind
	Layer    int
}

// Ray is a world-space ray. Dir must be unit length.
type Ray struct {
	Origin      mgl64.Vec2
	Dir         mgl64.Vec2
	MaxDistance float64
}

// Bounds returns the rectangle swept by the ray.
func (r Ray) Bounds() geom.Rect {
	return geom.BoundsOf(r.Origin, r.Origin.Add(r.Dir.Mul(r.MaxDistance)))
}

// Region is the area a light can reach: a circle when Radius > 0, otherwise
// the rectangle Rect.
type Region struct {
	Center mgl64.Vec2
	Radius float64
	Rect   geom.Rect
}

// CircleRegion returns a circular region.
func CircleRegion(center mgl64.Vec2, radius float64) Region {
	return Region{Center: center, Radius: radius, Rect: geom.RectAround(center, radius)}
}

// RectRegion returns a rectangular region.
func RectRegion(r geom.Rect) Region {
	return Region{Center: r.Center(), Rect: r}
}

// Bounds returns the bounding rectangle of the region.
func (r Region) Bounds() geom.Rect {
	return r.Rect
}

// Overlaps reports whether the region touches the given bounds.
func (r Region) Overlaps(b geom.Rect) bool {
	if !r.Rect.Intersects(b) {
		return false
	}
	if r.Radius > 0 {
		return b.DistanceSqr(r.Center) <= r.Radius*r.Radius
	}
	return true
}
