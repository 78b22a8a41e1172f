// Package light generates occlusion-aware 2D light meshes.
//
// A Light casts rays against the obstacles reported by an Occluders source
// and turns the results into a triangle mesh: a fan for radial lights, a
// strip of quads for directional beams, or independent quads covering the
// occluded wedges for shadow lights. Derived buffers are tracked with dirty
// flags so that, for example, a color change never re-casts rays.
package light

import (
	"fmt"
	"image/color"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"

	"chosenoffset.com/light2d/internal/core/geom"
	"chosenoffset.com/light2d/internal/core/occlusion"
	"chosenoffset.com/light2d/internal/render"
)

// Light is one light instance. It is not safe for concurrent use; drive it
// from the main loop.
type Light struct {
	id     uuid.UUID
	params Parameters
	pose   geom.Pose
	flags  Flags

	occluders Occluders
	sink      MeshSink
	events    *Registry
	material  *render.Material

	circleRef []mgl64.Vec2
	verts     []mgl64.Vec2
	mesh      render.Mesh

	candidates [len(occlusion.Kinds)][]occlusion.Candidate
	signatures []float64
	lastPose   geom.Pose
	posed      bool

	updates   int
	destroyed bool
	presence  *presence
}

// Option configures a Light at construction.
type Option func(*Light)

// WithOccluders sets the obstacle source rays are cast against.
func WithOccluders(o Occluders) Option {
	return func(l *Light) { l.occluders = o }
}

// WithSink sets where generated meshes are published.
func WithSink(s MeshSink) Option {
	return func(l *Light) { l.sink = s }
}

// WithEvents sets the registry enter/stay/exit events are published to.
func WithEvents(r *Registry) Option {
	return func(l *Light) { l.events = r }
}

// WithPose sets the initial world pose.
func WithPose(p geom.Pose) Option {
	return func(l *Light) { l.pose = p }
}

// WithParameters replaces the default parameters. Clamps are applied.
func WithParameters(p Parameters) Option {
	return func(l *Light) { l.params = p.Normalized() }
}

// WithMaterial sets the render material.
func WithMaterial(m *render.Material) Option {
	return func(l *Light) {
		l.material = m
		if m != nil {
			l.params.Material = m.Name
		}
	}
}

// WithID sets the instance id instead of generating one.
func WithID(id uuid.UUID) Option {
	return func(l *Light) { l.id = id }
}

// New creates a light with default parameters at the origin. Every dirty
// flag starts set so the first Update builds everything.
func New(opts ...Option) *Light {
	l := &Light{
		id:       uuid.New(),
		params:   DefaultParameters(),
		pose:     geom.Identity(),
		flags:    AllFlags,
		presence: newPresence(),
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.sink == nil {
		l.sink = nopSink{}
	}
	l.mesh.Name = fmt.Sprintf("LightMesh_%s", l.id)

	Logger().Info("light created", "id", l.id, "shape", l.params.Shape, "detail", l.params.Detail)
	return l
}

// Create builds a ready-to-update light in one call. For directional lights
// radiusOrBeamSize is the beam width and coneAngleOrBeamRange the beam length;
// otherwise they are the radius and cone angle.
func Create(position mgl64.Vec2, material *render.Material, col color.NRGBA, radiusOrBeamSize, coneAngleOrBeamRange float64, detail int, events bool, shape Shape, opts ...Option) *Light {
	p := DefaultParameters()
	p.Shape = shape
	p.Color = Color(col)
	p.Detail = detail
	p.Events = events
	if shape == ShapeDirectional {
		p.BeamSize = radiusOrBeamSize
		p.BeamRange = coneAngleOrBeamRange
	} else {
		p.Radius = radiusOrBeamSize
		p.ConeAngle = coneAngleOrBeamRange
	}

	base := []Option{
		WithParameters(p),
		WithPose(geom.At(position[0], position[1])),
		WithMaterial(material),
	}
	return New(append(base, opts...)...)
}

// ID returns the instance id.
func (l *Light) ID() uuid.UUID {
	return l.id
}

// Parameters returns a snapshot of the persisted state.
func (l *Light) Parameters() Parameters {
	return l.params
}

// Flags returns the currently dirty buffers.
func (l *Light) Flags() Flags {
	return l.flags
}

// Pose returns the world pose.
func (l *Light) Pose() geom.Pose {
	return l.pose
}

// SetPose moves the light. Motion is noticed on the next Update.
func (l *Light) SetPose(p geom.Pose) {
	l.pose = p
}

// SetPosition moves the light without changing rotation or scale.
func (l *Light) SetPosition(pos mgl64.Vec2) {
	l.pose.Position = pos
}

// Mesh returns the assembled mesh. It is overwritten by later updates.
func (l *Light) Mesh() *render.Mesh {
	return &l.mesh
}

// Material returns the render material, if any.
func (l *Light) Material() *render.Material {
	return l.material
}

// CircleReference returns the current ray directions.
func (l *Light) CircleReference() []mgl64.Vec2 {
	return l.circleRef
}

// Enabled reports whether the light is on.
func (l *Light) Enabled() bool {
	return l.params.Enabled
}

// Destroyed reports whether Destroy has been called.
func (l *Light) Destroyed() bool {
	return l.destroyed
}

// Inside returns how many obstacles are currently tracked inside the light.
func (l *Light) Inside() int {
	return l.presence.len()
}

// ForceRefresh marks every derived buffer stale.
func (l *Light) ForceRefresh() {
	l.flags = AllFlags
}

func (l *Light) SetShape(s Shape) {
	l.params.Shape = s
	l.flags |= FlagShape
}

// SetRadius sets the reach of radial and shadow lights, never below MinExtent.
func (l *Light) SetRadius(r float64) {
	l.params.Radius = clampExtent(r)
	l.flags |= FlagShape
}

func (l *Light) SetConeStart(deg float64) {
	l.params.ConeStart = deg
	l.flags |= FlagCircle | FlagShape
}

// SetConeAngle sets the cone width in degrees, clamped to [0, 360].
func (l *Light) SetConeAngle(deg float64) {
	l.params.ConeAngle = clampCone(deg)
	l.flags |= FlagCircle | FlagShape
}

func (l *Light) SetBeamSize(v float64) {
	l.params.BeamSize = clampExtent(v)
	l.flags |= FlagShape
}

func (l *Light) SetBeamRange(v float64) {
	l.params.BeamRange = clampExtent(v)
	l.flags |= FlagShape
}

// SetDetail sets the ray count, snapped to the nearest supported value.
func (l *Light) SetDetail(n int) {
	q := QuantizeDetail(n)
	if q != n {
		Logger().Debug("light detail snapped", "id", l.id, "requested", n, "detail", q)
	}
	l.params.Detail = q
	l.flags |= FlagNormals | FlagCircle | FlagColor | FlagShape
}

func (l *Light) SetColor(c color.NRGBA) {
	l.params.Color = Color(c)
	l.flags |= FlagColor
}

func (l *Light) SetUVTiling(v mgl64.Vec2) {
	l.params.UVTiling = v
	l.flags |= FlagUV
}

func (l *Light) SetUVOffset(v mgl64.Vec2) {
	l.params.UVOffset = v
	l.flags |= FlagUV
}

// SetPivot sets the beam anchor. point is only used with PivotCustom.
func (l *Light) SetPivot(p Pivot, point mgl64.Vec2) {
	l.params.Pivot = p
	l.params.PivotPoint = point
	l.flags |= FlagShape
}

func (l *Light) SetMask(m occlusion.LayerMask) {
	l.params.Mask = m
	l.flags |= FlagShape
}

func (l *Light) SetMaterial(m *render.Material) {
	l.material = m
	l.params.Material = ""
	if m != nil {
		l.params.Material = m.Name
	}
	l.flags |= FlagMaterial
}

// SetStatic freezes occluder polling after a few updates when true.
func (l *Light) SetStatic(static bool) {
	l.params.Static = static
	if !static {
		l.updates = 0
	}
}

// SetEvents turns enter/stay/exit tracking on or off. Turning it off emits
// exit for everything still inside.
func (l *Light) SetEvents(on bool) {
	if !on && l.params.Events {
		l.flushPresence()
	}
	l.params.Events = on
	l.flags |= FlagShape
}

// SetEventMask limits events to obstacles on the given layers. Shadows still
// use the occlusion mask.
func (l *Light) SetEventMask(m occlusion.LayerMask) {
	l.params.EventMask = m
	l.flags |= FlagShape
}

// SetEventSource chooses between ray hits and region overlap for events.
func (l *Light) SetEventSource(s EventSource) {
	if s != l.params.EventSource {
		l.flushPresence()
	}
	l.params.EventSource = s
	l.flags |= FlagShape
}

// SetEnabled turns the light on or off. A disabled light is hidden, stops
// updating and emits exit for everything inside.
func (l *Light) SetEnabled(on bool) {
	if l.destroyed || on == l.params.Enabled {
		return
	}
	l.params.Enabled = on
	l.sink.SetVisible(on)
	if on {
		l.flags |= FlagShape
		return
	}
	l.flushPresence()
}

// Toggle flips the enabled state and returns the new one.
func (l *Light) Toggle() bool {
	l.SetEnabled(!l.params.Enabled)
	return l.params.Enabled
}

// LookAt rotates the light so that its cone axis points at target: local +X
// for radial and shadow lights, local -Y for directional beams.
func (l *Light) LookAt(target mgl64.Vec2) {
	d := target.Sub(l.pose.Position)
	if d.LenSqr() == 0 {
		return
	}
	deg := mgl64.RadToDeg(math.Atan2(d[1], d[0]))
	if l.params.Shape == ShapeDirectional {
		deg += 90
	}
	l.pose.Rotation = geom.NormalizeDegrees(deg)
}

// Restore applies a parameter snapshot and marks everything stale. It is the
// path for undo and reloads.
func (l *Light) Restore(p Parameters) {
	p = p.Normalized()
	if p.Events != l.params.Events || p.EventSource != l.params.EventSource {
		l.flushPresence()
	}
	enabled := p.Enabled
	p.Enabled = l.params.Enabled
	if p.Material != l.params.Material {
		l.material = nil
	}
	l.params = p
	l.SetEnabled(enabled)
	l.ForceRefresh()
}

// Destroy flushes pending exits and releases the mesh. It is safe to call
// more than once.
func (l *Light) Destroy() {
	if l.destroyed {
		return
	}
	l.flushPresence()
	l.sink.Release()
	l.destroyed = true
	l.verts = nil
	l.mesh.Clear()
	Logger().Info("light destroyed", "id", l.id)
}
