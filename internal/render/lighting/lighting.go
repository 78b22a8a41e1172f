// Package lighting owns every light of a scene: it creates them with mesh
// buffers and materials, drives their per-frame updates and draws them into a
// light map that is multiplied over the scene.
package lighting

import (
	"fmt"
	"image/color"
	"slices"

	"github.com/google/uuid"

	"chosenoffset.com/light2d/internal/core/geom"
	"chosenoffset.com/light2d/internal/light"
	"chosenoffset.com/light2d/internal/render"
)

// DefaultAmbientLight is the light map level where no light reaches.
const DefaultAmbientLight = 0.15

// falloffSize is the edge length of the default light texture.
const falloffSize = 256

// System handles all lights of a scene.
type System struct {
	occluders light.Occluders
	renderer  render.Renderer
	loader    render.ResourceLoader
	events    *light.Registry

	lights    []*light.Light
	buffers   map[uuid.UUID]*render.MeshBuffer
	materials map[string]*render.Material

	ambientLight float64
	frame        uint64
	closed       bool
}

// Option configures a System.
type Option func(*System)

// WithRenderer lets the system build the default falloff material.
func WithRenderer(r render.Renderer) Option {
	return func(s *System) { s.renderer = r }
}

// WithLoader lets LoadMaterial read textures from files.
func WithLoader(l render.ResourceLoader) Option {
	return func(s *System) { s.loader = l }
}

// WithMaterials registers materials lights can refer to by name.
func WithMaterials(mats ...*render.Material) Option {
	return func(s *System) {
		for _, m := range mats {
			s.RegisterMaterial(m)
		}
	}
}

// NewSystem creates an empty lighting system casting against occluders.
func NewSystem(occluders light.Occluders, opts ...Option) *System {
	s := &System{
		occluders:    occluders,
		events:       light.NewRegistry(),
		buffers:      make(map[uuid.UUID]*render.MeshBuffer),
		materials:    make(map[string]*render.Material),
		ambientLight: DefaultAmbientLight,
	}
	for _, opt := range opts {
		opt(s)
	}
	if _, ok := s.materials[render.DefaultMaterialName]; !ok && s.renderer != nil {
		s.RegisterMaterial(render.NewFalloffMaterial(s.renderer, falloffSize))
	}
	return s
}

// RegisterMaterial makes m available by name, replacing any material with
// the same name.
func (s *System) RegisterMaterial(m *render.Material) {
	if m == nil {
		return
	}
	s.materials[m.Name] = m
}

// LoadMaterial reads a texture through the system's loader and registers it
// under name. Loading a texture named DefaultMaterialName replaces the
// procedural falloff.
func (s *System) LoadMaterial(name, path string, blend render.Blend) (*render.Material, error) {
	if s.loader == nil {
		return nil, fmt.Errorf("failed to load material %s: no resource loader", name)
	}
	tex, err := s.loader.LoadImage(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load material %s: %w", name, err)
	}
	m := &render.Material{Name: name, Texture: tex, Blend: blend}
	s.RegisterMaterial(m)
	return m, nil
}

// Material looks up a registered material. An empty name means the default.
func (s *System) Material(name string) (*render.Material, bool) {
	if name == "" {
		name = render.DefaultMaterialName
	}
	m, ok := s.materials[name]
	return m, ok
}

// Events returns the registry every light of the system publishes to.
func (s *System) Events() *light.Registry {
	return s.events
}

// Create adds a light with the given parameters and pose. Its material is
// resolved by name; an unknown name leaves the light without one.
func (s *System) Create(params light.Parameters, pose geom.Pose, opts ...light.Option) *light.Light {
	buf := render.NewMeshBuffer()
	base := []light.Option{
		light.WithParameters(params),
		light.WithPose(pose),
		light.WithOccluders(s.occluders),
		light.WithSink(buf),
		light.WithEvents(s.events),
	}
	mat, ok := s.Material(params.Material)
	if ok {
		base = append(base, light.WithMaterial(mat))
	} else if params.Material != "" {
		light.Logger().Warn("unknown light material", "material", params.Material)
	}

	l := light.New(append(base, opts...)...)
	if !l.Enabled() {
		buf.SetVisible(false)
	}
	s.lights = append(s.lights, l)
	s.buffers[l.ID()] = buf
	return l
}

// Get returns the light with the given id.
func (s *System) Get(id uuid.UUID) (*light.Light, bool) {
	for _, l := range s.lights {
		if l.ID() == id {
			return l, true
		}
	}
	return nil, false
}

// Buffer returns the mesh buffer a light publishes to.
func (s *System) Buffer(id uuid.UUID) (*render.MeshBuffer, bool) {
	b, ok := s.buffers[id]
	return b, ok
}

// Remove destroys a light and forgets it.
func (s *System) Remove(id uuid.UUID) bool {
	i := slices.IndexFunc(s.lights, func(l *light.Light) bool { return l.ID() == id })
	if i < 0 {
		return false
	}
	s.lights[i].Destroy()
	s.lights = slices.Delete(s.lights, i, i+1)
	delete(s.buffers, id)
	return true
}

// Lights returns every light in creation order.
func (s *System) Lights() []*light.Light {
	return slices.Clone(s.lights)
}

// Len returns the number of lights.
func (s *System) Len() int {
	return len(s.lights)
}

// Restore applies a parameter snapshot to a light, re-resolving its material
// when the name changed.
func (s *System) Restore(id uuid.UUID, p light.Parameters) bool {
	l, ok := s.Get(id)
	if !ok {
		return false
	}
	renamed := l.Parameters().Material != p.Material
	l.Restore(p)
	if renamed {
		if mat, ok := s.Material(p.Material); ok {
			l.SetMaterial(mat)
		}
	}
	return true
}

// Update advances every light by one frame. view limits regeneration to
// lights that can be seen; nil means everything is visible.
func (s *System) Update(view *geom.Rect) *light.Frame {
	s.frame++
	f := light.NewFrame(s.frame, view)
	for _, l := range s.lights {
		l.Update(f)
	}
	return f
}

// Draw renders every light mesh onto dst with its material's blend.
func (s *System) Draw(dst render.Image, cam render.Camera) {
	for _, l := range s.lights {
		if b, ok := s.buffers[l.ID()]; ok {
			b.Draw(dst, l.Pose(), cam)
		}
	}
}

// Composite fills lightmap with the ambient level, adds every light to it and
// multiplies the result over scene.
func (s *System) Composite(scene, lightmap render.Image, cam render.Camera) {
	lightmap.Fill(s.AmbientColor())
	s.Draw(lightmap, cam)

	opts := &render.DrawImageOptions{Blend: render.BlendMultiply}
	if render.NewGeoM != nil {
		opts.GeoM = render.NewGeoM()
	}
	scene.DrawImage(lightmap, opts)
}

// SetAmbientLight sets the global ambient light level, clamped to [0, 1].
func (s *System) SetAmbientLight(level float64) {
	s.ambientLight = min(max(level, 0), 1)
}

// GetAmbientLight returns the current ambient light level.
func (s *System) GetAmbientLight() float64 {
	return s.ambientLight
}

// AmbientColor is the light map fill for the ambient level.
func (s *System) AmbientColor() color.Color {
	v := uint8(s.ambientLight*255 + 0.5)
	return color.NRGBA{v, v, v, 255}
}

// Clear destroys every light, emitting exits for whatever they contained.
func (s *System) Clear() {
	for _, l := range s.lights {
		l.Destroy()
	}
	s.lights = nil
	clear(s.buffers)
}

// Close destroys every light and then closes the event registry. The system
// must not be used afterwards.
func (s *System) Close() {
	if s.closed {
		return
	}
	s.Clear()
	s.events.Close()
	s.closed = true
	light.Logger().Debug("lighting system closed", "frames", s.frame)
}
