package lighting

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chosenoffset.com/light2d/internal/core/geom"
	"chosenoffset.com/light2d/internal/core/occlusion"
	"chosenoffset.com/light2d/internal/light"
	"chosenoffset.com/light2d/internal/render"
)

type drawCall struct {
	vertices int
	blend    render.Blend
}

type fakeImage struct {
	w, h  int
	fill  color.Color
	pix   []byte
	draws []drawCall
	drawn []render.Blend
}

func (f *fakeImage) Bounds() image.Rectangle { return image.Rect(0, 0, f.w, f.h) }
func (f *fakeImage) Size() (int, int)        { return f.w, f.h }
func (f *fakeImage) Fill(c color.Color)      { f.fill = c; f.draws = nil }
func (f *fakeImage) Clear()                  { f.fill = nil }
func (f *fakeImage) WritePixels(pix []byte)  { f.pix = pix }
func (f *fakeImage) Dispose()                {}
func (f *fakeImage) DrawImage(_ render.Image, o *render.DrawImageOptions) {
	f.drawn = append(f.drawn, o.Blend)
}
func (f *fakeImage) DrawTriangles(v []render.Vertex, _ []uint16, _ render.Image, o *render.DrawTrianglesOptions) {
	f.draws = append(f.draws, drawCall{vertices: len(v), blend: o.Blend})
}

type fakeRenderer struct {
	images []*fakeImage
}

func (r *fakeRenderer) NewImage(w, h int) render.Image {
	img := &fakeImage{w: w, h: h}
	r.images = append(r.images, img)
	return img
}

func (r *fakeRenderer) FillCircle(render.Image, float32, float32, float32, color.Color)            {}
func (r *fakeRenderer) StrokeCircle(render.Image, float32, float32, float32, float32, color.Color) {}
func (r *fakeRenderer) StrokeLine(render.Image, float32, float32, float32, float32, float32, color.Color) {
}
func (r *fakeRenderer) DrawText(render.Image, string, int, int) {}

type fakeLoader struct {
	paths []string
}

func (l *fakeLoader) LoadImage(path string) (render.Image, error) {
	l.paths = append(l.paths, path)
	if path == "missing.png" {
		return nil, errors.New("no such file")
	}
	return &fakeImage{w: 64, h: 64}, nil
}

func radial(radius float64) light.Parameters {
	p := light.DefaultParameters()
	p.Radius = radius
	p.Detail = 16
	return p
}

func TestNewSystemBuildsDefaultMaterial(t *testing.T) {
	r := &fakeRenderer{}
	s := NewSystem(occlusion.NewSpace(0), WithRenderer(r))

	mat, ok := s.Material("")
	require.True(t, ok)
	assert.Equal(t, render.DefaultMaterialName, mat.Name)
	assert.Equal(t, render.BlendAdditive, mat.Blend)
	require.Len(t, r.images, 1)
	assert.Len(t, r.images[0].pix, falloffSize*falloffSize*4)

	bare := NewSystem(nil)
	_, ok = bare.Material("")
	assert.False(t, ok)
}

func TestCreateGetRemove(t *testing.T) {
	s := NewSystem(occlusion.NewSpace(0), WithRenderer(&fakeRenderer{}))
	a := s.Create(radial(2), geom.At(1, 1))
	b := s.Create(radial(3), geom.At(5, 5))
	c := s.Create(radial(4), geom.At(9, 9))

	assert.Equal(t, []*light.Light{a, b, c}, s.Lights())
	assert.Equal(t, render.DefaultMaterialName, a.Parameters().Material)
	got, ok := s.Get(b.ID())
	require.True(t, ok)
	assert.Same(t, b, got)

	buf, ok := s.Buffer(b.ID())
	require.True(t, ok)
	assert.True(t, s.Remove(b.ID()))
	assert.False(t, s.Remove(b.ID()))
	assert.True(t, b.Destroyed())
	assert.True(t, buf.Released())
	assert.Equal(t, []*light.Light{a, c}, s.Lights())
	assert.Equal(t, 2, s.Len())
}

func TestCreateResolvesNamedMaterial(t *testing.T) {
	beam := &render.Material{Name: "beam", Texture: &fakeImage{w: 4, h: 4}, Blend: render.BlendAdditive}
	s := NewSystem(occlusion.NewSpace(0), WithMaterials(beam))

	p := radial(2)
	p.Material = "beam"
	l := s.Create(p, geom.Identity())
	assert.Same(t, beam, l.Material())

	p.Material = "missing"
	l = s.Create(p, geom.Identity())
	assert.Nil(t, l.Material())
}

func TestUpdateCountsFrame(t *testing.T) {
	s := NewSystem(occlusion.NewSpace(0))
	s.Create(radial(1), geom.At(0, 0))
	s.Create(radial(1), geom.At(2, 0))
	s.Create(radial(1), geom.At(50, 50))

	view := geom.Rect{Min: mgl64.Vec2{-5, -5}, Max: mgl64.Vec2{5, 5}}
	f := s.Update(&view)
	assert.Equal(t, uint64(1), f.Index)
	assert.Equal(t, 2, f.LightsRendered())
	assert.Equal(t, 2, f.LightsUpdated())

	f = s.Update(nil)
	assert.Equal(t, uint64(2), f.Index)
	assert.Equal(t, 3, f.LightsRendered())
	assert.Equal(t, 1, f.LightsUpdated(), "only the light outside the first view")
}

func TestCompositeDrawsLightsIntoLightmap(t *testing.T) {
	s := NewSystem(occlusion.NewSpace(0), WithRenderer(&fakeRenderer{}))
	s.SetAmbientLight(0.5)
	s.Create(radial(2), geom.At(0, 0))
	off := s.Create(radial(2), geom.At(3, 0))
	off.SetEnabled(false)
	s.Update(nil)

	scene, lightmap := &fakeImage{w: 64, h: 64}, &fakeImage{w: 64, h: 64}
	s.Composite(scene, lightmap, render.Camera{Zoom: 8})

	assert.Equal(t, color.NRGBA{128, 128, 128, 255}, lightmap.fill)
	require.Len(t, lightmap.draws, 1, "disabled light is hidden")
	assert.Equal(t, render.BlendAdditive, lightmap.draws[0].blend)
	assert.Equal(t, 18, lightmap.draws[0].vertices)
	assert.Equal(t, []render.Blend{render.BlendMultiply}, scene.drawn)
}

func TestAmbientLightClamps(t *testing.T) {
	s := NewSystem(nil)
	assert.Equal(t, DefaultAmbientLight, s.GetAmbientLight())
	s.SetAmbientLight(2)
	assert.Equal(t, 1.0, s.GetAmbientLight())
	s.SetAmbientLight(-1)
	assert.Equal(t, 0.0, s.GetAmbientLight())
	assert.Equal(t, color.NRGBA{0, 0, 0, 255}, s.AmbientColor())
}

func TestRestoreSwapsMaterial(t *testing.T) {
	warm := &render.Material{Name: "warm"}
	cold := &render.Material{Name: "cold"}
	s := NewSystem(nil, WithMaterials(warm, cold))

	p := radial(2)
	p.Material = "warm"
	l := s.Create(p, geom.Identity())
	s.Update(nil)

	p.Material = "cold"
	p.Radius = 6
	require.True(t, s.Restore(l.ID(), p))
	assert.Same(t, cold, l.Material())
	assert.Equal(t, 6.0, l.Parameters().Radius)

	s.Update(nil)
	buf, _ := s.Buffer(l.ID())
	assert.Same(t, cold, buf.Material())
}

func TestCloseFlushesEventsThenUnsubscribes(t *testing.T) {
	space := occlusion.NewSpace(0)
	space.Add(occlusion.Obstacle{Kind: occlusion.KindSolid, Pose: geom.At(1, 0), Shape: occlusion.CircleShape(0.25)})
	s := NewSystem(space)

	var got []light.EventType
	s.Events().Subscribe(func(e light.Event) { got = append(got, e.Type) })

	p := radial(3)
	p.Events = true
	s.Create(p, geom.Identity())
	s.Update(nil)
	s.Close()
	s.Close()

	assert.Equal(t, []light.EventType{light.EventEnter, light.EventExit}, got)
	assert.Zero(t, s.Events().Len())
	assert.Zero(t, s.Len())
}

func TestLoadMaterial(t *testing.T) {
	loader := &fakeLoader{}
	s := NewSystem(occlusion.NewSpace(0), WithRenderer(&fakeRenderer{}), WithLoader(loader))

	warm, err := s.LoadMaterial("Warm", "textures/warm.png", render.BlendAdditive)
	require.NoError(t, err)
	assert.Equal(t, []string{"textures/warm.png"}, loader.paths)

	p := radial(2)
	p.Material = "Warm"
	l := s.Create(p, geom.Identity())
	assert.Same(t, warm, l.Material())

	_, err = s.LoadMaterial("Broken", "missing.png", render.BlendAdditive)
	assert.ErrorContains(t, err, "no such file")
	_, ok := s.Material("Broken")
	assert.False(t, ok)

	custom, err := s.LoadMaterial(render.DefaultMaterialName, "soft.png", render.BlendAdditive)
	require.NoError(t, err)
	def, _ := s.Material("")
	assert.Same(t, custom, def, "a loaded texture replaces the procedural falloff")

	_, err = NewSystem(nil).LoadMaterial("Warm", "warm.png", render.BlendAdditive)
	assert.Error(t, err)
}
