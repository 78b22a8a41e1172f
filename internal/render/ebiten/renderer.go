// Package ebiten draws light meshes, scenes and overlays through ebiten.
package ebiten

import (
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"chosenoffset.com/light2d/internal/render"
)

func init() {
	render.NewGeoM = func() render.GeoM { return &geoM{} }
}

// Renderer draws overlays and allocates offscreen targets.
type Renderer struct{}

// NewRenderer returns the ebiten renderer.
func NewRenderer() render.Renderer {
	return Renderer{}
}

func (Renderer) NewImage(width, height int) render.Image {
	return &Image{img: ebiten.NewImage(width, height)}
}

func (Renderer) FillCircle(dst render.Image, x, y, radius float32, clr color.Color) {
	vector.DrawFilledCircle(unwrap(dst), x, y, radius, clr, true)
}

func (Renderer) StrokeCircle(dst render.Image, x, y, radius, width float32, clr color.Color) {
	vector.StrokeCircle(unwrap(dst), x, y, radius, width, clr, true)
}

func (Renderer) StrokeLine(dst render.Image, x0, y0, x1, y1, width float32, clr color.Color) {
	vector.StrokeLine(unwrap(dst), x0, y0, x1, y1, width, clr, true)
}

// DrawText prints with ebiten's debug font.
func (Renderer) DrawText(dst render.Image, text string, x, y int) {
	ebitenutil.DebugPrintAt(unwrap(dst), text, x, y)
}

// Image is a render.Image backed by an ebiten.Image.
type Image struct {
	img *ebiten.Image

	// Reused between DrawTriangles calls; light meshes are redrawn every frame.
	scratch []ebiten.Vertex
}

func unwrap(i render.Image) *ebiten.Image {
	return i.(*Image).img
}

func (i *Image) Bounds() image.Rectangle { return i.img.Bounds() }
func (i *Image) Fill(clr color.Color)    { i.img.Fill(clr) }
func (i *Image) Clear()                  { i.img.Clear() }
func (i *Image) WritePixels(pix []byte)  { i.img.WritePixels(pix) }

func (i *Image) Size() (int, int) {
	b := i.img.Bounds()
	return b.Dx(), b.Dy()
}

func (i *Image) Dispose() {
	if i.img != nil {
		i.img.Dispose()
	}
}

// DrawImage draws src over i. A nil opts draws untransformed with alpha blending.
func (i *Image) DrawImage(src render.Image, opts *render.DrawImageOptions) {
	var eopts *ebiten.DrawImageOptions
	if opts != nil {
		eopts = &ebiten.DrawImageOptions{Blend: blend(opts.Blend)}
		if g, ok := opts.GeoM.(*geoM); ok {
			eopts.GeoM = g.m
		}
	}
	i.img.DrawImage(unwrap(src), eopts)
}

// DrawTriangles draws a textured mesh onto i.
func (i *Image) DrawTriangles(vertices []render.Vertex, indices []uint16, tex render.Image, opts *render.DrawTrianglesOptions) {
	i.scratch = i.scratch[:0]
	for _, v := range vertices {
		i.scratch = append(i.scratch, ebiten.Vertex{
			DstX: v.DstX, DstY: v.DstY,
			SrcX: v.SrcX, SrcY: v.SrcY,
			ColorR: v.ColorR, ColorG: v.ColorG, ColorB: v.ColorB, ColorA: v.ColorA,
		})
	}

	var eopts *ebiten.DrawTrianglesOptions
	if opts != nil {
		eopts = &ebiten.DrawTrianglesOptions{Blend: blend(opts.Blend), AntiAlias: opts.AntiAlias}
	}
	i.img.DrawTriangles(i.scratch, indices, unwrap(tex), eopts)
}

// multiply scales the destination by the source color, for applying light maps.
var multiply = ebiten.Blend{
	BlendFactorSourceRGB:        ebiten.BlendFactorDestinationColor,
	BlendFactorSourceAlpha:      ebiten.BlendFactorDestinationAlpha,
	BlendFactorDestinationRGB:   ebiten.BlendFactorZero,
	BlendFactorDestinationAlpha: ebiten.BlendFactorZero,
	BlendOperationRGB:           ebiten.BlendOperationAdd,
	BlendOperationAlpha:         ebiten.BlendOperationAdd,
}

func blend(b render.Blend) ebiten.Blend {
	switch b {
	case render.BlendAdditive:
		return ebiten.BlendLighter
	case render.BlendMultiply:
		return multiply
	}
	return ebiten.BlendSourceOver
}

type geoM struct {
	m ebiten.GeoM
}

func (g *geoM) Translate(tx, ty float64) { g.m.Translate(tx, ty) }
func (g *geoM) Scale(sx, sy float64)     { g.m.Scale(sx, sy) }
func (g *geoM) Rotate(rad float64)       { g.m.Rotate(rad) }
func (g *geoM) Reset()                   { g.m.Reset() }
