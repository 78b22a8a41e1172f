package viewer

import (
	"fmt"
	"image/color"

	"github.com/go-gl/mathgl/mgl64"
	"golang.org/x/image/colornames"

	"chosenoffset.com/light2d/internal/core/occlusion"
	"chosenoffset.com/light2d/internal/light"
	"chosenoffset.com/light2d/internal/render"
)

var (
	backgroundColor = color.NRGBA{70, 70, 78, 255}
	wallColor       = colornames.Slategray
	litWallColor    = colornames.Khaki
	wireColor       = colornames.Lime
	markerColor     = colornames.White
	selectedColor   = colornames.Gold
)

// Draw renders the lit scene and the UI.
func (v *Viewer) Draw(screen render.Image) {
	w, h := screen.Size()

	// Ensure render textures exist and are the right size
	v.SceneTexture = v.ensureTexture(v.SceneTexture, w, h)
	v.LightMap = v.ensureTexture(v.LightMap, w, h)

	// Step 1: Render the unlit scene to an offscreen texture
	v.SceneTexture.Fill(backgroundColor)
	v.drawObstacles(v.SceneTexture)

	// Step 2: Accumulate lights into the light map and multiply it over the scene
	v.Lighting.Composite(v.SceneTexture, v.LightMap, v.Camera)

	opts := &render.DrawImageOptions{}
	if render.NewGeoM != nil {
		opts.GeoM = render.NewGeoM()
	}
	screen.DrawImage(v.SceneTexture, opts)

	// Step 3: Overlays and UI are drawn unlit
	if v.ShowMesh {
		v.drawWireframes(screen)
	}
	v.drawLightMarkers(screen)
	v.drawUI(screen)
}

func (v *Viewer) ensureTexture(img render.Image, w, h int) render.Image {
	if img != nil && !needsResize(img, w, h) {
		return img
	}
	if img != nil {
		img.Dispose()
	}
	return v.Renderer.NewImage(w, h)
}

func needsResize(img render.Image, w, h int) bool {
	bounds := img.Bounds()
	return bounds.Dx() != w || bounds.Dy() != h
}

func (v *Viewer) drawObstacles(dst render.Image) {
	zoom := float32(v.zoom())
	for _, k := range occlusion.Kinds {
		for _, o := range v.Space.World(k).Obstacles() {
			clr := color.Color(wallColor)
			if v.Lit(o.ID) {
				clr = litWallColor
			}

			if len(o.Shape.Edges) == 0 {
				x, y := v.Camera.WorldToScreen(o.Pose.Position)
				v.Renderer.FillCircle(dst, x, y, float32(o.Shape.Radius*o.Pose.Scale[0])*zoom, clr)
				continue
			}
			for _, e := range o.Shape.Edges {
				x0, y0 := v.Camera.WorldToScreen(o.Pose.TransformPoint(e.A))
				x1, y1 := v.Camera.WorldToScreen(o.Pose.TransformPoint(e.B))
				v.Renderer.StrokeLine(dst, x0, y0, x1, y1, 2, clr)
			}
		}
	}
}

// drawWireframes outlines every triangle of every light mesh.
func (v *Viewer) drawWireframes(dst render.Image) {
	for _, l := range v.Lighting.Lights() {
		m := l.Mesh()
		pose := l.Pose()
		for t := 0; t+2 < len(m.Indices); t += 3 {
			var pts [3][2]float32
			for k := range 3 {
				vert := m.Vertices[m.Indices[t+k]]
				world := pose.TransformPoint(mgl64.Vec2{float64(vert[0]), float64(vert[1])})
				pts[k][0], pts[k][1] = v.Camera.WorldToScreen(world)
			}
			for k := range 3 {
				a, b := pts[k], pts[(k+1)%3]
				v.Renderer.StrokeLine(dst, a[0], a[1], b[0], b[1], 1, wireColor)
			}
		}
	}
}

func (v *Viewer) drawLightMarkers(dst render.Image) {
	selected := v.SelectedLight()
	for _, l := range v.Lighting.Lights() {
		x, y := v.Camera.WorldToScreen(l.Pose().Position)
		clr := color.Color(markerColor)
		if l == selected {
			clr = selectedColor
		}
		if l.Enabled() {
			v.Renderer.FillCircle(dst, x, y, 4, clr)
		}
		v.Renderer.StrokeCircle(dst, x, y, 6, 1, clr)
	}
}

func (v *Viewer) drawUI(dst render.Image) {
	lines := []string{v.statusLine()}
	if l := v.SelectedLight(); l != nil {
		lines = append(lines, describeLight(v.lightName(l), l))
	}
	lines = append(lines, "WASD move  Q/E turn  mouse aim  Tab select  L toggle  Space shape  M mesh  R reload")
	for _, msg := range v.Messages {
		lines = append(lines, msg.Text)
	}
	for i, line := range lines {
		v.Renderer.DrawText(dst, line, 8, 8+i*16)
	}
}

func (v *Viewer) statusLine() string {
	rendered, updated := 0, 0
	if v.LastFrame != nil {
		rendered, updated = v.LastFrame.LightsRendered(), v.LastFrame.LightsUpdated()
	}
	return fmt.Sprintf("lights %d  rendered %d  updated %d  obstacles %d  ambient %.2f",
		v.Lighting.Len(), rendered, updated, v.Space.Len(), v.Lighting.GetAmbientLight())
}

func describeLight(name string, l *light.Light) string {
	p := l.Parameters()
	state := "on"
	if !p.Enabled {
		state = "off"
	}
	switch p.Shape {
	case light.ShapeDirectional:
		return fmt.Sprintf("%s: %s %s beam %.1fx%.1f detail %d", name, state, p.Shape, p.BeamSize, p.BeamRange, p.Detail)
	default:
		return fmt.Sprintf("%s: %s %s radius %.1f cone %.0f detail %d inside %d",
			name, state, p.Shape, p.Radius, p.ConeAngle, p.Detail, l.Inside())
	}
}

func (v *Viewer) zoom() float64 {
	if v.Camera.Zoom == 0 {
		return 1
	}
	return v.Camera.Zoom
}
