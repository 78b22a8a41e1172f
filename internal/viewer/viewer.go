// Package viewer hosts a lighting scene in a window: it owns the obstacle
// space and the lighting system, maps input onto the selected light and
// draws the lit scene with optional mesh overlays.
package viewer

import (
	"fmt"
	"log"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"

	"chosenoffset.com/light2d/internal/config"
	"chosenoffset.com/light2d/internal/core/geom"
	"chosenoffset.com/light2d/internal/core/occlusion"
	"chosenoffset.com/light2d/internal/light"
	"chosenoffset.com/light2d/internal/render"
	"chosenoffset.com/light2d/internal/render/lighting"
)

// Viewer holds all viewer state and logic.
type Viewer struct {
	ScreenWidth  int
	ScreenHeight int
	Renderer     render.Renderer
	InputMgr     render.InputManager
	Loader       render.ResourceLoader
	Camera       render.Camera

	Scene     *config.Scene
	ScenePath string
	Watcher   *config.Watcher

	Space    *occlusion.Space
	Lighting *lighting.System

	SceneTexture render.Image
	LightMap     render.Image

	// UI state
	Selected int
	ShowMesh bool
	Messages []Message

	// Stats of the last lighting update
	LastFrame *light.Frame

	names map[uuid.UUID]string
	lit   map[uuid.UUID]int // obstacle id -> number of lights containing it
}

// New creates a viewer showing scene. scenePath is where R reloads from and
// where material textures are looked up; it may be empty. loader may be nil
// when the scene names no textures.
func New(renderer render.Renderer, input render.InputManager, loader render.ResourceLoader, scene *config.Scene, scenePath string) (*Viewer, error) {
	v := &Viewer{
		Renderer:  renderer,
		InputMgr:  input,
		Loader:    loader,
		ScenePath: scenePath,
	}
	if err := v.LoadScene(scene); err != nil {
		return nil, err
	}
	return v, nil
}

// LoadScene replaces everything on screen with scene. The previous lighting
// system is closed first so every light emits its exits.
func (v *Viewer) LoadScene(scene *config.Scene) error {
	obstacles, err := scene.BuildObstacles()
	if err != nil {
		return fmt.Errorf("failed to build obstacles: %w", err)
	}

	if v.Lighting != nil {
		v.Lighting.Close()
	}

	v.Scene = scene
	v.ScreenWidth = scene.Window.Width
	v.ScreenHeight = scene.Window.Height
	v.Camera = render.Camera{Origin: scene.Camera.Origin, Zoom: scene.Camera.Zoom}

	v.Space = occlusion.NewSpace(occlusion.DefaultCellSize)
	for _, o := range obstacles {
		v.Space.Add(o)
	}

	v.Lighting = lighting.NewSystem(v.Space, lighting.WithRenderer(v.Renderer), lighting.WithLoader(v.Loader))
	v.Lighting.SetAmbientLight(scene.Ambient)
	for _, mc := range scene.Materials {
		if _, err := v.Lighting.LoadMaterial(mc.Name, mc.TexturePath(v.ScenePath), mc.BlendMode()); err != nil {
			v.ShowMessage(fmt.Sprintf("Warning: %v", err))
		}
	}
	v.lit = make(map[uuid.UUID]int)
	v.Lighting.Events().Subscribe(v.onLightEvent, light.EventEnter, light.EventExit)

	v.names = make(map[uuid.UUID]string)
	for _, lc := range scene.Lights {
		l := v.Lighting.Create(lc.Parameters(), lc.Pose())
		if lc.LookAt != nil {
			l.LookAt(*lc.LookAt)
		}
		v.names[l.ID()] = lc.Name
	}
	v.Selected = 0

	log.Printf("Scene loaded: %d obstacles, %d lights", v.Space.Len(), v.Lighting.Len())
	return nil
}

// Reload reads the scene file again.
func (v *Viewer) Reload() error {
	if v.ScenePath == "" {
		return nil
	}
	scene, err := config.LoadScene(v.ScenePath)
	if err != nil {
		return err
	}
	return v.LoadScene(scene)
}

// Snapshot captures the current lights into a scene for saving.
func (v *Viewer) Snapshot() *config.Scene {
	out := *v.Scene
	out.Ambient = v.Lighting.GetAmbientLight()
	out.Lights = nil
	for _, l := range v.Lighting.Lights() {
		out.Lights = append(out.Lights, config.FromLight(v.names[l.ID()], l))
	}
	return &out
}

// Close releases the lighting system and stops watching the scene file.
func (v *Viewer) Close() {
	if v.Watcher != nil {
		if err := v.Watcher.Close(); err != nil {
			log.Printf("Warning: failed to stop scene watcher: %v", err)
		}
	}
	if v.Lighting != nil {
		v.Lighting.Close()
	}
}

// SelectedLight returns the light the controls act on.
func (v *Viewer) SelectedLight() *light.Light {
	lights := v.Lighting.Lights()
	if len(lights) == 0 {
		return nil
	}
	return lights[v.Selected%len(lights)]
}

// Lit reports whether any light currently contains the obstacle.
func (v *Viewer) Lit(id uuid.UUID) bool {
	return v.lit[id] > 0
}

func (v *Viewer) onLightEvent(e light.Event) {
	switch e.Type {
	case light.EventEnter:
		v.lit[e.Object]++
	case light.EventExit:
		if v.lit[e.Object]--; v.lit[e.Object] <= 0 {
			delete(v.lit, e.Object)
		}
	}
}

// View returns the world rectangle visible on screen.
func (v *Viewer) View() geom.Rect {
	return geom.BoundsOf(
		v.Camera.ScreenToWorld(0, 0),
		v.Camera.ScreenToWorld(v.ScreenWidth, v.ScreenHeight),
	)
}

// ShowMessage adds a new message to be displayed on screen.
func (v *Viewer) ShowMessage(text string) {
	v.Messages = append(v.Messages, Message{
		Text:     text,
		TimeLeft: messageTime,
		MaxTime:  messageTime,
	})
	log.Printf("Message: %s", text)
}

func (v *Viewer) updateMessages(dt float64) {
	var active []Message
	for _, msg := range v.Messages {
		msg.TimeLeft -= dt
		if msg.TimeLeft > 0 {
			active = append(active, msg)
		}
	}
	v.Messages = active
}

// Layout returns the viewer's logical screen size.
func (v *Viewer) Layout(outsideWidth, outsideHeight int) (int, int) {
	return v.ScreenWidth, v.ScreenHeight
}

func (v *Viewer) lightName(l *light.Light) string {
	if name := v.names[l.ID()]; name != "" {
		return name
	}
	return l.ID().String()[:8]
}

func (v *Viewer) cursorWorld() mgl64.Vec2 {
	x, y := v.InputMgr.GetCursorPosition()
	return v.Camera.ScreenToWorld(x, y)
}
