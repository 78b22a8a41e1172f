package viewer

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"chosenoffset.com/light2d/internal/core/geom"
	"chosenoffset.com/light2d/internal/light"
	"chosenoffset.com/light2d/internal/render"
)

// Update handles input, scene reloads and the per-frame lighting update.
func (v *Viewer) Update() error {
	// Delta time for timers (assuming 60 FPS)
	dt := 1.0 / 60.0
	v.updateMessages(dt)

	if v.InputMgr.IsKeyJustPressed(render.KeyEscape) {
		return ErrQuit
	}

	v.pollWatcher()

	if v.InputMgr.IsKeyJustPressed(render.KeyR) {
		if err := v.Reload(); err != nil {
			v.ShowMessage(fmt.Sprintf("Reload failed: %v", err))
		} else {
			v.ShowMessage("Scene reloaded")
		}
	}
	if v.InputMgr.IsKeyJustPressed(render.KeyM) {
		v.ShowMesh = !v.ShowMesh
	}
	if v.InputMgr.IsKeyJustPressed(render.KeyTab) && v.Lighting.Len() > 0 {
		v.Selected = (v.Selected + 1) % v.Lighting.Len()
		v.ShowMessage("Selected " + v.lightName(v.SelectedLight()))
	}
	if v.InputMgr.IsKeyJustPressed(render.KeyUp) {
		v.Lighting.SetAmbientLight(v.Lighting.GetAmbientLight() + ambientStep)
	}
	if v.InputMgr.IsKeyJustPressed(render.KeyDown) {
		v.Lighting.SetAmbientLight(v.Lighting.GetAmbientLight() - ambientStep)
	}
	if v.InputMgr.IsMouseButtonJustPressed(render.MouseButtonRight) {
		v.addLight(v.cursorWorld())
	}

	if l := v.SelectedLight(); l != nil {
		v.controlLight(l)
	}

	view := v.View()
	v.LastFrame = v.Lighting.Update(&view)
	return nil
}

// controlLight maps the held keys onto the selected light.
func (v *Viewer) controlLight(l *light.Light) {
	var move mgl64.Vec2
	if v.InputMgr.IsKeyPressed(render.KeyW) {
		move[1] -= moveSpeed
	}
	if v.InputMgr.IsKeyPressed(render.KeyS) {
		move[1] += moveSpeed
	}
	if v.InputMgr.IsKeyPressed(render.KeyA) {
		move[0] -= moveSpeed
	}
	if v.InputMgr.IsKeyPressed(render.KeyD) {
		move[0] += moveSpeed
	}
	if move.LenSqr() > 0 {
		l.SetPosition(l.Pose().Position.Add(move))
	}

	turn := 0.0
	if v.InputMgr.IsKeyPressed(render.KeyQ) {
		turn += turnSpeed
	}
	if v.InputMgr.IsKeyPressed(render.KeyE) {
		turn -= turnSpeed
	}
	if turn != 0 {
		p := l.Pose()
		p.Rotation += turn
		l.SetPose(p)
	}

	if v.InputMgr.IsMouseButtonPressed(render.MouseButtonLeft) {
		l.LookAt(v.cursorWorld())
	}

	p := l.Parameters()
	if v.InputMgr.IsKeyJustPressed(render.KeyLeft) {
		l.SetConeAngle(p.ConeAngle - coneStep)
	}
	if v.InputMgr.IsKeyJustPressed(render.KeyRight) {
		l.SetConeAngle(p.ConeAngle + coneStep)
	}
	if v.InputMgr.IsKeyJustPressed(render.KeySpace) {
		next := (p.Shape + 1) % 3
		l.SetShape(next)
		v.ShowMessage(fmt.Sprintf("%s is now %s", v.lightName(l), next))
	}
	if v.InputMgr.IsKeyJustPressed(render.KeyL) {
		if l.Toggle() {
			v.ShowMessage(v.lightName(l) + " on")
		} else {
			v.ShowMessage(v.lightName(l) + " off")
		}
	}
}

func (v *Viewer) addLight(at mgl64.Vec2) {
	p := light.DefaultParameters()
	p.Radius = newLightRange
	p.Events = true
	l := v.Lighting.Create(p, geom.At(at[0], at[1]))
	v.Selected = v.Lighting.Len() - 1
	v.ShowMessage(fmt.Sprintf("Added light %s", v.lightName(l)))
}

// pollWatcher applies scene reloads delivered by the file watcher.
func (v *Viewer) pollWatcher() {
	if v.Watcher == nil {
		return
	}
	select {
	case scene := <-v.Watcher.Scenes():
		if err := v.LoadScene(scene); err != nil {
			v.ShowMessage(fmt.Sprintf("Reload failed: %v", err))
			return
		}
		v.ShowMessage("Scene file changed, reloaded")
	case err := <-v.Watcher.Errors():
		v.ShowMessage(fmt.Sprintf("Reload failed: %v", err))
	default:
	}
}
