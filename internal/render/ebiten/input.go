package ebiten

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"chosenoffset.com/light2d/internal/render"
)

var keys = map[render.Key]ebiten.Key{
	render.KeyW:      ebiten.KeyW,
	render.KeyA:      ebiten.KeyA,
	render.KeyS:      ebiten.KeyS,
	render.KeyD:      ebiten.KeyD,
	render.KeyE:      ebiten.KeyE,
	render.KeyQ:      ebiten.KeyQ,
	render.KeyL:      ebiten.KeyL,
	render.KeyM:      ebiten.KeyM,
	render.KeyR:      ebiten.KeyR,
	render.KeyTab:    ebiten.KeyTab,
	render.KeyUp:     ebiten.KeyArrowUp,
	render.KeyDown:   ebiten.KeyArrowDown,
	render.KeyLeft:   ebiten.KeyArrowLeft,
	render.KeyRight:  ebiten.KeyArrowRight,
	render.KeySpace:  ebiten.KeySpace,
	render.KeyEscape: ebiten.KeyEscape,
}

var buttons = map[render.MouseButton]ebiten.MouseButton{
	render.MouseButtonLeft:   ebiten.MouseButtonLeft,
	render.MouseButtonRight:  ebiten.MouseButtonRight,
	render.MouseButtonMiddle: ebiten.MouseButtonMiddle,
}

// Input reads the keyboard and mouse. Keys without a mapping never report
// as pressed.
type Input struct{}

// NewInputManager returns the ebiten input reader.
func NewInputManager() render.InputManager {
	return Input{}
}

func (Input) IsKeyPressed(k render.Key) bool {
	ek, ok := keys[k]
	return ok && ebiten.IsKeyPressed(ek)
}

func (Input) IsKeyJustPressed(k render.Key) bool {
	ek, ok := keys[k]
	return ok && inpututil.IsKeyJustPressed(ek)
}

func (Input) GetCursorPosition() (int, int) {
	return ebiten.CursorPosition()
}

func (Input) IsMouseButtonPressed(b render.MouseButton) bool {
	eb, ok := buttons[b]
	return ok && ebiten.IsMouseButtonPressed(eb)
}

func (Input) IsMouseButtonJustPressed(b render.MouseButton) bool {
	eb, ok := buttons[b]
	return ok && inpututil.IsMouseButtonJustPressed(eb)
}
