package ebiten

import (
	"fmt"
	_ "image/jpeg"
	_ "image/png"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"

	"chosenoffset.com/light2d/internal/render"
)

// TextureLoader reads material textures from disk.
type TextureLoader struct{}

// NewTextureLoader returns a loader for light material textures.
func NewTextureLoader() render.ResourceLoader {
	return TextureLoader{}
}

// LoadImage decodes a PNG or JPEG texture.
func (TextureLoader) LoadImage(path string) (render.Image, error) {
	img, _, err := ebitenutil.NewImageFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load texture %s: %w", path, err)
	}
	return &Image{img: img}, nil
}

// Engine owns the window and the main loop.
type Engine struct{}

// NewEngine returns the ebiten engine.
func NewEngine() render.Engine {
	return Engine{}
}

func (Engine) SetWindowSize(width, height int) { ebiten.SetWindowSize(width, height) }
func (Engine) SetWindowTitle(title string)     { ebiten.SetWindowTitle(title) }

func (Engine) SetWindowResizable(resizable bool) {
	mode := ebiten.WindowResizingModeDisabled
	if resizable {
		mode = ebiten.WindowResizingModeEnabled
	}
	ebiten.SetWindowResizingMode(mode)
}

// RunGame blocks until the game's Update returns an error or the window closes.
func (Engine) RunGame(game render.Game) error {
	return ebiten.RunGame(adapter{game})
}

type adapter struct {
	game render.Game
}

func (a adapter) Update() error              { return a.game.Update() }
func (a adapter) Draw(screen *ebiten.Image)  { a.game.Draw(&Image{img: screen}) }
func (a adapter) Layout(w, h int) (int, int) { return a.game.Layout(w, h) }
