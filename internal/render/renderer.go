package render

import (
	"fmt"
	"image"
	"image/color"
)

// Renderer is the main rendering interface that abstracts the underlying
// graphics engine. Light meshes, the viewer and the debug overlays only talk
// to this interface.
type Renderer interface {
	// Image operations
	NewImage(width, height int) Image

	// Vector operations (for drawing shapes and debug overlays)
	FillCircle(dst Image, x, y, radius float32, clr color.Color)
	StrokeCircle(dst Image, x, y, radius float32, strokeWidth float32, clr color.Color)
	StrokeLine(dst Image, x0, y0, x1, y1 float32, strokeWidth float32, clr color.Color)

	// Text operations
	DrawText(dst Image, text string, x, y int)
}

// Image represents a renderable image surface that can be drawn to or drawn from.
type Image interface {
	// Properties
	Bounds() image.Rectangle
	Size() (width, height int)

	// Fill operations
	Fill(clr color.Color)
	Clear()

	// WritePixels replaces the image contents with premultiplied RGBA bytes.
	WritePixels(pix []byte)

	// Drawing operations
	DrawImage(src Image, opts *DrawImageOptions)
	DrawTriangles(vertices []Vertex, indices []uint16, img Image, opts *DrawTrianglesOptions)

	// Resource management
	Dispose()
}

// Blend selects how drawn pixels combine with the destination.
type Blend int

const (
	// BlendSourceOver is regular alpha blending.
	BlendSourceOver Blend = iota
	// BlendAdditive adds source to destination. Light meshes use it.
	BlendAdditive
	// BlendMultiply multiplies destination by source. Used to apply a light map.
	BlendMultiply
)

func (b Blend) String() string {
	switch b {
	case BlendAdditive:
		return "additive"
	case BlendMultiply:
		return "multiply"
	default:
		return "source-over"
	}
}

// ParseBlend reads the name String returns.
func ParseBlend(s string) (Blend, error) {
	for _, b := range []Blend{BlendSourceOver, BlendAdditive, BlendMultiply} {
		if b.String() == s {
			return b, nil
		}
	}
	return 0, fmt.Errorf("unknown blend %q", s)
}

func (b Blend) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

func (b *Blend) UnmarshalText(text []byte) error {
	v, err := ParseBlend(string(text))
	if err != nil {
		return err
	}
	*b = v
	return nil
}

// DrawImageOptions contains options for drawing an image.
type DrawImageOptions struct {
	GeoM  GeoM
	Blend Blend
}

// GeoM represents a geometric transformation matrix.
type GeoM interface {
	// Translate shifts the image by (tx, ty).
	Translate(tx, ty float64)

	// Scale scales the image by (sx, sy).
	Scale(sx, sy float64)

	// Rotate rotates the image by the given angle in radians.
	Rotate(angle float64)

	// Reset resets the matrix to identity.
	Reset()
}

// NewGeoM creates a new geometric transformation matrix.
// This is implemented by the specific renderer backend.
var NewGeoM func() GeoM

// DrawTrianglesOptions contains options for drawing triangles.
type DrawTrianglesOptions struct {
	Blend     Blend
	AntiAlias bool
}

// Vertex represents a vertex for triangle rendering.
type Vertex struct {
	DstX   float32
	DstY   float32
	SrcX   float32
	SrcY   float32
	ColorR float32
	ColorG float32
	ColorB float32
	ColorA float32
}

// InputManager handles input from the user (keyboard, mouse, etc).
type InputManager interface {
	IsKeyPressed(key Key) bool
	IsKeyJustPressed(key Key) bool
	GetCursorPosition() (x, y int)
	IsMouseButtonPressed(button MouseButton) bool
	IsMouseButtonJustPressed(button MouseButton) bool
}

// Key represents a keyboard key.
type Key int

// Key constants used by the viewer
const (
	KeyW Key = iota
	KeyA
	KeyS
	KeyD
	KeyE // Rotate light clockwise
	KeyQ // Rotate light counter-clockwise
	KeyL // Toggle selected light
	KeyM // Toggle mesh wireframe
	KeyR // Reload scene
	KeyTab
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeySpace
	KeyEscape
)

// MouseButton represents a mouse button.
type MouseButton int

// Mouse button constants
const (
	MouseButtonLeft MouseButton = iota
	MouseButtonRight
	MouseButtonMiddle
)

// ResourceLoader loads material textures from disk.
type ResourceLoader interface {
	LoadImage(path string) (Image, error)
}

// Game represents the game interface that the engine will call.
type Game interface {
	// Update updates the scene. It is called every tick (typically 60 times per second).
	Update() error

	// Draw draws the screen. It is called every frame.
	Draw(screen Image)

	// Layout accepts the outside size (e.g., window size) and returns the logical screen size.
	Layout(outsideWidth, outsideHeight int) (screenWidth, screenHeight int)
}

// Engine represents the engine that manages the main loop and window.
type Engine interface {
	SetWindowSize(width, height int)
	SetWindowTitle(title string)
	SetWindowResizable(resizable bool)

	// RunGame runs the loop with the provided game.
	// This is a blocking call that runs until the game ends.
	RunGame(game Game) error
}
