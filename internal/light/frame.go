package light

import "chosenoffset.com/light2d/internal/core/geom"

// Frame is passed to every light update of one rendered frame. It carries
// the visible area and collects per-frame counters.
type Frame struct {
	Index uint64
	View  *geom.Rect // nil means everything is visible

	rendered int
	updated  int
}

// NewFrame starts a frame with zeroed counters.
func NewFrame(index uint64, view *geom.Rect) *Frame {
	return &Frame{Index: index, View: view}
}

// LightsRendered is the number of lights that were visible this frame.
func (f *Frame) LightsRendered() int {
	return f.rendered
}

// LightsUpdated is the number of lights that regenerated their shape this frame.
func (f *Frame) LightsUpdated() int {
	return f.updated
}

func (f *Frame) visible(b geom.Rect) bool {
	return f == nil || f.View == nil || f.View.Intersects(b)
}
