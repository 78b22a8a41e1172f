package viewer

import "errors"

// ErrQuit is returned from Update when the user closes the viewer.
var ErrQuit = errors.New("viewer closed")

// Message represents an on-screen message that fades over time.
type Message struct {
	Text     string
	TimeLeft float64 // Seconds remaining
	MaxTime  float64 // Initial duration
}

// Tuning for the interactive controls, in world units and degrees per tick.
const (
	moveSpeed     = 0.15
	turnSpeed     = 2.0
	coneStep      = 15.0
	ambientStep   = 0.05
	newLightRange = 6.0
	messageTime   = 3.0
)
