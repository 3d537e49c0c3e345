package events

import "github.com/go-gl/mathgl/mgl32"

// MouseEvent is the payload for click, dblclick, mousedown, mouseup and mousemove.
// Mouse is in normalized device coordinates: x and y in [-1, 1], y up.
type MouseEvent struct {
	Mouse  mgl32.Vec2
	Button int
}

// KeyEvent is the payload for keydown, keypress and keyup
type KeyEvent struct {
	Key    string
	Code   string
	Repeat bool
	Shift  bool
	Ctrl   bool
	Alt    bool
	Meta   bool
}

// HoverEvent is the payload for mouseenter and mouseleave
type HoverEvent struct {
	ObjectID string
	Mouse    mgl32.Vec2
}

// ResizeEvent carries the new viewport size in pixels
type ResizeEvent struct {
	Width  int
	Height int
}

// Aspect returns width/height, or 1 for a degenerate viewport
func (e ResizeEvent) Aspect() float32 {
	if e.Width <= 0 || e.Height <= 0 {
		return 1
	}
	return float32(e.Width) / float32(e.Height)
}

// ZoomEvent reports the camera's distance to its orbit target after a zoom
type ZoomEvent struct {
	Distance float32
	Factor   float32
}

// SelectEvent reports a change of the selected object set, by node ID
type SelectEvent struct {
	Selected []string
	Previous []string
}

// LevelEvent identifies the level being entered or left and its scene
type LevelEvent struct {
	Level string
	Scene string
}
