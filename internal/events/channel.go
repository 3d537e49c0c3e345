package events

import "reflect"

// Channel names an event category and fixes the payload type delivered on it.
// The name is the key the bus files subscriptions under; a name can only be
// used with one payload type.
type Channel[P any] struct {
	name    string
	payload reflect.Type
}

// NewChannel declares a channel carrying payloads of type P
func NewChannel[P any](name string) Channel[P] {
	return Channel[P]{name: name, payload: reflect.TypeFor[P]()}
}

// Name returns the channel identifier
func (c Channel[P]) Name() string { return c.name }

// String implements fmt.Stringer
func (c Channel[P]) String() string { return c.name }

// Channel vocabulary shared by the viewer's collaborators
var (
	// Pointer clicks
	Click       = NewChannel[MouseEvent]("click")
	DoubleClick = NewChannel[MouseEvent]("dblclick")

	// Keyboard
	KeyDown  = NewChannel[KeyEvent]("keydown")
	KeyPress = NewChannel[KeyEvent]("keypress")
	KeyUp    = NewChannel[KeyEvent]("keyup")

	// Pointer buttons and movement
	MouseDown = NewChannel[MouseEvent]("mousedown")
	MouseUp   = NewChannel[MouseEvent]("mouseup")
	MouseMove = NewChannel[MouseEvent]("mousemove")

	// Pointer hovering onto and off an object
	MouseEnter = NewChannel[HoverEvent]("mouseenter")
	MouseLeave = NewChannel[HoverEvent]("mouseleave")

	Resize = NewChannel[ResizeEvent]("resize")
	Zoom   = NewChannel[ZoomEvent]("zoom")
	Select = NewChannel[SelectEvent]("select")

	// Moving between levels of the scene hierarchy
	LevelEnter = NewChannel[LevelEvent]("levelEnter")
	LevelLeave = NewChannel[LevelEvent]("levelLeave")
)
