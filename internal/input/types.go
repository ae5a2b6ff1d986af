// Package input provides cross-platform input capture and injection functionality.
package input

// Kind identifies the class of a captured input event.
type Kind string

const (
	KindKeyDown     Kind = "key_down"
	KindKeyUp       Kind = "key_up"
	KindButtonDown  Kind = "button_down"
	KindButtonUp    Kind = "button_up"
	KindPointerMove Kind = "pointer_move"
	KindScroll      Kind = "scroll"
)

// Event represents one raw keyboard or mouse event crossing the capture boundary
type Event struct {
	Kind    Kind    `json:"kind"`
	KeyCode uint16  `json:"keycode,omitempty"`
	Button  int     `json:"btn,omitempty"` // 1=left, 2=right, 3=middle
	X       float64 `json:"x,omitempty"`   // absolute pointer position
	Y       float64 `json:"y,omitempty"`
	DX      float64 `json:"dx,omitempty"` // scroll delta
	DY      float64 `json:"dy,omitempty"`
	Time    int64   `json:"ts"`            // Unix ms timestamp at capture
}

// Capture defines the interface for capturing raw input events.
// The platform listener delivers events on a buffered channel; the owning
// loop drains it, so the listener never blocks on a slow consumer.
type Capture interface {
	Start() error
	Stop() error
	Events() <-chan Event
}

// Injector defines the interface for injecting input events into the OS
type Injector interface {
	MovePointer(x, y int) error
	Button(button int, pressed bool) error
	Key(code uint16, pressed bool) error
	Scroll(dx, dy int) error
}
