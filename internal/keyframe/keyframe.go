// Package keyframe defines the timed actions a macro sequence is made of.
package keyframe

import (
	"fmt"

	"github.com/google/uuid"

	"macroseq/internal/input"
)

// Lane identifies which timeline row a keyframe is drawn and scheduled on.
type Lane int

const (
	LaneKeyboard Lane = iota
	LanePointer
)

// Action is the payload of a keyframe. Exactly one of the variants below
// implements it; the sequence never stores a numeric tag, the variant type
// itself is the discriminant.
type Action interface {
	Lane() Lane
	String() string
	isAction()
}

// KeyPress holds a keyboard key down for the keyframe's duration
type KeyPress struct {
	Code uint16
}

// MouseButton holds a mouse button down for the keyframe's duration
type MouseButton struct {
	Button int
}

// MouseMove glides the pointer to an absolute position over the duration
type MouseMove struct {
	X float64
	Y float64
}

// Scroll emits wheel ticks when the playhead enters the keyframe
type Scroll struct {
	DX float64
	DY float64
}

// Wait occupies time without injecting anything
type Wait struct {
	Seconds float64
}

func (KeyPress) isAction()    {}
func (MouseButton) isAction() {}
func (MouseMove) isAction()   {}
func (Scroll) isAction()      {}
func (Wait) isAction()        {}

// Lane returns the keyboard lane for key presses
func (KeyPress) Lane() Lane { return LaneKeyboard }

// Lane returns the pointer lane
func (MouseButton) Lane() Lane { return LanePointer }

// Lane returns the pointer lane
func (MouseMove) Lane() Lane { return LanePointer }

// Lane returns the pointer lane
func (Scroll) Lane() Lane { return LanePointer }

// Lane returns the pointer lane
func (Wait) Lane() Lane { return LanePointer }

func (a KeyPress) String() string {
	if name, ok := input.KeyName(a.Code); ok {
		return name
	}
	return fmt.Sprintf("key 0x%X", a.Code)
}

func (a MouseButton) String() string {
	return input.ButtonName(a.Button) + " click"
}

func (a MouseMove) String() string {
	return fmt.Sprintf("move to (%.0f, %.0f)", a.X, a.Y)
}

func (a Scroll) String() string {
	return fmt.Sprintf("scroll (%.0f, %.0f)", a.DX, a.DY)
}

func (a Wait) String() string {
	return fmt.Sprintf("wait %.1fs", a.Seconds)
}

// Keyframe is one scheduled action on the timeline. The id is assigned at
// construction and never changes; timestamp and duration are seconds.
type Keyframe struct {
	ID        uuid.UUID
	Timestamp float64
	Duration  float64
	Action    Action
}

func newKeyframe(ts, duration float64, action Action) Keyframe {
	if ts < 0 {
		ts = 0
	}
	if duration < 0 {
		duration = 0
	}
	return Keyframe{
		ID:        uuid.New(),
		Timestamp: ts,
		Duration:  duration,
		Action:    action,
	}
}

// NewKeyPress creates a key-hold keyframe
func NewKeyPress(code uint16, ts, duration float64) Keyframe {
	return newKeyframe(ts, duration, KeyPress{Code: code})
}

// NewMouseButton creates a button-hold keyframe
func NewMouseButton(button int, ts, duration float64) Keyframe {
	return newKeyframe(ts, duration, MouseButton{Button: button})
}

// NewMouseMove creates a pointer glide keyframe
func NewMouseMove(x, y, ts, duration float64) Keyframe {
	return newKeyframe(ts, duration, MouseMove{X: x, Y: y})
}

// NewScroll creates a wheel keyframe
func NewScroll(dx, dy, ts, duration float64) Keyframe {
	return newKeyframe(ts, duration, Scroll{DX: dx, DY: dy})
}

// NewWait creates a pure delay keyframe
func NewWait(ts, seconds float64) Keyframe {
	if seconds < 0 {
		seconds = 0
	}
	return newKeyframe(ts, seconds, Wait{Seconds: seconds})
}

// Finalize closes a provisional hold: the duration becomes the distance
// from the keyframe's start to the release time, clamped at zero.
func (k *Keyframe) Finalize(release float64) {
	d := release - k.Timestamp
	if d < 0 {
		d = 0
	}
	k.Duration = d
}

// End returns the time the keyframe stops acting
func (k Keyframe) End() float64 {
	return k.Timestamp + k.Duration
}

// Lane returns the timeline row this keyframe belongs to
func (k Keyframe) Lane() Lane {
	return k.Action.Lane()
}

// String describes the keyframe for logs and the tray
func (k Keyframe) String() string {
	return fmt.Sprintf("%s @ %.2fs (%.2fs)", k.Action, k.Timestamp, k.Duration)
}
