// Package editor turns pointer gestures on the timeline surface into
// keyframe edits: selecting, dragging along time, and resizing either edge.
package editor

import (
	"github.com/google/uuid"

	"macroseq/internal/timeline"
	"macroseq/internal/view"
)

// edgeZone is the hit margin in pixels on either end of a keyframe where a
// press starts a resize instead of a drag.
const edgeZone = 3.0

// State names the gesture phase
type State int

const (
	Idle State = iota
	Selecting
	Dragging
	Resizing
)

// Edge names which end of a keyframe a resize grips
type Edge int

const (
	EdgeLeft Edge = iota
	EdgeRight
)

// Cursor is the pointer shape hint the surface should show
type Cursor int

const (
	CursorDefault Cursor = iota
	CursorPointer
	CursorResizeH
)

// Editor drives selection and drag/resize gestures against a store. The
// transform is passed per event because the surface may zoom or scroll
// mid-gesture.
type Editor struct {
	store  *timeline.Store
	height float64

	state   State
	active  uuid.UUID
	edge    Edge
	anchorX float64

	// Net deltas applied during the current gesture; folded into a single
	// history entry at pointer-up.
	gestureDT float64
	gestureDD float64
}

// New creates an editor over a store; surfaceHeight sets the lane split
func New(store *timeline.Store, surfaceHeight float64) *Editor {
	return &Editor{store: store, height: surfaceHeight}
}

// SetSurfaceHeight updates the lane split when the surface resizes
func (e *Editor) SetSurfaceHeight(h float64) {
	e.height = h
}

// State returns the current gesture phase
func (e *Editor) State() State {
	return e.state
}

type hit struct {
	id     uuid.UUID
	onEdge bool
	edge   Edge
}

// hitTest finds the keyframe under a point. Later frames are checked first
// so the most recently added wins on overlap. An edge zone beats the body.
func (e *Editor) hitTest(tr view.Transform, x, y float64) (hit, bool) {
	frames := e.store.All()
	for i := len(frames) - 1; i >= 0; i-- {
		k := frames[i]
		lane := view.LaneFor(k.Lane(), e.height)
		r, ok := tr.KeyframeRect(k.Timestamp, k.Duration, lane)
		if !ok || !r.Contains(x, y) {
			continue
		}
		h := hit{id: k.ID}
		if x <= r.X+edgeZone {
			h.onEdge = true
			h.edge = EdgeLeft
		} else if x >= r.X+r.W-edgeZone {
			h.onEdge = true
			h.edge = EdgeRight
		}
		return h, true
	}
	return hit{}, false
}

// PointerDown begins a gesture. A press on a keyframe selects it and arms a
// drag (body) or resize (edge zone); a press on empty surface clears the
// selection. Presses during an active gesture are ignored.
func (e *Editor) PointerDown(tr view.Transform, x, y float64) {
	if e.state == Dragging || e.state == Resizing {
		return
	}

	h, ok := e.hitTest(tr, x, y)
	if !ok {
		e.store.Select(uuid.Nil)
		e.state = Idle
		return
	}

	e.store.Select(h.id)
	e.active = h.id
	e.anchorX = x
	e.gestureDT = 0
	e.gestureDD = 0
	if h.onEdge {
		e.state = Resizing
		e.edge = h.edge
	} else {
		e.state = Selecting
	}
}

// PointerMove advances an active gesture, or returns a hover cursor hint
// when no gesture is running.
func (e *Editor) PointerMove(tr view.Transform, x, y float64) Cursor {
	switch e.state {
	case Selecting:
		if x == e.anchorX {
			return CursorPointer
		}
		e.state = Dragging
		fallthrough

	case Dragging:
		dt := tr.OffsetToTime(x - e.anchorX)
		applied, _, _ := e.store.Shift(e.active, dt, 0)
		e.gestureDT += applied
		e.anchorX = x
		return CursorPointer

	case Resizing:
		dt := tr.OffsetToTime(x - e.anchorX)
		if e.edge == EdgeRight {
			_, applied, _ := e.store.Shift(e.active, 0, dt)
			e.gestureDD += applied
		} else {
			// Left edge: start moves, end stays put. The delta is bounded
			// by both clamps before applying so the two stay paired.
			k, ok := e.store.Get(e.active)
			if ok {
				if dt < -k.Timestamp {
					dt = -k.Timestamp
				}
				if dt > k.Duration {
					dt = k.Duration
				}
				e.store.Shift(e.active, dt, -dt)
				e.gestureDT += dt
				e.gestureDD -= dt
			}
		}
		e.anchorX = x
		return CursorResizeH
	}

	// Idle: hover hint only
	if h, ok := e.hitTest(tr, x, y); ok {
		if h.onEdge {
			return CursorResizeH
		}
		return CursorPointer
	}
	return CursorDefault
}

// PointerUp ends the gesture, folding any applied movement into one
// undoable change.
func (e *Editor) PointerUp() {
	if (e.state == Dragging || e.state == Resizing) &&
		(e.gestureDT != 0 || e.gestureDD != 0) {
		e.store.PushChange(timeline.Shifted{
			ID:            e.active,
			DeltaTime:     e.gestureDT,
			DeltaDuration: e.gestureDD,
		})
	}
	e.state = Idle
	e.active = uuid.Nil
	e.anchorX = 0
	e.gestureDT = 0
	e.gestureDD = 0
}
