// Package recorder turns the raw capture stream into keyframes while
// recording is armed.
package recorder

import (
	"log"

	"github.com/google/uuid"

	"macroseq/internal/input"
	"macroseq/internal/keyframe"
	"macroseq/internal/timeline"
)

const (
	// DefaultMoveResolution records every Nth pointer move; raw streams
	// arrive at hundreds of events per second.
	DefaultMoveResolution = 20

	// moveDuration and scrollDuration are the fixed spans given to point
	// events, which have no natural hold time.
	moveDuration   = 0.1
	scrollDuration = 0.1
)

// Recorder appends keyframes to a store as input events arrive. Presses
// open provisional zero-duration holds; the matching release closes them.
type Recorder struct {
	store *timeline.Store

	recording      bool
	clearOnStart   bool
	moveResolution int
	moveCount      int

	openKeys    map[uint16]uuid.UUID
	openButtons map[int]uuid.UUID
}

// New creates a recorder writing into the given store
func New(store *timeline.Store) *Recorder {
	return &Recorder{
		store:          store,
		moveResolution: DefaultMoveResolution,
	}
}

// SetMoveResolution sets the pointer-move thinning factor; n < 1 is ignored
func (r *Recorder) SetMoveResolution(n int) {
	if n < 1 {
		return
	}
	r.moveResolution = n
}

// SetClearOnStart makes each recording start from an empty sequence
func (r *Recorder) SetClearOnStart(clear bool) {
	r.clearOnStart = clear
}

// Recording reports whether events are being captured into keyframes
func (r *Recorder) Recording() bool {
	return r.recording
}

// Start arms the recorder. With clear-on-start set, the store is emptied
// so the new take replaces the old one.
func (r *Recorder) Start() {
	if r.recording {
		return
	}
	if r.clearOnStart {
		r.store.Clear()
	}
	r.recording = true
	r.moveCount = 0
	r.openKeys = make(map[uint16]uuid.UUID)
	r.openButtons = make(map[int]uuid.UUID)
	log.Println("Recorder: started")
}

// Stop disarms the recorder, closing every still-held key and button at
// the current time.
func (r *Recorder) Stop(now float64) {
	if !r.recording {
		return
	}
	for code, id := range r.openKeys {
		r.store.Finalize(id, now)
		delete(r.openKeys, code)
	}
	for button, id := range r.openButtons {
		r.store.Finalize(id, now)
		delete(r.openButtons, button)
	}
	r.recording = false
	log.Printf("Recorder: stopped, %d keyframes in sequence", r.store.Len())
}

// Toggle flips the recording state and reports the new one
func (r *Recorder) Toggle(now float64) bool {
	if r.recording {
		r.Stop(now)
	} else {
		r.Start()
	}
	return r.recording
}

// Handle converts one capture event into keyframe edits at the given
// sequence time. Events arriving while disarmed are ignored.
func (r *Recorder) Handle(ev input.Event, now float64) {
	if !r.recording {
		return
	}

	switch ev.Kind {
	case input.KindKeyDown:
		if _, ok := input.KeyName(ev.KeyCode); !ok {
			log.Printf("Recorder: dropping unknown key code 0x%X", ev.KeyCode)
			return
		}
		if _, held := r.openKeys[ev.KeyCode]; held {
			return // auto-repeat while held
		}
		k := keyframe.NewKeyPress(ev.KeyCode, now, 0)
		r.store.Add(k)
		r.openKeys[ev.KeyCode] = k.ID

	case input.KindKeyUp:
		if id, ok := r.openKeys[ev.KeyCode]; ok {
			r.store.Finalize(id, now)
			delete(r.openKeys, ev.KeyCode)
		}

	case input.KindButtonDown:
		if _, held := r.openButtons[ev.Button]; held {
			return
		}
		k := keyframe.NewMouseButton(ev.Button, now, 0)
		r.store.Add(k)
		r.openButtons[ev.Button] = k.ID

	case input.KindButtonUp:
		if id, ok := r.openButtons[ev.Button]; ok {
			r.store.Finalize(id, now)
			delete(r.openButtons, ev.Button)
		}

	case input.KindPointerMove:
		if r.moveCount%r.moveResolution == 0 {
			r.store.Add(keyframe.NewMouseMove(ev.X, ev.Y, now, moveDuration))
		}
		r.moveCount++

	case input.KindScroll:
		if ev.DX == 0 && ev.DY == 0 {
			return
		}
		r.store.Add(keyframe.NewScroll(ev.DX, ev.DY, now, scrollDuration))
	}
}
