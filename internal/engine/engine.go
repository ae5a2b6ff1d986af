// Package engine owns the session: the keyframe store, the playback clock,
// the recorder, the player, and the editing surface. The host loop creates
// one Engine and drives it with Tick; everything else reaches it through
// the control surface.
package engine

import (
	"log"
	"time"

	"github.com/google/uuid"

	"macroseq/internal/clock"
	"macroseq/internal/document"
	"macroseq/internal/editor"
	"macroseq/internal/hotkey"
	"macroseq/internal/input"
	"macroseq/internal/keyframe"
	"macroseq/internal/osutils"
	"macroseq/internal/player"
	"macroseq/internal/recorder"
	"macroseq/internal/timeline"
	"macroseq/internal/view"
)

// Options configure behaviour that the host decides once at startup
type Options struct {
	// MoveResolution thins recorded pointer moves to every Nth event.
	MoveResolution int
	// ClearBeforeRecording starts every take from an empty sequence.
	ClearBeforeRecording bool
	// RecordKey and StopKey are global control chords, e.g. "F8" / "Esc".
	// Empty disables them.
	RecordKey string
	StopKey   string
	// FailsafeEnabled stops playback when the captured pointer reaches
	// FailsafeEdge (screen x coordinate) or further left.
	FailsafeEnabled bool
	FailsafeEdge    float64
}

// State is the externally visible condition of the session
type State struct {
	Recording bool    `json:"recording"`
	Playing   bool    `json:"playing"`
	Time      float64 `json:"time"`
	Rate      float64 `json:"rate"`
	Scale     float64 `json:"scale"`
	Repeats   int     `json:"repeats"`
	Keyframes int     `json:"keyframes"`
}

// Engine wires the session parts together. Not safe for concurrent use:
// one goroutine owns it and calls Tick; the API layer forwards commands
// onto that goroutine.
type Engine struct {
	store    *timeline.Store
	clock    *clock.Clock
	editor   *editor.Editor
	recorder *recorder.Recorder
	player   *player.Player
	hotkeys  *hotkey.Manager

	capture   input.Capture
	transform view.Transform
	opts      Options

	onState func(State)
}

// New assembles an engine over the given capture and injection backends
func New(capture input.Capture, injector input.Injector, opts Options) *Engine {
	store := timeline.New()

	e := &Engine{
		store:    store,
		clock:    clock.New(),
		editor:   editor.New(store, 100),
		recorder: recorder.New(store),
		player:   player.New(store, injector),
		hotkeys:  hotkey.NewManager(),
		capture:  capture,
		transform: view.Transform{
			Scale: 1.0,
			Width: 800,
		},
		opts: opts,
	}

	if opts.MoveResolution > 0 {
		e.recorder.SetMoveResolution(opts.MoveResolution)
	}
	e.recorder.SetClearOnStart(opts.ClearBeforeRecording)

	if opts.RecordKey != "" {
		e.hotkeys.Register(opts.RecordKey, e.ToggleRecording)
	}
	if opts.StopKey != "" {
		e.hotkeys.Register(opts.StopKey, func() {
			if e.clock.Playing() {
				e.stopPlayback("stop key")
			}
		})
	}

	return e
}

// Start brings up the capture backend. A platform without capture is not
// fatal; recording just stays unavailable.
func (e *Engine) Start() error {
	return e.capture.Start()
}

// Stop shuts the engine down
func (e *Engine) Stop() {
	if e.recorder.Recording() {
		e.recorder.Stop(e.clock.Time())
	}
	e.clock.Pause()
	if err := e.capture.Stop(); err != nil {
		log.Printf("Engine: capture stop failed: %v", err)
	}
}

// SetStateCallback registers the listener notified after every state
// transition. Used by the API broadcaster.
func (e *Engine) SetStateCallback(cb func(State)) {
	e.onState = cb
}

func (e *Engine) notify() {
	if e.onState != nil {
		e.onState(e.State())
	}
}

// State reports the current session condition
func (e *Engine) State() State {
	return State{
		Recording: e.recorder.Recording(),
		Playing:   e.clock.Playing(),
		Time:      e.clock.Time(),
		Rate:      e.clock.Rate(),
		Scale:     e.transform.Scale,
		Repeats:   e.player.Repeats(),
		Keyframes: e.store.Len(),
	}
}

// Tick advances the session by one host frame: drain the capture queue,
// advance time, run the player.
func (e *Engine) Tick(dt time.Duration) {
	e.drainCapture()

	if e.recorder.Recording() {
		// Recording timestamps run in real time, independent of rate.
		e.clock.Seek(e.clock.Time() + dt.Seconds())
	}
	e.clock.Tick(dt)

	if e.clock.Playing() {
		res, err := e.player.Tick(e.clock.Time())
		if err != nil {
			log.Printf("Engine: playback aborted: %v", err)
			e.stopPlayback("injection failure")
			return
		}
		switch res {
		case player.Rewound:
			e.clock.Seek(0)
		case player.Finished:
			e.stopPlayback("end of sequence")
			return
		}
	}

	// Renderers track the playhead through the state stream.
	if e.clock.Playing() || e.recorder.Recording() {
		e.notify()
	}
}

func (e *Engine) drainCapture() {
	ch := e.capture.Events()
	if ch == nil {
		return
	}
	for {
		select {
		case ev, ok := <-ch:
			if !ok {
				return
			}
			e.handleEvent(ev)
		default:
			return
		}
	}
}

func (e *Engine) handleEvent(ev input.Event) {
	// Control chords win over recording so the toggle key never lands in
	// the take it starts.
	if e.hotkeys.Feed(ev) {
		return
	}

	if e.opts.FailsafeEnabled && e.clock.Playing() &&
		ev.Kind == input.KindPointerMove && ev.X <= e.opts.FailsafeEdge {
		e.stopPlayback("failsafe edge")
		return
	}

	e.recorder.Handle(ev, e.clock.Time())
}

func (e *Engine) stopPlayback(reason string) {
	e.clock.Pause()
	e.player.ReleaseActive()
	log.Printf("Engine: playback stopped (%s)", reason)
	e.notify()
}

// ToggleRecording arms or disarms the recorder. Starting a take stops
// playback; with clear-before-recording the playhead rewinds too.
func (e *Engine) ToggleRecording() {
	if e.clock.Playing() {
		e.stopPlayback("recording toggled")
	}

	if !e.recorder.Recording() && e.opts.ClearBeforeRecording {
		e.clock.Reset()
	}
	recording := e.recorder.Toggle(e.clock.Time())
	log.Printf("Engine: recording %v", recording)
	e.notify()
}

// TogglePlay starts or pauses playback from the current playhead.
// Starting playback ends an active recording first.
func (e *Engine) TogglePlay() {
	if e.recorder.Recording() {
		e.recorder.Stop(e.clock.Time())
	}
	if e.clock.TogglePlay() {
		osutils.WakeUp()
		// Resume, not restart: keyframes behind the playhead stay done
		// so pausing never replays history.
		e.player.Resume(e.clock.Time())
		log.Println("Engine: playback started")
	} else {
		e.player.ReleaseActive()
		log.Println("Engine: playback paused")
	}
	e.notify()
}

// ResetTime rewinds the playhead to zero. A run in progress restarts
// from the top rather than stopping.
func (e *Engine) ResetTime() {
	e.player.ReleaseActive()
	e.clock.Reset()
	e.player.Begin()
	e.notify()
}

// Seek moves the playhead to an absolute time. Keyframes behind the new
// position are treated as already played.
func (e *Engine) Seek(t float64) {
	e.player.ReleaseActive()
	e.clock.Seek(t)
	e.player.Resume(e.clock.Time())
	e.notify()
}

// StepTime nudges the playhead forward by one step
func (e *Engine) StepTime() {
	e.clock.Step()
	e.notify()
}

// NewSequence discards the current sequence and starts empty
func (e *Engine) NewSequence() {
	if e.recorder.Recording() {
		e.recorder.Stop(e.clock.Time())
	}
	if e.clock.Playing() {
		e.stopPlayback("new sequence")
	}
	e.clock.Reset()
	e.store.Clear()
	log.Println("Engine: new sequence")
	e.notify()
}

// Snapshot captures the session for persistence
func (e *Engine) Snapshot() document.Snapshot {
	return document.Capture(e.store, e.transform.Scale, e.clock.Rate(), e.player.Repeats())
}

// Restore replaces the session from a snapshot. Validation is
// all-or-nothing: on error the live session is untouched.
func (e *Engine) Restore(snap document.Snapshot) error {
	frames, err := document.Restore(snap)
	if err != nil {
		return err
	}

	if e.recorder.Recording() {
		e.recorder.Stop(e.clock.Time())
	}
	if e.clock.Playing() {
		e.stopPlayback("session restored")
	}
	e.clock.Reset()
	e.store.Replace(frames)
	e.transform.Scale = view.ClampScale(snap.Scale)
	e.clock.SetRate(snap.Speed)
	e.player.SetRepeats(snap.Repeats)
	log.Printf("Engine: restored %d keyframes", len(frames))
	e.notify()
	return nil
}

// SaveFile writes the session to disk
func (e *Engine) SaveFile(path string) error {
	return document.Save(path, e.Snapshot())
}

// LoadFile replaces the session from a file on disk
func (e *Engine) LoadFile(path string) error {
	snap, err := document.Load(path)
	if err != nil {
		return err
	}
	return e.Restore(snap)
}

// AddKeyframe appends an explicit user-created keyframe and selects it
func (e *Engine) AddKeyframe(k keyframe.Keyframe) {
	e.store.Add(k)
	e.store.Select(k.ID)
	e.notify()
}

// DeleteSelected removes the selected keyframe, if any
func (e *Engine) DeleteSelected() {
	if id, ok := e.store.Selected(); ok {
		e.store.Remove(id)
		e.notify()
	}
}

// RemoveKeyframe removes a keyframe by id
func (e *Engine) RemoveKeyframe(id uuid.UUID) bool {
	_, ok := e.store.Remove(id)
	if ok {
		e.notify()
	}
	return ok
}

// Zoom adjusts the timeline scale by a delta, clamped to the valid range
func (e *Engine) Zoom(delta float64) {
	e.transform.Scale = view.ClampScale(e.transform.Scale + delta)
	e.notify()
}

// SetRepeats sets how many times playback runs the sequence
func (e *Engine) SetRepeats(n int) {
	e.player.SetRepeats(n)
	e.notify()
}

// SetRate sets the playback speed
func (e *Engine) SetRate(rate float64) {
	e.clock.SetRate(rate)
	e.notify()
}

// Undo reverts the latest edit
func (e *Engine) Undo() bool {
	ok := e.store.Undo()
	if ok {
		e.notify()
	}
	return ok
}

// Redo replays the latest undone edit
func (e *Engine) Redo() bool {
	ok := e.store.Redo()
	if ok {
		e.notify()
	}
	return ok
}

// SetViewport sizes the timeline surface for hit testing and geometry
func (e *Engine) SetViewport(width, height float64) {
	e.transform.Width = width
	e.editor.SetSurfaceHeight(height)
}

// ScrollTo positions the left edge of the visible window, in seconds
func (e *Engine) ScrollTo(t float64) {
	if t < 0 {
		t = 0
	}
	e.transform.Scroll = t
}

// Transform exposes the current view mapping for geometry consumers
func (e *Engine) Transform() view.Transform {
	return e.transform
}

// Store exposes the keyframe store for read-mostly consumers
func (e *Engine) Store() *timeline.Store {
	return e.store
}

// PointerDown forwards a surface press to the editor
func (e *Engine) PointerDown(x, y float64) {
	e.editor.PointerDown(e.transform, x, y)
}

// PointerMove forwards surface movement and returns the cursor hint
func (e *Engine) PointerMove(x, y float64) editor.Cursor {
	return e.editor.PointerMove(e.transform, x, y)
}

// PointerUp forwards a surface release to the editor
func (e *Engine) PointerUp() {
	e.editor.PointerUp()
}
