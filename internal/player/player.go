// Package player replays a sequence through an input.Injector. Scheduling
// is edge-triggered: each tick compares the playhead with every keyframe's
// window and emits only on entering or leaving it, so a frame drop never
// double-fires a press.
package player

import (
	"fmt"
	"log"

	"github.com/google/uuid"

	"macroseq/internal/input"
	"macroseq/internal/keyframe"
	"macroseq/internal/timeline"
)

// Result tells the engine what the tick decided about the run
type Result int

const (
	// Running means the playhead is still inside the sequence
	Running Result = iota
	// Rewound means a repeat started; the engine should seek to zero
	Rewound
	// Finished means the last repeat completed; the engine should stop
	Finished
)

type phase int

const (
	pending phase = iota
	active
	done
)

type glide struct {
	startX, startY float64
}

// Player walks the store against the playhead and injects actions
type Player struct {
	store    *timeline.Store
	injector input.Injector

	repeats int
	runs    int

	phases map[uuid.UUID]phase
	glides map[uuid.UUID]glide

	pointerKnown bool
	pointerX     float64
	pointerY     float64
}

// New creates a player replaying the store through the injector
func New(store *timeline.Store, injector input.Injector) *Player {
	return &Player{
		store:    store,
		injector: injector,
		repeats:  1,
	}
}

// SetRepeats sets how many times the sequence runs per play; n < 1 is ignored
func (p *Player) SetRepeats(n int) {
	if n < 1 {
		return
	}
	p.repeats = n
}

// Repeats returns the configured run count
func (p *Player) Repeats() int {
	return p.repeats
}

// Begin resets the per-run scheduling state ahead of a new play from zero
func (p *Player) Begin() {
	p.runs = 0
	p.rewind()
}

// Resume prepares playback from a mid-sequence playhead. Keyframes the
// playhead has already passed are marked done so resuming from pause
// never re-injects history; a frame containing t re-enters normally.
func (p *Player) Resume(t float64) {
	p.Begin()
	for _, k := range p.store.All() {
		if k.End() < t {
			p.phases[k.ID] = done
		}
	}
}

// ReleaseActive injects the release half of every hold still active, so
// stopping or pausing mid-sequence never leaves a key or button
// physically pressed. Release failures are logged; the stop proceeds.
func (p *Player) ReleaseActive() {
	for id, ph := range p.phases {
		if ph != active {
			continue
		}
		k, ok := p.store.Get(id)
		if !ok {
			continue
		}
		switch a := k.Action.(type) {
		case keyframe.KeyPress:
			if err := p.injector.Key(a.Code, false); err != nil {
				log.Printf("Player: release failed for %s: %v", k.Action, err)
			}
		case keyframe.MouseButton:
			if err := p.injector.Button(a.Button, false); err != nil {
				log.Printf("Player: release failed for %s: %v", k.Action, err)
			}
		}
		p.phases[id] = done
		delete(p.glides, id)
	}
}

func (p *Player) rewind() {
	p.phases = make(map[uuid.UUID]phase)
	p.glides = make(map[uuid.UUID]glide)
}

// Tick evaluates the sequence at playhead time t. An injection failure
// aborts immediately and leaves the store untouched.
func (p *Player) Tick(t float64) (Result, error) {
	for _, k := range p.store.Sorted() {
		ph := p.phases[k.ID]

		if ph == pending && t >= k.Timestamp {
			if err := p.enter(k); err != nil {
				return Finished, fmt.Errorf("injecting %s: %w", k.Action, err)
			}
			ph = active
			p.phases[k.ID] = active
		}

		if ph == active {
			if t > k.End() {
				if err := p.leave(k); err != nil {
					return Finished, fmt.Errorf("injecting %s: %w", k.Action, err)
				}
				p.phases[k.ID] = done
			} else if err := p.during(k, t); err != nil {
				return Finished, fmt.Errorf("injecting %s: %w", k.Action, err)
			}
		}
	}

	if p.store.Len() > 0 && t > p.store.LastEnd() {
		p.runs++
		if p.runs < p.repeats {
			log.Printf("Player: repeat %d of %d", p.runs+1, p.repeats)
			p.rewind()
			return Rewound, nil
		}
		return Finished, nil
	}
	return Running, nil
}

// enter fires when the playhead crosses into a keyframe's window
func (p *Player) enter(k keyframe.Keyframe) error {
	switch a := k.Action.(type) {
	case keyframe.KeyPress:
		return p.injector.Key(a.Code, true)

	case keyframe.MouseButton:
		return p.injector.Button(a.Button, true)

	case keyframe.MouseMove:
		if !p.pointerKnown {
			// No origin to glide from; jump straight to the target.
			p.pointerX, p.pointerY = a.X, a.Y
			p.pointerKnown = true
			return p.injector.MovePointer(int(a.X), int(a.Y))
		}
		p.glides[k.ID] = glide{startX: p.pointerX, startY: p.pointerY}
		return nil

	case keyframe.Scroll:
		return p.injector.Scroll(int(a.DX), int(a.DY))

	case keyframe.Wait:
		return nil
	}
	return nil
}

// during runs every tick a keyframe stays active; only glides care
func (p *Player) during(k keyframe.Keyframe, t float64) error {
	a, ok := k.Action.(keyframe.MouseMove)
	if !ok {
		return nil
	}
	g, ok := p.glides[k.ID]
	if !ok {
		return nil
	}

	progress := 1.0
	if k.Duration > 0 {
		progress = (t - k.Timestamp) / k.Duration
	}
	if progress > 1 {
		progress = 1
	}

	x := lerp(g.startX, a.X, progress)
	y := lerp(g.startY, a.Y, progress)
	p.pointerX, p.pointerY = x, y
	return p.injector.MovePointer(int(x), int(y))
}

// leave fires when the playhead crosses out of the window
func (p *Player) leave(k keyframe.Keyframe) error {
	switch a := k.Action.(type) {
	case keyframe.KeyPress:
		return p.injector.Key(a.Code, false)

	case keyframe.MouseButton:
		return p.injector.Button(a.Button, false)

	case keyframe.MouseMove:
		p.pointerX, p.pointerY = a.X, a.Y
		p.pointerKnown = true
		if _, gliding := p.glides[k.ID]; !gliding {
			return nil // landed on entry, nothing to settle
		}
		// Land exactly on the target even if no tick hit progress 1.0.
		delete(p.glides, k.ID)
		return p.injector.MovePointer(int(a.X), int(a.Y))
	}
	return nil
}

func lerp(from, to, progress float64) float64 {
	return from + (to-from)*progress
}
