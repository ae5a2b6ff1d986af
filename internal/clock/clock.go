// Package clock keeps the playhead for the sequence. It has no notion of
// where the sequence ends; the player decides that.
package clock

import (
	"time"
)

// stepSize is how far a single step nudges the playhead, in seconds.
const stepSize = 0.1

// Clock tracks the playhead position and playback rate. Rate scales wall
// time into sequence time, so 2.0 replays twice as fast.
type Clock struct {
	time    float64
	playing bool
	rate    float64
}

// New creates a stopped clock at t=0 with rate 1.0
func New() *Clock {
	return &Clock{rate: 1.0}
}

// Tick advances the playhead by one frame of wall time while playing
func (c *Clock) Tick(wallDelta time.Duration) {
	if !c.playing {
		return
	}
	c.time += wallDelta.Seconds() * c.rate
}

// TogglePlay flips between playing and paused and reports the new state
func (c *Clock) TogglePlay() bool {
	c.playing = !c.playing
	return c.playing
}

// Pause stops the clock without moving the playhead
func (c *Clock) Pause() {
	c.playing = false
}

// Reset rewinds the playhead to zero. The play state is untouched, so a
// reset during playback restarts the run; pausing is the caller's call.
func (c *Clock) Reset() {
	c.time = 0
}

// Step nudges the playhead forward regardless of play state
func (c *Clock) Step() {
	c.time += stepSize
}

// Seek moves the playhead to an absolute time, clamped at zero
func (c *Clock) Seek(t float64) {
	if t < 0 {
		t = 0
	}
	c.time = t
}

// SetRate sets the playback speed; values <= 0 are ignored
func (c *Clock) SetRate(rate float64) {
	if rate <= 0 {
		return
	}
	c.rate = rate
}

// Time returns the playhead position in seconds
func (c *Clock) Time() float64 { return c.time }

// Playing reports whether the clock is running
func (c *Clock) Playing() bool { return c.playing }

// Rate returns the playback speed
func (c *Clock) Rate() float64 { return c.rate }
