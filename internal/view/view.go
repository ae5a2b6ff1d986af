// Package view maps sequence time onto horizontal pixels for the timeline
// surface. The engine has no renderer; these coordinates feed the editor's
// hit testing and the API's geometry payloads.
package view

import (
	"macroseq/internal/keyframe"
)

const (
	basePitch = 20.0 // px per second at scale 0
	pitchSpan = 40.0 // px per second gained per unit of scale

	// MinScale and MaxScale bound the zoom factor.
	MinScale = 0.01
	MaxScale = 10.0

	// minKeyframeWidth keeps zero-duration frames clickable.
	minKeyframeWidth = 3.0
)

// Transform describes the visible window onto the timeline: a zoom scale,
// the width of the surface in pixels, and the scroll position in seconds.
type Transform struct {
	Scale  float64
	Width  float64
	Scroll float64
}

// Rect is an axis-aligned pixel rectangle on the timeline surface
type Rect struct {
	X, Y, W, H float64
}

// Lane is the vertical band a timeline row occupies
type Lane struct {
	Top    float64
	Height float64
}

// ClampScale bounds a zoom factor to the supported range
func ClampScale(scale float64) float64 {
	if scale < MinScale {
		return MinScale
	}
	if scale > MaxScale {
		return MaxScale
	}
	return scale
}

// Pitch returns the horizontal pixels covered by one second of sequence
// time at the current scale.
func (t Transform) Pitch() float64 {
	return t.Width / (t.Width / (basePitch + t.Scale*pitchSpan))
}

// TimeToOffset converts a sequence time to a pixel offset from t=0
func (t Transform) TimeToOffset(sec float64) float64 {
	return sec * t.Pitch()
}

// OffsetToTime converts a pixel offset from t=0 back to sequence time
func (t Transform) OffsetToTime(px float64) float64 {
	return px / t.Pitch()
}

// VisibleSpan returns the [from, to] window of sequence time on screen
func (t Transform) VisibleSpan() (from, to float64) {
	from = t.Scroll
	to = t.Scroll + t.Width/t.Pitch()
	return from, to
}

// KeyframeRect places a keyframe on the surface. The width never drops
// below the minimum so short frames stay hittable, and the rectangle is
// clipped to the visible window. Returns false when the frame is entirely
// off screen.
func (t Transform) KeyframeRect(ts, duration float64, lane Lane) (Rect, bool) {
	from, to := t.VisibleSpan()
	if ts+duration < from || ts > to {
		return Rect{}, false
	}

	x := t.TimeToOffset(ts - t.Scroll)
	w := t.TimeToOffset(duration)
	if w < minKeyframeWidth {
		w = minKeyframeWidth
	}

	// Clip to the surface
	if x < 0 {
		w += x
		x = 0
	}
	if x+w > t.Width {
		w = t.Width - x
	}
	if w < 0 {
		w = 0
	}

	return Rect{X: x, Y: lane.Top, W: w, H: lane.Height}, true
}

// LaneFor returns the band for a timeline row given the surface split:
// keyboard on top, pointer below, equal heights.
func LaneFor(lane keyframe.Lane, surfaceHeight float64) Lane {
	half := surfaceHeight / 2
	if lane == keyframe.LaneKeyboard {
		return Lane{Top: 0, Height: half}
	}
	return Lane{Top: half, Height: half}
}

// Contains reports whether a point is inside the rectangle
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.W && y >= r.Y && y <= r.Y+r.H
}
