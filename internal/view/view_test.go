package view

import (
	"math"
	"testing"

	"macroseq/internal/keyframe"
)

// TestTransformInvertible tests that time -> offset -> time round-trips
// within a millisecond across the supported range.
func TestTransformInvertible(t *testing.T) {
	for _, scale := range []float64{0.01, 0.05, 0.25, 0.5, 1.0} {
		tr := Transform{Scale: scale, Width: 1920}
		for sec := 0.0; sec < 10000; sec += 97.3 {
			got := tr.OffsetToTime(tr.TimeToOffset(sec))
			if math.Abs(got-sec) >= 1e-3 {
				t.Fatalf("Round trip at t=%v scale=%v: got %v", sec, scale, got)
			}
		}
	}
}

// TestPitchGrowsWithScale tests that zooming in widens seconds
func TestPitchGrowsWithScale(t *testing.T) {
	low := Transform{Scale: 0.1, Width: 800}
	high := Transform{Scale: 2.0, Width: 800}
	if low.Pitch() >= high.Pitch() {
		t.Errorf("Expected pitch to grow with scale: %v vs %v", low.Pitch(), high.Pitch())
	}

	// Base constants: scale 1.0 gives 60 px/s
	tr := Transform{Scale: 1.0, Width: 800}
	if math.Abs(tr.Pitch()-60) > 1e-9 {
		t.Errorf("Expected pitch 60 at scale 1.0, got %v", tr.Pitch())
	}
}

// TestClampScale tests the zoom bounds
func TestClampScale(t *testing.T) {
	if got := ClampScale(0); got != MinScale {
		t.Errorf("Expected %v, got %v", MinScale, got)
	}
	if got := ClampScale(99); got != MaxScale {
		t.Errorf("Expected %v, got %v", MaxScale, got)
	}
	if got := ClampScale(1.5); got != 1.5 {
		t.Errorf("Expected 1.5 unchanged, got %v", got)
	}
}

// TestKeyframeRectMinWidth tests that zero-duration frames stay visible
func TestKeyframeRectMinWidth(t *testing.T) {
	tr := Transform{Scale: 1.0, Width: 800}
	lane := Lane{Top: 0, Height: 40}

	r, ok := tr.KeyframeRect(1.0, 0, lane)
	if !ok {
		t.Fatal("Expected frame to be visible")
	}
	if r.W != 3 {
		t.Errorf("Expected 3 px floor width, got %v", r.W)
	}
	if math.Abs(r.X-60) > 1e-9 {
		t.Errorf("Expected x=60 at t=1.0 scale=1.0, got %v", r.X)
	}
}

// TestKeyframeRectClipsToWindow tests visibility clipping
func TestKeyframeRectClipsToWindow(t *testing.T) {
	tr := Transform{Scale: 1.0, Width: 600, Scroll: 10} // window [10s, 20s]
	lane := Lane{Top: 40, Height: 40}

	// Entirely before the window
	if _, ok := tr.KeyframeRect(2.0, 1.0, lane); ok {
		t.Error("Expected frame before the window to be hidden")
	}
	// Entirely after the window
	if _, ok := tr.KeyframeRect(25.0, 1.0, lane); ok {
		t.Error("Expected frame after the window to be hidden")
	}
	// Straddling the left edge: clipped to x=0
	r, ok := tr.KeyframeRect(9.0, 2.0, lane)
	if !ok {
		t.Fatal("Expected straddling frame to be visible")
	}
	if r.X != 0 {
		t.Errorf("Expected clip to x=0, got %v", r.X)
	}
	if math.Abs(r.W-60) > 1e-9 {
		t.Errorf("Expected 1s of visible width (60 px), got %v", r.W)
	}
	// Straddling the right edge: width clipped to the surface
	r, ok = tr.KeyframeRect(19.5, 3.0, lane)
	if !ok {
		t.Fatal("Expected straddling frame to be visible")
	}
	if math.Abs(r.X+r.W-600) > 1e-9 {
		t.Errorf("Expected right edge at surface width, got %v", r.X+r.W)
	}
}

// TestLaneFor tests the two-row split
func TestLaneFor(t *testing.T) {
	kb := LaneFor(keyframe.LaneKeyboard, 100)
	pt := LaneFor(keyframe.LanePointer, 100)
	if kb.Top != 0 || kb.Height != 50 {
		t.Errorf("Unexpected keyboard lane: %+v", kb)
	}
	if pt.Top != 50 || pt.Height != 50 {
		t.Errorf("Unexpected pointer lane: %+v", pt)
	}
}

// TestRectContains tests point hit testing
func TestRectContains(t *testing.T) {
	r := Rect{X: 10, Y: 20, W: 30, H: 40}
	if !r.Contains(10, 20) || !r.Contains(40, 60) || !r.Contains(25, 35) {
		t.Error("Expected points on and inside the rect to hit")
	}
	if r.Contains(9, 35) || r.Contains(25, 61) {
		t.Error("Expected points outside the rect to miss")
	}
}
