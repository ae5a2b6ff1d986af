package recorder

import (
	"math"
	"testing"

	"macroseq/internal/input"
	"macroseq/internal/keyframe"
	"macroseq/internal/timeline"
)

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

// TestPressReleaseBecomesHold tests the provisional-then-finalize pairing
func TestPressReleaseBecomesHold(t *testing.T) {
	s := timeline.New()
	r := New(s)
	r.Start()

	r.Handle(input.Event{Kind: input.KindKeyDown, KeyCode: 0x41}, 1.0)
	r.Handle(input.Event{Kind: input.KindKeyUp, KeyCode: 0x41}, 1.4)

	if s.Len() != 1 {
		t.Fatalf("Expected 1 keyframe, got %d", s.Len())
	}
	k := s.All()[0]
	if !approx(k.Timestamp, 1.0) {
		t.Errorf("Expected timestamp 1.0, got %v", k.Timestamp)
	}
	if !approx(k.Duration, 0.4) {
		t.Errorf("Expected duration 0.4, got %v", k.Duration)
	}
	if _, ok := k.Action.(keyframe.KeyPress); !ok {
		t.Errorf("Expected KeyPress action, got %T", k.Action)
	}
}

// TestUnmatchedReleaseIgnored tests that a stray release adds nothing
func TestUnmatchedReleaseIgnored(t *testing.T) {
	s := timeline.New()
	r := New(s)
	r.Start()

	r.Handle(input.Event{Kind: input.KindKeyUp, KeyCode: 0x41}, 1.0)
	r.Handle(input.Event{Kind: input.KindButtonUp, Button: 1}, 1.0)
	if s.Len() != 0 {
		t.Errorf("Expected no keyframes from unmatched releases, got %d", s.Len())
	}
}

// TestAutoRepeatIgnoredWhileHeld tests repeated downs don't stack frames
func TestAutoRepeatIgnoredWhileHeld(t *testing.T) {
	s := timeline.New()
	r := New(s)
	r.Start()

	for i := 0; i < 5; i++ {
		r.Handle(input.Event{Kind: input.KindKeyDown, KeyCode: 0x41}, float64(i)*0.05)
	}
	if s.Len() != 1 {
		t.Errorf("Expected 1 keyframe for a held key, got %d", s.Len())
	}
}

// TestUnknownKeyDropped tests the unknown-keycode drop policy
func TestUnknownKeyDropped(t *testing.T) {
	s := timeline.New()
	r := New(s)
	r.Start()

	r.Handle(input.Event{Kind: input.KindKeyDown, KeyCode: 0xFFFF}, 1.0)
	if s.Len() != 0 {
		t.Errorf("Expected unknown key to be dropped, got %d keyframes", s.Len())
	}

	// Recording continues afterwards
	r.Handle(input.Event{Kind: input.KindKeyDown, KeyCode: 0x42}, 2.0)
	if s.Len() != 1 {
		t.Errorf("Expected recording to continue after a drop, got %d", s.Len())
	}
}

// TestMoveThinning tests that only every Nth pointer move is kept
func TestMoveThinning(t *testing.T) {
	s := timeline.New()
	r := New(s)
	r.SetMoveResolution(10)
	r.Start()

	for i := 0; i < 30; i++ {
		r.Handle(input.Event{Kind: input.KindPointerMove, X: float64(i), Y: 0}, float64(i)*0.01)
	}
	if s.Len() != 3 {
		t.Errorf("Expected 3 keyframes from 30 moves at resolution 10, got %d", s.Len())
	}
	for _, k := range s.All() {
		if !approx(k.Duration, 0.1) {
			t.Errorf("Expected fixed 0.1s move duration, got %v", k.Duration)
		}
	}
}

// TestZeroScrollDropped tests that empty wheel events are discarded
func TestZeroScrollDropped(t *testing.T) {
	s := timeline.New()
	r := New(s)
	r.Start()

	r.Handle(input.Event{Kind: input.KindScroll}, 1.0)
	if s.Len() != 0 {
		t.Errorf("Expected zero-delta scroll dropped, got %d", s.Len())
	}
	r.Handle(input.Event{Kind: input.KindScroll, DY: -2}, 1.0)
	if s.Len() != 1 {
		t.Errorf("Expected scroll with delta recorded, got %d", s.Len())
	}
}

// TestStopFinalizesOpenHolds tests that disarming closes held keys
func TestStopFinalizesOpenHolds(t *testing.T) {
	s := timeline.New()
	r := New(s)
	r.Start()

	r.Handle(input.Event{Kind: input.KindKeyDown, KeyCode: 0x41}, 1.0)
	r.Handle(input.Event{Kind: input.KindButtonDown, Button: 1}, 1.5)
	r.Stop(2.0)

	for _, k := range s.All() {
		if k.Duration == 0 {
			t.Errorf("Expected all holds finalized at stop, %s still open", k.Action)
		}
	}
	if r.Recording() {
		t.Error("Expected recorder disarmed after stop")
	}
}

// TestIgnoredWhileDisarmed tests events outside a recording do nothing
func TestIgnoredWhileDisarmed(t *testing.T) {
	s := timeline.New()
	r := New(s)

	r.Handle(input.Event{Kind: input.KindKeyDown, KeyCode: 0x41}, 1.0)
	if s.Len() != 0 {
		t.Errorf("Expected disarmed recorder to ignore events, got %d", s.Len())
	}
}

// TestClearOnStart tests the replace-the-old-take option
func TestClearOnStart(t *testing.T) {
	s := timeline.New()
	s.Add(keyframe.NewWait(0, 1))

	r := New(s)
	r.SetClearOnStart(true)
	r.Toggle(0)

	if s.Len() != 0 {
		t.Errorf("Expected store cleared at recording start, got %d", s.Len())
	}
	if !r.Recording() {
		t.Error("Expected toggle to arm the recorder")
	}
}
