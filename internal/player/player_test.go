package player

import (
	"errors"
	"testing"

	"macroseq/internal/keyframe"
	"macroseq/internal/timeline"
)

type keyCall struct {
	code    uint16
	pressed bool
}

type buttonCall struct {
	button  int
	pressed bool
}

// fakeInjector records every injection; err makes all calls fail
type fakeInjector struct {
	keys    []keyCall
	buttons []buttonCall
	moves   [][2]int
	scrolls [][2]int
	err     error
}

func (f *fakeInjector) MovePointer(x, y int) error {
	f.moves = append(f.moves, [2]int{x, y})
	return f.err
}

func (f *fakeInjector) Button(button int, pressed bool) error {
	f.buttons = append(f.buttons, buttonCall{button, pressed})
	return f.err
}

func (f *fakeInjector) Key(code uint16, pressed bool) error {
	f.keys = append(f.keys, keyCall{code, pressed})
	return f.err
}

func (f *fakeInjector) Scroll(dx, dy int) error {
	f.scrolls = append(f.scrolls, [2]int{dx, dy})
	return f.err
}

// TestKeyHoldEdges tests press on entry and release on exit, exactly once
func TestKeyHoldEdges(t *testing.T) {
	s := timeline.New()
	s.Add(keyframe.NewKeyPress(0x41, 1.0, 0.4))

	inj := &fakeInjector{}
	p := New(s, inj)
	p.Begin()

	for _, tick := range []float64{0.5, 1.0, 1.2, 1.39} {
		if _, err := p.Tick(tick); err != nil {
			t.Fatalf("Tick(%v) failed: %v", tick, err)
		}
	}
	if len(inj.keys) != 1 || !inj.keys[0].pressed {
		t.Fatalf("Expected exactly one press inside the window, got %v", inj.keys)
	}

	if _, err := p.Tick(1.41); err != nil {
		t.Fatal(err)
	}
	if len(inj.keys) != 2 || inj.keys[1].pressed {
		t.Fatalf("Expected a release after the window, got %v", inj.keys)
	}
}

// TestZeroDurationClick tests a click fires both edges in one tick
func TestZeroDurationClick(t *testing.T) {
	s := timeline.New()
	s.Add(keyframe.NewMouseButton(1, 1.0, 0))

	inj := &fakeInjector{}
	p := New(s, inj)
	p.Begin()

	if _, err := p.Tick(1.05); err != nil {
		t.Fatal(err)
	}
	if len(inj.buttons) != 2 || !inj.buttons[0].pressed || inj.buttons[1].pressed {
		t.Fatalf("Expected press then release, got %v", inj.buttons)
	}
}

// TestGlideInterpolates tests a move glides between positions over its span
func TestGlideInterpolates(t *testing.T) {
	s := timeline.New()
	s.Add(keyframe.NewMouseMove(0, 0, 0, 0))
	s.Add(keyframe.NewMouseMove(100, 200, 1.0, 1.0))

	inj := &fakeInjector{}
	p := New(s, inj)
	p.Begin()

	p.Tick(0.0) // jump to the origin, no glide source yet
	p.Tick(1.5) // halfway through the second move
	p.Tick(2.1) // past the end

	if len(inj.moves) < 3 {
		t.Fatalf("Expected at least 3 pointer moves, got %v", inj.moves)
	}
	if inj.moves[0] != [2]int{0, 0} {
		t.Errorf("Expected initial jump to (0,0), got %v", inj.moves[0])
	}
	mid := inj.moves[1]
	if mid != [2]int{50, 100} {
		t.Errorf("Expected midpoint (50,100), got %v", mid)
	}
	last := inj.moves[len(inj.moves)-1]
	if last != [2]int{100, 200} {
		t.Errorf("Expected final landing on (100,200), got %v", last)
	}
}

// TestWaitInjectsNothing tests the delay variant stays silent
func TestWaitInjectsNothing(t *testing.T) {
	s := timeline.New()
	s.Add(keyframe.NewWait(0, 1.0))

	inj := &fakeInjector{}
	p := New(s, inj)
	p.Begin()
	p.Tick(0.5)

	if len(inj.keys)+len(inj.buttons)+len(inj.moves)+len(inj.scrolls) != 0 {
		t.Error("Expected wait keyframe to inject nothing")
	}
}

// TestScrollFiresOnce tests wheel emission on entry only
func TestScrollFiresOnce(t *testing.T) {
	s := timeline.New()
	s.Add(keyframe.NewScroll(0, -3, 1.0, 0.1))

	inj := &fakeInjector{}
	p := New(s, inj)
	p.Begin()
	p.Tick(1.0)
	p.Tick(1.05)

	if len(inj.scrolls) != 1 || inj.scrolls[0] != [2]int{0, -3} {
		t.Fatalf("Expected one scroll of (0,-3), got %v", inj.scrolls)
	}
}

// TestInjectionFailureAborts tests errors surface and the store survives
func TestInjectionFailureAborts(t *testing.T) {
	s := timeline.New()
	s.Add(keyframe.NewKeyPress(0x41, 0, 0.5))

	inj := &fakeInjector{err: errors.New("no permission")}
	p := New(s, inj)
	p.Begin()

	if _, err := p.Tick(0.1); err == nil {
		t.Fatal("Expected tick to surface the injection error")
	}
	if s.Len() != 1 {
		t.Errorf("Expected store untouched after failure, got %d frames", s.Len())
	}
}

// TestRepeatsRewindThenFinish tests the repeat counter
func TestRepeatsRewindThenFinish(t *testing.T) {
	s := timeline.New()
	s.Add(keyframe.NewWait(0, 0.5))

	p := New(s, &fakeInjector{})
	p.SetRepeats(2)
	p.Begin()

	res, err := p.Tick(0.6)
	if err != nil {
		t.Fatal(err)
	}
	if res != Rewound {
		t.Fatalf("Expected Rewound after first run, got %v", res)
	}

	res, err = p.Tick(0.6)
	if err != nil {
		t.Fatal(err)
	}
	if res != Finished {
		t.Fatalf("Expected Finished after last run, got %v", res)
	}
}

// TestResumeSkipsPlayedPrefix tests that restarting mid-sequence leaves
// keyframes behind the playhead done instead of firing their edges again
func TestResumeSkipsPlayedPrefix(t *testing.T) {
	s := timeline.New()
	s.Add(keyframe.NewKeyPress(0x41, 0, 0.1))
	s.Add(keyframe.NewKeyPress(0x42, 1.0, 0.1))

	inj := &fakeInjector{}
	p := New(s, inj)
	p.Begin()
	p.Tick(0.05)
	p.Tick(0.2) // first hold complete: one press, one release

	if len(inj.keys) != 2 {
		t.Fatalf("Expected press+release for the first hold, got %v", inj.keys)
	}

	p.Resume(0.2)
	if _, err := p.Tick(0.3); err != nil {
		t.Fatal(err)
	}
	if len(inj.keys) != 2 {
		t.Fatalf("Expected no re-injection of the played prefix, got %v", inj.keys)
	}

	// The keyframe ahead of the playhead still plays normally.
	p.Tick(1.0)
	if len(inj.keys) != 3 || inj.keys[2].code != 0x42 || !inj.keys[2].pressed {
		t.Fatalf("Expected the upcoming hold to press, got %v", inj.keys)
	}
}

// TestResumeReentersContainingFrame tests a hold spanning the playhead
// presses again on resume
func TestResumeReentersContainingFrame(t *testing.T) {
	s := timeline.New()
	s.Add(keyframe.NewKeyPress(0x41, 0, 1.0))

	inj := &fakeInjector{}
	p := New(s, inj)
	p.Resume(0.5)

	if _, err := p.Tick(0.6); err != nil {
		t.Fatal(err)
	}
	if len(inj.keys) != 1 || !inj.keys[0].pressed {
		t.Fatalf("Expected the spanning hold to re-press, got %v", inj.keys)
	}
}

// TestReleaseActiveClosesHolds tests stopping mid-hold emits the releases
func TestReleaseActiveClosesHolds(t *testing.T) {
	s := timeline.New()
	s.Add(keyframe.NewKeyPress(0x41, 0, 1.0))
	s.Add(keyframe.NewMouseButton(1, 0, 1.0))

	inj := &fakeInjector{}
	p := New(s, inj)
	p.Begin()
	p.Tick(0.5) // both holds active

	p.ReleaseActive()

	if len(inj.keys) != 2 || inj.keys[1].pressed {
		t.Fatalf("Expected a key release on stop, got %v", inj.keys)
	}
	if len(inj.buttons) != 2 || inj.buttons[1].pressed {
		t.Fatalf("Expected a button release on stop, got %v", inj.buttons)
	}

	// A second sweep has nothing left to release.
	p.ReleaseActive()
	if len(inj.keys) != 2 || len(inj.buttons) != 2 {
		t.Errorf("Expected ReleaseActive to be idempotent, got %v %v", inj.keys, inj.buttons)
	}
}

// TestSingleRunFinishes tests the default single pass
func TestSingleRunFinishes(t *testing.T) {
	s := timeline.New()
	s.Add(keyframe.NewWait(0, 0.5))

	p := New(s, &fakeInjector{})
	p.Begin()

	res, _ := p.Tick(0.3)
	if res != Running {
		t.Fatalf("Expected Running mid-sequence, got %v", res)
	}
	res, _ = p.Tick(0.6)
	if res != Finished {
		t.Fatalf("Expected Finished past the end, got %v", res)
	}
}
