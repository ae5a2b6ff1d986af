package timeline

import (
	"math"
	"testing"

	"github.com/google/uuid"

	"macroseq/internal/keyframe"
)

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

// TestAddClampsNegativeTimestamp tests that early frames land at zero
func TestAddClampsNegativeTimestamp(t *testing.T) {
	s := New()
	k := keyframe.NewKeyPress(0x41, 0.5, 0.2)
	k.Timestamp = -0.3
	s.Add(k)

	got, ok := s.Get(k.ID)
	if !ok {
		t.Fatal("Expected keyframe to be stored")
	}
	if got.Timestamp != 0 {
		t.Errorf("Expected timestamp 0, got %v", got.Timestamp)
	}
}

// TestRemoveClearsSelection tests that deleting the selected frame deselects
func TestRemoveClearsSelection(t *testing.T) {
	s := New()
	k := keyframe.NewWait(1.0, 0.5)
	s.Add(k)
	s.Select(k.ID)

	if _, ok := s.Remove(k.ID); !ok {
		t.Fatal("Expected remove to succeed")
	}
	if _, ok := s.Selected(); ok {
		t.Error("Expected selection to be cleared after remove")
	}
	if s.Len() != 0 {
		t.Errorf("Expected empty store, got %d frames", s.Len())
	}
}

// TestShiftClamps tests that shifts never push times negative
func TestShiftClamps(t *testing.T) {
	s := New()
	k := keyframe.NewMouseButton(1, 0.2, 0.3)
	s.Add(k)

	dt, dd, ok := s.Shift(k.ID, -1.0, -1.0)
	if !ok {
		t.Fatal("Expected shift to find the keyframe")
	}
	if !approx(dt, -0.2) {
		t.Errorf("Expected applied time delta -0.2, got %v", dt)
	}
	if !approx(dd, -0.3) {
		t.Errorf("Expected applied duration delta -0.3, got %v", dd)
	}

	got, _ := s.Get(k.ID)
	if got.Timestamp != 0 || got.Duration != 0 {
		t.Errorf("Expected frame clamped to (0, 0), got (%v, %v)", got.Timestamp, got.Duration)
	}
}

// TestLaneSplit tests that lanes partition the store
func TestLaneSplit(t *testing.T) {
	s := New()
	s.Add(keyframe.NewKeyPress(0x41, 0, 0.1))
	s.Add(keyframe.NewMouseButton(1, 0, 0.1))
	s.Add(keyframe.NewMouseMove(10, 10, 0, 0.1))

	if got := len(s.Lane(keyframe.LaneKeyboard)); got != 1 {
		t.Errorf("Expected 1 keyboard frame, got %d", got)
	}
	if got := len(s.Lane(keyframe.LanePointer)); got != 2 {
		t.Errorf("Expected 2 pointer frames, got %d", got)
	}
}

// TestClear tests that clear resets frames, selection, and history
func TestClear(t *testing.T) {
	s := New()
	k := keyframe.NewWait(0, 1)
	s.Add(k)
	s.Select(k.ID)
	s.Clear()

	if s.Len() != 0 {
		t.Errorf("Expected empty store, got %d frames", s.Len())
	}
	if _, ok := s.Selected(); ok {
		t.Error("Expected selection cleared")
	}
	if s.CanUndo() {
		t.Error("Expected history cleared")
	}
}

// TestSortedByStartTime tests derived playback ordering
func TestSortedByStartTime(t *testing.T) {
	s := New()
	a := keyframe.NewWait(2.0, 0.1)
	b := keyframe.NewWait(0.5, 0.1)
	c := keyframe.NewWait(1.0, 0.1)
	s.Add(a)
	s.Add(b)
	s.Add(c)

	sorted := s.Sorted()
	if sorted[0].ID != b.ID || sorted[1].ID != c.ID || sorted[2].ID != a.ID {
		t.Error("Expected frames sorted by timestamp")
	}

	// Insertion order untouched
	all := s.All()
	if all[0].ID != a.ID {
		t.Error("Expected All to keep insertion order")
	}
}

// TestLastEnd tests the latest end-time derivation
func TestLastEnd(t *testing.T) {
	s := New()
	if s.LastEnd() != 0 {
		t.Errorf("Expected 0 for empty store, got %v", s.LastEnd())
	}
	s.Add(keyframe.NewWait(1.0, 0.5))
	s.Add(keyframe.NewWait(0.2, 2.0))
	if !approx(s.LastEnd(), 2.2) {
		t.Errorf("Expected last end 2.2, got %v", s.LastEnd())
	}
}

// TestUndoRedoAdd tests reverting and replaying an append
func TestUndoRedoAdd(t *testing.T) {
	s := New()
	k := keyframe.NewWait(1.0, 0.5)
	s.Add(k)

	if !s.Undo() {
		t.Fatal("Expected undo to succeed")
	}
	if s.Len() != 0 {
		t.Errorf("Expected empty store after undo, got %d", s.Len())
	}

	if !s.Redo() {
		t.Fatal("Expected redo to succeed")
	}
	if _, ok := s.Get(k.ID); !ok {
		t.Error("Expected keyframe back after redo")
	}
}

// TestUndoRemoveRestoresPosition tests that undo reinserts where it was
func TestUndoRemoveRestoresPosition(t *testing.T) {
	s := New()
	a := keyframe.NewWait(0, 0.1)
	b := keyframe.NewWait(1, 0.1)
	c := keyframe.NewWait(2, 0.1)
	s.Add(a)
	s.Add(b)
	s.Add(c)

	s.Remove(b.ID)
	s.Undo()

	all := s.All()
	if len(all) != 3 || all[1].ID != b.ID {
		t.Error("Expected removed frame reinserted at its old index")
	}
}

// TestUndoShiftedGesture tests reverting a recorded gesture
func TestUndoShiftedGesture(t *testing.T) {
	s := New()
	k := keyframe.NewMouseButton(1, 2.0, 1.0)
	s.Add(k)

	dt, dd, _ := s.Shift(k.ID, 0.3, -0.3)
	s.PushChange(Shifted{ID: k.ID, DeltaTime: dt, DeltaDuration: dd})

	s.Undo()
	got, _ := s.Get(k.ID)
	if !approx(got.Timestamp, 2.0) || !approx(got.Duration, 1.0) {
		t.Errorf("Expected (2.0, 1.0) after undo, got (%v, %v)", got.Timestamp, got.Duration)
	}

	s.Redo()
	got, _ = s.Get(k.ID)
	if !approx(got.Timestamp, 2.3) || !approx(got.Duration, 0.7) {
		t.Errorf("Expected (2.3, 0.7) after redo, got (%v, %v)", got.Timestamp, got.Duration)
	}
}

// TestNewEditInvalidatesRedo tests the redo branch is dropped on a new edit
func TestNewEditInvalidatesRedo(t *testing.T) {
	s := New()
	s.Add(keyframe.NewWait(0, 1))
	s.Undo()
	s.Add(keyframe.NewWait(1, 1))

	if s.CanRedo() {
		t.Error("Expected redo branch invalidated by new edit")
	}
}

// TestSelectNilClears tests explicit deselection
func TestSelectNilClears(t *testing.T) {
	s := New()
	k := keyframe.NewWait(0, 1)
	s.Add(k)
	s.Select(k.ID)
	s.Select(uuid.Nil)
	if _, ok := s.Selected(); ok {
		t.Error("Expected selection cleared by Nil select")
	}
}
