package timeline

import (
	"github.com/google/uuid"

	"macroseq/internal/keyframe"
)

// Change is one undoable edit. Selection is transient and never recorded.
type Change interface {
	isChange()
}

// Added records a keyframe append
type Added struct {
	Frame keyframe.Keyframe
}

// Removed records a deletion and where the frame sat
type Removed struct {
	Frame keyframe.Keyframe
	Index int
}

// Shifted records a completed drag or resize gesture as net deltas
type Shifted struct {
	ID            uuid.UUID
	DeltaTime     float64
	DeltaDuration float64
}

func (Added) isChange()   {}
func (Removed) isChange() {}
func (Shifted) isChange() {}

// push appends to the undo stack and invalidates the redo branch
func (s *Store) push(c Change) {
	s.undo = append(s.undo, c)
	s.redo = nil
}

// PushChange records an externally assembled change, such as the single
// Shifted entry the editor emits for a whole pointer gesture.
func (s *Store) PushChange(c Change) {
	s.push(c)
}

// Undo reverts the most recent change
func (s *Store) Undo() bool {
	if len(s.undo) == 0 {
		return false
	}
	c := s.undo[len(s.undo)-1]
	s.undo = s.undo[:len(s.undo)-1]

	switch ch := c.(type) {
	case Added:
		s.removeByID(ch.Frame.ID)
	case Removed:
		s.insert(ch.Index, ch.Frame)
	case Shifted:
		s.shiftRaw(ch.ID, -ch.DeltaTime, -ch.DeltaDuration)
	}

	s.redo = append(s.redo, c)
	return true
}

// Redo replays the most recently undone change
func (s *Store) Redo() bool {
	if len(s.redo) == 0 {
		return false
	}
	c := s.redo[len(s.redo)-1]
	s.redo = s.redo[:len(s.redo)-1]

	switch ch := c.(type) {
	case Added:
		s.frames = append(s.frames, ch.Frame)
	case Removed:
		s.removeByID(ch.Frame.ID)
	case Shifted:
		s.shiftRaw(ch.ID, ch.DeltaTime, ch.DeltaDuration)
	}

	s.undo = append(s.undo, c)
	return true
}

// CanUndo reports whether an undo step exists
func (s *Store) CanUndo() bool { return len(s.undo) > 0 }

// CanRedo reports whether a redo step exists
func (s *Store) CanRedo() bool { return len(s.redo) > 0 }

// shiftRaw applies deltas without clamping or history. History entries hold
// already-applied deltas, so reversing them cannot go negative.
func (s *Store) shiftRaw(id uuid.UUID, dt, dd float64) {
	for i := range s.frames {
		if s.frames[i].ID == id {
			s.frames[i].Timestamp += dt
			s.frames[i].Duration += dd
			return
		}
	}
}
