// Package timeline holds the working set of keyframes for a session.
package timeline

import (
	"sort"

	"github.com/google/uuid"

	"macroseq/internal/keyframe"
)

// Store is the ordered collection of keyframes plus the transient selection.
// Frames keep their insertion order; playback order is derived on demand.
// Not safe for concurrent use; the engine owns it from a single loop.
type Store struct {
	frames   []keyframe.Keyframe
	selected uuid.UUID

	undo []Change
	redo []Change
}

// New creates an empty store
func New() *Store {
	return &Store{}
}

// Add appends a keyframe. A negative timestamp is clamped to zero rather
// than rejected, so recording jitter around t=0 never loses a frame.
func (s *Store) Add(k keyframe.Keyframe) {
	if k.Timestamp < 0 {
		k.Timestamp = 0
	}
	s.frames = append(s.frames, k)
	s.push(Added{Frame: k})
}

// Remove deletes a keyframe by id and returns it
func (s *Store) Remove(id uuid.UUID) (keyframe.Keyframe, bool) {
	for i, k := range s.frames {
		if k.ID == id {
			s.frames = append(s.frames[:i], s.frames[i+1:]...)
			if s.selected == id {
				s.selected = uuid.Nil
			}
			s.push(Removed{Frame: k, Index: i})
			return k, true
		}
	}
	return keyframe.Keyframe{}, false
}

// Get returns a copy of the keyframe with the given id
func (s *Store) Get(id uuid.UUID) (keyframe.Keyframe, bool) {
	for _, k := range s.frames {
		if k.ID == id {
			return k, true
		}
	}
	return keyframe.Keyframe{}, false
}

// Shift moves a keyframe in time without touching the history; the editor
// calls this once per pointer move and records the whole gesture at
// pointer-up. Clamping keeps timestamp and duration non-negative, and the
// returned values are the deltas actually applied.
func (s *Store) Shift(id uuid.UUID, dt, dd float64) (appliedDT, appliedDD float64, ok bool) {
	for i := range s.frames {
		if s.frames[i].ID != id {
			continue
		}
		k := &s.frames[i]
		if k.Timestamp+dt < 0 {
			dt = -k.Timestamp
		}
		if k.Duration+dd < 0 {
			dd = -k.Duration
		}
		k.Timestamp += dt
		k.Duration += dd
		return dt, dd, true
	}
	return 0, 0, false
}

// Finalize closes a provisional hold in place (no history entry; the Add
// that opened it already has one).
func (s *Store) Finalize(id uuid.UUID, release float64) bool {
	for i := range s.frames {
		if s.frames[i].ID == id {
			s.frames[i].Finalize(release)
			return true
		}
	}
	return false
}

// Lane returns the keyframes on one timeline row, in insertion order
func (s *Store) Lane(lane keyframe.Lane) []keyframe.Keyframe {
	var out []keyframe.Keyframe
	for _, k := range s.frames {
		if k.Lane() == lane {
			out = append(out, k)
		}
	}
	return out
}

// Select marks a keyframe as selected; uuid.Nil clears the selection
func (s *Store) Select(id uuid.UUID) {
	s.selected = id
}

// Selected returns the selected keyframe id, if any
func (s *Store) Selected() (uuid.UUID, bool) {
	if s.selected == uuid.Nil {
		return uuid.Nil, false
	}
	return s.selected, true
}

// Clear empties the store, the selection, and the history
func (s *Store) Clear() {
	s.frames = nil
	s.selected = uuid.Nil
	s.undo = nil
	s.redo = nil
}

// Len returns the number of keyframes
func (s *Store) Len() int {
	return len(s.frames)
}

// All returns a copy of the keyframes in insertion order
func (s *Store) All() []keyframe.Keyframe {
	out := make([]keyframe.Keyframe, len(s.frames))
	copy(out, s.frames)
	return out
}

// Sorted returns a copy of the keyframes in start-time order. Ties keep
// insertion order so overlapping frames replay deterministically.
func (s *Store) Sorted() []keyframe.Keyframe {
	out := s.All()
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp < out[j].Timestamp
	})
	return out
}

// LastEnd returns the end time of the latest-ending keyframe, or 0
func (s *Store) LastEnd() float64 {
	var end float64
	for _, k := range s.frames {
		if k.End() > end {
			end = k.End()
		}
	}
	return end
}

// Replace swaps the entire contents, dropping selection and history. Used
// by document restore once a snapshot has fully validated.
func (s *Store) Replace(frames []keyframe.Keyframe) {
	s.Clear()
	s.frames = append(s.frames, frames...)
}

func (s *Store) insert(index int, k keyframe.Keyframe) {
	if index < 0 {
		index = 0
	}
	if index > len(s.frames) {
		index = len(s.frames)
	}
	s.frames = append(s.frames, keyframe.Keyframe{})
	copy(s.frames[index+1:], s.frames[index:])
	s.frames[index] = k
}

func (s *Store) removeByID(id uuid.UUID) {
	for i, k := range s.frames {
		if k.ID == id {
			s.frames = append(s.frames[:i], s.frames[i+1:]...)
			if s.selected == id {
				s.selected = uuid.Nil
			}
			return
		}
	}
}
