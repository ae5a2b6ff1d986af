// Package document persists a sequence as UTF-8 JSON. Restores are
// all-or-nothing: a snapshot either validates completely or the live
// session stays untouched.
package document

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"

	"macroseq/internal/input"
	"macroseq/internal/keyframe"
	"macroseq/internal/timeline"
)

// Version is written into every snapshot. Unknown future fields are
// ignored on load, so the number only bumps on breaking changes.
const Version = 1

const (
	typeKeyPress    = "key_press"
	typeMouseButton = "mouse_button"
	typeMouseMove   = "mouse_move"
	typeScroll      = "scroll"
	typeWait        = "wait"
)

// Snapshot is the serialized form of a session. Selection is transient
// and deliberately absent.
type Snapshot struct {
	Version   int           `json:"version"`
	Scale     float64       `json:"scale"`
	Speed     float64       `json:"speed"`
	Repeats   int           `json:"repeats"`
	Keyframes []KeyframeDoc `json:"keyframes"`
}

// KeyframeDoc is one serialized keyframe. The variant is a string
// discriminant derived from the action type at encode time; keys are
// stored by name so documents stay readable and diffable.
type KeyframeDoc struct {
	ID        string  `json:"id"`
	Timestamp float64 `json:"ts"`
	Duration  float64 `json:"duration"`
	Type      string  `json:"type"`

	Key     string  `json:"key,omitempty"`
	Button  int     `json:"button,omitempty"`
	X       float64 `json:"x,omitempty"`
	Y       float64 `json:"y,omitempty"`
	DX      float64 `json:"dx,omitempty"`
	DY      float64 `json:"dy,omitempty"`
	Seconds float64 `json:"seconds,omitempty"`
}

// Capture renders the live session into a snapshot
func Capture(store *timeline.Store, scale, speed float64, repeats int) Snapshot {
	snap := Snapshot{
		Version: Version,
		Scale:   scale,
		Speed:   speed,
		Repeats: repeats,
	}
	for _, k := range store.All() {
		snap.Keyframes = append(snap.Keyframes, encodeKeyframe(k))
	}
	return snap
}

func encodeKeyframe(k keyframe.Keyframe) KeyframeDoc {
	doc := KeyframeDoc{
		ID:        k.ID.String(),
		Timestamp: k.Timestamp,
		Duration:  k.Duration,
	}
	switch a := k.Action.(type) {
	case keyframe.KeyPress:
		doc.Type = typeKeyPress
		if name, ok := input.KeyName(a.Code); ok {
			doc.Key = name
		} else {
			doc.Key = fmt.Sprintf("0x%X", a.Code)
		}
	case keyframe.MouseButton:
		doc.Type = typeMouseButton
		doc.Button = a.Button
	case keyframe.MouseMove:
		doc.Type = typeMouseMove
		doc.X = a.X
		doc.Y = a.Y
	case keyframe.Scroll:
		doc.Type = typeScroll
		doc.DX = a.DX
		doc.DY = a.DY
	case keyframe.Wait:
		doc.Type = typeWait
		doc.Seconds = a.Seconds
	}
	return doc
}

// Restore validates a snapshot and materializes its keyframes. Any
// malformed record fails the whole restore.
func Restore(snap Snapshot) ([]keyframe.Keyframe, error) {
	frames := make([]keyframe.Keyframe, 0, len(snap.Keyframes))
	seen := make(map[uuid.UUID]bool, len(snap.Keyframes))

	for i, doc := range snap.Keyframes {
		k, err := decodeKeyframe(doc)
		if err != nil {
			return nil, fmt.Errorf("keyframe %d: %w", i, err)
		}
		if seen[k.ID] {
			return nil, fmt.Errorf("keyframe %d: duplicate id %s", i, k.ID)
		}
		seen[k.ID] = true
		frames = append(frames, k)
	}
	return frames, nil
}

// DecodeKeyframe materializes one serialized keyframe. An empty id is
// allowed and gets a fresh one, so API clients can add keyframes
// without minting uuids themselves.
func DecodeKeyframe(doc KeyframeDoc) (keyframe.Keyframe, error) {
	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}
	return decodeKeyframe(doc)
}

func decodeKeyframe(doc KeyframeDoc) (keyframe.Keyframe, error) {
	var k keyframe.Keyframe

	id, err := uuid.Parse(doc.ID)
	if err != nil {
		return k, fmt.Errorf("invalid id %q: %w", doc.ID, err)
	}
	if doc.Timestamp < 0 {
		return k, fmt.Errorf("negative timestamp %v", doc.Timestamp)
	}
	if doc.Duration < 0 {
		return k, fmt.Errorf("negative duration %v", doc.Duration)
	}

	var action keyframe.Action
	switch doc.Type {
	case typeKeyPress:
		code, ok := input.KeyCode(doc.Key)
		if !ok {
			return k, fmt.Errorf("unknown key %q", doc.Key)
		}
		action = keyframe.KeyPress{Code: code}
	case typeMouseButton:
		if doc.Button < 1 {
			return k, fmt.Errorf("invalid button %d", doc.Button)
		}
		action = keyframe.MouseButton{Button: doc.Button}
	case typeMouseMove:
		action = keyframe.MouseMove{X: doc.X, Y: doc.Y}
	case typeScroll:
		action = keyframe.Scroll{DX: doc.DX, DY: doc.DY}
	case typeWait:
		if doc.Seconds < 0 {
			return k, fmt.Errorf("negative wait %v", doc.Seconds)
		}
		action = keyframe.Wait{Seconds: doc.Seconds}
	default:
		return k, fmt.Errorf("unknown keyframe type %q", doc.Type)
	}

	return keyframe.Keyframe{
		ID:        id,
		Timestamp: doc.Timestamp,
		Duration:  doc.Duration,
		Action:    action,
	}, nil
}

// Encode serializes a snapshot as indented JSON
func Encode(snap Snapshot) ([]byte, error) {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode document: %w", err)
	}
	return data, nil
}

// Decode parses a snapshot, defaulting fields older documents lack.
// Fields this version does not know are ignored.
func Decode(data []byte) (Snapshot, error) {
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return snap, fmt.Errorf("failed to parse document: %w", err)
	}
	snap.normalize()
	return snap, nil
}

func (s *Snapshot) normalize() {
	if s.Version == 0 {
		s.Version = Version
	}
	if s.Scale <= 0 {
		s.Scale = 1.0
	}
	if s.Speed <= 0 {
		s.Speed = 1.0
	}
	if s.Repeats < 1 {
		s.Repeats = 1
	}
}

// Save writes a snapshot to disk
func Save(path string, snap Snapshot) error {
	data, err := Encode(snap)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write document: %w", err)
	}
	return nil
}

// Load reads a snapshot from disk
func Load(path string) (Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to read document: %w", err)
	}
	return Decode(data)
}
