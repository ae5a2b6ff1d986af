// Package hotkey matches chords against the live key state. It has no
// hooks of its own; the engine feeds it from the capture stream it is
// already draining.
package hotkey

import (
	"log"
	"strings"
	"sync"

	"macroseq/internal/input"
)

// Manager holds registered chords and the set of currently held keys
type Manager struct {
	mu           sync.RWMutex
	hotkeys      []*registeredHotkey
	currentState map[string]bool
}

type registeredHotkey struct {
	parts    []string // e.g. ["CTRL", "SHIFT", "F8"]
	original string
	callback func()
}

// NewManager creates an empty hotkey manager
func NewManager() *Manager {
	return &Manager{
		currentState: make(map[string]bool),
	}
}

// Register adds a chord string (e.g. "F8", "Ctrl+Shift+R") and a callback.
// Callbacks run synchronously on the feeding goroutine, so the engine's
// control surface can be called from them without locking.
func (m *Manager) Register(hotkeyStr string, callback func()) error {
	if hotkeyStr == "" {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	parts := strings.Split(strings.ToUpper(hotkeyStr), "+")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}

	m.hotkeys = append(m.hotkeys, &registeredHotkey{
		parts:    parts,
		original: hotkeyStr,
		callback: callback,
	})
	return nil
}

// Clear removes all registered hotkeys
func (m *Manager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hotkeys = nil
}

// Feed consumes one capture event. Only key events matter; a press that
// completes a registered chord triggers its callback. Returns true when a
// chord fired, so the caller can keep the triggering key out of recordings.
func (m *Manager) Feed(ev input.Event) bool {
	name, ok := input.KeyName(ev.KeyCode)
	if !ok {
		return false
	}
	switch ev.Kind {
	case input.KindKeyDown:
		m.updateState(name, true)
		return m.checkMatches()
	case input.KindKeyUp:
		m.updateState(name, false)
	}
	return false
}

func (m *Manager) updateState(key string, isDown bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key = strings.ToUpper(key)
	if isDown {
		m.currentState[key] = true
	} else {
		delete(m.currentState, key)
	}
}

func (m *Manager) checkMatches() bool {
	m.mu.RLock()
	matched := make([]*registeredHotkey, 0, 1)
	for _, hk := range m.hotkeys {
		match := true
		for _, part := range hk.parts {
			if !m.currentState[part] {
				match = false
				break
			}
		}
		if match {
			matched = append(matched, hk)
		}
	}
	m.mu.RUnlock()

	for _, hk := range matched {
		log.Printf("Hotkey triggered: %s", hk.original)
		hk.callback()
	}
	return len(matched) > 0
}
