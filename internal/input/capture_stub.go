//go:build !windows

package input

import (
	"fmt"
)

// Stub capture for platforms without a global listener implementation

// Listener represents a stub capture backend
type Listener struct{}

// NewCapture creates a stub capture backend
func NewCapture() Capture {
	return &Listener{}
}

// Start begins capturing input (stub)
func (l *Listener) Start() error {
	return fmt.Errorf("input capture not supported on this platform")
}

// Stop stops capturing input (stub)
func (l *Listener) Stop() error {
	return nil
}

// Events returns the input event channel (stub)
func (l *Listener) Events() <-chan Event {
	return nil
}
