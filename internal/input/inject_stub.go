//go:build !windows && !darwin

package input

import (
	"fmt"
)

// Stub injection for platforms without a backend

// SystemInjector represents a stub injector
type SystemInjector struct{}

// NewInjector creates a stub injection backend
func NewInjector() Injector {
	return &SystemInjector{}
}

// MovePointer injects a pointer move (stub)
func (i *SystemInjector) MovePointer(x, y int) error {
	return fmt.Errorf("input injection not supported on this platform")
}

// Button injects a mouse button event (stub)
func (i *SystemInjector) Button(button int, pressed bool) error {
	return fmt.Errorf("input injection not supported on this platform")
}

// Key injects a keyboard event (stub)
func (i *SystemInjector) Key(code uint16, pressed bool) error {
	return fmt.Errorf("input injection not supported on this platform")
}

// Scroll injects a wheel event (stub)
func (i *SystemInjector) Scroll(dx, dy int) error {
	return fmt.Errorf("input injection not supported on this platform")
}
