//go:build windows

package input

import (
	"fmt"
	"unsafe"
)

// Windows implementation of input injection using SendInput

const (
	inputMouse    = 0
	inputKeyboard = 1

	mouseEventLeftDown   = 0x0002
	mouseEventLeftUp     = 0x0004
	mouseEventRightDown  = 0x0008
	mouseEventRightUp    = 0x0010
	mouseEventMiddleDown = 0x0020
	mouseEventMiddleUp   = 0x0040
	mouseEventWheel      = 0x0800
	mouseEventHWheel     = 0x1000

	keyEventKeyUp = 0x0002
)

type mouseInput struct {
	Dx          int32
	Dy          int32
	MouseData   uint32
	DwFlags     uint32
	Time        uint32
	DwExtraInfo uintptr
}

type keybdInput struct {
	WVk         uint16
	WScan       uint16
	DwFlags     uint32
	Time        uint32
	DwExtraInfo uintptr
}

// inputUnion matches the C INPUT struct: a DWORD type followed by a union
// whose largest member is MOUSEINPUT.
type inputUnion struct {
	Type uint32
	_    [4]byte
	Mi   mouseInput
}

// SystemInjector posts synthetic events into the OS input queue
type SystemInjector struct{}

// NewInjector creates the Windows injection backend
func NewInjector() Injector {
	return &SystemInjector{}
}

func sendInput(in *inputUnion) error {
	ret, _, err := procSendInput.Call(
		1,
		uintptr(unsafe.Pointer(in)),
		unsafe.Sizeof(*in),
	)
	if ret == 0 {
		return fmt.Errorf("SendInput failed: %v", err)
	}
	return nil
}

// MovePointer warps the cursor to an absolute screen position
func (i *SystemInjector) MovePointer(x, y int) error {
	ret, _, err := procSetCursorPos.Call(uintptr(x), uintptr(y))
	if ret == 0 {
		return fmt.Errorf("SetCursorPos failed: %v", err)
	}
	return nil
}

// Button injects a mouse button press or release at the current position
func (i *SystemInjector) Button(button int, pressed bool) error {
	var flags uint32
	switch {
	case button == 1 && pressed:
		flags = mouseEventLeftDown
	case button == 1:
		flags = mouseEventLeftUp
	case button == 2 && pressed:
		flags = mouseEventRightDown
	case button == 2:
		flags = mouseEventRightUp
	case button == 3 && pressed:
		flags = mouseEventMiddleDown
	case button == 3:
		flags = mouseEventMiddleUp
	default:
		return fmt.Errorf("invalid button number: %d", button)
	}

	in := inputUnion{Type: inputMouse}
	in.Mi.DwFlags = flags
	return sendInput(&in)
}

// Key injects a keyboard press or release for a virtual-key code
func (i *SystemInjector) Key(code uint16, pressed bool) error {
	in := inputUnion{Type: inputKeyboard}
	ki := (*keybdInput)(unsafe.Pointer(&in.Mi))
	ki.WVk = code
	if !pressed {
		ki.DwFlags = keyEventKeyUp
	}
	return sendInput(&in)
}

// Scroll injects wheel ticks; positive dy scrolls away from the user
func (i *SystemInjector) Scroll(dx, dy int) error {
	if dy != 0 {
		in := inputUnion{Type: inputMouse}
		in.Mi.DwFlags = mouseEventWheel
		in.Mi.MouseData = uint32(int32(dy) * wheelDelta)
		if err := sendInput(&in); err != nil {
			return err
		}
	}
	if dx != 0 {
		in := inputUnion{Type: inputMouse}
		in.Mi.DwFlags = mouseEventHWheel
		in.Mi.MouseData = uint32(int32(dx) * wheelDelta)
		if err := sendInput(&in); err != nil {
			return err
		}
	}
	return nil
}
