//go:build windows

package osutils

import (
	"log"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	user32        = windows.NewLazySystemDLL("user32.dll")
	procSendInput = user32.NewProc("SendInput")
)

const (
	inputMouse     = 0
	mouseeventMove = 0x0001
)

type mouseInput struct {
	Dx          int32
	Dy          int32
	MouseData   uint32
	DwFlags     uint32
	Time        uint32
	DwExtraInfo uintptr
}

type wakeInput struct {
	Type uint32
	Mi   mouseInput
	_    [8]byte // pad to match the C INPUT union size
}

// WakeUp nudges the pointer by one pixel and back so the display is
// awake before playback starts injecting events.
func WakeUp() {
	log.Println("WakeUp: nudging pointer to wake the system")

	in := wakeInput{Type: inputMouse}
	in.Mi.Dx = 1
	in.Mi.Dy = 1
	in.Mi.DwFlags = mouseeventMove
	procSendInput.Call(1, uintptr(unsafe.Pointer(&in)), unsafe.Sizeof(in))

	in.Mi.Dx = -1
	in.Mi.Dy = -1
	procSendInput.Call(1, uintptr(unsafe.Pointer(&in)), unsafe.Sizeof(in))
}
