//go:build windows

package input

import (
	"fmt"
	"log"
	"sync"
	"time"
	"unsafe"

	"golang.org/x/sys/windows"
)

// Windows implementation of input capture using the Raw Input API. A hidden
// message-only window registers for mouse and keyboard devices with
// RIDEV_INPUTSINK so events arrive even while another window has focus.

const (
	wmInput          = 0x00FF
	rimTypeMouse     = 0
	rimTypeKeyboard  = 1
	ridInput         = 0x10000003
	ridevInputSink   = 0x00000100
	hwndMessage      = ^uintptr(2) // HWND_MESSAGE

	riMouseLeftDown   = 0x0001
	riMouseLeftUp     = 0x0002
	riMouseRightDown  = 0x0004
	riMouseRightUp    = 0x0008
	riMouseMiddleDown = 0x0010
	riMouseMiddleUp   = 0x0020
	riMouseWheel      = 0x0400
	riMouseHWheel     = 0x0800

	wheelDelta = 120
)

var (
	user32   = windows.NewLazySystemDLL("user32.dll")
	kernel32 = windows.NewLazySystemDLL("kernel32.dll")

	procRegisterRawInputDevices = user32.NewProc("RegisterRawInputDevices")
	procGetRawInputData         = user32.NewProc("GetRawInputData")
	procCreateWindowEx          = user32.NewProc("CreateWindowExW")
	procDefWindowProc           = user32.NewProc("DefWindowProcW")
	procRegisterClassEx         = user32.NewProc("RegisterClassExW")
	procPeekMessage             = user32.NewProc("PeekMessageW")
	procTranslateMessage        = user32.NewProc("TranslateMessage")
	procDispatchMessage         = user32.NewProc("DispatchMessageW")
	procDestroyWindow           = user32.NewProc("DestroyWindow")
	procGetCursorPos            = user32.NewProc("GetCursorPos")
	procSetCursorPos            = user32.NewProc("SetCursorPos")
	procSendInput               = user32.NewProc("SendInput")
	procGetModuleHandle         = kernel32.NewProc("GetModuleHandleW")
)

type wndClassEx struct {
	CbSize        uint32
	Style         uint32
	LpfnWndProc   uintptr
	CbClsExtra    int32
	CbWndExtra    int32
	HInstance     windows.Handle
	HIcon         windows.Handle
	HCursor       windows.Handle
	HbrBackground windows.Handle
	LpszMenuName  *uint16
	LpszClassName *uint16
	HIconSm       windows.Handle
}

type point struct {
	X, Y int32
}

type msg struct {
	Hwnd    windows.Handle
	Message uint32
	WParam  uintptr
	LParam  uintptr
	Time    uint32
	Pt      point
}

type rawInputDevice struct {
	UsUsagePage uint16
	UsUsage     uint16
	DwFlags     uint32
	HwndTarget  windows.Handle
}

type rawInputHeader struct {
	DwType  uint32
	DwSize  uint32
	HDevice windows.Handle
	WParam  uintptr
}

type rawMouse struct {
	UsFlags            uint16
	UlButtons          uint32
	UsButtonFlags      uint16
	UsButtonData       uint16
	UlRawButtons       uint32
	LLastX             int32
	LLastY             int32
	UlExtraInformation uint32
}

type rawKeyboard struct {
	MakeCode         uint16
	Flags            uint16
	Reserved         uint16
	VKey             uint16
	Message          uint32
	ExtraInformation uint32
}

type rawInput struct {
	Header rawInputHeader
	Mouse  rawMouse
	// Union in C; keyboard data is read through a cast of Mouse.
}

// Listener captures global keyboard and mouse activity on Windows
type Listener struct {
	hwnd    windows.Handle
	events  chan Event
	running bool
	mu      sync.Mutex
}

// NewCapture creates the Windows capture backend
func NewCapture() Capture {
	return &Listener{
		events: make(chan Event, 1000),
	}
}

// Start creates the raw-input window and begins delivering events
func (l *Listener) Start() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.running {
		return fmt.Errorf("capture already running")
	}

	if err := l.createWindow(); err != nil {
		return fmt.Errorf("failed to create window: %w", err)
	}
	if err := l.registerRawInput(); err != nil {
		return fmt.Errorf("failed to register raw input: %w", err)
	}

	l.running = true
	go l.messageLoop()

	log.Println("Capture: raw input listener started")
	return nil
}

// Stop tears down the listener and closes the event channel
func (l *Listener) Stop() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.running {
		return nil
	}
	l.running = false

	if l.hwnd != 0 {
		procDestroyWindow.Call(uintptr(l.hwnd))
		l.hwnd = 0
	}
	close(l.events)

	log.Println("Capture: raw input listener stopped")
	return nil
}

// Events returns the captured event channel
func (l *Listener) Events() <-chan Event {
	return l.events
}

func (l *Listener) createWindow() error {
	className := windows.StringToUTF16Ptr("MacroseqCapture")

	hInstance, _, _ := procGetModuleHandle.Call(0)
	wndClass := wndClassEx{
		CbSize:        uint32(unsafe.Sizeof(wndClassEx{})),
		LpfnWndProc:   windows.NewCallback(l.windowProc),
		HInstance:     windows.Handle(hInstance),
		LpszClassName: className,
	}

	ret, _, err := procRegisterClassEx.Call(uintptr(unsafe.Pointer(&wndClass)))
	if ret == 0 {
		return fmt.Errorf("RegisterClassEx failed: %v", err)
	}

	// Message-only window: receives WM_INPUT without appearing on screen.
	hwnd, _, err := procCreateWindowEx.Call(
		0,
		uintptr(unsafe.Pointer(className)),
		0,
		0,
		0, 0, 0, 0,
		hwndMessage,
		0, 0, 0,
	)
	if hwnd == 0 {
		return fmt.Errorf("CreateWindowEx failed: %v", err)
	}
	l.hwnd = windows.Handle(hwnd)
	return nil
}

func (l *Listener) registerRawInput() error {
	rids := []rawInputDevice{
		{
			UsUsagePage: 0x01, // HID_USAGE_PAGE_GENERIC
			UsUsage:     0x02, // HID_USAGE_GENERIC_MOUSE
			DwFlags:     ridevInputSink,
			HwndTarget:  l.hwnd,
		},
		{
			UsUsagePage: 0x01,
			UsUsage:     0x06, // HID_USAGE_GENERIC_KEYBOARD
			DwFlags:     ridevInputSink,
			HwndTarget:  l.hwnd,
		},
	}

	for i := range rids {
		ret, _, err := procRegisterRawInputDevices.Call(
			uintptr(unsafe.Pointer(&rids[i])),
			1,
			uintptr(unsafe.Sizeof(rids[i])),
		)
		if ret == 0 {
			return fmt.Errorf("RegisterRawInputDevices failed for device %d: %v", i, err)
		}
	}
	return nil
}

func (l *Listener) messageLoop() {
	var m msg
	for l.running {
		ret, _, _ := procPeekMessage.Call(
			uintptr(unsafe.Pointer(&m)),
			0, 0, 0, 1, // PM_REMOVE
		)
		if int32(ret) != 0 {
			procTranslateMessage.Call(uintptr(unsafe.Pointer(&m)))
			procDispatchMessage.Call(uintptr(unsafe.Pointer(&m)))
		} else {
			time.Sleep(5 * time.Millisecond)
		}
	}
}

func (l *Listener) windowProc(hwnd windows.Handle, message uint32, wparam, lparam uintptr) uintptr {
	if message == wmInput {
		l.handleRawInput(lparam)
		return 0
	}
	ret, _, _ := procDefWindowProc.Call(uintptr(hwnd), uintptr(message), wparam, lparam)
	return ret
}

func (l *Listener) handleRawInput(lparam uintptr) {
	var size uint32
	ret, _, err := procGetRawInputData.Call(
		lparam,
		ridInput,
		0,
		uintptr(unsafe.Pointer(&size)),
		unsafe.Sizeof(rawInputHeader{}),
	)
	if ret == 0xFFFFFFFF || size == 0 {
		log.Printf("Capture: GetRawInputData size query failed: %v", err)
		return
	}

	data := make([]byte, size)
	ret, _, err = procGetRawInputData.Call(
		lparam,
		ridInput,
		uintptr(unsafe.Pointer(&data[0])),
		uintptr(unsafe.Pointer(&size)),
		unsafe.Sizeof(rawInputHeader{}),
	)
	if ret == 0xFFFFFFFF || ret == 0 {
		log.Printf("Capture: GetRawInputData failed: %v", err)
		return
	}

	ri := (*rawInput)(unsafe.Pointer(&data[0]))
	switch ri.Header.DwType {
	case rimTypeMouse:
		l.handleMouse(&ri.Mouse)
	case rimTypeKeyboard:
		kb := (*rawKeyboard)(unsafe.Pointer(&ri.Mouse))
		l.handleKeyboard(kb)
	}
}

// cursorPos reads the current absolute pointer position. Raw mouse deltas
// are relative, so the keyframe stream carries the resolved screen position
// instead.
func cursorPos() (float64, float64) {
	var pt point
	procGetCursorPos.Call(uintptr(unsafe.Pointer(&pt)))
	return float64(pt.X), float64(pt.Y)
}

func (l *Listener) handleMouse(mouse *rawMouse) {
	now := time.Now().UnixMilli()

	if mouse.LLastX != 0 || mouse.LLastY != 0 {
		x, y := cursorPos()
		l.emit(Event{
			Kind: KindPointerMove,
			X:    x,
			Y:    y,
			Time: now,
		})
	}

	if mouse.UsButtonFlags&(riMouseWheel|riMouseHWheel) != 0 {
		// ButtonData is a signed multiple of WHEEL_DELTA.
		ticks := float64(int16(mouse.UsButtonData)) / wheelDelta
		ev := Event{Kind: KindScroll, Time: now}
		if mouse.UsButtonFlags&riMouseHWheel != 0 {
			ev.DX = ticks
		} else {
			ev.DY = ticks
		}
		l.emit(ev)
	}

	buttons := []struct {
		flag uint16
		kind Kind
		btn  int
	}{
		{riMouseLeftDown, KindButtonDown, 1},
		{riMouseLeftUp, KindButtonUp, 1},
		{riMouseRightDown, KindButtonDown, 2},
		{riMouseRightUp, KindButtonUp, 2},
		{riMouseMiddleDown, KindButtonDown, 3},
		{riMouseMiddleUp, KindButtonUp, 3},
	}
	for _, b := range buttons {
		if mouse.UsButtonFlags&b.flag != 0 {
			x, y := cursorPos()
			l.emit(Event{
				Kind:   b.kind,
				Button: b.btn,
				X:      x,
				Y:      y,
				Time:   now,
			})
		}
	}
}

func (l *Listener) handleKeyboard(kb *rawKeyboard) {
	ev := Event{
		Kind:    KindKeyDown,
		KeyCode: kb.VKey,
		Time:    time.Now().UnixMilli(),
	}
	if kb.Flags&0x01 != 0 { // RI_KEY_BREAK
		ev.Kind = KindKeyUp
	}
	l.emit(ev)
}

func (l *Listener) emit(ev Event) {
	select {
	case l.events <- ev:
	default:
		log.Printf("Capture: event channel full, dropping %s event", ev.Kind)
	}
}
