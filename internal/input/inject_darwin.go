//go:build darwin

package input

/*
#cgo CFLAGS: -x objective-c
#cgo LDFLAGS: -framework CoreGraphics -framework CoreFoundation -framework ApplicationServices

#include <CoreGraphics/CoreGraphics.h>
#include <CoreFoundation/CoreFoundation.h>
#include <ApplicationServices/ApplicationServices.h>

bool hasAccessibilityPermissions() {
    return AXIsProcessTrusted();
}

CGPoint currentMousePosition() {
    CGEventRef event = CGEventCreate(NULL);
    CGPoint cursor = CGEventGetLocation(event);
    CFRelease(event);
    return cursor;
}

void injectMouseMoveTo(CGFloat x, CGFloat y) {
    CGPoint pos = CGPointMake(x, y);
    CGEventRef event = CGEventCreateMouseEvent(NULL, kCGEventMouseMoved, pos, kCGMouseButtonLeft);
    CGEventPost(kCGSessionEventTap, event);
    CFRelease(event);
}

void injectMouseButton(int button, bool pressed) {
    CGMouseButton cgButton;
    CGEventType eventType;

    switch (button) {
        case 1: cgButton = kCGMouseButtonLeft; break;
        case 2: cgButton = kCGMouseButtonRight; break;
        case 3: cgButton = kCGMouseButtonCenter; break;
        default: return;
    }

    if (pressed) {
        switch (button) {
            case 1: eventType = kCGEventLeftMouseDown; break;
            case 2: eventType = kCGEventRightMouseDown; break;
            case 3: eventType = kCGEventOtherMouseDown; break;
            default: return;
        }
    } else {
        switch (button) {
            case 1: eventType = kCGEventLeftMouseUp; break;
            case 2: eventType = kCGEventRightMouseUp; break;
            case 3: eventType = kCGEventOtherMouseUp; break;
            default: return;
        }
    }

    CGPoint currentPos = currentMousePosition();
    CGEventRef event = CGEventCreateMouseEvent(NULL, eventType, currentPos, cgButton);
    CGEventPost(kCGSessionEventTap, event);
    CFRelease(event);
}

void injectKey(CGKeyCode keyCode, bool pressed) {
    CGEventRef event = CGEventCreateKeyboardEvent(NULL, keyCode, pressed);
    CGEventPost(kCGSessionEventTap, event);
    CFRelease(event);
}

void injectScroll(int dx, int dy) {
    CGEventRef event = CGEventCreateScrollWheelEvent(NULL, kCGScrollEventUnitLine, 2, dy, dx);
    CGEventPost(kCGSessionEventTap, event);
    CFRelease(event);
}
*/
import "C"
import (
	"fmt"
)

// macOS implementation of input injection using CoreGraphics

// Windows VK code to macOS CGKeyCode mapping. Recordings use VK numbering
// regardless of the platform they were captured on, so the translation
// happens here at playback time.
var vkToCGKeyCode = map[uint16]uint16{
	// Letters A-Z (VK_A = 0x41, kVK_ANSI_A = 0x00)
	0x41: 0x00, // a
	0x42: 0x0B, // b
	0x43: 0x08, // c
	0x44: 0x02, // d
	0x45: 0x0E, // e
	0x46: 0x03, // f
	0x47: 0x05, // g
	0x48: 0x04, // h
	0x49: 0x22, // i
	0x4A: 0x26, // j
	0x4B: 0x28, // k
	0x4C: 0x25, // l
	0x4D: 0x2E, // m
	0x4E: 0x2D, // n
	0x4F: 0x1F, // o
	0x50: 0x23, // p
	0x51: 0x0C, // q
	0x52: 0x0F, // r
	0x53: 0x01, // s
	0x54: 0x11, // t
	0x55: 0x20, // u
	0x56: 0x09, // v
	0x57: 0x0D, // w
	0x58: 0x07, // x
	0x59: 0x10, // y
	0x5A: 0x06, // z

	// Digits 0-9 (VK_0 = 0x30, kVK_ANSI_0 = 0x1D)
	0x30: 0x1D,
	0x31: 0x12,
	0x32: 0x13,
	0x33: 0x14,
	0x34: 0x15,
	0x35: 0x17,
	0x36: 0x16,
	0x37: 0x1A,
	0x38: 0x1C,
	0x39: 0x19,

	// Function keys F1-F12
	0x70: 0x7A,
	0x71: 0x78,
	0x72: 0x63,
	0x73: 0x76,
	0x74: 0x60,
	0x75: 0x61,
	0x76: 0x62,
	0x77: 0x64,
	0x78: 0x65,
	0x79: 0x6D,
	0x7A: 0x67,
	0x7B: 0x6F,

	// Special keys
	0x08: 0x33, // backspace -> delete
	0x09: 0x30, // tab
	0x0D: 0x24, // return
	0x10: 0x38, // shift
	0x11: 0x3B, // ctrl
	0x12: 0x3A, // alt -> option
	0x14: 0x39, // caps lock
	0x1B: 0x35, // escape
	0x20: 0x31, // space

	// Arrows
	0x25: 0x7B,
	0x26: 0x7E,
	0x27: 0x7C,
	0x28: 0x7D,

	// Navigation
	0x21: 0x74, // page up
	0x22: 0x79, // page down
	0x23: 0x77, // end
	0x24: 0x73, // home
	0x2D: 0x72, // insert -> help
	0x2E: 0x75, // delete -> forward delete

	// Modifiers
	0x5B: 0x37, // left meta -> left command
	0x5C: 0x36, // right meta -> right command
	0xA0: 0x38, // left shift
	0xA1: 0x3C, // right shift
	0xA2: 0x3B, // left ctrl
	0xA3: 0x3E, // right ctrl
	0xA4: 0x3A, // left alt -> left option
	0xA5: 0x3D, // right alt -> right option

	// Punctuation
	0xBA: 0x29, // ;
	0xBB: 0x18, // =
	0xBC: 0x2B, // ,
	0xBD: 0x1B, // -
	0xBE: 0x2F, // .
	0xBF: 0x2C, // /
	0xC0: 0x32, // `
	0xDB: 0x21, // [
	0xDC: 0x2A, // \
	0xDD: 0x1E, // ]
	0xDE: 0x27, // '

	// Numpad
	0x60: 0x52,
	0x61: 0x53,
	0x62: 0x54,
	0x63: 0x55,
	0x64: 0x56,
	0x65: 0x57,
	0x66: 0x58,
	0x67: 0x59,
	0x68: 0x5B,
	0x69: 0x5C,
	0x6A: 0x43, // kp *
	0x6B: 0x45, // kp +
	0x6D: 0x4E, // kp -
	0x6E: 0x41, // kp .
	0x6F: 0x4B, // kp /
}

// SystemInjector posts synthetic CGEvents into the session event tap
type SystemInjector struct{}

// NewInjector creates the macOS injection backend
func NewInjector() Injector {
	return &SystemInjector{}
}

// HasAccessibilityPermissions reports whether the process is trusted to
// post events. Injection silently does nothing without this.
func HasAccessibilityPermissions() bool {
	return bool(C.hasAccessibilityPermissions())
}

// MovePointer warps the cursor to an absolute screen position
func (i *SystemInjector) MovePointer(x, y int) error {
	C.injectMouseMoveTo(C.CGFloat(x), C.CGFloat(y))
	return nil
}

// Button injects a mouse button press or release at the current position
func (i *SystemInjector) Button(button int, pressed bool) error {
	if button < 1 || button > 3 {
		return fmt.Errorf("invalid button number: %d", button)
	}
	C.injectMouseButton(C.int(button), C.bool(pressed))
	return nil
}

// Key injects a keyboard press or release, translating the VK code
func (i *SystemInjector) Key(code uint16, pressed bool) error {
	cgCode, ok := vkToCGKeyCode[code]
	if !ok {
		return fmt.Errorf("no CGKeyCode mapping for virtual key 0x%X", code)
	}
	C.injectKey(C.CGKeyCode(cgCode), C.bool(pressed))
	return nil
}

// Scroll injects wheel ticks in line units
func (i *SystemInjector) Scroll(dx, dy int) error {
	C.injectScroll(C.int(dx), C.int(dy))
	return nil
}
