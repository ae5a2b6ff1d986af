package input

import "strconv"

// Virtual-key codes follow the Windows VK numbering on every platform; the
// darwin injector translates to CGKeyCodes at the boundary.
const (
	VKBackspace uint16 = 0x08
	VKTab       uint16 = 0x09
	VKReturn    uint16 = 0x0D
	VKShift     uint16 = 0x10
	VKControl   uint16 = 0x11
	VKAlt       uint16 = 0x12
	VKEscape    uint16 = 0x1B
	VKSpace     uint16 = 0x20
	VKLeft      uint16 = 0x25
	VKUp        uint16 = 0x26
	VKRight     uint16 = 0x27
	VKDown      uint16 = 0x28
	VKDelete    uint16 = 0x2E
	VKF1        uint16 = 0x70
	VKF8        uint16 = 0x77
	VKF9        uint16 = 0x78
	VKF12       uint16 = 0x7B
)

var keyNames = map[uint16]string{
	VKBackspace: "backspace",
	VKTab:       "tab",
	VKReturn:    "return",
	VKShift:     "shift",
	VKControl:   "ctrl",
	VKAlt:       "alt",
	VKEscape:    "esc",
	VKSpace:     "space",
	VKLeft:      "leftarrow",
	VKUp:        "uparrow",
	VKRight:     "rightarrow",
	VKDown:      "downarrow",
	VKDelete:    "delete",
	0x21:        "pageup",
	0x22:        "pagedown",
	0x23:        "end",
	0x24:        "home",
	0x2D:        "insert",
	0x14:        "capslock",
	0x90:        "numlock",
	0x91:        "scrolllock",
	0x13:        "pause",
	0x2C:        "printscreen",
	0xBA:        ";",
	0xBB:        "=",
	0xBC:        ",",
	0xBD:        "-",
	0xBE:        ".",
	0xBF:        "/",
	0xC0:        "`",
	0xDB:        "(",
	0xDD:        ")",
	0xDC:        "\\",
	0xDE:        "\"",
}

func init() {
	// Letters and digits map straight off their ASCII values.
	for c := uint16('A'); c <= 'Z'; c++ {
		keyNames[c] = string(rune(c + 32))
	}
	for c := uint16('0'); c <= '9'; c++ {
		keyNames[c] = string(rune(c))
	}
	// Function keys F1-F12
	for i := uint16(0); i < 12; i++ {
		keyNames[VKF1+i] = "f" + strconv.Itoa(int(i+1))
	}
	// Numpad 0-9
	for i := uint16(0); i <= 9; i++ {
		keyNames[0x60+i] = "kp" + strconv.Itoa(int(i))
	}
	keyNames[0x6A] = "kpmultiply"
	keyNames[0x6B] = "kpplus"
	keyNames[0x6D] = "kpminus"
	keyNames[0x6E] = "kpdelete"
	keyNames[0x6F] = "kpdivide"
	keyNames[0xA0] = "shiftleft"
	keyNames[0xA1] = "shiftright"
	keyNames[0xA2] = "ctrlleft"
	keyNames[0xA3] = "ctrlright"
	keyNames[0xA4] = "altleft"
	keyNames[0xA5] = "altright"
	keyNames[0x5B] = "metaleft"
	keyNames[0x5C] = "metaright"
}

// KeyName returns the short label for a virtual-key code, and whether the
// code is known. Capture events carrying unknown codes are dropped by the
// recorder.
func KeyName(code uint16) (string, bool) {
	name, ok := keyNames[code]
	return name, ok
}

// KeyCode is the inverse of KeyName
func KeyCode(name string) (uint16, bool) {
	for code, n := range keyNames {
		if n == name {
			return code, true
		}
	}
	return 0, false
}

// KnownKeys returns every key label the engine understands, for -list-keys.
func KnownKeys() []string {
	names := make([]string, 0, len(keyNames))
	for _, n := range keyNames {
		names = append(names, n)
	}
	return names
}

// ButtonName returns the label for a mouse button number
func ButtonName(button int) string {
	switch button {
	case 1:
		return "left"
	case 2:
		return "right"
	case 3:
		return "middle"
	default:
		return "button" + strconv.Itoa(button)
	}
}
