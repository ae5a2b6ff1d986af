// Package tray provides the system tray menu using getlantern/systray.
package tray

import (
	"github.com/getlantern/systray"
)

// Callbacks are invoked on menu clicks. They run on tray goroutines, so
// implementations must dispatch onto the engine loop themselves.
type Callbacks struct {
	OnRecord func()
	OnPlay   func()
	OnSave   func()
	OnQuit   func()
}

// Tray manages the system tray icon and its fixed menu: toggle
// recording, toggle playback, save the current sequence, quit.
type Tray struct {
	tooltip   string
	callbacks Callbacks

	recordItem *systray.MenuItem
	playItem   *systray.MenuItem

	quitCh chan struct{}

	// label updates can arrive before systray is ready
	updates chan sessionLabels
}

type sessionLabels struct {
	recording bool
	playing   bool
}

// New creates the tray. Run must be called on the main goroutine.
func New(tooltip string, cb Callbacks) *Tray {
	return &Tray{
		tooltip:   tooltip,
		callbacks: cb,
		quitCh:    make(chan struct{}),
		updates:   make(chan sessionLabels, 8),
	}
}

// Run starts the tray event loop (blocks until Stop or Quit)
func (t *Tray) Run() {
	systray.Run(t.setup, t.onExit)
}

// Stop stops the tray
func (t *Tray) Stop() {
	systray.Quit()
}

// Update adjusts the menu labels to reflect the session state. Safe to
// call from any goroutine; drops the update if the tray is backed up.
func (t *Tray) Update(recording, playing bool) {
	select {
	case t.updates <- sessionLabels{recording: recording, playing: playing}:
	default:
	}
}

func (t *Tray) setup() {
	systray.SetTitle("MacroSeq")
	systray.SetTooltip(t.tooltip)
	systray.SetIcon(getIcon())

	t.recordItem = systray.AddMenuItem("Start Recording", "")
	t.playItem = systray.AddMenuItem("Play", "")
	systray.AddSeparator()
	saveItem := systray.AddMenuItem("Save Sequence", "")
	systray.AddSeparator()
	quitItem := systray.AddMenuItem("Quit", "")

	go t.clickLoop(t.recordItem, t.callbacks.OnRecord)
	go t.clickLoop(t.playItem, t.callbacks.OnPlay)
	go t.clickLoop(saveItem, t.callbacks.OnSave)
	go t.clickLoop(quitItem, func() {
		if t.callbacks.OnQuit != nil {
			t.callbacks.OnQuit()
		}
		systray.Quit()
	})

	go t.labelLoop()
}

func (t *Tray) clickLoop(item *systray.MenuItem, cb func()) {
	for {
		select {
		case <-item.ClickedCh:
			if cb != nil {
				cb()
			}
		case <-t.quitCh:
			return
		}
	}
}

func (t *Tray) labelLoop() {
	for {
		select {
		case labels := <-t.updates:
			if labels.recording {
				t.recordItem.SetTitle("Stop Recording")
			} else {
				t.recordItem.SetTitle("Start Recording")
			}
			if labels.playing {
				t.playItem.SetTitle("Pause")
			} else {
				t.playItem.SetTitle("Play")
			}
		case <-t.quitCh:
			return
		}
	}
}

func (t *Tray) onExit() {
	close(t.quitCh)
}

// getIcon returns a placeholder icon (valid 16x16 ICO)
func getIcon() []byte {
	icon := make([]byte, 1118)
	// ICO Header
	copy(icon[0:6], []byte{0x00, 0x00, 0x01, 0x00, 0x01, 0x00})
	// Icon Directory
	copy(icon[6:22], []byte{
		0x10, 0x10, 0x00, 0x00, 0x01, 0x00, 0x20, 0x00,
		0x48, 0x04, 0x00, 0x00,
		0x16, 0x00, 0x00, 0x00,
	})
	// DIB Header
	copy(icon[22:62], []byte{
		0x28, 0x00, 0x00, 0x00, // Size
		0x10, 0x00, 0x00, 0x00, // Width
		0x20, 0x00, 0x00, 0x00, // Height (16 * 2 for icon)
		0x01, 0x00, // Planes
		0x20, 0x00, // BPP
		0x00, 0x00, 0x00, 0x00, // Compression
		0x00, 0x04, 0x00, 0x00, // Image Size
		0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00,
	})
	// Pixels and mask stay 0 for transparency
	return icon
}
