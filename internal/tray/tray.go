// Package tray provides the system tray menu for airdraw.
package tray

import (
	"sync"

	"github.com/getlantern/systray"
)

// Tray represents the system tray application.
type Tray struct {
	onToggle func(capture bool) error
	onClear  func()
	onUndo   func()
	onRedo   func()
	onOpen   func()
	onQuit   func()
	capture  bool
	mode     string
	mu       sync.RWMutex

	// Menu items stored for later updates
	menuToggle *systray.MenuItem
	menuMode   *systray.MenuItem
}

// New creates a new Tray with capture stopped.
func New() *Tray {
	return &Tray{mode: "Camera off"}
}

// OnToggle sets the callback run when capture is switched on or off. A
// failing callback leaves the capture state unchanged.
func (t *Tray) OnToggle(fn func(capture bool) error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onToggle = fn
}

// OnClear sets the callback for the clear menu item.
func (t *Tray) OnClear(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onClear = fn
}

// OnUndo sets the callback for the undo menu item.
func (t *Tray) OnUndo(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onUndo = fn
}

// OnRedo sets the callback for the redo menu item.
func (t *Tray) OnRedo(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onRedo = fn
}

// OnOpen sets the callback for the open UI menu item.
func (t *Tray) OnOpen(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onOpen = fn
}

// OnQuit sets the callback function to be called when the quit menu item is clicked.
func (t *Tray) OnQuit(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onQuit = fn
}

// Run starts the system tray application.
// This function blocks until systray.Quit() is called.
func (t *Tray) Run() {
	systray.Run(t.onReady, t.onExit)
}

// onReady is called when the system tray is ready.
// It sets up the menu structure.
func (t *Tray) onReady() {
	systray.SetTitle("airdraw")
	systray.SetTooltip("airdraw gesture drawing")

	t.mu.Lock()
	t.menuToggle = systray.AddMenuItem(toggleTitle(t.capture), "Start or stop the camera")
	t.menuMode = systray.AddMenuItem(modeTitle(t.mode), "Current mode")
	t.menuMode.Disable()
	t.mu.Unlock()
	systray.AddSeparator()

	menuUndo := systray.AddMenuItem("Undo", "Undo the last stroke")
	menuRedo := systray.AddMenuItem("Redo", "Redo the last undone stroke")
	menuClear := systray.AddMenuItem("Clear canvas", "Clear the drawing")
	systray.AddSeparator()

	menuOpen := systray.AddMenuItem("Open in browser...", "Open the control page")
	systray.AddSeparator()

	menuQuit := systray.AddMenuItem("Quit", "Quit airdraw")

	// Handle menu item clicks in a separate goroutine
	go func() {
		for {
			select {
			case <-t.menuToggle.ClickedCh:
				t.handleToggle()
			case <-menuUndo.ClickedCh:
				t.call(func() func() { return t.onUndo })
			case <-menuRedo.ClickedCh:
				t.call(func() func() { return t.onRedo })
			case <-menuClear.ClickedCh:
				t.call(func() func() { return t.onClear })
			case <-menuOpen.ClickedCh:
				t.call(func() func() { return t.onOpen })
			case <-menuQuit.ClickedCh:
				t.handleQuit()
				return
			}
		}
	}()
}

// onExit is called when the system tray is about to exit.
func (t *Tray) onExit() {}

// handleToggle flips capture and runs the toggle callback outside the lock.
func (t *Tray) handleToggle() {
	t.mu.RLock()
	want := !t.capture
	callback := t.onToggle
	t.mu.RUnlock()

	if callback != nil {
		if err := callback(want); err != nil {
			return
		}
	}
	t.SetCapturing(want)
}

// call runs the callback selected under the read lock.
func (t *Tray) call(pick func() func()) {
	t.mu.RLock()
	callback := pick()
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}
}

// handleQuit handles the quit menu item click.
func (t *Tray) handleQuit() {
	t.call(func() func() { return t.onQuit })
	systray.Quit()
}

// SetCapturing updates the capture toggle.
func (t *Tray) SetCapturing(capture bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.capture = capture
	if t.menuToggle != nil {
		t.menuToggle.SetTitle(toggleTitle(capture))
	}
}

// SetMode updates the mode display in the menu.
func (t *Tray) SetMode(mode string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if mode == t.mode {
		return
	}
	t.mode = mode
	if t.menuMode != nil {
		t.menuMode.SetTitle(modeTitle(mode))
	}
}

// IsCapturing returns the capture state shown in the menu.
func (t *Tray) IsCapturing() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.capture
}

// Mode returns the mode shown in the menu.
func (t *Tray) Mode() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.mode
}

func toggleTitle(capture bool) string {
	if capture {
		return "● Capturing"
	}
	return "○ Camera off"
}

func modeTitle(mode string) string {
	return "Mode: " + mode
}

// Quit stops the tray, returning from Run.
func (t *Tray) Quit() {
	systray.Quit()
}
