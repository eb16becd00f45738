// Package tray provides the system tray control surface for hand tracking:
// start/stop items mirroring the tracker's control state plus a status line.
package tray

import (
	"sync"

	"github.com/getlantern/systray"
)

// Tray is the system tray application. Its start/stop items follow the
// tracker's control state, so it can be wired directly as a control surface
// and status sink.
type Tray struct {
	onStart  func()
	onStop   func()
	onViewer func()
	onQuit   func()
	mu       sync.RWMutex

	// Menu items stored for later updates. Enable/disable state requested
	// before onReady runs is replayed once the items exist.
	menuStart  *systray.MenuItem
	menuStop   *systray.MenuItem
	menuStatus *systray.MenuItem

	startEnabled bool
	stopEnabled  bool
	statusLine   string
}

// New creates a Tray with both controls disabled until the tracker reports
// its initial state.
func New() *Tray {
	return &Tray{statusLine: "Status: ..."}
}

// OnStart sets the callback for the start menu item.
func (t *Tray) OnStart(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onStart = fn
}

// OnStop sets the callback for the stop menu item.
func (t *Tray) OnStop(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onStop = fn
}

// OnViewer sets the callback for the open-viewer menu item.
func (t *Tray) OnViewer(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onViewer = fn
}

// OnQuit sets the callback for the quit menu item.
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

// Quit tears the tray down, unblocking Run.
func (t *Tray) Quit() {
	systray.Quit()
}

// onReady sets up the menu structure.
func (t *Tray) onReady() {
	systray.SetTitle("Mudra")
	systray.SetTooltip("Mudra Hand Tracking")

	t.mu.Lock()
	t.menuStart = systray.AddMenuItem("Start Tracking", "Start the camera and tracking loop")
	t.menuStop = systray.AddMenuItem("Stop Tracking", "Stop tracking and release the camera")
	systray.AddSeparator()

	t.menuStatus = systray.AddMenuItem(t.statusLine, "Current tracking status")
	t.menuStatus.Disable()
	systray.AddSeparator()

	menuViewer := systray.AddMenuItem("Open Viewer...", "Open the live view in a browser")
	systray.AddSeparator()

	menuQuit := systray.AddMenuItem("Quit", "Quit Mudra")

	setEnabled(t.menuStart, t.startEnabled)
	setEnabled(t.menuStop, t.stopEnabled)

	menuStart, menuStop := t.menuStart, t.menuStop
	t.mu.Unlock()

	go func() {
		for {
			select {
			case <-menuStart.ClickedCh:
				t.invoke(t.pickStart)
			case <-menuStop.ClickedCh:
				t.invoke(t.pickStop)
			case <-menuViewer.ClickedCh:
				t.invoke(t.pickViewer)
			case <-menuQuit.ClickedCh:
				t.invoke(t.pickQuit)
				systray.Quit()
				return
			}
		}
	}()
}

func (t *Tray) onExit() {
	// Cleanup resources if needed
}

func (t *Tray) pickStart() func()  { return t.onStart }
func (t *Tray) pickStop() func()   { return t.onStop }
func (t *Tray) pickViewer() func() { return t.onViewer }
func (t *Tray) pickQuit() func()   { return t.onQuit }

// invoke runs a registered callback outside the lock to prevent deadlocks.
func (t *Tray) invoke(pick func() func()) {
	t.mu.RLock()
	callback := pick()
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}
}

// SetStartEnabled implements track.Controls.
func (t *Tray) SetStartEnabled(enabled bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.startEnabled = enabled
	if t.menuStart != nil {
		setEnabled(t.menuStart, enabled)
	}
}

// SetStopEnabled implements track.Controls.
func (t *Tray) SetStopEnabled(enabled bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopEnabled = enabled
	if t.menuStop != nil {
		setEnabled(t.menuStop, enabled)
	}
}

// SetStatus implements track.StatusSink.
func (t *Tray) SetStatus(status string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.statusLine = "Status: " + status
	if t.menuStatus != nil {
		t.menuStatus.SetTitle(t.statusLine)
	}
}

func setEnabled(item *systray.MenuItem, enabled bool) {
	if enabled {
		item.Enable()
	} else {
		item.Disable()
	}
}
