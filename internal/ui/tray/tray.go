package tray

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
)

// Callbacks defines tray action handlers.
type Callbacks struct {
	OnShowConsole func()
	OnToggleRun   func()
	OnReset       func()
	OnMarkSpeech  func()
	OnPreferences func()
	OnQuit        func()
}

// Manager handles system tray state.
type Manager struct {
	app         desktop.App
	statusItem  *fyne.MenuItem
	runItem     *fyne.MenuItem
	callbacks   Callbacks
	running     bool
	statusLabel string
}

// New creates a tray manager with the provided callbacks.
func New(app desktop.App, callbacks Callbacks) *Manager {
	manager := &Manager{
		app:       app,
		callbacks: callbacks,
	}

	manager.statusItem = fyne.NewMenuItem("Timer: ready", nil)
	manager.statusItem.Disabled = true

	manager.runItem = fyne.NewMenuItem("Start", func() {
		invoke(manager.callbacks.OnToggleRun)
	})

	manager.refreshMenu()
	return manager
}

// SetStatus updates the status label.
func (manager *Manager) SetStatus(status string) {
	manager.statusLabel = status
	manager.refreshStatus()
}

// SetRunning updates the start/pause item.
func (manager *Manager) SetRunning(running bool) {
	manager.running = running
	if running {
		manager.runItem.Label = "Pause"
	} else {
		manager.runItem.Label = "Start"
	}
	manager.refreshStatus()
}

func (manager *Manager) refreshStatus() {
	status := manager.statusLabel
	if status == "" {
		status = "ready"
	}
	if !manager.running {
		status = fmt.Sprintf("%s (paused)", status)
	}
	manager.statusItem.Label = fmt.Sprintf("Timer: %s", status)
	manager.refreshMenu()
}

func (manager *Manager) refreshMenu() {
	if manager.app == nil {
		return
	}
	manager.app.SetSystemTrayMenu(fyne.NewMenu("Presider",
		manager.statusItem,
		fyne.NewMenuItem("Show console", func() {
			invoke(manager.callbacks.OnShowConsole)
		}),
		fyne.NewMenuItemSeparator(),
		manager.runItem,
		fyne.NewMenuItem("Reset timer", func() {
			invoke(manager.callbacks.OnReset)
		}),
		fyne.NewMenuItem("Mark speech given", func() {
			invoke(manager.callbacks.OnMarkSpeech)
		}),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Timer settings", func() {
			invoke(manager.callbacks.OnPreferences)
		}),
		fyne.NewMenuItem("Quit", func() {
			invoke(manager.callbacks.OnQuit)
		}),
	))
}

func invoke(callback func()) {
	if callback != nil {
		callback()
	}
}
