// Package tray shows the session in the system tray and forwards menu
// actions to the session controller.
package tray

import (
	"context"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"github.com/charmbracelet/log"

	"trackpace/internal/core/engine"
	"trackpace/internal/core/model"
	"trackpace/internal/ui/preferences"
	"trackpace/resources"
)

// Callbacks defines tray actions handled outside the controller.
type Callbacks struct {
	OnShow        func()
	OnPreferences func()
	OnReset       func()
	OnQuit        func()
}

// Manager renders the tray menu of the desktop app. It is the engine's
// Notifier in desktop mode.
type Manager struct {
	app        desktop.App
	controller engine.Controller
	callbacks  Callbacks
	logger     *log.Logger

	mu      sync.Mutex
	status  status
	tracks  []preferences.Track
	trackM  int
	lapText string
}

var _ engine.Notifier = (*Manager)(nil)

// New creates a tray manager and installs its first menu.
func New(app desktop.App, controller engine.Controller, tracks []preferences.Track, callbacks Callbacks, logger *log.Logger) *Manager {
	state := controller.Snapshot()
	manager := &Manager{
		app:        app,
		controller: controller,
		callbacks:  callbacks,
		logger:     logger.WithPrefix("tray"),
		tracks:     tracks,
		trackM:     state.TrackDistanceM,
		lapText:    lapSummary(state),
	}
	manager.render()
	return manager
}

// Watch keeps the track and lap entries in sync with the session until
// ctx ends.
func (manager *Manager) Watch(ctx context.Context) {
	states, cancel := manager.controller.Subscribe()
	go func() {
		<-ctx.Done()
		cancel()
	}()
	go func() {
		for state := range states {
			manager.mu.Lock()
			changed := manager.trackM != state.TrackDistanceM || manager.lapText != lapSummary(state)
			manager.trackM = state.TrackDistanceM
			manager.lapText = lapSummary(state)
			manager.mu.Unlock()
			if changed {
				manager.render()
			}
		}
	}()
}

// SetTracks replaces the tracks offered in the Track submenu.
func (manager *Manager) SetTracks(tracks []preferences.Track) {
	manager.mu.Lock()
	manager.tracks = tracks
	manager.mu.Unlock()
	manager.render()
}

// ShowRunning marks the session as running.
func (manager *Manager) ShowRunning(text string) error {
	manager.update(func(current status) status { return current.running(text) })
	return nil
}

// Refresh updates the elapsed time shown while running.
func (manager *Manager) Refresh(text string) error {
	manager.update(func(current status) status { return current.running(text) })
	return nil
}

// Detach marks the session as paused.
func (manager *Manager) Detach() error {
	manager.update(func(current status) status { return current.paused() })
	return nil
}

// Remove clears the session status.
func (manager *Manager) Remove() error {
	manager.update(func(current status) status { return current.idle() })
	return nil
}

func (manager *Manager) update(next func(status) status) {
	manager.mu.Lock()
	previous := manager.status
	manager.status = next(previous)
	changed := manager.status != previous
	manager.mu.Unlock()
	if changed {
		manager.render()
	}
}

func (manager *Manager) render() {
	manager.mu.Lock()
	current := manager.status
	view := menuView{
		status:  current,
		lapText: manager.lapText,
		tracks:  append([]preferences.Track(nil), manager.tracks...),
		trackM:  manager.trackM,
	}
	manager.mu.Unlock()

	menu := buildMenu(view, manager.actions())
	icon := resources.MustIcon(current.iconName())
	fyne.Do(func() {
		manager.app.SetSystemTrayMenu(menu)
		manager.app.SetSystemTrayIcon(icon)
	})
}

func (manager *Manager) actions() menuActions {
	return menuActions{
		toggle:   manager.command("toggle", manager.controller.ToggleStartPause),
		lap:      manager.command("lap", manager.controller.AddLap),
		split:    manager.command("split", manager.controller.SplitLastLap),
		setTrack: manager.setTrack,
		show:     manager.callbacks.OnShow,
		prefs:    manager.callbacks.OnPreferences,
		reset:    manager.callbacks.OnReset,
		quit:     manager.callbacks.OnQuit,
	}
}

func (manager *Manager) command(name string, run func() error) func() {
	return func() {
		if err := run(); err != nil {
			manager.logger.Warn("tray command failed", "command", name, "err", err)
		}
	}
}

func (manager *Manager) setTrack(distanceM int) {
	if err := manager.controller.SetTrackDistance(distanceM); err != nil {
		manager.logger.Warn("change track failed", "distance", distanceM, "err", err)
	}
}

type menuView struct {
	status  status
	lapText string
	tracks  []preferences.Track
	trackM  int
}

type menuActions struct {
	toggle   func()
	lap      func()
	split    func()
	setTrack func(int)
	show     func()
	prefs    func()
	reset    func()
	quit     func()
}

func buildMenu(view menuView, actions menuActions) *fyne.Menu {
	statusItem := fyne.NewMenuItem(view.status.label(), nil)
	statusItem.Disabled = true
	lapsItem := fyne.NewMenuItem(view.lapText, nil)
	lapsItem.Disabled = true

	running := view.status.phase == phaseRunning
	lapItem := fyne.NewMenuItem("Lap", actions.lap)
	lapItem.Disabled = !running
	splitItem := fyne.NewMenuItem("Split", actions.split)
	splitItem.Disabled = !running

	trackItems := make([]*fyne.MenuItem, 0, len(view.tracks))
	for _, track := range view.tracks {
		distance := track.DistanceM
		item := fyne.NewMenuItem(track.Label(), func() { actions.setTrack(distance) })
		item.Checked = distance == view.trackM
		trackItems = append(trackItems, item)
	}
	trackItem := fyne.NewMenuItem("Track", nil)
	trackItem.ChildMenu = fyne.NewMenu("", trackItems...)

	return fyne.NewMenu("trackpace",
		statusItem,
		lapsItem,
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem(view.status.toggleLabel(), actions.toggle),
		lapItem,
		splitItem,
		trackItem,
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Show", optional(actions.show)),
		fyne.NewMenuItem("Preferences", optional(actions.prefs)),
		fyne.NewMenuItem("Reset session...", optional(actions.reset)),
		fyne.NewMenuItem("Quit", optional(actions.quit)),
	)
}

func lapSummary(state model.SessionState) string {
	return lapSummaryText(state.CurrentLapNumber(), state.TotalDistanceM())
}

func optional(handler func()) func() {
	return func() {
		if handler != nil {
			handler()
		}
	}
}
