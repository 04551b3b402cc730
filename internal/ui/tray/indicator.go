package tray

import (
	"sync"

	"fyne.io/systray"
	"github.com/charmbracelet/log"

	"trackpace/internal/core/engine"
	"trackpace/internal/ui/preferences"
	"trackpace/resources"
)

// Indicator is a standalone tray icon for terminal mode, where no fyne
// app is running. It is the engine's Notifier there.
type Indicator struct {
	controller engine.Controller
	tracks     []preferences.Track
	onQuit     func()
	logger     *log.Logger

	mu         sync.Mutex
	status     status
	ready      bool
	statusItem *systray.MenuItem
	toggleItem *systray.MenuItem
	trackItems []*systray.MenuItem
	end        func()
	quit       chan struct{}
}

var _ engine.Notifier = (*Indicator)(nil)

// NewIndicator creates an indicator. Nothing is shown until Start.
func NewIndicator(controller engine.Controller, tracks []preferences.Track, onQuit func(), logger *log.Logger) *Indicator {
	return &Indicator{
		controller: controller,
		tracks:     tracks,
		onQuit:     onQuit,
		logger:     logger.WithPrefix("indicator"),
		quit:       make(chan struct{}),
	}
}

// Start registers the tray icon with the desktop.
func (indicator *Indicator) Start() {
	start, end := systray.RunWithExternalLoop(indicator.onReady, nil)
	indicator.mu.Lock()
	indicator.end = end
	indicator.mu.Unlock()
	start()
}

// Close removes the tray icon.
func (indicator *Indicator) Close() error {
	indicator.mu.Lock()
	end := indicator.end
	indicator.end = nil
	indicator.mu.Unlock()
	if end == nil {
		return nil
	}
	close(indicator.quit)
	end()
	return nil
}

// ShowRunning marks the session as running.
func (indicator *Indicator) ShowRunning(text string) error {
	return indicator.update(func(current status) status { return current.running(text) })
}

// Refresh updates the elapsed time shown while running.
func (indicator *Indicator) Refresh(text string) error {
	return indicator.update(func(current status) status { return current.running(text) })
}

// Detach marks the session as paused.
func (indicator *Indicator) Detach() error {
	return indicator.update(func(current status) status { return current.paused() })
}

// Remove clears the session status.
func (indicator *Indicator) Remove() error {
	return indicator.update(func(current status) status { return current.idle() })
}

func (indicator *Indicator) update(next func(status) status) error {
	indicator.mu.Lock()
	defer indicator.mu.Unlock()
	previous := indicator.status
	indicator.status = next(previous)
	if !indicator.ready {
		return engine.ErrNotReady
	}
	if indicator.status != previous {
		indicator.renderLocked(previous.phase != indicator.status.phase)
	}
	return nil
}

func (indicator *Indicator) onReady() {
	systray.SetTitle("trackpace")

	indicator.mu.Lock()
	indicator.statusItem = systray.AddMenuItem(indicator.status.label(), "")
	indicator.statusItem.Disable()
	indicator.toggleItem = systray.AddMenuItem(indicator.status.toggleLabel(), "Start or pause the session")
	lapItem := systray.AddMenuItem("Lap", "Record a lap")
	splitItem := systray.AddMenuItem("Split", "Record a split")
	trackMenu := systray.AddMenuItem("Track", "Lap distance")
	current := indicator.controller.Snapshot().TrackDistanceM
	indicator.trackItems = indicator.trackItems[:0]
	for _, track := range indicator.tracks {
		indicator.trackItems = append(indicator.trackItems,
			trackMenu.AddSubMenuItemCheckbox(track.Label(), "", track.DistanceM == current))
	}
	systray.AddSeparator()
	quitItem := systray.AddMenuItem("Quit", "Stop trackpace")
	indicator.ready = true
	indicator.renderLocked(true)
	trackItems := append([]*systray.MenuItem(nil), indicator.trackItems...)
	toggleItem := indicator.toggleItem
	indicator.mu.Unlock()

	go indicator.listen(toggleItem, lapItem, splitItem, quitItem)
	for i, item := range trackItems {
		go indicator.listenTrack(i, item)
	}
}

func (indicator *Indicator) listen(toggleItem, lapItem, splitItem, quitItem *systray.MenuItem) {
	for {
		var err error
		select {
		case <-indicator.quit:
			return
		case <-toggleItem.ClickedCh:
			err = indicator.controller.ToggleStartPause()
		case <-lapItem.ClickedCh:
			err = indicator.controller.AddLap()
		case <-splitItem.ClickedCh:
			err = indicator.controller.SplitLastLap()
		case <-quitItem.ClickedCh:
			if indicator.onQuit != nil {
				indicator.onQuit()
			}
			return
		}
		if err != nil {
			indicator.logger.Warn("indicator command failed", "err", err)
		}
	}
}

func (indicator *Indicator) listenTrack(index int, item *systray.MenuItem) {
	distance := indicator.tracks[index].DistanceM
	for {
		select {
		case <-indicator.quit:
			return
		case <-item.ClickedCh:
		}
		if err := indicator.controller.SetTrackDistance(distance); err != nil {
			indicator.logger.Warn("change track failed", "distance", distance, "err", err)
			continue
		}
		indicator.mu.Lock()
		for i, other := range indicator.trackItems {
			if i == index {
				other.Check()
			} else {
				other.Uncheck()
			}
		}
		indicator.mu.Unlock()
	}
}

func (indicator *Indicator) renderLocked(phaseChanged bool) {
	label := indicator.status.label()
	indicator.statusItem.SetTitle(label)
	systray.SetTooltip("trackpace: " + label)
	if !phaseChanged {
		return
	}
	indicator.toggleItem.SetTitle(indicator.status.toggleLabel())
	icon, err := resources.IconBytes(indicator.status.iconName())
	if err != nil {
		indicator.logger.Warn("tray icon missing", "err", err)
		return
	}
	systray.SetIcon(icon)
}
