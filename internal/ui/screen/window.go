// Package screen is the desktop session window: header, last pace, timer,
// the command buttons, track picker and the laps list.
package screen

import (
	"context"
	"image/color"
	"slices"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/charmbracelet/log"

	"trackpace/internal/core/engine"
	"trackpace/internal/core/model"
	"trackpace/internal/ui/preferences"
)

// Dimmer is shown in place of the window while the UI is hidden.
type Dimmer interface {
	Show()
	Hide()
	SetSession(lapNumber, totalDistanceM int)
}

// Screen is the main window. All fields below window are touched only on
// the fyne goroutine.
type Screen struct {
	window     fyne.Window
	controller engine.Controller
	dimmer     Dimmer
	logger     *log.Logger

	tracks   []preferences.Track
	state    model.SessionState
	view     View
	docked   bool
	rendered bool

	lapHeader      *widget.Label
	distanceHeader *widget.Label
	paceText       *canvas.Text
	timerText      *canvas.Text
	toggleButton   *widget.Button
	lapButton      *widget.Button
	splitButton    *widget.Button
	trackRadio     *widget.RadioGroup
	lapsList       *widget.List
}

// New builds the window. It shows nothing until Watch delivers a state.
func New(app fyne.App, controller engine.Controller, tracks []preferences.Track, dimmer Dimmer, logger *log.Logger) *Screen {
	screen := &Screen{
		window:     app.NewWindow("trackpace"),
		controller: controller,
		dimmer:     dimmer,
		logger:     logger.WithPrefix("screen"),
		tracks:     tracks,
	}
	if app.Icon() != nil {
		screen.window.SetIcon(app.Icon())
	}

	screen.lapHeader = widget.NewLabelWithStyle("Lap 1", fyne.TextAlignLeading, fyne.TextStyle{Bold: true})
	screen.distanceHeader = widget.NewLabelWithStyle("0 m", fyne.TextAlignTrailing, fyne.TextStyle{Bold: true})

	screen.paceText = canvas.NewText(model.NoPace, theme.Color(theme.ColorNameForeground))
	screen.paceText.Alignment = fyne.TextAlignCenter
	screen.paceText.TextStyle = fyne.TextStyle{Bold: true, Monospace: true}
	screen.paceText.TextSize = 72

	screen.timerText = canvas.NewText("00:00.00", color.NRGBA{R: 34, G: 160, B: 90, A: 255})
	screen.timerText.Alignment = fyne.TextAlignCenter
	screen.timerText.TextStyle = fyne.TextStyle{Monospace: true}
	screen.timerText.TextSize = 40

	screen.toggleButton = widget.NewButton("Start", screen.command("toggle", controller.ToggleStartPause))
	screen.toggleButton.Importance = widget.HighImportance
	screen.lapButton = widget.NewButton("Lap", screen.command("lap", controller.AddLap))
	screen.splitButton = widget.NewButton("Split", screen.command("split", controller.SplitLastLap))
	resetButton := widget.NewButton("Reset", screen.ConfirmReset)
	resetButton.Importance = widget.DangerImportance

	screen.trackRadio = widget.NewRadioGroup(nil, screen.selectTrack)
	screen.trackRadio.Horizontal = true
	screen.trackRadio.Required = true

	screen.lapsList = widget.NewList(
		func() int { return len(screen.view.Rows) },
		screen.createRow,
		screen.updateRow,
	)

	header := container.NewBorder(nil, nil, screen.lapHeader, screen.distanceHeader)
	paceCaption := widget.NewLabelWithStyle("last lap min/km", fyne.TextAlignCenter, fyne.TextStyle{Italic: true})
	buttons := container.NewGridWithColumns(4, screen.toggleButton, screen.lapButton, screen.splitButton, resetButton)
	top := container.NewVBox(
		header,
		screen.paceText,
		paceCaption,
		screen.timerText,
		buttons,
		container.NewCenter(screen.trackRadio),
		widget.NewSeparator(),
	)

	screen.window.SetContent(container.NewBorder(top, nil, nil, nil, screen.lapsList))
	screen.window.Resize(fyne.NewSize(440, 680))
	screen.window.Canvas().SetOnTypedKey(screen.handleKey)
	screen.window.SetCloseIntercept(screen.dock)

	return screen
}

// Watch renders every state the controller publishes until ctx ends.
func (screen *Screen) Watch(ctx context.Context) {
	states, cancel := screen.controller.Subscribe()
	go func() {
		<-ctx.Done()
		cancel()
	}()
	go func() {
		for state := range states {
			fyne.Do(func() { screen.render(state) })
		}
	}()
}

// Show brings the window back from the tray and restarts auto-hide.
func (screen *Screen) Show() {
	fyne.Do(func() {
		screen.docked = false
		screen.window.Show()
		screen.window.RequestFocus()
	})
	if err := screen.controller.ShowUI(); err != nil {
		screen.logger.Warn("show ui failed", "err", err)
	}
}

// SetTracks replaces the track picker entries.
func (screen *Screen) SetTracks(tracks []preferences.Track) {
	fyne.Do(func() {
		screen.tracks = tracks
		screen.rendered = false
		screen.render(screen.state)
	})
}

// ConfirmReset asks before clearing the session.
func (screen *Screen) ConfirmReset() {
	fyne.Do(func() {
		screen.docked = false
		screen.window.Show()
		dialog.ShowConfirm("Reset session", "Clear all laps and the timer?", func(confirmed bool) {
			if !confirmed {
				return
			}
			if err := screen.controller.ResetSession(); err != nil {
				screen.logger.Warn("reset failed", "err", err)
			}
		}, screen.window)
	})
}

func (screen *Screen) render(state model.SessionState) {
	screen.state = state
	next := NewView(state, screen.tracks)
	previous := screen.view
	screen.view = next

	if !screen.rendered || previous.LapHeader != next.LapHeader {
		screen.lapHeader.SetText(next.LapHeader)
	}
	if !screen.rendered || previous.DistanceHeader != next.DistanceHeader {
		screen.distanceHeader.SetText(next.DistanceHeader)
	}
	if screen.paceText.Text != next.Pace {
		screen.paceText.Text = next.Pace
		screen.paceText.Refresh()
	}
	if screen.timerText.Text != next.Timer {
		screen.timerText.Text = next.Timer
		screen.timerText.Refresh()
	}
	screen.toggleButton.SetText(next.ToggleLabel)
	setEnabled(screen.lapButton, next.LapEnabled)
	setEnabled(screen.splitButton, next.LapEnabled)

	if !screen.rendered || !slices.Equal(previous.TrackLabels, next.TrackLabels) {
		screen.trackRadio.Options = next.TrackLabels
		screen.trackRadio.Refresh()
	}
	if screen.trackRadio.Selected != next.TrackSelected {
		screen.trackRadio.SetSelected(next.TrackSelected)
	}
	if !screen.rendered || !slices.Equal(previous.Rows, next.Rows) {
		screen.lapsList.Refresh()
	}

	if screen.dimmer != nil {
		screen.dimmer.SetSession(state.CurrentLapNumber(), state.TotalDistanceM())
	}
	if !screen.docked {
		screen.applyVisibility(next.Visible, !screen.rendered || previous.Visible != next.Visible)
	}
	screen.rendered = true
}

func (screen *Screen) applyVisibility(visible, changed bool) {
	if !changed {
		return
	}
	if visible {
		if screen.dimmer != nil {
			screen.dimmer.Hide()
		}
		screen.window.Show()
		return
	}
	if screen.dimmer != nil {
		screen.window.Hide()
		screen.dimmer.Show()
	}
}

// dock hides the window to the tray instead of quitting.
func (screen *Screen) dock() {
	screen.docked = true
	screen.window.Hide()
	if screen.dimmer != nil {
		screen.dimmer.Hide()
	}
}

func (screen *Screen) selectTrack(label string) {
	if label == "" || label == screen.view.TrackSelected {
		return
	}
	distance, ok := trackDistance(label, screen.tracks, screen.state.TrackDistanceM)
	if !ok {
		return
	}
	if err := screen.controller.SetTrackDistance(distance); err != nil {
		screen.logger.Warn("change track failed", "distance", distance, "err", err)
	}
}

func (screen *Screen) handleKey(event *fyne.KeyEvent) {
	switch commandForKey(event.Name) {
	case keyToggle:
		screen.command("toggle", screen.controller.ToggleStartPause)()
	case keyLap:
		screen.command("lap", screen.controller.AddLap)()
	case keySplit:
		screen.command("split", screen.controller.SplitLastLap)()
	case keyReset:
		screen.ConfirmReset()
	default:
		screen.command("show", screen.controller.ShowUI)()
	}
}

func (screen *Screen) command(name string, run func() error) func() {
	return func() {
		if err := run(); err != nil {
			screen.logger.Warn("command failed", "command", name, "err", err)
		}
	}
}

func (screen *Screen) createRow() fyne.CanvasObject {
	label := widget.NewLabel("")
	label.TextStyle = fyne.TextStyle{Monospace: true}
	remove := widget.NewButtonWithIcon("", theme.DeleteIcon(), nil)
	remove.Importance = widget.LowImportance
	return container.NewHBox(label, layout.NewSpacer(), remove)
}

func (screen *Screen) updateRow(id widget.ListItemID, item fyne.CanvasObject) {
	if id < 0 || id >= len(screen.view.Rows) {
		return
	}
	row := screen.view.Rows[id]
	objects := item.(*fyne.Container).Objects
	label := objects[0].(*widget.Label)
	remove := objects[2].(*widget.Button)

	label.SetText(row.Text)
	number := row.Number
	remove.OnTapped = func() {
		if err := screen.controller.DeleteLap(number); err != nil {
			screen.logger.Warn("delete lap failed", "lap", number, "err", err)
		}
	}
}

func setEnabled(button *widget.Button, enabled bool) {
	if enabled == !button.Disabled() {
		return
	}
	if enabled {
		button.Enable()
	} else {
		button.Disable()
	}
}
