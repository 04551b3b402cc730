package preferences

import (
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
)

// Window handles the preferences UI.
type Window struct {
	window      fyne.Window
	settings    Settings
	onSave      func(Settings)
	onCancel    func()
	customTrack *widget.Entry
	speech      *widget.Check
	opacity     *widget.Slider
	fullscreen  *widget.Check
}

// New creates a preferences window.
func New(app fyne.App, settings Settings, onSave func(Settings)) *Window {
	window := app.NewWindow("trackpace Settings")

	customTrack := widget.NewEntry()
	customTrack.SetPlaceHolder("none")

	speech := widget.NewCheck("Announce pace after each lap", nil)

	opacity := widget.NewSlider(MinOverlayOpacity, MaxOverlayOpacity)
	opacity.Step = 0.01

	fullscreen := widget.NewCheck("Fullscreen dim overlay", nil)

	form := container.NewVBox(
		widget.NewLabelWithStyle("Track", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		container.NewHBox(widget.NewLabel("Custom track distance"), customTrack, widget.NewLabel("m")),
		widget.NewLabelWithStyle("Feedback", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		speech,
		widget.NewLabel("Overlay opacity"),
		opacity,
		fullscreen,
	)

	saveButton := widget.NewButton("Save", nil)
	cancelButton := widget.NewButton("Cancel", nil)
	buttons := container.NewHBox(saveButton, layout.NewSpacer(), cancelButton)

	content := container.NewBorder(nil, buttons, nil, nil, form)
	window.SetContent(content)
	window.Resize(fyne.NewSize(420, 300))

	prefs := &Window{
		window:      window,
		onSave:      onSave,
		customTrack: customTrack,
		speech:      speech,
		opacity:     opacity,
		fullscreen:  fullscreen,
	}
	prefs.UpdateSettings(settings)

	saveButton.OnTapped = prefs.handleSave
	cancelButton.OnTapped = func() {
		window.Hide()
		prefs.UpdateSettings(prefs.settings)
		if prefs.onCancel != nil {
			prefs.onCancel()
		}
	}
	window.SetCloseIntercept(cancelButton.OnTapped)

	return prefs
}

// Show displays the preferences window.
func (prefs *Window) Show() {
	prefs.window.Show()
	prefs.window.RequestFocus()
}

// UpdateSettings replaces window values.
func (prefs *Window) UpdateSettings(settings Settings) {
	prefs.settings = settings
	if settings.CustomTrackM > 0 {
		prefs.customTrack.SetText(strconv.Itoa(settings.CustomTrackM))
	} else {
		prefs.customTrack.SetText("")
	}
	prefs.speech.SetChecked(settings.SpeechEnabled)
	prefs.opacity.Value = settings.OverlayOpacity
	prefs.opacity.Refresh()
	prefs.fullscreen.SetChecked(settings.Fullscreen)
}

func (prefs *Window) handleSave() {
	settings := applyForm(prefs.settings, prefs.customTrack.Text, prefs.speech.Checked, prefs.opacity.Value, prefs.fullscreen.Checked)
	prefs.UpdateSettings(settings)
	if prefs.onSave != nil {
		prefs.onSave(settings)
	}
	prefs.window.Hide()
}

// applyForm merges form values into settings. An empty custom distance
// removes the custom track; an unparsable one keeps the previous value.
func applyForm(settings Settings, customTrack string, speech bool, opacity float64, fullscreen bool) Settings {
	if customTrack == "" {
		settings.CustomTrackM = 0
	} else if distance, ok := parsePositiveInt(customTrack); ok && distance <= MaxCustomTrackM {
		settings.CustomTrackM = distance
	}
	settings.SpeechEnabled = speech
	if ValidOpacity(opacity) {
		settings.OverlayOpacity = opacity
	}
	settings.Fullscreen = fullscreen
	return settings
}

func parsePositiveInt(value string) (int, bool) {
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed <= 0 {
		return 0, false
	}
	return parsed, true
}
