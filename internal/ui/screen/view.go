package screen

import (
	"fmt"

	"trackpace/internal/core/model"
	"trackpace/internal/core/pace"
	"trackpace/internal/ui/preferences"
)

// Row is one entry of the laps list.
type Row struct {
	Number int
	Text   string
	Split  bool
}

// View is everything the screen renders for a state.
type View struct {
	LapHeader      string
	DistanceHeader string
	Pace           string
	Timer          string
	ToggleLabel    string
	LapEnabled     bool
	TrackLabels    []string
	TrackSelected  string
	Rows           []Row
	Visible        bool
}

// NewView derives the screen contents from the session.
func NewView(state model.SessionState, tracks []preferences.Track) View {
	view := View{
		LapHeader:      fmt.Sprintf("Lap %d", state.CurrentLapNumber()),
		DistanceHeader: fmt.Sprintf("%d m", state.TotalDistanceM()),
		Pace:           state.LastPace(),
		Timer:          pace.FormatTime(state.ElapsedMs),
		ToggleLabel:    "Start",
		LapEnabled:     state.Running,
		Visible:        state.UIVisible,
		Rows:           make([]Row, 0, len(state.Laps)),
	}
	if state.Running {
		view.ToggleLabel = "Pause"
	}

	current := false
	for _, track := range tracks {
		view.TrackLabels = append(view.TrackLabels, track.Label())
		if track.DistanceM == state.TrackDistanceM {
			view.TrackSelected = track.Label()
			current = true
		}
	}
	if !current {
		other := preferences.Track{Name: "Track", DistanceM: state.TrackDistanceM}
		view.TrackLabels = append(view.TrackLabels, other.Label())
		view.TrackSelected = other.Label()
	}

	for _, lap := range state.Laps {
		view.Rows = append(view.Rows, rowFor(lap))
	}
	return view
}

func rowFor(lap model.Lap) Row {
	if lap.Split {
		return Row{
			Number: lap.Number,
			Split:  true,
			Text:   fmt.Sprintf("    split  %s", pace.FormatTime(lap.DurationMs)),
		}
	}
	return Row{
		Number: lap.Number,
		Text:   fmt.Sprintf("Lap %-3d  %s  %s /km  %d m", lap.Number, pace.FormatTime(lap.DurationMs), lap.Pace, lap.DistanceM),
	}
}

// trackDistance returns the distance behind a track radio label.
func trackDistance(label string, tracks []preferences.Track, fallback int) (int, bool) {
	for _, track := range tracks {
		if track.Label() == label {
			return track.DistanceM, true
		}
	}
	if (preferences.Track{Name: "Track", DistanceM: fallback}).Label() == label {
		return fallback, true
	}
	return 0, false
}
