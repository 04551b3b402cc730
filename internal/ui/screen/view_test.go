package screen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trackpace/internal/core/model"
	"trackpace/internal/ui/preferences"
)

func sampleSession() model.SessionState {
	state := model.DefaultSession()
	state.Running = true
	state.ElapsedMs = 83450
	state.Laps = []model.Lap{
		{Number: 3, DurationMs: 20000, DistanceM: 370, Split: true},
		{Number: 2, DurationMs: 148000, DistanceM: 370, Pace: "6:39"},
		{Number: 1, DurationMs: 150000, DistanceM: 370, Pace: "6:45"},
	}
	return state
}

func TestNewViewHeaderAndRows(t *testing.T) {
	view := NewView(sampleSession(), preferences.PresetTracks)

	assert.Equal(t, "Lap 3", view.LapHeader)
	assert.Equal(t, "740 m", view.DistanceHeader)
	assert.Equal(t, "01:23.45", view.Timer)
	assert.Equal(t, "Pause", view.ToggleLabel)
	assert.True(t, view.LapEnabled)
	assert.True(t, view.Visible)

	require.Len(t, view.Rows, 3)
	assert.True(t, view.Rows[0].Split)
	assert.Equal(t, 3, view.Rows[0].Number)
	assert.Equal(t, "    split  00:20.00", view.Rows[0].Text)
	assert.Equal(t, "Lap 2    02:28.00  6:39 /km  370 m", view.Rows[1].Text)
	assert.Equal(t, 1, view.Rows[2].Number)
}

func TestNewViewIdleSession(t *testing.T) {
	view := NewView(model.DefaultSession(), preferences.PresetTracks)

	assert.Equal(t, "Lap 1", view.LapHeader)
	assert.Equal(t, "0 m", view.DistanceHeader)
	assert.Equal(t, model.NoPace, view.Pace)
	assert.Equal(t, "00:00.00", view.Timer)
	assert.Equal(t, "Start", view.ToggleLabel)
	assert.False(t, view.LapEnabled)
	assert.Empty(t, view.Rows)
}

func TestNewViewSelectsPresetTrack(t *testing.T) {
	state := model.DefaultSession()
	state.TrackDistanceM = 630

	view := NewView(state, preferences.PresetTracks)
	assert.Equal(t, []string{"Delson (370 m)", "Dix30 (630 m)"}, view.TrackLabels)
	assert.Equal(t, "Dix30 (630 m)", view.TrackSelected)
}

func TestNewViewAddsUnlistedTrack(t *testing.T) {
	state := model.DefaultSession()
	state.TrackDistanceM = 400

	view := NewView(state, preferences.PresetTracks)
	require.Len(t, view.TrackLabels, 3)
	assert.Equal(t, "Track (400 m)", view.TrackSelected)

	distance, ok := trackDistance("Track (400 m)", preferences.PresetTracks, 400)
	assert.True(t, ok)
	assert.Equal(t, 400, distance)
}

func TestTrackDistance(t *testing.T) {
	distance, ok := trackDistance("Delson (370 m)", preferences.PresetTracks, 630)
	assert.True(t, ok)
	assert.Equal(t, 370, distance)

	_, ok = trackDistance("Oval (200 m)", preferences.PresetTracks, 630)
	assert.False(t, ok)
}
