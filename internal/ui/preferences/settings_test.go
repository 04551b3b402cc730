package preferences

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTracksIncludeCustomOnlyWhenSet(t *testing.T) {
	settings := DefaultSettings()
	assert.Equal(t, PresetTracks, settings.Tracks())

	settings.CustomTrackM = 400
	tracks := settings.Tracks()
	assert.Len(t, tracks, 3)
	assert.Equal(t, Track{Name: "Custom", DistanceM: 400}, tracks[2])
	assert.Len(t, PresetTracks, 2)
}

func TestTrackFor(t *testing.T) {
	settings := DefaultSettings()
	assert.Equal(t, "Dix30 (630 m)", settings.TrackFor(630).Label())
	assert.Equal(t, "Track (1000 m)", settings.TrackFor(1000).Label())
}

func TestApplyForm(t *testing.T) {
	base := DefaultSettings()
	base.CustomTrackM = 400

	tests := []struct {
		name        string
		customTrack string
		opacity     float64
		want        Settings
	}{
		{
			name:        "valid values",
			customTrack: "800",
			opacity:     0.9,
			want:        Settings{CustomTrackM: 800, SpeechEnabled: false, OverlayOpacity: 0.9, Fullscreen: false},
		},
		{
			name:        "empty distance clears custom track",
			customTrack: "",
			opacity:     0.85,
			want:        Settings{CustomTrackM: 0, SpeechEnabled: false, OverlayOpacity: 0.85, Fullscreen: false},
		},
		{
			name:        "invalid values keep previous",
			customTrack: "-5",
			opacity:     0.2,
			want:        Settings{CustomTrackM: 400, SpeechEnabled: false, OverlayOpacity: 0.85, Fullscreen: false},
		},
		{
			name:        "distance above limit is ignored",
			customTrack: "20000",
			opacity:     0.85,
			want:        Settings{CustomTrackM: 400, SpeechEnabled: false, OverlayOpacity: 0.85, Fullscreen: false},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, applyForm(base, tc.customTrack, false, tc.opacity, false))
		})
	}
}
