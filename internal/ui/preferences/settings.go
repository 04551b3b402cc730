package preferences

import "fmt"

const (
	MinOverlayOpacity = 0.7
	MaxOverlayOpacity = 0.95
	// MaxCustomTrackM bounds the custom distance to something a track can be.
	MaxCustomTrackM = 10000
)

// Track is a named lap distance offered in the track pickers.
type Track struct {
	Name      string
	DistanceM int
}

// Label renders the track for menus and radio groups.
func (track Track) Label() string {
	return fmt.Sprintf("%s (%d m)", track.Name, track.DistanceM)
}

// PresetTracks are the tracks always offered.
var PresetTracks = []Track{
	{Name: "Delson", DistanceM: 370},
	{Name: "Dix30", DistanceM: 630},
}

// Settings defines editable user preferences.
type Settings struct {
	// CustomTrackM adds a "Custom" track when positive.
	CustomTrackM  int
	SpeechEnabled bool

	OverlayOpacity float64
	Fullscreen     bool
}

// DefaultSettings returns default settings for trackpace.
func DefaultSettings() Settings {
	return Settings{
		CustomTrackM:   0,
		SpeechEnabled:  true,
		OverlayOpacity: 0.85,
		Fullscreen:     true,
	}
}

// Tracks returns the presets followed by the custom track, if any.
func (settings Settings) Tracks() []Track {
	tracks := append([]Track(nil), PresetTracks...)
	if settings.CustomTrackM > 0 {
		tracks = append(tracks, Track{Name: "Custom", DistanceM: settings.CustomTrackM})
	}
	return tracks
}

// TrackFor returns the track with the given distance, or an unnamed one.
func (settings Settings) TrackFor(distanceM int) Track {
	for _, track := range settings.Tracks() {
		if track.DistanceM == distanceM {
			return track
		}
	}
	return Track{Name: "Track", DistanceM: distanceM}
}

// ValidOpacity reports whether value is an accepted overlay opacity.
func ValidOpacity(value float64) bool {
	return value >= MinOverlayOpacity && value <= MaxOverlayOpacity
}
