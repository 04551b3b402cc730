package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"trackpace/internal/ui/preferences"
)

const settingsFileName = "settings.yaml"

type yamlSettings struct {
	CustomTrackM   int     `yaml:"custom_track_m"`
	SpeechEnabled  *bool   `yaml:"speech_enabled"`
	OverlayOpacity float64 `yaml:"overlay_opacity"`
	Fullscreen     *bool   `yaml:"fullscreen"`
}

// LoadSettings reads user preferences from <dir>/settings.yaml.
// If the file does not exist, default settings are returned.
func LoadSettings(dir string) (preferences.Settings, error) {
	settings := preferences.DefaultSettings()

	rawData, err := os.ReadFile(settingsPath(dir))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return settings, nil
		}
		return settings, fmt.Errorf("read settings file: %w", err)
	}

	var fileData yamlSettings
	if err := yaml.Unmarshal(rawData, &fileData); err != nil {
		return settings, fmt.Errorf("parse settings yaml: %w", err)
	}

	applyYamlSettings(&settings, fileData)
	return settings, nil
}

// SaveSettings writes user preferences to <dir>/settings.yaml.
func SaveSettings(dir string, settings preferences.Settings) error {
	fileData := yamlSettings{
		CustomTrackM:   settings.CustomTrackM,
		SpeechEnabled:  &settings.SpeechEnabled,
		OverlayOpacity: settings.OverlayOpacity,
		Fullscreen:     &settings.Fullscreen,
	}

	serialized, err := yaml.Marshal(fileData)
	if err != nil {
		return fmt.Errorf("marshal settings yaml: %w", err)
	}

	if err := writeFileAtomic(settingsPath(dir), serialized, 0o644); err != nil {
		return fmt.Errorf("write settings file: %w", err)
	}

	return nil
}

func settingsPath(dir string) string {
	return filepath.Join(dir, settingsFileName)
}

func applyYamlSettings(settings *preferences.Settings, fileData yamlSettings) {
	if fileData.CustomTrackM > 0 && fileData.CustomTrackM <= preferences.MaxCustomTrackM {
		settings.CustomTrackM = fileData.CustomTrackM
	}
	if preferences.ValidOpacity(fileData.OverlayOpacity) {
		settings.OverlayOpacity = fileData.OverlayOpacity
	}
	if fileData.SpeechEnabled != nil {
		settings.SpeechEnabled = *fileData.SpeechEnabled
	}
	if fileData.Fullscreen != nil {
		settings.Fullscreen = *fileData.Fullscreen
	}
}
