package storage

import (
	"trackpace/internal/core/model"
	"trackpace/internal/core/pace"
)

// SessionKey is the fixed name the session blob is stored under.
const SessionKey = "session_state"

// sessionRecord is the on-disk form of a session, shared by the YAML file
// and the JSON blob in SQLite.
type sessionRecord struct {
	Running        bool        `yaml:"is_running" json:"is_running"`
	ElapsedMs      int64       `yaml:"elapsed_ms" json:"elapsed_ms"`
	Laps           []lapRecord `yaml:"laps" json:"laps"`
	TrackDistanceM int         `yaml:"track_distance_m" json:"track_distance_m"`
	UIVisible      bool        `yaml:"ui_visible" json:"ui_visible"`
	SplitMarkMs    int64       `yaml:"split_mark_ms,omitempty" json:"split_mark_ms,omitempty"`
}

type lapRecord struct {
	Number     int    `yaml:"lap_number" json:"lap_number"`
	DurationMs int64  `yaml:"duration_ms" json:"duration_ms"`
	DistanceM  int    `yaml:"distance_m" json:"distance_m"`
	Pace       string `yaml:"pace_min_km" json:"pace_min_km"`
	Split      bool   `yaml:"split,omitempty" json:"split,omitempty"`
}

// defaultRecord seeds decoding so fields missing from older files keep
// their defaults.
func defaultRecord() sessionRecord {
	return toRecord(model.DefaultSession())
}

func toRecord(state model.SessionState) sessionRecord {
	record := sessionRecord{
		Running:        state.Running,
		ElapsedMs:      state.ElapsedMs,
		Laps:           make([]lapRecord, 0, len(state.Laps)),
		TrackDistanceM: state.TrackDistanceM,
		UIVisible:      state.UIVisible,
		SplitMarkMs:    state.SplitMarkMs,
	}
	for _, lap := range state.Laps {
		record.Laps = append(record.Laps, lapRecord{
			Number:     lap.Number,
			DurationMs: lap.DurationMs,
			DistanceM:  lap.DistanceM,
			Pace:       lap.Pace,
			Split:      lap.Split,
		})
	}
	return record
}

func (record sessionRecord) toState() model.SessionState {
	state := model.SessionState{
		Running:        record.Running,
		ElapsedMs:      record.ElapsedMs,
		TrackDistanceM: record.TrackDistanceM,
		UIVisible:      record.UIVisible,
		SplitMarkMs:    record.SplitMarkMs,
	}
	if len(record.Laps) > 0 {
		state.Laps = make([]model.Lap, 0, len(record.Laps))
	}
	for _, lap := range record.Laps {
		lapPace := lap.Pace
		if lapPace == "" {
			lapPace = pace.Calculate(lap.DurationMs, lap.DistanceM)
		}
		state.Laps = append(state.Laps, model.Lap{
			Number:     lap.Number,
			DurationMs: lap.DurationMs,
			DistanceM:  lap.DistanceM,
			Pace:       lapPace,
			Split:      lap.Split,
		})
	}
	return state.Normalized()
}
