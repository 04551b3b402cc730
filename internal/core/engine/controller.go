package engine

import "trackpace/internal/core/model"

// Controller is the command and query surface used by UI layers. UI code
// never touches SessionState except through these calls.
type Controller interface {
	ToggleStartPause() error
	AddLap() error
	SplitLastLap() error
	DeleteLap(number int) error
	ResetSession() error
	SetTrackDistance(distanceM int) error
	ShowUI() error
	HideUI() error

	Snapshot() model.SessionState
	Subscribe() (<-chan model.SessionState, func())
}

var _ Controller = (*Engine)(nil)
