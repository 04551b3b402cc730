package engine

import (
	"context"

	"trackpace/internal/core/model"
)

// Notifier mirrors the session into a persistent notification.
type Notifier interface {
	ShowRunning(text string) error
	Refresh(text string) error
	// Detach leaves the last notification visible but no longer ongoing.
	Detach() error
	Remove() error
}

// Announcer speaks the pace of a recorded lap.
type Announcer interface {
	Announce(pace string) error
}

// Saver receives snapshots to persist. Submit must not block.
type Saver interface {
	Submit(state model.SessionState)
}

// Restorer loads the saved session once and delivers it asynchronously.
type Restorer interface {
	Restore(ctx context.Context, deliver func(model.SessionState, bool))
}

// Flusher writes a final snapshot during shutdown.
type Flusher interface {
	Flush(ctx context.Context, state model.SessionState) error
}

// Stopper ends background saving without writing anything further.
type Stopper interface {
	Stop()
}

type nopNotifier struct{}

func (nopNotifier) ShowRunning(string) error { return nil }
func (nopNotifier) Refresh(string) error     { return nil }
func (nopNotifier) Detach() error            { return nil }
func (nopNotifier) Remove() error            { return nil }

type nopAnnouncer struct{}

func (nopAnnouncer) Announce(string) error { return ErrNotReady }

type nopSaver struct{}

func (nopSaver) Submit(model.SessionState) {}
