package bootstrap

import (
	"sync"

	"trackpace/internal/core/engine"
)

// lateNotifier forwards to a Notifier installed after the engine is built,
// since the tray and indicator need the engine to exist first.
type lateNotifier struct {
	mu     sync.RWMutex
	target engine.Notifier
}

func (notifier *lateNotifier) set(target engine.Notifier) {
	notifier.mu.Lock()
	defer notifier.mu.Unlock()
	notifier.target = target
}

func (notifier *lateNotifier) current() engine.Notifier {
	notifier.mu.RLock()
	defer notifier.mu.RUnlock()
	return notifier.target
}

func (notifier *lateNotifier) ShowRunning(text string) error {
	if target := notifier.current(); target != nil {
		return target.ShowRunning(text)
	}
	return engine.ErrNotReady
}

func (notifier *lateNotifier) Refresh(text string) error {
	if target := notifier.current(); target != nil {
		return target.Refresh(text)
	}
	return engine.ErrNotReady
}

func (notifier *lateNotifier) Detach() error {
	if target := notifier.current(); target != nil {
		return target.Detach()
	}
	return engine.ErrNotReady
}

func (notifier *lateNotifier) Remove() error {
	if target := notifier.current(); target != nil {
		return target.Remove()
	}
	return engine.ErrNotReady
}
