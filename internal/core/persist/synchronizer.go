// Package persist keeps durable storage in step with the session engine.
package persist

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"trackpace/internal/core/model"
)

// Backend stores one session snapshot under a fixed key.
type Backend interface {
	Load(ctx context.Context) (model.SessionState, bool, error)
	Save(ctx context.Context, state model.SessionState) error
}

// Config contains runtime options for a Synchronizer.
type Config struct {
	// SaveTimeout bounds a single background write.
	SaveTimeout time.Duration
	Logger      *log.Logger
}

// Synchronizer restores the saved session once and writes snapshots in the
// background. Submit never blocks; when writes fall behind only the newest
// snapshot is written.
type Synchronizer struct {
	backend Backend
	options Config
	logger  *log.Logger

	restoreOnce sync.Once

	mu      sync.Mutex
	pending *model.SessionState
	stopped bool
	wake    chan struct{}
	stopCh  chan struct{}
	done    chan struct{}
}

// New creates a Synchronizer and starts its writer goroutine.
func New(backend Backend, options Config) *Synchronizer {
	if options.SaveTimeout <= 0 {
		options.SaveTimeout = 5 * time.Second
	}
	logger := options.Logger
	if logger == nil {
		logger = log.Default()
	}

	synchronizer := &Synchronizer{
		backend: backend,
		options: options,
		logger:  logger.WithPrefix("persist"),
		wake:    make(chan struct{}, 1),
		stopCh:  make(chan struct{}),
		done:    make(chan struct{}),
	}
	go synchronizer.run()
	return synchronizer
}

// Load reads the saved snapshot. Failures are wrapped in *StorageError.
func (synchronizer *Synchronizer) Load(ctx context.Context) (model.SessionState, bool, error) {
	state, found, err := synchronizer.backend.Load(ctx)
	if err != nil {
		return model.DefaultSession(), false, &StorageError{Op: "load", Err: err}
	}
	if !found {
		return model.DefaultSession(), false, nil
	}
	return state.Normalized(), true, nil
}

// Restore loads the saved session on a new goroutine and hands it to
// deliver. Only the first call has any effect. A failed load is logged and
// delivered as not found.
func (synchronizer *Synchronizer) Restore(ctx context.Context, deliver func(model.SessionState, bool)) {
	synchronizer.restoreOnce.Do(func() {
		go func() {
			state, found, err := synchronizer.Load(ctx)
			if err != nil {
				synchronizer.logger.Warn("restore failed, starting fresh", "err", err)
			}
			deliver(state, found)
		}()
	})
}

// Submit queues a snapshot for writing and returns immediately.
func (synchronizer *Synchronizer) Submit(state model.SessionState) {
	snapshot := state.Clone()
	synchronizer.mu.Lock()
	if synchronizer.stopped {
		synchronizer.mu.Unlock()
		return
	}
	synchronizer.pending = &snapshot
	synchronizer.mu.Unlock()

	select {
	case synchronizer.wake <- struct{}{}:
	default:
	}
}

// Flush stops the writer, waits for an in-flight write and then writes the
// final snapshot synchronously.
func (synchronizer *Synchronizer) Flush(ctx context.Context, state model.SessionState) error {
	synchronizer.Stop()
	if err := synchronizer.backend.Save(ctx, state); err != nil {
		storageErr := &StorageError{Op: "flush", Err: err}
		synchronizer.logger.Warn("final save failed", "err", storageErr)
		return storageErr
	}
	return nil
}

// Stop terminates the writer goroutine. Pending snapshots are dropped.
func (synchronizer *Synchronizer) Stop() {
	synchronizer.mu.Lock()
	if synchronizer.stopped {
		synchronizer.mu.Unlock()
		<-synchronizer.done
		return
	}
	synchronizer.stopped = true
	synchronizer.pending = nil
	close(synchronizer.stopCh)
	synchronizer.mu.Unlock()
	<-synchronizer.done
}

func (synchronizer *Synchronizer) run() {
	defer close(synchronizer.done)
	for {
		select {
		case <-synchronizer.stopCh:
			return
		case <-synchronizer.wake:
			synchronizer.writePending()
		}
	}
}

func (synchronizer *Synchronizer) writePending() {
	synchronizer.mu.Lock()
	snapshot := synchronizer.pending
	synchronizer.pending = nil
	synchronizer.mu.Unlock()
	if snapshot == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), synchronizer.options.SaveTimeout)
	defer cancel()
	if err := synchronizer.backend.Save(ctx, *snapshot); err != nil {
		synchronizer.logger.Warn("save failed", "err", &StorageError{Op: "save", Err: err})
		return
	}
	synchronizer.logger.Debug("session saved", "laps", len(snapshot.Laps), "elapsed_ms", snapshot.ElapsedMs)
}
