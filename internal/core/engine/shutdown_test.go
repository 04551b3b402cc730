package engine

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trackpace/internal/clock"
	"trackpace/internal/core/model"
	"trackpace/internal/core/persist"
)

// gatedBackend holds one saved session and blocks Load until released.
type gatedBackend struct {
	release chan struct{}

	mu    sync.Mutex
	saved model.SessionState
	saves int
}

func (backend *gatedBackend) Load(ctx context.Context) (model.SessionState, bool, error) {
	select {
	case <-backend.release:
	case <-ctx.Done():
		return model.SessionState{}, false, ctx.Err()
	}
	backend.mu.Lock()
	defer backend.mu.Unlock()
	return backend.saved.Clone(), true, nil
}

func (backend *gatedBackend) Save(_ context.Context, state model.SessionState) error {
	backend.mu.Lock()
	defer backend.mu.Unlock()
	backend.saved = state.Clone()
	backend.saves++
	return nil
}

func (backend *gatedBackend) snapshot() (model.SessionState, int) {
	backend.mu.Lock()
	defer backend.mu.Unlock()
	return backend.saved.Clone(), backend.saves
}

func savedSession() model.SessionState {
	state := model.DefaultSession().WithTrackDistance(630)
	state.Laps = []model.Lap{{Number: 1, DurationMs: 150000, DistanceM: 630, Pace: "3:58"}}
	return state
}

func newPersistedEngine(t *testing.T, backend *gatedBackend) (*Engine, *persist.Synchronizer) {
	t.Helper()
	logger := log.New(io.Discard)
	synchronizer := persist.New(backend, persist.Config{SaveTimeout: time.Second, Logger: logger})
	engine := New(Config{
		TickInterval: tick,
		Clock:        clock.NewFakeClock(time.Date(2024, 5, 1, 7, 0, 0, 0, time.UTC)),
		Logger:       logger,
	}, Collaborators{Saver: synchronizer})
	return engine, synchronizer
}

func TestCloseBeforeRestoreKeepsSavedSession(t *testing.T) {
	backend := &gatedBackend{release: make(chan struct{}), saved: savedSession()}
	engine, synchronizer := newPersistedEngine(t, backend)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	engine.Start(ctx, synchronizer)
	require.NoError(t, engine.Close(context.Background()))
	close(backend.release)

	saved, saves := backend.snapshot()
	assert.Zero(t, saves)
	assert.Equal(t, 630, saved.TrackDistanceM)
	assert.Len(t, saved.Laps, 1)
	assert.Equal(t, model.DefaultTrackDistanceM, engine.Snapshot().TrackDistanceM)
}

func TestCloseAfterCommandFlushesBeforeRestore(t *testing.T) {
	backend := &gatedBackend{release: make(chan struct{}), saved: savedSession()}
	engine, synchronizer := newPersistedEngine(t, backend)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	engine.Start(ctx, synchronizer)
	require.NoError(t, engine.SetTrackDistance(400))
	require.NoError(t, engine.Close(context.Background()))
	close(backend.release)

	saved, saves := backend.snapshot()
	assert.Positive(t, saves)
	assert.Equal(t, 400, saved.TrackDistanceM)
	assert.Empty(t, saved.Laps)
}

func TestCloseAfterRestoreFlushesRestoredSession(t *testing.T) {
	backend := &gatedBackend{release: make(chan struct{}), saved: savedSession()}
	engine, synchronizer := newPersistedEngine(t, backend)
	close(backend.release)

	engine.Start(context.Background(), synchronizer)
	require.Eventually(t, func() bool {
		return engine.Snapshot().TrackDistanceM == 630
	}, waitFor, pollGap)
	require.NoError(t, engine.Close(context.Background()))

	saved, saves := backend.snapshot()
	assert.Equal(t, 1, saves)
	assert.Equal(t, 630, saved.TrackDistanceM)
	assert.Len(t, saved.Laps, 1)
}
