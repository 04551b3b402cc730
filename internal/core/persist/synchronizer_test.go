package persist

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trackpace/internal/core/model"
)

type memoryBackend struct {
	mu      sync.Mutex
	state   model.SessionState
	found   bool
	loadErr error
	saveErr error
	saves   int
	gate    chan struct{}
}

func (backend *memoryBackend) Load(context.Context) (model.SessionState, bool, error) {
	backend.mu.Lock()
	defer backend.mu.Unlock()
	if backend.loadErr != nil {
		return model.SessionState{}, false, backend.loadErr
	}
	return backend.state.Clone(), backend.found, nil
}

func (backend *memoryBackend) Save(_ context.Context, state model.SessionState) error {
	if backend.gate != nil {
		<-backend.gate
	}
	backend.mu.Lock()
	defer backend.mu.Unlock()
	backend.saves++
	if backend.saveErr != nil {
		return backend.saveErr
	}
	backend.state = state.Clone()
	backend.found = true
	return nil
}

func (backend *memoryBackend) snapshot() (model.SessionState, int) {
	backend.mu.Lock()
	defer backend.mu.Unlock()
	return backend.state.Clone(), backend.saves
}

func quietLogger() *log.Logger {
	return log.New(io.Discard)
}

func TestRestoreDeliversExactlyOnce(t *testing.T) {
	saved := model.DefaultSession().WithTrackDistance(630)
	backend := &memoryBackend{state: saved, found: true}
	synchronizer := New(backend, Config{Logger: quietLogger()})
	defer synchronizer.Stop()

	deliveries := make(chan model.SessionState, 2)
	deliver := func(state model.SessionState, found bool) {
		assert.True(t, found)
		deliveries <- state
	}
	synchronizer.Restore(context.Background(), deliver)
	synchronizer.Restore(context.Background(), deliver)

	select {
	case state := <-deliveries:
		assert.True(t, state.Equal(saved))
	case <-time.After(time.Second):
		t.Fatal("restore was not delivered")
	}
	select {
	case <-deliveries:
		t.Fatal("restore delivered twice")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestRestoreFailureDeliversDefault(t *testing.T) {
	backend := &memoryBackend{loadErr: errors.New("disk on fire")}
	synchronizer := New(backend, Config{Logger: quietLogger()})
	defer synchronizer.Stop()

	done := make(chan struct{})
	synchronizer.Restore(context.Background(), func(state model.SessionState, found bool) {
		assert.False(t, found)
		assert.True(t, state.Equal(model.DefaultSession()))
		close(done)
	})

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("restore was not delivered")
	}
}

func TestLoadWrapsStorageError(t *testing.T) {
	cause := errors.New("permission denied")
	synchronizer := New(&memoryBackend{loadErr: cause}, Config{Logger: quietLogger()})
	defer synchronizer.Stop()

	_, found, err := synchronizer.Load(context.Background())
	assert.False(t, found)

	var storageErr *StorageError
	require.ErrorAs(t, err, &storageErr)
	assert.Equal(t, "load", storageErr.Op)
	assert.ErrorIs(t, err, cause)
}

func TestLoadNormalizesTrackDistance(t *testing.T) {
	backend := &memoryBackend{state: model.SessionState{TrackDistanceM: 0}, found: true}
	synchronizer := New(backend, Config{Logger: quietLogger()})
	defer synchronizer.Stop()

	state, found, err := synchronizer.Load(context.Background())
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, model.DefaultTrackDistanceM, state.TrackDistanceM)
}

func TestSubmitDoesNotBlockAndLastSnapshotWins(t *testing.T) {
	backend := &memoryBackend{gate: make(chan struct{})}
	synchronizer := New(backend, Config{Logger: quietLogger()})
	defer synchronizer.Stop()

	submitted := make(chan struct{})
	go func() {
		for distance := 100; distance <= 150; distance++ {
			synchronizer.Submit(model.DefaultSession().WithTrackDistance(distance))
		}
		close(submitted)
	}()

	select {
	case <-submitted:
	case <-time.After(time.Second):
		t.Fatal("Submit blocked on a stalled backend")
	}

	close(backend.gate)
	require.Eventually(t, func() bool {
		state, _ := backend.snapshot()
		return state.TrackDistanceM == 150
	}, time.Second, 5*time.Millisecond)

	_, saves := backend.snapshot()
	assert.Less(t, saves, 51)
}

func TestSaveFailureIsNotFatal(t *testing.T) {
	backend := &memoryBackend{saveErr: errors.New("read-only file system")}
	synchronizer := New(backend, Config{Logger: quietLogger()})
	defer synchronizer.Stop()

	synchronizer.Submit(model.DefaultSession())
	require.Eventually(t, func() bool {
		_, saves := backend.snapshot()
		return saves == 1
	}, time.Second, 5*time.Millisecond)

	backend.mu.Lock()
	backend.saveErr = nil
	backend.mu.Unlock()

	synchronizer.Submit(model.DefaultSession().WithTrackDistance(630))
	require.Eventually(t, func() bool {
		state, _ := backend.snapshot()
		return state.TrackDistanceM == 630
	}, time.Second, 5*time.Millisecond)
}

func TestFlushWritesFinalSnapshot(t *testing.T) {
	backend := &memoryBackend{}
	synchronizer := New(backend, Config{Logger: quietLogger()})

	final := model.DefaultSession().WithRunning(true).WithElapsed(4321)
	require.NoError(t, synchronizer.Flush(context.Background(), final))

	state, _ := backend.snapshot()
	assert.True(t, state.Equal(final))

	synchronizer.Submit(model.DefaultSession())
	time.Sleep(20 * time.Millisecond)
	state, _ = backend.snapshot()
	assert.True(t, state.Equal(final), "submit after flush must be ignored")
}

func TestFlushReportsStorageError(t *testing.T) {
	backend := &memoryBackend{saveErr: errors.New("no space left")}
	synchronizer := New(backend, Config{Logger: quietLogger()})

	err := synchronizer.Flush(context.Background(), model.DefaultSession())
	var storageErr *StorageError
	require.ErrorAs(t, err, &storageErr)
	assert.Equal(t, "flush", storageErr.Op)
}
