package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trackpace/internal/core/model"
)

func sampleSession() model.SessionState {
	return model.SessionState{
		Running:   true,
		ElapsedMs: 42100,
		Laps: []model.Lap{
			{Number: 3, DurationMs: 20000, DistanceM: 630, Split: true, Pace: "0:31"},
			{Number: 2, DurationMs: 155000, DistanceM: 370, Pace: "6:58"},
			{Number: 1, DurationMs: 150000, DistanceM: 370, Pace: "6:45"},
		},
		TrackDistanceM: 630,
		UIVisible:      false,
		SplitMarkMs:    20000,
	}
}

func openStore(t *testing.T, kind, dir string) SessionStore {
	t.Helper()
	store, err := Open(kind, dir)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestSessionStores(t *testing.T) {
	for _, kind := range []string{KindYAML, KindSQLite} {
		t.Run(kind, func(t *testing.T) {
			ctx := context.Background()
			dir := filepath.Join(t.TempDir(), "nested")
			store := openStore(t, kind, dir)

			_, found, err := store.Load(ctx)
			require.NoError(t, err)
			assert.False(t, found)

			want := sampleSession()
			require.NoError(t, store.Save(ctx, want))

			got, found, err := store.Load(ctx)
			require.NoError(t, err)
			require.True(t, found)
			assert.True(t, got.Equal(want), "got %+v", got)

			next := model.DefaultSession().WithTrackDistance(370)
			require.NoError(t, store.Save(ctx, next))
			got, _, err = store.Load(ctx)
			require.NoError(t, err)
			assert.True(t, got.Equal(next))
			assert.FileExists(t, store.Path())
		})
	}
}

func TestSQLiteStoreSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	first, err := OpenSQLiteStore(dir)
	require.NoError(t, err)
	require.NoError(t, first.Save(ctx, sampleSession()))
	require.NoError(t, first.Close())

	second := openStore(t, KindSQLite, dir)
	got, found, err := second.Load(ctx)
	require.NoError(t, err)
	require.True(t, found)
	assert.Len(t, got.Laps, 3)
}

func TestYAMLStoreDefaultsAbsentFields(t *testing.T) {
	dir := t.TempDir()
	content := "is_running: false\nelapsed_ms: 1500\nlaps:\n  - lap_number: 1\n    duration_ms: 150000\n    distance_m: 370\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "session_state.yaml"), []byte(content), 0o644))

	got, found, err := NewYAMLStore(dir).Load(context.Background())
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, model.DefaultTrackDistanceM, got.TrackDistanceM)
	assert.True(t, got.UIVisible)
	assert.Equal(t, int64(1500), got.ElapsedMs)
	require.Len(t, got.Laps, 1)
	assert.Equal(t, "6:45", got.Laps[0].Pace)
}

func TestSQLiteStoreDefaultsAbsentFields(t *testing.T) {
	ctx := context.Background()
	store, err := OpenSQLiteStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	_, err = store.db.ExecContext(ctx,
		`INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)`,
		SessionKey, `{"elapsed_ms": 900, "future_field": "ignored"}`, "2024-01-01T00:00:00Z")
	require.NoError(t, err)

	got, found, err := store.Load(ctx)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, int64(900), got.ElapsedMs)
	assert.Equal(t, model.DefaultTrackDistanceM, got.TrackDistanceM)
	assert.True(t, got.UIVisible)
	assert.Empty(t, got.Laps)
}

func TestYAMLStoreRejectsCorruptFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "session_state.yaml"), []byte("laps: [unterminated"), 0o644))

	_, found, err := NewYAMLStore(dir).Load(context.Background())
	require.Error(t, err)
	assert.False(t, found)
}

func TestYAMLStoreLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	store := NewYAMLStore(dir)
	for i := 0; i < 3; i++ {
		require.NoError(t, store.Save(context.Background(), sampleSession()))
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "session_state.yaml", entries[0].Name())
}

func TestOpenUnknownKind(t *testing.T) {
	_, err := Open("bolt", t.TempDir())
	assert.ErrorIs(t, err, ErrUnknownStore)
}
