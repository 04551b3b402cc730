package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultSession(t *testing.T) {
	state := DefaultSession()
	assert.False(t, state.Running)
	assert.Zero(t, state.ElapsedMs)
	assert.Empty(t, state.Laps)
	assert.Equal(t, 370, state.TrackDistanceM)
	assert.True(t, state.UIVisible)
	assert.Equal(t, 1, state.CurrentLapNumber())
	assert.Equal(t, NoPace, state.LastPace())
}

func TestWithLapNumbersAndResetsElapsed(t *testing.T) {
	state := DefaultSession().WithRunning(true)
	for i := 1; i <= 5; i++ {
		var lap Lap
		state = state.WithElapsed(int64(i) * 1000)
		state, lap = state.WithLap()
		assert.Equal(t, i, lap.Number)
		assert.Equal(t, i, state.Laps[0].Number)
		assert.Equal(t, int64(i)*1000, lap.DurationMs)
		assert.Zero(t, state.ElapsedMs)
	}
	for i := 1; i < len(state.Laps); i++ {
		assert.Greater(t, state.Laps[i-1].Number, state.Laps[i].Number)
	}
}

func TestWithLapComputesPaceOnce(t *testing.T) {
	state := DefaultSession().WithElapsed(150000)
	state, lap := state.WithLap()
	assert.Equal(t, "6:45", lap.Pace)
	assert.Equal(t, 370, lap.DistanceM)

	state = state.WithTrackDistance(630)
	assert.Equal(t, 370, state.Laps[0].DistanceM)
	assert.Equal(t, "6:45", state.Laps[0].Pace)
}

func TestTransitionsDoNotShareLaps(t *testing.T) {
	base, _ := DefaultSession().WithElapsed(1000).WithLap()
	base, _ = base.WithElapsed(2000).WithLap()

	deleted, ok := base.WithoutLap(2)
	require.True(t, ok)
	assert.Len(t, base.Laps, 2)
	assert.Len(t, deleted.Laps, 1)
	assert.Equal(t, 2, base.Laps[0].Number)

	added, _ := base.WithLap()
	added.Laps[1].Pace = "mutated"
	assert.NotEqual(t, "mutated", base.Laps[0].Pace)
}

func TestWithoutLapLeavesGaps(t *testing.T) {
	state := DefaultSession()
	for i := 0; i < 3; i++ {
		state, _ = state.WithElapsed(1000).WithLap()
	}

	state, ok := state.WithoutLap(2)
	require.True(t, ok)
	assert.Equal(t, []int{3, 1}, lapNumbers(state))

	unchanged, ok := state.WithoutLap(42)
	assert.False(t, ok)
	assert.True(t, unchanged.Equal(state))
}

func TestLapNumbersStayUniqueAfterDelete(t *testing.T) {
	state := DefaultSession()
	for i := 0; i < 3; i++ {
		state, _ = state.WithElapsed(1000).WithLap()
	}
	state, _ = state.WithoutLap(1)

	state, lap := state.WithElapsed(1000).WithLap()
	assert.Equal(t, 4, lap.Number)
	assert.Equal(t, []int{4, 3, 2}, lapNumbers(state))
}

func TestWithSplitKeepsElapsed(t *testing.T) {
	state := DefaultSession().WithElapsed(40000)
	state, split := state.WithSplit()
	assert.True(t, split.Split)
	assert.Equal(t, int64(40000), split.DurationMs)
	assert.Equal(t, int64(40000), state.ElapsedMs)
	assert.Equal(t, int64(40000), state.SplitMarkMs)

	state = state.WithElapsed(25000)
	state, split = state.WithSplit()
	assert.Equal(t, int64(25000), split.DurationMs)
	assert.Equal(t, int64(65000), state.ElapsedMs)

	state, lap := state.WithLap()
	assert.False(t, lap.Split)
	assert.Equal(t, int64(65000), lap.DurationMs)
	assert.Zero(t, state.SplitMarkMs)
	assert.Equal(t, 2, state.CurrentLapNumber())
	assert.Equal(t, 370, state.TotalDistanceM())
}

func TestReset(t *testing.T) {
	state := DefaultSession().WithTrackDistance(630).WithRunning(true).WithUIVisible(false)
	state, _ = state.WithElapsed(5000).WithLap()
	state = state.WithElapsed(1234)

	reset := state.Reset()
	assert.False(t, reset.Running)
	assert.Zero(t, reset.ElapsedMs)
	assert.Empty(t, reset.Laps)
	assert.Equal(t, 630, reset.TrackDistanceM)
	assert.True(t, reset.UIVisible)
}

func TestNormalized(t *testing.T) {
	state := SessionState{TrackDistanceM: 0, ElapsedMs: -5, SplitMarkMs: 10}.Normalized()
	assert.Equal(t, DefaultTrackDistanceM, state.TrackDistanceM)
	assert.Zero(t, state.ElapsedMs)
	assert.Zero(t, state.SplitMarkMs)
}

func TestEqual(t *testing.T) {
	a, _ := DefaultSession().WithElapsed(1000).WithLap()
	b := a.Clone()
	assert.True(t, a.Equal(b))

	b.Laps[0].Pace = "9:99"
	assert.False(t, a.Equal(b))
	assert.False(t, a.Equal(a.WithUIVisible(false)))
}

func TestTotalDistanceUsesRecordedDistances(t *testing.T) {
	state := DefaultSession()
	state, _ = state.WithElapsed(1000).WithLap()
	state = state.WithTrackDistance(630)
	state, _ = state.WithElapsed(1000).WithLap()
	state, _ = state.WithElapsed(500).WithSplit()

	assert.Equal(t, 1000, state.TotalDistanceM())
	assert.Equal(t, 3, state.CurrentLapNumber())
}

func lapNumbers(state SessionState) []int {
	numbers := make([]int, 0, len(state.Laps))
	for _, lap := range state.Laps {
		numbers = append(numbers, lap.Number)
	}
	return numbers
}
