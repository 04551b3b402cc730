package model

import (
	"slices"

	"trackpace/internal/core/pace"
)

// DefaultTrackDistanceM is the track length used when none was chosen.
const DefaultTrackDistanceM = 370

// NoPace is shown before the first lap is recorded.
const NoPace = "--:--"

// Lap is an immutable record of one timed interval.
type Lap struct {
	Number     int
	DurationMs int64
	DistanceM  int
	Pace       string
	Split      bool
}

// SessionState is a snapshot of the running session.
// Transitions return a new value and never share the Laps backing array.
type SessionState struct {
	Running        bool
	ElapsedMs      int64
	Laps           []Lap
	TrackDistanceM int
	UIVisible      bool
	SplitMarkMs    int64
}

// DefaultSession returns the state of a session that was never started.
func DefaultSession() SessionState {
	return SessionState{
		TrackDistanceM: DefaultTrackDistanceM,
		UIVisible:      true,
	}
}

// Equal reports field-wise equality.
func (state SessionState) Equal(other SessionState) bool {
	return state.Running == other.Running &&
		state.ElapsedMs == other.ElapsedMs &&
		state.TrackDistanceM == other.TrackDistanceM &&
		state.UIVisible == other.UIVisible &&
		state.SplitMarkMs == other.SplitMarkMs &&
		slices.Equal(state.Laps, other.Laps)
}

// Clone returns a copy that owns its laps.
func (state SessionState) Clone() SessionState {
	state.Laps = slices.Clone(state.Laps)
	return state
}

// Normalized repairs values that must never be committed, such as a
// non-positive track distance or negative counters.
func (state SessionState) Normalized() SessionState {
	if state.TrackDistanceM <= 0 {
		state.TrackDistanceM = DefaultTrackDistanceM
	}
	if state.ElapsedMs < 0 {
		state.ElapsedMs = 0
	}
	if state.SplitMarkMs < 0 || state.SplitMarkMs > state.ElapsedMs {
		state.SplitMarkMs = 0
	}
	return state
}

// WithRunning sets the running flag.
func (state SessionState) WithRunning(running bool) SessionState {
	next := state.Clone()
	next.Running = running
	return next
}

// WithUIVisible sets UI visibility.
func (state SessionState) WithUIVisible(visible bool) SessionState {
	next := state.Clone()
	next.UIVisible = visible
	return next
}

// WithElapsed adds delta milliseconds to the running lap.
func (state SessionState) WithElapsed(deltaMs int64) SessionState {
	next := state.Clone()
	next.ElapsedMs += deltaMs
	return next
}

// WithTrackDistance changes the track length for future laps.
func (state SessionState) WithTrackDistance(distanceM int) SessionState {
	next := state.Clone()
	next.TrackDistanceM = distanceM
	return next
}

// WithLap closes the current lap and prepends it to Laps.
func (state SessionState) WithLap() (SessionState, Lap) {
	lap := Lap{
		Number:     state.nextLapNumber(),
		DurationMs: state.ElapsedMs,
		DistanceM:  state.TrackDistanceM,
		Pace:       pace.Calculate(state.ElapsedMs, state.TrackDistanceM),
	}
	next := state.prepend(lap)
	next.ElapsedMs = 0
	next.SplitMarkMs = 0
	return next, lap
}

// WithSplit records the interval since the previous split without ending
// the current lap.
func (state SessionState) WithSplit() (SessionState, Lap) {
	duration := state.ElapsedMs - state.SplitMarkMs
	if duration < 0 {
		duration = 0
	}
	lap := Lap{
		Number:     state.nextLapNumber(),
		DurationMs: duration,
		DistanceM:  state.TrackDistanceM,
		Pace:       pace.Calculate(duration, state.TrackDistanceM),
		Split:      true,
	}
	next := state.prepend(lap)
	next.SplitMarkMs = state.ElapsedMs
	return next, lap
}

// WithoutLap removes the lap with the given number. The second result is
// false when no such lap exists.
func (state SessionState) WithoutLap(number int) (SessionState, bool) {
	index := slices.IndexFunc(state.Laps, func(lap Lap) bool {
		return lap.Number == number
	})
	if index < 0 {
		return state, false
	}
	next := state.Clone()
	next.Laps = slices.Delete(next.Laps, index, index+1)
	return next, true
}

// Reset returns a fresh session that keeps only the track distance.
func (state SessionState) Reset() SessionState {
	next := DefaultSession()
	next.TrackDistanceM = state.TrackDistanceM
	return next.Normalized()
}

// CurrentLapNumber is the number the lap in progress will get.
func (state SessionState) CurrentLapNumber() int {
	count := 0
	for _, lap := range state.Laps {
		if !lap.Split {
			count++
		}
	}
	return count + 1
}

// TotalDistanceM sums the distance of completed laps.
func (state SessionState) TotalDistanceM() int {
	total := 0
	for _, lap := range state.Laps {
		if !lap.Split {
			total += lap.DistanceM
		}
	}
	return total
}

// LastPace returns the pace of the newest lap or NoPace.
func (state SessionState) LastPace() string {
	if len(state.Laps) == 0 {
		return NoPace
	}
	return state.Laps[0].Pace
}

// nextLapNumber is len(Laps)+1 unless a delete left the newest number at or
// above that, in which case numbering continues after the newest lap so
// numbers stay unique and decreasing.
func (state SessionState) nextLapNumber() int {
	next := len(state.Laps) + 1
	if len(state.Laps) > 0 && state.Laps[0].Number >= next {
		next = state.Laps[0].Number + 1
	}
	return next
}

func (state SessionState) prepend(lap Lap) SessionState {
	next := state
	laps := make([]Lap, 0, len(state.Laps)+1)
	laps = append(laps, lap)
	next.Laps = append(laps, state.Laps...)
	return next
}
