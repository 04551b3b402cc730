package animation

import (
	"math/rand"
	"time"
)

// Range defines a duration range with random sampling.
type Range struct {
	Min time.Duration
	Max time.Duration
}

// Random returns a random duration within the range.
func (value Range) Random(rng *rand.Rand) time.Duration {
	if value.Max <= value.Min {
		return value.Min
	}
	delta := value.Max - value.Min
	return value.Min + time.Duration(rng.Int63n(int64(delta)))
}

// Config contains drift timing and placement values.
type Config struct {
	// Dwell is how long the block stays in one place.
	Dwell Range
	// Margin keeps the block away from the area edges.
	Margin float32
}
