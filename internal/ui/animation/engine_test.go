package animation

import (
	"context"
	"math/rand"
	"sync"
	"testing"
	"time"

	"fyne.io/fyne/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRangeRandom(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	fixed := Range{Min: time.Second, Max: time.Second}
	assert.Equal(t, time.Second, fixed.Random(rng))

	spread := Range{Min: time.Second, Max: 2 * time.Second}
	for i := 0; i < 100; i++ {
		value := spread.Random(rng)
		assert.GreaterOrEqual(t, value, time.Second)
		assert.Less(t, value, 2*time.Second)
	}
}

func TestRandomPositionStaysInside(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	area := fyne.NewSize(800, 600)
	block := fyne.NewSize(200, 120)

	for i := 0; i < 200; i++ {
		pos := RandomPosition(rng, area, block, 16)
		assert.GreaterOrEqual(t, pos.X, float32(16))
		assert.GreaterOrEqual(t, pos.Y, float32(16))
		assert.LessOrEqual(t, pos.X+block.Width, area.Width-16)
		assert.LessOrEqual(t, pos.Y+block.Height, area.Height-16)
	}
}

func TestRandomPositionBlockLargerThanArea(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	pos := RandomPosition(rng, fyne.NewSize(100, 100), fyne.NewSize(150, 90), 16)
	assert.Equal(t, float32(0), pos.X)
	assert.Equal(t, float32(5), pos.Y)
}

func TestEngineMovesUntilStopped(t *testing.T) {
	var mu sync.Mutex
	moves := 0
	engine := New(Config{Dwell: Range{Min: 5 * time.Millisecond, Max: 5 * time.Millisecond}}, func(fyne.Position) {
		mu.Lock()
		moves++
		mu.Unlock()
	})
	count := func() int {
		mu.Lock()
		defer mu.Unlock()
		return moves
	}

	engine.Start(context.Background(), func() (fyne.Size, fyne.Size) {
		return fyne.NewSize(400, 300), fyne.NewSize(100, 50)
	})
	require.Eventually(t, func() bool { return count() >= 3 }, 2*time.Second, time.Millisecond)

	engine.Stop()
	time.Sleep(20 * time.Millisecond)
	stopped := count()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, stopped, count())
}
