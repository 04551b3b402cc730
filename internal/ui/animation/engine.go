// Package animation drifts a block of content around an area so a dimmed
// screen does not hold the same pixels lit for long.
package animation

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"fyne.io/fyne/v2"
)

// Bounds reports the current area size and the size of the moving block.
type Bounds func() (area fyne.Size, block fyne.Size)

// Engine periodically moves a block to a random position.
type Engine struct {
	mu     sync.Mutex
	config Config
	move   func(fyne.Position)
	cancel context.CancelFunc
	rng    *rand.Rand
}

// New creates a drift engine calling move with each new position.
func New(config Config, move func(fyne.Position)) *Engine {
	return &Engine{
		config: config,
		move:   move,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Start places the block immediately and then moves it after every dwell
// period until ctx ends or Stop is called. Starting again replaces the
// running loop.
func (engine *Engine) Start(ctx context.Context, bounds Bounds) {
	engine.start(ctx, func(runCtx context.Context) {
		for {
			area, block := bounds()
			engine.move(engine.randomPosition(area, block))
			if !sleepWithContext(runCtx, engine.randomDwell()) {
				return
			}
		}
	})
}

// Stop terminates the drift loop.
func (engine *Engine) Stop() {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	if engine.cancel != nil {
		engine.cancel()
		engine.cancel = nil
	}
}

func (engine *Engine) start(parent context.Context, run func(context.Context)) {
	engine.mu.Lock()
	if engine.cancel != nil {
		engine.cancel()
	}
	runCtx, cancel := context.WithCancel(parent)
	engine.cancel = cancel
	engine.mu.Unlock()

	go run(runCtx)
}

func (engine *Engine) randomDwell() time.Duration {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	return engine.config.Dwell.Random(engine.rng)
}

func (engine *Engine) randomPosition(area, block fyne.Size) fyne.Position {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	return RandomPosition(engine.rng, area, block, engine.config.Margin)
}

// RandomPosition returns a top-left position that keeps block inside area
// with the given margin. When the block does not fit it is pinned to the
// margin on that axis.
func RandomPosition(rng *rand.Rand, area, block fyne.Size, margin float32) fyne.Position {
	return fyne.NewPos(
		randomOffset(rng, area.Width, block.Width, margin),
		randomOffset(rng, area.Height, block.Height, margin),
	)
}

func randomOffset(rng *rand.Rand, area, block, margin float32) float32 {
	free := area - block - 2*margin
	if free <= 0 {
		if area-block <= 0 {
			return 0
		}
		return (area - block) / 2
	}
	return margin + rng.Float32()*free
}

func sleepWithContext(ctx context.Context, duration time.Duration) bool {
	timer := time.NewTimer(duration)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
