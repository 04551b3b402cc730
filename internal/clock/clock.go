// Package clock abstracts time so the tick loop and timers can be driven
// deterministically in tests.
package clock

import (
	"sync"
	"time"
)

// Clock provides the current time and schedulers.
// Times returned by the real clock carry a monotonic reading, so
// differences between them ignore wall-clock adjustments.
type Clock interface {
	Now() time.Time
	NewTicker(interval time.Duration) Ticker
	AfterFunc(delay time.Duration, fn func()) Timer
}

// Ticker delivers ticks on C until stopped.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// Timer is a pending function call.
type Timer interface {
	// Stop prevents the call. It reports false if the call already fired
	// or was stopped.
	Stop() bool
}

// RealClock implements Clock using the time package.
type RealClock struct{}

// Now returns the current system time.
func (RealClock) Now() time.Time {
	return time.Now()
}

// NewTicker wraps time.NewTicker.
func (RealClock) NewTicker(interval time.Duration) Ticker {
	return realTicker{ticker: time.NewTicker(interval)}
}

// AfterFunc wraps time.AfterFunc.
func (RealClock) AfterFunc(delay time.Duration, fn func()) Timer {
	return time.AfterFunc(delay, fn)
}

type realTicker struct {
	ticker *time.Ticker
}

func (ticker realTicker) C() <-chan time.Time {
	return ticker.ticker.C
}

func (ticker realTicker) Stop() {
	ticker.ticker.Stop()
}

// FakeClock implements Clock with manually advanced time.
type FakeClock struct {
	mu      sync.Mutex
	current time.Time
	tickers []*fakeTicker
	timers  []*fakeTimer
}

// NewFakeClock creates a FakeClock starting at the given time.
func NewFakeClock(start time.Time) *FakeClock {
	return &FakeClock{current: start}
}

// Now returns the fake time.
func (clock *FakeClock) Now() time.Time {
	clock.mu.Lock()
	defer clock.mu.Unlock()
	return clock.current
}

// NewTicker registers a ticker that fires as time is advanced.
func (clock *FakeClock) NewTicker(interval time.Duration) Ticker {
	if interval <= 0 {
		panic("clock: non-positive ticker interval")
	}
	clock.mu.Lock()
	defer clock.mu.Unlock()
	ticker := &fakeTicker{
		clock:    clock,
		interval: interval,
		next:     clock.current.Add(interval),
		ch:       make(chan time.Time, 1),
	}
	clock.tickers = append(clock.tickers, ticker)
	return ticker
}

// AfterFunc registers fn to run on its own goroutine once time passes delay.
func (clock *FakeClock) AfterFunc(delay time.Duration, fn func()) Timer {
	clock.mu.Lock()
	defer clock.mu.Unlock()
	timer := &fakeTimer{clock: clock, deadline: clock.current.Add(delay), fn: fn}
	clock.timers = append(clock.timers, timer)
	return timer
}

// Advance moves time forward, firing due tickers and timers. Like
// time.Ticker, a ticker whose previous tick was not received drops the new
// one.
func (clock *FakeClock) Advance(d time.Duration) {
	clock.mu.Lock()
	clock.current = clock.current.Add(d)
	now := clock.current

	for _, ticker := range clock.tickers {
		if ticker.stopped || ticker.next.After(now) {
			continue
		}
		for !ticker.next.After(now) {
			ticker.next = ticker.next.Add(ticker.interval)
		}
		select {
		case ticker.ch <- now:
		default:
		}
	}

	var due []func()
	pending := clock.timers[:0]
	for _, timer := range clock.timers {
		if timer.done {
			continue
		}
		if timer.deadline.After(now) {
			pending = append(pending, timer)
			continue
		}
		timer.done = true
		due = append(due, timer.fn)
	}
	clock.timers = pending
	clock.mu.Unlock()

	for _, fn := range due {
		go fn()
	}
}

// ActiveTimers returns how many AfterFunc calls are still pending.
func (clock *FakeClock) ActiveTimers() int {
	clock.mu.Lock()
	defer clock.mu.Unlock()
	count := 0
	for _, timer := range clock.timers {
		if !timer.done {
			count++
		}
	}
	return count
}

// ActiveTickers returns how many tickers have not been stopped.
func (clock *FakeClock) ActiveTickers() int {
	clock.mu.Lock()
	defer clock.mu.Unlock()
	count := 0
	for _, ticker := range clock.tickers {
		if !ticker.stopped {
			count++
		}
	}
	return count
}

type fakeTicker struct {
	clock    *FakeClock
	interval time.Duration
	next     time.Time
	ch       chan time.Time
	stopped  bool
}

func (ticker *fakeTicker) C() <-chan time.Time {
	return ticker.ch
}

func (ticker *fakeTicker) Stop() {
	ticker.clock.mu.Lock()
	defer ticker.clock.mu.Unlock()
	ticker.stopped = true
}

type fakeTimer struct {
	clock    *FakeClock
	deadline time.Time
	fn       func()
	done     bool
}

func (timer *fakeTimer) Stop() bool {
	timer.clock.mu.Lock()
	defer timer.clock.mu.Unlock()
	if timer.done {
		return false
	}
	timer.done = true
	return true
}
