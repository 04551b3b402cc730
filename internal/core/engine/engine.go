// Package engine owns the session state and serializes every change to it:
// user commands, timer ticks, the auto-hide timer and the startup restore.
package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"trackpace/internal/clock"
	"trackpace/internal/core/model"
	"trackpace/internal/core/pace"
)

// Config contains runtime options for the Engine.
type Config struct {
	TickInterval  time.Duration
	AutoHideAfter time.Duration
	// LapOnPause records the running lap when a session is paused.
	LapOnPause bool
	Clock      clock.Clock
	Logger     *log.Logger
}

// Collaborators are the engine's outbound dependencies. Nil members are
// replaced with no-ops.
type Collaborators struct {
	Notifier  Notifier
	Announcer Announcer
	Saver     Saver
}

// Engine is the single authority over SessionState. Every mutation runs
// under mu and replaces the state with a new snapshot.
type Engine struct {
	mu      sync.Mutex
	options Config
	clock   clock.Clock
	logger  *log.Logger

	notifier  Notifier
	announcer Announcer
	saver     Saver
	effects   *dispatcher

	state    model.SessionState
	dirty    bool
	restored bool
	closed   bool

	tickGeneration uint64
	tickStop       chan struct{}
	lastTick       time.Time

	hideGeneration uint64
	hideTimer      clock.Timer

	subscribers    map[int]chan model.SessionState
	nextSubscriber int
}

// New creates an Engine holding the default session.
func New(config Config, collaborators Collaborators) *Engine {
	if config.TickInterval <= 0 {
		config.TickInterval = 100 * time.Millisecond
	}
	if config.AutoHideAfter <= 0 {
		config.AutoHideAfter = 4 * time.Second
	}
	if config.Clock == nil {
		config.Clock = clock.RealClock{}
	}
	if config.Logger == nil {
		config.Logger = log.Default()
	}
	if collaborators.Notifier == nil {
		collaborators.Notifier = nopNotifier{}
	}
	if collaborators.Announcer == nil {
		collaborators.Announcer = nopAnnouncer{}
	}
	if collaborators.Saver == nil {
		collaborators.Saver = nopSaver{}
	}

	return &Engine{
		options:     config,
		clock:       config.Clock,
		logger:      config.Logger.WithPrefix("engine"),
		notifier:    collaborators.Notifier,
		announcer:   collaborators.Announcer,
		saver:       collaborators.Saver,
		effects:     newDispatcher(),
		state:       model.DefaultSession(),
		subscribers: make(map[int]chan model.SessionState),
	}
}

// Start asks the restorer for the saved session. The result is applied
// through ApplyRestored whenever it arrives.
func (engine *Engine) Start(ctx context.Context, restorer Restorer) {
	if restorer == nil {
		engine.ApplyRestored(model.SessionState{}, false)
		return
	}
	restorer.Restore(ctx, engine.ApplyRestored)
}

// ApplyRestored installs a previously saved session. Only the first call
// counts, and the state is discarded if a command already changed the
// session since the engine was created.
func (engine *Engine) ApplyRestored(state model.SessionState, found bool) {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	if engine.closed || engine.restored {
		return
	}
	engine.restored = true
	if !found {
		engine.logger.Debug("no saved session")
		return
	}
	if engine.dirty {
		engine.logger.Info("discarding saved session, state changed since startup")
		return
	}

	engine.applyLocked(state.Normalized(), false)
	engine.logger.Info("session restored",
		"laps", len(engine.state.Laps),
		"elapsed", pace.FormatTime(engine.state.ElapsedMs),
		"running", engine.state.Running)

	if engine.state.Running {
		engine.startTickerLocked()
		engine.notifyRunningLocked()
		if engine.state.UIVisible {
			engine.armAutoHideLocked()
		}
	}
}

// Snapshot returns the current state.
func (engine *Engine) Snapshot() model.SessionState {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	return engine.state.Clone()
}

// Subscribe returns a stream that always holds the latest state. A slow
// reader skips intermediate snapshots. The channel closes when cancel is
// called or the engine shuts down. Received values must not be modified.
func (engine *Engine) Subscribe() (<-chan model.SessionState, func()) {
	ch := make(chan model.SessionState, 1)
	engine.mu.Lock()
	if engine.closed {
		engine.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	id := engine.nextSubscriber
	engine.nextSubscriber++
	engine.subscribers[id] = ch
	ch <- engine.state
	engine.mu.Unlock()

	cancel := func() {
		engine.mu.Lock()
		defer engine.mu.Unlock()
		if sub, ok := engine.subscribers[id]; ok {
			delete(engine.subscribers, id)
			close(sub)
		}
	}
	return ch, cancel
}

// ToggleStartPause starts a stopped session or pauses a running one.
func (engine *Engine) ToggleStartPause() error {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	if engine.closed {
		return ErrClosed
	}

	if engine.state.Running {
		engine.pauseLocked()
	} else {
		engine.resumeLocked()
	}
	engine.showUILocked()
	return nil
}

// AddLap closes the running lap. It does nothing while paused.
func (engine *Engine) AddLap() error {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	if engine.closed {
		return ErrClosed
	}
	if !engine.state.Running {
		return nil
	}

	next, lap := engine.state.WithLap()
	engine.commitLocked(next)
	engine.logger.Debug("lap recorded", "lap", lap.Number, "duration", pace.FormatTime(lap.DurationMs), "pace", lap.Pace)
	engine.announceLocked(lap)
	engine.saveLocked()
	engine.showUILocked()
	return nil
}

// SplitLastLap records the time since the previous split while the lap
// keeps running. It does nothing while paused.
func (engine *Engine) SplitLastLap() error {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	if engine.closed {
		return ErrClosed
	}
	if !engine.state.Running {
		return nil
	}

	next, split := engine.state.WithSplit()
	engine.commitLocked(next)
	engine.logger.Debug("split recorded", "lap", split.Number, "duration", pace.FormatTime(split.DurationMs))
	engine.saveLocked()
	engine.showUILocked()
	return nil
}

// DeleteLap removes the lap with the given number. Unknown numbers are
// ignored and the remaining laps keep their numbers.
func (engine *Engine) DeleteLap(number int) error {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	if engine.closed {
		return ErrClosed
	}

	next, ok := engine.state.WithoutLap(number)
	if !ok {
		engine.logger.Debug("delete of unknown lap ignored", "lap", number)
		return nil
	}
	engine.commitLocked(next)
	engine.saveLocked()
	return nil
}

// ResetSession clears laps and time, keeping the track distance.
func (engine *Engine) ResetSession() error {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	if engine.closed {
		return ErrClosed
	}

	engine.stopTickerLocked()
	engine.cancelAutoHideLocked()
	engine.commitLocked(engine.state.Reset())
	engine.saveLocked()
	engine.notifyLocked("remove", engine.notifier.Remove)
	return nil
}

// SetTrackDistance changes the distance used for future laps.
func (engine *Engine) SetTrackDistance(distanceM int) error {
	if distanceM <= 0 {
		return fmt.Errorf("track distance %d m: %w", distanceM, ErrInvalidArgument)
	}

	engine.mu.Lock()
	defer engine.mu.Unlock()
	if engine.closed {
		return ErrClosed
	}

	engine.commitLocked(engine.state.WithTrackDistance(distanceM))
	engine.saveLocked()
	return nil
}

// ShowUI makes the UI visible and restarts the auto-hide countdown when
// the session is running.
func (engine *Engine) ShowUI() error {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	if engine.closed {
		return ErrClosed
	}
	engine.showUILocked()
	return nil
}

// HideUI dims the UI. The auto-hide timer is left alone.
func (engine *Engine) HideUI() error {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	if engine.closed {
		return ErrClosed
	}
	engine.commitLocked(engine.state.WithUIVisible(false))
	return nil
}

// Close stops background activity, closes subscriber streams and writes a
// final snapshot when the saver supports it. The flush error is returned
// for logging only. A session that was neither restored nor changed is
// never flushed, so a restore still in flight cannot be overwritten by
// the default state.
func (engine *Engine) Close(ctx context.Context) error {
	engine.mu.Lock()
	if engine.closed {
		engine.mu.Unlock()
		return nil
	}
	engine.closed = true
	engine.stopTickerLocked()
	engine.cancelAutoHideLocked()
	final := engine.state.Clone()
	untouched := !engine.restored && !engine.dirty
	subscribers := engine.subscribers
	engine.subscribers = make(map[int]chan model.SessionState)
	engine.mu.Unlock()

	for _, ch := range subscribers {
		close(ch)
	}

	var err error
	if untouched {
		if stopper, ok := engine.saver.(Stopper); ok {
			stopper.Stop()
		}
		engine.logger.Debug("skipping final save, saved session not loaded yet")
	} else if flusher, ok := engine.saver.(Flusher); ok {
		err = flusher.Flush(ctx, final)
	}
	engine.effects.close()
	engine.logger.Debug("engine closed", "laps", len(final.Laps), "running", final.Running)
	return err
}

func (engine *Engine) resumeLocked() {
	engine.commitLocked(engine.state.WithRunning(true))
	engine.startTickerLocked()
	engine.notifyRunningLocked()
	engine.logger.Debug("session running", "elapsed", pace.FormatTime(engine.state.ElapsedMs))
}

func (engine *Engine) pauseLocked() {
	next := engine.state
	if engine.options.LapOnPause && next.ElapsedMs > 0 {
		var lap model.Lap
		next, lap = next.WithLap()
		engine.announceLocked(lap)
		engine.logger.Debug("final lap recorded", "lap", lap.Number, "pace", lap.Pace)
	}
	engine.stopTickerLocked()
	engine.commitLocked(next.WithRunning(false))
	engine.saveLocked()
	engine.notifyLocked("detach", engine.notifier.Detach)
	engine.logger.Debug("session paused", "laps", len(engine.state.Laps))
}

func (engine *Engine) showUILocked() {
	engine.commitLocked(engine.state.WithUIVisible(true))
	engine.cancelAutoHideLocked()
	if engine.state.Running {
		engine.armAutoHideLocked()
	}
}

func (engine *Engine) armAutoHideLocked() {
	engine.cancelAutoHideLocked()
	generation := engine.hideGeneration
	engine.hideTimer = engine.clock.AfterFunc(engine.options.AutoHideAfter, func() {
		engine.autoHide(generation)
	})
}

func (engine *Engine) cancelAutoHideLocked() {
	engine.hideGeneration++
	if engine.hideTimer != nil {
		engine.hideTimer.Stop()
		engine.hideTimer = nil
	}
}

func (engine *Engine) autoHide(generation uint64) {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	if engine.closed || generation != engine.hideGeneration {
		return
	}
	engine.hideTimer = nil
	engine.applyLocked(engine.state.WithUIVisible(false), false)
}

func (engine *Engine) startTickerLocked() {
	engine.stopTickerLocked()
	generation := engine.tickGeneration
	stop := make(chan struct{})
	engine.tickStop = stop
	engine.lastTick = engine.clock.Now()
	ticker := engine.clock.NewTicker(engine.options.TickInterval)
	go engine.runTicker(generation, ticker, stop)
}

// stopTickerLocked bumps the generation so a tick already waiting for the
// lock is discarded.
func (engine *Engine) stopTickerLocked() {
	engine.tickGeneration++
	if engine.tickStop != nil {
		close(engine.tickStop)
		engine.tickStop = nil
	}
}

func (engine *Engine) runTicker(generation uint64, ticker clock.Ticker, stop <-chan struct{}) {
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C():
			engine.tick(generation)
		}
	}
}

// tick credits the time measured since the previous credit. Sub-millisecond
// remainders stay in lastTick so they are not lost.
func (engine *Engine) tick(generation uint64) {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	if engine.closed || generation != engine.tickGeneration || !engine.state.Running {
		return
	}

	now := engine.clock.Now()
	credited := now.Sub(engine.lastTick).Truncate(time.Millisecond)
	if credited <= 0 {
		return
	}
	engine.lastTick = engine.lastTick.Add(credited)
	engine.applyLocked(engine.state.WithElapsed(credited.Milliseconds()), false)

	text := pace.FormatTime(engine.state.ElapsedMs)
	engine.notifyLocked("refresh", func() error {
		return engine.notifier.Refresh(text)
	})
}

// commitLocked installs a state produced by a user command.
func (engine *Engine) commitLocked(next model.SessionState) {
	engine.applyLocked(next, true)
}

func (engine *Engine) applyLocked(next model.SessionState, fromCommand bool) {
	if next.Equal(engine.state) {
		return
	}
	engine.state = next
	if fromCommand {
		engine.dirty = true
	}
	for _, ch := range engine.subscribers {
		offerLatest(ch, next)
	}
}

func (engine *Engine) saveLocked() {
	engine.saver.Submit(engine.state)
}

func (engine *Engine) notifyRunningLocked() {
	text := pace.FormatTime(engine.state.ElapsedMs)
	engine.notifyLocked("show running", func() error {
		return engine.notifier.ShowRunning(text)
	})
}

func (engine *Engine) announceLocked(lap model.Lap) {
	lapPace := lap.Pace
	engine.notifyLocked("announce", func() error {
		return engine.announcer.Announce(lapPace)
	})
}

// notifyLocked queues a collaborator call. Failures are logged and never
// retried.
func (engine *Engine) notifyLocked(action string, call func() error) {
	logger := engine.logger
	engine.effects.post(func() {
		err := call()
		switch {
		case err == nil:
		case errors.Is(err, ErrNotReady):
			logger.Debug("collaborator not ready, skipped", "action", action)
		default:
			logger.Warn("collaborator call failed", "action", action, "err", err)
		}
	})
}

// offerLatest replaces any unread value so the channel holds the newest state.
func offerLatest(ch chan model.SessionState, state model.SessionState) {
	select {
	case ch <- state:
		return
	default:
	}
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- state:
	default:
	}
}
