// Package bootstrap wires configuration, logging, storage, persistence and
// the session engine into a running application core.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"trackpace/internal/config"
	"trackpace/internal/core/engine"
	"trackpace/internal/core/persist"
	"trackpace/internal/platform"
	"trackpace/internal/storage"
	"trackpace/internal/ui/preferences"
)

const saveTimeout = 2 * time.Second

// Options configures Build.
type Options struct {
	Config config.Config
	// LogOutput receives log lines; stderr when nil.
	LogOutput io.Writer
	Debug     bool
	// Announcer replaces the OS speaker.
	Announcer engine.Announcer
}

// App is the assembled application core shared by the desktop and
// terminal front ends.
type App struct {
	Config       config.Config
	Logger       *log.Logger
	Store        storage.SessionStore
	Synchronizer *persist.Synchronizer
	Engine       *engine.Engine
	Speaker      *platform.Speaker

	notifier *lateNotifier

	mu       sync.Mutex
	settings preferences.Settings
	closers  []io.Closer
}

// Build creates the application core. Nothing runs until Start.
func Build(options Options) (*App, error) {
	cfg := options.Config
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	output := options.LogOutput
	if output == nil {
		output = os.Stderr
	}
	logger, err := NewLogger(output, cfg.LogLevel, options.Debug)
	if err != nil {
		return nil, err
	}

	settings, err := storage.LoadSettings(cfg.StateDir)
	if err != nil {
		logger.Warn("settings unreadable, using defaults", "err", err)
	}

	store, err := storage.Open(cfg.Store, cfg.StateDir)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config:   cfg,
		Logger:   logger,
		Store:    store,
		notifier: &lateNotifier{},
		settings: settings,
	}

	announcer := options.Announcer
	if announcer == nil {
		app.Speaker = platform.NewSpeaker(logger)
		app.Speaker.SetEnabled(settings.SpeechEnabled)
		announcer = app.Speaker
	}

	app.Synchronizer = persist.New(store, persist.Config{
		SaveTimeout: saveTimeout,
		Logger:      logger,
	})
	app.Engine = engine.New(engine.Config{
		TickInterval:  cfg.TickInterval,
		AutoHideAfter: cfg.AutoHideAfter,
		LapOnPause:    cfg.LapOnPause,
		Logger:        logger,
	}, engine.Collaborators{
		Notifier:  app.notifier,
		Announcer: announcer,
		Saver:     app.Synchronizer,
	})

	logger.Info("core ready", "store", cfg.Store, "path", store.Path())
	return app, nil
}

// Start begins the asynchronous restore of the saved session.
func (app *App) Start(ctx context.Context) {
	app.Engine.Start(ctx, app.Synchronizer)
}

// SetNotifier installs the notification surface. Calls made before it is
// installed are skipped.
func (app *App) SetNotifier(notifier engine.Notifier) {
	app.notifier.set(notifier)
}

// AddCloser registers a resource released by Close after the engine stops.
func (app *App) AddCloser(closer io.Closer) {
	app.mu.Lock()
	defer app.mu.Unlock()
	app.closers = append(app.closers, closer)
}

// Settings returns the current UI preferences.
func (app *App) Settings() preferences.Settings {
	app.mu.Lock()
	defer app.mu.Unlock()
	return app.settings
}

// UpdateSettings applies and saves new UI preferences.
func (app *App) UpdateSettings(settings preferences.Settings) error {
	app.mu.Lock()
	app.settings = settings
	app.mu.Unlock()

	if app.Speaker != nil {
		app.Speaker.SetEnabled(settings.SpeechEnabled)
	}
	if err := storage.SaveSettings(app.Config.StateDir, settings); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}

// Close stops the engine, writes the final session and releases storage.
func (app *App) Close(ctx context.Context) error {
	var errs []error
	if err := app.Engine.Close(ctx); err != nil {
		errs = append(errs, err)
	}
	if app.Speaker != nil {
		app.Speaker.Close()
	}
	if err := app.Store.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close store: %w", err))
	}

	app.mu.Lock()
	closers := app.closers
	app.closers = nil
	app.mu.Unlock()
	for i := len(closers) - 1; i >= 0; i-- {
		if err := closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
