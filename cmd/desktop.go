package main

import (
	"context"
	"errors"
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/driver/desktop"
	"github.com/spf13/cobra"

	"trackpace/internal/bootstrap"
	"trackpace/internal/platform"
	"trackpace/internal/ui/animation"
	"trackpace/internal/ui/overlay"
	"trackpace/internal/ui/preferences"
	"trackpace/internal/ui/screen"
	"trackpace/internal/ui/tray"
	"trackpace/resources"
)

func runDesktop(cmd *cobra.Command, _ []string) error {
	cfg, debug, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	guard, err := platform.AcquireSingleInstance(platform.AppName)
	if errors.Is(err, platform.ErrAlreadyRunning) {
		if err := platform.ActivateRunning(platform.AppName); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "trackpace is already running")
		return nil
	}
	if err != nil {
		return fmt.Errorf("single instance: %w", err)
	}
	defer func() {
		_ = guard.Release()
	}()

	core, err := bootstrap.Build(bootstrap.Options{Config: cfg, Debug: debug})
	if err != nil {
		return err
	}
	logger := core.Logger

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	fyneApp := app.NewWithID("com.trackpace.app")
	fyneApp.SetIcon(resources.MustIcon(resources.IconLogo))
	desktopApp, ok := fyneApp.(desktop.App)
	if !ok {
		closeCtx, stop := shutdownContext()
		defer stop()
		return errors.Join(errors.New("system tray unsupported on this platform"), core.Close(closeCtx))
	}

	settings := core.Settings()
	tracks := settings.Tracks()

	wake := func() {
		if err := core.Engine.ShowUI(); err != nil {
			logger.Warn("show ui failed", "err", err)
		}
	}
	var dim *overlay.Window
	drift := animation.New(animation.DefaultConfig(), func(position fyne.Position) {
		dim.MoveBlock(position)
	})
	dim = overlay.New(fyneApp, overlayConfig(settings), drift, wake)

	screenWindow := screen.New(fyneApp, core.Engine, tracks, dim, logger)

	var trayManager *tray.Manager
	prefsWindow := preferences.New(fyneApp, settings, func(updated preferences.Settings) {
		if err := core.UpdateSettings(updated); err != nil {
			logger.Error("save settings failed", "err", err)
		}
		tracks := updated.Tracks()
		trayManager.SetTracks(tracks)
		screenWindow.SetTracks(tracks)
		dim.UpdateConfig(overlayConfig(updated))
	})

	trayManager = tray.New(desktopApp, core.Engine, tracks, tray.Callbacks{
		OnShow:        screenWindow.Show,
		OnPreferences: prefsWindow.Show,
		OnReset:       screenWindow.ConfirmReset,
		OnQuit:        fyneApp.Quit,
	}, logger)
	core.SetNotifier(trayManager)

	trayManager.Watch(ctx)
	screenWindow.Watch(ctx)
	guard.OnActivate(screenWindow.Show)
	core.Start(ctx)

	go func() {
		<-ctx.Done()
		fyne.Do(fyneApp.Quit)
	}()

	fyneApp.Run()
	cancel()

	closeCtx, stop := shutdownContext()
	defer stop()
	if err := core.Close(closeCtx); err != nil {
		return fmt.Errorf("shut down: %w", err)
	}
	logger.Info("session saved, bye")
	return nil
}

func overlayConfig(settings preferences.Settings) overlay.Config {
	return overlay.Config{
		Opacity:    overlay.OpacityToAlpha(settings.OverlayOpacity),
		Fullscreen: settings.Fullscreen,
	}
}
