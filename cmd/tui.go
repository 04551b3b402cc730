package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"trackpace/internal/bootstrap"
	"trackpace/internal/platform"
	"trackpace/internal/ui/terminal"
	"trackpace/internal/ui/tray"
)

var (
	errNoTerminal     = errors.New("stdout is not a terminal")
	errDesktopRunning = errors.New("trackpace is already running; quit it before starting the terminal ui")
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Run the lap timer in the terminal",
	Long: `Run the lap timer as a full-screen terminal UI. Logs go to trackpace.log
in the state directory. With --tray a system tray indicator mirrors the
session.`,
	Args: cobra.NoArgs,
	RunE: runTUI,
}

func init() {
	tuiCmd.Flags().Bool("tray", false, "show a system tray indicator")
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) error {
	if !isTerminal(os.Stdout) {
		return errNoTerminal
	}
	cfg, debug, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	guard, err := acquireTerminalInstance(platform.AppName)
	if err != nil {
		return err
	}
	defer func() {
		_ = guard.Release()
	}()

	logFile, err := bootstrap.OpenLogFile(cfg.StateDir)
	if err != nil {
		return err
	}
	core, err := bootstrap.Build(bootstrap.Options{Config: cfg, LogOutput: logFile, Debug: debug})
	if err != nil {
		_ = logFile.Close()
		return err
	}
	core.AddCloser(logFile)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	tracks := core.Settings().Tracks()
	if withTray, _ := cmd.Flags().GetBool("tray"); withTray {
		indicator := tray.NewIndicator(core.Engine, tracks, cancel, core.Logger)
		indicator.Start()
		core.AddCloser(indicator)
		core.SetNotifier(indicator)
	}

	guard.OnActivate(func() {
		if err := core.Engine.ShowUI(); err != nil {
			core.Logger.Warn("show ui failed", "err", err)
		}
	})
	core.Start(ctx)
	runErr := terminal.Run(ctx, core.Engine, tracks, core.Logger)

	closeCtx, stop := shutdownContext()
	defer stop()
	if err := core.Close(closeCtx); err != nil {
		runErr = errors.Join(runErr, fmt.Errorf("shut down: %w", err))
	}
	return runErr
}

// acquireTerminalInstance takes the same lock as the desktop app so only one
// process owns the session file.
func acquireTerminalInstance(appName string) (*platform.InstanceGuard, error) {
	guard, err := platform.AcquireSingleInstance(appName)
	if errors.Is(err, platform.ErrAlreadyRunning) {
		return nil, fmt.Errorf("%w: %w", errDesktopRunning, err)
	}
	if err != nil {
		return nil, fmt.Errorf("single instance: %w", err)
	}
	return guard, nil
}

func isTerminal(file *os.File) bool {
	return isatty.IsTerminal(file.Fd()) || isatty.IsCygwinTerminal(file.Fd())
}
