// Package main is the trackpace command: a lap timer for running on a
// short indoor track.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"trackpace/internal/config"
	"trackpace/internal/platform"
)

const shutdownTimeout = 3 * time.Second

var rootCmd = &cobra.Command{
	Use:   "trackpace",
	Short: "Lap timer with per-kilometre pace for short indoor tracks",
	Long: `trackpace times laps on a short indoor track, shows the pace of the last
lap and announces it aloud. Without a subcommand it starts the desktop app.`,
	SilenceUsage: true,
	RunE:         runDesktop,
}

func init() {
	registerFlags(rootCmd)
}

func registerFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().String("store", "", "session store backend (yaml or sqlite)")
	cmd.PersistentFlags().String("state-dir", "", "directory for the session, settings and log files")
	cmd.PersistentFlags().Bool("debug", false, "enable debug logging")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		log.Error("trackpace failed", "err", err)
		stop()
		os.Exit(1)
	}
}

// loadConfig reads the environment and applies the persistent flags on top.
func loadConfig(cmd *cobra.Command) (config.Config, bool, error) {
	cfg, err := config.Load(platform.NewService())
	if err != nil {
		return config.Config{}, false, err
	}
	cfg = applyFlags(cmd, cfg)
	debug, _ := cmd.Flags().GetBool("debug")
	return cfg, debug, cfg.Validate()
}

func applyFlags(cmd *cobra.Command, cfg config.Config) config.Config {
	if store, _ := cmd.Flags().GetString("store"); store != "" {
		cfg.Store = store
	}
	if dir, _ := cmd.Flags().GetString("state-dir"); dir != "" {
		cfg.StateDir = dir
	}
	return cfg
}

func shutdownContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), shutdownTimeout)
}
