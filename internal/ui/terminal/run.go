package terminal

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"trackpace/internal/clock"
	"trackpace/internal/core/engine"
	"trackpace/internal/ui/preferences"
)

// Run drives the terminal UI until the user quits or ctx ends.
func Run(ctx context.Context, controller engine.Controller, tracks []preferences.Track, logger *log.Logger) error {
	states, cancel := controller.Subscribe()
	defer cancel()

	program := tea.NewProgram(
		New(controller, states, tracks, clock.RealClock{}, logger),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)
	if _, err := program.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("run terminal ui: %w", err)
	}
	return nil
}
