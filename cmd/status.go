package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"trackpace/internal/core/model"
	"trackpace/internal/core/pace"
	"trackpace/internal/storage"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("243")).Width(10)
	valueStyle = lipgloss.NewStyle().Bold(true)
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print the saved session",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	cfg, _, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	store, err := storage.Open(cfg.Store, cfg.StateDir)
	if err != nil {
		return err
	}
	defer store.Close()

	state, found, err := store.Load(cmd.Context())
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}
	if !found {
		fmt.Fprintf(cmd.OutOrStdout(), "no saved session in %s\n", store.Path())
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), renderStatus(state, store.Path()))
	return nil
}

func renderStatus(state model.SessionState, path string) string {
	phase := "paused"
	if state.Running {
		phase = "running"
	}
	rows := [][2]string{
		{"state", phase},
		{"elapsed", pace.FormatTime(state.ElapsedMs)},
		{"laps", fmt.Sprintf("%d", state.CurrentLapNumber()-1)},
		{"distance", fmt.Sprintf("%d m", state.TotalDistanceM())},
		{"last pace", state.LastPace() + " /km"},
		{"track", fmt.Sprintf("%d m", state.TrackDistanceM)},
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("trackpace session"))
	b.WriteString("\n")
	for _, row := range rows {
		b.WriteString(labelStyle.Render(row[0]) + valueStyle.Render(row[1]) + "\n")
	}
	b.WriteString(labelStyle.Render("file") + path)
	return b.String()
}
