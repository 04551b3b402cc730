package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"trackpace/internal/platform"
)

var autostartCmd = &cobra.Command{
	Use:   "autostart",
	Short: "Manage launching trackpace at login",
}

var autostartEnableCmd = &cobra.Command{
	Use:   "enable",
	Short: "Start the desktop app at login",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		execPath, err := os.Executable()
		if err != nil {
			return fmt.Errorf("resolve executable: %w", err)
		}
		if err := platform.NewService().EnableAutostart(platform.AppName, execPath, autostartArgs(cmd)...); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "autostart enabled")
		return nil
	},
}

var autostartDisableCmd = &cobra.Command{
	Use:   "disable",
	Short: "Stop starting the desktop app at login",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := platform.NewService().DisableAutostart(platform.AppName); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "autostart disabled")
		return nil
	},
}

var autostartStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Report whether autostart is enabled",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		enabled, err := platform.NewService().AutostartEnabled(platform.AppName)
		if err != nil {
			return err
		}
		if enabled {
			fmt.Fprintln(cmd.OutOrStdout(), "autostart enabled")
		} else {
			fmt.Fprintln(cmd.OutOrStdout(), "autostart disabled")
		}
		return nil
	},
}

// autostartArgs forwards the storage flags given to enable so the login
// launch opens the same session.
func autostartArgs(cmd *cobra.Command) []string {
	var args []string
	for _, name := range []string{"store", "state-dir"} {
		flag := cmd.Flags().Lookup(name)
		if flag == nil || !flag.Changed {
			continue
		}
		value := flag.Value.String()
		if name == "state-dir" {
			if abs, err := filepath.Abs(value); err == nil {
				value = abs
			}
		}
		args = append(args, "--"+name, value)
	}
	return args
}

func init() {
	autostartCmd.AddCommand(autostartEnableCmd, autostartDisableCmd, autostartStatusCmd)
	rootCmd.AddCommand(autostartCmd)
}
