// SPDX-License-Identifier: EPL-2.0

package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration management commands",
	Long:  "Commands for managing and validating audstream configuration.",
}

// configValidateCmd validates the current configuration
var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration",
	Long:  "Validate the current configuration file and environment variables.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := loadConfig(cmd); err != nil {
			slog.Error("Configuration validation failed", slog.Any("error", err))
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), "Configuration is valid")
		return nil
	},
}

// configShowCmd shows the current configuration
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long:  "Display the current configuration values from file and environment variables.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "Current Configuration:")
		fmt.Fprintf(out, "  Output:\n")
		fmt.Fprintf(out, "    Backend: %s\n", cfg.Output.Backend)
		fmt.Fprintf(out, "    Sample rate: %d\n", cfg.Output.SampleRate)
		fmt.Fprintf(out, "    Channels: %d\n", cfg.Output.Channels)
		fmt.Fprintf(out, "    Buffer: %s\n", cfg.Output.Buffer)
		fmt.Fprintf(out, "  Playback:\n")
		fmt.Fprintf(out, "    Ring capacity: %d\n", cfg.Playback.RingCapacity)
		fmt.Fprintf(out, "    Max packet frames: %d\n", cfg.Playback.MaxPacketFrames)
		fmt.Fprintf(out, "    Retry delay: %s\n", cfg.Playback.RetryDelay)
		fmt.Fprintf(out, "    Report interval: %s\n", cfg.Playback.ReportInterval)
		fmt.Fprintf(out, "    Quality: %s\n", cfg.Playback.Quality)
		fmt.Fprintf(out, "    Norm factor: %g\n", cfg.Playback.NormFactor)
		fmt.Fprintf(out, "    Downmix: %v\n", cfg.Playback.Downmix)
		fmt.Fprintf(out, "    Volume: %g\n", cfg.Playback.Volume)
		fmt.Fprintf(out, "    Realtime: %v\n", cfg.Playback.Realtime)
		fmt.Fprintf(out, "  Logging:\n")
		fmt.Fprintf(out, "    Level: %s\n", cfg.Logging.Level)
		fmt.Fprintf(out, "    Format: %s\n", cfg.Logging.Format)

		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configValidateCmd)
	configCmd.AddCommand(configShowCmd)
}
