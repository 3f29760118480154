// SPDX-License-Identifier: EPL-2.0

package main

import (
	"fmt"
	"os"

	"github.com/ik5/audstream"
	"github.com/ik5/audstream/config"
	"github.com/ik5/audstream/logger"
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "audstream",
	Short: "A streaming audio player",
	Long: `audstream decodes WAV, AIFF, FLAC, MP3 and Ogg Vorbis files on a background
worker and streams them to the sound card, resampled to the device rate.

Settings come from audstream.yaml, AUDSTREAM_* environment variables and flags.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./audstream.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "text", "log format (text, json)")
	rootCmd.PersistentFlags().String("backend", "speaker", "output backend (speaker, oto, null)")
	rootCmd.PersistentFlags().String("quality", "medium", "resampler quality (cubic, fast, medium, best)")
}

// loadConfig reads the configuration, applies the flags that were set on
// cmd and configures the default logger.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	v := config.New(cfgFile)

	flags := cmd.Flags()
	bind := map[string]string{
		"logging.level":    "log-level",
		"logging.format":   "log-format",
		"output.backend":   "backend",
		"playback.quality": "quality",
	}
	for key, name := range bind {
		if f := flags.Lookup(name); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("bind %s: %w", name, err)
			}
		}
	}

	if verbose {
		v.Set("logging.level", "debug")
	}

	cfg, err := config.Load(v)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	if err := logger.Setup(cfg.Logging.Level, cfg.Logging.Format); err != nil {
		return nil, fmt.Errorf("failed to setup logging: %w", err)
	}

	return cfg, nil
}

// startEngine initializes an engine for cfg.
func startEngine(cfg *config.Config) (*audstream.Engine, error) {
	opts := audstream.OptionsFromConfig(cfg)
	opts.Logger = logger.WithComponent("audstream")

	eng := audstream.New(opts)
	if err := eng.Initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize output: %w", err)
	}

	return eng, nil
}
