// SPDX-License-Identifier: EPL-2.0

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ik5/audstream"
	"github.com/spf13/cobra"
)

var renderCmd = &cobra.Command{
	Use:   "render INPUT OUTPUT.wav",
	Short: "Render a file to 16-bit PCM WAV",
	Long: `Render runs INPUT through the playback pipeline without a sound card and
writes the converted audio to a 16-bit PCM WAV file.`,
	Args: cobra.ExactArgs(2),
	RunE: runRender,
}

func init() {
	rootCmd.AddCommand(renderCmd)

	renderCmd.Flags().Int("rate", 48000, "output sample rate")
	renderCmd.Flags().Int("channels", 2, "output channels")
}

func runRender(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	rate, _ := cmd.Flags().GetInt("rate")
	channels, _ := cmd.Flags().GetInt("channels")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	popts := cfg.PlayerOptions()
	// The render loop is not a device callback.
	popts.Realtime = false

	started := time.Now()
	frames, err := audstream.RenderFile(ctx, args[0], args[1], audstream.RenderOptions{
		SampleRate: rate,
		Channels:   channels,
		Player:     popts,
		Logger:     slog.Default(),
	})
	if err != nil {
		return err
	}

	slog.Info("Rendered",
		slog.String("output", args[1]),
		slog.Int("frames", frames),
		slog.Duration("elapsed", time.Since(started)),
	)
	fmt.Fprintf(cmd.OutOrStdout(), "%s: %d frames at %d Hz, %d channel(s)\n", args[1], frames, rate, channels)

	return nil
}
