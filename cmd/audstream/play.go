// SPDX-License-Identifier: EPL-2.0

package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ik5/audstream"
	"github.com/spf13/cobra"
)

var playCmd = &cobra.Command{
	Use:   "play FILE",
	Short: "Play a file to the end",
	Args:  cobra.ExactArgs(1),
	RunE:  runPlay,
}

func init() {
	rootCmd.AddCommand(playCmd)

	playCmd.Flags().Duration("start", 0, "start position")
	playCmd.Flags().Float64("volume", 1, "playback volume, 1 is unity")
}

func runPlay(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	start, _ := cmd.Flags().GetDuration("start")
	if cmd.Flags().Changed("volume") {
		cfg.Playback.Volume, _ = cmd.Flags().GetFloat64("volume")
	}

	eng, err := startEngine(cfg)
	if err != nil {
		return err
	}
	defer eng.Close()

	path := args[0]
	if err := eng.Play(path); err != nil {
		return err
	}
	if start > 0 {
		if err := eng.Seek(path, start); err != nil {
			return err
		}
	}

	// Setup graceful shutdown
	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(signalChan)

	out := cmd.OutOrStdout()
	for {
		select {
		case sig := <-signalChan:
			fmt.Fprintf(out, "\nReceived %s, stopping\n", sig)
			return eng.Stop(path)

		case n := <-eng.Notifications():
			switch n := n.(type) {
			case audstream.PositionChanged:
				fmt.Fprintf(out, "\r%s %s", n.Path, formatPosition(n.Position))
			case audstream.PlaybackFinished:
				fmt.Fprintln(out)
				return nil
			}
		}
	}
}

func formatPosition(d time.Duration) string {
	d = d.Truncate(100 * time.Millisecond)
	return fmt.Sprintf("%02d:%02d.%d", int(d.Minutes()), int(d.Seconds())%60, d.Milliseconds()%1000/100)
}
