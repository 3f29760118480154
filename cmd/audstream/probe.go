// SPDX-License-Identifier: EPL-2.0

package main

import (
	"fmt"

	"github.com/ik5/audstream/decoder"
	"github.com/spf13/cobra"
)

var probeCmd = &cobra.Command{
	Use:   "probe FILE...",
	Short: "Show the format of audio files",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runProbe,
}

func init() {
	rootCmd.AddCommand(probeCmd)
}

func runProbe(cmd *cobra.Command, args []string) error {
	if _, err := loadConfig(cmd); err != nil {
		return err
	}

	reg := decoder.DefaultRegistry()
	out := cmd.OutOrStdout()

	var failed int
	for _, path := range args {
		dec, err := decoder.Open(path, reg, nil)
		if err != nil {
			fmt.Fprintf(out, "%s: %v\n", path, err)
			failed++
			continue
		}

		spec := dec.SignalSpec()
		length := "unknown"
		if d, ok := dec.Duration(); ok {
			length = d.String()
		}

		fmt.Fprintf(out, "%s: %s, %d Hz, %d channel(s), %s\n", path, dec.Format(), spec.SampleRate, spec.Channels, length)
		dec.Close()
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d files could not be opened", failed, len(args))
	}

	return nil
}
