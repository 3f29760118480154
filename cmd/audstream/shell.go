// SPDX-License-Identifier: EPL-2.0

package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/chzyer/readline"
	"github.com/ik5/audstream"
	"github.com/spf13/cobra"
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Interactive player",
	Long: `Shell opens the output device once and reads commands:

  play FILE       start FILE, stopping the current one
  seek POSITION   jump to POSITION (e.g. 1m30s)
  stop            stop playback
  pause, resume   pause or resume the device
  volume LEVEL    set the volume, 1 is unity
  status          show the current file and position
  quit            leave the shell`,
	Args: cobra.NoArgs,
	RunE: runShell,
}

func init() {
	rootCmd.AddCommand(shellCmd)
}

var errQuit = errors.New("quit")

func runShell(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	eng, err := startEngine(cfg)
	if err != nil {
		return err
	}
	defer eng.Close()

	rl, err := readline.NewEx(&readline.Config{
		Prompt: ">> ",
		AutoComplete: readline.NewPrefixCompleter(
			readline.PcItem("play", readline.PcItemDynamic(listFiles)),
			readline.PcItem("seek"),
			readline.PcItem("stop"),
			readline.PcItem("pause"),
			readline.PcItem("resume"),
			readline.PcItem("volume"),
			readline.PcItem("status"),
			readline.PcItem("quit"),
		),
		InterruptPrompt: "^C",
		EOFPrompt:       "quit",
	})
	if err != nil {
		return fmt.Errorf("failed to start shell: %w", err)
	}
	defer rl.Close()

	done := make(chan struct{})
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		announce(eng.Notifications(), rl.Stdout(), done)
	}()
	defer func() {
		close(done)
		<-stopped
	}()

	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		if err := runLine(eng, rl.Stdout(), line); err != nil {
			if errors.Is(err, errQuit) {
				return nil
			}
			fmt.Fprintf(rl.Stdout(), " [!] %v\n", err)
		}
	}
}

// runLine executes one shell command.
func runLine(eng *audstream.Engine, out io.Writer, line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	arg := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), fields[0]))

	switch fields[0] {
	case "play":
		if arg == "" {
			return errors.New("usage: play FILE")
		}
		return eng.Play(arg)

	case "seek":
		path, ok := eng.PlayingFile()
		if !ok {
			return errors.New("nothing is playing")
		}
		pos, err := time.ParseDuration(arg)
		if err != nil {
			return fmt.Errorf("usage: seek POSITION: %w", err)
		}
		return eng.Seek(path, pos)

	case "stop":
		path, ok := eng.PlayingFile()
		if !ok {
			return nil
		}
		return eng.Stop(path)

	case "pause":
		return eng.Pause()

	case "resume":
		return eng.Resume()

	case "volume":
		v, err := strconv.ParseFloat(arg, 64)
		if err != nil || v < 0 {
			return errors.New("usage: volume LEVEL")
		}
		return eng.SetVolume(v)

	case "status":
		path, ok := eng.PlayingFile()
		if !ok {
			fmt.Fprintln(out, "idle")
			return nil
		}
		pos, _ := eng.Position()
		fmt.Fprintf(out, "%s %s\n", path, formatPosition(pos))
		return nil

	case "quit", "exit":
		return errQuit

	default:
		return fmt.Errorf("unknown command %q", fields[0])
	}
}

// announce prints the end of every file until done is closed. Position
// updates are dropped, the status command reports them on demand.
func announce(notes <-chan audstream.Notification, out io.Writer, done <-chan struct{}) {
	for {
		select {
		case <-done:
			return
		case n := <-notes:
			f, ok := n.(audstream.PlaybackFinished)
			if !ok {
				continue
			}
			state := "finished"
			if f.Interrupted {
				state = "stopped"
			}
			fmt.Fprintf(out, "%s %s\n", state, f.Path)
		}
	}
}

// listFiles completes the path typed after "play".
func listFiles(line string) []string {
	arg := strings.TrimSpace(strings.TrimPrefix(strings.TrimLeft(line, " "), "play"))

	dir := filepath.Dir(arg)
	if arg == "" || strings.HasSuffix(arg, string(os.PathSeparator)) {
		dir = arg
	}
	if dir == "" {
		dir = "."
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		name := filepath.Join(dir, e.Name())
		if dir == "." && !strings.HasPrefix(arg, ".") {
			name = e.Name()
		}
		if e.IsDir() {
			name += string(os.PathSeparator)
		}
		names = append(names, name)
	}

	return names
}
