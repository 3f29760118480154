// SPDX-License-Identifier: EPL-2.0

package audstream

import (
	"bytes"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ik5/audstream/formats/wav"
	"github.com/ik5/audstream/output"
	"github.com/ik5/audstream/player"
)

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

// writeTone writes a mono 440 Hz 16-bit WAV into dir.
func writeTone(t testing.TB, dir, name string, rate int, length time.Duration) string {
	t.Helper()

	samples := make([]int16, int(length.Seconds()*float64(rate)))
	for i := range samples {
		samples[i] = int16(8000 * math.Sin(2*math.Pi*440*float64(i)/float64(rate)))
	}

	var buf bytes.Buffer
	if err := wav.WriteWAV16(&buf, rate, 1, samples); err != nil {
		t.Fatalf("WriteWAV16() error = %v", err)
	}

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, buf.Bytes(), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func testPlayerOptions() player.Options {
	opts := player.DefaultOptions()
	opts.Realtime = false
	opts.RetryDelay = 5 * time.Millisecond
	opts.ReportInterval = 100 * time.Millisecond
	opts.Logger = quiet
	return opts
}

// newTestEngine returns an initialized engine on an offline sink.
func newTestEngine(t *testing.T) (*Engine, *output.Offline) {
	t.Helper()
	return newTestEngineBuffered(t, 0)
}

// newTestEngineBuffered is newTestEngine with a notification buffer of
// size notes, or the default when notes is zero.
func newTestEngineBuffered(t *testing.T, notes int) (*Engine, *output.Offline) {
	t.Helper()

	sink := output.NewOffline(48000, 2)
	eng := New(Options{
		Output: output.Config{SampleRate: 48000, Channels: 2},
		Player: testPlayerOptions(),
		OpenSink: func(output.Config, *slog.Logger) (output.Sink, error) {
			return sink, nil
		},
		Logger:        quiet,
		Notifications: notes,
	})

	if err := eng.Initialize(); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	t.Cleanup(func() { eng.Close() })

	return eng, sink
}

// render pulls from sink until its source ends.
func render(t *testing.T, sink *output.Offline) int {
	t.Helper()

	buf := make([]float32, 2048)
	frames := 0
	deadline := time.Now().Add(20 * time.Second)

	for {
		n, done := sink.Render(buf)
		frames += n / sink.Channels()
		if done {
			return frames
		}
		if n == 0 {
			if time.Now().After(deadline) {
				t.Fatalf("rendering stalled after %d frames", frames)
			}
			time.Sleep(time.Millisecond)
		}
	}
}

// waitFinished returns the next PlaybackFinished, skipping position updates.
func waitFinished(t *testing.T, eng *Engine) PlaybackFinished {
	t.Helper()

	timeout := time.After(5 * time.Second)
	for {
		select {
		case n := <-eng.Notifications():
			if f, ok := n.(PlaybackFinished); ok {
				return f
			}
		case <-timeout:
			t.Fatal("no PlaybackFinished notification")
			return PlaybackFinished{}
		}
	}
}

// noFinished fails if a PlaybackFinished arrives within d.
func noFinished(t *testing.T, eng *Engine, d time.Duration) {
	t.Helper()

	timeout := time.After(d)
	for {
		select {
		case n := <-eng.Notifications():
			if f, ok := n.(PlaybackFinished); ok {
				t.Fatalf("unexpected %+v", f)
			}
		case <-timeout:
			return
		}
	}
}
