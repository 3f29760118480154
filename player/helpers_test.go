// SPDX-License-Identifier: EPL-2.0

package player

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ik5/audstream/audio"
	"github.com/ik5/audstream/decoder"
	"github.com/ik5/audstream/formats/wav"
	"github.com/ik5/audstream/internal/audiotest"
	"github.com/ik5/audstream/output"
)

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

func testRegistry(c audiotest.Codec) *audio.Registry {
	reg := decoder.DefaultRegistry()
	reg.Register("test", c, "tst")
	return reg
}

func writeFixture(t *testing.T, name string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := audiotest.WriteFile(path); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

func openDecoder(t *testing.T, c audiotest.Codec) *decoder.Decoder {
	t.Helper()

	dec, err := decoder.Open(writeFixture(t, "fixture.tst"), testRegistry(c), quiet)
	if err != nil {
		t.Fatalf("decoder.Open() error = %v", err)
	}
	return dec
}

// writeToneWAV writes a mono 16-bit WAV of the given length.
func writeToneWAV(t *testing.T, rate int, length time.Duration) string {
	t.Helper()

	frames := int(length.Seconds() * float64(rate))
	samples := make([]int16, frames)
	for i := range samples {
		samples[i] = int16(audiotest.Value(rate, int64(i), 0) * 16000)
	}

	var buf bytes.Buffer
	if err := wav.WriteWAV16(&buf, rate, 1, samples); err != nil {
		t.Fatalf("WriteWAV16() error = %v", err)
	}

	path := filepath.Join(t.TempDir(), "tone.wav")
	if err := os.WriteFile(path, buf.Bytes(), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func testOptions(reg *audio.Registry) Options {
	opts := DefaultOptions()
	opts.Realtime = false
	opts.RetryDelay = 5 * time.Millisecond
	opts.Registry = reg
	opts.Logger = quiet
	return opts
}

// renderAll pulls from sink like a device until the source ends. It returns
// the number of frames the source delivered.
func renderAll(t *testing.T, sink *output.Offline) int {
	t.Helper()

	buf := make([]float32, 1024*sink.Channels())
	frames := 0
	deadline := time.Now().Add(30 * time.Second)

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

// renderFor pulls exactly frames frames, waiting out underruns.
func renderFor(t *testing.T, sink *output.Offline, frames int) {
	t.Helper()

	buf := make([]float32, 256*sink.Channels())
	deadline := time.Now().Add(10 * time.Second)

	for frames > 0 {
		chunk := buf[:min(len(buf), frames*sink.Channels())]
		n, done := sink.Render(chunk)
		frames -= n / sink.Channels()
		if done {
			t.Fatal("stream ended early")
		}
		if n == 0 {
			if time.Now().After(deadline) {
				t.Fatal("rendering stalled")
			}
			time.Sleep(time.Millisecond)
		}
	}
}

func drain(ch <-chan Event) []Event {
	var out []Event
	for {
		select {
		case ev := <-ch:
			out = append(out, ev)
		default:
			return out
		}
	}
}

func waitDone(t *testing.T, done <-chan struct{}, what string) {
	t.Helper()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("%s did not exit", what)
	}
}

// closingDecoder records Close on top of a real decoder.
type closingDecoder struct {
	Decoder
	closed atomic.Int32
}

func (d *closingDecoder) Close() error {
	d.closed.Add(1)
	return d.Decoder.Close()
}
