// SPDX-License-Identifier: EPL-2.0

package player

import (
	"testing"
	"time"

	"github.com/ik5/audstream/internal/audiotest"
	"github.com/ik5/audstream/ringbuf"
)

func newTestWorker(t *testing.T, c audiotest.Codec, ringCap int) (*worker, *closingDecoder) {
	t.Helper()

	dec := &closingDecoder{Decoder: openDecoder(t, c)}
	w := newWorker(dec, ringbuf.New(ringCap), newCounters(), 0, time.Hour, quiet)
	t.Cleanup(func() { w.Handle(stopMsg) })

	return w, dec
}

func TestWorker_FillsUntilFull(t *testing.T) {
	t.Parallel()

	w, _ := newTestWorker(t, audiotest.Codec{SampleRate: 1000, Channels: 1, Frames: 10_000, PacketFrames: 100}, 256)

	for range 3 {
		w.Handle(readMsg)
	}

	if w.State() != StateWaitingForSpace {
		t.Errorf("State() = %v, want %v", w.State(), StateWaitingForSpace)
	}
	if w.ring.Free() != 0 {
		t.Errorf("ring free = %d, want 0", w.ring.Free())
	}
	if w.written != 256 || len(w.staged) != 44 {
		t.Errorf("written = %d staged = %d, want 256 and 44", w.written, len(w.staged))
	}
	if w.reading {
		t.Error("reading set while waiting for space")
	}

	// Space frees up: the staged remainder goes first.
	w.ring.Read(make([]float32, 100))
	w.Handle(readMsg)

	if len(w.staged) != 0 || w.written != 300 {
		t.Errorf("after retry written = %d staged = %d, want 300 and 0", w.written, len(w.staged))
	}
	if w.State() != StateReading || !w.reading {
		t.Errorf("State() = %v reading = %v, want reading", w.State(), w.reading)
	}
}

func TestWorker_EndOfStreamSetsTotal(t *testing.T) {
	t.Parallel()

	w, _ := newTestWorker(t, audiotest.Codec{SampleRate: 1000, Channels: 2, Frames: 250, PacketFrames: 100}, 1024)

	for range 4 {
		w.Handle(readMsg)
	}

	if w.State() != StateIdle {
		t.Errorf("State() = %v, want idle", w.State())
	}
	if got := w.counters.total.Load(); got != 500 {
		t.Errorf("total = %d, want 500", got)
	}
	if w.ring.Len() != 500 {
		t.Errorf("ring len = %d, want 500", w.ring.Len())
	}
}

func TestWorker_Seek(t *testing.T) {
	t.Parallel()

	w, _ := newTestWorker(t, audiotest.Codec{SampleRate: 1000, Channels: 2, Frames: 10_000, PacketFrames: 100}, 256)

	for range 3 {
		w.Handle(readMsg)
	}
	w.counters.position.Store(40)

	w.Handle(message{kind: msgSeek, at: 5 * time.Second})

	if w.ring.Len() != 0 {
		t.Errorf("ring len after seek = %d, want 0", w.ring.Len())
	}
	if len(w.staged) != 0 {
		t.Errorf("staged = %d samples after seek, want none", len(w.staged))
	}
	if got := w.counters.position.Load(); got != 10_000 {
		t.Errorf("position = %d, want 10000 (5s of stereo at 1kHz)", got)
	}
	if w.counters.total.Load() != unknownTotal {
		t.Error("total not reset by seek")
	}
	if w.State() != StateReading || !w.reading {
		t.Errorf("seek while waiting should resume reading, state %v", w.State())
	}

	w.Handle(readMsg)
	buf := make([]float32, 2)
	w.ring.Read(buf)
	if want := audiotest.Value(1000, 5000, 0); buf[0] != want {
		t.Errorf("first sample after seek = %f, want %f", buf[0], want)
	}
}

func TestWorker_SeekFailureKeepsRetrying(t *testing.T) {
	t.Parallel()

	w, _ := newTestWorker(t, audiotest.Codec{SampleRate: 1000, Channels: 1, Frames: 10_000, PacketFrames: 100, NoSeek: true}, 128)

	for range 2 {
		w.Handle(readMsg)
	}
	if w.State() != StateWaitingForSpace {
		t.Fatalf("State() = %v, want waiting", w.State())
	}
	before := w.written

	w.Handle(message{kind: msgSeek, at: 5 * time.Second})

	if w.State() != StateWaitingForSpace || w.written != before {
		t.Errorf("failed seek changed the worker: state %v written %d", w.State(), w.written)
	}
	if w.ring.Len() != 128 {
		t.Errorf("failed seek cleared the ring")
	}
}

func TestWorker_StopClosesDecoder(t *testing.T) {
	t.Parallel()

	dec := &closingDecoder{Decoder: openDecoder(t, audiotest.Codec{})}
	w := newWorker(dec, ringbuf.New(64), newCounters(), 0, time.Hour, quiet)

	w.Handle(stopMsg)

	if dec.closed.Load() != 1 {
		t.Errorf("decoder closed %d times, want 1", dec.closed.Load())
	}
}

func TestWorker_BufferSize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		limit int
		want  int
	}{
		{"packet size", 0, 2048},
		{"capped", 1000, 1000},
		{"capped odd", 999, 998},
		{"tiny", 1, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dec := openDecoder(t, audiotest.Codec{Channels: 2, PacketFrames: 1024})
			defer dec.Close()

			w := newWorker(dec, ringbuf.New(64), newCounters(), tt.limit, time.Hour, quiet)
			if len(w.buf) != tt.want {
				t.Errorf("buffer = %d samples, want %d", len(w.buf), tt.want)
			}
		})
	}
}
