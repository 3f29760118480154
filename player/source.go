// SPDX-License-Identifier: EPL-2.0

package player

import (
	"io"
	"sync"
	"time"

	"github.com/ik5/audstream/internal/actor"
	"github.com/ik5/audstream/ringbuf"
)

// DecoderSource is the render side of a playback session. It implements
// audio.Source on top of the ring buffer its worker fills, and never blocks:
// events go out with a non-blocking send and are retried later when the
// channel is full.
type DecoderSource struct {
	session  uint64
	path     string
	rate     int
	channels int

	ring     *ringbuf.Buffer
	counters *counters
	worker   *actor.Handle[message]
	events   chan<- Event

	gain      float32
	precision uint64
	reported  uint64
	finished  bool

	closeOnce sync.Once
}

func (s *DecoderSource) SampleRate() int { return s.rate }
func (s *DecoderSource) Channels() int   { return s.channels }
func (s *DecoderSource) BufSize() int    { return s.ring.Cap() }

// Position is the timestamp of the next sample to be played.
func (s *DecoderSource) Position() time.Duration {
	return sampleTime(s.counters.position.Load(), s.rate, s.channels)
}

// Done is closed once the worker has exited.
func (s *DecoderSource) Done() <-chan struct{} { return s.worker.Done() }

func (s *DecoderSource) ReadSamples(dst []float32) (int, error) {
	if s.finished {
		return 0, io.EOF
	}

	if s.counters.position.Load() >= s.counters.total.Load() {
		if s.emit(EventEndOfFile, s.counters.total.Load()) {
			s.finished = true
			return 0, io.EOF
		}
		return 0, nil
	}

	// Whole frames only, so a half-written frame cannot shift the channels.
	want := min(len(dst), s.ring.Len())
	want -= want % s.channels

	n := s.ring.Read(dst[:want])
	if n == 0 {
		return 0, nil
	}

	if s.gain != 1 {
		for i := range dst[:n] {
			dst[i] *= s.gain
		}
	}

	pos := s.counters.position.Add(uint64(n))
	if s.reported > pos || pos-s.reported >= s.precision {
		if s.emit(EventPosition, pos) {
			s.reported = pos
		}
	}

	return n, nil
}

func (s *DecoderSource) emit(kind EventKind, pos uint64) bool {
	ev := Event{
		Kind:     kind,
		Session:  s.session,
		Path:     s.path,
		Position: sampleTime(pos, s.rate, s.channels),
	}

	select {
	case s.events <- ev:
		return true
	default:
		return false
	}
}

// seek asks the worker to reposition. It is a no-op once the worker is gone.
func (s *DecoderSource) seek(at time.Duration) {
	_ = s.worker.Send(message{kind: msgSeek, at: at})
}

// Close stops the worker. The decoder is closed on the worker thread.
func (s *DecoderSource) Close() error {
	s.closeOnce.Do(func() {
		_ = s.worker.Send(stopMsg)
	})
	return nil
}
