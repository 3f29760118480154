// SPDX-License-Identifier: EPL-2.0

package player

import (
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/ik5/audstream/decoder"
	"github.com/ik5/audstream/internal/actor"
	"github.com/ik5/audstream/ringbuf"
)

// Decoder is what a worker pulls packets from. *decoder.Decoder implements it.
type Decoder interface {
	Path() string
	SignalSpec() decoder.SignalSpec
	MaxPacketSamples() int
	Seek(t time.Duration) (time.Duration, error)
	ReadPacket(buf []float32) (n int, ts time.Duration, ok bool)
	Close() error
}

type msgKind uint8

const (
	msgRead msgKind = iota
	msgSeek
	msgStop
)

type message struct {
	kind msgKind
	at   time.Duration
}

var (
	readMsg = message{kind: msgRead}
	stopMsg = message{kind: msgStop}
)

// worker drains a Decoder into a ring buffer. It runs inside an actor and
// owns the decoder; nothing else touches it.
type worker struct {
	dec      Decoder
	ring     *ringbuf.Buffer
	counters *counters
	rate     int
	channels int
	retry    time.Duration
	logger   *slog.Logger

	buf    []float32
	staged []float32 // decoded but not yet in the ring

	// written counts samples pushed into the ring, on the same scale as
	// counters.position.
	written uint64
	// reading is set while a Read is queued for the actor itself.
	reading bool
	state   atomic.Uint32
}

func newWorker(dec Decoder, ring *ringbuf.Buffer, c *counters, maxPacketSamples int, retry time.Duration, logger *slog.Logger) *worker {
	spec := dec.SignalSpec()

	size := dec.MaxPacketSamples()
	if maxPacketSamples > 0 {
		size = min(size, maxPacketSamples)
	}
	size = max(spec.Channels, size-size%spec.Channels)

	return &worker{
		dec:      dec,
		ring:     ring,
		counters: c,
		rate:     spec.SampleRate,
		channels: spec.Channels,
		retry:    retry,
		logger:   logger,
		buf:      make([]float32, size),
	}
}

func (w *worker) State() State { return State(w.state.Load()) }

func (w *worker) setState(s State) { w.state.Store(uint32(s)) }

func (w *worker) Handle(msg message) actor.Act[message] {
	switch msg.kind {
	case msgRead:
		return w.read()
	case msgSeek:
		return w.seek(msg.at)
	default:
		if err := w.dec.Close(); err != nil {
			w.logger.Warn("closing decoder", slog.Any("error", err))
		}
		w.logger.Debug("worker stopped", slog.String("state", w.State().String()))
		return actor.Shutdown[message]()
	}
}

func (w *worker) read() actor.Act[message] {
	w.reading = false

	if len(w.staged) == 0 {
		n, _, ok := w.dec.ReadPacket(w.buf)
		if !ok {
			w.counters.total.Store(w.written)
			w.setState(StateIdle)
			w.logger.Debug("end of stream",
				slog.Duration("at", sampleTime(w.written, w.rate, w.channels)))
			return actor.Continue[message]()
		}
		w.staged = w.buf[:n]
	}

	n, err := w.ring.Write(w.staged)
	w.written += uint64(n)
	w.staged = w.staged[n:]

	if len(w.staged) > 0 {
		if err != nil && !errors.Is(err, ringbuf.ErrWouldBlock) {
			w.logger.Error("ring buffer write", slog.Any("error", err))
		}
		w.setState(StateWaitingForSpace)
		return actor.WaitOr(w.retry, readMsg)
	}

	return w.continueReading()
}

func (w *worker) continueReading() actor.Act[message] {
	w.setState(StateReading)
	w.reading = true
	return actor.Then(readMsg)
}

func (w *worker) seek(at time.Duration) actor.Act[message] {
	actual, err := w.dec.Seek(at)
	if err != nil {
		w.logger.Warn("seek ignored", slog.Any("error", err))

		// A mailbox message cancels a pending retry, so it is re-armed here.
		if w.State() == StateWaitingForSpace {
			return actor.WaitOr(w.retry, readMsg)
		}
		return actor.Continue[message]()
	}

	w.staged = nil
	w.ring.Clear()

	pos := timeSamples(actual, w.rate, w.channels)
	w.written = pos
	w.counters.total.Store(unknownTotal)
	w.counters.position.Store(pos)

	w.logger.Debug("seek", slog.Duration("requested", at), slog.Duration("actual", actual))

	if w.reading {
		return actor.Continue[message]()
	}
	return w.continueReading()
}
