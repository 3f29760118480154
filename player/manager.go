// SPDX-License-Identifier: EPL-2.0

package player

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/ik5/audstream/audio"
	"github.com/ik5/audstream/decoder"
	"github.com/ik5/audstream/internal/actor"
	"github.com/ik5/audstream/output"
	"github.com/ik5/audstream/ringbuf"
)

// ErrNoSession is returned when an operation needs a playing file.
var ErrNoSession = errors.New("nothing is playing")

// Session describes one play call.
type Session struct {
	ID   uint64
	Path string

	source *DecoderSource
}

// Done is closed when the session's decode worker has exited.
func (s Session) Done() <-chan struct{} { return s.source.Done() }

// Manager runs at most one playback session on a Sink. Starting a session
// stops the previous one. Its methods are safe for concurrent use.
type Manager struct {
	sink   output.Sink
	opts   Options
	events chan Event
	logger *slog.Logger

	mu      sync.Mutex
	current *Session
	lastID  uint64
}

func NewManager(sink output.Sink, opts Options) *Manager {
	opts = opts.withDefaults()

	return &Manager{
		sink:   sink,
		opts:   opts,
		events: make(chan Event, opts.EventBuffer),
		logger: opts.Logger,
	}
}

// Events delivers Position and EndOfFile events of every session.
func (m *Manager) Events() <-chan Event { return m.events }

func (m *Manager) Sink() output.Sink { return m.sink }

// Play opens path and makes it the current session. On error the previous
// session keeps playing.
func (m *Manager) Play(path string) (Session, error) {
	dec, err := decoder.Open(path, m.opts.Registry, m.logger)
	if err != nil {
		return Session{}, err
	}

	return m.PlayDecoder(dec), nil
}

// PlayDecoder starts a session on an already opened decoder and takes
// ownership of it.
func (m *Manager) PlayDecoder(dec Decoder) Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.lastID++
	sess := &Session{ID: m.lastID, Path: dec.Path()}
	sess.source = m.newSource(sess.ID, dec)

	src := m.adapt(sess.source)

	// Replacing the sink's source closes the previous session.
	m.sink.Play(src)
	m.current = sess

	m.logger.Info("playing",
		slog.Uint64("session", sess.ID),
		slog.String("path", sess.Path),
	)

	return *sess
}

func (m *Manager) newSource(id uint64, dec Decoder) *DecoderSource {
	spec := dec.SignalSpec()
	logger := m.logger.With(slog.Uint64("session", id), slog.String("path", dec.Path()))

	ring := ringbuf.New(m.opts.RingCapacity)
	c := newCounters()
	w := newWorker(dec, ring, c, m.opts.MaxPacketFrames*spec.Channels, m.opts.RetryDelay, logger)

	handle := actor.Spawn[message](w, actor.Options{
		Realtime: m.opts.Realtime,
		Logger:   logger,
	})
	_ = handle.Send(readMsg)

	return &DecoderSource{
		session:   id,
		path:      dec.Path(),
		rate:      spec.SampleRate,
		channels:  spec.Channels,
		ring:      ring,
		counters:  c,
		worker:    handle,
		events:    m.events,
		gain:      m.opts.NormFactor,
		precision: max(1, timeSamples(m.opts.ReportInterval, spec.SampleRate, spec.Channels)),
		reported:  unknownTotal,
	}
}

// adapt fits src to the sink's rate and channel layout.
func (m *Manager) adapt(src audio.Source) audio.Source {
	if src.SampleRate() != m.sink.SampleRate() {
		src = audio.NewResamplerWithQuality(src, m.sink.SampleRate(), m.opts.Quality)
	}
	return audio.MapChannels(src, m.sink.Channels(), m.opts.Policy)
}

// Seek moves the current session to at and emits a Position event for it
// right away; the decoder catches up asynchronously.
func (m *Manager) Seek(at time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current == nil {
		return ErrNoSession
	}
	at = max(0, at)

	m.current.source.seek(at)

	select {
	case m.events <- Event{Kind: EventPosition, Session: m.current.ID, Path: m.current.Path, Position: at}:
	default:
	}

	return nil
}

// Stop halts the sink and ends the current session.
func (m *Manager) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.stopLocked()
}

// StopSession stops playback only if id is still the current session.
func (m *Manager) StopSession(id uint64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current == nil || m.current.ID != id {
		return false
	}
	m.stopLocked()

	return true
}

func (m *Manager) stopLocked() {
	if m.current != nil {
		m.logger.Info("stopped", slog.Uint64("session", m.current.ID), slog.String("path", m.current.Path))
	}
	m.sink.Stop()
	m.current = nil
}

func (m *Manager) Pause()              { m.sink.Pause() }
func (m *Manager) Resume()             { m.sink.Resume() }
func (m *Manager) SetVolume(v float64) { m.sink.SetVolume(v) }

// Current returns the running session.
func (m *Manager) Current() (Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current == nil {
		return Session{}, false
	}
	return *m.current, true
}

// PlayingFile returns the path of the current session.
func (m *Manager) PlayingFile() (string, bool) {
	sess, ok := m.Current()
	return sess.Path, ok
}

// Position reports how far the current session has played.
func (m *Manager) Position() (time.Duration, bool) {
	sess, ok := m.Current()
	if !ok {
		return 0, false
	}
	return sess.source.Position(), true
}

// Close stops playback. The sink is left open for its owner to close.
func (m *Manager) Close() error {
	m.Stop()
	return nil
}
