// SPDX-License-Identifier: EPL-2.0

package output

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/ik5/audstream/audio"
)

// Sink is an output device that repeatedly pulls from the installed source
// on its own render goroutine. Samples the source cannot provide are played
// as silence.
type Sink interface {
	SampleRate() int
	Channels() int
	// Play installs src, replacing and closing the previous source.
	Play(src audio.Source)
	Pause()
	Resume()
	// Stop removes and closes the installed source.
	Stop()
	// SetVolume sets a linear gain, 1 is unity.
	SetVolume(v float64)
	Close() error
}

type Backend string

const (
	BackendSpeaker Backend = "speaker"
	BackendOto     Backend = "oto"
	BackendNull    Backend = "null"
)

// Config selects and sizes a device.
type Config struct {
	Backend    Backend
	SampleRate int
	Channels   int
	// Buffer is the device latency.
	Buffer time.Duration
}

// Open creates the sink described by cfg.
func Open(cfg Config, logger *slog.Logger) (Sink, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("backend", string(cfg.Backend)))

	if cfg.SampleRate <= 0 || cfg.Channels <= 0 {
		return nil, fmt.Errorf("%w: %d Hz, %d channels", ErrDeviceOpenFailed, cfg.SampleRate, cfg.Channels)
	}
	if cfg.Buffer <= 0 {
		cfg.Buffer = 100 * time.Millisecond
	}

	var (
		sink Sink
		err  error
	)

	switch cfg.Backend {
	case BackendSpeaker:
		sink, err = NewSpeaker(cfg.SampleRate, cfg.Buffer, logger)
	case BackendOto:
		sink, err = NewOto(cfg.SampleRate, cfg.Channels, cfg.Buffer, logger)
	case BackendNull:
		sink = NewNull(cfg.SampleRate, cfg.Channels, cfg.Buffer)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
	}
	if err != nil {
		return nil, err
	}

	logger.Info("output device opened",
		slog.Int("sample_rate", sink.SampleRate()),
		slog.Int("channels", sink.Channels()),
		slog.Duration("buffer", cfg.Buffer),
	)

	return sink, nil
}

type sourceRef struct {
	audio.Source
}

// slot holds the installed source. The render goroutine only loads it; the
// control goroutine swaps it and closes whatever was there before.
type slot struct {
	ref    atomic.Pointer[sourceRef]
	logger *slog.Logger
}

func (s *slot) install(src audio.Source) {
	var next *sourceRef
	if src != nil {
		next = &sourceRef{src}
	}

	prev := s.ref.Swap(next)
	if prev == nil {
		return
	}
	if err := prev.Close(); err != nil && s.logger != nil {
		s.logger.Warn("closing replaced source", slog.Any("error", err))
	}
}

func (s *slot) current() audio.Source {
	if ref := s.ref.Load(); ref != nil {
		return ref.Source
	}
	return nil
}

// fill reads from the installed source into dst and pads with silence.
// It returns the number of samples the source produced and whether the
// source reported the end of its stream.
func (s *slot) fill(dst []float32) (n int, eof bool) {
	ref := s.ref.Load()
	if ref != nil {
		for n < len(dst) {
			m, err := ref.ReadSamples(dst[n:])
			n += m
			if errors.Is(err, io.EOF) {
				eof = true
				break
			}
			if m == 0 || err != nil {
				break
			}
		}
	}

	clear(dst[n:])

	return n, eof
}

func applyGain(dst []float32, gain float32) {
	if gain == 1 {
		return
	}
	for i := range dst {
		dst[i] *= gain
	}
}
