// SPDX-License-Identifier: EPL-2.0

// Package audiotest holds test doubles for the audio pipeline: generated
// Sources and a scripted packet Stream with its Codec.
package audiotest

import (
	"io"
	"math"
	"sync/atomic"
)

// Waveform returns the value of channel c at frame f.
type Waveform func(f, c int) float32

// MockSource is an audio.Source producing a fixed number of frames from a
// Waveform. It returns io.EOF together with the last frames.
type MockSource struct {
	sampleRate int
	channels   int
	frames     int
	pos        int
	wave       Waveform

	closes atomic.Int32
}

// NewMockSource creates a source of frames frames.
func NewMockSource(sampleRate, channels, frames int, wave func(f, c int) float32) *MockSource {
	return &MockSource{
		sampleRate: sampleRate,
		channels:   channels,
		frames:     frames,
		wave:       wave,
	}
}

func NewSilentSource(sampleRate, channels, frames int) *MockSource {
	return NewConstantSource(sampleRate, channels, frames, 0)
}

func NewSineSource(sampleRate, channels, frames int, frequency float64) *MockSource {
	step := 2 * math.Pi * frequency / float64(sampleRate)
	return NewMockSource(sampleRate, channels, frames, func(f, _ int) float32 {
		return float32(math.Sin(step * float64(f)))
	})
}

func NewConstantSource(sampleRate, channels, frames int, value float32) *MockSource {
	return NewMockSource(sampleRate, channels, frames, func(int, int) float32 {
		return value
	})
}

func (m *MockSource) SampleRate() int { return m.sampleRate }
func (m *MockSource) Channels() int   { return m.channels }
func (m *MockSource) BufSize() int    { return 4096 }

func (m *MockSource) Close() error {
	m.closes.Add(1)
	return nil
}

// Closes reports how many times Close was called. It is safe to call from
// any goroutine.
func (m *MockSource) Closes() int { return int(m.closes.Load()) }

// Remaining is the number of frames not read yet.
func (m *MockSource) Remaining() int { return m.frames - m.pos }

// Reset rewinds the source to its first frame.
func (m *MockSource) Reset() { m.pos = 0 }

func (m *MockSource) ReadSamples(dst []float32) (int, error) {
	if m.pos >= m.frames {
		return 0, io.EOF
	}

	n := min(len(dst)/m.channels, m.frames-m.pos)
	for f := range n {
		frame := dst[f*m.channels : (f+1)*m.channels]
		for c := range frame {
			frame[c] = m.wave(m.pos+f, c)
		}
	}
	m.pos += n

	if m.pos >= m.frames {
		return n * m.channels, io.EOF
	}
	return n * m.channels, nil
}
