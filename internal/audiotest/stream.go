// SPDX-License-Identifier: EPL-2.0

package audiotest

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"os"
	"sync/atomic"
	"time"

	"github.com/ik5/audstream/audio"
)

// Magic is the header Codec recognizes. WriteFile puts it in test fixtures.
const Magic = "AUDSTEST"

// Codec is an audio.Decoder producing a synthetic Stream. Zero fields fall
// back to one second of 44.1kHz stereo in 1024-frame packets.
type Codec struct {
	SampleRate   int
	Channels     int
	Frames       int64
	PacketFrames int
	// Corrupt lists packet indices that fail with audio.ErrPacketCorrupt.
	Corrupt []int
	// Fatal is returned, unwrapped, instead of the packet at FatalAt.
	Fatal   error
	FatalAt int
	// Delay is slept before every packet.
	Delay  time.Duration
	NoSeek bool
	// DecodeErr makes Decode fail.
	DecodeErr error
}

func (c Codec) Match(header []byte) bool {
	return bytes.HasPrefix(header, []byte(Magic))
}

func (c Codec) Decode(io.ReadSeeker) (audio.Stream, error) {
	if c.DecodeErr != nil {
		return nil, c.DecodeErr
	}
	return NewStream(c), nil
}

// WriteFile creates a file Codec will match.
func WriteFile(path string) error {
	return os.WriteFile(path, []byte(Magic+"\x00"), 0o600)
}

// Stream is a deterministic audio.Stream: channel c of frame f holds
// Value(f, c).
type Stream struct {
	cfg     Codec
	corrupt map[int]bool
	pos     int64
	packet  int

	Reads  atomic.Int64
	Closed atomic.Bool
}

func NewStream(c Codec) *Stream {
	if c.SampleRate == 0 {
		c.SampleRate = 44100
	}
	if c.Channels == 0 {
		c.Channels = 2
	}
	if c.Frames == 0 {
		c.Frames = int64(c.SampleRate)
	}
	if c.PacketFrames == 0 {
		c.PacketFrames = 1024
	}

	s := &Stream{cfg: c, corrupt: make(map[int]bool, len(c.Corrupt))}
	for _, idx := range c.Corrupt {
		s.corrupt[idx] = true
	}

	return s
}

// Value is the sample stored at frame f, channel c: a 440Hz sine scaled per
// channel so channels can be told apart.
func Value(sampleRate int, f int64, c int) float32 {
	t := float64(f) / float64(sampleRate)
	return float32(math.Sin(2*math.Pi*440*t)) / float32(c+1)
}

func (s *Stream) SampleRate() int      { return s.cfg.SampleRate }
func (s *Stream) Channels() int        { return s.cfg.Channels }
func (s *Stream) Frames() int64        { return s.cfg.Frames }
func (s *Stream) MaxPacketFrames() int { return s.cfg.PacketFrames }

func (s *Stream) ReadPacket(dst []float32) (int, error) {
	s.Reads.Add(1)

	if s.cfg.Delay > 0 {
		time.Sleep(s.cfg.Delay)
	}

	if s.pos >= s.cfg.Frames {
		return 0, io.EOF
	}

	idx := s.packet
	s.packet++

	if s.cfg.Fatal != nil && idx == s.cfg.FatalAt {
		return 0, s.cfg.Fatal
	}

	frames := min(int64(s.cfg.PacketFrames), s.cfg.Frames-s.pos, int64(len(dst)/s.cfg.Channels))

	if s.corrupt[idx] {
		s.pos += frames
		return 0, fmt.Errorf("packet %d: %w", idx, audio.ErrPacketCorrupt)
	}

	ch := s.cfg.Channels
	for f := range frames {
		for c := range ch {
			dst[int(f)*ch+c] = Value(s.cfg.SampleRate, s.pos+f, c)
		}
	}
	s.pos += frames

	return int(frames) * ch, nil
}

// Seek lands on the start of the packet containing frame.
func (s *Stream) Seek(frame int64) (int64, error) {
	if s.cfg.NoSeek {
		return 0, audio.ErrSeekUnsupported
	}

	frame = max(0, min(frame, s.cfg.Frames))
	idx := frame / int64(s.cfg.PacketFrames)
	s.packet = int(idx)
	s.pos = idx * int64(s.cfg.PacketFrames)

	return s.pos, nil
}

func (s *Stream) Close() error {
	s.Closed.Store(true)
	return nil
}
