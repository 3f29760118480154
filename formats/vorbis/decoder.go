// SPDX-License-Identifier: EPL-2.0

package vorbis

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/ik5/audstream/audio"
	"github.com/jfreymuth/oggvorbis"
)

const packetFrames = 4096

// oggReader is an interface for oggvorbis.Reader to allow testing
type oggReader interface {
	SampleRate() int
	Channels() int
	Length() int64
	Position() int64
	SetPosition(pos int64) error
	// Read returns the number of values decoded, always whole frames.
	Read([]float32) (int, error)
}

type stream struct {
	dec        oggReader
	sampleRate int
	channels   int
}

func (s *stream) SampleRate() int      { return s.sampleRate }
func (s *stream) Channels() int        { return s.channels }
func (s *stream) MaxPacketFrames() int { return packetFrames }
func (s *stream) Close() error         { return nil }

func (s *stream) Frames() int64 {
	if l := s.dec.Length(); l > 0 {
		return l
	}
	return -1
}

func (s *stream) ReadPacket(dst []float32) (int, error) {
	frames := min(packetFrames, len(dst)/s.channels)
	if frames == 0 {
		return 0, nil
	}

	n, err := s.dec.Read(dst[:frames*s.channels])
	n -= n % s.channels
	if n > 0 {
		return n, nil
	}

	switch {
	case err == nil:
		return 0, nil
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		return 0, io.EOF
	default:
		// The reader moves on to the next packet after a decode failure.
		return 0, fmt.Errorf("%w: %w", audio.ErrPacketCorrupt, err)
	}
}

func (s *stream) Seek(frame int64) (int64, error) {
	if total := s.Frames(); total >= 0 {
		frame = min(frame, total)
	}
	if err := s.dec.SetPosition(max(0, frame)); err != nil {
		return s.dec.Position(), fmt.Errorf("seek vorbis: %w", err)
	}
	return s.dec.Position(), nil
}

type Decoder struct{}

func (Decoder) Match(header []byte) bool {
	return bytes.HasPrefix(header, []byte("OggS"))
}

func (Decoder) Decode(rs io.ReadSeeker) (audio.Stream, error) {
	dec, err := oggvorbis.NewReader(rs)
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}

	return newStream(dec), nil
}

func newStream(dec oggReader) *stream {
	return &stream{
		dec:        dec,
		sampleRate: dec.SampleRate(),
		channels:   dec.Channels(),
	}
}
