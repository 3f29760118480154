// SPDX-License-Identifier: EPL-2.0

package aiff

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/go-audio/aiff"
	goaudio "github.com/go-audio/audio"
	"github.com/ik5/audstream/audio"
	"github.com/ik5/audstream/utils"
)

const packetFrames = 4096

// aiffReader is an interface for aiff.Decoder to allow testing
type aiffReader interface {
	Format() *goaudio.Format
	PCMBuffer(buf *goaudio.IntBuffer) (int, error)
}

// opener positions a fresh reader at the first sample frame. go-audio/aiff
// has no seek, so Seek reopens and skips forward.
type opener func() (aiffReader, error)

type stream struct {
	open       opener
	dec        aiffReader
	sampleRate int
	channels   int
	bitDepth   int
	frames     int64
	pos        int64
	intBuf     *goaudio.IntBuffer
}

func (s *stream) SampleRate() int      { return s.sampleRate }
func (s *stream) Channels() int        { return s.channels }
func (s *stream) Frames() int64        { return s.frames }
func (s *stream) MaxPacketFrames() int { return packetFrames }
func (s *stream) Close() error         { return nil }

func (s *stream) read(frames int) (int, error) {
	want := frames * s.channels
	if s.intBuf == nil || cap(s.intBuf.Data) < want {
		s.intBuf = &goaudio.IntBuffer{
			Data:           make([]int, want),
			Format:         s.dec.Format(),
			SourceBitDepth: s.bitDepth,
		}
	}
	s.intBuf.Data = s.intBuf.Data[:want]

	n, err := s.dec.PCMBuffer(s.intBuf)
	n -= n % s.channels
	s.pos += int64(n / s.channels)

	return n, err
}

func (s *stream) ReadPacket(dst []float32) (int, error) {
	frames := min(packetFrames, len(dst)/s.channels)
	if frames == 0 {
		return 0, nil
	}
	if s.frames >= 0 && s.pos >= s.frames {
		return 0, io.EOF
	}

	n, err := s.read(frames)
	for i := range n {
		dst[i] = utils.IntToFloat32(s.intBuf.Data[i], s.bitDepth)
	}

	switch {
	case n > 0:
		return n, nil
	case err == nil, errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		// go-audio reports the end as a short read without an error.
		return 0, io.EOF
	default:
		return 0, fmt.Errorf("read aiff data: %w", err)
	}
}

func (s *stream) Seek(frame int64) (int64, error) {
	if s.frames >= 0 {
		frame = min(frame, s.frames)
	}
	frame = max(0, frame)

	if frame < s.pos {
		dec, err := s.open()
		if err != nil {
			return s.pos, fmt.Errorf("seek aiff: %w", err)
		}
		s.dec = dec
		s.pos = 0
	}

	for s.pos < frame {
		n, err := s.read(int(min(int64(packetFrames), frame-s.pos)))
		if n == 0 {
			if err == nil {
				err = io.EOF
			}
			return s.pos, fmt.Errorf("seek aiff: %w", err)
		}
	}

	return s.pos, nil
}

type Decoder struct{}

func (Decoder) Match(header []byte) bool {
	return len(header) >= 12 &&
		bytes.Equal(header[:4], []byte("FORM")) &&
		(bytes.Equal(header[8:12], []byte("AIFF")) || bytes.Equal(header[8:12], []byte("AIFC")))
}

func (Decoder) Decode(rs io.ReadSeeker) (audio.Stream, error) {
	var info *aiff.Decoder

	open := func() (aiffReader, error) {
		if _, err := rs.Seek(0, io.SeekStart); err != nil {
			return nil, fmt.Errorf("rewind aiff: %w", err)
		}

		dec := aiff.NewDecoder(rs)
		if !dec.IsValidFile() {
			return nil, ErrNotAiffFile
		}
		dec.ReadInfo()
		info = dec

		return dec, nil
	}

	dec, err := open()
	if err != nil {
		return nil, err
	}

	switch info.BitDepth {
	case 8, 16, 24, 32:
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedBitDepth, info.BitDepth)
	}

	format := dec.Format()
	if format == nil || format.NumChannels == 0 {
		return nil, ErrUnsupportedAiffLayout
	}

	return &stream{
		open:       open,
		dec:        dec,
		sampleRate: format.SampleRate,
		channels:   format.NumChannels,
		bitDepth:   int(info.BitDepth),
		frames:     int64(info.NumSampleFrames),
	}, nil
}
