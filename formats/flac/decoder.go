// SPDX-License-Identifier: EPL-2.0

package flac

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/ik5/audstream/audio"
	"github.com/mewkiz/flac"
	"github.com/mewkiz/flac/frame"
)

// flacReader is an interface for flac.Stream to allow testing
type flacReader interface {
	ParseNext() (*frame.Frame, error)
	Seek(sampleNum uint64) (uint64, error)
}

type stream struct {
	dec        flacReader
	sampleRate int
	channels   int
	bits       int
	maxBlock   int
	frames     int64

	cur  *frame.Frame // partially consumed frame
	off  int          // next sample index within cur
	skip int          // samples to drop after a seek landed mid-frame
}

func (s *stream) SampleRate() int      { return s.sampleRate }
func (s *stream) Channels() int        { return s.channels }
func (s *stream) Frames() int64        { return s.frames }
func (s *stream) MaxPacketFrames() int { return s.maxBlock }

// Close is a no-op: the caller owns the underlying reader.
func (s *stream) Close() error { return nil }

func (s *stream) next() error {
	f, err := s.dec.ParseNext()
	switch {
	case err == nil:
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		return io.EOF
	default:
		return fmt.Errorf("%w: %w", audio.ErrPacketCorrupt, err)
	}

	if len(f.Subframes) != s.channels {
		return fmt.Errorf("%w: frame has %d channels, stream has %d",
			audio.ErrPacketCorrupt, len(f.Subframes), s.channels)
	}

	s.cur = f
	s.off = min(s.skip, len(f.Subframes[0].Samples))
	s.skip = 0

	return nil
}

func (s *stream) ReadPacket(dst []float32) (int, error) {
	want := len(dst) / s.channels
	if want == 0 {
		return 0, nil
	}

	for s.cur == nil || s.off >= len(s.cur.Subframes[0].Samples) {
		s.cur = nil
		if err := s.next(); err != nil {
			return 0, err
		}
	}

	f := s.cur
	bits := s.bits
	if f.BitsPerSample != 0 {
		bits = int(f.BitsPerSample)
	}
	scale := float32(int64(1) << (bits - 1))
	n := min(want, len(f.Subframes[0].Samples)-s.off)

	for i := range n {
		for c, sub := range f.Subframes {
			dst[i*s.channels+c] = float32(sub.Samples[s.off+i]) / scale
		}
	}
	s.off += n

	return n * s.channels, nil
}

func (s *stream) Seek(target int64) (int64, error) {
	if s.frames >= 0 {
		target = min(target, s.frames)
	}
	target = max(0, target)

	start, err := s.dec.Seek(uint64(target))
	if err != nil {
		return 0, fmt.Errorf("seek flac: %w", err)
	}

	s.cur = nil
	s.off = 0
	s.skip = int(uint64(target) - start)

	return target, nil
}

type Decoder struct{}

func (Decoder) Match(header []byte) bool {
	return bytes.HasPrefix(header, []byte("fLaC"))
}

func (Decoder) Decode(rs io.ReadSeeker) (audio.Stream, error) {
	dec, err := flac.NewSeek(rs)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotFlacFile, err)
	}

	info := dec.Info
	if info == nil || info.NChannels == 0 {
		return nil, ErrNotFlacFile
	}
	if info.BitsPerSample < 4 || info.BitsPerSample > 32 {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedBitDepth, info.BitsPerSample)
	}

	return newStream(dec, int(info.SampleRate), int(info.NChannels), int(info.BitsPerSample),
		int(info.BlockSizeMax), int64(info.NSamples)), nil
}

func newStream(dec flacReader, sampleRate, channels, bits, maxBlock int, total int64) *stream {
	if maxBlock <= 0 {
		maxBlock = 65535
	}
	// STREAMINFO stores 0 when the length is unknown.
	if total == 0 {
		total = -1
	}

	return &stream{
		dec:        dec,
		sampleRate: sampleRate,
		channels:   channels,
		bits:       bits,
		maxBlock:   maxBlock,
		frames:     total,
	}
}
