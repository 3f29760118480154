// SPDX-License-Identifier: EPL-2.0

package mp3

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	gomp3 "github.com/hajimehoshi/go-mp3"
	"github.com/ik5/audstream/audio"
	"github.com/ik5/audstream/utils"
)

const (
	// go-mp3 always produces 16-bit little-endian stereo.
	channels      = 2
	bytesPerFrame = 4
	// One MPEG-1 Layer III frame.
	packetFrames = 1152
)

// mp3Reader is an interface for gomp3.Decoder to allow testing
type mp3Reader interface {
	Read([]byte) (int, error)
	Seek(offset int64, whence int) (int64, error)
	Length() int64
	SampleRate() int
}

type stream struct {
	dec        mp3Reader
	sampleRate int
	buf        []byte
}

func (s *stream) SampleRate() int      { return s.sampleRate }
func (s *stream) Channels() int        { return channels }
func (s *stream) MaxPacketFrames() int { return packetFrames }
func (s *stream) Close() error         { return nil }

func (s *stream) Frames() int64 {
	if l := s.dec.Length(); l > 0 {
		return l / bytesPerFrame
	}
	return -1
}

func (s *stream) ReadPacket(dst []float32) (int, error) {
	frames := min(packetFrames, len(dst)/channels)
	if frames == 0 {
		return 0, nil
	}

	want := frames * bytesPerFrame
	if cap(s.buf) < want {
		s.buf = make([]byte, want)
	}

	n, err := io.ReadFull(s.dec, s.buf[:want])
	switch {
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		if n < bytesPerFrame {
			return 0, io.EOF
		}
	case err != nil:
		return 0, fmt.Errorf("decode mp3: %w", err)
	}

	// Convert bytes to samples, dropping a trailing partial frame.
	samples := n / bytesPerFrame * channels
	for i := range samples {
		dst[i] = utils.Int16ToFloat32(s.buf[2*i], s.buf[2*i+1])
	}

	return samples, nil
}

func (s *stream) Seek(frame int64) (int64, error) {
	if total := s.Frames(); total >= 0 {
		frame = min(frame, total)
	}
	frame = max(0, frame)

	pos, err := s.dec.Seek(frame*bytesPerFrame, io.SeekStart)
	if err != nil {
		return 0, fmt.Errorf("seek mp3: %w", err)
	}
	return pos / bytesPerFrame, nil
}

type Decoder struct{}

// Match accepts an ID3v2 tag or an MPEG audio frame sync.
func (Decoder) Match(header []byte) bool {
	if bytes.HasPrefix(header, []byte("ID3")) {
		return true
	}
	return len(header) >= 2 && header[0] == 0xff && header[1]&0xe0 == 0xe0
}

func (Decoder) Decode(rs io.ReadSeeker) (audio.Stream, error) {
	dec, err := gomp3.NewDecoder(rs)
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}

	return newStream(dec), nil
}

func newStream(dec mp3Reader) *stream {
	return &stream{
		dec:        dec,
		sampleRate: dec.SampleRate(),
		buf:        make([]byte, packetFrames*bytesPerFrame),
	}
}
