// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	gowav "github.com/go-audio/wav"
	"github.com/ik5/audstream/audio"
	"github.com/ik5/audstream/utils"
)

const (
	formatPCM        = 1
	formatFloat      = 3
	formatExtensible = 0xfffe

	packetFrames = 4096
)

// stream reads PCM straight from the data chunk so it can seek by offset.
type stream struct {
	r          io.ReadSeeker
	dataStart  int64
	frames     int64
	pos        int64
	sampleRate int
	channels   int
	bitDepth   int
	float      bool
	frameSize  int
	buf        []byte
}

func (s *stream) SampleRate() int      { return s.sampleRate }
func (s *stream) Channels() int        { return s.channels }
func (s *stream) Frames() int64        { return s.frames }
func (s *stream) MaxPacketFrames() int { return packetFrames }
func (s *stream) Close() error         { return nil }

func (s *stream) ReadPacket(dst []float32) (int, error) {
	frames := min(int64(packetFrames), s.frames-s.pos, int64(len(dst)/s.channels))
	if frames <= 0 {
		if s.pos >= s.frames {
			return 0, io.EOF
		}
		return 0, nil
	}

	want := int(frames) * s.frameSize
	if cap(s.buf) < want {
		s.buf = make([]byte, want)
	}

	n, err := io.ReadFull(s.r, s.buf[:want])
	switch {
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		// Truncated data chunk: keep whole frames and end there.
		s.frames = s.pos + int64(n/s.frameSize)
	case err != nil:
		return 0, fmt.Errorf("read wav data: %w", err)
	}

	got := n / s.frameSize
	if got == 0 {
		return 0, io.EOF
	}

	s.decode(dst[:got*s.channels], s.buf[:got*s.frameSize])
	s.pos += int64(got)

	return got * s.channels, nil
}

func (s *stream) decode(dst []float32, raw []byte) {
	switch {
	case s.float:
		for i := range dst {
			dst[i] = math.Float32frombits(binary.LittleEndian.Uint32(raw[4*i:]))
		}
	case s.bitDepth == 8:
		// 8-bit WAV is unsigned.
		for i := range dst {
			dst[i] = (float32(raw[i]) - 128) / 128
		}
	case s.bitDepth == 16:
		for i := range dst {
			dst[i] = utils.Int16ToFloat32(raw[2*i], raw[2*i+1])
		}
	case s.bitDepth == 24:
		for i := range dst {
			b := raw[3*i:]
			v := int32(uint32(b[0])<<8|uint32(b[1])<<16|uint32(b[2])<<24) >> 8
			dst[i] = utils.IntToFloat32(int(v), 24)
		}
	case s.bitDepth == 32:
		for i := range dst {
			v := int32(binary.LittleEndian.Uint32(raw[4*i:]))
			dst[i] = utils.IntToFloat32(int(v), 32)
		}
	}
}

func (s *stream) Seek(frame int64) (int64, error) {
	frame = max(0, min(frame, s.frames))
	if _, err := s.r.Seek(s.dataStart+frame*int64(s.frameSize), io.SeekStart); err != nil {
		return s.pos, fmt.Errorf("seek wav data: %w", err)
	}
	s.pos = frame
	return frame, nil
}

type Decoder struct{}

func (Decoder) Match(header []byte) bool {
	return len(header) >= 12 &&
		bytes.Equal(header[:4], []byte("RIFF")) &&
		bytes.Equal(header[8:12], []byte("WAVE"))
}

func (d Decoder) Decode(rs io.ReadSeeker) (audio.Stream, error) {
	header := make([]byte, 12)
	if _, err := io.ReadFull(rs, header); err != nil || !d.Match(header) {
		return nil, ErrNotWavFile
	}
	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("%w", err)
	}

	dec := gowav.NewDecoder(rs)
	if err := dec.FwdToPCM(); err != nil {
		if dec.NumChans == 0 {
			return nil, fmt.Errorf("%w: %w", ErrUnsupportedWavLayout, err)
		}
		return nil, fmt.Errorf("%w: %w", ErrUnsupportedWavChunks, err)
	}

	channels := int(dec.NumChans)
	bitDepth := int(dec.BitDepth)
	if channels == 0 || dec.SampleRate == 0 {
		return nil, ErrUnsupportedWavLayout
	}

	s := &stream{
		r:          rs,
		sampleRate: int(dec.SampleRate),
		channels:   channels,
		bitDepth:   bitDepth,
	}

	switch {
	case dec.WavAudioFormat == formatFloat && bitDepth == 32:
		s.float = true
	case dec.WavAudioFormat == formatPCM, dec.WavAudioFormat == formatExtensible:
		if bitDepth != 8 && bitDepth != 16 && bitDepth != 24 && bitDepth != 32 {
			return nil, fmt.Errorf("%w: %d-bit PCM", ErrUnsupportedEncoding, bitDepth)
		}
	default:
		return nil, fmt.Errorf("%w: format tag %#x", ErrUnsupportedEncoding, dec.WavAudioFormat)
	}

	s.frameSize = channels * bitDepth / 8

	start, err := rs.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}
	s.dataStart = start

	size := int64(dec.PCMSize)
	if size <= 0 || size == math.MaxUint32 {
		// Streamed WAVs leave the size unset; take everything to the end.
		end, err := rs.Seek(0, io.SeekEnd)
		if err != nil {
			return nil, fmt.Errorf("%w", err)
		}
		size = end - start
		if _, err := rs.Seek(start, io.SeekStart); err != nil {
			return nil, fmt.Errorf("%w", err)
		}
	}
	s.frames = size / int64(s.frameSize)

	return s, nil
}
