// SPDX-License-Identifier: EPL-2.0

package decoder

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"github.com/ik5/audstream/audio"
)

// headerSize is how much of the file is handed to audio.Decoder.Match.
const headerSize = 64

// MaxConsecutiveErrors is the number of corrupt packets in a row after which
// the stream is considered unreadable.
const MaxConsecutiveErrors = 64

// SignalSpec describes the PCM produced by a Decoder.
type SignalSpec struct {
	SampleRate int
	Channels   int
}

// Decoder reads one audio file as a sequence of interleaved float32 packets.
// It is not safe for concurrent use; the decode worker owns it.
type Decoder struct {
	path   string
	format string
	file   *os.File
	stream audio.Stream
	spec   SignalSpec
	logger *slog.Logger

	// pos is the frame following the last delivered packet.
	pos int64
}

// Open probes path against reg and prepares it for decoding. A nil reg uses
// DefaultRegistry, a nil logger uses slog.Default.
func Open(path string, reg *audio.Registry, logger *slog.Logger) (*Decoder, error) {
	if reg == nil {
		reg = DefaultRegistry()
	}
	if logger == nil {
		logger = slog.Default()
	}

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("%w: %w", ErrProbeFailed, err)
	}

	d, err := open(f, path, reg, logger)
	if err != nil {
		f.Close()
		return nil, err
	}

	return d, nil
}

func open(f *os.File, path string, reg *audio.Registry, logger *slog.Logger) (*Decoder, error) {
	header := make([]byte, headerSize)
	n, err := io.ReadFull(f, header)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: read header: %w", ErrProbeFailed, err)
	}

	format, codec, ok := reg.Probe(path, header[:n])
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrProbeFailed, path)
	}

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrProbeFailed, err)
	}

	stream, err := codec.Decode(f)
	if err != nil {
		if errors.Is(err, audio.ErrUnsupportedCodec) {
			return nil, fmt.Errorf("%w: %w", ErrUnsupportedCodec, err)
		}
		return nil, fmt.Errorf("%w: %s: %w", ErrProbeFailed, format, err)
	}

	spec := SignalSpec{SampleRate: stream.SampleRate(), Channels: stream.Channels()}
	if spec.SampleRate <= 0 || spec.Channels <= 0 {
		stream.Close()
		return nil, fmt.Errorf("%w: %s reports %d Hz, %d channels",
			ErrUnsupportedCodec, format, spec.SampleRate, spec.Channels)
	}

	logger = logger.With(slog.String("path", path), slog.String("format", format))
	logger.Debug("opened",
		slog.Int("sample_rate", spec.SampleRate),
		slog.Int("channels", spec.Channels),
		slog.Int64("frames", stream.Frames()),
	)

	return &Decoder{
		path:   path,
		format: format,
		file:   f,
		stream: stream,
		spec:   spec,
		logger: logger,
	}, nil
}

func (d *Decoder) Path() string           { return d.path }
func (d *Decoder) Format() string         { return d.format }
func (d *Decoder) SignalSpec() SignalSpec { return d.spec }

// MaxPacketSamples is the buffer length that holds any single packet.
func (d *Decoder) MaxPacketSamples() int {
	return d.stream.MaxPacketFrames() * d.spec.Channels
}

// Duration reports the track length when the container knows it.
func (d *Decoder) Duration() (time.Duration, bool) {
	frames := d.stream.Frames()
	if frames < 0 {
		return 0, false
	}
	return d.frameTime(frames), true
}

func (d *Decoder) frameTime(frame int64) time.Duration {
	return time.Duration(frame * int64(time.Second) / int64(d.spec.SampleRate))
}

// Seek moves to t and returns the timestamp where decoding resumes, which
// may precede t for formats that only seek to packet boundaries.
func (d *Decoder) Seek(t time.Duration) (time.Duration, error) {
	frame := max(0, int64(t.Seconds()*float64(d.spec.SampleRate)))

	actual, err := d.stream.Seek(frame)
	if err != nil {
		return d.frameTime(d.pos), fmt.Errorf("%w: %s at %s: %w", ErrSeekFailed, d.path, t, err)
	}
	d.pos = actual

	return d.frameTime(actual), nil
}

// ReadPacket decodes the next packet into buf and returns the number of
// samples written with the packet's timestamp. Corrupt packets are logged
// and skipped. ok is false once the stream is exhausted or the container
// can no longer be read.
func (d *Decoder) ReadPacket(buf []float32) (n int, ts time.Duration, ok bool) {
	errs := 0

	for {
		n, err := d.stream.ReadPacket(buf)
		switch {
		case err == nil && n > 0:
			ts = d.frameTime(d.pos)
			d.pos += int64(n / d.spec.Channels)
			return n, ts, true

		case err == nil:
			// Empty packet, e.g. metadata. Bounded like corrupt ones.

		case errors.Is(err, io.EOF):
			return 0, d.frameTime(d.pos), false

		case errors.Is(err, audio.ErrPacketCorrupt):
			d.logger.Warn("skipping corrupt packet",
				slog.Duration("at", d.frameTime(d.pos)), slog.Any("error", err))

		default:
			d.logger.Error("format reader failed", slog.Any("error", err))
			return 0, d.frameTime(d.pos), false
		}

		errs++
		if errs >= MaxConsecutiveErrors {
			d.logger.Error("too many consecutive bad packets, ending stream",
				slog.Int("count", errs))
			return 0, d.frameTime(d.pos), false
		}
	}
}

func (d *Decoder) Close() error {
	return errors.Join(d.stream.Close(), d.file.Close())
}
