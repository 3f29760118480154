// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"io"
	"path/filepath"
	"strings"
	"sync"
)

type Source interface {
	// SampleRate of the PCM stream in Hz.
	SampleRate() int
	// Channels count (e.g., 1=mono, 2=stereo).
	Channels() int
	// ReadSamples fills dst with interleaved float32 samples in [-1,1].
	// Returns number of float32 values written (not frames), never more than len(dst).
	// n == 0 with a nil error means nothing is available right now; n == 0 with
	// io.EOF means the stream is finished.
	ReadSamples(dst []float32) (n int, err error)

	BufSize() int

	// Close releases any resources.
	Close() error
}

// Stream is a seekable packet decoder for one audio track.
type Stream interface {
	SampleRate() int
	Channels() int
	// Frames is the total length in frames, or -1 when unknown.
	Frames() int64
	// MaxPacketFrames bounds the frames a single ReadPacket may produce.
	MaxPacketFrames() int
	// ReadPacket decodes the next packet into dst as interleaved samples and
	// returns the sample count. io.EOF ends the stream; errors wrapping
	// ErrPacketCorrupt only affect the current packet.
	ReadPacket(dst []float32) (n int, err error)
	// Seek positions the stream at frame and returns the frame where decoding
	// actually resumes.
	Seek(frame int64) (int64, error)
	Close() error
}

// Decoder opens a Stream from a container.
type Decoder interface {
	// Match reports whether header, the first bytes of a file, looks like
	// this decoder's container.
	Match(header []byte) bool
	Decode(rs io.ReadSeeker) (Stream, error)
}

// Registry for decoders by format key (e.g., "wav", "mp3", "vorbis").
type Registry struct {
	codecs map[string]Decoder
	exts   map[string]string
	order  []string

	mtx *sync.Mutex
}

func NewRegistry() *Registry {
	return &Registry{
		codecs: make(map[string]Decoder),
		exts:   make(map[string]string),
		mtx:    &sync.Mutex{},
	}
}

// Register adds d under format. exts are file extensions, with or without
// the leading dot, used as probing hints.
func (r *Registry) Register(format string, d Decoder, exts ...string) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	if _, ok := r.codecs[format]; !ok {
		r.order = append(r.order, format)
	}
	r.codecs[format] = d

	for _, ext := range exts {
		r.exts[normalizeExt(ext)] = format
	}
}

func (r *Registry) Get(format string) (Decoder, bool) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	d, ok := r.codecs[format]
	return d, ok
}

// Formats lists registered formats in registration order.
func (r *Registry) Formats() []string {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	return append([]string(nil), r.order...)
}

// Probe picks the decoder for a file. The decoder registered for the file's
// extension wins when it matches header; otherwise every decoder is asked
// in registration order.
func (r *Registry) Probe(path string, header []byte) (string, Decoder, bool) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	if format, ok := r.exts[normalizeExt(filepath.Ext(path))]; ok {
		if d := r.codecs[format]; d.Match(header) {
			return format, d, true
		}
	}

	for _, format := range r.order {
		if d := r.codecs[format]; d.Match(header) {
			return format, d, true
		}
	}

	return "", nil, false
}

func normalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}
