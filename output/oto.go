// SPDX-License-Identifier: EPL-2.0

package output

import (
	"encoding/binary"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/ebitengine/oto/v3"
	"github.com/ik5/audstream/audio"
)

const bytesPerSample = 4

// Oto plays through ebitengine/oto, which supports any channel count.
// Only one Oto may exist per process.
type Oto struct {
	rate     int
	channels int
	slot     slot
	ctx      *oto.Context
	player   *oto.Player
}

func NewOto(sampleRate, channels int, buffer time.Duration, logger *slog.Logger) (*Oto, error) {
	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: channels,
		Format:       oto.FormatFloat32LE,
		BufferSize:   buffer,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDeviceOpenFailed, err)
	}
	<-ready

	o := &Oto{rate: sampleRate, channels: channels, ctx: ctx}
	o.slot.logger = logger

	frames := int(buffer.Seconds() * float64(sampleRate))
	o.player = ctx.NewPlayer(newReader(&o.slot, channels, frames))
	o.player.Play()

	return o, nil
}

func (o *Oto) SampleRate() int { return o.rate }
func (o *Oto) Channels() int   { return o.channels }

func (o *Oto) Play(src audio.Source) {
	o.slot.install(src)
	o.Resume()
}

func (o *Oto) Pause()  { o.player.Pause() }
func (o *Oto) Resume() { o.player.Play() }
func (o *Oto) Stop()   { o.slot.install(nil) }

func (o *Oto) SetVolume(v float64) {
	o.player.SetVolume(max(0, v))
}

func (o *Oto) Close() error {
	o.Stop()
	o.player.Pause()
	o.player.Close()
	return nil
}

// reader adapts the slot to oto's little-endian float32 byte stream. It
// never reports EOF so the player keeps running between files.
type reader struct {
	slot     *slot
	channels int
	buf      []float32
}

func newReader(s *slot, channels, frames int) *reader {
	return &reader{slot: s, channels: channels, buf: make([]float32, max(1, frames)*channels)}
}

func (r *reader) Read(p []byte) (int, error) {
	frameBytes := bytesPerSample * r.channels
	samples := len(p) / frameBytes * r.channels
	if samples == 0 {
		clear(p)
		return len(p), nil
	}

	if len(r.buf) < samples {
		r.buf = make([]float32, samples)
	}
	buf := r.buf[:samples]

	r.slot.fill(buf)

	for i, v := range buf {
		binary.LittleEndian.PutUint32(p[i*bytesPerSample:], math.Float32bits(v))
	}
	clear(p[samples*bytesPerSample:])

	return len(p), nil
}
