// SPDX-License-Identifier: EPL-2.0

package output

import (
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/ik5/audstream/audio"
)

// Speaker plays through the system default device using beep's speaker
// package. beep mixes in stereo, so sources must deliver two channels.
type Speaker struct {
	rate   beep.SampleRate
	slot   slot
	ctrl   *beep.Ctrl
	volume *effects.Volume
}

func NewSpeaker(sampleRate int, buffer time.Duration, logger *slog.Logger) (*Speaker, error) {
	sr := beep.SampleRate(sampleRate)

	if err := speaker.Init(sr, sr.N(buffer)); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDeviceOpenFailed, err)
	}

	s := &Speaker{rate: sr}
	s.slot.logger = logger
	s.volume = &effects.Volume{
		Streamer: newStreamer(&s.slot, sr.N(buffer)),
		Base:     2,
	}
	s.ctrl = &beep.Ctrl{Streamer: s.volume}

	speaker.Play(s.ctrl)

	return s, nil
}

func (s *Speaker) SampleRate() int { return int(s.rate) }
func (s *Speaker) Channels() int   { return 2 }

func (s *Speaker) Play(src audio.Source) {
	s.slot.install(src)
	s.Resume()
}

func (s *Speaker) Pause() {
	speaker.Lock()
	s.ctrl.Paused = true
	speaker.Unlock()
}

func (s *Speaker) Resume() {
	speaker.Lock()
	s.ctrl.Paused = false
	speaker.Unlock()
}

func (s *Speaker) Stop() {
	s.slot.install(nil)
}

func (s *Speaker) SetVolume(v float64) {
	speaker.Lock()
	defer speaker.Unlock()

	if v <= 0 {
		s.volume.Silent = true
		return
	}

	s.volume.Silent = false
	s.volume.Volume = math.Log2(v)
}

func (s *Speaker) Close() error {
	s.Stop()
	speaker.Close()
	return nil
}

// streamer adapts the slot to beep's stereo float64 frames.
type streamer struct {
	slot *slot
	buf  []float32
}

func newStreamer(s *slot, frames int) *streamer {
	return &streamer{slot: s, buf: make([]float32, 2*frames)}
}

func (st *streamer) Stream(samples [][2]float64) (int, bool) {
	need := 2 * len(samples)
	if len(st.buf) < need {
		// Only when the device asks for more than its configured buffer.
		st.buf = make([]float32, need)
	}
	buf := st.buf[:need]

	st.slot.fill(buf)

	for i := range samples {
		samples[i][0] = float64(buf[2*i])
		samples[i][1] = float64(buf[2*i+1])
	}

	return len(samples), true
}

func (st *streamer) Err() error { return nil }
