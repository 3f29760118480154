// SPDX-License-Identifier: EPL-2.0

package output

import (
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ik5/audstream/audio"
)

// Offline is a sink without a device: the caller drives rendering through
// Render. It backs file rendering and tests.
type Offline struct {
	rate     int
	channels int
	slot     slot

	paused atomic.Bool
	gain   atomic.Uint32 // math.Float32bits
}

func NewOffline(sampleRate, channels int) *Offline {
	o := &Offline{rate: sampleRate, channels: channels}
	o.gain.Store(math.Float32bits(1))
	return o
}

func (o *Offline) SampleRate() int { return o.rate }
func (o *Offline) Channels() int   { return o.channels }

func (o *Offline) Play(src audio.Source) {
	o.slot.install(src)
	o.Resume()
}

func (o *Offline) Pause()  { o.paused.Store(true) }
func (o *Offline) Resume() { o.paused.Store(false) }
func (o *Offline) Stop()   { o.slot.install(nil) }

func (o *Offline) SetVolume(v float64) {
	o.gain.Store(math.Float32bits(float32(max(0, v))))
}

func (o *Offline) Close() error {
	o.Stop()
	return nil
}

// Playing reports whether a source is installed.
func (o *Offline) Playing() bool {
	return o.slot.current() != nil
}

// Render fills dst like a device callback would. n counts the samples the
// source delivered, the rest of dst is silence. done is true once the
// source has ended or when nothing is installed.
func (o *Offline) Render(dst []float32) (n int, done bool) {
	if o.slot.current() == nil {
		clear(dst)
		return 0, true
	}
	if o.paused.Load() {
		clear(dst)
		return 0, false
	}

	n, done = o.slot.fill(dst)
	applyGain(dst[:n], math.Float32frombits(o.gain.Load()))

	return n, done
}

// Null is an Offline sink clocked in real time by its own goroutine,
// discarding what it renders. It stands in for a device on headless hosts.
type Null struct {
	*Offline

	stop chan struct{}
	wg   sync.WaitGroup
}

func NewNull(sampleRate, channels int, buffer time.Duration) *Null {
	n := &Null{Offline: NewOffline(sampleRate, channels), stop: make(chan struct{})}

	frames := max(1, int(buffer.Seconds()*float64(sampleRate)))
	buf := make([]float32, frames*channels)

	n.wg.Add(1)
	go func() {
		defer n.wg.Done()

		ticker := time.NewTicker(buffer)
		defer ticker.Stop()

		for {
			select {
			case <-n.stop:
				return
			case <-ticker.C:
				n.Render(buf)
			}
		}
	}()

	return n
}

func (n *Null) Close() error {
	close(n.stop)
	n.wg.Wait()
	return n.Offline.Close()
}
