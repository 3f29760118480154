// SPDX-License-Identifier: EPL-2.0

package player

import (
	"log/slog"
	"time"

	"github.com/ik5/audstream/audio"
)

// Options tune a Manager. Zero numeric fields take the DefaultOptions
// value; start from DefaultOptions to keep its Quality and Realtime.
type Options struct {
	// RingCapacity is the ring buffer size in samples.
	RingCapacity int
	// MaxPacketFrames caps the decode buffer of a worker.
	MaxPacketFrames int
	// RetryDelay is how long a worker waits when the ring buffer is full.
	RetryDelay time.Duration
	// ReportInterval is the playback time between Position events.
	ReportInterval time.Duration
	Quality        audio.Quality
	// NormFactor is the gain applied to every decoded sample.
	NormFactor float32
	Policy     audio.MapPolicy
	// EventBuffer is the capacity of the event channel.
	EventBuffer int
	// Realtime raises the priority of worker threads.
	Realtime bool

	Registry *audio.Registry
	Logger   *slog.Logger
}

func DefaultOptions() Options {
	return Options{
		RingCapacity:    131072,
		MaxPacketFrames: 8192,
		RetryDelay:      500 * time.Millisecond,
		ReportInterval:  900 * time.Millisecond,
		Quality:         audio.QualityMedium,
		NormFactor:      1,
		Policy:          audio.MapKeepFirst,
		EventBuffer:     64,
		Realtime:        true,
	}
}

func (o Options) withDefaults() Options {
	def := DefaultOptions()

	if o.RingCapacity <= 0 {
		o.RingCapacity = def.RingCapacity
	}
	if o.MaxPacketFrames <= 0 {
		o.MaxPacketFrames = def.MaxPacketFrames
	}
	if o.RetryDelay <= 0 {
		o.RetryDelay = def.RetryDelay
	}
	if o.ReportInterval <= 0 {
		o.ReportInterval = def.ReportInterval
	}
	if o.NormFactor == 0 {
		o.NormFactor = def.NormFactor
	}
	if o.EventBuffer <= 0 {
		o.EventBuffer = def.EventBuffer
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}

	return o
}
