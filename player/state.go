// SPDX-License-Identifier: EPL-2.0

package player

import (
	"math"
	"sync/atomic"
	"time"
)

// State of a decode worker.
type State uint8

const (
	StateIdle State = iota
	StateReading
	StateWaitingForSpace
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateReading:
		return "reading"
	case StateWaitingForSpace:
		return "waiting-for-space"
	default:
		return "unknown"
	}
}

// unknownTotal marks a stream whose end has not been decoded yet.
const unknownTotal = math.MaxUint64

// counters is shared by a worker and its source. Both values are advisory
// and read without further synchronization.
type counters struct {
	// position is the number of samples consumed, overwritten on seek.
	position atomic.Uint64
	// total is the sample count at which the stream ends.
	total atomic.Uint64
}

func newCounters() *counters {
	c := &counters{}
	c.total.Store(unknownTotal)
	return c
}

// sampleTime converts an interleaved sample count to a timestamp.
func sampleTime(samples uint64, rate, channels int) time.Duration {
	frames := samples / uint64(channels)
	return time.Duration(frames * uint64(time.Second) / uint64(rate))
}

// timeSamples converts a timestamp to an interleaved sample count.
func timeSamples(t time.Duration, rate, channels int) uint64 {
	if t <= 0 {
		return 0
	}
	frames := uint64(t) * uint64(rate) / uint64(time.Second)
	return frames * uint64(channels)
}
