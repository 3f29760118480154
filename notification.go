// SPDX-License-Identifier: EPL-2.0

package audstream

import "time"

// Notification is delivered on Engine.Notifications. It is either a
// PositionChanged or a PlaybackFinished.
type Notification interface {
	notification()
}

// PositionChanged reports playback progress of Path. It is rate limited and
// may skip intervals.
type PositionChanged struct {
	Path     string
	Position time.Duration
}

// PlaybackFinished is sent once per played file. Interrupted is set when
// Stop or a new Play ended the file early.
type PlaybackFinished struct {
	Path        string
	Interrupted bool
}

func (PositionChanged) notification()  {}
func (PlaybackFinished) notification() {}
