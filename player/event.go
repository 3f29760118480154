// SPDX-License-Identifier: EPL-2.0

package player

import (
	"fmt"
	"time"
)

type EventKind uint8

const (
	// EventPosition reports playback progress. Delivery is best effort and
	// intermediate reports may be dropped.
	EventPosition EventKind = iota + 1
	// EventEndOfFile is sent once per session when every decoded sample has
	// been consumed.
	EventEndOfFile
)

func (k EventKind) String() string {
	switch k {
	case EventPosition:
		return "position"
	case EventEndOfFile:
		return "end-of-file"
	default:
		return fmt.Sprintf("EventKind(%d)", k)
	}
}

// Event is emitted by a playback session. Session identifies the play call
// that produced it, so listeners can drop events of a replaced session.
type Event struct {
	Kind     EventKind
	Session  uint64
	Path     string
	Position time.Duration
}
