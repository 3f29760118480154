// SPDX-License-Identifier: EPL-2.0

// Package rtprio raises the scheduling priority of the calling OS thread.
//
// Callers must have locked the goroutine to its thread with
// runtime.LockOSThread, otherwise the elevated priority leaks onto whatever
// goroutine the runtime schedules there next.
package rtprio

import "errors"

// ErrUnsupported is returned on platforms without a thread priority API.
var ErrUnsupported = errors.New("thread priority not supported on this platform")

// Default values used by Promote.
const (
	RealtimePriority = 10
	NiceValue        = -11
)
