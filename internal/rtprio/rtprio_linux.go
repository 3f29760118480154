// SPDX-License-Identifier: EPL-2.0

//go:build linux

package rtprio

import (
	"errors"
	"fmt"

	"golang.org/x/sys/unix"
)

// Promote moves the current thread to SCHED_RR. When the process lacks the
// capability it falls back to a negative nice value for the thread.
func Promote() error {
	attr := unix.SchedAttr{
		Size:     unix.SizeofSchedAttr,
		Policy:   unix.SCHED_RR,
		Priority: RealtimePriority,
	}

	rtErr := unix.SchedSetAttr(0, &attr, 0)
	if rtErr == nil {
		return nil
	}

	niceErr := unix.Setpriority(unix.PRIO_PROCESS, unix.Gettid(), NiceValue)
	if niceErr == nil {
		return nil
	}

	return fmt.Errorf("promote thread: %w", errors.Join(rtErr, niceErr))
}
