// SPDX-License-Identifier: EPL-2.0

//go:build !linux

package rtprio

// Promote is a no-op outside Linux.
func Promote() error { return ErrUnsupported }
