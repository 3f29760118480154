// SPDX-License-Identifier: EPL-2.0

package output

import "errors"

var (
	// ErrDeviceOpenFailed is fatal: nothing can be played without a device.
	ErrDeviceOpenFailed = errors.New("failed to open output device")

	ErrUnknownBackend = errors.New("unknown output backend")
)
