// SPDX-License-Identifier: EPL-2.0

package audstream

import "errors"

var (
	ErrAlreadyInitialized = errors.New("engine already initialized")

	// ErrNotInitialized wraps the initialization error, if there was one.
	ErrNotInitialized = errors.New("engine not initialized")
)
