// SPDX-License-Identifier: EPL-2.0

package ringbuf

import "errors"

// ErrWouldBlock is returned by Write when no sample could be stored because
// the buffer is full.
var ErrWouldBlock = errors.New("ring buffer full")
