// SPDX-License-Identifier: EPL-2.0

package decoder

import (
	"errors"
	"fmt"

	"github.com/ik5/audstream/audio"
)

var (
	ErrNotFound    = errors.New("audio file not found")
	ErrProbeFailed = errors.New("unable to probe audio format")

	// ErrUnsupportedCodec matches audio.ErrUnsupportedCodec too.
	ErrUnsupportedCodec = fmt.Errorf("decoder: %w", audio.ErrUnsupportedCodec)

	// ErrSeekFailed is recoverable: the stream keeps its previous position.
	ErrSeekFailed = errors.New("seek failed")
)
