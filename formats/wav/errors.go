// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"errors"
	"fmt"

	"github.com/ik5/audstream/audio"
)

var (
	ErrNotWavFile           = errors.New("not a WAV file")
	ErrUnsupportedWavLayout = errors.New("unsupported WAV layout")
	ErrUnsupportedWavChunks = errors.New("unsupported WAV chunks")

	// ErrUnsupportedEncoding is returned for compressed WAV payloads and odd
	// bit depths. It matches audio.ErrUnsupportedCodec.
	ErrUnsupportedEncoding = fmt.Errorf("WAV encoding: %w", audio.ErrUnsupportedCodec)
)
