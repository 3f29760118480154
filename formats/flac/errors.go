// SPDX-License-Identifier: EPL-2.0

package flac

import (
	"errors"
	"fmt"

	"github.com/ik5/audstream/audio"
)

var (
	// ErrNotFlacFile indicates the input lacks the fLaC signature or a
	// readable STREAMINFO block.
	ErrNotFlacFile = errors.New("not a FLAC file")

	// ErrUnsupportedBitDepth matches audio.ErrUnsupportedCodec.
	ErrUnsupportedBitDepth = fmt.Errorf("FLAC bit depth: %w", audio.ErrUnsupportedCodec)
)
