// SPDX-License-Identifier: EPL-2.0

package aiff

import (
	"errors"
	"fmt"

	"github.com/ik5/audstream/audio"
)

var (
	// ErrNotAiffFile indicates the file is not a valid AIFF file
	ErrNotAiffFile = errors.New("not an AIFF file")

	// ErrUnsupportedBitDepth matches audio.ErrUnsupportedCodec.
	ErrUnsupportedBitDepth = fmt.Errorf("AIFF bit depth: %w", audio.ErrUnsupportedCodec)

	// ErrUnsupportedAiffLayout indicates an unsupported AIFF layout
	ErrUnsupportedAiffLayout = errors.New("unsupported AIFF layout")
)
