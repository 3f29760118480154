// SPDX-License-Identifier: EPL-2.0

package utils

import (
	goaudio "github.com/go-audio/audio"
)

// IntToFloat32 normalizes a signed PCM sample of the given bit depth into
// [-1, 1).
func IntToFloat32(v int, bitDepth int) float32 {
	return float32(v) / float32(goaudio.IntMaxSignedValue(bitDepth)+1)
}

// Int16ToFloat32 decodes one little-endian signed 16-bit sample.
func Int16ToFloat32(lo, hi byte) float32 {
	return float32(int16(uint16(lo)|uint16(hi)<<8)) / 32768.0
}
