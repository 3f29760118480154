// SPDX-License-Identifier: EPL-2.0

package audio

import "errors"

var (
	ErrInvalidDstSize = errors.New("dst size must be multiple of channels")

	// ErrPacketCorrupt marks a packet that failed to decode. The stream stays
	// usable and the next ReadPacket continues with the following packet.
	ErrPacketCorrupt = errors.New("corrupt packet")

	ErrSeekUnsupported  = errors.New("stream does not support seeking")
	ErrUnsupportedCodec = errors.New("unsupported codec")
	ErrInvalidRate      = errors.New("sample rate must be positive")
	ErrUnknownQuality   = errors.New("unknown resampler quality")
)
