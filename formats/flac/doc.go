// SPDX-License-Identifier: EPL-2.0

// Package flac decodes FLAC files using github.com/mewkiz/flac.
//
// Each FLAC frame is delivered as one packet, split across calls when the
// destination is smaller than the block. Frames that fail their CRC or
// cannot be parsed surface as audio.ErrPacketCorrupt so the caller may skip
// them.
//
// Seeking uses the SEEKTABLE when present and lands on an exact sample:
// the decoder seeks to the containing frame and drops the leading samples.
package flac
