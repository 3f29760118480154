// SPDX-License-Identifier: EPL-2.0

// Package vorbis provides Ogg Vorbis audio file decoding.
//
// This package uses github.com/jfreymuth/oggvorbis to decode Ogg Vorbis files.
//
// # Decoding Vorbis Files
//
//	file, _ := os.Open("audio.ogg")
//	stream, err := vorbis.Decoder{}.Decode(file)
//	if err != nil {
//	    // Handle error
//	}
//
//	buf := make([]float32, stream.MaxPacketFrames()*stream.Channels())
//	n, err := stream.ReadPacket(buf)
//
// # Output Format
//
//   - Sample format: float32 in range [-1.0, 1.0]
//   - Channels: Depends on file, interleaved [L0, R0, L1, R1, ...]
//   - Sample rate: Depends on file (commonly 44.1kHz or 48kHz)
//
// A packet that fails to decode is reported as audio.ErrPacketCorrupt and
// the next ReadPacket continues after it. Seeking uses the Ogg granule
// positions and is sample accurate.
package vorbis
