// SPDX-License-Identifier: EPL-2.0

// Package aiff provides AIFF (Audio Interchange File Format) decoding.
//
// This package uses github.com/go-audio/aiff to decode AIFF files.
// AIFF is Apple's standard audio file format, commonly used on macOS.
//
// # Supported Formats
//
//   - AIFF and uncompressed AIFF-C
//   - PCM 8, 16, 24 and 32-bit
//   - Any channel count and sample rate
//
// # Decoding AIFF Files
//
//	file, _ := os.Open("audio.aif")
//	stream, err := aiff.Decoder{}.Decode(file)
//	if err != nil {
//	    // Handle error
//	}
//
//	buf := make([]float32, stream.MaxPacketFrames()*stream.Channels())
//	n, err := stream.ReadPacket(buf)
//
// Samples are float32 values normalized to [-1.0, 1.0].
//
// # Seeking
//
// go-audio/aiff reads forward only. Seeking backwards rewinds the file and
// re-parses the header, then skips to the requested frame, so it costs a
// linear scan of the data chunk.
//
// # Error Handling
//
//   - ErrNotAiffFile: The input is not a valid AIFF file
//   - ErrUnsupportedBitDepth: Sample size other than 8/16/24/32 bits
//   - ErrUnsupportedAiffLayout: Missing or empty COMM chunk
package aiff
