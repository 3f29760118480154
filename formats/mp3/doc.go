// SPDX-License-Identifier: EPL-2.0

// Package mp3 provides MP3 audio file decoding.
//
// This package uses github.com/hajimehoshi/go-mp3 to decode MP3 files.
// It provides a simple interface for reading MP3 audio as PCM samples.
//
// # Supported Formats
//
// The decoder supports:
//   - MP3 (MPEG-1 Audio Layer 3)
//   - Various bitrates
//   - Stereo output (most MP3 files)
//
// # Decoding MP3 Files
//
// Use the Decoder to read MP3 files:
//
//	file, _ := os.Open("audio.mp3")
//	stream, err := mp3.Decoder{}.Decode(file)
//	if err != nil {
//	    // Handle error
//	}
//
//	// Read one MPEG frame as float32 in range [-1.0, 1.0]
//	buf := make([]float32, stream.MaxPacketFrames()*stream.Channels())
//	n, err := stream.ReadPacket(buf)
//
// Seeking is frame accurate; go-mp3 maps the PCM offset back to the
// containing MPEG frame.
//
// # Output Format
//
//   - Sample format: float32 in range [-1.0, 1.0]
//   - Channels: 2 (go-mp3 always decodes to stereo)
//   - Sample rate: Depends on the MP3 file (typically 44.1kHz or 48kHz)
//   - Packets: one MPEG frame, 1152 frames
//
// Decode errors other than a truncated tail end the stream; go-mp3 cannot
// resynchronise after a broken frame header.
package mp3
