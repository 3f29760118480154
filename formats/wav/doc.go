// SPDX-License-Identifier: EPL-2.0

// Package wav provides WAV audio file decoding and encoding.
//
// Headers are parsed with github.com/go-audio/wav; sample data is then read
// directly from the data chunk, which makes frame-accurate seeking a single
// file seek.
//
// # Supported Formats
//
//   - PCM 8-bit (unsigned), 16, 24 and 32-bit
//   - IEEE float 32-bit
//   - WAVE_FORMAT_EXTENSIBLE carrying integer PCM
//   - Any channel count and sample rate
//
// # Decoding WAV Files
//
//	file, _ := os.Open("audio.wav")
//	stream, err := wav.Decoder{}.Decode(file)
//	if err != nil {
//	    // Handle error
//	}
//
//	buf := make([]float32, stream.MaxPacketFrames()*stream.Channels())
//	n, err := stream.ReadPacket(buf)
//
// # Writing WAV Files
//
// WriteWAV16 writes interleaved 16-bit PCM:
//
//	file, _ := os.Create("output.wav")
//	err := wav.WriteWAV16(file, 48000, 2, samples)
//
// # Error Handling
//
//   - ErrNotWavFile: The input is not a RIFF/WAVE file
//   - ErrUnsupportedWavLayout: The fmt chunk is missing or malformed
//   - ErrUnsupportedWavChunks: No data chunk was found
//   - ErrUnsupportedEncoding: Compressed payload or unsupported bit depth
package wav
