// SPDX-License-Identifier: EPL-2.0

// Package audio provides the sample-level building blocks of the player.
//
// There are two kinds of audio producers:
//   - Stream is a seekable packet decoder, one per file, implemented by the
//     formats subpackages.
//   - Source is a pull-based PCM stage. Decoded audio, the Resampler and the
//     channel adapters all implement it so they can be chained.
//
// # Source Interface
//
//	type Source interface {
//	    SampleRate() int
//	    Channels() int
//	    ReadSamples(dst []float32) (int, error)
//	    BufSize() int
//	    Close() error
//	}
//
// ReadSamples returns interleaved samples. A zero count with a nil error
// means nothing is available yet (an underrun); io.EOF ends the source.
//
// # Resampling
//
// The Resampler converts to a new rate with a windowed-sinc kernel. Quality
// trades CPU for stop-band attenuation:
//
//	q, _ := audio.ParseQuality("medium")
//	r := audio.NewResamplerWithQuality(source, 48000, q)
//
// QualityCubic keeps the cheap cubic interpolation for voice pipelines.
//
// # Channel Mapping
//
// MapChannels adapts a source to the device channel count. A mono source
// is copied to the first two device channels. Extra source channels are
// dropped under MapKeepFirst; MapDownmix averages them for a mono device:
//
//	out := audio.MapChannels(r, 2, audio.MapKeepFirst)
//
// # Format Registry
//
// The registry maps format names and file extensions to decoders. Probe
// prefers a decoder that recognizes the file header over the extension:
//
//	reg := audio.NewRegistry()
//	reg.Register("wav", wav.Decoder{}, "wav", "wave")
//	format, dec, ok := reg.Probe("song.wav", header)
//
// # Sample Format
//
// Samples are float32 in the range [-1.0, 1.0]. Integer PCM is scaled by
// the helpers in the utils package.
package audio
