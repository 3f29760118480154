// SPDX-License-Identifier: EPL-2.0

// Package audstream is a streaming audio player engine.
//
// A file is decoded on its own worker thread into a lock-free ring buffer,
// converted to the output device's sample rate and channel count, and pulled
// by the device callback. The Engine owns the device and at most one playing
// file at a time:
//
//	eng := audstream.New(audstream.Options{
//		Output: output.Config{Backend: output.BackendSpeaker, SampleRate: 48000, Channels: 2},
//		Player: player.DefaultOptions(),
//	})
//	if err := eng.Initialize(); err != nil {
//		return err
//	}
//	defer eng.Close()
//
//	if err := eng.Play("song.flac"); err != nil {
//		return err
//	}
//
//	for n := range eng.Notifications() {
//		switch n := n.(type) {
//		case audstream.PositionChanged:
//			fmt.Println(n.Path, n.Position)
//		case audstream.PlaybackFinished:
//			fmt.Println("done", n.Path, n.Interrupted)
//		}
//	}
//
// # Supported Formats
//
// Files are recognized by their content, the extension is only a hint:
//   - WAV (PCM 8/16/24/32-bit) via formats/wav
//   - AIFF and AIFF-C via formats/aiff
//   - FLAC via formats/flac
//   - MP3 via formats/mp3
//   - Ogg Vorbis via formats/vorbis
//
// # Rendering
//
// RenderFile runs the same pipeline without a device and writes 16-bit PCM
// WAV, which is handy for checking what a file sounds like after
// resampling:
//
//	frames, err := audstream.RenderFile(ctx, "in.ogg", "out.wav", audstream.RenderOptions{
//		SampleRate: 8000,
//		Channels:   1,
//	})
//
// See the player, decoder and output subpackages for the building blocks.
package audstream
