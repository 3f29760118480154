// SPDX-License-Identifier: EPL-2.0

package decoder

import (
	"github.com/ik5/audstream/audio"
	"github.com/ik5/audstream/formats/aiff"
	"github.com/ik5/audstream/formats/flac"
	"github.com/ik5/audstream/formats/mp3"
	"github.com/ik5/audstream/formats/vorbis"
	"github.com/ik5/audstream/formats/wav"
)

// DefaultRegistry returns a registry holding every built-in format. MP3 is
// registered last because a bare frame sync is the weakest signature.
func DefaultRegistry() *audio.Registry {
	reg := audio.NewRegistry()
	reg.Register("wav", wav.Decoder{}, "wav", "wave")
	reg.Register("aiff", aiff.Decoder{}, "aif", "aiff", "aifc")
	reg.Register("flac", flac.Decoder{}, "flac")
	reg.Register("vorbis", vorbis.Decoder{}, "ogg", "oga")
	reg.Register("mp3", mp3.Decoder{}, "mp3")

	return reg
}
