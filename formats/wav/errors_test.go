// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"errors"
	"testing"

	"github.com/ik5/audstream/audio"
)

func TestErrors_Messages(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err  error
		want string
	}{
		{ErrNotWavFile, "not a WAV file"},
		{ErrUnsupportedWavLayout, "unsupported WAV layout"},
		{ErrUnsupportedWavChunks, "unsupported WAV chunks"},
		{ErrUnsupportedEncoding, "WAV encoding: unsupported codec"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			t.Parallel()

			if tt.err.Error() != tt.want {
				t.Errorf("Error() = %q, want %q", tt.err.Error(), tt.want)
			}
		})
	}
}

func TestErrUnsupportedEncoding_IsCodecError(t *testing.T) {
	t.Parallel()

	if !errors.Is(ErrUnsupportedEncoding, audio.ErrUnsupportedCodec) {
		t.Error("ErrUnsupportedEncoding does not match audio.ErrUnsupportedCodec")
	}
	if errors.Is(ErrNotWavFile, audio.ErrUnsupportedCodec) {
		t.Error("ErrNotWavFile matches audio.ErrUnsupportedCodec")
	}
}
