// SPDX-License-Identifier: EPL-2.0

package audstream

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/ik5/audstream/formats/wav"
	"github.com/ik5/audstream/output"
	"github.com/ik5/audstream/player"
	"github.com/ik5/audstream/utils"
)

// RenderOptions configure RenderFile.
type RenderOptions struct {
	SampleRate int
	Channels   int
	// BufferSize is the number of frames pulled per render call.
	BufferSize int
	Player     player.Options
	Logger     *slog.Logger
}

// underrunWait is how long RenderFile sleeps when the decoder has not
// caught up yet.
const underrunWait = 2 * time.Millisecond

// RenderFile plays in through the full pipeline into an offline sink and
// writes the result to out as 16-bit PCM WAV. It returns the number of
// frames written.
func RenderFile(ctx context.Context, in, out string, opts RenderOptions) (int, error) {
	if opts.SampleRate <= 0 {
		opts.SampleRate = 48000
	}
	if opts.Channels <= 0 {
		opts.Channels = 2
	}
	if opts.BufferSize <= 0 {
		opts.BufferSize = 4096
	}
	if opts.Logger != nil && opts.Player.Logger == nil {
		opts.Player.Logger = opts.Logger
	}

	sink := output.NewOffline(opts.SampleRate, opts.Channels)
	defer sink.Close()

	mgr := player.NewManager(sink, opts.Player)
	defer mgr.Close()

	if _, err := mgr.Play(in); err != nil {
		return 0, fmt.Errorf("render %s: %w", in, err)
	}

	pcm16, err := collect(ctx, sink, opts.BufferSize*opts.Channels)
	if err != nil {
		return 0, err
	}

	f, err := os.Create(out)
	if err != nil {
		return 0, fmt.Errorf("render: %w", err)
	}

	if err := wav.WriteWAV16(f, opts.SampleRate, opts.Channels, pcm16); err != nil {
		f.Close()
		return 0, fmt.Errorf("render: write %s: %w", out, err)
	}

	if err := f.Close(); err != nil {
		return 0, fmt.Errorf("render: %w", err)
	}

	return len(pcm16) / opts.Channels, nil
}

// collect drains sink until its source ends and returns the samples as
// 16-bit PCM.
func collect(ctx context.Context, sink *output.Offline, bufferSize int) ([]int16, error) {
	// Start with ~2 seconds and grow as needed
	pcm16 := make([]int16, 0, sink.SampleRate()*sink.Channels()*2)
	buf := make([]float32, bufferSize)

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		n, done := sink.Render(buf)
		if n > 0 {
			if cap(pcm16)-len(pcm16) < n {
				// Grow by at least n samples, or double capacity
				grown := make([]int16, len(pcm16), len(pcm16)+max(n, cap(pcm16)))
				copy(grown, pcm16)
				pcm16 = grown
			}

			start := len(pcm16)
			pcm16 = pcm16[:start+n]
			utils.Float32ToInt16Slice(pcm16[start:], buf[:n])
		}

		if done {
			return pcm16, nil
		}

		if n == 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(underrunWait):
			}
		}
	}
}
