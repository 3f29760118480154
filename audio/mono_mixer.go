// SPDX-License-Identifier: EPL-2.0

package audio

import "fmt"

// chunkFrames bounds how many frames MonoMixer and ChannelMapper pull per
// call, so reads on the render path never allocate.
const chunkFrames = 4096

// MonoMixer downmixes any channel layout to mono by averaging.
type MonoMixer struct {
	src      Source
	channels int
	tmp      []float32
}

func NewMonoMixer(src Source) *MonoMixer {
	return &MonoMixer{
		src:      src,
		channels: src.Channels(),
		tmp:      make([]float32, chunkFrames*src.Channels()),
	}
}

func (m *MonoMixer) SampleRate() int { return m.src.SampleRate() }
func (m *MonoMixer) Channels() int   { return 1 }
func (m *MonoMixer) BufSize() int    { return m.src.BufSize() }

func (m *MonoMixer) Close() error {
	if err := m.src.Close(); err != nil {
		return fmt.Errorf("close mono source: %w", err)
	}

	return nil
}

// ReadSamples fills at most chunkFrames samples of dst per call.
func (m *MonoMixer) ReadSamples(dst []float32) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}

	channels := m.channels
	if channels == 1 {
		return m.src.ReadSamples(dst)
	}

	frames := min(len(dst), chunkFrames)
	n, err := m.src.ReadSamples(m.tmp[:frames*channels])
	frames = n / channels
	if frames == 0 {
		return 0, err
	}

	src := m.tmp[:frames*channels]

	switch channels {
	case 2:
		for f := range frames {
			dst[f] = (src[2*f] + src[2*f+1]) * 0.5
		}
	default:
		inv := 1 / float32(channels)
		for f := range frames {
			var sum float32
			for _, x := range src[f*channels : (f+1)*channels] {
				sum += x
			}
			dst[f] = sum * inv
		}
	}

	return frames, err
}
