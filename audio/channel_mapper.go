// SPDX-License-Identifier: EPL-2.0

package audio

import "fmt"

// MapPolicy decides how a source is fitted onto fewer device channels.
type MapPolicy int

const (
	// MapKeepFirst keeps the first device-count source channels and drops
	// the rest.
	MapKeepFirst MapPolicy = iota
	// MapDownmix averages every source channel when the device is mono.
	MapDownmix
)

// ChannelMapper adapts the channel layout of src to dstChannels.
//
// A mono source is copied to the first two device channels. Otherwise the
// first min(src, dst) channels are copied in order, extra device channels
// stay silent and extra source channels are dropped.
type ChannelMapper struct {
	src         Source
	srcChannels int
	dstChannels int
	tmp         []float32
}

func NewChannelMapper(src Source, dstChannels int) *ChannelMapper {
	return &ChannelMapper{
		src:         src,
		srcChannels: src.Channels(),
		dstChannels: dstChannels,
		tmp:         make([]float32, chunkFrames*src.Channels()),
	}
}

// MapChannels returns src unchanged when it already has dstChannels,
// a MonoMixer for a mono device under MapDownmix, and a ChannelMapper
// otherwise.
func MapChannels(src Source, dstChannels int, policy MapPolicy) Source {
	switch {
	case src.Channels() == dstChannels:
		return src
	case dstChannels == 1 && policy == MapDownmix:
		return NewMonoMixer(src)
	default:
		return NewChannelMapper(src, dstChannels)
	}
}

func (m *ChannelMapper) SampleRate() int { return m.src.SampleRate() }
func (m *ChannelMapper) Channels() int   { return m.dstChannels }
func (m *ChannelMapper) BufSize() int    { return m.src.BufSize() }

func (m *ChannelMapper) Close() error {
	if err := m.src.Close(); err != nil {
		return fmt.Errorf("%w", err)
	}
	return nil
}

// ReadSamples fills at most chunkFrames frames of dst per call.
func (m *ChannelMapper) ReadSamples(dst []float32) (int, error) {
	if len(dst)%m.dstChannels != 0 {
		return 0, ErrInvalidDstSize
	}
	if len(dst) == 0 {
		return 0, nil
	}

	in, out := m.srcChannels, m.dstChannels
	need := min(len(dst)/out, chunkFrames) * in

	n, err := m.src.ReadSamples(m.tmp[:need])
	frames := n / in
	if frames == 0 {
		return 0, err
	}

	src := m.tmp[:frames*in]

	if in == 1 {
		for f := range frames {
			x := src[f]
			o := dst[f*out : (f+1)*out]
			o[0] = x
			if out > 1 {
				o[1] = x
				clear(o[2:])
			}
		}
		return frames * out, err
	}

	keep := min(in, out)
	for f := range frames {
		o := dst[f*out : (f+1)*out]
		copy(o[:keep], src[f*in:f*in+keep])
		clear(o[keep:])
	}

	return frames * out, err
}
