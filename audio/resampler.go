// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"fmt"
	"io"

	"github.com/ik5/audstream/utils"
)

// Resampler streams from src to a target sample rate.
// Works on interleaved samples; preserves channel count.
//
// Output frame k is computed at input time k*ratio from a window of taps input
// frames centred on that time. The window starts out filled with silence and
// is padded with silence after the source ends, so N input frames produce
// ceil(N*dstRate/srcRate) output frames.
type Resampler struct {
	src      Source
	srcRate  int64
	dstRate  int
	ratio    float64 // srcRate / dstRate - how many source frames per output frame
	channels int
	quality  Quality
	taps     int
	half     int

	// Window of the last taps frames, stored twice so that the frames from
	// head onwards are always contiguous and oldest first.
	hist []float32
	head int

	pushed   int64 // frames entered into the window, padding included
	inFrames int64 // real frames read from src
	outIdx   int64
	eof      bool

	// Buffer for reading from source
	srcBuf []float32
	srcPos int
	srcLen int

	kernel *sincKernel
	coeffs []float32
}

// NewResampler uses QualityMedium.
func NewResampler(src Source, dstRate int) *Resampler {
	return NewResamplerWithQuality(src, dstRate, QualityMedium)
}

func NewResamplerWithQuality(src Source, dstRate int, q Quality) *Resampler {
	channels := src.Channels()
	ratio := float64(src.SampleRate()) / float64(dstRate)
	taps := q.Taps()

	r := &Resampler{
		src:      src,
		srcRate:  int64(src.SampleRate()),
		dstRate:  dstRate,
		ratio:    ratio,
		channels: channels,
		quality:  q,
		taps:     taps,
		half:     taps / 2,
		hist:     make([]float32, 2*taps*channels),
		srcBuf:   make([]float32, 1024*channels),
	}

	if q != QualityCubic {
		// Lower the cutoff to the output Nyquist when downsampling.
		r.kernel = newSincKernel(taps, min(1, 1/ratio))
		r.coeffs = make([]float32, taps)
	}

	return r
}

func (r *Resampler) SampleRate() int  { return r.dstRate }
func (r *Resampler) Channels() int    { return r.channels }
func (r *Resampler) BufSize() int     { return r.src.BufSize() }
func (r *Resampler) Quality() Quality { return r.quality }

func (r *Resampler) Close() error {
	err := r.src.Close()
	if err != nil {
		return fmt.Errorf("%w", err)
	}
	return nil
}

// ReadSamples produces dst samples at the target rate.
// dst length should be a multiple of r.channels. When the source has nothing
// available yet the frames produced so far are returned with a nil error and
// the next call continues where this one stopped.
func (r *Resampler) ReadSamples(dst []float32) (int, error) {
	if len(dst)%r.channels != 0 {
		return 0, ErrInvalidDstSize
	}

	framesNeeded := len(dst) / r.channels
	written := 0

	for written < framesNeeded {
		// Integer position keeps the output length exact for long streams.
		pos := r.outIdx * r.srcRate
		i := pos / int64(r.dstRate)
		frac := float64(pos%int64(r.dstRate)) / float64(r.dstRate)

		if r.eof && i >= r.inFrames {
			if written == 0 {
				return 0, io.EOF
			}
			break
		}

		for r.pushed < i+int64(r.half)+1 {
			ok, err := r.push()
			if err != nil {
				return written * r.channels, err
			}
			if !ok {
				return written * r.channels, nil
			}
		}

		if r.eof && i >= r.inFrames {
			continue
		}

		r.interpolate(dst[written*r.channels:(written+1)*r.channels], frac)
		written++
		r.outIdx++
	}

	return written * r.channels, nil
}

// push moves one frame into the window. It reports false when the source
// has no data available yet.
func (r *Resampler) push() (bool, error) {
	if r.srcPos >= r.srcLen && !r.eof {
		n, err := r.src.ReadSamples(r.srcBuf)
		n -= n % r.channels
		r.srcPos, r.srcLen = 0, n

		if errors.Is(err, io.EOF) {
			r.eof = true
		} else if err != nil {
			return false, fmt.Errorf("%w", err)
		}

		if n == 0 && !r.eof {
			return false, nil
		}
	}

	slot := r.head * r.channels
	mirror := (r.head + r.taps) * r.channels

	if r.srcPos < r.srcLen {
		frame := r.srcBuf[r.srcPos : r.srcPos+r.channels]
		copy(r.hist[slot:slot+r.channels], frame)
		copy(r.hist[mirror:mirror+r.channels], frame)
		r.srcPos += r.channels
		r.inFrames++
	} else {
		clear(r.hist[slot : slot+r.channels])
		clear(r.hist[mirror : mirror+r.channels])
	}

	r.head = (r.head + 1) % r.taps
	r.pushed++

	return true, nil
}

func (r *Resampler) interpolate(out []float32, frac float64) {
	win := r.hist[r.head*r.channels : (r.head+r.taps)*r.channels]
	ch := r.channels

	if r.kernel == nil {
		utils.CubicInterpolateFrame(out, win, ch, float32(frac))
		return
	}

	r.kernel.coefficients(r.coeffs, frac)
	for c := range ch {
		var acc float32
		for j, k := range r.coeffs {
			acc += win[j*ch+c] * k
		}
		out[c] = acc
	}
}
