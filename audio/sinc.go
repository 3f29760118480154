// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"math"

	"github.com/mjibson/go-dsp/window"
)

// kernelPhases is the number of fractional positions tabulated between two
// input frames. Positions in between are linearly interpolated.
const kernelPhases = 256

// sincKernel holds a Blackman-windowed sinc low-pass sampled at
// kernelPhases+1 fractional offsets.
type sincKernel struct {
	taps  int
	table [][]float32
}

// newSincKernel builds the table for taps input frames and a cutoff given as
// a fraction of the input Nyquist frequency.
func newSincKernel(taps int, cutoff float64) *sincKernel {
	half := taps / 2
	win := window.Blackman(taps*kernelPhases + 1)

	k := &sincKernel{
		taps:  taps,
		table: make([][]float32, kernelPhases+1),
	}

	for p := range kernelPhases + 1 {
		frac := float64(p) / kernelPhases
		row := make([]float32, taps)

		var sum float64
		coeffs := make([]float64, taps)
		for j := range taps {
			d := float64(j-half+1) - frac
			c := cutoff * sinc(cutoff*d) * win[(j+1)*kernelPhases-p]
			coeffs[j] = c
			sum += c
		}

		// Unity gain at DC for every phase.
		for j := range taps {
			if sum != 0 {
				row[j] = float32(coeffs[j] / sum)
			}
		}

		k.table[p] = row
	}

	return k
}

func sinc(x float64) float64 {
	if x == 0 {
		return 1
	}
	px := math.Pi * x
	return math.Sin(px) / px
}

// coefficients writes the filter for fractional position frac into dst.
func (k *sincKernel) coefficients(dst []float32, frac float64) {
	pos := frac * kernelPhases
	p := int(pos)
	if p >= kernelPhases {
		p = kernelPhases - 1
	}
	a := float32(pos - float64(p))

	lo, hi := k.table[p], k.table[p+1]
	for j := range k.taps {
		dst[j] = lo[j] + a*(hi[j]-lo[j])
	}
}
