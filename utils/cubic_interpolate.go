// SPDX-License-Identifier: EPL-2.0

package utils

// CubicInterpolate evaluates the Catmull-Rom spline through y0..y3 at x,
// the fractional position between y1 (x=0) and y2 (x=1).
func CubicInterpolate(y0, y1, y2, y3, x float32) float32 {
	a := -0.5*y0 + 1.5*y1 - 1.5*y2 + 0.5*y3
	b := y0 - 2.5*y1 + 2*y2 - 0.5*y3
	c := -0.5*y0 + 0.5*y2

	return ((a*x+b)*x+c)*x + y1
}

// CubicInterpolateFrame interpolates every channel of an interleaved window
// of four frames into dst. win must hold 4*channels samples and dst at
// least channels.
func CubicInterpolateFrame(dst, win []float32, channels int, x float32) {
	for c := range channels {
		dst[c] = CubicInterpolate(win[c], win[channels+c], win[2*channels+c], win[3*channels+c], x)
	}
}
