// SPDX-License-Identifier: EPL-2.0

package utils

func Float32ToInt16(x float32) int16 {
	// Clamp and scale
	if x > 1 {
		x = 1
	} else if x < -1 {
		x = -1
	}

	// Use 32767 for positive max to avoid overflow
	return int16(x * 32767.0)
}

// Float32ToInt16Slice converts min(len(dst), len(src)) samples and returns
// the count.
func Float32ToInt16Slice(dst []int16, src []float32) int {
	n := min(len(dst), len(src))
	for i := range n {
		dst[i] = Float32ToInt16(src[i])
	}
	return n
}
