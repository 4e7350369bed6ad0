// SPDX-License-Identifier: EPL-2.0

package pcm

import "math"

// Full-scale factors for signed 16-bit PCM. The negative side reaches
// -32768 while the positive side stops at 32767.
const (
	NegativeScale = 32768.0
	PositiveScale = 32767.0
)

// Quantize clamps s to [-1, 1] and scales it to a signed 16-bit sample,
// truncating toward zero. NaN maps to 0.
func Quantize(s float32) int16 {
	v := float64(s)
	if math.IsNaN(v) {
		return 0
	}

	v = math.Max(-1, math.Min(1, v))
	if v < 0 {
		return int16(v * NegativeScale)
	}
	return int16(v * PositiveScale)
}

// QuantizeAll converts a whole channel. The result has the same length as
// samples.
func QuantizeAll(samples []float32) []int16 {
	out := make([]int16, len(samples))
	for i, s := range samples {
		out[i] = Quantize(s)
	}
	return out
}
