// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
	"slices"

	soxr "github.com/tphakala/go-audio-resampler"
)

// SupportedRates are the target rates the compression pipeline accepts.
var SupportedRates = []int{16000, 24000}

// IsSupportedRate reports whether rate is one of SupportedRates.
func IsSupportedRate(rate int) bool {
	return slices.Contains(SupportedRates, rate)
}

// OutputLength returns ceil(frames * dstRate / srcRate) using integer math,
// so a duration that is an exact multiple of the output period never gains a
// spurious trailing sample.
func OutputLength(frames, srcRate, dstRate int) int {
	if frames <= 0 || srcRate <= 0 || dstRate <= 0 {
		return 0
	}
	num := int64(frames) * int64(dstRate)
	return int((num + int64(srcRate) - 1) / int64(srcRate))
}

// Downmix folds a buffer to one channel. A mono buffer is returned as is;
// otherwise the first two channels are averaged and any further channels are
// ignored. That is adequate for speech but drops surround content.
func Downmix(b *Buffer) []float32 {
	if len(b.Channels) == 1 {
		return b.Channels[0]
	}

	left, right := b.Channels[0], b.Channels[1]
	out := make([]float32, len(left))
	for i := range out {
		out[i] = (left[i] + right[i]) / 2
	}
	return out
}

// Render produces a mono buffer at targetRate with the same duration as b.
// Rate conversion uses a band-limited polyphase filter; the result is cut or
// zero-padded to exactly OutputLength samples.
func Render(b *Buffer, targetRate int) (*Buffer, error) {
	if targetRate <= 0 {
		return nil, ErrInvalidRate
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}

	n := OutputLength(b.Len(), b.SampleRate, targetRate)
	if n <= 0 {
		return nil, ErrInvalidLength
	}

	mono := Downmix(b)

	var converted []float32
	if b.SampleRate == targetRate {
		converted = slices.Clone(mono)
	} else {
		var err error
		converted, err = soxr.ResampleMonoFloat32(mono, float64(b.SampleRate), float64(targetRate), soxr.QualityHigh)
		if err != nil {
			return nil, fmt.Errorf("resampling %d Hz to %d Hz: %w", b.SampleRate, targetRate, err)
		}
	}

	out := make([]float32, n)
	copy(out, converted)

	return NewMonoBuffer(targetRate, out), nil
}
