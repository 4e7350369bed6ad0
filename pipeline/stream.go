// SPDX-License-Identifier: EPL-2.0

package pipeline

import (
	"fmt"
	"io"

	"github.com/ik5/intake/audio"
	"github.com/ik5/intake/pcm"
)

// StreamMono16 pulls src through the streaming Resampler and MonoMixer and
// collects 16-bit mono PCM at targetRate. It trades the band-limited
// rendering of Run for constant memory per read and is used for quick
// previews. src is closed before returning.
func StreamMono16(src audio.Source, targetRate, bufferSize int) ([]int16, error) {
	if targetRate <= 0 {
		return nil, audio.ErrInvalidRate
	}
	if bufferSize <= 0 {
		bufferSize = src.BufSize()
	}

	mono := audio.NewMonoMixer(audio.NewResampler(src, targetRate))
	defer mono.Close()

	out := make([]int16, 0, targetRate*2)
	buf := make([]float32, bufferSize)

	for {
		n, err := mono.ReadSamples(buf)
		for _, s := range buf[:n] {
			out = append(out, pcm.Quantize(s))
		}

		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return nil, fmt.Errorf("streaming %d Hz preview: %w", targetRate, err)
		}
	}
}
