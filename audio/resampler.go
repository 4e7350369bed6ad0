// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
	"io"
	"math"

	"github.com/ik5/intake/pcm"
)

// Resampler streams an interleaved Source to another rate with Catmull-Rom
// interpolation. Channel count is preserved. When downsampling, input frames
// pass through a one-pole low-pass tuned to the destination Nyquist first.
//
// It is the low-latency path used for previews; Render is the band-limited
// path used for compression.
type Resampler struct {
	src      Source
	dstRate  int
	step     float64 // source frames per output frame
	channels int

	// window[0..3] hold frames t-1, t0, t+1, t+2
	window [4][]float32
	valid  [4]bool
	primed bool

	pos    float64
	eof    bool
	done   bool
	srcBuf []float32

	lowpass bool
	warm    bool
	alpha   float32
	state   []float32
}

func NewResampler(src Source, dstRate int) *Resampler {
	channels := src.Channels()
	step := float64(src.SampleRate()) / float64(dstRate)

	r := &Resampler{
		src:      src,
		dstRate:  dstRate,
		step:     step,
		channels: channels,
		srcBuf:   make([]float32, channels),
		state:    make([]float32, channels),
		lowpass:  step > 1.0,
	}
	if r.lowpass {
		cutoff := float64(dstRate) / 2
		r.alpha = float32(1 - math.Exp(-2*math.Pi*cutoff/float64(src.SampleRate())))
	}
	for i := range r.window {
		r.window[i] = make([]float32, channels)
	}

	return r
}

func (r *Resampler) SampleRate() int { return r.dstRate }
func (r *Resampler) Channels() int   { return r.channels }
func (r *Resampler) BufSize() int    { return r.src.BufSize() }

func (r *Resampler) Close() error {
	if err := r.src.Close(); err != nil {
		return fmt.Errorf("closing resampled source: %w", err)
	}
	return nil
}

// pull reads one frame into slot i. It reports whether a frame was read.
func (r *Resampler) pull(i int) (bool, error) {
	if r.eof {
		return false, nil
	}

	n, err := r.src.ReadSamples(r.srcBuf)
	got := n >= r.channels
	if got {
		copy(r.window[i], r.srcBuf)
		if r.lowpass {
			if !r.warm {
				copy(r.state, r.window[i])
				r.warm = true
			}
			for c := range r.channels {
				r.state[c] += r.alpha * (r.window[i][c] - r.state[c])
				r.window[i][c] = r.state[c]
			}
		}
	}

	if err == io.EOF {
		r.eof = true
		return got, nil
	}
	if err != nil {
		return got, fmt.Errorf("reading source frame: %w", err)
	}
	return got, nil
}

func (r *Resampler) prime() error {
	for i := 1; i < len(r.window); i++ {
		got, err := r.pull(i)
		if err != nil {
			return err
		}
		if !got {
			if i == 1 {
				return io.EOF
			}
			// pad the window with the last real frame
			for j := i; j < len(r.window); j++ {
				copy(r.window[j], r.window[i-1])
			}
			break
		}
		r.valid[i] = true
	}
	copy(r.window[0], r.window[1])
	r.valid[0] = true
	r.primed = true
	return nil
}

// advance slides the window by one source frame.
func (r *Resampler) advance() error {
	first := r.window[0]
	copy(r.window[:], r.window[1:])
	r.window[3] = first
	copy(r.valid[:], r.valid[1:])

	got, err := r.pull(3)
	if err != nil {
		return err
	}
	r.valid[3] = got
	if !got {
		copy(r.window[3], r.window[2])
	}
	if !r.valid[1] || !r.valid[2] {
		return io.EOF
	}
	return nil
}

// ReadSamples produces interleaved samples at the destination rate.
// dst length must be a multiple of the channel count.
func (r *Resampler) ReadSamples(dst []float32) (int, error) {
	if len(dst)%r.channels != 0 {
		return 0, ErrInvalidDstSize
	}

	if r.done {
		return 0, io.EOF
	}
	if !r.primed {
		if err := r.prime(); err != nil {
			if err == io.EOF {
				r.done = true
			}
			return 0, err
		}
	}

	frames := len(dst) / r.channels
	written := 0
	for written < frames {
		for r.pos >= 1.0 {
			r.pos -= 1.0
			if err := r.advance(); err != nil {
				if err == io.EOF {
					r.done = true
					return written * r.channels, io.EOF
				}
				return written * r.channels, err
			}
		}

		x := float32(r.pos)
		for c := range r.channels {
			dst[written*r.channels+c] = pcm.CubicInterpolate(
				r.window[0][c], r.window[1][c], r.window[2][c], r.window[3][c], x)
		}

		written++
		r.pos += r.step
	}

	return written * r.channels, nil
}
