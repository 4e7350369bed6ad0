// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
	"io"
)

// maxEmptyReads bounds how many (0, nil) reads ReadAll tolerates in a row.
const maxEmptyReads = 64

// Buffer holds a fully decoded signal as one sample slice per channel.
type Buffer struct {
	SampleRate int
	Channels   [][]float32
}

// NewMonoBuffer wraps samples as a single-channel buffer.
func NewMonoBuffer(sampleRate int, samples []float32) *Buffer {
	return &Buffer{SampleRate: sampleRate, Channels: [][]float32{samples}}
}

func (b *Buffer) NumChannels() int { return len(b.Channels) }

// Len is the number of frames (samples per channel).
func (b *Buffer) Len() int {
	if len(b.Channels) == 0 {
		return 0
	}
	return len(b.Channels[0])
}

// Duration in seconds.
func (b *Buffer) Duration() float64 {
	if b.SampleRate <= 0 {
		return 0
	}
	return float64(b.Len()) / float64(b.SampleRate)
}

// Validate checks the buffer invariants: a positive rate, at least one
// channel, and equal channel lengths.
func (b *Buffer) Validate() error {
	if b.SampleRate <= 0 {
		return ErrInvalidRate
	}
	if len(b.Channels) == 0 {
		return ErrNoChannels
	}
	n := len(b.Channels[0])
	for _, ch := range b.Channels[1:] {
		if len(ch) != n {
			return ErrChannelMismatch
		}
	}
	return nil
}

// ReadAll drains src and de-interleaves it into a Buffer. A trailing
// incomplete frame is dropped.
func ReadAll(src Source) (*Buffer, error) {
	channels := src.Channels()
	if channels < 1 {
		return nil, ErrNoChannels
	}
	if src.SampleRate() <= 0 {
		return nil, ErrInvalidRate
	}

	size := src.BufSize()
	if size < channels {
		size = 4096
	}
	size -= size % channels
	buf := make([]float32, size)

	var interleaved []float32
	empty := 0
	for {
		n, err := src.ReadSamples(buf)
		if n > 0 {
			interleaved = append(interleaved, buf[:n]...)
			empty = 0
		} else if err == nil {
			empty++
			if empty > maxEmptyReads {
				return nil, ErrNoProgress
			}
		}

		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading samples: %w", err)
		}
	}

	frames := len(interleaved) / channels
	out := &Buffer{
		SampleRate: src.SampleRate(),
		Channels:   make([][]float32, channels),
	}
	for c := range channels {
		out.Channels[c] = make([]float32, frames)
	}
	for f := range frames {
		base := f * channels
		for c := range channels {
			out.Channels[c][f] = interleaved[base+c]
		}
	}

	return out, nil
}
