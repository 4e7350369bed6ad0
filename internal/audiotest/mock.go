// SPDX-License-Identifier: EPL-2.0

// Package audiotest provides synthetic sources and file fixtures for tests.
// It does not import the audio package so that package can use it too.
package audiotest

import (
	"bytes"
	"encoding/binary"
	"io"
	"math"
)

// Waveform returns the sample for frame i on channel ch.
type Waveform func(i, ch int) float32

// Source generates a fixed number of frames from a Waveform and satisfies
// audio.Source.
type Source struct {
	rate     int
	channels int
	frames   int
	pos      int
	wave     Waveform

	// FailAfter makes ReadSamples return Err once pos reaches it (when > 0).
	FailAfter int
	Err       error

	closed int
}

func NewSource(rate, channels, frames int, wave Waveform) *Source {
	return &Source{rate: rate, channels: channels, frames: frames, wave: wave}
}

func Silence(rate, channels, frames int) *Source {
	return NewSource(rate, channels, frames, func(int, int) float32 { return 0 })
}

func Constant(rate, channels, frames int, v float32) *Source {
	return NewSource(rate, channels, frames, func(int, int) float32 { return v })
}

// Sine generates the same tone on every channel.
func Sine(rate, channels, frames int, freq float64) *Source {
	return NewSource(rate, channels, frames, func(i, _ int) float32 {
		return float32(math.Sin(2 * math.Pi * freq * float64(i) / float64(rate)))
	})
}

// PerChannel gives channel ch the constant levels[ch].
func PerChannel(rate, frames int, levels ...float32) *Source {
	return NewSource(rate, len(levels), frames, func(_, ch int) float32 { return levels[ch] })
}

func (s *Source) SampleRate() int { return s.rate }
func (s *Source) Channels() int   { return s.channels }
func (s *Source) BufSize() int    { return 4096 }

func (s *Source) Close() error {
	s.closed++
	return nil
}

// Closed reports how many times Close was called.
func (s *Source) Closed() int { return s.closed }

// Rewind restarts generation from frame zero.
func (s *Source) Rewind() { s.pos = 0 }

func (s *Source) ReadSamples(dst []float32) (int, error) {
	if s.FailAfter > 0 && s.pos >= s.FailAfter {
		return 0, s.Err
	}
	if s.pos >= s.frames {
		return 0, io.EOF
	}

	n := min(len(dst)/s.channels, s.frames-s.pos)
	for f := range n {
		for ch := range s.channels {
			dst[f*s.channels+ch] = s.wave(s.pos+f, ch)
		}
	}
	s.pos += n

	if s.pos >= s.frames {
		return n * s.channels, io.EOF
	}
	return n * s.channels, nil
}

// WAV builds a canonical 44-byte-header PCM16 WAV file from interleaved
// samples.
func WAV(rate, channels int, interleaved []int16) []byte {
	var b bytes.Buffer
	dataSize := uint32(len(interleaved) * 2)
	le := binary.LittleEndian

	b.WriteString("RIFF")
	_ = binary.Write(&b, le, 36+dataSize)
	b.WriteString("WAVE")
	b.WriteString("fmt ")
	_ = binary.Write(&b, le, uint32(16))
	_ = binary.Write(&b, le, uint16(1))
	_ = binary.Write(&b, le, uint16(channels))
	_ = binary.Write(&b, le, uint32(rate))
	_ = binary.Write(&b, le, uint32(rate*channels*2))
	_ = binary.Write(&b, le, uint16(channels*2))
	_ = binary.Write(&b, le, uint16(16))
	b.WriteString("data")
	_ = binary.Write(&b, le, dataSize)
	_ = binary.Write(&b, le, interleaved)

	return b.Bytes()
}

// SineWAV renders seconds of a tone into a PCM16 WAV with every channel
// carrying the same signal at amplitude amp.
func SineWAV(rate, channels int, seconds, freq, amp float64) []byte {
	frames := int(seconds * float64(rate))
	pcm := make([]int16, frames*channels)
	for i := range frames {
		v := int16(amp * 32767 * math.Sin(2*math.Pi*freq*float64(i)/float64(rate)))
		for ch := range channels {
			pcm[i*channels+ch] = v
		}
	}
	return WAV(rate, channels, pcm)
}

// AIFF builds an uncompressed 16-bit AIFF file from interleaved samples.
func AIFF(rate, channels int, interleaved []int16) []byte {
	var b bytes.Buffer
	be := binary.BigEndian
	frames := 0
	if channels > 0 {
		frames = len(interleaved) / channels
	}
	dataSize := uint32(len(interleaved) * 2)

	b.WriteString("FORM")
	_ = binary.Write(&b, be, uint32(4+8+18+8+8+dataSize))
	b.WriteString("AIFF")

	b.WriteString("COMM")
	_ = binary.Write(&b, be, uint32(18))
	_ = binary.Write(&b, be, uint16(channels))
	_ = binary.Write(&b, be, uint32(frames))
	_ = binary.Write(&b, be, uint16(16))
	b.Write(extended(rate))

	b.WriteString("SSND")
	_ = binary.Write(&b, be, 8+dataSize)
	_ = binary.Write(&b, be, uint32(0)) // offset
	_ = binary.Write(&b, be, uint32(0)) // block size
	_ = binary.Write(&b, be, interleaved)

	return b.Bytes()
}

// extended encodes a positive integer as an 80-bit IEEE 754 extended float.
func extended(v int) []byte {
	out := make([]byte, 10)
	if v <= 0 {
		return out
	}
	exp := 63
	m := uint64(v)
	for m&(1<<63) == 0 {
		m <<= 1
		exp--
	}
	binary.BigEndian.PutUint16(out[0:2], uint16(16383+exp))
	binary.BigEndian.PutUint64(out[2:10], m)
	return out
}
