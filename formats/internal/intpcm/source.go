// SPDX-License-Identifier: EPL-2.0

// Package intpcm adapts go-audio integer PCM readers (WAV and AIFF) to
// audio.Source.
package intpcm

import (
	"bytes"
	"fmt"
	"io"

	goaudio "github.com/go-audio/audio"
)

const defaultBufSize = 4096

// Reader is the part of the go-audio wav and aiff decoders a Source needs.
type Reader interface {
	Format() *goaudio.Format
	PCMBuffer(buf *goaudio.IntBuffer) (int, error)
}

// Source normalises integer PCM to float32 in [-1, 1].
type Source struct {
	dec      Reader
	rate     int
	channels int
	bitDepth int
	unsigned bool
	scale    float32
	intBuf   *goaudio.IntBuffer
	done     bool
}

// New wraps dec. unsigned8 marks 8-bit data stored as unsigned bytes (WAV);
// AIFF 8-bit is signed.
func New(dec Reader, rate, channels, bitDepth int, unsigned8 bool) *Source {
	return &Source{
		dec:      dec,
		rate:     rate,
		channels: channels,
		bitDepth: bitDepth,
		unsigned: unsigned8 && bitDepth == 8,
		scale:    Scale(bitDepth),
	}
}

// Scale returns the magnitude of the most negative value at bitDepth.
func Scale(bitDepth int) float32 {
	switch bitDepth {
	case 8:
		return 128.0
	case 24:
		return 8388608.0
	case 32:
		return 2147483648.0
	default:
		return 32768.0
	}
}

// SupportedBitDepth reports whether bitDepth can be normalised.
func SupportedBitDepth(bitDepth int) bool {
	switch bitDepth {
	case 8, 16, 24, 32:
		return true
	}
	return false
}

func (s *Source) SampleRate() int { return s.rate }
func (s *Source) Channels() int   { return s.channels }
func (s *Source) Close() error    { return nil }

func (s *Source) BufSize() int {
	if s.intBuf != nil {
		return cap(s.intBuf.Data)
	}
	return defaultBufSize
}

func (s *Source) ReadSamples(dst []float32) (int, error) {
	if s.done {
		return 0, io.EOF
	}
	if len(dst) == 0 {
		return 0, nil
	}

	if s.intBuf == nil || cap(s.intBuf.Data) < len(dst) {
		s.intBuf = &goaudio.IntBuffer{
			Data:   make([]int, len(dst)),
			Format: s.dec.Format(),
		}
	} else {
		s.intBuf.Data = s.intBuf.Data[:len(dst)]
	}

	n, err := s.dec.PCMBuffer(s.intBuf)
	if n == 0 {
		s.done = true
		if err != nil && err != io.EOF {
			return 0, fmt.Errorf("reading pcm: %w", err)
		}
		return 0, io.EOF
	}

	for i, v := range s.intBuf.Data[:n] {
		if s.unsigned {
			v -= 128
		}
		dst[i] = float32(v) / s.scale
	}

	if err == io.EOF || (err == nil && n < len(dst)) {
		s.done = true
		return n, io.EOF
	}
	if err != nil {
		return n, fmt.Errorf("reading pcm: %w", err)
	}
	return n, nil
}

// Seekable returns r as an io.ReadSeeker, buffering it in memory when it is
// not one already. go-audio decoders need to seek between chunks.
func Seekable(r io.Reader) (io.ReadSeeker, error) {
	if rs, ok := r.(io.ReadSeeker); ok {
		return rs, nil
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("buffering input: %w", err)
	}
	return bytes.NewReader(data), nil
}
