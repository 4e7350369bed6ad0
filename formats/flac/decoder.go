// SPDX-License-Identifier: EPL-2.0

package flac

import (
	"fmt"
	"io"

	"github.com/ik5/intake/audio"
	"github.com/mewkiz/flac"
	"github.com/mewkiz/flac/frame"
)

// frameParser is the part of flac.Stream the source uses.
type frameParser interface {
	ParseNext() (*frame.Frame, error)
	Close() error
}

type source struct {
	stream   frameParser
	rate     int
	channels int
	scale    float32

	// interleaved samples of the current frame not yet handed out
	pending []float32
	done    bool
}

func (s *source) SampleRate() int { return s.rate }
func (s *source) Channels() int   { return s.channels }
func (s *source) BufSize() int    { return 4096 * s.channels }

func (s *source) Close() error {
	if err := s.stream.Close(); err != nil {
		return fmt.Errorf("closing flac stream: %w", err)
	}
	return nil
}

func (s *source) ReadSamples(dst []float32) (int, error) {
	written := 0
	for written < len(dst) {
		if len(s.pending) == 0 {
			if s.done {
				break
			}
			if err := s.next(); err != nil {
				return written, err
			}
			continue
		}
		n := copy(dst[written:], s.pending)
		s.pending = s.pending[n:]
		written += n
	}

	if s.done && len(s.pending) == 0 {
		return written, io.EOF
	}
	return written, nil
}

// next decodes one frame into pending.
func (s *source) next() error {
	f, err := s.stream.ParseNext()
	if err == io.EOF {
		s.done = true
		return nil
	}
	if err != nil {
		return fmt.Errorf("parsing flac frame: %w", err)
	}

	block := int(f.BlockSize)
	buf := make([]float32, block*s.channels)
	for ch := range s.channels {
		samples := f.Subframes[ch].Samples
		for i := range min(block, len(samples)) {
			buf[i*s.channels+ch] = float32(samples[i]) / s.scale
		}
	}
	s.pending = buf
	return nil
}

type Decoder struct{}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	stream, err := flac.New(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotFlacFile, err)
	}

	info := stream.Info
	bits := int(info.BitsPerSample)
	if bits < 4 || bits > 32 {
		stream.Close()
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedBitDepth, bits)
	}
	if info.NChannels < 1 || info.SampleRate == 0 {
		stream.Close()
		return nil, ErrNotFlacFile
	}

	return &source{
		stream:   stream,
		rate:     int(info.SampleRate),
		channels: int(info.NChannels),
		scale:    float32(uint64(1) << (bits - 1)),
	}, nil
}
