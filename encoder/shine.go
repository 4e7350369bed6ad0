// SPDX-License-Identifier: EPL-2.0

package encoder

import (
	"bytes"
	"fmt"

	"github.com/braheezy/shine-mp3/pkg/mp3"
)

// granule sizes per channel: MPEG-1 frames carry two granules of 576
// samples, MPEG-2 frames carry one
var frameSamples = map[int]int{
	32000: 1152,
	44100: 1152,
	48000: 1152,
	16000: 576,
	22050: 576,
	24000: 576,
}

// layer III bitrates in kbps, indexed by the frame header bitrate index
var (
	mpeg1Kbps = [...]int{0, 32, 40, 48, 56, 64, 80, 96, 112, 128, 160, 192, 224, 256, 320}
	mpeg2Kbps = [...]int{0, 8, 16, 24, 32, 40, 48, 56, 64, 80, 96, 112, 128, 144, 160}
)

// Shine adapts the pure-Go shine encoder. shine only consumes whole frames,
// so input is held until a frame is complete and the tail is zero padded on
// Flush.
//
// shine's mono path drops every other frame, so the backend always runs in
// stereo and mono input is duplicated onto both channels. Each frame goes
// through its own Write from a buffer owned by Shine, because the library
// keeps raw pointers into the last slice it was given.
type Shine struct {
	enc      *mp3.Encoder
	cfg      Config
	frame    int     // input samples per mp3 frame, interleaved
	stereo   []int16 // one frame as handed to shine, L/R interleaved
	pending  []int16
	out      bytes.Buffer
	frames   int
	finished bool
}

// NewShine is a Factory.
func NewShine(cfg Config) (MP3Encoder, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	perChannel, ok := frameSamples[cfg.SampleRate]
	if !ok {
		return nil, fmt.Errorf("%w: %d Hz", ErrUnsupportedRate, cfg.SampleRate)
	}
	if cfg.BitrateKbps == 0 {
		cfg.BitrateKbps = DefaultBitrateKbps
	}
	if mp3.CheckConfig(cfg.SampleRate, cfg.BitrateKbps) < 0 {
		return nil, fmt.Errorf("%w: %d kbps at %d Hz", ErrUnsupportedBitrate, cfg.BitrateKbps, cfg.SampleRate)
	}

	enc := mp3.NewEncoder(cfg.SampleRate, 2)
	if err := setBitrate(enc, cfg.BitrateKbps); err != nil {
		return nil, err
	}

	return &Shine{
		enc:    enc,
		cfg:    cfg,
		frame:  perChannel * cfg.Channels,
		stereo: make([]int16, perChannel*2),
	}, nil
}

// setBitrate replaces the 128 kbps NewEncoder hard-codes and recomputes the
// slot accounting that depends on it.
func setBitrate(enc *mp3.Encoder, kbps int) error {
	table := mpeg2Kbps[:]
	if enc.Mpeg.Version == mp3.MPEG_I {
		table = mpeg1Kbps[:]
	}
	index := -1
	for i, v := range table {
		if i > 0 && v == kbps {
			index = i
			break
		}
	}
	if index < 0 {
		return fmt.Errorf("%w: %d kbps", ErrUnsupportedBitrate, kbps)
	}

	m := &enc.Mpeg
	m.Bitrate = int64(kbps)
	m.BitrateIndex = int64(index)

	avg := float64(m.GranulesPerFrame) * mp3.GRANULE_SIZE / float64(enc.Wave.SampleRate) *
		(float64(m.Bitrate) * 1000 / float64(m.BitsPerSlot))
	m.WholeSlotsPerFrame = int64(avg)
	m.FracSlotsPerFrame = avg - float64(m.WholeSlotsPerFrame)
	m.Slot_lag = -m.FracSlotsPerFrame
	if m.FracSlotsPerFrame == 0 {
		m.Padding = 0
	}
	return nil
}

func (s *Shine) Config() Config { return s.cfg }

// Frames is the number of mp3 frames written so far.
func (s *Shine) Frames() int { return s.frames }

func (s *Shine) Encode(pcm []int16) ([]byte, error) {
	if s.finished {
		return nil, ErrFlushed
	}

	s.pending = append(s.pending, pcm...)
	start := 0
	for ; start+s.frame <= len(s.pending); start += s.frame {
		if err := s.writeFrame(s.pending[start : start+s.frame]); err != nil {
			return nil, err
		}
	}
	s.pending = append(s.pending[:0], s.pending[start:]...)

	return s.take(), nil
}

func (s *Shine) Flush() ([]byte, error) {
	if s.finished {
		return nil, ErrFlushed
	}
	s.finished = true

	if len(s.pending) > 0 {
		padded := make([]int16, s.frame)
		copy(padded, s.pending)
		s.pending = nil
		if err := s.writeFrame(padded); err != nil {
			return nil, err
		}
	}

	return s.take(), nil
}

// writeFrame encodes exactly one frame of input.
func (s *Shine) writeFrame(in []int16) error {
	if s.cfg.Channels == 2 {
		copy(s.stereo, in)
	} else {
		for i, v := range in {
			s.stereo[2*i] = v
			s.stereo[2*i+1] = v
		}
	}

	if err := s.enc.Write(&s.out, s.stereo); err != nil {
		return fmt.Errorf("writing mp3 frame %d: %w", s.frames, err)
	}
	s.frames++
	return nil
}

// take hands out the encoded bytes produced since the last call.
func (s *Shine) take() []byte {
	if s.out.Len() == 0 {
		return nil
	}
	b := bytes.Clone(s.out.Bytes())
	s.out.Reset()
	return b
}
