// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"fmt"
	"io"

	gowav "github.com/go-audio/wav"
	"github.com/ik5/intake/audio"
	"github.com/ik5/intake/formats/internal/intpcm"
)

const (
	formatPCM        = 1
	formatExtensible = 0xFFFE
)

type Decoder struct{}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	rs, err := intpcm.Seekable(r)
	if err != nil {
		return nil, fmt.Errorf("reading wav data: %w", err)
	}

	dec := gowav.NewDecoder(rs)
	dec.ReadInfo()

	// a parsed header with a foreign format tag is a WAV we cannot read,
	// not a non-WAV
	if tag := dec.WavAudioFormat; tag != 0 && tag != formatPCM && tag != formatExtensible {
		return nil, fmt.Errorf("%w: format tag %d", ErrUnsupportedEncoding, tag)
	}
	if !dec.IsValidFile() {
		return nil, ErrNotWavFile
	}

	bits := int(dec.BitDepth)
	if !intpcm.SupportedBitDepth(bits) {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedBitDepth, bits)
	}
	if dec.SampleRate == 0 {
		return nil, ErrInvalidSampleRate
	}
	if err := dec.FwdToPCM(); err != nil {
		return nil, fmt.Errorf("locating wav data chunk: %w", err)
	}

	return intpcm.New(dec, int(dec.SampleRate), int(dec.NumChans), bits, true), nil
}
