// SPDX-License-Identifier: EPL-2.0

package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/ik5/intake/audio"
	"github.com/ik5/intake/encoder"
	"github.com/ik5/intake/formats/aiff"
	"github.com/ik5/intake/formats/flac"
	"github.com/ik5/intake/formats/mp3"
	"github.com/ik5/intake/formats/vorbis"
	"github.com/ik5/intake/formats/wav"
	"github.com/ik5/intake/pcm"
	"github.com/rs/zerolog"
)

// sniffLen is how much of the input is handed to content detection.
const sniffLen = 3072

// Stage names a step of Run, reported through Pipeline.OnStage.
type Stage string

const (
	StageDecode   Stage = "decode"
	StageResample Stage = "resample"
	StageQuantize Stage = "quantize"
	StageEncode   Stage = "encode"
)

// Input is an uploaded file.
type Input struct {
	Name string
	MIME string
	Data []byte
}

func (in Input) Size() int64 { return int64(len(in.Data)) }

// Result of a successful Run. Duration is that of the rendered audio.
type Result struct {
	Blob           *encoder.Blob
	Duration       float64
	SampleRate     int
	SourceFormat   string
	SourceRate     int
	SourceChannels int
}

// DefaultRegistry returns a registry with every bundled decoder.
func DefaultRegistry() *audio.Registry {
	reg := audio.NewRegistry()
	reg.Register(audio.FormatWAV, wav.Decoder{})
	reg.Register(audio.FormatMP3, mp3.Decoder{})
	reg.Register(audio.FormatVorbis, vorbis.Decoder{})
	reg.Register(audio.FormatAIFF, aiff.Decoder{})
	reg.Register(audio.FormatFLAC, flac.Decoder{})
	return reg
}

// Pipeline converts audio files to mono MP3. It holds no per-run state; a
// Source and an encoder are created for every Run, so one Pipeline may
// serve concurrent callers.
type Pipeline struct {
	Registry   *audio.Registry
	NewEncoder encoder.Factory
	Logger     zerolog.Logger

	// OnStage, if set, is called as each stage starts.
	OnStage func(Stage)
}

// New returns a Pipeline with the bundled decoders and the shine encoder.
func New(logger zerolog.Logger) *Pipeline {
	return &Pipeline{
		Registry:   DefaultRegistry(),
		NewEncoder: encoder.NewShine,
		Logger:     logger,
	}
}

func (p *Pipeline) stage(s Stage) {
	if p.OnStage != nil {
		p.OnStage(s)
	}
}

// Run decodes in, renders it to mono at targetRate, quantizes and encodes
// it. The context is only consulted before work starts.
func (p *Pipeline) Run(ctx context.Context, in Input, targetRate int) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(in.Data) == 0 {
		return nil, ErrEmptyInput
	}
	if !audio.IsAudioLike(in.Name, in.MIME) {
		return nil, fmt.Errorf("%w: %q (%s)", ErrNotAudio, in.Name, in.MIME)
	}
	if !audio.IsSupportedRate(targetRate) {
		return nil, &ResampleError{Rate: targetRate, Err: audio.ErrUnsupportedRate}
	}

	log := p.Logger.With().Str("file", in.Name).Int("target_rate", targetRate).Logger()

	p.stage(StageDecode)
	decoded, format, err := p.decode(in)
	if err != nil {
		return nil, err
	}
	log.Debug().
		Str("format", format).
		Int("rate", decoded.SampleRate).
		Int("channels", decoded.NumChannels()).
		Float64("duration", decoded.Duration()).
		Msg("decoded")
	if decoded.NumChannels() > 2 {
		log.Warn().Int("channels", decoded.NumChannels()).Msg("only the first two channels are kept in the downmix")
	}

	p.stage(StageResample)
	mono, err := audio.Render(decoded, targetRate)
	if err != nil {
		return nil, &ResampleError{Rate: targetRate, Err: err}
	}

	p.stage(StageQuantize)
	samples := pcm.QuantizeAll(mono.Channels[0])

	p.stage(StageEncode)
	newEncoder := p.NewEncoder
	if newEncoder == nil {
		return nil, &EncoderUnavailableError{Err: encoder.ErrNilEncoder}
	}
	enc, err := newEncoder(encoder.MonoConfig(targetRate))
	if err != nil {
		return nil, &EncoderUnavailableError{Err: err}
	}
	if enc == nil {
		return nil, &EncoderUnavailableError{Err: encoder.ErrNilEncoder}
	}
	blob, err := encoder.Encode(samples, enc)
	if err != nil {
		return nil, &EncodeError{Err: err}
	}

	log.Debug().Int("bytes", blob.Size()).Float64("duration", mono.Duration()).Msg("encoded")

	return &Result{
		Blob:           blob,
		Duration:       mono.Duration(),
		SampleRate:     targetRate,
		SourceFormat:   format,
		SourceRate:     decoded.SampleRate,
		SourceChannels: decoded.NumChannels(),
	}, nil
}

// decode resolves a decoder and drains it. The Source is closed on every
// path.
func (p *Pipeline) decode(in Input) (*audio.Buffer, string, error) {
	reg := p.Registry
	if reg == nil {
		reg = DefaultRegistry()
	}

	format, dec, err := reg.Resolve(in.Name, in.MIME, in.Data[:min(len(in.Data), sniffLen)])
	if err != nil {
		return nil, "", &DecodeError{Err: err}
	}

	src, err := dec.Decode(bytes.NewReader(in.Data))
	if err != nil {
		return nil, format, &DecodeError{Format: format, Err: err}
	}
	if src == nil {
		return nil, format, &DecodeError{Format: format, Err: errors.New("decoder returned no source")}
	}
	defer src.Close()

	buf, err := audio.ReadAll(src)
	if err != nil {
		return nil, format, &DecodeError{Format: format, Err: err}
	}
	if err := buf.Validate(); err != nil {
		return nil, format, &DecodeError{Format: format, Err: err}
	}

	return buf, format, nil
}
