// SPDX-License-Identifier: EPL-2.0

package policy

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ik5/intake/pipeline"
	"github.com/rs/zerolog"
)

const (
	MiB = 1 << 20

	DefaultThreshold = 5 * MiB
	DefaultLimit     = 20 * MiB
	DefaultRate      = 16000
	DefaultSuffix    = "_compressed"

	// FallbackEvent tags the warning logged when compression is abandoned.
	FallbackEvent = "compression_fallback"
)

// Runner is the part of *pipeline.Pipeline a Policy needs.
type Runner interface {
	Run(ctx context.Context, in pipeline.Input, targetRate int) (*pipeline.Result, error)
}

// Policy decides whether a file is compressed and what happens when
// compression fails.
type Policy struct {
	Threshold  int64
	Limit      int64
	TargetRate int
	Suffix     string

	// Always compresses regardless of size.
	Always bool
	// Strict returns pipeline errors instead of falling back.
	Strict bool

	Runner Runner
	Logger zerolog.Logger
	// Stats counts outcomes across Apply calls. Nil disables counting.
	Stats *Stats
}

// New is the interview-analysis policy: compress above 5 MiB at 16 kHz and
// fall back to the original file on any failure.
func New(runner Runner, logger zerolog.Logger) *Policy {
	return &Policy{
		Threshold:  DefaultThreshold,
		Limit:      DefaultLimit,
		TargetRate: DefaultRate,
		Suffix:     DefaultSuffix,
		Runner:     runner,
		Logger:     logger,
		Stats:      &Stats{},
	}
}

// Standalone is the compressor policy: every file is converted at the
// chosen rate, named after it, and failures are reported.
func Standalone(runner Runner, rate int, logger zerolog.Logger) *Policy {
	p := New(runner, logger)
	p.TargetRate = rate
	p.Suffix = RateSuffix(rate)
	p.Always = true
	p.Strict = true
	return p
}

// RateSuffix names an output after its rate, e.g. "_16kHz".
func RateSuffix(rate int) string {
	return fmt.Sprintf("_%dkHz", rate/1000)
}

// Decision is computed once per file.
type Decision struct {
	Compress   bool
	TargetRate int
}

func (p *Policy) ShouldCompress(size int64) bool {
	return p.Always || size > p.Threshold
}

func (p *Policy) Decide(size int64) Decision {
	return Decision{Compress: p.ShouldCompress(size), TargetRate: p.TargetRate}
}

// Outcome describes the payload to use after Apply.
type Outcome struct {
	File         pipeline.Input
	Compressed   bool
	FallbackErr  error
	OriginalSize int64
	Duration     float64
}

// Ratio is the compressed size over the original size, 1 when the file was
// not compressed.
func (o *Outcome) Ratio() float64 {
	if !o.Compressed || o.OriginalSize == 0 {
		return 1
	}
	return float64(o.File.Size()) / float64(o.OriginalSize)
}

// Apply compresses file when the policy calls for it. Outside Strict mode
// the only error is a context that is already done; every pipeline failure
// is logged and the original file is returned in the Outcome.
func (p *Policy) Apply(ctx context.Context, file pipeline.Input) (*Outcome, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	stats := p.stats()
	out := &Outcome{File: file, OriginalSize: file.Size()}

	d := p.Decide(file.Size())
	if !d.Compress {
		stats.skipped.Add(1)
		p.Logger.Debug().
			Str("file", file.Name).
			Int64("size", file.Size()).
			Int64("threshold", p.Threshold).
			Msg("below compression threshold")
		return out, nil
	}

	stats.attempted.Add(1)
	res, err := p.run(ctx, file, d.TargetRate)
	if err != nil {
		if p.Strict {
			return nil, err
		}
		stats.fallbacks.Add(1)
		p.Logger.Warn().
			Str("event", FallbackEvent).
			Str("stage", StageOf(err)).
			Str("file", file.Name).
			Int64("size", file.Size()).
			Err(err).
			Msg("compression failed, using original file")
		out.FallbackErr = err
		return out, nil
	}

	stats.compressed.Add(1)
	out.Compressed = true
	out.Duration = res.Duration
	out.File = pipeline.Input{
		Name: OutputName(file.Name, p.Suffix),
		MIME: res.Blob.MIME,
		Data: res.Blob.Data,
	}
	p.Logger.Info().
		Str("file", file.Name).
		Int64("original", out.OriginalSize).
		Int64("compressed", out.File.Size()).
		Float64("ratio", out.Ratio()).
		Msg("compressed")

	return out, nil
}

// run calls the pipeline and turns a panic in a backend into an error, so
// nothing escapes the fallback.
func (p *Policy) run(ctx context.Context, file pipeline.Input, rate int) (res *pipeline.Result, err error) {
	if p.Runner == nil {
		return nil, &pipeline.EncoderUnavailableError{Err: errors.New("no pipeline configured")}
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pipeline panic: %v", r)
		}
	}()
	return p.Runner.Run(ctx, file, rate)
}

// stats never writes to p, so a Policy can be shared across goroutines.
func (p *Policy) stats() *Stats {
	if p.Stats == nil {
		return &Stats{}
	}
	return p.Stats
}

// CheckLimit fails with *SizeLimitExceeded when the payload is over Limit.
func (p *Policy) CheckLimit(file pipeline.Input) error {
	if p.Limit > 0 && file.Size() > p.Limit {
		return &SizeLimitExceeded{Name: file.Name, Size: file.Size(), Limit: p.Limit}
	}
	return nil
}

// OutputName drops the last extension of name and appends suffix and
// ".mp3".
func OutputName(name, suffix string) string {
	base := filepath.Base(name)
	if base == "." || base == string(filepath.Separator) {
		base = ""
	}
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	if stem == "" {
		stem = "audio"
	}
	return stem + suffix + ".mp3"
}

// StageOf names the pipeline stage an error came from, for logs.
func StageOf(err error) string {
	var (
		derr *pipeline.DecodeError
		rerr *pipeline.ResampleError
		uerr *pipeline.EncoderUnavailableError
		eerr *pipeline.EncodeError
	)
	switch {
	case errors.As(err, &derr):
		return "decode"
	case errors.As(err, &rerr):
		return "resample"
	case errors.As(err, &uerr):
		return "encoder_unavailable"
	case errors.As(err, &eerr):
		return "encode"
	case errors.Is(err, pipeline.ErrEmptyInput), errors.Is(err, pipeline.ErrNotAudio):
		return "input"
	default:
		return "unknown"
	}
}
