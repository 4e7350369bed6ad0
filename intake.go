// SPDX-License-Identifier: EPL-2.0

package intake

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/ik5/intake/analysis"
	"github.com/ik5/intake/pipeline"
	"github.com/ik5/intake/policy"
	"github.com/ik5/intake/usage"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

// ErrNotAudioMIME is returned by Compress when the declared type is not
// audio/*.
var ErrNotAudioMIME = errors.New("please choose an audio file")

// File is an uploaded recording.
type File = pipeline.Input

// LoadFile reads path from fs. The MIME type is taken from the content when
// it is recognised as audio, and from the extension otherwise.
func LoadFile(fs afero.Fs, path string) (File, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return File{}, fmt.Errorf("reading %s: %w", path, err)
	}
	return File{Name: filepath.Base(path), MIME: detectMIME(path, data), Data: data}, nil
}

func detectMIME(path string, data []byte) string {
	detected := mimetype.Detect(data).String()
	if strings.HasPrefix(detected, "audio/") {
		return detected
	}
	if declared := mime.TypeByExtension(filepath.Ext(path)); declared != "" {
		if mt, _, err := mime.ParseMediaType(declared); err == nil {
			return mt
		}
	}
	if mt, _, err := mime.ParseMediaType(detected); err == nil {
		return mt
	}
	return detected
}

// UsageRecorder stores token usage; *usage.Store satisfies it.
type UsageRecorder interface {
	Add(ctx context.Context, r usage.Record) error
}

// Outcome is the result of a full intake run.
type Outcome struct {
	Compression *policy.Outcome
	Analysis    *analysis.Result
	Usage       usage.Record
}

// Orchestrator drives one recording through compression, the upload limit
// check, remote analysis and usage bookkeeping.
type Orchestrator struct {
	Policy   *policy.Policy
	Analyzer analysis.Analyzer
	Usage    UsageRecorder
	Logger   zerolog.Logger

	// OnProgress, if set, receives a message at every stage.
	OnProgress func(Progress)

	Now func() time.Time
}

// New returns an orchestrator using the interview-analysis policy over p.
func New(p *pipeline.Pipeline, analyzer analysis.Analyzer, recorder UsageRecorder, logger zerolog.Logger) *Orchestrator {
	return &Orchestrator{
		Policy:   policy.New(p, logger),
		Analyzer: analyzer,
		Usage:    recorder,
		Logger:   logger,
		Now:      time.Now,
	}
}

func (o *Orchestrator) progress(stage Stage, msg string) {
	o.Logger.Debug().Str("stage", string(stage)).Msg(msg)
	if o.OnProgress != nil {
		o.OnProgress(Progress{Stage: stage, Message: msg})
	}
}

func (o *Orchestrator) now() time.Time {
	if o.Now == nil {
		return time.Now()
	}
	return o.Now()
}

// Process analyses file. Compression failures never stop it; an
// over-limit payload, an analysis failure or a done context do.
func (o *Orchestrator) Process(ctx context.Context, file File) (*Outcome, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if o.Policy == nil {
		return nil, errors.New("no compression policy configured")
	}
	if o.Analyzer == nil {
		return nil, errors.New("no analyzer configured")
	}

	o.progress(StagePreparing, preparingMessage)

	if o.Policy.ShouldCompress(file.Size()) {
		o.progress(StageCompressing, compressingMessage(file.Size()))
	}
	comp, err := o.Policy.Apply(ctx, file)
	if err != nil {
		return nil, err
	}
	switch {
	case comp.Compressed:
		o.progress(StageCompressed, compressedMessage(comp))
	case comp.FallbackErr != nil:
		o.progress(StageFallback, fallbackMessage)
	}

	payload := comp.File
	if err := o.Policy.CheckLimit(payload); err != nil {
		o.Logger.Error().Err(err).Str("file", payload.Name).Msg("payload over upload limit")
		return nil, err
	}

	o.progress(StageAnalyzing, analyzingMessage)
	res, err := o.Analyzer.Analyze(ctx, analysis.Payload{Name: payload.Name, MIME: payload.MIME, Data: payload.Data})
	if err != nil {
		return nil, fmt.Errorf("analyzing %s: %w", payload.Name, err)
	}

	rec := usage.NewRecord(file.Name, res.Usage.InputTokens, res.Usage.OutputTokens, res.Usage.TotalTokens, o.now())
	if o.Usage != nil {
		// bookkeeping must not cost the user their analysis
		if err := o.Usage.Add(ctx, rec); err != nil {
			o.Logger.Warn().Err(err).Msg("recording token usage failed")
		}
	}

	o.Logger.Info().
		Str("file", file.Name).
		Bool("compressed", comp.Compressed).
		Int("input_tokens", rec.InputTokens).
		Int("output_tokens", rec.OutputTokens).
		Float64("cost_ntd", rec.CostNTD).
		Msg("analysis complete")
	o.progress(StageDone, doneMessage)

	return &Outcome{Compression: comp, Analysis: res, Usage: rec}, nil
}

// Compress is the standalone compressor: file must be declared as audio,
// is always converted at rate, and any failure is returned.
func Compress(ctx context.Context, runner policy.Runner, file File, rate int, logger zerolog.Logger) (*policy.Outcome, error) {
	if !strings.HasPrefix(file.MIME, "audio/") {
		return nil, fmt.Errorf("%w: %s is %q", ErrNotAudioMIME, file.Name, file.MIME)
	}
	return policy.Standalone(runner, rate, logger).Apply(ctx, file)
}
