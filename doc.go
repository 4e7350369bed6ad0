// SPDX-License-Identifier: EPL-2.0

// Package intake turns BNI membership interview recordings into filled
// interview forms.
//
// A recording larger than 5 MiB is first compressed to 16 kHz mono MP3 by
// the pipeline package; when that fails the original file is used. The
// payload is then checked against the 20 MiB upload limit, sent to an
// analysis.Analyzer, and the token usage of the call is recorded.
//
//	p := pipeline.New(logger)
//	o := intake.New(p, analysis.NewGemini(key, logger), store, logger)
//	o.OnProgress = func(pr intake.Progress) { fmt.Println(pr.Message) }
//	out, err := o.Process(ctx, file)
//
// Compress is the standalone compressor: it always converts, at 16 or
// 24 kHz, and reports failures instead of falling back.
//
// # Packages
//
//   - audio: PCM sources, decoder registry, downmix and band-limited rendering
//   - formats/...: WAV, MP3, Ogg Vorbis, AIFF and FLAC decoders
//   - pcm: 16-bit quantization and cubic interpolation
//   - encoder: block-wise MP3 encoding behind an injectable interface
//   - pipeline: decode, render, quantize and encode in one call
//   - policy: size gate, fallback, output naming and upload limit
//   - analysis, form, report, usage: the interview side of the tool
package intake
