// SPDX-License-Identifier: EPL-2.0

// Package pipeline turns an uploaded recording into a small mono MP3.
//
// Run performs, in order:
//
//  1. decode: the format is resolved from content, declared MIME type and
//     name, and the whole file is decoded into an audio.Buffer
//  2. resample: audio.Render folds to mono and converts to 16 or 24 kHz
//  3. quantize: pcm.QuantizeAll maps floats to 16-bit PCM
//  4. encode: encoder.Encode frames the PCM through a freshly built
//     MP3Encoder
//
// Each failure comes back as a typed error (*DecodeError, *ResampleError,
// *EncoderUnavailableError, *EncodeError) so callers can tell the stages
// apart with errors.As. Run has no fallback of its own; see package policy.
package pipeline
