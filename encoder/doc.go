// SPDX-License-Identifier: EPL-2.0

// Package encoder frames 16-bit PCM into an MP3 file.
//
// Encode owns the blocking and ordering rules; the codec itself sits behind
// the MP3Encoder interface so callers can inject a different backend, and
// tests a recording fake. A new encoder is built for every conversion from a
// Factory, never shared.
//
//	blob, err := encoder.Encode(samples, enc)
//
// NewShine is the default Factory, backed by github.com/braheezy/shine-mp3.
package encoder
