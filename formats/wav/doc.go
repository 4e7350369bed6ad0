// SPDX-License-Identifier: EPL-2.0

// Package wav decodes and writes RIFF WAVE files through
// github.com/go-audio/wav.
//
// The Decoder accepts integer PCM at 8, 16, 24 or 32 bits (plain or
// WAVE_FORMAT_EXTENSIBLE) with any channel count and rate. Floating point
// and compressed encodings are rejected with ErrUnsupportedEncoding.
//
//	src, err := wav.Decoder{}.Decode(f)
//	if errors.Is(err, wav.ErrNotWavFile) {
//	    // try another decoder
//	}
//
// WriteWAV16 produces mono 16-bit PCM, the layout used for rendered
// previews.
package wav
