// SPDX-License-Identifier: EPL-2.0

// Package pcm holds the sample-level arithmetic shared by the pipeline:
// float to 16-bit quantization and cubic interpolation.
//
// Quantize follows the common full-scale convention for signed 16-bit PCM:
//
//	clamped   = max(-1, min(1, s))
//	quantized = clamped < 0 ? clamped*32768 : clamped*32767
//
// so Quantize(-1) == -32768 and Quantize(1) == 32767. MP3 encoders expect
// this mapping; it must not be made symmetric.
package pcm
