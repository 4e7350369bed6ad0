// SPDX-License-Identifier: EPL-2.0

// Package audio holds the sample-level building blocks of the intake
// pipeline.
//
// # Sources
//
// Every decoder yields a Source: an interleaved float32 stream in [-1, 1]
// with a fixed rate and channel count. A Source owns its decoding context
// and must be closed on every exit path.
//
//	type Source interface {
//	    SampleRate() int
//	    Channels() int
//	    ReadSamples(dst []float32) (int, error)
//	    BufSize() int
//	    Close() error
//	}
//
// ReadAll drains a Source into a Buffer, one slice per channel.
//
// # Rendering
//
// Render folds a Buffer to mono and converts it to a target rate with a
// band-limited resampler. The output length is always
//
//	ceil(frames * targetRate / sourceRate)
//
// computed in integers by OutputLength. Only the first two channels take
// part in the downmix; further channels are ignored.
//
//	buf, _ := audio.ReadAll(src)
//	mono, err := audio.Render(buf, 16000)
//
// # Streaming
//
// Resampler and MonoMixer wrap a Source instead of a Buffer. The Resampler
// uses Catmull-Rom interpolation behind a one-pole low-pass, which is cheap
// but not band-limited; it serves previews, not compression.
//
// # Format registry
//
// A Registry maps format keys (FormatWAV, FormatMP3, ...) to Decoders.
// Resolve picks one for an upload by sniffing its leading bytes, then by
// the declared MIME type, then by the file extension.
package audio
