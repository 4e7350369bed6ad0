// SPDX-License-Identifier: EPL-2.0

package encoder

import "fmt"

const (
	// BlockSize is the number of samples handed to the backend per call.
	BlockSize = 1152

	DefaultBitrateKbps = 64

	MIME = "audio/mp3"
)

// Blob is an encoded audio file. The caller owns Data.
type Blob struct {
	Data []byte
	MIME string
}

func (b *Blob) Size() int { return len(b.Data) }

// Config describes the stream an MP3Encoder is built for.
type Config struct {
	Channels    int
	SampleRate  int
	BitrateKbps int
}

// MonoConfig is the configuration the compression pipeline uses.
func MonoConfig(sampleRate int) Config {
	return Config{Channels: 1, SampleRate: sampleRate, BitrateKbps: DefaultBitrateKbps}
}

func (c Config) Validate() error {
	if c.Channels < 1 || c.Channels > 2 {
		return fmt.Errorf("%w: %d", ErrUnsupportedChannel, c.Channels)
	}
	if c.SampleRate <= 0 {
		return fmt.Errorf("%w: %d Hz", ErrUnsupportedRate, c.SampleRate)
	}
	return nil
}

// MP3Encoder turns 16-bit PCM into MP3 frames. Encode may buffer and return
// nothing; Flush returns whatever is still held and must be called once,
// last.
type MP3Encoder interface {
	Encode(pcm []int16) ([]byte, error)
	Flush() ([]byte, error)
}

// Factory builds a fresh encoder for one conversion.
type Factory func(Config) (MP3Encoder, error)

// Encode feeds samples to enc in BlockSize slices (the last one may be
// short), concatenates every non-empty output in order, then appends the
// flush output.
func Encode(samples []int16, enc MP3Encoder) (*Blob, error) {
	if enc == nil {
		return nil, ErrNilEncoder
	}

	var out []byte
	for start := 0; start < len(samples); start += BlockSize {
		end := min(start+BlockSize, len(samples))
		chunk, err := enc.Encode(samples[start:end])
		if err != nil {
			return nil, fmt.Errorf("encoding block at sample %d: %w", start, err)
		}
		if len(chunk) > 0 {
			out = append(out, chunk...)
		}
	}

	tail, err := enc.Flush()
	if err != nil {
		return nil, fmt.Errorf("flushing encoder: %w", err)
	}
	if len(tail) > 0 {
		out = append(out, tail...)
	}

	return &Blob{Data: out, MIME: MIME}, nil
}
