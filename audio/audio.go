// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"io"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gabriel-vasile/mimetype"
)

type Source interface {
	// SampleRate of the PCM stream in Hz.
	SampleRate() int
	// Channels count (e.g., 1=mono, 2=stereo).
	Channels() int
	// ReadSamples fills dst with interleaved float32 samples in [-1,1].
	// Returns number of float32 values written (not frames). When n == 0 with err == io.EOF, the stream is finished.
	ReadSamples(dst []float32) (n int, err error)

	BufSize() int

	// Close releases the decoding context. It must be called on every exit path.
	Close() error
}

// Decoder constructs a Source from an input reader.
type Decoder interface {
	Decode(r io.Reader) (Source, error)
}

// Format keys used by the registry.
const (
	FormatWAV    = "wav"
	FormatMP3    = "mp3"
	FormatVorbis = "ogg"
	FormatAIFF   = "aiff"
	FormatFLAC   = "flac"
)

var mimeFormats = map[string]string{
	"audio/wav":       FormatWAV,
	"audio/wave":      FormatWAV,
	"audio/x-wav":     FormatWAV,
	"audio/vnd.wave":  FormatWAV,
	"audio/mpeg":      FormatMP3,
	"audio/mp3":       FormatMP3,
	"audio/x-mpeg":    FormatMP3,
	"audio/ogg":       FormatVorbis,
	"audio/vorbis":    FormatVorbis,
	"application/ogg": FormatVorbis,
	"audio/aiff":      FormatAIFF,
	"audio/x-aiff":    FormatAIFF,
	"audio/flac":      FormatFLAC,
	"audio/x-flac":    FormatFLAC,
}

var extFormats = map[string]string{
	"wav":  FormatWAV,
	"wave": FormatWAV,
	"mp3":  FormatMP3,
	"ogg":  FormatVorbis,
	"oga":  FormatVorbis,
	"aif":  FormatAIFF,
	"aiff": FormatAIFF,
	"flac": FormatFLAC,
}

// FormatForMIME maps a MIME type (parameters ignored) to a format key.
func FormatForMIME(mime string) (string, bool) {
	mime = strings.ToLower(strings.TrimSpace(mime))
	if i := strings.IndexByte(mime, ';'); i >= 0 {
		mime = strings.TrimSpace(mime[:i])
	}
	f, ok := mimeFormats[mime]
	return f, ok
}

// FormatForName maps a filename extension to a format key.
func FormatForName(name string) (string, bool) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
	f, ok := extFormats[ext]
	return f, ok
}

// IsAudioLike reports whether a file looks like audio by its declared MIME
// type or, failing that, by its filename extension.
func IsAudioLike(name, declaredMIME string) bool {
	if strings.HasPrefix(strings.ToLower(declaredMIME), "audio/") {
		return true
	}
	_, ok := FormatForName(name)
	return ok
}

// Registry for decoders by format key (e.g., "wav", "mp3", "ogg").
type Registry struct {
	codecs map[string]Decoder

	mtx *sync.Mutex
}

func NewRegistry() *Registry {
	return &Registry{
		codecs: make(map[string]Decoder),
		mtx:    &sync.Mutex{},
	}
}

func (r *Registry) Register(format string, d Decoder) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	r.codecs[format] = d
}

func (r *Registry) Get(format string) (Decoder, bool) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	d, ok := r.codecs[format]
	return d, ok
}

// Formats lists the registered format keys.
func (r *Registry) Formats() []string {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	out := make([]string, 0, len(r.codecs))
	for k := range r.codecs {
		out = append(out, k)
	}
	return out
}

// Resolve picks a decoder for a file. The leading bytes are sniffed first,
// then the declared MIME type, then the filename extension.
func (r *Registry) Resolve(name, declaredMIME string, head []byte) (string, Decoder, error) {
	if len(head) > 0 {
		for m := mimetype.Detect(head); m != nil; m = m.Parent() {
			if f, ok := FormatForMIME(m.String()); ok {
				if d, ok := r.Get(f); ok {
					return f, d, nil
				}
			}
		}
	}

	if f, ok := FormatForMIME(declaredMIME); ok {
		if d, ok := r.Get(f); ok {
			return f, d, nil
		}
	}

	if f, ok := FormatForName(name); ok {
		if d, ok := r.Get(f); ok {
			return f, d, nil
		}
	}

	return "", nil, ErrUnsupportedFormat
}
