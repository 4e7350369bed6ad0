// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"io"
	"slices"
	"sync"
	"testing"

	"github.com/ik5/intake/internal/audiotest"
)

type stubDecoder struct {
	name string
}

func (d *stubDecoder) Decode(io.Reader) (Source, error) {
	return audiotest.Silence(44100, 2, 100), nil
}

func TestRegistry_RegisterAndGet(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	wav := &stubDecoder{name: "wav"}
	mp3 := &stubDecoder{name: "mp3"}
	reg.Register(FormatWAV, wav)
	reg.Register(FormatMP3, mp3)

	tests := []struct {
		format string
		want   Decoder
		wantOK bool
	}{
		{FormatWAV, wav, true},
		{FormatMP3, mp3, true},
		{FormatFLAC, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			got, ok := reg.Get(tt.format)
			if ok != tt.wantOK {
				t.Fatalf("Get(%q) ok = %v, want %v", tt.format, ok, tt.wantOK)
			}
			if tt.wantOK && got != tt.want {
				t.Errorf("Get(%q) returned the wrong decoder", tt.format)
			}
		})
	}

	formats := reg.Formats()
	slices.Sort(formats)
	if !slices.Equal(formats, []string{FormatMP3, FormatWAV}) {
		t.Errorf("Formats() = %v, want [mp3 wav]", formats)
	}
}

func TestRegistry_Overwrite(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	first, second := &stubDecoder{name: "first"}, &stubDecoder{name: "second"}
	reg.Register(FormatWAV, first)
	reg.Register(FormatWAV, second)

	if got, _ := reg.Get(FormatWAV); got != second {
		t.Error("Get() did not return the most recent registration")
	}
}

func TestRegistry_ConcurrentAccess(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	dec := &stubDecoder{}

	var wg sync.WaitGroup
	for range 16 {
		wg.Add(2)
		go func() { defer wg.Done(); reg.Register(FormatWAV, dec) }()
		go func() { defer wg.Done(); reg.Get(FormatWAV) }()
	}
	wg.Wait()

	if _, ok := reg.Get(FormatWAV); !ok {
		t.Error("decoder missing after concurrent registration")
	}
}

func TestRegistry_Resolve(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	for _, f := range []string{FormatWAV, FormatMP3, FormatVorbis, FormatAIFF, FormatFLAC} {
		reg.Register(f, &stubDecoder{name: f})
	}

	wavBytes := audiotest.WAV(8000, 1, []int16{0, 1, 2, 3})

	tests := []struct {
		name    string
		file    string
		mime    string
		head    []byte
		want    string
		wantErr error
	}{
		{name: "sniffed content wins over extension", file: "talk.mp3", mime: "audio/mpeg", head: wavBytes, want: FormatWAV},
		{name: "declared mime", file: "blob", mime: "audio/flac", want: FormatFLAC},
		{name: "declared mime with parameters", file: "blob", mime: "audio/ogg; codecs=vorbis", want: FormatVorbis},
		{name: "extension fallback", file: "Interview.AIFF", want: FormatAIFF},
		{name: "unknown bytes fall back to mime", file: "x", mime: "audio/mp3", head: []byte("garbage!"), want: FormatMP3},
		{name: "nothing matches", file: "notes.txt", mime: "text/plain", head: []byte("hello"), wantErr: ErrUnsupportedFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			format, dec, err := reg.Resolve(tt.file, tt.mime, tt.head)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Resolve() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Resolve() error = %v", err)
			}
			if format != tt.want {
				t.Errorf("Resolve() format = %q, want %q", format, tt.want)
			}
			if dec.(*stubDecoder).name != tt.want {
				t.Errorf("Resolve() decoder = %q, want %q", dec.(*stubDecoder).name, tt.want)
			}
		})
	}
}

func TestResolve_UnregisteredFormatSkipped(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	reg.Register(FormatMP3, &stubDecoder{name: FormatMP3})

	// WAV content is recognised but has no decoder, so the name decides.
	format, _, err := reg.Resolve("a.mp3", "", audiotest.WAV(8000, 1, []int16{1}))
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if format != FormatMP3 {
		t.Errorf("Resolve() format = %q, want mp3", format)
	}
}

func TestIsAudioLike(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name, mime string
		want       bool
	}{
		{"a.bin", "audio/x-m4a", true},
		{"a.wav", "", true},
		{"a.flac", "application/octet-stream", true},
		{"a.txt", "text/plain", false},
		{"", "", false},
	}

	for _, tt := range tests {
		if got := IsAudioLike(tt.name, tt.mime); got != tt.want {
			t.Errorf("IsAudioLike(%q, %q) = %v, want %v", tt.name, tt.mime, got, tt.want)
		}
	}
}

func BenchmarkRegistry_Get(b *testing.B) {
	reg := NewRegistry()
	reg.Register(FormatWAV, &stubDecoder{})

	b.ReportAllocs()
	for range b.N {
		_, _ = reg.Get(FormatWAV)
	}
}
