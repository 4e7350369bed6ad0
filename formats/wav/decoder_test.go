// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/ik5/intake/audio"
	"github.com/ik5/intake/internal/audiotest"
	"github.com/spf13/afero"
)

func readAll(t *testing.T, src audio.Source) []float32 {
	t.Helper()

	var out []float32
	buf := make([]float32, 256)
	for {
		n, err := src.ReadSamples(buf)
		out = append(out, buf[:n]...)
		if err == io.EOF {
			return out
		}
		if err != nil {
			t.Fatalf("ReadSamples() error = %v", err)
		}
	}
}

func TestDecoder_Metadata(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		rate     int
		channels int
	}{
		{name: "mono 8k", rate: 8000, channels: 1},
		{name: "stereo cd", rate: 44100, channels: 2},
		{name: "stereo 48k", rate: 48000, channels: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			data := audiotest.SineWAV(tt.rate, tt.channels, 0.1, 440, 0.5)
			src, err := Decoder{}.Decode(bytes.NewReader(data))
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			defer src.Close()

			if src.SampleRate() != tt.rate {
				t.Errorf("SampleRate() = %d, want %d", src.SampleRate(), tt.rate)
			}
			if src.Channels() != tt.channels {
				t.Errorf("Channels() = %d, want %d", src.Channels(), tt.channels)
			}
			if got, want := len(readAll(t, src)), int(0.1*float64(tt.rate))*tt.channels; got != want {
				t.Errorf("decoded %d samples, want %d", got, want)
			}
		})
	}
}

func TestDecoder_SampleValues(t *testing.T) {
	t.Parallel()

	data := audiotest.WAV(8000, 2, []int16{0, 16384, -32768, 32767})
	src, err := Decoder{}.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	got := readAll(t, src)
	want := []float32{0, 0.5, -1, 32767.0 / 32768.0}
	if len(got) != len(want) {
		t.Fatalf("decoded %d samples, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("sample %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestDecoder_NonSeekableInput(t *testing.T) {
	t.Parallel()

	data := audiotest.WAV(16000, 1, []int16{1, 2, 3})
	src, err := Decoder{}.Decode(io.MultiReader(bytes.NewReader(data)))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if n := len(readAll(t, src)); n != 3 {
		t.Errorf("decoded %d samples, want 3", n)
	}
}

func TestDecoder_Rejects(t *testing.T) {
	t.Parallel()

	float := audiotest.WAV(8000, 1, []int16{0, 0})
	float[20] = 3 // WAVE_FORMAT_IEEE_FLOAT

	tests := []struct {
		name string
		data []byte
		want error
	}{
		{name: "garbage", data: []byte("NOT A WAV FILE DATA AT ALL, NOT EVEN CLOSE"), want: ErrNotWavFile},
		{name: "empty", data: nil, want: ErrNotWavFile},
		{name: "float encoding", data: float, want: ErrUnsupportedEncoding},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if _, err := (Decoder{}).Decode(bytes.NewReader(tt.data)); !errors.Is(err, tt.want) {
				t.Errorf("Decode() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestWriteWAV16_RoundTrip(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	f, err := fs.Create("/preview.wav")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	samples := []int16{0, 100, -100, 32767, -32768}
	if err := WriteWAV16(f, 16000, samples); err != nil {
		t.Fatalf("WriteWAV16() error = %v", err)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		t.Fatalf("Seek() error = %v", err)
	}

	src, err := Decoder{}.Decode(f)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if src.SampleRate() != 16000 || src.Channels() != 1 {
		t.Fatalf("decoded %d Hz %d ch, want 16000 Hz mono", src.SampleRate(), src.Channels())
	}

	got := readAll(t, src)
	if len(got) != len(samples) {
		t.Fatalf("decoded %d samples, want %d", len(got), len(samples))
	}
	for i, s := range samples {
		if want := float32(s) / 32768; got[i] != want {
			t.Errorf("sample %d = %v, want %v", i, got[i], want)
		}
	}
}

func TestWriteWAV16_InvalidRate(t *testing.T) {
	t.Parallel()

	f, _ := afero.NewMemMapFs().Create("/x.wav")
	if err := WriteWAV16(f, 0, nil); !errors.Is(err, ErrInvalidSampleRate) {
		t.Errorf("WriteWAV16() error = %v, want %v", err, ErrInvalidSampleRate)
	}
}
