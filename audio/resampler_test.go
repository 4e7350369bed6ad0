// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"io"
	"math"
	"testing"

	"github.com/ik5/intake/internal/audiotest"
)

func TestResampler_Metadata(t *testing.T) {
	t.Parallel()

	r := NewResampler(audiotest.Silence(44100, 2, 1000), 16000)

	if r.SampleRate() != 16000 {
		t.Errorf("SampleRate() = %d, want 16000", r.SampleRate())
	}
	if r.Channels() != 2 {
		t.Errorf("Channels() = %d, want 2", r.Channels())
	}
}

func TestResampler_ConstantSignal(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		src, dst int
		channels int
	}{
		{name: "same rate", src: 16000, dst: 16000, channels: 1},
		{name: "downsample", src: 44100, dst: 16000, channels: 1},
		{name: "downsample stereo", src: 48000, dst: 24000, channels: 2},
		{name: "upsample", src: 8000, dst: 24000, channels: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := drain(t, NewResampler(audiotest.Constant(tt.src, tt.channels, 2000, 0.5), tt.dst), 256*tt.channels)
			if len(got) == 0 {
				t.Fatal("no samples produced")
			}
			for i, v := range got {
				if math.Abs(float64(v-0.5)) > 1e-3 {
					t.Fatalf("sample %d = %v, want 0.5", i, v)
				}
			}
		})
	}
}

func TestResampler_OutputCount(t *testing.T) {
	t.Parallel()

	tests := []struct {
		src, dst, frames, want int
	}{
		{44100, 16000, 44100, 16000},
		{48000, 24000, 48000, 24000},
		{16000, 16000, 1600, 1599},
	}

	for _, tt := range tests {
		got := drain(t, NewResampler(audiotest.Sine(tt.src, 1, tt.frames, 440), tt.dst), 1024)
		if diff := len(got) - tt.want; diff < -1 || diff > 1 {
			t.Errorf("%d->%d: got %d samples, want about %d", tt.src, tt.dst, len(got), tt.want)
		}
	}
}

func TestResampler_FirstSampleIsFirstFrame(t *testing.T) {
	t.Parallel()

	src := audiotest.NewSource(16000, 1, 100, func(i, _ int) float32 { return float32(i) / 100 })
	buf := make([]float32, 4)
	if _, err := NewResampler(src, 16000).ReadSamples(buf); err != nil {
		t.Fatalf("ReadSamples() error = %v", err)
	}
	if buf[0] != 0 || math.Abs(float64(buf[1]-0.01)) > 1e-6 {
		t.Errorf("first samples = %v, want [0 0.01 ...]", buf[:2])
	}
}

func TestResampler_InvalidDstSize(t *testing.T) {
	t.Parallel()

	r := NewResampler(audiotest.Silence(44100, 2, 100), 16000)
	if _, err := r.ReadSamples(make([]float32, 3)); !errors.Is(err, ErrInvalidDstSize) {
		t.Errorf("ReadSamples() error = %v, want %v", err, ErrInvalidDstSize)
	}
}

func TestResampler_EOFIsSticky(t *testing.T) {
	t.Parallel()

	r := NewResampler(audiotest.Silence(16000, 1, 10), 16000)
	_ = drain(t, r, 64)

	for range 3 {
		if n, err := r.ReadSamples(make([]float32, 8)); n != 0 || err != io.EOF {
			t.Fatalf("ReadSamples() after EOF = (%d, %v), want (0, EOF)", n, err)
		}
	}
}

func TestResampler_EmptySource(t *testing.T) {
	t.Parallel()

	n, err := NewResampler(audiotest.Silence(16000, 1, 0), 8000).ReadSamples(make([]float32, 8))
	if n != 0 || err != io.EOF {
		t.Errorf("ReadSamples() = (%d, %v), want (0, EOF)", n, err)
	}
}

func TestResampler_PropagatesErrors(t *testing.T) {
	t.Parallel()

	errRead := errors.New("device unplugged")
	src := audiotest.Silence(44100, 1, 10000)
	src.FailAfter, src.Err = 50, errRead

	r := NewResampler(src, 16000)
	buf := make([]float32, 1024)
	var err error
	for range 10 {
		if _, err = r.ReadSamples(buf); err != nil {
			break
		}
	}
	if !errors.Is(err, errRead) {
		t.Errorf("ReadSamples() error = %v, want %v", err, errRead)
	}
}

func TestResampler_Close(t *testing.T) {
	t.Parallel()

	src := audiotest.Silence(44100, 1, 10)
	if err := NewResampler(src, 16000).Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if src.Closed() != 1 {
		t.Errorf("source closed %d times, want 1", src.Closed())
	}
}

func BenchmarkResampler_44kTo16k(b *testing.B) {
	buf := make([]float32, 4096)
	b.ReportAllocs()

	for range b.N {
		r := NewResampler(audiotest.Sine(44100, 2, 44100, 440), 16000)
		for {
			if _, err := r.ReadSamples(buf); err != nil {
				break
			}
		}
	}
}
