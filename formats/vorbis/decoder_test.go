// SPDX-License-Identifier: EPL-2.0

package vorbis

import (
	"bytes"
	"errors"
	"io"
	"testing"
)

type fakeOgg struct {
	rate, channels int
	data           []float32
	err            error
}

func (f *fakeOgg) SampleRate() int { return f.rate }
func (f *fakeOgg) Channels() int   { return f.channels }

func (f *fakeOgg) Read(p []float32) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	if len(f.data) == 0 {
		return 0, io.EOF
	}
	n := copy(p, f.data)
	f.data = f.data[n:]
	return n, nil
}

func TestDecoder_RejectsGarbage(t *testing.T) {
	t.Parallel()

	for _, data := range [][]byte{nil, []byte("OggS but not really a vorbis stream")} {
		if _, err := (Decoder{}).Decode(bytes.NewReader(data)); !errors.Is(err, ErrNotVorbisFile) {
			t.Errorf("Decode(%q) error = %v, want %v", data, err, ErrNotVorbisFile)
		}
	}
}

func TestSource_Metadata(t *testing.T) {
	t.Parallel()

	s := &source{dec: &fakeOgg{rate: 48000, channels: 2}}
	if s.SampleRate() != 48000 || s.Channels() != 2 {
		t.Errorf("metadata = %d Hz %d ch, want 48000 Hz 2 ch", s.SampleRate(), s.Channels())
	}
}

func TestSource_ReadSamples(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		channels int
		dstLen   int
		want     int
	}{
		{name: "mono", channels: 1, dstLen: 5, want: 5},
		{name: "stereo whole frames", channels: 2, dstLen: 6, want: 6},
		{name: "stereo trims partial frame", channels: 2, dstLen: 5, want: 4},
		{name: "six channels", channels: 6, dstLen: 13, want: 12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			data := make([]float32, 64)
			for i := range data {
				data[i] = float32(i) / 64
			}
			s := &source{dec: &fakeOgg{rate: 44100, channels: tt.channels, data: data}}

			dst := make([]float32, tt.dstLen)
			n, err := s.ReadSamples(dst)
			if err != nil {
				t.Fatalf("ReadSamples() error = %v", err)
			}
			if n != tt.want {
				t.Fatalf("ReadSamples() n = %d, want %d", n, tt.want)
			}
			for i := range n {
				if dst[i] != data[i] {
					t.Errorf("dst[%d] = %v, want %v", i, dst[i], data[i])
				}
			}
		})
	}
}

func TestSource_EOFIsSticky(t *testing.T) {
	t.Parallel()

	s := &source{dec: &fakeOgg{rate: 44100, channels: 1, data: []float32{0.1}}}
	buf := make([]float32, 4)

	if n, err := s.ReadSamples(buf); n != 1 || err != nil {
		t.Fatalf("first read = (%d, %v), want (1, nil)", n, err)
	}
	for range 2 {
		if n, err := s.ReadSamples(buf); n != 0 || err != io.EOF {
			t.Fatalf("read after end = (%d, %v), want (0, EOF)", n, err)
		}
	}
}

func TestSource_WrapsErrors(t *testing.T) {
	t.Parallel()

	errCorrupt := errors.New("corrupt packet")
	s := &source{dec: &fakeOgg{rate: 44100, channels: 1, err: errCorrupt}}
	if _, err := s.ReadSamples(make([]float32, 4)); !errors.Is(err, errCorrupt) {
		t.Errorf("ReadSamples() error = %v, want %v", err, errCorrupt)
	}
}
