// SPDX-License-Identifier: EPL-2.0

package pipeline

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyInput = errors.New("input file is empty")
	ErrNotAudio   = errors.New("input is not an audio file")
)

// DecodeError means the input could not be turned into PCM.
type DecodeError struct {
	Format string // empty when no decoder matched
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Format == "" {
		return fmt.Sprintf("decode: %v", e.Err)
	}
	return fmt.Sprintf("decode %s: %v", e.Format, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// ResampleError means rendering to the target rate failed, including a
// target rate outside audio.SupportedRates.
type ResampleError struct {
	Rate int
	Err  error
}

func (e *ResampleError) Error() string {
	return fmt.Sprintf("resample to %d Hz: %v", e.Rate, e.Err)
}

func (e *ResampleError) Unwrap() error { return e.Err }

// EncoderUnavailableError means no MP3 encoder could be constructed.
type EncoderUnavailableError struct {
	Err error
}

func (e *EncoderUnavailableError) Error() string {
	return fmt.Sprintf("mp3 encoder unavailable: %v", e.Err)
}

func (e *EncoderUnavailableError) Unwrap() error { return e.Err }

// EncodeError means a constructed encoder failed mid-stream.
type EncodeError struct {
	Err error
}

func (e *EncodeError) Error() string { return fmt.Sprintf("encode: %v", e.Err) }

func (e *EncodeError) Unwrap() error { return e.Err }
