// SPDX-License-Identifier: EPL-2.0

package audio

import "errors"

var (
	ErrInvalidDstSize    = errors.New("dst size must be multiple of channels")
	ErrUnsupportedFormat = errors.New("unsupported audio format")
	ErrNoChannels        = errors.New("buffer has no channels")
	ErrChannelMismatch   = errors.New("buffer channels differ in length")
	ErrInvalidRate       = errors.New("sample rate must be positive")
	ErrUnsupportedRate   = errors.New("unsupported target sample rate")
	ErrInvalidLength     = errors.New("rendered length must be a positive integer")
	ErrNoProgress        = errors.New("source returned no samples repeatedly")
)
