// SPDX-License-Identifier: EPL-2.0

package encoder

import "errors"

var (
	ErrNilEncoder         = errors.New("no mp3 encoder supplied")
	ErrUnsupportedRate    = errors.New("sample rate not supported by the mp3 encoder")
	ErrUnsupportedChannel = errors.New("mp3 encoder supports one or two channels")
	ErrUnsupportedBitrate = errors.New("bitrate not supported by the mp3 encoder")
	ErrFlushed            = errors.New("encoder already flushed")
)
