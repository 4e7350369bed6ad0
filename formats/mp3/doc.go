// SPDX-License-Identifier: EPL-2.0

// Package mp3 decodes MPEG audio through github.com/hajimehoshi/go-mp3.
//
// go-mp3 always produces interleaved 16-bit stereo, so a mono recording
// comes out as two identical channels and downmixes back to itself.
package mp3
