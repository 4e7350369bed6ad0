// SPDX-License-Identifier: EPL-2.0

// Package aiff decodes Audio Interchange File Format recordings, the
// default export of macOS voice tools, through github.com/go-audio/aiff.
//
// Integer PCM at 8, 16, 24 and 32 bits is supported. AIFF-C compressed
// variants are not.
package aiff
