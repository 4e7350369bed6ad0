// SPDX-License-Identifier: EPL-2.0

// Package flac decodes Free Lossless Audio Codec streams through
// github.com/mewkiz/flac. Lossless uploads are the ones most likely to
// exceed the compression threshold.
package flac
