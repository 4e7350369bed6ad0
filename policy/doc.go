// SPDX-License-Identifier: EPL-2.0

// Package policy wraps the compression pipeline with the rules for when to
// use it.
//
// Compression is an optimisation: files at or below Threshold (5 MiB) are
// sent as they are, and when the pipeline fails for a larger file the
// original is used instead. Each such fallback is logged as a warning with
// event=compression_fallback and counted in Stats so it can be monitored.
//
// The one hard stop is the upload limit. CheckLimit reports a payload over
// Limit (20 MiB) as *SizeLimitExceeded.
package policy
