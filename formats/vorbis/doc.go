// SPDX-License-Identifier: EPL-2.0

// Package vorbis decodes Ogg Vorbis through github.com/jfreymuth/oggvorbis.
// Browser recorders commonly produce this container, so it is the usual
// format for uploads that did not come from a phone.
package vorbis
