// SPDX-License-Identifier: EPL-2.0

// Package analysis sends interview recordings to a multimodal model and
// reads back a filled form, a summary and a speaker-labelled transcript.
//
// The model is reached through the Analyzer interface; Gemini is the
// REST implementation. Requests carry the audio inline as base64, a
// system instruction, a prompt and a JSON response schema built from the
// form keys.
package analysis
