// SPDX-License-Identifier: EPL-2.0

// Package report exports an analysed interview as a Markdown document:
// title, header fields, preliminary notes, summary, the 23 questions with
// their answers, photos and the transcript.
package report
