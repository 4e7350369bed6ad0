// SPDX-License-Identifier: EPL-2.0

package analysis

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ik5/intake/form"
)

var (
	ErrEmptyResponse = errors.New("no response from model")
	ErrMissingAPIKey = errors.New("missing API key")
	ErrEmptyPayload  = errors.New("empty payload")
)

// Payload is the audio sent for analysis.
type Payload struct {
	Name string
	MIME string
	Data []byte
}

// Usage is the token accounting reported by the model.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

// Result is a filled interview form with a summary and a labelled
// transcript.
type Result struct {
	Form       form.Data `json:"formData"`
	Summary    string    `json:"summary"`
	Transcript string    `json:"transcript"`

	Usage Usage  `json:"-"`
	Model string `json:"-"`
}

// Analyzer turns interview audio into a Result.
type Analyzer interface {
	Analyze(ctx context.Context, p Payload) (*Result, error)
}

// Transcriber returns a plain transcription, used to check that compressed
// audio is still intelligible.
type Transcriber interface {
	Transcribe(ctx context.Context, p Payload) (string, Usage, error)
}

// APIError is a non-2xx reply from the model endpoint.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("gemini API error %d: %s", e.StatusCode, e.Body)
}

// Speaker labels used in transcripts.
const (
	InterviewerLabel = "[訪談委員]"
	ApplicantLabel   = "[申請人]"
)

// LabelSegments joins transcript segments into one transcript, labelling
// them alternately as interviewer and applicant starting with the
// interviewer. Each segment is trimmed and ends its own line.
func LabelSegments(segments []string) string {
	var b strings.Builder
	for i, seg := range segments {
		label := InterviewerLabel
		if i%2 == 1 {
			label = ApplicantLabel
		}
		b.WriteString(label)
		b.WriteString(": ")
		b.WriteString(strings.TrimSpace(seg))
		b.WriteByte('\n')
	}
	return b.String()
}
