// SPDX-License-Identifier: EPL-2.0

package analysis

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ik5/intake/form"
	"github.com/rs/zerolog"
)

const (
	DefaultModel    = "gemini-2.5-flash"
	DefaultEndpoint = "https://generativelanguage.googleapis.com"
	DefaultTimeout  = 5 * time.Minute

	// maxErrorBody caps how much of an error reply ends up in APIError.
	maxErrorBody = 2048
)

// Gemini calls the generateContent REST method with the audio inlined as
// base64.
type Gemini struct {
	APIKey   string
	Model    string
	Endpoint string

	// Timeout bounds each request, including upload of the payload.
	Timeout time.Duration

	Client *http.Client
	Logger zerolog.Logger

	// Now dates the defaults of a form the model leaves partly empty.
	Now func() time.Time
}

func NewGemini(apiKey string, logger zerolog.Logger) *Gemini {
	return &Gemini{
		APIKey:   apiKey,
		Model:    DefaultModel,
		Endpoint: DefaultEndpoint,
		Timeout:  DefaultTimeout,
		Client: &http.Client{
			Transport: &http.Transport{
				MaxIdleConns:        4,
				MaxIdleConnsPerHost: 4,
				IdleConnTimeout:     90 * time.Second,
				ForceAttemptHTTP2:   true,
			},
		},
		Logger: logger,
		Now:    time.Now,
	}
}

type inlineData struct {
	MIMEType string `json:"mimeType"`
	Data     string `json:"data"`
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inlineData,omitempty"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type generationConfig struct {
	ResponseMIMEType string  `json:"responseMimeType,omitempty"`
	ResponseSchema   *schema `json:"responseSchema,omitempty"`
}

type generateRequest struct {
	SystemInstruction *content          `json:"systemInstruction,omitempty"`
	Contents          []content         `json:"contents"`
	GenerationConfig  *generationConfig `json:"generationConfig,omitempty"`
}

type generateResponse struct {
	Candidates []struct {
		Content      content `json:"content"`
		FinishReason string  `json:"finishReason"`
	} `json:"candidates"`
	UsageMetadata struct {
		PromptTokenCount     int `json:"promptTokenCount"`
		CandidatesTokenCount int `json:"candidatesTokenCount"`
		TotalTokenCount      int `json:"totalTokenCount"`
	} `json:"usageMetadata"`
	PromptFeedback *struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback"`
}

func audioPart(p Payload) part {
	mime := p.MIME
	if mime == "" {
		mime = "application/octet-stream"
	}
	return part{InlineData: &inlineData{
		MIMEType: mime,
		Data:     base64.StdEncoding.EncodeToString(p.Data),
	}}
}

// Analyze fills the interview form from the recording in p.
func (g *Gemini) Analyze(ctx context.Context, p Payload) (*Result, error) {
	rs := responseSchema()
	req := generateRequest{
		SystemInstruction: &content{Parts: []part{{Text: systemInstruction}}},
		Contents: []content{{
			Role:  "user",
			Parts: []part{audioPart(p), {Text: analyzePrompt}},
		}},
		GenerationConfig: &generationConfig{
			ResponseMIMEType: "application/json",
			ResponseSchema:   &rs,
		},
	}

	text, usage, err := g.generate(ctx, p, req)
	if err != nil {
		return nil, err
	}

	now := time.Now
	if g.Now != nil {
		now = g.Now
	}
	res := &Result{Form: form.New(now())}
	if err := json.Unmarshal([]byte(stripFence(text)), res); err != nil {
		return nil, fmt.Errorf("parsing model response: %w", err)
	}
	res.Usage = usage
	res.Model = g.model()

	return res, nil
}

// Transcribe asks for a verbatim transcription of p.
func (g *Gemini) Transcribe(ctx context.Context, p Payload) (string, Usage, error) {
	req := generateRequest{
		Contents: []content{{
			Role:  "user",
			Parts: []part{audioPart(p), {Text: transcribePrompt}},
		}},
	}
	text, usage, err := g.generate(ctx, p, req)
	if err != nil {
		return "", Usage{}, err
	}
	return strings.TrimSpace(text), usage, nil
}

func (g *Gemini) model() string {
	if g.Model == "" {
		return DefaultModel
	}
	return g.Model
}

func (g *Gemini) generate(ctx context.Context, p Payload, body generateRequest) (string, Usage, error) {
	if g.APIKey == "" {
		return "", Usage{}, ErrMissingAPIKey
	}
	if len(p.Data) == 0 {
		return "", Usage{}, ErrEmptyPayload
	}

	if g.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.Timeout)
		defer cancel()
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return "", Usage{}, fmt.Errorf("encoding request: %w", err)
	}

	endpoint := strings.TrimRight(g.Endpoint, "/")
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", endpoint, g.model())

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", Usage{}, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", g.APIKey)

	client := g.Client
	if client == nil {
		client = http.DefaultClient
	}

	start := time.Now()
	g.Logger.Debug().
		Str("model", g.model()).
		Str("file", p.Name).
		Int("payload_bytes", len(p.Data)).
		Msg("sending audio for analysis")

	resp, err := client.Do(req)
	if err != nil {
		return "", Usage{}, fmt.Errorf("calling gemini: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return "", Usage{}, &APIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(msg))}
	}

	var gr generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&gr); err != nil {
		return "", Usage{}, fmt.Errorf("gemini response parse error: %w", err)
	}

	usage := Usage{
		InputTokens:  gr.UsageMetadata.PromptTokenCount,
		OutputTokens: gr.UsageMetadata.CandidatesTokenCount,
		TotalTokens:  gr.UsageMetadata.TotalTokenCount,
	}

	var text strings.Builder
	if len(gr.Candidates) > 0 {
		for _, pt := range gr.Candidates[0].Content.Parts {
			text.WriteString(pt.Text)
		}
	}

	g.Logger.Debug().
		Dur("elapsed", time.Since(start)).
		Int("input_tokens", usage.InputTokens).
		Int("output_tokens", usage.OutputTokens).
		Msg("analysis response received")

	if strings.TrimSpace(text.String()) == "" {
		if gr.PromptFeedback != nil && gr.PromptFeedback.BlockReason != "" {
			return "", usage, fmt.Errorf("%w: blocked (%s)", ErrEmptyResponse, gr.PromptFeedback.BlockReason)
		}
		return "", usage, ErrEmptyResponse
	}

	return text.String(), usage, nil
}

// stripFence removes a Markdown code fence some models wrap JSON in.
func stripFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimPrefix(s, "json")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
