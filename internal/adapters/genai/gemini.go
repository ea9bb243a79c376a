package genai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/emiliopalmerini/sessiontrack/internal/ports"
)

// HTTPClient is the subset of *http.Client used by Gemini.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Gemini calls the Gemini generateContent REST endpoint.
type Gemini struct {
	apiKey          string
	model           string
	baseURL         string
	maxOutputTokens int
	client          HTTPClient
}

func NewGemini(cfg Config) *Gemini {
	return NewGeminiWithClient(cfg, &http.Client{Timeout: cfg.Timeout})
}

func NewGeminiWithClient(cfg Config, client HTTPClient) *Gemini {
	model := cfg.Model
	if model == "" {
		model = defaultModel
	}
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Gemini{
		apiKey:          cfg.APIKey,
		model:           model,
		baseURL:         baseURL,
		maxOutputTokens: cfg.MaxOutputTokens,
		client:          client,
	}
}

// New returns a Gemini client when an API key is configured, otherwise a NoOp model.
func New(cfg Config) ports.InsightModel {
	if !cfg.Enabled() {
		return NewNoOp()
	}
	return NewGemini(cfg)
}

type generateRequest struct {
	Contents         []content         `json:"contents"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text,omitempty"`
}

type generationConfig struct {
	MaxOutputTokens int `json:"maxOutputTokens,omitempty"`
}

type generateResponse struct {
	Candidates []struct {
		Content      content `json:"content"`
		FinishReason string  `json:"finishReason"`
	} `json:"candidates"`
	PromptFeedback *struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback,omitempty"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error,omitempty"`
}

// Generate sends prompt as a single user turn and returns the concatenated text
// of the first candidate.
func (g *Gemini) Generate(ctx context.Context, prompt string) (string, error) {
	body := generateRequest{
		Contents: []content{{Role: "user", Parts: []part{{Text: prompt}}}},
	}
	if g.maxOutputTokens > 0 {
		body.GenerationConfig = &generationConfig{MaxOutputTokens: g.maxOutputTokens}
	}

	jsonBody, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent?key=%s",
		g.baseURL, url.PathEscape(g.model), url.QueryEscape(g.apiKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(jsonBody))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		// The URL carries the key; report only the transport failure.
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", fmt.Errorf("send request: %w", ctxErr)
		}
		var ue *url.Error
		if errors.As(err, &ue) {
			return "", fmt.Errorf("send request: %w", ue.Err)
		}
		return "", fmt.Errorf("send request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	var parsed generateResponse
	if resp.StatusCode != http.StatusOK {
		if json.Unmarshal(data, &parsed) == nil && parsed.Error != nil {
			return "", fmt.Errorf("gemini API error %d: %s", resp.StatusCode, parsed.Error.Message)
		}
		return "", fmt.Errorf("gemini API error %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}

	if err := json.Unmarshal(data, &parsed); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if parsed.PromptFeedback != nil && parsed.PromptFeedback.BlockReason != "" {
		return "", fmt.Errorf("prompt blocked: %s", parsed.PromptFeedback.BlockReason)
	}
	if len(parsed.Candidates) == 0 {
		return "", fmt.Errorf("empty response: no candidates")
	}

	var b strings.Builder
	for _, p := range parsed.Candidates[0].Content.Parts {
		b.WriteString(p.Text)
	}
	if b.Len() == 0 {
		return "", fmt.Errorf("empty response: candidate has no text (finish reason %q)", parsed.Candidates[0].FinishReason)
	}
	return b.String(), nil
}
