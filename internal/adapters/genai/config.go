package genai

import "time"

const (
	defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	defaultModel   = "gemini-1.5-flash"
)

// Config holds Gemini client configuration.
type Config struct {
	APIKey  string
	Model   string
	BaseURL string
	// MaxOutputTokens caps the response length. Zero leaves the model default.
	MaxOutputTokens int
	// Timeout bounds a single HTTP request. Zero means no client-side timeout;
	// callers are expected to pass a context deadline.
	Timeout time.Duration
}

// Enabled reports whether an API key is configured.
func (c Config) Enabled() bool {
	return c.APIKey != ""
}
