// iruka/services/llm/llm.go
package llm

import (
	"context"
	"errors"
	"fmt"
	"iruka/iruka/config"
	httputils "iruka/iruka/utils/http"
	"net/http"
	"time"
)

// ErrRateLimited marks a completion failure caused by the provider throttling us (HTTP 429).
var ErrRateLimited = errors.New("llm: rate limited")

// ErrNoChoices is returned when the provider answers 2xx without any completion.
var ErrNoChoices = errors.New("llm: no choices returned")

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ResponseFormat struct {
	Type string `json:"type"`
}

// JSONObject constrains the completion to a single JSON object.
var JSONObject = &ResponseFormat{Type: "json_object"}

type ChatRequest struct {
	Model          string          `json:"model"`
	Messages       []Message       `json:"messages"`
	Stream         bool            `json:"stream"`
	Temperature    *float64        `json:"temperature,omitempty"`
	MaxTokens      int             `json:"max_tokens,omitempty"`
	ResponseFormat *ResponseFormat `json:"response_format,omitempty"`
}

// Float returns a pointer to v, for ChatRequest.Temperature.
func Float(v float64) *float64 {
	return &v
}

// Client is implemented by every provider in this package.
type Client interface {
	Run(ctx context.Context, req ChatRequest) (string, error)
}

type Option func(*options)

type options struct {
	baseURL    string
	httpClient *http.Client
}

// WithBaseURL points a client at another OpenAI-compatible (or Ollama) endpoint.
func WithBaseURL(url string) Option {
	return func(o *options) {
		if url != "" {
			o.baseURL = url
		}
	}
}

func WithHTTPClient(c *http.Client) Option {
	return func(o *options) {
		if c != nil {
			o.httpClient = c
		}
	}
}

func applyOptions(baseURL string, opts []Option) options {
	o := options{baseURL: baseURL, httpClient: &http.Client{Timeout: 60 * time.Second}}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// classify tags throttling responses with ErrRateLimited so callers never have
// to look at status codes or message text.
func classify(provider string, err error) error {
	if err == nil {
		return nil
	}
	var se *httputils.StatusError
	if errors.As(err, &se) && se.StatusCode == http.StatusTooManyRequests {
		return fmt.Errorf("%s: %w: %w", provider, ErrRateLimited, err)
	}
	return fmt.Errorf("%s: %w", provider, err)
}

// New builds the client selected by cfg.LLMProvider.
func New(cfg config.Config) (Client, error) {
	httpClient := &http.Client{Timeout: cfg.LLMTimeout}
	switch cfg.LLMProvider {
	case "", "groq":
		if cfg.GroqAPIKey == "" {
			return nil, errors.New("missing GROQ_API_KEY environment variable")
		}
		return NewGroqClient(cfg.GroqAPIKey, WithBaseURL(cfg.LLMBaseURL), WithHTTPClient(httpClient)), nil
	case "openai":
		if cfg.OpenAIAPIKey == "" {
			return nil, errors.New("missing OPENAI_API_KEY environment variable")
		}
		return NewGPTClient(cfg.OpenAIAPIKey, WithBaseURL(cfg.LLMBaseURL), WithHTTPClient(httpClient)), nil
	case "ollama":
		base := cfg.OllamaURL
		if cfg.LLMBaseURL != "" {
			base = cfg.LLMBaseURL
		}
		return NewOllamaClient(WithBaseURL(base), WithHTTPClient(httpClient)), nil
	default:
		return nil, fmt.Errorf("unknown LLM_PROVIDER %q", cfg.LLMProvider)
	}
}
