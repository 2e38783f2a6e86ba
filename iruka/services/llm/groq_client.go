// iruka/services/llm/groq_client.go
package llm

import (
	"context"
	"fmt"
	httputils "iruka/iruka/utils/http"
	"iruka/iruka/utils/logging"
	"net/http"
	"strings"
)

type GroqClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewGroqClient returns a client pointing to the Groq Chat endpoint.
// Groq's OpenAI-compatible base path is https://api.groq.com/openai/v1.
func NewGroqClient(apiKey string, opts ...Option) *GroqClient {
	o := applyOptions("https://api.groq.com/openai/v1", opts)
	return &GroqClient{
		baseURL:    strings.TrimRight(o.baseURL, "/"),
		apiKey:     apiKey,
		httpClient: o.httpClient,
	}
}

// Run (non-streaming) chat completion
func (c *GroqClient) Run(ctx context.Context, req ChatRequest) (string, error) {
	defer logging.LogDuration(ctx, "groq_service_run")()

	url := fmt.Sprintf("%s/chat/completions", c.baseURL)
	req.Stream = false

	var resp struct {
		ID      string `json:"id"`
		Model   string `json:"model"`
		Choices []struct {
			Message Message `json:"message"`
		} `json:"choices"`
	}
	if err := httputils.PostJSONWithAuth(ctx, c.httpClient, url, c.apiKey, req, &resp); err != nil {
		return "", classify("groq", err)
	}
	if len(resp.Choices) > 0 {
		return resp.Choices[0].Message.Content, nil
	}
	return "", classify("groq", ErrNoChoices)
}
