package llm

import (
	"context"
	httputils "iruka/iruka/utils/http"
	"iruka/iruka/utils/logging"
	"net/http"
	"strings"
)

type OllamaClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewOllamaClient(opts ...Option) *OllamaClient {
	o := applyOptions("http://localhost:11434/api", opts)
	return &OllamaClient{baseURL: strings.TrimRight(o.baseURL, "/"), httpClient: o.httpClient}
}

// ollamaChatRequest is the /api/chat body. Sampling settings travel in options
// and JSON mode is the "format" field instead of response_format.
type ollamaChatRequest struct {
	Model    string        `json:"model"`
	Messages []Message     `json:"messages"`
	Stream   bool          `json:"stream"`
	Format   string        `json:"format,omitempty"`
	Options  ollamaOptions `json:"options"`
}

type ollamaOptions struct {
	Temperature *float64 `json:"temperature,omitempty"`
	NumPredict  int      `json:"num_predict,omitempty"`
}

type ChatResponse struct {
	Message Message `json:"message"`
	Done    bool    `json:"done"`
}

func (c *OllamaClient) Run(ctx context.Context, req ChatRequest) (string, error) {
	defer logging.LogDuration(ctx, "llm_service_run")()

	body := ollamaChatRequest{
		Model:    req.Model,
		Messages: req.Messages,
		Stream:   false,
		Options:  ollamaOptions{Temperature: req.Temperature, NumPredict: req.MaxTokens},
	}
	if req.ResponseFormat != nil && req.ResponseFormat.Type == JSONObject.Type {
		body.Format = "json"
	}

	var resp ChatResponse
	if err := httputils.PostJSON(ctx, c.httpClient, c.baseURL+"/chat", body, &resp); err != nil {
		return "", classify("ollama", err)
	}
	return resp.Message.Content, nil
}
