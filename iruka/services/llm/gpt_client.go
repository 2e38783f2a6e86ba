package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	httputils "iruka/iruka/utils/http"
	"iruka/iruka/utils/logging"
	"net/http"
	"strings"
)

type GPTClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

func NewGPTClient(apiKey string, opts ...Option) *GPTClient {
	o := applyOptions("https://api.openai.com/v1", opts)
	return &GPTClient{
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(o.baseURL, "/") + "/chat/completions",
		httpClient: o.httpClient,
	}
}

type gptResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
}

// Run executes a single GPT completion request (non-streaming)
func (c *GPTClient) Run(ctx context.Context, req ChatRequest) (string, error) {
	defer logging.LogDuration(ctx, "gpt_service_run")()

	req.Stream = false
	body, err := json.Marshal(req)
	if err != nil {
		return "", err
	}

	// Manual POST because we need custom headers
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", classify("gpt", err)
	}
	defer resp.Body.Close()

	if err := httputils.CheckStatus(resp); err != nil {
		return "", classify("gpt", err)
	}

	var parsed gptResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("failed to decode GPT response: %w", err)
	}

	if len(parsed.Choices) > 0 {
		return parsed.Choices[0].Message.Content, nil
	}

	return "", classify("gpt", ErrNoChoices)
}
