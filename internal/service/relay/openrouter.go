package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/elaralabs/elara/backend/internal/config"
	"github.com/elaralabs/elara/backend/internal/model/chat"
)

// maxErrorBodyBytes bounds how much of an upstream error body is captured for
// diagnostics.
const maxErrorBodyBytes = 64 << 10

// openRouterClient is a minimal chat-completions client for the OpenRouter
// API. It exposes upstream status codes and error bodies unmodified so the
// relay can translate them.
type openRouterClient struct {
	cfg        config.AIConfig
	httpClient *http.Client
}

func newOpenRouterClient(cfg config.AIConfig) *openRouterClient {
	return &openRouterClient{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

type chatCompletionRequest struct {
	Model       string         `json:"model"`
	Messages    []chat.Message `json:"messages"`
	Temperature float64        `json:"temperature"`
	MaxTokens   int            `json:"max_tokens"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// createChatCompletion performs one upstream call and returns the reply text.
// All failures come back as *Error.
func (c *openRouterClient) createChatCompletion(ctx context.Context, messages []chat.Message) (string, *Error) {
	payload, err := json.Marshal(chatCompletionRequest{
		Model:       c.cfg.Model,
		Messages:    messages,
		Temperature: c.cfg.Temperature,
		MaxTokens:   c.cfg.MaxTokens,
	})
	if err != nil {
		return "", internalError(fmt.Errorf("marshal upstream payload: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", internalError(fmt.Errorf("build upstream request: %w", err))
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("HTTP-Referer", c.cfg.SiteURL)
	req.Header.Set("X-Title", c.cfg.SiteName)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Transport failures and timeouts carry no upstream status.
		return "", upstreamError(0, nil, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, readErr := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		if readErr != nil {
			body = nil
		}
		return "", upstreamError(resp.StatusCode, body, nil)
	}

	var parsed chatCompletionResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", invalidUpstream()
	}

	if len(parsed.Choices) == 0 || parsed.Choices[0].Message.Content == "" {
		return "", invalidUpstream()
	}

	return parsed.Choices[0].Message.Content, nil
}
