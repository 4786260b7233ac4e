package session

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/elaralabs/elara/backend/internal/model/chat"
	"github.com/elaralabs/elara/backend/internal/model/persona"
)

// Client consumes the relay's HTTP surface. Any non-2xx status or malformed
// body collapses into a single failure class: the caller only needs to know
// that the fallback turn applies.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient targets a relay server at baseURL (for example
// "http://localhost:8080"). A non-positive timeout defaults to 30s.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Relay posts the transcript to /api/chat and returns the assistant reply.
func (c *Client) Relay(ctx context.Context, messages []chat.Message) (string, error) {
	payload, err := json.Marshal(map[string][]chat.Message{"messages": messages})
	if err != nil {
		return "", fmt.Errorf("marshal relay request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/chat", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build relay request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("relay request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("relay returned status %d", resp.StatusCode)
	}

	var parsed struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decode relay response: %w", err)
	}
	if parsed.Message == "" {
		return "", fmt.Errorf("relay response missing message")
	}

	return parsed.Message, nil
}

// FetchPersona retrieves the public persona profile used to seed the greeting
// turn.
func (c *Client) FetchPersona(ctx context.Context) (persona.Profile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/persona", nil)
	if err != nil {
		return persona.Profile{}, fmt.Errorf("build persona request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return persona.Profile{}, fmt.Errorf("persona request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return persona.Profile{}, fmt.Errorf("persona endpoint returned status %d", resp.StatusCode)
	}

	var profile persona.Profile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return persona.Profile{}, fmt.Errorf("decode persona response: %w", err)
	}

	return profile, nil
}
