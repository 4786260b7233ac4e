package chat

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/elaralabs/elara/backend/internal/config"
	chatmodel "github.com/elaralabs/elara/backend/internal/model/chat"
	"github.com/elaralabs/elara/backend/internal/model/persona"
	"github.com/elaralabs/elara/backend/internal/service/relay"
)

func testAIConfig(baseURL string) config.AIConfig {
	return config.AIConfig{
		APIKey:      "test-key",
		BaseURL:     baseURL,
		Model:       "test-model",
		Temperature: 0.7,
		MaxTokens:   150,
		SiteURL:     "https://example.test",
		SiteName:    "Elara",
		Timeout:     5 * time.Second,
	}
}

func setupRouter(cfg config.AIConfig) *chi.Mux {
	store := persona.NewMemoryStore(persona.Seed())
	handler := New(relay.NewService(store, cfg))

	r := chi.NewRouter()
	handler.RegisterRoutes(r)
	return r
}

func postChat(t *testing.T, r http.Handler, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/chat", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func decodeBody(t *testing.T, resp *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("response body is not JSON: %v", err)
	}
	return body
}

func TestChatSuccess(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"choices":[{"message":{"role":"assistant","content":"Olá! Posso ajudar? 😊"}}]}`)
	}))
	defer upstream.Close()

	r := setupRouter(testAIConfig(upstream.URL))
	resp := postChat(t, r, []byte(`{"messages":[{"role":"user","content":"oi"}]}`))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	body := decodeBody(t, resp)
	if body["message"] != "Olá! Posso ajudar? 😊" {
		t.Fatalf("unexpected message: %v", body["message"])
	}
}

func TestChatMissingMessages(t *testing.T) {
	r := setupRouter(testAIConfig("http://unused.test"))

	for _, payload := range []string{`{}`, `not json`, `{"messages":"nope"}`} {
		resp := postChat(t, r, []byte(payload))
		if resp.Code != http.StatusBadRequest {
			t.Fatalf("payload %q: expected 400, got %d", payload, resp.Code)
		}
		body := decodeBody(t, resp)
		if body["error"] != "Messages array is required" {
			t.Fatalf("payload %q: unexpected error: %v", payload, body["error"])
		}
	}
}

func TestChatEmptyMessages(t *testing.T) {
	r := setupRouter(testAIConfig("http://unused.test"))
	resp := postChat(t, r, []byte(`{"messages":[]}`))

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
	body := decodeBody(t, resp)
	if body["error"] != "Messages array is required" {
		t.Fatalf("unexpected error: %v", body["error"])
	}
}

func TestChatMissingCredential(t *testing.T) {
	cfg := testAIConfig("http://unused.test")
	cfg.APIKey = ""
	r := setupRouter(cfg)

	resp := postChat(t, r, []byte(`{"messages":[{"role":"user","content":"oi"}]}`))

	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.Code)
	}
	body := decodeBody(t, resp)
	if body["error"] != "Server configuration error" {
		t.Fatalf("unexpected error: %v", body["error"])
	}
}

func TestChatUpstreamStatusPassthrough(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		io.WriteString(w, `{"error":{"message":"rate limited"}}`)
	}))
	defer upstream.Close()

	r := setupRouter(testAIConfig(upstream.URL))
	resp := postChat(t, r, []byte(`{"messages":[{"role":"user","content":"oi"}]}`))

	if resp.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", resp.Code)
	}
	body := decodeBody(t, resp)
	if body["error"] != "Failed to get response from AI" {
		t.Fatalf("unexpected error: %v", body["error"])
	}
	details, ok := body["details"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected upstream error body in details, got %v", body["details"])
	}
	if inner, ok := details["error"].(map[string]interface{}); !ok || inner["message"] != "rate limited" {
		t.Fatalf("details did not carry the upstream body: %v", details)
	}
}

func TestChatUpstreamUnreachable(t *testing.T) {
	// Closed server: connection refused.
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := upstream.URL
	upstream.Close()

	r := setupRouter(testAIConfig(url))
	resp := postChat(t, r, []byte(`{"messages":[{"role":"user","content":"oi"}]}`))

	if resp.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", resp.Code)
	}
	body := decodeBody(t, resp)
	if body["error"] != "Failed to get response from AI" {
		t.Fatalf("unexpected error: %v", body["error"])
	}
}

func TestChatInvalidUpstreamShape(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"choices":[]}`)
	}))
	defer upstream.Close()

	r := setupRouter(testAIConfig(upstream.URL))
	resp := postChat(t, r, []byte(`{"messages":[{"role":"user","content":"oi"}]}`))

	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.Code)
	}
	body := decodeBody(t, resp)
	if body["error"] != "Invalid response from AI" {
		t.Fatalf("unexpected error: %v", body["error"])
	}
}

// The payload sent upstream must be the caller transcript with exactly one
// system message prepended, order and content otherwise untouched.
func TestChatUpstreamPayloadRoundTrip(t *testing.T) {
	var captured struct {
		Model       string              `json:"model"`
		Messages    []chatmodel.Message `json:"messages"`
		Temperature float64             `json:"temperature"`
		MaxTokens   int                 `json:"max_tokens"`
	}
	var auth, referer, title string

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		referer = r.Header.Get("HTTP-Referer")
		title = r.Header.Get("X-Title")
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Errorf("failed to decode upstream payload: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"choices":[{"message":{"role":"assistant","content":"ok"}}]}`)
	}))
	defer upstream.Close()

	r := setupRouter(testAIConfig(upstream.URL))
	transcript := []chatmodel.Message{
		{Role: chatmodel.RoleAssistant, Content: "Olá! Eu sou a Elara."},
		{Role: chatmodel.RoleUser, Content: "quero agendar uma consulta"},
	}
	payload, _ := json.Marshal(map[string]interface{}{"messages": transcript})

	resp := postChat(t, r, payload)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	if auth != "Bearer test-key" {
		t.Fatalf("unexpected Authorization header: %q", auth)
	}
	if referer != "https://example.test" || title != "Elara" {
		t.Fatalf("identification headers not set: referer=%q title=%q", referer, title)
	}
	if captured.Model != "test-model" || captured.Temperature != 0.7 || captured.MaxTokens != 150 {
		t.Fatalf("unexpected model parameters: %+v", captured)
	}

	if len(captured.Messages) != len(transcript)+1 {
		t.Fatalf("expected %d upstream messages, got %d", len(transcript)+1, len(captured.Messages))
	}
	if captured.Messages[0].Role != chatmodel.RoleSystem || captured.Messages[0].Content == "" {
		t.Fatalf("first upstream message is not the persona system prompt: %+v", captured.Messages[0])
	}
	for i, msg := range transcript {
		if captured.Messages[i+1] != msg {
			t.Fatalf("message %d modified in flight: got %+v, want %+v", i, captured.Messages[i+1], msg)
		}
	}
}
