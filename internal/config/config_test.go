package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	// Shield from ambient environment.
	for _, key := range []string{"PORT", "CHAT_TEMPERATURE", "CHAT_MAX_TOKENS", "UPSTREAM_TIMEOUT_SECONDS"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Server.Addr != ":8080" {
		t.Fatalf("expected default addr :8080, got %q", cfg.Server.Addr)
	}
	if cfg.AI.Temperature != 0.7 {
		t.Fatalf("expected default temperature 0.7, got %v", cfg.AI.Temperature)
	}
	if cfg.AI.MaxTokens != 150 {
		t.Fatalf("expected default max tokens 150, got %d", cfg.AI.MaxTokens)
	}
	if cfg.AI.Timeout != 20*time.Second {
		t.Fatalf("expected default timeout 20s, got %v", cfg.AI.Timeout)
	}
	if cfg.AI.Model == "" || cfg.AI.BaseURL == "" {
		t.Fatalf("model and base URL must have defaults: %+v", cfg.AI)
	}
}

func TestLoadPortForms(t *testing.T) {
	cases := map[string]string{
		"9090":           ":9090",
		":9090":          ":9090",
		"127.0.0.1:9090": "127.0.0.1:9090",
	}

	for value, want := range cases {
		t.Setenv("PORT", value)
		cfg, err := Load()
		if err != nil {
			t.Fatalf("PORT=%q: load failed: %v", value, err)
		}
		if cfg.Server.Addr != want {
			t.Fatalf("PORT=%q: got addr %q, want %q", value, cfg.Server.Addr, want)
		}
	}
}

func TestLoadInvalidPort(t *testing.T) {
	t.Setenv("PORT", "not a port")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for PORT with spaces")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("OPENROUTER_API_KEY", "sk-test")
	t.Setenv("CHAT_TEMPERATURE", "0.2")
	t.Setenv("CHAT_MAX_TOKENS", "64")
	t.Setenv("UPSTREAM_TIMEOUT_SECONDS", "5")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if !cfg.AI.Enabled() {
		t.Fatal("credential set, AI should be enabled")
	}
	if cfg.AI.Temperature != 0.2 || cfg.AI.MaxTokens != 64 || cfg.AI.Timeout != 5*time.Second {
		t.Fatalf("overrides not applied: %+v", cfg.AI)
	}
}

func TestLoadRejectsBadNumbers(t *testing.T) {
	t.Setenv("CHAT_TEMPERATURE", "warm")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for non-numeric CHAT_TEMPERATURE")
	}
}

func TestEnabledRequiresKey(t *testing.T) {
	if (AIConfig{}).Enabled() {
		t.Fatal("empty config must not be enabled")
	}
	if !(AIConfig{APIKey: "sk"}).Enabled() {
		t.Fatal("config with key must be enabled")
	}
}
