package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config aggregates all service configuration.
type Config struct {
	Server ServerConfig
	AI     AIConfig
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	ai, err := loadAIConfig()
	if err != nil {
		return nil, err
	}

	return &Config{Server: server, AI: ai}, nil
}

// ServerConfig describes the HTTP listener.
type ServerConfig struct {
	Addr string
}

func loadServerConfig() (ServerConfig, error) {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8080"
	}

	if strings.Contains(port, ":") {
		// Allow passing ":8080" or "127.0.0.1:8080" directly.
		return ServerConfig{Addr: port}, nil
	}

	if strings.Contains(port, " ") {
		return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
	}

	return ServerConfig{Addr: ":" + port}, nil
}

// AIConfig describes the upstream chat-completion provider.
type AIConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float64
	MaxTokens   int
	SiteURL     string
	SiteName    string
	Timeout     time.Duration
}

// Enabled reports whether the upstream credential is present. The server still
// starts without it; the relay rejects chat requests per call instead.
func (c AIConfig) Enabled() bool {
	return c.APIKey != ""
}

func loadAIConfig() (AIConfig, error) {
	temperature := 0.7
	if override, err := parseOptionalFloatEnv("CHAT_TEMPERATURE"); err != nil {
		return AIConfig{}, err
	} else if override != nil {
		temperature = *override
	}

	maxTokens := 150
	if override, err := parseOptionalIntEnv("CHAT_MAX_TOKENS"); err != nil {
		return AIConfig{}, err
	} else if override != nil {
		maxTokens = *override
	}

	timeoutSeconds := 20
	if override, err := parseOptionalIntEnv("UPSTREAM_TIMEOUT_SECONDS"); err != nil {
		return AIConfig{}, err
	} else if override != nil && *override > 0 {
		timeoutSeconds = *override
	}

	return AIConfig{
		APIKey:      strings.TrimSpace(os.Getenv("OPENROUTER_API_KEY")),
		BaseURL:     getEnvOrDefault("OPENROUTER_BASE_URL", "https://openrouter.ai/api/v1"),
		Model:       getEnvOrDefault("CHAT_MODEL", "openai/gpt-4o-mini"),
		Temperature: temperature,
		MaxTokens:   maxTokens,
		SiteURL:     getEnvOrDefault("SITE_URL", "https://elara.agency"),
		SiteName:    getEnvOrDefault("SITE_NAME", "Elara"),
		Timeout:     time.Duration(timeoutSeconds) * time.Second,
	}, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseOptionalFloatEnv(key string) (*float64, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}

func parseOptionalIntEnv(key string) (*int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}
