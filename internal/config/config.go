// Package config provides environment-based configuration for the server
// and CLI.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds the runtime configuration of the application. Everything is
// read from the environment; a .env file is loaded by the CLI before this
// runs.
type Config struct {
	// Server
	Port           int
	AllowedOrigins []string

	// Storage
	DatabaseURL string // PostgreSQL; empty disables persistence features
	RedisURL    string // empty disables the rates cache tier

	// Providers
	GroqAPIKey       string
	OpenRouterAPIKey string
	GeminiAPIKey     string

	// Tuning
	RatesCacheTTL  time.Duration
	ChatSessionTTL time.Duration
}

// Load builds a Config from environment variables, applying defaults for
// everything optional.
func Load() (*Config, error) {
	cfg := &Config{
		Port:             8080,
		AllowedOrigins:   []string{"*"},
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		RedisURL:         os.Getenv("REDIS_URL"),
		GroqAPIKey:       os.Getenv("GROQ_API_KEY"),
		OpenRouterAPIKey: os.Getenv("OPENROUTER_API_KEY"),
		GeminiAPIKey:     os.Getenv("GEMINI_API_KEY"),
		RatesCacheTTL:    time.Hour,
		ChatSessionTTL:   30 * time.Minute,
	}

	if port := os.Getenv("PORT"); port != "" {
		p, err := strconv.Atoi(port)
		if err != nil || p < 1 || p > 65535 {
			return nil, fmt.Errorf("invalid PORT: %s", port)
		}
		cfg.Port = p
	}

	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		cfg.AllowedOrigins = splitAndTrim(origins)
	}

	var err error
	if cfg.RatesCacheTTL, err = durationEnv("RATES_CACHE_TTL", cfg.RatesCacheTTL); err != nil {
		return nil, err
	}
	if cfg.ChatSessionTTL, err = durationEnv("CHAT_SESSION_TTL", cfg.ChatSessionTTL); err != nil {
		return nil, err
	}

	return cfg, nil
}

// HasProvider reports whether at least one completion provider is
// configured.
func (c *Config) HasProvider() bool {
	return c.GroqAPIKey != "" || c.OpenRouterAPIKey != "" || c.GeminiAPIKey != ""
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

func durationEnv(name string, fallback time.Duration) (time.Duration, error) {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %v", name, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive, got: %s", name, d)
	}
	return d, nil
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
