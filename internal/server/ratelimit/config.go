package ratelimit

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// EndpointConfig is the rate limit applied to one endpoint. A Path ending in
// "/" matches by prefix, anything else matches exactly.
type EndpointConfig struct {
	Path   string
	Method string
	Limit  int           // requests per Window
	Window time.Duration
	Burst  int           // burst capacity, defaults to Limit when 0
}

// LoadConfig reads rate limiting configuration from environment variables.
func LoadConfig() *Config {
	enabled := getEnvBool("RATE_LIMIT_ENABLED", true)
	if !enabled {
		return &Config{Enabled: false}
	}

	return &Config{
		Enabled:         enabled,
		DefaultLimit:    getEnvInt("RATE_LIMIT_DEFAULT_LIMIT", 300),
		DefaultWindow:   getEnvDuration("RATE_LIMIT_DEFAULT_WINDOW", time.Minute),
		CleanupInterval: getEnvDuration("RATE_LIMIT_CLEANUP_INTERVAL", 5*time.Minute),
		Whitelist:       parseIPList(os.Getenv("RATE_LIMIT_WHITELIST")),
		Blacklist:       parseIPList(os.Getenv("RATE_LIMIT_BLACKLIST")),
		EndpointConfigs: DefaultEndpointConfigs(),
	}
}

// DefaultEndpointConfigs returns the per-endpoint limits.
func DefaultEndpointConfigs() []EndpointConfig {
	return []EndpointConfig{
		// Model-backed endpoints carry the strictest limits.
		{Path: "/api/cv/chat", Method: "POST", Limit: 60, Window: time.Hour, Burst: 10},
		{Path: "/api/cv/chat/apply", Method: "POST", Limit: 60, Window: time.Hour, Burst: 10},
		{Path: "/api/finance/receipts", Method: "POST", Limit: 20, Window: time.Hour, Burst: 5},

		// Credential endpoints, kept tight against brute force.
		{Path: "/api/auth/register", Method: "POST", Limit: 10, Window: time.Minute, Burst: 3},
		{Path: "/api/auth/login", Method: "POST", Limit: 10, Window: time.Minute, Burst: 3},
		{Path: "/api/auth/password", Method: "PUT", Limit: 10, Window: time.Minute, Burst: 3},

		// Pure computation endpoints.
		{Path: "/api/cv/export", Method: "POST", Limit: 60, Window: time.Minute, Burst: 10},
		{Path: "/api/qr/", Method: "POST", Limit: 120, Window: time.Minute, Burst: 30},

		// Reads fall through to the default limit; /health is unlimited
		// via the matcher.
	}
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func parseIPList(list string) map[string]bool {
	result := make(map[string]bool)
	for _, ip := range strings.Split(list, ",") {
		if ip = strings.TrimSpace(ip); ip != "" {
			result[ip] = true
		}
	}
	return result
}
