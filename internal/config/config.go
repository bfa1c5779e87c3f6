package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// DefaultListingsAPIURL is the suburb listings endpoint used when none is configured.
const DefaultListingsAPIURL = "https://www.microburbs.com.au/report_generator/api/suburb/properties"

// Config holds all application configuration.
type Config struct {
	Server      ServerConfig
	ListingsAPI ListingsAPIConfig
	RateLimit   RateLimitConfig
	Summary     SummaryConfig
	CORS        CORSConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port string
	Env  string
}

// ListingsAPIConfig holds the upstream listings API connection settings.
type ListingsAPIConfig struct {
	URL     string
	Token   string
	Timeout time.Duration
}

// RateLimitConfig holds the per-client request limits.
type RateLimitConfig struct {
	RequestsPerSecond float64
	Burst             int
}

// SummaryConfig controls how averages are reported.
type SummaryConfig struct {
	ZeroAsMissing bool
}

// CORSConfig holds CORS configuration.
type CORSConfig struct {
	Origins []string
}

// Load reads configuration from environment variables.
// It uses viper to read values and provides defaults that work against the
// public sandbox API.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("LISTINGS_API_URL", DefaultListingsAPIURL)
	v.SetDefault("LISTINGS_API_TOKEN", "test")
	v.SetDefault("LISTINGS_API_TIMEOUT", "10s")
	v.SetDefault("RATE_LIMIT_RPS", 5.0)
	v.SetDefault("RATE_LIMIT_BURST", 10)
	v.SetDefault("SUMMARY_ZERO_AS_MISSING", false)
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000,http://localhost:5000")

	v.AutomaticEnv()

	cfg := &Config{
		Server: ServerConfig{
			Port: v.GetString("PORT"),
			Env:  v.GetString("ENV"),
		},
		ListingsAPI: ListingsAPIConfig{
			URL:     v.GetString("LISTINGS_API_URL"),
			Token:   v.GetString("LISTINGS_API_TOKEN"),
			Timeout: parseTimeout(v.GetString("LISTINGS_API_TIMEOUT")),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: v.GetFloat64("RATE_LIMIT_RPS"),
			Burst:             v.GetInt("RATE_LIMIT_BURST"),
		},
		Summary: SummaryConfig{
			ZeroAsMissing: v.GetBool("SUMMARY_ZERO_AS_MISSING"),
		},
		CORS: CORSConfig{
			Origins: parseOrigins(v.GetString("CORS_ORIGINS")),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that required configuration is present and valid.
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	if c.ListingsAPI.URL == "" {
		return fmt.Errorf("LISTINGS_API_URL is required")
	}
	u, err := url.Parse(c.ListingsAPI.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("LISTINGS_API_URL must be an absolute http(s) URL, got %q", c.ListingsAPI.URL)
	}
	if c.ListingsAPI.Token == "" {
		return fmt.Errorf("LISTINGS_API_TOKEN is required")
	}
	if c.ListingsAPI.Timeout <= 0 {
		return fmt.Errorf("LISTINGS_API_TIMEOUT must be positive")
	}

	if c.RateLimit.RequestsPerSecond <= 0 {
		return fmt.Errorf("RATE_LIMIT_RPS must be positive")
	}
	if c.RateLimit.Burst < 1 {
		return fmt.Errorf("RATE_LIMIT_BURST must be at least 1")
	}

	if len(c.CORS.Origins) == 0 {
		return fmt.Errorf("CORS_ORIGINS is required")
	}

	return nil
}

// IsProduction reports whether the server runs with production settings.
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

// parseOrigins splits a comma-separated string of origins into a slice.
func parseOrigins(origins string) []string {
	if origins == "" {
		return []string{}
	}

	parts := strings.Split(origins, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// parseTimeout accepts a Go duration ("10s", "1500ms") or a bare number of
// seconds ("10"). Unparseable values yield 0 and fail validation.
func parseTimeout(value string) time.Duration {
	value = strings.TrimSpace(value)
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if secs, err := strconv.ParseFloat(value, 64); err == nil {
		return time.Duration(secs * float64(time.Second))
	}
	return 0
}
