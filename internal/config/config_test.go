package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad_WithDefaults(t *testing.T) {
	clearConfigEnvVars()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Server.Port != "8080" {
		t.Errorf("Expected port 8080, got %s", cfg.Server.Port)
	}
	if cfg.Server.Env != "development" {
		t.Errorf("Expected env development, got %s", cfg.Server.Env)
	}
	if cfg.ListingsAPI.URL != DefaultListingsAPIURL {
		t.Errorf("Expected listings URL %s, got %s", DefaultListingsAPIURL, cfg.ListingsAPI.URL)
	}
	if cfg.ListingsAPI.Token != "test" {
		t.Errorf("Expected token test, got %s", cfg.ListingsAPI.Token)
	}
	if cfg.ListingsAPI.Timeout != 10*time.Second {
		t.Errorf("Expected timeout 10s, got %s", cfg.ListingsAPI.Timeout)
	}
	if cfg.RateLimit.RequestsPerSecond != 5 {
		t.Errorf("Expected 5 requests per second, got %f", cfg.RateLimit.RequestsPerSecond)
	}
	if cfg.RateLimit.Burst != 10 {
		t.Errorf("Expected burst 10, got %d", cfg.RateLimit.Burst)
	}
	if cfg.Summary.ZeroAsMissing {
		t.Error("Expected zero-as-missing to be off by default")
	}
	if len(cfg.CORS.Origins) != 2 {
		t.Errorf("Expected 2 CORS origins, got %d", len(cfg.CORS.Origins))
	}
	if cfg.IsProduction() {
		t.Error("Expected development config not to be production")
	}
}

func TestLoad_WithEnvironmentVariables(t *testing.T) {
	os.Setenv("PORT", "9090")
	os.Setenv("ENV", "production")
	os.Setenv("LISTINGS_API_URL", "http://listings.internal/api/suburb/properties")
	os.Setenv("LISTINGS_API_TOKEN", "secret-token")
	os.Setenv("LISTINGS_API_TIMEOUT", "2500ms")
	os.Setenv("RATE_LIMIT_RPS", "0.5")
	os.Setenv("RATE_LIMIT_BURST", "3")
	os.Setenv("SUMMARY_ZERO_AS_MISSING", "true")
	os.Setenv("CORS_ORIGINS", "http://example.com,https://app.example.com")
	defer clearConfigEnvVars()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Server.Port != "9090" {
		t.Errorf("Expected port 9090, got %s", cfg.Server.Port)
	}
	if !cfg.IsProduction() {
		t.Errorf("Expected production env, got %s", cfg.Server.Env)
	}
	if cfg.ListingsAPI.URL != "http://listings.internal/api/suburb/properties" {
		t.Errorf("Unexpected listings URL %s", cfg.ListingsAPI.URL)
	}
	if cfg.ListingsAPI.Token != "secret-token" {
		t.Errorf("Expected token secret-token, got %s", cfg.ListingsAPI.Token)
	}
	if cfg.ListingsAPI.Timeout != 2500*time.Millisecond {
		t.Errorf("Expected timeout 2.5s, got %s", cfg.ListingsAPI.Timeout)
	}
	if cfg.RateLimit.RequestsPerSecond != 0.5 {
		t.Errorf("Expected 0.5 requests per second, got %f", cfg.RateLimit.RequestsPerSecond)
	}
	if cfg.RateLimit.Burst != 3 {
		t.Errorf("Expected burst 3, got %d", cfg.RateLimit.Burst)
	}
	if !cfg.Summary.ZeroAsMissing {
		t.Error("Expected zero-as-missing to be enabled")
	}
	if len(cfg.CORS.Origins) != 2 || cfg.CORS.Origins[0] != "http://example.com" {
		t.Errorf("Unexpected CORS origins %v", cfg.CORS.Origins)
	}
}

func TestLoad_InvalidTimeout(t *testing.T) {
	clearConfigEnvVars()
	os.Setenv("LISTINGS_API_TIMEOUT", "soon")
	defer clearConfigEnvVars()

	if _, err := Load(); err == nil {
		t.Error("Expected error for unparseable LISTINGS_API_TIMEOUT")
	}
}

func TestParseTimeout(t *testing.T) {
	tests := []struct {
		input  string
		expect time.Duration
	}{
		{input: "10s", expect: 10 * time.Second},
		{input: "1500ms", expect: 1500 * time.Millisecond},
		{input: "10", expect: 10 * time.Second},
		{input: " 2.5 ", expect: 2500 * time.Millisecond},
		{input: "", expect: 0},
		{input: "later", expect: 0},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := parseTimeout(tt.input); got != tt.expect {
				t.Errorf("parseTimeout(%q) = %s, want %s", tt.input, got, tt.expect)
			}
		})
	}
}

func validConfig() *Config {
	return &Config{
		Server: ServerConfig{Port: "8080", Env: "development"},
		ListingsAPI: ListingsAPIConfig{
			URL:     DefaultListingsAPIURL,
			Token:   "test",
			Timeout: 10 * time.Second,
		},
		RateLimit: RateLimitConfig{RequestsPerSecond: 5, Burst: 10},
		CORS:      CORSConfig{Origins: []string{"http://localhost:3000"}},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "valid config", mutate: func(c *Config) {}, wantErr: false},
		{name: "missing port", mutate: func(c *Config) { c.Server.Port = "" }, wantErr: true},
		{name: "missing listings URL", mutate: func(c *Config) { c.ListingsAPI.URL = "" }, wantErr: true},
		{name: "relative listings URL", mutate: func(c *Config) { c.ListingsAPI.URL = "/api/suburb" }, wantErr: true},
		{name: "non-http listings URL", mutate: func(c *Config) { c.ListingsAPI.URL = "ftp://example.com/x" }, wantErr: true},
		{name: "missing token", mutate: func(c *Config) { c.ListingsAPI.Token = "" }, wantErr: true},
		{name: "zero timeout", mutate: func(c *Config) { c.ListingsAPI.Timeout = 0 }, wantErr: true},
		{name: "zero rate", mutate: func(c *Config) { c.RateLimit.RequestsPerSecond = 0 }, wantErr: true},
		{name: "zero burst", mutate: func(c *Config) { c.RateLimit.Burst = 0 }, wantErr: true},
		{name: "missing CORS origins", mutate: func(c *Config) { c.CORS.Origins = []string{} }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestParseOrigins(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		expect []string
	}{
		{
			name:   "single origin",
			input:  "http://localhost:3000",
			expect: []string{"http://localhost:3000"},
		},
		{
			name:   "origins with spaces",
			input:  " http://localhost:3000 , http://localhost:5000 ",
			expect: []string{"http://localhost:3000", "http://localhost:5000"},
		},
		{
			name:   "empty string",
			input:  "",
			expect: []string{},
		},
		{
			name:   "only commas",
			input:  ",,,",
			expect: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := parseOrigins(tt.input)
			if len(result) != len(tt.expect) {
				t.Errorf("Expected %d origins, got %d", len(tt.expect), len(result))
				return
			}
			for i, origin := range result {
				if origin != tt.expect[i] {
					t.Errorf("Expected origin %s at index %d, got %s", tt.expect[i], i, origin)
				}
			}
		})
	}
}

// clearConfigEnvVars unsets every variable Load reads.
func clearConfigEnvVars() {
	for _, key := range []string{
		"PORT",
		"ENV",
		"LISTINGS_API_URL",
		"LISTINGS_API_TOKEN",
		"LISTINGS_API_TIMEOUT",
		"RATE_LIMIT_RPS",
		"RATE_LIMIT_BURST",
		"SUMMARY_ZERO_AS_MISSING",
		"CORS_ORIGINS",
	} {
		os.Unsetenv(key)
	}
}
