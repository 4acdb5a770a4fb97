package config

import (
	"strings"
	"testing"
	"time"
)

func TestFromEnv_Defaults(t *testing.T) {
	for _, key := range []string{
		"POKESHEET_API_URL", "POKESHEET_SPRITES_URL", "POKESHEET_CACHE_DIR",
		"POKESHEET_CACHE_MAX_AGE", "POKESHEET_LANG",
	} {
		t.Setenv(key, "")
	}

	cfg := FromEnv()

	if !strings.HasPrefix(cfg.APIBaseURL, "https://pokeapi.co/") {
		t.Errorf("api url: got %q", cfg.APIBaseURL)
	}
	if !strings.HasSuffix(cfg.APIBaseURL, "/") || !strings.HasSuffix(cfg.SpritesBaseURL, "/") {
		t.Error("base urls must end with a slash for path joining")
	}
	if cfg.CacheMaxAge != 30*24*time.Hour {
		t.Errorf("cache max age: got %v", cfg.CacheMaxAge)
	}
	if cfg.Language != "en" {
		t.Errorf("language: got %q", cfg.Language)
	}
	if cfg.CacheDir == "" {
		t.Error("cache dir should have a default")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("POKESHEET_API_URL", "http://localhost:8080/api/")
	t.Setenv("POKESHEET_CACHE_DIR", "/tmp/pcache")
	t.Setenv("POKESHEET_CACHE_MAX_AGE", "1h")
	t.Setenv("POKESHEET_LANG", "fr")

	cfg := FromEnv()

	if cfg.APIBaseURL != "http://localhost:8080/api/" {
		t.Errorf("api url: got %q", cfg.APIBaseURL)
	}
	if cfg.CacheDir != "/tmp/pcache" {
		t.Errorf("cache dir: got %q", cfg.CacheDir)
	}
	if cfg.CacheMaxAge != time.Hour {
		t.Errorf("cache max age: got %v", cfg.CacheMaxAge)
	}
	if cfg.Language != "fr" {
		t.Errorf("language: got %q", cfg.Language)
	}
}

func TestFromEnv_BadDurationIgnored(t *testing.T) {
	t.Setenv("POKESHEET_CACHE_MAX_AGE", "fortnight")

	cfg := FromEnv()
	if cfg.CacheMaxAge != 30*24*time.Hour {
		t.Errorf("bad duration should keep default, got %v", cfg.CacheMaxAge)
	}
}

func TestValidate(t *testing.T) {
	valid := Config{
		APIBaseURL:     "https://example.test/api/",
		SpritesBaseURL: "https://example.test/sprites/",
		CacheDir:       "/tmp/c",
		CacheMaxAge:    time.Hour,
		Language:       "en",
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty api url", func(c *Config) { c.APIBaseURL = "" }},
		{"non-http api url", func(c *Config) { c.APIBaseURL = "ftp://example.test/" }},
		{"empty cache dir", func(c *Config) { c.CacheDir = "" }},
		{"empty language", func(c *Config) { c.Language = "" }},
		{"overlong language", func(c *Config) { c.Language = "kleinfeltersville" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
