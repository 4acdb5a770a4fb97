// Package config holds runtime configuration and page defaults.
package config

import (
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

var urlPattern = regexp.MustCompile(`^https?://`)

// Default sheet settings, matching an A4 landscape page at 200 DPI.
const (
	DefaultPageWidthMM   = 297.0
	DefaultPageHeightMM  = 210.0
	DefaultOuterMarginMM = 10.0
	DefaultInnerMarginMM = 2.0
	DefaultFontSizeMM    = 2.0
	DefaultDPI           = 200
	DefaultRows          = 2
	DefaultColumns       = 3
)

// Config holds the remote endpoints and cache settings. Values are
// resolved from the environment with sensible defaults; a .env file may
// supply them (loaded by the caller via godotenv).
type Config struct {
	APIBaseURL     string
	SpritesBaseURL string
	CacheDir       string
	CacheMaxAge    time.Duration
	Language       string
}

// FromEnv builds a Config from environment variables, falling back to
// defaults for anything unset.
func FromEnv() Config {
	cfg := Config{
		APIBaseURL:     "https://pokeapi.co/api/v2/",
		SpritesBaseURL: "https://raw.githubusercontent.com/PokeAPI/sprites/master/sprites/",
		CacheDir:       defaultCacheDir(),
		CacheMaxAge:    30 * 24 * time.Hour,
		Language:       "en",
	}
	if v := os.Getenv("POKESHEET_API_URL"); v != "" {
		cfg.APIBaseURL = v
	}
	if v := os.Getenv("POKESHEET_SPRITES_URL"); v != "" {
		cfg.SpritesBaseURL = v
	}
	if v := os.Getenv("POKESHEET_CACHE_DIR"); v != "" {
		cfg.CacheDir = v
	}
	if v := os.Getenv("POKESHEET_CACHE_MAX_AGE"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.CacheMaxAge = d
		}
	}
	if v := os.Getenv("POKESHEET_LANG"); v != "" {
		cfg.Language = v
	}
	return cfg
}

// Validate validates the configuration.
func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.APIBaseURL, validation.Required, validation.By(isURLLike)),
		validation.Field(&c.SpritesBaseURL, validation.Required, validation.By(isURLLike)),
		validation.Field(&c.CacheDir, validation.Required),
		validation.Field(&c.Language, validation.Required, validation.Length(2, 8)),
	)
}

func isURLLike(value interface{}) error {
	s, _ := value.(string)
	if !urlPattern.MatchString(s) {
		return errors.New("must be an http(s) URL")
	}
	return nil
}

func defaultCacheDir() string {
	base, err := os.UserCacheDir()
	if err != nil {
		base = os.TempDir()
	}
	return filepath.Join(base, "pokesheet")
}
