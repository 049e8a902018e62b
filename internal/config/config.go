package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port string

	// Upstream entry API (GraphQL endpoint)
	EntryAPIURL         string
	UpstreamTimeout     time.Duration
	UpstreamMaxAttempts int

	// Auth for POST /api/toc; empty disables it
	APIKey string

	// Rendered page cache
	CacheTTL time.Duration

	// Listing
	DefaultPageSize int
	MaxPageSize     int

	// Rendering
	HighlightStyle string
	TocTitle       string // empty = auto-detect by script

	MaxBodyBytes int64

	LogLevel slog.Level
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8090"),

		EntryAPIURL:         os.Getenv("ENTRY_API_URL"),
		UpstreamTimeout:     envDuration("UPSTREAM_TIMEOUT", 15*time.Second),
		UpstreamMaxAttempts: envInt("UPSTREAM_MAX_ATTEMPTS", 3),

		APIKey: os.Getenv("API_KEY"),

		CacheTTL: envDuration("CACHE_TTL", 10*time.Minute),

		DefaultPageSize: envInt("DEFAULT_PAGE_SIZE", 10),
		MaxPageSize:     envInt("MAX_PAGE_SIZE", 50),

		HighlightStyle: envOr("HIGHLIGHT_STYLE", "github"),
		TocTitle:       os.Getenv("TOC_TITLE"),

		MaxBodyBytes: envInt64("MAX_BODY_BYTES", 1<<20), // 1MB

		LogLevel: envLevel("LOG_LEVEL", slog.LevelInfo),
	}

	if cfg.UpstreamTimeout <= 0 {
		cfg.UpstreamTimeout = 15 * time.Second
	}
	if cfg.UpstreamMaxAttempts <= 0 {
		cfg.UpstreamMaxAttempts = 3
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 10 * time.Minute
	}
	if cfg.MaxPageSize <= 0 {
		cfg.MaxPageSize = 50
	}
	if cfg.DefaultPageSize <= 0 || cfg.DefaultPageSize > cfg.MaxPageSize {
		cfg.DefaultPageSize = min(10, cfg.MaxPageSize)
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = 1 << 20
	}

	return cfg
}

func (c Config) Validate() error {
	if c.EntryAPIURL == "" {
		return fmt.Errorf("ENTRY_API_URL is required")
	}
	u, err := url.Parse(c.EntryAPIURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("ENTRY_API_URL must be an absolute http(s) URL, got %q", c.EntryAPIURL)
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envLevel(key string, fallback slog.Level) slog.Level {
	if v := os.Getenv(key); v != "" {
		var lvl slog.Level
		if err := lvl.UnmarshalText([]byte(strings.ToUpper(v))); err == nil {
			return lvl
		}
	}
	return fallback
}
