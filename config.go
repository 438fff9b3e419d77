package site

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/irudium/site/views"
)

// Config holds all configuration for the site.
type Config struct {
	Site views.SiteConfig

	Addr         string // Listen address (default ":3000")
	DatabasePath string // SQLite path (default "data/site.db")

	SessionSecret string // Required: session encryption secret
	CookieSecure  bool   // Set true for HTTPS

	AdminEmail string // Optional: account promoted to admin at startup

	PostCacheTTL time.Duration // Published-post cache TTL (default 5min)
}

// LoadConfig reads configuration from the environment, loading a .env file
// first when one exists next to the binary.
func LoadConfig() (Config, error) {
	// Silent no-op when no .env exists; real deployments set env directly.
	_ = godotenv.Load()

	cfg := Config{
		Site: views.SiteConfig{
			Name:        envOr("SITE_NAME", "Irudium"),
			URL:         strings.TrimSuffix(envOr("SITE_URL", "http://localhost:3000"), "/"),
			Description: os.Getenv("SITE_DESCRIPTION"),
			Author:      os.Getenv("SITE_AUTHOR"),
		},
		Addr:          envOr("ADDR", ":3000"),
		DatabasePath:  envOr("DATABASE_PATH", "data/site.db"),
		SessionSecret: os.Getenv("SESSION_SECRET"),
		CookieSecure:  strings.EqualFold(os.Getenv("COOKIE_SECURE"), "true"),
		AdminEmail:    strings.ToLower(strings.TrimSpace(os.Getenv("ADMIN_EMAIL"))),
		PostCacheTTL:  5 * time.Minute,
	}
	if v := os.Getenv("POST_CACHE_TTL"); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("parse POST_CACHE_TTL: %w", err)
		}
		cfg.PostCacheTTL = ttl
	}
	if cfg.SessionSecret == "" {
		return Config{}, fmt.Errorf("SESSION_SECRET environment variable is required")
	}
	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
