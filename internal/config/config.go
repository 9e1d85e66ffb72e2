// Copyright (c) 2025-2026 Kasa Serena Designs
// SPDX-License-Identifier: GPL-3.0-or-later

// Package config loads and validates the application configuration from
// environment variables.
package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"
)

// knownWeakSecrets contains default/example secrets that must be rejected.
var knownWeakSecrets = []string{
	"change-me-to-32-byte-secret-key!",
	"REPLACE_WITH_YOUR_OWN_SECRET_KEY!",
}

// Config holds the application configuration loaded from environment variables.
type Config struct {
	DBPath        string `env:"SERENA_DB_PATH" envDefault:"./data/serena.db"`
	SessionSecret string `env:"SERENA_SESSION_SECRET,required"`
	ServerHost    string `env:"SERENA_SERVER_HOST" envDefault:"localhost"`
	ServerPort    int    `env:"SERENA_SERVER_PORT" envDefault:"8080"`
	Env           string `env:"SERENA_ENV" envDefault:"development"`
	LogLevel      string `env:"SERENA_LOG_LEVEL" envDefault:"info"`
	UploadsDir    string `env:"SERENA_UPLOADS_DIR" envDefault:"./uploads"`

	// AI provider configuration
	OpenAIAPIKey string `env:"OPENAI_API_KEY"`
	GeminiAPIKey string `env:"GOOGLE_GEMINI_API_KEY"`
	// AIOptional allows the server to start without AI keys. The design
	// generation routes then answer with their canned fallbacks only.
	AIOptional bool `env:"SERENA_AI_OPTIONAL" envDefault:"false"`

	// Cache configuration
	RedisURL    string `env:"SERENA_REDIS_URL"`                         // Optional Redis URL for the catalog cache
	CachePrefix string `env:"SERENA_CACHE_PREFIX" envDefault:"serena:"` // Redis key prefix
	CacheTTL    int    `env:"SERENA_CACHE_TTL" envDefault:"300"`        // Catalog cache TTL in seconds

	// GeoIP configuration
	GeoIPDBPath string `env:"SERENA_GEOIP_DB_PATH"` // Path to GeoLite2-Country.mmdb file

	// Seeding configuration
	DoSeed        bool   `env:"SERENA_DO_SEED" envDefault:"false"` // Seed catalog sample data
	AdminEmail    string `env:"SERENA_ADMIN_EMAIL"`                // Optional seeded admin account
	AdminPassword string `env:"SERENA_ADMIN_PASSWORD"`
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// UseRedisCache returns true if Redis caching is configured.
func (c Config) UseRedisCache() bool {
	return c.RedisURL != ""
}

// GeoIPEnabled returns true if a GeoIP database is configured.
func (c Config) GeoIPEnabled() bool {
	return c.GeoIPDBPath != ""
}

// MinSessionSecretLength is the minimum required length for the session secret.
const MinSessionSecretLength = 32

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if len(cfg.SessionSecret) < MinSessionSecretLength {
		return nil, fmt.Errorf("SERENA_SESSION_SECRET must be at least %d bytes long, got %d bytes; "+
			"generate a secure secret with: openssl rand -base64 32",
			MinSessionSecretLength, len(cfg.SessionSecret))
	}

	for _, weak := range knownWeakSecrets {
		if cfg.SessionSecret == weak {
			return nil, fmt.Errorf("SERENA_SESSION_SECRET is a known default value and must not be used; " +
				"generate a secure secret with: openssl rand -base64 32")
		}
	}

	// The AI gateways are constructed at startup and fail fast on a missing
	// key unless explicitly allowed to run without one.
	if !cfg.AIOptional {
		if cfg.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY is required (set SERENA_AI_OPTIONAL=true to run without AI providers)")
		}
		if cfg.GeminiAPIKey == "" {
			return nil, fmt.Errorf("GOOGLE_GEMINI_API_KEY is required (set SERENA_AI_OPTIONAL=true to run without AI providers)")
		}
	}

	if !hasMinimumEntropy(cfg.SessionSecret) {
		slog.Warn("SERENA_SESSION_SECRET has low character diversity; " +
			"consider generating a random secret with: openssl rand -base64 32")
	}

	return cfg, nil
}

// hasMinimumEntropy checks that a secret contains at least 3 character classes
// (lowercase, uppercase, digits, special characters).
func hasMinimumEntropy(s string) bool {
	charTypes := 0
	if strings.ContainsAny(s, "abcdefghijklmnopqrstuvwxyz") {
		charTypes++
	}
	if strings.ContainsAny(s, "ABCDEFGHIJKLMNOPQRSTUVWXYZ") {
		charTypes++
	}
	if strings.ContainsAny(s, "0123456789") {
		charTypes++
	}
	if strings.ContainsAny(s, "!@#$%^&*()-_=+[]{}|;:,.<>?/~`'\"\\") {
		charTypes++
	}
	return charTypes >= 3
}
