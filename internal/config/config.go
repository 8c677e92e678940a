// Package config loads server configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// InMemoryDB selects the transient in-memory database. Sessions are
// lost on restart.
const InMemoryDB = ":memory:"

// Config holds everything the server needs to start.
type Config struct {
	// Port the HTTP server listens on.
	Port string
	// DBPath is the sqlite database path, or ":memory:".
	DBPath string
	// JWTSecret signs access tokens. Required.
	JWTSecret string
	// TokenDuration is the access token lifetime.
	TokenDuration time.Duration
	// OCRLanguages is the comma-separated tesseract language list.
	OCRLanguages string
	// MaxUploadBytes caps receipt image uploads.
	MaxUploadBytes int64
}

// Load reads configuration from the environment, applying defaults for
// everything except JWT_SECRET.
func Load() (*Config, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	tokenHours, err := strconv.Atoi(getEnv("TOKEN_DURATION_HOURS", "24"))
	if err != nil {
		return nil, fmt.Errorf("invalid TOKEN_DURATION_HOURS: %w", err)
	}

	maxUpload, err := strconv.ParseInt(getEnv("MAX_UPLOAD_BYTES", "10485760"), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid MAX_UPLOAD_BYTES: %w", err)
	}

	return &Config{
		Port:           getEnv("PORT", "8080"),
		DBPath:         getEnv("DB_PATH", InMemoryDB),
		JWTSecret:      secret,
		TokenDuration:  time.Duration(tokenHours) * time.Hour,
		OCRLanguages:   getEnv("OCR_LANGUAGES", "eng"),
		MaxUploadBytes: maxUpload,
	}, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
