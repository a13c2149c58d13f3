package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Settings carries the application-level knobs. Values come from the
// environment with .env support for local development.
type Settings struct {
	Port          string
	AdminEmail    string
	StorageBucket string
	MaxFileBytes  int64
}

const (
	defaultPort          = "8080"
	defaultAdminEmail    = "mbamoveteam@gmail.com"
	defaultStorageBucket = "ai_videos"

	// 500 MB upload ceiling unless overridden.
	defaultMaxFileBytes = 500 * 1024 * 1024
)

// Load reads settings from the environment. A missing .env file is not an
// error; deployed environments set variables directly.
func Load() Settings {
	_ = godotenv.Load()

	settings := Settings{
		Port:          envOr("PORT", defaultPort),
		AdminEmail:    envOr("ADMIN_EMAIL", defaultAdminEmail),
		StorageBucket: envOr("STORAGE_BUCKET", defaultStorageBucket),
		MaxFileBytes:  defaultMaxFileBytes,
	}

	if raw := os.Getenv("MAX_FILE_BYTES"); raw != "" {
		if parsed, err := strconv.ParseInt(raw, 10, 64); err == nil && parsed > 0 {
			settings.MaxFileBytes = parsed
		}
	}

	return settings
}

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
