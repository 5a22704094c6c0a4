// Package config loads application configuration from environment variables.
package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all runtime configuration for the service. It is built once at
// startup and never mutated afterwards.
type Config struct {
	Port   string
	AppEnv string

	// InternalAPIKey authorizes callers of the token-issue endpoint.
	InternalAPIKey string
	// TokenSecret signs upload capability tokens.
	TokenSecret string

	// Upload policy embedded into every issued token. Callers never supply
	// these values.
	TokenTTL      time.Duration
	MaxUploadSize int64
	AllowedTypes  []string

	// Object storage (S3-compatible: MinIO locally, any S3 provider in production)
	StorageEndpoint   string
	StorageAccessKey  string
	StorageSecretKey  string
	StorageBucket     string
	StorageUseSSL     bool
	StoragePublicBase string // browser-accessible base URL, e.g. "http://localhost:9000/uploads"
}

// Load reads configuration from a .env file (if present) and environment variables.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, reading from environment")
	}

	return &Config{
		Port:   getEnv("PORT", "8080"),
		AppEnv: getEnv("APP_ENV", "development"),

		InternalAPIKey: getEnv("INTERNAL_API_KEY", "change_me_in_production"),
		TokenSecret:    getEnv("TOKEN_SECRET", "change_me_in_production"),

		TokenTTL:      getDuration("TOKEN_TTL", time.Hour),
		MaxUploadSize: getInt64("MAX_UPLOAD_SIZE", 10*1024*1024),
		AllowedTypes: getList("ALLOWED_TYPES",
			"image/jpeg", "image/png", "image/gif", "image/webp", "application/pdf"),

		StorageEndpoint:   getEnv("STORAGE_ENDPOINT", "localhost:9000"),
		StorageAccessKey:  getEnv("STORAGE_ACCESS_KEY", "minioadmin"),
		StorageSecretKey:  getEnv("STORAGE_SECRET_KEY", "minioadmin"),
		StorageBucket:     getEnv("STORAGE_BUCKET", "uploads"),
		StorageUseSSL:     getEnv("STORAGE_USE_SSL", "false") == "true",
		StoragePublicBase: getEnv("STORAGE_PUBLIC_BASE", "http://localhost:9000/uploads"),
	}
}

// IsProduction returns true when the app is running in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("config: invalid %s=%q, using %s", key, v, fallback)
		return fallback
	}
	return d
}

func getInt64(key string, fallback int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n <= 0 {
		log.Printf("config: invalid %s=%q, using %d", key, v, fallback)
		return fallback
	}
	return n
}

func getList(key string, fallback ...string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
