package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Default placeholder images used when a registration arrives without a file.
const (
	DefaultTeamLogoURL    = "https://cdn.hoopsleague.app/hoops/team_images/1680341770350_basketball.png"
	DefaultPlayerPhotoURL = "https://cdn.hoopsleague.app/hoops/player_images/1680341770350_basketball.png"
)

const (
	DefaultMaxUploadBytes      = 2_000_000
	DefaultServerPort          = 5200
	DefaultOrphanSweepInterval = 10 * time.Minute
	DefaultNewsPublishInterval = time.Minute
)

// Config holds everything the service reads from the environment.
type Config struct {
	DatabaseURL    string
	DBDriver       string
	ServerPort     int
	GatewayToken   string
	AllowedOrigins []string
	LogLevel       string

	R2 R2Config

	DefaultTeamLogoURL    string
	DefaultPlayerPhotoURL string
	MaxUploadBytes        int64

	OrphanSweepInterval time.Duration
	NewsPublishInterval time.Duration
}

// R2Config carries the S3-compatible object store credentials.
type R2Config struct {
	AccountID       string
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string
	PublicBaseURL   string
}

// Load reads configuration from the environment. A .env file is loaded first
// when present; its absence is not an error.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		DatabaseURL:           os.Getenv("DATABASE_URL"),
		DBDriver:              getEnvOrDefault("DB_DRIVER", "postgres"),
		GatewayToken:          os.Getenv("GATEWAY_TOKEN"),
		LogLevel:              getEnvOrDefault("LOG_LEVEL", "info"),
		DefaultTeamLogoURL:    getEnvOrDefault("DEFAULT_TEAM_LOGO_URL", DefaultTeamLogoURL),
		DefaultPlayerPhotoURL: getEnvOrDefault("DEFAULT_PLAYER_PHOTO_URL", DefaultPlayerPhotoURL),
		R2: R2Config{
			AccountID:       os.Getenv("CLOUDFLARE_ACCOUNT_ID"),
			AccessKeyID:     os.Getenv("R2_ACCESS_KEY_ID"),
			SecretAccessKey: os.Getenv("R2_ACCESS_KEY_SECRET"),
			BucketName:      os.Getenv("R2_BUCKET_NAME"),
			PublicBaseURL:   os.Getenv("CDN_BASE_URL"),
		},
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is not set")
	}
	if cfg.DBDriver != "postgres" && cfg.DBDriver != "sqlite" {
		return nil, fmt.Errorf("DB_DRIVER must be postgres or sqlite, got %q", cfg.DBDriver)
	}
	if cfg.GatewayToken == "" {
		return nil, fmt.Errorf("GATEWAY_TOKEN environment variable is not set")
	}
	if cfg.R2.PublicBaseURL == "" && cfg.R2.AccountID != "" {
		cfg.R2.PublicBaseURL = fmt.Sprintf("https://%s.r2.cloudflarestorage.com/%s", cfg.R2.AccountID, cfg.R2.BucketName)
	}

	port, err := strconv.Atoi(getEnvOrDefault("SERVER_PORT", strconv.Itoa(DefaultServerPort)))
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT environment variable: %w", err)
	}
	if port <= 0 || port > 65535 {
		return nil, fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", port)
	}
	cfg.ServerPort = port

	maxBytes, err := strconv.ParseInt(getEnvOrDefault("MAX_UPLOAD_BYTES", strconv.Itoa(DefaultMaxUploadBytes)), 10, 64)
	if err != nil || maxBytes <= 0 {
		return nil, fmt.Errorf("MAX_UPLOAD_BYTES must be a positive integer")
	}
	cfg.MaxUploadBytes = maxBytes

	if cfg.OrphanSweepInterval, err = durationFromEnv("ORPHAN_SWEEP_INTERVAL", DefaultOrphanSweepInterval); err != nil {
		return nil, err
	}
	if cfg.NewsPublishInterval, err = durationFromEnv("NEWS_PUBLISH_INTERVAL", DefaultNewsPublishInterval); err != nil {
		return nil, err
	}

	cfg.AllowedOrigins = splitOrigins(getEnvOrDefault("ALLOWED_ORIGINS", "http://localhost:3000"))

	return cfg, nil
}

// StoreConfigured reports whether every object store credential is present.
func (c *Config) StoreConfigured() bool {
	return c.R2.AccountID != "" && c.R2.AccessKeyID != "" && c.R2.SecretAccessKey != "" && c.R2.BucketName != ""
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func durationFromEnv(key string, def time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %s", key, d)
	}
	return d, nil
}

func splitOrigins(raw string) []string {
	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, origin := range parts {
		origin = strings.TrimSpace(origin)
		if origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}
