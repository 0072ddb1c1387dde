// Package config loads server settings from the environment.
//
// An optional .env file in the working directory is read first; variables
// already set in the process environment win over the file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port     int
	DBPath   string
	MediaDir string

	PaginateBy     int
	IndexCacheTTL  time.Duration
	MaxUploadBytes int64
	LogLevel       slog.Level

	JWTSecret  string
	SessionTTL time.Duration

	GitHubClientID     string
	GitHubClientSecret string
	GitHubCallbackURL  string

	AWSBucket          string
	AWSRegion          string
	AWSAccessKeyID     string
	AWSSecretAccessKey string
}

// GitHubEnabled reports whether OAuth login routes should be mounted.
func (c *Config) GitHubEnabled() bool {
	return c.GitHubClientID != "" && c.GitHubClientSecret != ""
}

// S3Enabled reports whether images go to S3 instead of MediaDir.
func (c *Config) S3Enabled() bool {
	return c.AWSBucket != ""
}

// Load reads .env (if present) and then the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config: reading .env: %w", err)
	}
	return FromEnv()
}

// FromEnv builds a Config from the process environment only.
func FromEnv() (*Config, error) {
	var (
		cfg = &Config{
			DBPath:             getEnv("DB_PATH", "data/yatube.db"),
			MediaDir:           getEnv("MEDIA_DIR", "data/media"),
			JWTSecret:          os.Getenv("JWT_SECRET"),
			GitHubClientID:     os.Getenv("GITHUB_CLIENT_ID"),
			GitHubClientSecret: os.Getenv("GITHUB_CLIENT_SECRET"),
			GitHubCallbackURL:  os.Getenv("GITHUB_CALLBACK_URL"),
			AWSBucket:          os.Getenv("AWS_BUCKET_NAME"),
			AWSRegion:          getEnv("AWS_REGION", "us-east-1"),
			AWSAccessKeyID:     os.Getenv("AWS_ACCESS_KEY_ID"),
			AWSSecretAccessKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
		}
		err error
	)

	if cfg.Port, err = getInt("PORT", 8080); err != nil {
		return nil, err
	}
	if cfg.PaginateBy, err = getInt("PAGINATE_BY", 10); err != nil {
		return nil, err
	}
	if cfg.PaginateBy < 1 {
		return nil, fmt.Errorf("config: PAGINATE_BY must be positive, got %d", cfg.PaginateBy)
	}
	if cfg.IndexCacheTTL, err = getDuration("INDEX_CACHE_TTL", 20*time.Second); err != nil {
		return nil, err
	}
	if cfg.SessionTTL, err = getDuration("SESSION_TTL", 14*24*time.Hour); err != nil {
		return nil, err
	}

	maxUpload, err := getInt("MAX_UPLOAD_BYTES", 5<<20)
	if err != nil {
		return nil, err
	}
	cfg.MaxUploadBytes = int64(maxUpload)

	if err := cfg.LogLevel.UnmarshalText([]byte(getEnv("LOG_LEVEL", "info"))); err != nil {
		return nil, fmt.Errorf("config: LOG_LEVEL: %w", err)
	}

	if cfg.GitHubCallbackURL == "" {
		cfg.GitHubCallbackURL = fmt.Sprintf("http://localhost:%d/auth/github/callback", cfg.Port)
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) (int, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("config: %s=%q is not an integer", key, raw)
	}
	return n, nil
}

// getDuration accepts Go durations ("20s", "1h") or a bare number of seconds.
func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue, nil
	}
	if secs, err := strconv.Atoi(raw); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("config: %s=%q is not a duration", key, raw)
	}
	return d, nil
}
