package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	StorageS3     = "s3"
	StorageMemory = "memory"
)

type Config struct {
	Port     string
	LogLevel string

	// Upload limits
	MaxFileSize     int64
	PreviewRowLimit int

	CORSAllowedOrigins []string

	// GitHub identity lookup
	GitHubAPIURL    string
	IdentityTimeout time.Duration

	// Archive of uploaded datasets. SQLite and S3 are only used when enabled.
	ArchiveEnabled bool
	DatabasePath   string
	StorageBackend string

	// S3
	S3Endpoint        string
	S3AccessKeyID     string
	S3SecretAccessKey string
	S3BucketName      string
	S3UseSSL          bool
}

func Load() (*Config, error) {
	var errs []error

	maxFileSize, err := getEnvInt64("MAX_FILE_SIZE", 50<<20)
	errs = append(errs, err)
	previewLimit, err := getEnvInt("PREVIEW_ROW_LIMIT", 0)
	errs = append(errs, err)
	identityTimeout, err := getEnvDuration("IDENTITY_TIMEOUT", 10*time.Second)
	errs = append(errs, err)

	cfg := &Config{
		Port:               getEnv("PORT", "8080"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		MaxFileSize:        maxFileSize,
		PreviewRowLimit:    previewLimit,
		CORSAllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000")),
		GitHubAPIURL:       getEnv("GITHUB_API_URL", "https://api.github.com"),
		IdentityTimeout:    identityTimeout,
		ArchiveEnabled:     getEnv("ARCHIVE_ENABLED", "false") == "true",
		DatabasePath:       getEnv("DATABASE_PATH", "data/datasets.db"),
		StorageBackend:     getEnv("STORAGE_BACKEND", StorageS3),
		S3Endpoint:         getEnv("S3_ENDPOINT", "localhost:9000"),
		S3AccessKeyID:      getEnv("S3_ACCESS_KEY_ID", "minioadmin"),
		S3SecretAccessKey:  getEnv("S3_SECRET_ACCESS_KEY", "minioadmin"),
		S3BucketName:       getEnv("S3_BUCKET_NAME", "datasets"),
		S3UseSSL:           getEnv("S3_USE_SSL", "false") == "true",
	}

	errs = append(errs, cfg.Validate())
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error

	if c.Port == "" {
		errs = append(errs, errors.New("PORT is required"))
	}
	if c.MaxFileSize <= 0 {
		errs = append(errs, errors.New("MAX_FILE_SIZE must be positive"))
	}
	if c.PreviewRowLimit < 0 {
		errs = append(errs, errors.New("PREVIEW_ROW_LIMIT must not be negative"))
	}
	if c.IdentityTimeout <= 0 {
		errs = append(errs, errors.New("IDENTITY_TIMEOUT must be positive"))
	}
	if c.ArchiveEnabled {
		if c.DatabasePath == "" {
			errs = append(errs, errors.New("DATABASE_PATH is required when ARCHIVE_ENABLED is true"))
		}
		switch c.StorageBackend {
		case StorageS3, StorageMemory:
		default:
			errs = append(errs, fmt.Errorf("STORAGE_BACKEND must be %q or %q, got %q", StorageS3, StorageMemory, c.StorageBackend))
		}
		if c.StorageBackend == StorageS3 && (c.S3Endpoint == "" || c.S3BucketName == "") {
			errs = append(errs, errors.New("S3_ENDPOINT and S3_BUCKET_NAME are required when ARCHIVE_ENABLED is true"))
		}
	}

	return errors.Join(errs...)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue, fmt.Errorf("%s: invalid integer %q", key, value)
	}
	return n, nil
}

func getEnvInt64(key string, defaultValue int64) (int64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return defaultValue, fmt.Errorf("%s: invalid integer %q", key, value)
	}
	return n, nil
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue, fmt.Errorf("%s: invalid duration %q", key, value)
	}
	return d, nil
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
