package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	ImageStoreLocal = "local"
	ImageStoreS3    = "s3"
)

type Config struct {
	// Server
	Port         string
	TutorialPort string
	Environment  string
	LogLevel     string

	// Database
	DatabaseURL    string
	StorageTimeout time.Duration

	// Session
	SessionSecret string
	SessionTTL    time.Duration

	// Image generation
	ImageGenURL     string
	ImageGenAPIKey  string
	ImageGenModel   string
	ImageGenSize    string
	ImageGenTimeout time.Duration

	// Image storage
	ImageStore     string
	ImageDir       string
	S3Bucket       string
	S3Region       string
	S3Endpoint     string
	S3AccessKey    string
	S3SecretKey    string
	S3UsePathStyle bool

	// Rate limiting ("20-M" = 20 per minute per IP, empty disables)
	AuthRateLimit string
	// TrustProxy takes the client IP from X-Forwarded-For/X-Real-IP. Only
	// enable behind a proxy that overwrites those headers.
	TrustProxy bool

	// Tutorial
	QuoteInterval time.Duration
}

// Load reads the configuration from the environment. A .env file in the
// working directory is loaded first when present; real environment variables
// win over it.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:            getEnv("PORT", "8000"),
		TutorialPort:    getEnv("TUTORIAL_PORT", "8001"),
		Environment:     getEnv("ENVIRONMENT", "development"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		DatabaseURL:     getEnv("DATABASE_URL", "sqlite:db/db.sqlite3"),
		StorageTimeout:  time.Duration(getEnvInt("STORAGE_TIMEOUT_SECONDS", 5)) * time.Second,
		SessionSecret:   getEnv("SESSION_SECRET", ""),
		SessionTTL:      time.Duration(getEnvInt("SESSION_TTL_HOURS", 24*7)) * time.Hour,
		ImageGenURL:     getEnv("IMAGEGEN_URL", "https://api.openai.com/v1/images/generations"),
		ImageGenAPIKey:  getEnv("IMAGEGEN_API_KEY", ""),
		ImageGenModel:   getEnv("IMAGEGEN_MODEL", "dall-e-2"),
		ImageGenSize:    getEnv("IMAGEGEN_SIZE", "512x512"),
		ImageGenTimeout: time.Duration(getEnvInt("IMAGEGEN_TIMEOUT_SECONDS", 60)) * time.Second,
		ImageStore:      strings.ToLower(getEnv("IMAGE_STORE", ImageStoreLocal)),
		ImageDir:        getEnv("IMAGE_DIR", "static/images"),
		S3Bucket:        getEnv("S3_BUCKET", ""),
		S3Region:        getEnv("S3_REGION", "us-east-1"),
		S3Endpoint:      getEnv("S3_ENDPOINT", ""),
		S3AccessKey:     getEnv("S3_ACCESS_KEY", ""),
		S3SecretKey:     getEnv("S3_SECRET_KEY", ""),
		S3UsePathStyle:  getEnvBool("S3_USE_PATH_STYLE", false),
		AuthRateLimit:   getEnv("AUTH_RATE_LIMIT", "20-M"),
		TrustProxy:      getEnvBool("TRUST_PROXY", false),
		QuoteInterval:   time.Duration(getEnvInt("QUOTE_INTERVAL_MS", 2000)) * time.Millisecond,
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable is required")
	}
	if c.StorageTimeout <= 0 {
		return fmt.Errorf("STORAGE_TIMEOUT_SECONDS must be positive")
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL_HOURS must be positive")
	}
	if c.QuoteInterval <= 0 {
		return fmt.Errorf("QUOTE_INTERVAL_MS must be positive")
	}
	switch c.ImageStore {
	case ImageStoreLocal:
	case ImageStoreS3:
		if c.S3Bucket == "" {
			return fmt.Errorf("S3_BUCKET environment variable is required when IMAGE_STORE=s3")
		}
	default:
		return fmt.Errorf("unknown IMAGE_STORE %q", c.ImageStore)
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return fallback
}
