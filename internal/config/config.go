package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Default allowed origins for development.
var defaultOrigins = []string{
	"http://localhost:3000",
	"http://localhost:8080",
	"http://127.0.0.1:3000",
	"http://127.0.0.1:8080",
}

type Config struct {
	Port        string
	DatabaseURL string

	JWTSecret string
	TokenTTL  time.Duration

	AllowedOrigins []string

	// Attachment object storage. Empty bucket disables the presign
	// endpoint.
	S3Region    string
	S3AccessKey string
	S3SecretKey string
	S3Endpoint  string
	S3Bucket    string

	// Third-party AI keys, loaded for parity with the deployment
	// environment; the core request handling never reads them.
	OpenAIAPIKey    string
	DeepSeekAPIKey  string
	DeepSeekAPIBase string
}

func Load() (*Config, error) {
	cfg := &Config{
		Port:            getEnv("PORT", "8000"),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		JWTSecret:       os.Getenv("JWT_SECRET"),
		AllowedOrigins:  allowedOrigins(),
		S3Region:        getEnv("S3_REGION", "us-east-1"),
		S3AccessKey:     os.Getenv("S3_ACCESS_KEY"),
		S3SecretKey:     os.Getenv("S3_SECRET_KEY"),
		S3Endpoint:      os.Getenv("S3_ENDPOINT"),
		S3Bucket:        os.Getenv("S3_BUCKET"),
		OpenAIAPIKey:    os.Getenv("OPENAI_API_KEY"),
		DeepSeekAPIKey:  os.Getenv("DEEPSEEK_API_KEY"),
		DeepSeekAPIBase: getEnv("DEEPSEEK_API_BASE", "https://api.deepseek.com"),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is not set")
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable is not set")
	}

	expireMinutes := 60 * 24 * 7

	if raw := os.Getenv("ACCESS_TOKEN_EXPIRE_MINUTES"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			return nil, fmt.Errorf("invalid ACCESS_TOKEN_EXPIRE_MINUTES: %q", raw)
		}
		expireMinutes = parsed
	}

	cfg.TokenTTL = time.Duration(expireMinutes) * time.Minute

	return cfg, nil
}

func (c *Config) AttachmentsEnabled() bool {
	return c.S3Bucket != ""
}

func allowedOrigins() []string {
	origins := make([]string, len(defaultOrigins))
	copy(origins, defaultOrigins)

	if raw := os.Getenv("ALLOWED_ORIGINS"); raw != "" {
		for _, origin := range strings.Split(raw, ",") {
			trimmed := strings.TrimSpace(origin)
			if trimmed != "" {
				origins = append(origins, trimmed)
			}
		}
	}

	return origins
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
