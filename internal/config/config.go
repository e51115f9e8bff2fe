// Package config provides application configuration.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Port          string
	TelegramToken string
	WebhookSecret string
	GoogleAPIKey  string
	GeminiModel   string
	DBPath        string
	OutputDir     string
	StandardsPath string
	SessionTTL    time.Duration
}

// Load reads configuration from environment variables. The messaging token
// and the model API key are required; everything else has defaults.
func Load() (*Config, error) {
	cfg := &Config{
		Port:          getEnv("PORT", "8080"),
		TelegramToken: getEnv("TELEGRAM_BOT_TOKEN", ""),
		WebhookSecret: getEnv("WEBHOOK_SECRET", ""),
		GoogleAPIKey:  getEnv("GOOGLE_API_KEY", ""),
		GeminiModel:   getEnv("GEMINI_MODEL", ""),
		DBPath:        getEnv("DB_PATH", "./data/planeador.db"),
		OutputDir:     getEnv("OUTPUT_DIR", "./data/output"),
		StandardsPath: getEnv("STANDARDS_PATH", "./estandares_men_detailed.txt"),
		SessionTTL:    7 * 24 * time.Hour,
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required configuration fields are set.
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT cannot be empty")
	}
	if strings.TrimSpace(c.TelegramToken) == "" {
		return fmt.Errorf("TELEGRAM_BOT_TOKEN is required")
	}
	if strings.TrimSpace(c.GoogleAPIKey) == "" {
		return fmt.Errorf("GOOGLE_API_KEY is required")
	}
	if c.DBPath == "" {
		return fmt.Errorf("DB_PATH cannot be empty")
	}
	if c.OutputDir == "" {
		return fmt.Errorf("OUTPUT_DIR cannot be empty")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
