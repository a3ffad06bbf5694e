// ABOUTME: Centralized configuration for the settlement engine
// ABOUTME: Loads from environment variables with validation and defaults
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all configuration for the settlement engine
type Config struct {
	// Statutory settings
	BaseRate float64 // annual RBI bank rate, e.g. 0.085

	// Advisory LLM settings
	OpenAIKey       string
	ChatModel       string
	BaseURL         string
	AdvisoryTimeout time.Duration

	// Session store settings
	SessionTTL   time.Duration
	SessionLimit int

	// Archive settings
	ArchiveEnabled bool
	CharmHost      string
	CharmDBName    string
	AutoSync       bool
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		BaseRate:        getEnvFloat("SETTLE_BASE_RATE", 0.085),
		OpenAIKey:       os.Getenv("OPENAI_API_KEY"),
		ChatModel:       getEnv("SETTLE_OPENAI_MODEL", "ai/granite-4.0-micro"),
		BaseURL:         os.Getenv("OPENAI_BASE_URL"),
		AdvisoryTimeout: getEnvDuration("ADVISORY_TIMEOUT", 10*time.Second),
		SessionTTL:      getEnvDuration("SETTLE_SESSION_TTL", time.Hour),
		SessionLimit:    getEnvInt("SETTLE_SESSION_LIMIT", 1024),
		ArchiveEnabled:  getEnvBool("SETTLE_ARCHIVE", false),
		CharmHost:       getEnv("CHARM_HOST", "cloud.charm.sh"),
		CharmDBName:     getEnv("CHARM_DB", "settleflow"),
		AutoSync:        getEnvBool("CHARM_AUTO_SYNC", true),
	}

	return cfg, cfg.Validate()
}

func (c *Config) Validate() error {
	if c.BaseRate <= 0 || c.BaseRate >= 1 {
		return fmt.Errorf("SETTLE_BASE_RATE must be a fraction in (0,1), got %f", c.BaseRate)
	}
	if c.AdvisoryTimeout <= 0 {
		return fmt.Errorf("ADVISORY_TIMEOUT must be positive, got %v", c.AdvisoryTimeout)
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SETTLE_SESSION_TTL must be positive, got %v", c.SessionTTL)
	}
	if c.SessionLimit <= 0 {
		return fmt.Errorf("SETTLE_SESSION_LIMIT must be positive, got %d", c.SessionLimit)
	}
	return nil
}

// Helper functions
func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	return v == "true" || v == "1"
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}
