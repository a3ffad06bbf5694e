// ABOUTME: Tests for environment-backed configuration loading
// ABOUTME: Covers defaults, overrides, malformed values, and validation

package config

import (
	"strings"
	"testing"
	"time"
)

func clearSettleEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"SETTLE_BASE_RATE", "OPENAI_API_KEY", "SETTLE_OPENAI_MODEL", "OPENAI_BASE_URL",
		"ADVISORY_TIMEOUT", "SETTLE_SESSION_TTL", "SETTLE_SESSION_LIMIT",
		"SETTLE_ARCHIVE", "CHARM_HOST", "CHARM_DB", "CHARM_AUTO_SYNC",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearSettleEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.BaseRate != 0.085 {
		t.Errorf("BaseRate = %v, want 0.085", cfg.BaseRate)
	}
	if cfg.ChatModel != "ai/granite-4.0-micro" {
		t.Errorf("ChatModel = %q", cfg.ChatModel)
	}
	if cfg.AdvisoryTimeout != 10*time.Second {
		t.Errorf("AdvisoryTimeout = %v, want 10s", cfg.AdvisoryTimeout)
	}
	if cfg.SessionTTL != time.Hour {
		t.Errorf("SessionTTL = %v, want 1h", cfg.SessionTTL)
	}
	if cfg.SessionLimit != 1024 {
		t.Errorf("SessionLimit = %d, want 1024", cfg.SessionLimit)
	}
	if cfg.ArchiveEnabled {
		t.Error("ArchiveEnabled should default to false")
	}
	if cfg.CharmHost != "cloud.charm.sh" || cfg.CharmDBName != "settleflow" {
		t.Errorf("charm defaults = %q/%q", cfg.CharmHost, cfg.CharmDBName)
	}
	if !cfg.AutoSync {
		t.Error("AutoSync should default to true")
	}
}

func TestLoad_Overrides(t *testing.T) {
	clearSettleEnv(t)
	t.Setenv("SETTLE_BASE_RATE", "0.10")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("SETTLE_OPENAI_MODEL", "gpt-4o-mini")
	t.Setenv("ADVISORY_TIMEOUT", "5s")
	t.Setenv("SETTLE_SESSION_TTL", "30m")
	t.Setenv("SETTLE_SESSION_LIMIT", "64")
	t.Setenv("SETTLE_ARCHIVE", "true")
	t.Setenv("CHARM_AUTO_SYNC", "false")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.BaseRate != 0.10 {
		t.Errorf("BaseRate = %v, want 0.10", cfg.BaseRate)
	}
	if cfg.OpenAIKey != "sk-test" {
		t.Errorf("OpenAIKey = %q", cfg.OpenAIKey)
	}
	if cfg.ChatModel != "gpt-4o-mini" {
		t.Errorf("ChatModel = %q", cfg.ChatModel)
	}
	if cfg.AdvisoryTimeout != 5*time.Second {
		t.Errorf("AdvisoryTimeout = %v", cfg.AdvisoryTimeout)
	}
	if cfg.SessionTTL != 30*time.Minute {
		t.Errorf("SessionTTL = %v", cfg.SessionTTL)
	}
	if cfg.SessionLimit != 64 {
		t.Errorf("SessionLimit = %d", cfg.SessionLimit)
	}
	if !cfg.ArchiveEnabled {
		t.Error("ArchiveEnabled should honor the override")
	}
	if cfg.AutoSync {
		t.Error("AutoSync should honor the false override")
	}
}

func TestLoad_MalformedValuesFallBack(t *testing.T) {
	clearSettleEnv(t)
	t.Setenv("SETTLE_BASE_RATE", "not-a-number")
	t.Setenv("SETTLE_SESSION_LIMIT", "many")
	t.Setenv("ADVISORY_TIMEOUT", "soon")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.BaseRate != 0.085 || cfg.SessionLimit != 1024 || cfg.AdvisoryTimeout != 10*time.Second {
		t.Errorf("malformed values should fall back to defaults, got %+v", cfg)
	}
}

func TestLoad_InvalidBaseRate(t *testing.T) {
	clearSettleEnv(t)
	t.Setenv("SETTLE_BASE_RATE", "1.5")

	if _, err := Load(); err == nil || !strings.Contains(err.Error(), "SETTLE_BASE_RATE") {
		t.Errorf("Load() error = %v, want base-rate validation failure", err)
	}
}

func TestValidate(t *testing.T) {
	valid := Config{
		BaseRate:        0.085,
		AdvisoryTimeout: time.Second,
		SessionTTL:      time.Hour,
		SessionLimit:    10,
	}
	if err := valid.Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero base rate", func(c *Config) { c.BaseRate = 0 }},
		{"base rate at one", func(c *Config) { c.BaseRate = 1 }},
		{"zero timeout", func(c *Config) { c.AdvisoryTimeout = 0 }},
		{"zero TTL", func(c *Config) { c.SessionTTL = 0 }},
		{"zero session limit", func(c *Config) { c.SessionLimit = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate() = nil, want error")
			}
		})
	}
}
