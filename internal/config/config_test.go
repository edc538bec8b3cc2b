package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.Quota.DailyLimit != 100 {
		t.Errorf("DailyLimit = %d, want 100", cfg.Quota.DailyLimit)
	}
	if cfg.Quota.LifetimeLimit != 3000 {
		t.Errorf("LifetimeLimit = %d, want 3000", cfg.Quota.LifetimeLimit)
	}
	if cfg.Quota.Timezone != "Europe/Paris" {
		t.Errorf("Timezone = %q, want Europe/Paris", cfg.Quota.Timezone)
	}
	if cfg.Session.Window != 30*time.Minute {
		t.Errorf("Window = %v, want 30m", cfg.Session.Window)
	}
	if cfg.Session.WarningLead != 5*time.Minute {
		t.Errorf("WarningLead = %v, want 5m", cfg.Session.WarningLead)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("QUOTA_DAILY_LIMIT", "10")
	t.Setenv("SESSION_WINDOW", "1h")
	t.Setenv("SESSION_WARNING_LEAD", "10m")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "9000" {
		t.Errorf("Port = %q, want 9000", cfg.Port)
	}
	if cfg.Quota.DailyLimit != 10 {
		t.Errorf("DailyLimit = %d, want 10", cfg.Quota.DailyLimit)
	}
	if cfg.Session.Window != time.Hour {
		t.Errorf("Window = %v, want 1h", cfg.Session.Window)
	}
	if cfg.Session.WarningLead != 10*time.Minute {
		t.Errorf("WarningLead = %v, want 10m", cfg.Session.WarningLead)
	}
}

func TestLoadInvalidValuesFallBack(t *testing.T) {
	t.Setenv("QUOTA_DAILY_LIMIT", "lots")
	t.Setenv("SESSION_WINDOW", "soon")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Quota.DailyLimit != 100 {
		t.Errorf("DailyLimit = %d, want fallback 100", cfg.Quota.DailyLimit)
	}
	if cfg.Session.Window != 30*time.Minute {
		t.Errorf("Window = %v, want fallback 30m", cfg.Session.Window)
	}
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			Port:   "8080",
			DBPath: "./test.db",
			Quota:  QuotaConfig{DailyLimit: 100, LifetimeLimit: 3000, Timezone: "Europe/Paris"},
			Session: SessionConfig{
				Window:        30 * time.Minute,
				WarningLead:   5 * time.Minute,
				SweepInterval: 5 * time.Minute,
			},
		}
	}

	if err := base().Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty port", func(c *Config) { c.Port = "" }},
		{"empty db path", func(c *Config) { c.DBPath = "" }},
		{"zero daily limit", func(c *Config) { c.Quota.DailyLimit = 0 }},
		{"zero lifetime limit", func(c *Config) { c.Quota.LifetimeLimit = 0 }},
		{"bad timezone", func(c *Config) { c.Quota.Timezone = "Mars/Olympus" }},
		{"zero window", func(c *Config) { c.Session.Window = 0 }},
		{"warning lead longer than window", func(c *Config) { c.Session.WarningLead = time.Hour }},
		{"zero sweep interval", func(c *Config) { c.Session.SweepInterval = 0 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := base()
			tc.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate accepted an invalid config")
			}
		})
	}
}

func TestLocation(t *testing.T) {
	cfg := &Config{Quota: QuotaConfig{Timezone: "Europe/Paris"}}
	if got := cfg.Location().String(); got != "Europe/Paris" {
		t.Errorf("Location = %q, want Europe/Paris", got)
	}
}
