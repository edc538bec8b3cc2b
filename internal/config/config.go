// Package config provides application configuration.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Port            string
	DBPath          string
	WebhookToken    string
	TransportAPIURL string
	Quota           QuotaConfig
	Session         SessionConfig
}

// QuotaConfig controls the per-user message quotas.
type QuotaConfig struct {
	DailyLimit    int
	LifetimeLimit int
	Timezone      string // reference timezone for the daily window
}

// SessionConfig controls inactivity handling.
type SessionConfig struct {
	Window        time.Duration // inactivity window before a session expires
	WarningLead   time.Duration // how long before expiry the warning fires
	SweepInterval time.Duration // periodic sweep for expired sessions
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		Port:            getEnv("PORT", "8080"),
		DBPath:          getEnv("DB_PATH", "./data/pickyourcourses.db"),
		WebhookToken:    getEnv("WEBHOOK_TOKEN", ""),
		TransportAPIURL: getEnv("TRANSPORT_API_URL", ""),
		Quota: QuotaConfig{
			DailyLimit:    getEnvInt("QUOTA_DAILY_LIMIT", 100),
			LifetimeLimit: getEnvInt("QUOTA_LIFETIME_LIMIT", 3000),
			Timezone:      getEnv("QUOTA_TIMEZONE", "Europe/Paris"),
		},
		Session: SessionConfig{
			Window:        getEnvDuration("SESSION_WINDOW", 30*time.Minute),
			WarningLead:   getEnvDuration("SESSION_WARNING_LEAD", 5*time.Minute),
			SweepInterval: getEnvDuration("SESSION_SWEEP_INTERVAL", 5*time.Minute),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required configuration fields are consistent.
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT cannot be empty")
	}
	if c.DBPath == "" {
		return fmt.Errorf("DB_PATH cannot be empty")
	}
	if c.Quota.DailyLimit <= 0 {
		return fmt.Errorf("QUOTA_DAILY_LIMIT must be > 0")
	}
	if c.Quota.LifetimeLimit <= 0 {
		return fmt.Errorf("QUOTA_LIFETIME_LIMIT must be > 0")
	}
	if _, err := time.LoadLocation(c.Quota.Timezone); err != nil {
		return fmt.Errorf("QUOTA_TIMEZONE is not a valid timezone: %w", err)
	}
	if c.Session.Window <= 0 {
		return fmt.Errorf("SESSION_WINDOW must be > 0")
	}
	if c.Session.WarningLead <= 0 || c.Session.WarningLead >= c.Session.Window {
		return fmt.Errorf("SESSION_WARNING_LEAD must be > 0 and shorter than SESSION_WINDOW")
	}
	if c.Session.SweepInterval <= 0 {
		return fmt.Errorf("SESSION_SWEEP_INTERVAL must be > 0")
	}
	return nil
}

// Location returns the reference timezone for the daily quota window.
// Validate guarantees the name loads.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Quota.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return n
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	d, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return d
}
