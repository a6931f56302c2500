// Package config loads application settings from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"portal_backend/internal/feature/auth/domain/entity"
	"portal_backend/internal/platform/db"
	"portal_backend/internal/platform/redis"
)

// DefaultSessionSecret is used when SESSION_SECRET is unset. Never rely on it in production.
const DefaultSessionSecret = "fallback-secret"

// Config holds every recognised setting.
type Config struct {
	AppName       string        // APP_NAME, shown on every page
	Port          string        // APP_PORT
	SessionSecret string        // SESSION_SECRET, signs the session cookie
	SessionTTL    time.Duration // SESSION_TTL, 0 means sessions never expire
	CookieSecure  bool          // COOKIE_SECURE
	Quota         entity.Quota  // DEFAULT_CPU, DEFAULT_RAM, DEFAULT_DISK, DEFAULT_TIME
	RunMigrations bool          // RUN_MIGRATIONS
	LogLevel      string        // LOG_LEVEL
	LogJSON       bool          // LOG_FORMAT=json
	DB            db.Config
	Redis         redis.Config
}

// Load reads the configuration from environment variables, applying the
// documented defaults to anything unset.
func Load() (Config, error) {
	cfg := Config{
		AppName:       getenv("APP_NAME", "changeme"),
		Port:          getenv("APP_PORT", "3000"),
		SessionSecret: getenv("SESSION_SECRET", DefaultSessionSecret),
		LogLevel:      getenv("LOG_LEVEL", "info"),
		LogJSON:       os.Getenv("LOG_FORMAT") == "json",
		DB:            db.LoadConfigFromEnv(),
		Redis:         redis.LoadConfigFromEnv(),
	}

	var err error
	if cfg.SessionTTL, err = durationEnv("SESSION_TTL", 0); err != nil {
		return Config{}, err
	}
	if cfg.CookieSecure, err = boolEnv("COOKIE_SECURE", false); err != nil {
		return Config{}, err
	}
	if cfg.RunMigrations, err = boolEnv("RUN_MIGRATIONS", false); err != nil {
		return Config{}, err
	}

	quota := entity.DefaultQuota()
	if quota.CPU, err = intEnv("DEFAULT_CPU", quota.CPU); err != nil {
		return Config{}, err
	}
	if quota.RAM, err = intEnv("DEFAULT_RAM", quota.RAM); err != nil {
		return Config{}, err
	}
	if quota.Disk, err = intEnv("DEFAULT_DISK", quota.Disk); err != nil {
		return Config{}, err
	}
	quota.Time = getenv("DEFAULT_TIME", quota.Time)
	cfg.Quota = quota

	return cfg, nil
}

// Addr returns the listen address for the HTTP server.
func (c Config) Addr() string {
	return ":" + c.Port
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func intEnv(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	if n < 0 {
		return 0, fmt.Errorf("invalid %s %q: must not be negative", key, v)
	}
	return n, nil
}

func boolEnv(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return b, nil
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" || v == "0" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid %s %q: must not be negative", key, v)
	}
	return d, nil
}
