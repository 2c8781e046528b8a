package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const (
	defaultServerPort     = "5000"
	defaultDevDatabaseURL = "sqlite://recipes.db"
	defaultRateLimitBurst = 20
	defaultLogLevel       = "info"
	defaultLogFormat      = "json"
	defaultShutdown       = 10 * time.Second
)

// Config holds all configuration for the application
type Config struct {
	Environment Environment

	// Server configuration
	ServerHost      string
	ServerPort      string
	ShutdownTimeout time.Duration

	// Storage configuration
	DatabaseURL string

	// Redis is optional; without it rate limiting stays in-process
	RedisURL string

	// HTTP surface
	AllowedOrigins []string
	RateLimit      float64
	RateLimitBurst int

	// Logging
	LogLevel  string
	LogFormat string
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	return c.ServerHost + ":" + c.ServerPort
}

// LoadConfig creates a new Config instance with values from environment variables or secrets
func LoadConfig() (*Config, error) {
	env := GetEnvironment()
	cfg := &Config{Environment: env}

	if err := load(cfg); err != nil {
		return nil, fmt.Errorf("failed to load %s configuration: %w", env, err)
	}

	// Production must name its storage explicitly
	if cfg.DatabaseURL == "" && env != Production {
		cfg.DatabaseURL = defaultDevDatabaseURL
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func load(cfg *Config) error {
	cfg.ServerHost = lookup("SERVER_HOST", "server_host")
	cfg.ServerPort = firstNonEmpty(os.Getenv("PORT"), lookup("SERVER_PORT", "server_port"), defaultServerPort)
	cfg.DatabaseURL = lookup("DATABASE_URL", "database_url")
	cfg.RedisURL = lookup("REDIS_URL", "redis_url")
	cfg.AllowedOrigins = splitList(firstNonEmpty(os.Getenv("CORS_ALLOWED_ORIGINS"), "*"))
	cfg.LogLevel = firstNonEmpty(os.Getenv("LOG_LEVEL"), defaultLogLevel)
	cfg.LogFormat = firstNonEmpty(os.Getenv("LOG_FORMAT"), defaultLogFormat)

	var err error
	if cfg.RateLimit, err = floatEnv("RATE_LIMIT", 0); err != nil {
		return err
	}
	if cfg.RateLimitBurst, err = intEnv("RATE_LIMIT_BURST", defaultRateLimitBurst); err != nil {
		return err
	}
	if cfg.ShutdownTimeout, err = durationEnv("SHUTDOWN_TIMEOUT", defaultShutdown); err != nil {
		return err
	}

	return nil
}

// lookup prefers the environment variable and falls back to the Docker secret
func lookup(envVar, secret string) string {
	if v := strings.TrimSpace(os.Getenv(envVar)); v != "" {
		return v
	}
	return readSecret(secret)
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	secretPath := filepath.Join(secretsDir, name)
	if data, err := os.ReadFile(secretPath); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func floatEnv(name string, def float64) (float64, error) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, ValidationError{Field: name, Message: fmt.Sprintf("invalid number %q", raw)}
	}
	return v, nil
}

func intEnv(name string, def int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, ValidationError{Field: name, Message: fmt.Sprintf("invalid integer %q", raw)}
	}
	return v, nil
}

func durationEnv(name string, def time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return def, nil
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return 0, ValidationError{Field: name, Message: fmt.Sprintf("invalid duration %q", raw)}
	}
	return v, nil
}
