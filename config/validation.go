package config

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

var supportedSchemes = map[string]bool{
	"postgres":   true,
	"postgresql": true,
	"sqlite":     true,
	"file":       true,
}

var logLevels = map[string]bool{
	"debug":   true,
	"info":    true,
	"warn":    true,
	"warning": true,
	"error":   true,
}

// ValidateConfig checks every field and reports all problems at once
func ValidateConfig(cfg *Config) error {
	var errs []error

	port, err := strconv.Atoi(cfg.ServerPort)
	if err != nil || port < 1 || port > 65535 {
		errs = append(errs, ValidationError{Field: "SERVER_PORT", Message: fmt.Sprintf("must be a port number, got %q", cfg.ServerPort)})
	}

	if cfg.DatabaseURL == "" {
		errs = append(errs, ValidationError{Field: "DATABASE_URL", Message: fmt.Sprintf("required in %s environment", cfg.Environment)})
	} else if scheme := DatabaseScheme(cfg.DatabaseURL); !supportedSchemes[scheme] {
		errs = append(errs, ValidationError{Field: "DATABASE_URL", Message: fmt.Sprintf("unsupported scheme %q", scheme)})
	}

	if cfg.RedisURL != "" {
		if u, err := url.Parse(cfg.RedisURL); err != nil || (u.Scheme != "redis" && u.Scheme != "rediss") {
			errs = append(errs, ValidationError{Field: "REDIS_URL", Message: "must be a redis:// or rediss:// URL"})
		}
	}

	if cfg.RateLimit < 0 {
		errs = append(errs, ValidationError{Field: "RATE_LIMIT", Message: "must not be negative"})
	}
	if cfg.RateLimit > 0 && cfg.RateLimitBurst < 1 {
		errs = append(errs, ValidationError{Field: "RATE_LIMIT_BURST", Message: "must be at least 1 when rate limiting is enabled"})
	}

	if !logLevels[strings.ToLower(cfg.LogLevel)] {
		errs = append(errs, ValidationError{Field: "LOG_LEVEL", Message: fmt.Sprintf("unknown level %q", cfg.LogLevel)})
	}
	if f := strings.ToLower(cfg.LogFormat); f != "json" && f != "text" {
		errs = append(errs, ValidationError{Field: "LOG_FORMAT", Message: fmt.Sprintf("unknown format %q", cfg.LogFormat)})
	}

	if cfg.ShutdownTimeout <= 0 {
		errs = append(errs, ValidationError{Field: "SHUTDOWN_TIMEOUT", Message: "must be positive"})
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %w", errors.Join(errs...))
	}
	return nil
}

// DatabaseScheme returns the scheme of a storage address. A bare ":memory:" counts as sqlite.
func DatabaseScheme(dsn string) string {
	if dsn == ":memory:" {
		return "sqlite"
	}
	scheme, _, ok := strings.Cut(dsn, ":")
	if !ok {
		return ""
	}
	return strings.ToLower(scheme)
}
