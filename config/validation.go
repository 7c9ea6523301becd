package config

import (
	"fmt"
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

// ValidateConfig checks that the configuration carries everything the
// current environment requires. Test keeps the bar low so unit tests can run
// against an in-memory database without a full environment.
func ValidateConfig(cfg *Config) error {
	var errors []string

	if cfg.JWTSecret == "" {
		errors = append(errors, "JWT_SECRET is required")
	}

	if !IsTest() {
		if cfg.DBPassword == "" {
			errors = append(errors, "DB_PASSWORD is required")
		}
		if cfg.DBHost == "" {
			errors = append(errors, "DB_HOST is required")
		}
		if cfg.DBName == "" {
			errors = append(errors, "DB_NAME is required")
		}
	}

	if IsProduction() {
		if cfg.DBSSLMode == "disable" {
			errors = append(errors, "DB_SSL_MODE must not be 'disable' in production")
		}
		if len(cfg.JWTSecret) < 32 {
			errors = append(errors, "JWT_SECRET must be at least 32 characters in production")
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n%s", strings.Join(errors, "\n"))
	}

	return nil
}
