package config

import (
	"fmt"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateConfig checks that the loaded configuration is usable. The
// JWT secret is required everywhere except plain test runs; database
// credentials are required in production.
func ValidateConfig(cfg *Config) error {
	if cfg.ServerPort == "" {
		return ValidationError{Field: "ServerPort", Message: "must not be empty"}
	}
	if cfg.JWTSecret == "" && !IsTest() {
		return ValidationError{Field: "JWTSecret", Message: "must be set"}
	}
	if IsProduction() {
		if cfg.DBPassword == "" {
			return ValidationError{Field: "DBPassword", Message: "required in production"}
		}
		if cfg.DBSSLMode == "disable" {
			return ValidationError{Field: "DBSSLMode", Message: "must not be disabled in production"}
		}
	}
	return nil
}
