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

// ValidateConfig checks the loaded configuration for values the server
// cannot run without. GEMINI_API_KEY and PAYSTACK_SECRET_KEY are checked
// per request, not here: their absence is reported to the caller as a
// configuration error rather than preventing startup.
func ValidateConfig(cfg *Config) error {
	var errors []string

	if cfg.ServerPort == "" {
		errors = append(errors, "server port must not be empty")
	}
	if cfg.JWTSecret == "" {
		errors = append(errors, "JWT_SECRET is not set")
	}
	if cfg.DBHost == "" || cfg.DBPort == "" {
		errors = append(errors, "database host and port must not be empty")
	}
	if cfg.GeminiAPIURL == "" {
		errors = append(errors, "Gemini API URL must not be empty")
	}
	if cfg.GeminiModel == "" {
		errors = append(errors, "Gemini model must not be empty")
	}
	if cfg.PaystackAPIURL == "" {
		errors = append(errors, "Paystack API URL must not be empty")
	}
	if cfg.HTTPTimeout <= 0 {
		errors = append(errors, "HTTP timeout must be positive")
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n%s", strings.Join(errors, "\n"))
	}

	return nil
}
