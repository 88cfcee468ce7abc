package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ValidateTimeout validates a server timeout. Zero disables the timeout.
func ValidateTimeout(timeout time.Duration, name string) error {
	if timeout < 0 {
		return fmt.Errorf("%s timeout cannot be negative", name)
	}
	if timeout > 30*time.Minute {
		return fmt.Errorf("%s timeout too large (max 30 minutes)", name)
	}
	return nil
}

// ValidateAPIKey validates the Gemini API key format
func ValidateAPIKey(apiKey string) error {
	if apiKey == "" {
		return fmt.Errorf("Gemini API key is required")
	}
	if !strings.HasPrefix(apiKey, "AIza") {
		return fmt.Errorf("invalid Gemini API key format: must start with 'AIza'")
	}
	if len(apiKey) < 30 {
		return fmt.Errorf("invalid Gemini API key format: too short")
	}
	return nil
}

// ValidatePort validates a TCP port number
func ValidatePort(port string) error {
	if port == "" {
		return fmt.Errorf("port is required")
	}
	n, err := strconv.Atoi(port)
	if err != nil {
		return fmt.Errorf("port %q is not a number", port)
	}
	if n < 1 || n > 65535 {
		return fmt.Errorf("port %d out of range (1-65535)", n)
	}
	return nil
}

// ValidateEnvironment accepts "development" or "production"
func ValidateEnvironment(env string) error {
	switch env {
	case EnvDevelopment, EnvProduction:
		return nil
	default:
		return fmt.Errorf("environment must be %q or %q, got %q", EnvDevelopment, EnvProduction, env)
	}
}

// Validate checks every server option
func (c ServerConfig) Validate() error {
	if err := ValidatePort(c.Port); err != nil {
		return err
	}
	if err := ValidateEnvironment(c.Environment); err != nil {
		return err
	}
	for name, timeout := range map[string]time.Duration{
		"read":  c.ReadTimeout,
		"write": c.WriteTimeout,
		"idle":  c.IdleTimeout,
	} {
		if err := ValidateTimeout(timeout, name); err != nil {
			return err
		}
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("session TTL must be positive")
	}
	return nil
}
