package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// APIKeyEnv is the only environment variable the service reads
const APIKeyEnv = "API_KEY"

// envPaths are searched in order; the first existing file is loaded
var envPaths = []string{
	".env",
	".env.local",
	"../.env",
	"../../.env",
}

// LoadEnv loads variables from the first .env file found. A missing file is
// not an error because the key may be set in the process environment.
func LoadEnv(logger *zap.Logger) error {
	for _, envPath := range envPaths {
		if _, err := os.Stat(envPath); err != nil {
			continue
		}
		if err := godotenv.Load(envPath); err != nil {
			return fmt.Errorf("error loading %s file: %w", envPath, err)
		}
		logger.Info("loaded environment file", zap.String("path", envPath))
		break
	}
	return nil
}

// GetAPIKey reads the Gemini credential and checks its format
func GetAPIKey() (string, error) {
	key := strings.TrimSpace(os.Getenv(APIKeyEnv))
	if key == "" {
		return "", nil
	}
	if err := ValidateAPIKey(key); err != nil {
		return "", fmt.Errorf("invalid %s: %w", APIKeyEnv, err)
	}
	return key, nil
}

// RequireAPIKey fails when no credential is configured
func RequireAPIKey(key string) error {
	if key == "" {
		return fmt.Errorf("%s is not set - export it or add it to a .env file", APIKeyEnv)
	}
	return nil
}

// InitializeConfig loads .env and returns a validated, present API key.
// Any error here is fatal for the serve command.
func InitializeConfig(logger *zap.Logger) (string, error) {
	if err := LoadEnv(logger); err != nil {
		return "", fmt.Errorf("failed to load environment: %w", err)
	}

	key, err := GetAPIKey()
	if err != nil {
		return "", err
	}
	if err := RequireAPIKey(key); err != nil {
		return "", err
	}
	return key, nil
}
