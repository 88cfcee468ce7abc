package config

import "time"

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"

	DefaultHost = "0.0.0.0"
	DefaultPort = "8080"

	// Uploads of up to 100 MB over slow links need a generous read window.
	DefaultReadTimeout = 10 * time.Minute
	// Zero: the synchronous API waits as long as the model takes.
	DefaultWriteTimeout = 0
	DefaultIdleTimeout  = 2 * time.Minute

	DefaultSessionTTL   = 30 * time.Minute
	DefaultSweepEvery   = time.Minute
	DefaultShutdownWait = 30 * time.Second
)

// ServerConfig holds the HTTP server options set by command-line flags
type ServerConfig struct {
	Host         string
	Port         string
	Environment  string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	SessionTTL   time.Duration
}

// DefaultServerConfig returns the defaults used by the serve command
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Host:         DefaultHost,
		Port:         DefaultPort,
		Environment:  EnvDevelopment,
		ReadTimeout:  DefaultReadTimeout,
		WriteTimeout: DefaultWriteTimeout,
		IdleTimeout:  DefaultIdleTimeout,
		SessionTTL:   DefaultSessionTTL,
	}
}
