// Package config provides centralized configuration management for the application.
// It loads configuration from environment variables with sensible defaults and
// validates all settings on startup to fail fast on misconfiguration.
package config

import (
	"strconv"
	"time"
)

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Server   ServerConfig
	Upload   UploadConfig
	Rate     RateLimitConfig
	Security SecurityConfig
	Logging  LoggingConfig
	Session  SessionConfig
	Dataset  DatasetConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `env:"SERVER_HOST,default=0.0.0.0"`

	// Port is the port to listen on (default: 8080)
	Port int `env:"SERVER_PORT,default=8080"`

	ReadTimeout  time.Duration `env:"SERVER_READ_TIMEOUT,default=15s"`
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT,default=60s"`
	IdleTimeout  time.Duration `env:"SERVER_IDLE_TIMEOUT,default=60s"`

	// ShutdownTimeout bounds graceful shutdown, including waiting for uploads to drain
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT,default=30s"`

	// RequestTimeout is the middleware timeout for requests (default: 60s)
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT,default=60s"`
}

// UploadConfig holds CSV upload processing settings.
type UploadConfig struct {
	// MaxFileSize is the maximum allowed file size in bytes (default: 32MB)
	MaxFileSize int64 `env:"UPLOAD_MAX_FILE_SIZE,default=33554432"`

	// MaxConcurrent is the maximum number of uploads parsed at once (default: 5)
	MaxConcurrent int `env:"UPLOAD_MAX_CONCURRENT,default=5"`

	// MaxWaitTime is how long to wait for an upload slot (default: 30s)
	MaxWaitTime time.Duration `env:"UPLOAD_MAX_WAIT_TIME,default=30s"`
}

// RateLimitConfig holds per-IP rate limiting settings.
type RateLimitConfig struct {
	// Enabled controls whether rate limiting is active (default: true)
	Enabled bool `env:"RATE_LIMIT_ENABLED,default=true"`

	// RequestsPerMinute is the default rate limit per IP (default: 120)
	RequestsPerMinute int `env:"RATE_LIMIT_REQUESTS_PER_MINUTE,default=120"`

	// UploadLimit is requests per minute for the upload endpoint (default: 10)
	UploadLimit int `env:"RATE_LIMIT_UPLOAD,default=10"`
}

// SecurityConfig holds security-related settings.
type SecurityConfig struct {
	// TrustedProxiesStr is a comma-separated list of trusted proxy CIDRs
	TrustedProxiesStr string `env:"TRUSTED_PROXIES"`

	// TrustedProxies is parsed from TrustedProxiesStr
	TrustedProxies []string

	// EnableCSP enables Content-Security-Policy headers (default: true)
	EnableCSP bool `env:"SECURITY_ENABLE_CSP,default=true"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL,default=info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT,default=text"`
}

// SessionConfig controls the per-browser dataset sessions.
type SessionConfig struct {
	// TTL is how long an idle session keeps its dataset (default: 30m)
	TTL time.Duration `env:"SESSION_TTL,default=30m"`

	// CleanupInterval is how often expired sessions are purged (default: 5m)
	CleanupInterval time.Duration `env:"SESSION_CLEANUP_INTERVAL,default=5m"`

	CookieName   string `env:"SESSION_COOKIE_NAME,default=hladb_session"`
	CookieSecure bool   `env:"SESSION_COOKIE_SECURE,default=false"`
}

// DatasetConfig controls how datasets are previewed and searched.
type DatasetConfig struct {
	// DisplayColumnsStr is a pipe-separated list of result columns
	DisplayColumnsStr string `env:"DATASET_DISPLAY_COLUMNS,default=HLA Allele|Allele Classification|Disease|Clinical Significance"`

	// DisplayColumns is parsed from DisplayColumnsStr
	DisplayColumns []string

	// PreviewRows is how many rows the dataset preview shows (default: 5)
	PreviewRows int `env:"DATASET_PREVIEW_ROWS,default=5"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	return c.Host + ":" + strconv.Itoa(c.Port)
}
