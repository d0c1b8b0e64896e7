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
	Chart    ChartConfig
	Render   RenderConfig
	Rate     RateLimitConfig
	Security SecurityConfig
	Logging  LoggingConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`

	// Port is the port to listen on (default: 8080)
	Port int `env:"SERVER_PORT" default:"8080"`

	// ReadTimeout is the maximum duration for reading request body (default: 15s)
	ReadTimeout time.Duration `env:"SERVER_READ_TIMEOUT" default:"15s"`

	// WriteTimeout is the maximum duration for writing response (default: 60s)
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"60s"`

	// IdleTimeout is the keep-alive timeout (default: 60s)
	IdleTimeout time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown (default: 30s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`

	// RequestTimeout is the middleware timeout for requests (default: 30s)
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"30s"`
}

// ChartConfig holds chart building settings.
type ChartConfig struct {
	// DefaultKind is used when a request names no chart kind (default: bar)
	DefaultKind string `env:"CHART_DEFAULT_KIND" default:"bar"`

	// DefaultScheme is used when a request names no colour scheme (default: default)
	DefaultScheme string `env:"CHART_DEFAULT_SCHEME" default:"default"`

	// Locale formats tooltip numbers; Accept-Language overrides it per request (default: en-US)
	Locale string `env:"CHART_LOCALE" default:"en-US"`

	// MaxInputBytes caps pasted data (default: 5MB)
	MaxInputBytes int `env:"CHART_MAX_INPUT_BYTES" default:"5242880"`

	// CacheSize is the number of built specs kept in memory (default: 256)
	CacheSize int `env:"CHART_CACHE_SIZE" default:"256"`
}

// RenderConfig holds image rendering settings.
type RenderConfig struct {
	// Width is the image width in pixels (default: 800)
	Width int `env:"RENDER_WIDTH" default:"800"`

	// Height is the image height in pixels (default: 450)
	Height int `env:"RENDER_HEIGHT" default:"450"`

	// MaxConcurrent is the maximum number of parallel renders (default: 4)
	MaxConcurrent int `env:"RENDER_MAX_CONCURRENT" default:"4"`

	// MaxWaitTime is how long to wait for a render slot (default: 5s)
	MaxWaitTime time.Duration `env:"RENDER_MAX_WAIT_TIME" default:"5s"`

	// CanvasIdleTimeout releases canvases unused for this long (default: 30m)
	CanvasIdleTimeout time.Duration `env:"CANVAS_IDLE_TIMEOUT" default:"30m"`

	// SweepInterval is how often idle canvases are looked for (default: 1m)
	SweepInterval time.Duration `env:"CANVAS_SWEEP_INTERVAL" default:"1m"`
}

// RateLimitConfig holds rate limiting settings per time window.
type RateLimitConfig struct {
	// Enabled controls whether rate limiting is active (default: true)
	Enabled bool `env:"RATE_LIMIT_ENABLED" default:"true"`

	// RequestsPerMinute is the default rate limit per IP (default: 100)
	RequestsPerMinute int `env:"RATE_LIMIT_REQUESTS_PER_MINUTE" default:"100"`

	// RenderLimit is requests per minute for image and workbook endpoints (default: 30)
	RenderLimit int `env:"RATE_LIMIT_RENDER" default:"30"`
}

// SecurityConfig holds security-related settings.
type SecurityConfig struct {
	// TrustedProxies is a comma-separated list of trusted proxy CIDRs
	TrustedProxies []string `env:"TRUSTED_PROXIES"`

	// EnableCSP enables Content-Security-Policy headers (default: true)
	EnableCSP bool `env:"SECURITY_ENABLE_CSP" default:"true"`

	// RequireAPIKey enables X-API-Key checks on /api routes (default: false)
	RequireAPIKey bool `env:"REQUIRE_API_KEY" default:"false"`

	// APIKeys is a comma-separated list of accepted API keys
	APIKeys []string `env:"API_KEYS"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	return c.Host + ":" + strconv.Itoa(c.Port)
}
