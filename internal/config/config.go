// Package config provides centralized configuration management for the application.
// It loads configuration from environment variables with sensible defaults and
// validates all settings on startup to fail fast on misconfiguration.
package config

import "time"

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Survey    SurveyConfig
	Run       RunConfig
	Artifact  ArtifactConfig
	Rate      RateLimitConfig
	Security  SecurityConfig
	Logging   LoggingConfig
	Retention RetentionConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`

	// Port is the port to listen on (default: 8080)
	Port int `env:"SERVER_PORT" default:"8080"`

	// ReadTimeout is the maximum duration for reading request body (default: 15s)
	ReadTimeout time.Duration `env:"SERVER_READ_TIMEOUT" default:"15s"`

	// WriteTimeout is the maximum duration for writing response (default: 0, runs are long)
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"0s"`

	// IdleTimeout is the keep-alive timeout (default: 60s)
	IdleTimeout time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown (default: 30s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`

	// RequestTimeout is the middleware timeout for non-run requests (default: 60s)
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"60s"`
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	// URL is the PostgreSQL connection string (required)
	// Supports both DATABASE_URL and DB_URL env vars for compatibility
	URL string `env:"DATABASE_URL" envAlt:"DB_URL" required:"true"`

	// MaxConns is the maximum number of connections in the pool (default: 20)
	MaxConns int `env:"DB_MAX_CONNS" default:"20"`

	// MinConns is the minimum number of connections to keep open (default: 4)
	MinConns int `env:"DB_MIN_CONNS" default:"4"`

	// MaxConnLifetime is the maximum lifetime of a connection (default: 1h)
	MaxConnLifetime time.Duration `env:"DB_MAX_CONN_LIFETIME" default:"1h"`

	// MaxConnIdleTime is the maximum idle time before a connection is closed (default: 30m)
	MaxConnIdleTime time.Duration `env:"DB_MAX_CONN_IDLE_TIME" default:"30m"`

	// AutoMigrate applies pending migrations on server start (default: true)
	AutoMigrate bool `env:"DB_AUTO_MIGRATE" default:"true"`
}

// SurveyConfig holds the survey platform API settings.
type SurveyConfig struct {
	// BaseURL is the root of the survey REST API
	BaseURL string `env:"SURVEY_API_URL"`

	// Username and Password are the HTTP basic auth credentials
	Username string `env:"SURVEY_API_USER"`
	Password string `env:"SURVEY_API_PASSWORD"`

	// ChunkSize is the number of interview ids per export request (default: 99)
	ChunkSize int `env:"SURVEY_CHUNK_SIZE" default:"99"`

	// Timeout bounds a single API request (default: 60s)
	Timeout time.Duration `env:"SURVEY_REQUEST_TIMEOUT" default:"60s"`

	// RequestsPerSecond throttles API calls; 0 disables throttling (default: 5)
	RequestsPerSecond float64 `env:"SURVEY_REQUESTS_PER_SECOND" default:"5"`

	// RetryAttempts is the number of tries for a retryable failure (default: 3)
	RetryAttempts int `env:"SURVEY_RETRY_ATTEMPTS" default:"3"`

	// RetryBaseBackoff is the first retry delay (default: 500ms)
	RetryBaseBackoff time.Duration `env:"SURVEY_RETRY_BASE_BACKOFF" default:"500ms"`

	// RetryMaxBackoff caps the retry delay (default: 5s)
	RetryMaxBackoff time.Duration `env:"SURVEY_RETRY_MAX_BACKOFF" default:"5s"`
}

// RunConfig holds project run settings.
type RunConfig struct {
	// MaxConcurrent is the maximum number of parallel runs (default: 2)
	MaxConcurrent int `env:"RUN_MAX_CONCURRENT" default:"2"`

	// MaxWaitTime is how long to wait for a run slot (default: 30s)
	MaxWaitTime time.Duration `env:"RUN_MAX_WAIT_TIME" default:"30s"`

	// Timeout is the maximum duration of a single run (default: 15m)
	Timeout time.Duration `env:"RUN_TIMEOUT" default:"15m"`

	// HistoryLimit is the number of runs returned by history listings (default: 20)
	HistoryLimit int `env:"RUN_HISTORY_LIMIT" default:"20"`
}

// ArtifactConfig holds report artifact settings.
type ArtifactConfig struct {
	// Timezone dates the artifact filename (default: America/Mexico_City)
	Timezone string `env:"ARTIFACT_TIMEZONE" default:"America/Mexico_City"`

	// S3Bucket enables mirroring artifacts to S3 when set
	S3Bucket string `env:"ARTIFACT_S3_BUCKET"`

	// S3Prefix is the key prefix inside the bucket (default: surveybase)
	S3Prefix string `env:"ARTIFACT_S3_PREFIX" default:"surveybase"`
}

// RateLimitConfig holds rate limiting settings per time window.
type RateLimitConfig struct {
	// Enabled controls whether rate limiting is active (default: true)
	Enabled bool `env:"RATE_LIMIT_ENABLED" default:"true"`

	// RequestsPerMinute is the default rate limit per IP (default: 100)
	RequestsPerMinute int `env:"RATE_LIMIT_REQUESTS_PER_MINUTE" default:"100"`

	// RunLimit is requests per minute for run trigger endpoints (default: 6)
	RunLimit int `env:"RATE_LIMIT_RUN" default:"6"`
}

// SecurityConfig holds security-related settings.
type SecurityConfig struct {
	// TrustedProxies is a comma-separated list of trusted proxy CIDRs
	TrustedProxies []string `env:"TRUSTED_PROXIES"`

	// EnableCSP enables Content-Security-Policy headers (default: true)
	EnableCSP bool `env:"SECURITY_ENABLE_CSP" default:"true"`

	// RequireAPIKey protects the JSON API with X-API-Key (default: false)
	RequireAPIKey bool `env:"REQUIRE_API_KEY" default:"false"`

	// APIKeys is a comma-separated list of accepted API keys
	APIKeys []string `env:"API_KEYS"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text, json or pretty (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}

// RetentionConfig holds run history retention settings.
type RetentionConfig struct {
	// RunDays is days to keep finished runs (default: 90)
	RunDays int `env:"RETENTION_RUN_DAYS" default:"90"`

	// CheckInterval is how often to purge old runs (default: 24h)
	CheckInterval time.Duration `env:"RETENTION_CHECK_INTERVAL" default:"24h"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	if c.Host == "" {
		return ":" + itoa(c.Port)
	}
	return c.Host + ":" + itoa(c.Port)
}

// itoa converts an int to string without importing strconv in this file.
func itoa(i int) string {
	if i == 0 {
		return "0"
	}
	var b [20]byte
	n := len(b)
	neg := i < 0
	if neg {
		i = -i
	}
	for i > 0 {
		n--
		b[n] = byte('0' + i%10)
		i /= 10
	}
	if neg {
		n--
		b[n] = '-'
	}
	return string(b[n:])
}
