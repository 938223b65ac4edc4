package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration
type Config struct {
	Server  ServerConfig
	Backend BackendConfig
	Redis   RedisConfig
	Session SessionConfig
	Cache   CacheConfig
	S3      S3Config
	OTEL    OTELConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port            string `envconfig:"PORT" default:"8080"`
	Environment     string `envconfig:"ENV" default:"production"`
	Timezone        string `envconfig:"TIMEZONE" default:"Asia/Ho_Chi_Minh"`
	MaxUploadSizeMB int64  `envconfig:"MAX_UPLOAD_SIZE_MB" default:"2"`
}

// BackendConfig points at the meal-ordering REST backend
type BackendConfig struct {
	BaseURL string        `envconfig:"BACKEND_URL" default:"http://localhost:5000/api"`
	Timeout time.Duration `envconfig:"BACKEND_TIMEOUT" default:"15s"`
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Addr     string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	Password string `envconfig:"REDIS_PASSWORD"`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

// SessionConfig controls the browser session cookie
type SessionConfig struct {
	CookieName   string        `envconfig:"SESSION_COOKIE" default:"mealturn_session"`
	TTL          time.Duration `envconfig:"SESSION_TTL" default:"168h"`
	SecureCookie bool          `envconfig:"SESSION_SECURE_COOKIE" default:"false"`
	// RevalidateAfter is how long a signed-in session trusts its user
	// before asking the backend again
	RevalidateAfter time.Duration `envconfig:"SESSION_REVALIDATE_AFTER" default:"10m"`
	SubmitTTL       time.Duration `envconfig:"SUBMIT_TTL" default:"10m"`
}

// CacheConfig controls the query cache
type CacheConfig struct {
	StaleTime time.Duration `envconfig:"CACHE_STALE_TIME" default:"5m"`
}

// S3Config holds the bucket used for payment QR images. Empty endpoint
// disables uploads.
type S3Config struct {
	Endpoint  string `envconfig:"S3_ENDPOINT"`
	Region    string `envconfig:"S3_REGION" default:"us-east-1"`
	Bucket    string `envconfig:"S3_BUCKET" default:"mealturn-qr"`
	AccessKey string `envconfig:"S3_ACCESS_KEY" default:"any"`
	SecretKey string `envconfig:"S3_SECRET_KEY" default:"any"`
	PublicURL string `envconfig:"S3_PUBLIC_URL"`
}

// OTELConfig holds OpenTelemetry exporter configuration
type OTELConfig struct {
	Enabled        bool   `envconfig:"OTEL_ENABLED" default:"false"`
	ServiceName    string `envconfig:"OTEL_SERVICE_NAME" default:"mealturn-web"`
	ServiceVersion string `envconfig:"OTEL_SERVICE_VERSION" default:"0.1.0"`
	Environment    string `envconfig:"OTEL_ENVIRONMENT" default:"production"`
	Endpoint       string `envconfig:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	InstanceID     string `envconfig:"OTEL_INSTANCE_ID"`
	Token          string `envconfig:"OTEL_TOKEN"`
}

// Load reads configuration from environment variables
// It attempts to load from .env file first, then falls back to system env vars
func Load() (*Config, error) {
	// Try to load .env file (ignore error if not found)
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// Validate checks that all required configuration is present
func (c *Config) Validate() error {
	u, err := url.Parse(c.Backend.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("BACKEND_URL must be an absolute URL, got %q", c.Backend.BaseURL)
	}
	if c.Session.CookieName == "" {
		return fmt.Errorf("SESSION_COOKIE is required")
	}
	if c.Session.TTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive")
	}
	if _, err := time.LoadLocation(c.Server.Timezone); err != nil {
		return fmt.Errorf("TIMEZONE %q is not a known location: %w", c.Server.Timezone, err)
	}
	if c.OTEL.Enabled && c.OTEL.Endpoint == "" {
		return fmt.Errorf("OTEL_EXPORTER_OTLP_ENDPOINT is required when OTEL_ENABLED is set")
	}
	return nil
}

// Location returns the time zone daily menus are expressed in
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Server.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// IsDevelopment reports whether the app runs locally
func (c *Config) IsDevelopment() bool {
	return c.Server.Environment == "development"
}
