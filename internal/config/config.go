// Package config loads and validates service configuration from the
// environment.
package config

import (
	"fmt"
	"time"

	"github.com/sheking94/not-todo-api/pkg/config"
	"github.com/sheking94/not-todo-api/pkg/database"
)

// Config holds all runtime configuration for the service.
type Config struct {
	ServiceName string `env:"SERVICE_NAME" envDefault:"not-todo-api"`
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	HTTP     HTTPConfig
	Cookie   CookieConfig
	Token    TokenConfig
	Postgres PostgresConfig
	Kafka    KafkaConfig
}

// HTTPConfig holds the HTTP server settings.
type HTTPConfig struct {
	Port            int           `env:"HTTP_PORT" envDefault:"3301"`
	ReadTimeout     time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"10s"`
	WriteTimeout    time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"10s"`
	IdleTimeout     time.Duration `env:"HTTP_IDLE_TIMEOUT" envDefault:"60s"`
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"15s"`
	AllowedOrigins  []string      `env:"HTTP_ALLOWED_ORIGINS" envDefault:"http://localhost:3000" envSeparator:","`
}

// CookieConfig controls the token cookies. Max-age is always derived from
// each token's actual expiry, so only scope attributes live here.
type CookieConfig struct {
	Domain string `env:"COOKIE_DOMAIN" envDefault:"localhost"`
	Path   string `env:"COOKIE_PATH" envDefault:"/"`
}

// TokenConfig holds signing keys and token lifetimes. The PEM values are the
// private keys; public keys are derived. In development both keys may be left
// empty, in which case ephemeral keys are generated at startup.
type TokenConfig struct {
	AccessPrivateKeyPEM  string        `env:"ACCESS_TOKEN_PRIVATE_KEY"`
	RefreshPrivateKeyPEM string        `env:"REFRESH_TOKEN_PRIVATE_KEY"`
	AccessTTL            time.Duration `env:"ACCESS_TOKEN_TTL" envDefault:"15m"`
	RefreshTTL           time.Duration `env:"REFRESH_TOKEN_TTL" envDefault:"8760h"`
	Issuer               string        `env:"TOKEN_ISSUER" envDefault:"not-todo-api"`
}

// PostgresConfig holds database connection settings.
type PostgresConfig struct {
	Host     string `env:"POSTGRES_HOST" envDefault:"localhost"`
	Port     int    `env:"POSTGRES_PORT" envDefault:"5432"`
	User     string `env:"POSTGRES_USER" envDefault:"postgres"`
	Password string `env:"POSTGRES_PASSWORD" envDefault:"postgres"`
	DBName   string `env:"POSTGRES_DB" envDefault:"nottodo"`
	SSLMode  string `env:"POSTGRES_SSLMODE" envDefault:"disable"`

	MaxConns int32 `env:"POSTGRES_MAX_CONNS" envDefault:"10"`
	MinConns int32 `env:"POSTGRES_MIN_CONNS" envDefault:"2"`
}

// KafkaConfig holds event publishing settings. With Enabled false the service
// runs without a broker and publishes nothing.
type KafkaConfig struct {
	Enabled bool     `env:"KAFKA_ENABLED" envDefault:"false"`
	Brokers []string `env:"KAFKA_BROKERS" envDefault:"localhost:9092" envSeparator:","`
}

// Load reads configuration from the environment and validates it.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := config.Load(cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Environment != "development" && c.Environment != "production" {
		return fmt.Errorf("config: unknown environment %q", c.Environment)
	}
	// Ephemeral keys are a development convenience only. A production process
	// that restarts with fresh keys would silently revoke every cookie.
	if c.Environment == "production" {
		if c.Token.AccessPrivateKeyPEM == "" || c.Token.RefreshPrivateKeyPEM == "" {
			return fmt.Errorf("config: signing keys are required in production")
		}
	}
	if c.Token.AccessTTL <= 0 || c.Token.RefreshTTL <= 0 {
		return fmt.Errorf("config: token lifetimes must be positive")
	}
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("config: invalid HTTP port %d", c.HTTP.Port)
	}
	return nil
}

// IsDevelopment reports whether the service runs in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// PostgresConfig converts the loaded settings into the shape the database
// package expects.
func (c *Config) PostgresConfig() *database.PostgresConfig {
	return &database.PostgresConfig{
		Host:     c.Postgres.Host,
		Port:     c.Postgres.Port,
		User:     c.Postgres.User,
		Password: c.Postgres.Password,
		DBName:   c.Postgres.DBName,
		SSLMode:  c.Postgres.SSLMode,
		MaxConns: c.Postgres.MaxConns,
		MinConns: c.Postgres.MinConns,
	}
}
