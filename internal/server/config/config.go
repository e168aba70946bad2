// Package config handles configuration for the server component:
// defaults, environment overlay, and command-line flags, in that order.
// All values are read once at startup; there is no hot reload.
package config

import (
	"fmt"
	"time"
)

// Config holds runtime settings for the authvault server.
//
// Fields:
//   - ServerAddress: bind address for the HTTP endpoint.
//   - DatabaseDSN: full PostgreSQL DSN; when empty it is assembled from the
//     individual Database* fields.
//   - PoolMaxConns / PoolConnTimeout / PoolIdleTimeout: connection pool bounds.
//   - SecretKey: HMAC secret for signing JWTs (HS256). Do not use test
//     defaults in prod.
//   - TokenTTL: bearer token lifetime.
//   - BcryptCost: password hashing work factor.
//   - StartupMaxRetries: probe attempts before startup is declared failed.
type Config struct {
	ServerAddress string `env:"SERVER_ADDRESS"`

	DatabaseDSN      string `env:"DATABASE_DSN"`
	DatabaseHost     string `env:"DATABASE_HOST"`
	DatabasePort     int    `env:"DATABASE_PORT"`
	DatabaseName     string `env:"DATABASE_NAME"`
	DatabaseUser     string `env:"DATABASE_USER"`
	DatabasePassword string `env:"DATABASE_PASSWORD"`
	DatabaseSSLMode  string `env:"DATABASE_SSLMODE"`

	PoolMaxConns    int           `env:"POOL_MAX_CONNS"`
	PoolConnTimeout time.Duration `env:"POOL_CONN_TIMEOUT"`
	PoolIdleTimeout time.Duration `env:"POOL_IDLE_TIMEOUT"`

	SecretKey  string        `env:"JWT_SECRET"`
	TokenTTL   time.Duration `env:"TOKEN_TTL"`
	BcryptCost int           `env:"BCRYPT_COST"`

	StartupMaxRetries uint64 `env:"STARTUP_MAX_RETRIES"`

	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT"`
}

// LoadDefaults populates Config with sensible development defaults.
// NOTE: These values are insecure for production and should be overridden.
func (c *Config) LoadDefaults() {
	c.ServerAddress = ":8080"
	c.DatabaseHost = "localhost"
	c.DatabasePort = 5432
	c.DatabaseName = "authvault"
	c.DatabaseUser = "postgres"
	c.DatabasePassword = "postgres"
	c.DatabaseSSLMode = "disable"
	c.PoolMaxConns = 10
	c.PoolConnTimeout = 5 * time.Second
	c.PoolIdleTimeout = 5 * time.Minute
	c.SecretKey = "secretKey"
	c.TokenTTL = 15 * time.Minute
	c.BcryptCost = 10
	c.StartupMaxRetries = 5
	c.ShutdownTimeout = 10 * time.Second
}

// DSN returns the PostgreSQL connection string: the explicit DatabaseDSN when
// set, otherwise one assembled from the individual fields.
func (c *Config) DSN() string {
	if c.DatabaseDSN != "" {
		return c.DatabaseDSN
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.DatabaseUser, c.DatabasePassword, c.DatabaseHost, c.DatabasePort,
		c.DatabaseName, c.DatabaseSSLMode)
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from environment variables and finally from command-line flags.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseEnv(cfg); err != nil {
		return nil, err
	}
	parseFlags(cfg)
	return cfg, nil
}
