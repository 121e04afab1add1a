// Package config はアプリケーション設定を環境変数から読み込みます。
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"todo_backend/internal/platform/db"
	"todo_backend/internal/platform/redis"
)

// DefaultJWTSecret は JWT_SECRET 未設定時に使われる開発用の値です。
const DefaultJWTSecret = "your-secret-key"

// Config holds runtime configuration for the API server.
type Config struct {
	NodeEnv string `envconfig:"NODE_ENV" default:"development"`
	Port    string `envconfig:"PORT" default:"3000"`

	DatabaseURL      string        `envconfig:"DATABASE_URL"`
	PGHost           string        `envconfig:"PGHOST"`
	PGPort           string        `envconfig:"PGPORT" default:"5432"`
	PGUser           string        `envconfig:"PGUSER"`
	PGPassword       string        `envconfig:"PGPASSWORD"`
	PGDatabase       string        `envconfig:"PGDATABASE"`
	PGSSLMode        string        `envconfig:"PGSSLMODE" default:"require"`
	SQLitePath       string        `envconfig:"SQLITE_PATH" default:"file::memory:?cache=shared"`
	DBConnectTimeout time.Duration `envconfig:"DB_CONNECT_TIMEOUT" default:"20s"`
	RunMigrations    bool          `envconfig:"RUN_MIGRATIONS" default:"true"`

	JWTSecret string        `envconfig:"JWT_SECRET" default:"your-secret-key"`
	JWTTTL    time.Duration `envconfig:"JWT_TTL" default:"168h"`

	AllowedOrigins []string `envconfig:"ALLOWED_ORIGINS" default:"http://localhost:5173"`

	RedisAddr     string        `envconfig:"REDIS_ADDR"`
	RedisPassword string        `envconfig:"REDIS_PASSWORD"`
	UserCacheTTL  time.Duration `envconfig:"USER_CACHE_TTL" default:"5m"`

	LogFormat string `envconfig:"LOG_FORMAT" default:"text"`
	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
}

// Load reads .env (if present) and then the process environment.
func Load() (*Config, error) {
	// .env が無いのは正常
	_ = godotenv.Load()
	return LoadFromEnv()
}

// LoadFromEnv reads configuration from environment variables only.
func LoadFromEnv() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.JWTTTL <= 0 {
		return errors.New("JWT_TTL must be positive")
	}
	port, err := strconv.Atoi(c.Port)
	if err != nil || port <= 0 || port > 65535 {
		return fmt.Errorf("invalid PORT %q", c.Port)
	}
	for i, o := range c.AllowedOrigins {
		c.AllowedOrigins[i] = strings.TrimSpace(o)
	}
	return nil
}

// IsProduction returns true when the application runs in production.
func (c *Config) IsProduction() bool {
	return c != nil && c.NodeEnv == "production"
}

// IsDevelopment reports whether error details may be exposed to clients.
func (c *Config) IsDevelopment() bool {
	return c != nil && c.NodeEnv == "development"
}

// UsesDefaultSecret reports whether JWT_SECRET was left at its development value.
func (c *Config) UsesDefaultSecret() bool {
	return c.JWTSecret == DefaultJWTSecret
}

// Addr is the listen address.
func (c *Config) Addr() string {
	return ":" + c.Port
}

// Database returns the connection settings for platform/db.
func (c *Config) Database() db.Config {
	return db.Config{
		URL:            c.DatabaseURL,
		Host:           c.PGHost,
		Port:           c.PGPort,
		User:           c.PGUser,
		Password:       c.PGPassword,
		Name:           c.PGDatabase,
		SSLMode:        c.PGSSLMode,
		SQLitePath:     c.SQLitePath,
		ConnectTimeout: c.DBConnectTimeout,
	}
}

// Redis returns the connection settings for platform/redis.
func (c *Config) Redis() redis.Config {
	return redis.Config{Addr: c.RedisAddr, Password: c.RedisPassword}
}

// SlogLevel parses LOG_LEVEL, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return lvl
}
