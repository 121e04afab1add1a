package config

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv unsets every variable the loader reads so the host environment cannot leak in.
// t.Setenv registers the restore; envconfig treats an empty value as set.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"NODE_ENV", "PORT", "DATABASE_URL", "PGHOST", "PGPORT", "PGUSER", "PGPASSWORD", "PGDATABASE",
		"PGSSLMODE", "SQLITE_PATH", "DB_CONNECT_TIMEOUT", "RUN_MIGRATIONS", "JWT_SECRET", "JWT_TTL",
		"ALLOWED_ORIGINS", "REDIS_ADDR", "REDIS_PASSWORD", "USER_CACHE_TTL", "LOG_FORMAT", "LOG_LEVEL",
	} {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}

func TestLoadFromEnv_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadFromEnv()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.NodeEnv)
	assert.True(t, cfg.IsDevelopment())
	assert.False(t, cfg.IsProduction())
	assert.Equal(t, ":3000", cfg.Addr())
	assert.Equal(t, 7*24*time.Hour, cfg.JWTTTL)
	assert.True(t, cfg.UsesDefaultSecret())
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.AllowedOrigins)
	assert.True(t, cfg.RunMigrations)
	assert.False(t, cfg.Database().HasPostgres())
	assert.Equal(t, "file::memory:?cache=shared", cfg.Database().SQLitePath)
	assert.False(t, cfg.Redis().Enabled())
	assert.Equal(t, slog.LevelInfo, cfg.SlogLevel())
}

func TestLoadFromEnv_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("NODE_ENV", "production")
	t.Setenv("PORT", "8080")
	t.Setenv("PGHOST", "db.internal")
	t.Setenv("PGUSER", "todo")
	t.Setenv("PGPASSWORD", "pw")
	t.Setenv("PGDATABASE", "todo_app")
	t.Setenv("JWT_SECRET", "prod-secret")
	t.Setenv("JWT_TTL", "24h")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("RUN_MIGRATIONS", "false")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.False(t, cfg.IsDevelopment())
	assert.Equal(t, ":8080", cfg.Addr())
	assert.False(t, cfg.UsesDefaultSecret())
	assert.Equal(t, 24*time.Hour, cfg.JWTTTL)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.AllowedOrigins)
	assert.False(t, cfg.RunMigrations)
	assert.True(t, cfg.Redis().Enabled())
	assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())

	dbCfg := cfg.Database()
	assert.True(t, dbCfg.HasPostgres())
	assert.Equal(t, "5432", dbCfg.Port)
	assert.Equal(t, "require", dbCfg.SSLMode)
}

func TestLoadFromEnv_Invalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"zero ttl", "JWT_TTL", "0s"},
		{"unparsable ttl", "JWT_TTL", "soon"},
		{"non numeric port", "PORT", "http"},
		{"port out of range", "PORT", "70000"},
		{"bad migrations flag", "RUN_MIGRATIONS", "maybe"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.val)

			_, err := LoadFromEnv()
			assert.Error(t, err)
		})
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&Config{LogFormat: "json", LogLevel: "warn"}, &buf)

	logger.Info("dropped")
	logger.Warn("kept", "user_id", "u-1")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "kept", line["msg"])
	assert.Equal(t, "u-1", line["user_id"])

	buf.Reset()
	NewLogger(&Config{LogFormat: "text"}, &buf).Info("hello")
	assert.Contains(t, buf.String(), "msg=hello")
}
