package config

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"PORT", "DB_DRIVER", "SQLITE_PATH", "SESSION_QUERY_PARAM", "SESSION_SIGNING_KEY", "GENERATION_MODEL"} {
		t.Setenv(key, "")
	}

	cfg := Load()
	require.NotNil(t, cfg)

	assert.Equal(t, "8080", cfg.Service.Port)
	assert.Equal(t, DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, "vchartered.db", cfg.Database.SQLitePath)
	assert.Equal(t, "session", cfg.Session.QueryParam)
	assert.Empty(t, cfg.Session.SigningKey)
	assert.Equal(t, "gemini-1.5-flash", cfg.Generation.Model)
	require.NoError(t, cfg.Validate())
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("DATABASE_URL", "postgres://u:p@localhost:5432/vc")
	t.Setenv("SESSION_QUERY_PARAM", "s")
	t.Setenv("SESSION_TTL", "24h")
	t.Setenv("TRACING_ENABLED", "true")
	t.Setenv("OTEL_SAMPLE_RATE", "0.5")

	cfg := Load()

	want := DatabaseConfig{
		Driver:     DriverPostgres,
		URL:        "postgres://u:p@localhost:5432/vc",
		SQLitePath: cfg.Database.SQLitePath,
		MaxConns:   cfg.Database.MaxConns,
	}
	assert.Empty(t, cmp.Diff(want, cfg.Database))
	assert.Equal(t, "9090", cfg.Service.Port)
	assert.Equal(t, "s", cfg.Session.QueryParam)
	assert.Equal(t, 24*time.Hour, cfg.GetSessionTTLDuration())
	assert.True(t, cfg.Tracing.Enabled)
	assert.InDelta(t, 0.5, cfg.Tracing.SampleRate, 1e-9)
	require.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "non numeric port", mutate: func(c *Config) { c.Service.Port = "http" }, wantErr: "PORT must be numeric"},
		{name: "postgres without url", mutate: func(c *Config) { c.Database.Driver = DriverPostgres; c.Database.URL = "" }, wantErr: "DATABASE_URL is required"},
		{name: "unknown driver", mutate: func(c *Config) { c.Database.Driver = "mysql" }, wantErr: "unsupported DB_DRIVER"},
		{name: "empty query param", mutate: func(c *Config) { c.Session.QueryParam = "" }, wantErr: "SESSION_QUERY_PARAM"},
		{name: "bad duration", mutate: func(c *Config) { c.Shutdown.Timeout = "soon" }, wantErr: "SHUTDOWN_TIMEOUT"},
		{name: "sample rate out of range", mutate: func(c *Config) { c.Tracing.SampleRate = 2 }, wantErr: "OTEL_SAMPLE_RATE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Load()
			cfg.Service.Port = "8080"
			cfg.Database.Driver = DriverSQLite
			cfg.Database.SQLitePath = "test.db"
			cfg.Session.QueryParam = "session"
			cfg.Shutdown.Timeout = "10s"
			cfg.Tracing.SampleRate = 0.1
			tt.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestDurationHelpers_FallBackOnGarbage(t *testing.T) {
	cfg := &Config{}
	cfg.Shutdown.Timeout = "garbage"
	cfg.Generation.RetryDelay = ""

	assert.Equal(t, 10*time.Second, cfg.GetShutdownTimeoutDuration())
	assert.Equal(t, time.Duration(0), cfg.GetReadinessDrainDelayDuration())
	assert.Equal(t, 2*time.Second, cfg.GetGenerationRetryDelayDuration())
	assert.Equal(t, 30*time.Second, cfg.GetCacheTTLDuration())
}
