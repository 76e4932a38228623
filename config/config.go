// Package config loads service configuration from environment variables.
//
// An optional .env file in the working directory is read first (via godotenv);
// real environment variables always win over values from the file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Database drivers supported by the credential store.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config is the root configuration object.
type Config struct {
	Service    ServiceConfig
	Logging    LoggingConfig
	Tracing    TracingConfig
	Profiling  ProfilingConfig
	Database   DatabaseConfig
	Cache      CacheConfig
	Session    SessionConfig
	Generation GenerationConfig
	Shutdown   ShutdownConfig
}

type ServiceConfig struct {
	Name    string
	Version string
	Env     string
	Port    string
	// PublicURL is the navigable address of the web frontend; session
	// redirects are built on top of it.
	PublicURL string
}

type LoggingConfig struct {
	Level string
}

type TracingConfig struct {
	Enabled    bool
	Endpoint   string
	SampleRate float64
}

type ProfilingConfig struct {
	Enabled  bool
	Endpoint string
}

type DatabaseConfig struct {
	Driver     string
	URL        string
	SQLitePath string
	MaxConns   int32
}

type CacheConfig struct {
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	TTL           string
}

type SessionConfig struct {
	QueryParam string
	SigningKey string
	TTL        string
}

type GenerationConfig struct {
	APIKey       string
	Model        string
	RetryDelay   string
	DefaultScore int
}

type ShutdownConfig struct {
	Timeout             string
	ReadinessDrainDelay string
}

// Load builds a Config from the environment, applying defaults for unset values.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Service: ServiceConfig{
			Name:      getEnv("SERVICE_NAME", "vchartered"),
			Version:   getEnv("VERSION", "dev"),
			Env:       getEnv("ENV", "development"),
			Port:      getEnv("PORT", "8080"),
			PublicURL: getEnv("PUBLIC_URL", "http://localhost:8501/"),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Tracing: TracingConfig{
			Enabled:    getEnvBool("TRACING_ENABLED", false),
			Endpoint:   getEnv("OTEL_COLLECTOR_ENDPOINT", "localhost:4318"),
			SampleRate: getEnvFloat("OTEL_SAMPLE_RATE", 0.1),
		},
		Profiling: ProfilingConfig{
			Enabled:  getEnvBool("PROFILING_ENABLED", false),
			Endpoint: getEnv("PYROSCOPE_ENDPOINT", "http://localhost:4040"),
		},
		Database: DatabaseConfig{
			Driver:     getEnv("DB_DRIVER", DriverSQLite),
			URL:        getEnv("DATABASE_URL", ""),
			SQLitePath: getEnv("SQLITE_PATH", "vchartered.db"),
			MaxConns:   int32(getEnvInt("DB_MAX_CONNS", 10)),
		},
		Cache: CacheConfig{
			RedisAddr:     getEnv("REDIS_ADDR", ""),
			RedisPassword: getEnv("REDIS_PASSWORD", ""),
			RedisDB:       getEnvInt("REDIS_DB", 0),
			TTL:           getEnv("LEADERBOARD_CACHE_TTL", "30s"),
		},
		Session: SessionConfig{
			QueryParam: getEnv("SESSION_QUERY_PARAM", "session"),
			SigningKey: getEnv("SESSION_SIGNING_KEY", ""),
			TTL:        getEnv("SESSION_TTL", "0s"),
		},
		Generation: GenerationConfig{
			APIKey:       getEnv("GOOGLE_API_KEY", ""),
			Model:        getEnv("GENERATION_MODEL", "gemini-1.5-flash"),
			RetryDelay:   getEnv("GENERATION_RETRY_DELAY", "2s"),
			DefaultScore: getEnvInt("DEFAULT_SCORE", 0),
		},
		Shutdown: ShutdownConfig{
			Timeout:             getEnv("SHUTDOWN_TIMEOUT", "10s"),
			ReadinessDrainDelay: getEnv("READINESS_DRAIN_DELAY", "0s"),
		},
	}
}

// Validate reports the first configuration problem found.
func (c *Config) Validate() error {
	if c.Service.Port == "" {
		return errors.New("PORT is required")
	}
	if _, err := strconv.Atoi(c.Service.Port); err != nil {
		return fmt.Errorf("PORT must be numeric: %w", err)
	}

	switch c.Database.Driver {
	case DriverPostgres:
		if c.Database.URL == "" {
			return errors.New("DATABASE_URL is required when DB_DRIVER=postgres")
		}
	case DriverSQLite:
		if c.Database.SQLitePath == "" {
			return errors.New("SQLITE_PATH is required when DB_DRIVER=sqlite")
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.Database.Driver)
	}

	if c.Session.QueryParam == "" {
		return errors.New("SESSION_QUERY_PARAM must not be empty")
	}

	if c.Tracing.SampleRate < 0 || c.Tracing.SampleRate > 1 {
		return fmt.Errorf("OTEL_SAMPLE_RATE must be within [0, 1], got %v", c.Tracing.SampleRate)
	}

	durations := map[string]string{
		"SHUTDOWN_TIMEOUT":       c.Shutdown.Timeout,
		"READINESS_DRAIN_DELAY":  c.Shutdown.ReadinessDrainDelay,
		"SESSION_TTL":            c.Session.TTL,
		"GENERATION_RETRY_DELAY": c.Generation.RetryDelay,
		"LEADERBOARD_CACHE_TTL":  c.Cache.TTL,
	}
	for name, value := range durations {
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}

	return nil
}

// GetShutdownTimeoutDuration returns the graceful shutdown timeout.
func (c *Config) GetShutdownTimeoutDuration() time.Duration {
	return parseDurationOr(c.Shutdown.Timeout, 10*time.Second)
}

// GetReadinessDrainDelayDuration returns how long /ready reports 503 before
// the HTTP server stops accepting connections.
func (c *Config) GetReadinessDrainDelayDuration() time.Duration {
	return parseDurationOr(c.Shutdown.ReadinessDrainDelay, 0)
}

// GetSessionTTLDuration returns the signed-token lifetime; zero means no expiry.
func (c *Config) GetSessionTTLDuration() time.Duration {
	return parseDurationOr(c.Session.TTL, 0)
}

func (c *Config) GetGenerationRetryDelayDuration() time.Duration {
	return parseDurationOr(c.Generation.RetryDelay, 2*time.Second)
}

func (c *Config) GetCacheTTLDuration() time.Duration {
	return parseDurationOr(c.Cache.TTL, 30*time.Second)
}

func parseDurationOr(value string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return d
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	v, err := strconv.ParseBool(getEnv(key, ""))
	if err != nil {
		return fallback
	}
	return v
}

func getEnvInt(key string, fallback int) int {
	v, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return fallback
	}
	return v
}

func getEnvFloat(key string, fallback float64) float64 {
	v, err := strconv.ParseFloat(getEnv(key, ""), 64)
	if err != nil {
		return fallback
	}
	return v
}
