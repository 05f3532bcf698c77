package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// ContentBackend selects where rendered will content is kept.
type ContentBackend string

const (
	// ContentBackendMemory keeps everything in process. Used when no database
	// is configured.
	ContentBackendMemory ContentBackend = "memory"
	// ContentBackendPostgres stores content next to the records, so every
	// write is a single transaction.
	ContentBackendPostgres ContentBackend = "postgres"
	// ContentBackendRedis stores content in Redis and records in Postgres.
	ContentBackendRedis ContentBackend = "redis"
)

// Server captures process level configuration.
type Server struct {
	Addr            string
	LogLevel        string
	ShutdownTimeout time.Duration
	ContentBackend  ContentBackend
	AuditQueueSize  int

	// WriteLimit is the number of will writes one caller may make per
	// WriteWindow. Zero disables limiting.
	WriteLimit  int
	WriteWindow time.Duration

	Database DatabaseConfig
	Redis    RedisConfig
}

// DatabaseConfig configures the Postgres pool. An empty URL means no database.
type DatabaseConfig struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// RedisConfig configures the Redis client. An empty URL means no Redis.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() (Server, error) {
	cfg := Server{
		Addr:            envOr("LEGACYVAULT_ADDR", ":8080"),
		LogLevel:        envOr("LOG_LEVEL", "info"),
		ShutdownTimeout: 10 * time.Second,
		AuditQueueSize:  256,
		WriteLimit:      30,
		WriteWindow:     time.Minute,
		Database: DatabaseConfig{
			URL:             os.Getenv("DATABASE_URL"),
			MaxOpenConns:    10,
			MaxIdleConns:    5,
			ConnMaxLifetime: 30 * time.Minute,
		},
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     10,
			MinIdleConns: 2,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		},
	}

	var err error
	if cfg.Database.MaxOpenConns, err = envInt("DB_MAX_OPEN_CONNS", cfg.Database.MaxOpenConns); err != nil {
		return Server{}, err
	}
	if cfg.AuditQueueSize, err = envInt("AUDIT_QUEUE_SIZE", cfg.AuditQueueSize); err != nil {
		return Server{}, err
	}
	if cfg.ShutdownTimeout, err = envDuration("SHUTDOWN_TIMEOUT", cfg.ShutdownTimeout); err != nil {
		return Server{}, err
	}
	if cfg.WriteLimit, err = envInt("RATE_LIMIT_WRITES", cfg.WriteLimit); err != nil {
		return Server{}, err
	}
	if cfg.WriteWindow, err = envDuration("RATE_LIMIT_WINDOW", cfg.WriteWindow); err != nil {
		return Server{}, err
	}

	backend := strings.ToLower(strings.TrimSpace(os.Getenv("CONTENT_BACKEND")))
	switch {
	case backend == "" && cfg.Database.URL == "":
		cfg.ContentBackend = ContentBackendMemory
	case backend == "":
		cfg.ContentBackend = ContentBackendPostgres
	default:
		cfg.ContentBackend = ContentBackend(backend)
	}
	if err := cfg.validate(); err != nil {
		return Server{}, err
	}
	return cfg, nil
}

func (c Server) validate() error {
	switch c.ContentBackend {
	case ContentBackendMemory:
	case ContentBackendPostgres:
		if c.Database.URL == "" {
			return fmt.Errorf("CONTENT_BACKEND=postgres requires DATABASE_URL")
		}
	case ContentBackendRedis:
		if c.Database.URL == "" || c.Redis.URL == "" {
			return fmt.Errorf("CONTENT_BACKEND=redis requires DATABASE_URL and REDIS_URL")
		}
	default:
		return fmt.Errorf("unknown CONTENT_BACKEND %q", c.ContentBackend)
	}
	if c.Database.MaxOpenConns < 1 {
		return fmt.Errorf("DB_MAX_OPEN_CONNS must be positive")
	}
	if c.AuditQueueSize < 1 {
		return fmt.Errorf("AUDIT_QUEUE_SIZE must be positive")
	}
	if c.WriteLimit < 0 {
		return fmt.Errorf("RATE_LIMIT_WRITES must not be negative")
	}
	if c.WriteLimit > 0 && c.WriteWindow <= 0 {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be positive")
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return n, nil
}

func envDuration(key string, fallback time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return d, nil
}
