// Package config builds runtime configuration from the environment so main
// stays lean. Every knob has a development-safe default; production overrides
// via SAFEPLATE_* variables.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config is the full runtime configuration.
type Config struct {
	Server     Server
	Redis      Redis
	Postgres   Postgres
	Connectors Connectors
	Engine     Engine
	Audit      Audit
}

// Server captures HTTP server level configuration.
type Server struct {
	Addr            string
	ShutdownTimeout time.Duration
}

// Redis configures the optional Redis-backed dynamic ontology store.
type Redis struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	EntryTTL     time.Duration
}

// Postgres configures the optional PostgreSQL stores.
type Postgres struct {
	URL string
}

// Connectors configures the external food-data sources.
type Connectors struct {
	USDAAPIKey     string
	Timeout        time.Duration
	RateLimit      int
	RetryAttempts  int
	InitialBackoff time.Duration
}

// Engine configures evaluation behavior.
type Engine struct {
	MaxParallelResolves int
}

// Audit configures the audit pipeline.
type Audit struct {
	BufferSize   int
	KafkaBrokers string
	KafkaTopic   string
}

// FromEnv builds a Config from environment variables.
func FromEnv() Config {
	return Config{
		Server: Server{
			Addr:            envStr("SAFEPLATE_ADDR", ":8080"),
			ShutdownTimeout: envDur("SAFEPLATE_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Redis: Redis{
			URL:          os.Getenv("SAFEPLATE_REDIS_URL"),
			PoolSize:     envInt("SAFEPLATE_REDIS_POOL_SIZE", 10),
			MinIdleConns: envInt("SAFEPLATE_REDIS_MIN_IDLE", 2),
			DialTimeout:  envDur("SAFEPLATE_REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  envDur("SAFEPLATE_REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: envDur("SAFEPLATE_REDIS_WRITE_TIMEOUT", 3*time.Second),
			EntryTTL:     envDur("SAFEPLATE_REDIS_ENTRY_TTL", 24*time.Hour),
		},
		Postgres: Postgres{
			URL: os.Getenv("SAFEPLATE_POSTGRES_URL"),
		},
		Connectors: Connectors{
			USDAAPIKey:     envStr("SAFEPLATE_USDA_API_KEY", "DEMO_KEY"),
			Timeout:        envDur("SAFEPLATE_CONNECTOR_TIMEOUT", 10*time.Second),
			RateLimit:      envInt("SAFEPLATE_CONNECTOR_RATE_LIMIT", 60),
			RetryAttempts:  envInt("SAFEPLATE_CONNECTOR_RETRIES", 3),
			InitialBackoff: envDur("SAFEPLATE_CONNECTOR_BACKOFF", time.Second),
		},
		Engine: Engine{
			MaxParallelResolves: envInt("SAFEPLATE_MAX_PARALLEL_RESOLVES", 8),
		},
		Audit: Audit{
			BufferSize:   envInt("SAFEPLATE_AUDIT_BUFFER", 1024),
			KafkaBrokers: os.Getenv("SAFEPLATE_KAFKA_BROKERS"),
			KafkaTopic:   envStr("SAFEPLATE_KAFKA_TOPIC", "safeplate.audit"),
		},
	}
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envDur(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
