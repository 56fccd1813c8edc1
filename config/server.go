package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
)

// ServerConfig is the process-wide configuration of the candidate search binaries.
type ServerConfig struct {
	Port            string        `env:"PORT,default=8080"`
	DataDir         string        `env:"DATA_DIR,default=./search_data"`
	LogLevel        string        `env:"LOG_LEVEL,default=info"`
	LogFormat       string        `env:"LOG_FORMAT,default=text"`
	TermsFile       string        `env:"TERMS_FILE"`
	DatabaseDriver  string        `env:"DATABASE_DRIVER,default=postgres"`
	DatabaseURL     string        `env:"DATABASE_URL"`
	RedisAddr       string        `env:"REDIS_ADDR"`
	RedisDB         int           `env:"REDIS_DB,default=0"`
	CacheTTL        time.Duration `env:"CACHE_TTL,default=5m"`
	RateLimitRPS    float64       `env:"RATE_LIMIT_RPS,default=20"`
	RateLimitBurst  int           `env:"RATE_LIMIT_BURST,default=40"`
	SnapshotSpec    string        `env:"SNAPSHOT_SCHEDULE,default=@every 5m"`
	MaxWorkers      int           `env:"MAX_WORKERS,default=2"`
	MaxRequestBytes int64         `env:"MAX_REQUEST_BYTES,default=10485760"`
}

// LoadServerConfig reads envFile (when it exists) into the environment and
// decodes the environment into a ServerConfig. Variables already set in
// the environment win over the file.
func LoadServerConfig(envFile string) (ServerConfig, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return ServerConfig{}, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	var cfg ServerConfig
	if err := envdecode.Decode(&cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return ServerConfig{}, fmt.Errorf("decode environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return ServerConfig{}, err
	}
	return cfg, nil
}

// Validate checks values envdecode cannot check on its own.
func (c ServerConfig) Validate() error {
	switch c.DatabaseDriver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("DATABASE_DRIVER must be 'postgres' or 'sqlite', got %q", c.DatabaseDriver)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("LOG_FORMAT must be 'text' or 'json', got %q", c.LogFormat)
	}
	if c.MaxWorkers < 1 {
		return fmt.Errorf("MAX_WORKERS must be at least 1, got %d", c.MaxWorkers)
	}
	if c.RateLimitRPS < 0 || c.RateLimitBurst < 0 {
		return fmt.Errorf("rate limit values cannot be negative")
	}
	return nil
}

// CacheEnabled reports whether a Redis result cache is configured.
func (c ServerConfig) CacheEnabled() bool {
	return c.RedisAddr != ""
}

// DatabaseEnabled reports whether a SQL candidate source is configured.
func (c ServerConfig) DatabaseEnabled() bool {
	return c.DatabaseURL != ""
}
