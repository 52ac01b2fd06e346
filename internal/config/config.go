// Package config loads server and tool settings from the environment.
// A .env file in the working directory is read first when present; real environment
// variables always win over it.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// ErrParsingConfig is returned when environment values cannot be parsed.
var ErrParsingConfig = errors.New("failed to parse configuration")

// Store backends.
const (
	StoreMemory = "memory"
	StoreFile   = "file"
	StoreRedis  = "redis"
)

// Config holds the settings shared by `turing serve`, `turing mcp` and `turing run`.
// Command-line flags override these values.
type Config struct {
	Dir                 string        `env:"TURING_DIR" envDefault:"."`
	Addr                string        `env:"TURING_ADDR" envDefault:":8080"`
	Store               string        `env:"TURING_STORE" envDefault:"memory"`
	SessionsDir         string        `env:"TURING_SESSIONS_DIR" envDefault:".turing/sessions"`
	RedisURL            string        `env:"TURING_REDIS_URL"`
	SessionTTL          time.Duration `env:"TURING_SESSION_TTL" envDefault:"0s"`
	SessionKey          string        `env:"TURING_SESSION_KEY"` // Base64 AES-256 key; seals stored sessions when set
	SessionFallbackKeys []string      `env:"TURING_SESSION_FALLBACK_KEYS" envSeparator:","`
	MaxSteps            int           `env:"TURING_MAX_STEPS" envDefault:"10000"`
	RunTimeout          time.Duration `env:"TURING_RUN_TIMEOUT" envDefault:"30s"`
	Underflow           string        `env:"TURING_UNDERFLOW" envDefault:"atomic"`
	LogLevel            string        `env:"TURING_LOG_LEVEL" envDefault:"info"`
	LogFile             string        `env:"TURING_LOG_FILE"`
	CORSOrigin          string        `env:"TURING_CORS_ORIGIN" envDefault:"*"`
}

// Load reads the given .env files (default ".env"), then parses the environment.
// Missing .env files are not an error.
func Load(files ...string) (*Config, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read env file: %w", err)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, errors.Join(ErrParsingConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks cross-field constraints.
func (c *Config) Validate() error {
	switch c.Store {
	case StoreMemory, StoreFile:
	case StoreRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("TURING_REDIS_URL is required when TURING_STORE=redis")
		}
	default:
		return fmt.Errorf("unknown store %q (want memory, file or redis)", c.Store)
	}
	if c.MaxSteps < 0 {
		return fmt.Errorf("TURING_MAX_STEPS must not be negative")
	}
	return nil
}
