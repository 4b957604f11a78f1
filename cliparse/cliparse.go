// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cliparse

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

const (
	DefaultPort         = 3318
	DefaultDatabaseType = "sqlite"
	DefaultLogLevel     = "info"
)

type Config struct {
	Port           int
	DatabaseURL    string
	DatabaseType   string
	AccountKeySalt string
	RedisURL       string
	EventChannel   string
	LogLevel       string
}

// LoadEnvFile loads variables from a .env file without overriding ones
// already set. A missing file is not an error.
func LoadEnvFile(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// ParseFlags validates flags and fills the rest from the environment
func ParseFlags(args []string) (Config, error) {
	var cfg Config

	fset := pflag.NewFlagSet("pollchain", pflag.ContinueOnError)

	// Network config (can be CLI args or env)
	fset.IntVarP(&cfg.Port, "port", "p", 0, "Server port")
	fset.StringVarP(&cfg.DatabaseURL, "database-url", "d", "", "Database URL")
	fset.StringVarP(&cfg.DatabaseType, "database-type", "t", "", "Database type (memory, sqlite or postgres)")
	fset.StringVar(&cfg.RedisURL, "redis-url", "", "Redis URL for call events")
	fset.StringVar(&cfg.EventChannel, "event-channel", "", "Redis channel for call events")
	fset.StringVar(&cfg.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")

	// Secrets (prefer env variables, but allow CLI for dev)
	fset.StringVar(&cfg.AccountKeySalt, "account-salt", "", "Account key salt (prefer env)")

	if err := fset.Parse(args); err != nil {
		return Config{}, err
	}

	// Fall back to environment variables
	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = DefaultPort
		}
	}

	if cfg.DatabaseType == "" {
		cfg.DatabaseType = envOr("DATABASE_TYPE", DefaultDatabaseType)
	}
	switch cfg.DatabaseType {
	case "memory", "sqlite", "postgres":
	default:
		return Config{}, fmt.Errorf("unsupported database type %q", cfg.DatabaseType)
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseURL == "" && cfg.DatabaseType != "memory" {
		return Config{}, errors.New("database URL required (use -d or DATABASE_URL env)")
	}

	// Secrets - MUST be provided
	if cfg.AccountKeySalt == "" {
		cfg.AccountKeySalt = os.Getenv("ACCOUNT_KEY_SALT")
	}
	if cfg.AccountKeySalt == "" {
		return Config{}, errors.New("ACCOUNT_KEY_SALT required")
	}

	if cfg.RedisURL == "" {
		cfg.RedisURL = os.Getenv("REDIS_URL")
	}
	if cfg.EventChannel == "" {
		cfg.EventChannel = os.Getenv("EVENT_CHANNEL")
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = envOr("LOG_LEVEL", DefaultLogLevel)
	}

	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
