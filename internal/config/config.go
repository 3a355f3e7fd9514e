package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"presider/internal/platform"
	"presider/internal/storage"
)

// Config holds process-level options.
type Config struct {
	DataDir      string        `env:"PRESIDER_DATA_DIR"`
	Store        storage.Kind  `env:"PRESIDER_STORE" envDefault:"yaml"`
	TickInterval time.Duration `env:"PRESIDER_TICK_INTERVAL" envDefault:"200ms"`
	LogLevel     string        `env:"PRESIDER_LOG_LEVEL" envDefault:"info"`
}

// Load reads an optional dotenv file and then the environment.
// A missing dotenv file is not an error.
func Load(dotenvPath string) (Config, error) {
	if dotenvPath != "" {
		if err := godotenv.Load(dotenvPath); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", dotenvPath, err)
		}
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// Validate checks option ranges.
func (cfg Config) Validate() error {
	switch cfg.Store {
	case storage.KindYAML, storage.KindSQLite:
	default:
		return fmt.Errorf("unknown store %q (want yaml or sqlite)", cfg.Store)
	}
	if cfg.TickInterval <= 0 || cfg.TickInterval > time.Second {
		return fmt.Errorf("tick interval %s out of range (0, 1s]", cfg.TickInterval)
	}
	if _, err := cfg.Level(); err != nil {
		return err
	}
	return nil
}

// Level returns the configured log level.
func (cfg Config) Level() (zerolog.Level, error) {
	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(cfg.LogLevel)))
	if err != nil {
		return zerolog.InfoLevel, fmt.Errorf("parse log level: %w", err)
	}
	return level, nil
}

// ResolveDataDir returns DataDir, defaulting to the per-user config directory.
func (cfg Config) ResolveDataDir(appName string) (string, error) {
	if cfg.DataDir != "" {
		return cfg.DataDir, nil
	}
	return platform.DataDir(appName)
}
