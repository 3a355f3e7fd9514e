package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"presider/internal/storage"
)

var envKeys = []string{
	"PRESIDER_DATA_DIR",
	"PRESIDER_STORE",
	"PRESIDER_TICK_INTERVAL",
	"PRESIDER_LOG_LEVEL",
}

// clearEnv unsets the presider variables for the test and restores them afterwards.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range envKeys {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, Config{
		Store:        storage.KindYAML,
		TickInterval: 200 * time.Millisecond,
		LogLevel:     "info",
	}, cfg)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFromEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("PRESIDER_DATA_DIR", "/tmp/presider")
	t.Setenv("PRESIDER_STORE", "sqlite")
	t.Setenv("PRESIDER_TICK_INTERVAL", "100ms")
	t.Setenv("PRESIDER_LOG_LEVEL", "debug")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "/tmp/presider", cfg.DataDir)
	assert.Equal(t, storage.KindSQLite, cfg.Store)
	assert.Equal(t, 100*time.Millisecond, cfg.TickInterval)

	level, err := cfg.Level()
	require.NoError(t, err)
	assert.Equal(t, zerolog.DebugLevel, level)
}

func TestLoadFromDotenvFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("PRESIDER_LOG_LEVEL", "warn")

	path := filepath.Join(t.TempDir(), ".env")
	content := "PRESIDER_STORE=sqlite\nPRESIDER_LOG_LEVEL=trace\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, storage.KindSQLite, cfg.Store)
	assert.Equal(t, "warn", cfg.LogLevel, "environment wins over the dotenv file")
}

func TestLoadRejectsBadDuration(t *testing.T) {
	clearEnv(t)
	t.Setenv("PRESIDER_TICK_INTERVAL", "soon")

	_, err := Load("")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := Config{Store: storage.KindYAML, TickInterval: 200 * time.Millisecond, LogLevel: "info"}
	require.NoError(t, valid.Validate())

	cases := map[string]func(*Config){
		"unknown store": func(cfg *Config) { cfg.Store = "bolt" },
		"zero tick":     func(cfg *Config) { cfg.TickInterval = 0 },
		"slow tick":     func(cfg *Config) { cfg.TickInterval = 2 * time.Second },
		"bad log level": func(cfg *Config) { cfg.LogLevel = "loud" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := valid
			mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestResolveDataDir(t *testing.T) {
	dir, err := Config{DataDir: "/srv/presider"}.ResolveDataDir("Presider")
	require.NoError(t, err)
	assert.Equal(t, "/srv/presider", dir)

	dir, err = Config{}.ResolveDataDir("Presider")
	require.NoError(t, err)
	assert.Equal(t, "Presider", filepath.Base(dir))
}
