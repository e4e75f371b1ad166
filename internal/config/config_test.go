package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noEnvFile(t *testing.T) string {
	return filepath.Join(t.TempDir(), "missing.env")
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("TRIGO_DB", filepath.Join(t.TempDir(), "x.db"))

	cfg, err := Load(nil, noEnvFile(t))
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.SessionSize)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Empty(t, cfg.BankDir)
	assert.Equal(t, "Local", cfg.Location.String())
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("TRIGO_DB", "/tmp/env.db")
	t.Setenv("TRIGO_SESSION_SIZE", "5")
	t.Setenv("TRIGO_TIMEZONE", "UTC")

	cfg, err := Load(nil, noEnvFile(t))
	require.NoError(t, err)
	assert.Equal(t, "/tmp/env.db", cfg.DBPath)
	assert.Equal(t, 5, cfg.SessionSize)
	assert.Equal(t, "UTC", cfg.Location.String())
}

func TestLoadFlagsWinOverEnv(t *testing.T) {
	t.Setenv("TRIGO_DB", "/tmp/env.db")
	t.Setenv("TRIGO_LOG_LEVEL", "warn")

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("db", "", "")
	fs.String("log-level", "", "")
	fs.Int("size", 0, "")
	require.NoError(t, fs.Parse([]string{"--db", "/tmp/flag.db", "--size", "3"}))

	cfg, err := Load(fs, noEnvFile(t))
	require.NoError(t, err)
	assert.Equal(t, "/tmp/flag.db", cfg.DBPath)
	assert.Equal(t, 3, cfg.SessionSize)
	// Unset flags fall through to the environment.
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(envFile, []byte("TRIGO_LOG_FILE=/tmp/trigo-test.log\n"), 0o644))
	t.Setenv("TRIGO_DB", filepath.Join(dir, "x.db"))
	t.Cleanup(func() { os.Unsetenv("TRIGO_LOG_FILE") })

	cfg, err := Load(nil, envFile)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/trigo-test.log", cfg.LogFile)
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Setenv("TRIGO_DB", "/tmp/x.db")

	t.Run("size", func(t *testing.T) {
		t.Setenv("TRIGO_SESSION_SIZE", "0")
		_, err := Load(nil, noEnvFile(t))
		assert.Error(t, err)
	})
	t.Run("timezone", func(t *testing.T) {
		t.Setenv("TRIGO_TIMEZONE", "Mars/Olympus")
		_, err := Load(nil, noEnvFile(t))
		assert.Error(t, err)
	})
}
