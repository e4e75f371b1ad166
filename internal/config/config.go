// Package config resolves runtime settings from defaults, an optional .env
// file, TRIGO_* environment variables and command-line flags, in increasing
// order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/klazic/trigo/internal/quiz"
	"github.com/klazic/trigo/internal/store"
)

// EnvPrefix prefixes every environment variable the app reads.
const EnvPrefix = "TRIGO"

// Keys.
const (
	KeyDB          = "db"
	KeyBank        = "bank"
	KeySessionSize = "session_size"
	KeyTimezone    = "timezone"
	KeyLogFile     = "log_file"
	KeyLogLevel    = "log_level"
)

// Config holds resolved settings.
type Config struct {
	// DBPath is the SQLite file.
	DBPath string
	// BankDir is a question bank directory; empty uses the embedded bank.
	BankDir     string
	SessionSize int
	Location    *time.Location
	LogFile     string
	LogLevel    string
}

// Load resolves the configuration. envFiles are loaded with godotenv when
// present; missing files are ignored. flags may be nil.
func Load(flags *pflag.FlagSet, envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", f, err)
		}
	}

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault(KeyBank, "")
	v.SetDefault(KeySessionSize, quiz.DefaultSessionSize)
	v.SetDefault(KeyTimezone, "Local")
	v.SetDefault(KeyLogFile, "")
	v.SetDefault(KeyLogLevel, "info")

	if flags != nil {
		for key, name := range map[string]string{
			KeyDB:          "db",
			KeyBank:        "bank",
			KeySessionSize: "size",
			KeyLogFile:     "log-file",
			KeyLogLevel:    "log-level",
		} {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	cfg := &Config{
		DBPath:      v.GetString(KeyDB),
		BankDir:     v.GetString(KeyBank),
		SessionSize: v.GetInt(KeySessionSize),
		LogFile:     v.GetString(KeyLogFile),
		LogLevel:    v.GetString(KeyLogLevel),
	}

	if cfg.DBPath == "" {
		p, err := store.DefaultDBPath()
		if err != nil {
			return nil, err
		}
		cfg.DBPath = p
	}
	if cfg.SessionSize <= 0 {
		return nil, fmt.Errorf("%s must be positive, got %d", KeySessionSize, cfg.SessionSize)
	}

	loc, err := time.LoadLocation(v.GetString(KeyTimezone))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", KeyTimezone, err)
	}
	cfg.Location = loc
	return cfg, nil
}
