// Package config loads process configuration from .env and the
// environment via viper: a typed Config struct, a Load() that registers
// defaults before reading overrides, and small parsing helpers for the
// non-string knobs.
package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is every environment-driven knob this service reads.
type Config struct {
	Port           string
	Env            string
	LogLevel       string
	LogFormat      string
	AllowedOrigins []string

	Phase1TimeLimit  time.Duration
	Phase2TimeLimit  time.Duration
	Phase3TimeLimit  time.Duration
	NumSearchWorkers int32

	DefaultMaxTimeLimit time.Duration
}

// Load reads .env (if present) then the environment, falling back to
// setDefaults for anything unset.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			// A malformed .env is a startup error; a missing one is not.
			return nil, err
		}
	}

	cfg := &Config{
		Port:             v.GetString("PORT"),
		Env:              v.GetString("ENV"),
		LogLevel:         v.GetString("LOG_LEVEL"),
		LogFormat:        v.GetString("LOG_FORMAT"),
		AllowedOrigins:   splitAndTrim(v.GetString("ALLOWED_ORIGINS")),
		NumSearchWorkers: int32(v.GetInt("NUM_SEARCH_WORKERS")),
	}

	var err error
	if cfg.Phase1TimeLimit, err = parseDuration(v.GetString("PHASE1_TIME_LIMIT_SECONDS")); err != nil {
		return nil, err
	}
	if cfg.Phase2TimeLimit, err = parseDuration(v.GetString("PHASE2_TIME_LIMIT_SECONDS")); err != nil {
		return nil, err
	}
	if cfg.Phase3TimeLimit, err = parseDuration(v.GetString("PHASE3_TIME_LIMIT_SECONDS")); err != nil {
		return nil, err
	}
	if cfg.DefaultMaxTimeLimit, err = parseDuration(v.GetString("DEFAULT_MAX_TIME_LIMIT_SECONDS")); err != nil {
		return nil, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")
	v.SetDefault("ALLOWED_ORIGINS", "*")
	v.SetDefault("NUM_SEARCH_WORKERS", 8)
	v.SetDefault("PHASE1_TIME_LIMIT_SECONDS", "3600")
	v.SetDefault("PHASE2_TIME_LIMIT_SECONDS", "1200")
	v.SetDefault("PHASE3_TIME_LIMIT_SECONDS", "600")
	v.SetDefault("DEFAULT_MAX_TIME_LIMIT_SECONDS", "180")
}

func parseDuration(seconds string) (time.Duration, error) {
	d, err := time.ParseDuration(seconds + "s")
	if err != nil {
		return 0, err
	}
	return d, nil
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
