// Package config reads process configuration from the environment.
package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

type Config struct {
	// Web client
	Port       string
	APIBase    string
	DisplayTZ  *time.Location
	TimeLayout string
	PageTTL    time.Duration
	LogLevel   slog.Level

	// Reference store
	StorePort      string
	DBPath         string
	ActionPassword string
	SeedFile       string
}

// Load reads .env (if present) and the environment. A missing .env file is
// only worth a warning; an unknown time zone is an error.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Warn("error loading .env file", "err", err)
	}
	return FromEnv()
}

// FromEnv builds a Config from the current environment only.
func FromEnv() (*Config, error) {
	tzName := getEnv("DISPLAY_TZ", "Asia/Jakarta")
	loc, err := time.LoadLocation(tzName)
	if err != nil {
		return nil, errors.Wrapf(err, "DISPLAY_TZ %q", tzName)
	}
	cfg := &Config{
		Port:           getEnv("PORT", "8080"),
		APIBase:        strings.TrimRight(getEnv("API_BASE", "http://localhost:3000"), "/"),
		DisplayTZ:      loc,
		TimeLayout:     getEnv("TIME_LAYOUT", "02/01/2006 15.04.05"),
		PageTTL:        getEnvAsDuration("PAGE_TTL", 30*time.Minute),
		LogLevel:       parseLevel(getEnv("LOG_LEVEL", "info")),
		StorePort:      getEnv("STORE_PORT", "3000"),
		DBPath:         getEnv("DB_PATH", "tracker.db"),
		ActionPassword: getEnv("ACTION_PASSWORD", ""),
		SeedFile:       getEnv("SEED_FILE", ""),
	}
	return cfg, nil
}

// Logger returns a text logger on stderr at the configured level.
func (c *Config) Logger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: c.LogLevel}))
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	v := getEnv(key, "")
	if d, err := time.ParseDuration(v); err == nil && d > 0 {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil && n > 0 {
		return time.Duration(n) * time.Second
	}
	return fallback
}

func parseLevel(s string) slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return lvl
}
