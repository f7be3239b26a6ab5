package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port     string
	Database DatabaseConfig
	Log      LogConfig
}

type DatabaseConfig struct {
	Driver        string
	URL           string
	SQLitePath    string
	AutoMigrate   bool
	SlowThreshold time.Duration
}

type LogConfig struct {
	Level  string
	Format string
}

// Load reads an optional .env file from the working directory and then the
// process environment. Variables already set in the environment win.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}
	return FromEnv(), nil
}

func FromEnv() *Config {
	return &Config{
		Port: getEnv("APP_PORT", "8080"),
		Database: DatabaseConfig{
			Driver:        getEnv("DB_DRIVER", "postgres"),
			URL:           os.Getenv("DATABASE_URL"),
			SQLitePath:    getEnv("SQLITE_PATH", "file::memory:?cache=shared&_foreign_keys=on"),
			AutoMigrate:   getBool("AUTO_MIGRATE", false),
			SlowThreshold: time.Duration(getInt("SLOW_QUERY_MS", 200)) * time.Millisecond,
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "text"),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBool(key string, defaultValue bool) bool {
	if b, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return b
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	if i, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return i
	}
	return defaultValue
}
