package config

import (
	"os"
	"strconv"
	"time"
)

// DefaultURL is the endpoint the remote provider fetches when none is set.
const DefaultURL = "https://jsonplaceholder.typicode.com/posts"

// SourceConfig selects and configures the post provider.
type SourceConfig struct {
	Kind     string // "remote" or "static"
	URL      string
	DataFile string // static only; empty means built-in posts
	Timeout  time.Duration
}

// LogConfig configures the structured logger.
type LogConfig struct {
	Format string // "text" or "json"
	File   string
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables.
type AppConfig struct {
	Source      SourceConfig
	Log         LogConfig
	Theme       string
	FixtureAddr string
}

// Load reads configuration from environment variables.
// A .env file is auto-loaded by main through github.com/joho/godotenv/autoload;
// real environment variables take precedence.
func Load() *AppConfig {
	return &AppConfig{
		Source: SourceConfig{
			Kind:     getEnv("POSTS_SOURCE", "remote"),
			URL:      getEnv("POSTS_URL", DefaultURL),
			DataFile: getEnv("POSTS_DATA_FILE", ""),
			Timeout:  time.Duration(getEnvInt("POSTS_TIMEOUT_SEC", 30)) * time.Second,
		},
		Log: LogConfig{
			Format: getEnv("POSTS_LOG_FORMAT", "text"),
			File:   getEnv("POSTS_LOG_FILE", ""),
		},
		Theme:       getEnv("POSTS_THEME", "classic"),
		FixtureAddr: getEnv("POSTS_FIXTURE_ADDR", ":8080"),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil && i >= 0 {
			return i
		}
	}
	return def
}
