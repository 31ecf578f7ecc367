package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{
		"POSTS_SOURCE", "POSTS_URL", "POSTS_DATA_FILE", "POSTS_TIMEOUT_SEC",
		"POSTS_LOG_FORMAT", "POSTS_LOG_FILE", "POSTS_THEME", "POSTS_FIXTURE_ADDR",
	} {
		t.Setenv(k, "")
	}

	cfg := Load()

	assert.Equal(t, "remote", cfg.Source.Kind)
	assert.Equal(t, DefaultURL, cfg.Source.URL)
	assert.Empty(t, cfg.Source.DataFile)
	assert.Equal(t, 30*time.Second, cfg.Source.Timeout)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Empty(t, cfg.Log.File)
	assert.Equal(t, "classic", cfg.Theme)
	assert.Equal(t, ":8080", cfg.FixtureAddr)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("POSTS_SOURCE", "static")
	t.Setenv("POSTS_URL", "http://localhost:9999/posts")
	t.Setenv("POSTS_DATA_FILE", "posts.json")
	t.Setenv("POSTS_TIMEOUT_SEC", "5")
	t.Setenv("POSTS_LOG_FORMAT", "json")
	t.Setenv("POSTS_THEME", "neon")

	cfg := Load()

	assert.Equal(t, "static", cfg.Source.Kind)
	assert.Equal(t, "http://localhost:9999/posts", cfg.Source.URL)
	assert.Equal(t, "posts.json", cfg.Source.DataFile)
	assert.Equal(t, 5*time.Second, cfg.Source.Timeout)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "neon", cfg.Theme)
}

func TestGetEnv(t *testing.T) {
	t.Setenv("TEST_ENV_VAR", "value")

	assert.Equal(t, "value", getEnv("TEST_ENV_VAR", "default"))
	assert.Equal(t, "default", getEnv("NON_EXISTENT_POSTS_VAR", "default"))
}

func TestGetEnvInt(t *testing.T) {
	key := "TEST_INT_VAR"

	t.Setenv(key, "123")
	assert.Equal(t, 123, getEnvInt(key, 0))

	t.Setenv(key, "invalid")
	assert.Equal(t, 10, getEnvInt(key, 10))

	t.Setenv(key, "-4")
	assert.Equal(t, 10, getEnvInt(key, 10))

	t.Setenv(key, "")
	assert.Equal(t, 10, getEnvInt(key, 10))
}
