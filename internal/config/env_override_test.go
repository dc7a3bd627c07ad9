package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnvOverrides_APIKey(t *testing.T) {
	t.Run("GOOGLE_API_KEY alone", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("GOOGLE_API_KEY", "google-key")

		cfg := &Config{}
		cfg.applyEnvOverrides()

		assert.Equal(t, "google-key", cfg.Gemini.APIKey)
	})

	t.Run("Precedence: GEMINI overrides GOOGLE", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("GOOGLE_API_KEY", "google-key")
		t.Setenv("GEMINI_API_KEY", "gemini-key")

		cfg := &Config{}
		cfg.applyEnvOverrides()

		assert.Equal(t, "gemini-key", cfg.Gemini.APIKey)
	})

	t.Run("env overrides file value", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("GEMINI_API_KEY", "gemini-key")

		cfg := &Config{Gemini: GeminiConfig{APIKey: "file-key"}}
		cfg.applyEnvOverrides()

		assert.Equal(t, "gemini-key", cfg.Gemini.APIKey)
	})

	t.Run("empty env keeps file value", func(t *testing.T) {
		clearEnv(t)

		cfg := &Config{Gemini: GeminiConfig{APIKey: "file-key"}}
		cfg.applyEnvOverrides()

		assert.Equal(t, "file-key", cfg.Gemini.APIKey)
	})
}

func TestEnvOverrides_Paths(t *testing.T) {
	clearEnv(t)
	t.Setenv("KIDSNEWS_DOCS_DIR", "/srv/paper")
	t.Setenv("KIDSNEWS_LOG_LEVEL", "DEBUG")
	t.Setenv("KIDSNEWS_TEXT_MODEL", "gemini-2.5-flash")
	t.Setenv("KIDSNEWS_IMAGE_MODEL", "imagen-3.0-generate-002")

	cfg := DefaultConfig()
	cfg.applyEnvOverrides()

	assert.Equal(t, "/srv/paper", cfg.Output.DocsDir)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "gemini-2.5-flash", cfg.Gemini.TextModel)
	assert.Equal(t, "imagen-3.0-generate-002", cfg.Gemini.ImageModel)
	assert.NoError(t, cfg.Validate())
}
