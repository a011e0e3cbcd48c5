package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"APP_PORT", "LLM_PROVIDER", "LLM_MODEL", "LLM_TEMPERATURE", "GENERATION_TIMEOUT", "WORKSPACE_TTL", "PREVIEW_LANGUAGE", "NATS_URL", "REDIS_URL"} {
		// Setenv registers the restore, Unsetenv clears it for this test
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
	cfg := Load()

	assert.Equal(t, "3000", cfg.App.Port)
	assert.Equal(t, "gemini", cfg.Ai.LLMProvider)
	assert.Empty(t, cfg.Ai.LLMModel, "each provider picks its own default model")
	assert.Equal(t, "html", cfg.Workspace.PreviewLanguage)
	assert.Empty(t, cfg.App.NatsURL)
	assert.Empty(t, cfg.App.RedisURL)
	assert.Equal(t, 0.2, cfg.Ai.Temperature)
	assert.Equal(t, 5*time.Minute, cfg.Workspace.GenerationTimeout)
	assert.Equal(t, 2*time.Hour, cfg.Workspace.TTL)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("APP_PORT", "8080")
	t.Setenv("GO_ENV", "production")
	t.Setenv("LLM_PROVIDER", "ollama")
	t.Setenv("LLM_TEMPERATURE", "0.7")
	t.Setenv("LLM_THINKING_BUDGET", "not-a-number")
	t.Setenv("GENERATION_TIMEOUT", "90s")
	t.Setenv("BODY_LIMIT_MB", "25")

	cfg := Load()

	assert.Equal(t, "8080", cfg.App.Port)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "ollama", cfg.Ai.LLMProvider)
	assert.Equal(t, 0.7, cfg.Ai.Temperature)
	assert.Equal(t, 8000, cfg.Ai.ThinkingBudget)
	assert.Equal(t, 90*time.Second, cfg.Workspace.GenerationTimeout)
	assert.Equal(t, 25, cfg.App.BodyLimitMB)
}
