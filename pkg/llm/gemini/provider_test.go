package gemini

import (
	"context"
	"testing"

	"ai-forge-be/pkg/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func TestToContents(t *testing.T) {
	contents, err := toContents([]llm.Message{
		{Role: llm.RoleUser, Content: "q1"},
		{Role: llm.RoleModel, Content: "a1"},
		{Role: llm.RoleUser, Parts: []llm.Part{
			{MediaType: "image/png", Data: "aGVsbG8="},
			{Text: "describe it"},
		}},
	})
	require.NoError(t, err)
	require.Len(t, contents, 3)

	assert.Equal(t, string(genai.RoleUser), contents[0].Role)
	assert.Equal(t, string(genai.RoleModel), contents[1].Role)
	assert.Equal(t, "a1", contents[1].Parts[0].Text)

	last := contents[2]
	require.Len(t, last.Parts, 2)
	require.NotNil(t, last.Parts[0].InlineData)
	assert.Equal(t, "image/png", last.Parts[0].InlineData.MIMEType)
	assert.Equal(t, []byte("hello"), last.Parts[0].InlineData.Data)
	assert.Equal(t, "describe it", last.Parts[1].Text)
}

func TestToContents_BadBase64(t *testing.T) {
	_, err := toContents([]llm.Message{
		{Role: llm.RoleUser, Parts: []llm.Part{{MediaType: "image/png", Data: "!!not base64!!"}}},
	})
	assert.Error(t, err)
}

func TestBuildConfig(t *testing.T) {
	cfg := buildConfig(llm.Options{
		Temperature:       0.2,
		SystemInstruction: "be helpful",
		ThinkingBudget:    8000,
		MaxTokens:         1024,
	})

	require.NotNil(t, cfg.Temperature)
	assert.InDelta(t, 0.2, *cfg.Temperature, 1e-6)
	require.NotNil(t, cfg.SystemInstruction)
	assert.Equal(t, "be helpful", cfg.SystemInstruction.Parts[0].Text)
	require.NotNil(t, cfg.ThinkingConfig)
	assert.Equal(t, int32(8000), *cfg.ThinkingConfig.ThinkingBudget)
	assert.Equal(t, int32(1024), cfg.MaxOutputTokens)

	bare := buildConfig(llm.Options{})
	assert.Nil(t, bare.SystemInstruction)
	assert.Nil(t, bare.ThinkingConfig)
}

func TestNewGeminiProvider_RequiresKey(t *testing.T) {
	_, err := NewGeminiProvider(context.Background(), "", "")
	assert.Error(t, err)
}
