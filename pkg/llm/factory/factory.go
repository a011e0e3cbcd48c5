package factory

import (
	"ai-forge-be/pkg/llm"
	"ai-forge-be/pkg/llm/gemini"
	"ai-forge-be/pkg/llm/huggingface"
	"ai-forge-be/pkg/llm/ollama"
	"context"
	"fmt"
	"strings"
)

// Settings selects and configures one completion backend
type Settings struct {
	Provider           string // "gemini", "ollama", "huggingface"
	Model              string
	GeminiAPIKey       string
	OllamaBaseURL      string
	HuggingFaceAPIKey  string
	HuggingFaceBaseURL string
}

// ResolveModel names the model a provider ends up using; an empty model
// falls back to that provider's own default.
func ResolveModel(provider, model string) string {
	if model != "" {
		return model
	}
	switch strings.ToLower(provider) {
	case "", "gemini":
		return gemini.DefaultModel
	case "ollama":
		return ollama.DefaultModel
	case "huggingface":
		return huggingface.DefaultModel
	}
	return ""
}

func NewLLMProvider(ctx context.Context, s Settings) (llm.LLMProvider, error) {
	switch strings.ToLower(s.Provider) {
	case "", "gemini":
		return gemini.NewGeminiProvider(ctx, s.GeminiAPIKey, s.Model)
	case "ollama":
		baseURL := s.OllamaBaseURL
		if baseURL == "" {
			baseURL = "http://localhost:11434" // Default
		}
		return ollama.NewOllamaProvider(baseURL, s.Model), nil
	case "huggingface":
		return huggingface.NewHuggingFaceProvider(s.HuggingFaceAPIKey, s.HuggingFaceBaseURL, s.Model), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", s.Provider)
	}
}
