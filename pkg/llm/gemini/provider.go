package gemini

import (
	"context"
	"encoding/base64"
	"fmt"

	"ai-forge-be/pkg/llm"

	"google.golang.org/genai"
)

const DefaultModel = "gemini-3-pro-preview"

// GeminiProvider talks to the Gemini API through the genai SDK
type GeminiProvider struct {
	client    *genai.Client
	modelName string
}

// Ensure GeminiProvider implements LLMProvider
var _ llm.LLMProvider = &GeminiProvider{}

func NewGeminiProvider(ctx context.Context, apiKey, modelName string) (*GeminiProvider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	if modelName == "" {
		modelName = DefaultModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	return &GeminiProvider{client: client, modelName: modelName}, nil
}

func (g *GeminiProvider) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	options := llm.Apply(llm.Options{Temperature: 0.2, Model: g.modelName}, opts...)

	contents, err := toContents(history)
	if err != nil {
		return "", err
	}

	resp, err := g.client.Models.GenerateContent(ctx, options.Model, contents, buildConfig(options))
	if err != nil {
		return "", fmt.Errorf("gemini generate content: %w", err)
	}

	return resp.Text(), nil
}

func (g *GeminiProvider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return g.Chat(ctx, []llm.Message{{Role: llm.RoleUser, Content: prompt}}, opts...)
}

func buildConfig(options llm.Options) *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(options.Temperature)),
	}
	if options.SystemInstruction != "" {
		cfg.SystemInstruction = genai.NewContentFromText(options.SystemInstruction, genai.RoleUser)
	}
	if options.MaxTokens > 0 {
		cfg.MaxOutputTokens = int32(options.MaxTokens)
	}
	if options.ThinkingBudget > 0 {
		cfg.ThinkingConfig = &genai.ThinkingConfig{
			ThinkingBudget: genai.Ptr(int32(options.ThinkingBudget)),
		}
	}
	return cfg
}

// toContents maps generic messages to genai contents; blob parts carry
// base64 payloads which the SDK expects decoded.
func toContents(history []llm.Message) ([]*genai.Content, error) {
	contents := make([]*genai.Content, 0, len(history))
	for _, msg := range history {
		var role genai.Role = genai.RoleUser
		if msg.Role == llm.RoleModel {
			role = genai.RoleModel
		}

		parts := make([]*genai.Part, 0, len(msg.AllParts()))
		for _, p := range msg.AllParts() {
			if p.IsBlob() {
				data, err := base64.StdEncoding.DecodeString(p.Data)
				if err != nil {
					return nil, fmt.Errorf("decode %s attachment: %w", p.MediaType, err)
				}
				parts = append(parts, genai.NewPartFromBytes(data, p.MediaType))
				continue
			}
			parts = append(parts, genai.NewPartFromText(p.Text))
		}
		contents = append(contents, genai.NewContentFromParts(parts, role))
	}
	return contents, nil
}
