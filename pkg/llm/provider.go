package llm

import (
	"context"
	"strings"
)

const (
	RoleUser  = "user"
	RoleModel = "model"
)

// Part is one piece of a multimodal message. Either Text is set, or
// MediaType with Data holding standard base64.
type Part struct {
	Text      string
	MediaType string
	Data      string
}

// IsBlob reports whether the part carries binary data
func (p Part) IsBlob() bool {
	return p.MediaType != "" && p.Text == ""
}

// Message represents a chat message in a provider-agnostic format.
// When Parts is empty the message is the plain Content string.
type Message struct {
	Role    string // "user", "model"
	Content string
	Parts   []Part
}

// AllParts returns Parts, or Content wrapped as a single text part
func (m Message) AllParts() []Part {
	if len(m.Parts) > 0 {
		return m.Parts
	}
	return []Part{{Text: m.Content}}
}

// TextContent joins every text part of the message
func (m Message) TextContent() string {
	if len(m.Parts) == 0 {
		return m.Content
	}
	texts := make([]string, 0, len(m.Parts))
	for _, p := range m.Parts {
		if p.Text != "" {
			texts = append(texts, p.Text)
		}
	}
	return strings.Join(texts, "\n")
}

// Option allows for optional parameters like Temperature, MaxTokens, etc.
type Option func(*Options)

type Options struct {
	Temperature       float64
	MaxTokens         int
	Model             string // Override default model
	SystemInstruction string
	ThinkingBudget    int // 0 leaves the provider default
}

func WithTemperature(temp float64) Option {
	return func(o *Options) {
		o.Temperature = temp
	}
}

func WithModel(model string) Option {
	return func(o *Options) {
		o.Model = model
	}
}

func WithMaxTokens(n int) Option {
	return func(o *Options) {
		o.MaxTokens = n
	}
}

func WithSystemInstruction(instruction string) Option {
	return func(o *Options) {
		o.SystemInstruction = instruction
	}
}

func WithThinkingBudget(tokens int) Option {
	return func(o *Options) {
		o.ThinkingBudget = tokens
	}
}

// Apply folds opts over defaults
func Apply(defaults Options, opts ...Option) Options {
	for _, opt := range opts {
		opt(&defaults)
	}
	return defaults
}

// LLMProvider defines the contract for any completion backend
type LLMProvider interface {
	// Chat sends a chat history to the model and returns the response text
	Chat(ctx context.Context, history []Message, options ...Option) (string, error)

	// Generate sends a single prompt to the model (convenience method)
	Generate(ctx context.Context, prompt string, options ...Option) (string, error)
}
