package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"ai-forge-be/pkg/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChat(t *testing.T) {
	var got ollamaChatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_ = json.NewEncoder(w).Encode(ollamaChatResponse{
			Model:   got.Model,
			Message: ollamaMessage{Role: "assistant", Content: "```html\n<p>hi</p>\n```"},
			Done:    true,
		})
	}))
	defer srv.Close()

	p := NewOllamaProvider(srv.URL+"/", "llama3")
	out, err := p.Chat(context.Background(), []llm.Message{
		{Role: llm.RoleUser, Content: "q"},
		{Role: llm.RoleModel, Content: "a"},
		{Role: llm.RoleUser, Parts: []llm.Part{
			{Text: "File: a.md\nContent:\nx\n---"},
			{MediaType: "image/png", Data: "aGk="},
			{MediaType: "application/pdf", Data: "cGRm"},
			{Text: "build it"},
		}},
	}, llm.WithSystemInstruction("sys"), llm.WithTemperature(0.2))

	require.NoError(t, err)
	assert.Equal(t, "```html\n<p>hi</p>\n```", out)

	assert.Equal(t, "llama3", got.Model)
	assert.False(t, got.Stream)
	assert.InDelta(t, 0.2, got.Options.Temperature, 1e-9)
	require.Len(t, got.Messages, 4)
	assert.Equal(t, ollamaMessage{Role: "system", Content: "sys"}, got.Messages[0])
	assert.Equal(t, "assistant", got.Messages[2].Role)

	last := got.Messages[3]
	assert.Equal(t, "user", last.Role)
	assert.Equal(t, []string{"aGk="}, last.Images)
	assert.Equal(t, "File: a.md\nContent:\nx\n---\n[attached application/pdf file omitted]\nbuild it", last.Content)
}

func TestChat_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := NewOllamaProvider(srv.URL, "missing").Generate(context.Background(), "hi")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}
