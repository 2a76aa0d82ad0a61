package factory

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"tyrechat-be/pkg/llm/ollama"
	"tyrechat-be/pkg/llm/openai"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProviderSelection(t *testing.T) {
	p, err := NewLLMProvider("ollama", "llama3", "http://localhost:11434", "", "")
	require.NoError(t, err)
	assert.IsType(t, &ollama.OllamaProvider{}, p)

	p, err = NewLLMProvider("openai", "gpt-4o-mini", "http://localhost:11434", "", "test-key")
	require.NoError(t, err)
	assert.IsType(t, &openai.OpenAIProvider{}, p)

	_, err = NewLLMProvider("bedrock", "x", "", "", "")
	assert.Error(t, err)
}

func TestOpenAIProviderUsesItsOwnBaseURL(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"created": 1,
			"model": "gpt-4o-mini",
			"choices": [{"index": 0, "message": {"role": "assistant", "content": "pong"}, "finish_reason": "stop"}]
		}`))
	}))
	defer srv.Close()

	// The ollama URL is always populated from config; it must never leak
	// into the openai client.
	p, err := NewLLMProvider("openai", "gpt-4o-mini", "http://localhost:11434", srv.URL, "test-key")
	require.NoError(t, err)

	got, err := p.Generate(context.Background(), "ping")
	require.NoError(t, err)
	assert.Equal(t, "pong", got)
	assert.Equal(t, "/chat/completions", gotPath)
}
