package factory

import (
	"fmt"

	"tyrechat-be/pkg/llm"
	"tyrechat-be/pkg/llm/ollama"
	"tyrechat-be/pkg/llm/openai"
)

// NewLLMProvider builds the configured backend. Each provider gets its own
// base URL: ollamaBaseURL is required for ollama (defaulted when empty),
// openaiBaseURL is empty unless routing through a gateway.
func NewLLMProvider(providerType, modelName, ollamaBaseURL, openaiBaseURL, apiKey string) (llm.LLMProvider, error) {
	switch providerType {
	case "ollama":
		if ollamaBaseURL == "" {
			ollamaBaseURL = "http://localhost:11434" // Default
		}
		return ollama.NewOllamaProvider(ollamaBaseURL, modelName), nil
	case "openai":
		return openai.NewOpenAIProvider(apiKey, modelName, openaiBaseURL), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", providerType)
	}
}
