// Package textgen sends single-turn prompts to a chat-style text-generation service.
package textgen

import (
	"context"
	"fmt"
	"strings"

	"github.com/deusflow/newsdigest/internal/config"
)

// DefaultOllamaURL is the OpenAI-compatible endpoint of a local Ollama server.
const DefaultOllamaURL = "http://localhost:11434/v1"

// Generator returns the whole assistant reply for one user prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// New builds the generator selected by cfg.Provider. Callers should Close
// the result when it implements io.Closer.
func New(ctx context.Context, cfg config.LLMConfig) (Generator, error) {
	switch cfg.Provider {
	case config.LLMOllama:
		baseURL := cfg.BaseURL
		if baseURL == "" {
			baseURL = DefaultOllamaURL
		}
		// Ollama ignores the key but the client refuses an empty one.
		return NewOpenAIClient("ollama", baseURL, cfg.Model, cfg.Timeout), nil
	case config.LLMOpenAI:
		if cfg.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY is required for provider %q", cfg.Provider)
		}
		return NewOpenAIClient(cfg.OpenAIAPIKey, cfg.BaseURL, cfg.Model, cfg.Timeout), nil
	case config.LLMGemini:
		if cfg.GeminiAPIKey == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY is required for provider %q", cfg.Provider)
		}
		return NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.Model, cfg.Timeout)
	default:
		return nil, fmt.Errorf("unknown LLM provider %q", cfg.Provider)
	}
}

// StripCodeFence removes a surrounding markdown code fence (```html ... ```)
// that chat models like to add around generated documents.
func StripCodeFence(s string) string {
	t := strings.TrimSpace(s)
	if !strings.HasPrefix(t, "```") {
		return t
	}
	t = strings.TrimPrefix(t, "```")
	if nl := strings.IndexByte(t, '\n'); nl >= 0 {
		t = t[nl+1:]
	} else {
		t = ""
	}
	t = strings.TrimSpace(t)
	t = strings.TrimSuffix(t, "```")
	return strings.TrimSpace(t)
}
