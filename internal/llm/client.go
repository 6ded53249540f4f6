// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package llm wraps chat-completion providers behind a single Client
// interface. The citation fixer sends one system prompt and one user
// prompt and reads back plain text.
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/pdiddy/citeverify/pkg/types"
)

// Request is one single-turn completion.
type Request struct {
	System      string
	Prompt      string
	Temperature float32
	MaxTokens   int
}

// Client generates text from a prompt.
type Client interface {
	Generate(ctx context.Context, req Request) (string, error)
}

// Supported providers.
const (
	ProviderOpenAI = "openai"
	ProviderGroq   = "groq"
	ProviderClaude = "claude"
	ProviderGemini = "gemini"
)

// GroqBaseURL is Groq's OpenAI-compatible endpoint.
const GroqBaseURL = "https://api.groq.com/openai/v1"

var defaultModels = map[string]string{
	ProviderOpenAI: "gpt-4o-mini",
	ProviderGroq:   "llama-3.3-70b-versatile",
	ProviderClaude: "claude-3-5-haiku-latest",
	ProviderGemini: "gemini-1.5-flash",
}

// ErrNoAPIKey is returned by NewClient when the provider needs a key and
// none is configured.
var ErrNoAPIKey = errors.New("llm: no API key configured")

// NewClient builds the client for cfg.Provider. An empty model selects the
// provider's default.
func NewClient(ctx context.Context, cfg types.LLMConfig) (Client, error) {
	provider := strings.ToLower(strings.TrimSpace(cfg.Provider))
	if _, ok := defaultModels[provider]; !ok {
		return nil, fmt.Errorf("unsupported llm provider: %q", cfg.Provider)
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%s: %w", provider, ErrNoAPIKey)
	}
	model := cfg.Model
	if model == "" {
		model = defaultModels[provider]
	}

	switch provider {
	case ProviderGroq:
		baseURL := cfg.BaseURL
		if baseURL == "" {
			baseURL = GroqBaseURL
		}
		return NewOpenAIClient(cfg.APIKey, model, baseURL), nil
	case ProviderClaude:
		return NewClaudeClient(cfg.APIKey, model, cfg.BaseURL), nil
	case ProviderGemini:
		return NewGeminiClient(ctx, cfg.APIKey, model)
	default:
		return NewOpenAIClient(cfg.APIKey, model, cfg.BaseURL), nil
	}
}
