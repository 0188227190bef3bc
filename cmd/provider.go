package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/kozaktomas/frame-diff/internal/ai"
	"github.com/kozaktomas/frame-diff/internal/config"
	"github.com/kozaktomas/frame-diff/internal/constants"
)

// newProvider creates the AI provider selected by name.
func newProvider(ctx context.Context, cfg *config.Config, name string) (ai.Provider, error) {
	switch name {
	case constants.ProviderOpenAI:
		if cfg.OpenAI.Token == "" {
			return nil, errors.New("OPENAI_TOKEN environment variable is required")
		}
		model := cfg.OpenAI.Model
		if model == "" {
			model = constants.DefaultOpenAIModel
		}
		return ai.NewOpenAIProvider(cfg.OpenAI.Token, model, cfg.RequestPricing(model)), nil
	case constants.ProviderGemini:
		if cfg.Gemini.APIKey == "" {
			return nil, errors.New("GEMINI_API_KEY environment variable is required")
		}
		model := cfg.Gemini.Model
		if model == "" {
			model = constants.DefaultGeminiModel
		}
		p, err := ai.NewGeminiProvider(ctx, cfg.Gemini.APIKey, model, cfg.RequestPricing(model))
		if err != nil {
			return nil, fmt.Errorf("failed to create Gemini provider: %w", err)
		}
		return p, nil
	case constants.ProviderOllama:
		return ai.NewOllamaProvider(cfg.Ollama.URL, cfg.Ollama.Model), nil
	case constants.ProviderLlamaCpp:
		p, err := ai.NewLlamaCppProvider(cfg.LlamaCpp.URL, cfg.LlamaCpp.Model)
		if err != nil {
			return nil, fmt.Errorf("failed to create llama.cpp provider: %w", err)
		}
		return p, nil
	default:
		return nil, fmt.Errorf("unknown provider: %s (supported: openai, gemini, ollama, llamacpp)", name)
	}
}
