// Package providers selects and constructs the configured text generator.
package providers

import (
	"context"
	"fmt"
	"log/slog"

	"tenderly/internal/config"
	"tenderly/internal/llm"
	"tenderly/internal/llm/providers/anthropic"
	"tenderly/internal/llm/providers/gemini"
)

// NewTextGenerator returns the provider selected by cfg.
// It returns (nil, nil) when the resolved provider is offline.
//
// Supported providers:
//   - "anthropic" - Claude models via the Anthropic API
//   - "gemini" - Gemini models via the Google GenAI API
//   - "offline" - no provider; callers use canned responses
func NewTextGenerator(ctx context.Context, cfg *config.Config, logger *slog.Logger) (llm.TextGenerator, error) {
	provider := cfg.ResolveAIProvider()
	logger.Info("text generation provider selected", "provider", provider)

	switch provider {
	case config.ProviderAnthropic:
		p, err := anthropic.NewProvider(cfg.AnthropicAPIKey, cfg.AnthropicModel)
		if err != nil {
			return nil, fmt.Errorf("create anthropic provider: %w", err)
		}
		return p, nil

	case config.ProviderGemini:
		p, err := gemini.NewProvider(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			return nil, fmt.Errorf("create gemini provider: %w", err)
		}
		return p, nil

	default:
		return nil, nil
	}
}
