// Package model provides reasoning model providers.
package model

import (
	"context"
	"fmt"
	"net/http"

	domainconfig "github.com/felixgeelhaar/react-agent/domain/config"
	domainmodel "github.com/felixgeelhaar/react-agent/domain/model"
)

// New builds the configured model provider.
func New(ctx context.Context, cfg domainconfig.ModelConfig) (domainmodel.Model, error) {
	hc := &http.Client{Timeout: cfg.Timeout.Duration()}

	switch cfg.Provider {
	case domainconfig.ProviderGemini:
		return NewGemini(ctx, GeminiConfig{
			APIKey:      cfg.APIKey,
			Model:       cfg.Name,
			BaseURL:     cfg.BaseURL,
			Temperature: cfg.Temperature,
			MaxTokens:   cfg.MaxTokens,
			HTTPClient:  hc,
		})
	case domainconfig.ProviderOpenAI:
		return NewOpenAI(OpenAIConfig{
			APIKey:      cfg.APIKey,
			Model:       cfg.Name,
			BaseURL:     cfg.BaseURL,
			Temperature: cfg.Temperature,
			MaxTokens:   cfg.MaxTokens,
			HTTPClient:  hc,
		})
	case domainconfig.ProviderOllama:
		return NewOllama(OllamaConfig{
			BaseURL:     cfg.BaseURL,
			Model:       cfg.Name,
			Temperature: cfg.Temperature,
			MaxTokens:   cfg.MaxTokens,
			HTTPClient:  hc,
		})
	case domainconfig.ProviderScripted:
		return NewScripted(cfg.Script...), nil
	default:
		return nil, fmt.Errorf("%w: %q", domainmodel.ErrUnknownProvider, cfg.Provider)
	}
}
