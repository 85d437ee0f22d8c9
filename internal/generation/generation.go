// Package generation sends prompts to a text-generation provider and returns
// the raw completion text. Every failure is reported as a
// *diagram.GenerationError; no call is retried unless the configuration asks
// for transport retries.
package generation

import (
	"context"
	"errors"
	"fmt"

	"github.com/ankek/textdiagram/internal/config"
	"github.com/ankek/textdiagram/internal/diagram"
	"github.com/ankek/textdiagram/internal/httpclient"
	"github.com/ankek/textdiagram/internal/interfaces"
	"go.uber.org/zap"
)

var (
	// ErrAPIKeyMissing indicates no API key was configured for the provider.
	ErrAPIKeyMissing = errors.New("generation provider API key not configured")

	// ErrEmptyResponse indicates the provider answered without any content.
	ErrEmptyResponse = errors.New("provider returned empty response")
)

// New returns the client for the configured provider.
func New(ctx context.Context, cfg config.GenerationConfig, logger *zap.Logger) (interfaces.TextGenerator, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%s: %w", cfg.Provider, ErrAPIKeyMissing)
	}

	httpClient := httpclient.New(httpclient.Options{
		RetryMax: cfg.RetryMax,
		Timeout:  cfg.Timeout,
		Logger:   logger,
	}).StandardClient()

	switch cfg.Provider {
	case config.ProviderOpenAI:
		return NewOpenAIClient(cfg, httpClient, logger), nil
	case config.ProviderGemini:
		return NewGeminiClient(ctx, cfg, httpClient, logger)
	default:
		return nil, fmt.Errorf("unknown generation provider %q", cfg.Provider)
	}
}

func generationError(provider string, err error) error {
	var genErr *diagram.GenerationError
	if errors.As(err, &genErr) {
		return err
	}
	return &diagram.GenerationError{Provider: provider, Err: err}
}
