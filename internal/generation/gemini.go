package generation

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/ankek/textdiagram/internal/config"
	"github.com/ankek/textdiagram/internal/logging"
	"go.uber.org/zap"
	"google.golang.org/genai"
)

// GeminiClient generates text with the Gemini API.
type GeminiClient struct {
	client      *genai.Client
	model       string
	temperature float32
	logger      *zap.Logger
}

// NewGeminiClient creates a Gemini API client that sends requests through
// httpClient.
func NewGeminiClient(ctx context.Context, cfg config.GenerationConfig, httpClient *http.Client, logger *zap.Logger) (*GeminiClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%s: %w", config.ProviderGemini, ErrAPIKeyMissing)
	}

	cc := &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: httpClient,
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: strings.TrimRight(cfg.BaseURL, "/") + "/"}
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiClient{
		client:      client,
		model:       cfg.ResolvedModel(),
		temperature: float32(cfg.Temperature),
		logger:      logging.OrNop(logger).With(zap.String("provider", config.ProviderGemini)),
	}, nil
}

// Generate sends prompt as a single user turn and returns the trimmed text.
func (c *GeminiClient) Generate(ctx context.Context, prompt string) (string, error) {
	start := time.Now()
	c.logger.Debug("sending generate request",
		zap.String("model", c.model),
		zap.Int("prompt_length", len(prompt)))

	resp, err := c.client.Models.GenerateContent(ctx,
		c.model,
		genai.Text(prompt),
		&genai.GenerateContentConfig{
			Temperature: genai.Ptr(c.temperature),
		},
	)
	if err != nil {
		return "", generationError(config.ProviderGemini, err)
	}

	content := strings.TrimSpace(resp.Text())
	if content == "" {
		return "", generationError(config.ProviderGemini, ErrEmptyResponse)
	}

	c.logger.Debug("generation received",
		zap.Duration("elapsed", time.Since(start)),
		zap.Int("response_length", len(content)))
	return content, nil
}
