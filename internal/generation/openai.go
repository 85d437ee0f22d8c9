package generation

import (
	"context"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/ankek/textdiagram/internal/config"
	"github.com/ankek/textdiagram/internal/logging"
	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// OpenAIClient generates text with the OpenAI chat completions API.
type OpenAIClient struct {
	client      *openai.Client
	model       string
	temperature float32
	logger      *zap.Logger
}

// NewOpenAIClient creates a client that sends requests through httpClient.
func NewOpenAIClient(cfg config.GenerationConfig, httpClient *http.Client, logger *zap.Logger) *OpenAIClient {
	oc := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		oc.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}
	if httpClient != nil {
		oc.HTTPClient = httpClient
	}

	return &OpenAIClient{
		client:      openai.NewClientWithConfig(oc),
		model:       cfg.ResolvedModel(),
		temperature: requestTemperature(cfg.Temperature),
		logger:      logging.OrNop(logger).With(zap.String("provider", config.ProviderOpenAI)),
	}
}

// requestTemperature maps t onto the request field. A zero temperature is
// omitted from the JSON body, so it is sent as the smallest positive value.
func requestTemperature(t float64) float32 {
	if t == 0 {
		return math.SmallestNonzeroFloat32
	}
	return float32(t)
}

// Generate sends prompt as a single user message and returns the trimmed
// content of the first choice.
func (c *OpenAIClient) Generate(ctx context.Context, prompt string) (string, error) {
	start := time.Now()
	c.logger.Debug("sending completion request",
		zap.String("model", c.model),
		zap.Int("prompt_length", len(prompt)))

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: c.temperature,
	})
	if err != nil {
		return "", generationError(config.ProviderOpenAI, err)
	}

	if len(resp.Choices) == 0 {
		return "", generationError(config.ProviderOpenAI, ErrEmptyResponse)
	}
	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return "", generationError(config.ProviderOpenAI, ErrEmptyResponse)
	}

	c.logger.Debug("completion received",
		zap.Duration("elapsed", time.Since(start)),
		zap.Int("response_length", len(content)))
	return content, nil
}
