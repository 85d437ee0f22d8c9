// Package config loads the process-wide settings used to construct the
// generation and rendering clients. Values are layered: built-in defaults,
// an optional .env file, an optional HCL file, then environment variables.
// The result is read-only after startup.
package config

import (
	"fmt"
	"net/url"
	"time"
)

// Generation providers.
const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

// Log formats.
const (
	FormatJSON    = "json"
	FormatConsole = "console"
)

const (
	DefaultPort         = 5000
	DefaultKrokiURL     = "https://kroki.io"
	DefaultOpenAIModel  = "gpt-4o-mini"
	DefaultGeminiModel  = "gemini-2.5-flash"
	DefaultTemperature  = 0.7
	DefaultLogLevel     = "info"
	DefaultProviderName = ProviderOpenAI
)

// Config is the complete service configuration.
type Config struct {
	Port       int
	Generation GenerationConfig
	Kroki      KrokiConfig
	Logging    LoggingConfig
}

// GenerationConfig configures the text-generation provider.
type GenerationConfig struct {
	Provider    string
	APIKey      string
	Model       string
	BaseURL     string // empty means the provider SDK default
	Temperature float64
	RetryMax    int
	Timeout     time.Duration // zero means no client timeout
}

// KrokiConfig configures the rendering service client.
type KrokiConfig struct {
	BaseURL  string
	RetryMax int
	Timeout  time.Duration
}

// LoggingConfig configures the zap logger.
type LoggingConfig struct {
	Level  string
	Format string
}

// Default returns the configuration used when nothing is overridden.
func Default() Config {
	return Config{
		Port: DefaultPort,
		Generation: GenerationConfig{
			Provider:    DefaultProviderName,
			Temperature: DefaultTemperature,
		},
		Kroki: KrokiConfig{
			BaseURL: DefaultKrokiURL,
		},
		Logging: LoggingConfig{
			Level:  DefaultLogLevel,
			Format: FormatJSON,
		},
	}
}

// Addr returns the listen address for the HTTP server.
func (c Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// ResolvedModel returns the configured model or the provider's default.
func (g GenerationConfig) ResolvedModel() string {
	if g.Model != "" {
		return g.Model
	}
	if g.Provider == ProviderGemini {
		return DefaultGeminiModel
	}
	return DefaultOpenAIModel
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", c.Port)
	}

	switch c.Generation.Provider {
	case ProviderOpenAI, ProviderGemini:
	default:
		return fmt.Errorf("unknown generation provider %q (expected %q or %q)",
			c.Generation.Provider, ProviderOpenAI, ProviderGemini)
	}
	if c.Generation.Temperature < 0 || c.Generation.Temperature > 2 {
		return fmt.Errorf("generation temperature must be between 0 and 2, got %g", c.Generation.Temperature)
	}
	if c.Generation.RetryMax < 0 {
		return fmt.Errorf("generation retry_max cannot be negative")
	}
	if c.Generation.BaseURL != "" {
		if err := validateHTTPURL(c.Generation.BaseURL); err != nil {
			return fmt.Errorf("invalid generation base_url: %w", err)
		}
	}

	if err := validateHTTPURL(c.Kroki.BaseURL); err != nil {
		return fmt.Errorf("invalid kroki base_url: %w", err)
	}
	if c.Kroki.RetryMax < 0 {
		return fmt.Errorf("kroki retry_max cannot be negative")
	}

	switch c.Logging.Format {
	case FormatJSON, FormatConsole:
	default:
		return fmt.Errorf("unknown log format %q", c.Logging.Format)
	}

	return nil
}

func validateHTTPURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("scheme must be http or https: %s", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("missing host: %s", raw)
	}
	return nil
}
