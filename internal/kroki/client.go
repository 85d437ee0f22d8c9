// Package kroki renders diagram source through a Kroki-compatible HTTP
// service: POST {baseURL}/{diagramType}/{format} with the raw source as body.
package kroki

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/ankek/textdiagram/internal/config"
	"github.com/ankek/textdiagram/internal/diagram"
	"github.com/ankek/textdiagram/internal/httpclient"
	"github.com/ankek/textdiagram/internal/logging"
	"github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"
)

// OutputFormat is the only format requested from the service.
const OutputFormat = "svg"

// Client talks to a single rendering service.
type Client struct {
	baseURL string
	http    *retryablehttp.Client
	logger  *zap.Logger
}

// New creates a client for cfg.BaseURL.
func New(cfg config.KrokiConfig, logger *zap.Logger) *Client {
	logger = logging.OrNop(logger)
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http: httpclient.New(httpclient.Options{
			RetryMax: cfg.RetryMax,
			Timeout:  cfg.Timeout,
			Logger:   logger,
		}),
		logger: logger,
	}
}

// Endpoint returns the URL diagram source of diagramType is posted to.
func (c *Client) Endpoint(diagramType string) string {
	return fmt.Sprintf("%s/%s/%s", c.baseURL, url.PathEscape(diagramType), OutputFormat)
}

// Render posts code and returns the response body as SVG markup.
// A status other than 200 yields a *diagram.RenderError carrying the body.
func (c *Client) Render(ctx context.Context, diagramType, code string) (string, error) {
	endpoint := c.Endpoint(diagramType)

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader([]byte(code)))
	if err != nil {
		return "", fmt.Errorf("failed to create render request: %w", err)
	}
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	req.Header.Set("Accept", "image/svg+xml")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("kroki request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read kroki response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Debug("kroki rejected diagram",
			zap.String("endpoint", endpoint),
			zap.Int("status", resp.StatusCode))
		return "", &diagram.RenderError{
			StatusCode: resp.StatusCode,
			Message:    string(body),
		}
	}

	return string(body), nil
}
