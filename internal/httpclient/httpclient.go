// Package httpclient builds the retrying HTTP client used for outbound calls
// to the generation provider and the rendering service.
package httpclient

import (
	"time"

	"github.com/ankek/textdiagram/internal/logging"
	"github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"
)

// Options configures New.
type Options struct {
	// RetryMax is the number of retries after the first attempt. Zero
	// disables retries so failures surface immediately.
	RetryMax int
	// Timeout bounds a whole attempt. Zero leaves the transport defaults.
	Timeout time.Duration
	Logger  *zap.Logger
}

// New returns a retryablehttp client that hands non-success responses back
// to the caller untouched, so callers can read the provider's error body.
func New(opts Options) *retryablehttp.Client {
	client := retryablehttp.NewClient()
	client.RetryMax = opts.RetryMax
	client.RetryWaitMin = 500 * time.Millisecond
	client.RetryWaitMax = 5 * time.Second
	client.ErrorHandler = retryablehttp.PassthroughErrorHandler
	client.Logger = logging.NewLeveledLogger(opts.Logger)
	if opts.Timeout > 0 {
		client.HTTPClient.Timeout = opts.Timeout
	}
	return client
}
