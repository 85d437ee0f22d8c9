package diagram

import "fmt"

// GenerationError reports a failed or empty response from the text-generation provider.
type GenerationError struct {
	Provider string
	Err      error
}

func (e *GenerationError) Error() string {
	if e.Provider == "" {
		return fmt.Sprintf("generation failed: %v", e.Err)
	}
	return fmt.Sprintf("%s generation failed: %v", e.Provider, e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// RenderError reports a non-success response from the rendering service.
// Message is the response body as returned by the service.
type RenderError struct {
	StatusCode int
	Message    string
}

func (e *RenderError) Error() string {
	return "Kroki error: " + e.Message
}

// ValidationError reports request input that cannot be processed.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}
