// Package interfaces defines interfaces for dependency injection and testing
package interfaces

import (
	"context"

	"github.com/ankek/textdiagram/internal/diagram"
)

// TextGenerator defines the interface for text-generation providers
type TextGenerator interface {
	// Generate sends a prompt and returns the raw completion text
	Generate(ctx context.Context, prompt string) (string, error)
}

// DiagramRenderer defines the interface for rendering diagram source
type DiagramRenderer interface {
	// Render converts diagram source of the given type into SVG markup
	Render(ctx context.Context, diagramType, code string) (string, error)
}

// DiagramGenerator defines the interface for the end-to-end pipeline
type DiagramGenerator interface {
	// Generate turns a request into sanitized diagram code and its SVG
	Generate(ctx context.Context, req diagram.Request) (*diagram.Result, error)
}

// TextGeneratorFunc adapts a function to TextGenerator
type TextGeneratorFunc func(ctx context.Context, prompt string) (string, error)

// Generate calls f(ctx, prompt)
func (f TextGeneratorFunc) Generate(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

// DiagramRendererFunc adapts a function to DiagramRenderer
type DiagramRendererFunc func(ctx context.Context, diagramType, code string) (string, error)

// Render calls f(ctx, diagramType, code)
func (f DiagramRendererFunc) Render(ctx context.Context, diagramType, code string) (string, error) {
	return f(ctx, diagramType, code)
}

// DiagramGeneratorFunc adapts a function to DiagramGenerator
type DiagramGeneratorFunc func(ctx context.Context, req diagram.Request) (*diagram.Result, error)

// Generate calls f(ctx, req)
func (f DiagramGeneratorFunc) Generate(ctx context.Context, req diagram.Request) (*diagram.Result, error) {
	return f(ctx, req)
}
