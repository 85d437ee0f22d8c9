// Package pipeline turns a diagram request into rendered SVG. It is shared by
// the HTTP handler and the render command so both follow the same steps.
package pipeline

import (
	"context"
	"time"

	"github.com/ankek/textdiagram/internal/diagram"
	"github.com/ankek/textdiagram/internal/interfaces"
	"github.com/ankek/textdiagram/internal/logging"
	"github.com/ankek/textdiagram/internal/prompt"
	"github.com/ankek/textdiagram/internal/sanitize"
	"github.com/ankek/textdiagram/internal/validation"
	"go.uber.org/zap"
)

// DiagramGenerator handles the core logic of generating diagrams.
type DiagramGenerator struct {
	generator interfaces.TextGenerator
	renderer  interfaces.DiagramRenderer
	logger    *zap.Logger
}

var _ interfaces.DiagramGenerator = (*DiagramGenerator)(nil)

// NewDiagramGenerator wires a text generator and a renderer together.
func NewDiagramGenerator(generator interfaces.TextGenerator, renderer interfaces.DiagramRenderer, logger *zap.Logger) *DiagramGenerator {
	return &DiagramGenerator{
		generator: generator,
		renderer:  renderer,
		logger:    logging.OrNop(logger),
	}
}

// Generate creates a diagram from a description or a revision request.
//
// It performs the following steps:
//  1. Normalizes the request and validates the diagram type
//  2. Builds the prompt
//  3. Sends it to the generation provider
//  4. Strips fences and quotes from the reply
//  5. Renders the code to SVG
//
// Errors from any step are returned unchanged; nothing partial is returned.
func (g *DiagramGenerator) Generate(ctx context.Context, req diagram.Request) (*diagram.Result, error) {
	req = req.Normalize()
	if err := validation.ValidateDiagramType(req.Type); err != nil {
		return nil, err
	}

	// Check context before proceeding
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	log := g.logger.With(
		zap.String("diagram_type", req.Type),
		zap.Bool("revision", req.IsRevision()),
	)

	start := time.Now()
	raw, err := g.generator.Generate(ctx, prompt.Build(req))
	if err != nil {
		return nil, err
	}
	code := sanitize.Code(raw)
	log.Debug("diagram code generated",
		zap.Duration("elapsed", time.Since(start)),
		zap.Int("code_length", len(code)))

	start = time.Now()
	svg, err := g.renderer.Render(ctx, req.Type, code)
	if err != nil {
		return nil, err
	}
	log.Debug("diagram rendered",
		zap.Duration("elapsed", time.Since(start)),
		zap.Int("svg_length", len(svg)))

	return &diagram.Result{Code: code, SVG: svg}, nil
}
