package interfaces

import (
	"context"
	"errors"
	"testing"

	"github.com/ankek/textdiagram/internal/diagram"
)

func TestTextGeneratorFunc(t *testing.T) {
	var gen TextGenerator = TextGeneratorFunc(func(ctx context.Context, prompt string) (string, error) {
		return "echo: " + prompt, nil
	})

	got, err := gen.Generate(context.Background(), "a login flow")
	if err != nil {
		t.Fatalf("Generate() unexpected error: %v", err)
	}
	if got != "echo: a login flow" {
		t.Errorf("Expected 'echo: a login flow', got '%s'", got)
	}
}

func TestDiagramRendererFunc(t *testing.T) {
	var gotType, gotCode string
	var renderer DiagramRenderer = DiagramRendererFunc(func(ctx context.Context, diagramType, code string) (string, error) {
		gotType, gotCode = diagramType, code
		return "<svg/>", nil
	})

	svg, err := renderer.Render(context.Background(), "mermaid", "A->B")
	if err != nil {
		t.Fatalf("Render() unexpected error: %v", err)
	}
	if svg != "<svg/>" {
		t.Errorf("Expected '<svg/>', got '%s'", svg)
	}
	if gotType != "mermaid" || gotCode != "A->B" {
		t.Errorf("Render() received (%q, %q)", gotType, gotCode)
	}
}

func TestDiagramGeneratorFunc(t *testing.T) {
	wantErr := errors.New("boom")
	var gen DiagramGenerator = DiagramGeneratorFunc(func(ctx context.Context, req diagram.Request) (*diagram.Result, error) {
		return nil, wantErr
	})

	result, err := gen.Generate(context.Background(), diagram.Request{Description: "x"})
	if !errors.Is(err, wantErr) {
		t.Errorf("Expected error %v, got %v", wantErr, err)
	}
	if result != nil {
		t.Errorf("Expected nil result, got %+v", result)
	}
}
