// Package diagram holds the request and result types shared by the prompt,
// generation, rendering and HTTP layers, together with the error kinds they
// return.
package diagram

import "strings"

// Diagram types with dedicated handling.
const (
	TypeMermaid  = "mermaid"
	TypePlantUML = "plantuml"
)

// DefaultType is used when a request does not name a diagram type.
const DefaultType = TypeMermaid

// Request describes an initial generation or a revision of previous code.
type Request struct {
	Description  string
	Type         string
	Revision     string
	PreviousCode string
}

// IsRevision reports whether the request revises previously generated code.
// Both the revision instruction and the previous code must be present.
func (r Request) IsRevision() bool {
	return r.Revision != "" && r.PreviousCode != ""
}

// Normalize trims every field, lowercases the diagram type and fills in the
// default type.
func (r Request) Normalize() Request {
	n := Request{
		Description:  strings.TrimSpace(r.Description),
		Type:         strings.ToLower(strings.TrimSpace(r.Type)),
		Revision:     strings.TrimSpace(r.Revision),
		PreviousCode: strings.TrimSpace(r.PreviousCode),
	}
	if n.Type == "" {
		n.Type = DefaultType
	}
	return n
}

// Result is the sanitized diagram source and its rendered SVG markup.
type Result struct {
	Code string
	SVG  string
}
