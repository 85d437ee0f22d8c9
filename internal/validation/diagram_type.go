package validation

import (
	"regexp"

	"github.com/ankek/textdiagram/internal/diagram"
)

// MaxDiagramTypeLength bounds the identifier placed in the rendering URL.
const MaxDiagramTypeLength = 32

var diagramTypePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)

// ValidateDiagramType checks that t is a plausible rendering service
// identifier such as "mermaid", "plantuml" or "c4plantuml". The set of
// supported types belongs to the rendering service, so only the shape is
// checked here: the value is used as a URL path segment.
func ValidateDiagramType(t string) error {
	switch {
	case t == "":
		return &diagram.ValidationError{Field: "diagram_type", Message: "must not be empty"}
	case len(t) > MaxDiagramTypeLength:
		return &diagram.ValidationError{Field: "diagram_type", Message: "is too long"}
	case !diagramTypePattern.MatchString(t):
		return &diagram.ValidationError{
			Field:   "diagram_type",
			Message: "must contain only lowercase letters, digits, '-' or '_'",
		}
	}
	return nil
}
