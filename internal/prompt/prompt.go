// Package prompt builds the text prompt sent to the generation provider.
package prompt

import (
	"fmt"

	"github.com/ankek/textdiagram/internal/diagram"
)

const revisionTemplate = `You previously generated this diagram code:

%s

Apply the following revision instructions:

%s

Only output the corrected diagram code for %s. No explanations, no markdown, just pure code.
`

const plantUMLTemplate = `Generate a PlantUML diagram based on the following description:

%s

Only output the diagram code. No explanations, no markdown. Wrap it in @startuml and @enduml.
`

const genericTemplate = `Generate a %s diagram based on the following description:

%s

Only output the diagram code. No explanations, no markdown.
`

// Build returns the prompt for req.
//
// A revision embeds the previous code and the revision instruction and ignores
// the description. Otherwise PlantUML gets its own template asking for
// @startuml/@enduml markers and every other type gets the generic template.
// Fields are trimmed but not otherwise validated.
func Build(req diagram.Request) string {
	req = req.Normalize()

	if req.IsRevision() {
		return fmt.Sprintf(revisionTemplate, req.PreviousCode, req.Revision, req.Type)
	}

	if req.Type == diagram.TypePlantUML {
		return fmt.Sprintf(plantUMLTemplate, req.Description)
	}

	return fmt.Sprintf(genericTemplate, req.Type, req.Description)
}
