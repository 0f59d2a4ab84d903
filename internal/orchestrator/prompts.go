package orchestrator

import (
	"fmt"
	"strings"

	"github.com/protoweb/protoweb/internal/models"
)

const planSystemPrompt = `You are a senior web architect. You break a product idea down into a
build plan for a single-page web prototype. Respond with exactly one JSON
object and no surrounding prose, matching this schema:

{
  "id": "string",
  "components": [
    {
      "id": "string",
      "name": "string",
      "type": "layout|component|feature|utility",
      "description": "string",
      "features": ["string"],
      "estimatedComplexity": "low|medium|high"
    }
  ],
  "architecture": {
    "structure": "string",
    "styling": "string",
    "interactions": "string",
    "responsive": true
  },
  "timeline": {
    "totalMinutes": 10,
    "phases": {"phase name": "duration"}
  },
  "dependencies": ["string"]
}`

func planUserPrompt(prompt string, prefs models.Preferences) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Plan a web prototype for this request:\n\n%s\n\n", prompt)
	fmt.Fprintf(&b, "Constraints:\n- Styling: %s\n- Responsive: %v\n", prefs.Styling, prefs.Responsive)
	b.WriteString("- The prototype must be a single self-contained HTML document.\n")
	b.WriteString("- Keep the plan to at most six components.\n")
	return b.String()
}

func sectionSystemPrompt(prefs models.Preferences) string {
	styling := "plain CSS in a <style> block"
	if prefs.Styling == "tailwind" {
		styling = "Tailwind utility classes (CDN build)"
	}
	return fmt.Sprintf(`You are a front-end engineer generating one section of a web prototype.
Style with %s. Every top-level element you emit must carry a data-element
attribute naming it, so later edits can target it. Respond with raw code
only: no markdown fences, no commentary.`, styling)
}

func sectionUserPrompt(plan models.GenerationPlan, sectionName string, prefs models.Preferences) string {
	var b strings.Builder

	switch SectionTypeFor(sectionName) {
	case models.SectionCSS:
		b.WriteString("Write the stylesheet for the prototype described below. Output CSS only.\n\n")
	case models.SectionJS:
		b.WriteString("Write the interaction script for the prototype described below. Output JavaScript only.\n\n")
	default:
		fmt.Fprintf(&b, "Write the HTML markup for the %q section of the prototype described below. Output HTML only.\n\n", sectionName)
	}

	fmt.Fprintf(&b, "Architecture: %s; styling: %s; interactions: %s.\n",
		plan.Architecture.Structure, plan.Architecture.Styling, plan.Architecture.Interactions)
	if plan.Architecture.Responsive || prefs.Responsive {
		b.WriteString("The layout must be responsive.\n")
	}

	for _, c := range plan.Components {
		if c.Name != sectionName {
			continue
		}
		fmt.Fprintf(&b, "\nSection description: %s\n", c.Description)
		if len(c.Features) > 0 {
			fmt.Fprintf(&b, "Features: %s\n", strings.Join(c.Features, ", "))
		}
	}
	return b.String()
}

const docSystemPrompt = `You document generated front-end code for non-technical readers. Write a
short plain-text summary: what the component does, how to tweak the
obvious things. No markdown headings, at most 120 words.`

func docUserPrompt(code, componentName string) string {
	return fmt.Sprintf("Component: %s\n\nCode:\n%s", componentName, code)
}

// SectionTypeFor maps a section name to the kind of code generated for
// it. The two reserved names cover the style and script sections; every
// other section is markup.
func SectionTypeFor(sectionName string) models.SectionType {
	switch sectionName {
	case StyleSectionName:
		return models.SectionCSS
	case ScriptSectionName:
		return models.SectionJS
	default:
		return models.SectionHTML
	}
}

// Reserved section names appended after the plan's components.
const (
	StyleSectionName  = "styles"
	ScriptSectionName = "interactions"
)
