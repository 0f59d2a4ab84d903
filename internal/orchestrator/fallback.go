package orchestrator

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/protoweb/protoweb/internal/models"
)

// FallbackPlan is the hardcoded schema-valid plan returned when every
// gateway attempt fails. It always validates, so the pipeline downstream
// of planning never sees the failure.
func FallbackPlan(prompt string) models.GenerationPlan {
	title := strings.TrimSpace(prompt)
	if runes := []rune(title); len(runes) > 60 {
		title = string(runes[:60])
	}
	if title == "" {
		title = "web prototype"
	}

	return models.GenerationPlan{
		ID: uuid.New().String(),
		Components: []models.ComponentPlan{
			{
				ID:                  uuid.New().String(),
				Name:                "header",
				Type:                models.ComponentLayout,
				Description:         "Page header with the prototype title",
				Features:            []string{"title", "navigation placeholder"},
				EstimatedComplexity: models.ComplexityLow,
			},
			{
				ID:                  uuid.New().String(),
				Name:                "main",
				Type:                models.ComponentComponent,
				Description:         "Main content area for: " + title,
				Features:            []string{"content placeholder"},
				EstimatedComplexity: models.ComplexityMedium,
			},
			{
				ID:                  uuid.New().String(),
				Name:                "footer",
				Type:                models.ComponentLayout,
				Description:         "Simple page footer",
				Features:            []string{"copyright line"},
				EstimatedComplexity: models.ComplexityLow,
			},
		},
		Architecture: models.Architecture{
			Structure:    "single-page",
			Styling:      "utility-first",
			Interactions: "minimal",
			Responsive:   true,
		},
		Timeline: models.Timeline{
			TotalMinutes: 5,
			Phases: map[string]string{
				"plan":     "1m",
				"generate": "3m",
				"document": "1m",
			},
		},
		Dependencies: []string{},
		CreatedAt:    time.Now(),
	}
}

// FallbackSection synthesizes a deterministic minimal section when the
// gateway never delivered a chunk. The template respects the configured
// styling mode so the assembled document stays coherent.
func FallbackSection(sectionName string, plan models.GenerationPlan, prefs models.Preferences) string {
	switch SectionTypeFor(sectionName) {
	case models.SectionCSS:
		if prefs.Styling == "tailwind" {
			// Tailwind carries the styling; only document-level defaults.
			return "body { margin: 0; font-family: system-ui, sans-serif; }\n"
		}
		return strings.Join([]string{
			"body { margin: 0; font-family: system-ui, sans-serif; color: #1f2933; }",
			"header, main, footer { padding: 1.5rem; }",
			"header { background: #1a73e8; color: #fff; }",
			"footer { color: #6b7280; font-size: 0.875rem; }",
			"",
		}, "\n")
	case models.SectionJS:
		return strings.Join([]string{
			"document.addEventListener('DOMContentLoaded', function () {",
			"  console.log('prototype ready');",
			"});",
			"",
		}, "\n")
	default:
		description := sectionName
		for _, c := range plan.Components {
			if c.Name == sectionName && c.Description != "" {
				description = c.Description
			}
		}
		class := ""
		if prefs.Styling == "tailwind" {
			class = ` class="p-6"`
		}
		return fmt.Sprintf("<section data-element=%q%s>\n  <h2>%s</h2>\n  <p>%s</p>\n</section>\n",
			sectionName, class, sectionTitle(sectionName), description)
	}
}

// FallbackDocumentation is the templated text block used when the
// documentation call never succeeded.
func FallbackDocumentation(componentName string) string {
	return fmt.Sprintf("The %s component renders a placeholder for this part of the prototype. "+
		"Edit its text directly, or ask for a change and the edit will be applied to the element "+
		"tagged data-element=%q.", componentName, componentName)
}

func sectionTitle(name string) string {
	if name == "" {
		return "Section"
	}
	return strings.ToUpper(name[:1]) + name[1:]
}
