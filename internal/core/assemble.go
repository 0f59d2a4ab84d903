package core

import (
	"fmt"
	"strings"

	"github.com/protoweb/protoweb/internal/models"
)

// AssembleDocument combines the generated sections into one
// self-contained HTML document: markup sections in completion order
// inside <body>, the style section in <head>, the script section before
// </body>.
func AssembleDocument(plan models.GenerationPlan, sections []models.CodeSection, prefs models.Preferences) string {
	var css, js string
	var markup []string

	for _, s := range sections {
		switch s.Type {
		case models.SectionCSS:
			css = s.Content
		case models.SectionJS:
			js = s.Content
		default:
			markup = append(markup, strings.TrimRight(s.Content, "\n"))
		}
	}

	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n")
	b.WriteString("<meta charset=\"utf-8\">\n")
	if plan.Architecture.Responsive || prefs.Responsive {
		b.WriteString("<meta name=\"viewport\" content=\"width=device-width, initial-scale=1\">\n")
	}
	b.WriteString("<title>Prototype</title>\n")
	if prefs.Styling == "tailwind" {
		b.WriteString("<script src=\"https://cdn.tailwindcss.com\"></script>\n")
	}
	if strings.TrimSpace(css) != "" {
		fmt.Fprintf(&b, "<style>\n%s\n</style>\n", strings.TrimRight(css, "\n"))
	}
	b.WriteString("</head>\n<body>\n")
	for _, m := range markup {
		b.WriteString(m)
		b.WriteString("\n")
	}
	if strings.TrimSpace(js) != "" {
		fmt.Fprintf(&b, "<script>\n%s\n</script>\n", strings.TrimRight(js, "\n"))
	}
	b.WriteString("</body>\n</html>\n")
	return b.String()
}
