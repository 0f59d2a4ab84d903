// Package classify routes a free-form edit instruction to the surgical
// patch path or back to full regeneration.
package classify

import "strings"

// Route is the classifier's decision for an instruction.
type Route string

const (
	// RouteSurgical sends the edit through the patch engine.
	RouteSurgical Route = "surgical"
	// RouteRegenerate sends the edit back through the full pipeline.
	RouteRegenerate Route = "regenerate"
)

// surgicalSignals mark small, targeted edits.
var surgicalSignals = []string{
	"rename",
	"change text",
	"update label",
	"update text",
	"change color",
	"change colour",
	"fix typo",
	"change title",
	"change button",
	"adjust spacing",
	"change font",
	"replace text",
	"change wording",
}

// complexSignals mark structural work; any one of them forces full
// regeneration regardless of surgical matches.
var complexSignals = []string{
	"add new",
	"create",
	"implement",
	"restructure",
	"add feature",
	"add section",
	"redesign",
	"rebuild",
	"rewrite",
	"add page",
	"integrate",
}

// Decision carries the route plus the signals that produced it, for
// logging and for explaining the fallback to the user.
type Decision struct {
	Route           Route
	SurgicalMatches []string
	ComplexMatches  []string
}

// Classify applies the keyword rule: surgical if and only if at least one
// surgical signal matches and no complex signal does. Matching is
// case-insensitive and ignores articles, so "change the title" matches
// the "change title" signal. Ambiguous or unmatched instructions default
// to regenerate; that is a safe default, not an error.
func Classify(instruction string) Decision {
	normalized := normalize(instruction)

	d := Decision{Route: RouteRegenerate}
	for _, kw := range surgicalSignals {
		if strings.Contains(normalized, kw) {
			d.SurgicalMatches = append(d.SurgicalMatches, kw)
		}
	}
	for _, kw := range complexSignals {
		if strings.Contains(normalized, kw) {
			d.ComplexMatches = append(d.ComplexMatches, kw)
		}
	}

	if len(d.SurgicalMatches) > 0 && len(d.ComplexMatches) == 0 {
		d.Route = RouteSurgical
	}
	return d
}

// normalize lowercases the instruction and drops article words, so the
// signal lists only need the article-free form of each phrase.
func normalize(instruction string) string {
	words := strings.Fields(strings.ToLower(instruction))
	kept := words[:0]
	for _, w := range words {
		if w == "the" || w == "a" || w == "an" {
			continue
		}
		kept = append(kept, w)
	}
	return strings.Join(kept, " ")
}
