// Package locator finds the line span owned by a markup element.
//
// This is deliberately a line/regex text algorithm, not a parser: it can
// mis-locate elements whose tags do not take the expected textual forms
// or whose nesting spans unusual line layouts. That limitation is part of
// the contract; callers treat a wrong span as a patch failure, not a
// reason to substitute a parse tree.
package locator

import (
	"fmt"
	"regexp"
	"strings"
)

// Span is an element's line range in a document, 1-based and inclusive.
type Span struct {
	StartLine int
	EndLine   int
	TagName   string
}

var tagNameRe = regexp.MustCompile(`<([a-zA-Z][a-zA-Z0-9-]*)`)

// attributePatterns builds the regexes that mark a line as the element's
// opening line: the target as an id, class, or data-element attribute.
func attributePatterns(target string) []*regexp.Regexp {
	quoted := regexp.QuoteMeta(target)
	return []*regexp.Regexp{
		regexp.MustCompile(`id\s*=\s*["']` + quoted + `["']`),
		regexp.MustCompile(`class\s*=\s*["'][^"']*\b` + quoted + `\b[^"']*["']`),
		regexp.MustCompile(`data-element\s*=\s*["']` + quoted + `["']`),
	}
}

// Locate scans markup line by line for the first line carrying target as
// an id, class, or data-element attribute, then balances occurrences of
// the start line's tag name to find the closing line. If the balance
// never returns to zero the span collapses to the start line.
func Locate(markup, target string) (Span, error) {
	if strings.TrimSpace(target) == "" {
		return Span{}, fmt.Errorf("element identifier is empty")
	}

	lines := strings.Split(markup, "\n")
	patterns := attributePatterns(target)

	start := -1
	for i, line := range lines {
		for _, p := range patterns {
			if p.MatchString(line) {
				start = i
				break
			}
		}
		if start >= 0 {
			break
		}
	}
	if start < 0 {
		return Span{}, fmt.Errorf("element %q not found in document", target)
	}

	tag := tagNameOn(lines[start])
	if tag == "" {
		// Attribute matched on a line with no recognizable opening tag;
		// the best we can do is the single line.
		return Span{StartLine: start + 1, EndLine: start + 1}, nil
	}

	openRe := regexp.MustCompile(`<` + regexp.QuoteMeta(tag) + `\b`)
	closeRe := regexp.MustCompile(`</` + regexp.QuoteMeta(tag) + `\s*>`)

	depth := 0
	for i := start; i < len(lines); i++ {
		depth += len(openRe.FindAllString(lines[i], -1))
		depth -= len(closeRe.FindAllString(lines[i], -1))
		if depth <= 0 {
			return Span{StartLine: start + 1, EndLine: i + 1, TagName: tag}, nil
		}
	}

	// Unbalanced markup: fall back to the single opening line.
	return Span{StartLine: start + 1, EndLine: start + 1, TagName: tag}, nil
}

// tagNameOn extracts the first opening tag name on a line.
func tagNameOn(line string) string {
	m := tagNameRe.FindStringSubmatch(line)
	if m == nil {
		return ""
	}
	return m[1]
}

// SliceLines returns the text covered by span plus the full document's
// lines, so callers can splice a replacement back in.
func SliceLines(markup string, span Span) (slice string, lines []string) {
	lines = strings.Split(markup, "\n")
	startIdx := span.StartLine - 1
	endIdx := span.EndLine
	if startIdx < 0 {
		startIdx = 0
	}
	if endIdx > len(lines) {
		endIdx = len(lines)
	}
	return strings.Join(lines[startIdx:endIdx], "\n"), lines
}
