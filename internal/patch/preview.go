package patch

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// PreviewStats counts changed lines between two text states. Paired
// additions and deletions are reported as modifications; only the
// unmatched remainder stays a pure addition or deletion.
type PreviewStats struct {
	Additions     int `json:"additions"`
	Deletions     int `json:"deletions"`
	Modifications int `json:"modifications"`
}

// Preview is a human-readable highlighted rendering of a pending change.
type Preview struct {
	Preview string       `json:"preview"`
	Stats   PreviewStats `json:"stats"`
}

var (
	addStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	delStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	ctxStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// GeneratePreviewPatch computes a line-mode diff between old and new and
// derives line counts from the newline characters inside each operation's
// text, never by re-splitting the whole document.
func (e *Engine) GeneratePreviewPatch(old, new string) Preview {
	chars1, chars2, lineArray := e.dmp.DiffLinesToChars(old, new)
	diffs := e.dmp.DiffMain(chars1, chars2, false)
	diffs = e.dmp.DiffCharsToLines(diffs, lineArray)

	additions, deletions := 0, 0
	for _, d := range diffs {
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			additions += countLines(d.Text)
		case diffmatchpatch.DiffDelete:
			deletions += countLines(d.Text)
		}
	}

	modifications := additions
	if deletions < modifications {
		modifications = deletions
	}
	additions -= modifications
	deletions -= modifications

	return Preview{
		Preview: renderPreview(diffs),
		Stats: PreviewStats{
			Additions:     additions,
			Deletions:     deletions,
			Modifications: modifications,
		},
	}
}

// countLines counts lines inside one operation's text: every newline is a
// line, plus a final unterminated line if the text does not end in one.
func countLines(text string) int {
	if text == "" {
		return 0
	}
	n := strings.Count(text, "\n")
	if !strings.HasSuffix(text, "\n") {
		n++
	}
	return n
}

func renderPreview(diffs []diffmatchpatch.Diff) string {
	var b strings.Builder
	for _, d := range diffs {
		prefix, style := "  ", ctxStyle
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			prefix, style = "+ ", addStyle
		case diffmatchpatch.DiffDelete:
			prefix, style = "- ", delStyle
		}
		for _, line := range splitPreviewLines(d.Text) {
			b.WriteString(style.Render(prefix+line) + "\n")
		}
	}
	return b.String()
}

func splitPreviewLines(text string) []string {
	trimmed := strings.TrimSuffix(text, "\n")
	if trimmed == "" && text != "" {
		return []string{""}
	}
	return strings.Split(trimmed, "\n")
}
