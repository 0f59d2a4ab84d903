package components

import (
	"strings"

	"github.com/protoweb/protoweb/ui/styles"
)

// RenderStream shows the tail of the section currently being streamed,
// so generation feels live even for slow sections.
func RenderStream(tail string, width int) string {
	if strings.TrimSpace(tail) == "" {
		return ""
	}

	lines := strings.Split(tail, "\n")
	if len(lines) > 8 {
		lines = lines[len(lines)-8:]
	}

	return styles.StreamStyle(width).Render(strings.Join(lines, "\n")) + "\n"
}
