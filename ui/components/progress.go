package components

import (
	"fmt"
	"strings"

	"github.com/protoweb/protoweb/internal/models"
	"github.com/protoweb/protoweb/ui/styles"
)

// RenderProgress draws the pipeline progress bar while a build runs.
func RenderProgress(progress models.GenerationProgress, loading bool, width int) string {
	if !loading && progress.Percentage == 0 {
		return ""
	}

	barWidth := width - 20
	if barWidth < 10 {
		barWidth = 10
	}
	filled := barWidth * progress.Percentage / 100
	bar := strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)

	line := fmt.Sprintf("%s %3d%%", bar, progress.Percentage)
	if progress.EstimatedTimeRemaining > 0 {
		line += fmt.Sprintf(" ~%ds left", progress.EstimatedTimeRemaining)
	}

	return styles.ProgressStyle().Render(line) + "\n"
}
