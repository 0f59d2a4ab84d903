package patch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEngine_GeneratePreviewPatch_ChangedLineIsModification(t *testing.T) {
	e := NewEngine()
	preview := e.GeneratePreviewPatch("a\nb\nc", "a\nx\nc")

	assert.Equal(t, 0, preview.Stats.Additions)
	assert.Equal(t, 0, preview.Stats.Deletions)
	assert.Equal(t, 1, preview.Stats.Modifications)
}

func TestEngine_GeneratePreviewPatch_PureAddition(t *testing.T) {
	e := NewEngine()
	preview := e.GeneratePreviewPatch("a\nb\n", "a\nb\nc\n")

	assert.Equal(t, 1, preview.Stats.Additions)
	assert.Equal(t, 0, preview.Stats.Deletions)
	assert.Equal(t, 0, preview.Stats.Modifications)
}

func TestEngine_GeneratePreviewPatch_PureDeletion(t *testing.T) {
	e := NewEngine()
	preview := e.GeneratePreviewPatch("a\nb\nc\n", "a\nc\n")

	assert.Equal(t, 0, preview.Stats.Additions)
	assert.Equal(t, 1, preview.Stats.Deletions)
	assert.Equal(t, 0, preview.Stats.Modifications)
}

func TestEngine_GeneratePreviewPatch_NoChange(t *testing.T) {
	e := NewEngine()
	preview := e.GeneratePreviewPatch("same\ntext\n", "same\ntext\n")

	assert.Equal(t, PreviewStats{}, preview.Stats)
}

func TestEngine_GeneratePreviewPatch_RendersPrefixedLines(t *testing.T) {
	e := NewEngine()
	preview := e.GeneratePreviewPatch("keep\nold line\n", "keep\nnew line\n")

	assert.Contains(t, preview.Preview, "- old line")
	assert.Contains(t, preview.Preview, "+ new line")
	assert.Contains(t, preview.Preview, "  keep")
}
