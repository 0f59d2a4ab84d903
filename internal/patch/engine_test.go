package patch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngine_Apply_RoundTrip(t *testing.T) {
	e := NewEngine()
	old := "<section data-element=\"hero\">\n  <h1>Old Title</h1>\n</section>"
	updated := "<section data-element=\"hero\">\n  <h1>New Title</h1>\n</section>"

	patchText := e.MakePatch(old, updated)
	require.NotEmpty(t, patchText)

	result, err := e.Apply(patchText, old)
	require.NoError(t, err)
	assert.Equal(t, updated, result)
}

func TestEngine_ParsePatch_RoundTrip(t *testing.T) {
	e := NewEngine()
	patchText := e.MakePatch("hello world", "hello there")

	patches, err := e.ParsePatch(patchText)
	require.NoError(t, err)
	assert.NotEmpty(t, patches)
}

func TestEngine_ParsePatch_Invalid(t *testing.T) {
	e := NewEngine()
	_, err := e.ParsePatch("this is not a patch")
	assert.Error(t, err)
}

func TestEngine_Apply_DriftedContentFails(t *testing.T) {
	e := NewEngine()
	patchText := e.MakePatch(
		"The quick brown fox jumps over the lazy dog",
		"The quick brown cat jumps over the lazy dog",
	)

	_, err := e.Apply(patchText, "Entirely unrelated content with nothing in common at all")
	assert.Error(t, err)
}

func TestEngine_Apply_ReapplyDoesNotCorrupt(t *testing.T) {
	e := NewEngine()
	old := "<p>The quick brown fox jumps over the lazy dog</p>"
	updated := "<p>The quick brown cat jumps over the lazy dog</p>"
	patchText := e.MakePatch(old, updated)

	first, err := e.Apply(patchText, old)
	require.NoError(t, err)
	require.Equal(t, updated, first)

	// Applying the same patch again either no-ops or reports drift; it
	// must never silently corrupt the content.
	second, err := e.Apply(patchText, first)
	if err == nil {
		assert.Equal(t, first, second)
	}
}

func TestEngine_ApplyElementPatch_Success(t *testing.T) {
	e := NewEngine()
	document := "<body>\n<div id=\"greeting\">\n  <p>Hello</p>\n</div>\n<footer>end</footer>\n</body>"
	oldContent := "<div id=\"greeting\">\n  <p>Hello</p>\n</div>"
	newContent := "<div id=\"greeting\">\n  <p>Goodbye</p>\n</div>"

	result := e.ApplyElementPatch("greeting", oldContent, newContent, document)
	require.True(t, result.Success, result.Error)
	assert.Contains(t, result.UpdatedContent, "Goodbye")
	assert.NotContains(t, result.UpdatedContent, "Hello")
	assert.Contains(t, result.UpdatedContent, "<footer>end</footer>")
	assert.Equal(t, []int{2, 3, 4}, result.AffectedLines)
	assert.Equal(t, "greeting", result.ElementID)
}

func TestEngine_ApplyElementPatch_MissingElement(t *testing.T) {
	e := NewEngine()
	result := e.ApplyElementPatch("ghost", "old", "new", "<div id=\"real\">x</div>")
	assert.False(t, result.Success)
	assert.NotEmpty(t, result.Error)
	assert.Empty(t, result.UpdatedContent)
}

func TestEngine_ApplySectionPatch_Success(t *testing.T) {
	e := NewEngine()
	old := "body { margin: 0; }\nh1 { color: black; }"
	updated := "body { margin: 0; }\nh1 { color: navy; }"

	result := e.ApplySectionPatch("styles", old, updated)
	require.True(t, result.Success, result.Error)
	assert.Equal(t, updated, result.UpdatedContent)
	assert.Equal(t, []int{1, 2}, result.AffectedLines)
	assert.Equal(t, "styles", result.SectionName)
}

func TestEngine_ApplyMultiplePatches_IsolatesStaleEntry(t *testing.T) {
	e := NewEngine()
	document := "<div id=\"one\">alpha text content here</div>\n" +
		"<div id=\"two\">beta text content here</div>\n" +
		"<div id=\"three\">gamma text content here</div>"

	good1 := e.NewElementPatch("one",
		"<div id=\"one\">alpha text content here</div>",
		"<div id=\"one\">alpha updated content here</div>")
	// Built against content the document never held.
	stale := e.NewElementPatch("two",
		"A completely different baseline that shares nothing with the page",
		"A completely different baseline that shares nothing with the book")
	good2 := e.NewElementPatch("three",
		"<div id=\"three\">gamma text content here</div>",
		"<div id=\"three\">gamma updated content here</div>")

	result := e.ApplyMultiplePatches(document, []ElementPatch{good1, stale, good2})

	assert.False(t, result.Success)
	assert.Equal(t, []string{"one", "three"}, result.Applied)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "two", result.Errors[0].Selector)

	assert.Contains(t, result.Content, "alpha updated content here")
	assert.Contains(t, result.Content, "gamma updated content here")
	assert.Contains(t, result.Content, "beta text content here")
}

func TestEngine_ApplyMultiplePatches_AllApply(t *testing.T) {
	e := NewEngine()
	document := "<div id=\"a\">first element body</div>\n<div id=\"b\">second element body</div>"

	p1 := e.NewElementPatch("a", "<div id=\"a\">first element body</div>", "<div id=\"a\">first element edited</div>")
	p2 := e.NewElementPatch("b", "<div id=\"b\">second element body</div>", "<div id=\"b\">second element edited</div>")

	result := e.ApplyMultiplePatches(document, []ElementPatch{p1, p2})
	assert.True(t, result.Success)
	assert.Empty(t, result.Errors)
	assert.Equal(t, []string{"a", "b"}, result.Applied)
	assert.Contains(t, result.Content, "first element edited")
	assert.Contains(t, result.Content, "second element edited")
}

func TestEngine_NewElementPatch_CarriesPatchData(t *testing.T) {
	e := NewEngine()
	p := e.NewElementPatch("hero", "old body", "new body")
	assert.Equal(t, "hero", p.ElementSelector)
	assert.NotEmpty(t, p.PatchData)
	assert.Equal(t, "old body", p.OldContent)
	assert.Equal(t, "new body", p.NewContent)
	assert.False(t, p.Timestamp.IsZero())
}
