package locator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDoc = `<body>
  <header id="site-header" class="hero">
    <h1>Welcome</h1>
  </header>
  <main>
    <section data-element="contact-form">
      <form>
        <input type="text" name="email">
      </form>
    </section>
  </main>
</body>`

func TestLocate_ByID(t *testing.T) {
	span, err := Locate(sampleDoc, "site-header")
	require.NoError(t, err)
	assert.Equal(t, 2, span.StartLine)
	assert.Equal(t, 4, span.EndLine)
	assert.Equal(t, "header", span.TagName)
}

func TestLocate_ByDataElement(t *testing.T) {
	span, err := Locate(sampleDoc, "contact-form")
	require.NoError(t, err)
	assert.Equal(t, 6, span.StartLine)
	assert.Equal(t, 10, span.EndLine)
	assert.Equal(t, "section", span.TagName)
}

func TestLocate_ByClass(t *testing.T) {
	span, err := Locate(sampleDoc, "hero")
	require.NoError(t, err)
	assert.Equal(t, 2, span.StartLine)
	assert.Equal(t, 4, span.EndLine)
}

func TestLocate_ClassRequiresWholeToken(t *testing.T) {
	doc := `<div class="heroic">x</div>
<div class="hero">y</div>`
	span, err := Locate(doc, "hero")
	require.NoError(t, err)
	assert.Equal(t, 2, span.StartLine)
}

func TestLocate_SingleLineElement(t *testing.T) {
	doc := `<p>before</p>
<div id="x">A<span>B</span>C</div>
<p>after</p>`
	span, err := Locate(doc, "x")
	require.NoError(t, err)
	assert.Equal(t, 2, span.StartLine)
	assert.Equal(t, 2, span.EndLine)
	assert.Equal(t, "div", span.TagName)
}

func TestLocate_NestedSameTag(t *testing.T) {
	doc := `<div id="outer">
  <div>
    inner
  </div>
</div>`
	span, err := Locate(doc, "outer")
	require.NoError(t, err)
	assert.Equal(t, 1, span.StartLine)
	assert.Equal(t, 5, span.EndLine)
}

func TestLocate_UnbalancedFallsBackToOpeningLine(t *testing.T) {
	doc := `<div id="broken">
  <p>never closed`
	span, err := Locate(doc, "broken")
	require.NoError(t, err)
	assert.Equal(t, 1, span.StartLine)
	assert.Equal(t, 1, span.EndLine)
}

func TestLocate_NotFound(t *testing.T) {
	_, err := Locate(sampleDoc, "missing-element")
	assert.Error(t, err)
}

func TestLocate_EmptyTarget(t *testing.T) {
	_, err := Locate(sampleDoc, "  ")
	assert.Error(t, err)
}

func TestSliceLines_ReturnsSpanText(t *testing.T) {
	span, err := Locate(sampleDoc, "site-header")
	require.NoError(t, err)

	slice, lines := SliceLines(sampleDoc, span)
	assert.Equal(t, "  <header id=\"site-header\" class=\"hero\">\n    <h1>Welcome</h1>\n  </header>", slice)
	assert.Len(t, lines, 12)
}

func TestSliceLines_ClampsOutOfRange(t *testing.T) {
	slice, _ := SliceLines("one\ntwo", Span{StartLine: 1, EndLine: 99})
	assert.Equal(t, "one\ntwo", slice)
}
