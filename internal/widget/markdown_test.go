package widget

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderMarkdown_EmptyInput(t *testing.T) {
	assert.Equal(t, "", RenderMarkdown(""))
}

func TestRenderMarkdown_PlainText(t *testing.T) {
	result := RenderMarkdown("hello world")
	assert.Contains(t, result, "hello world")
}

func TestRenderMarkdown_HeadingAndEmphasis(t *testing.T) {
	result := RenderMarkdown("# Title\n*em*")
	assert.Contains(t, result, "<h1>Title</h1>")
	assert.Contains(t, result, "<em>em</em>")
}

func TestRenderMarkdown_Idempotent(t *testing.T) {
	src := "# Title\n*em*\n\n- a\n- b"
	assert.Equal(t, RenderMarkdown(src), RenderMarkdown(src))
}

func TestRenderMarkdown_Bold(t *testing.T) {
	result := RenderMarkdown("**bold text**")
	assert.Contains(t, result, "<strong>bold text</strong>")
}

func TestRenderMarkdown_HardLineBreaks(t *testing.T) {
	result := RenderMarkdown("line one\nline two")
	assert.Contains(t, result, "<br")
}

func TestRenderMarkdown_CodeBlock(t *testing.T) {
	input := "```go\nfmt.Println(\"hello\")\n```"
	result := RenderMarkdown(input)
	assert.Contains(t, result, "<code")
	assert.Contains(t, result, "fmt.Println")
}

func TestRenderMarkdown_Link(t *testing.T) {
	result := RenderMarkdown("[click](https://example.com)")
	assert.Contains(t, result, `<a href="https://example.com"`)
	assert.Contains(t, result, "click</a>")
}

func TestRenderMarkdown_SanitizesScript(t *testing.T) {
	result := RenderMarkdown(`<script>alert("xss")</script>`)
	assert.NotContains(t, result, "<script>")
}

func TestRenderMarkdown_SanitizesEventHandlers(t *testing.T) {
	result := RenderMarkdown(`<img src="https://example.com/a.png" onerror="alert(1)">`)
	assert.NotContains(t, result, "onerror")
}

func TestRenderMarkdown_KeepsSafeInlineHTML(t *testing.T) {
	result := RenderMarkdown("H<sub>2</sub>O")
	assert.Contains(t, result, "<sub>2</sub>")
}

func TestRenderMarkdown_GFMStrikethrough(t *testing.T) {
	result := RenderMarkdown("~~deleted~~")
	assert.Contains(t, result, "<del>deleted</del>")
}
