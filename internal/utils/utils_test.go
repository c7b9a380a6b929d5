package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderMarkdownSanitises(t *testing.T) {
	out := string(RenderMarkdown("**bold** <script>alert(1)</script>\n\n![cat](https://img.example/cat.png)"))

	assert.Contains(t, out, "<strong>bold</strong>")
	assert.NotContains(t, out, "<script>")
	assert.Contains(t, out, `loading="lazy"`)
	assert.Contains(t, out, `referrerpolicy="no-referrer"`)
}

func TestRenderMarkdownLinksOpenSafely(t *testing.T) {
	out := string(RenderMarkdown("[site](https://example.com)"))
	assert.Contains(t, out, `target="_blank"`)
	assert.True(t, strings.Contains(out, "noreferrer"), out)
}

func TestEnhanceHTMLContentEmpty(t *testing.T) {
	assert.Equal(t, "", string(EnhanceHTMLContent("")))
}

func TestRenderMarkdownKeepsEscapedMarkupInert(t *testing.T) {
	out := string(RenderMarkdown("&lt;script&gt;alert(1)&lt;/script&gt; and a<b and b>c"))
	assert.NotContains(t, out, "<script>")
	assert.Contains(t, out, "&lt;script&gt;")
}

func TestParseID(t *testing.T) {
	id, ok := ParseID("42")
	assert.True(t, ok)
	assert.Equal(t, uint(42), id)

	for _, bad := range []string{"", "0", "-1", "abc", "1.5"} {
		_, ok := ParseID(bad)
		assert.False(t, ok, bad)
	}
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "first-love", Slugify("  First Love! "))
	assert.Equal(t, "work-life-2", Slugify("Work/Life 2"))
	assert.Equal(t, "", Slugify("!!!"))
}

func TestUsernameBase(t *testing.T) {
	assert.Equal(t, "octocat", UsernameBase("octocat", "x@y.z"))
	assert.Equal(t, "mona", UsernameBase("", "mona@github.com"))
	assert.Equal(t, "", UsernameBase("", ""))
}
