package utils

import (
	"bytes"
	"html/template"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// storyMarkdown renders story bodies. Line breaks are kept as typed since
// stories are mostly prose written in a plain textarea.
var storyMarkdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithRendererOptions(
		html.WithHardWraps(),
		html.WithXHTML(),
	),
)

var storyPolicy = newStoryPolicy()

// newStoryPolicy is the UGC policy with images allowed and external links
// opened in a new tab without a referrer.
func newStoryPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowImages()
	p.AddTargetBlankToFullyQualifiedLinks(true)
	p.RequireNoReferrerOnLinks(true)
	return p
}

// RenderMarkdown produces the contentHtml of a story. Stored content is the
// author's text verbatim, so this is the only place markup gets sanitised.
// If conversion fails the escaped source is returned.
func RenderMarkdown(source string) template.HTML {
	var buf bytes.Buffer
	if err := storyMarkdown.Convert([]byte(source), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(source))
	}
	return EnhanceHTMLContent(string(storyPolicy.SanitizeBytes(buf.Bytes())))
}
