package content

import (
	"bytes"
	"html/template"
	"log"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
)

var sanitizer = bluemonday.UGCPolicy()

// RenderMarkdown converts markdown to sanitized HTML safe to inject into
// a template. Conversion failure falls back to the escaped source text.
func RenderMarkdown(src string) template.HTML {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(src), &buf); err != nil {
		log.Printf("content: markdown: %v", err)
		return template.HTML(template.HTMLEscapeString(src))
	}
	return template.HTML(sanitizer.SanitizeBytes(buf.Bytes()))
}
