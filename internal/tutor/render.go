package tutor

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// Raw HTML in model output is not passed through; goldmark omits it unless
// WithUnsafe is set.
var markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))

// RenderHTML converts model Markdown (tables included) to HTML.
func RenderHTML(md string) (string, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(md), &buf); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return buf.String(), nil
}
