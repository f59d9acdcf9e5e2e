// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package markdown turns content bodies into HTML for the public site.
// Markdown is rendered with goldmark; bodies authored as HTML pass through.
package markdown

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"

	"pixelpress/internal/models"
)

var md = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,
		extension.Typographer,
		highlighting.NewHighlighting(
			highlighting.WithStyle("monokai"),
		),
	),
	goldmark.WithParserOptions(
		parser.WithAutoHeadingID(),
	),
	goldmark.WithRendererOptions(
		// Authors are trusted staff; raw HTML inside Markdown is kept.
		html.WithUnsafe(),
	),
)

// ToHTML converts Markdown source into HTML.
func ToHTML(source string) (string, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(source), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Body returns the rendered body of a content item, honoring its format.
func Body(c *models.Content) (template.HTML, error) {
	if c.BodyFormat == models.BodyFormatHTML {
		return template.HTML(c.Body), nil
	}
	out, err := ToHTML(c.Body)
	if err != nil {
		return "", fmt.Errorf("render %s body: %w", c.Slug, err)
	}
	return template.HTML(out), nil
}
