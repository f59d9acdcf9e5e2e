// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package shield

import (
	"context"
	"fmt"
	"html/template"
	"regexp"
	"strings"

	"pixelpress/internal/models"
)

// StyleID is the id attribute of the emitted <style> element.
const StyleID = "pixel-posts-shield-frontend-styles"

var (
	// scriptOrStyle matches whole <script> and <style> elements, contents included.
	scriptOrStyle = regexp.MustCompile(`(?is)<(script|style)[^>]*?>.*?</(script|style)>`)
	// anyTag matches any remaining tag, including unterminated ones at the end.
	anyTag = regexp.MustCompile(`<[^>]*>?`)
)

// OnRenderFrontend returns the inline style block for a single post or page
// view when the document is shielded. List and archive views (singular ==
// false) never get one.
func (p *Plugin) OnRenderFrontend(ctx context.Context, doc *models.Content, singular bool) template.HTML {
	if !singular || doc == nil {
		return ""
	}
	if doc.Type != models.ContentTypePost && doc.Type != models.ContentTypePage {
		return ""
	}

	res := p.Resolver(ctx)
	if !res.IsShielded(doc.ID) {
		return ""
	}
	return StyleBlock(doc, res.EffectiveColor())
}

// StyleBlock builds the <style> element overlaying doc's article with a
// hatched layer in color.
func StyleBlock(doc *models.Content, color string) template.HTML {
	css := StripTags(overlayCSS(doc.ID.String(), color))
	return template.HTML(`<style type="text/css" id="` + StyleID + `">` + css + `</style>`)
}

// overlayCSS positions a ::before layer above the article content and below
// popups; pointer-events: none keeps the content clickable.
func overlayCSS(id, color string) string {
	post := fmt.Sprintf("body.single-post.post-%s article", id)
	page := fmt.Sprintf("body.page.page-id-%s article", id)

	var b strings.Builder
	fmt.Fprintf(&b, "\n%s,\n%s {\n", post, page)
	b.WriteString("\tposition: relative;\n\tz-index: 1;\n}\n")
	fmt.Fprintf(&b, "%s::before,\n%s::before {\n", post, page)
	b.WriteString("\tcontent: '';\n")
	b.WriteString("\tposition: absolute;\n\ttop: 0;\n\tleft: 0;\n\tright: 0;\n\tbottom: 0;\n")
	fmt.Fprintf(&b, "\tbackground-color: %s;\n", color)
	b.WriteString("\tbackground-image:\n")
	b.WriteString("\t\trepeating-linear-gradient(45deg, rgba(255,255,255,0.1) 0 2px, transparent 2px 4px),\n")
	b.WriteString("\t\trepeating-linear-gradient(-45deg, rgba(255,255,255,0.1) 0 2px, transparent 2px 4px);\n")
	b.WriteString("\tbackground-size: 8px 8px;\n")
	b.WriteString("\topacity: 0.15;\n")
	b.WriteString("\tpointer-events: none;\n")
	b.WriteString("\tz-index: 2;\n")
	b.WriteString("}\n")
	return b.String()
}

// StripTags removes script and style elements with their contents, then
// every other tag, then any stray angle bracket. The result cannot close
// the surrounding <style> element.
func StripTags(s string) string {
	s = scriptOrStyle.ReplaceAllString(s, "")
	s = anyTag.ReplaceAllString(s, "")
	s = strings.NewReplacer("<", "", ">", "").Replace(s)
	return strings.TrimSpace(s)
}
