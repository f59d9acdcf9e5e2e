// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"pixelpress/internal/cache"
	"pixelpress/internal/markdown"
	"pixelpress/internal/models"
	"pixelpress/internal/render"
	"pixelpress/internal/shield"
)

// PublishedContent looks up what the public site shows.
// *store.ContentStore satisfies it.
type PublishedContent interface {
	ListPublishedByType(contentType models.ContentType) ([]models.Content, error)
	FindBySlug(slug string) (*models.Content, error)
}

// PageCacher stores rendered public pages. *cache.PageCache satisfies it.
type PageCacher interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, html []byte)
}

// Public groups the public-facing site handlers.
type Public struct {
	renderer *render.Renderer
	content  PublishedContent
	shield   shield.Hooks
	pages    PageCacher
	siteName string
}

// NewPublic creates the public handler group.
func NewPublic(renderer *render.Renderer, content PublishedContent, hooks shield.Hooks, pages PageCacher, siteName string) *Public {
	return &Public{
		renderer: renderer,
		content:  content,
		shield:   hooks,
		pages:    pages,
		siteName: siteName,
	}
}

// Homepage lists published posts. It is an archive view, so the shield
// adds nothing to it.
func (p *Public) Homepage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if cached, ok := p.pages.Get(ctx, cache.HomepageKey()); ok {
		writeHTML(w, cached)
		return
	}

	posts, err := p.content.ListPublishedByType(models.ContentTypePost)
	if err != nil {
		slog.Error("list published posts failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	html, err := p.renderer.Public("list", &render.PublicData{
		SiteName:  p.siteName,
		BodyClass: "home blog",
		Items:     posts,
	})
	if err != nil {
		slog.Error("render homepage failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	p.pages.Set(ctx, cache.HomepageKey(), html)
	writeHTML(w, html)
}

// Page renders a single published post or page by slug. When the document
// is shielded its overlay style is emitted in the document head.
func (p *Public) Page(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	slug := chi.URLParam(r, "slug")

	if cached, ok := p.pages.Get(ctx, slug); ok {
		writeHTML(w, cached)
		return
	}

	item, err := p.content.FindBySlug(slug)
	if err != nil {
		slog.Error("find content by slug failed", "slug", slug, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if item == nil {
		http.NotFound(w, r)
		return
	}

	body, err := markdown.Body(item)
	if err != nil {
		slog.Error("render body failed", "slug", slug, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	data := &render.PublicData{
		SiteName:  p.siteName,
		Title:     item.Title,
		BodyClass: item.BodyClass(),
		Head:      p.shield.OnRenderFrontend(ctx, item, true),
		Item:      item,
		Body:      body,
	}
	if item.MetaDescription != nil {
		data.MetaDescription = *item.MetaDescription
	}

	html, err := p.renderer.Public("page", data)
	if err != nil {
		slog.Error("render page failed", "slug", slug, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	p.pages.Set(ctx, slug, html)
	writeHTML(w, html)
}

func writeHTML(w http.ResponseWriter, html []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(html)
}
