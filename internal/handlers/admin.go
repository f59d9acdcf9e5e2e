// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers contains the HTTP handlers for PixelPress. Handlers are
// grouped by concern (admin, public, auth) and receive their dependencies
// through the handler struct. The shield takes part through its hooks at
// the list, edit, save, settings and public render points.
package handlers

import (
	"context"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"pixelpress/internal/middleware"
	"pixelpress/internal/models"
	"pixelpress/internal/render"
	"pixelpress/internal/session"
	"pixelpress/internal/shield"
)

// ContentRepository is the content storage the admin screens need.
// *store.ContentStore satisfies it.
type ContentRepository interface {
	ListByType(contentType models.ContentType) ([]models.Content, error)
	FindByID(id uuid.UUID) (*models.Content, error)
	Create(c *models.Content) (*models.Content, error)
	Update(c *models.Content) error
	Autosave(id uuid.UUID, title, body string) error
	Delete(id uuid.UUID) error
	CountByType(contentType models.ContentType) (int, error)
}

// SettingsWriter persists sanitized settings. *store.SiteSettingStore
// satisfies it.
type SettingsWriter interface {
	SetMany(values map[string]string) error
}

// PageInvalidator drops rendered public pages. *cache.PageCache satisfies it.
type PageInvalidator interface {
	InvalidateContent(ctx context.Context, slug string)
	InvalidateAll(ctx context.Context)
}

// ShieldAdmin is the shield surface used by the admin screens.
// *shield.Plugin satisfies it.
type ShieldAdmin interface {
	shield.Hooks
	AdminStyles(ctx context.Context) template.HTML
	Resolver(ctx context.Context) *shield.Resolver
}

// Admin groups all admin panel HTTP handlers and their dependencies.
type Admin struct {
	renderer *render.Renderer
	content  ContentRepository
	settings SettingsWriter
	pages    PageInvalidator
	shield   ShieldAdmin
	groups   map[string]SettingGroup
}

// NewAdmin creates the admin handler group and registers the shield's
// settings group.
func NewAdmin(renderer *render.Renderer, content ContentRepository, settings SettingsWriter, pages PageInvalidator, sh ShieldAdmin) *Admin {
	a := &Admin{
		renderer: renderer,
		content:  content,
		settings: settings,
		pages:    pages,
		shield:   sh,
		groups:   make(map[string]SettingGroup),
	}
	a.RegisterSettings(SettingGroup{
		Name:     shield.OptionGroup,
		Title:    "Pixel Posts Shield",
		URL:      "/admin/settings/pixel-shield",
		Settings: shield.Settings(),
	})
	return a
}

// Dashboard renders the admin dashboard with content counts and the
// current global shield state.
func (a *Admin) Dashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	postCount, err := a.content.CountByType(models.ContentTypePost)
	if err != nil {
		slog.Error("count posts failed", "error", err)
	}
	pageCount, err := a.content.CountByType(models.ContentTypePage)
	if err != nil {
		slog.Error("count pages failed", "error", err)
	}
	res := a.shield.Resolver(ctx)

	a.renderer.Page(w, r, "dashboard", &render.PageData{
		Title:   "Dashboard",
		Section: "dashboard",
		Head:    a.shield.AdminStyles(ctx),
		Data: map[string]any{
			"PostCount":     postCount,
			"PageCount":     pageCount,
			"ShieldEnabled": res.Config().Enabled,
			"ShieldColor":   res.EffectiveColor(),
		},
	})
}

// --- Posts ---

// PostsList renders the posts list with the shield status column.
func (a *Admin) PostsList(w http.ResponseWriter, r *http.Request) {
	a.listContent(w, r, models.ContentTypePost)
}

// PostNew renders the new post form.
func (a *Admin) PostNew(w http.ResponseWriter, r *http.Request) {
	a.newContent(w, r, models.ContentTypePost)
}

// PostCreate handles the new post form submission.
func (a *Admin) PostCreate(w http.ResponseWriter, r *http.Request) {
	a.createContent(w, r, models.ContentTypePost)
}

// PostEdit renders the edit post form.
func (a *Admin) PostEdit(w http.ResponseWriter, r *http.Request) {
	a.editContent(w, r, models.ContentTypePost)
}

// PostUpdate handles the edit post form submission.
func (a *Admin) PostUpdate(w http.ResponseWriter, r *http.Request) {
	a.updateContent(w, r, models.ContentTypePost)
}

// PostAutosave stores an in-progress draft of a post.
func (a *Admin) PostAutosave(w http.ResponseWriter, r *http.Request) {
	a.autosaveContent(w, r, models.ContentTypePost)
}

// PostDelete handles post deletion.
func (a *Admin) PostDelete(w http.ResponseWriter, r *http.Request) {
	a.deleteContent(w, r, models.ContentTypePost)
}

// --- Pages ---

// PagesList renders the pages list with the shield status column.
func (a *Admin) PagesList(w http.ResponseWriter, r *http.Request) {
	a.listContent(w, r, models.ContentTypePage)
}

// PageNew renders the new page form.
func (a *Admin) PageNew(w http.ResponseWriter, r *http.Request) {
	a.newContent(w, r, models.ContentTypePage)
}

// PageCreate handles the new page form submission.
func (a *Admin) PageCreate(w http.ResponseWriter, r *http.Request) {
	a.createContent(w, r, models.ContentTypePage)
}

// PageEdit renders the edit page form.
func (a *Admin) PageEdit(w http.ResponseWriter, r *http.Request) {
	a.editContent(w, r, models.ContentTypePage)
}

// PageUpdate handles the edit page form submission.
func (a *Admin) PageUpdate(w http.ResponseWriter, r *http.Request) {
	a.updateContent(w, r, models.ContentTypePage)
}

// PageAutosave stores an in-progress draft of a page.
func (a *Admin) PageAutosave(w http.ResponseWriter, r *http.Request) {
	a.autosaveContent(w, r, models.ContentTypePage)
}

// PageDelete handles page deletion.
func (a *Admin) PageDelete(w http.ResponseWriter, r *http.Request) {
	a.deleteContent(w, r, models.ContentTypePage)
}

// --- Shared content helpers ---

func (a *Admin) listContent(w http.ResponseWriter, r *http.Request, typ models.ContentType) {
	ctx := r.Context()
	items, err := a.content.ListByType(typ)
	if err != nil {
		slog.Error("list content failed", "type", typ, "error", err)
	}

	a.renderer.Page(w, r, "content_list", &render.PageData{
		Title:   listTitle(typ),
		Section: section(typ),
		Head:    a.shield.AdminStyles(ctx),
		Data: map[string]any{
			"Items":        items,
			"ShieldColumn": shield.ColumnTitle,
			"ShieldCells":  a.shield.OnRenderListColumn(ctx, items),
		},
	})
}

func (a *Admin) newContent(w http.ResponseWriter, r *http.Request, typ models.ContentType) {
	// A document that does not exist yet has no override; the panel still
	// carries the nonce so the first save can record one.
	draft := &models.Content{Type: typ}
	a.renderForm(w, r, typ, draft, true, "")
}

func (a *Admin) createContent(w http.ResponseWriter, r *http.Request, typ models.ContentType) {
	sess := middleware.SessionFromCtx(r.Context())
	form := readContentForm(r)

	c := &models.Content{Type: typ, AuthorID: sess.UserID}
	form.apply(c)

	if msg := form.validate(); msg != "" {
		a.renderForm(w, r, typ, c, true, msg)
		return
	}

	created, err := a.content.Create(c)
	if err != nil {
		slog.Error("create content failed", "type", typ, "error", err)
		a.renderForm(w, r, typ, c, true, "Failed to create. The slug may already exist.")
		return
	}

	a.shield.OnSaveDocument(r.Context(), shield.SaveRequest{
		Document: created,
		Actor:    actorFrom(sess),
		Form:     r.PostForm,
	})
	a.pages.InvalidateContent(r.Context(), created.Slug)

	http.Redirect(w, r, "/admin/"+section(typ), http.StatusSeeOther)
}

func (a *Admin) editContent(w http.ResponseWriter, r *http.Request, typ models.ContentType) {
	item, ok := a.loadEditable(w, r, typ)
	if !ok {
		return
	}
	a.renderForm(w, r, typ, item, false, "")
}

func (a *Admin) updateContent(w http.ResponseWriter, r *http.Request, typ models.ContentType) {
	item, ok := a.loadEditable(w, r, typ)
	if !ok {
		return
	}
	sess := middleware.SessionFromCtx(r.Context())
	oldSlug := item.Slug

	form := readContentForm(r)
	form.apply(item)

	if msg := form.validate(); msg != "" {
		a.renderForm(w, r, typ, item, false, msg)
		return
	}

	if err := a.content.Update(item); err != nil {
		slog.Error("update content failed", "content_id", item.ID, "error", err)
		a.renderForm(w, r, typ, item, false, "Failed to save. The slug may already exist.")
		return
	}

	a.shield.OnSaveDocument(r.Context(), shield.SaveRequest{
		Document: item,
		Actor:    actorFrom(sess),
		Form:     r.PostForm,
	})

	a.pages.InvalidateContent(r.Context(), item.Slug)
	if oldSlug != item.Slug {
		a.pages.InvalidateContent(r.Context(), oldSlug)
	}

	redirect(w, r, "/admin/"+section(typ))
}

// autosaveContent stores the title and body only. The shield is told about
// the save but never records an override from it.
func (a *Admin) autosaveContent(w http.ResponseWriter, r *http.Request, typ models.ContentType) {
	item, ok := a.loadEditable(w, r, typ)
	if !ok {
		return
	}
	sess := middleware.SessionFromCtx(r.Context())

	title := r.FormValue("title")
	if title == "" {
		title = item.Title
	}
	if err := a.content.Autosave(item.ID, title, r.FormValue("body")); err != nil {
		slog.Error("autosave failed", "content_id", item.ID, "error", err)
		http.Error(w, "Autosave failed", http.StatusInternalServerError)
		return
	}

	a.shield.OnSaveDocument(r.Context(), shield.SaveRequest{
		Document: item,
		Actor:    actorFrom(sess),
		Form:     r.PostForm,
		Autosave: true,
	})
	if item.IsPublished() {
		a.pages.InvalidateContent(r.Context(), item.Slug)
	}

	w.WriteHeader(http.StatusNoContent)
}

func (a *Admin) deleteContent(w http.ResponseWriter, r *http.Request, typ models.ContentType) {
	item, ok := a.loadEditable(w, r, typ)
	if !ok {
		return
	}

	if err := a.content.Delete(item.ID); err != nil {
		slog.Error("delete content failed", "content_id", item.ID, "error", err)
		http.Error(w, "Delete failed", http.StatusInternalServerError)
		return
	}
	a.pages.InvalidateContent(r.Context(), item.Slug)

	// HTMX swaps the table row out with the (empty) response.
	if r.Header.Get("HX-Request") == "true" {
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, "/admin/"+section(typ), http.StatusSeeOther)
}

// loadEditable resolves the {id} URL parameter to a content item of the
// expected type that the signed-in user may edit, writing the error
// response itself when that fails.
func (a *Admin) loadEditable(w http.ResponseWriter, r *http.Request, typ models.ContentType) (*models.Content, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return nil, false
	}

	item, err := a.content.FindByID(id)
	if err != nil {
		slog.Error("find content failed", "content_id", id, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return nil, false
	}
	if item == nil || item.Type != typ {
		http.Error(w, "Not Found", http.StatusNotFound)
		return nil, false
	}

	sess := middleware.SessionFromCtx(r.Context())
	if sess == nil || !item.EditableBy(sess.UserID, sess.Role) {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return nil, false
	}
	return item, true
}

func (a *Admin) renderForm(w http.ResponseWriter, r *http.Request, typ models.ContentType, item *models.Content, isNew bool, errMsg string) {
	ctx := r.Context()
	sess := middleware.SessionFromCtx(ctx)

	panel, err := a.shield.OnRenderEditPanel(ctx, item, actorFrom(sess))
	if err != nil {
		slog.Error("render shield panel failed", "content_id", item.ID, "error", err)
	}

	title := "Edit " + typeLabel(typ)
	if isNew {
		title = "New " + typeLabel(typ)
	}

	data := map[string]any{
		"Item":             item,
		"IsNew":            isNew,
		"ShieldPanel":      panel,
		"ShieldPanelTitle": shield.PanelTitle,
	}
	if errMsg != "" {
		data["Error"] = errMsg
	}

	a.renderer.Page(w, r, "content_form", &render.PageData{
		Title:   title,
		Section: section(typ),
		Data:    data,
	})
}

func actorFrom(sess *session.Data) shield.Actor {
	if sess == nil {
		return shield.Actor{}
	}
	return shield.Actor{UserID: sess.UserID, Role: sess.Role}
}

// redirect sends a 303, or an HX-Redirect for HTMX requests so the browser
// performs a full navigation.
func redirect(w http.ResponseWriter, r *http.Request, to string) {
	if r.Header.Get("HX-Request") == "true" {
		w.Header().Set("HX-Redirect", to)
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, to, http.StatusSeeOther)
}

func section(typ models.ContentType) string {
	if typ == models.ContentTypePage {
		return "pages"
	}
	return "posts"
}

func typeLabel(typ models.ContentType) string {
	if typ == models.ContentTypePage {
		return "Page"
	}
	return "Post"
}

func listTitle(typ models.ContentType) string {
	return typeLabel(typ) + "s"
}
