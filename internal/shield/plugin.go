// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package shield

import (
	"context"
	"html/template"
	"log/slog"
	"net/url"

	"github.com/google/uuid"

	"pixelpress/internal/models"
)

// Form field names used by the edit panel.
const (
	FieldOverride = "override_shield"
	FieldNonce    = "shield_nonce"
)

// Hooks is the surface the CMS calls at each point where the shield takes
// part in a request.
type Hooks interface {
	OnRenderSettingsPage(ctx context.Context, actor Actor, csrfToken string) (template.HTML, error)
	OnRenderListColumn(ctx context.Context, docs []models.Content) map[uuid.UUID]template.HTML
	OnRenderEditPanel(ctx context.Context, doc *models.Content, actor Actor) (template.HTML, error)
	OnSaveDocument(ctx context.Context, req SaveRequest) bool
	OnRenderFrontend(ctx context.Context, doc *models.Content, singular bool) template.HTML
}

// Actor is the authenticated user performing an operation.
type Actor struct {
	UserID uuid.UUID
	Role   models.Role
}

// SaveRequest carries a document save as seen by the shield.
type SaveRequest struct {
	Document *models.Content
	Actor    Actor
	Form     url.Values
	Autosave bool
}

// Plugin implements Hooks on top of the host's settings and metadata stores.
type Plugin struct {
	settings SettingsReader
	meta     MetaStore
	nonces   *Nonces
}

var _ Hooks = (*Plugin)(nil)

// NewPlugin creates the shield plugin.
func NewPlugin(settings SettingsReader, meta MetaStore, nonces *Nonces) *Plugin {
	return &Plugin{settings: settings, meta: meta, nonces: nonces}
}

// Resolver loads the current global settings and returns a resolver for
// this request.
func (p *Plugin) Resolver(ctx context.Context) *Resolver {
	return NewResolver(LoadConfig(ctx, p.settings), p.meta)
}

// OnSaveDocument stores the override submitted with a document's edit form.
// The write happens only when the form nonce verifies for the actor, the
// actor may edit the document, and the save is not an autosave. Otherwise
// nothing is written and false is returned; the caller is not told why.
func (p *Plugin) OnSaveDocument(_ context.Context, req SaveRequest) bool {
	doc := req.Document
	if doc == nil {
		return false
	}
	log := slog.With("content_id", doc.ID, "user_id", req.Actor.UserID)

	if !p.nonces.Verify(req.Form.Get(FieldNonce), NonceAction, req.Actor.UserID) {
		log.Debug("shield override not saved: nonce did not verify")
		return false
	}
	if !doc.EditableBy(req.Actor.UserID, req.Actor.Role) {
		log.Debug("shield override not saved: no edit permission")
		return false
	}
	if req.Autosave {
		log.Debug("shield override not saved: autosave")
		return false
	}

	value := "0"
	if _, ok := req.Form[FieldOverride]; ok {
		value = "1"
	}

	if err := p.meta.Set(doc.ID, MetaOverride, value); err != nil {
		log.Error("shield override save failed", "error", err)
		return false
	}
	log.Debug("shield override saved", "value", value)
	return true
}
