// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package shield

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"log/slog"

	"github.com/google/uuid"

	"pixelpress/internal/models"
)

//go:embed templates/*.html
var viewFS embed.FS

var views = template.Must(template.ParseFS(viewFS, "templates/*.html"))

// settingsView feeds templates/settings.html.
type settingsView struct {
	CSRFToken    string
	OptionGroup  string
	Enabled      bool
	Color        string
	DefaultColor string
}

// columnView feeds templates/column.html.
type columnView struct {
	Active bool
	Color  string
}

// panelView feeds templates/panel.html.
type panelView struct {
	GlobalEnabled bool
	Checked       bool
	Label         string
	Nonce         string
}

// ColumnTitle is the heading of the list-view status column.
const ColumnTitle = "Shield Status"

// PanelTitle is the heading of the edit-screen panel.
const PanelTitle = "Pixel Shield Control"

// SettingsTitle is the heading of the settings page.
const SettingsTitle = "Pixel Posts Shield Settings"

// OnRenderSettingsPage renders the global settings form. Non-admin actors
// get an empty fragment.
func (p *Plugin) OnRenderSettingsPage(ctx context.Context, actor Actor, csrfToken string) (template.HTML, error) {
	if actor.Role != models.RoleAdmin {
		return "", nil
	}
	// The form shows what is stored, not the resolver's fallback, so a
	// corrupted color is visible to the admin who can fix it.
	cfg := LoadConfig(ctx, p.settings)
	return execute("settings.html", settingsView{
		CSRFToken:    csrfToken,
		OptionGroup:  OptionGroup,
		Enabled:      cfg.Enabled,
		Color:        cfg.Color,
		DefaultColor: DefaultColor,
	})
}

// OnRenderListColumn renders the status cell for every row of a list view,
// keyed by content ID. Settings and overrides are loaded once for the batch.
func (p *Plugin) OnRenderListColumn(ctx context.Context, docs []models.Content) map[uuid.UUID]template.HTML {
	cells := make(map[uuid.UUID]template.HTML, len(docs))
	if len(docs) == 0 {
		return cells
	}

	res := p.Resolver(ctx)
	ids := make([]uuid.UUID, len(docs))
	for i := range docs {
		ids[i] = docs[i].ID
	}
	overrides, err := p.meta.GetMany(ids, MetaOverride)
	if err != nil {
		slog.Warn("shield: batch override lookup failed", "error", err)
		overrides = nil
	}

	for _, id := range ids {
		active := Shielded(res.Config().Enabled, normalizeOverride(overrides[id]))
		html, err := execute("column.html", columnView{Active: active, Color: res.EffectiveColor()})
		if err != nil {
			slog.Error("shield: render column failed", "content_id", id, "error", err)
			continue
		}
		cells[id] = html
	}
	return cells
}

// OnRenderEditPanel renders the override checkbox for one document. The
// label reads "Disable" while the global shield is on and "Enable" while it
// is off; either way, checking it flips the default for this document.
func (p *Plugin) OnRenderEditPanel(ctx context.Context, doc *models.Content, actor Actor) (template.HTML, error) {
	res := p.Resolver(ctx)
	enabled := res.Config().Enabled

	label := "Override: Enable Pixel Shield for this post."
	if enabled {
		label = "Override: Disable Pixel Shield for this post."
	}

	return execute("panel.html", panelView{
		GlobalEnabled: enabled,
		Checked:       res.Override(doc.ID) == "1",
		Label:         label,
		Nonce:         p.nonces.Create(NonceAction, actor.UserID),
	})
}

// AdminStyles returns the stylesheet for the status icons, previewing the
// configured color.
func (p *Plugin) AdminStyles(ctx context.Context) template.HTML {
	html, err := execute("admin_styles.html", columnView{Color: p.Resolver(ctx).EffectiveColor()})
	if err != nil {
		slog.Error("shield: render admin styles failed", "error", err)
		return ""
	}
	return html
}

func execute(name string, data any) (template.HTML, error) {
	var buf bytes.Buffer
	if err := views.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("execute %s: %w", name, err)
	}
	return template.HTML(buf.String()), nil
}
