// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"
	"sort"

	"pixelpress/internal/middleware"
	"pixelpress/internal/render"
	"pixelpress/internal/shield"
)

// SettingGroup is a named set of options saved together from one settings
// page. The form posts option_page=Name to the shared settings endpoint.
type SettingGroup struct {
	Name     string
	Title    string
	URL      string
	Settings []shield.Setting
}

// RegisterSettings adds an option group to the settings screen.
func (a *Admin) RegisterSettings(g SettingGroup) {
	a.groups[g.Name] = g
}

// SettingsPage lists the registered settings groups.
func (a *Admin) SettingsPage(w http.ResponseWriter, r *http.Request) {
	groups := make([]SettingGroup, 0, len(a.groups))
	for _, g := range a.groups {
		groups = append(groups, g)
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].Title < groups[j].Title })

	a.renderer.Page(w, r, "settings", &render.PageData{
		Title:   "Settings",
		Section: "settings",
		Data:    map[string]any{"Groups": groups},
	})
}

// ShieldSettingsPage renders the Pixel Posts Shield options form.
func (a *Admin) ShieldSettingsPage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess := middleware.SessionFromCtx(ctx)

	form, err := a.shield.OnRenderSettingsPage(ctx, actorFrom(sess), middleware.CSRFTokenFromCtx(ctx))
	if err != nil {
		slog.Error("render shield settings failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	a.renderer.Page(w, r, "shield_settings", &render.PageData{
		Title:   shield.SettingsTitle,
		Section: "settings",
		Data: map[string]any{
			"Form":    form,
			"Updated": r.URL.Query().Get("settings-updated") == "true",
		},
	})
}

// SettingsSave stores every option of the submitted group. Each value goes
// through the option's sanitizer, so a missing checkbox is stored as off.
func (a *Admin) SettingsSave(w http.ResponseWriter, r *http.Request) {
	g, ok := a.groups[r.FormValue("option_page")]
	if !ok {
		http.Error(w, "Unknown settings page", http.StatusBadRequest)
		return
	}

	values := make(map[string]string, len(g.Settings))
	for _, s := range g.Settings {
		values[s.Name] = s.Sanitize(r.FormValue(s.Name))
	}

	if err := a.settings.SetMany(values); err != nil {
		slog.Error("save settings failed", "group", g.Name, "error", err)
		http.Error(w, "Failed to save settings", http.StatusInternalServerError)
		return
	}

	// The global toggle and color change every public page.
	a.pages.InvalidateAll(r.Context())

	slog.Info("settings saved", "group", g.Name)
	redirect(w, r, g.URL+"?settings-updated=true")
}
