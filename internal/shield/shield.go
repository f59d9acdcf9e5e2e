// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package shield implements the pixel shield: a decorative hatched overlay
// drawn over a post or page. A site-wide setting decides whether documents
// are shielded by default, and a per-document override flips that default
// for a single document.
//
// The package has no knowledge of HTTP routing or sessions. The CMS handlers
// call into it through the Hooks interface and supply the settings and
// metadata stores it reads from.
package shield

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

const (
	// OptionGroup is the settings group the shield settings are registered
	// under. The generic settings endpoint selects it via the option_page field.
	OptionGroup = "pixel-shield"

	// OptionEnabled stores the global default ("0" or "1").
	OptionEnabled = "global_shield_enabled"

	// OptionColor stores the overlay tint as #rrggbb.
	OptionColor = "shield_color"

	// MetaOverride is the per-document metadata key holding "0" or "1".
	MetaOverride = "_pps_override_shield"

	// DefaultColor is used whenever no valid color is stored.
	DefaultColor = "#ff0000"
)

// SettingsReader reads site-wide settings. Implemented by store.SiteSettingStore.
type SettingsReader interface {
	Get(key, fallback string) (string, error)
}

// MetaReader reads a single metadata value for a document.
type MetaReader interface {
	Get(contentID uuid.UUID, key, fallback string) (string, error)
}

// MetaStore is the read/write metadata collaborator. Implemented by
// store.ContentMetaStore.
type MetaStore interface {
	MetaReader
	Set(contentID uuid.UUID, key, value string) error
	GetMany(contentIDs []uuid.UUID, key string) (map[uuid.UUID]string, error)
}

// Config is the global shield state, loaded once per request.
type Config struct {
	Enabled bool
	Color   string
}

// LoadConfig reads both global settings, applying defaults for absent or
// unreadable values. It never fails: a broken settings store yields the
// defaults (shield disabled, default color).
func LoadConfig(_ context.Context, settings SettingsReader) Config {
	cfg := Config{Color: DefaultColor}

	enabled, err := settings.Get(OptionEnabled, "0")
	if err != nil {
		slog.Warn("shield: read enabled setting failed", "error", err)
	}
	cfg.Enabled = enabled == "1"

	color, err := settings.Get(OptionColor, DefaultColor)
	if err != nil {
		slog.Warn("shield: read color setting failed", "error", err)
	}
	cfg.Color = color

	return cfg
}

// Shielded is the one rule deciding whether a document gets the overlay.
// The override always inverts the global default; any override value other
// than "1" (including absent or corrupted data) counts as "0".
func Shielded(globalEnabled bool, override string) bool {
	return globalEnabled != (override == "1")
}

// Resolver answers shield questions for documents under a fixed Config.
type Resolver struct {
	cfg  Config
	meta MetaReader
}

// NewResolver returns a resolver bound to cfg and the given metadata reader.
func NewResolver(cfg Config, meta MetaReader) *Resolver {
	return &Resolver{cfg: cfg, meta: meta}
}

// Config returns the configuration the resolver was built with.
func (r *Resolver) Config() Config {
	return r.cfg
}

// Override returns the stored override for a document, normalized to "0"
// or "1". Lookup failures and missing documents read as "0".
func (r *Resolver) Override(documentID uuid.UUID) string {
	v, err := r.meta.Get(documentID, MetaOverride, "0")
	if err != nil {
		slog.Warn("shield: read override failed", "content_id", documentID, "error", err)
		return "0"
	}
	return normalizeOverride(v)
}

// IsShielded reports whether the overlay applies to the document.
func (r *Resolver) IsShielded(documentID uuid.UUID) bool {
	return Shielded(r.cfg.Enabled, r.Override(documentID))
}

// EffectiveColor returns the configured color, or DefaultColor when the
// stored value is not a valid #rrggbb string.
func (r *Resolver) EffectiveColor() string {
	if !validColor(r.cfg.Color) {
		return DefaultColor
	}
	return r.cfg.Color
}

func normalizeOverride(v string) string {
	if v == "1" {
		return "1"
	}
	return "0"
}
