// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package shield

import (
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pixelpress/internal/models"
)

// testPlugin wires a plugin to in-memory stores.
func testPlugin(enabled bool) (*Plugin, *fakeSettings, *fakeMeta) {
	settings := &fakeSettings{values: map[string]string{OptionColor: "#00ff00"}}
	if enabled {
		settings.values[OptionEnabled] = "1"
	}
	meta := newFakeMeta()
	return NewPlugin(settings, meta, NewNonces([]byte("test-secret"))), settings, meta
}

func testDoc(typ models.ContentType, author uuid.UUID) *models.Content {
	return &models.Content{ID: uuid.New(), Type: typ, Title: "Hello", Slug: "hello", AuthorID: author}
}

func TestNonces(t *testing.T) {
	n := NewNonces([]byte("secret"))
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	n.now = func() time.Time { return now }

	user := uuid.New()
	token := n.Create(NonceAction, user)
	require.Len(t, token, nonceLength)

	assert.True(t, n.Verify(token, NonceAction, user))
	assert.False(t, n.Verify(token, "other_action", user), "wrong action")
	assert.False(t, n.Verify(token, NonceAction, uuid.New()), "wrong user")
	assert.False(t, n.Verify("", NonceAction, user), "empty token")
	assert.False(t, NewNonces([]byte("other")).Verify(token, NonceAction, user), "other key")

	now = now.Add(nonceTick)
	assert.True(t, n.Verify(token, NonceAction, user), "previous tick still valid")

	now = now.Add(nonceTick)
	assert.False(t, n.Verify(token, NonceAction, user), "expired after two ticks")
}

func TestOnSaveDocumentRejections(t *testing.T) {
	owner := uuid.New()

	tests := []struct {
		name     string
		actor    Actor
		nonceFor uuid.UUID
		action   string
		noNonce  bool
		autosave bool
	}{
		{"missing nonce", Actor{UserID: owner, Role: models.RoleAdmin}, owner, NonceAction, true, false},
		{"nonce for other user", Actor{UserID: owner, Role: models.RoleAdmin}, uuid.New(), NonceAction, false, false},
		{"nonce for other action", Actor{UserID: owner, Role: models.RoleAdmin}, owner, "delete_post", false, false},
		{"author editing someone else's post", Actor{UserID: uuid.New(), Role: models.RoleAuthor}, uuid.Nil, NonceAction, false, false},
		{"unknown role", Actor{UserID: owner, Role: models.Role("subscriber")}, owner, NonceAction, false, false},
		{"autosave", Actor{UserID: owner, Role: models.RoleAdmin}, owner, NonceAction, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, _, meta := testPlugin(false)
			doc := testDoc(models.ContentTypePost, owner)
			require.NoError(t, meta.Set(doc.ID, MetaOverride, "1"))
			meta.writes = 0

			nonceUser := tt.nonceFor
			if nonceUser == uuid.Nil {
				nonceUser = tt.actor.UserID
			}
			form := url.Values{FieldOverride: {"1"}}
			if !tt.noNonce {
				form.Set(FieldNonce, p.nonces.Create(tt.action, nonceUser))
			}
			// Submitting without the checkbox would write "0" if accepted.
			form.Del(FieldOverride)

			ok := p.OnSaveDocument(t.Context(), SaveRequest{
				Document: doc,
				Actor:    tt.actor,
				Form:     form,
				Autosave: tt.autosave,
			})
			assert.False(t, ok)
			assert.Zero(t, meta.writes)
			v, _ := meta.Get(doc.ID, MetaOverride, "")
			assert.Equal(t, "1", v, "stored override must be unchanged")
		})
	}
}

func TestOnSaveDocumentWritesOverride(t *testing.T) {
	author := uuid.New()
	p, _, meta := testPlugin(false)
	doc := testDoc(models.ContentTypePage, author)
	actor := Actor{UserID: author, Role: models.RoleAuthor}
	nonce := p.nonces.Create(NonceAction, author)

	save := func(form url.Values) {
		t.Helper()
		form.Set(FieldNonce, nonce)
		require.True(t, p.OnSaveDocument(t.Context(), SaveRequest{Document: doc, Actor: actor, Form: form}))
	}

	// Any value counts: only the key's presence matters.
	for i := 0; i < 2; i++ {
		save(url.Values{FieldOverride: {""}})
		v, _ := meta.Get(doc.ID, MetaOverride, "")
		assert.Equal(t, "1", v)
	}

	for i := 0; i < 2; i++ {
		save(url.Values{})
		v, _ := meta.Get(doc.ID, MetaOverride, "")
		assert.Equal(t, "0", v)
	}
	assert.Equal(t, 4, meta.writes)
}

func TestOnRenderListColumn(t *testing.T) {
	p, _, meta := testPlugin(true)
	shielded := testDoc(models.ContentTypePost, uuid.New())
	exempt := testDoc(models.ContentTypePost, uuid.New())
	require.NoError(t, meta.Set(exempt.ID, MetaOverride, "1"))

	cells := p.OnRenderListColumn(t.Context(), []models.Content{*shielded, *exempt})
	require.Len(t, cells, 2)

	active := string(cells[shielded.ID])
	assert.Contains(t, active, `class="pps-shield-icon active"`)
	assert.Contains(t, active, "background-color:#00ff00;")
	assert.Contains(t, active, `<span class="screen-reader-text">Active</span>`)

	inactive := string(cells[exempt.ID])
	assert.Contains(t, inactive, `class="pps-shield-icon inactive"`)
	assert.Contains(t, inactive, `<span class="screen-reader-text">Inactive</span>`)
	assert.NotContains(t, inactive, "background-color")
}

func TestOnRenderListColumnEmpty(t *testing.T) {
	p, _, _ := testPlugin(true)
	assert.Empty(t, p.OnRenderListColumn(t.Context(), nil))
}

func TestOnRenderEditPanel(t *testing.T) {
	actor := Actor{UserID: uuid.New(), Role: models.RoleEditor}

	t.Run("global on offers disable", func(t *testing.T) {
		p, _, meta := testPlugin(true)
		doc := testDoc(models.ContentTypePost, actor.UserID)
		require.NoError(t, meta.Set(doc.ID, MetaOverride, "1"))

		html, err := p.OnRenderEditPanel(t.Context(), doc, actor)
		require.NoError(t, err)
		out := string(html)
		assert.Contains(t, out, "Current Global Status: <strong>Enabled</strong>")
		assert.Contains(t, out, "Override: Disable Pixel Shield for this post.")
		assert.Contains(t, out, `value="1" checked`)
		assert.Contains(t, out, `name="shield_nonce" value="`+p.nonces.Create(NonceAction, actor.UserID)+`"`)
	})

	t.Run("global off offers enable", func(t *testing.T) {
		p, _, _ := testPlugin(false)
		doc := testDoc(models.ContentTypePage, actor.UserID)

		html, err := p.OnRenderEditPanel(t.Context(), doc, actor)
		require.NoError(t, err)
		out := string(html)
		assert.Contains(t, out, "Current Global Status: <strong>Disabled</strong>")
		assert.Contains(t, out, "Override: Enable Pixel Shield for this post.")
		assert.NotContains(t, out, "checked")
	})
}

func TestOnRenderSettingsPage(t *testing.T) {
	p, _, _ := testPlugin(true)

	html, err := p.OnRenderSettingsPage(t.Context(), Actor{UserID: uuid.New(), Role: models.RoleAdmin}, "tok123")
	require.NoError(t, err)
	out := string(html)
	assert.Contains(t, out, `action="/admin/settings"`)
	assert.Contains(t, out, `name="option_page" value="pixel-shield"`)
	assert.Contains(t, out, `name="csrf_token" value="tok123"`)
	assert.Contains(t, out, `name="global_shield_enabled" value="1" checked`)
	assert.Contains(t, out, `value="#00ff00"`)
	assert.Contains(t, out, `data-default-color="#ff0000"`)

	html, err = p.OnRenderSettingsPage(t.Context(), Actor{UserID: uuid.New(), Role: models.RoleEditor}, "tok123")
	require.NoError(t, err)
	assert.Empty(t, html)
}

func TestAdminStyles(t *testing.T) {
	p, _, _ := testPlugin(false)
	out := string(p.AdminStyles(t.Context()))
	assert.Contains(t, out, ".pps-shield-icon.active")
	assert.Contains(t, out, "background-color: #00ff00;")
}

func TestOnRenderFrontend(t *testing.T) {
	p, _, _ := testPlugin(true)
	doc := testDoc(models.ContentTypePost, uuid.New())

	out := string(p.OnRenderFrontend(t.Context(), doc, true))
	assert.True(t, strings.HasPrefix(out, `<style type="text/css" id="pixel-posts-shield-frontend-styles">`))
	assert.True(t, strings.HasSuffix(out, "</style>"))
	assert.Contains(t, out, "body.single-post.post-"+doc.ID.String()+" article::before")
	assert.Contains(t, out, "body.page.page-id-"+doc.ID.String()+" article::before")
	assert.Contains(t, out, "background-color: #00ff00;")
	assert.Contains(t, out, "pointer-events: none;")
	assert.Contains(t, out, "opacity: 0.15;")
	assert.Equal(t, 1, strings.Count(out, "<"+"/style>"))

	assert.Empty(t, p.OnRenderFrontend(t.Context(), doc, false), "archive views get nothing")
	assert.Empty(t, p.OnRenderFrontend(t.Context(), nil, true))
}

func TestStyleBlockStripsInjection(t *testing.T) {
	doc := testDoc(models.ContentTypePage, uuid.New())
	out := string(StyleBlock(doc, "red;}</style><script>alert(1)</script><style>"))

	assert.NotContains(t, out, "<script")
	assert.NotContains(t, out, "alert(1)")
	assert.Equal(t, 1, strings.Count(out, "<"+"/style>"))
}

func TestStripTags(t *testing.T) {
	assert.Equal(t, "a { color: red; }", StripTags("<b>a { color: red; }</b>"))
	assert.Equal(t, "x", StripTags("x<script>evil()</script>"))
	assert.Equal(t, "x", StripTags("x<img src=y"))
	assert.Equal(t, "ab", StripTags("a>b"))
}

// TestShieldEndToEnd walks one document through the override lifecycle.
func TestShieldEndToEnd(t *testing.T) {
	admin := Actor{UserID: uuid.New(), Role: models.RoleAdmin}
	p, settings, _ := testPlugin(false)
	doc := testDoc(models.ContentTypePost, admin.UserID)
	ctx := t.Context()

	assert.False(t, p.Resolver(ctx).IsShielded(doc.ID))
	assert.Empty(t, p.OnRenderFrontend(ctx, doc, true))

	require.True(t, p.OnSaveDocument(ctx, SaveRequest{
		Document: doc,
		Actor:    admin,
		Form: url.Values{
			FieldNonce:    {p.nonces.Create(NonceAction, admin.UserID)},
			FieldOverride: {"1"},
		},
	}))
	assert.True(t, p.Resolver(ctx).IsShielded(doc.ID))
	assert.Contains(t, string(p.OnRenderFrontend(ctx, doc, true)), StyleID)

	settings.values[OptionEnabled] = "1"
	assert.False(t, p.Resolver(ctx).IsShielded(doc.ID))
	assert.Empty(t, p.OnRenderFrontend(ctx, doc, true))
}
