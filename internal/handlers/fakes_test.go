// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"pixelpress/internal/middleware"
	"pixelpress/internal/models"
	"pixelpress/internal/render"
	"pixelpress/internal/session"
	"pixelpress/internal/shield"
)

// memContent is an in-memory ContentRepository and PublishedContent.
type memContent struct {
	items     map[uuid.UUID]*models.Content
	autosaves int
}

func newMemContent(items ...*models.Content) *memContent {
	m := &memContent{items: make(map[uuid.UUID]*models.Content)}
	for _, c := range items {
		m.items[c.ID] = c
	}
	return m
}

func (m *memContent) ListByType(typ models.ContentType) ([]models.Content, error) {
	var out []models.Content
	for _, c := range m.items {
		if c.Type == typ {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (m *memContent) ListPublishedByType(typ models.ContentType) ([]models.Content, error) {
	var out []models.Content
	for _, c := range m.items {
		if c.Type == typ && c.IsPublished() {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (m *memContent) FindByID(id uuid.UUID) (*models.Content, error) {
	c, ok := m.items[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (m *memContent) FindBySlug(slug string) (*models.Content, error) {
	for _, c := range m.items {
		if c.Slug == slug && c.IsPublished() {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memContent) Create(c *models.Content) (*models.Content, error) {
	for _, existing := range m.items {
		if existing.Slug == c.Slug {
			return nil, errors.New("duplicate slug")
		}
	}
	cp := *c
	cp.ID = uuid.New()
	cp.CreatedAt = time.Now()
	cp.UpdatedAt = cp.CreatedAt
	m.items[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (m *memContent) Update(c *models.Content) error {
	cp := *c
	m.items[c.ID] = &cp
	return nil
}

func (m *memContent) Autosave(id uuid.UUID, title, body string) error {
	m.autosaves++
	m.items[id].Title = title
	m.items[id].Body = body
	return nil
}

func (m *memContent) Delete(id uuid.UUID) error {
	delete(m.items, id)
	return nil
}

func (m *memContent) CountByType(typ models.ContentType) (int, error) {
	items, _ := m.ListByType(typ)
	return len(items), nil
}

// memSettings is an in-memory settings store for both the shield and the
// settings screen.
type memSettings struct {
	values map[string]string
}

func (m *memSettings) Get(key, fallback string) (string, error) {
	if v, ok := m.values[key]; ok && v != "" {
		return v, nil
	}
	return fallback, nil
}

func (m *memSettings) SetMany(values map[string]string) error {
	for k, v := range values {
		m.values[k] = v
	}
	return nil
}

// memMeta is an in-memory shield.MetaStore that counts writes.
type memMeta struct {
	values map[uuid.UUID]map[string]string
	writes int
}

func newMemMeta() *memMeta {
	return &memMeta{values: make(map[uuid.UUID]map[string]string)}
}

func (m *memMeta) Get(id uuid.UUID, key, fallback string) (string, error) {
	if v, ok := m.values[id][key]; ok {
		return v, nil
	}
	return fallback, nil
}

func (m *memMeta) Set(id uuid.UUID, key, value string) error {
	if m.values[id] == nil {
		m.values[id] = make(map[string]string)
	}
	m.values[id][key] = value
	m.writes++
	return nil
}

func (m *memMeta) GetMany(ids []uuid.UUID, key string) (map[uuid.UUID]string, error) {
	out := make(map[uuid.UUID]string)
	for _, id := range ids {
		if v, ok := m.values[id][key]; ok {
			out[id] = v
		}
	}
	return out, nil
}

// memPages records page cache traffic.
type memPages struct {
	pages       map[string][]byte
	invalidated []string
	cleared     int
}

func newMemPages() *memPages {
	return &memPages{pages: make(map[string][]byte)}
}

func (m *memPages) Get(_ context.Context, key string) ([]byte, bool) {
	v, ok := m.pages[key]
	return v, ok
}

func (m *memPages) Set(_ context.Context, key string, html []byte) {
	m.pages[key] = html
}

func (m *memPages) InvalidateContent(_ context.Context, slug string) {
	m.invalidated = append(m.invalidated, slug)
}

func (m *memPages) InvalidateAll(_ context.Context) {
	m.cleared++
	m.pages = make(map[string][]byte)
}

// testEnv wires the admin and public handlers to in-memory collaborators
// and a real shield plugin.
type testEnv struct {
	content  *memContent
	settings *memSettings
	meta     *memMeta
	pages    *memPages
	nonces   *shield.Nonces
	admin    *Admin
	public   *Public
}

func newTestEnv(t *testing.T, items ...*models.Content) *testEnv {
	t.Helper()
	rn, err := render.New()
	require.NoError(t, err)

	env := &testEnv{
		content:  newMemContent(items...),
		settings: &memSettings{values: map[string]string{}},
		meta:     newMemMeta(),
		pages:    newMemPages(),
		nonces:   shield.NewNonces([]byte("handler-test-secret")),
	}
	plugin := shield.NewPlugin(env.settings, env.meta, env.nonces)
	env.admin = NewAdmin(rn, env.content, env.settings, env.pages, plugin)
	env.public = NewPublic(rn, env.content, plugin, env.pages, "PixelPress")
	return env
}

func (e *testEnv) enableShield(color string) {
	e.settings.values[shield.OptionEnabled] = "1"
	e.settings.values[shield.OptionColor] = color
}

func newDoc(typ models.ContentType, author uuid.UUID, slug string) *models.Content {
	now := time.Now()
	return &models.Content{
		ID:          uuid.New(),
		Type:        typ,
		Title:       "Doc " + slug,
		Slug:        slug,
		Body:        "Some *body* text.",
		BodyFormat:  models.BodyFormatMarkdown,
		Status:      models.ContentStatusPublished,
		AuthorID:    author,
		PublishedAt: &now,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func signedIn(role models.Role) *session.Data {
	return &session.Data{
		UserID:    uuid.New(),
		Email:     string(role) + "@pixelpress.local",
		Role:      role,
		TwoFADone: true,
	}
}

// newRequest builds a request carrying sess and the chi URL params as
// key/value pairs. A non-nil form is sent url-encoded.
func newRequest(method, target string, form url.Values, sess *session.Data, params ...string) *http.Request {
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}

	rctx := chi.NewRouteContext()
	for i := 0; i+1 < len(params); i += 2 {
		rctx.URLParams.Add(params[i], params[i+1])
	}
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
	if sess != nil {
		ctx = context.WithValue(ctx, middleware.SessionKey, sess)
	}
	return req.WithContext(ctx)
}
