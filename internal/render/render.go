// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package render provides HTML template rendering for the admin interface
// and the public site. Admin pages support full-page and HTMX partial
// rendering, detected via the HX-Request header. Public pages render to a
// byte slice so the handler can cache them.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"path"
	"strings"

	"pixelpress/internal/middleware"
	"pixelpress/internal/models"
	"pixelpress/internal/session"
)

//go:embed templates/admin/*.html templates/public/*.html
var templateFS embed.FS

// PageData holds all data passed to admin templates.
type PageData struct {
	Title     string         // <title> and page heading
	Section   string         // active sidebar entry, e.g. "posts"
	Session   *session.Data  // nil when unauthenticated
	CSRFToken string         // for forms and HTMX headers
	Head      template.HTML  // extra <head> markup, such as the shield icon styles
	Data      map[string]any // page-specific data
	Flashes   []Flash
}

// Flash represents a one-time notification message displayed to the user.
type Flash struct {
	Type    string // "success", "error", "warning", "info"
	Message string
}

// PublicData holds what the public layout needs. Head is emitted verbatim
// inside <head>; it carries the shield style block on shielded documents.
type PublicData struct {
	SiteName        string
	Title           string
	MetaDescription string
	BodyClass       string
	Head            template.HTML
	Item            *models.Content
	Body            template.HTML
	Items           []models.Content
}

// Renderer holds the parsed admin and public templates.
type Renderer struct {
	admin  map[string]*template.Template
	public map[string]*template.Template
}

// standaloneTemplates render as full HTML documents without the admin layout.
var standaloneTemplates = map[string]bool{
	"login":      true,
	"2fa_setup":  true,
	"2fa_verify": true,
}

var funcMap = template.FuncMap{
	"activeClass": func(current, target string) string {
		if current == target {
			return "bg-gray-900 text-white"
		}
		return "text-gray-300 hover:bg-gray-700 hover:text-white"
	},
	"deref": func(s *string) string {
		if s == nil {
			return ""
		}
		return *s
	},
	"isAdmin": func(s *session.Data) bool {
		return s != nil && s.Role == models.RoleAdmin
	},
}

// New parses every embedded template. Each admin page is paired with
// admin/base.html and each public page with public/base.html.
func New() (*Renderer, error) {
	admin, err := parseDir("templates/admin", standaloneTemplates)
	if err != nil {
		return nil, err
	}
	public, err := parseDir("templates/public", nil)
	if err != nil {
		return nil, err
	}
	return &Renderer{admin: admin, public: public}, nil
}

func parseDir(dir string, standalone map[string]bool) (map[string]*template.Template, error) {
	entries, err := fs.ReadDir(templateFS, dir)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", dir, err)
	}

	base := path.Join(dir, "base.html")
	out := make(map[string]*template.Template, len(entries))
	for _, e := range entries {
		file := e.Name()
		if e.IsDir() || file == "base.html" {
			continue
		}
		name := strings.TrimSuffix(file, ".html")

		var tmpl *template.Template
		if standalone[name] {
			tmpl, err = template.New(file).Funcs(funcMap).ParseFS(templateFS, path.Join(dir, file))
		} else {
			tmpl, err = template.New("base.html").Funcs(funcMap).ParseFS(templateFS, base, path.Join(dir, file))
		}
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", path.Join(dir, file), err)
		}
		out[name] = tmpl
	}
	return out, nil
}

// Page renders a full admin page or, for HTMX requests, only its "content"
// block.
func (rn *Renderer) Page(w http.ResponseWriter, r *http.Request, name string, data *PageData) {
	tmpl, ok := rn.admin[name]
	if !ok {
		http.Error(w, fmt.Sprintf("template %q not found", name), http.StatusInternalServerError)
		return
	}

	data.CSRFToken = middleware.CSRFTokenFromCtx(r.Context())
	if data.Session == nil {
		data.Session = middleware.SessionFromCtx(r.Context())
	}

	execName := "base.html"
	switch {
	case isHTMX(r) && !standaloneTemplates[name]:
		execName = "content"
	case standaloneTemplates[name]:
		execName = name + ".html"
	}

	// Render into a buffer so a template error does not leave a half-written page.
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, execName, data); err != nil {
		slog.Error("admin template failed", "template", name, "error", err)
		http.Error(w, "template error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	buf.WriteTo(w)
}

// Public renders a public page to HTML.
func (rn *Renderer) Public(name string, data *PublicData) ([]byte, error) {
	tmpl, ok := rn.public[name]
	if !ok {
		return nil, fmt.Errorf("public template %q not found", name)
	}
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "base.html", data); err != nil {
		return nil, fmt.Errorf("render public %s: %w", name, err)
	}
	return buf.Bytes(), nil
}

func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}
