// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router sets up all HTTP routes and middleware chains for
// PixelPress. Routes are organized into public and admin groups with their
// own middleware stacks.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"pixelpress/internal/handlers"
	"pixelpress/internal/middleware"
	"pixelpress/internal/models"
)

// New creates the chi router with all middleware and route groups wired
// up. secure enables HSTS and Secure cookies; limiter throttles credential
// submissions.
func New(sessions middleware.SessionGetter, secure bool, limiter *middleware.RateLimiter, admin *handlers.Admin, auth *handlers.Auth, public *handlers.Public) chi.Router {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.NewSecureHeaders(secure))
	r.Use(middleware.LoadSession(sessions))

	// Health check: no auth, no CSRF.
	r.Get("/health", healthHandler)

	r.Route("/admin", func(r chi.Router) {
		r.Use(middleware.NewCSRF(secure))

		r.Get("/login", auth.LoginPage)
		r.With(limiter.Middleware).Post("/login", auth.LoginSubmit)
		r.Post("/logout", auth.Logout)

		// 2FA requires a session but not a completed second factor.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Get("/2fa/setup", auth.TwoFASetupPage)
			r.Get("/2fa/verify", auth.TwoFAVerifyPage)
			r.With(limiter.Middleware).Post("/2fa/verify", auth.TwoFAVerifySubmit)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Use(middleware.Require2FA)
			r.Use(middleware.RequireRole(models.RoleAdmin, models.RoleEditor, models.RoleAuthor))

			r.Get("/", admin.Dashboard)
			r.Get("/dashboard", admin.Dashboard)

			r.Route("/posts", func(r chi.Router) {
				r.Get("/", admin.PostsList)
				r.Get("/new", admin.PostNew)
				r.Post("/", admin.PostCreate)
				r.Get("/{id}", admin.PostEdit)
				r.Put("/{id}", admin.PostUpdate)
				r.Post("/{id}", admin.PostUpdate)
				r.Post("/{id}/autosave", admin.PostAutosave)
				r.Delete("/{id}", admin.PostDelete)
			})

			r.Route("/pages", func(r chi.Router) {
				r.Get("/", admin.PagesList)
				r.Get("/new", admin.PageNew)
				r.Post("/", admin.PageCreate)
				r.Get("/{id}", admin.PageEdit)
				r.Put("/{id}", admin.PageUpdate)
				r.Post("/{id}", admin.PageUpdate)
				r.Post("/{id}/autosave", admin.PageAutosave)
				r.Delete("/{id}", admin.PageDelete)
			})

			// Site options: admin only.
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAdmin)
				r.Get("/settings", admin.SettingsPage)
				r.Post("/settings", admin.SettingsSave)
				r.Get("/settings/pixel-shield", admin.ShieldSettingsPage)
			})
		})
	})

	r.Get("/", public.Homepage)
	r.Get("/{slug}", public.Page)

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
