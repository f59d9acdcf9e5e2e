// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSecureHeaders(t *testing.T) {
	for _, secure := range []bool{false, true} {
		handler := NewSecureHeaders(secure)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))

		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

		want := map[string]string{
			"X-Content-Type-Options": "nosniff",
			"X-Frame-Options":        "SAMEORIGIN",
			"X-XSS-Protection":       "0",
			"Referrer-Policy":        "strict-origin-when-cross-origin",
			"Permissions-Policy":     "interest-cohort=()",
		}
		for header, value := range want {
			if got := rr.Header().Get(header); got != value {
				t.Errorf("secure=%v %s: got %q, want %q", secure, header, got, value)
			}
		}

		hsts := rr.Header().Get("Strict-Transport-Security")
		if secure && hsts == "" {
			t.Error("secure mode should send HSTS")
		}
		if !secure && hsts != "" {
			t.Errorf("plain mode should not send HSTS, got %q", hsts)
		}
		if csp := rr.Header().Get("Content-Security-Policy"); csp != "" {
			t.Errorf("CSP would block the inline shield style, got %q", csp)
		}
	}
}
