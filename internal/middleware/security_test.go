package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pierre-mcp/pierre/internal/middleware"
)

func TestSecurityHeaders_ProductionSetsHSTS(t *testing.T) {
	h := middleware.SecurityHeaders(middleware.ProductionSecurityConfig())(passThroughHandler())

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	if w.Header().Get("Strict-Transport-Security") == "" {
		t.Error("expected Strict-Transport-Security header in production config")
	}
	if w.Header().Get("X-Frame-Options") != "DENY" {
		t.Errorf("X-Frame-Options = %q, want DENY", w.Header().Get("X-Frame-Options"))
	}
	if w.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q, want nosniff", w.Header().Get("X-Content-Type-Options"))
	}
}

func TestSecurityHeaders_DevelopmentOmitsHSTS(t *testing.T) {
	h := middleware.SecurityHeaders(middleware.DevelopmentSecurityConfig())(passThroughHandler())

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	if w.Header().Get("Strict-Transport-Security") != "" {
		t.Error("expected no Strict-Transport-Security header in development config")
	}
}

func TestSecurityConfigForEnvironment(t *testing.T) {
	cases := map[string]bool{
		"production":  true,
		"prod":        true,
		"development": false,
		"":            false,
	}
	for env, wantHSTS := range cases {
		cfg := middleware.SecurityConfigForEnvironment(env)
		gotHSTS := cfg.StrictTransportSecurity != ""
		if gotHSTS != wantHSTS {
			t.Errorf("env %q: HSTS set = %v, want %v", env, gotHSTS, wantHSTS)
		}
	}
}
