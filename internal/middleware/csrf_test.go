package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/google/uuid"

	"github.com/pierre-mcp/pierre/internal/auth"
	"github.com/pierre-mcp/pierre/internal/middleware"
)

func newTestCSRFManager(t *testing.T) *middleware.CSRFTokenManager {
	t.Helper()
	tm, err := middleware.NewCSRFTokenManager(filepath.Join(t.TempDir(), "csrf.key"))
	if err != nil {
		t.Fatalf("NewCSRFTokenManager: %v", err)
	}
	return tm
}

func TestCSRFTokenRoundTrip(t *testing.T) {
	tm := newTestCSRFManager(t)
	userID := uuid.New()

	token, err := tm.GenerateToken(userID)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	if err := tm.ValidateToken(token, userID); err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
}

func TestCSRFTokenRejectsWrongUser(t *testing.T) {
	tm := newTestCSRFManager(t)

	token, err := tm.GenerateToken(uuid.New())
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	if err := tm.ValidateToken(token, uuid.New()); err == nil {
		t.Fatal("expected ValidateToken to reject a token issued for a different user")
	}
}

func TestCSRFTokenRejectsTamperedSignature(t *testing.T) {
	tm := newTestCSRFManager(t)
	userID := uuid.New()

	token, err := tm.GenerateToken(userID)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	tampered := token[:len(token)-1] + "x"
	if tampered == token {
		tampered = token[:len(token)-1] + "y"
	}

	if err := tm.ValidateToken(tampered, userID); err == nil {
		t.Fatal("expected ValidateToken to reject a tampered token")
	}
}

func TestCSRFTokenRejectsCrossManagerForgery(t *testing.T) {
	tm1 := newTestCSRFManager(t)
	tm2 := newTestCSRFManager(t)
	userID := uuid.New()

	token, err := tm1.GenerateToken(userID)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	if err := tm2.ValidateToken(token, userID); err == nil {
		t.Fatal("expected a token signed by a different key to fail validation")
	}
}

func TestCSRFTokenRejectsMalformed(t *testing.T) {
	tm := newTestCSRFManager(t)
	if err := tm.ValidateToken("not-a-real-token", uuid.New()); err == nil {
		t.Fatal("expected ValidateToken to reject a malformed token")
	}
}

func passThroughHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestCSRFMiddleware_BearerTokenBypasses(t *testing.T) {
	tm := newTestCSRFManager(t)
	h := middleware.CSRF(tm)(passThroughHandler())

	r := httptest.NewRequest(http.MethodPost, "/api/coaches", nil)
	r.Header.Set("Authorization", "Bearer sometoken")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
}

func TestCSRFMiddleware_GetBypasses(t *testing.T) {
	tm := newTestCSRFManager(t)
	h := middleware.CSRF(tm)(passThroughHandler())

	r := httptest.NewRequest(http.MethodGet, "/api/coaches", nil)
	r.AddCookie(&http.Cookie{Name: "pierre_session", Value: "x"})
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
}

func TestCSRFMiddleware_CookieWithoutTokenRejected(t *testing.T) {
	tm := newTestCSRFManager(t)
	h := middleware.CSRF(tm)(passThroughHandler())

	userID := uuid.New()
	r := httptest.NewRequest(http.MethodPost, "/api/coaches", nil)
	r.AddCookie(&http.Cookie{Name: "pierre_session", Value: "x"})
	r = r.WithContext(auth.NewContext(r.Context(), &auth.Identity{UserID: userID, Role: "user"}))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
}

func TestCSRFMiddleware_CookieWithValidTokenAllowed(t *testing.T) {
	tm := newTestCSRFManager(t)
	h := middleware.CSRF(tm)(passThroughHandler())

	userID := uuid.New()
	token, err := tm.GenerateToken(userID)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	r := httptest.NewRequest(http.MethodPost, "/api/coaches", nil)
	r.AddCookie(&http.Cookie{Name: "pierre_session", Value: "x"})
	r.Header.Set("X-CSRF-Token", token)
	r = r.WithContext(auth.NewContext(r.Context(), &auth.Identity{UserID: userID, Role: "user"}))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
}

func TestCSRFMiddleware_ExemptPathBypasses(t *testing.T) {
	tm := newTestCSRFManager(t)
	h := middleware.CSRF(tm)(passThroughHandler())

	r := httptest.NewRequest(http.MethodPost, "/api/auth/register", nil)
	r.AddCookie(&http.Cookie{Name: "pierre_session", Value: "x"})
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
}
