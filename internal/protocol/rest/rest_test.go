package rest_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/pierre-mcp/pierre/internal/admin"
	"github.com/pierre-mcp/pierre/internal/auth"
	"github.com/pierre-mcp/pierre/internal/crypto"
	"github.com/pierre-mcp/pierre/internal/middleware"
	"github.com/pierre-mcp/pierre/internal/protocol/rest"
	"github.com/pierre-mcp/pierre/internal/storage"
	"github.com/pierre-mcp/pierre/internal/storage/memory"
)

func newTestJWKS(t *testing.T) *crypto.JWKSManager {
	t.Helper()
	m, err := crypto.LoadOrCreateJWKSManager(t.TempDir(), time.Hour)
	if err != nil {
		t.Fatalf("LoadOrCreateJWKSManager: %v", err)
	}
	return m
}

func newTestCSRF(t *testing.T) *middleware.CSRFTokenManager {
	t.Helper()
	m, err := middleware.NewCSRFTokenManager(filepath.Join(t.TempDir(), "csrf.key"))
	if err != nil {
		t.Fatalf("NewCSRFTokenManager: %v", err)
	}
	return m
}

func postJSON(r chi.Router, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	_ = json.NewEncoder(&buf).Encode(body)
	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthHandler_RegisterThenLogin(t *testing.T) {
	store := memory.New()
	h := rest.NewAuthHandler(store, newTestJWKS(t), newTestCSRF(t), nil, slog.Default(), time.Hour, 30*24*time.Hour, false)
	r := h.Routes()

	w := postJSON(r, "/register", map[string]string{
		"email":        "athlete@example.com",
		"password":     "correct horse battery staple",
		"display_name": "Athlete",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("register status = %d, body = %s", w.Code, w.Body.String())
	}

	u, err := store.GetUserByEmail(context.Background(), "athlete@example.com")
	if err != nil {
		t.Fatalf("GetUserByEmail: %v", err)
	}
	if u.Status != storage.StatusPending {
		t.Fatalf("status = %q, want pending", u.Status)
	}

	if err := store.UpdateUserStatus(context.Background(), u.ID, storage.StatusActive); err != nil {
		t.Fatalf("UpdateUserStatus: %v", err)
	}

	w = postJSON(r, "/login", map[string]string{"email": "athlete@example.com", "password": "correct horse battery staple"})
	if w.Code != http.StatusOK {
		t.Fatalf("login status = %d, body = %s", w.Code, w.Body.String())
	}
	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding login response: %v", err)
	}
	if resp["access_token"] == "" || resp["refresh_token"] == "" || resp["csrf_token"] == "" {
		t.Fatalf("login response missing a token: %+v", resp)
	}

	cookies := w.Result().Cookies()
	found := false
	for _, c := range cookies {
		if c.Name == "pierre_session" {
			found = true
		}
	}
	if !found {
		t.Fatal("expected login to set a pierre_session cookie")
	}
}

func TestAuthHandler_LoginRejectsWrongPassword(t *testing.T) {
	store := memory.New()
	h := rest.NewAuthHandler(store, newTestJWKS(t), newTestCSRF(t), nil, slog.Default(), time.Hour, 30*24*time.Hour, false)
	r := h.Routes()

	hash, _ := crypto.HashPassword("right password")
	_, err := store.CreateUser(context.Background(), storage.User{
		Email: "user@example.com", PasswordHash: hash, Status: storage.StatusActive, Role: storage.RoleUser,
	})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	w := postJSON(r, "/login", map[string]string{"email": "user@example.com", "password": "wrong password"})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
}

func TestAuthHandler_RefreshRejectsAccessToken(t *testing.T) {
	store := memory.New()
	jwks := newTestJWKS(t)
	h := rest.NewAuthHandler(store, jwks, newTestCSRF(t), nil, slog.Default(), time.Hour, 30*24*time.Hour, false)
	r := h.Routes()

	u, _ := store.CreateUser(context.Background(), storage.User{Email: "x@example.com", Status: storage.StatusActive, Role: storage.RoleUser})
	accessTok, err := jwks.IssueTokenWithTTL(crypto.Claims{Subject: u.ID.String(), TokenType: crypto.TokenTypeAccess}, time.Hour)
	if err != nil {
		t.Fatalf("IssueTokenWithTTL: %v", err)
	}

	w := postJSON(r, "/refresh", map[string]string{"refresh_token": accessTok})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want %d (an access token must not work as a refresh token)", w.Code, http.StatusUnauthorized)
	}
}

func withIdentity(req *http.Request, id *auth.Identity) *http.Request {
	return req.WithContext(auth.NewContext(req.Context(), id))
}

func TestCoachesHandler_CreateListFavorite(t *testing.T) {
	store := memory.New()
	h := rest.NewCoachesHandler(store, nil, slog.Default())
	r := h.Routes()

	tenant, _ := store.CreateTenant(context.Background(), storage.Tenant{Name: "T", Slug: "t"})
	user, _ := store.CreateUser(context.Background(), storage.User{Email: "u@example.com", TenantID: &tenant.ID, Status: storage.StatusActive, Role: storage.RoleUser})
	id := &auth.Identity{UserID: user.ID, TenantID: &tenant.ID, Role: storage.RoleUser}

	var buf bytes.Buffer
	_ = json.NewEncoder(&buf).Encode(map[string]string{
		"name":                   "Coach Ada",
		"system_prompt_template": "You are a helpful coach.",
	})
	req := withIdentity(httptest.NewRequest(http.MethodPost, "/", &buf), id)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body = %s", w.Code, w.Body.String())
	}
	var created storage.Coach
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("decoding created coach: %v", err)
	}

	listReq := withIdentity(httptest.NewRequest(http.MethodGet, "/", nil), id)
	listW := httptest.NewRecorder()
	r.ServeHTTP(listW, listReq)
	if listW.Code != http.StatusOK {
		t.Fatalf("list status = %d", listW.Code)
	}

	favReq := withIdentity(httptest.NewRequest(http.MethodPost, "/"+created.ID.String()+"/favorite", nil), id)
	favW := httptest.NewRecorder()
	r.ServeHTTP(favW, favReq)
	if favW.Code != http.StatusOK {
		t.Fatalf("favorite status = %d, body = %s", favW.Code, favW.Body.String())
	}
	var assignment storage.CoachAssignment
	if err := json.Unmarshal(favW.Body.Bytes(), &assignment); err != nil {
		t.Fatalf("decoding assignment: %v", err)
	}
	if !assignment.Favorited {
		t.Fatal("expected favorite toggle to set Favorited=true on first call")
	}
}

func TestMCPTokensHandler_CreateListRevoke(t *testing.T) {
	store := memory.New()
	h := rest.NewMCPTokensHandler(store, nil, slog.Default())
	r := h.Routes()

	user, _ := store.CreateUser(context.Background(), storage.User{Email: "u@example.com", Status: storage.StatusActive, Role: storage.RoleUser})
	id := &auth.Identity{UserID: user.ID, Role: storage.RoleUser}

	var buf bytes.Buffer
	_ = json.NewEncoder(&buf).Encode(map[string]string{"name": "laptop"})
	createReq := withIdentity(httptest.NewRequest(http.MethodPost, "/", &buf), id)
	createW := httptest.NewRecorder()
	r.ServeHTTP(createW, createReq)
	if createW.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body = %s", createW.Code, createW.Body.String())
	}
	var created map[string]any
	if err := json.Unmarshal(createW.Body.Bytes(), &created); err != nil {
		t.Fatalf("decoding created token: %v", err)
	}
	if created["token"] == "" {
		t.Fatal("expected the raw token to be returned on creation")
	}

	listReq := withIdentity(httptest.NewRequest(http.MethodGet, "/", nil), id)
	listW := httptest.NewRecorder()
	r.ServeHTTP(listW, listReq)
	if listW.Code != http.StatusOK {
		t.Fatalf("list status = %d", listW.Code)
	}

	delReq := withIdentity(httptest.NewRequest(http.MethodDelete, "/"+created["id"].(string), nil), id)
	delW := httptest.NewRecorder()
	r.ServeHTTP(delW, delReq)
	if delW.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d, body = %s", delW.Code, delW.Body.String())
	}
}

func TestAdminHandler_ApprovePendingUser(t *testing.T) {
	store := memory.New()
	svc := admin.NewService(store)
	h := rest.NewAdminHandler(svc, nil, slog.Default())
	r := h.Routes()

	pending, _ := store.CreateUser(context.Background(), storage.User{Email: "pending@example.com", Status: storage.StatusPending, Role: storage.RoleUser})

	w := postJSON(r, "/approve-user/"+pending.ID.String(), map[string]string{
		"tenant_slug": "new-team",
		"tenant_name": "New Team",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("approve status = %d, body = %s", w.Code, w.Body.String())
	}

	got, err := store.GetUserByID(context.Background(), pending.ID)
	if err != nil {
		t.Fatalf("GetUserByID: %v", err)
	}
	if got.Status != storage.StatusActive {
		t.Fatalf("status = %q, want active", got.Status)
	}
	if got.TenantID == nil {
		t.Fatal("expected approval to assign a tenant")
	}
}

func TestSetupHandler_BootstrapThenRejectSecondCall(t *testing.T) {
	store := memory.New()
	svc := admin.NewService(store)
	h := rest.NewSetupHandler(svc, slog.Default())

	var buf bytes.Buffer
	_ = json.NewEncoder(&buf).Encode(map[string]string{"email": "root@example.com", "password": "a very long password"})
	req := httptest.NewRequest(http.MethodPost, "/admin/setup", &buf)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("first bootstrap status = %d, body = %s", w.Code, w.Body.String())
	}

	var buf2 bytes.Buffer
	_ = json.NewEncoder(&buf2).Encode(map[string]string{"email": "root2@example.com", "password": "a very long password"})
	req2 := httptest.NewRequest(http.MethodPost, "/admin/setup", &buf2)
	w2 := httptest.NewRecorder()
	h.ServeHTTP(w2, req2)
	if w2.Code != http.StatusConflict {
		t.Fatalf("second bootstrap status = %d, want %d", w2.Code, http.StatusConflict)
	}
}
