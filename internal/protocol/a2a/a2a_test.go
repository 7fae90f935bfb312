package a2a_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/pierre-mcp/pierre/internal/auth"
	"github.com/pierre-mcp/pierre/internal/executor"
	"github.com/pierre-mcp/pierre/internal/protocol/a2a"
	"github.com/pierre-mcp/pierre/internal/storage"
	"github.com/pierre-mcp/pierre/internal/storage/memory"
)

func newTestHandler(t *testing.T) (*a2a.Handler, storage.User, storage.Tenant) {
	t.Helper()
	ctx := context.Background()
	store := memory.New()
	u, err := store.CreateUser(ctx, storage.User{Email: "svc@example.com", Status: storage.StatusActive, Role: storage.RoleUser})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	tenant, err := store.CreateTenant(ctx, storage.Tenant{Name: "T", Slug: "t"})
	if err != nil {
		t.Fatalf("CreateTenant: %v", err)
	}
	if err := store.SetUserTenant(ctx, u.ID, tenant.ID); err != nil {
		t.Fatalf("SetUserTenant: %v", err)
	}
	u, _ = store.GetUserByID(ctx, u.ID)

	ex := executor.New(store)
	ex.Register(executor.Tool{
		Name: "ping",
		Execute: func(executor.ToolContext) (any, error) {
			return map[string]string{"message": "pong"}, nil
		},
	})

	return a2a.NewHandler(ex, slog.Default()), u, tenant
}

func TestA2A_RequiresTenantHeader(t *testing.T) {
	h, u, _ := newTestHandler(t)
	body, _ := json.Marshal(map[string]any{"jsonrpc": "2.0", "id": 1, "method": "tools/call", "params": map[string]any{"name": "ping"}})

	r := httptest.NewRequest(http.MethodPost, "/a2a", bytes.NewReader(body))
	r = r.WithContext(auth.NewContext(r.Context(), &auth.Identity{UserID: u.ID, Role: storage.RoleUser}))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp["error"] == nil {
		t.Fatal("expected an error when X-Pierre-Tenant-ID is missing")
	}
}

func TestA2A_ToolsCallSucceeds(t *testing.T) {
	h, u, tenant := newTestHandler(t)
	body, _ := json.Marshal(map[string]any{"jsonrpc": "2.0", "id": 1, "method": "tools/call", "params": map[string]any{"name": "ping"}})

	r := httptest.NewRequest(http.MethodPost, "/a2a", bytes.NewReader(body))
	r.Header.Set(a2a.TenantHeader, tenant.ID.String())
	r = r.WithContext(auth.NewContext(r.Context(), &auth.Identity{UserID: u.ID, Role: storage.RoleUser}))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp["error"] != nil {
		t.Fatalf("unexpected error: %+v", resp["error"])
	}
}

func TestA2A_ServiceTokenRequiresExplicitUserID(t *testing.T) {
	h, _, tenant := newTestHandler(t)
	body, _ := json.Marshal(map[string]any{"jsonrpc": "2.0", "id": 1, "method": "tools/call", "params": map[string]any{"name": "ping"}})

	r := httptest.NewRequest(http.MethodPost, "/a2a", bytes.NewReader(body))
	r.Header.Set(a2a.TenantHeader, tenant.ID.String())
	adminTokenID := uuid.New()
	r = r.WithContext(auth.NewContext(r.Context(), &auth.Identity{AdminTokenID: &adminTokenID, Role: storage.RoleAdmin}))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp["error"] == nil {
		t.Fatal("expected an error when a service token omits user_id")
	}
}
