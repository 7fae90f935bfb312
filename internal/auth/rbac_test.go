package auth_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/pierre-mcp/pierre/internal/auth"
	"github.com/pierre-mcp/pierre/internal/storage"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequireAuthRejectsAnonymous(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	auth.RequireAuth(okHandler()).ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestRequireMinRoleHierarchy(t *testing.T) {
	tests := []struct {
		name string
		role string
		want int
	}{
		{"user rejected", storage.RoleUser, http.StatusForbidden},
		{"admin allowed", storage.RoleAdmin, http.StatusOK},
		{"superadmin allowed", storage.RoleSuperadmin, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			ctx := auth.NewContext(req.Context(), &auth.Identity{Role: tt.role})
			req = req.WithContext(ctx)

			auth.RequireMinRole(storage.RoleAdmin)(okHandler()).ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestRequireAdminPermission(t *testing.T) {
	tests := []struct {
		name  string
		id    *auth.Identity
		want  int
	}{
		{"not an admin token", &auth.Identity{Role: storage.RoleUser}, http.StatusForbidden},
		{"missing permission", adminIdentity([]string{storage.PermListKeys}), http.StatusForbidden},
		{"has permission", adminIdentity([]string{storage.PermRevokeKeys}), http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/", nil)
			req = req.WithContext(auth.NewContext(req.Context(), tt.id))

			auth.RequireAdminPermission(storage.PermRevokeKeys)(okHandler()).ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func adminIdentity(perms []string) *auth.Identity {
	id := uuid.New()
	return &auth.Identity{Role: storage.RoleAdmin, AdminTokenID: &id, AdminPerms: perms}
}
