package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/pierre-mcp/pierre/internal/auth"
	"github.com/pierre-mcp/pierre/internal/crypto"
	"github.com/pierre-mcp/pierre/internal/storage"
	"github.com/pierre-mcp/pierre/internal/storage/memory"
)

func newTestJWKS(t *testing.T) *crypto.JWKSManager {
	t.Helper()
	jwks, err := crypto.LoadOrCreateJWKSManager(t.TempDir(), 24*time.Hour)
	if err != nil {
		t.Fatalf("LoadOrCreateJWKSManager: %v", err)
	}
	return jwks
}

func TestAuthenticateViaJWT(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	jwks := newTestJWKS(t)
	mgr := auth.NewManager(store, jwks)

	u, err := store.CreateUser(ctx, storage.User{Email: "a@example.com", Status: storage.StatusActive, Role: storage.RoleUser})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	token, err := jwks.IssueToken(crypto.Claims{Subject: u.ID.String(), Email: u.Email, Role: u.Role})
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}

	id, err := mgr.Authenticate(ctx, auth.Request{AuthorizationHeader: "Bearer " + token})
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if id.UserID != u.ID || id.CredentialKind != auth.CredentialJWT {
		t.Fatalf("unexpected identity: %+v", id)
	}
}

func TestAuthenticateRejectsSuspendedUser(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	jwks := newTestJWKS(t)
	mgr := auth.NewManager(store, jwks)

	u, _ := store.CreateUser(ctx, storage.User{Email: "b@example.com", Status: storage.StatusSuspended, Role: storage.RoleUser})
	token, _ := jwks.IssueToken(crypto.Claims{Subject: u.ID.String(), Email: u.Email, Role: u.Role})

	if _, err := mgr.Authenticate(ctx, auth.Request{AuthorizationHeader: "Bearer " + token}); err != auth.ErrRevokedCredential {
		t.Fatalf("expected ErrRevokedCredential, got %v", err)
	}
}

func TestAuthenticateViaAPIKey(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	jwks := newTestJWKS(t)
	mgr := auth.NewManager(store, jwks)

	u, _ := store.CreateUser(ctx, storage.User{Email: "c@example.com", Status: storage.StatusActive})
	raw := "pierre_live_abcdef0123456789"
	_, err := store.CreateAPIKey(ctx, storage.APIKey{
		UserID:    u.ID,
		KeyPrefix: raw[:12],
		KeyHash:   crypto.HashAPIKey(raw),
		Active:    true,
	})
	if err != nil {
		t.Fatalf("CreateAPIKey: %v", err)
	}

	id, err := mgr.Authenticate(ctx, auth.Request{APIKeyHeader: raw})
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if id.UserID != u.ID || id.CredentialKind != auth.CredentialAPIKey {
		t.Fatalf("unexpected identity: %+v", id)
	}
}

func TestAuthenticateRejectsExpiredAPIKey(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	jwks := newTestJWKS(t)
	mgr := auth.NewManager(store, jwks)

	u, _ := store.CreateUser(ctx, storage.User{Email: "d@example.com", Status: storage.StatusActive})
	raw := "pierre_live_expiredkey12345"
	expired := time.Now().Add(-time.Hour)
	_, _ = store.CreateAPIKey(ctx, storage.APIKey{
		UserID:    u.ID,
		KeyPrefix: raw[:12],
		KeyHash:   crypto.HashAPIKey(raw),
		Active:    true,
		ExpiresAt: &expired,
	})

	if _, err := mgr.Authenticate(ctx, auth.Request{APIKeyHeader: raw}); err != auth.ErrExpiredCredential {
		t.Fatalf("expected ErrExpiredCredential, got %v", err)
	}
}

func TestAuthenticateViaAdminToken(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	jwks := newTestJWKS(t)
	mgr := auth.NewManager(store, jwks)

	raw, err := crypto.GenerateSecret(24)
	if err != nil {
		t.Fatalf("GenerateSecret: %v", err)
	}
	_, err = store.CreateAdminToken(ctx, storage.AdminToken{
		ServiceName: "ci",
		Permissions: []string{storage.PermListKeys},
		Active:      true,
		TokenHash:   crypto.HashAPIKey(raw),
	})
	if err != nil {
		t.Fatalf("CreateAdminToken: %v", err)
	}

	id, err := mgr.Authenticate(ctx, auth.Request{AuthorizationHeader: "Bearer " + raw})
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if !id.IsAdminToken() || id.CredentialKind != auth.CredentialAdminToken {
		t.Fatalf("unexpected identity: %+v", id)
	}
}

func TestAuthenticateMissingCredential(t *testing.T) {
	store := memory.New()
	jwks := newTestJWKS(t)
	mgr := auth.NewManager(store, jwks)

	if _, err := mgr.Authenticate(context.Background(), auth.Request{}); err != auth.ErrMissingCredential {
		t.Fatalf("expected ErrMissingCredential, got %v", err)
	}
}
