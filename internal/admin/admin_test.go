package admin_test

import (
	"context"
	"testing"

	"github.com/pierre-mcp/pierre/internal/admin"
	"github.com/pierre-mcp/pierre/internal/storage"
	"github.com/pierre-mcp/pierre/internal/storage/memory"
)

func TestBootstrap_CreatesSuperadmin(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	svc := admin.NewService(store)

	u, err := svc.Bootstrap(ctx, "root@example.com", "correct horse battery staple")
	if err != nil {
		t.Fatalf("Bootstrap: %v", err)
	}
	if u.Role != storage.RoleSuperadmin || u.Status != storage.StatusActive {
		t.Fatalf("unexpected bootstrapped user: %+v", u)
	}
}

func TestBootstrap_RejectsSecondCall(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	svc := admin.NewService(store)

	if _, err := svc.Bootstrap(ctx, "root@example.com", "password1"); err != nil {
		t.Fatalf("first Bootstrap: %v", err)
	}
	if _, err := svc.Bootstrap(ctx, "other@example.com", "password2"); err != admin.ErrAlreadyBootstrapped {
		t.Fatalf("expected ErrAlreadyBootstrapped, got %v", err)
	}
}

func TestApproveUser_ProvisionsNewTenant(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	svc := admin.NewService(store)

	u, err := store.CreateUser(ctx, storage.User{Email: "pending@example.com", Status: storage.StatusPending, Role: storage.RoleUser})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	approved, err := svc.ApproveUser(ctx, u.ID, "acme", "Acme Fitness")
	if err != nil {
		t.Fatalf("ApproveUser: %v", err)
	}
	if approved.Status != storage.StatusActive {
		t.Fatalf("status = %q, want active", approved.Status)
	}
	if approved.TenantID == nil {
		t.Fatal("expected tenant assigned")
	}
}

func TestApproveUser_JoinsExistingTenant(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	svc := admin.NewService(store)

	tenant, err := store.CreateTenant(ctx, storage.Tenant{Name: "Acme Fitness", Slug: "acme", Plan: storage.TierProfessional})
	if err != nil {
		t.Fatalf("CreateTenant: %v", err)
	}
	u, _ := store.CreateUser(ctx, storage.User{Email: "joiner@example.com", Status: storage.StatusPending, Role: storage.RoleUser})

	approved, err := svc.ApproveUser(ctx, u.ID, "acme", "Acme Fitness")
	if err != nil {
		t.Fatalf("ApproveUser: %v", err)
	}
	if approved.TenantID == nil || *approved.TenantID != tenant.ID {
		t.Fatalf("expected user joined existing tenant %s, got %+v", tenant.ID, approved.TenantID)
	}
}

func TestApproveUser_RejectsNonPending(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	svc := admin.NewService(store)

	u, _ := store.CreateUser(ctx, storage.User{Email: "active@example.com", Status: storage.StatusActive, Role: storage.RoleUser})

	if _, err := svc.ApproveUser(ctx, u.ID, "", ""); err == nil {
		t.Fatal("expected error approving an already-active user")
	}
}

func TestSuspendUser(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	svc := admin.NewService(store)

	u, _ := store.CreateUser(ctx, storage.User{Email: "s@example.com", Status: storage.StatusActive, Role: storage.RoleUser})
	if err := svc.SuspendUser(ctx, u.ID); err != nil {
		t.Fatalf("SuspendUser: %v", err)
	}
	got, _ := store.GetUserByID(ctx, u.ID)
	if got.Status != storage.StatusSuspended {
		t.Fatalf("status = %q, want suspended", got.Status)
	}
}

func TestCreateAdminToken_ReturnsRawOnceAndHashesStored(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	svc := admin.NewService(store)

	raw, token, err := svc.CreateAdminToken(ctx, "billing-sync", "billing integration", []string{"billing:read"}, false, 0)
	if err != nil {
		t.Fatalf("CreateAdminToken: %v", err)
	}
	if raw == "" {
		t.Fatal("expected non-empty raw token")
	}
	if token.TokenHash == "" || token.TokenHash == raw {
		t.Fatalf("expected hashed token distinct from raw, got %q", token.TokenHash)
	}
	if !token.Active {
		t.Fatal("expected newly created token to be active")
	}
}

func TestRotateAdminToken_RevokesOldIssuesNew(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	svc := admin.NewService(store)

	_, original, err := svc.CreateAdminToken(ctx, "reporting", "reporting job", nil, false, 0)
	if err != nil {
		t.Fatalf("CreateAdminToken: %v", err)
	}

	newRaw, rotated, err := svc.RotateAdminToken(ctx, original.ID, 0)
	if err != nil {
		t.Fatalf("RotateAdminToken: %v", err)
	}
	if newRaw == "" {
		t.Fatal("expected non-empty rotated raw token")
	}
	if rotated.ServiceName != original.ServiceName {
		t.Fatalf("rotated service name = %q, want %q", rotated.ServiceName, original.ServiceName)
	}

	tokens, err := svc.ListAdminTokens(ctx)
	if err != nil {
		t.Fatalf("ListAdminTokens: %v", err)
	}
	var foundOld, foundNew bool
	for _, tok := range tokens {
		if tok.ID == original.ID {
			foundOld = true
			if tok.Active {
				t.Fatal("expected old token to be revoked (inactive)")
			}
		}
		if tok.ID == rotated.ID {
			foundNew = true
			if !tok.Active {
				t.Fatal("expected rotated token to be active")
			}
		}
	}
	if !foundOld || !foundNew {
		t.Fatalf("expected both old and new tokens listed, foundOld=%v foundNew=%v", foundOld, foundNew)
	}
}
