package memory

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/pierre-mcp/pierre/internal/storage"
)

func TestCreateAndGetUser(t *testing.T) {
	s := New()
	ctx := context.Background()

	u, err := s.CreateUser(ctx, storage.User{Email: "a@example.com", Status: storage.StatusPending})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if u.ID == uuid.Nil {
		t.Fatal("expected generated ID")
	}

	got, err := s.GetUserByEmail(ctx, "a@example.com")
	if err != nil {
		t.Fatalf("GetUserByEmail: %v", err)
	}
	if got.ID != u.ID {
		t.Fatalf("got id %s, want %s", got.ID, u.ID)
	}

	if _, err := s.CreateUser(ctx, storage.User{Email: "a@example.com"}); err != storage.ErrConflict {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestGetUserByIDNotFound(t *testing.T) {
	s := New()
	if _, err := s.GetUserByID(context.Background(), uuid.New()); err != storage.ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListPendingUsersOrdersByCreation(t *testing.T) {
	s := New()
	ctx := context.Background()
	first, _ := s.CreateUser(ctx, storage.User{Email: "first@example.com", Status: storage.StatusPending, CreatedAt: time.Now().Add(-time.Hour)})
	second, _ := s.CreateUser(ctx, storage.User{Email: "second@example.com", Status: storage.StatusPending, CreatedAt: time.Now()})
	_, _ = s.CreateUser(ctx, storage.User{Email: "active@example.com", Status: storage.StatusActive})

	pending, err := s.ListPendingUsers(ctx)
	if err != nil {
		t.Fatalf("ListPendingUsers: %v", err)
	}
	if len(pending) != 2 {
		t.Fatalf("got %d pending, want 2", len(pending))
	}
	if pending[0].ID != first.ID || pending[1].ID != second.ID {
		t.Fatal("expected pending users ordered oldest first")
	}
}

func TestCoachCrossTenantAccessDenied(t *testing.T) {
	s := New()
	ctx := context.Background()
	tenantA := uuid.New()
	tenantB := uuid.New()

	c, err := s.CreateCoach(ctx, storage.Coach{TenantID: tenantA, Name: "Coach A"})
	if err != nil {
		t.Fatalf("CreateCoach: %v", err)
	}

	if _, err := s.GetCoach(ctx, tenantB, c.ID); err != storage.ErrUnauthorized {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}

	got, err := s.GetCoach(ctx, tenantA, c.ID)
	if err != nil || got.ID != c.ID {
		t.Fatalf("expected successful same-tenant lookup, got %+v, %v", got, err)
	}
}

func TestUserOAuthTokenUpsertAndExpiry(t *testing.T) {
	s := New()
	ctx := context.Background()
	userID, tenantID := uuid.New(), uuid.New()

	err := s.UpsertUserOAuthToken(ctx, storage.UserOAuthToken{
		UserID:    userID,
		TenantID:  tenantID,
		Provider:  "strava",
		ExpiresAt: time.Now().Add(-time.Minute),
	})
	if err != nil {
		t.Fatalf("UpsertUserOAuthToken: %v", err)
	}

	near, err := s.ListNearExpiryTokens(ctx, time.Now())
	if err != nil {
		t.Fatalf("ListNearExpiryTokens: %v", err)
	}
	if len(near) != 1 {
		t.Fatalf("got %d near-expiry tokens, want 1", len(near))
	}

	if err := s.DeleteUserOAuthToken(ctx, userID, tenantID, "strava"); err != nil {
		t.Fatalf("DeleteUserOAuthToken: %v", err)
	}
	if _, err := s.GetUserOAuthToken(ctx, userID, tenantID, "strava"); err != storage.ErrNotFound {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestRateLimitIncrement(t *testing.T) {
	s := New()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := s.IncrementRateLimit(ctx, "user:1", "2026-07-31"); err != nil {
			t.Fatalf("IncrementRateLimit: %v", err)
		}
	}
	count, err := s.GetRateLimit(ctx, "user:1", "2026-07-31")
	if err != nil {
		t.Fatalf("GetRateLimit: %v", err)
	}
	if count != 3 {
		t.Fatalf("got %d, want 3", count)
	}
}

func TestTopToolUsage(t *testing.T) {
	s := New()
	ctx := context.Background()
	tenantID := uuid.New()

	for i := 0; i < 5; i++ {
		_ = s.AppendAuditLog(ctx, storage.AuditLogEntry{TenantID: &tenantID, Action: "tool_call", Target: "get_activities"})
	}
	for i := 0; i < 2; i++ {
		_ = s.AppendAuditLog(ctx, storage.AuditLogEntry{TenantID: &tenantID, Action: "tool_call", Target: "calculate_metrics"})
	}

	top, err := s.TopToolUsage(ctx, tenantID, time.Now().Add(-time.Hour), 10)
	if err != nil {
		t.Fatalf("TopToolUsage: %v", err)
	}
	if len(top) != 2 || top[0].ToolName != "get_activities" || top[0].Count != 5 {
		t.Fatalf("unexpected top usage: %+v", top)
	}
}
