package tenantoauth_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/pierre-mcp/pierre/internal/apperr"
	"github.com/pierre-mcp/pierre/internal/crypto"
	"github.com/pierre-mcp/pierre/internal/storage"
	"github.com/pierre-mcp/pierre/internal/storage/memory"
	"github.com/pierre-mcp/pierre/internal/tenantoauth"
)

func newTestCipher(t *testing.T) *crypto.Cipher {
	t.Helper()
	c, err := crypto.LoadOrCreateCipher(filepath.Join(t.TempDir(), "key.bin"))
	if err != nil {
		t.Fatalf("LoadOrCreateCipher: %v", err)
	}
	return c
}

func TestStoreCredentialsRejectsUnknownProvider(t *testing.T) {
	mgr := tenantoauth.NewManager(memory.New(), newTestCipher(t))
	err := mgr.StoreCredentials(context.Background(), uuid.New(), "notreal", "id", "secret", "https://example.com/cb", nil, 1000)
	if apperr.KindOf(err) != apperr.KindConfig {
		t.Fatalf("expected KindConfig, got %v", err)
	}
}

func TestAuthorizeURLRoundTrip(t *testing.T) {
	ctx := context.Background()
	mgr := tenantoauth.NewManager(memory.New(), newTestCipher(t))
	tenantID := uuid.New()

	err := mgr.StoreCredentials(ctx, tenantID, "strava", "client-id", "client-secret", "https://app.example.com/callback/strava", nil, 1000)
	if err != nil {
		t.Fatalf("StoreCredentials: %v", err)
	}

	authURL, err := mgr.AuthorizeURL(ctx, tenantID, "strava", "state123")
	if err != nil {
		t.Fatalf("AuthorizeURL: %v", err)
	}
	if authURL == "" {
		t.Fatal("expected non-empty authorize URL")
	}
}

func TestAuthorizeURLUnconfiguredTenant(t *testing.T) {
	mgr := tenantoauth.NewManager(memory.New(), newTestCipher(t))
	_, err := mgr.AuthorizeURL(context.Background(), uuid.New(), "strava", "state")
	if apperr.KindOf(err) != apperr.KindNotFound {
		t.Fatalf("expected KindNotFound, got %v", err)
	}
}

func TestRateLimitCheckUsesTenantQuota(t *testing.T) {
	ctx := context.Background()
	mgr := tenantoauth.NewManager(memory.New(), newTestCipher(t))
	tenantID := uuid.New()

	if err := mgr.StoreCredentials(ctx, tenantID, "fitbit", "id", "secret", "https://app.example.com/cb", nil, 150); err != nil {
		t.Fatalf("StoreCredentials: %v", err)
	}

	used, limit, err := mgr.RateLimitCheck(ctx, tenantID, "fitbit")
	if err != nil {
		t.Fatalf("RateLimitCheck: %v", err)
	}
	if used != 0 || limit != 150 {
		t.Fatalf("used=%d limit=%d, want 0/150", used, limit)
	}

	if err := mgr.RecordUpstreamCall(ctx, tenantID, "fitbit"); err != nil {
		t.Fatalf("RecordUpstreamCall: %v", err)
	}

	used, limit, err = mgr.RateLimitCheck(ctx, tenantID, "fitbit")
	if err != nil {
		t.Fatalf("RateLimitCheck: %v", err)
	}
	if used != 1 || limit != 150 {
		t.Fatalf("used=%d limit=%d, want 1/150", used, limit)
	}
}

func TestRevokeDeletesTokenEvenWithoutUpstreamEndpoint(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	mgr := tenantoauth.NewManager(store, newTestCipher(t))
	tenantID, userID := uuid.New(), uuid.New()

	if err := mgr.StoreCredentials(ctx, tenantID, "garmin", "id", "secret", "https://app.example.com/cb", nil, 1000); err != nil {
		t.Fatalf("StoreCredentials: %v", err)
	}

	if err := store.UpsertUserOAuthToken(ctx, storage.UserOAuthToken{
		UserID: userID, TenantID: tenantID, Provider: "garmin", ExpiresAt: time.Now().Add(time.Hour),
	}); err != nil {
		t.Fatalf("UpsertUserOAuthToken: %v", err)
	}

	// garmin has no RevokeURL registered; Revoke must still delete locally.
	if err := mgr.Revoke(ctx, userID, tenantID, "garmin"); err != nil {
		t.Fatalf("Revoke: %v", err)
	}
	if _, err := store.GetUserOAuthToken(ctx, userID, tenantID, "garmin"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected stored token to be deleted, got %v", err)
	}
}

func TestRefreshIfNearExpiryNoStoredToken(t *testing.T) {
	mgr := tenantoauth.NewManager(memory.New(), newTestCipher(t))
	err := mgr.RefreshIfNearExpiry(context.Background(), uuid.New(), uuid.New(), "strava")
	if apperr.KindOf(err) != apperr.KindNotFound {
		t.Fatalf("expected KindNotFound, got %v", err)
	}
}
