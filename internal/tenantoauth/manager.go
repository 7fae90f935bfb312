// Package tenantoauth manages per-tenant upstream OAuth clients: each
// tenant supplies its own client id/secret/redirect URI per provider (no
// shared application-level credentials), and every operation is scoped to
// the calling tenant at the storage seam.
package tenantoauth

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"github.com/pierre-mcp/pierre/internal/apperr"
	"github.com/pierre-mcp/pierre/internal/crypto"
	"github.com/pierre-mcp/pierre/internal/storage"
)

// Endpoint describes one upstream provider's OAuth2 endpoints and default
// scopes. Providers register themselves at init time (see endpoints.go).
type Endpoint struct {
	AuthURL       string
	TokenURL      string
	RevokeURL     string // empty if the provider has no revoke endpoint
	DefaultScopes []string
}

var endpoints = map[string]Endpoint{}

// RegisterEndpoint adds or overwrites a provider's OAuth2 endpoint config.
func RegisterEndpoint(provider string, ep Endpoint) {
	endpoints[provider] = ep
}

// CallbackResponse is the normalized result of a successful code exchange.
type CallbackResponse struct {
	UserID    uuid.UUID
	Provider  string
	Scopes    []string
	ExpiresAt time.Time
}

// Manager implements tenant-scoped OAuth operations.
type Manager struct {
	store  storage.Provider
	cipher *crypto.Cipher
}

// NewManager builds a Manager over store, encrypting/decrypting secrets
// and tokens with cipher before they touch storage.
func NewManager(store storage.Provider, cipher *crypto.Cipher) *Manager {
	return &Manager{store: store, cipher: cipher}
}

func (m *Manager) oauthConfig(creds storage.TenantOAuthCredentials) (*oauth2.Config, error) {
	ep, ok := endpoints[creds.Provider]
	if !ok {
		return nil, apperr.New(apperr.KindConfig, "unknown provider "+creds.Provider)
	}
	secret, err := m.cipher.DecryptString(creds.ClientSecretEnc)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "decrypting client secret", err)
	}
	scopes := creds.Scopes
	if len(scopes) == 0 {
		scopes = ep.DefaultScopes
	}
	return &oauth2.Config{
		ClientID:     creds.ClientID,
		ClientSecret: secret,
		RedirectURL:  creds.RedirectURI,
		Scopes:       scopes,
		Endpoint: oauth2.Endpoint{
			AuthURL:  ep.AuthURL,
			TokenURL: ep.TokenURL,
		},
	}, nil
}

// StoreCredentials encrypts clientSecret and upserts the tenant's OAuth
// client configuration for provider.
func (m *Manager) StoreCredentials(ctx context.Context, tenantID uuid.UUID, provider, clientID, clientSecret, redirectURI string, scopes []string, dailyQuota int) error {
	if _, ok := endpoints[provider]; !ok {
		return apperr.New(apperr.KindConfig, "unknown provider "+provider)
	}
	secretEnc, err := m.cipher.EncryptString(clientSecret)
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, "encrypting client secret", err)
	}
	return m.store.UpsertTenantOAuthCredentials(ctx, storage.TenantOAuthCredentials{
		TenantID:        tenantID,
		Provider:        provider,
		ClientID:        clientID,
		ClientSecretEnc: secretEnc,
		RedirectURI:     redirectURI,
		Scopes:          scopes,
		DailyQuota:      dailyQuota,
	})
}

// AuthorizeURL renders provider's authorization URL using this tenant's own
// client configuration.
func (m *Manager) AuthorizeURL(ctx context.Context, tenantID uuid.UUID, provider, state string) (string, error) {
	creds, err := m.store.GetTenantOAuthCredentials(ctx, tenantID, provider)
	if err != nil {
		return "", apperr.New(apperr.KindNotFound, "oauth credentials not configured for "+provider)
	}
	cfg, err := m.oauthConfig(creds)
	if err != nil {
		return "", err
	}
	return cfg.AuthCodeURL(state), nil
}

// ExchangeCode trades an authorization code for tokens using the tenant's
// client credentials, encrypts the result, and stores it under
// (user, tenant, provider).
func (m *Manager) ExchangeCode(ctx context.Context, userID, tenantID uuid.UUID, provider, code string) (CallbackResponse, error) {
	creds, err := m.store.GetTenantOAuthCredentials(ctx, tenantID, provider)
	if err != nil {
		return CallbackResponse{}, apperr.New(apperr.KindNotFound, "oauth credentials not configured for "+provider)
	}
	cfg, err := m.oauthConfig(creds)
	if err != nil {
		return CallbackResponse{}, err
	}

	tok, err := cfg.Exchange(ctx, code)
	if err != nil {
		return CallbackResponse{}, apperr.Wrap(apperr.KindProviderAuth, "exchanging authorization code", err)
	}

	if err := m.storeToken(ctx, userID, tenantID, provider, tok); err != nil {
		return CallbackResponse{}, err
	}

	return CallbackResponse{
		UserID:    userID,
		Provider:  provider,
		Scopes:    creds.Scopes,
		ExpiresAt: tok.Expiry,
	}, nil
}

func (m *Manager) storeToken(ctx context.Context, userID, tenantID uuid.UUID, provider string, tok *oauth2.Token) error {
	accessEnc, err := m.cipher.EncryptString(tok.AccessToken)
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, "encrypting access token", err)
	}
	var refreshEnc []byte
	if tok.RefreshToken != "" {
		refreshEnc, err = m.cipher.EncryptString(tok.RefreshToken)
		if err != nil {
			return apperr.Wrap(apperr.KindInternal, "encrypting refresh token", err)
		}
	}
	return m.store.UpsertUserOAuthToken(ctx, storage.UserOAuthToken{
		UserID:          userID,
		TenantID:        tenantID,
		Provider:        provider,
		AccessTokenEnc:  accessEnc,
		RefreshTokenEnc: refreshEnc,
		ExpiresAt:       tok.Expiry,
	})
}

// refreshSkew is how far ahead of expiry a token is proactively refreshed.
const refreshSkew = 5 * time.Minute

// RefreshIfNearExpiry refreshes the stored token for (user, tenant,
// provider) if it is within refreshSkew of expiring. On refresh failure the
// stored token is deleted and ErrReauthorize is returned so the caller
// knows to restart the authorization flow.
func (m *Manager) RefreshIfNearExpiry(ctx context.Context, userID, tenantID uuid.UUID, provider string) error {
	stored, err := m.store.GetUserOAuthToken(ctx, userID, tenantID, provider)
	if err != nil {
		return apperr.New(apperr.KindNotFound, "no stored token for "+provider)
	}
	if time.Now().Add(refreshSkew).Before(stored.ExpiresAt) {
		return nil
	}

	creds, err := m.store.GetTenantOAuthCredentials(ctx, tenantID, provider)
	if err != nil {
		return apperr.New(apperr.KindNotFound, "oauth credentials not configured for "+provider)
	}
	cfg, err := m.oauthConfig(creds)
	if err != nil {
		return err
	}

	refreshToken, err := m.cipher.DecryptString(stored.RefreshTokenEnc)
	if err != nil || refreshToken == "" {
		_ = m.store.DeleteUserOAuthToken(ctx, userID, tenantID, provider)
		return ErrReauthorize
	}

	tok, err := cfg.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken}).Token()
	if err != nil {
		_ = m.store.DeleteUserOAuthToken(ctx, userID, tenantID, provider)
		return ErrReauthorize
	}

	return m.storeToken(ctx, userID, tenantID, provider, tok)
}

// AccessToken returns a decrypted, refreshed-if-needed bearer token for
// (user, tenant, provider), the shape internal/providers.TokenSource needs.
func (m *Manager) AccessToken(ctx context.Context, userID, tenantID uuid.UUID, provider string) (string, error) {
	if err := m.RefreshIfNearExpiry(ctx, userID, tenantID, provider); err != nil {
		return "", err
	}
	stored, err := m.store.GetUserOAuthToken(ctx, userID, tenantID, provider)
	if err != nil {
		return "", apperr.New(apperr.KindNotFound, "no stored token for "+provider)
	}
	return m.cipher.DecryptString(stored.AccessTokenEnc)
}

// Revoke calls the provider's revoke endpoint best-effort and deletes the
// stored token row regardless of whether the upstream call succeeded.
func (m *Manager) Revoke(ctx context.Context, userID, tenantID uuid.UUID, provider string) error {
	stored, err := m.store.GetUserOAuthToken(ctx, userID, tenantID, provider)
	if err == nil {
		if accessToken, derr := m.cipher.DecryptString(stored.AccessTokenEnc); derr == nil {
			_ = revokeUpstream(ctx, provider, accessToken)
		}
	}
	return m.store.DeleteUserOAuthToken(ctx, userID, tenantID, provider)
}

func revokeUpstream(ctx context.Context, provider, accessToken string) error {
	ep, ok := endpoints[provider]
	if !ok || ep.RevokeURL == "" {
		return nil
	}
	return postRevoke(ctx, ep.RevokeURL, accessToken)
}

// dailyWindow returns the rate-limit window key for "now", in UTC.
func dailyWindow() string {
	return time.Now().UTC().Format("2006-01-02")
}

// RateLimitCheck returns (used, limit) for provider's current UTC day
// within tenantID.
func (m *Manager) RateLimitCheck(ctx context.Context, tenantID uuid.UUID, provider string) (used, limit int64, err error) {
	creds, err := m.store.GetTenantOAuthCredentials(ctx, tenantID, provider)
	if err != nil {
		return 0, 0, apperr.New(apperr.KindNotFound, "oauth credentials not configured for "+provider)
	}
	subject := fmt.Sprintf("tenant:%s:provider:%s", tenantID, provider)
	used, err = m.store.GetRateLimit(ctx, subject, dailyWindow())
	if err != nil {
		return 0, 0, err
	}
	return used, int64(creds.DailyQuota), nil
}

// RecordUpstreamCall increments the daily usage counter after a successful
// call to provider's API on behalf of tenantID.
func (m *Manager) RecordUpstreamCall(ctx context.Context, tenantID uuid.UUID, provider string) error {
	subject := fmt.Sprintf("tenant:%s:provider:%s", tenantID, provider)
	_, err := m.store.IncrementRateLimit(ctx, subject, dailyWindow())
	return err
}
