// Package middleware provides cross-cutting HTTP middleware layered on top
// of internal/httpserver and internal/auth: CSRF protection, credential-
// scoped rate limiting, and security headers.
package middleware

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pierre-mcp/pierre/internal/apperr"
	"github.com/pierre-mcp/pierre/internal/auth"
	"github.com/pierre-mcp/pierre/internal/httpserver"
)

const (
	csrfKeySize     = 32
	csrfNonceSize   = 16
	csrfTokenMaxAge = 4 * time.Hour
)

// csrfExemptPaths operate before or after a valid session exists, so the
// client may not yet have — or has already discarded — a CSRF token. Login
// is not listed: it never carries a pierre_session cookie in the first
// place, so it is already exempt via the no-cookie bypass below.
var csrfExemptPaths = map[string]bool{
	"/oauth/token":       true,
	"/api/auth/register": true,
	"/api/auth/refresh":  true,
	"/api/auth/logout":   true,
	"/api/auth/firebase": true,
}

// CSRFTokenManager issues and validates stateless, HMAC-signed CSRF tokens
// bound to a user ID and an expiry, so validation never needs a store.
type CSRFTokenManager struct {
	key []byte
}

// NewCSRFTokenManager reads a raw key from path, generating and persisting
// one (mode 0600) if the file doesn't exist.
func NewCSRFTokenManager(path string) (*CSRFTokenManager, error) {
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		raw = make([]byte, csrfKeySize)
		if _, rerr := rand.Read(raw); rerr != nil {
			return nil, fmt.Errorf("generating csrf key: %w", rerr)
		}
		if werr := os.WriteFile(path, raw, 0o600); werr != nil {
			return nil, fmt.Errorf("writing csrf key to %s: %w", path, werr)
		}
	} else if err != nil {
		return nil, fmt.Errorf("reading csrf key from %s: %w", path, err)
	}

	if len(raw) != csrfKeySize {
		return nil, fmt.Errorf("csrf key at %s must be %d bytes, got %d", path, csrfKeySize, len(raw))
	}

	return &CSRFTokenManager{key: raw}, nil
}

// GenerateToken issues a token bound to userID, valid for csrfTokenMaxAge.
func (m *CSRFTokenManager) GenerateToken(userID uuid.UUID) (string, error) {
	nonce := make([]byte, csrfNonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("generating csrf nonce: %w", err)
	}

	expiry := time.Now().Add(csrfTokenMaxAge).Unix()
	payload := csrfPayload(userID, expiry, nonce)

	mac := hmac.New(sha256.New, m.key)
	mac.Write(payload)
	sig := mac.Sum(nil)

	return base64.RawURLEncoding.EncodeToString(append(payload, sig...)), nil
}

// ValidateToken reports whether token is a well-formed, unexpired,
// correctly-signed CSRF token for userID.
func (m *CSRFTokenManager) ValidateToken(token string, userID uuid.UUID) error {
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return apperr.New(apperr.KindCSRF, "malformed csrf token")
	}

	payloadLen := 16 + 8 + csrfNonceSize
	if len(raw) != payloadLen+sha256.Size {
		return apperr.New(apperr.KindCSRF, "malformed csrf token")
	}

	payload, sig := raw[:payloadLen], raw[payloadLen:]

	mac := hmac.New(sha256.New, m.key)
	mac.Write(payload)
	want := mac.Sum(nil)
	if !hmac.Equal(sig, want) {
		return apperr.New(apperr.KindCSRF, "csrf token signature mismatch")
	}

	tokenUserID, expiry, _ := parseCSRFPayload(payload)
	if tokenUserID != userID {
		return apperr.New(apperr.KindCSRF, "csrf token does not belong to caller")
	}
	if time.Now().Unix() > expiry {
		return apperr.New(apperr.KindCSRF, "csrf token expired")
	}

	return nil
}

func csrfPayload(userID uuid.UUID, expiry int64, nonce []byte) []byte {
	buf := make([]byte, 0, 16+8+csrfNonceSize)
	idBytes := userID
	buf = append(buf, idBytes[:]...)
	var expBuf [8]byte
	binary.BigEndian.PutUint64(expBuf[:], uint64(expiry))
	buf = append(buf, expBuf[:]...)
	buf = append(buf, nonce...)
	return buf
}

func parseCSRFPayload(payload []byte) (uuid.UUID, int64, []byte) {
	var id uuid.UUID
	copy(id[:], payload[:16])
	expiry := int64(binary.BigEndian.Uint64(payload[16:24]))
	nonce := payload[24:]
	return id, expiry, nonce
}

func requiresCSRFValidation(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch:
		return true
	default:
		return false
	}
}

// CSRF enforces CSRF protection on cookie-authenticated, state-changing
// requests. Requests authenticated via Bearer token or API key bypass
// validation since they aren't vulnerable to cross-site request forgery;
// only browser clients carrying a session cookie need a matching
// X-CSRF-Token header.
func CSRF(tm *CSRFTokenManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !requiresCSRFValidation(r.Method) || csrfExemptPaths[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}

			authz := r.Header.Get("Authorization")
			if strings.HasPrefix(authz, "Bearer ") || r.Header.Get("X-API-Key") != "" {
				next.ServeHTTP(w, r)
				return
			}

			if _, err := r.Cookie("pierre_session"); err != nil {
				// No cookie session to protect; let the handler's own auth
				// check reject the request if it needs identity.
				next.ServeHTTP(w, r)
				return
			}

			id := auth.FromContext(r.Context())
			if id == nil {
				httpserver.RespondAppErr(w, apperr.New(apperr.KindAuthentication, "authentication required"))
				return
			}

			token := r.Header.Get("X-CSRF-Token")
			if token == "" {
				httpserver.RespondAppErr(w, apperr.New(apperr.KindCSRF, "csrf token required for this operation"))
				return
			}

			if err := tm.ValidateToken(token, id.UserID); err != nil {
				httpserver.RespondAppErr(w, err)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
