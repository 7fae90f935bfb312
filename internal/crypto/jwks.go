package crypto

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/go-jose/go-jose/v4"
	"github.com/go-jose/go-jose/v4/jwt"
)

// Token types a Claims.TokenType can carry, distinguishing a short-lived
// access token from the long-lived refresh token used to mint a new one.
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// Claims are the claims embedded in a first-party Pierre JWT, covering user
// session tokens, refresh tokens, and MCP tool-bearing tokens.
type Claims struct {
	Subject   string `json:"sub"`
	Email     string `json:"email,omitempty"`
	Role      string `json:"role"`
	TenantID  string `json:"tenant_id,omitempty"`
	TokenType string `json:"token_type,omitempty"`
}

const issuer = "pierre"
const leeway = 60 * time.Second

// keyEntry is one RSA keypair in the rotation set, named by its JWKS key ID.
type keyEntry struct {
	kid    string
	priv   *rsa.PrivateKey
	active bool
}

// JWKSManager signs and verifies RS256 JWTs against a small rotating set of
// RSA keys, and publishes the public half as a JSON Web Key Set.
type JWKSManager struct {
	keys   []keyEntry
	maxAge time.Duration
}

// LoadOrCreateJWKSManager loads every "*.pem" private key under dir,
// generating a fresh 2048-bit key named by the current unix time if the
// directory is empty. The most recently generated key becomes active for
// signing; every key in the directory remains eligible for verification,
// which is what makes rotation possible — an old token keeps validating
// against a retired key until it expires naturally.
func LoadOrCreateJWKSManager(dir string, maxAge time.Duration) (*JWKSManager, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("creating jwt key dir %s: %w", dir, err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading jwt key dir %s: %w", dir, err)
	}

	var keys []keyEntry
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".pem" {
			continue
		}
		raw, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("reading jwt key %s: %w", e.Name(), err)
		}
		block, _ := pem.Decode(raw)
		if block == nil {
			return nil, fmt.Errorf("invalid PEM in %s", e.Name())
		}
		priv, err := x509.ParsePKCS1PrivateKey(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("parsing jwt key %s: %w", e.Name(), err)
		}
		keys = append(keys, keyEntry{kid: filepath.Base(e.Name()[:len(e.Name())-len(".pem")]), priv: priv})
	}

	if len(keys) == 0 {
		kid, priv, err := generateKey(dir)
		if err != nil {
			return nil, err
		}
		keys = append(keys, keyEntry{kid: kid, priv: priv})
	}

	sort.Slice(keys, func(i, j int) bool { return keys[i].kid < keys[j].kid })
	keys[len(keys)-1].active = true

	return &JWKSManager{keys: keys, maxAge: maxAge}, nil
}

func generateKey(dir string) (string, *rsa.PrivateKey, error) {
	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		return "", nil, fmt.Errorf("generating RSA key: %w", err)
	}
	kid := fmt.Sprintf("%d", time.Now().UnixNano())
	block := &pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(priv)}
	path := filepath.Join(dir, kid+".pem")
	if err := os.WriteFile(path, pem.EncodeToMemory(block), 0o600); err != nil {
		return "", nil, fmt.Errorf("writing jwt key %s: %w", path, err)
	}
	return kid, priv, nil
}

func (m *JWKSManager) active() keyEntry {
	for _, k := range m.keys {
		if k.active {
			return k
		}
	}
	return m.keys[len(m.keys)-1]
}

// IssueToken signs claims as an RS256 JWT with the active signing key,
// expiring after the manager's configured max age.
func (m *JWKSManager) IssueToken(claims Claims) (string, error) {
	return m.IssueTokenWithTTL(claims, m.maxAge)
}

// IssueTokenWithTTL signs claims with a caller-chosen expiry instead of the
// manager's default, so a longer-lived refresh token can share the same
// signing keys and verification path as ordinary access tokens.
func (m *JWKSManager) IssueTokenWithTTL(claims Claims, ttl time.Duration) (string, error) {
	active := m.active()
	signer, err := jose.NewSigner(
		jose.SigningKey{Algorithm: jose.RS256, Key: active.priv},
		(&jose.SignerOptions{}).WithType("JWT").WithHeader("kid", active.kid),
	)
	if err != nil {
		return "", fmt.Errorf("creating signer: %w", err)
	}

	now := time.Now()
	registered := jwt.Claims{
		Subject:   claims.Subject,
		IssuedAt:  jwt.NewNumericDate(now),
		Expiry:    jwt.NewNumericDate(now.Add(ttl)),
		NotBefore: jwt.NewNumericDate(now),
		Issuer:    issuer,
	}

	token, err := jwt.Signed(signer).Claims(registered).Claims(claims).Serialize()
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return token, nil
}

// ValidateToken verifies the JWT signature against every known key (so a
// token signed just before a rotation still validates) and checks expiry
// and issuer with a 60-second leeway.
func (m *JWKSManager) ValidateToken(raw string) (*Claims, error) {
	tok, err := jwt.ParseSigned(raw, []jose.SignatureAlgorithm{jose.RS256})
	if err != nil {
		return nil, fmt.Errorf("parsing token: %w", err)
	}

	var lastErr error
	for _, k := range m.keys {
		var registered jwt.Claims
		var custom Claims
		if err := tok.Claims(&k.priv.PublicKey, &registered, &custom); err != nil {
			lastErr = err
			continue
		}
		if err := registered.ValidateWithLeeway(jwt.Expected{
			Issuer: issuer,
			Time:   time.Now(),
		}, leeway); err != nil {
			return nil, fmt.Errorf("validating claims: %w", err)
		}
		return &custom, nil
	}
	return nil, fmt.Errorf("verifying token against known keys: %w", lastErr)
}

// JWKS returns the public half of every known key as a JSON Web Key Set, for
// publication at a well-known JWKS endpoint.
func (m *JWKSManager) JWKS() jose.JSONWebKeySet {
	set := jose.JSONWebKeySet{}
	for _, k := range m.keys {
		set.Keys = append(set.Keys, jose.JSONWebKey{
			Key:       &k.priv.PublicKey,
			KeyID:     k.kid,
			Algorithm: string(jose.RS256),
			Use:       "sig",
		})
	}
	return set
}
