package crypto

import (
	"crypto/rand"
	"fmt"
	"os"

	"golang.org/x/crypto/nacl/secretbox"
)

const keySize = 32

// Cipher encrypts and decrypts small secrets (OAuth tokens, API key
// material at rest) with XSalsa20-Poly1305 via nacl/secretbox: authenticated,
// fixed 32-byte key, a fresh random 24-byte nonce per call prepended to the
// ciphertext.
type Cipher struct {
	key [keySize]byte
}

// LoadOrCreateCipher reads a raw 32-byte key from path, generating and
// writing one (mode 0600) if the file doesn't exist. A file that exists but
// is the wrong length is a fatal configuration error.
func LoadOrCreateCipher(path string) (*Cipher, error) {
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		raw = make([]byte, keySize)
		if _, rerr := rand.Read(raw); rerr != nil {
			return nil, fmt.Errorf("generating encryption key: %w", rerr)
		}
		if werr := os.WriteFile(path, raw, 0o600); werr != nil {
			return nil, fmt.Errorf("writing encryption key to %s: %w", path, werr)
		}
	} else if err != nil {
		return nil, fmt.Errorf("reading encryption key from %s: %w", path, err)
	}

	if len(raw) != keySize {
		return nil, fmt.Errorf("encryption key at %s must be %d bytes, got %d", path, keySize, len(raw))
	}

	c := &Cipher{}
	copy(c.key[:], raw)
	return c, nil
}

// Encrypt seals plaintext, returning nonce||ciphertext.
func (c *Cipher) Encrypt(plaintext []byte) ([]byte, error) {
	var nonce [24]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		return nil, fmt.Errorf("generating nonce: %w", err)
	}
	return secretbox.Seal(nonce[:], plaintext, &nonce, &c.key), nil
}

// Decrypt opens a nonce||ciphertext blob produced by Encrypt.
func (c *Cipher) Decrypt(sealed []byte) ([]byte, error) {
	if len(sealed) < 24 {
		return nil, fmt.Errorf("ciphertext too short")
	}
	var nonce [24]byte
	copy(nonce[:], sealed[:24])
	plaintext, ok := secretbox.Open(nil, sealed[24:], &nonce, &c.key)
	if !ok {
		return nil, fmt.Errorf("decryption failed: authentication mismatch")
	}
	return plaintext, nil
}

// EncryptString is a convenience wrapper for encrypting UTF-8 secrets such
// as OAuth refresh tokens.
func (c *Cipher) EncryptString(plaintext string) ([]byte, error) {
	return c.Encrypt([]byte(plaintext))
}

// DecryptString is the inverse of EncryptString.
func (c *Cipher) DecryptString(sealed []byte) (string, error) {
	plaintext, err := c.Decrypt(sealed)
	if err != nil {
		return "", err
	}
	return string(plaintext), nil
}
