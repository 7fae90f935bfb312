package auth

import "errors"

// Sentinel errors Manager.Authenticate returns, one per rejection reason.
var (
	ErrMissingCredential   = errors.New("auth: no credential presented")
	ErrMalformedCredential = errors.New("auth: malformed credential")
	ErrExpiredCredential   = errors.New("auth: credential expired")
	ErrRevokedCredential   = errors.New("auth: credential revoked or unknown")
)
