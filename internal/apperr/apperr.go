// Package apperr defines the error kinds shared by every layer of Pierre, so
// a failure originating deep in a provider adapter or intelligence engine
// carries enough structure for the outermost protocol adapter to pick the
// right JSON-RPC code or HTTP status without re-inspecting error strings.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an error for transport-layer mapping.
type Kind string

const (
	KindValidation       Kind = "validation"
	KindAuthentication   Kind = "authentication"
	KindAuthorization    Kind = "authorization"
	KindNotFound         Kind = "not_found"
	KindConflict         Kind = "conflict"
	KindRateLimited       Kind = "rate_limited"
	KindProviderError    Kind = "provider_error"
	KindProviderAuth     Kind = "provider_auth"
	KindTokenExpired     Kind = "token_expired"
	KindTenantIsolation  Kind = "tenant_isolation"
	KindInternal         Kind = "internal"
	KindUnavailable      Kind = "unavailable"
	KindCSRF             Kind = "csrf"
	KindConfig           Kind = "config"
)

// Error is a Kind-tagged error that wraps an underlying cause. Data carries
// structured context safe to surface to a caller; it must never hold
// secrets — callers populate it explicitly, it is not derived from the
// wrapped error's message.
type Error struct {
	Kind    Kind
	Message string
	Data    map[string]any
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.cause }

// New creates an Error of the given kind with no wrapped cause.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap creates an Error of the given kind wrapping cause.
func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, cause: cause}
}

// WithData attaches structured, redaction-safe context and returns the
// receiver for chaining.
func (e *Error) WithData(key string, value any) *Error {
	if e.Data == nil {
		e.Data = make(map[string]any)
	}
	e.Data[key] = value
	return e
}

// KindOf extracts the Kind from err if it is (or wraps) an *Error, defaulting
// to KindInternal for anything else so unexpected errors never leak a
// permissive status code.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}
