package storage

import "errors"

// Sentinel errors every Provider implementation returns for the conditions
// spec'd in §4.3: NotFound, Conflict (unique violation), Unauthorized
// (cross-tenant access attempt detected at the storage seam). There is no
// Internal sentinel; other failures are returned as ordinary errors.
var (
	ErrNotFound     = errors.New("storage: not found")
	ErrConflict     = errors.New("storage: conflict")
	ErrUnauthorized = errors.New("storage: cross-tenant access denied")
)
