package tenantoauth

import "errors"

// ErrReauthorize is returned when a stored refresh token is missing or the
// upstream refresh call itself failed; the caller must restart the
// authorization-code flow for this user/tenant/provider.
var ErrReauthorize = errors.New("tenantoauth: reauthorization required")
