package admin

import "errors"

// ErrAlreadyBootstrapped is returned by Service.Bootstrap when an admin
// user already exists.
var ErrAlreadyBootstrapped = errors.New("admin: already bootstrapped")
