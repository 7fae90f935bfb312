package auth

import (
	"encoding/json"
	"net/http"

	"github.com/pierre-mcp/pierre/internal/storage"
)

// roleLevel maps roles to a numeric privilege level for hierarchical checks.
var roleLevel = map[string]int{
	storage.RoleSuperadmin: 30,
	storage.RoleAdmin:      20,
	storage.RoleUser:       10,
}

// RequireAuth rejects requests that have no authenticated identity.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if FromContext(r.Context()) == nil {
			respondErr(w, http.StatusUnauthorized, "unauthorized", "authentication required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireRole returns middleware rejecting requests whose identity does not
// hold one of the listed roles by exact match.
func RequireRole(allowed ...string) func(http.Handler) http.Handler {
	set := make(map[string]struct{}, len(allowed))
	for _, r := range allowed {
		set[r] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := FromContext(r.Context())
			if id == nil {
				respondForbidden(w, "authentication required")
				return
			}
			if _, ok := set[id.Role]; !ok {
				respondForbidden(w, "insufficient permissions")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireMinRole returns middleware rejecting requests whose identity has a
// lower privilege level than minRole. RequireMinRole(storage.RoleAdmin)
// permits admin and superadmin.
func RequireMinRole(minRole string) func(http.Handler) http.Handler {
	minLevel := roleLevel[minRole]

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := FromContext(r.Context())
			if id == nil {
				respondForbidden(w, "authentication required")
				return
			}
			if roleLevel[id.Role] < minLevel {
				respondForbidden(w, "insufficient permissions")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdminPermission returns middleware rejecting requests whose
// identity is not an admin token holding perm (or the IsSuperAdmin
// catch-all, checked against the token row directly in the caller since
// Identity only caches the permission list, not the full AdminToken).
func RequireAdminPermission(perm string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := FromContext(r.Context())
			if id == nil || !id.IsAdminToken() {
				respondForbidden(w, "admin token required")
				return
			}
			if !hasPermission(id.AdminPerms, perm) {
				respondForbidden(w, "insufficient permissions")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// permWildcard marks a superadmin token's permission set, set by
// Manager.resolveAdminToken in place of enumerating every known permission.
const permWildcard = "*"

func hasPermission(perms []string, want string) bool {
	for _, p := range perms {
		if p == permWildcard || p == want {
			return true
		}
	}
	return false
}

func respondErr(w http.ResponseWriter, status int, errStr, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error":   errStr,
		"message": message,
	})
}

func respondForbidden(w http.ResponseWriter, message string) {
	respondErr(w, http.StatusForbidden, "forbidden", message)
}
