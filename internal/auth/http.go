package auth

import "net/http"

// Middleware resolves the caller's Identity from the request's
// Authorization header, X-API-Key header, or session cookie and stores it
// in the request context. A request that fails to authenticate simply
// carries no Identity rather than being rejected here — RequireAuth (or a
// role-specific variant) is what actually enforces authentication, so
// unauthenticated routes can still be mounted behind this middleware.
func Middleware(m *Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			req := Request{
				AuthorizationHeader: r.Header.Get("Authorization"),
				APIKeyHeader:        r.Header.Get("X-API-Key"),
			}
			if c, err := r.Cookie("pierre_session"); err == nil {
				req.CookieToken = c.Value
			}

			id, err := m.Authenticate(r.Context(), req)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(NewContext(r.Context(), id)))
		})
	}
}
