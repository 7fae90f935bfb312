package middleware

import "net/http"

// SecurityConfig is a fixed set of security-related response headers,
// profiled per environment.
type SecurityConfig struct {
	ContentSecurityPolicy  string
	FrameOptions           string
	ContentTypeOptions     string
	ReferrerPolicy         string
	PermissionsPolicy      string
	StrictTransportSecurity string // empty disables HSTS
	CrossOriginEmbedder    string
	CrossOriginOpener      string
	CrossOriginResource    string
}

const permissionsPolicyDefault = "geolocation=(), microphone=(), camera=(), payment=(), usb=(), magnetometer=(), gyroscope=(), accelerometer=()"

// DevelopmentSecurityConfig relaxes cross-origin isolation for local dev
// tooling and disables HSTS since local development is plain HTTP.
func DevelopmentSecurityConfig() SecurityConfig {
	return SecurityConfig{
		ContentSecurityPolicy:  "default-src 'self'; script-src 'self' 'unsafe-inline' 'unsafe-eval'; style-src 'self' 'unsafe-inline'; img-src 'self' data: https:; font-src 'self' data:; connect-src 'self' ws: wss: http://localhost:* https://localhost:*; frame-ancestors 'none'; object-src 'none'; base-uri 'self';",
		FrameOptions:           "DENY",
		ContentTypeOptions:     "nosniff",
		ReferrerPolicy:         "strict-origin-when-cross-origin",
		PermissionsPolicy:      permissionsPolicyDefault,
		CrossOriginEmbedder:    "unsafe-none",
		CrossOriginOpener:      "unsafe-none",
		CrossOriginResource:    "cross-origin",
	}
}

// ProductionSecurityConfig applies a strict CSP and enables HSTS with a
// one-year max-age.
func ProductionSecurityConfig() SecurityConfig {
	return SecurityConfig{
		ContentSecurityPolicy:   "default-src 'self'; script-src 'self'; style-src 'self' 'unsafe-inline'; img-src 'self' data: https:; font-src 'self'; connect-src 'self' wss:; frame-ancestors 'none'; object-src 'none'; base-uri 'self'; upgrade-insecure-requests;",
		FrameOptions:            "DENY",
		ContentTypeOptions:      "nosniff",
		ReferrerPolicy:          "strict-origin-when-cross-origin",
		PermissionsPolicy:       permissionsPolicyDefault,
		StrictTransportSecurity: "max-age=31536000; includeSubDomains; preload",
		CrossOriginEmbedder:     "require-corp",
		CrossOriginOpener:       "same-origin",
		CrossOriginResource:     "same-origin",
	}
}

// SecurityConfigForEnvironment picks Production for "production"/"prod"
// and Development otherwise.
func SecurityConfigForEnvironment(env string) SecurityConfig {
	switch env {
	case "production", "prod":
		return ProductionSecurityConfig()
	default:
		return DevelopmentSecurityConfig()
	}
}

// SecurityHeaders sets a fixed set of hardening headers on every response.
func SecurityHeaders(cfg SecurityConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set("Content-Security-Policy", cfg.ContentSecurityPolicy)
			h.Set("X-Frame-Options", cfg.FrameOptions)
			h.Set("X-Content-Type-Options", cfg.ContentTypeOptions)
			h.Set("Referrer-Policy", cfg.ReferrerPolicy)
			h.Set("Permissions-Policy", cfg.PermissionsPolicy)
			h.Set("Cross-Origin-Embedder-Policy", cfg.CrossOriginEmbedder)
			h.Set("Cross-Origin-Opener-Policy", cfg.CrossOriginOpener)
			h.Set("Cross-Origin-Resource-Policy", cfg.CrossOriginResource)
			if cfg.StrictTransportSecurity != "" {
				h.Set("Strict-Transport-Security", cfg.StrictTransportSecurity)
			}
			next.ServeHTTP(w, r)
		})
	}
}
