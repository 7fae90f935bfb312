package httpserver

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/pierre-mcp/pierre/internal/auth"
	"github.com/pierre-mcp/pierre/internal/config"
	"github.com/pierre-mcp/pierre/internal/docs"
	"github.com/pierre-mcp/pierre/internal/middleware"
	"github.com/pierre-mcp/pierre/internal/version"
)

// Server holds the HTTP server dependencies. Its router layout uses
// literal, unversioned route prefixes rather than the common "/api/v1"
// convention: `/api/auth/*`, `/api/coaches*`, `/api/user/*`,
// `/api/admin/*`, plus the top-level `/oauth/*`, `/mcp`, `/a2a`, and
// `/admin/setup` routes a protocol adapter mounts directly on Router.
type Server struct {
	Router *chi.Mux

	// APIRouter is the authenticated "/api" sub-router: CSRF, rate
	// limiting, and auth.RequireAuth are all applied. Resource handlers
	// (coaches, user/mcp-tokens, admin) mount here.
	APIRouter chi.Router

	// PublicAuthRouter is the "/api/auth" sub-router used for
	// register/login/refresh/logout: an Identity is resolved if present
	// (so refresh/logout can use it) but never required, and neither CSRF
	// nor rate limiting gate it the way the authenticated group is gated.
	PublicAuthRouter chi.Router

	AuthManager *auth.Manager
	RateLimit   *middleware.RateLimit
	CSRFManager *middleware.CSRFTokenManager

	Logger    *slog.Logger
	DB        *pgxpool.Pool
	Redis     *redis.Client
	Metrics   *prometheus.Registry
	startedAt time.Time
}

// NewServer creates an HTTP server with middleware and health/metrics
// endpoints already wired. Protocol adapters (REST, MCP, A2A) are mounted
// on APIRouter/PublicAuthRouter/Router after calling NewServer.
func NewServer(cfg *config.Config, logger *slog.Logger, db *pgxpool.Pool, rdb *redis.Client, metricsReg *prometheus.Registry, authMgr *auth.Manager, csrfMgr *middleware.CSRFTokenManager) *Server {
	rateLimit := middleware.NewRateLimit(rdb, cfg.RateLimitDefaultPerMinute, time.Minute)

	s := &Server{
		Router:      chi.NewRouter(),
		AuthManager: authMgr,
		RateLimit:   rateLimit,
		CSRFManager: csrfMgr,
		Logger:      logger,
		DB:          db,
		Redis:       rdb,
		Metrics:     metricsReg,
		startedAt:   time.Now(),
	}

	s.Router.Use(RequestID)
	s.Router.Use(Logger(logger))
	s.Router.Use(Metrics)
	s.Router.Use(chimw.Recoverer)
	s.Router.Use(middleware.SecurityHeaders(middleware.SecurityConfigForEnvironment(cfg.Environment)))
	s.Router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-API-Key", "X-Request-ID", "X-CSRF-Token"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	s.Router.Get("/healthz", s.handleHealthz)
	s.Router.Get("/readyz", s.handleReadyz)
	s.Router.Get("/status", s.HandleStatus)

	s.Router.Handle("/metrics", promhttp.HandlerFor(metricsReg, promhttp.HandlerOpts{}))

	s.Router.Get("/api/docs", docs.SwaggerUIHandler())
	s.Router.Get("/api/docs/openapi.yaml", docs.OpenAPISpecHandler())

	s.Router.Route("/api", func(r chi.Router) {
		r.Use(auth.Middleware(authMgr))

		r.Route("/auth", func(pub chi.Router) {
			s.PublicAuthRouter = pub
		})

		r.Group(func(authed chi.Router) {
			authed.Use(rateLimit.Middleware)
			authed.Use(middleware.CSRF(csrfMgr))
			authed.Use(auth.RequireAuth)
			s.APIRouter = authed
		})
	})

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	Respond(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleReadyz(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := s.DB.Ping(ctx); err != nil {
		s.Logger.Error("readiness check: database ping failed", "error", err)
		RespondError(w, http.StatusServiceUnavailable, "unavailable", "database not ready")
		return
	}

	if err := s.Redis.Ping(ctx).Err(); err != nil {
		s.Logger.Error("readiness check: redis ping failed", "error", err)
		RespondError(w, http.StatusServiceUnavailable, "unavailable", "redis not ready")
		return
	}

	Respond(w, http.StatusOK, map[string]string{"status": "ready"})
}

// statusResponse is the JSON shape returned by HandleStatus.
type statusResponse struct {
	Status          string  `json:"status"`
	Version         string  `json:"version"`
	CommitSHA       string  `json:"commit_sha"`
	Uptime          string  `json:"uptime"`
	UptimeSeconds   int64   `json:"uptime_seconds"`
	Database        string  `json:"database"`
	DatabaseLatency float64 `json:"database_latency_ms"`
	Redis           string  `json:"redis"`
	RedisLatency    float64 `json:"redis_latency_ms"`
}

// HandleStatus reports DB/Redis connectivity and uptime, for operators
// without needing to scrape /metrics.
func (s *Server) HandleStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	uptime := time.Since(s.startedAt)

	resp := statusResponse{
		Version:       version.Version,
		CommitSHA:     version.Commit,
		Uptime:        uptime.Truncate(time.Second).String(),
		UptimeSeconds: int64(uptime.Seconds()),
	}

	dbStart := time.Now()
	if err := s.DB.Ping(ctx); err != nil {
		s.Logger.Error("status check: database ping failed", "error", err)
		resp.Database = "error"
	} else {
		resp.Database = "ok"
	}
	resp.DatabaseLatency = millis(time.Since(dbStart))

	redisStart := time.Now()
	if err := s.Redis.Ping(ctx).Err(); err != nil {
		s.Logger.Error("status check: redis ping failed", "error", err)
		resp.Redis = "error"
	} else {
		resp.Redis = "ok"
	}
	resp.RedisLatency = millis(time.Since(redisStart))

	if resp.Database == "ok" && resp.Redis == "ok" {
		resp.Status = "ok"
	} else {
		resp.Status = "degraded"
	}

	Respond(w, http.StatusOK, resp)
}

func millis(d time.Duration) float64 {
	return float64(d.Microseconds()) / 1000
}
