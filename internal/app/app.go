// Package app wires configuration, storage, and every protocol adapter
// (REST, MCP, A2A) into a runnable process. Run is the sole entry point;
// cmd/pierre just parses flags/env and calls it.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"github.com/pierre-mcp/pierre/internal/admin"
	"github.com/pierre-mcp/pierre/internal/audit"
	"github.com/pierre-mcp/pierre/internal/auth"
	"github.com/pierre-mcp/pierre/internal/config"
	intelligenceconfig "github.com/pierre-mcp/pierre/internal/config/intelligence"
	"github.com/pierre-mcp/pierre/internal/crypto"
	"github.com/pierre-mcp/pierre/internal/executor"
	"github.com/pierre-mcp/pierre/internal/executor/tools"
	"github.com/pierre-mcp/pierre/internal/httpserver"
	"github.com/pierre-mcp/pierre/internal/middleware"
	"github.com/pierre-mcp/pierre/internal/platform"
	"github.com/pierre-mcp/pierre/internal/protocol/a2a"
	"github.com/pierre-mcp/pierre/internal/protocol/mcp"
	"github.com/pierre-mcp/pierre/internal/protocol/rest"
	"github.com/pierre-mcp/pierre/internal/seed"
	"github.com/pierre-mcp/pierre/internal/storage"
	"github.com/pierre-mcp/pierre/internal/storage/postgres"
	"github.com/pierre-mcp/pierre/internal/telemetry"
	"github.com/pierre-mcp/pierre/internal/tenantoauth"
	"github.com/pierre-mcp/pierre/internal/version"
)

// Run is the process entry point. It reads cfg, connects to infrastructure,
// and starts whichever mode cfg.Mode selects.
func Run(ctx context.Context, cfg *config.Config) error {
	logger := telemetry.NewLogger(cfg.LogFormat, cfg.LogLevel)
	slog.SetDefault(logger)

	logger.Info("starting pierre",
		"mode", cfg.Mode,
		"listen", cfg.ListenAddr(),
		"version", version.Version,
	)

	if err := intelligenceconfig.Init(); err != nil {
		return fmt.Errorf("loading intelligence config: %w", err)
	}

	store, err := postgres.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer store.Close()
	pool := store.Pool()

	if err := postgres.RunGlobalMigrations(cfg.DatabaseURL, cfg.MigrationsGlobalDir); err != nil {
		return fmt.Errorf("running global migrations: %w", err)
	}
	logger.Info("global migrations applied")

	rdb, err := platform.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("connecting to redis: %w", err)
	}
	defer func() {
		if err := rdb.Close(); err != nil {
			logger.Error("closing redis", "error", err)
		}
	}()

	metricsReg := telemetry.NewRegistry(telemetry.All()...)

	switch cfg.Mode {
	case "http":
		return runHTTP(ctx, cfg, logger, store, pool, rdb, metricsReg)
	case "mcp-stdio":
		return runStdio(ctx, cfg, logger, store)
	case "both":
		errCh := make(chan error, 2)
		go func() { errCh <- runHTTP(ctx, cfg, logger, store, pool, rdb, metricsReg) }()
		go func() { errCh <- runStdio(ctx, cfg, logger, store) }()
		return <-errCh
	case "seed":
		return seed.Run(ctx, store, logger)
	case "seed-demo":
		return seed.RunDemo(ctx, store, logger)
	default:
		return fmt.Errorf("unknown mode: %s", cfg.Mode)
	}
}

// deps bundles the crypto/auth/oauth/executor wiring shared by every mode
// that serves requests, so runHTTP and runStdio build it identically.
type deps struct {
	cipher   *crypto.Cipher
	jwks     *crypto.JWKSManager
	csrf     *middleware.CSRFTokenManager
	authMgr  *auth.Manager
	oauth    *tenantoauth.Manager
	executor *executor.Executor
	adminSvc *admin.Service
}

func buildDeps(cfg *config.Config, store storage.Provider) (*deps, error) {
	cipher, err := crypto.LoadOrCreateCipher(cfg.EncryptionKeyPath)
	if err != nil {
		return nil, fmt.Errorf("loading encryption key: %w", err)
	}

	jwks, err := crypto.LoadOrCreateJWKSManager(cfg.JWTKeyDir, cfg.JWTMaxAge)
	if err != nil {
		return nil, fmt.Errorf("loading jwt signing keys: %w", err)
	}

	csrfMgr, err := middleware.NewCSRFTokenManager(cfg.CSRFKeyPath)
	if err != nil {
		return nil, fmt.Errorf("loading csrf key: %w", err)
	}

	authMgr := auth.NewManager(store, jwks)
	oauthMgr := tenantoauth.NewManager(store, cipher)

	ex := executor.New(store)
	tools.RegisterDefaultTools(ex, tools.Deps{
		Store:       store,
		OAuth:       oauthMgr,
		IntelConfig: func() intelligenceconfig.Config { return *intelligenceconfig.Get() },
	})

	return &deps{
		cipher:   cipher,
		jwks:     jwks,
		csrf:     csrfMgr,
		authMgr:  authMgr,
		oauth:    oauthMgr,
		executor: ex,
		adminSvc: admin.NewService(store),
	}, nil
}

func runHTTP(ctx context.Context, cfg *config.Config, logger *slog.Logger, store storage.Provider, pool *pgxpool.Pool, rdb *redis.Client, metricsReg *prometheus.Registry) error {
	auditW := audit.NewWriter(store, logger)
	auditW.Start(ctx)
	defer auditW.Close()

	d, err := buildDeps(cfg, store)
	if err != nil {
		return err
	}

	sweeper := tenantoauth.NewSweeper(d.oauth, logger, cfg.OAuthRefreshInterval, cfg.OAuthRefreshInterval*3, telemetry.OAuthRefreshTotal)
	go func() {
		if err := sweeper.Run(ctx); err != nil {
			logger.Error("oauth refresh sweeper exited", "error", err)
		}
	}()

	srv := httpserver.NewServer(cfg, logger, pool, rdb, metricsReg, d.authMgr, d.csrf)

	authHandler := rest.NewAuthHandler(store, d.jwks, d.csrf, auditW, logger, cfg.JWTMaxAge, cfg.RefreshTokenMaxAge, cfg.IsProduction())
	srv.PublicAuthRouter.Mount("/", authHandler.Routes())

	srv.APIRouter.Mount("/coaches", rest.NewCoachesHandler(store, auditW, logger).Routes())
	srv.APIRouter.Mount("/user/mcp-tokens", rest.NewMCPTokensHandler(store, auditW, logger).Routes())

	adminHandler := rest.NewAdminHandler(d.adminSvc, auditW, logger)
	srv.APIRouter.Group(func(r chi.Router) {
		r.Use(auth.RequireMinRole(storage.RoleSuperadmin))
		r.Mount("/admin", adminHandler.Routes())
	})

	oauthHandler := rest.NewOAuthHandler(d.oauth, d.jwks, auditW, logger)
	srv.Router.Group(func(r chi.Router) {
		r.Use(auth.Middleware(d.authMgr))
		oauthHandler.MountOn(r)
	})

	setupHandler := rest.NewSetupHandler(d.adminSvc, logger)
	srv.Router.Post("/admin/setup", setupHandler.ServeHTTP)

	mcpServer := mcp.NewServer(d.executor, cfg.MCPServerName, cfg.MCPServerVersion)
	mcpHandler := mcp.NewHandler(mcpServer, logger)
	srv.Router.Group(func(r chi.Router) {
		r.Use(auth.Middleware(d.authMgr))
		r.Post("/mcp", mcpHandler.ServeHTTP)
	})

	a2aHandler := a2a.NewHandler(d.executor, logger)
	srv.Router.Group(func(r chi.Router) {
		r.Use(auth.Middleware(d.authMgr))
		r.Post("/a2a", a2aHandler.ServeHTTP)
	})

	httpSrv := &http.Server{
		Addr:         cfg.ListenAddr(),
		Handler:      srv,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", "addr", cfg.ListenAddr())
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutting down http server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpSrv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

func runStdio(ctx context.Context, cfg *config.Config, logger *slog.Logger, store storage.Provider) error {
	d, err := buildDeps(cfg, store)
	if err != nil {
		return err
	}

	userID := os.Getenv("MCP_USER_ID")
	if userID == "" {
		return fmt.Errorf("MCP_USER_ID must be set to run in mcp-stdio mode")
	}

	mcpServer := mcp.NewServer(d.executor, cfg.MCPServerName, cfg.MCPServerVersion)
	logger.Info("mcp stdio server started", "user_id", userID)
	return mcpServer.ServeStdio(ctx, os.Stdin, os.Stdout, userID, logger)
}
