package tenantoauth

import (
	"context"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Sweeper is a background worker that proactively refreshes upstream OAuth
// tokens before they expire, so a tool call usually finds a token that
// needs no just-in-time refresh.
type Sweeper struct {
	mgr      *Manager
	logger   *slog.Logger
	interval time.Duration
	lookhead time.Duration
	metric   *prometheus.CounterVec // pierre_oauth_refresh_total{provider,outcome}
}

// NewSweeper creates a Sweeper that scans for tokens expiring within
// lookahead every interval.
func NewSweeper(mgr *Manager, logger *slog.Logger, interval, lookahead time.Duration, metric *prometheus.CounterVec) *Sweeper {
	return &Sweeper{
		mgr:      mgr,
		logger:   logger,
		interval: interval,
		lookhead: lookahead,
		metric:   metric,
	}
}

// Run starts the sweeper loop. It blocks until ctx is cancelled.
func (s *Sweeper) Run(ctx context.Context) error {
	s.logger.Info("oauth refresh sweeper started", "interval", s.interval)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("oauth refresh sweeper stopped")
			return nil
		case <-ticker.C:
			if err := s.tick(ctx); err != nil {
				s.logger.Error("oauth refresh sweeper tick", "error", err)
			}
		}
	}
}

// tick lists the tokens expiring within the lookahead window across all
// tenants and refreshes those already within refreshSkew of expiry; the
// rest are left for a later tick and not counted.
func (s *Sweeper) tick(ctx context.Context) error {
	near, err := s.mgr.store.ListNearExpiryTokens(ctx, time.Now().Add(s.lookhead))
	if err != nil {
		return err
	}

	for _, tok := range near {
		if time.Now().Add(refreshSkew).Before(tok.ExpiresAt) {
			continue
		}
		err := s.mgr.RefreshIfNearExpiry(ctx, tok.UserID, tok.TenantID, tok.Provider)
		outcome := "refreshed"
		if err != nil {
			outcome = "reauthorize_required"
			s.logger.Warn("oauth token refresh failed",
				"user_id", tok.UserID, "tenant_id", tok.TenantID, "provider", tok.Provider, "error", err)
		}
		if s.metric != nil {
			s.metric.WithLabelValues(tok.Provider, outcome).Inc()
		}
	}
	return nil
}
