package middleware

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"github.com/pierre-mcp/pierre/internal/apperr"
	"github.com/pierre-mcp/pierre/internal/auth"
	"github.com/pierre-mcp/pierre/internal/httpserver"
	"github.com/pierre-mcp/pierre/internal/telemetry"
)

// maxLocalLimiters bounds the in-process burst-smoothing map so a flood of
// distinct subjects (spoofed IPs, rotating API keys) can't grow it
// unbounded; eviction is a crude "clear everything" once the bound is hit
// rather than true LRU, which is fine since Redis remains authoritative.
const maxLocalLimiters = 10_000

// RateLimit enforces a per-subject request rate, where the subject is the
// caller's user ID, API key ID, or (for unauthenticated requests) client
// IP. A local token bucket absorbs bursts without a Redis round trip on
// every request; Redis INCR+EXPIRE counters are the cross-replica source
// of truth, so a burst that clears the local bucket but not the shared
// window still gets rejected.
type RateLimit struct {
	redis  *redis.Client
	limit  int
	window time.Duration

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

// NewRateLimit creates a RateLimit allowing up to limit requests per
// window, per subject.
func NewRateLimit(rdb *redis.Client, limit int, window time.Duration) *RateLimit {
	return &RateLimit{
		redis:    rdb,
		limit:    limit,
		window:   window,
		limiters: make(map[string]*rate.Limiter),
	}
}

// Middleware returns an http.Handler wrapper enforcing the limit.
func (rl *RateLimit) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		subject := rl.subjectFor(r)

		if !rl.localAllow(subject) {
			rl.reject(w, subject)
			return
		}

		allowed, retryAt, err := rl.checkRedis(r.Context(), subject)
		if err != nil {
			// Redis unavailable: fail open on the shared counter, local
			// token bucket still bounds the worst case.
			next.ServeHTTP(w, r)
			return
		}
		if !allowed {
			w.Header().Set("Retry-After", fmt.Sprintf("%d", int(time.Until(retryAt).Seconds())))
			rl.reject(w, subject)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// reject answers 429 and counts the rejection under subject's scope (its
// prefix before the colon: "apikey", "user", or "ip") rather than the full
// subject, so the metric's cardinality stays bounded.
func (rl *RateLimit) reject(w http.ResponseWriter, subject string) {
	scope := subject
	if i := strings.IndexByte(subject, ':'); i >= 0 {
		scope = subject[:i]
	}
	telemetry.RateLimitRejectionsTotal.WithLabelValues(scope).Inc()
	httpserver.RespondAppErr(w, apperr.New(apperr.KindRateLimited, "rate limit exceeded"))
}

func (rl *RateLimit) subjectFor(r *http.Request) string {
	if id := auth.FromContext(r.Context()); id != nil {
		if id.APIKeyID != nil {
			return "apikey:" + id.APIKeyID.String()
		}
		return "user:" + id.UserID.String()
	}
	return "ip:" + clientIP(r)
}

// localAllow checks a per-subject in-process token bucket refilling at
// limit/window, purely to absorb bursts cheaply; it never denies a request
// Redis would have allowed by more than one local bucket's worth of burst.
func (rl *RateLimit) localAllow(subject string) bool {
	rl.mu.Lock()
	if len(rl.limiters) > maxLocalLimiters {
		rl.limiters = make(map[string]*rate.Limiter)
	}
	lim, ok := rl.limiters[subject]
	if !ok {
		perSecond := rate.Limit(float64(rl.limit) / rl.window.Seconds())
		lim = rate.NewLimiter(perSecond, rl.limit)
		rl.limiters[subject] = lim
	}
	rl.mu.Unlock()

	return lim.Allow()
}

func (rl *RateLimit) checkRedis(ctx context.Context, subject string) (bool, time.Time, error) {
	key := "ratelimit:" + subject

	count, err := rl.redis.Incr(ctx, key).Result()
	if err != nil {
		return false, time.Time{}, fmt.Errorf("incrementing rate limit counter: %w", err)
	}
	if count == 1 {
		if err := rl.redis.Expire(ctx, key, rl.window).Err(); err != nil {
			return false, time.Time{}, fmt.Errorf("setting rate limit expiry: %w", err)
		}
	}

	if count <= int64(rl.limit) {
		return true, time.Time{}, nil
	}

	ttl, err := rl.redis.TTL(ctx, key).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return false, time.Time{}, fmt.Errorf("reading rate limit ttl: %w", err)
	}
	return false, time.Now().Add(ttl), nil
}

func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		return strings.TrimSpace(strings.SplitN(xff, ",", 2)[0])
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
