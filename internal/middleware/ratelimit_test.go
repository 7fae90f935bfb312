package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/pierre-mcp/pierre/internal/middleware"
)

func newTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	return redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func TestRateLimit_AllowsWithinLimit(t *testing.T) {
	rdb := newTestRedis(t)
	rl := middleware.NewRateLimit(rdb, 5, time.Minute)
	h := rl.Middleware(passThroughHandler())

	for i := 0; i < 5; i++ {
		r := httptest.NewRequest(http.MethodGet, "/api/v1/goals", nil)
		r.RemoteAddr = "192.0.2.1:1234"
		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)
		if w.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d, want %d", i, w.Code, http.StatusOK)
		}
	}
}

func TestRateLimit_RejectsOverLimit(t *testing.T) {
	rdb := newTestRedis(t)
	rl := middleware.NewRateLimit(rdb, 2, time.Minute)
	h := rl.Middleware(passThroughHandler())

	for i := 0; i < 2; i++ {
		r := httptest.NewRequest(http.MethodGet, "/api/v1/goals", nil)
		r.RemoteAddr = "192.0.2.2:1234"
		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)
		if w.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d, want %d", i, w.Code, http.StatusOK)
		}
	}

	r := httptest.NewRequest(http.MethodGet, "/api/v1/goals", nil)
	r.RemoteAddr = "192.0.2.2:1234"
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusTooManyRequests)
	}
}

func TestRateLimit_SeparatesSubjectsByIP(t *testing.T) {
	rdb := newTestRedis(t)
	rl := middleware.NewRateLimit(rdb, 1, time.Minute)
	h := rl.Middleware(passThroughHandler())

	r1 := httptest.NewRequest(http.MethodGet, "/api/v1/goals", nil)
	r1.RemoteAddr = "192.0.2.3:1234"
	w1 := httptest.NewRecorder()
	h.ServeHTTP(w1, r1)
	if w1.Code != http.StatusOK {
		t.Fatalf("subject 1: status = %d, want %d", w1.Code, http.StatusOK)
	}

	r2 := httptest.NewRequest(http.MethodGet, "/api/v1/goals", nil)
	r2.RemoteAddr = "192.0.2.4:1234"
	w2 := httptest.NewRecorder()
	h.ServeHTTP(w2, r2)
	if w2.Code != http.StatusOK {
		t.Fatalf("subject 2 (different IP): status = %d, want %d", w2.Code, http.StatusOK)
	}
}
