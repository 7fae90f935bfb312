package audit

import (
	"log/slog"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/pierre-mcp/pierre/internal/auth"
)

func TestClientIP_XForwardedFor(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.Header.Set("X-Forwarded-For", "203.0.113.50, 70.41.3.18")

	if ip := clientIP(r); ip != "203.0.113.50" {
		t.Errorf("clientIP = %q, want %q", ip, "203.0.113.50")
	}
}

func TestClientIP_XRealIP(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.Header.Set("X-Real-IP", "198.51.100.23")

	if ip := clientIP(r); ip != "198.51.100.23" {
		t.Errorf("clientIP = %q, want %q", ip, "198.51.100.23")
	}
}

func TestClientIP_RemoteAddr(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.RemoteAddr = "192.0.2.1:12345"

	if ip := clientIP(r); ip != "192.0.2.1" {
		t.Errorf("clientIP = %q, want %q", ip, "192.0.2.1")
	}
}

func TestClientIP_Precedence(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.Header.Set("X-Forwarded-For", "203.0.113.50")
	r.Header.Set("X-Real-IP", "198.51.100.23")
	r.RemoteAddr = "192.0.2.1:12345"

	if ip := clientIP(r); ip != "203.0.113.50" {
		t.Errorf("clientIP = %q, want %q (X-Forwarded-For should take precedence)", ip, "203.0.113.50")
	}
}

func TestClientIP_XRealIPFallback(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.Header.Set("X-Real-IP", "198.51.100.23")
	r.RemoteAddr = "192.0.2.1:12345"

	if ip := clientIP(r); ip != "198.51.100.23" {
		t.Errorf("clientIP = %q, want %q (X-Real-IP should take precedence over RemoteAddr)", ip, "198.51.100.23")
	}
}

func TestLog_DropsWhenFull(t *testing.T) {
	logger := slog.Default()
	w := NewWriter(nil, logger)
	// Don't start the background goroutine — nothing drains the channel.

	for i := 0; i < bufferSize; i++ {
		w.Log(Entry{Action: "test", Target: "test"})
	}

	// The next log should be dropped (non-blocking).
	w.Log(Entry{Action: "dropped", Target: "dropped"})

	if len(w.entries) != bufferSize {
		t.Errorf("buffer size = %d, want %d", len(w.entries), bufferSize)
	}
}

func TestLogFromRequest_ExtractsFields(t *testing.T) {
	logger := slog.Default()
	w := NewWriter(nil, logger)
	// Don't start — we'll read from the channel directly.

	r := httptest.NewRequest("POST", "/api/v1/goals", nil)
	r.Header.Set("User-Agent", "test-agent/1.0")
	r.Header.Set("X-Real-IP", "198.51.100.23")

	userID := uuid.New()
	tenantID := uuid.New()
	r = r.WithContext(auth.NewContext(r.Context(), &auth.Identity{UserID: userID, TenantID: &tenantID, Role: "user"}))

	w.LogFromRequest(r, "create", "goal", "success", nil)

	entry := <-w.entries

	if entry.Action != "create" {
		t.Errorf("Action = %q, want %q", entry.Action, "create")
	}
	if entry.Target != "goal" {
		t.Errorf("Target = %q, want %q", entry.Target, "goal")
	}
	if entry.ActorID == nil || *entry.ActorID != userID {
		t.Errorf("ActorID = %v, want %v", entry.ActorID, userID)
	}
	if entry.TenantID == nil || *entry.TenantID != tenantID {
		t.Errorf("TenantID = %v, want %v", entry.TenantID, tenantID)
	}
	if entry.IPAddress != "198.51.100.23" {
		t.Errorf("IPAddress = %q, want %q", entry.IPAddress, "198.51.100.23")
	}
	if entry.UserAgent != "test-agent/1.0" {
		t.Errorf("UserAgent = %q, want %q", entry.UserAgent, "test-agent/1.0")
	}
}
