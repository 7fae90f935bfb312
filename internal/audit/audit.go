// Package audit provides an async, buffered writer for Pierre's append-only
// audit log, plus a read-only HTTP surface over it.
package audit

import (
	"context"
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pierre-mcp/pierre/internal/auth"
	"github.com/pierre-mcp/pierre/internal/storage"
)

// Entry is one audit log entry queued for writing.
type Entry struct {
	TenantID  *uuid.UUID
	ActorID   *uuid.UUID
	Action    string
	Target    string
	Outcome   string
	Detail    json.RawMessage
	IPAddress string
	UserAgent string
}

// Writer is an async, buffered audit log writer. Entries are sent to an
// internal channel and flushed by a background goroutine so a request
// handler never blocks on the audit write.
type Writer struct {
	store   storage.AuditStore
	logger  *slog.Logger
	entries chan Entry
	wg      sync.WaitGroup
}

const (
	bufferSize    = 256
	flushInterval = 2 * time.Second
)

// NewWriter creates an audit Writer. Call Start to begin processing entries.
func NewWriter(store storage.AuditStore, logger *slog.Logger) *Writer {
	return &Writer{
		store:   store,
		logger:  logger,
		entries: make(chan Entry, bufferSize),
	}
}

// Start launches the background goroutine that flushes audit entries and
// returns immediately; Close waits for that goroutine to finish.
func (w *Writer) Start(ctx context.Context) {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		w.run(ctx)
	}()
}

// Close waits for all pending entries to be flushed.
func (w *Writer) Close() {
	close(w.entries)
	w.wg.Wait()
}

// Log enqueues an audit entry for async writing. It never blocks the
// caller; if the buffer is full the entry is dropped and a warning logged.
func (w *Writer) Log(entry Entry) {
	select {
	case w.entries <- entry:
	default:
		w.logger.Warn("audit log buffer full, dropping entry", "action", entry.Action, "target", entry.Target)
	}
}

// LogFromRequest extracts identity, tenant, IP, and user agent from the
// request context, then enqueues the entry.
func (w *Writer) LogFromRequest(r *http.Request, action, target, outcome string, detail json.RawMessage) {
	entry := Entry{Action: action, Target: target, Outcome: outcome, Detail: detail}

	if id := auth.FromContext(r.Context()); id != nil {
		entry.TenantID = id.TenantID
		if id.UserID != uuid.Nil {
			u := id.UserID
			entry.ActorID = &u
		}
	}

	entry.IPAddress = clientIP(r)
	entry.UserAgent = r.Header.Get("User-Agent")

	w.Log(entry)
}

func (w *Writer) run(ctx context.Context) {
	for {
		select {
		case entry, ok := <-w.entries:
			if !ok {
				return
			}
			w.write(entry)
		case <-ctx.Done():
			for {
				select {
				case entry, ok := <-w.entries:
					if !ok {
						return
					}
					w.write(entry)
				default:
					return
				}
			}
		}
	}
}

func (w *Writer) write(e Entry) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := w.store.AppendAuditLog(ctx, storage.AuditLogEntry{
		TenantID:  e.TenantID,
		ActorID:   e.ActorID,
		Action:    e.Action,
		Target:    e.Target,
		Outcome:   e.Outcome,
		Detail:    e.Detail,
		IPAddress: e.IPAddress,
		UserAgent: e.UserAgent,
	}); err != nil {
		w.logger.Error("writing audit log entry", "error", err, "action", e.Action, "target", e.Target)
	}
}

// clientIP extracts the client IP address from the request, preferring
// X-Forwarded-For and X-Real-IP over RemoteAddr.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		parts := strings.SplitN(xff, ",", 2)
		return strings.TrimSpace(parts[0])
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
