package mcp

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/pierre-mcp/pierre/internal/auth"
	"github.com/pierre-mcp/pierre/internal/protocol"
)

// Handler serves POST /mcp: the same JSON-RPC semantics as stdio, with the
// caller's user id resolved from the request's authenticated Identity
// instead of a process-wide argument.
type Handler struct {
	server *Server
	logger *slog.Logger
}

// NewHandler wraps an MCP Server for HTTP mounting.
func NewHandler(server *Server, logger *slog.Logger) *Handler {
	return &Handler{server: server, logger: logger}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req protocol.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeResponse(w, protocol.ErrorResponse(nil, protocol.CodeParseError, "parse error: "+err.Error()))
		return
	}

	id := auth.FromContext(r.Context())
	if id == nil {
		writeResponse(w, protocol.ErrorResponse(req.ID, protocol.CodeUnauthenticated, "authentication required"))
		return
	}

	resp := h.server.Dispatch(r.Context(), req, CallerInfo{
		UserID:   id.UserID.String(),
		Protocol: "mcp-http",
	})
	writeResponse(w, resp)
}

func writeResponse(w http.ResponseWriter, resp protocol.Response) {
	// JSON-RPC errors ride inside a 200 envelope; only transport-level
	// failures (decode errors above notwithstanding) would warrant a
	// non-200 status, and those never reach this function.
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}
