// Package a2a implements the agent-to-agent transport: JSON-RPC framing
// identical to MCP, but resolving the acting tenant from an explicit header
// instead of inferring it from a user's JWT, since A2A callers authenticate
// as a service (an admin token) rather than as a tenant member.
package a2a

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/pierre-mcp/pierre/internal/auth"
	"github.com/pierre-mcp/pierre/internal/executor"
	"github.com/pierre-mcp/pierre/internal/protocol"
)

// TenantHeader carries the acting tenant id, required on every A2A call.
const TenantHeader = "X-Pierre-Tenant-ID"

// Handler serves POST /a2a.
type Handler struct {
	executor *executor.Executor
	logger   *slog.Logger
}

// NewHandler wraps an Executor for the A2A transport.
func NewHandler(ex *executor.Executor, logger *slog.Logger) *Handler {
	return &Handler{executor: ex, logger: logger}
}

type callParams struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
	// UserID is required when the caller authenticated as a service admin
	// token (which has no user of its own) and ignored otherwise — a
	// tenant-member JWT's own user id always wins, so a service caller
	// cannot impersonate a different user than the tenant it was handed.
	UserID string `json:"user_id,omitempty"`
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

	tenantID := r.Header.Get(TenantHeader)
	if tenantID == "" {
		writeResponse(w, protocol.ErrorResponse(req.ID, protocol.CodeInvalidParams, TenantHeader+" header is required"))
		return
	}

	if req.Method != "tools/call" {
		writeResponse(w, protocol.ErrorResponse(req.ID, protocol.CodeMethodNotFound, "method not found: "+req.Method))
		return
	}

	var params callParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		writeResponse(w, protocol.ErrorResponse(req.ID, protocol.CodeInvalidParams, "invalid params: "+err.Error()))
		return
	}

	actingUserID := params.UserID
	if id.UserID != uuid.Nil {
		actingUserID = id.UserID.String()
	}
	if actingUserID == "" {
		writeResponse(w, protocol.ErrorResponse(req.ID, protocol.CodeInvalidParams, "user_id is required for service-token callers"))
		return
	}

	resp := h.executor.Dispatch(r.Context(), executor.UniversalRequest{
		ToolName:   params.Name,
		Parameters: params.Arguments,
		UserID:     actingUserID,
		Protocol:   "a2a",
		TenantID:   tenantID,
	})

	if !resp.Success {
		writeResponse(w, protocol.ErrorResponse(req.ID, protocol.CodeForKind(resp.ErrorKind), resp.Error))
		return
	}
	writeResponse(w, protocol.Response{JSONRPC: "2.0", ID: req.ID, Result: json.RawMessage(resp.Result)})
}

func writeResponse(w http.ResponseWriter, resp protocol.Response) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}
