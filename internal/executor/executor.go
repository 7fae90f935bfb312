package executor

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/pierre-mcp/pierre/internal/apperr"
	"github.com/pierre-mcp/pierre/internal/storage"
	"github.com/pierre-mcp/pierre/internal/telemetry"
)

// ToolContext is what a Tool body sees: the resolved caller, tenant, and raw
// parameters. The dependencies tool bodies are allowed to reach (storage,
// OAuth manager, provider adapters, intelligence engines) are injected into
// each Tool closure at registration time instead of threaded through here.
type ToolContext struct {
	Context      context.Context
	User         storage.User
	TenantID     uuid.UUID
	Protocol     string
	Parameters   json.RawMessage
	ProgressToken string
	Cancellation <-chan struct{}
}

// Tool is a named, schema-documented operation the executor can dispatch to.
type Tool struct {
	Name        string
	Description string
	Schema      json.RawMessage
	// RequireRole is the minimum role a caller needs, empty means any
	// authenticated active member of the tenant.
	RequireRole string
	Execute     func(ToolContext) (any, error)
}

// Executor dispatches UniversalRequests to registered tools.
type Executor struct {
	store storage.Provider
	tools map[string]Tool
}

// New creates an Executor with an empty tool catalog.
func New(store storage.Provider) *Executor {
	return &Executor{store: store, tools: map[string]Tool{}}
}

// Register adds t to the catalog, overwriting any existing tool of the same
// name.
func (e *Executor) Register(t Tool) {
	e.tools[t.Name] = t
}

// Catalog returns every registered tool, for tools/list parity across
// transports.
func (e *Executor) Catalog() []Tool {
	out := make([]Tool, 0, len(e.tools))
	for _, t := range e.tools {
		out = append(out, t)
	}
	return out
}

// Dispatch executes req against the registered catalog, implementing
// the six-step dispatch pipeline.
func (e *Executor) Dispatch(ctx context.Context, req UniversalRequest) UniversalResponse {
	// 1. parse user_id
	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		return errorResponse(apperr.New(apperr.KindValidation, "invalid user_id"))
	}

	user, err := e.store.GetUserByID(ctx, userID)
	if err != nil {
		return errorResponse(apperr.New(apperr.KindValidation, "unknown user"))
	}

	// 2. resolve tenant
	tenantID, err := e.resolveTenant(user, req.TenantID)
	if err != nil {
		return errorResponse(err)
	}

	// 3. look up tool
	tool, ok := e.tools[req.ToolName]
	if !ok {
		return errorResponse(apperr.New(apperr.KindNotFound, "method not found: "+req.ToolName))
	}

	// 4. per-tool authorization
	if user.Status != storage.StatusActive {
		return errorResponse(apperr.New(apperr.KindAuthorization, "account is not active"))
	}
	if tool.RequireRole != "" && !roleAtLeast(user.Role, tool.RequireRole) {
		return errorResponse(apperr.New(apperr.KindAuthorization, "insufficient role for "+tool.Name))
	}

	// 5. execute
	start := time.Now()
	result, err := tool.Execute(ToolContext{
		Context:       ctx,
		User:          user,
		TenantID:      tenantID,
		Protocol:      req.Protocol,
		Parameters:    req.Parameters,
		ProgressToken: req.ProgressToken,
		Cancellation:  req.CancellationToken,
	})
	telemetry.ToolDuration.WithLabelValues(tool.Name).Observe(time.Since(start).Seconds())
	if err != nil {
		telemetry.ToolInvocationsTotal.WithLabelValues(tool.Name, "error").Inc()
		return errorResponse(err)
	}

	// 6. success
	telemetry.ToolInvocationsTotal.WithLabelValues(tool.Name, "success").Inc()
	return successResponse(result)
}

// AuthInfo is the resolved caller identity returned by Whoami.
type AuthInfo struct {
	UserID   uuid.UUID
	Role     string
	TenantID uuid.UUID
}

// Whoami resolves userID/requestedTenant the same way Dispatch's steps 1-2
// do, without executing a tool. It backs the MCP "authenticate" method,
// letting a client confirm its credential resolved to an active user before
// issuing tools/call requests.
func (e *Executor) Whoami(ctx context.Context, userID, requestedTenant string) (AuthInfo, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return AuthInfo{}, apperr.New(apperr.KindValidation, "invalid user_id")
	}
	user, err := e.store.GetUserByID(ctx, uid)
	if err != nil {
		return AuthInfo{}, apperr.New(apperr.KindValidation, "unknown user")
	}
	if user.Status != storage.StatusActive {
		return AuthInfo{}, apperr.New(apperr.KindAuthorization, "account is not active")
	}
	tenantID, err := e.resolveTenant(user, requestedTenant)
	if err != nil {
		return AuthInfo{}, err
	}
	return AuthInfo{UserID: uid, Role: user.Role, TenantID: tenantID}, nil
}

func (e *Executor) resolveTenant(user storage.User, requested string) (uuid.UUID, error) {
	if requested == "" {
		if user.TenantID == nil {
			return uuid.Nil, apperr.New(apperr.KindValidation, "user has no primary tenant")
		}
		return *user.TenantID, nil
	}
	requestedID, err := uuid.Parse(requested)
	if err != nil {
		return uuid.Nil, apperr.New(apperr.KindValidation, "invalid tenant_id")
	}
	if user.TenantID == nil || *user.TenantID != requestedID {
		return uuid.Nil, apperr.New(apperr.KindTenantIsolation, "user does not belong to tenant")
	}
	return requestedID, nil
}

var roleLevel = map[string]int{
	storage.RoleUser:       10,
	storage.RoleAdmin:      20,
	storage.RoleSuperadmin: 30,
}

func roleAtLeast(have, want string) bool {
	return roleLevel[have] >= roleLevel[want]
}
