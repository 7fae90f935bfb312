// Package tools implements the tool catalog: the fitness-domain
// operations the Universal Tool Executor dispatches to.
package tools

import (
	"github.com/google/uuid"

	"github.com/pierre-mcp/pierre/internal/config/intelligence"
	"github.com/pierre-mcp/pierre/internal/executor"
	"github.com/pierre-mcp/pierre/internal/providers"
	"github.com/pierre-mcp/pierre/internal/storage"
	"github.com/pierre-mcp/pierre/internal/tenantoauth"
)

// Deps bundles everything a tool body needs beyond what ToolContext already
// carries: storage, the per-tenant OAuth manager, and the intelligence
// config getter (a func, not a value, so tools always see the live
// process-wide singleton rather than a stale snapshot taken at
// registration time).
type Deps struct {
	Store       storage.Provider
	OAuth       *tenantoauth.Manager
	IntelConfig func() intelligence.Config
}

// providerFor resolves the Provider adapter for (user, tenant, name).
func (d Deps) providerFor(userID, tenantID uuid.UUID, name string) (providers.Provider, error) {
	tokens := providers.NewTokenSource(d.OAuth, userID, tenantID, name)
	return providers.New(name, tokens, "")
}

// RegisterDefaultTools wires every tool in the catalog into ex.
func RegisterDefaultTools(ex *executor.Executor, deps Deps) {
	registerConnectionTools(ex, deps)
	registerActivityTools(ex, deps)
	registerAnalysisTools(ex, deps)
	registerTrendTools(ex, deps)
	registerGoalTools(ex, deps)
	registerSleepTools(ex, deps)
}
