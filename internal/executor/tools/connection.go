package tools

import (
	"github.com/pierre-mcp/pierre/internal/executor"
)

type connectParams struct {
	State string `json:"state"`
}

type connectionStatusResult struct {
	Provider  string `json:"provider"`
	Connected bool   `json:"connected"`
	ExpiresAt string `json:"expires_at,omitempty"`
}

type authorizeResult struct {
	AuthorizeURL string `json:"authorize_url"`
}

var connectProviderSchema = mustSchema(map[string]any{
	"state": map[string]any{
		"type":        "string",
		"description": "Opaque value echoed back unchanged on the OAuth callback.",
	},
})

func registerConnectionTools(ex *executor.Executor, deps Deps) {
	ex.Register(executor.Tool{
		Name:        "connect_strava",
		Description: "Returns the Strava authorization URL for this user's tenant.",
		Schema:      connectProviderSchema,
		Execute:     connectProvider(deps, "strava"),
	})
	ex.Register(executor.Tool{
		Name:        "connect_fitbit",
		Description: "Returns the Fitbit authorization URL for this user's tenant.",
		Schema:      connectProviderSchema,
		Execute:     connectProvider(deps, "fitbit"),
	})
	ex.Register(executor.Tool{
		Name:        "disconnect_provider",
		Description: "Revokes and deletes the stored upstream token for a provider.",
		Schema:      providerOnlySchema,
		Execute:     disconnectProvider(deps),
	})
	ex.Register(executor.Tool{
		Name:        "get_connection_status",
		Description: "Reports whether a provider is connected for this user and when the token expires.",
		Schema:      providerOnlySchema,
		Execute:     getConnectionStatus(deps),
	})
}

func connectProvider(deps Deps, provider string) func(executor.ToolContext) (any, error) {
	return func(tc executor.ToolContext) (any, error) {
		var params connectParams
		if err := decodeParams(tc, &params); err != nil {
			return nil, err
		}
		url, err := deps.OAuth.AuthorizeURL(tc.Context, tc.TenantID, provider, params.State)
		if err != nil {
			return nil, err
		}
		return authorizeResult{AuthorizeURL: url}, nil
	}
}

type providerParams struct {
	Provider string `json:"provider"`
}

func disconnectProvider(deps Deps) func(executor.ToolContext) (any, error) {
	return func(tc executor.ToolContext) (any, error) {
		var params providerParams
		if err := decodeParams(tc, &params); err != nil {
			return nil, err
		}
		if err := deps.OAuth.Revoke(tc.Context, tc.User.ID, tc.TenantID, params.Provider); err != nil {
			return nil, err
		}
		return map[string]bool{"disconnected": true}, nil
	}
}

func getConnectionStatus(deps Deps) func(executor.ToolContext) (any, error) {
	return func(tc executor.ToolContext) (any, error) {
		var params providerParams
		if err := decodeParams(tc, &params); err != nil {
			return nil, err
		}
		tok, err := deps.Store.GetUserOAuthToken(tc.Context, tc.User.ID, tc.TenantID, params.Provider)
		if err != nil {
			return connectionStatusResult{Provider: params.Provider, Connected: false}, nil
		}
		return connectionStatusResult{
			Provider:  params.Provider,
			Connected: true,
			ExpiresAt: tok.ExpiresAt.Format("2006-01-02T15:04:05Z07:00"),
		}, nil
	}
}
