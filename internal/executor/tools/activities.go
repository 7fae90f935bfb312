package tools

import (
	"github.com/pierre-mcp/pierre/internal/executor"
	"github.com/pierre-mcp/pierre/internal/providers"
)

var getActivitiesSchema = mustSchema(map[string]any{
	"provider": providerProp(),
	"cursor": map[string]any{
		"type":        "string",
		"description": "Opaque pagination cursor from a previous page's next_cursor.",
	},
	"limit": map[string]any{
		"type":        "integer",
		"description": "Maximum activities to return in this page.",
	},
}, "provider")

func registerActivityTools(ex *executor.Executor, deps Deps) {
	ex.Register(executor.Tool{
		Name:        "get_activities",
		Description: "Lists recent activities from a connected provider, newest first.",
		Schema:      getActivitiesSchema,
		Execute:     getActivities(deps),
	})
	ex.Register(executor.Tool{
		Name:        "get_athlete",
		Description: "Fetches the athlete profile from a connected provider.",
		Schema:      providerOnlySchema,
		Execute:     getAthlete(deps),
	})
	ex.Register(executor.Tool{
		Name:        "get_stats",
		Description: "Aggregates total distance/duration/elevation across a provider's activity history.",
		Schema:      providerOnlySchema,
		Execute:     getStats(deps),
	})
}

type activitiesParams struct {
	Provider string `json:"provider"`
	Cursor   string `json:"cursor"`
	Limit    int    `json:"limit"`
}

func getActivities(deps Deps) func(executor.ToolContext) (any, error) {
	return func(tc executor.ToolContext) (any, error) {
		var params activitiesParams
		if err := decodeParams(tc, &params); err != nil {
			return nil, err
		}
		p, err := deps.providerFor(tc.User.ID, tc.TenantID, params.Provider)
		if err != nil {
			return nil, err
		}
		return p.GetActivitiesCursor(tc.Context, providers.PaginationParams{
			Cursor: params.Cursor,
			Limit:  params.Limit,
		})
	}
}

func getAthlete(deps Deps) func(executor.ToolContext) (any, error) {
	return func(tc executor.ToolContext) (any, error) {
		var params providerParams
		if err := decodeParams(tc, &params); err != nil {
			return nil, err
		}
		p, err := deps.providerFor(tc.User.ID, tc.TenantID, params.Provider)
		if err != nil {
			return nil, err
		}
		return p.GetAthlete(tc.Context)
	}
}

func getStats(deps Deps) func(executor.ToolContext) (any, error) {
	return func(tc executor.ToolContext) (any, error) {
		var params providerParams
		if err := decodeParams(tc, &params); err != nil {
			return nil, err
		}
		p, err := deps.providerFor(tc.User.ID, tc.TenantID, params.Provider)
		if err != nil {
			return nil, err
		}
		return p.GetStats(tc.Context)
	}
}
