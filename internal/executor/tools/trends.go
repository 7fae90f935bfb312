package tools

import (
	"sort"
	"time"

	"github.com/pierre-mcp/pierre/internal/apperr"
	"github.com/pierre-mcp/pierre/internal/executor"
	"github.com/pierre-mcp/pierre/internal/intelligence/recommendation"
	"github.com/pierre-mcp/pierre/internal/intelligence/trainingload"
	"github.com/pierre-mcp/pierre/internal/intelligence/trends"
	"github.com/pierre-mcp/pierre/internal/providers"
)

func trendMetricProp() map[string]any {
	return map[string]any{
		"type": "string",
		"enum": []string{"duration_sec", "distance_meters"},
	}
}

var trendParamsSchema = mustSchema(map[string]any{
	"provider": providerProp(),
	"metric":   trendMetricProp(),
}, "provider")

var predictPerformanceSchema = mustSchema(map[string]any{
	"provider": providerProp(),
	"metric":   trendMetricProp(),
	"days_out": map[string]any{"type": "integer", "description": "Number of days forward to project the fitted trend line."},
}, "provider", "days_out")

func registerTrendTools(ex *executor.Executor, deps Deps) {
	ex.Register(executor.Tool{
		Name:        "analyze_performance_trends",
		Description: "Fits a trend line to a chosen metric across a provider's recent activity history.",
		Schema:      trendParamsSchema,
		Execute:     analyzePerformanceTrends(deps),
	})
	ex.Register(executor.Tool{
		Name:        "detect_patterns",
		Description: "Alias for analyze_training_load, named for pattern-detection style callers.",
		Schema:      providerOnlySchema,
		Execute:     analyzeTrainingLoad(deps),
	})
	ex.Register(executor.Tool{
		Name:        "analyze_training_load",
		Description: "Detects volume-spike, insufficient-recovery, and monotony signals over recent activities.",
		Schema:      providerOnlySchema,
		Execute:     analyzeTrainingLoad(deps),
	})
	ex.Register(executor.Tool{
		Name:        "generate_recommendations",
		Description: "Combines training-load and trend analysis into a prioritized recommendation list.",
		Schema:      trendParamsSchema,
		Execute:     generateRecommendations(deps),
	})
	ex.Register(executor.Tool{
		Name:        "predict_performance",
		Description: "Projects a metric's trend line forward to estimate near-term values.",
		Schema:      predictPerformanceSchema,
		Execute:     predictPerformance(deps),
	})
}

type trendParams struct {
	Provider string `json:"provider"`
	Metric   string `json:"metric"` // "duration_sec" or "distance_meters"
}

func fetchAllActivities(tc executor.ToolContext, deps Deps, provider string) ([]providers.Activity, error) {
	p, err := deps.providerFor(tc.User.ID, tc.TenantID, provider)
	if err != nil {
		return nil, err
	}

	var all []providers.Activity
	cursor := ""
	for {
		page, err := p.GetActivitiesCursor(tc.Context, providers.PaginationParams{Cursor: cursor, Limit: providers.MaxPageSize})
		if err != nil {
			return nil, err
		}
		all = append(all, page.Items...)
		if !page.HasMore || page.NextCursor == "" {
			break
		}
		cursor = page.NextCursor
	}
	return all, nil
}

func trendPoints(activities []providers.Activity, metric string) ([]trends.Point, error) {
	sorted := append([]providers.Activity(nil), activities...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].StartTime.Before(sorted[j].StartTime) })

	points := make([]trends.Point, len(sorted))
	for i, a := range sorted {
		var value float64
		switch metric {
		case "distance_meters":
			value = a.DistanceMeters
		case "duration_sec", "":
			value = float64(a.DurationSec)
		default:
			return nil, apperr.New(apperr.KindValidation, "unknown metric "+metric)
		}
		points[i] = trends.Point{When: a.StartTime, Value: value}
	}
	return points, nil
}

func trainingLoadSamples(activities []providers.Activity) []trainingload.ActivitySample {
	samples := make([]trainingload.ActivitySample, len(activities))
	for i, a := range activities {
		samples[i] = trainingload.ActivitySample{
			StartTime:   a.StartTime,
			DurationSec: a.DurationSec,
			Sport:       a.Sport,
			DistanceM:   a.DistanceMeters,
		}
	}
	return samples
}

func analyzePerformanceTrends(deps Deps) func(executor.ToolContext) (any, error) {
	return func(tc executor.ToolContext) (any, error) {
		var params trendParams
		if err := decodeParams(tc, &params); err != nil {
			return nil, err
		}
		activities, err := fetchAllActivities(tc, deps, params.Provider)
		if err != nil {
			return nil, err
		}
		points, err := trendPoints(activities, params.Metric)
		if err != nil {
			return nil, err
		}
		return trends.Analyze(deps.IntelConfig().PerformanceAnalyzer, points), nil
	}
}

func analyzeTrainingLoad(deps Deps) func(executor.ToolContext) (any, error) {
	return func(tc executor.ToolContext) (any, error) {
		var params providerParams
		if err := decodeParams(tc, &params); err != nil {
			return nil, err
		}
		activities, err := fetchAllActivities(tc, deps, params.Provider)
		if err != nil {
			return nil, err
		}
		return trainingload.Detect(trainingLoadSamples(activities), time.Now()), nil
	}
}

func generateRecommendations(deps Deps) func(executor.ToolContext) (any, error) {
	return func(tc executor.ToolContext) (any, error) {
		var params trendParams
		if err := decodeParams(tc, &params); err != nil {
			return nil, err
		}
		activities, err := fetchAllActivities(tc, deps, params.Provider)
		if err != nil {
			return nil, err
		}
		points, err := trendPoints(activities, params.Metric)
		if err != nil {
			return nil, err
		}
		load := trainingload.Detect(trainingLoadSamples(activities), time.Now())
		trend := trends.Analyze(deps.IntelConfig().PerformanceAnalyzer, points)
		return recommendation.Generate(load, trend), nil
	}
}

type predictPerformanceResult struct {
	Trend     trends.Result `json:"trend"`
	Projected float64       `json:"projected_value"`
	DaysOut   int            `json:"days_out"`
}

type predictPerformanceParams struct {
	Provider string `json:"provider"`
	Metric   string `json:"metric"`
	DaysOut  int    `json:"days_out"`
}

func predictPerformance(deps Deps) func(executor.ToolContext) (any, error) {
	return func(tc executor.ToolContext) (any, error) {
		var params predictPerformanceParams
		if err := decodeParams(tc, &params); err != nil {
			return nil, err
		}
		activities, err := fetchAllActivities(tc, deps, params.Provider)
		if err != nil {
			return nil, err
		}
		points, err := trendPoints(activities, params.Metric)
		if err != nil {
			return nil, err
		}
		result := trends.Analyze(deps.IntelConfig().PerformanceAnalyzer, points)
		if result.InsufficientData || len(points) == 0 {
			return predictPerformanceResult{Trend: result, DaysOut: params.DaysOut}, nil
		}

		last := points[len(points)-1]
		projected := last.Value + result.Slope*float64(params.DaysOut)
		return predictPerformanceResult{Trend: result, Projected: projected, DaysOut: params.DaysOut}, nil
	}
}
