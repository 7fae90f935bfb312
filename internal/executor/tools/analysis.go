package tools

import (
	"github.com/pierre-mcp/pierre/internal/executor"
	"github.com/pierre-mcp/pierre/internal/intelligence/metrics"
)

var analyzeActivitySchema = mustSchema(map[string]any{
	"provider":     providerProp(),
	"activity_id":  map[string]any{"type": "string", "description": "Provider-native activity identifier."},
	"ftp":          map[string]any{"type": "number", "description": "Functional threshold power in watts, for power-based TSS."},
	"threshold_hr": map[string]any{"type": "number", "description": "Lactate threshold heart rate, for HR-based TSS fallback."},
}, "provider", "activity_id")

var calculateMetricsSchema = mustSchema(map[string]any{
	"duration_sec":     map[string]any{"type": "integer", "description": "Effort duration in seconds."},
	"normalized_power": map[string]any{"type": "number", "description": "Normalized power in watts, if available."},
	"ftp":              map[string]any{"type": "number", "description": "Functional threshold power in watts."},
	"average_hr":       map[string]any{"type": "number", "description": "Average heart rate, if power data is unavailable."},
	"threshold_hr":     map[string]any{"type": "number", "description": "Lactate threshold heart rate."},
}, "duration_sec")

var calculateFitnessScoreSchema = mustSchema(map[string]any{
	"ctl":               map[string]any{"type": "number", "description": "Chronic training load (fitness)."},
	"atl":               map[string]any{"type": "number", "description": "Acute training load (fatigue)."},
	"consistency_ratio": map[string]any{"type": "number", "description": "Fraction of planned sessions completed, 0-1."},
}, "ctl", "atl", "consistency_ratio")

func registerAnalysisTools(ex *executor.Executor, deps Deps) {
	ex.Register(executor.Tool{
		Name:        "analyze_activity",
		Description: "Fetches one activity and returns its raw and derived metrics.",
		Schema:      analyzeActivitySchema,
		Execute:     analyzeActivity(deps),
	})
	ex.Register(executor.Tool{
		Name:        "calculate_metrics",
		Description: "Computes Training Stress Score for a single effort.",
		Schema:      calculateMetricsSchema,
		Execute:     calculateMetrics(deps),
	})
	ex.Register(executor.Tool{
		Name:        "calculate_fitness_score",
		Description: "Blends chronic training load, freshness, and consistency into one 0-100 score.",
		Schema:      calculateFitnessScoreSchema,
		Execute:     calculateFitnessScore(deps),
	})
}

type analyzeActivityParams struct {
	Provider   string  `json:"provider"`
	ActivityID string  `json:"activity_id"`
	FTP        float64 `json:"ftp"`
	ThresholdHR float64 `json:"threshold_hr"`
}

type analyzeActivityResult struct {
	Activity any     `json:"activity"`
	TSS      float64 `json:"tss"`
}

func analyzeActivity(deps Deps) func(executor.ToolContext) (any, error) {
	return func(tc executor.ToolContext) (any, error) {
		var params analyzeActivityParams
		if err := decodeParams(tc, &params); err != nil {
			return nil, err
		}
		p, err := deps.providerFor(tc.User.ID, tc.TenantID, params.Provider)
		if err != nil {
			return nil, err
		}
		activity, err := p.GetActivity(tc.Context, params.ActivityID)
		if err != nil {
			return nil, err
		}

		algoCfg := deps.IntelConfig().Algorithms
		in := metrics.TSSInput{DurationSec: activity.DurationSec, FTP: params.FTP, ThresholdHR: params.ThresholdHR}
		if activity.AveragePower != nil {
			in.NormalizedPower = *activity.AveragePower
		}
		if activity.AverageHR != nil {
			in.AverageHR = float64(*activity.AverageHR)
		}
		tss, err := metrics.CalculateTSS(algoCfg, in)
		if err != nil {
			return nil, err
		}

		return analyzeActivityResult{Activity: activity, TSS: tss}, nil
	}
}

type calculateMetricsParams struct {
	DurationSec     int     `json:"duration_sec"`
	NormalizedPower float64 `json:"normalized_power"`
	FTP             float64 `json:"ftp"`
	AverageHR       float64 `json:"average_hr"`
	ThresholdHR     float64 `json:"threshold_hr"`
}

func calculateMetrics(deps Deps) func(executor.ToolContext) (any, error) {
	return func(tc executor.ToolContext) (any, error) {
		var params calculateMetricsParams
		if err := decodeParams(tc, &params); err != nil {
			return nil, err
		}
		algoCfg := deps.IntelConfig().Algorithms
		tss, err := metrics.CalculateTSS(algoCfg, metrics.TSSInput{
			DurationSec:     params.DurationSec,
			NormalizedPower: params.NormalizedPower,
			FTP:             params.FTP,
			AverageHR:       params.AverageHR,
			ThresholdHR:     params.ThresholdHR,
		})
		if err != nil {
			return nil, err
		}
		return map[string]float64{"tss": tss}, nil
	}
}

type calculateFitnessScoreParams struct {
	CTL              float64 `json:"ctl"`
	ATL              float64 `json:"atl"`
	ConsistencyRatio float64 `json:"consistency_ratio"`
}

func calculateFitnessScore(deps Deps) func(executor.ToolContext) (any, error) {
	return func(tc executor.ToolContext) (any, error) {
		var params calculateFitnessScoreParams
		if err := decodeParams(tc, &params); err != nil {
			return nil, err
		}
		score := metrics.CalculateFitnessScore(metrics.FitnessScoreInput{
			CTL: params.CTL, ATL: params.ATL, ConsistencyRatio: params.ConsistencyRatio,
		})
		return map[string]float64{"fitness_score": score}, nil
	}
}
