// Package recommendation implements a recommendation engine:
// given detected training-load patterns and performance trends, it selects
// and instantiates recommendation templates. Deterministic: same inputs
// always produce the same output, in the same order.
package recommendation

import (
	"fmt"

	"github.com/pierre-mcp/pierre/internal/intelligence/trainingload"
	"github.com/pierre-mcp/pierre/internal/intelligence/trends"
)

// Priority ranks a recommendation's urgency.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Recommendation is one instantiated template.
type Recommendation struct {
	Title          string
	Priority       Priority
	ActionableSteps []string
}

// template is a named recommendation body with placeholder-free actionable
// steps, selected by a trigger predicate over the detected signals.
type template struct {
	key      string
	title    string
	priority Priority
	steps    []string
}

var templates = []template{
	{
		key:      "volume_spike",
		title:    "Recent training volume increased sharply",
		priority: PriorityHigh,
		steps: []string{
			"reduce next week's total duration by 20-30%",
			"prioritize easy-intensity sessions for the next 3-4 days",
			"monitor resting heart rate and HRV for elevated stress markers",
		},
	},
	{
		key:      "insufficient_recovery",
		title:    "Consecutive training days without rest",
		priority: PriorityHigh,
		steps: []string{
			"schedule a full rest day within the next 48 hours",
			"avoid back-to-back high-intensity sessions this week",
		},
	},
	{
		key:      "monotony",
		title:    "Training lacks variety in sport and intensity",
		priority: PriorityMedium,
		steps: []string{
			"introduce a cross-training session this week",
			"vary session distance/duration to raise training stimulus variety",
		},
	},
	{
		key:      "declining_trend",
		title:    "Performance trend is declining",
		priority: PriorityMedium,
		steps: []string{
			"review recent recovery quality (sleep, HRV) for a contributing cause",
			"consider a deload week before resuming progression",
		},
	},
	{
		key:      "improving_trend",
		title:    "Performance trend is improving",
		priority: PriorityLow,
		steps: []string{
			"maintain current training structure",
			"consider a modest progression in volume or intensity next block",
		},
	},
}

func templateByKey(key string) template {
	for _, t := range templates {
		if t.key == key {
			return t
		}
	}
	panic(fmt.Sprintf("recommendation: unknown template key %q", key))
}

// Generate selects templates whose trigger conditions are met by load and
// trend, in a fixed, deterministic order.
func Generate(load trainingload.Result, trend trends.Result) []Recommendation {
	var out []Recommendation

	if !load.InsufficientData {
		if load.VolumeSpikeSeverity != trainingload.SeverityNone && load.VolumeSpikeSeverity != "" {
			out = append(out, instantiate(templateByKey("volume_spike"), load.VolumeSpikeSeverity))
		}
		if load.InsufficientRecoverySeverity != trainingload.SeverityNone && load.InsufficientRecoverySeverity != "" {
			out = append(out, instantiate(templateByKey("insufficient_recovery"), load.InsufficientRecoverySeverity))
		}
		if load.MonotonySeverity != trainingload.SeverityNone && load.MonotonySeverity != "" {
			out = append(out, instantiate(templateByKey("monotony"), load.MonotonySeverity))
		}
	}

	if !trend.InsufficientData {
		switch trend.Direction {
		case trends.DirectionDeclining:
			out = append(out, instantiateAt(templateByKey("declining_trend"), PriorityMedium))
		case trends.DirectionImproving:
			out = append(out, instantiateAt(templateByKey("improving_trend"), PriorityLow))
		}
	}

	return out
}

func instantiate(t template, severity trainingload.Severity) Recommendation {
	priority := t.priority
	if severity == trainingload.SeverityMedium && priority == PriorityHigh {
		priority = PriorityMedium
	}
	return instantiateAt(t, priority)
}

func instantiateAt(t template, priority Priority) Recommendation {
	return Recommendation{Title: t.title, Priority: priority, ActionableSteps: t.steps}
}
