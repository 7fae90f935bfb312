package tools

import (
	"encoding/json"

	"github.com/pierre-mcp/pierre/internal/intelligence/goals"
	"github.com/pierre-mcp/pierre/internal/providers"
)

// mustSchema marshals a hand-built JSON Schema document for a tool's
// inputSchema. Property order isn't semantically meaningful to a client, so
// plain map literals are fine; the error path is unreachable for the static
// literals this file builds.
func mustSchema(properties map[string]any, required ...string) json.RawMessage {
	doc := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		doc["required"] = required
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		panic(err)
	}
	return raw
}

func providerProp() map[string]any {
	return map[string]any{
		"type":        "string",
		"description": "Fitness data provider identifier.",
		"enum":        providers.Names,
	}
}

func goalKindProp() map[string]any {
	return map[string]any{
		"type": "string",
		"enum": []goals.Kind{goals.KindDistance, goals.KindTime, goals.KindFrequency, goals.KindPerformance, goals.KindCustom},
	}
}

var providerOnlySchema = mustSchema(map[string]any{
	"provider": providerProp(),
}, "provider")
