// Package executor is the Universal Tool Executor: one transport-neutral
// dispatcher that turns a UniversalRequest into an invocation of exactly one
// registered Tool, regardless of whether the caller arrived over MCP, REST,
// or A2A.
package executor

import (
	"encoding/json"

	"github.com/pierre-mcp/pierre/internal/apperr"
)

// UniversalRequest is the transport-neutral envelope every protocol adapter
// normalizes into before handing off to the executor.
type UniversalRequest struct {
	ToolName         string
	Parameters       json.RawMessage
	UserID           string
	Protocol         string
	TenantID         string
	ProgressToken    string
	CancellationToken <-chan struct{}
}

// UniversalResponse is the transport-neutral result every protocol adapter
// re-encodes into its own wire shape.
type UniversalResponse struct {
	Success   bool            `json:"success"`
	Result    json.RawMessage `json:"result,omitempty"`
	Error     string          `json:"error,omitempty"`
	ErrorKind apperr.Kind     `json:"error_kind,omitempty"`
	Metadata  map[string]any  `json:"metadata,omitempty"`
}

func successResponse(result any) UniversalResponse {
	raw, err := json.Marshal(result)
	if err != nil {
		return UniversalResponse{Success: false, Error: "encoding result: " + err.Error(), ErrorKind: apperr.KindInternal}
	}
	return UniversalResponse{Success: true, Result: raw}
}

func errorResponse(err error) UniversalResponse {
	return UniversalResponse{Success: false, Error: err.Error(), ErrorKind: apperr.KindOf(err)}
}
