package tools

import (
	"encoding/json"

	"github.com/pierre-mcp/pierre/internal/apperr"
	"github.com/pierre-mcp/pierre/internal/executor"
)

// decodeParams unmarshals tc.Parameters into out, mapping decode failures to
// InvalidParameters.
func decodeParams(tc executor.ToolContext, out any) error {
	if len(tc.Parameters) == 0 {
		return apperr.New(apperr.KindValidation, "missing parameters")
	}
	if err := json.Unmarshal(tc.Parameters, out); err != nil {
		return apperr.Wrap(apperr.KindValidation, "invalid parameters", err)
	}
	return nil
}
