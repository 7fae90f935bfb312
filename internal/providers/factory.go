package providers

import (
	"time"

	"github.com/pierre-mcp/pierre/internal/apperr"
)

// New builds the adapter for name. terraUserID is only consulted for the
// "terra" provider, which is keyed by Terra's own user id rather than
// Pierre's; it is ignored for every other provider.
func New(name string, tokens TokenSource, terraUserID string) (Provider, error) {
	switch name {
	case "strava":
		return NewStravaProvider(tokens), nil
	case "fitbit":
		return NewFitbitProvider(tokens), nil
	case "garmin":
		return NewGarminProvider(tokens), nil
	case "whoop":
		return NewWhoopProvider(tokens), nil
	case "terra":
		return NewTerraProvider(tokens, terraUserID), nil
	case "synthetic":
		return NewSyntheticProvider(time.Now()), nil
	default:
		return nil, apperr.New(apperr.KindConfig, "unknown provider "+name)
	}
}
