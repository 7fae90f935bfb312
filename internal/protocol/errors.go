package protocol

import "github.com/pierre-mcp/pierre/internal/apperr"

// CodeForKind maps an apperr.Kind to its JSON-RPC error code. Unrecognized
// kinds fall back to CodeInternalError.
func CodeForKind(kind apperr.Kind) int {
	switch kind {
	case apperr.KindValidation:
		return CodeInvalidParams
	case apperr.KindAuthentication, apperr.KindTokenExpired, apperr.KindCSRF:
		return CodeUnauthenticated
	case apperr.KindAuthorization, apperr.KindTenantIsolation:
		return CodePermissionDenied
	case apperr.KindNotFound:
		return CodeNotFound
	case apperr.KindConflict:
		return CodeConflict
	case apperr.KindRateLimited:
		return CodeRateLimited
	case apperr.KindProviderAuth:
		return CodeProviderUnauthorized
	case apperr.KindProviderError:
		return CodeInternalError
	default:
		return CodeInternalError
	}
}
