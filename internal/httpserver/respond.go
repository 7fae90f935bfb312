package httpserver

import (
	"encoding/json"
	"net/http"

	"github.com/pierre-mcp/pierre/internal/apperr"
)

// Respond writes data as a JSON body with the given status code.
func Respond(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// ErrorResponse is the JSON shape of every error Pierre's REST surface
// returns.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// RespondError writes an ErrorResponse with the given status code.
func RespondError(w http.ResponseWriter, status int, errStr, message string) {
	Respond(w, status, ErrorResponse{Error: errStr, Message: message})
}

// statusForKind maps an apperr.Kind to the HTTP status a REST client should
// see for it.
func statusForKind(kind apperr.Kind) int {
	switch kind {
	case apperr.KindValidation:
		return http.StatusBadRequest
	case apperr.KindAuthentication, apperr.KindTokenExpired, apperr.KindCSRF:
		return http.StatusUnauthorized
	case apperr.KindAuthorization, apperr.KindTenantIsolation:
		return http.StatusForbidden
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindConflict:
		return http.StatusConflict
	case apperr.KindRateLimited:
		return http.StatusTooManyRequests
	case apperr.KindProviderError, apperr.KindProviderAuth:
		return http.StatusBadGateway
	case apperr.KindUnavailable:
		return http.StatusServiceUnavailable
	case apperr.KindConfig, apperr.KindInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// RespondAppErr maps err's apperr.Kind to an HTTP status and writes it as an
// ErrorResponse. Unwrapped errors default to KindInternal via apperr.KindOf.
func RespondAppErr(w http.ResponseWriter, err error) {
	kind := apperr.KindOf(err)
	RespondError(w, statusForKind(kind), string(kind), err.Error())
}
