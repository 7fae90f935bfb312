package providers

import "github.com/pierre-mcp/pierre/internal/apperr"

// Wrap the uniform provider-error vocabulary onto apperr's Kind system so
// every adapter surfaces the same four shapes regardless of upstream.

func errNotFound(provider, msg string) error {
	return apperr.New(apperr.KindNotFound, provider+": "+msg)
}

func errUnauthorized(provider string, cause error) error {
	return apperr.Wrap(apperr.KindProviderAuth, provider+": unauthorized", cause)
}

func errRateLimited(provider string) error {
	return apperr.New(apperr.KindRateLimited, provider+": rate limited")
}

func errUpstream(provider string, cause error) error {
	return apperr.Wrap(apperr.KindProviderError, provider+": upstream error", cause)
}
